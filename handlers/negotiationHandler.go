package handlers

import (
	"net/http"
	"strconv"

	"tavernserver/models"
	"tavernserver/negotiation"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NegotiationCreate は対戦カードのBAN交渉を作成します。
func NegotiationCreate(c *gin.Context, svc *negotiation.Service, logger *zap.Logger) {
	var req models.NegotiationCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "validation_error", "error": "リクエストボディが不正です"})
		return
	}

	b, err := svc.Create(c.Request.Context(), req.TournamentID, req.GamerID, req.OpponentID, req.Round)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "negotiation": banRequestView(b)})
}

// NegotiationBan は一方のサイドのBAN送信を処理します。
func NegotiationBan(c *gin.Context, svc *negotiation.Service, logger *zap.Logger) {
	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "validation_error", "error": "IDが不正です"})
		return
	}

	var req models.SubmitBanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "validation_error", "error": "リクエストボディが不正です"})
		return
	}

	b, err := svc.SubmitBan(c.Request.Context(), id, models.Side(req.Side), req.ClassID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "negotiation": banRequestView(b)})
}

// NegotiationResult は対戦結果の報告を記録します。
func NegotiationResult(c *gin.Context, svc *negotiation.Service, logger *zap.Logger) {
	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "validation_error", "error": "IDが不正です"})
		return
	}

	var req models.ReportResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "validation_error", "error": "リクエストボディが不正です"})
		return
	}

	if err := svc.ReportResult(c.Request.Context(), id, models.Side(req.Side), req.Text); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// NegotiationList は指定バトルタグが関与する交渉を新しい順で返します。
func NegotiationList(c *gin.Context, svc *negotiation.Service, logger *zap.Logger) {
	tournamentID, err := strconv.ParseUint(c.Query("tournamentId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "validation_error", "error": "tournamentIdが不正です"})
		return
	}
	battleTag := c.Query("battleTag")

	list, err := svc.ListForUser(c.Request.Context(), uint(tournamentID), battleTag)
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]gin.H, 0, len(list))
	for i := range list {
		out = append(out, banRequestView(&list[i]))
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "negotiations": out})
}

func parseID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	return uint(id), err
}

func banRequestView(b *models.BanRequest) gin.H {
	return gin.H{
		"id":           b.ID,
		"tournamentId": b.TournamentID,
		"round":        b.Round,
		"resolved":     b.Resolved(),
		"createdAt":    b.CreatedAt,
		"gamer": gin.H{
			"battleTag":  b.GamerBattleTag,
			"deckList":   b.PoolFor(models.SideGamer),
			"bannedDeck": b.GamerBannedDeck,
			"resultInfo": b.GamerResultInfo,
		},
		"opponent": gin.H{
			"battleTag":  b.OpponentBattleTag,
			"deckList":   b.PoolFor(models.SideOpponent),
			"bannedDeck": b.OpponentBannedDeck,
			"resultInfo": b.OpponentResultInfo,
		},
	}
}
