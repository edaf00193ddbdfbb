package handlers

import (
	"net/http"

	"tavernserver/enroll"
	"tavernserver/hearthstone"
	"tavernserver/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// REST経由の参加登録はTelegramのチャットを持たないため、
// セッションIDを発行してチャンネルキーの代わりにします。

// EnrollStart は参加登録セッションを開始し、セッションIDと選択肢を返します。
func EnrollStart(c *gin.Context, svc *enroll.Service, logger *zap.Logger) {
	var req models.EnrollStartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "validation_error", "error": "リクエストボディが不正です"})
		return
	}

	userID := c.GetUint("userID")
	sessionID := uuid.New().String()

	prompt, err := svc.Start(c.Request.Context(), sessionID, userID, 0, req.TournamentID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":    "success",
		"sessionId": sessionID,
		"prompt":    promptView(prompt),
	})
}

// EnrollDeck はセッションにデッキ選択を追加します。必要数に達した場合は
// 登録が確定し、completedがtrueになります。
func EnrollDeck(c *gin.Context, svc *enroll.Service, logger *zap.Logger) {
	var req models.EnrollDeckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "validation_error", "error": "リクエストボディが不正です"})
		return
	}

	prompt, err := svc.SelectDeck(c.Request.Context(), req.SessionID, req.ClassID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"prompt": promptView(prompt),
	})
}

// EnrollCancel は進行中のセッションを破棄します。
func EnrollCancel(c *gin.Context, svc *enroll.Service, logger *zap.Logger) {
	var req models.EnrollCancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "validation_error", "error": "リクエストボディが不正です"})
		return
	}

	if err := svc.Cancel(c.Request.Context(), req.SessionID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

func promptView(p *enroll.Prompt) gin.H {
	remaining := make([]gin.H, 0, len(p.Remaining))
	for _, d := range p.Remaining {
		remaining = append(remaining, gin.H{"id": d.ID, "title": d.Title})
	}
	return gin.H{
		"tournamentId":   p.TournamentID,
		"completed":      p.Completed,
		"selected":       p.Selected,
		"selectedTitles": hearthstone.Titles(p.Selected),
		"remaining":      remaining,
	}
}
