package handlers

import (
	"net/http"
	"strconv"

	"tavernserver/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// トーナメント設定の検証。ラウンドごとのデッキ数は全体のデッキ数を超えられません。
func validateTournamentRequest(req *models.TournamentRequest) string {
	if req.DeckCount <= 0 {
		return "デッキ数は1以上で指定してください"
	}
	if req.DeckCountForGroup > req.DeckCount || req.DeckCountForPlayoff > req.DeckCount {
		return "ラウンドのデッキ数は全体のデッキ数以下で指定してください"
	}
	switch req.Status {
	case "", models.TournamentStatusNew, models.TournamentStatusStart, models.TournamentStatusFinished:
		return ""
	}
	return "不正なステータスです"
}

// TournamentAdd は新しいトーナメントを作成します。
func TournamentAdd(c *gin.Context, db *gorm.DB, logger *zap.Logger) {
	var req models.TournamentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "validation_error", "error": "リクエストボディが不正です"})
		return
	}
	if msg := validateTournamentRequest(&req); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"status": "validation_error", "error": msg})
		return
	}

	t := models.Tournament{
		Title:               req.Title,
		Status:              models.TournamentStatusNew,
		UserID:              c.GetUint("userID"),
		DeckCount:           req.DeckCount,
		DeckCountForGroup:   req.DeckCountForGroup,
		DeckCountForPlayoff: req.DeckCountForPlayoff,
	}
	if err := db.Create(&t).Error; err != nil {
		logger.Error("Failed to create tournament", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"status": "internal_error", "error": "作成に失敗しました"})
		return
	}
	c.JSON(http.StatusOK, tournamentView(&t))
}

// TournamentList はトーナメント一覧を返します。offset/limitでページング、
// userIdで作成者の絞り込みができます。
func TournamentList(c *gin.Context, db *gorm.DB, logger *zap.Logger) {
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "25"))

	query := db.Model(&models.Tournament{})
	if userID := c.Query("userId"); userID != "" {
		query = query.Where("user_id = ?", userID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		logger.Error("Failed to count tournaments", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"status": "internal_error", "error": "一覧の取得に失敗しました"})
		return
	}

	var list []models.Tournament
	if err := query.Offset(offset).Limit(limit).Order("id DESC").Find(&list).Error; err != nil {
		logger.Error("Failed to list tournaments", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"status": "internal_error", "error": "一覧の取得に失敗しました"})
		return
	}

	out := make([]gin.H, 0, len(list))
	for i := range list {
		out = append(out, tournamentView(&list[i]))
	}
	c.JSON(http.StatusOK, gin.H{"result": out, "count": count})
}

// TournamentGet は1件のトーナメントを返します。
func TournamentGet(c *gin.Context, db *gorm.DB, logger *zap.Logger) {
	var t models.Tournament
	if err := db.First(&t, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"status": "not_found", "error": "トーナメントが見つかりません"})
		return
	}
	c.JSON(http.StatusOK, tournamentView(&t))
}

// TournamentEdit はトーナメントの設定とステータスを更新します。
func TournamentEdit(c *gin.Context, db *gorm.DB, logger *zap.Logger) {
	var t models.Tournament
	if err := db.First(&t, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"status": "not_found", "error": "トーナメントが見つかりません"})
		return
	}

	var req models.TournamentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "validation_error", "error": "リクエストボディが不正です"})
		return
	}
	if msg := validateTournamentRequest(&req); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"status": "validation_error", "error": msg})
		return
	}

	t.Title = req.Title
	t.DeckCount = req.DeckCount
	t.DeckCountForGroup = req.DeckCountForGroup
	t.DeckCountForPlayoff = req.DeckCountForPlayoff
	if req.Status != "" {
		t.Status = req.Status
	}
	if err := db.Save(&t).Error; err != nil {
		logger.Error("Failed to update tournament", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"status": "internal_error", "error": "更新に失敗しました"})
		return
	}
	c.JSON(http.StatusOK, tournamentView(&t))
}

// TournamentDelete はトーナメントを削除します（管理者のみ）。
func TournamentDelete(c *gin.Context, db *gorm.DB, logger *zap.Logger) {
	var t models.Tournament
	if err := db.First(&t, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"status": "not_found", "error": "トーナメントが見つかりません"})
		return
	}
	if err := db.Delete(&t).Error; err != nil {
		logger.Error("Failed to delete tournament", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"status": "internal_error", "error": "削除に失敗しました"})
		return
	}
	c.JSON(http.StatusNoContent, nil)
}

func tournamentView(t *models.Tournament) gin.H {
	return gin.H{
		"id":                  t.ID,
		"title":               t.Title,
		"status":              t.Status,
		"deckCount":           t.DeckCount,
		"deckCountForGroup":   t.DeckCountForGroup,
		"deckCountForPlayoff": t.DeckCountForPlayoff,
		"createdAt":           t.CreatedAt,
	}
}
