package handlers

import (
	"errors"
	"net/http"

	"tavernserver/models"

	"github.com/gin-gonic/gin"
)

// サービス層のエラー分類をHTTPレスポンスに変換します。
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"status": "validation_error", "error": err.Error()})
	case errors.Is(err, models.ErrInvalidChoice):
		c.JSON(http.StatusBadRequest, gin.H{"status": "invalid_choice", "error": err.Error()})
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"status": "not_found", "error": err.Error()})
	case errors.Is(err, models.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"status": "conflict", "error": err.Error()})
	case errors.Is(err, models.ErrInvalidState):
		c.JSON(http.StatusConflict, gin.H{"status": "invalid_state", "error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"status": "internal_error", "error": "サーバー内部でエラーが発生しました"})
	}
}
