package handlers

import (
	"net/http"
	"strings"

	"tavernserver/middlewares"
	"tavernserver/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Register は新規ユーザーを登録します。ログインIDとバトルタグは一意です。
func Register(c *gin.Context, db *gorm.DB, logger *zap.Logger) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "validation_error", "error": "リクエストボディが不正です"})
		return
	}

	var exists models.User
	if err := db.Where("login = ?", req.Login).First(&exists).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"status": "conflict", "error": "このログインIDは既に使われています"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		logger.Error("Failed to hash password", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"status": "internal_error", "error": "登録に失敗しました"})
		return
	}

	user := models.User{
		Login:     req.Login,
		FIO:       req.FIO,
		Role:      models.RoleUser,
		Hash:      string(hash),
		BattleTag: req.BattleTag,
		ChatID:    req.ChatID,
	}
	if err := db.Create(&user).Error; err != nil {
		logger.Error("Failed to create user", zap.Error(err))
		c.JSON(http.StatusConflict, gin.H{"status": "conflict", "error": "ユーザー登録に失敗しました"})
		return
	}
	c.JSON(http.StatusNoContent, nil)
}

// Login は認証に成功したユーザーへJWTトークンを発行します。
func Login(c *gin.Context, db *gorm.DB, logger *zap.Logger) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "validation_error", "error": "リクエストボディが不正です"})
		return
	}

	var user models.User
	if err := db.Where("login = ?", req.Login).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"status": "unauthorized", "error": "ログインIDまたはパスワードが違います"})
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Hash), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"status": "unauthorized", "error": "ログインIDまたはパスワードが違います"})
		return
	}

	token, err := middlewares.GenerateToken(user.ID, user.Role)
	if err != nil {
		logger.Error("Failed to generate token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"status": "internal_error", "error": "トークンの発行に失敗しました"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "token": token, "user": userView(&user)})
}

// Profile は自分のユーザー情報を返します。
func Profile(c *gin.Context, db *gorm.DB, logger *zap.Logger) {
	userID := c.GetUint("userID")
	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"status": "not_found", "error": "ユーザーが見つかりません"})
		return
	}
	c.JSON(http.StatusOK, userView(&user))
}

// UserList は全ユーザーの一覧を返します（ハッシュは含めません）。
func UserList(c *gin.Context, db *gorm.DB, logger *zap.Logger) {
	var users []models.User
	if err := db.Find(&users).Error; err != nil {
		logger.Error("Failed to list users", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"status": "internal_error", "error": "一覧の取得に失敗しました"})
		return
	}
	out := make([]gin.H, 0, len(users))
	for i := range users {
		out = append(out, userView(&users[i]))
	}
	c.JSON(http.StatusOK, out)
}

// UserSearch は表示名の部分一致でユーザーを検索します。roleクエリで絞り込み可能。
func UserSearch(c *gin.Context, db *gorm.DB, logger *zap.Logger) {
	term := strings.ToLower(c.Param("term"))
	role := c.Query("role")

	var users []models.User
	if err := db.Find(&users).Error; err != nil {
		logger.Error("Failed to search users", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"status": "internal_error", "error": "検索に失敗しました"})
		return
	}

	out := make([]gin.H, 0)
	for i := range users {
		if !strings.Contains(strings.ToLower(users[i].FIO), term) {
			continue
		}
		if role != "" && users[i].Role != role {
			continue
		}
		out = append(out, userView(&users[i]))
	}
	c.JSON(http.StatusOK, out)
}

// UserDelete はユーザーと、そのユーザーが作成したトーナメントを削除します（管理者のみ）。
func UserDelete(c *gin.Context, db *gorm.DB, logger *zap.Logger) {
	var user models.User
	if err := db.First(&user, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"status": "not_found", "error": "ユーザーが見つかりません"})
		return
	}

	if err := db.Where("user_id = ?", user.ID).Delete(&models.Tournament{}).Error; err != nil {
		logger.Error("Failed to delete user's tournaments", zap.Error(err))
	}
	if err := db.Delete(&user).Error; err != nil {
		logger.Error("Failed to delete user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"status": "internal_error", "error": "削除に失敗しました"})
		return
	}
	c.JSON(http.StatusNoContent, nil)
}

func userView(u *models.User) gin.H {
	return gin.H{
		"id":        u.ID,
		"login":     u.Login,
		"fio":       u.FIO,
		"role":      u.Role,
		"battleTag": u.BattleTag,
		"chatId":    u.ChatID,
	}
}
