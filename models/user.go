package models

import (
	"gorm.io/gorm"
)

// ユーザーのロール
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User モデルの定義
type User struct {
	gorm.Model
	Login     string `gorm:"unique;not null"` // ログインID
	FIO       string // 表示名（フルネーム）
	Role      string `gorm:"not null;default:'user'"`
	Hash      string `gorm:"not null" json:"-"` // bcryptパスワードハッシュ
	BattleTag string `gorm:"unique;not null"`   // Battle.netのバトルタグ
	ChatID    int64  // Telegramのチャット識別子（0は未連携）
}

// IsAdmin は管理者権限の有無を返します。
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
