package models

import (
	"gorm.io/gorm"
)

// トーナメントの状態を表す（newの間のみ参加登録・編集が可能）
const (
	TournamentStatusNew      = "new"
	TournamentStatusStart    = "start"
	TournamentStatusFinished = "finished"
)

// Tournament モデルの定義
type Tournament struct {
	gorm.Model
	Title               string `gorm:"not null"`
	Status              string `gorm:"not null;default:'new'"`
	UserID              uint   // 作成した管理者のID
	DeckCount           int    `gorm:"not null"` // メンバー1人あたりの必要デッキ数
	DeckCountForGroup   int    // グループステージで使用するデッキ数
	DeckCountForPlayoff int    // プレーオフで使用するデッキ数
}
