package models

import (
	"gorm.io/gorm"
)

// Side はBAN交渉における参加者の一方を指します。
// 契約上は完全に対称で、gamerは交渉を起点とした側というだけの意味です。
type Side string

const (
	SideGamer    Side = "gamer"
	SideOpponent Side = "opponent"
)

// Opposite は相手側を返します。
func (s Side) Opposite() Side {
	if s == SideGamer {
		return SideOpponent
	}
	return SideGamer
}

// Valid は既知のサイド値かどうかを返します。
func (s Side) Valid() bool {
	return s == SideGamer || s == SideOpponent
}

// BanRequest は1対戦分のBAN交渉レコードです。
// DeckListはラウンドに応じてスライス済みのプール（カンマ区切り、選択順維持）。
// BannedDeckはその側が相手プールから除外したクラスIDで、一度設定されたら
// 以後のBAN送信で上書きされることはありません。レコードは履歴として削除されません。
type BanRequest struct {
	gorm.Model
	TournamentID uint   `gorm:"not null;index"`
	Round        string // "group"、"playoff"、または空（スライスなし）

	GamerBattleTag  string `gorm:"not null"`
	GamerDeckList   string `gorm:"type:text;not null"`
	GamerBannedDeck string
	GamerChatID     int64
	GamerResultInfo string `gorm:"type:text"`

	OpponentBattleTag  string `gorm:"not null"`
	OpponentDeckList   string `gorm:"type:text;not null"`
	OpponentBannedDeck string
	OpponentChatID     int64
	OpponentResultInfo string `gorm:"type:text"`
}

// PoolFor は指定サイドのスライス済みプールを返します。
func (b *BanRequest) PoolFor(side Side) []string {
	if side == SideGamer {
		return SplitDeckList(b.GamerDeckList)
	}
	return SplitDeckList(b.OpponentDeckList)
}

// BannedDeckFor は指定サイドが送信したBANを返します（未送信なら空文字）。
func (b *BanRequest) BannedDeckFor(side Side) string {
	if side == SideGamer {
		return b.GamerBannedDeck
	}
	return b.OpponentBannedDeck
}

// SetBannedDeck は指定サイドのBANを記録します。
func (b *BanRequest) SetBannedDeck(side Side, classID string) {
	if side == SideGamer {
		b.GamerBannedDeck = classID
	} else {
		b.OpponentBannedDeck = classID
	}
}

// ChatIDFor は指定サイドの通知先チャットを返します（0は通知先なし）。
func (b *BanRequest) ChatIDFor(side Side) int64 {
	if side == SideGamer {
		return b.GamerChatID
	}
	return b.OpponentChatID
}

// BattleTagFor は指定サイドのバトルタグを返します。
func (b *BanRequest) BattleTagFor(side Side) string {
	if side == SideGamer {
		return b.GamerBattleTag
	}
	return b.OpponentBattleTag
}

// ResultInfoFor は指定サイドの結果報告を返します。
func (b *BanRequest) ResultInfoFor(side Side) string {
	if side == SideGamer {
		return b.GamerResultInfo
	}
	return b.OpponentResultInfo
}

// SetResultInfo は指定サイドの結果報告を格納します。
func (b *BanRequest) SetResultInfo(side Side, text string) {
	if side == SideGamer {
		b.GamerResultInfo = text
	} else {
		b.OpponentResultInfo = text
	}
}

// Resolved は両サイドのBANが揃ったかどうかを返します。
func (b *BanRequest) Resolved() bool {
	return b.GamerBannedDeck != "" && b.OpponentBannedDeck != ""
}
