package models

import (
	"strings"

	"gorm.io/gorm"
)

// Member は参加登録が完了したユーザーのデッキプールを表します。
// DeckListは選択順を保持したカンマ区切りのクラスID列です。
type Member struct {
	gorm.Model
	TournamentID uint   `gorm:"not null;index;uniqueIndex:idx_member_tournament_user"`
	UserID       uint   `gorm:"not null;uniqueIndex:idx_member_tournament_user"`
	DeckList     string `gorm:"type:text;not null"`
}

// Decks はDeckListを選択順のスライスに展開します。
func (m *Member) Decks() []string {
	return SplitDeckList(m.DeckList)
}

// SetDecks はスライスをDeckListに格納します（順序維持）。
func (m *Member) SetDecks(decks []string) {
	m.DeckList = JoinDeckList(decks)
}

// JoinDeckList はクラスID列をカンマ区切りで連結します。
func JoinDeckList(decks []string) string {
	return strings.Join(decks, ",")
}

// SplitDeckList はカンマ区切りのクラスID列を展開します。空文字は空スライス。
func SplitDeckList(list string) []string {
	if list == "" {
		return nil
	}
	return strings.Split(list, ",")
}
