package hearthstone

import (
	"tavernserver/models"
)

// ラウンドのラベル。ブラケット生成は外部の関心事で、ここではラベルとして扱うだけです。
const (
	RoundGroup   = "group"
	RoundPlayoff = "playoff"
)

// SliceForRound はメンバーのデッキプールから指定ラウンドで使用可能な
// 先頭k件を選択順のまま返します。kはラウンドに応じたトーナメント設定値で、
// プール長を超える場合はプール全体を返します。ラウンド未指定ならスライスしません。
// 純粋関数であり、BAN交渉のプール初期化とレポート表示の両方から再利用されます。
func SliceForRound(decks []string, round string, t *models.Tournament) []string {
	k := len(decks)
	switch round {
	case RoundGroup:
		k = t.DeckCountForGroup
	case RoundPlayoff:
		k = t.DeckCountForPlayoff
	}
	if k > len(decks) {
		k = len(decks)
	}
	if k < 0 {
		k = 0
	}
	return decks[:k]
}
