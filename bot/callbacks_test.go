package bot

import (
	"testing"

	"tavernserver/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCallback(t *testing.T) {
	cases := []struct {
		name string
		data string
		want Event
	}{
		{"トーナメント選択", "tournament:select:42", Event{Kind: EventSelectTournament, TournamentID: 42}},
		{"デッキ選択", "deck:select:Mage", Event{Kind: EventSelectDeck, ClassID: "Mage"}},
		{"キャンセル", "enroll:cancel", Event{Kind: EventCancel}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseCallback(tc.data)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseCallbackRejectsMalformedData(t *testing.T) {
	cases := []struct {
		name string
		data string
	}{
		{"空文字列", ""},
		{"未知のコールバック", "bribe:accept:1"},
		{"IDが数値でない", "tournament:select:abc"},
		{"IDが負数", "tournament:select:-1"},
		{"クラスが空", "deck:select:"},
		{"キャンセルに余計な部分", "enroll:cancel:now"},
		{"セグメント不足", "tournament:select"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseCallback(tc.data)
			assert.ErrorIs(t, err, models.ErrValidation)
		})
	}
}
