package hearthstone

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogHasNineClasses(t *testing.T) {
	require.Len(t, DeckClasses, 9)

	seen := make(map[string]bool)
	for _, d := range DeckClasses {
		assert.NotEmpty(t, d.ID)
		assert.NotEmpty(t, d.Title)
		assert.False(t, seen[d.ID], "duplicate class id %s", d.ID)
		seen[d.ID] = true
	}
}

func TestFind(t *testing.T) {
	d, ok := Find("Druid")
	require.True(t, ok)
	assert.Equal(t, "Druid", d.ID)
	assert.Equal(t, "ドルイド", d.Title)

	_, ok = Find("DeathKnight")
	assert.False(t, ok)
}

func TestTitleUnknownClass(t *testing.T) {
	assert.Equal(t, "メイジ", Title("Mage"))
	assert.Equal(t, "＜不明なヒーロークラス＞", Title("Pirate"))
}

func TestRemainingPreservesCatalogOrder(t *testing.T) {
	rest := Remaining([]string{"Mage", "Druid"})
	require.Len(t, rest, 7)

	// 選択済みが除かれ、残りはカタログ順のまま
	assert.Equal(t, "Paladin", rest[0].ID)
	for _, d := range rest {
		assert.NotEqual(t, "Druid", d.ID)
		assert.NotEqual(t, "Mage", d.ID)
	}
}

func TestRemainingEmptySelection(t *testing.T) {
	rest := Remaining(nil)
	require.Len(t, rest, len(DeckClasses))
}
