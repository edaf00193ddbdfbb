package hearthstone

import (
	"testing"

	"tavernserver/models"

	"github.com/stretchr/testify/assert"
)

func TestSliceForRound(t *testing.T) {
	tournament := &models.Tournament{
		DeckCount:           4,
		DeckCountForGroup:   3,
		DeckCountForPlayoff: 4,
	}
	pool := []string{"Druid", "Mage", "Paladin", "Priest"}

	tests := []struct {
		name  string
		round string
		want  []string
	}{
		{"group round takes the first deckCountForGroup picks", RoundGroup, []string{"Druid", "Mage", "Paladin"}},
		{"playoff round takes the first deckCountForPlayoff picks", RoundPlayoff, []string{"Druid", "Mage", "Paladin", "Priest"}},
		{"no round means no slicing", "", []string{"Druid", "Mage", "Paladin", "Priest"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SliceForRound(pool, tt.round, tournament))
		})
	}
}

func TestSliceForRoundClampsToPoolLength(t *testing.T) {
	tournament := &models.Tournament{DeckCountForGroup: 10}
	pool := []string{"Rogue", "Hunter"}

	assert.Equal(t, pool, SliceForRound(pool, RoundGroup, tournament))
}

func TestSliceForRoundZeroCount(t *testing.T) {
	tournament := &models.Tournament{DeckCountForGroup: 0}
	pool := []string{"Rogue", "Hunter"}

	assert.Empty(t, SliceForRound(pool, RoundGroup, tournament))
}

func TestSliceForRoundDoesNotMutate(t *testing.T) {
	tournament := &models.Tournament{DeckCountForGroup: 1}
	pool := []string{"Rogue", "Hunter"}

	_ = SliceForRound(pool, RoundGroup, tournament)
	assert.Equal(t, []string{"Rogue", "Hunter"}, pool)
}
