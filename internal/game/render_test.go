package game

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderBoardsViewerLast(t *testing.T) {
	s := MatchSnapshot{
		Turn:         3,
		ActivePlayer: "p1",
		Phase:        "action",
		Boards: []BoardSnapshot{
			{Player: "p1", LifePoints: 7, TotalEnergy: 2, UntappedEnergy: 1, HandSize: 4, DeckSize: 20,
				Monsters: [4]string{"Mon 3 (Fire / C), untapped, attks: , buffs: "}},
			{Player: "p2", LifePoints: 10, Spells: [4]string{"Negate (Counter) tapped"}},
		},
	}

	out := RenderBoards(s, "p1")

	assert.True(t, strings.HasPrefix(out, "Turn 3, p1 to play (action)"))
	assert.Contains(t, out, "p1  LP:7  energy:1/2  hand:4  deck:20")
	assert.Contains(t, out, "Mon 3 (Fire / C)")
	assert.Contains(t, out, "Negate (Counter) tapped")
	assert.Less(t, strings.Index(out, "p2  LP"), strings.Index(out, "p1  LP"), "viewer board comes last")
	assert.Equal(t, 2, strings.Count(out, "#  Monsters"))
}

func TestRenderHand(t *testing.T) {
	out := RenderHand(HandSnapshot{Player: "p1", Cards: []string{"Energy 1 untapped", "attack: str:3 cost:1"}})
	assert.Equal(t, "Here is your hand:\n0__Energy 1 untapped\n1__attack: str:3 cost:1\n", out)
}
