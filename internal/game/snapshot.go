package game

import (
	"github.com/thraizz/monster-duel/internal/game/board"
)

// BoardSnapshot is the public view of one player's board.
type BoardSnapshot struct {
	Player         string                    `json:"player"`
	LifePoints     int                       `json:"life_points"`
	TotalEnergy    int                       `json:"total_energy"`
	UntappedEnergy int                       `json:"untapped_energy"`
	HandSize       int                       `json:"hand_size"`
	DeckSize       int                       `json:"deck_size"`
	Monsters       [board.MaxMonsters]string `json:"monsters"`
	Spells         [board.MaxSpells]string   `json:"spells"`
}

// MatchSnapshot is both boards at a point of the match, in player order.
type MatchSnapshot struct {
	Turn         int             `json:"turn"`
	ActivePlayer string          `json:"active_player"`
	Phase        string          `json:"phase"`
	Step         string          `json:"step"`
	Boards       []BoardSnapshot `json:"boards"`
}

// Board returns the snapshot of player's board.
func (s *MatchSnapshot) Board(player string) (BoardSnapshot, bool) {
	for _, b := range s.Boards {
		if b.Player == player {
			return b, true
		}
	}
	return BoardSnapshot{}, false
}

// HandSnapshot is the private view of a player's hand.
type HandSnapshot struct {
	Player string   `json:"player"`
	Cards  []string `json:"cards"`
}

// PromptEcho mirrors a question put to a player.
type PromptEcho struct {
	Player  string   `json:"player"`
	Kind    string   `json:"kind"`
	Prompt  string   `json:"prompt"`
	Options []string `json:"options,omitempty"`
}

func snapshotBoard(player string, b *board.Board) BoardSnapshot {
	return BoardSnapshot{
		Player:         player,
		LifePoints:     b.LifePoints(),
		TotalEnergy:    b.TotalEnergy(),
		UntappedEnergy: b.NumEnergyUntapped(),
		HandSize:       b.HandSize(),
		DeckSize:       b.Deck().Len(),
		Monsters:       b.MonsterViews(),
		Spells:         b.SpellViews(),
	}
}

func snapshotHand(player string, b *board.Board) HandSnapshot {
	return HandSnapshot{Player: player, Cards: b.HandView()}
}
