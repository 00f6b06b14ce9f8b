package game

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/thraizz/monster-duel/internal/deck"
	"github.com/thraizz/monster-duel/internal/game/board"
	"github.com/thraizz/monster-duel/internal/game/cards"
	"github.com/thraizz/monster-duel/internal/game/decision"
	"github.com/thraizz/monster-duel/internal/game/rules"
)

// matchHarness builds hand-made boards and drives a match with scripted answers.
type matchHarness struct {
	t       *testing.T
	players []string
	boards  map[string]*board.Board
	script  *decision.Script
	events  []rules.Event
	match   *Match
}

func newMatchHarness(t *testing.T) *matchHarness {
	return &matchHarness{
		t:       t,
		players: []string{"p1", "p2"},
		boards: map[string]*board.Board{
			"p1": board.New(nil, nil),
			"p2": board.New(nil, nil),
		},
		script: decision.NewScript(),
	}
}

// withBoard replaces player's board. pile is the deck, bottom first.
func (h *matchHarness) withBoard(player string, pile []cards.Card, hand []cards.Card, opts ...board.Option) *board.Board {
	b := board.New(deck.New(pile), hand, opts...)
	h.boards[player] = b
	return b
}

// answer queues scripted answers for player.
func (h *matchHarness) answer(player string, answers ...string) *matchHarness {
	h.script.Add(player, answers...)
	return h
}

// fieldMonster puts a monster carrying attack on player's field.
func (h *matchHarness) fieldMonster(player string, m *cards.Monster, attack *cards.AttackCard) *cards.Monster {
	if attack != nil {
		require.NoError(h.t, m.Equip(attack))
	}
	require.NoError(h.t, h.boards[player].AddMonster(m))
	return m
}

// fieldSpell sets a spell on player's field.
func (h *matchHarness) fieldSpell(player string, s *cards.Spell) *cards.Spell {
	require.NoError(h.t, h.boards[player].AddSpell(s))
	return s
}

func (h *matchHarness) build(opts ...Option) *Match {
	opts = append([]Option{WithLogger(zaptest.NewLogger(h.t))}, opts...)
	m, err := NewMatch(h.players, []*board.Board{h.boards["p1"], h.boards["p2"]}, h.script, opts...)
	require.NoError(h.t, err)
	m.Bus().Subscribe(func(e rules.Event) { h.events = append(h.events, e) })
	h.match = m
	return m
}

// run plays the match to the end, capped at maxTurns.
func (h *matchHarness) run(maxTurns int, opts ...Option) *Result {
	m := h.build(append(opts, WithMaxTurns(maxTurns))...)
	res, err := m.Run(context.Background())
	require.NoError(h.t, err)
	return res
}

func (h *matchHarness) eventsOf(typ rules.EventType) []rules.Event {
	var out []rules.Event
	for _, e := range h.events {
		if e.Type == typ {
			out = append(out, e)
		}
	}
	return out
}

func (h *matchHarness) askedOf(player string) []decision.Asked {
	var out []decision.Asked
	for _, a := range h.script.Asked() {
		if a.Player == player {
			out = append(out, a)
		}
	}
	return out
}

func lifeSpell(name string, kind cards.SpellKind, impact float64, cost int) *cards.Spell {
	return cards.NewSpell(name, "", kind,
		cards.Effect{Type: cards.EffectLifePoints, Action: cards.ActionAdd, Actor: cards.ActorPlayer},
		impact, cost, nil)
}

// drainSpell takes impact life points from the opponent.
func drainSpell(name string, kind cards.SpellKind, impact float64, cost int) *cards.Spell {
	return cards.NewSpell(name, "", kind,
		cards.Effect{Type: cards.EffectLifePoints, Action: cards.ActionRemove, Actor: cards.ActorOpponent},
		impact, cost, nil)
}
