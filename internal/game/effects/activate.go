package effects

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/thraizz/monster-duel/internal/game/board"
	"github.com/thraizz/monster-duel/internal/game/cards"
	"github.com/thraizz/monster-duel/internal/game/decision"
)

// Outcome is how a spell activation ended.
type Outcome int

const (
	OutcomeResolved Outcome = iota
	OutcomeNegated
	OutcomeInsufficientEnergy
	OutcomeInvalidSelection
)

var outcomeNames = map[Outcome]string{
	OutcomeResolved:           "resolved",
	OutcomeNegated:            "negated",
	OutcomeInsufficientEnergy: "insufficient_energy",
	OutcomeInvalidSelection:   "invalid_selection",
}

func (o Outcome) String() string {
	if name, ok := outcomeNames[o]; ok {
		return name
	}
	return fmt.Sprintf("OUTCOME_%d", int(o))
}

// Result reports what an activation did.
type Result struct {
	Outcome Outcome
	// Target is the player whose board the effect was aimed at.
	Target string
	// LifeLost is the life the target lost to the effect.
	LifeLost int
}

// Side is a player together with their board.
type Side struct {
	Player string
	Board  *board.Board
}

// Activator plays spells, asking the activating player for targets.
type Activator struct {
	provider decision.Provider
	logger   *zap.Logger
}

// NewActivator creates an activator.
func NewActivator(provider decision.Provider, logger *zap.Logger) *Activator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Activator{provider: provider, logger: logger}
}

// Activate plays spell for self against other.
//
// A negated spell does nothing. Otherwise the cost is paid from self's
// energy before a target is chosen; when the cost cannot be paid nothing
// changes. The effect lands on self's board for ActorPlayer effects and on
// other's board for ActorOpponent effects. An invalid target choice after
// payment leaves the energy spent.
//
// Only provider failures other than an invalid selection are returned as errors.
func (a *Activator) Activate(ctx context.Context, spell *cards.Spell, self, other Side) (Result, error) {
	logger := a.logger.With(
		zap.String("player", self.Player),
		zap.String("spell", spell.Name()),
		zap.Stringer("effect", spell.Effect.Type))

	target := other
	if spell.Effect.Actor == cards.ActorPlayer {
		target = self
	}
	res := Result{Outcome: OutcomeInvalidSelection, Target: target.Player}

	if spell.Negated {
		logger.Info("effect negated")
		res.Outcome = OutcomeNegated
		return res, nil
	}

	if !self.Board.PayEnergy(spell.Cost) {
		logger.Warn("not enough energy to play this card",
			zap.Int("cost", spell.Cost),
			zap.Int("total_energy", self.Board.TotalEnergy()))
		res.Outcome = OutcomeInsufficientEnergy
		return res, nil
	}

	t, err := a.chooseTarget(ctx, spell, self.Player, target.Board)
	if err != nil {
		if errors.Is(err, decision.ErrInvalidSelection) {
			logger.Warn("invalid target selection", zap.Error(err))
			return res, nil
		}
		return res, err
	}

	before := target.Board.LifePoints()
	if err := Dispatch(spell, t); err != nil {
		if errors.Is(err, ErrMissingTarget) || errors.Is(err, board.ErrWrongCardType) {
			logger.Warn("effect target rejected", zap.Error(err))
			return res, nil
		}
		return res, err
	}
	if lost := before - target.Board.LifePoints(); lost > 0 {
		res.LifeLost = lost
	}

	logger.Info("spell resolved",
		zap.String("target", target.Player),
		zap.Int("life_lost", res.LifeLost))
	res.Outcome = OutcomeResolved
	return res, nil
}

func (a *Activator) chooseTarget(ctx context.Context, spell *cards.Spell, player string, b *board.Board) (Target, error) {
	t := Target{Board: b}

	switch {
	case spell.Effect.TargetsMonster():
		pos, err := decision.ChoosePosition(ctx, a.provider, player,
			"Choose the index of monster card on the field", decision.Positions(len(b.Monsters())))
		if err != nil {
			return t, err
		}
		t.Monster, err = b.Monster(pos)
		return t, err

	case spell.Effect.Type == cards.EffectEnergy && spell.Effect.Action == cards.ActionAdd:
		pos, err := decision.ChoosePosition(ctx, a.provider, player,
			"Choose the index of the card in your hand to set", decision.Positions(b.HandSize()))
		if err != nil {
			return t, err
		}
		t.Card, err = b.HandCard(pos)
		return t, err

	case spell.Effect.Type == cards.EffectNegate:
		pos, err := decision.ChoosePosition(ctx, a.provider, player,
			"Choose the corresponding index for the spell you want to negate", decision.Positions(len(b.Spells())))
		if err != nil {
			return t, err
		}
		t.Spell, err = b.Spell(pos)
		return t, err
	}
	return t, nil
}
