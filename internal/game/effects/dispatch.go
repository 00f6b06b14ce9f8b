// Package effects applies spell effects to boards and cards.
package effects

import (
	"errors"
	"fmt"

	"github.com/thraizz/monster-duel/internal/game/board"
	"github.com/thraizz/monster-duel/internal/game/cards"
)

var (
	// ErrMissingTarget is returned when an effect is dispatched without the
	// card it needs.
	ErrMissingTarget = errors.New("effect target missing")
	// ErrUnknownEffect is returned for an effect type outside the known set.
	ErrUnknownEffect = errors.New("unknown effect type")
)

// Target is what an effect mutates. Board is always set; Monster, Spell and
// Card are set for the effects that need them.
type Target struct {
	Board   *board.Board
	Monster *cards.Monster
	Spell   *cards.Spell
	// Card is the hand card moved by an energy "add".
	Card cards.Card
}

// Dispatch applies spell's effect to t. Each effect type treats its
// positive verb (tap, add, destroy) specially and every other verb as the
// inverse mutation.
func Dispatch(spell *cards.Spell, t Target) error {
	if t.Board == nil {
		return fmt.Errorf("%s: %w", spell.Name(), ErrMissingTarget)
	}
	effect := spell.Effect

	switch effect.Type {
	case cards.EffectMonsterTap:
		if t.Monster == nil {
			return fmt.Errorf("%s needs a monster: %w", spell.Name(), ErrMissingTarget)
		}
		if effect.Action == cards.ActionTap {
			t.Monster.Tap()
		} else {
			t.Monster.Untap()
		}

	case cards.EffectEnergy:
		if effect.Action == cards.ActionAdd {
			return setEnergyFromHand(t)
		}
		t.Board.Energy().RemoveOldestUntapped()

	case cards.EffectStatus:
		if t.Monster == nil {
			return fmt.Errorf("%s needs a monster: %w", spell.Name(), ErrMissingTarget)
		}
		if effect.Action == cards.ActionAdd {
			t.Monster.AddBuffs(spell.Alignments...)
		} else {
			t.Monster.PopBuff()
		}

	case cards.EffectNegate:
		if t.Spell == nil {
			return fmt.Errorf("%s needs a spell: %w", spell.Name(), ErrMissingTarget)
		}
		t.Spell.Negate()
		if effect.Action == cards.ActionDestroy {
			t.Board.RemoveSpell(t.Spell)
		}

	case cards.EffectLifePoints:
		if effect.Action == cards.ActionAdd {
			t.Board.GainLife(int(spell.Impact))
		} else {
			t.Board.LoseLife(int(spell.Impact))
		}

	default:
		return fmt.Errorf("%s: %w %q", spell.Name(), ErrUnknownEffect, effect.Type)
	}
	return nil
}

func setEnergyFromHand(t Target) error {
	if t.Card == nil {
		return fmt.Errorf("energy needs a hand card: %w", ErrMissingTarget)
	}
	if _, ok := t.Card.(*cards.Energy); !ok {
		return fmt.Errorf("set %s as energy: %w", t.Card.Name(), board.ErrWrongCardType)
	}
	if !t.Board.RemoveFromHand(t.Card) {
		return fmt.Errorf("%s is not in hand: %w", t.Card.Name(), ErrMissingTarget)
	}
	return t.Board.SetEnergy(t.Card)
}
