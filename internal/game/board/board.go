// Package board manages one player's side of a duel: deck, hand, energy,
// monster and spell zones, and life points.
package board

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/thraizz/monster-duel/internal/deck"
	"github.com/thraizz/monster-duel/internal/game/cards"
	"github.com/thraizz/monster-duel/internal/game/energy"
)

// Zone limits and defaults.
const (
	MaxMonsters       = 4
	MaxSpells         = 4
	MaxHand           = 7
	DefaultLifePoints = 10
)

var (
	// ErrZoneFull is returned when placing a card into a zone at capacity.
	ErrZoneFull = errors.New("zone is full")
	// ErrInsufficientEnergy is returned when a cost cannot be paid.
	ErrInsufficientEnergy = errors.New("not enough energy")
	// ErrIndexOutOfRange is returned for a position outside a zone.
	ErrIndexOutOfRange = errors.New("index out of range")
	// ErrWrongCardType is returned when a card is placed in a zone it does not belong to.
	ErrWrongCardType = errors.New("wrong card type for zone")
)

// Zone names a place a counter spell can be played from.
type Zone string

const (
	ZoneField Zone = "field"
	ZoneHand  Zone = "hand"
)

// Board is one player's side of the table. It is not safe for concurrent use;
// a match mutates its boards from a single goroutine.
type Board struct {
	deck       *deck.Deck
	hand       []cards.Card
	energy     *energy.Pool
	monsters   []*cards.Monster
	spells     []*cards.Spell
	lifePoints int
	logger     *zap.Logger
}

// Option configures a Board.
type Option func(*Board)

// WithLifePoints sets the starting life points.
func WithLifePoints(lp int) Option {
	return func(b *Board) { b.lifePoints = lp }
}

// WithLogger sets the board logger.
func WithLogger(logger *zap.Logger) Option {
	return func(b *Board) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// New creates a board holding d and a starting hand.
func New(d *deck.Deck, hand []cards.Card, opts ...Option) *Board {
	if d == nil {
		d = deck.New(nil)
	}
	b := &Board{
		deck:       d,
		hand:       append([]cards.Card{}, hand...),
		energy:     energy.NewPool(),
		lifePoints: DefaultLifePoints,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Deck returns the board's deck.
func (b *Board) Deck() *deck.Deck { return b.deck }

// Draw moves the top card of the deck to the end of the hand. An exhausted
// deck leaves the hand unchanged and returns deck.ErrDeckExhausted.
func (b *Board) Draw() (cards.Card, error) {
	c, err := b.deck.Draw()
	if err != nil {
		b.logger.Info("no more cards to draw")
		return nil, err
	}
	b.hand = append(b.hand, c)
	return c, nil
}

// Hand returns a copy of the hand.
func (b *Board) Hand() []cards.Card {
	return append([]cards.Card{}, b.hand...)
}

// HandSize returns the number of cards in hand.
func (b *Board) HandSize() int { return len(b.hand) }

// HandCard returns the card at position i of the hand.
func (b *Board) HandCard(i int) (cards.Card, error) {
	if i < 0 || i >= len(b.hand) {
		return nil, fmt.Errorf("hand position %d: %w", i, ErrIndexOutOfRange)
	}
	return b.hand[i], nil
}

// TakeFromHand removes and returns the card at position i.
func (b *Board) TakeFromHand(i int) (cards.Card, error) {
	c, err := b.HandCard(i)
	if err != nil {
		return nil, err
	}
	b.hand = append(b.hand[:i], b.hand[i+1:]...)
	return c, nil
}

// ReturnToHand appends c to the end of the hand.
func (b *Board) ReturnToHand(c cards.Card) {
	b.hand = append(b.hand, c)
}

// RemoveFromHand removes the given card instance from the hand.
func (b *Board) RemoveFromHand(c cards.Card) bool {
	for i, h := range b.hand {
		if h == c {
			b.hand = append(b.hand[:i], b.hand[i+1:]...)
			return true
		}
	}
	return false
}

// SetEnergy places an energy card into the energy pool.
func (b *Board) SetEnergy(c cards.Card) error {
	e, ok := c.(*cards.Energy)
	if !ok {
		return fmt.Errorf("set %s as energy: %w", c.Name(), ErrWrongCardType)
	}
	b.energy.Add(e)
	return nil
}

// Energy returns the energy pool.
func (b *Board) Energy() *energy.Pool { return b.energy }

// TotalEnergy returns the spendable energy counter.
func (b *Board) TotalEnergy() int { return b.energy.Total() }

// NumEnergyUntapped returns the number of untapped energy cards.
func (b *Board) NumEnergyUntapped() int { return b.energy.Untapped() }

// PayEnergy taps cost untapped energy cards. It changes nothing and returns
// false when the cost cannot be covered.
func (b *Board) PayEnergy(cost int) bool {
	ok := b.energy.Pay(cost)
	b.logger.Debug("pay energy",
		zap.Int("cost", cost),
		zap.Bool("paid", ok),
		zap.Int("total_energy", b.energy.Total()),
		zap.Int("energies", b.energy.Count()))
	return ok
}

// ResetEnergies untaps all energy and refills total energy.
func (b *Board) ResetEnergies() {
	b.energy.Reset()
}

// ResetMonstersToIdle puts every monster back into the idle battle state.
func (b *Board) ResetMonstersToIdle() {
	for _, m := range b.monsters {
		m.ToIdleState()
	}
}

// UntapMonsters untaps every monster.
func (b *Board) UntapMonsters() {
	for _, m := range b.monsters {
		m.Untap()
	}
}

// Monsters returns a copy of the monster zone.
func (b *Board) Monsters() []*cards.Monster {
	return append([]*cards.Monster{}, b.monsters...)
}

// Monster returns the monster at position i.
func (b *Board) Monster(i int) (*cards.Monster, error) {
	if i < 0 || i >= len(b.monsters) {
		return nil, fmt.Errorf("monster position %d: %w", i, ErrIndexOutOfRange)
	}
	return b.monsters[i], nil
}

// AddMonster places a monster, refusing once MaxMonsters is reached.
func (b *Board) AddMonster(m *cards.Monster) error {
	if len(b.monsters) >= MaxMonsters {
		return fmt.Errorf("monster zone: %w", ErrZoneFull)
	}
	b.monsters = append(b.monsters, m)
	return nil
}

// Spells returns a copy of the spell zone.
func (b *Board) Spells() []*cards.Spell {
	return append([]*cards.Spell{}, b.spells...)
}

// Spell returns the spell at position i.
func (b *Board) Spell(i int) (*cards.Spell, error) {
	if i < 0 || i >= len(b.spells) {
		return nil, fmt.Errorf("spell position %d: %w", i, ErrIndexOutOfRange)
	}
	return b.spells[i], nil
}

// AddSpell sets a spell face down (tapped), refusing once MaxSpells is reached.
func (b *Board) AddSpell(s *cards.Spell) error {
	if len(b.spells) >= MaxSpells {
		return fmt.Errorf("spell zone: %w", ErrZoneFull)
	}
	s.Tap()
	b.spells = append(b.spells, s)
	return nil
}

// RemoveSpell removes the given spell instance from the spell zone.
func (b *Board) RemoveSpell(s *cards.Spell) bool {
	for i, set := range b.spells {
		if set == s {
			b.spells = append(b.spells[:i], b.spells[i+1:]...)
			return true
		}
	}
	return false
}

// AttackReady counts monsters that are untapped and carry an attack.
func (b *Board) AttackReady() int {
	count := 0
	for _, m := range b.monsters {
		if m.AttackReady() {
			count++
		}
	}
	return count
}

// CanDefend reports whether the board can block an attack.
func (b *Board) CanDefend() bool {
	return len(b.monsters) > 0 && b.AttackReady() > 0
}

// CanCounterFrom lists the zones holding an unnegated counter spell, field
// before hand.
func (b *Board) CanCounterFrom() []Zone {
	var zones []Zone
	if len(b.CounterPositions(ZoneField)) > 0 {
		zones = append(zones, ZoneField)
	}
	if len(b.CounterPositions(ZoneHand)) > 0 {
		zones = append(zones, ZoneHand)
	}
	return zones
}

// CounterPositions returns the positions in zone that hold an unnegated
// counter spell.
func (b *Board) CounterPositions(zone Zone) []int {
	var positions []int
	switch zone {
	case ZoneField:
		for i, s := range b.spells {
			if s.IsCounter() {
				positions = append(positions, i)
			}
		}
	case ZoneHand:
		for i, c := range b.hand {
			if s, ok := c.(*cards.Spell); ok && s.IsCounter() {
				positions = append(positions, i)
			}
		}
	}
	return positions
}

// LifePoints returns the current life total.
func (b *Board) LifePoints() int { return b.lifePoints }

// GainLife adds n life points.
func (b *Board) GainLife(n int) { b.lifePoints += n }

// LoseLife removes n life points. Life may go below zero.
func (b *Board) LoseLife(n int) { b.lifePoints -= n }

// Alive reports whether the life total is above zero.
func (b *Board) Alive() bool { return b.lifePoints > 0 }

// MonsterViews returns the monster zone as MaxMonsters display slots.
func (b *Board) MonsterViews() [MaxMonsters]string {
	var out [MaxMonsters]string
	for i, m := range b.monsters {
		if i < MaxMonsters {
			out[i] = m.View()
		}
	}
	return out
}

// SpellViews returns the spell zone as MaxSpells display slots.
func (b *Board) SpellViews() [MaxSpells]string {
	var out [MaxSpells]string
	for i, s := range b.spells {
		if i < MaxSpells {
			out[i] = s.View()
		}
	}
	return out
}

// HandView lists the hand in order.
func (b *Board) HandView() []string {
	out := make([]string, 0, len(b.hand))
	for _, c := range b.hand {
		out = append(out, c.View())
	}
	return out
}
