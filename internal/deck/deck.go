// Package deck builds and deals the per-player decks of a duel.
package deck

import (
	"errors"

	"github.com/thraizz/monster-duel/internal/game/cards"
)

// ErrDeckExhausted is returned when drawing from an empty deck.
var ErrDeckExhausted = errors.New("deck exhausted")

// Deck is an ordered pile of card instances. The top of the deck is the end
// of the slice.
type Deck struct {
	cards []cards.Card
}

// New wraps an already ordered card pile.
func New(pile []cards.Card) *Deck {
	cpy := make([]cards.Card, len(pile))
	copy(cpy, pile)
	return &Deck{cards: cpy}
}

// Draw removes and returns the top card.
func (d *Deck) Draw() (cards.Card, error) {
	if len(d.cards) == 0 {
		return nil, ErrDeckExhausted
	}
	top := d.cards[len(d.cards)-1]
	d.cards = d.cards[:len(d.cards)-1]
	return top, nil
}

// Len returns the number of cards left.
func (d *Deck) Len() int {
	return len(d.cards)
}

// Cards returns a copy of the remaining pile, bottom first.
func (d *Deck) Cards() []cards.Card {
	cpy := make([]cards.Card, len(d.cards))
	copy(cpy, d.cards)
	return cpy
}

// StartingHand deals size cards from the top. When the first size-1 cards
// hold no monster, the last card dealt is the monster nearest the bottom of
// the deck instead of the top card. A deck without monsters deals from the
// top only.
func (d *Deck) StartingHand(size int) []cards.Card {
	hand := make([]cards.Card, 0, size)
	for len(hand) < size && len(d.cards) > 0 {
		if len(hand) == size-1 && !hasMonster(hand) {
			if m, ok := d.takeMonster(); ok {
				hand = append(hand, m)
				continue
			}
		}
		top, _ := d.Draw()
		hand = append(hand, top)
	}
	return hand
}

func (d *Deck) takeMonster() (cards.Card, bool) {
	for i, c := range d.cards {
		if _, ok := c.(*cards.Monster); ok {
			d.cards = append(d.cards[:i], d.cards[i+1:]...)
			return c, true
		}
	}
	return nil, false
}

func hasMonster(hand []cards.Card) bool {
	for _, c := range hand {
		if _, ok := c.(*cards.Monster); ok {
			return true
		}
	}
	return false
}
