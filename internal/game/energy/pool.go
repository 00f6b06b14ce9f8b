// Package energy implements a player's energy pool: the ordered energy cards set
// on the board and the total_energy counter spent to pay costs.
package energy

import (
	"github.com/thraizz/monster-duel/internal/game/cards"
)

// Pool holds energy cards in the order they were set.
//
// total tracks spendable energy. It is kept in step with the tapped flags by
// every method, so it never exceeds the number of cards in the pool.
type Pool struct {
	cards []*cards.Energy
	total int
}

// NewPool creates an empty energy pool.
func NewPool() *Pool {
	return &Pool{}
}

// Add sets an energy card and raises the total by its value.
func (p *Pool) Add(e *cards.Energy) {
	if e == nil {
		return
	}
	p.cards = append(p.cards, e)
	p.total += e.Value
	if p.total > len(p.cards) {
		p.total = len(p.cards)
	}
}

// Pay taps exactly cost untapped cards and lowers the total by cost.
// It is all-or-nothing: when the total or the number of untapped cards is
// below cost nothing changes and false is returned.
func (p *Pool) Pay(cost int) bool {
	if cost <= 0 {
		return true
	}
	if p.total < cost || p.Untapped() < cost {
		return false
	}

	paid := 0
	for _, e := range p.cards {
		if paid == cost {
			break
		}
		if !e.IsTapped() {
			e.Tap()
			paid++
		}
	}
	p.total -= cost
	return true
}

// Reset untaps every card and refills the total to the card count.
func (p *Pool) Reset() {
	for _, e := range p.cards {
		e.Untap()
	}
	p.total = len(p.cards)
}

// RemoveOldestUntapped discards the least recently set untapped card and
// lowers the total by one, regardless of the removed card's value.
func (p *Pool) RemoveOldestUntapped() (*cards.Energy, bool) {
	for i, e := range p.cards {
		if e.IsTapped() {
			continue
		}
		p.cards = append(p.cards[:i], p.cards[i+1:]...)
		p.total--
		if p.total < 0 {
			p.total = 0
		}
		if p.total > len(p.cards) {
			p.total = len(p.cards)
		}
		return e, true
	}
	return nil, false
}

// Total returns the spendable energy counter.
func (p *Pool) Total() int {
	return p.total
}

// Count returns the number of energy cards set.
func (p *Pool) Count() int {
	return len(p.cards)
}

// Untapped returns the number of untapped energy cards.
func (p *Pool) Untapped() int {
	count := 0
	for _, e := range p.cards {
		if !e.IsTapped() {
			count++
		}
	}
	return count
}

// Cards returns a copy of the energy cards in set order.
func (p *Pool) Cards() []*cards.Energy {
	cpy := make([]*cards.Energy, len(p.cards))
	copy(cpy, p.cards)
	return cpy
}
