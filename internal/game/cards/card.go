// Package cards holds the card entities of a duel and their invariants.
package cards

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
)

// MaxEquipped is the number of attack cards a monster can carry.
const MaxEquipped = 2

// ErrEquipFull is returned when a monster already carries MaxEquipped attacks.
var ErrEquipFull = errors.New("monster cannot equip more attacks")

// Card is implemented by every card that can sit in a deck, hand or zone.
type Card interface {
	ID() string
	Name() string
	Tap()
	Untap()
	IsTapped() bool
	// View is the way the card is shown to a player on the board.
	View() string
}

// Base carries identity and the tapped flag shared by all cards.
type Base struct {
	id     string
	name   string
	tapped bool
}

func newBase(name string) Base {
	return Base{id: uuid.NewString(), name: name}
}

func (b *Base) ID() string       { return b.id }
func (b *Base) Name() string     { return b.name }
func (b *Base) Tap()             { b.tapped = true }
func (b *Base) Untap()           { b.tapped = false }
func (b *Base) IsTapped() bool   { return b.tapped }
func (b *Base) IsUntapped() bool { return !b.tapped }

func (b *Base) state() string {
	if b.tapped {
		return "tapped"
	}
	return "untapped"
}

// Energy is a resource card worth one energy.
type Energy struct {
	Base
	Value int
}

// NewEnergy creates an untapped energy card.
func NewEnergy() *Energy {
	return &Energy{Base: newBase("Energy"), Value: 1}
}

func (e *Energy) View() string {
	return fmt.Sprintf("Energy %d %s", e.Value, e.state())
}

// AttackCard is equipped onto a monster and used in combat.
type AttackCard struct {
	Base
	Text  string
	Power int
	Cost  int
}

// NewAttackCard creates an attack card.
func NewAttackCard(name, text string, power, cost int) *AttackCard {
	return &AttackCard{Base: newBase(name), Text: text, Power: power, Cost: cost}
}

func (a *AttackCard) View() string {
	return fmt.Sprintf("%s: str:%d cost:%d", a.name, a.Power, a.Cost)
}

// StatusAlignment is a buff or debuff carried by a monster. TurnLimit is shown
// to players but never expires; RequiredState limits the buff to one posture.
type StatusAlignment struct {
	Base
	Effect        float64
	TurnLimit     int
	RequiredState BattleState
}

// NewStatusAlignment creates a buff with the given multiplier.
func NewStatusAlignment(name string, effect float64, turnLimit int, state BattleState) *StatusAlignment {
	return &StatusAlignment{Base: newBase(name), Effect: effect, TurnLimit: turnLimit, RequiredState: state}
}

// AppliesIn reports whether the buff counts for a monster in state.
func (s *StatusAlignment) AppliesIn(state BattleState) bool {
	return s.RequiredState == BattleStateNone || s.RequiredState == state
}

func (s *StatusAlignment) View() string {
	view := fmt.Sprintf("%s: effect:%s", s.name, percent(s.Effect))
	if s.TurnLimit > 0 {
		view += fmt.Sprintf(", turns: %d", s.TurnLimit)
	}
	if s.RequiredState != BattleStateNone {
		view += fmt.Sprintf(", position: %s", s.RequiredState)
	}
	return view
}

// Monster is a creature placed in the monster zone.
type Monster struct {
	Base
	Type     MonsterType
	Grade    Grade
	Buffs    []*StatusAlignment
	Equipped []*AttackCard
	State    BattleState
}

// NewMonster creates an idle, untapped monster.
func NewMonster(name string, monsterType MonsterType, grade Grade) *Monster {
	return &Monster{
		Base:  newBase(name),
		Type:  monsterType,
		Grade: grade,
		State: BattleStateIdle,
	}
}

// Equip attaches an attack card, refusing once MaxEquipped is reached.
func (m *Monster) Equip(attack *AttackCard) error {
	if len(m.Equipped) >= MaxEquipped {
		return ErrEquipFull
	}
	m.Equipped = append(m.Equipped, attack)
	return nil
}

// AddBuffs appends buffs in order.
func (m *Monster) AddBuffs(buffs ...*StatusAlignment) {
	m.Buffs = append(m.Buffs, buffs...)
}

// PopBuff removes the most recently added buff.
func (m *Monster) PopBuff() (*StatusAlignment, bool) {
	if len(m.Buffs) == 0 {
		return nil, false
	}
	last := m.Buffs[len(m.Buffs)-1]
	m.Buffs = m.Buffs[:len(m.Buffs)-1]
	return last, true
}

func (m *Monster) ToAttackState()  { m.State = BattleStateAttacking }
func (m *Monster) ToDefenseState() { m.State = BattleStateDefending }
func (m *Monster) ToIdleState()    { m.State = BattleStateIdle }

// AttackReady reports whether the monster can attack this turn.
func (m *Monster) AttackReady() bool {
	return m.IsUntapped() && len(m.Equipped) > 0
}

// AttacksView lists the equipped attacks, or "" when none.
func (m *Monster) AttacksView() string {
	out := make([]string, 0, len(m.Equipped))
	for _, a := range m.Equipped {
		out = append(out, a.View())
	}
	return strings.Join(out, ", ")
}

// BuffsView lists the buffs, or "" when none.
func (m *Monster) BuffsView() string {
	out := make([]string, 0, len(m.Buffs))
	for _, b := range m.Buffs {
		out = append(out, b.View())
	}
	return strings.Join(out, ", ")
}

func (m *Monster) View() string {
	view := fmt.Sprintf("%s (%s / %s), %s", m.name, m.Type, m.Grade, m.state())
	if attacks := m.AttacksView(); attacks != "" {
		view += ", attks:" + attacks
	}
	if buffs := m.BuffsView(); buffs != "" {
		view += ", buffs:" + buffs
	}
	return view
}

// Spell is a magic, trap or counter card carrying one Effect.
type Spell struct {
	Base
	Text       string
	Kind       SpellKind
	Effect     Effect
	Impact     float64
	Cost       int
	Alignments []*StatusAlignment
	Negated    bool
}

// NewSpell creates an un-negated spell.
func NewSpell(name, text string, kind SpellKind, effect Effect, impact float64, cost int, alignments []*StatusAlignment) *Spell {
	return &Spell{
		Base:       newBase(name),
		Text:       text,
		Kind:       kind,
		Effect:     effect,
		Impact:     impact,
		Cost:       cost,
		Alignments: alignments,
	}
}

// IsCounter reports whether the spell can be played in a counter window.
func (s *Spell) IsCounter() bool {
	return s.Kind == SpellCounter && !s.Negated
}

// Negate marks the spell so it never triggers again.
func (s *Spell) Negate() {
	s.Negated = true
}

func (s *Spell) View() string {
	view := ""
	if s.Negated {
		view = "NEGATED "
	}
	view += fmt.Sprintf("%s (%s / %s) %s", s.name, s.Kind, s.Effect.Type, s.state())
	if s.Cost > 0 {
		view += fmt.Sprintf(", cost: %d", s.Cost)
	}
	if s.Impact > 0 {
		if s.Impact > 1 {
			view += fmt.Sprintf(", impact: %g", s.Impact)
		} else {
			view += ", impact: " + percent(s.Impact)
		}
	}
	if len(s.Alignments) > 0 {
		names := make([]string, 0, len(s.Alignments))
		for _, a := range s.Alignments {
			names = append(names, a.View())
		}
		view += ", alignments: " + strings.Join(names, ", ")
	}
	return view
}

func percent(f float64) string {
	return fmt.Sprintf("%d%%", int(math.Round(f*100)))
}
