// Package combat computes attack and defense power and resolves battles.
//
// Power is built from three parts:
//
//	base     = equipped attack power (0 when bare) + grade
//	buffs    = base * sum of buff effects that apply in the monster's state
//	affinity = +10% of base when attacking a type in the attacker's plus set,
//	           -10% of base when defending against a type in the defender's neg set
//
// The total is rounded half away from zero.
package combat

import (
	"math"

	"github.com/thraizz/monster-duel/internal/game/board"
	"github.com/thraizz/monster-duel/internal/game/cards"
)

// Combatant is a monster taking part in one battle, together with the attack
// it uses (nil when bare) and the board it belongs to. It is built per battle
// and discarded after resolution.
type Combatant struct {
	Monster *cards.Monster
	Attack  *cards.AttackCard
	Board   *board.Board
}

// New creates a combatant.
func New(m *cards.Monster, attack *cards.AttackCard, b *board.Board) *Combatant {
	return &Combatant{Monster: m, Attack: attack, Board: b}
}

// Power is a computed power value with its breakdown.
type Power struct {
	Base     int
	Affinity float64
	Buff     float64
	// Applied and Skipped name the buffs that did and did not count.
	Applied []string
	Skipped []string
	Total   int
}

// BasePower returns attack power plus grade.
func (c *Combatant) BasePower() int {
	power := int(c.Monster.Grade)
	if c.Attack != nil {
		power += c.Attack.Power
	}
	return power
}

func (c *Combatant) buffs(base int) (float64, []string, []string) {
	var sum float64
	var applied, skipped []string
	for _, b := range c.Monster.Buffs {
		if !b.AppliesIn(c.Monster.State) {
			skipped = append(skipped, b.Name())
			continue
		}
		applied = append(applied, b.Name())
		sum += b.Effect
	}
	return float64(base) * sum, applied, skipped
}

// AttackPower computes the power used when attacking a monster of type
// opponent. An empty opponent type, as in a direct hit, gives no affinity.
func (c *Combatant) AttackPower(opponent cards.MonsterType) Power {
	base := c.BasePower()
	buff, applied, skipped := c.buffs(base)

	var affinity float64
	if opponent != "" && cards.HasAdvantage(c.Monster.Type, opponent) {
		affinity = float64(base) * cards.AffinityValue
	}
	return Power{
		Base:     base,
		Affinity: affinity,
		Buff:     buff,
		Applied:  applied,
		Skipped:  skipped,
		Total:    round(float64(base) + affinity + buff),
	}
}

// DefPower computes the power used when defending against an attacker of
// type attacker.
func (c *Combatant) DefPower(attacker cards.MonsterType) Power {
	base := c.BasePower()
	buff, applied, skipped := c.buffs(base)

	var affinity float64
	if cards.IsWeakTo(c.Monster.Type, attacker) {
		affinity = -float64(base) * cards.AffinityValue
	}
	return Power{
		Base:     base,
		Affinity: affinity,
		Buff:     buff,
		Applied:  applied,
		Skipped:  skipped,
		Total:    round(float64(base) + affinity + buff),
	}
}

func round(f float64) int {
	return int(math.Round(f))
}

// Side identifies which combatant lost life in a battle.
type Side int

const (
	SideNone Side = iota
	SideAttacker
	SideDefender
)

var sideNames = map[Side]string{
	SideNone:     "none",
	SideAttacker: "attacker",
	SideDefender: "defender",
}

func (s Side) String() string {
	return sideNames[s]
}

// Result describes a resolved battle or direct hit.
type Result struct {
	Attack  Power
	Defense *Power
	// Damage is the life lost by Loser.
	Damage int
	Loser  Side
}

// Resolve fights attacker against defender. The side with lower power loses
// the difference in life points; equal power deals no damage. Both monsters
// end tapped.
func Resolve(attacker, defender *Combatant) Result {
	atk := attacker.AttackPower(defender.Monster.Type)
	def := defender.DefPower(attacker.Monster.Type)

	result := Result{Attack: atk, Defense: &def}
	delta := atk.Total - def.Total
	switch {
	case delta > 0:
		result.Damage = delta
		result.Loser = SideDefender
		defender.Board.LoseLife(delta)
	case delta < 0:
		result.Damage = -delta
		result.Loser = SideAttacker
		attacker.Board.LoseLife(-delta)
	}

	attacker.Monster.Tap()
	defender.Monster.Tap()
	return result
}

// DirectHit deals the attacker's full power, without affinity, to target.
// The attacker ends tapped.
func DirectHit(attacker *Combatant, target *board.Board) Result {
	atk := attacker.AttackPower("")
	target.LoseLife(atk.Total)
	attacker.Monster.Tap()

	result := Result{Attack: atk, Damage: atk.Total}
	if atk.Total != 0 {
		result.Loser = SideDefender
	}
	return result
}
