package cards

import (
	"fmt"
	"strings"
)

// MonsterType is the elemental type of a monster.
type MonsterType string

const (
	TypeFire     MonsterType = "Fire"
	TypeWater    MonsterType = "Water"
	TypeElectric MonsterType = "Electric"
	TypeGrass    MonsterType = "Grass"
	TypeGround   MonsterType = "Ground"
	TypeNormal   MonsterType = "Normal"
	TypeFlying   MonsterType = "Flying"
	TypeDark     MonsterType = "Dark"
	TypeLight    MonsterType = "Light"
)

// MonsterTypes lists every monster type in declaration order.
var MonsterTypes = []MonsterType{
	TypeFire, TypeWater, TypeElectric, TypeGrass, TypeGround,
	TypeNormal, TypeFlying, TypeDark, TypeLight,
}

// Valid reports whether t is one of the nine known types.
func (t MonsterType) Valid() bool {
	for _, known := range MonsterTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Grade is the ordinal power tier of a monster, added directly into combat power.
type Grade int

const (
	GradeE Grade = iota
	GradeD
	GradeC
	GradeB
	GradeA
	GradeS
)

var gradeNames = map[Grade]string{
	GradeE: "E",
	GradeD: "D",
	GradeC: "C",
	GradeB: "B",
	GradeA: "A",
	GradeS: "S",
}

func (g Grade) String() string {
	if name, ok := gradeNames[g]; ok {
		return name
	}
	return fmt.Sprintf("GRADE_%d", int(g))
}

// ParseGrade converts a grade letter (E, D, C, B, A, S) into a Grade.
func ParseGrade(s string) (Grade, error) {
	letter := strings.ToUpper(strings.TrimSpace(s))
	for g, name := range gradeNames {
		if name == letter {
			return g, nil
		}
	}
	return GradeE, fmt.Errorf("unknown grade %q", s)
}

// BattleState is a monster's combat posture. BattleStateNone is only used on
// status alignments to mean "applies in any state".
type BattleState string

const (
	BattleStateNone      BattleState = ""
	BattleStateIdle      BattleState = "idle"
	BattleStateAttacking BattleState = "attack"
	BattleStateDefending BattleState = "defense"
)

// SpellKind distinguishes magic, trap and counter spells.
type SpellKind string

const (
	SpellMagic   SpellKind = "magic"
	SpellTrap    SpellKind = "trap"
	SpellCounter SpellKind = "counter"
)

func (k SpellKind) String() string {
	switch k {
	case SpellMagic:
		return "Magic"
	case SpellTrap:
		return "Trap"
	case SpellCounter:
		return "Counter"
	default:
		return "Unknown"
	}
}

// EffectType is the closed set of effect discriminants a spell can carry.
type EffectType string

const (
	EffectMonsterTap EffectType = "monster_tap"
	EffectEnergy     EffectType = "energy"
	EffectStatus     EffectType = "status"
	EffectNegate     EffectType = "negate"
	EffectLifePoints EffectType = "life_points"
)

// EffectTypes lists every effect type.
var EffectTypes = []EffectType{
	EffectMonsterTap, EffectEnergy, EffectStatus, EffectNegate, EffectLifePoints,
}

func (t EffectType) String() string {
	switch t {
	case EffectMonsterTap:
		return "MONSTER_TAP_STATE"
	case EffectEnergy:
		return "ENERGY"
	case EffectStatus:
		return "STATUS"
	case EffectNegate:
		return "NEGATE"
	case EffectLifePoints:
		return "LIFEPOINTS"
	default:
		return "UNKNOWN"
	}
}

// Valid reports whether t is a known effect type.
func (t EffectType) Valid() bool {
	for _, known := range EffectTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Actor says which side, relative to the spell's activator, an effect targets.
type Actor string

const (
	ActorPlayer   Actor = "player"
	ActorOpponent Actor = "opponent"
)

// Effect action verbs. Handlers only distinguish their "positive" verb; any
// other verb selects the inverse mutation.
const (
	ActionAdd     = "add"
	ActionRemove  = "remove"
	ActionTap     = "tap"
	ActionUntap   = "untap"
	ActionDestroy = "destroy"
)

// Effect describes what a spell does when activated.
type Effect struct {
	Type   EffectType
	Action string
	Actor  Actor
}

// TargetsMonster reports whether the effect needs a monster target.
func (e Effect) TargetsMonster() bool {
	return e.Type == EffectMonsterTap || e.Type == EffectStatus
}
