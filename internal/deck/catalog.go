package deck

import (
	_ "embed"
	"errors"
	"fmt"
	"math/rand"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/thraizz/monster-duel/internal/game/cards"
)

//go:embed catalog.yaml
var builtinCatalog []byte

// ErrInvalidCatalog is returned when a catalog cannot produce playable decks.
var ErrInvalidCatalog = errors.New("invalid catalog")

// Catalog is the set of card templates decks are built from.
type Catalog struct {
	Spells      []SpellTemplate   `yaml:"spells" json:"spells"`
	Attacks     []AttackTier      `yaml:"attacks" json:"attacks"`
	Monsters    []MonsterTemplate `yaml:"monsters,omitempty" json:"monsters,omitempty"`
	MonsterPool MonsterPool       `yaml:"monster_pool" json:"monster_pool"`
}

// SpellTemplate describes one named spell.
type SpellTemplate struct {
	Name       string              `yaml:"name" json:"name"`
	Text       string              `yaml:"text" json:"text"`
	Kind       cards.SpellKind     `yaml:"kind" json:"kind"`
	Cost       int                 `yaml:"cost" json:"cost"`
	Impact     float64             `yaml:"impact" json:"impact"`
	Effect     EffectTemplate      `yaml:"effect" json:"effect"`
	Alignments []AlignmentTemplate `yaml:"alignments,omitempty" json:"alignments,omitempty"`
}

type EffectTemplate struct {
	Type   cards.EffectType `yaml:"type" json:"type"`
	Action string           `yaml:"action" json:"action"`
	Actor  cards.Actor      `yaml:"actor" json:"actor"`
}

type AlignmentTemplate struct {
	Name        string            `yaml:"name" json:"name"`
	Effect      float64           `yaml:"effect" json:"effect"`
	TurnLimit   int               `yaml:"turn_limit,omitempty" json:"turn_limit,omitempty"`
	BattleState cards.BattleState `yaml:"battle_state,omitempty" json:"battle_state,omitempty"`
}

// AttackTier is a family of attack cards whose power and cost are rolled from
// the listed options. Weight is the tier's share when drawing attacks for a
// deck; a Unique tier appears at most once per deck.
type AttackTier struct {
	Name   string `yaml:"name" json:"name"`
	Text   string `yaml:"text" json:"text"`
	Weight int    `yaml:"weight" json:"weight"`
	Unique bool   `yaml:"unique,omitempty" json:"unique,omitempty"`
	Powers []int  `yaml:"powers" json:"powers"`
	Costs  []int  `yaml:"costs" json:"costs"`
}

// MonsterTemplate is a fixed monster definition.
type MonsterTemplate struct {
	Name  string            `yaml:"name" json:"name"`
	Type  cards.MonsterType `yaml:"type" json:"type"`
	Grade string            `yaml:"grade" json:"grade"`
}

// MonsterPool configures the generated monster pool used when the catalog
// lists no fixed monsters.
type MonsterPool struct {
	Size         int    `yaml:"size" json:"size"`
	NamePrefix   string `yaml:"name_prefix" json:"name_prefix"`
	NormalWeight int    `yaml:"normal_weight" json:"normal_weight"`
}

// BuiltinCatalog returns the catalog shipped with the binary.
func BuiltinCatalog() (*Catalog, error) {
	return ParseCatalog(builtinCatalog)
}

// LoadCatalogFile reads a YAML catalog from disk.
func LoadCatalogFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseCatalog(data)
}

// ParseCatalog decodes and validates a YAML catalog.
func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse catalog YAML: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Marshal encodes the catalog as YAML.
func (c *Catalog) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// Validate checks every template against the closed enums of the game.
func (c *Catalog) Validate() error {
	if len(c.Spells) == 0 {
		return fmt.Errorf("%w: no spells", ErrInvalidCatalog)
	}
	if len(c.Attacks) == 0 {
		return fmt.Errorf("%w: no attack tiers", ErrInvalidCatalog)
	}
	if len(c.Monsters) == 0 && c.MonsterPool.Size <= 0 {
		return fmt.Errorf("%w: no monsters and no monster pool", ErrInvalidCatalog)
	}

	for _, s := range c.Spells {
		if err := s.validate(); err != nil {
			return err
		}
	}

	repeatable := 0
	for _, a := range c.Attacks {
		if len(a.Powers) == 0 || len(a.Costs) == 0 {
			return fmt.Errorf("%w: attack tier %q needs powers and costs", ErrInvalidCatalog, a.Name)
		}
		if a.Weight <= 0 {
			return fmt.Errorf("%w: attack tier %q needs a positive weight", ErrInvalidCatalog, a.Name)
		}
		if !a.Unique {
			repeatable++
		}
	}
	if repeatable == 0 {
		return fmt.Errorf("%w: every attack tier is unique", ErrInvalidCatalog)
	}

	for _, m := range c.Monsters {
		if !m.Type.Valid() {
			return fmt.Errorf("%w: monster %q has unknown type %q", ErrInvalidCatalog, m.Name, m.Type)
		}
		if _, err := cards.ParseGrade(m.Grade); err != nil {
			return fmt.Errorf("%w: monster %q: %v", ErrInvalidCatalog, m.Name, err)
		}
	}
	return nil
}

func (s SpellTemplate) validate() error {
	switch s.Kind {
	case cards.SpellMagic, cards.SpellTrap, cards.SpellCounter:
	default:
		return fmt.Errorf("%w: spell %q has unknown kind %q", ErrInvalidCatalog, s.Name, s.Kind)
	}
	if !s.Effect.Type.Valid() {
		return fmt.Errorf("%w: spell %q has unknown effect %q", ErrInvalidCatalog, s.Name, s.Effect.Type)
	}
	if s.Effect.Actor != cards.ActorPlayer && s.Effect.Actor != cards.ActorOpponent {
		return fmt.Errorf("%w: spell %q has unknown actor %q", ErrInvalidCatalog, s.Name, s.Effect.Actor)
	}
	for _, a := range s.Alignments {
		switch a.BattleState {
		case cards.BattleStateNone, cards.BattleStateIdle, cards.BattleStateAttacking, cards.BattleStateDefending:
		default:
			return fmt.Errorf("%w: alignment %q has unknown battle state %q", ErrInvalidCatalog, a.Name, a.BattleState)
		}
	}
	return nil
}

// Build creates a fresh spell instance from the template.
func (s SpellTemplate) Build() *cards.Spell {
	alignments := make([]*cards.StatusAlignment, 0, len(s.Alignments))
	for _, a := range s.Alignments {
		alignments = append(alignments, cards.NewStatusAlignment(a.Name, a.Effect, a.TurnLimit, a.BattleState))
	}
	effect := cards.Effect{Type: s.Effect.Type, Action: s.Effect.Action, Actor: s.Effect.Actor}
	return cards.NewSpell(s.Name, s.Text, s.Kind, effect, s.Impact, s.Cost, alignments)
}

// Roll creates an attack card with power and cost picked from the tier.
func (a AttackTier) Roll(rng *rand.Rand) *cards.AttackCard {
	power := a.Powers[rng.Intn(len(a.Powers))]
	cost := a.Costs[rng.Intn(len(a.Costs))]
	return cards.NewAttackCard(a.Name, a.Text, power, cost)
}

// Build creates a fresh monster instance. Templates are validated before
// use, so an unparsable grade falls back to E.
func (m MonsterTemplate) Build() *cards.Monster {
	grade, _ := cards.ParseGrade(m.Grade)
	return cards.NewMonster(m.Name, m.Type, grade)
}
