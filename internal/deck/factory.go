package deck

import (
	"fmt"
	"math/rand"

	"go.uber.org/zap"

	"github.com/thraizz/monster-duel/internal/game/cards"
)

// Deck composition.
const (
	EnergyCount      = 15
	AttackCount      = 6
	SpellCount       = 4
	MonsterCount     = 5
	StartingHandSize = 6
)

// Factory deals shuffled decks from a catalog. All randomness comes from one
// seeded source so a seed reproduces the same decks.
type Factory struct {
	catalog  *Catalog
	monsters []MonsterTemplate
	rng      *rand.Rand
	seed     int64
	logger   *zap.Logger
}

// NewFactory validates the catalog and prepares the monster pool. When the
// catalog has no fixed monsters a pool is generated from MonsterPool.
func NewFactory(catalog *Catalog, seed int64, logger *zap.Logger) (*Factory, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if catalog == nil {
		return nil, fmt.Errorf("%w: nil catalog", ErrInvalidCatalog)
	}
	if err := catalog.Validate(); err != nil {
		return nil, err
	}

	f := &Factory{
		catalog: catalog,
		rng:     rand.New(rand.NewSource(seed)),
		seed:    seed,
		logger:  logger,
	}
	f.monsters = catalog.Monsters
	if len(f.monsters) == 0 {
		f.monsters = f.generateMonsters(catalog.MonsterPool)
	}

	logger.Debug("deck factory ready",
		zap.Int64("seed", seed),
		zap.Int("spells", len(catalog.Spells)),
		zap.Int("attack_tiers", len(catalog.Attacks)),
		zap.Int("monsters", len(f.monsters)))
	return f, nil
}

// Seed returns the seed the factory was built with.
func (f *Factory) Seed() int64 {
	return f.seed
}

// Monsters returns the monster pool decks draw from.
func (f *Factory) Monsters() []MonsterTemplate {
	out := make([]MonsterTemplate, len(f.monsters))
	copy(out, f.monsters)
	return out
}

// NewDeck builds and shuffles one deck. Every card in it is a new instance.
func (f *Factory) NewDeck() *Deck {
	pile := make([]cards.Card, 0, EnergyCount+AttackCount+SpellCount+MonsterCount)
	for _, a := range f.attacks() {
		pile = append(pile, a)
	}
	for i := 0; i < SpellCount; i++ {
		pile = append(pile, f.catalog.Spells[f.rng.Intn(len(f.catalog.Spells))].Build())
	}
	for i := 0; i < EnergyCount; i++ {
		pile = append(pile, cards.NewEnergy())
	}
	for i := 0; i < MonsterCount; i++ {
		pile = append(pile, f.monsters[f.rng.Intn(len(f.monsters))].Build())
	}

	f.rng.Shuffle(len(pile), func(i, j int) {
		pile[i], pile[j] = pile[j], pile[i]
	})
	return &Deck{cards: pile}
}

// attacks draws AttackCount attack cards by tier weight, skipping a unique
// tier once it has been drawn.
func (f *Factory) attacks() []*cards.AttackCard {
	totalWeight := 0
	for _, tier := range f.catalog.Attacks {
		totalWeight += tier.Weight
	}

	used := make(map[string]bool)
	out := make([]*cards.AttackCard, 0, AttackCount)
	for len(out) < AttackCount {
		tier := f.pickTier(totalWeight)
		if tier.Unique && used[tier.Name] {
			continue
		}
		used[tier.Name] = true
		out = append(out, tier.Roll(f.rng))
	}
	return out
}

func (f *Factory) pickTier(totalWeight int) AttackTier {
	n := f.rng.Intn(totalWeight)
	for _, tier := range f.catalog.Attacks {
		if n < tier.Weight {
			return tier
		}
		n -= tier.Weight
	}
	return f.catalog.Attacks[len(f.catalog.Attacks)-1]
}

func (f *Factory) generateMonsters(pool MonsterPool) []MonsterTemplate {
	prefix := pool.NamePrefix
	if prefix == "" {
		prefix = "Mon"
	}

	// Normal is listed once with the other types and then NormalWeight more
	// times per type.
	weighted := append([]cards.MonsterType{}, cards.MonsterTypes...)
	for i := 0; i < len(cards.MonsterTypes)*pool.NormalWeight; i++ {
		weighted = append(weighted, cards.TypeNormal)
	}

	out := make([]MonsterTemplate, 0, pool.Size)
	for i := 0; i < pool.Size; i++ {
		out = append(out, MonsterTemplate{
			Name:  fmt.Sprintf("%s %d", prefix, i),
			Type:  weighted[f.rng.Intn(len(weighted))],
			Grade: gradeFor(f.rng.NormFloat64() * 0.1).String(),
		})
	}
	return out
}

// gradeFor maps a sample of N(0, 0.1) onto a grade. Most monsters land on C.
func gradeFor(sample float64) cards.Grade {
	switch {
	case sample <= -0.3:
		return cards.GradeE
	case sample <= -0.1:
		return cards.GradeD
	case sample <= 0.1:
		return cards.GradeC
	case sample <= 0.2:
		return cards.GradeB
	case sample <= 0.3:
		return cards.GradeA
	default:
		return cards.GradeS
	}
}
