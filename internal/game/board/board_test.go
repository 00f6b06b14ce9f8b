package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/thraizz/monster-duel/internal/deck"
	"github.com/thraizz/monster-duel/internal/game/cards"
)

func newTestBoard(t *testing.T, pile []cards.Card, hand []cards.Card) *Board {
	t.Helper()
	return New(deck.New(pile), hand, WithLogger(zaptest.NewLogger(t)))
}

func withEnergy(t *testing.T, b *Board, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		require.NoError(t, b.SetEnergy(cards.NewEnergy()))
	}
}

func TestNewBoardDefaults(t *testing.T) {
	b := newTestBoard(t, nil, nil)
	assert.Equal(t, DefaultLifePoints, b.LifePoints())
	assert.Zero(t, b.TotalEnergy())

	b = New(nil, nil, WithLifePoints(20))
	assert.Equal(t, 20, b.LifePoints())
}

func TestDrawFromExhaustedDeck(t *testing.T) {
	b := newTestBoard(t, nil, []cards.Card{cards.NewEnergy()})

	c, err := b.Draw()
	assert.Nil(t, c)
	assert.ErrorIs(t, err, deck.ErrDeckExhausted)
	assert.Equal(t, 1, b.HandSize())
}

func TestDrawAppendsToHand(t *testing.T) {
	top := cards.NewEnergy()
	b := newTestBoard(t, []cards.Card{top}, nil)

	c, err := b.Draw()
	require.NoError(t, err)
	assert.Same(t, top, c)
	assert.Equal(t, []cards.Card{top}, b.Hand())
}

func TestMonsterZoneCapacity(t *testing.T) {
	b := newTestBoard(t, nil, nil)
	for i := 0; i < MaxMonsters; i++ {
		require.NoError(t, b.AddMonster(cards.NewMonster("Mon", cards.TypeNormal, cards.GradeC)))
	}

	err := b.AddMonster(cards.NewMonster("Mon", cards.TypeNormal, cards.GradeC))
	assert.ErrorIs(t, err, ErrZoneFull)
	assert.Len(t, b.Monsters(), MaxMonsters)
}

func TestSpellZoneCapacity(t *testing.T) {
	b := newTestBoard(t, nil, nil)
	boost := func() *cards.Spell {
		return cards.NewSpell("Boost", "", cards.SpellMagic, cards.Effect{Type: cards.EffectLifePoints, Action: cards.ActionAdd, Actor: cards.ActorPlayer}, 3, 1, nil)
	}
	for i := 0; i < MaxSpells; i++ {
		s := boost()
		require.NoError(t, b.AddSpell(s))
		assert.True(t, s.IsTapped(), "set spells are face down")
	}

	assert.ErrorIs(t, b.AddSpell(boost()), ErrZoneFull)
	assert.Len(t, b.Spells(), MaxSpells)
}

func TestPayEnergyIsAtomic(t *testing.T) {
	b := newTestBoard(t, nil, nil)
	withEnergy(t, b, 2)

	assert.False(t, b.PayEnergy(3))
	assert.Equal(t, 2, b.TotalEnergy())
	assert.Equal(t, 2, b.NumEnergyUntapped())

	assert.True(t, b.PayEnergy(2))
	assert.Equal(t, 0, b.TotalEnergy())
	assert.Equal(t, 0, b.NumEnergyUntapped())
}

func TestResetEnergiesIsIdempotent(t *testing.T) {
	b := newTestBoard(t, nil, nil)
	withEnergy(t, b, 3)
	require.True(t, b.PayEnergy(2))

	b.ResetEnergies()
	assert.Equal(t, 3, b.TotalEnergy())
	assert.Equal(t, 3, b.NumEnergyUntapped())

	b.ResetEnergies()
	assert.Equal(t, 3, b.TotalEnergy())
	assert.Equal(t, 3, b.NumEnergyUntapped())
}

func TestSetEnergyRejectsOtherCards(t *testing.T) {
	b := newTestBoard(t, nil, nil)
	err := b.SetEnergy(cards.NewMonster("Mon", cards.TypeFire, cards.GradeC))
	assert.ErrorIs(t, err, ErrWrongCardType)
	assert.Zero(t, b.Energy().Count())
}

func TestTotalEnergyNeverExceedsCardCount(t *testing.T) {
	b := newTestBoard(t, nil, nil)
	withEnergy(t, b, 3)
	_, ok := b.Energy().RemoveOldestUntapped()
	require.True(t, ok)
	b.ResetEnergies()
	assert.LessOrEqual(t, b.TotalEnergy(), b.Energy().Count())
}

func TestAttackReadyAndCanDefend(t *testing.T) {
	b := newTestBoard(t, nil, nil)
	assert.False(t, b.CanDefend())

	bare := cards.NewMonster("Mon 1", cards.TypeFire, cards.GradeC)
	armed := cards.NewMonster("Mon 2", cards.TypeWater, cards.GradeB)
	require.NoError(t, armed.Equip(cards.NewAttackCard("weak attack", "", 2, 1)))
	require.NoError(t, b.AddMonster(bare))
	assert.Zero(t, b.AttackReady())
	assert.False(t, b.CanDefend())

	require.NoError(t, b.AddMonster(armed))
	assert.Equal(t, 1, b.AttackReady())
	assert.True(t, b.CanDefend())

	armed.Tap()
	assert.Zero(t, b.AttackReady())
	b.UntapMonsters()
	assert.Equal(t, 1, b.AttackReady())
}

func TestResetMonstersToIdle(t *testing.T) {
	b := newTestBoard(t, nil, nil)
	m := cards.NewMonster("Mon 1", cards.TypeFire, cards.GradeC)
	require.NoError(t, b.AddMonster(m))
	m.ToAttackState()

	b.ResetMonstersToIdle()
	assert.Equal(t, cards.BattleStateIdle, m.State)
}

func TestCanCounterFrom(t *testing.T) {
	negate := func() *cards.Spell {
		return cards.NewSpell("Negate", "", cards.SpellCounter, cards.Effect{Type: cards.EffectNegate, Action: cards.ActionDestroy, Actor: cards.ActorOpponent}, 0, 1, nil)
	}
	inHand := negate()
	b := newTestBoard(t, nil, []cards.Card{cards.NewEnergy(), inHand})
	assert.Equal(t, []Zone{ZoneHand}, b.CanCounterFrom())
	assert.Equal(t, []int{1}, b.CounterPositions(ZoneHand))

	onField := negate()
	require.NoError(t, b.AddSpell(onField))
	assert.Equal(t, []Zone{ZoneField, ZoneHand}, b.CanCounterFrom())

	onField.Negate()
	inHand.Negate()
	assert.Empty(t, b.CanCounterFrom())
}

func TestHandRemovalByIdentity(t *testing.T) {
	a, c := cards.NewEnergy(), cards.NewEnergy()
	b := newTestBoard(t, nil, []cards.Card{a, c})

	assert.True(t, b.RemoveFromHand(c))
	assert.False(t, b.RemoveFromHand(c))
	assert.Equal(t, []cards.Card{a}, b.Hand())

	_, err := b.TakeFromHand(3)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestViews(t *testing.T) {
	b := newTestBoard(t, nil, []cards.Card{cards.NewEnergy()})
	require.NoError(t, b.AddMonster(cards.NewMonster("Mon 3", cards.TypeDark, cards.GradeA)))

	views := b.MonsterViews()
	assert.Equal(t, "Mon 3 (Dark / A), untapped", views[0])
	assert.Equal(t, "", views[3])
	assert.Equal(t, [MaxSpells]string{}, b.SpellViews())
	assert.Equal(t, []string{"Energy 1 untapped"}, b.HandView())
}

func TestLifePoints(t *testing.T) {
	b := newTestBoard(t, nil, nil)
	b.LoseLife(7)
	assert.Equal(t, 3, b.LifePoints())
	assert.True(t, b.Alive())
	b.LoseLife(3)
	assert.False(t, b.Alive())
	b.GainLife(3)
	assert.Equal(t, 3, b.LifePoints())
}
