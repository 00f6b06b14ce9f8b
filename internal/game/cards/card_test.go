package cards

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonsterEquipCapacity(t *testing.T) {
	m := NewMonster("Mon 1", TypeFire, GradeC)

	require.NoError(t, m.Equip(NewAttackCard("weak attack", "", 2, 1)))
	require.NoError(t, m.Equip(NewAttackCard("mid attack", "", 4, 3)))

	err := m.Equip(NewAttackCard("strong attack", "", 7, 6))
	assert.ErrorIs(t, err, ErrEquipFull)
	assert.Len(t, m.Equipped, MaxEquipped)
}

func TestMonsterBuffsAreLastInFirstOut(t *testing.T) {
	m := NewMonster("Mon 1", TypeWater, GradeB)
	poison := NewStatusAlignment("Poison", -0.03, 0, BattleStateNone)
	guard := NewStatusAlignment("Extra Guard", 0.1, 0, BattleStateDefending)

	m.AddBuffs(poison, guard)

	popped, ok := m.PopBuff()
	require.True(t, ok)
	assert.Same(t, guard, popped)
	assert.Equal(t, []*StatusAlignment{poison}, m.Buffs)

	_, ok = m.PopBuff()
	require.True(t, ok)
	_, ok = m.PopBuff()
	assert.False(t, ok)
}

func TestAttackReadyRequiresUntappedAndEquipped(t *testing.T) {
	m := NewMonster("Mon 1", TypeNormal, GradeE)
	assert.False(t, m.AttackReady())

	require.NoError(t, m.Equip(NewAttackCard("weak attack", "", 1, 1)))
	assert.True(t, m.AttackReady())

	m.Tap()
	assert.False(t, m.AttackReady())
}

func TestStatusAlignmentAppliesIn(t *testing.T) {
	anyState := NewStatusAlignment("Poison", -0.03, 0, BattleStateNone)
	guard := NewStatusAlignment("Extra Guard", 0.1, 0, BattleStateDefending)

	assert.True(t, anyState.AppliesIn(BattleStateAttacking))
	assert.True(t, guard.AppliesIn(BattleStateDefending))
	assert.False(t, guard.AppliesIn(BattleStateAttacking))
}

func TestViews(t *testing.T) {
	e := NewEnergy()
	assert.Equal(t, "Energy 1 untapped", e.View())
	e.Tap()
	assert.Equal(t, "Energy 1 tapped", e.View())

	a := NewAttackCard("mid attack", "This is a mid attack", 5, 3)
	assert.Equal(t, "mid attack: str:5 cost:3", a.View())

	poison := NewStatusAlignment("Poison", -0.03, 2, BattleStateNone)
	assert.Equal(t, "Poison: effect:-3%, turns: 2", poison.View())

	m := NewMonster("Mon 7", TypeFire, GradeC)
	require.NoError(t, m.Equip(a))
	m.AddBuffs(poison)
	assert.Equal(t, "Mon 7 (Fire / C), untapped, attks:mid attack: str:5 cost:3, buffs:Poison: effect:-3%, turns: 2", m.View())

	boost := NewSpell("Boost", "", SpellMagic, Effect{Type: EffectLifePoints, Action: ActionAdd, Actor: ActorPlayer}, 3, 1, nil)
	assert.Equal(t, "Boost (Magic / LIFEPOINTS) untapped, cost: 1, impact: 3", boost.View())
	boost.Negate()
	assert.Equal(t, "NEGATED Boost (Magic / LIFEPOINTS) untapped, cost: 1, impact: 3", boost.View())
}

func TestNegatedCounterIsNotEligible(t *testing.T) {
	negate := NewSpell("Negate", "", SpellCounter, Effect{Type: EffectNegate, Action: ActionDestroy, Actor: ActorOpponent}, 0, 1, nil)
	assert.True(t, negate.IsCounter())

	negate.Negate()
	assert.False(t, negate.IsCounter())
}

func TestCardsHaveDistinctIDs(t *testing.T) {
	a, b := NewEnergy(), NewEnergy()
	assert.NotEqual(t, a.ID(), b.ID())
}

func TestParseGrade(t *testing.T) {
	g, err := ParseGrade("s")
	require.NoError(t, err)
	assert.Equal(t, GradeS, g)
	assert.Equal(t, 5, int(g))

	_, err = ParseGrade("Z")
	assert.Error(t, err)
}

func TestAffinity(t *testing.T) {
	assert.True(t, HasAdvantage(TypeFire, TypeGrass))
	assert.False(t, HasAdvantage(TypeGrass, TypeFire))
	assert.True(t, IsWeakTo(TypeGrass, TypeFire))
	assert.False(t, IsWeakTo(TypeFire, TypeGrass))
	assert.Empty(t, AffinityOf(TypeNormal).Plus)

	for _, mt := range MonsterTypes {
		assert.True(t, mt.Valid())
		_, ok := typeAffinity[mt]
		assert.True(t, ok, "missing affinity for %s", mt)
	}
}
