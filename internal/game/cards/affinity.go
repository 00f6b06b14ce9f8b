package cards

// AffinityValue is the fraction of base power granted or lost through type matchups.
const AffinityValue = 0.1

// Affinity lists the types a monster type is strong against (Plus) and the
// attacking types it is weak to when defending (Neg).
type Affinity struct {
	Plus []MonsterType
	Neg  []MonsterType
}

var typeAffinity = map[MonsterType]Affinity{
	TypeFire:     {Plus: []MonsterType{TypeGrass}, Neg: []MonsterType{TypeWater}},
	TypeWater:    {Plus: []MonsterType{TypeFire}, Neg: []MonsterType{TypeGrass}},
	TypeElectric: {Plus: []MonsterType{TypeWater}, Neg: []MonsterType{TypeGround, TypeGrass}},
	TypeGrass:    {Plus: []MonsterType{TypeWater}, Neg: []MonsterType{TypeFire}},
	TypeGround:   {Plus: []MonsterType{TypeElectric}, Neg: []MonsterType{TypeWater, TypeGrass}},
	TypeNormal:   {Plus: nil, Neg: []MonsterType{TypeDark, TypeLight}},
	TypeFlying:   {Plus: []MonsterType{TypeGround}, Neg: []MonsterType{TypeWater, TypeElectric}},
	TypeDark:     {Plus: []MonsterType{TypeNormal}, Neg: []MonsterType{TypeLight}},
	TypeLight:    {Plus: []MonsterType{TypeNormal}, Neg: []MonsterType{TypeDark}},
}

// AffinityOf returns the matchup table entry for t.
func AffinityOf(t MonsterType) Affinity {
	return typeAffinity[t]
}

// HasAdvantage reports whether an attacker of type attacker gets the attack bonus
// against defender.
func HasAdvantage(attacker, defender MonsterType) bool {
	return contains(typeAffinity[attacker].Plus, defender)
}

// IsWeakTo reports whether a defender of type defender takes the defense
// penalty against attacker.
func IsWeakTo(defender, attacker MonsterType) bool {
	return contains(typeAffinity[defender].Neg, attacker)
}

func contains(types []MonsterType, t MonsterType) bool {
	for _, candidate := range types {
		if candidate == t {
			return true
		}
	}
	return false
}
