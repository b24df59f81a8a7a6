package bestiary

import (
	"github.com/aherron/skirmish/internal/game/combat"
	"github.com/aherron/skirmish/internal/game/dice"
)

// Kobold is the weakest block in the set: a dagger and Pack Tactics, so it
// only matters in numbers.
type Kobold struct {
	monster
	dagger combat.Weapon
}

// NewKobold builds a kobold with its hit points rolled.
func NewKobold(src dice.Source) *Kobold {
	k := &Kobold{monster: newMonster("Kobold", 6, 2, 2, [6]int{-2, 2, -1, -1, -2, -1}, src)}
	k.st.AC = 12
	k.dagger = combat.Weapon{
		Name:       "dagger",
		Damage:     dice.MustParse("1d4"),
		DamageType: combat.Piercing,
		Ability:    combat.Dex,
		Proficient: true,
	}
	return k
}

// TakeTurn stabs; Pack Tactics grants advantage while another kobold is
// still standing.
func (k *Kobold) TakeTurn(enc *combat.Encounter) {
	k.st.ActionAvailable = false
	k.attackWith(enc, k.dagger, combat.AttackOptions{Advantage: enc.ConsciousAllyOf(k.st)})
}
