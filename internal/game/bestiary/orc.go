package bestiary

import (
	"github.com/aherron/skirmish/internal/game/combat"
	"github.com/aherron/skirmish/internal/game/dice"
)

// Orc hits hard and dies fast: a greataxe behind +3 Strength on a two-die
// hit point pool.
type Orc struct {
	monster
	greataxe combat.Weapon
}

// NewOrc builds an orc with its hit points rolled.
func NewOrc(src dice.Source) *Orc {
	o := &Orc{monster: newMonster("Orc", 8, 2, 2, [6]int{3, 1, 3, -2, 0, 0}, src)}
	o.st.AC = 13
	o.greataxe = combat.Weapon{
		Name:       "greataxe",
		Damage:     dice.MustParse("1d12"),
		DamageType: combat.Slashing,
		Ability:    combat.Str,
		Proficient: true,
	}
	return o
}

// TakeTurn swings at a random enemy.
func (o *Orc) TakeTurn(enc *combat.Encounter) {
	o.st.ActionAvailable = false
	o.attackWith(enc, o.greataxe, combat.AttackOptions{})
}
