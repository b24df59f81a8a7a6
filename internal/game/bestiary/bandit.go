package bestiary

import (
	"github.com/aherron/skirmish/internal/game/combat"
	"github.com/aherron/skirmish/internal/game/dice"
)

// Bandit is a plain scimitar attacker with no tricks.
type Bandit struct {
	monster
	scimitar combat.Weapon
}

// NewBandit builds a bandit with its hit points rolled.
func NewBandit(src dice.Source) *Bandit {
	b := &Bandit{monster: newMonster("Bandit", 8, 2, 2, [6]int{0, 1, 1, 0, 0, 0}, src)}
	b.st.AC = 12
	b.scimitar = combat.Weapon{
		Name:       "scimitar",
		Damage:     dice.MustParse("1d6"),
		DamageType: combat.Slashing,
		Ability:    combat.Dex,
		Proficient: true,
	}
	return b
}

// TakeTurn swings at a random enemy.
func (b *Bandit) TakeTurn(enc *combat.Encounter) {
	b.st.ActionAvailable = false
	b.attackWith(enc, b.scimitar, combat.AttackOptions{})
}
