package bestiary

import (
	"github.com/aherron/skirmish/internal/game/combat"
	"github.com/aherron/skirmish/internal/game/dice"
)

// Goblin fights hit-and-run: a scimitar slash, then Nimble Escape to hide
// as a bonus action every turn.
type Goblin struct {
	monster
	scimitar combat.Weapon
}

// NewGoblin builds a goblin with its hit points rolled.
func NewGoblin(src dice.Source) *Goblin {
	g := &Goblin{monster: newMonster("Goblin", 6, 2, 2, [6]int{-1, 2, 0, 0, -1, -1}, src)}
	g.st.AC = 15
	g.scimitar = combat.Weapon{
		Name:       "scimitar",
		Damage:     dice.MustParse("1d6"),
		DamageType: combat.Slashing,
		Ability:    combat.Dex,
		Proficient: true,
	}
	return g
}

// TakeTurn slashes, which reveals the goblin, then re-hides. Goblins carry
// Stealth expertise, so the hide roll adds double proficiency.
func (g *Goblin) TakeTurn(enc *combat.Encounter) {
	st := g.st
	st.ActionAvailable = false
	g.attackWith(enc, g.scimitar, combat.AttackOptions{})

	if st.BonusAvailable && st.Conscious() {
		st.BonusAvailable = false
		st.Stealth = dice.D20(enc.Src, false, false) + st.Mod(combat.Dex) + 2*st.Proficiency
		enc.Record(combat.Event{
			Actor: st.Name, Action: "hide",
			Total: st.Stealth, Outcome: "hidden",
		})
	}
}
