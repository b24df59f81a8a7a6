package bestiary

import (
	"github.com/aherron/skirmish/internal/game/combat"
	"github.com/aherron/skirmish/internal/game/dice"
)

// martialAdvantage is the extra damage a hobgoblin deals once per turn
// when an ally is within reach of its target.
var martialAdvantage = dice.MustParse("2d6")

// Hobgoblin is a disciplined longsword fighter in heavy armor; Martial
// Advantage makes a formation of them far deadlier than one alone.
type Hobgoblin struct {
	monster
	longsword combat.Weapon
}

// NewHobgoblin builds a hobgoblin with its hit points rolled.
func NewHobgoblin(src dice.Source) *Hobgoblin {
	h := &Hobgoblin{monster: newMonster("Hobgoblin", 8, 2, 2, [6]int{1, 1, 1, 0, 0, -1}, src)}
	h.st.AC = 18
	h.longsword = combat.Weapon{
		Name:       "longsword",
		Damage:     dice.MustParse("1d8"),
		DamageType: combat.Slashing,
		Ability:    combat.Str,
		Proficient: true,
	}
	return h
}

// TakeTurn swings the longsword, riding Martial Advantage on the hit while
// another hobgoblin is still standing.
func (h *Hobgoblin) TakeTurn(enc *combat.Encounter) {
	h.st.ActionAvailable = false
	opts := combat.AttackOptions{}
	if enc.ConsciousAllyOf(h.st) {
		opts.ExtraDice = []dice.Expression{martialAdvantage}
	}
	h.attackWith(enc, h.longsword, opts)
}
