package party

import (
	"github.com/aherron/skirmish/internal/game/combat"
	"github.com/aherron/skirmish/internal/game/dice"
	"github.com/aherron/skirmish/internal/game/ration"
	"github.com/aherron/skirmish/internal/game/spell"
)

// Wizard is an Evocation wizard: front-loaded slot spending on area
// evocations, cantrips when the ration says to hold back, mage armor paid
// for out of the day's first-level slots, and Arcane Recovery at the first
// short rest.
type Wizard struct {
	character

	slots *Slots

	fireBolt     spell.Spell
	acidSplash   spell.Spell
	poisonSpray  spell.Spell
	magicMissile spell.Spell
	burningHands spell.Spell
	thunderwave  spell.Spell
	scorchingRay spell.Spell
	fireball     spell.Spell

	slotFloor      []int
	arcaneRecovery bool
}

// NewWizard builds an Evocation wizard of the given level.
//
// Precondition: 1 <= level <= 8.
func NewWizard(level int, src dice.Source) *Wizard {
	ab := [6]int{-1, 2, 2, 3, 1, 0}
	if level >= 4 {
		ab[combat.Int]++
	}
	if level >= 8 {
		ab[combat.Int]++
	}

	w := &Wizard{character: newCharacter("Wizard", level, 6, ab, src)}
	st := w.st
	st.AC = 13 + st.Mod(combat.Dex) // mage armor, cast each morning
	st.SaveProficiencies[combat.Int] = true
	st.SaveProficiencies[combat.Wis] = true
	st.SpellMod = st.Mod(combat.Int)

	if level >= 6 {
		st.SpellAttackMod = 1 // wand of the war mage
		st.PotentCantrips = true
	}

	w.slots = NewSlots(level)
	// Mage armor eats one first-level slot off the top of every day.
	w.slotFloor = slotFloor(w.slots.TotalCount()-1, ration.FrontLoaded)

	w.fireBolt = spell.FireBolt()
	w.acidSplash = spell.AcidSplash()
	w.poisonSpray = spell.PoisonSpray()
	w.magicMissile = spell.MagicMissile()
	w.burningHands = spell.BurningHands()
	w.thunderwave = spell.Thunderwave()
	w.scorchingRay = spell.ScorchingRay()
	w.fireball = spell.Fireball()
	return w
}

// Slots exposes the wizard's spell-slot pool.
func (w *Wizard) Slots() *Slots { return w.slots }

// Initialize readies the wizard for a fresh adventuring day.
func (w *Wizard) Initialize() { w.LongRest() }

// LongRest restores hit points, hit dice, and spell slots, then pays for
// mage armor and rearms Arcane Recovery.
func (w *Wizard) LongRest() {
	w.restoreHP()
	w.slots.Reset()
	w.slots.Spend(1) // mage armor
	w.arcaneRecovery = true
}

// ShortRest runs Arcane Recovery once per day, recovering up to
// (level+1)/2 slot levels from the top down, then spends hit dice.
func (w *Wizard) ShortRest() {
	if w.arcaneRecovery && w.st.Conscious() {
		w.arcaneRecovery = false
		budget := (w.st.Level + 1) / 2
		for lvl := 6; lvl >= 1; lvl-- {
			for w.slots.Remaining[lvl-1] < w.slots.Total[lvl-1] && budget >= lvl {
				w.slots.Recover(lvl)
				budget -= lvl
			}
		}
	}
	w.spendHitDice()
}

// TakeTurn casts the best leveled evocation the ration allows, otherwise a
// cantrip.
func (w *Wizard) TakeTurn(enc *combat.Encounter) {
	st := w.st
	if st.ActionAvailable && w.slots.Count() > w.slotFloor[w.sinceLongRest()] && w.castLeveled(enc) {
		st.ActionAvailable = false
	}
	if st.ActionAvailable {
		st.ActionAvailable = false
		w.castCantrip(enc)
	}
}

// castLeveled works down the spell list: fireball into a crowd, scorching
// ray, then a uniformly chosen first-level evocation. Returns false when
// nothing found a valid target; skipped casts consume no slot.
func (w *Wizard) castLeveled(enc *combat.Encounter) bool {
	st := w.st
	switch {
	case st.Level >= 5 && enc.MonstersConscious() > 1 && w.slots.Highest(3) > 0:
		lvl := w.slots.Highest(3)
		if w.fireball.Cast(enc, st, lvl) {
			w.slots.Spend(lvl)
			return true
		}
	case st.Level >= 3 && w.slots.Highest(2) > 0:
		lvl := w.slots.Highest(2)
		if w.scorchingRay.Cast(enc, st, lvl) {
			w.slots.Spend(lvl)
			return true
		}
	}

	lvl := w.slots.Highest(1)
	if lvl == 0 {
		return false
	}
	order := [3]spell.Spell{w.burningHands, w.magicMissile, w.thunderwave}
	pick := enc.Src.Intn(len(order))
	for i := range order {
		if order[(pick+i)%len(order)].Cast(enc, st, lvl) {
			w.slots.Spend(lvl)
			return true
		}
	}
	return false
}

// castCantrip throws a uniformly chosen cantrip, skipping past any whose
// damage type every enemy is immune to.
func (w *Wizard) castCantrip(enc *combat.Encounter) {
	order := [3]spell.Spell{w.fireBolt, w.acidSplash, w.poisonSpray}
	pick := enc.Src.Intn(len(order))
	for i := range order {
		if order[(pick+i)%len(order)].Cast(enc, w.st, 0) {
			return
		}
	}
}
