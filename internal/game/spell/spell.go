// Package spell defines stateless spell templates. A Spell knows how to
// resolve itself inside an encounter; slot bookkeeping and the decision of
// when to cast belong to the caster.
package spell

import (
	"strconv"

	"github.com/aherron/skirmish/internal/game/combat"
	"github.com/aherron/skirmish/internal/game/dice"
)

// Spell is one castable template. Templates are immutable and shared;
// everything mutable lives on the combatants.
type Spell struct {
	Name  string
	Level int // minimum slot level; 0 for cantrips
	// Concentration marks spells whose effects persist only while the
	// caster maintains concentration.
	Concentration bool

	// Cast resolves the spell at the given slot level (ignored for
	// cantrips). Returns false when the spell found no valid target and
	// was skipped; skipped casts must not consume a slot.
	Cast func(enc *combat.Encounter, caster *combat.Stats, slot int) bool
}

// CantripDice returns the number of damage dice a cantrip rolls for a
// caster of the given character level (doubling at level 5).
func CantripDice(level int) int {
	if level >= 5 {
		return 2
	}
	return 1
}

// spellAttack resolves a ranged spell attack: d20 + SpellMod + proficiency
// vs AC, natural 1 auto-miss, crit doubling at the caster's threshold.
func spellAttack(enc *combat.Encounter, caster, target *combat.Stats, name string, damage dice.Expression, dtype combat.DamageType) {
	adv := false
	if target.Conditions.Has("guiding_bolt") {
		adv = true
		target.Conditions.Remove("guiding_bolt")
	}
	roll := dice.D20(enc.Src, adv, false)
	total := roll + caster.SpellMod + caster.Proficiency + caster.SpellAttackMod + rollBonuses(enc, caster)
	caster.Reveal()

	crit := roll >= caster.CritThreshold
	hit := roll != 1 && (crit || total >= target.AC)
	outcome := "miss"
	applied := 0
	if hit {
		amount := enc.RollDice(damage, crit)
		applied = enc.DealDamage(caster, target, amount, dtype, true)
		outcome = "hit"
		if crit {
			outcome = "crit"
		}
	}
	enc.Record(combat.Event{
		Actor: caster.Name, Action: name, Target: target.Name,
		Roll: roll, Total: total, Outcome: outcome,
		Amount: applied, TargetHP: target.HP,
	})
}

// saveDamage resolves save-based damage against one target: the target
// saves with the given ability vs the caster's DC; on success the damage
// is halved (halfOnSave) or negated.
func saveDamage(enc *combat.Encounter, caster, target *combat.Stats, name string, amount int, dtype combat.DamageType, ability combat.Ability, halfOnSave bool) {
	caster.Reveal()
	dc := caster.SaveDC()
	save := target.SavingThrow(enc.Src, ability, false, false)
	outcome := "fail"
	if save >= dc {
		outcome = "save"
		if !halfOnSave {
			amount = 0
		} else {
			amount /= 2
		}
	}
	applied := enc.DealDamage(caster, target, amount, dtype, true)
	enc.Record(combat.Event{
		Actor: caster.Name, Action: name, Target: target.Name,
		Total: save, Outcome: outcome,
		Amount: applied, TargetHP: target.HP,
	})
}

// healTarget applies amount plus the caster's healing rider, clamped at the
// target's max HP.
func healTarget(enc *combat.Encounter, caster, target *combat.Stats, name string, amount, slot int) {
	if caster.HealingRider != nil {
		amount += caster.HealingRider(slot)
	}
	applied := target.Heal(amount)
	enc.Record(combat.Event{
		Actor: caster.Name, Action: name, Target: target.Name,
		Outcome: "heal", Amount: applied, TargetHP: target.HP,
	})
}

// rollBonuses rolls the caster's registered attack riders (bless).
func rollBonuses(enc *combat.Encounter, caster *combat.Stats) int {
	total := 0
	for _, b := range caster.AttackBonuses {
		r, err := dice.Roll(b.Dice, enc.Src)
		if err != nil {
			panic("spell: invalid bonus dice for " + b.Name + ": " + err.Error())
		}
		total += r.Total()
	}
	return total
}

// nDice builds an n-dice expression with the given sides.
func nDice(n, sides int) dice.Expression {
	return dice.Expression{
		Raw:   strconv.Itoa(n) + "d" + strconv.Itoa(sides),
		Count: n,
		Sides: sides,
	}
}
