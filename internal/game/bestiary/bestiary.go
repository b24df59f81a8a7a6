// Package bestiary implements the monster side of the simulator: the
// Monster Manual stat blocks the adventuring day is run against, a
// synthetic creature with dial-in numbers for calibration sweeps, and
// custom stat blocks loaded from YAML.
package bestiary

import (
	"github.com/aherron/skirmish/internal/game/combat"
	"github.com/aherron/skirmish/internal/game/dice"
)

// monster is the shared base every stat block embeds: the combat stats and
// the dice source used for the per-appearance hit-point roll.
type monster struct {
	st  *combat.Stats
	src dice.Source
}

// newMonster builds the shared base with hit points already rolled.
//
// Precondition: hitDice >= 0; sides is a valid die size when hitDice > 0.
func newMonster(name string, sides, hitDice, proficiency int, abilities [6]int, src dice.Source) monster {
	st := combat.NewStats(name, combat.TeamMonsters)
	st.Proficiency = proficiency
	st.Abilities = abilities
	st.HitDieSides = sides
	st.HitDice = hitDice
	st.PassivePerception = 10 + abilities[combat.Wis]
	m := monster{st: st, src: src}
	m.rollHP()
	return m
}

// Stats returns the monster's mutable state.
func (m *monster) Stats() *combat.Stats { return m.st }

// Initialize rerolls the monster's hit points; every appearance of a stat
// block is a different individual.
func (m *monster) Initialize() { m.rollHP() }

// StartEncounter marks the monster surprised; the party opens every
// scripted encounter with the drop on its adversaries.
func (m *monster) StartEncounter(enc *combat.Encounter) {
	m.st.Surprised = true
}

// rollHP rolls the full pool of hit dice, Con added per die.
//
// Postcondition: HP == MaxHP >= 1.
func (m *monster) rollHP() {
	st := m.st
	hp := 0
	for i := 0; i < st.HitDice; i++ {
		hp += m.src.Intn(st.HitDieSides) + 1 + st.Mod(combat.Con)
	}
	if hp < 1 {
		hp = 1
	}
	st.MaxHP = hp
	st.HP = hp
}

// attackWith swings w at a uniformly chosen valid enemy, tracing the
// outcome. Returns the outcome and false when no valid target existed.
func (m *monster) attackWith(enc *combat.Encounter, w combat.Weapon, opts combat.AttackOptions) (combat.AttackOutcome, bool) {
	target := enc.ChooseEnemy(m.st, combat.TargetFilter{DamageType: w.DamageType})
	if target == nil {
		return combat.AttackOutcome{}, false
	}
	return m.attackTarget(enc, w, target.Stats(), opts), true
}

// attackTarget swings w at a specific target, tracing the outcome.
func (m *monster) attackTarget(enc *combat.Encounter, w combat.Weapon, target *combat.Stats, opts combat.AttackOptions) combat.AttackOutcome {
	out := w.Attack(enc, m.st, target, opts)
	enc.Record(combat.Event{
		Actor: m.st.Name, Action: w.Name, Target: target.Name,
		Roll: out.Roll, Total: out.Total, Outcome: out.OutcomeLabel(),
		Amount: out.Damage, TargetHP: target.HP,
	})
	return out
}
