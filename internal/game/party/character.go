package party

import (
	"github.com/aherron/skirmish/internal/game/combat"
	"github.com/aherron/skirmish/internal/game/dice"
	"github.com/aherron/skirmish/internal/game/ration"
)

// Day shape every rationing schedule assumes: six encounters per long rest
// with a short rest every two encounters.
const (
	encountersPerLongRest  = 6
	encountersPerShortRest = 2
)

// character is the shared base every player-character class embeds: the
// combat stats, the hit die, and the long-rest dice source used outside
// encounters (hit-dice recovery, monster-free bookkeeping).
type character struct {
	st  *combat.Stats
	src dice.Source

	// encounter is the 1-based number of the encounter currently being
	// fought, recorded at StartEncounter for rationing lookups.
	encounter int
}

// Stats returns the combatant's mutable state.
func (c *character) Stats() *combat.Stats { return c.st }

// StartEncounter records the encounter number; rationing decisions index
// their schedules with it.
func (c *character) StartEncounter(enc *combat.Encounter) {
	c.encounter = enc.Number
}

// sinceLongRest returns the number of completed encounters since the last
// long rest, the index into a six-entry ration floor.
func (c *character) sinceLongRest() int { return c.encounter - 1 }

// sinceShortRest returns the number of completed encounters since the last
// rest of any kind, the index into a two-entry ration floor.
func (c *character) sinceShortRest() int { return (c.encounter - 1) % encountersPerShortRest }

// newCharacter builds the shared base: proficiency from level, max HP from
// the hit die, a full pool of hit dice.
//
// Precondition: level >= 1; sides is a valid die size.
func newCharacter(name string, level, sides int, abilities [6]int, src dice.Source) character {
	st := combat.NewStats(name, combat.TeamParty)
	st.Level = level
	st.Proficiency = (level-1)/4 + 2
	st.Abilities = abilities
	st.HitDieSides = sides
	st.HitDice = level
	st.MaxHP = maxHP(sides, level, abilities[combat.Con])
	st.HP = st.MaxHP
	st.PassivePerception = 10 + abilities[combat.Wis]
	return character{st: st, src: src}
}

// maxHP computes a character's hit-point maximum: the full die at first
// level and the rounded-up mean for each level after, Con added per level.
//
// Postcondition: result >= 1.
func maxHP(sides, level, con int) int {
	mean := dice.Mean(sides)
	hp := sides - mean + level*(mean+con)
	if hp < 1 {
		hp = 1
	}
	return hp
}

// restoreHP brings the character to full HP with a full pool of hit dice,
// as after a long rest.
func (c *character) restoreHP() {
	c.st.HP = c.st.MaxHP
	c.st.HitDice = c.st.Level
}

// spendHitDice rolls hit dice during a short rest until HP clears the
// recovery threshold: total HP minus the smaller of half the total and a
// maximal die. Unconscious characters cannot rest.
func (c *character) spendHitDice() {
	st := c.st
	threshold := st.MaxHP - min(st.MaxHP/2, st.HitDieSides)
	for st.HP > 0 && st.HitDice > 0 && st.HP <= threshold {
		st.HitDice--
		st.Heal(c.src.Intn(st.HitDieSides) + 1 + st.Mod(combat.Con))
	}
}

// attackWith swings w at a uniformly chosen valid enemy, tracing the
// outcome. Returns the outcome and false when no valid target existed.
func (c *character) attackWith(enc *combat.Encounter, w combat.Weapon, opts combat.AttackOptions) (combat.AttackOutcome, bool) {
	target := enc.ChooseEnemy(c.st, combat.TargetFilter{DamageType: w.DamageType})
	if target == nil {
		return combat.AttackOutcome{}, false
	}
	return c.attackTarget(enc, w, target.Stats(), opts), true
}

// attackTarget swings w at a specific target, tracing the outcome.
func (c *character) attackTarget(enc *combat.Encounter, w combat.Weapon, target *combat.Stats, opts combat.AttackOptions) combat.AttackOutcome {
	out := w.Attack(enc, c.st, target, opts)
	enc.Record(combat.Event{
		Actor: c.st.Name, Action: w.Name, Target: target.Name,
		Roll: out.Roll, Total: out.Total, Outcome: out.OutcomeLabel(),
		Amount: out.Damage, TargetHP: target.HP,
	})
	return out
}

// slotFloor converts a caster's slot budget into the remaining-slot
// thresholds consulted before each leveled cast.
func slotFloor(budget int, loading ration.Loading) []int {
	return ration.RemainingFloor(ration.Schedule(budget, encountersPerLongRest, loading))
}

// restFloor rations a per-short-rest pool (channel divinity, action surge)
// over the encounters between rests.
func restFloor(total int, loading ration.Loading) []int {
	return ration.RemainingFloor(ration.Schedule(total, encountersPerShortRest, loading))
}
