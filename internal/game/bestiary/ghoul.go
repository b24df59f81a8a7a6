package bestiary

import (
	"github.com/aherron/skirmish/internal/game/combat"
	"github.com/aherron/skirmish/internal/game/condition"
	"github.com/aherron/skirmish/internal/game/dice"
)

// ghoulParalysisRounds caps how long a failed save can hold a victim; the
// repeat save at the end of each of its turns usually ends it sooner.
const ghoulParalysisRounds = 10

// Ghoul claws at the living and paralyzes whoever fails the Con save, then
// switches to its bite against anything held fast. Elves are immune to the
// paralysis.
type Ghoul struct {
	monster
	claws combat.Weapon
	bite  combat.Weapon
}

// NewGhoul builds a ghoul with its hit points rolled.
func NewGhoul(src dice.Source) *Ghoul {
	g := &Ghoul{monster: newMonster("Ghoul", 8, 5, 2, [6]int{1, 2, 0, -2, 0, -2}, src)}
	st := g.st
	st.AC = 12
	st.UndeadCR = 1
	st.Immunities = map[combat.DamageType]bool{combat.Poison: true}
	// Paralysis DC 10: 8 + proficiency + Con.
	st.SpellMod = st.Mod(combat.Con)

	g.claws = combat.Weapon{
		Name:       "claws",
		Damage:     dice.MustParse("2d4"),
		DamageType: combat.Slashing,
		Ability:    combat.Dex,
		Proficient: true,
	}
	// The bite is the weaker, non-proficient attack; worth using only
	// against a helpless target, where the hit crits automatically.
	g.bite = combat.Weapon{
		Name:       "bite",
		Damage:     dice.MustParse("2d6"),
		DamageType: combat.Piercing,
		Ability:    combat.Dex,
	}
	return g
}

// TakeTurn bites anything already paralyzed, otherwise claws a random
// enemy and forces the paralysis save on a hit.
func (g *Ghoul) TakeTurn(enc *combat.Encounter) {
	st := g.st
	st.ActionAvailable = false

	if held := g.paralyzedEnemy(enc); held != nil {
		g.attackTarget(enc, g.bite, held, combat.AttackOptions{})
		return
	}

	target := enc.ChooseEnemy(st, combat.TargetFilter{DamageType: g.claws.DamageType})
	if target == nil {
		return
	}
	out := g.attackTarget(enc, g.claws, target.Stats(), combat.AttackOptions{})
	if out.Hit {
		g.paralyze(enc, target.Stats())
	}
}

// paralyzedEnemy returns the first paralyzed conscious enemy in roster
// order, or nil.
func (g *Ghoul) paralyzedEnemy(enc *combat.Encounter) *combat.Stats {
	for _, c := range enc.Members(g.st.Team.Opponent()) {
		st := c.Stats()
		if st.Conscious() && st.Paralyzed() {
			return st
		}
	}
	return nil
}

// paralyze forces the Con save. On a failure the target is paralyzed for
// up to ten rounds, repeating the save at the end of each of its turns.
func (g *Ghoul) paralyze(enc *combat.Encounter, target *combat.Stats) {
	if target.ConditionImmunities["paralyzed"] || !target.Conscious() {
		return
	}
	dc := g.st.SaveDC()
	if target.SavingThrow(enc.Src, combat.Con, false, false) >= dc {
		enc.Record(combat.Event{
			Actor: g.st.Name, Action: "paralysis",
			Target: target.Name, Outcome: "save",
		})
		return
	}
	_ = target.Conditions.Apply(&condition.Duration{
		Name:      "paralyzed",
		Source:    g.st.Name,
		Remaining: ghoulParalysisRounds,
		OnTurnEnd: func() bool {
			return target.SavingThrow(enc.Src, combat.Con, false, false) >= dc
		},
	})
	enc.Record(combat.Event{
		Actor: g.st.Name, Action: "paralysis",
		Target: target.Name, Outcome: "fail",
	})
}
