package combat_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aherron/skirmish/internal/game/combat"
	"github.com/aherron/skirmish/internal/game/condition"
	"github.com/aherron/skirmish/internal/game/dice"
)

func TestEncounter_Run_PartyVictory(t *testing.T) {
	hero := &stub{st: newStats("Gorm", combat.TeamParty, 20, 16)}
	hero.turn = func(e *combat.Encounter) {
		if target := e.ChooseEnemy(hero.st, combat.TargetFilter{}); target != nil {
			e.DealDamage(hero.st, target.Stats(), 10, combat.Slashing, false)
		}
	}
	orc := &stub{st: newStats("Orc", combat.TeamMonsters, 15, 13)}
	orc.turn = func(e *combat.Encounter) {
		if target := e.ChooseEnemy(orc.st, combat.TargetFilter{}); target != nil {
			e.DealDamage(orc.st, target.Stats(), 1, combat.Slashing, false)
		}
	}

	enc := combat.NewEncounter(1, []combat.Combatant{hero}, []combat.Combatant{orc},
		dice.NewSeededSource(11, 0), zap.NewNop(), nil)
	require.NoError(t, enc.Run())

	assert.Equal(t, combat.Concluded, enc.State)
	assert.Equal(t, 0, enc.MonstersConscious())
	assert.Equal(t, 1, enc.PartyConscious())
	assert.False(t, enc.SimultaneousDefeat)
	assert.Error(t, enc.Run(), "Concluded is terminal")
}

func TestEncounter_Run_InitiativeTieGoesToParty(t *testing.T) {
	var acted []string
	hero := &stub{st: newStats("Gorm", combat.TeamParty, 20, 16)}
	hero.turn = func(e *combat.Encounter) {
		acted = append(acted, "Gorm")
		e.DealDamage(hero.st, e.Monsters[0].Stats(), 100, combat.Slashing, false)
	}
	orc := &stub{st: newStats("Orc", combat.TeamMonsters, 15, 13)}
	orc.turn = func(e *combat.Encounter) { acted = append(acted, "Orc") }

	// Both initiative draws return the same value; no ability difference.
	src := &script{vals: []int{9, 9}}
	enc := combat.NewEncounter(1, []combat.Combatant{hero}, []combat.Combatant{orc},
		src, zap.NewNop(), nil)
	require.NoError(t, enc.Run())

	assert.Equal(t, []string{"Gorm"}, acted, "the party wins initiative ties")
}

func TestEncounter_Run_SimultaneousDefeat(t *testing.T) {
	hero := &stub{st: newStats("Gorm", combat.TeamParty, 20, 16)}
	hero.turn = func(e *combat.Encounter) {
		// A blast that drops both sides in the same resolution.
		e.DealDamage(hero.st, e.Monsters[0].Stats(), 100, combat.Fire, false)
		e.DealDamage(hero.st, hero.st, 100, combat.Fire, false)
	}
	orc := &stub{st: newStats("Orc", combat.TeamMonsters, 15, 13)}

	enc := combat.NewEncounter(1, []combat.Combatant{hero}, []combat.Combatant{orc},
		dice.NewSeededSource(3, 0), zap.NewNop(), nil)
	require.NoError(t, enc.Run())

	assert.True(t, enc.SimultaneousDefeat)
	assert.Equal(t, combat.Concluded, enc.State)
	assert.Equal(t, 0, enc.PartyConscious())
	assert.Equal(t, 0, enc.MonstersConscious())
}

func TestEncounter_Run_RoundCapStalemate(t *testing.T) {
	hero := &stub{st: newStats("Gorm", combat.TeamParty, 20, 16)}
	orc := &stub{st: newStats("Orc", combat.TeamMonsters, 15, 13)}

	enc := combat.NewEncounter(1, []combat.Combatant{hero}, []combat.Combatant{orc},
		dice.NewSeededSource(5, 0), zap.NewNop(), nil)
	enc.RoundCap = 4
	require.NoError(t, enc.Run())

	assert.Equal(t, combat.Concluded, enc.State)
	assert.Equal(t, 1, enc.PartyConscious(), "stalemate leaves the party standing")
	assert.Equal(t, 1, enc.MonstersConscious())
}

func TestEncounter_Run_UnconsciousSkippedIncapacitatedTicked(t *testing.T) {
	turns := 0
	hero := &stub{st: newStats("Gorm", combat.TeamParty, 20, 16)}
	hero.turn = func(e *combat.Encounter) { turns++ }
	require.NoError(t, hero.st.Conditions.Apply(&condition.Duration{
		Name: "paralyzed", Remaining: 1,
	}))

	slayer := &stub{st: newStats("Orc", combat.TeamMonsters, 15, 13)}
	slayer.turn = func(e *combat.Encounter) {
		if e.Round >= 4 {
			e.DealDamage(slayer.st, slayer.st, 100, combat.Slashing, false)
		}
	}

	enc := combat.NewEncounter(1, []combat.Combatant{hero}, []combat.Combatant{slayer},
		dice.NewSeededSource(9, 0), zap.NewNop(), nil)
	require.NoError(t, enc.Run())

	// Paralysis covers the first turns, then wears off by countdown.
	assert.Positive(t, turns, "hero must act after paralysis expires")
	assert.Less(t, turns, 4, "hero must not act while paralyzed")
}

func TestEncounter_Run_ClearsConditionsOnConclusion(t *testing.T) {
	hero := &stub{st: newStats("Gorm", combat.TeamParty, 20, 16)}
	hero.turn = func(e *combat.Encounter) {
		e.DealDamage(hero.st, e.Monsters[0].Stats(), 100, combat.Slashing, false)
	}
	require.NoError(t, hero.st.Conditions.Apply(&condition.Duration{
		Name: "bless", Source: "Pelor", Remaining: condition.UntilEncounterEnds,
	}))
	hero.st.Concentration = "bless"
	orc := &stub{st: newStats("Orc", combat.TeamMonsters, 15, 13)}

	enc := combat.NewEncounter(1, []combat.Combatant{hero}, []combat.Combatant{orc},
		dice.NewSeededSource(2, 0), zap.NewNop(), nil)
	require.NoError(t, enc.Run())

	assert.False(t, hero.st.Conditions.Has("bless"))
	assert.Empty(t, hero.st.Concentration)
}

func TestEncounter_ChooseEnemy_ExcludesImmuneAndConcealed(t *testing.T) {
	hero := newStats("Gorm", combat.TeamParty, 20, 16)
	hero.PassivePerception = 12

	fiery := newStats("Fire Snake", combat.TeamMonsters, 10, 12)
	fiery.Immunities = map[combat.DamageType]bool{combat.Fire: true}
	hidden := newStats("Goblin", combat.TeamMonsters, 10, 14)
	hidden.Stealth = 17
	plain := newStats("Orc", combat.TeamMonsters, 10, 13)

	enc := bareEncounter(dice.NewSeededSource(1, 0),
		[]combat.Combatant{&stub{st: hero}},
		[]combat.Combatant{&stub{st: fiery}, &stub{st: hidden}, &stub{st: plain}})

	for i := 0; i < 20; i++ {
		target := enc.ChooseEnemy(hero, combat.TargetFilter{DamageType: combat.Fire})
		require.NotNil(t, target)
		assert.Equal(t, "Orc", target.Stats().Name,
			"fire-immune and concealed monsters are invalid targets")
	}
}

func TestEncounter_ChooseEnemy_NoValidTargets(t *testing.T) {
	hero := newStats("Gorm", combat.TeamParty, 20, 16)
	fiery := newStats("Fire Snake", combat.TeamMonsters, 10, 12)
	fiery.Immunities = map[combat.DamageType]bool{combat.Fire: true}

	enc := bareEncounter(dice.NewSeededSource(1, 0),
		[]combat.Combatant{&stub{st: hero}}, []combat.Combatant{&stub{st: fiery}})

	assert.Nil(t, enc.ChooseEnemy(hero, combat.TargetFilter{DamageType: combat.Fire}))
}

func TestEncounter_ChooseEnemies_WithoutReplacement(t *testing.T) {
	hero := newStats("Zin", combat.TeamParty, 20, 13)
	var monsters []combat.Combatant
	for _, name := range []string{"a", "b", "c"} {
		monsters = append(monsters, &stub{st: newStats(name, combat.TeamMonsters, 10, 10)})
	}

	enc := bareEncounter(dice.NewSeededSource(17, 0), []combat.Combatant{&stub{st: hero}}, monsters)

	picked := enc.ChooseEnemies(hero, 2, combat.TargetFilter{})
	require.Len(t, picked, 2)
	assert.NotEqual(t, picked[0].Stats().ID, picked[1].Stats().ID, "no replacement")

	all := enc.ChooseEnemies(hero, 5, combat.TargetFilter{})
	assert.Len(t, all, 3, "fewer valid targets than requested returns all")
}

func TestEncounter_DealDamage_ConcentrationCheck(t *testing.T) {
	caster := newStats("Vi", combat.TeamParty, 30, 12)
	caster.Concentration = "bless"
	ally := newStats("Gorm", combat.TeamParty, 20, 16)
	require.NoError(t, ally.Conditions.Apply(&condition.Duration{
		Name: "bless", Source: "Vi", Remaining: condition.UntilEncounterEnds,
	}))
	orc := newStats("Orc", combat.TeamMonsters, 15, 13)

	// 22 damage -> DC 11; save d20 = 4 fails.
	src := &script{vals: []int{3}}
	enc := bareEncounter(src,
		[]combat.Combatant{&stub{st: caster}, &stub{st: ally}},
		[]combat.Combatant{&stub{st: orc}})

	enc.DealDamage(orc, caster, 22, combat.Slashing, false)
	assert.Empty(t, caster.Concentration, "failed Con save drops concentration")
	assert.False(t, ally.Conditions.Has("bless"), "dropped concentration ends the effect on allies")
}

func TestEncounter_DealDamage_ConcentrationHolds(t *testing.T) {
	caster := newStats("Vi", combat.TeamParty, 30, 12)
	caster.Concentration = "bless"
	orc := newStats("Orc", combat.TeamMonsters, 15, 13)

	// 8 damage -> DC 10; save d20 = 15 succeeds.
	src := &script{vals: []int{14}}
	enc := bareEncounter(src, []combat.Combatant{&stub{st: caster}}, []combat.Combatant{&stub{st: orc}})

	enc.DealDamage(orc, caster, 8, combat.Slashing, false)
	assert.Equal(t, "bless", caster.Concentration)
}

func TestEncounter_DealDamage_UnconsciousBreaksConcentration(t *testing.T) {
	caster := newStats("Vi", combat.TeamParty, 10, 12)
	caster.Concentration = "bless"
	orc := newStats("Orc", combat.TeamMonsters, 15, 13)

	enc := bareEncounter(&script{vals: []int{}},
		[]combat.Combatant{&stub{st: caster}}, []combat.Combatant{&stub{st: orc}})

	enc.DealDamage(orc, caster, 50, combat.Slashing, false)
	assert.Empty(t, caster.Concentration, "falling unconscious always breaks concentration")
}

func TestEncounter_Record(t *testing.T) {
	hero := newStats("Gorm", combat.TeamParty, 20, 16)
	orc := newStats("Orc", combat.TeamMonsters, 15, 13)
	rec := combat.NewRecorder()

	enc := combat.NewEncounter(3, []combat.Combatant{&stub{st: hero}},
		[]combat.Combatant{&stub{st: orc}}, dice.NewSeededSource(1, 0), zap.NewNop(), rec)
	enc.Round = 2
	enc.Record(combat.Event{Actor: "Gorm", Action: "longsword", Target: "Orc",
		Roll: 14, Total: 19, Outcome: "hit", Amount: 7, TargetHP: 8})

	events := rec.Events()
	require.Len(t, events, 1)
	assert.Equal(t, 3, events[0].Encounter, "encounter number stamped by Record")
	assert.Equal(t, 2, events[0].Round)
	assert.Contains(t, events[0].String(), "Gorm")
}

func TestRecorder_NilSafe(t *testing.T) {
	var rec *combat.Recorder
	assert.NotPanics(t, func() { rec.Record(combat.Event{Actor: "x"}) })
	assert.Nil(t, rec.Events())
}

func TestEncounter_UnconsciousAlliesAndConsciousAllyOf(t *testing.T) {
	a := newStats("A", combat.TeamMonsters, 10, 10)
	b := newStats("B", combat.TeamMonsters, 10, 10)
	b.HP = 0
	hero := newStats("Gorm", combat.TeamParty, 20, 16)

	enc := bareEncounter(dice.NewSeededSource(1, 0),
		[]combat.Combatant{&stub{st: hero}},
		[]combat.Combatant{&stub{st: a}, &stub{st: b}})

	downed := enc.UnconsciousAllies(a)
	require.Len(t, downed, 1)
	assert.Equal(t, "B", downed[0].Stats().Name)

	assert.False(t, enc.ConsciousAllyOf(a), "B is down, A has no conscious ally")
	b.HP = 5
	assert.True(t, enc.ConsciousAllyOf(a))
	assert.False(t, enc.ConsciousAllyOf(hero), "a lone combatant has no allies")
}
