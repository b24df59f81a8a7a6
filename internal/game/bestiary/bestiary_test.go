package bestiary_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aherron/skirmish/internal/game/bestiary"
	"github.com/aherron/skirmish/internal/game/combat"
)

// script is a deterministic Source fed from a fixed list of draws.
type script struct {
	vals []int
	i    int
}

func (s *script) Intn(n int) int {
	if s.i >= len(s.vals) {
		panic("script: out of values")
	}
	v := s.vals[s.i]
	s.i++
	if v >= n {
		v = n - 1
	}
	return v
}

type stub struct {
	st *combat.Stats
}

func (s *stub) Stats() *combat.Stats               { return s.st }
func (s *stub) Initialize()                        {}
func (s *stub) StartEncounter(e *combat.Encounter) {}
func (s *stub) TakeTurn(e *combat.Encounter)       {}

func hero(name string, hp, ac int) *stub {
	st := combat.NewStats(name, combat.TeamParty)
	st.HP = hp
	st.MaxHP = hp
	st.AC = ac
	return &stub{st: st}
}

func encounterWith(src *script, pcs []combat.Combatant, monsters []combat.Combatant) *combat.Encounter {
	return combat.NewEncounter(1, pcs, monsters, src, zap.NewNop(), combat.NewRecorder())
}

func TestStatBlockNumbers(t *testing.T) {
	g := bestiary.NewGhoul(&script{vals: []int{3, 3, 3, 3, 3}})
	st := g.Stats()
	assert.Equal(t, 20, st.MaxHP, "five d8 at 4 apiece, Con 0")
	assert.Equal(t, 12, st.AC)
	assert.True(t, st.Immunities[combat.Poison])
	assert.Equal(t, 1.0, st.UndeadCR)
	assert.Equal(t, 10, st.SaveDC(), "paralysis DC")

	h := bestiary.NewHobgoblin(&script{vals: []int{3, 3}})
	assert.Equal(t, 18, h.Stats().AC)
	assert.Equal(t, 10, h.Stats().MaxHP, "Con 1 added per die")
}

func TestRollHP_FloorsAtOne(t *testing.T) {
	// Two d6 at minimum with Con -1 would land at zero.
	k := bestiary.NewKobold(&script{vals: []int{0, 0}})
	assert.Equal(t, 1, k.Stats().MaxHP)

	// Initialize rerolls; the same individual gets a fresh pool.
	k = bestiary.NewKobold(&script{vals: []int{0, 0, 5, 5}})
	k.Initialize()
	assert.Equal(t, 10, k.Stats().MaxHP)
}

func TestKobold_PackTactics(t *testing.T) {
	// Advantage while the second kobold stands: d20 draws 11 and 17 keep
	// 17. After it drops, a single d20 of 5 misses.
	src := &script{vals: []int{5, 5, 5, 5, 0, 10, 16, 2, 0, 4}}
	k1 := bestiary.NewKobold(src)
	k2 := bestiary.NewKobold(src)
	pc := hero("Fighter", 20, 15)
	enc := encounterWith(src, []combat.Combatant{pc}, []combat.Combatant{k1, k2})

	k1.TakeTurn(enc)
	assert.Equal(t, 15, pc.st.HP, "d4 of 3 plus Dex 2")

	k2.Stats().HP = 0
	k1.TakeTurn(enc)
	assert.Equal(t, 15, pc.st.HP)

	events := enc.Recorder.Events()
	require.Len(t, events, 2)
	assert.Equal(t, "hit", events[0].Outcome)
	assert.Equal(t, "miss", events[1].Outcome)
	assert.Equal(t, len(src.vals), src.i, "lone kobold rolls one d20, not two")
}

func TestGoblin_NimbleEscapeHide(t *testing.T) {
	src := &script{vals: []int{5, 5, 0, 14, 3, 9}}
	g := bestiary.NewGoblin(src)
	pc := hero("Fighter", 20, 15)
	enc := encounterWith(src, []combat.Combatant{pc}, []combat.Combatant{g})

	g.Stats().ResetTurn()
	g.TakeTurn(enc)

	assert.Equal(t, 14, pc.st.HP, "d6 of 4 plus Dex 2")
	assert.Equal(t, 16, g.Stats().Stealth, "d20 of 10 + Dex 2 + double proficiency")

	events := enc.Recorder.Events()
	require.Len(t, events, 2)
	assert.Equal(t, "scimitar", events[0].Action)
	assert.Equal(t, "hide", events[1].Action)
	assert.Equal(t, "hidden", events[1].Outcome)
}

func TestHobgoblin_MartialAdvantage(t *testing.T) {
	src := &script{vals: []int{3, 3, 3, 3, 0, 15, 4, 2, 3, 0, 15, 0}}
	h1 := bestiary.NewHobgoblin(src)
	h2 := bestiary.NewHobgoblin(src)
	pc := hero("Fighter", 20, 15)
	enc := encounterWith(src, []combat.Combatant{pc}, []combat.Combatant{h1, h2})

	// d8 of 5, 2d6 of 3+4, Str 1.
	h1.TakeTurn(enc)
	assert.Equal(t, 7, pc.st.HP)

	// Alone, the same hit carries no extra dice: d8 of 1, Str 1.
	h2.Stats().HP = 0
	h1.TakeTurn(enc)
	assert.Equal(t, 5, pc.st.HP)
}

func TestGhoul_ParalyzeThenBite(t *testing.T) {
	src := &script{vals: []int{3, 3, 3, 3, 3, 0, 16, 1, 2, 5, 13, 9, 3, 4, 1, 2, 15}}
	g := bestiary.NewGhoul(src)
	pc := hero("Fighter", 40, 15)
	enc := encounterWith(src, []combat.Combatant{pc}, []combat.Combatant{g})

	// Claws hit for 2d4 of 2+3 plus Dex 2; the Con save of 6 fails DC 10.
	g.TakeTurn(enc)
	assert.Equal(t, 33, pc.st.HP)
	assert.True(t, pc.st.Paralyzed())

	// The bite singles out the held target: advantage, automatic crit,
	// doubled dice, no proficiency.
	g.TakeTurn(enc)
	assert.Equal(t, 17, pc.st.HP)

	var bite combat.Event
	for _, ev := range enc.Recorder.Events() {
		if ev.Action == "bite" {
			bite = ev
		}
	}
	assert.Equal(t, "crit", bite.Outcome)
	assert.Equal(t, 16, bite.Amount)

	// The repeat save at the end of the victim's turn shakes it off.
	pc.st.Conditions.TickEnd()
	assert.False(t, pc.st.Paralyzed())
}

func TestGhoul_ParalysisImmunity(t *testing.T) {
	src := &script{vals: []int{0, 0, 0, 0, 0, 0, 18, 0, 0}}
	g := bestiary.NewGhoul(src)
	pc := hero("Rogue", 20, 15)
	pc.st.ConditionImmunities = map[string]bool{"paralyzed": true}
	enc := encounterWith(src, []combat.Combatant{pc}, []combat.Combatant{g})

	g.TakeTurn(enc)
	assert.Equal(t, 16, pc.st.HP)
	assert.False(t, pc.st.Paralyzed())
	assert.Equal(t, len(src.vals), src.i, "no save is rolled against an immune target")
}

func TestNewTest_SynthesizedDice(t *testing.T) {
	// HP 50 -> 10d8+5; damage 20 over 2 attacks -> 2d6+3 each; attack 5
	// with proficiency 3 -> flat modifier 2.
	src := &script{vals: []int{3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 0, 11, 2, 3, 0, 0}}
	tc := bestiary.NewTest(bestiary.TestStats{
		Attack: 5, AC: 16, Damage: 20, HP: 50, Attacks: 2, Proficiency: 3,
	}, src)
	st := tc.Stats()
	assert.Equal(t, 45, st.MaxHP, "ten d8 at 4 apiece plus 5")
	assert.Equal(t, 16, st.AC)
	assert.Equal(t, 13, st.PassivePerception)
	assert.True(t, st.SaveProficiencies[combat.Dex])
	assert.True(t, st.SaveProficiencies[combat.Con])
	assert.True(t, st.SaveProficiencies[combat.Wis])
	assert.False(t, st.SaveProficiencies[combat.Str])

	pc := hero("Fighter", 30, 15)
	enc := encounterWith(src, []combat.Combatant{pc}, []combat.Combatant{tc})
	tc.TakeTurn(enc)

	assert.Equal(t, 20, pc.st.HP, "2d6 of 3+4 plus 3")
	events := enc.Recorder.Events()
	require.Len(t, events, 2, "two attacks per turn")
	assert.Equal(t, 17, events[0].Total, "d20 of 12 plus 5 total attack bonus")
	assert.Equal(t, "miss", events[1].Outcome, "natural 1")
}

func TestNewTest_FlatFallbacks(t *testing.T) {
	// Targets too small for a die pair collapse to flat amounts.
	src := &script{vals: []int{0, 15}}
	tc := bestiary.NewTest(bestiary.TestStats{Attack: 4, AC: 12, Damage: 3, HP: 5}, src)
	assert.Equal(t, 5, tc.Stats().MaxHP, "no dice, flat 5")

	pc := hero("Fighter", 20, 12)
	enc := encounterWith(src, []combat.Combatant{pc}, []combat.Combatant{tc})
	tc.TakeTurn(enc)
	assert.Equal(t, 17, pc.st.HP, "flat 3 damage")
}

func validBlock() bestiary.StatBlock {
	return bestiary.StatBlock{
		Name:        "Dire Badger",
		AC:          13,
		HitDice:     3,
		HitDieSides: 8,
		Proficiency: 2,
		Abilities:   bestiary.AbilityMods{Str: 2, Dex: 1, Con: 2},
		Resistances: []string{"poison"},
		Attacks: []bestiary.AttackSpec{
			{Name: "bite", Damage: "1d6", DamageType: "piercing", Ability: "str"},
			{Name: "claws", Damage: "2d4", DamageType: "slashing", Ability: "str"},
		},
	}
}

func TestStatBlock_Validate(t *testing.T) {
	require.NoError(t, validBlock().Validate())

	b := validBlock()
	b.Name = ""
	assert.Error(t, b.Validate())

	b = validBlock()
	b.Attacks = nil
	assert.Error(t, b.Validate())

	b = validBlock()
	b.Attacks[0].Damage = "banana"
	assert.Error(t, b.Validate())

	b = validBlock()
	b.Attacks[0].DamageType = "emotional"
	assert.Error(t, b.Validate())

	b = validBlock()
	b.Resistances = []string{"sarcasm"}
	assert.Error(t, b.Validate())
}

func TestStatBlock_Combatant(t *testing.T) {
	// Three d8 with Con 2 per die, then a full multiattack: bite d6 of 4
	// plus Str 2, claws 2d4 of 1+2 plus Str 2.
	src := &script{vals: []int{3, 3, 3, 0, 14, 3, 0, 14, 0, 1}}
	c := validBlock().Combatant(src)
	st := c.Stats()
	assert.Equal(t, 18, st.MaxHP)
	assert.Equal(t, 13, st.AC)
	assert.True(t, st.Resistances[combat.Poison])

	pc := hero("Fighter", 30, 15)
	enc := encounterWith(src, []combat.Combatant{pc}, []combat.Combatant{c})
	c.TakeTurn(enc)

	events := enc.Recorder.Events()
	require.Len(t, events, 2)
	assert.Equal(t, "bite", events[0].Action)
	assert.Equal(t, "claws", events[1].Action)
	assert.Equal(t, 30-6-5, pc.st.HP)
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	block := `
name: Dire Badger
ac: 13
hit_dice: 3
hit_die_sides: 8
proficiency: 2
abilities:
  str: 2
  dex: 1
  con: 2
resistances: [poison]
attacks:
  - name: bite
    damage: 1d6
    damage_type: piercing
    ability: str
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "badger.yaml"), []byte(block), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))

	blocks, err := bestiary.LoadDir(dir)
	require.NoError(t, err)
	require.Len(t, blocks, 1)
	assert.Equal(t, "Dire Badger", blocks[0].Name)
	assert.Equal(t, 2, blocks[0].Abilities.Con)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.yaml"), []byte("name: X\nac: 1\n"), 0o644))
	_, err = bestiary.LoadDir(dir)
	assert.Error(t, err)
}

func TestRegistry(t *testing.T) {
	assert.Equal(t, []string{"Bandit", "Ghoul", "Goblin", "Hobgoblin", "Kobold", "Orc"}, bestiary.Names())
	assert.True(t, bestiary.Known("Ghoul"))
	assert.False(t, bestiary.Known("Tarrasque"))

	_, err := bestiary.New("Tarrasque", &script{})
	require.Error(t, err)

	m, err := bestiary.New("Orc", &script{vals: []int{3, 3}})
	require.NoError(t, err)
	assert.Equal(t, "Orc", m.Stats().Name)

	bestiary.Register(validBlock())
	assert.True(t, bestiary.Known("Dire Badger"))
	m, err = bestiary.New("Dire Badger", &script{vals: []int{3, 3, 3}})
	require.NoError(t, err)
	assert.Equal(t, 18, m.Stats().MaxHP)
}
