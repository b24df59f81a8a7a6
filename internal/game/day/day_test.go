package day_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aherron/skirmish/internal/game/combat"
	"github.com/aherron/skirmish/internal/game/day"
)

// zeros rolls the minimum on everything; initiative ties resolve
// party-first, so turn order is the roster order.
type zeros struct{}

func (zeros) Intn(n int) int { return 0 }

type fakePC struct {
	st   *combat.Stats
	turn func(e *combat.Encounter)

	inits, shorts, longs, ends int
}

func (p *fakePC) Stats() *combat.Stats { return p.st }

func (p *fakePC) Initialize() {
	p.inits++
	p.st.HP = p.st.MaxHP
}

func (p *fakePC) StartEncounter(e *combat.Encounter) {}

func (p *fakePC) TakeTurn(e *combat.Encounter) {
	if p.turn != nil {
		p.turn(e)
	}
}

func (p *fakePC) ShortRest() { p.shorts++ }
func (p *fakePC) LongRest()  { p.longs++ }

func (p *fakePC) EndEncounter(e *combat.Encounter) { p.ends++ }

type fakeMonster struct {
	st   *combat.Stats
	turn func(e *combat.Encounter)
}

func (m *fakeMonster) Stats() *combat.Stats               { return m.st }
func (m *fakeMonster) Initialize()                        {}
func (m *fakeMonster) StartEncounter(e *combat.Encounter) {}

func (m *fakeMonster) TakeTurn(e *combat.Encounter) {
	if m.turn != nil {
		m.turn(e)
	}
}

func newStats(name string, team combat.Team, hp int) *combat.Stats {
	st := combat.NewStats(name, team)
	st.HP = hp
	st.MaxHP = hp
	st.AC = 10
	return st
}

func slayAll(st *combat.Stats) func(e *combat.Encounter) {
	return func(e *combat.Encounter) {
		for _, m := range e.Members(st.Team.Opponent()) {
			e.DealDamage(st, m.Stats(), 100, combat.Slashing, false)
		}
	}
}

func TestDay_FullRun(t *testing.T) {
	pc := &fakePC{st: newStats("Gorm", combat.TeamParty, 20)}
	pc.turn = slayAll(pc.st)

	built := 0
	d := &day.Day{
		Party: []combat.Combatant{pc},
		Monsters: func() []combat.Combatant {
			built++
			return []combat.Combatant{&fakeMonster{st: newStats("Orc", combat.TeamMonsters, 10)}}
		},
		Src: zeros{},
		Log: zap.NewNop(),
	}

	res, err := d.Run()
	require.NoError(t, err)
	assert.Equal(t, day.Result{Survivors: 1, Encounters: 6}, res)
	assert.Equal(t, 6, built, "each encounter gets a fresh monster group")
	assert.Equal(t, 1, pc.inits)
	assert.Equal(t, 2, pc.shorts, "after the second and fourth encounters only")
	assert.Equal(t, 0, pc.longs, "the day starts from Initialize, not LongRest")
	assert.Equal(t, 6, pc.ends)
}

func TestDay_PartyWipeEndsEarly(t *testing.T) {
	pc := &fakePC{st: newStats("Gorm", combat.TeamParty, 20)}
	m := &fakeMonster{st: newStats("Orc", combat.TeamMonsters, 10)}
	m.turn = slayAll(m.st)

	d := &day.Day{
		Party:    []combat.Combatant{pc},
		Monsters: func() []combat.Combatant { return []combat.Combatant{m} },
		Src:      zeros{},
		Log:      zap.NewNop(),
	}

	res, err := d.Run()
	require.NoError(t, err)
	assert.Equal(t, day.Result{Survivors: 0, Encounters: 1}, res)
	assert.Equal(t, 0, pc.shorts)
	assert.Equal(t, 0, pc.ends, "the dead do not tend wounds")
}

func TestDay_SimultaneousDefeatScoresZero(t *testing.T) {
	pc := &fakePC{st: newStats("Gorm", combat.TeamParty, 20)}
	pc.turn = func(e *combat.Encounter) {
		slayAll(pc.st)(e)
		e.DealDamage(pc.st, pc.st, 100, combat.Fire, false)
	}

	d := &day.Day{
		Party: []combat.Combatant{pc},
		Monsters: func() []combat.Combatant {
			return []combat.Combatant{&fakeMonster{st: newStats("Orc", combat.TeamMonsters, 10)}}
		},
		Src: zeros{},
		Log: zap.NewNop(),
	}

	res, err := d.Run()
	require.NoError(t, err)
	assert.Equal(t, day.Result{Survivors: 0, Encounters: 1}, res)
	assert.Equal(t, 0, pc.ends)
}

func TestDay_RoundCapStalemate(t *testing.T) {
	// Nobody can hurt anybody; the cap trips and the party survives.
	pc := &fakePC{st: newStats("Gorm", combat.TeamParty, 20)}
	d := &day.Day{
		Party: []combat.Combatant{pc},
		Monsters: func() []combat.Combatant {
			return []combat.Combatant{&fakeMonster{st: newStats("Orc", combat.TeamMonsters, 10)}}
		},
		Src:      zeros{},
		Log:      zap.NewNop(),
		RoundCap: 3,
	}

	res, err := d.Run()
	require.NoError(t, err)
	assert.Equal(t, day.Result{Survivors: 1, Encounters: 6}, res)
}
