// Package day runs one simulated adventuring day: a fixed chain of
// identical encounters against fresh monster groups, with short rests on a
// set schedule and whatever patching up the party can manage in between.
package day

import (
	"go.uber.org/zap"

	"github.com/aherron/skirmish/internal/game/combat"
	"github.com/aherron/skirmish/internal/game/dice"
)

// The day shape the class rationing schedules are tuned for: six
// encounters per long rest with a short rest every two encounters.
const (
	EncountersPerLongRest  = 6
	EncountersPerShortRest = 2
)

// MonsterFactory builds a fresh monster group for one encounter. Each call
// must return new instances; hit points are rolled per appearance.
type MonsterFactory func() []combat.Combatant

// Day is one adventuring day ready to run. Not safe for concurrent use;
// the Monte Carlo loop gives each worker its own Day and Source.
type Day struct {
	Party    []combat.Combatant
	Monsters MonsterFactory
	Src      dice.Source
	Log      *zap.Logger
	Recorder *combat.Recorder // nil disables tracing

	// RoundCap overrides the per-encounter round cap when > 0.
	RoundCap int
}

// Result summarizes one simulated day.
type Result struct {
	// Survivors is the number of party members above zero hit points when
	// the day ended.
	Survivors int
	// Encounters is how many encounters were fought before the day ended.
	Encounters int
}

// Run plays the day out: the party long-rests, then fights each encounter
// in turn, short-resting after every second one. The day ends early when
// no party member is left standing after an encounter's cleanup.
//
// Postcondition: Result.Encounters <= EncountersPerLongRest.
func (d *Day) Run() (Result, error) {
	for _, pc := range d.Party {
		pc.Initialize()
	}

	for i := 1; i <= EncountersPerLongRest; i++ {
		enc := combat.NewEncounter(i, d.Party, d.Monsters(), d.Src, d.Log, d.Recorder)
		if d.RoundCap > 0 {
			enc.RoundCap = d.RoundCap
		}
		if err := enc.Run(); err != nil {
			return Result{}, err
		}
		if enc.SimultaneousDefeat {
			return Result{Survivors: 0, Encounters: i}, nil
		}

		// Conscious characters act on the encounter's end: the cleric
		// brings downed allies back before anyone moves on.
		for _, pc := range d.Party {
			if ender, ok := pc.(combat.EncounterEnder); ok && pc.Stats().Conscious() {
				ender.EndEncounter(enc)
			}
		}
		if d.survivors() == 0 {
			return Result{Survivors: 0, Encounters: i}, nil
		}

		if i < EncountersPerLongRest && i%EncountersPerShortRest == 0 {
			d.shortRest()
		}
	}
	return Result{Survivors: d.survivors(), Encounters: EncountersPerLongRest}, nil
}

func (d *Day) survivors() int {
	n := 0
	for _, pc := range d.Party {
		if pc.Stats().Conscious() {
			n++
		}
	}
	return n
}

func (d *Day) shortRest() {
	d.Log.Debug("short rest", zap.Int("survivors", d.survivors()))
	for _, pc := range d.Party {
		if r, ok := pc.(combat.Rester); ok {
			r.ShortRest()
		}
	}
}
