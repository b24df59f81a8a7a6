// Package condition tracks timed combat effects on a combatant: blessings,
// poisons, paralysis, concentration-backed buffs, and the like. Effects carry
// hooks that fire at turn boundaries and on expiry, so the owning combatant
// package decides what a condition does while this package decides when.
package condition

// UntilEncounterEnds marks a Duration that never expires on its own; it is
// cleared when the encounter ends or when Remove is called.
const UntilEncounterEnds = -1

// Duration is one timed effect applied to a combatant.
//
// Invariant: Remaining is either UntilEncounterEnds or >= 0; a Duration at 0
// expires at the next end-of-turn tick.
type Duration struct {
	Name      string // effect identifier, e.g. "bless", "paralyzed"
	Source    string // name of the creature or effect that applied it
	Remaining int    // rounds remaining, or UntilEncounterEnds

	// OnTurnStart fires at the start of the afflicted combatant's turn.
	// Returning true ends the effect immediately (a successful repeat save,
	// for example). May be nil.
	OnTurnStart func() bool

	// OnTurnEnd fires at the end of the afflicted combatant's turn, before
	// the round countdown. Returning true ends the effect immediately.
	// May be nil.
	OnTurnEnd func() bool

	// OnEnd fires exactly once when the effect ends for any reason: expiry,
	// early end from a hook, Remove, or encounter cleanup. May be nil.
	OnEnd func()
}
