package combat

// Combatant is one participant in an encounter. Implementations live in the
// party and bestiary packages; the engine only sees this contract.
type Combatant interface {
	// Stats returns the mutable numeric state. Never nil.
	Stats() *Stats

	// Initialize prepares the combatant for a fresh adventuring day:
	// HP, resources, and rationing schedules are reset.
	Initialize()

	// StartEncounter establishes per-encounter state. Player characters
	// consult their rationing plans here.
	StartEncounter(e *Encounter)

	// TakeTurn performs exactly one turn's worth of actions. The engine
	// never invokes it on an unconscious or incapacitated combatant.
	TakeTurn(e *Encounter)
}

// Rester is implemented by combatants that benefit from rests. Discovered
// by type assertion; monsters typically do not implement it.
type Rester interface {
	ShortRest()
	LongRest()
}

// EncounterEnder is implemented by combatants that act when an encounter
// concludes, such as a healer topping up downed allies.
type EncounterEnder interface {
	EndEncounter(e *Encounter)
}
