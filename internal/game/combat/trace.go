package combat

import "fmt"

// Event records one resolved action for the debug trace: who did what to
// whom, with which roll, and what came of it.
type Event struct {
	Encounter int    // 1-based encounter number within the day
	Round     int    // 1-based round number within the encounter
	Actor     string // acting combatant's name
	Action    string // e.g. "longsword", "fireball", "healing word", "hide"
	Target    string // target combatant's name; "" for untargeted actions
	Roll      int    // raw d20, or 0 when no d20 was involved
	Total     int    // roll + modifiers
	Outcome   string // "hit", "miss", "crit", "save", "fail", ...
	Amount    int    // damage dealt or healing applied
	TargetHP  int    // target's HP after the action
}

// String renders one trace line.
func (e Event) String() string {
	if e.Target == "" {
		return fmt.Sprintf("E%d R%d %s: %s %s", e.Encounter, e.Round, e.Actor, e.Action, e.Outcome)
	}
	return fmt.Sprintf("E%d R%d %s: %s vs %s roll %d (%d) %s for %d, target at %d HP",
		e.Encounter, e.Round, e.Actor, e.Action, e.Target, e.Roll, e.Total, e.Outcome, e.Amount, e.TargetHP)
}

// Recorder accumulates trace events for one simulated day. A nil *Recorder
// is valid and discards everything, so the Monte Carlo hot loop pays
// nothing for tracing.
type Recorder struct {
	events []Event
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Record appends one event. Safe on a nil receiver (no-op).
func (r *Recorder) Record(e Event) {
	if r == nil {
		return
	}
	r.events = append(r.events, e)
}

// Events returns all recorded events in order. Safe on a nil receiver.
func (r *Recorder) Events() []Event {
	if r == nil {
		return nil
	}
	return r.events
}
