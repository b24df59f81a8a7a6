package condition

import "fmt"

// Set tracks all timed effects currently applied to one combatant.
//
// Effects are kept in application order and every traversal walks that order,
// so a simulation replayed from the same seed visits hooks in the same
// sequence. It is not safe for concurrent use; the caller must serialise
// access.
type Set struct {
	effects []*Duration
}

// NewSet creates an empty Set.
func NewSet() *Set {
	return &Set{}
}

// Apply adds an effect to this combatant. If an effect with the same Name is
// already present, its Remaining is extended to the longer of the two values
// and the new hooks are discarded; effects do not stack.
//
// Precondition: d must not be nil and d.Name must be non-empty.
// Postcondition: Has(d.Name) is true.
func (s *Set) Apply(d *Duration) error {
	if d == nil {
		return fmt.Errorf("condition: Apply called with nil Duration")
	}
	if d.Name == "" {
		return fmt.Errorf("condition: Apply called with empty Name")
	}
	if existing := s.find(d.Name); existing != nil {
		if longer(d.Remaining, existing.Remaining) {
			existing.Remaining = d.Remaining
		}
		return nil
	}
	s.effects = append(s.effects, d)
	return nil
}

// Remove ends the effect with the given name, firing its OnEnd hook.
// If the effect is not present, Remove is a no-op.
//
// Postcondition: Has(name) is false.
func (s *Set) Remove(name string) {
	for i, d := range s.effects {
		if d.Name == name {
			s.effects = append(s.effects[:i], s.effects[i+1:]...)
			if d.OnEnd != nil {
				d.OnEnd()
			}
			return
		}
	}
}

// RemoveBySource ends every effect applied by the given source. Used when a
// caster drops concentration: all of their concentration effects end at once.
func (s *Set) RemoveBySource(source string) {
	kept := s.effects[:0]
	var ended []*Duration
	for _, d := range s.effects {
		if d.Source == source {
			ended = append(ended, d)
		} else {
			kept = append(kept, d)
		}
	}
	s.effects = kept
	for _, d := range ended {
		if d.OnEnd != nil {
			d.OnEnd()
		}
	}
}

// Has reports whether an effect with the given name is active.
func (s *Set) Has(name string) bool {
	return s.find(name) != nil
}

// Names returns the names of all active effects in application order.
func (s *Set) Names() []string {
	names := make([]string, len(s.effects))
	for i, d := range s.effects {
		names[i] = d.Name
	}
	return names
}

// TickStart fires OnTurnStart hooks in application order and ends any effect
// whose hook reports it is over. Called at the start of the owning
// combatant's turn.
//
// Postcondition: returned slice holds the names of effects that ended.
func (s *Set) TickStart() []string {
	return s.tick(func(d *Duration) bool {
		return d.OnTurnStart != nil && d.OnTurnStart()
	})
}

// TickEnd fires OnTurnEnd hooks in application order, then counts down each
// timed effect. An effect ends when its hook reports so or when its counter
// reaches zero. Called at the end of the owning combatant's turn.
//
// Postcondition: returned slice holds the names of effects that ended.
func (s *Set) TickEnd() []string {
	return s.tick(func(d *Duration) bool {
		if d.OnTurnEnd != nil && d.OnTurnEnd() {
			return true
		}
		if d.Remaining == UntilEncounterEnds {
			return false
		}
		if d.Remaining == 0 {
			return true
		}
		d.Remaining--
		return false
	})
}

// Clear ends every active effect, firing OnEnd hooks in application order.
// Called when the encounter concludes.
//
// Postcondition: the set is empty.
func (s *Set) Clear() {
	ended := s.effects
	s.effects = nil
	for _, d := range ended {
		if d.OnEnd != nil {
			d.OnEnd()
		}
	}
}

func (s *Set) find(name string) *Duration {
	for _, d := range s.effects {
		if d.Name == name {
			return d
		}
	}
	return nil
}

func (s *Set) tick(over func(*Duration) bool) []string {
	var ended []string
	kept := s.effects[:0]
	var toEnd []*Duration
	for _, d := range s.effects {
		if over(d) {
			ended = append(ended, d.Name)
			toEnd = append(toEnd, d)
		} else {
			kept = append(kept, d)
		}
	}
	s.effects = kept
	for _, d := range toEnd {
		if d.OnEnd != nil {
			d.OnEnd()
		}
	}
	return ended
}

// longer reports whether duration a outlasts duration b, treating
// UntilEncounterEnds as the longest possible value.
func longer(a, b int) bool {
	if a == UntilEncounterEnds {
		return b != UntilEncounterEnds
	}
	if b == UntilEncounterEnds {
		return false
	}
	return a > b
}
