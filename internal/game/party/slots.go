// Package party implements the four player-character classes and their
// decision lists: the Life Domain cleric, the Champion fighter, the
// Assassin rogue, and the Evocation wizard. All daily-resource spending is
// paced by the rationing scheduler.
package party

import "fmt"

// fullCasterSlots is the shared cleric/wizard slot progression for the
// supported levels.
var fullCasterSlots = map[int][9]int{
	1: {2, 0, 0, 0, 0, 0, 0, 0, 0},
	2: {3, 0, 0, 0, 0, 0, 0, 0, 0},
	3: {4, 2, 0, 0, 0, 0, 0, 0, 0},
	4: {4, 3, 0, 0, 0, 0, 0, 0, 0},
	5: {4, 3, 2, 0, 0, 0, 0, 0, 0},
	6: {4, 3, 3, 0, 0, 0, 0, 0, 0},
	7: {4, 3, 3, 1, 0, 0, 0, 0, 0},
	8: {4, 3, 3, 2, 0, 0, 0, 0, 0},
}

// Slots tracks a caster's leveled spell slots. Index i holds slots of
// spell level i+1.
type Slots struct {
	Total     [9]int
	Remaining [9]int
}

// NewSlots returns the slot pool for a full caster of the given level.
//
// Precondition: 1 <= level <= 8.
func NewSlots(level int) *Slots {
	total, ok := fullCasterSlots[level]
	if !ok {
		panic(fmt.Sprintf("party: no slot table for level %d", level))
	}
	s := &Slots{Total: total}
	s.Reset()
	return s
}

// Reset restores every slot, as after a long rest.
func (s *Slots) Reset() {
	s.Remaining = s.Total
}

// Count returns the total number of slots remaining across all levels.
func (s *Slots) Count() int {
	n := 0
	for _, v := range s.Remaining {
		n += v
	}
	return n
}

// TotalCount returns the total number of slots when fully rested.
func (s *Slots) TotalCount() int {
	n := 0
	for _, v := range s.Total {
		n += v
	}
	return n
}

// Highest returns the highest slot level with a slot remaining that is at
// least min, or 0 when none qualifies. Spending policy is highest first,
// so the biggest slots go to the day's early casts.
//
// Precondition: min >= 1.
func (s *Slots) Highest(min int) int {
	for lvl := 9; lvl >= min; lvl-- {
		if s.Remaining[lvl-1] > 0 {
			return lvl
		}
	}
	return 0
}

// Lowest returns the lowest slot level with a slot remaining that is at
// least min, or 0 when none qualifies. Used for end-of-day top-up healing
// where big slots are wasted.
//
// Precondition: min >= 1.
func (s *Slots) Lowest(min int) int {
	for lvl := min; lvl <= 9; lvl++ {
		if s.Remaining[lvl-1] > 0 {
			return lvl
		}
	}
	return 0
}

// Spend consumes one slot of the given level.
//
// Postcondition: returns false (and consumes nothing) when none remain.
func (s *Slots) Spend(level int) bool {
	if level < 1 || level > 9 || s.Remaining[level-1] <= 0 {
		return false
	}
	s.Remaining[level-1]--
	return true
}

// Recover restores one slot of the given level, capped at the total.
func (s *Slots) Recover(level int) bool {
	if level < 1 || level > 9 || s.Remaining[level-1] >= s.Total[level-1] {
		return false
	}
	s.Remaining[level-1]++
	return true
}
