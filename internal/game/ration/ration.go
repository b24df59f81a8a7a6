// Package ration decides how a party spreads limited daily resources (spell
// slots, superiority-style features, channel divinity uses) across the
// encounters of an adventuring day. Allocation is pure integer arithmetic so
// the same inputs always yield the same plan.
package ration

import "fmt"

// Loading selects which end of the day receives the surplus when a resource
// total does not divide evenly across the encounters.
type Loading int

const (
	// FrontLoaded gives the surplus to the earliest encounters. Used for
	// resources that compound when spent early, like wizard and fighter
	// features.
	FrontLoaded Loading = iota
	// BackLoaded gives the surplus to the latest encounters. Used for
	// healing-style resources that matter most when the party is worn down.
	BackLoaded
)

// String returns the loading name for logs and traces.
func (l Loading) String() string {
	switch l {
	case FrontLoaded:
		return "front-loaded"
	case BackLoaded:
		return "back-loaded"
	default:
		return fmt.Sprintf("Loading(%d)", int(l))
	}
}

// Schedule divides total uses of a resource across encounters slots.
// Every entry receives total/encounters; the remainder is distributed one
// per encounter from the front (FrontLoaded) or the back (BackLoaded).
//
// Precondition: total >= 0, encounters >= 1.
// Postcondition: len(result) == encounters; sum(result) == total;
// every entry >= 0; entries differ by at most 1.
func Schedule(total, encounters int, loading Loading) []int {
	if encounters < 1 {
		panic(fmt.Sprintf("ration: Schedule called with encounters %d < 1", encounters))
	}
	if total < 0 {
		panic(fmt.Sprintf("ration: Schedule called with total %d < 0", total))
	}

	base := total / encounters
	surplus := total % encounters

	plan := make([]int, encounters)
	for i := range plan {
		plan[i] = base
	}
	switch loading {
	case BackLoaded:
		for i := encounters - surplus; i < encounters; i++ {
			plan[i]++
		}
	default:
		for i := 0; i < surplus; i++ {
			plan[i]++
		}
	}
	return plan
}

// RemainingFloor converts a plan from Schedule into the minimum number of
// uses that must still be in reserve after each encounter. A combatant may
// spend a use during encounter i only while its remaining pool exceeds
// floor[i].
//
// Precondition: plan must come from Schedule.
// Postcondition: len(result) == len(plan); result[len(plan)-1] == 0;
// result is non-increasing.
func RemainingFloor(plan []int) []int {
	floor := make([]int, len(plan))
	running := 0
	for i := len(plan) - 1; i >= 0; i-- {
		floor[i] = running
		running += plan[i]
	}
	return floor
}
