package party

import (
	"fmt"
	"sort"

	"github.com/aherron/skirmish/internal/game/combat"
	"github.com/aherron/skirmish/internal/game/dice"
)

// MinLevel and MaxLevel bound the supported character levels; the class
// progressions are only defined inside this range.
const (
	MinLevel = 1
	MaxLevel = 8
)

// Factory builds one player character of the given level.
type Factory func(level int, src dice.Source) combat.Combatant

var classes = map[string]Factory{
	"Cleric":  func(level int, src dice.Source) combat.Combatant { return NewCleric(level, src) },
	"Fighter": func(level int, src dice.Source) combat.Combatant { return NewFighter(level, src) },
	"Rogue":   func(level int, src dice.Source) combat.Combatant { return NewRogue(level, src) },
	"Wizard":  func(level int, src dice.Source) combat.Combatant { return NewWizard(level, src) },
}

// New builds a player character by class name.
func New(name string, level int, src dice.Source) (combat.Combatant, error) {
	factory, ok := classes[name]
	if !ok {
		return nil, fmt.Errorf("party: unknown class %q", name)
	}
	if level < MinLevel || level > MaxLevel {
		return nil, fmt.Errorf("party: level %d outside %d..%d", level, MinLevel, MaxLevel)
	}
	return factory(level, src), nil
}

// Known reports whether name is a registered class.
func Known(name string) bool {
	_, ok := classes[name]
	return ok
}

// Names returns the registered class names in sorted order.
func Names() []string {
	out := make([]string, 0, len(classes))
	for name := range classes {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
