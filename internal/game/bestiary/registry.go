package bestiary

import (
	"fmt"
	"sort"

	"github.com/aherron/skirmish/internal/game/combat"
	"github.com/aherron/skirmish/internal/game/dice"
)

// Factory builds one fresh monster with its hit points rolled.
type Factory func(src dice.Source) combat.Combatant

var registry = map[string]Factory{
	"Bandit":    func(src dice.Source) combat.Combatant { return NewBandit(src) },
	"Ghoul":     func(src dice.Source) combat.Combatant { return NewGhoul(src) },
	"Goblin":    func(src dice.Source) combat.Combatant { return NewGoblin(src) },
	"Hobgoblin": func(src dice.Source) combat.Combatant { return NewHobgoblin(src) },
	"Kobold":    func(src dice.Source) combat.Combatant { return NewKobold(src) },
	"Orc":       func(src dice.Source) combat.Combatant { return NewOrc(src) },
}

// Register adds a custom stat block to the registry, replacing any entry
// with the same name. Not safe for concurrent use; register during setup,
// before simulation workers start reading.
//
// Precondition: b.Validate returned nil.
func Register(b StatBlock) {
	registry[b.Name] = b.Combatant
}

// New builds one monster by name.
func New(name string, src dice.Source) (combat.Combatant, error) {
	factory, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("bestiary: unknown monster %q", name)
	}
	return factory(src), nil
}

// Known reports whether name is a registered monster.
func Known(name string) bool {
	_, ok := registry[name]
	return ok
}

// Names returns the registered monster names in sorted order.
func Names() []string {
	out := make([]string, 0, len(registry))
	for name := range registry {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
