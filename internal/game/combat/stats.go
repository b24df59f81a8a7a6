// Package combat implements the encounter engine for the skirmish
// simulator: combatant state, weapon attack resolution, saving throws,
// initiative, target selection, and the per-day event trace.
package combat

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/aherron/skirmish/internal/game/condition"
	"github.com/aherron/skirmish/internal/game/dice"
)

// Team identifies which side of an encounter a combatant fights for.
type Team int

const (
	TeamParty Team = iota
	TeamMonsters
)

// Opponent returns the other team.
func (t Team) Opponent() Team {
	if t == TeamParty {
		return TeamMonsters
	}
	return TeamParty
}

// String returns a human-readable team label.
func (t Team) String() string {
	switch t {
	case TeamParty:
		return "party"
	case TeamMonsters:
		return "monsters"
	default:
		return fmt.Sprintf("Team(%d)", int(t))
	}
}

// Ability indexes the six ability modifiers on Stats.
type Ability int

const (
	Str Ability = iota
	Dex
	Con
	Int
	Wis
	Cha
)

// String returns the conventional three-letter ability abbreviation.
func (a Ability) String() string {
	switch a {
	case Str:
		return "Str"
	case Dex:
		return "Dex"
	case Con:
		return "Con"
	case Int:
		return "Int"
	case Wis:
		return "Wis"
	case Cha:
		return "Cha"
	default:
		return fmt.Sprintf("Ability(%d)", int(a))
	}
}

// DamageType tags damage for immunity, resistance, and vulnerability checks.
type DamageType string

const (
	Bludgeoning DamageType = "bludgeoning"
	Piercing    DamageType = "piercing"
	Slashing    DamageType = "slashing"
	Fire        DamageType = "fire"
	Cold        DamageType = "cold"
	Acid        DamageType = "acid"
	Poison      DamageType = "poison"
	Necrotic    DamageType = "necrotic"
	Radiant     DamageType = "radiant"
	Lightning   DamageType = "lightning"
	Thunder     DamageType = "thunder"
	Force       DamageType = "force"
	Psychic     DamageType = "psychic"
)

// Armor classifies how a combatant is armored; heavier armor interferes
// with stealth.
type Armor int

const (
	NoArmor Armor = iota
	LightArmor
	MediumArmor
	HeavyArmor
)

// Resource is one named per-day pool on a combatant: spell-slot groups,
// channel divinity uses, action surge, and the like.
type Resource struct {
	Remaining int
	Max       int
}

// Use consumes one unit if available.
//
// Postcondition: Returns true iff a unit was consumed.
func (r *Resource) Use() bool {
	if r.Remaining <= 0 {
		return false
	}
	r.Remaining--
	return true
}

// Reset restores the pool to its maximum.
func (r *Resource) Reset() {
	r.Remaining = r.Max
}

// RollBonus is a named dice rider added to attack rolls and saving throws
// (bless is the canonical case). Bonuses live in a slice so a replayed
// simulation rolls them in the same order.
type RollBonus struct {
	Name string
	Dice dice.Expression
}

// Stats is the shared mutable state every combatant embeds. Behavior lives
// in the class and monster packages; Stats owns the numbers.
//
// Invariant: 0 <= HP <= MaxHP after every mutation.
type Stats struct {
	ID   string
	Name string
	Team Team

	Level       int
	Proficiency int
	Abilities   [6]int // ability modifiers indexed by Ability

	AC        int
	ArmorType Armor

	HP          int
	MaxHP       int
	HitDieSides int // faces of the class/monster hit die
	HitDice     int // hit dice remaining for short-rest recovery

	CritThreshold int // natural roll at or above this crits; default 20

	SaveProficiencies [6]bool
	Immunities        map[DamageType]bool
	Resistances       map[DamageType]bool
	Vulnerabilities   map[DamageType]bool

	Construct bool
	UndeadCR  float64 // challenge rating when undead; < 0 otherwise

	// ConditionImmunities lists condition names this combatant can never
	// receive (elves and ghoul paralysis, for example).
	ConditionImmunities map[string]bool

	// Concealment and awareness.
	Stealth           int // active stealth roll while hidden; 0 when visible
	PassivePerception int
	Blindsight        bool
	Invisible         bool
	Surprised         bool

	// Action economy for the current turn.
	ActionAvailable   bool
	BonusAvailable    bool
	ReactionAvailable bool

	// Concentration holds the name of the active concentration effect, or
	// "" when the combatant is not concentrating.
	Concentration string

	// SpellMod is the spellcasting ability modifier; spell attacks roll
	// d20 + SpellMod + Proficiency and the save DC is 8 + Proficiency +
	// SpellMod.
	SpellMod int

	// SpellAttackMod is a flat bonus on spell attack rolls only (a wand of
	// the war mage); it never raises the save DC.
	SpellAttackMod int

	// PotentCantrips halves cantrip damage on a successful save instead of
	// negating it.
	PotentCantrips bool

	// HealingRider, when non-nil, adds to every healing spell this
	// combatant casts (Disciple of Life). slotLevel is 0 for cantrips.
	HealingRider func(slotLevel int) int

	AttackBonuses []RollBonus
	Conditions    *condition.Set
	Resources     map[string]*Resource

	// PreDamage, when non-nil, adjusts incoming damage before type
	// adjustments (uncanny dodge, heavy armor master). Returns the
	// amount to apply.
	PreDamage func(amount int, dtype DamageType, ranged bool) int

	Initiative int
}

// NewStats creates a Stats with a fresh uuid, an empty condition set, and
// default crit threshold.
//
// Postcondition: returned Stats satisfies the HP invariant (0 <= HP <= MaxHP).
func NewStats(name string, team Team) *Stats {
	return &Stats{
		ID:            uuid.NewString(),
		Name:          name,
		Team:          team,
		UndeadCR:      -1,
		CritThreshold: 20,
		Conditions:    condition.NewSet(),
		Resources:     make(map[string]*Resource),
	}
}

// SaveDC returns the difficulty class of this combatant's spells.
func (s *Stats) SaveDC() int {
	return 8 + s.Proficiency + s.SpellMod
}

// Mod returns the modifier for the given ability.
func (s *Stats) Mod(a Ability) int {
	return s.Abilities[a]
}

// Conscious reports whether the combatant can act and be targeted by
// hostile actions.
func (s *Stats) Conscious() bool {
	return s.HP > 0
}

// Incapacitated reports whether the combatant is conscious but unable to
// take a turn.
func (s *Stats) Incapacitated() bool {
	return s.Conditions.Has("paralyzed") || s.Conditions.Has("stunned")
}

// Paralyzed reports whether the combatant is paralyzed; melee hits against
// a paralyzed target become critical hits and its Str/Dex saves auto-fail.
func (s *Stats) Paralyzed() bool {
	return s.Conditions.Has("paralyzed")
}

// ResetTurn restores the per-turn action economy.
func (s *Stats) ResetTurn() {
	s.ActionAvailable = true
	s.BonusAvailable = true
	s.ReactionAvailable = true
}

// AddAttackBonus registers a named dice rider on attack rolls and saving
// throws; re-registering a name is a no-op.
func (s *Stats) AddAttackBonus(name string, expr dice.Expression) {
	for _, b := range s.AttackBonuses {
		if b.Name == name {
			return
		}
	}
	s.AttackBonuses = append(s.AttackBonuses, RollBonus{Name: name, Dice: expr})
}

// RemoveAttackBonus unregisters a named rider; unknown names are a no-op.
func (s *Stats) RemoveAttackBonus(name string) {
	for i, b := range s.AttackBonuses {
		if b.Name == name {
			s.AttackBonuses = append(s.AttackBonuses[:i], s.AttackBonuses[i+1:]...)
			return
		}
	}
}

// rollAttackBonuses rolls every registered rider in registration order.
func (s *Stats) rollAttackBonuses(src dice.Source) int {
	total := 0
	for _, b := range s.AttackBonuses {
		r, err := dice.Roll(b.Dice, src)
		if err != nil {
			panic("combat: invalid attack bonus dice for " + b.Name + ": " + err.Error())
		}
		total += r.Total()
	}
	return total
}

// adjustForType applies immunity, resistance, and vulnerability for dtype.
//
// Postcondition: Returns 0 when immune; amount/2 (floored) when resistant;
// amount*2 when vulnerable; amount otherwise.
func (s *Stats) adjustForType(amount int, dtype DamageType) int {
	if s.Immunities[dtype] {
		return 0
	}
	if s.Resistances[dtype] {
		amount /= 2
	}
	if s.Vulnerabilities[dtype] {
		amount *= 2
	}
	return amount
}

// ApplyDamage reduces HP by amount after the PreDamage hook and damage-type
// adjustments, flooring at zero. Concentration checks are the encounter's
// responsibility; see Encounter.DealDamage.
//
// Precondition: amount >= 0.
// Postcondition: HP >= 0; returns the damage actually applied.
func (s *Stats) ApplyDamage(amount int, dtype DamageType, ranged bool) int {
	if amount < 0 {
		panic(fmt.Sprintf("combat: ApplyDamage called with amount %d < 0", amount))
	}
	if s.PreDamage != nil {
		amount = s.PreDamage(amount, dtype, ranged)
		if amount < 0 {
			amount = 0
		}
	}
	amount = s.adjustForType(amount, dtype)
	if amount > s.HP {
		amount = s.HP
	}
	s.HP -= amount
	return amount
}

// Heal raises HP by amount, clamping at MaxHP. Healing an unconscious
// combatant returns it to consciousness.
//
// Precondition: amount >= 0.
// Postcondition: HP <= MaxHP; returns the healing actually applied.
func (s *Stats) Heal(amount int) int {
	if amount < 0 {
		panic(fmt.Sprintf("combat: Heal called with amount %d < 0", amount))
	}
	if s.HP+amount > s.MaxHP {
		amount = s.MaxHP - s.HP
	}
	s.HP += amount
	return amount
}

// SavingThrow rolls d20 + ability modifier + proficiency (when proficient)
// + registered roll bonuses. Paralyzed or unconscious combatants auto-fail
// Str and Dex saves; the caller should treat a return below any DC as a
// failure, so auto-fail is reported as a large negative total.
//
// Precondition: src must be non-nil.
func (s *Stats) SavingThrow(src dice.Source, ab Ability, adv, disadv bool) int {
	if (s.Paralyzed() || !s.Conscious()) && (ab == Str || ab == Dex) {
		return autoFailSave
	}
	total := dice.D20(src, adv, disadv) + s.Abilities[ab]
	if s.SaveProficiencies[ab] {
		total += s.Proficiency
	}
	total += s.rollAttackBonuses(src)
	return total
}

// autoFailSave is below any reachable DC.
const autoFailSave = -1000

// ConcealedFrom reports whether this combatant cannot be targeted by
// observer: hidden with a stealth roll beating the observer's passive
// perception, or invisible, unless the observer has blindsight.
func (s *Stats) ConcealedFrom(observer *Stats) bool {
	if observer.Blindsight {
		return false
	}
	if s.Invisible {
		return true
	}
	return s.Stealth > 0 && s.Stealth > observer.PassivePerception
}

// Reveal drops any concealment, typically because the combatant attacked.
func (s *Stats) Reveal() {
	s.Stealth = 0
	s.Invisible = false
}
