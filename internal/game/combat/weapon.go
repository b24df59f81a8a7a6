package combat

import (
	"github.com/aherron/skirmish/internal/game/dice"
)

// Weapon is an immutable attack definition. One combatant may carry several
// (main hand, offhand, ranged fallback) and its decision list picks among
// them.
type Weapon struct {
	Name       string
	Damage     dice.Expression // damage dice; reroll-low encodes great-weapon fighting
	DamageType DamageType
	Ability    Ability // governing ability for attack and damage
	Proficient bool
	Ranged     bool
	AttackMod  int // flat attack bonus beyond ability + proficiency
	DamageMod  int // flat damage bonus beyond the ability modifier

	// NoAbilityDamage omits the ability modifier from damage (off-hand
	// two-weapon attacks).
	NoAbilityDamage bool

	// Secondary, when non-nil, rides on every hit with its own damage
	// type (a ghoul bite's necrotic rider, for example).
	Secondary *SecondaryDamage
}

// SecondaryDamage is an extra damage package attached to a weapon hit.
type SecondaryDamage struct {
	Damage     dice.Expression
	DamageType DamageType
}

// AttackOptions carries situational modifiers into one attack resolution.
type AttackOptions struct {
	Advantage    bool
	Disadvantage bool
	// AutoCrit upgrades any hit to a critical hit (assassinate against a
	// surprised target).
	AutoCrit bool
	// ExtraDice are rolled on a hit and doubled on a crit (sneak attack,
	// martial advantage). They share the weapon's primary damage type.
	ExtraDice []dice.Expression
}

// AttackOutcome reports how one swing resolved.
type AttackOutcome struct {
	Hit     bool
	Crit    bool
	Roll    int // raw d20
	Total   int // d20 + modifiers
	Damage  int // damage applied after the target's adjustments
	Applied bool
}

// OutcomeLabel returns the trace label for this outcome.
func (o AttackOutcome) OutcomeLabel() string {
	switch {
	case o.Crit:
		return "crit"
	case o.Hit:
		return "hit"
	default:
		return "miss"
	}
}

// Attack resolves one swing of w by attacker against target inside enc:
// d20 with advantage collapsing, natural 1 auto-miss, critical at or above
// the attacker's crit threshold, damage through Encounter.DealDamage.
// Attacking from hiding reveals the attacker.
//
// Melee attacks against a paralyzed or unconscious target roll with
// advantage and upgrade any hit to a critical.
//
// Precondition: enc, attacker, target non-nil; target may be unconscious.
// Postcondition: target.HP >= 0; attacker is revealed.
func (w Weapon) Attack(enc *Encounter, attacker, target *Stats, opts AttackOptions) AttackOutcome {
	adv := opts.Advantage
	disadv := opts.Disadvantage
	autoCrit := opts.AutoCrit

	helpless := target.Paralyzed() || !target.Conscious()
	if helpless {
		adv = true
		if !w.Ranged {
			autoCrit = true
		}
	}

	// A lingering guiding bolt grants advantage on the next attack
	// against the target, then burns off.
	if target.Conditions.Has("guiding_bolt") {
		adv = true
		target.Conditions.Remove("guiding_bolt")
	}

	roll := dice.D20(enc.Src, adv, disadv)
	total := roll + attacker.Mod(w.Ability) + w.AttackMod
	if w.Proficient {
		total += attacker.Proficiency
	}
	total += attacker.rollAttackBonuses(enc.Src)

	attacker.Reveal()

	out := AttackOutcome{Roll: roll, Total: total}
	if roll == 1 {
		return out
	}
	out.Crit = roll >= attacker.CritThreshold
	out.Hit = out.Crit || total >= target.AC
	if !out.Hit {
		return out
	}
	if autoCrit {
		out.Crit = true
	}

	damage := w.rollDamage(enc, attacker, opts.ExtraDice, out.Crit)
	out.Damage = enc.DealDamage(attacker, target, damage, w.DamageType, w.Ranged)
	out.Applied = true

	if w.Secondary != nil {
		secondary := enc.RollDice(w.Secondary.Damage, out.Crit)
		out.Damage += enc.DealDamage(attacker, target, secondary, w.Secondary.DamageType, w.Ranged)
	}
	return out
}

// rollDamage totals the weapon dice, extra dice, ability modifier, and flat
// bonus. Critical hits double every die but never the modifiers.
func (w Weapon) rollDamage(enc *Encounter, attacker *Stats, extra []dice.Expression, crit bool) int {
	total := enc.RollDice(w.Damage, crit)
	for _, expr := range extra {
		total += enc.RollDice(expr, crit)
	}
	if !w.NoAbilityDamage {
		total += attacker.Mod(w.Ability)
	}
	total += w.DamageMod
	if total < 0 {
		total = 0
	}
	return total
}
