package spell

import (
	"github.com/aherron/skirmish/internal/game/combat"
	"github.com/aherron/skirmish/internal/game/condition"
	"github.com/aherron/skirmish/internal/game/dice"
)

// beginConcentration ends any prior concentration effect and claims the
// caster's concentration for name.
func beginConcentration(enc *combat.Encounter, caster *combat.Stats, name string) {
	enc.BreakConcentration(caster)
	caster.Concentration = name
}

// FireBolt is the wizard's baseline attack cantrip: ranged spell attack,
// d10 fire, two dice from level 5.
func FireBolt() Spell {
	return Spell{
		Name:  "fire bolt",
		Level: 0,
		Cast: func(enc *combat.Encounter, caster *combat.Stats, slot int) bool {
			target := enc.ChooseEnemy(caster, combat.TargetFilter{DamageType: combat.Fire})
			if target == nil {
				return false
			}
			spellAttack(enc, caster, target.Stats(), "fire bolt",
				nDice(CantripDice(caster.Level), 10), combat.Fire)
			return true
		},
	}
}

// AcidSplash splashes up to two targets; a Dex save negates.
func AcidSplash() Spell {
	return Spell{
		Name:  "acid splash",
		Level: 0,
		Cast: func(enc *combat.Encounter, caster *combat.Stats, slot int) bool {
			targets := enc.ChooseEnemies(caster, 2, combat.TargetFilter{DamageType: combat.Acid})
			if len(targets) == 0 {
				return false
			}
			amount := mustRoll(enc, nDice(CantripDice(caster.Level), 6))
			for _, t := range targets {
				saveDamage(enc, caster, t.Stats(), "acid splash", amount, combat.Acid, combat.Dex, caster.PotentCantrips)
			}
			return true
		},
	}
}

// PoisonSpray forces a Con save or d12 poison.
func PoisonSpray() Spell {
	return Spell{
		Name:  "poison spray",
		Level: 0,
		Cast: func(enc *combat.Encounter, caster *combat.Stats, slot int) bool {
			target := enc.ChooseEnemy(caster, combat.TargetFilter{DamageType: combat.Poison})
			if target == nil {
				return false
			}
			amount := mustRoll(enc, nDice(CantripDice(caster.Level), 12))
			saveDamage(enc, caster, target.Stats(), "poison spray", amount, combat.Poison, combat.Con, caster.PotentCantrips)
			return true
		},
	}
}

// SacredFlame forces a Dex save or d8 radiant.
func SacredFlame() Spell {
	return Spell{
		Name:  "sacred flame",
		Level: 0,
		Cast: func(enc *combat.Encounter, caster *combat.Stats, slot int) bool {
			target := enc.ChooseEnemy(caster, combat.TargetFilter{DamageType: combat.Radiant})
			if target == nil {
				return false
			}
			amount := mustRoll(enc, nDice(CantripDice(caster.Level), 8))
			saveDamage(enc, caster, target.Stats(), "sacred flame", amount, combat.Radiant, combat.Dex, caster.PotentCantrips)
			return true
		},
	}
}

// MagicMissile fires 2+slot darts of 1d4+1 force that never miss, spread
// over up to two targets.
func MagicMissile() Spell {
	return Spell{
		Name:  "magic missile",
		Level: 1,
		Cast: func(enc *combat.Encounter, caster *combat.Stats, slot int) bool {
			targets := enc.ChooseEnemies(caster, 2, combat.TargetFilter{DamageType: combat.Force})
			if len(targets) == 0 {
				return false
			}
			caster.Reveal()
			dart := mustRoll(enc, dice.MustParse("1d4+1"))
			darts := 2 + slot
			for i := 0; i < darts; i++ {
				t := targets[i%len(targets)].Stats()
				applied := enc.DealDamage(caster, t, dart, combat.Force, true)
				enc.Record(combat.Event{
					Actor: caster.Name, Action: "magic missile", Target: t.Name,
					Outcome: "hit", Amount: applied, TargetHP: t.HP,
				})
			}
			return true
		},
	}
}

// BurningHands fans fire over up to two targets: d6(2+slot), Dex save for
// half.
func BurningHands() Spell {
	return Spell{
		Name:  "burning hands",
		Level: 1,
		Cast: func(enc *combat.Encounter, caster *combat.Stats, slot int) bool {
			targets := enc.ChooseEnemies(caster, 2, combat.TargetFilter{DamageType: combat.Fire})
			if len(targets) == 0 {
				return false
			}
			amount := mustRoll(enc, nDice(2+slot, 6))
			for _, t := range targets {
				saveDamage(enc, caster, t.Stats(), "burning hands", amount, combat.Fire, combat.Dex, true)
			}
			return true
		},
	}
}

// Thunderwave blasts up to two targets: d8(1+slot), Con save for half.
func Thunderwave() Spell {
	return Spell{
		Name:  "thunderwave",
		Level: 1,
		Cast: func(enc *combat.Encounter, caster *combat.Stats, slot int) bool {
			targets := enc.ChooseEnemies(caster, 2, combat.TargetFilter{DamageType: combat.Thunder})
			if len(targets) == 0 {
				return false
			}
			amount := mustRoll(enc, nDice(1+slot, 8))
			for _, t := range targets {
				saveDamage(enc, caster, t.Stats(), "thunderwave", amount, combat.Thunder, combat.Con, true)
			}
			return true
		},
	}
}

// ScorchingRay fires 1+slot rays, each a separate spell attack for 2d6
// fire against an independently chosen target.
func ScorchingRay() Spell {
	return Spell{
		Name:  "scorching ray",
		Level: 2,
		Cast: func(enc *combat.Encounter, caster *combat.Stats, slot int) bool {
			cast := false
			for ray := 0; ray < 1+slot; ray++ {
				target := enc.ChooseEnemy(caster, combat.TargetFilter{DamageType: combat.Fire})
				if target == nil {
					break
				}
				cast = true
				spellAttack(enc, caster, target.Stats(), "scorching ray", nDice(2, 6), combat.Fire)
			}
			return cast
		},
	}
}

// Fireball engulfs up to two targets: d6(5+slot), Dex save for half.
func Fireball() Spell {
	return Spell{
		Name:  "fireball",
		Level: 3,
		Cast: func(enc *combat.Encounter, caster *combat.Stats, slot int) bool {
			targets := enc.ChooseEnemies(caster, 2, combat.TargetFilter{DamageType: combat.Fire})
			if len(targets) == 0 {
				return false
			}
			amount := mustRoll(enc, nDice(5+slot, 6))
			for _, t := range targets {
				saveDamage(enc, caster, t.Stats(), "fireball", amount, combat.Fire, combat.Dex, true)
			}
			return true
		},
	}
}

// GuidingBolt is a ranged spell attack for d6(3+slot) radiant; a surviving
// target glows, granting advantage on the next attack against it.
func GuidingBolt() Spell {
	return Spell{
		Name:  "guiding bolt",
		Level: 1,
		Cast: func(enc *combat.Encounter, caster *combat.Stats, slot int) bool {
			target := enc.ChooseEnemy(caster, combat.TargetFilter{DamageType: combat.Radiant})
			if target == nil {
				return false
			}
			st := target.Stats()
			before := st.HP
			spellAttack(enc, caster, st, "guiding bolt", nDice(3+slot, 6), combat.Radiant)
			if st.HP < before && st.Conscious() {
				_ = st.Conditions.Apply(&condition.Duration{
					Name: "guiding_bolt", Source: caster.Name, Remaining: 1,
				})
			}
			return true
		},
	}
}

// HealingWord is a bonus-action heal: d4(slot) + spell modifier, aimed by
// the caller at the chosen ally.
func HealingWord() Spell {
	return Spell{
		Name:  "healing word",
		Level: 1,
		Cast:  healCast("healing word", 4),
	}
}

// CureWounds heals d8(slot) + spell modifier.
func CureWounds() Spell {
	return Spell{
		Name:  "cure wounds",
		Level: 1,
		Cast:  healCast("cure wounds", 8),
	}
}

// healCast builds a Cast that targets the most wounded ally, preferring
// unconscious ones, and never wastes the slot on a full-health party.
func healCast(name string, sides int) func(*combat.Encounter, *combat.Stats, int) bool {
	return func(enc *combat.Encounter, caster *combat.Stats, slot int) bool {
		target := MostWoundedAlly(enc, caster)
		if target == nil {
			return false
		}
		amount := mustRoll(enc, nDice(slot, sides)) + caster.SpellMod
		healTarget(enc, caster, target, name, amount, slot)
		return true
	}
}

// MostWoundedAlly returns the ally missing the most hit points, with
// unconscious allies taking priority; nil when everyone is untouched.
func MostWoundedAlly(enc *combat.Encounter, caster *combat.Stats) *combat.Stats {
	var best *combat.Stats
	bestMissing := 0
	for _, c := range enc.Members(caster.Team) {
		st := c.Stats()
		missing := st.MaxHP - st.HP
		if missing == 0 {
			continue
		}
		if !st.Conscious() {
			missing += st.MaxHP // unconscious allies outrank any wounded one
		}
		if missing > bestMissing {
			best = st
			bestMissing = missing
		}
	}
	return best
}

// Bless touches up to three conscious allies, adding 1d4 to their attack
// rolls and saving throws while the caster concentrates (up to ten rounds).
func Bless() Spell {
	return Spell{
		Name:          "bless",
		Level:         1,
		Concentration: true,
		Cast: func(enc *combat.Encounter, caster *combat.Stats, slot int) bool {
			allies := enc.Allies(caster, combat.TargetFilter{})
			if len(allies) == 0 {
				return false
			}
			beginConcentration(enc, caster, "bless")
			blessed := 0
			for _, c := range allies {
				if blessed == 3 {
					break
				}
				st := c.Stats()
				st.AddAttackBonus("bless", dice.MustParse("1d4"))
				_ = st.Conditions.Apply(&condition.Duration{
					Name: "bless", Source: caster.Name,
					Remaining: 10,
					OnEnd:     func() { st.RemoveAttackBonus("bless") },
				})
				blessed++
			}
			enc.Record(combat.Event{
				Actor: caster.Name, Action: "bless",
				Outcome: "cast", Amount: blessed,
			})
			return true
		},
	}
}

// SpiritualWeapon summons a floating weapon for ten rounds; the cleric
// swings it as a bonus action for d8(slot/2) + spell modifier force.
// The per-round attack lives on the caster's decision list; this template
// only establishes the effect.
func SpiritualWeapon() Spell {
	return Spell{
		Name:  "spiritual weapon",
		Level: 2,
		Cast: func(enc *combat.Encounter, caster *combat.Stats, slot int) bool {
			if enc.ChooseEnemy(caster, combat.TargetFilter{DamageType: combat.Force}) == nil {
				return false
			}
			_ = caster.Conditions.Apply(&condition.Duration{
				Name: "spiritual_weapon", Source: caster.Name, Remaining: 10,
			})
			enc.Record(combat.Event{
				Actor: caster.Name, Action: "spiritual weapon", Outcome: "cast",
			})
			return true
		},
	}
}

// SpiritualWeaponAttack swings an active spiritual weapon: a spell attack
// for d8(slot/2) force damage.
//
// Precondition: caster has the spiritual_weapon effect active.
func SpiritualWeaponAttack(enc *combat.Encounter, caster *combat.Stats, slot int) bool {
	target := enc.ChooseEnemy(caster, combat.TargetFilter{DamageType: combat.Force})
	if target == nil {
		return false
	}
	n := slot / 2
	if n < 1 {
		n = 1
	}
	expr := nDice(n, 8)
	expr.Modifier = caster.SpellMod
	spellAttack(enc, caster, target.Stats(), "spiritual weapon", expr, combat.Force)
	return true
}

// mustRoll evaluates expr through the encounter's logged roller; templates
// only build valid expressions.
func mustRoll(enc *combat.Encounter, expr dice.Expression) int {
	return enc.RollDice(expr, false)
}
