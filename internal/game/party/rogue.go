package party

import (
	"fmt"

	"github.com/aherron/skirmish/internal/game/combat"
	"github.com/aherron/skirmish/internal/game/dice"
)

// Rogue is an Assassin: a wood elf with a rapier, Sneak Attack whenever an
// ally distracts the target, advantage and automatic criticals against
// surprised enemies, an off-hand follow-up when the main swing misses, and
// Cunning Action hiding every turn.
type Rogue struct {
	character

	weapon    combat.Weapon
	offhand   combat.Weapon
	sneakDice dice.Expression

	// sneak tracks whether Sneak Attack is still unspent this turn.
	sneak bool
}

// NewRogue builds an Assassin rogue of the given level.
//
// Precondition: 1 <= level <= 8.
func NewRogue(level int, src dice.Source) *Rogue {
	ab := [6]int{-1, 3, 2, 1, 2, 0}
	if level >= 8 {
		ab[combat.Dex]++
	}

	r := &Rogue{character: newCharacter("Rogue", level, 8, ab, src)}
	st := r.st
	st.ArmorType = combat.LightArmor
	base := 11 // leather
	if level >= 4 {
		base = 13 // studded leather + Dual Wielder
	} else if level >= 2 {
		base = 12 // studded leather
	}
	st.AC = base + st.Mod(combat.Dex)
	st.SaveProficiencies[combat.Dex] = true
	st.SaveProficiencies[combat.Int] = true

	// Wood elf: immune to the ghoul's paralyzing touch.
	st.ConditionImmunities = map[string]bool{"paralyzed": true}

	// Uncanny Dodge halves any damage while the reaction holds out.
	if level >= 5 {
		st.PreDamage = func(amount int, dtype combat.DamageType, ranged bool) int {
			if st.ReactionAvailable && st.Conscious() && !st.Incapacitated() {
				st.ReactionAvailable = false
				amount /= 2
			}
			return amount
		}
	}

	r.weapon = combat.Weapon{
		Name:       "rapier",
		Damage:     dice.MustParse("1d8"),
		DamageType: combat.Piercing,
		Ability:    combat.Dex,
		Proficient: true,
	}
	if level >= 6 {
		r.weapon.AttackMod = 1
		r.weapon.DamageMod = 1
	}
	r.offhand = combat.Weapon{
		Name:            "offhand rapier",
		Damage:          dice.MustParse("1d8"),
		DamageType:      combat.Piercing,
		Ability:         combat.Dex,
		Proficient:      true,
		NoAbilityDamage: true,
	}
	r.sneakDice = dice.MustParse(fmt.Sprintf("%dd6", (level+1)/2))
	return r
}

// Initialize readies the rogue for a fresh adventuring day.
func (r *Rogue) Initialize() { r.LongRest() }

// LongRest restores hit points and hit dice.
func (r *Rogue) LongRest() { r.restoreHP() }

// ShortRest spends hit dice.
func (r *Rogue) ShortRest() { r.spendHitDice() }

// TakeTurn attacks, follows up off-hand if Sneak Attack went unspent, and
// hides with Cunning Action.
func (r *Rogue) TakeTurn(enc *combat.Encounter) {
	st := r.st
	r.sneak = true

	if st.ActionAvailable {
		st.ActionAvailable = false
		r.weaponAttack(enc, r.weapon)

		// The off-hand swing is only worth the bonus action when the
		// main attack failed to land Sneak Attack.
		if st.Level >= 4 && r.sneak && st.BonusAvailable && st.Conscious() {
			st.BonusAvailable = false
			r.weaponAttack(enc, r.offhand)
		}
	}

	if st.Level >= 2 && st.BonusAvailable && st.Conscious() {
		st.BonusAvailable = false
		st.Stealth = dice.D20(enc.Src, false, false) + st.Mod(combat.Dex) + 2*st.Proficiency
		enc.Record(combat.Event{
			Actor: st.Name, Action: "hide",
			Total: st.Stealth, Outcome: "hidden",
		})
	}
}

// weaponAttack picks a target, preferring surprised enemies once
// Assassinate is online, and swings with Sneak Attack dice when the rogue
// has advantage or a conscious ally in the fight.
func (r *Rogue) weaponAttack(enc *combat.Encounter, w combat.Weapon) {
	st := r.st
	target := r.chooseTarget(enc)
	if target == nil {
		return
	}

	opts := combat.AttackOptions{}
	if st.Level >= 3 && target.Surprised {
		opts.Advantage = true
		opts.AutoCrit = true
	}

	advantaged := opts.Advantage || target.Paralyzed() || !target.Conscious() ||
		target.Conditions.Has("guiding_bolt")
	if r.sneak && (advantaged || enc.ConsciousAllyOf(st)) {
		opts.ExtraDice = []dice.Expression{r.sneakDice}
	}

	out := r.attackTarget(enc, w, target, opts)
	if out.Hit {
		r.sneak = false
	}
}

// chooseTarget picks uniformly among surprised conscious enemies when any
// exist, falling back to ordinary target selection.
func (r *Rogue) chooseTarget(enc *combat.Encounter) *combat.Stats {
	var surprised []*combat.Stats
	for _, c := range enc.Members(r.st.Team.Opponent()) {
		st := c.Stats()
		if st.Conscious() && st.Surprised && !st.ConcealedFrom(r.st) {
			surprised = append(surprised, st)
		}
	}
	if r.st.Level >= 3 && len(surprised) > 0 {
		return surprised[enc.Src.Intn(len(surprised))]
	}
	if target := enc.ChooseEnemy(r.st, combat.TargetFilter{DamageType: r.weapon.DamageType}); target != nil {
		return target.Stats()
	}
	return nil
}
