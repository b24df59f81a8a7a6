package party

import (
	"github.com/aherron/skirmish/internal/game/combat"
	"github.com/aherron/skirmish/internal/game/dice"
	"github.com/aherron/skirmish/internal/game/ration"
)

const actionSurge = "action_surge"

// Fighter is a Champion in heavy armor: a mountain dwarf swinging a
// greatsword with Great Weapon Fighting rerolls, Second Wind every short
// rest, and Action Surge spent in the first fight after each rest.
type Fighter struct {
	character

	weapon     combat.Weapon
	attacks    int
	secondWind bool
	surgeFloor []int
}

// NewFighter builds a Champion fighter of the given level.
//
// Precondition: 1 <= level <= 8.
func NewFighter(level int, src dice.Source) *Fighter {
	ab := [6]int{3, 1, 3, -1, 1, 0}
	if level >= 4 {
		ab[combat.Str]++
	}
	if level >= 6 {
		ab[combat.Con]++
	}
	if level >= 8 {
		ab[combat.Str]++
	}

	f := &Fighter{character: newCharacter("Fighter", level, 10, ab, src)}
	st := f.st
	st.ArmorType = combat.HeavyArmor
	switch {
	case level >= 5:
		st.AC = 18 // plate
	case level >= 3:
		st.AC = 17 // splint
	default:
		st.AC = 16 // chain mail
	}
	st.SaveProficiencies[combat.Str] = true
	st.SaveProficiencies[combat.Con] = true

	// Mountain dwarf.
	st.Resistances = map[combat.DamageType]bool{combat.Poison: true}

	// Improved Critical.
	if level >= 3 {
		st.CritThreshold = 19
	}

	// Heavy Armor Master shaves 3 off nonmagical weapon damage.
	if level >= 4 {
		st.PreDamage = func(amount int, dtype combat.DamageType, ranged bool) int {
			switch dtype {
			case combat.Bludgeoning, combat.Piercing, combat.Slashing:
				amount -= 3
			}
			return amount
		}
	}

	f.weapon = combat.Weapon{
		Name:       "greatsword",
		Damage:     dice.MustParse("2d6r2"), // great-weapon fighting rerolls 1s and 2s
		DamageType: combat.Slashing,
		Ability:    combat.Str,
		Proficient: true,
	}
	if level >= 6 {
		f.weapon.AttackMod = 1
		f.weapon.DamageMod = 1
	}

	f.attacks = 1
	if level >= 5 {
		f.attacks = 2
	}

	surgeTotal := 0
	if level >= 2 {
		surgeTotal = 1
	}
	st.Resources[actionSurge] = &combat.Resource{Remaining: surgeTotal, Max: surgeTotal}
	f.surgeFloor = restFloor(surgeTotal, ration.FrontLoaded)
	return f
}

// Initialize readies the fighter for a fresh adventuring day.
func (f *Fighter) Initialize() { f.LongRest() }

// LongRest restores hit points, hit dice, Second Wind, and Action Surge.
func (f *Fighter) LongRest() {
	f.restoreHP()
	f.secondWind = true
	f.st.Resources[actionSurge].Reset()
}

// ShortRest burns a held Second Wind on any missing hit points, recharges
// it and Action Surge, and spends hit dice.
func (f *Fighter) ShortRest() {
	if f.secondWind && f.st.Conscious() && f.st.HP < f.st.MaxHP {
		f.useSecondWind(nil)
	}
	f.secondWind = true
	f.st.Resources[actionSurge].Reset()
	f.spendHitDice()
}

// TakeTurn makes the fighter's attacks, Second Wind when badly hurt, and an
// Action Surge round when the ration allows.
func (f *Fighter) TakeTurn(enc *combat.Encounter) {
	st := f.st

	// Second Wind when below the recovery threshold: total HP minus the
	// smaller of half the total and a maximal heal.
	threshold := st.MaxHP - min(st.MaxHP/2, st.HitDieSides+st.Level)
	if f.secondWind && st.BonusAvailable && st.HP <= threshold {
		st.BonusAvailable = false
		f.useSecondWind(enc)
	}

	if st.ActionAvailable {
		st.ActionAvailable = false
		f.attackRound(enc)
	}

	surge := st.Resources[actionSurge]
	if st.Conscious() && surge.Remaining > f.surgeFloor[f.sinceShortRest()] &&
		enc.MonstersConscious() > 0 && surge.Use() {
		enc.Record(combat.Event{Actor: st.Name, Action: "action surge", Outcome: "used"})
		f.attackRound(enc)
	}
}

// attackRound swings the greatsword once per attack, stopping if the
// fighter goes down mid-round.
func (f *Fighter) attackRound(enc *combat.Encounter) {
	for i := 0; i < f.attacks && f.st.Conscious(); i++ {
		if _, ok := f.attackWith(enc, f.weapon, combat.AttackOptions{}); !ok {
			return
		}
	}
}

// useSecondWind heals d10 + level. A nil encounter means the heal happens
// during a rest, outside any trace.
func (f *Fighter) useSecondWind(enc *combat.Encounter) {
	f.secondWind = false
	amount := f.st.Heal(f.src.Intn(10) + 1 + f.st.Level)
	if enc != nil {
		enc.Record(combat.Event{
			Actor: f.st.Name, Action: "second wind",
			Outcome: "heal", Amount: amount, TargetHP: f.st.HP,
		})
	}
}
