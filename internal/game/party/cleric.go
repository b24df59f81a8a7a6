package party

import (
	"github.com/aherron/skirmish/internal/game/combat"
	"github.com/aherron/skirmish/internal/game/dice"
	"github.com/aherron/skirmish/internal/game/ration"
	"github.com/aherron/skirmish/internal/game/spell"
)

const channelDivinity = "channel_divinity"

// Cleric is a Life Domain cleric: mace and sacred flame for pressure,
// bless and guiding bolt from rationed slots, healing word the moment an
// ally drops, and Channel Divinity: Preserve Life between fights. Slots
// are back-loaded; the cleric saves its deepest reserves for the encounters
// right before the long rest.
type Cleric struct {
	character

	slots  *Slots
	weapon combat.Weapon

	sacredFlame     spell.Spell
	guidingBolt     spell.Spell
	healingWord     spell.Spell
	cureWounds      spell.Spell
	bless           spell.Spell
	spiritualWeapon spell.Spell

	slotFloor []int
	cdFloor   []int

	// swSlot is the slot level the active spiritual weapon was cast at.
	swSlot int
}

// NewCleric builds a Life Domain cleric of the given level.
//
// Precondition: 1 <= level <= 8.
func NewCleric(level int, src dice.Source) *Cleric {
	ab := [6]int{2, -1, 2, 0, 3, 1}
	if level >= 4 {
		ab[combat.Str]++
	}
	if level >= 8 {
		ab[combat.Wis]++
	}

	c := &Cleric{character: newCharacter("Cleric", level, 8, ab, src)}
	st := c.st
	st.ArmorType = combat.HeavyArmor
	st.AC = 18
	if level >= 5 {
		st.AC = 20 // plate and shield
	}
	st.SaveProficiencies[combat.Wis] = true
	st.SaveProficiencies[combat.Cha] = true
	st.SpellMod = st.Mod(combat.Wis)

	// Disciple of Life rides on every leveled healing spell.
	st.HealingRider = func(slot int) int {
		if slot >= 1 {
			return 2 + slot
		}
		return 0
	}

	c.weapon = combat.Weapon{
		Name:       "mace",
		Damage:     dice.MustParse("1d6"),
		DamageType: combat.Bludgeoning,
		Ability:    combat.Str,
		Proficient: true,
	}
	if level >= 6 {
		c.weapon.AttackMod = 1
		c.weapon.DamageMod = 1
	}
	if level >= 8 {
		// Divine Strike.
		c.weapon.Secondary = &combat.SecondaryDamage{
			Damage:     dice.MustParse("1d8"),
			DamageType: combat.Radiant,
		}
	}

	cdTotal := 0
	switch {
	case level >= 6:
		cdTotal = 2
	case level >= 2:
		cdTotal = 1
	}
	st.Resources[channelDivinity] = &combat.Resource{Remaining: cdTotal, Max: cdTotal}

	c.slots = NewSlots(level)
	c.slotFloor = slotFloor(c.slots.TotalCount(), ration.BackLoaded)
	c.cdFloor = restFloor(cdTotal, ration.BackLoaded)

	c.sacredFlame = spell.SacredFlame()
	c.guidingBolt = spell.GuidingBolt()
	c.healingWord = spell.HealingWord()
	c.cureWounds = spell.CureWounds()
	c.bless = spell.Bless()
	c.spiritualWeapon = spell.SpiritualWeapon()
	return c
}

// Slots exposes the cleric's spell-slot pool.
func (c *Cleric) Slots() *Slots { return c.slots }

// Initialize readies the cleric for a fresh adventuring day.
func (c *Cleric) Initialize() { c.LongRest() }

// LongRest restores hit points, hit dice, spell slots, and Channel
// Divinity.
func (c *Cleric) LongRest() {
	c.restoreHP()
	c.slots.Reset()
	c.st.Resources[channelDivinity].Reset()
}

// ShortRest recharges Channel Divinity and spends hit dice.
func (c *Cleric) ShortRest() {
	c.st.Resources[channelDivinity].Reset()
	c.spendHitDice()
}

// StartEncounter resets the per-encounter spiritual-weapon bookkeeping.
func (c *Cleric) StartEncounter(enc *combat.Encounter) {
	c.character.StartEncounter(enc)
	c.swSlot = 0
}

// TakeTurn runs the cleric's decision list: emergency healing first, then
// rationed slot spending, then the spiritual weapon swing, then a weapon
// attack or sacred flame.
func (c *Cleric) TakeTurn(enc *combat.Encounter) {
	st := c.st

	// Healing outranks the ration: a downed ally, or the cleric itself
	// below quarter health, gets a healing word regardless of the plan.
	if st.BonusAvailable && (len(enc.UnconsciousAllies(st)) > 0 || st.HP <= st.MaxHP/4) {
		if lvl := c.slots.Highest(1); lvl > 0 && c.healingWord.Cast(enc, st, lvl) {
			c.slots.Spend(lvl)
			st.BonusAvailable = false
		}
	}

	if c.slots.Count() > c.slotFloor[c.sinceLongRest()] {
		switch {
		case st.Level >= 3 && st.BonusAvailable && !st.Conditions.Has("spiritual_weapon") && c.slots.Highest(2) > 0:
			lvl := c.slots.Highest(2)
			if c.spiritualWeapon.Cast(enc, st, lvl) {
				c.slots.Spend(lvl)
				c.swSlot = lvl
				st.BonusAvailable = false
				spell.SpiritualWeaponAttack(enc, st, lvl)
			}
		case st.ActionAvailable && st.Concentration == "" && c.slots.Remaining[0] > 0 && c.unblessedAllies(enc) >= 3:
			if c.bless.Cast(enc, st, 1) {
				c.slots.Spend(1)
				st.ActionAvailable = false
			}
		case st.ActionAvailable:
			lvl := c.slots.Highest(1)
			if lvl > 0 && c.guidingBolt.Cast(enc, st, lvl) {
				c.slots.Spend(lvl)
				st.ActionAvailable = false
			}
		}
	}

	if st.BonusAvailable && st.Conditions.Has("spiritual_weapon") && st.Conscious() {
		st.BonusAvailable = false
		spell.SpiritualWeaponAttack(enc, st, c.swSlot)
	}

	if st.ActionAvailable && st.Conscious() {
		st.ActionAvailable = false
		useWeapon := enc.Src.Intn(2) == 0
		if !useWeapon && !c.sacredFlame.Cast(enc, st, 0) {
			useWeapon = true
		}
		if useWeapon {
			c.attackWith(enc, c.weapon, combat.AttackOptions{})
		}
	}
}

// EndEncounter patches the party up after a fight: Preserve Life when the
// ration allows, then cure wounds from the cheapest slots until nobody is
// left unconscious or the slots run dry.
func (c *Cleric) EndEncounter(enc *combat.Encounter) {
	st := c.st
	if !st.Conscious() {
		return
	}

	cd := st.Resources[channelDivinity]
	if cd.Remaining > c.cdFloor[c.sinceShortRest()] && cd.Use() {
		c.preserveLife(enc)
	}

	for len(enc.UnconsciousAllies(st)) > 0 {
		lvl := c.slots.Lowest(1)
		if lvl == 0 || !c.cureWounds.Cast(enc, st, lvl) {
			break
		}
		c.slots.Spend(lvl)
	}
}

// unblessedAllies counts conscious allies without the bless effect.
func (c *Cleric) unblessedAllies(enc *combat.Encounter) int {
	n := 0
	for _, a := range enc.Allies(c.st, combat.TargetFilter{}) {
		if !a.Stats().Conditions.Has("bless") {
			n++
		}
	}
	return n
}

// preserveLife distributes 5 x level points of healing one at a time,
// always to the ally with the fewest hit points, never raising anyone past
// half their maximum.
func (c *Cleric) preserveLife(enc *combat.Encounter) {
	pool := 5 * c.st.Level
	healed := 0
	for pool > 0 {
		var low *combat.Stats
		for _, a := range enc.Members(combat.TeamParty) {
			ast := a.Stats()
			if ast.HP >= ast.MaxHP/2 {
				continue
			}
			if low == nil || ast.HP < low.HP {
				low = ast
			}
		}
		if low == nil {
			break
		}
		healed += low.Heal(1)
		pool--
	}
	enc.Record(combat.Event{
		Actor: c.st.Name, Action: "preserve life",
		Outcome: "heal", Amount: healed,
	})
}
