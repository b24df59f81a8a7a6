package bestiary

import (
	"fmt"

	"github.com/aherron/skirmish/internal/game/combat"
	"github.com/aherron/skirmish/internal/game/dice"
)

// TestStats are the target numbers a Test creature is built from. Attack
// is the total attack bonus with proficiency included; Damage is the total
// expected damage per turn across all attacks.
type TestStats struct {
	Attack      int
	AC          int
	Damage      int
	HP          int
	Attacks     int // attacks per turn; defaults to 1
	Proficiency int // defaults to 2
}

// Test is a synthetic stat block for calibration sweeps: attack bonus,
// armor class, damage per turn, and hit points are dialed in directly and
// converted to dice internally. Hit points become the multiple of 2d8
// whose mean lands closest to the target plus a flat make-up amount, and
// damage per attack likewise becomes a multiple of 2d6.
type Test struct {
	monster
	weapon  combat.Weapon
	attacks int
	hpDice  dice.Expression
	hpMod   int
}

// NewTest builds a calibration creature with its hit points rolled.
//
// Precondition: ts.HP >= 1; ts.Damage >= 0.
func NewTest(ts TestStats, src dice.Source) *Test {
	if ts.Attacks < 1 {
		ts.Attacks = 1
	}
	if ts.Proficiency == 0 {
		ts.Proficiency = 2
	}

	t := &Test{
		monster: newMonster("Test", 8, 0, ts.Proficiency, [6]int{}, src),
		attacks: ts.Attacks,
	}
	st := t.st
	st.AC = ts.AC
	st.SaveProficiencies[combat.Dex] = true
	st.SaveProficiencies[combat.Con] = true
	st.SaveProficiencies[combat.Wis] = true
	// Perception proficiency on a flat Wis.
	st.PassivePerception = 10 + ts.Proficiency

	t.hpDice = synthDice(2*((ts.HP+2)/9), 8)
	t.hpMod = (ts.HP+2)%9 - 2

	perAttack := ts.Damage / ts.Attacks
	t.weapon = combat.Weapon{
		Name:       "slam",
		Damage:     synthDice(2*((perAttack+2)/7), 6),
		DamageType: combat.Bludgeoning,
		Ability:    combat.Str,
		Proficient: true,
		AttackMod:  ts.Attack - ts.Proficiency,
		DamageMod:  (perAttack+2)%7 - 2,
	}

	t.rollTestHP()
	return t
}

// Initialize rerolls the synthesized hit point dice.
func (t *Test) Initialize() { t.rollTestHP() }

// TakeTurn makes the full multiattack against random enemies.
func (t *Test) TakeTurn(enc *combat.Encounter) {
	t.st.ActionAvailable = false
	for i := 0; i < t.attacks; i++ {
		if !t.st.Conscious() {
			return
		}
		if _, ok := t.attackWith(enc, t.weapon, combat.AttackOptions{}); !ok {
			return
		}
	}
}

// rollTestHP rolls the synthesized hit point expression.
//
// Postcondition: HP == MaxHP >= 1.
func (t *Test) rollTestHP() {
	r, err := dice.Roll(t.hpDice, t.src)
	if err != nil {
		panic("bestiary: invalid hit dice " + t.hpDice.Raw + ": " + err.Error())
	}
	hp := r.Total() + t.hpMod
	if hp < 1 {
		hp = 1
	}
	t.st.MaxHP = hp
	t.st.HP = hp
}

// synthDice builds an n-die expression; n may be zero, in which case the
// roll contributes nothing and a flat modifier carries the load.
func synthDice(n, sides int) dice.Expression {
	if n < 1 {
		return dice.Expression{Raw: fmt.Sprintf("0d%d", sides), Sides: sides}
	}
	return dice.MustParse(fmt.Sprintf("%dd%d", n, sides))
}
