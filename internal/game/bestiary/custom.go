package bestiary

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/aherron/skirmish/internal/game/combat"
	"github.com/aherron/skirmish/internal/game/dice"
)

// StatBlock is a custom monster definition loaded from YAML. Ability
// values are modifiers, not scores. Every attack listed is made each turn,
// so a two-entry list is a multiattack.
type StatBlock struct {
	Name        string      `yaml:"name"`
	AC          int         `yaml:"ac"`
	HitDice     int         `yaml:"hit_dice"`
	HitDieSides int         `yaml:"hit_die_sides"`
	Proficiency int         `yaml:"proficiency"`
	Abilities   AbilityMods `yaml:"abilities"`

	Immunities      []string `yaml:"immunities"`
	Resistances     []string `yaml:"resistances"`
	Vulnerabilities []string `yaml:"vulnerabilities"`

	Attacks []AttackSpec `yaml:"attacks"`
}

// AbilityMods holds the six ability modifiers of a custom stat block.
type AbilityMods struct {
	Str int `yaml:"str"`
	Dex int `yaml:"dex"`
	Con int `yaml:"con"`
	Int int `yaml:"int"`
	Wis int `yaml:"wis"`
	Cha int `yaml:"cha"`
}

func (a AbilityMods) array() [6]int {
	return [6]int{a.Str, a.Dex, a.Con, a.Int, a.Wis, a.Cha}
}

// AttackSpec is one weapon attack of a custom stat block.
type AttackSpec struct {
	Name       string `yaml:"name"`
	Damage     string `yaml:"damage"` // dice expression, e.g. "1d8+2"
	DamageType string `yaml:"damage_type"`
	Ability    string `yaml:"ability"`
	Ranged     bool   `yaml:"ranged"`
	AttackMod  int    `yaml:"attack_mod"`
	DamageMod  int    `yaml:"damage_mod"`
}

var abilityNames = map[string]combat.Ability{
	"str": combat.Str,
	"dex": combat.Dex,
	"con": combat.Con,
	"int": combat.Int,
	"wis": combat.Wis,
	"cha": combat.Cha,
}

var damageTypeNames = map[string]combat.DamageType{
	"bludgeoning": combat.Bludgeoning,
	"piercing":    combat.Piercing,
	"slashing":    combat.Slashing,
	"fire":        combat.Fire,
	"cold":        combat.Cold,
	"acid":        combat.Acid,
	"poison":      combat.Poison,
	"necrotic":    combat.Necrotic,
	"radiant":     combat.Radiant,
	"lightning":   combat.Lightning,
	"thunder":     combat.Thunder,
	"force":       combat.Force,
	"psychic":     combat.Psychic,
}

// Validate checks the stat block for anything Combatant would choke on.
func (b StatBlock) Validate() error {
	if b.Name == "" {
		return fmt.Errorf("bestiary: stat block missing name")
	}
	if b.HitDice < 1 {
		return fmt.Errorf("bestiary: %s: hit_dice %d < 1", b.Name, b.HitDice)
	}
	if b.HitDieSides < 2 {
		return fmt.Errorf("bestiary: %s: hit_die_sides %d < 2", b.Name, b.HitDieSides)
	}
	if b.Proficiency < 0 {
		return fmt.Errorf("bestiary: %s: proficiency %d < 0", b.Name, b.Proficiency)
	}
	if b.AC < 1 {
		return fmt.Errorf("bestiary: %s: ac %d < 1", b.Name, b.AC)
	}
	if len(b.Attacks) == 0 {
		return fmt.Errorf("bestiary: %s: no attacks", b.Name)
	}
	for _, a := range b.Attacks {
		if a.Name == "" {
			return fmt.Errorf("bestiary: %s: attack missing name", b.Name)
		}
		if _, err := dice.Parse(a.Damage); err != nil {
			return fmt.Errorf("bestiary: %s: attack %s: %w", b.Name, a.Name, err)
		}
		if _, ok := abilityNames[strings.ToLower(a.Ability)]; !ok {
			return fmt.Errorf("bestiary: %s: attack %s: unknown ability %q", b.Name, a.Name, a.Ability)
		}
		if _, ok := damageTypeNames[strings.ToLower(a.DamageType)]; !ok {
			return fmt.Errorf("bestiary: %s: attack %s: unknown damage type %q", b.Name, a.Name, a.DamageType)
		}
	}
	for _, lists := range [][]string{b.Immunities, b.Resistances, b.Vulnerabilities} {
		for _, name := range lists {
			if _, ok := damageTypeNames[strings.ToLower(name)]; !ok {
				return fmt.Errorf("bestiary: %s: unknown damage type %q", b.Name, name)
			}
		}
	}
	return nil
}

// Combatant builds a fresh instance of the stat block with its hit points
// rolled. Its signature matches Factory, so a validated block registers as
// b.Combatant.
//
// Precondition: Validate returned nil.
func (b StatBlock) Combatant(src dice.Source) combat.Combatant {
	c := &custom{monster: newMonster(b.Name, b.HitDieSides, b.HitDice, b.Proficiency, b.Abilities.array(), src)}
	st := c.st
	st.AC = b.AC
	st.Immunities = typeSet(b.Immunities)
	st.Resistances = typeSet(b.Resistances)
	st.Vulnerabilities = typeSet(b.Vulnerabilities)

	for _, a := range b.Attacks {
		c.weapons = append(c.weapons, combat.Weapon{
			Name:       a.Name,
			Damage:     dice.MustParse(a.Damage),
			DamageType: damageTypeNames[strings.ToLower(a.DamageType)],
			Ability:    abilityNames[strings.ToLower(a.Ability)],
			Proficient: true,
			Ranged:     a.Ranged,
			AttackMod:  a.AttackMod,
			DamageMod:  a.DamageMod,
		})
	}
	return c
}

// custom is the runtime form of a StatBlock: a monster that makes every
// listed attack each turn.
type custom struct {
	monster
	weapons []combat.Weapon
}

// TakeTurn makes the full multiattack against random enemies.
func (c *custom) TakeTurn(enc *combat.Encounter) {
	c.st.ActionAvailable = false
	for _, w := range c.weapons {
		if !c.st.Conscious() {
			return
		}
		c.attackWith(enc, w, combat.AttackOptions{})
	}
}

func typeSet(names []string) map[combat.DamageType]bool {
	if len(names) == 0 {
		return nil
	}
	out := make(map[combat.DamageType]bool, len(names))
	for _, name := range names {
		out[damageTypeNames[strings.ToLower(name)]] = true
	}
	return out
}

// LoadDir reads every .yaml/.yml file in dir as one stat block and
// validates it. Subdirectories are ignored.
func LoadDir(dir string) ([]StatBlock, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("bestiary: read %s: %w", dir, err)
	}

	var blocks []StatBlock
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := filepath.Ext(e.Name())
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("bestiary: read %s: %w", path, err)
		}
		var b StatBlock
		if err := yaml.Unmarshal(data, &b); err != nil {
			return nil, fmt.Errorf("bestiary: parse %s: %w", path, err)
		}
		if err := b.Validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		blocks = append(blocks, b)
	}
	return blocks, nil
}
