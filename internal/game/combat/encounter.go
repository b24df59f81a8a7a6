package combat

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/aherron/skirmish/internal/game/dice"
)

// State tracks an encounter's lifecycle. Concluded is terminal.
type State int

const (
	NotStarted State = iota
	Active
	Concluded
)

// String returns a human-readable state label.
func (s State) String() string {
	switch s {
	case NotStarted:
		return "not started"
	case Active:
		return "active"
	case Concluded:
		return "concluded"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// DefaultRoundCap bounds runaway encounters; a capped encounter is scored
// as a stalemate with the party retaining its current HP.
const DefaultRoundCap = 100

// Encounter is one fight between the party and a monster group. It owns the
// initiative order, the round loop, the dice source, and the trace sink.
// Not safe for concurrent use; each simulated day runs its encounters
// sequentially on one goroutine.
type Encounter struct {
	Party    []Combatant
	Monsters []Combatant

	Number   int // 1-based encounter number within the day
	Round    int
	RoundCap int
	State    State

	// SimultaneousDefeat is set when both teams reach zero conscious
	// members in the same turn resolution.
	SimultaneousDefeat bool

	Src      dice.Source
	Log      *zap.Logger
	Recorder *Recorder // nil disables tracing

	roller *dice.Roller
	order  []Combatant
}

// NewEncounter assembles an encounter ready to Run.
//
// Precondition: both teams non-empty; src and log non-nil; number >= 1.
func NewEncounter(number int, party, monsters []Combatant, src dice.Source, log *zap.Logger, rec *Recorder) *Encounter {
	if len(party) == 0 || len(monsters) == 0 {
		panic("combat: NewEncounter requires at least one combatant per team")
	}
	if number < 1 {
		panic(fmt.Sprintf("combat: NewEncounter called with number %d < 1", number))
	}
	return &Encounter{
		Party:    party,
		Monsters: monsters,
		Number:   number,
		RoundCap: DefaultRoundCap,
		Src:      src,
		Log:      log,
		Recorder: rec,
		roller:   dice.NewLoggedRoller(src, log),
	}
}

// RollDice evaluates expr through the encounter's logged roller, rolling
// the dice twice on a crit. The flat modifier is counted once. Every
// damage and healing die of the encounter goes through here so a debug
// run narrates each roll.
//
// Precondition: expr must come from Parse.
func (e *Encounter) RollDice(expr dice.Expression, crit bool) int {
	r, err := e.roller.Roll(expr)
	if err != nil {
		panic("combat: invalid damage dice " + expr.Raw + ": " + err.Error())
	}
	total := r.Total()
	if crit {
		again, err := e.roller.Roll(expr)
		if err != nil {
			panic("combat: invalid damage dice " + expr.Raw + ": " + err.Error())
		}
		total += again.Total() - again.Modifier
	}
	return total
}

// Run executes the encounter to conclusion: initiative, then rounds in
// initiative order until one team (or both) has no conscious member or the
// round cap trips.
//
// Precondition: State == NotStarted.
// Postcondition: State == Concluded; all per-encounter conditions cleared.
func (e *Encounter) Run() error {
	if e.State != NotStarted {
		return fmt.Errorf("combat: encounter %d already %s", e.Number, e.State)
	}

	for _, c := range e.allCombatants() {
		c.StartEncounter(e)
	}
	e.rollInitiative()
	e.State = Active
	e.Log.Debug("encounter started",
		zap.Int("encounter", e.Number),
		zap.Int("party", len(e.Party)),
		zap.Int("monsters", len(e.Monsters)),
	)

	for e.State == Active {
		e.Round++
		if e.Round > e.RoundCap {
			// Stalemate: the party walks away with its current HP.
			e.Log.Warn("round cap reached, scoring stalemate",
				zap.Int("encounter", e.Number), zap.Int("cap", e.RoundCap))
			e.conclude()
			break
		}
		for _, c := range e.order {
			e.runTurn(c)
			if e.State == Concluded {
				break
			}
		}
	}
	return nil
}

// runTurn resolves one combatant's turn: surprise wears off, start-of-turn
// hooks fire, action economy resets, the combatant acts unless
// incapacitated, end-of-turn hooks fire, and termination is checked.
func (e *Encounter) runTurn(c Combatant) {
	st := c.Stats()
	if !st.Conscious() {
		return
	}
	st.Surprised = false
	st.Conditions.TickStart()
	if st.Conscious() && !st.Incapacitated() {
		st.ResetTurn()
		c.TakeTurn(e)
	}
	st.Conditions.TickEnd()
	e.checkTermination()
}

// rollInitiative orders all combatants by d20 + Dex, highest first. The
// sort is stable over a party-first roster, so the party wins ties.
func (e *Encounter) rollInitiative() {
	e.order = e.allCombatants()
	for _, c := range e.order {
		st := c.Stats()
		st.Initiative = e.Src.Intn(20) + 1 + st.Mod(Dex)
	}
	sort.SliceStable(e.order, func(i, j int) bool {
		return e.order[i].Stats().Initiative > e.order[j].Stats().Initiative
	})
}

// checkTermination concludes the encounter when a team has no conscious
// member, flagging simultaneous defeat when both are down at once.
func (e *Encounter) checkTermination() {
	partyUp := e.consciousCount(TeamParty)
	monstersUp := e.consciousCount(TeamMonsters)
	if partyUp > 0 && monstersUp > 0 {
		return
	}
	if partyUp == 0 && monstersUp == 0 {
		e.SimultaneousDefeat = true
	}
	e.conclude()
}

// conclude moves the encounter to its terminal state and clears every
// per-encounter effect and concentration.
func (e *Encounter) conclude() {
	e.State = Concluded
	for _, c := range e.allCombatants() {
		st := c.Stats()
		st.Conditions.Clear()
		st.Concentration = ""
		st.Reveal()
	}
	e.Log.Debug("encounter concluded",
		zap.Int("encounter", e.Number),
		zap.Int("rounds", e.Round),
		zap.Int("party_up", e.consciousCount(TeamParty)),
		zap.Int("monsters_up", e.consciousCount(TeamMonsters)),
		zap.Bool("simultaneous_defeat", e.SimultaneousDefeat),
	)
}

func (e *Encounter) allCombatants() []Combatant {
	all := make([]Combatant, 0, len(e.Party)+len(e.Monsters))
	all = append(all, e.Party...)
	all = append(all, e.Monsters...)
	return all
}

// Members returns the roster of the given team in stable order.
func (e *Encounter) Members(team Team) []Combatant {
	if team == TeamParty {
		return e.Party
	}
	return e.Monsters
}

func (e *Encounter) consciousCount(team Team) int {
	n := 0
	for _, c := range e.Members(team) {
		if c.Stats().Conscious() {
			n++
		}
	}
	return n
}

// PartyConscious returns the number of party members with HP > 0.
func (e *Encounter) PartyConscious() int { return e.consciousCount(TeamParty) }

// MonstersConscious returns the number of monsters with HP > 0.
func (e *Encounter) MonstersConscious() int { return e.consciousCount(TeamMonsters) }

// TargetFilter narrows target selection.
type TargetFilter struct {
	// DamageType, when non-empty, excludes targets immune to it. Only
	// single-type damage actions set this.
	DamageType DamageType
	// IncludeUnconscious admits targets at 0 HP (healing, coup de grâce).
	IncludeUnconscious bool
}

// candidates returns the valid targets on team for the given observer, in
// roster order: conscious (unless included), not concealed from the
// observer, not immune to the filtered damage type.
func (e *Encounter) candidates(observer *Stats, team Team, f TargetFilter) []Combatant {
	var out []Combatant
	for _, c := range e.Members(team) {
		st := c.Stats()
		if !st.Conscious() && !f.IncludeUnconscious {
			continue
		}
		if f.DamageType != "" && st.Immunities[f.DamageType] {
			continue
		}
		if observer != nil && st.Team != observer.Team && st.ConcealedFrom(observer) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// ChooseEnemy picks one valid enemy of attacker uniformly at random, or nil
// when no valid target exists.
//
// Precondition: attacker must be non-nil.
func (e *Encounter) ChooseEnemy(attacker *Stats, f TargetFilter) Combatant {
	pool := e.candidates(attacker, attacker.Team.Opponent(), f)
	if len(pool) == 0 {
		return nil
	}
	return pool[e.Src.Intn(len(pool))]
}

// ChooseEnemies picks up to n distinct enemies uniformly at random without
// replacement; all of them when fewer than n are valid.
//
// Precondition: attacker must be non-nil; n >= 1.
func (e *Encounter) ChooseEnemies(attacker *Stats, n int, f TargetFilter) []Combatant {
	pool := e.candidates(attacker, attacker.Team.Opponent(), f)
	if len(pool) <= n {
		return pool
	}
	picked := make([]Combatant, 0, n)
	for len(picked) < n {
		i := e.Src.Intn(len(pool))
		picked = append(picked, pool[i])
		pool = append(pool[:i], pool[i+1:]...)
	}
	return picked
}

// Allies returns ally combatants of st (including st's own entry) matching
// the filter, in roster order.
func (e *Encounter) Allies(st *Stats, f TargetFilter) []Combatant {
	return e.candidates(nil, st.Team, f)
}

// UnconsciousAllies returns allies of st at 0 HP, in roster order.
func (e *Encounter) UnconsciousAllies(st *Stats) []Combatant {
	var out []Combatant
	for _, c := range e.Members(st.Team) {
		if !c.Stats().Conscious() {
			out = append(out, c)
		}
	}
	return out
}

// ConsciousAllyOf reports whether any ally of st other than st itself is
// conscious. Pack Tactics hinges on this.
func (e *Encounter) ConsciousAllyOf(st *Stats) bool {
	for _, c := range e.Members(st.Team) {
		other := c.Stats()
		if other.ID != st.ID && other.Conscious() {
			return true
		}
	}
	return false
}

// DealDamage routes damage from attacker to target: the target's PreDamage
// hook and type adjustments apply, HP is clamped, and a concentration check
// (Con save, DC max(10, damage/2)) fires when a concentrating target takes
// damage. Falling unconscious always breaks concentration.
//
// Postcondition: returns the damage actually applied; target.HP >= 0.
func (e *Encounter) DealDamage(attacker, target *Stats, amount int, dtype DamageType, ranged bool) int {
	applied := target.ApplyDamage(amount, dtype, ranged)
	if applied > 0 && target.Concentration != "" {
		if !target.Conscious() {
			e.BreakConcentration(target)
		} else {
			dc := max(10, applied/2)
			if target.SavingThrow(e.Src, Con, false, false) < dc {
				e.BreakConcentration(target)
			}
		}
	}
	return applied
}

// BreakConcentration ends the named concentration effect a caster is
// maintaining, removing every effect the caster applied from all
// combatants. No-op when the caster is not concentrating.
func (e *Encounter) BreakConcentration(caster *Stats) {
	if caster.Concentration == "" {
		return
	}
	name := caster.Concentration
	caster.Concentration = ""
	caster.RemoveAttackBonus(name)
	for _, c := range e.allCombatants() {
		c.Stats().Conditions.RemoveBySource(caster.Name)
	}
	e.Log.Debug("concentration broken",
		zap.String("caster", caster.Name),
		zap.String("effect", name),
	)
}

// Record stamps ev with the encounter and round numbers, appends it to the
// trace, and mirrors it to the debug log.
func (e *Encounter) Record(ev Event) {
	ev.Encounter = e.Number
	ev.Round = e.Round
	e.Recorder.Record(ev)
	e.Log.Debug("action",
		zap.Int("encounter", ev.Encounter),
		zap.Int("round", ev.Round),
		zap.String("actor", ev.Actor),
		zap.String("action", ev.Action),
		zap.String("target", ev.Target),
		zap.Int("roll", ev.Roll),
		zap.Int("total", ev.Total),
		zap.String("outcome", ev.Outcome),
		zap.Int("amount", ev.Amount),
		zap.Int("target_hp", ev.TargetHP),
	)
}
