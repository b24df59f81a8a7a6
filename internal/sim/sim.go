// Package sim runs the Monte Carlo aggregation: many independent
// adventuring days simulated in parallel, summarized as a survival mean
// and sample standard deviation.
package sim

import (
	"fmt"
	"math"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/aherron/skirmish/internal/game/bestiary"
	"github.com/aherron/skirmish/internal/game/combat"
	"github.com/aherron/skirmish/internal/game/day"
	"github.com/aherron/skirmish/internal/game/dice"
	"github.com/aherron/skirmish/internal/game/party"
)

// testCreature is the reserved adversary name that builds from RunSpec
// TestStats instead of the bestiary registry.
const testCreature = "Test"

// RunSpec describes one simulation run.
type RunSpec struct {
	// Days is the number of adventuring days to simulate.
	Days int
	// Seed derives the per-day dice streams; day i uses stream (Seed, i),
	// so a run is reproducible and any single day is replayable.
	Seed uint64
	// Workers is the number of goroutines simulating days in parallel.
	Workers int
	// RoundCap overrides the per-encounter round cap when > 0.
	RoundCap int

	// PartyLevel applies to every class in Classes.
	PartyLevel int
	// Classes lists the party composition by class name.
	Classes []string

	// Monsters and Counts describe the adversary group of each encounter:
	// Counts[i] copies of Monsters[i]. "Test" builds from TestStats.
	Monsters []string
	Counts   []int
	// TestStats must be set when Monsters includes "Test".
	TestStats *bestiary.TestStats

	// Log receives engine debug output; nil means discard.
	Log *zap.Logger
}

// Result summarizes a simulation run.
type Result struct {
	Days int
	// Mean is the average number of surviving party members per day.
	Mean float64
	// StdDev is the Bessel-corrected sample standard deviation of the
	// survival count; zero when fewer than two days were simulated.
	StdDev float64
}

// Validate checks the spec before any simulation starts.
//
// Postcondition: Returns nil if the spec is runnable, or an error
// describing all violations.
func (s RunSpec) Validate() error {
	var errs []string

	if s.Days < 1 {
		errs = append(errs, fmt.Sprintf("days must be >= 1, got %d", s.Days))
	}
	if s.Workers < 1 {
		errs = append(errs, fmt.Sprintf("workers must be >= 1, got %d", s.Workers))
	}
	if s.PartyLevel < party.MinLevel || s.PartyLevel > party.MaxLevel {
		errs = append(errs, fmt.Sprintf("party level %d outside %d..%d",
			s.PartyLevel, party.MinLevel, party.MaxLevel))
	}
	if len(s.Classes) == 0 {
		errs = append(errs, "at least one class required")
	}
	for _, name := range s.Classes {
		if !party.Known(name) {
			errs = append(errs, fmt.Sprintf("unknown class %q (known: %s)",
				name, strings.Join(party.Names(), ", ")))
		}
	}
	if len(s.Monsters) == 0 {
		errs = append(errs, "at least one monster type required")
	}
	if len(s.Monsters) != len(s.Counts) {
		errs = append(errs, fmt.Sprintf("%d monster types but %d counts",
			len(s.Monsters), len(s.Counts)))
	} else {
		for i, name := range s.Monsters {
			if name != testCreature && !bestiary.Known(name) {
				errs = append(errs, fmt.Sprintf("unknown monster %q (known: %s)",
					name, strings.Join(bestiary.Names(), ", ")))
			}
			if s.Counts[i] < 1 {
				errs = append(errs, fmt.Sprintf("count for %s must be >= 1, got %d", name, s.Counts[i]))
			}
		}
	}
	for _, name := range s.Monsters {
		if name == testCreature && s.TestStats == nil {
			errs = append(errs, `monster "Test" requires test stats`)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("sim: invalid run spec: %s", strings.Join(errs, "; "))
	}
	return nil
}

// AdversaryLabel renders the adversary group for the report line, e.g.
// "Kobold 4" or "Test  5 16 20 50  2  3 1".
func (s RunSpec) AdversaryLabel() string {
	if len(s.Monsters) > 0 && s.Monsters[0] == testCreature && s.TestStats != nil {
		ts := s.TestStats
		return fmt.Sprintf("Test %2d %2d %2d %2d %2d %2d %d",
			ts.Attack, ts.AC, ts.Damage, ts.HP, ts.Attacks, ts.Proficiency, s.Counts[0])
	}
	parts := make([]string, len(s.Monsters))
	for i, name := range s.Monsters {
		parts[i] = fmt.Sprintf("%s %d", name, s.Counts[i])
	}
	return strings.Join(parts, " ")
}

// Run simulates the spec's adventuring day spec.Days times and summarizes
// survival. Each day owns an independent seeded dice stream and a fresh
// party, so days are order-independent across workers.
func Run(spec RunSpec) (Result, error) {
	if err := spec.Validate(); err != nil {
		return Result{}, err
	}
	log := spec.Log
	if log == nil {
		log = zap.NewNop()
	}

	survival := make([]int, spec.Days)
	dayErrs := make([]error, spec.Days)
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < spec.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				res, err := runDay(spec, uint64(i), log, nil)
				if err != nil {
					dayErrs[i] = err
					continue
				}
				survival[i] = res.Survivors
			}
		}()
	}
	for i := 0; i < spec.Days; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	for _, err := range dayErrs {
		if err != nil {
			return Result{}, err
		}
	}

	mean, std := summarize(survival)
	return Result{Days: spec.Days, Mean: mean, StdDev: std}, nil
}

// Debug simulates exactly one day (stream 0) with tracing enabled and
// returns the day's outcome alongside the full action trace.
func Debug(spec RunSpec) (day.Result, []combat.Event, error) {
	spec.Days = 1
	if err := spec.Validate(); err != nil {
		return day.Result{}, nil, err
	}
	log := spec.Log
	if log == nil {
		log = zap.NewNop()
	}

	rec := combat.NewRecorder()
	res, err := runDay(spec, 0, log, rec)
	if err != nil {
		return day.Result{}, nil, err
	}
	return res, rec.Events(), nil
}

// runDay builds a fresh party and monster factory on the day's own dice
// stream and plays the day out.
func runDay(spec RunSpec, stream uint64, log *zap.Logger, rec *combat.Recorder) (day.Result, error) {
	src := dice.NewSeededSource(spec.Seed, stream)

	pcs := make([]combat.Combatant, 0, len(spec.Classes))
	for _, name := range spec.Classes {
		pc, err := party.New(name, spec.PartyLevel, src)
		if err != nil {
			return day.Result{}, err
		}
		pcs = append(pcs, pc)
	}

	d := &day.Day{
		Party:    pcs,
		Monsters: monsterFactory(spec, src),
		Src:      src,
		Log:      log,
		Recorder: rec,
		RoundCap: spec.RoundCap,
	}
	return d.Run()
}

// monsterFactory returns a factory producing a fresh, individually
// numbered adversary group per encounter.
//
// Precondition: spec passed Validate.
func monsterFactory(spec RunSpec, src dice.Source) day.MonsterFactory {
	return func() []combat.Combatant {
		var out []combat.Combatant
		for i, name := range spec.Monsters {
			for n := 1; n <= spec.Counts[i]; n++ {
				var m combat.Combatant
				if name == testCreature {
					m = bestiary.NewTest(*spec.TestStats, src)
				} else {
					var err error
					m, err = bestiary.New(name, src)
					if err != nil {
						panic("sim: " + err.Error())
					}
				}
				m.Stats().Name = fmt.Sprintf("%s %d", name, n)
				out = append(out, m)
			}
		}
		return out
	}
}

// summarize returns the mean and Bessel-corrected sample standard
// deviation of the survival counts.
//
// Precondition: len(survival) >= 1.
func summarize(survival []int) (mean, std float64) {
	n := float64(len(survival))
	sum := 0
	for _, s := range survival {
		sum += s
	}
	mean = float64(sum) / n

	if len(survival) < 2 {
		return mean, 0
	}
	ss := 0.0
	for _, s := range survival {
		d := float64(s) - mean
		ss += d * d
	}
	return mean, math.Sqrt(ss / (n - 1))
}
