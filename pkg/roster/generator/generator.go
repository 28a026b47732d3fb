// Package generator is the engine facade: expand the rules, run parallel
// search attempts, score each candidate and return the best solution.
package generator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/venueops/roster/pkg/errors"
	"github.com/venueops/roster/pkg/logger"
	"github.com/venueops/roster/pkg/model"
	"github.com/venueops/roster/pkg/roster/availability"
	"github.com/venueops/roster/pkg/roster/constraint/builtin"
	"github.com/venueops/roster/pkg/roster/expander"
	"github.com/venueops/roster/pkg/roster/scorer"
	"github.com/venueops/roster/pkg/roster/solver"
)

const defaultMaxHoursPerWeek = 40

// Config tunes the generator.
type Config struct {
	// Workers is the size of the attempt worker pool.
	Workers int

	// Attempts is the number of search attempts per Generate call. Attempt 0
	// is fully deterministic; later attempts perturb candidate tie-breaking.
	Attempts int

	// MaxBacktracks bounds undo-and-retry moves per attempt.
	MaxBacktracks int

	// CriticalWeight is the rule weight at which a violation invalidates the
	// solution.
	CriticalWeight int
}

// DefaultConfig returns the standard generator tuning.
func DefaultConfig() Config {
	return Config{
		Workers:        4,
		Attempts:       8,
		MaxBacktracks:  64,
		CriticalWeight: model.CriticalWeight,
	}
}

// Request is one week's generation input.
type Request struct {
	WeekStart    time.Time
	Staff        []model.StaffMember
	Availability []model.Availability
	Rules        []model.Rule

	// MaxHoursPerWeek caps any one staff member's assigned hours. Zero means
	// the default of 40; a tighter per-staff cap always wins.
	MaxHoursPerWeek float64

	// PreferFairness steers the search toward even hour distribution and
	// enables the fairness penalty in scoring.
	PreferFairness bool
}

// NewRequest returns a request with the documented defaults applied.
func NewRequest(weekStart time.Time) Request {
	return Request{
		WeekStart:       weekStart,
		MaxHoursPerWeek: defaultMaxHoursPerWeek,
		PreferFairness:  true,
	}
}

// Generator generates and validates weekly rosters.
type Generator struct {
	cfg Config
	log *logger.SolverLogger
}

// New creates a generator; zero config fields fall back to defaults.
func New(cfg Config) *Generator {
	def := DefaultConfig()
	if cfg.Workers <= 0 {
		cfg.Workers = def.Workers
	}
	if cfg.Attempts <= 0 {
		cfg.Attempts = def.Attempts
	}
	if cfg.MaxBacktracks <= 0 {
		cfg.MaxBacktracks = def.MaxBacktracks
	}
	if cfg.CriticalWeight <= 0 {
		cfg.CriticalWeight = def.CriticalWeight
	}
	return &Generator{cfg: cfg, log: logger.NewSolverLogger()}
}

// Preview runs requirement expansion alone, so callers can inspect what the
// active rules demand for a week before generating.
func (g *Generator) Preview(rules []model.Rule, weekStart time.Time) ([]model.ShiftRequirement, error) {
	return expander.Expand(rules, weekStart)
}

// Generate builds the best roster it can for the requested week.
//
// Configuration problems (non-Monday week start, contradictory or unknown
// rules) abort with an error. Anything else degrades instead of failing:
// unfillable slots surface as violations on the returned solution, and a
// cancelled or expired context returns the best candidate found so far with
// Note explaining the early stop. The error is non-nil only when no candidate
// at all was produced.
func (g *Generator) Generate(ctx context.Context, req Request) (*model.Solution, error) {
	started := time.Now()
	if req.MaxHoursPerWeek <= 0 {
		req.MaxHoursPerWeek = defaultMaxHoursPerWeek
	}

	requirements, err := expander.Expand(req.Rules, req.WeekStart)
	if err != nil {
		return nil, err
	}

	active := activeRules(req.Rules, req.WeekStart)
	registry, err := builtin.FromRules(active)
	if err != nil {
		return nil, err
	}

	g.log.StartGeneration(req.WeekStart.Format("2006-01-02"), len(req.Staff), len(requirements))

	index := availability.NewIndex(req.Staff, req.Availability)
	eval := scorer.New(registry, scorer.Options{
		CriticalWeight: g.cfg.CriticalWeight,
		PreferFairness: req.PreferFairness,
	})
	input := solver.Input{
		Staff:          req.Staff,
		Requirements:   requirements,
		Rules:          active,
		Index:          index,
		MaxHours:       req.MaxHoursPerWeek,
		WeekStart:      req.WeekStart,
		PreferFairness: req.PreferFairness,
	}

	best := g.runAttempts(ctx, input, eval)
	if best == nil {
		if ctx.Err() != nil {
			return nil, errors.Wrap(ctx.Err(), errors.CodeTimeout,
				"generation stopped before any candidate was produced")
		}
		return nil, errors.New(errors.CodeInternal, "no candidate produced")
	}

	if ctx.Err() != nil {
		best.Note = fmt.Sprintf("stopped early after %s, best of the candidates completed so far",
			time.Since(started).Round(time.Millisecond))
	}

	g.log.GenerationComplete(req.WeekStart.Format("2006-01-02"), time.Since(started), best.Score, best.IsValid)
	return best, nil
}

// runAttempts fans the search attempts over a worker pool and keeps the best
// scored solution. Ties go to the candidate with fewer critical violations,
// then to the earlier attempt so results stay reproducible.
func (g *Generator) runAttempts(ctx context.Context, input solver.Input, eval *scorer.Scorer) *model.Solution {
	type scored struct {
		attempt  int
		solution *model.Solution
	}

	jobs := make(chan int, g.cfg.Attempts)
	results := make(chan scored, g.cfg.Attempts)

	var wg sync.WaitGroup
	for w := 0; w < g.cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			search := solver.NewGreedySolver()
			for attempt := range jobs {
				select {
				case <-ctx.Done():
					return
				default:
				}

				budget := solver.Budget{
					MaxBacktracks: g.cfg.MaxBacktracks,
					Seed:          attemptSeed(attempt),
				}
				res, err := search.Search(ctx, input, budget)
				if err != nil && len(res.Assignments) == 0 {
					return
				}
				// A cancelled attempt still submits whatever it assigned, so
				// even a first-attempt timeout yields a usable roster.
				results <- scored{
					attempt:  attempt,
					solution: eval.Evaluate(input.Staff, input.Requirements, res.Assignments),
				}
				if err != nil {
					return
				}
			}
		}()
	}

	go func() {
		for attempt := 0; attempt < g.cfg.Attempts; attempt++ {
			jobs <- attempt
		}
		close(jobs)
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	var best *model.Solution
	bestAttempt := 0
	for r := range results {
		if better(r.solution, r.attempt, best, bestAttempt) {
			best, bestAttempt = r.solution, r.attempt
		}
	}
	return best
}

func better(candidate *model.Solution, attempt int, current *model.Solution, currentAttempt int) bool {
	if current == nil {
		return true
	}
	if candidate.Score != current.Score {
		return candidate.Score > current.Score
	}
	cCrit, bCrit := candidate.CriticalViolations(), current.CriticalViolations()
	if cCrit != bCrit {
		return cCrit < bCrit
	}
	return attempt < currentAttempt
}

// attemptSeed maps an attempt number to its tie-break seed. Attempt 0 stays
// deterministic; each later attempt gets a distinct fixed seed so repeated
// runs explore the same candidate set.
func attemptSeed(attempt int) int64 {
	if attempt == 0 {
		return 0
	}
	return int64(attempt) * 7919
}

func activeRules(rules []model.Rule, weekStart time.Time) []model.Rule {
	var active []model.Rule
	for _, r := range rules {
		if r.ActiveFor(weekStart) {
			active = append(active, r)
		}
	}
	return active
}
