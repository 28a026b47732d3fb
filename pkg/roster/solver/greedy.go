// Package solver assigns staff to shift requirements.
package solver

import (
	"context"
	"math/rand"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/venueops/roster/pkg/logger"
	"github.com/venueops/roster/pkg/model"
	"github.com/venueops/roster/pkg/roster/availability"
)

// Staff with less than this much declared weekly availability are treated as
// constrained and placed before flexible staff.
const constrainedHoursThreshold = 20.0

// Input is one search attempt's world: the staff pool, the expanded
// requirements, the rules steering soft preferences, and the availability
// index. All fields are read-only during the search.
type Input struct {
	Staff        []model.StaffMember
	Requirements []model.ShiftRequirement
	Rules        []model.Rule
	Index        *availability.Index
	MaxHours     float64

	// WeekStart is the week being scheduled; rules expired before it do not
	// steer the search. Zero means the current time.
	WeekStart time.Time

	PreferFairness bool
}

// Budget bounds a single attempt. Seed 0 runs the fully deterministic
// baseline; any other seed perturbs candidate tie-breaking.
type Budget struct {
	MaxBacktracks int
	Seed          int64
}

// DefaultBudget returns the standard per-attempt search budget.
func DefaultBudget() Budget {
	return Budget{MaxBacktracks: 64}
}

// Result is one attempt's raw roster before scoring.
type Result struct {
	Assignments []model.Assignment
	Backtracks  int
	Unfilled    int
}

// GreedySolver fills requirements scarcest-first with bounded backtracking:
// when a slot cannot be filled it may undo one earlier assignment that blocks
// an otherwise qualified candidate and refill the freed slot later.
type GreedySolver struct {
	log *logger.SolverLogger
}

// NewGreedySolver creates a solver.
func NewGreedySolver() *GreedySolver {
	return &GreedySolver{log: logger.NewSolverLogger()}
}

// Name identifies the search strategy.
func (s *GreedySolver) Name() string {
	return "greedy-backtracking"
}

// Search runs one assignment attempt. It never fails on an unfillable slot;
// under-staffed requirements are left short for the scorer to flag. The only
// errors are context cancellation and deadline expiry.
func (s *GreedySolver) Search(ctx context.Context, input Input, budget Budget) (*Result, error) {
	result := &Result{}
	if len(input.Requirements) == 0 {
		return result, nil
	}

	asOf := input.WeekStart
	if asOf.IsZero() {
		asOf = time.Now()
	}
	prefs := buildPreferences(input.Rules, input.Staff, asOf)
	constrained := s.constrainedStaff(input, prefs)

	var rng *rand.Rand
	if budget.Seed != 0 {
		rng = rand.New(rand.NewSource(budget.Seed))
	}

	queue := s.orderRequirements(input)
	filled := make(map[int]int, len(queue))

	for qi := 0; qi < len(queue); qi++ {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		reqIdx := queue[qi]
		req := input.Requirements[reqIdx]

		for filled[reqIdx] < targetSeats(req) {
			candidates := s.rank(input, prefs, constrained, req, reqIdx, result.Assignments, rng)
			if len(candidates) == 0 {
				if result.Backtracks >= budget.MaxBacktracks ||
					!s.backtrack(input, prefs, reqIdx, &result.Assignments, filled, &queue) {
					break
				}
				result.Backtracks++
				s.log.Backtrack(reqIdx, budget.MaxBacktracks-result.Backtracks)
				continue
			}

			best := candidates[0]
			result.Assignments = append(result.Assignments, model.Assignment{
				StaffID:      best.staff.ID,
				Requirement:  reqIdx,
				Day:          req.Day,
				ShiftType:    req.ShiftType,
				Window:       req.Window,
				RoleRequired: req.RoleRequired,
				Score:        best.score,
			})
			filled[reqIdx]++
		}
	}

	for i, req := range input.Requirements {
		if filled[i] < targetSeats(req) {
			result.Unfilled++
		}
	}
	return result, nil
}

// orderRequirements returns requirement indexes in fill order: by day, then
// start time, then larger headcount and scarcer staffing pools first.
func (s *GreedySolver) orderRequirements(input Input) []int {
	idx := make([]int, 0, len(input.Requirements))
	slack := make([]int, len(input.Requirements))
	for i, req := range input.Requirements {
		if req.MinStaff <= 0 {
			continue // headcount-cap markers have nothing to fill
		}
		idx = append(idx, i)
		slack[i] = input.Index.Slack(input.Staff, req)
	}

	sort.SliceStable(idx, func(a, b int) bool {
		ra, rb := input.Requirements[idx[a]], input.Requirements[idx[b]]
		if ra.Day != rb.Day {
			return ra.Day.Order() < rb.Day.Order()
		}
		if ra.Window.Start != rb.Window.Start {
			return ra.Window.Start < rb.Window.Start
		}
		if ra.MinStaff != rb.MinStaff {
			return ra.MinStaff > rb.MinStaff
		}
		if slack[idx[a]] != slack[idx[b]] {
			return slack[idx[a]] < slack[idx[b]]
		}
		return idx[a] < idx[b]
	})
	return idx
}

// constrainedStaff marks staff with little declared availability or a forced
// weekly shift count. They are seated before flexible staff so their few
// legal slots are not taken from under them.
func (s *GreedySolver) constrainedStaff(input Input, prefs *preferences) map[uuid.UUID]bool {
	out := make(map[uuid.UUID]bool)
	for _, member := range input.Staff {
		if prefs.requiredShifts(member.ID) > 0 ||
			input.Index.AvailableHours(member.ID) < constrainedHoursThreshold {
			out[member.ID] = true
		}
	}
	return out
}

type candidate struct {
	staff *model.StaffMember
	score float64
}

// rank returns the legal candidates for a slot, best first. Ordering is
// deterministic for a nil rng; a seeded rng perturbs tie-breaking only.
func (s *GreedySolver) rank(input Input, prefs *preferences, constrained map[uuid.UUID]bool,
	req model.ShiftRequirement, reqIdx int, partial []model.Assignment, rng *rand.Rand) []candidate {

	hours := make(map[uuid.UUID]float64)
	shifts := make(map[uuid.UUID]int)
	for _, a := range partial {
		hours[a.StaffID] += a.Hours()
		shifts[a.StaffID]++
	}

	var ranked []candidate
	for i := range input.Staff {
		member := &input.Staff[i]
		if !input.Index.IsLegal(member.ID, req, partial, input.MaxHours) {
			continue
		}

		score := 0.0
		if input.PreferFairness {
			score -= hours[member.ID]
		}
		if constrained[member.ID] {
			score += 100 - float64(shifts[member.ID])*10
		}
		if shifts[member.ID] < prefs.requiredShifts(member.ID) {
			score += 25
		}
		if w := prefs.dayOffWeight(member.ID, req.Day); w >= model.CriticalWeight {
			continue // a critical day off is never overridden, even short-staffed
		} else if w > 0 {
			score -= float64(w)
		}
		if req.RoleRequired != "" && member.Role == req.RoleRequired {
			score += 4
		}
		if !req.RequiresKeys && member.HasKeys {
			score -= 2 // keep key holders free for opening slots
		}
		score += s.pairingScore(prefs, member, req, partial)
		if rng != nil {
			score += rng.Float64()
		}

		ranked = append(ranked, candidate{staff: member, score: score})
	}

	sort.SliceStable(ranked, func(a, b int) bool {
		if ranked[a].score != ranked[b].score {
			return ranked[a].score > ranked[b].score
		}
		return ranked[a].staff.ID.String() < ranked[b].staff.ID.String()
	})
	return ranked
}

// pairingScore rewards wished-for co-assignments and penalizes forbidden ones
// against the partial roster built so far.
func (s *GreedySolver) pairingScore(prefs *preferences, member *model.StaffMember,
	req model.ShiftRequirement, partial []model.Assignment) float64 {

	score := 0.0
	for _, a := range partial {
		if a.StaffID == member.ID || a.Day != req.Day || !a.Window.Overlaps(req.Window) {
			continue
		}
		if prefs.forbids(member.ID, a.StaffID) || member.AvoidsPairingWith(a.StaffID) {
			score -= 50
		}
		for _, wanted := range member.PairWith {
			if wanted == a.StaffID {
				score += 5
			}
		}
	}
	return score
}

// backtrack frees one earlier assignment that blocks an otherwise qualified
// candidate for the requirement, assigns the candidate, and queues the freed
// requirement for a refill. Reports whether a move was made.
func (s *GreedySolver) backtrack(input Input, prefs *preferences, reqIdx int,
	partial *[]model.Assignment, filled map[int]int, queue *[]int) bool {

	req := input.Requirements[reqIdx]
	for _, id := range input.Index.Eligible(input.Staff, req) {
		if prefs.dayOffWeight(id, req.Day) >= model.CriticalWeight {
			continue
		}
		blocking := -1
		for i, a := range *partial {
			if a.StaffID == id && a.Day == req.Day && a.Window.Overlaps(req.Window) {
				blocking = i
				break
			}
		}
		if blocking < 0 {
			continue // blocked by the hour cap, not by a shift we can move
		}

		victim := (*partial)[blocking]
		tentative := make([]model.Assignment, 0, len(*partial)-1)
		tentative = append(tentative, (*partial)[:blocking]...)
		tentative = append(tentative, (*partial)[blocking+1:]...)
		if !input.Index.IsLegal(id, req, tentative, input.MaxHours) {
			continue
		}

		*partial = append(tentative, model.Assignment{
			StaffID:      id,
			Requirement:  reqIdx,
			Day:          req.Day,
			ShiftType:    req.ShiftType,
			Window:       req.Window,
			RoleRequired: req.RoleRequired,
		})
		filled[reqIdx]++
		filled[victim.Requirement]--
		*queue = append(*queue, victim.Requirement)
		return true
	}
	return false
}

// targetSeats is the headcount the search aims to fill for a requirement:
// its minimum, clipped by an explicit maximum.
func targetSeats(req model.ShiftRequirement) int {
	if req.MaxStaff > 0 && req.MaxStaff < req.MinStaff {
		return req.MaxStaff
	}
	return req.MinStaff
}
