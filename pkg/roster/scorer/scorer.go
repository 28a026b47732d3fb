// Package scorer evaluates a candidate roster against the active rule set
// and produces the final scored, validated solution.
package scorer

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/venueops/roster/pkg/model"
	"github.com/venueops/roster/pkg/roster/constraint"
	"github.com/venueops/roster/pkg/stats"
)

// Options tunes an evaluation pass.
type Options struct {
	// CriticalWeight is the weight at which a violated rule invalidates the
	// whole solution.
	CriticalWeight int

	// PreferFairness enables the smooth hour-spread penalty.
	PreferFairness bool
}

// DefaultOptions returns the standard evaluation options.
func DefaultOptions() Options {
	return Options{
		CriticalWeight: model.CriticalWeight,
		PreferFairness: true,
	}
}

// Scorer is stateless; Evaluate is a pure function of its inputs and can be
// called concurrently from parallel search attempts.
type Scorer struct {
	registry *constraint.Registry
	opts     Options
}

// New creates a scorer over the given constraint registry.
func New(registry *constraint.Registry, opts Options) *Scorer {
	if opts.CriticalWeight <= 0 {
		opts.CriticalWeight = model.CriticalWeight
	}
	return &Scorer{registry: registry, opts: opts}
}

// Evaluate scores one candidate roster. Evaluating the same candidate twice
// yields the same solution.
//
// Requirement headcounts are accounted for here even when no min_coverage
// rule governs a slot: an under-staffed requirement expanded from any rule
// yields a synthesized min_coverage violation attributed to that rule, at
// that rule's weight. The roster is invalid if any violated rule's weight
// reaches the critical threshold.
func (s *Scorer) Evaluate(staff []model.StaffMember, requirements []model.ShiftRequirement, assignments []model.Assignment) *model.Solution {
	ctx := constraint.NewContext(staff, requirements, assignments)
	ctx.PreferFairness = s.opts.PreferFairness

	result := s.registry.Evaluate(ctx, s.opts.CriticalWeight)

	s.addCoverageShortfalls(ctx, result)

	solution := &model.Solution{
		Assignments: append([]model.Assignment(nil), assignments...),
		Score:       result.Score,
		Violations:  result.Violations,
		IsValid:     result.IsValid,
	}
	solution.Stats = s.buildStats(ctx)
	return solution
}

// addCoverageShortfalls synthesizes min_coverage violations for requirements
// left under the required headcount that no evaluated constraint flagged.
func (s *Scorer) addCoverageShortfalls(ctx *constraint.Context, result *constraint.Result) {
	flagged := make(map[int]bool)
	for _, v := range result.Violations {
		if v.Type != model.ConstraintMinCoverage {
			continue
		}
		for _, i := range v.AffectedRequirements {
			flagged[i] = true
		}
	}

	weights := s.ruleWeights()

	for i, req := range ctx.Requirements {
		if req.MinStaff <= 0 || flagged[i] {
			continue
		}
		actual := ctx.Headcount(i)
		if actual >= req.MinStaff {
			continue
		}

		weight, known := weights[req.SourceRule]
		if !known {
			// A demand with no traceable rule is treated as non-negotiable.
			weight = s.opts.CriticalWeight
		}

		v := model.Violation{
			RuleID:   req.SourceRule,
			Type:     model.ConstraintMinCoverage,
			Severity: model.SeverityForWeight(weight),
			Description: fmt.Sprintf("%s %s needs %d staff, has %d",
				req.Day, req.Window, req.MinStaff, actual),
			AffectedRequirements: []int{i},
			Penalty:              float64(weight),
		}
		result.Violations = append(result.Violations, v)
		result.PenaltyWeight += v.Penalty
		result.Score -= v.Penalty
		if weight >= s.opts.CriticalWeight {
			result.IsValid = false
		}
	}
}

func (s *Scorer) ruleWeights() map[uuid.UUID]int {
	weights := make(map[uuid.UUID]int, s.registry.Count())
	for _, c := range s.registry.All() {
		weights[c.RuleID()] = c.Weight()
	}
	return weights
}

func (s *Scorer) buildStats(ctx *constraint.Context) *model.SolutionStats {
	st := &model.SolutionStats{
		TotalAssignments: len(ctx.Assignments),
		StaffHours:       make(map[uuid.UUID]float64, len(ctx.Staff)),
	}
	for _, member := range ctx.Staff {
		if hours := ctx.StaffHours(member.ID); hours > 0 {
			st.StaffHours[member.ID] = hours
			st.TotalHours += hours
		}
	}
	for i, req := range ctx.Requirements {
		if req.MinStaff > 0 && ctx.Headcount(i) < req.MinStaff {
			st.UnfilledRequirements++
		}
	}
	st.FairnessScore = stats.Distribute(ctx.Assignments, ctx.Staff).FairnessScore()
	return st
}
