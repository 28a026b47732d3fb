package constraint

import (
	"sort"

	"github.com/venueops/roster/pkg/logger"
	"github.com/venueops/roster/pkg/model"
)

// Registry holds the constraints built from one active rule set, ordered by
// descending weight so the heaviest rules are evaluated and logged first.
type Registry struct {
	constraints []Constraint
	logger      *logger.SolverLogger
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{logger: logger.NewSolverLogger()}
}

// Register adds a constraint, replacing any existing one for the same rule.
func (r *Registry) Register(c Constraint) {
	for i, existing := range r.constraints {
		if existing.RuleID() == c.RuleID() {
			r.constraints[i] = c
			return
		}
	}
	r.constraints = append(r.constraints, c)
	sort.SliceStable(r.constraints, func(i, j int) bool {
		return r.constraints[i].Weight() > r.constraints[j].Weight()
	})
}

// All returns the registered constraints in evaluation order.
func (r *Registry) All() []Constraint {
	out := make([]Constraint, len(r.constraints))
	copy(out, r.constraints)
	return out
}

// Count returns the number of registered constraints.
func (r *Registry) Count() int {
	return len(r.constraints)
}

// Result aggregates a full evaluation pass.
type Result struct {
	Violations      []model.Violation
	SatisfiedWeight float64
	PenaltyWeight   float64
	Score           float64
	IsValid         bool
}

// Evaluate runs every registered constraint against the context.
// Score is the satisfied weight minus the violated weight; the solution is
// invalid if any violated rule's weight reaches criticalWeight.
func (r *Registry) Evaluate(ctx *Context, criticalWeight int) *Result {
	result := &Result{
		Violations: make([]model.Violation, 0),
		IsValid:    true,
	}

	for _, c := range r.constraints {
		outcome := c.Evaluate(ctx)
		result.SatisfiedWeight += float64(outcome.Satisfied() * c.Weight())

		for _, v := range outcome.Violations {
			result.PenaltyWeight += v.Penalty
			result.Violations = append(result.Violations, v)
			if c.Weight() >= criticalWeight {
				result.IsValid = false
			}
			r.logger.ConstraintViolation(string(c.Type()), v.Description)
		}
	}

	result.Score = result.SatisfiedWeight - result.PenaltyWeight
	return result
}
