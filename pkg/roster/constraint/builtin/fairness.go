package builtin

import (
	"fmt"

	"github.com/venueops/roster/pkg/roster/constraint"
	"github.com/venueops/roster/pkg/stats"
)

// FairnessConstraint penalizes uneven hour distribution across staff. Unlike
// the pass/fail rules this contributes a smoothly scaled penalty proportional
// to the spread of assigned hours relative to an even split; it is only
// evaluated when the request asks for fairness.
type FairnessConstraint struct {
	*BaseConstraint
}

func (c *FairnessConstraint) Evaluate(ctx *constraint.Context) constraint.Outcome {
	outcome := constraint.Outcome{Checked: 1}
	if !ctx.PreferFairness || len(ctx.Staff) == 0 {
		return outcome
	}

	dist := stats.Distribute(ctx.Assignments, ctx.Staff)
	factor := dist.ImbalancePenalty()
	if factor <= 0 {
		return outcome
	}

	v := c.Violation(fmt.Sprintf("uneven hour distribution: %.1fh to %.1fh (avg %.1fh)",
		dist.Min, dist.Max, dist.Mean))
	v.Penalty = float64(c.Weight()) * factor
	outcome.Violations = append(outcome.Violations, v)
	return outcome
}
