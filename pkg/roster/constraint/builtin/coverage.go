package builtin

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/venueops/roster/pkg/model"
	"github.com/venueops/roster/pkg/roster/constraint"
)

// MinCoverageConstraint checks that every requirement derived from its rule
// reached the required headcount.
type MinCoverageConstraint struct {
	*BaseConstraint
}

// Evaluate compares actual headcount per requirement against the minimum.
func (c *MinCoverageConstraint) Evaluate(ctx *constraint.Context) constraint.Outcome {
	var outcome constraint.Outcome

	for _, i := range c.matchRequirements(ctx) {
		req := ctx.Requirements[i]
		outcome.Checked++

		actual := ctx.Headcount(i)
		if actual < req.MinStaff {
			v := c.Violation(fmt.Sprintf("%s %s needs %d staff, has %d",
				req.Day, req.Window, req.MinStaff, actual))
			v.AffectedRequirements = []int{i}
			outcome.Violations = append(outcome.Violations, v)
		}
	}
	return outcome
}

// matchRequirements resolves which requirements this rule governs: the ones it
// expanded into, or, for caller-supplied fixed sets, the ones overlapping its
// configured days and window.
func (c *MinCoverageConstraint) matchRequirements(ctx *constraint.Context) []int {
	var matched []int
	for i, req := range ctx.Requirements {
		if req.SourceRule == c.RuleID() {
			matched = append(matched, i)
		}
	}
	if len(matched) > 0 {
		return matched
	}
	return matchByDayAndWindow(c.BaseConstraint, ctx)
}

// MaxCoverageConstraint caps the distinct staff on duty within the rule's
// window on each governed day. Overlapping requirements pool their staff, so
// the cap is enforced across them, not per slot.
type MaxCoverageConstraint struct {
	*BaseConstraint
}

func (c *MaxCoverageConstraint) Evaluate(ctx *constraint.Context) constraint.Outcome {
	var outcome constraint.Outcome

	limit := c.ParamInt("max_staff", 0)
	if limit == 0 {
		// Cap may be carried on the marker requirement expanded from the rule.
		for _, req := range ctx.Requirements {
			if req.SourceRule == c.RuleID() && req.MaxStaff > 0 {
				limit = req.MaxStaff
				break
			}
		}
	}
	if limit == 0 {
		return outcome
	}

	window, hasWindow := c.ParamWindow("time_range")
	for _, day := range c.ParamDays("days") {
		outcome.Checked++

		onDuty := make(map[uuid.UUID]bool)
		for _, a := range ctx.Assignments {
			if a.Day != day {
				continue
			}
			if hasWindow && !a.Window.Overlaps(window) {
				continue
			}
			onDuty[a.StaffID] = true
		}

		if len(onDuty) > limit {
			v := c.Violation(fmt.Sprintf("%s allows %d staff on duty, has %d",
				day, limit, len(onDuty)))
			for id := range onDuty {
				v.AffectedStaff = append(v.AffectedStaff, id)
			}
			sort.Slice(v.AffectedStaff, func(i, j int) bool {
				return v.AffectedStaff[i].String() < v.AffectedStaff[j].String()
			})
			outcome.Violations = append(outcome.Violations, v)
		}
	}
	return outcome
}

// matchByDayAndWindow selects the requirements whose day is in the rule's day
// list and whose window overlaps the rule's window (absent window = any).
func matchByDayAndWindow(base *BaseConstraint, ctx *constraint.Context) []int {
	days := make(map[model.Day]bool)
	for _, d := range base.ParamDays("days") {
		days[d] = true
	}
	window, hasWindow := base.ParamWindow("time_range")

	var matched []int
	for i, req := range ctx.Requirements {
		if !days[req.Day] {
			continue
		}
		if hasWindow && !window.Overlaps(req.Window) {
			continue
		}
		matched = append(matched, i)
	}
	return matched
}
