package builtin

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/venueops/roster/pkg/model"
	"github.com/venueops/roster/pkg/roster/constraint"
)

// DayOffConstraint flags assignments on a staff member's mandated day off.
type DayOffConstraint struct {
	*BaseConstraint
}

func (c *DayOffConstraint) Evaluate(ctx *constraint.Context) constraint.Outcome {
	var outcome constraint.Outcome
	day := model.Day(c.ParamString("day", ""))

	for _, staff := range scopedStaff(c.BaseConstraint, ctx) {
		outcome.Checked++

		var affected []int
		for _, a := range ctx.StaffAssignments(staff.ID) {
			if a.Day == day {
				affected = append(affected, a.Requirement)
			}
		}
		if len(affected) > 0 {
			v := c.Violation(fmt.Sprintf("%s is rostered on %s, their day off",
				staff.Name, day))
			v.AffectedStaff = []uuid.UUID{staff.ID}
			v.AffectedRequirements = affected
			outcome.Violations = append(outcome.Violations, v)
		}
	}
	return outcome
}

// WeeklyFrequencyConstraint flags staff scheduled fewer or more times than a
// required weekly shift count.
type WeeklyFrequencyConstraint struct {
	*BaseConstraint
}

func (c *WeeklyFrequencyConstraint) Evaluate(ctx *constraint.Context) constraint.Outcome {
	var outcome constraint.Outcome
	minShifts := c.ParamInt("min_shifts", 1)
	maxShifts := c.ParamInt("max_shifts", 0) // 0 = unbounded

	for _, staff := range scopedStaff(c.BaseConstraint, ctx) {
		outcome.Checked++
		count := len(ctx.StaffAssignments(staff.ID))

		switch {
		case count < minShifts:
			v := c.Violation(fmt.Sprintf("%s has %d shifts this week, requires %d",
				staff.Name, count, minShifts))
			v.AffectedStaff = []uuid.UUID{staff.ID}
			outcome.Violations = append(outcome.Violations, v)
		case maxShifts > 0 && count > maxShifts:
			v := c.Violation(fmt.Sprintf("%s has %d shifts this week, limit is %d",
				staff.Name, count, maxShifts))
			v.AffectedStaff = []uuid.UUID{staff.ID}
			outcome.Violations = append(outcome.Violations, v)
		}
	}
	return outcome
}
