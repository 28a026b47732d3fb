package builtin

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/venueops/roster/pkg/model"
	"github.com/venueops/roster/pkg/roster/constraint"
)

// NoDayAndNightConstraint flags staff assigned both a day-type and a
// night-type shift on the same day.
type NoDayAndNightConstraint struct {
	*BaseConstraint
}

func (c *NoDayAndNightConstraint) Evaluate(ctx *constraint.Context) constraint.Outcome {
	var outcome constraint.Outcome

	for _, staff := range ctx.Staff {
		outcome.Checked++

		byDay := make(map[model.Day][]model.Assignment)
		for _, a := range ctx.StaffAssignments(staff.ID) {
			byDay[a.Day] = append(byDay[a.Day], a)
		}

		for _, day := range model.WeekDays() {
			assignments := byDay[day]
			hasDay, hasNight := false, false
			var affected []int
			for _, a := range assignments {
				if a.ShiftType.IsDaytime() {
					hasDay = true
				}
				if a.ShiftType.IsNight() {
					hasNight = true
				}
				affected = append(affected, a.Requirement)
			}
			if hasDay && hasNight {
				v := c.Violation(fmt.Sprintf("%s works both day and night shifts on %s",
					staff.Name, day))
				v.AffectedStaff = []uuid.UUID{staff.ID}
				v.AffectedRequirements = affected
				outcome.Violations = append(outcome.Violations, v)
			}
		}
	}
	return outcome
}

// MaxConsecutiveDaysConstraint flags staff scheduled beyond the allowed
// consecutive-day run within the week.
type MaxConsecutiveDaysConstraint struct {
	*BaseConstraint
}

func (c *MaxConsecutiveDaysConstraint) Evaluate(ctx *constraint.Context) constraint.Outcome {
	var outcome constraint.Outcome
	maxDays := c.ParamInt("max_days", 5)

	for _, staff := range scopedStaff(c.BaseConstraint, ctx) {
		outcome.Checked++

		worked := make(map[model.Day]bool)
		for _, d := range ctx.WorkedDays(staff.ID) {
			worked[d] = true
		}

		run, longest := 0, 0
		for _, day := range model.WeekDays() {
			if worked[day] {
				run++
				if run > longest {
					longest = run
				}
			} else {
				run = 0
			}
		}

		if longest > maxDays {
			v := c.Violation(fmt.Sprintf("%s works %d consecutive days, limit is %d",
				staff.Name, longest, maxDays))
			v.AffectedStaff = []uuid.UUID{staff.ID}
			outcome.Violations = append(outcome.Violations, v)
		}
	}
	return outcome
}
