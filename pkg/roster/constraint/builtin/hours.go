package builtin

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/venueops/roster/pkg/model"
	"github.com/venueops/roster/pkg/roster/constraint"
)

// MinHoursConstraint flags staff whose weekly total falls below the bound.
// A staff_id parameter scopes the rule to one person; absent, it covers all.
type MinHoursConstraint struct {
	*BaseConstraint
}

func (c *MinHoursConstraint) Evaluate(ctx *constraint.Context) constraint.Outcome {
	var outcome constraint.Outcome
	minHours := c.ParamFloat("min_hours", 0)

	for _, staff := range scopedStaff(c.BaseConstraint, ctx) {
		outcome.Checked++
		hours := ctx.StaffHours(staff.ID)
		if hours < minHours {
			v := c.Violation(fmt.Sprintf("%s has %.1fh, requires %.1fh minimum",
				staff.Name, hours, minHours))
			v.AffectedStaff = []uuid.UUID{staff.ID}
			outcome.Violations = append(outcome.Violations, v)
		}
	}
	return outcome
}

// MaxHoursConstraint flags staff whose weekly total exceeds the bound.
type MaxHoursConstraint struct {
	*BaseConstraint
}

func (c *MaxHoursConstraint) Evaluate(ctx *constraint.Context) constraint.Outcome {
	var outcome constraint.Outcome
	maxHours := c.ParamFloat("max_hours", 40)

	for _, staff := range scopedStaff(c.BaseConstraint, ctx) {
		outcome.Checked++
		hours := ctx.StaffHours(staff.ID)
		if hours > maxHours {
			v := c.Violation(fmt.Sprintf("%s has %.1fh, exceeds %.1fh maximum",
				staff.Name, hours, maxHours))
			v.AffectedStaff = []uuid.UUID{staff.ID}
			outcome.Violations = append(outcome.Violations, v)
		}
	}
	return outcome
}

// scopedStaff resolves the staff a per-person rule applies to, by staff_id or
// by staff_name (rule authors often only know the name).
func scopedStaff(base *BaseConstraint, ctx *constraint.Context) []model.StaffMember {
	if id := base.ParamStaffID("staff_id"); id != uuid.Nil {
		if s := ctx.StaffByID(id); s != nil {
			return []model.StaffMember{*s}
		}
		return nil
	}
	if name := base.ParamString("staff_name", ""); name != "" {
		for _, s := range ctx.Staff {
			if s.Name == name {
				return []model.StaffMember{s}
			}
		}
		return nil
	}
	return ctx.Staff
}
