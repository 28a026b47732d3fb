package builtin

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/venueops/roster/pkg/model"
	"github.com/venueops/roster/pkg/roster/constraint"
)

// StaffPairingConstraint governs a pair of staff members: mode "forbid" flags
// co-assignment on overlapping shifts, mode "require" flags a pair member
// working a shift without the other present.
type StaffPairingConstraint struct {
	*BaseConstraint
}

func (c *StaffPairingConstraint) Evaluate(ctx *constraint.Context) constraint.Outcome {
	outcome := constraint.Outcome{Checked: 1}

	first := c.ParamStaffID("staff_a")
	second := c.ParamStaffID("staff_b")
	a, b := ctx.StaffByID(first), ctx.StaffByID(second)
	if a == nil || b == nil {
		return outcome
	}

	switch c.ParamString("mode", "forbid") {
	case "require":
		outcome.Violations = c.checkRequired(ctx, a, b)
	default:
		outcome.Violations = c.checkForbidden(ctx, a, b)
	}
	return outcome
}

// checkForbidden flags each overlapping co-assignment of the pair.
func (c *StaffPairingConstraint) checkForbidden(ctx *constraint.Context, a, b *model.StaffMember) []model.Violation {
	var violations []model.Violation
	for _, first := range ctx.StaffAssignments(a.ID) {
		for _, second := range ctx.StaffAssignments(b.ID) {
			if first.OverlapsWith(second) {
				v := c.Violation(fmt.Sprintf("%s and %s share overlapping shifts on %s but must not be paired",
					a.Name, b.Name, first.Day))
				v.AffectedStaff = []uuid.UUID{a.ID, b.ID}
				v.AffectedRequirements = []int{first.Requirement, second.Requirement}
				violations = append(violations, v)
			}
		}
	}
	return violations
}

// checkRequired flags each assignment of either member with no overlapping
// assignment of the other.
func (c *StaffPairingConstraint) checkRequired(ctx *constraint.Context, a, b *model.StaffMember) []model.Violation {
	var violations []model.Violation
	violations = append(violations, c.unaccompanied(ctx, a, b)...)
	violations = append(violations, c.unaccompanied(ctx, b, a)...)
	return violations
}

func (c *StaffPairingConstraint) unaccompanied(ctx *constraint.Context, member, partner *model.StaffMember) []model.Violation {
	var violations []model.Violation
	for _, shift := range ctx.StaffAssignments(member.ID) {
		covered := false
		for _, other := range ctx.StaffAssignments(partner.ID) {
			if shift.OverlapsWith(other) {
				covered = true
				break
			}
		}
		if !covered {
			v := c.Violation(fmt.Sprintf("%s works %s %s without required partner %s",
				member.Name, shift.Day, shift.Window, partner.Name))
			v.AffectedStaff = []uuid.UUID{member.ID}
			v.AffectedRequirements = []int{shift.Requirement}
			violations = append(violations, v)
		}
	}
	return violations
}
