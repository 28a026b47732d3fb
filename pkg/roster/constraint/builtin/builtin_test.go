package builtin

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/venueops/roster/pkg/errors"
	"github.com/venueops/roster/pkg/model"
	"github.com/venueops/roster/pkg/roster/constraint"
)

func newRule(t model.ConstraintType, weight int, params map[string]any) model.Rule {
	return model.Rule{ID: uuid.New(), Type: t, Parameters: params, Weight: weight, IsActive: true}
}

func win(startHour, endHour int) model.Window {
	return model.Window{Start: model.ClockTime(startHour * 60), End: model.ClockTime(endHour * 60)}
}

func assign(staffID uuid.UUID, reqIdx int, day model.Day, shiftType model.ShiftType, startHour, endHour int) model.Assignment {
	return model.Assignment{
		StaffID:     staffID,
		Requirement: reqIdx,
		Day:         day,
		ShiftType:   shiftType,
		Window:      win(startHour, endHour),
	}
}

func evaluate(t *testing.T, rule model.Rule, ctx *constraint.Context) constraint.Outcome {
	t.Helper()
	c, err := FromRule(rule)
	require.NoError(t, err)
	return c.Evaluate(ctx)
}

func TestFactoryRejectsUnknownType(t *testing.T) {
	_, err := FromRule(newRule("teleportation", 100, nil))
	require.Error(t, err)
	assert.Equal(t, errors.CodeUnknownRule, errors.GetCode(err))
}

func TestFactoryRejectsNonPositiveWeight(t *testing.T) {
	_, err := FromRule(newRule(model.ConstraintMinCoverage, 0, nil))
	require.Error(t, err)
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
}

func TestMinCoverageBySourceRule(t *testing.T) {
	rule := newRule(model.ConstraintMinCoverage, 100, map[string]any{"min_staff": 2})
	reqs := []model.ShiftRequirement{
		{Day: model.Monday, Window: win(12, 18), MinStaff: 2, SourceRule: rule.ID},
		{Day: model.Tuesday, Window: win(12, 18), MinStaff: 2, SourceRule: rule.ID},
	}
	a, b := uuid.New(), uuid.New()
	ctx := constraint.NewContext(nil, reqs, []model.Assignment{
		assign(a, 0, model.Monday, model.ShiftDay, 12, 18),
		assign(b, 0, model.Monday, model.ShiftDay, 12, 18),
		assign(a, 1, model.Tuesday, model.ShiftDay, 12, 18),
	})

	outcome := evaluate(t, rule, ctx)
	assert.Equal(t, 2, outcome.Checked)
	require.Len(t, outcome.Violations, 1)
	assert.Equal(t, []int{1}, outcome.Violations[0].AffectedRequirements)
	assert.Equal(t, model.SeverityCritical, outcome.Violations[0].Severity)
	assert.Equal(t, 100.0, outcome.Violations[0].Penalty)
}

func TestMinCoverageFallbackMatching(t *testing.T) {
	// Caller-supplied requirement set with no source rule linkage: the rule
	// matches by day and overlapping window instead.
	rule := newRule(model.ConstraintMinCoverage, 100, map[string]any{
		"days":       []string{"Monday"},
		"time_range": map[string]any{"start": "12:00", "end": "18:00"},
	})
	reqs := []model.ShiftRequirement{
		{Day: model.Monday, Window: win(12, 18), MinStaff: 1},
		{Day: model.Sunday, Window: win(12, 18), MinStaff: 1},
	}
	ctx := constraint.NewContext(nil, reqs, nil)

	outcome := evaluate(t, rule, ctx)
	assert.Equal(t, 1, outcome.Checked, "only the Monday requirement is governed")
	assert.Len(t, outcome.Violations, 1)
}

func TestMaxCoverageCapsConcurrentStaff(t *testing.T) {
	rule := newRule(model.ConstraintMaxCoverage, 80, map[string]any{
		"days":       []string{"Monday"},
		"time_range": map[string]any{"start": "12:00", "end": "18:00"},
		"max_staff":  2,
	})
	staff := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	var assignments []model.Assignment
	for i, id := range staff {
		assignments = append(assignments, assign(id, i, model.Monday, model.ShiftDay, 12, 18))
	}
	ctx := constraint.NewContext(nil, nil, assignments)

	outcome := evaluate(t, rule, ctx)
	require.Len(t, outcome.Violations, 1)
	assert.Len(t, outcome.Violations[0].AffectedStaff, 3)

	// Two concurrent staff sit exactly at the cap.
	ctx2 := constraint.NewContext(nil, nil, assignments[:2])
	assert.Empty(t, evaluate(t, rule, ctx2).Violations)
}

func TestHourBounds(t *testing.T) {
	staff := []model.StaffMember{
		{ID: uuid.New(), Name: "Alex"},
		{ID: uuid.New(), Name: "Sam"},
	}
	assignments := []model.Assignment{
		assign(staff[0].ID, 0, model.Monday, model.ShiftDay, 9, 21),    // 12h
		assign(staff[0].ID, 1, model.Tuesday, model.ShiftDay, 9, 21),   // 12h
		assign(staff[0].ID, 2, model.Wednesday, model.ShiftDay, 9, 21), // 12h
		assign(staff[1].ID, 3, model.Monday, model.ShiftDay, 12, 16),   // 4h
	}
	ctx := constraint.NewContext(staff, nil, assignments)

	over := evaluate(t, newRule(model.ConstraintMaxHours, 100, map[string]any{"max_hours": 30}), ctx)
	require.Len(t, over.Violations, 1)
	assert.Equal(t, []uuid.UUID{staff[0].ID}, over.Violations[0].AffectedStaff)

	under := evaluate(t, newRule(model.ConstraintMinHours, 60, map[string]any{"min_hours": 8}), ctx)
	require.Len(t, under.Violations, 1)
	assert.Equal(t, []uuid.UUID{staff[1].ID}, under.Violations[0].AffectedStaff)

	scoped := evaluate(t, newRule(model.ConstraintMinHours, 60, map[string]any{
		"min_hours": 8, "staff_name": "Alex",
	}), ctx)
	assert.Equal(t, 1, scoped.Checked)
	assert.Empty(t, scoped.Violations)
}

func TestNoDayAndNight(t *testing.T) {
	id := uuid.New()
	staff := []model.StaffMember{{ID: id, Name: "Kim"}}
	ctx := constraint.NewContext(staff, nil, []model.Assignment{
		assign(id, 0, model.Monday, model.ShiftOpening, 8, 13),
		assign(id, 1, model.Monday, model.ShiftNight, 18, 24),
	})

	outcome := evaluate(t, newRule(model.ConstraintNoDayAndNight, 100, nil), ctx)
	require.Len(t, outcome.Violations, 1)
	assert.ElementsMatch(t, []int{0, 1}, outcome.Violations[0].AffectedRequirements)

	// Same combination on different days is fine.
	ctx2 := constraint.NewContext(staff, nil, []model.Assignment{
		assign(id, 0, model.Monday, model.ShiftOpening, 8, 13),
		assign(id, 1, model.Tuesday, model.ShiftNight, 18, 24),
	})
	assert.Empty(t, evaluate(t, newRule(model.ConstraintNoDayAndNight, 100, nil), ctx2).Violations)
}

func TestMaxConsecutiveDays(t *testing.T) {
	id := uuid.New()
	staff := []model.StaffMember{{ID: id, Name: "Noor"}}
	days := []model.Day{model.Monday, model.Tuesday, model.Wednesday, model.Thursday, model.Friday, model.Saturday}
	var assignments []model.Assignment
	for i, d := range days {
		assignments = append(assignments, assign(id, i, d, model.ShiftDay, 12, 18))
	}
	ctx := constraint.NewContext(staff, nil, assignments)

	outcome := evaluate(t, newRule(model.ConstraintMaxConsecutiveDays, 90, map[string]any{"max_days": 5}), ctx)
	require.Len(t, outcome.Violations, 1)

	// A rest day in the middle breaks the run.
	withRest := append(append([]model.Assignment{}, assignments[:3]...), assignments[4:]...)
	ctx2 := constraint.NewContext(staff, nil, withRest)
	assert.Empty(t, evaluate(t, newRule(model.ConstraintMaxConsecutiveDays, 90, map[string]any{"max_days": 5}), ctx2).Violations)
}

func TestDayOff(t *testing.T) {
	id := uuid.New()
	staff := []model.StaffMember{{ID: id, Name: "Rio"}}
	ctx := constraint.NewContext(staff, nil, []model.Assignment{
		assign(id, 2, model.Sunday, model.ShiftDay, 12, 18),
	})

	rule := newRule(model.ConstraintDayOff, 95, map[string]any{
		"day": "Sunday", "staff_id": id.String(),
	})
	outcome := evaluate(t, rule, ctx)
	require.Len(t, outcome.Violations, 1)
	assert.Equal(t, []int{2}, outcome.Violations[0].AffectedRequirements)

	offDay := newRule(model.ConstraintDayOff, 95, map[string]any{
		"day": "Saturday", "staff_id": id.String(),
	})
	assert.Empty(t, evaluate(t, offDay, ctx).Violations)
}

func TestWeeklyFrequency(t *testing.T) {
	id := uuid.New()
	staff := []model.StaffMember{{ID: id, Name: "Pat"}}

	empty := constraint.NewContext(staff, nil, nil)
	rule := newRule(model.ConstraintWeeklyFrequency, 85, map[string]any{
		"staff_id": id.String(), "min_shifts": 2,
	})
	require.Len(t, evaluate(t, rule, empty).Violations, 1)

	two := constraint.NewContext(staff, nil, []model.Assignment{
		assign(id, 0, model.Monday, model.ShiftDay, 12, 18),
		assign(id, 1, model.Thursday, model.ShiftDay, 12, 18),
	})
	assert.Empty(t, evaluate(t, rule, two).Violations)

	capped := newRule(model.ConstraintWeeklyFrequency, 85, map[string]any{
		"staff_id": id.String(), "max_shifts": 1,
	})
	require.Len(t, evaluate(t, capped, two).Violations, 1)
}

func TestStaffPairingForbid(t *testing.T) {
	a := model.StaffMember{ID: uuid.New(), Name: "Ana"}
	b := model.StaffMember{ID: uuid.New(), Name: "Ben"}
	staff := []model.StaffMember{a, b}

	rule := newRule(model.ConstraintStaffPairing, 100, map[string]any{
		"staff_a": a.ID.String(), "staff_b": b.ID.String(),
	})

	together := constraint.NewContext(staff, nil, []model.Assignment{
		assign(a.ID, 0, model.Monday, model.ShiftDay, 12, 18),
		assign(b.ID, 0, model.Monday, model.ShiftDay, 12, 18),
	})
	outcome := evaluate(t, rule, together)
	require.Len(t, outcome.Violations, 1)
	assert.ElementsMatch(t, []uuid.UUID{a.ID, b.ID}, outcome.Violations[0].AffectedStaff)

	apart := constraint.NewContext(staff, nil, []model.Assignment{
		assign(a.ID, 0, model.Monday, model.ShiftDay, 12, 18),
		assign(b.ID, 1, model.Tuesday, model.ShiftDay, 12, 18),
	})
	assert.Empty(t, evaluate(t, rule, apart).Violations)
}

func TestStaffPairingRequire(t *testing.T) {
	a := model.StaffMember{ID: uuid.New(), Name: "Ana"}
	b := model.StaffMember{ID: uuid.New(), Name: "Ben"}
	staff := []model.StaffMember{a, b}

	rule := newRule(model.ConstraintStaffPairing, 70, map[string]any{
		"staff_a": a.ID.String(), "staff_b": b.ID.String(), "mode": "require",
	})

	alone := constraint.NewContext(staff, nil, []model.Assignment{
		assign(a.ID, 0, model.Monday, model.ShiftDay, 12, 18),
	})
	require.Len(t, evaluate(t, rule, alone).Violations, 1)

	together := constraint.NewContext(staff, nil, []model.Assignment{
		assign(a.ID, 0, model.Monday, model.ShiftDay, 12, 18),
		assign(b.ID, 0, model.Monday, model.ShiftDay, 12, 18),
	})
	assert.Empty(t, evaluate(t, rule, together).Violations)
}

func TestFairnessOnlyWhenPreferred(t *testing.T) {
	a := model.StaffMember{ID: uuid.New(), Name: "Ana"}
	b := model.StaffMember{ID: uuid.New(), Name: "Ben"}
	staff := []model.StaffMember{a, b}
	uneven := []model.Assignment{
		assign(a.ID, 0, model.Monday, model.ShiftDay, 9, 21),
		assign(a.ID, 1, model.Tuesday, model.ShiftDay, 9, 21),
	}
	rule := newRule(model.ConstraintFairness, 60, nil)

	off := constraint.NewContext(staff, nil, uneven)
	assert.Empty(t, evaluate(t, rule, off).Violations)

	on := constraint.NewContext(staff, nil, uneven)
	on.PreferFairness = true
	outcome := evaluate(t, rule, on)
	require.Len(t, outcome.Violations, 1)
	assert.Equal(t, 60.0, outcome.Violations[0].Penalty,
		"one person holding all hours costs the full weight")
}

func TestExpandedRulesAlwaysPass(t *testing.T) {
	for _, typ := range []model.ConstraintType{
		model.ConstraintOpeningTime, model.ConstraintMinShiftLength,
		model.ConstraintRequiredRole, model.ConstraintRequiredSkill,
	} {
		outcome := evaluate(t, newRule(typ, 100, nil), constraint.NewContext(nil, nil, nil))
		assert.Equal(t, 1, outcome.Checked, string(typ))
		assert.Empty(t, outcome.Violations, string(typ))
	}
}

func TestRegistryEvaluateScoring(t *testing.T) {
	id := uuid.New()
	staff := []model.StaffMember{{ID: id, Name: "Solo"}}

	critical := newRule(model.ConstraintMaxHours, 100, map[string]any{"max_hours": 10})
	soft := newRule(model.ConstraintMinHours, 40, map[string]any{"min_hours": 50})

	registry, err := FromRules([]model.Rule{critical, soft})
	require.NoError(t, err)
	assert.Equal(t, 2, registry.Count())

	ctx := constraint.NewContext(staff, nil, []model.Assignment{
		assign(id, 0, model.Monday, model.ShiftDay, 9, 21),
		assign(id, 1, model.Tuesday, model.ShiftDay, 9, 21),
	})
	result := registry.Evaluate(ctx, model.CriticalWeight)

	assert.False(t, result.IsValid, "24h against a 10h critical cap")
	assert.Len(t, result.Violations, 2)
	assert.Equal(t, -140.0, result.Score, "both rules violated, nothing satisfied")
}

func TestRegistryEvaluateValidSolution(t *testing.T) {
	id := uuid.New()
	staff := []model.StaffMember{{ID: id, Name: "Solo"}}

	registry, err := FromRules([]model.Rule{
		newRule(model.ConstraintMaxHours, 100, map[string]any{"max_hours": 40}),
		newRule(model.ConstraintNoDayAndNight, 90, nil),
	})
	require.NoError(t, err)

	ctx := constraint.NewContext(staff, nil, []model.Assignment{
		assign(id, 0, model.Monday, model.ShiftDay, 12, 18),
	})
	result := registry.Evaluate(ctx, model.CriticalWeight)

	assert.True(t, result.IsValid)
	assert.Empty(t, result.Violations)
	assert.Equal(t, 190.0, result.Score, "every checked instance satisfied")
}
