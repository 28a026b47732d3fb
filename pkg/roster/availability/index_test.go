package availability

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/venueops/roster/pkg/model"
)

func window(startHour, endHour int) model.Window {
	return model.Window{Start: model.ClockTime(startHour * 60), End: model.ClockTime(endHour * 60)}
}

func requirement(day model.Day, startHour, endHour int) model.ShiftRequirement {
	return model.ShiftRequirement{Day: day, Window: window(startHour, endHour), MinStaff: 1}
}

func TestDefaultAvailability(t *testing.T) {
	member := model.StaffMember{ID: uuid.New(), Name: "Alex"}
	idx := NewIndex([]model.StaffMember{member}, nil)

	assert.True(t, idx.IsLegal(member.ID, requirement(model.Monday, 9, 17), nil, 40),
		"no declaration means the default trading-day window")
	assert.False(t, idx.IsLegal(member.ID, requirement(model.Monday, 7, 12), nil, 40),
		"default window starts at 09:00")
}

func TestDeclaredWindows(t *testing.T) {
	member := model.StaffMember{ID: uuid.New(), Name: "Sam"}
	decls := []model.Availability{
		{StaffID: member.ID, Day: model.Monday, Windows: []model.Window{window(9, 14)}},
		{StaffID: member.ID, Day: model.Tuesday, Unavailable: true},
	}
	idx := NewIndex([]model.StaffMember{member}, decls)

	assert.True(t, idx.IsLegal(member.ID, requirement(model.Monday, 9, 13), nil, 40))
	assert.False(t, idx.IsLegal(member.ID, requirement(model.Monday, 12, 18), nil, 40),
		"slot must fit inside a declared window")
	assert.False(t, idx.IsLegal(member.ID, requirement(model.Tuesday, 9, 13), nil, 40),
		"explicit unavailability closes the whole day")
	assert.True(t, idx.IsLegal(member.ID, requirement(model.Wednesday, 9, 17), nil, 40),
		"undeclared days fall back to the default window")
}

func TestOverlapRejected(t *testing.T) {
	member := model.StaffMember{ID: uuid.New(), Name: "Kim"}
	idx := NewIndex([]model.StaffMember{member}, nil)

	partial := []model.Assignment{{
		StaffID: member.ID, Day: model.Monday, Window: window(12, 18),
	}}

	assert.False(t, idx.IsLegal(member.ID, requirement(model.Monday, 16, 22), partial, 40))
	assert.True(t, idx.IsLegal(member.ID, requirement(model.Monday, 18, 22), partial, 40),
		"back-to-back shifts do not overlap")
	assert.True(t, idx.IsLegal(member.ID, requirement(model.Tuesday, 12, 18), partial, 40))
}

func TestHourCaps(t *testing.T) {
	member := model.StaffMember{ID: uuid.New(), Name: "Noor", MaxHoursPerWeek: 10}
	idx := NewIndex([]model.StaffMember{member}, nil)

	partial := []model.Assignment{{
		StaffID: member.ID, Day: model.Monday, Window: window(9, 17), // 8h
	}}

	assert.False(t, idx.IsLegal(member.ID, requirement(model.Tuesday, 9, 13), partial, 40),
		"personal 10h cap beats the request cap")
	assert.True(t, idx.IsLegal(member.ID, requirement(model.Tuesday, 9, 11), partial, 40))

	flexible := model.StaffMember{ID: uuid.New(), Name: "Ola"}
	idx2 := NewIndex([]model.StaffMember{flexible}, nil)
	long := []model.Assignment{
		{StaffID: flexible.ID, Day: model.Monday, Window: window(9, 21)},    // 12h
		{StaffID: flexible.ID, Day: model.Tuesday, Window: window(9, 21)},   // 12h
		{StaffID: flexible.ID, Day: model.Wednesday, Window: window(9, 21)}, // 12h
	}
	assert.False(t, idx2.IsLegal(flexible.ID, requirement(model.Thursday, 9, 17), long, 40),
		"request-level cap of 40h rejects a 44h week")
}

func TestQualifications(t *testing.T) {
	member := model.StaffMember{
		ID: uuid.New(), Name: "Rio",
		Role: "cafe", Roles: []string{"cafe"},
		Skills: []string{"barista"},
	}
	idx := NewIndex([]model.StaffMember{member}, nil)

	req := requirement(model.Monday, 12, 18)

	req.RoleRequired = "floor"
	assert.False(t, idx.IsLegal(member.ID, req, nil, 40))
	req.RoleRequired = "cafe"
	assert.True(t, idx.IsLegal(member.ID, req, nil, 40))

	req.SkillRequired = "sommelier"
	assert.False(t, idx.IsLegal(member.ID, req, nil, 40))
	req.SkillRequired = "barista"
	assert.True(t, idx.IsLegal(member.ID, req, nil, 40))

	req.RequiresKeys = true
	assert.False(t, idx.IsLegal(member.ID, req, nil, 40))
}

func TestUnknownStaff(t *testing.T) {
	idx := NewIndex(nil, nil)
	assert.False(t, idx.IsLegal(uuid.New(), requirement(model.Monday, 9, 17), nil, 40))
	assert.Empty(t, idx.WindowsFor(uuid.New(), model.Monday))
}

func TestEligibleAndSlack(t *testing.T) {
	keyed := model.StaffMember{ID: uuid.New(), Name: "keyed", HasKeys: true}
	plain := model.StaffMember{ID: uuid.New(), Name: "plain"}
	staff := []model.StaffMember{keyed, plain}
	idx := NewIndex(staff, nil)

	open := requirement(model.Monday, 9, 14)
	open.RequiresKeys = true

	assert.Equal(t, []uuid.UUID{keyed.ID}, idx.Eligible(staff, open))
	assert.Equal(t, 1, idx.Slack(staff, open))
	assert.Equal(t, 2, idx.Slack(staff, requirement(model.Monday, 9, 14)))
}

func TestAvailableHours(t *testing.T) {
	member := model.StaffMember{ID: uuid.New(), Name: "Pat"}
	decls := []model.Availability{
		{StaffID: member.ID, Day: model.Monday, Windows: []model.Window{window(9, 13)}},
		{StaffID: member.ID, Day: model.Tuesday, Unavailable: true},
		{StaffID: member.ID, Day: model.Wednesday, Unavailable: true},
		{StaffID: member.ID, Day: model.Thursday, Unavailable: true},
		{StaffID: member.ID, Day: model.Friday, Unavailable: true},
		{StaffID: member.ID, Day: model.Saturday, Unavailable: true},
		{StaffID: member.ID, Day: model.Sunday, Unavailable: true},
	}
	idx := NewIndex([]model.StaffMember{member}, decls)
	assert.Equal(t, 4.0, idx.AvailableHours(member.ID))

	open := model.StaffMember{ID: uuid.New(), Name: "Open"}
	idx2 := NewIndex([]model.StaffMember{open}, nil)
	assert.Equal(t, 98.0, idx2.AvailableHours(open.ID), "default 14h window on all seven days")
}
