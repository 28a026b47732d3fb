package model

import (
	"github.com/google/uuid"
)

// ShiftType classifies a shift slot by its place in the trading day.
type ShiftType string

const (
	ShiftOpening ShiftType = "opening"
	ShiftDay     ShiftType = "day"
	ShiftEvening ShiftType = "evening"
	ShiftClosing ShiftType = "closing"
	ShiftNight   ShiftType = "night"
)

// IsNight reports whether the shift type counts as a night shift for the
// no_day_and_night rule. Closing shifts run into the night and count too.
func (t ShiftType) IsNight() bool {
	return t == ShiftNight || t == ShiftClosing
}

// IsDaytime reports whether the shift type counts as a day shift.
func (t ShiftType) IsDaytime() bool {
	return t == ShiftOpening || t == ShiftDay
}

// ShiftRequirement is one concrete slot to be staffed. Requirements are derived
// from coverage-type rules for a generation run and are not persisted; the same
// rule set and week always expands to the same requirement list.
type ShiftRequirement struct {
	Day           Day       `json:"day_of_week"`
	ShiftType     ShiftType `json:"shift_type"`
	Window        Window    `json:"window"`
	MinStaff      int       `json:"min_staff"`
	MaxStaff      int       `json:"max_staff,omitempty"` // 0 = unbounded
	RoleRequired  string    `json:"role_required,omitempty"`
	SkillRequired string    `json:"skill_required,omitempty"`
	RequiresKeys  bool      `json:"requires_keys,omitempty"`
	SourceRule    uuid.UUID `json:"source_rule,omitempty"`
}

// Hours returns the slot length in fractional hours.
func (r ShiftRequirement) Hours() float64 {
	return r.Window.Hours()
}

// Assignment binds one staff member to one shift requirement within a
// candidate solution. Requirement is the index into the run's requirement
// list; slot details are denormalized so a Solution is self-contained.
type Assignment struct {
	StaffID      uuid.UUID `json:"staff_id"`
	Requirement  int       `json:"requirement"`
	Day          Day       `json:"day_of_week"`
	ShiftType    ShiftType `json:"shift_type"`
	Window       Window    `json:"window"`
	RoleRequired string    `json:"role_required,omitempty"`
	Score        float64   `json:"score"` // local heuristic score, for explainability
}

// Hours returns the assignment length in fractional hours.
func (a Assignment) Hours() float64 {
	return a.Window.Hours()
}

// OverlapsWith reports whether two assignments collide in time for one person.
func (a Assignment) OverlapsWith(other Assignment) bool {
	return a.Day == other.Day && a.Window.Overlaps(other.Window)
}
