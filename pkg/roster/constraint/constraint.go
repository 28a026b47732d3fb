// Package constraint defines the rule evaluation interface and registry.
package constraint

import (
	"github.com/google/uuid"

	"github.com/venueops/roster/pkg/model"
)

// Constraint evaluates one active rule against a full-week assignment set.
// One implementation exists per constraint type; the builtin package holds
// them and the factory that builds one from a model.Rule.
type Constraint interface {
	// RuleID returns the id of the rule this constraint was built from.
	RuleID() uuid.UUID

	// Type returns the constraint type.
	Type() model.ConstraintType

	// Weight returns the rule weight (> 0, higher = more important).
	Weight() int

	// Evaluate checks the rule against the context. Checked is the number of
	// rule instances considered (requirements, staff, pairs); each failed
	// instance yields one violation.
	Evaluate(ctx *Context) Outcome
}

// Outcome is the result of evaluating a single constraint.
type Outcome struct {
	Checked    int
	Violations []model.Violation
}

// Satisfied returns the number of instances that passed.
func (o Outcome) Satisfied() int {
	n := o.Checked - len(o.Violations)
	if n < 0 {
		return 0
	}
	return n
}

// Context carries the immutable inputs and the candidate assignment set for
// one evaluation pass, with indexes so constraints stay cheap to evaluate.
type Context struct {
	Staff          []model.StaffMember
	Requirements   []model.ShiftRequirement
	Assignments    []model.Assignment
	PreferFairness bool

	staffByID          map[uuid.UUID]*model.StaffMember
	assignmentsByStaff map[uuid.UUID][]model.Assignment
	headcounts         []int
}

// NewContext builds an evaluation context and its indexes.
func NewContext(staff []model.StaffMember, requirements []model.ShiftRequirement, assignments []model.Assignment) *Context {
	ctx := &Context{
		Staff:              staff,
		Requirements:       requirements,
		Assignments:        assignments,
		staffByID:          make(map[uuid.UUID]*model.StaffMember, len(staff)),
		assignmentsByStaff: make(map[uuid.UUID][]model.Assignment),
		headcounts:         make([]int, len(requirements)),
	}
	for i := range staff {
		ctx.staffByID[staff[i].ID] = &staff[i]
	}
	for _, a := range assignments {
		ctx.assignmentsByStaff[a.StaffID] = append(ctx.assignmentsByStaff[a.StaffID], a)
		if a.Requirement >= 0 && a.Requirement < len(ctx.headcounts) {
			ctx.headcounts[a.Requirement]++
		}
	}
	return ctx
}

// Staff returns a staff member by id, or nil.
func (c *Context) StaffByID(id uuid.UUID) *model.StaffMember {
	return c.staffByID[id]
}

// StaffAssignments returns all assignments of one staff member.
func (c *Context) StaffAssignments(id uuid.UUID) []model.Assignment {
	return c.assignmentsByStaff[id]
}

// Headcount returns how many staff are assigned to a requirement.
func (c *Context) Headcount(requirement int) int {
	if requirement < 0 || requirement >= len(c.headcounts) {
		return 0
	}
	return c.headcounts[requirement]
}

// StaffHours returns the total assigned hours of one staff member.
func (c *Context) StaffHours(id uuid.UUID) float64 {
	var hours float64
	for _, a := range c.assignmentsByStaff[id] {
		hours += a.Hours()
	}
	return hours
}

// WorkedDays returns the distinct days one staff member works, in week order.
func (c *Context) WorkedDays(id uuid.UUID) []model.Day {
	seen := make(map[model.Day]bool)
	for _, a := range c.assignmentsByStaff[id] {
		seen[a.Day] = true
	}
	var days []model.Day
	for _, d := range model.WeekDays() {
		if seen[d] {
			days = append(days, d)
		}
	}
	return days
}
