// Package builtin implements one evaluator per supported constraint type.
package builtin

import (
	"github.com/google/uuid"
	"github.com/spf13/cast"

	"github.com/venueops/roster/pkg/model"
)

// BaseConstraint carries the source rule and typed access to its parameters.
type BaseConstraint struct {
	rule model.Rule
}

// NewBaseConstraint wraps a rule.
func NewBaseConstraint(rule model.Rule) *BaseConstraint {
	return &BaseConstraint{rule: rule}
}

// RuleID returns the source rule id.
func (c *BaseConstraint) RuleID() uuid.UUID { return c.rule.ID }

// Type returns the constraint type.
func (c *BaseConstraint) Type() model.ConstraintType { return c.rule.Type }

// Weight returns the rule weight.
func (c *BaseConstraint) Weight() int { return c.rule.Weight }

// Rule returns the source rule.
func (c *BaseConstraint) Rule() model.Rule { return c.rule }

// ParamInt reads an integer parameter.
func (c *BaseConstraint) ParamInt(key string, defaultVal int) int {
	if val, ok := c.rule.Parameters[key]; ok {
		return cast.ToInt(val)
	}
	return defaultVal
}

// ParamFloat reads a float parameter.
func (c *BaseConstraint) ParamFloat(key string, defaultVal float64) float64 {
	if val, ok := c.rule.Parameters[key]; ok {
		return cast.ToFloat64(val)
	}
	return defaultVal
}

// ParamString reads a string parameter.
func (c *BaseConstraint) ParamString(key string, defaultVal string) string {
	if val, ok := c.rule.Parameters[key]; ok {
		return cast.ToString(val)
	}
	return defaultVal
}

// ParamBool reads a boolean parameter.
func (c *BaseConstraint) ParamBool(key string, defaultVal bool) bool {
	if val, ok := c.rule.Parameters[key]; ok {
		return cast.ToBool(val)
	}
	return defaultVal
}

// ParamStaffID reads a staff id parameter, uuid.Nil when absent or malformed.
func (c *BaseConstraint) ParamStaffID(key string) uuid.UUID {
	val, ok := c.rule.Parameters[key]
	if !ok {
		return uuid.Nil
	}
	id, err := uuid.Parse(cast.ToString(val))
	if err != nil {
		return uuid.Nil
	}
	return id
}

// ParamDays reads a day-list parameter; absent means every day of the week.
func (c *BaseConstraint) ParamDays(key string) []model.Day {
	val, ok := c.rule.Parameters[key]
	if !ok {
		all := model.WeekDays()
		return all[:]
	}
	var days []model.Day
	for _, s := range cast.ToStringSlice(val) {
		d := model.Day(s)
		if d.Valid() {
			days = append(days, d)
		}
	}
	return days
}

// ParamClock reads an "HH:MM" parameter.
func (c *BaseConstraint) ParamClock(key string, defaultVal model.ClockTime) model.ClockTime {
	val, ok := c.rule.Parameters[key]
	if !ok {
		return defaultVal
	}
	t, err := model.ParseClock(cast.ToString(val))
	if err != nil {
		return defaultVal
	}
	return t
}

// ParamWindow reads a {start, end} parameter map as a window.
func (c *BaseConstraint) ParamWindow(key string) (model.Window, bool) {
	val, ok := c.rule.Parameters[key]
	if !ok {
		return model.Window{}, false
	}
	m := cast.ToStringMapString(val)
	if m["start"] == "" || m["end"] == "" {
		return model.Window{}, false
	}
	w, err := model.ParseWindow(m["start"], m["end"])
	if err != nil || !w.Valid() {
		return model.Window{}, false
	}
	return w, true
}

// Violation builds a violation for this rule with the tier severity and the
// full rule weight as penalty.
func (c *BaseConstraint) Violation(description string) model.Violation {
	return model.Violation{
		RuleID:      c.rule.ID,
		Type:        c.rule.Type,
		Severity:    c.rule.Severity(),
		Description: description,
		Penalty:     float64(c.rule.Weight),
	}
}
