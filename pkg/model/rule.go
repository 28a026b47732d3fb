// Package model defines the core data types of the roster engine.
package model

import (
	"time"

	"github.com/google/uuid"
)

// ConstraintType identifies the kind of a scheduling rule.
type ConstraintType string

const (
	ConstraintMinCoverage        ConstraintType = "min_coverage"
	ConstraintMaxCoverage        ConstraintType = "max_coverage"
	ConstraintOpeningTime        ConstraintType = "opening_time"
	ConstraintMinShiftLength     ConstraintType = "min_shift_length"
	ConstraintNoDayAndNight      ConstraintType = "no_day_and_night"
	ConstraintMinHours           ConstraintType = "min_hours"
	ConstraintMaxHours           ConstraintType = "max_hours"
	ConstraintDayOff             ConstraintType = "day_off"
	ConstraintMaxConsecutiveDays ConstraintType = "max_consecutive_days"
	ConstraintStaffPairing       ConstraintType = "staff_pairing"
	ConstraintRequiredRole       ConstraintType = "required_role"
	ConstraintRequiredSkill      ConstraintType = "required_skill"
	ConstraintFairness           ConstraintType = "fairness"
	ConstraintWeeklyFrequency    ConstraintType = "weekly_frequency"
)

var knownConstraintTypes = map[ConstraintType]bool{
	ConstraintMinCoverage:        true,
	ConstraintMaxCoverage:        true,
	ConstraintOpeningTime:        true,
	ConstraintMinShiftLength:     true,
	ConstraintNoDayAndNight:      true,
	ConstraintMinHours:           true,
	ConstraintMaxHours:           true,
	ConstraintDayOff:             true,
	ConstraintMaxConsecutiveDays: true,
	ConstraintStaffPairing:       true,
	ConstraintRequiredRole:       true,
	ConstraintRequiredSkill:      true,
	ConstraintFairness:           true,
	ConstraintWeeklyFrequency:    true,
}

// Known reports whether the constraint type is supported by the engine.
func (t ConstraintType) Known() bool {
	return knownConstraintTypes[t]
}

// ExpandsToShifts reports whether rules of this type imply concrete shift slots.
// Other types are evaluated against the full-week assignment set instead.
func (t ConstraintType) ExpandsToShifts() bool {
	switch t {
	case ConstraintMinCoverage, ConstraintMaxCoverage, ConstraintOpeningTime,
		ConstraintMinShiftLength, ConstraintRequiredRole, ConstraintRequiredSkill:
		return true
	}
	return false
}

// Severity of a violation, derived from the owning rule's weight tier.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// Weight tier boundaries. Rules at or above CriticalWeight make a
// solution invalid when violated.
const (
	CriticalWeight = 100
	HighWeight     = 90
	MediumWeight   = 50
)

// SeverityForWeight maps a rule weight onto its severity tier.
func SeverityForWeight(weight int) Severity {
	switch {
	case weight >= CriticalWeight:
		return SeverityCritical
	case weight >= HighWeight:
		return SeverityHigh
	case weight >= MediumWeight:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

// Rule is a weighted scheduling constraint. Rules are produced by an external
// authoring flow and are read-only to this engine; RuleText is kept only for
// traceability in violation output.
type Rule struct {
	ID         uuid.UUID      `json:"id" yaml:"id"`
	RuleText   string         `json:"rule_text" yaml:"rule_text"`
	Type       ConstraintType `json:"constraint_type" yaml:"constraint_type"`
	Parameters map[string]any `json:"parameters,omitempty" yaml:"parameters,omitempty"`
	Weight     int            `json:"weight" yaml:"weight"`
	IsActive   bool           `json:"is_active" yaml:"is_active"`
	ExpiresAt  *time.Time     `json:"expires_at,omitempty" yaml:"expires_at,omitempty"`
}

// ActiveFor reports whether the rule applies to the week starting at weekStart.
func (r Rule) ActiveFor(weekStart time.Time) bool {
	if !r.IsActive {
		return false
	}
	if r.ExpiresAt != nil && r.ExpiresAt.Before(weekStart) {
		return false
	}
	return true
}

// Severity returns the rule's severity tier.
func (r Rule) Severity() Severity {
	return SeverityForWeight(r.Weight)
}
