package model

import (
	"github.com/google/uuid"
)

// Violation records one failed constraint evaluation. A single rule can
// produce several violations, e.g. one per under-staffed requirement.
type Violation struct {
	RuleID               uuid.UUID   `json:"rule_id"`
	Type                 ConstraintType `json:"constraint_type"`
	Severity             Severity    `json:"severity"`
	Description          string      `json:"description"`
	AffectedRequirements []int       `json:"affected,omitempty"`
	AffectedStaff        []uuid.UUID `json:"affected_staff,omitempty"`
	Penalty              float64     `json:"penalty"`
}

// SolutionStats summarizes a scored roster for callers and logs.
type SolutionStats struct {
	TotalAssignments     int                   `json:"total_assignments"`
	TotalHours           float64               `json:"total_hours"`
	StaffHours           map[uuid.UUID]float64 `json:"staff_hours"`
	UnfilledRequirements int                   `json:"unfilled_requirements"`
	FairnessScore        float64               `json:"fairness_score"`
}

// Solution is a full candidate roster with its score and violation list.
// Immutable once produced by the scorer.
type Solution struct {
	Assignments []Assignment `json:"assignments"`
	Score       float64      `json:"score"`
	Violations  []Violation  `json:"violations"`
	IsValid     bool         `json:"is_valid"`
	Note        string       `json:"note,omitempty"`
	Stats       *SolutionStats `json:"stats,omitempty"`
}

// CriticalViolations counts violations in the critical severity tier.
func (s *Solution) CriticalViolations() int {
	n := 0
	for _, v := range s.Violations {
		if v.Severity == SeverityCritical {
			n++
		}
	}
	return n
}

// HoursFor sums the assigned hours of one staff member.
func (s *Solution) HoursFor(staffID uuid.UUID) float64 {
	var hours float64
	for _, a := range s.Assignments {
		if a.StaffID == staffID {
			hours += a.Hours()
		}
	}
	return hours
}

// AssignedTo returns the indexes of staff assigned to one requirement.
func (s *Solution) AssignedTo(requirement int) []uuid.UUID {
	var ids []uuid.UUID
	for _, a := range s.Assignments {
		if a.Requirement == requirement {
			ids = append(ids, a.StaffID)
		}
	}
	return ids
}
