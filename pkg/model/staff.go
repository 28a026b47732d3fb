package model

import (
	"github.com/google/uuid"
)

// StaffMember is one rosterable person. All records are loaded by the caller
// before a generation run; the engine never mutates them.
type StaffMember struct {
	ID              uuid.UUID   `json:"id" yaml:"id"`
	Name            string      `json:"name" yaml:"name"`
	Role            string      `json:"role,omitempty" yaml:"role,omitempty"`
	Roles           []string    `json:"available_roles,omitempty" yaml:"available_roles,omitempty"`
	Skills          []string    `json:"skills,omitempty" yaml:"skills,omitempty"`
	HasKeys         bool        `json:"has_keys" yaml:"has_keys"`
	MaxHoursPerWeek float64     `json:"max_hours_per_week,omitempty" yaml:"max_hours_per_week,omitempty"`
	PairWith        []uuid.UUID `json:"pair_with,omitempty" yaml:"pair_with,omitempty"`
	NotPairWith     []uuid.UUID `json:"not_pair_with,omitempty" yaml:"not_pair_with,omitempty"`
}

// HasSkill checks whether the staff member holds a skill.
func (s *StaffMember) HasSkill(skill string) bool {
	for _, have := range s.Skills {
		if have == skill {
			return true
		}
	}
	return false
}

// CanWorkRole checks whether the staff member may work a role. An empty role
// list means unrestricted, matching how staff records arrive from the caller.
func (s *StaffMember) CanWorkRole(role string) bool {
	if role == "" {
		return true
	}
	if s.Role == role {
		return true
	}
	if len(s.Roles) == 0 && s.Role == "" {
		return true
	}
	for _, r := range s.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// AvoidsPairingWith checks the do-not-pair preference against another member.
func (s *StaffMember) AvoidsPairingWith(other uuid.UUID) bool {
	for _, id := range s.NotPairWith {
		if id == other {
			return true
		}
	}
	return false
}

// Availability is one staff member's availability for one day of the target
// week. Absence of an entry for a day means available all day.
type Availability struct {
	StaffID     uuid.UUID `json:"staff_id" yaml:"staff_id"`
	Day         Day       `json:"day" yaml:"day"`
	Windows     []Window  `json:"windows,omitempty" yaml:"windows,omitempty"`
	Unavailable bool      `json:"unavailable,omitempty" yaml:"unavailable,omitempty"`
}

// Covers reports whether the entry permits working the whole window.
func (a Availability) Covers(w Window) bool {
	if a.Unavailable {
		return false
	}
	if len(a.Windows) == 0 {
		return true
	}
	for _, win := range a.Windows {
		if win.Contains(w) {
			return true
		}
	}
	return false
}
