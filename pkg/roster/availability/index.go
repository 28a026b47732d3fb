// Package availability answers legality questions about candidate
// assignments: who can physically work a given slot without breaking
// availability, overlap, hour-cap, role, skill or key conditions.
package availability

import (
	"github.com/google/uuid"

	"github.com/venueops/roster/pkg/model"
)

// Default working window assumed for staff with no recorded availability on
// a day. Matches the venue trading day.
var defaultWindow = model.Window{Start: 9 * 60, End: 23 * 60}

// Index is an immutable lookup over staff availability for one week. Build it
// once per generation run; all methods are read-only and safe for concurrent
// use from parallel search attempts.
type Index struct {
	staff   map[uuid.UUID]*model.StaffMember
	windows map[uuid.UUID]map[model.Day][]model.Window
	closed  map[uuid.UUID]map[model.Day]bool // explicit full-day unavailability
}

// NewIndex builds the lookup from the staff list and their availability
// declarations. Declarations for unknown staff are ignored.
func NewIndex(staff []model.StaffMember, declarations []model.Availability) *Index {
	idx := &Index{
		staff:   make(map[uuid.UUID]*model.StaffMember, len(staff)),
		windows: make(map[uuid.UUID]map[model.Day][]model.Window, len(staff)),
		closed:  make(map[uuid.UUID]map[model.Day]bool),
	}
	for i := range staff {
		idx.staff[staff[i].ID] = &staff[i]
		idx.windows[staff[i].ID] = make(map[model.Day][]model.Window)
		idx.closed[staff[i].ID] = make(map[model.Day]bool)
	}
	for _, decl := range declarations {
		byDay, ok := idx.windows[decl.StaffID]
		if !ok {
			continue
		}
		if decl.Unavailable {
			idx.closed[decl.StaffID][decl.Day] = true
			continue
		}
		byDay[decl.Day] = append(byDay[decl.Day], decl.Windows...)
	}
	return idx
}

// WindowsFor returns the availability windows of a staff member on a day.
// No declaration at all means the default trading-day window; an explicit
// unavailable declaration means none.
func (idx *Index) WindowsFor(staffID uuid.UUID, day model.Day) []model.Window {
	if idx.closed[staffID][day] {
		return nil
	}
	if windows := idx.windows[staffID][day]; len(windows) > 0 {
		return windows
	}
	if _, known := idx.staff[staffID]; !known {
		return nil
	}
	return []model.Window{defaultWindow}
}

// IsLegal reports whether assigning the staff member to the requirement keeps
// the partial roster legal. Checks, in order: availability, overlap with the
// member's existing assignments, the weekly hour cap, role, skill and keys.
// maxHours is the request-level cap; a tighter per-staff cap wins.
func (idx *Index) IsLegal(staffID uuid.UUID, req model.ShiftRequirement, partial []model.Assignment, maxHours float64) bool {
	member, ok := idx.staff[staffID]
	if !ok {
		return false
	}
	if !idx.covers(staffID, req.Day, req.Window) {
		return false
	}

	hours := 0.0
	for _, a := range partial {
		if a.StaffID != staffID {
			continue
		}
		if a.Day == req.Day && a.Window.Overlaps(req.Window) {
			return false
		}
		hours += a.Hours()
	}

	limit := maxHours
	if member.MaxHoursPerWeek > 0 && member.MaxHoursPerWeek < limit {
		limit = member.MaxHoursPerWeek
	}
	if limit > 0 && hours+req.Window.Duration().Hours() > limit {
		return false
	}

	return idx.qualifies(member, req)
}

// Eligible returns, in staff-list order, the ids whose static attributes
// (availability, role, skill, keys) permit the requirement. Dynamic state is
// ignored so the result is stable across a search run.
func (idx *Index) Eligible(staff []model.StaffMember, req model.ShiftRequirement) []uuid.UUID {
	var ids []uuid.UUID
	for i := range staff {
		member := &staff[i]
		if idx.covers(member.ID, req.Day, req.Window) && idx.qualifies(member, req) {
			ids = append(ids, member.ID)
		}
	}
	return ids
}

// Slack counts how many of the given staff could statically fill the
// requirement. Low slack marks a scarce slot that the search fills first.
func (idx *Index) Slack(staff []model.StaffMember, req model.ShiftRequirement) int {
	return len(idx.Eligible(staff, req))
}

// AvailableHours sums a staff member's declared availability over the week.
// Members below roughly half a full-time week count as constrained and are
// placed before flexible staff.
func (idx *Index) AvailableHours(staffID uuid.UUID) float64 {
	total := 0.0
	for _, day := range model.WeekDays() {
		for _, w := range idx.WindowsFor(staffID, day) {
			total += w.Duration().Hours()
		}
	}
	return total
}

func (idx *Index) covers(staffID uuid.UUID, day model.Day, window model.Window) bool {
	for _, w := range idx.WindowsFor(staffID, day) {
		if w.Contains(window) {
			return true
		}
	}
	return false
}

func (idx *Index) qualifies(member *model.StaffMember, req model.ShiftRequirement) bool {
	if req.RoleRequired != "" && !member.CanWorkRole(req.RoleRequired) {
		return false
	}
	if req.SkillRequired != "" && !member.HasSkill(req.SkillRequired) {
		return false
	}
	if req.RequiresKeys && !member.HasKeys {
		return false
	}
	return true
}
