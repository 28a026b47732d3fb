// Package expander turns coverage-style rules into concrete shift requirements.
package expander

import (
	"fmt"
	"sort"
	"time"

	"github.com/venueops/roster/pkg/errors"
	"github.com/venueops/roster/pkg/model"
)

const (
	defaultOpeningHours   = 5
	defaultMaxShiftLength = 8 * 60 // minutes
	defaultMinShiftLength = 3 * 60

	// Trading day split used when a coverage rule spans the whole day.
	dayShiftStart     = 12 * 60
	dayShiftEnd       = 18 * 60
	eveningShiftEnd   = 23 * 60
	eveningStartsFrom = 18 * 60
	nightStartsFrom   = 22 * 60
)

// Expand converts the rules active for the target week into the deterministic
// requirement list for that week: ordered by day, then start time, then the
// insertion order of the source rule. Same rules + weekStart always produce
// the same list.
func Expand(rules []model.Rule, weekStart time.Time) ([]model.ShiftRequirement, error) {
	if weekStart.Weekday() != time.Monday {
		return nil, errors.InvalidInput("week_start", "must denote a Monday").
			WithField("week_start", weekStart.Format("2006-01-02"))
	}

	var active []model.Rule
	for _, r := range rules {
		if r.ActiveFor(weekStart) && r.Type.ExpandsToShifts() {
			active = append(active, r)
		}
	}

	if err := checkOpeningConflicts(active); err != nil {
		return nil, err
	}

	minShiftLen := minShiftLength(active)

	var out []ordered

	for seq, rule := range active {
		var reqs []model.ShiftRequirement
		var err error

		switch rule.Type {
		case model.ConstraintOpeningTime:
			reqs, err = expandOpening(rule)
		case model.ConstraintMinCoverage:
			reqs, err = expandCoverage(rule, minShiftLen)
		case model.ConstraintMaxCoverage:
			reqs, err = expandMaxCoverage(rule)
		case model.ConstraintRequiredRole:
			reqs, err = expandDemand(rule, "role")
		case model.ConstraintRequiredSkill:
			reqs, err = expandDemand(rule, "skill")
		case model.ConstraintMinShiftLength:
			// Consumed above as a subdivision bound; emits no slots itself.
			continue
		}
		if err != nil {
			return nil, err
		}
		for _, req := range reqs {
			out = append(out, ordered{req: req, seq: seq})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.req.Day != b.req.Day {
			return a.req.Day.Order() < b.req.Day.Order()
		}
		if a.req.Window.Start != b.req.Window.Start {
			return a.req.Window.Start < b.req.Window.Start
		}
		return a.seq < b.seq
	})

	return dedupe(out), nil
}

// ordered pairs a requirement with its source rule's position, so sorting can
// fall back to rule insertion order.
type ordered struct {
	req model.ShiftRequirement
	seq int
}

// dedupe drops byte-identical requirements produced by redundant rules while
// preserving distinct overlapping demands.
func dedupe(in []ordered) []model.ShiftRequirement {
	seen := make(map[string]bool, len(in))
	reqs := make([]model.ShiftRequirement, 0, len(in))
	for _, o := range in {
		r := o.req
		key := fmt.Sprintf("%s|%s|%d|%d|%s|%s|%v",
			r.Day, r.Window, r.MinStaff, r.MaxStaff, r.RoleRequired, r.SkillRequired, r.RequiresKeys)
		if seen[key] {
			continue
		}
		seen[key] = true
		reqs = append(reqs, r)
	}
	return reqs
}

// checkOpeningConflicts reports two active opening_time rules imposing
// different opening times on the same day. This is a data-entry conflict
// upstream and must not be silently resolved.
func checkOpeningConflicts(rules []model.Rule) error {
	openings := make(map[model.Day]model.ClockTime)
	for _, rule := range rules {
		if rule.Type != model.ConstraintOpeningTime {
			continue
		}
		p := params(rule)
		open := p.clock("time", 9*60)
		for _, day := range p.days("days") {
			if prev, ok := openings[day]; ok && prev != open {
				return errors.Configuration(fmt.Sprintf(
					"conflicting opening times for %s: %s vs %s", day, prev, open)).
					WithField("rule_id", rule.ID.String())
			}
			openings[day] = open
		}
	}
	return nil
}

// minShiftLength returns the strictest active min_shift_length bound in
// minutes, or the default.
func minShiftLength(rules []model.Rule) model.ClockTime {
	min := model.ClockTime(defaultMinShiftLength)
	for _, rule := range rules {
		if rule.Type != model.ConstraintMinShiftLength {
			continue
		}
		p := params(rule)
		hours := p.float("min_hours", 0)
		if hours <= 0 {
			hours = p.float("hours", 0)
		}
		if bound := model.ClockTime(hours * 60); bound > min {
			min = bound
		}
	}
	return min
}

func expandOpening(rule model.Rule) ([]model.ShiftRequirement, error) {
	p := params(rule)
	open := p.clock("time", 9*60)
	duration := model.ClockTime(p.float("duration_hours", defaultOpeningHours) * 60)
	end := open + duration
	if end > model.EndOfDay {
		end = model.EndOfDay
	}

	var reqs []model.ShiftRequirement
	for _, day := range p.days("days") {
		reqs = append(reqs, model.ShiftRequirement{
			Day:          day,
			ShiftType:    model.ShiftOpening,
			Window:       model.Window{Start: open, End: end},
			MinStaff:     p.int("min_staff", 1),
			RoleRequired: p.str("role", ""),
			RequiresKeys: true,
			SourceRule:   rule.ID,
		})
	}
	return reqs, nil
}

func expandCoverage(rule model.Rule, minShiftLen model.ClockTime) ([]model.ShiftRequirement, error) {
	p := params(rule)
	minStaff := p.int("min_staff", 2)
	role := p.str("role", "")
	skill := p.str("skill", "")
	keys := p.bool("requires_keys", false)
	maxLen := model.ClockTime(p.float("max_shift_length", 0) * 60)
	if maxLen <= 0 {
		maxLen = defaultMaxShiftLength
	}

	windows, err := coverageWindows(rule)
	if err != nil {
		return nil, err
	}

	var reqs []model.ShiftRequirement
	for _, day := range p.days("days") {
		for _, window := range windows {
			for _, slot := range subdivide(window, maxLen, minShiftLen) {
				reqs = append(reqs, model.ShiftRequirement{
					Day:           day,
					ShiftType:     classifyShift(slot),
					Window:        slot,
					MinStaff:      minStaff,
					RoleRequired:  role,
					SkillRequired: skill,
					RequiresKeys:  keys,
					SourceRule:    rule.ID,
				})
			}
		}
	}
	return reqs, nil
}

func expandMaxCoverage(rule model.Rule) ([]model.ShiftRequirement, error) {
	p := params(rule)
	windows, err := coverageWindows(rule)
	if err != nil {
		return nil, err
	}

	var reqs []model.ShiftRequirement
	for _, day := range p.days("days") {
		for _, window := range windows {
			reqs = append(reqs, model.ShiftRequirement{
				Day:        day,
				ShiftType:  classifyShift(window),
				Window:     window,
				MinStaff:   0,
				MaxStaff:   p.int("max_staff", 0),
				SourceRule: rule.ID,
			})
		}
	}
	return reqs, nil
}

// expandDemand handles required_role / required_skill rules, which pin a role
// or skill to a window with a headcount of at least one.
func expandDemand(rule model.Rule, kind string) ([]model.ShiftRequirement, error) {
	p := params(rule)
	windows, err := coverageWindows(rule)
	if err != nil {
		return nil, err
	}

	var reqs []model.ShiftRequirement
	for _, day := range p.days("days") {
		for _, window := range windows {
			req := model.ShiftRequirement{
				Day:        day,
				ShiftType:  classifyShift(window),
				Window:     window,
				MinStaff:   p.int("min_staff", 1),
				SourceRule: rule.ID,
			}
			if kind == "role" {
				req.RoleRequired = p.str("role", "")
			} else {
				req.SkillRequired = p.str("skill", "")
			}
			reqs = append(reqs, req)
		}
	}
	return reqs, nil
}

// coverageWindows resolves a rule's time_range parameter: an explicit
// {start, end} map, or "all" / absent for the default trading-day split.
func coverageWindows(rule model.Rule) ([]model.Window, error) {
	p := params(rule)
	if window, ok := p.window("time_range"); ok {
		if !window.Valid() {
			return nil, errors.Configuration(fmt.Sprintf(
				"rule %s: time_range end must be after start", rule.ID)).
				WithField("rule_id", rule.ID.String())
		}
		return []model.Window{window}, nil
	}
	return []model.Window{
		{Start: dayShiftStart, End: dayShiftEnd},
		{Start: eveningStartsFrom, End: eveningShiftEnd},
	}, nil
}

// subdivide splits a coverage window into slots of at most maxLen. A trailing
// remainder shorter than minLen is merged into its predecessor rather than
// emitted as an illegally short slot.
func subdivide(window model.Window, maxLen, minLen model.ClockTime) []model.Window {
	if window.Duration() <= maxLen {
		return []model.Window{window}
	}

	var slots []model.Window
	for start := window.Start; start < window.End; start += maxLen {
		end := start + maxLen
		if end > window.End {
			end = window.End
		}
		slots = append(slots, model.Window{Start: start, End: end})
	}

	last := len(slots) - 1
	if last > 0 && slots[last].Duration() < minLen {
		slots[last-1].End = slots[last].End
		slots = slots[:last]
	}
	return slots
}

// classifyShift buckets a window into a shift type by its start time.
func classifyShift(w model.Window) model.ShiftType {
	switch {
	case w.Start >= nightStartsFrom || w.End > eveningShiftEnd:
		return model.ShiftNight
	case w.Start >= eveningStartsFrom:
		return model.ShiftEvening
	default:
		return model.ShiftDay
	}
}
