package solver

import (
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cast"

	"github.com/venueops/roster/pkg/model"
)

// preferences distills the soft rules the search steers by while assigning,
// before the scorer ever runs: day-off wishes, forced weekly shift counts and
// forbidden pairs. Everything else is left to scoring.
type preferences struct {
	dayOff    map[uuid.UUID]map[model.Day]int // staff -> day -> rule weight
	minShifts map[uuid.UUID]int
	forbidden map[uuid.UUID][]uuid.UUID
}

func buildPreferences(rules []model.Rule, staff []model.StaffMember, asOf time.Time) *preferences {
	p := &preferences{
		dayOff:    make(map[uuid.UUID]map[model.Day]int),
		minShifts: make(map[uuid.UUID]int),
		forbidden: make(map[uuid.UUID][]uuid.UUID),
	}

	byName := make(map[string]uuid.UUID, len(staff))
	for _, s := range staff {
		byName[s.Name] = s.ID
		for _, other := range s.NotPairWith {
			p.forbidden[s.ID] = append(p.forbidden[s.ID], other)
		}
	}

	resolve := func(params map[string]any) uuid.UUID {
		if raw, ok := params["staff_id"]; ok {
			if id, err := uuid.Parse(cast.ToString(raw)); err == nil {
				return id
			}
		}
		if raw, ok := params["staff_name"]; ok {
			return byName[cast.ToString(raw)]
		}
		return uuid.Nil
	}

	for _, rule := range rules {
		if !rule.ActiveFor(asOf) {
			continue
		}
		switch rule.Type {
		case model.ConstraintDayOff:
			id := resolve(rule.Parameters)
			day := model.Day(cast.ToString(rule.Parameters["day"]))
			if id == uuid.Nil || !day.Valid() {
				continue
			}
			if p.dayOff[id] == nil {
				p.dayOff[id] = make(map[model.Day]int)
			}
			if rule.Weight > p.dayOff[id][day] {
				p.dayOff[id][day] = rule.Weight
			}
		case model.ConstraintWeeklyFrequency:
			id := resolve(rule.Parameters)
			if id == uuid.Nil {
				continue
			}
			min := 1
			if raw, ok := rule.Parameters["min_shifts"]; ok {
				min = cast.ToInt(raw)
			}
			if min > p.minShifts[id] {
				p.minShifts[id] = min
			}
		case model.ConstraintStaffPairing:
			if cast.ToString(rule.Parameters["mode"]) == "require" {
				continue
			}
			a, errA := uuid.Parse(cast.ToString(rule.Parameters["staff_a"]))
			b, errB := uuid.Parse(cast.ToString(rule.Parameters["staff_b"]))
			if errA != nil || errB != nil {
				continue
			}
			p.forbidden[a] = append(p.forbidden[a], b)
			p.forbidden[b] = append(p.forbidden[b], a)
		}
	}
	return p
}

func (p *preferences) dayOffWeight(staffID uuid.UUID, day model.Day) int {
	return p.dayOff[staffID][day]
}

func (p *preferences) requiredShifts(staffID uuid.UUID) int {
	return p.minShifts[staffID]
}

func (p *preferences) forbids(staffID, otherID uuid.UUID) bool {
	for _, id := range p.forbidden[staffID] {
		if id == otherID {
			return true
		}
	}
	return false
}
