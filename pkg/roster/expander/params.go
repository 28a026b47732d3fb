package expander

import (
	"github.com/spf13/cast"

	"github.com/venueops/roster/pkg/model"
)

// ruleParams gives typed access to a rule's parameter map. Same conversion
// rules as the constraint evaluators: absent or malformed values fall back to
// the caller's default.
type ruleParams struct {
	m map[string]any
}

func params(rule model.Rule) ruleParams {
	return ruleParams{m: rule.Parameters}
}

func (p ruleParams) int(key string, def int) int {
	if val, ok := p.m[key]; ok {
		return cast.ToInt(val)
	}
	return def
}

func (p ruleParams) float(key string, def float64) float64 {
	if val, ok := p.m[key]; ok {
		return cast.ToFloat64(val)
	}
	return def
}

func (p ruleParams) str(key string, def string) string {
	if val, ok := p.m[key]; ok {
		return cast.ToString(val)
	}
	return def
}

func (p ruleParams) bool(key string, def bool) bool {
	if val, ok := p.m[key]; ok {
		return cast.ToBool(val)
	}
	return def
}

// clock reads an "HH:MM" parameter as minutes since midnight.
func (p ruleParams) clock(key string, def model.ClockTime) model.ClockTime {
	val, ok := p.m[key]
	if !ok {
		return def
	}
	t, err := model.ParseClock(cast.ToString(val))
	if err != nil {
		return def
	}
	return t
}

// days reads a day-list parameter; absent means every day of the week.
func (p ruleParams) days(key string) []model.Day {
	val, ok := p.m[key]
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

// window reads a {start, end} map parameter. The literal "all" (or any
// non-map value) reports absent so callers fall back to the default split.
func (p ruleParams) window(key string) (model.Window, bool) {
	val, ok := p.m[key]
	if !ok {
		return model.Window{}, false
	}
	m := cast.ToStringMapString(val)
	if m["start"] == "" || m["end"] == "" {
		return model.Window{}, false
	}
	w, err := model.ParseWindow(m["start"], m["end"])
	if err != nil {
		return model.Window{}, false
	}
	return w, true
}
