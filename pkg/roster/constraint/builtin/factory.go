package builtin

import (
	"github.com/venueops/roster/pkg/errors"
	"github.com/venueops/roster/pkg/model"
	"github.com/venueops/roster/pkg/roster/constraint"
)

// FromRule builds the evaluator for one rule. Rules with unsupported types or
// non-positive weights are rejected here, at load time, never at solve time.
func FromRule(rule model.Rule) (constraint.Constraint, error) {
	if !rule.Type.Known() {
		return nil, errors.UnknownRule(rule.ID.String(), string(rule.Type))
	}
	if rule.Weight <= 0 {
		return nil, errors.InvalidInput("weight", "must be positive").
			WithField("rule_id", rule.ID.String())
	}

	base := NewBaseConstraint(rule)
	switch rule.Type {
	case model.ConstraintMinCoverage:
		return &MinCoverageConstraint{BaseConstraint: base}, nil
	case model.ConstraintMaxCoverage:
		return &MaxCoverageConstraint{BaseConstraint: base}, nil
	case model.ConstraintNoDayAndNight:
		return &NoDayAndNightConstraint{BaseConstraint: base}, nil
	case model.ConstraintMinHours:
		return &MinHoursConstraint{BaseConstraint: base}, nil
	case model.ConstraintMaxHours:
		return &MaxHoursConstraint{BaseConstraint: base}, nil
	case model.ConstraintDayOff:
		return &DayOffConstraint{BaseConstraint: base}, nil
	case model.ConstraintMaxConsecutiveDays:
		return &MaxConsecutiveDaysConstraint{BaseConstraint: base}, nil
	case model.ConstraintStaffPairing:
		return &StaffPairingConstraint{BaseConstraint: base}, nil
	case model.ConstraintFairness:
		return &FairnessConstraint{BaseConstraint: base}, nil
	case model.ConstraintWeeklyFrequency:
		return &WeeklyFrequencyConstraint{BaseConstraint: base}, nil
	case model.ConstraintOpeningTime, model.ConstraintMinShiftLength,
		model.ConstraintRequiredRole, model.ConstraintRequiredSkill:
		// Shift-shaping rules are consumed by the expander; at scoring time
		// their demands are carried on the requirements themselves, which the
		// coverage evaluators re-check.
		return &expandedRuleConstraint{BaseConstraint: base}, nil
	}
	return nil, errors.UnknownRule(rule.ID.String(), string(rule.Type))
}

// FromRules builds a registry from all rules active for the target week.
func FromRules(rules []model.Rule) (*constraint.Registry, error) {
	registry := constraint.NewRegistry()
	for _, rule := range rules {
		c, err := FromRule(rule)
		if err != nil {
			return nil, err
		}
		registry.Register(c)
	}
	return registry, nil
}

// expandedRuleConstraint covers rules that only shape requirements. Their
// headcount demands surface as min_coverage violations through the scorer's
// coverage accounting; here the rule counts as one satisfied instance so its
// weight still rewards a roster that honors the slots it produced.
type expandedRuleConstraint struct {
	*BaseConstraint
}

func (c *expandedRuleConstraint) Evaluate(*constraint.Context) constraint.Outcome {
	return constraint.Outcome{Checked: 1}
}
