package automation

import (
	"fmt"
	"strings"

	"smartoffice/internal/models"
)

// FormatCondition renders a rule condition as a short human-readable phrase
// for activity log entries and notifications.
func FormatCondition(rule models.Rule) string {
	return formatConditionAs(rule.Type, rule.Condition)
}

func formatConditionAs(kind models.RuleType, cond models.Condition) string {
	switch kind {
	case models.RuleTypeThreshold:
		if cond.Value == nil {
			return cond.Sensor + " (no threshold)"
		}
		return fmt.Sprintf("%s %s %g%s", cond.Sensor, cond.Operator, *cond.Value, cond.Unit)
	case models.RuleTypeTime:
		switch {
		case cond.Time != "":
			return "at " + cond.Time
		case cond.Day != "":
			return "on " + cond.Day
		case cond.Interval > 0:
			return fmt.Sprintf("every %d minutes", cond.Interval)
		}
		return "time condition"
	case models.RuleTypeDevice:
		return fmt.Sprintf("%s is %s", cond.Device, cond.State)
	case models.RuleTypeCombination:
		parts := make([]string, 0, len(cond.All))
		for _, sub := range cond.All {
			parts = append(parts, formatConditionAs(inferKind(sub), sub))
		}
		return strings.Join(parts, " and ")
	default:
		return "unknown condition"
	}
}

// FormatAction renders a rule action as a short human-readable phrase.
func FormatAction(rule models.Rule) string {
	if spec, ok := lookupAction(rule.Action); ok {
		if spec.Kind == valueNone {
			return spec.Label
		}
		label := fmt.Sprintf("%s to %s", spec.Label, rule.ActionValue)
		if spec.Unit != "" {
			label += spec.Unit
		}
		return label
	}
	if rule.ActionValue != "" {
		return fmt.Sprintf("%s (%s)", rule.Action, rule.ActionValue)
	}
	return rule.Action
}
