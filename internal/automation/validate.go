package automation

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"smartoffice/internal/models"
)

var validOperators = map[string]bool{
	">": true, "<": true, ">=": true, "<=": true, "==": true, "!=": true,
}

var validPriorities = map[string]bool{
	models.PriorityLow: true, models.PriorityMedium: true, models.PriorityHigh: true,
}

// ValidateRule checks that a rule is well-formed enough to evaluate and
// dispatch: known type, a condition shaped for that type, a catalog action.
func ValidateRule(rule models.Rule) error {
	if strings.TrimSpace(rule.Name) == "" {
		return errors.New("rule name is required")
	}
	if rule.Priority != "" && !validPriorities[rule.Priority] {
		return fmt.Errorf("unknown priority %q", rule.Priority)
	}
	if err := validateConditionAs(rule.Type, rule.Condition); err != nil {
		return err
	}
	return ValidateAction(rule.Action, rule.ActionValue)
}

func validateConditionAs(kind models.RuleType, cond models.Condition) error {
	switch kind {
	case models.RuleTypeThreshold:
		return validateThreshold(cond)
	case models.RuleTypeTime:
		return validateTime(cond)
	case models.RuleTypeDevice:
		return validateDevice(cond)
	case models.RuleTypeCombination:
		if len(cond.All) == 0 {
			return errors.New("combination rule needs at least one sub-condition")
		}
		for i, sub := range cond.All {
			sk := inferKind(sub)
			if sk == models.RuleType("") {
				return fmt.Errorf("sub-condition %d does not look like a threshold, time or device condition", i)
			}
			if err := validateConditionAs(sk, sub); err != nil {
				return fmt.Errorf("sub-condition %d: %w", i, err)
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown rule type %q", kind)
	}
}

func validateThreshold(cond models.Condition) error {
	if cond.Sensor == "" {
		return errors.New("threshold condition needs a sensor")
	}
	if !validOperators[cond.Operator] {
		return fmt.Errorf("unknown operator %q", cond.Operator)
	}
	if cond.Value == nil {
		return errors.New("threshold condition needs a value")
	}
	return nil
}

func validateTime(cond models.Condition) error {
	set := 0
	if cond.Time != "" {
		set++
		if _, err := time.Parse("15:04", cond.Time); err != nil {
			return fmt.Errorf("time %q is not HH:MM", cond.Time)
		}
	}
	if cond.Day != "" {
		set++
		if !validDayToken(cond.Day) {
			return fmt.Errorf("unknown day %q", cond.Day)
		}
	}
	if cond.Interval != 0 {
		set++
		if cond.Interval < 1 || cond.Interval > 59 {
			return fmt.Errorf("interval %d must be between 1 and 59 minutes", cond.Interval)
		}
	}
	if set != 1 {
		return errors.New("time condition needs exactly one of time, day or interval")
	}
	return nil
}

func validDayToken(token string) bool {
	switch strings.ToLower(token) {
	case "everyday", "weekday", "weekend",
		"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday":
		return true
	}
	return false
}

func validateDevice(cond models.Condition) error {
	if cond.Device == "" {
		return errors.New("device condition needs a device")
	}
	if cond.State == "" {
		return errors.New("device condition needs a state")
	}
	return nil
}
