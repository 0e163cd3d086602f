package automation

import (
	"math"
	"strings"
	"time"

	"smartoffice/internal/models"
)

// Epsilon is the tolerance used for floating point equality checks in
// threshold conditions. Sensor readings drift, so exact == would never hold.
const Epsilon = 0.1

// timeWindow is how far (in minutes) the current time may deviate from a
// time-of-day condition and still count as a match.
const timeWindow = 5

// Matches reports whether the rule's condition holds against the given
// sensor snapshot, device states and wall clock. It never mutates anything
// and treats any missing or malformed input as a non-match.
func Matches(rule models.Rule, sensors models.SensorSnapshot, devices models.DeviceMap, now time.Time) bool {
	return matchesAs(rule.Type, rule.Condition, sensors, devices, now)
}

func matchesAs(kind models.RuleType, cond models.Condition, sensors models.SensorSnapshot, devices models.DeviceMap, now time.Time) bool {
	switch kind {
	case models.RuleTypeThreshold:
		return matchThreshold(cond, sensors)
	case models.RuleTypeTime:
		return matchTime(cond, now)
	case models.RuleTypeDevice:
		return matchDevice(cond, devices)
	case models.RuleTypeCombination:
		if len(cond.All) == 0 {
			return false
		}
		for _, sub := range cond.All {
			if !matchesAs(inferKind(sub), sub, sensors, devices, now) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// inferKind classifies a sub-condition of a combination rule by the fields
// it carries, since sub-conditions do not declare a type of their own.
func inferKind(cond models.Condition) models.RuleType {
	switch {
	case cond.Sensor != "":
		return models.RuleTypeThreshold
	case cond.Time != "" || cond.Day != "" || cond.Interval > 0:
		return models.RuleTypeTime
	case cond.Device != "":
		return models.RuleTypeDevice
	default:
		return models.RuleType("")
	}
}

func matchThreshold(cond models.Condition, sensors models.SensorSnapshot) bool {
	if cond.Sensor == "" || cond.Value == nil {
		return false
	}
	reading, ok := sensors.Value(cond.Sensor)
	if !ok {
		return false
	}
	target := *cond.Value
	switch cond.Operator {
	case ">":
		return reading > target
	case "<":
		return reading < target
	case ">=":
		return reading >= target
	case "<=":
		return reading <= target
	case "==":
		return math.Abs(reading-target) < Epsilon
	case "!=":
		return math.Abs(reading-target) >= Epsilon
	default:
		return false
	}
}

func matchTime(cond models.Condition, now time.Time) bool {
	switch {
	case cond.Time != "":
		target, err := time.Parse("15:04", cond.Time)
		if err != nil {
			return false
		}
		cur := now.Hour()*60 + now.Minute()
		want := target.Hour()*60 + target.Minute()
		diff := cur - want
		if diff < 0 {
			diff = -diff
		}
		return diff <= timeWindow
	case cond.Day != "":
		return matchDay(cond.Day, now.Weekday())
	case cond.Interval > 0:
		return now.Minute()%cond.Interval == 0
	default:
		return false
	}
}

func matchDay(token string, day time.Weekday) bool {
	switch strings.ToLower(token) {
	case "everyday":
		return true
	case "weekday":
		return day >= time.Monday && day <= time.Friday
	case "weekend":
		return day == time.Saturday || day == time.Sunday
	default:
		return strings.EqualFold(token, day.String())
	}
}

func matchDevice(cond models.Condition, devices models.DeviceMap) bool {
	if cond.Device == "" {
		return false
	}
	dev, ok := devices[cond.Device]
	if !ok {
		return false
	}
	return dev.Status == cond.State
}
