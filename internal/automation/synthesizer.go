package automation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"smartoffice/internal/models"
)

// ErrInsightNotEligible is returned when an insight does not qualify for
// conversion into a rule.
var ErrInsightNotEligible = errors.New("insight is not eligible for automation")

// Synthesizer converts high-priority recurring insights into enabled
// automation rules.
type Synthesizer struct {
	store    *Store
	activity ActivityLog
}

func NewSynthesizer(store *Store, activity ActivityLog) *Synthesizer {
	return &Synthesizer{store: store, activity: activity}
}

// RuleFromInsight builds the rule an insight maps to, without persisting it.
// Only high-priority insights whose metrics report a recurring frequency
// qualify, and only two shapes are understood: energy-saving insights with a
// current_value metric, and comfort insights about temperature.
func RuleFromInsight(insight models.Insight) (models.Rule, error) {
	if insight.Priority != models.PriorityHigh {
		return models.Rule{}, fmt.Errorf("%w: priority is %q", ErrInsightNotEligible, insight.Priority)
	}
	if freq, ok := insight.MetricString("frequency"); !ok || freq != "recurring" {
		return models.Rule{}, fmt.Errorf("%w: not a recurring pattern", ErrInsightNotEligible)
	}

	rule := models.Rule{
		Name:             "Auto: " + truncate(insight.Title, 30),
		Description:      "Automatically created from AI insight: " + truncate(insight.Description, 100),
		Priority:         models.PriorityMedium,
		Enabled:          true,
		SendNotification: true,
		Source:           models.SourceAIInsight,
	}

	switch insight.Type {
	case models.InsightEnergySaving:
		current, ok := insight.MetricFloat("current_value")
		if !ok {
			return models.Rule{}, fmt.Errorf("%w: energy insight has no current_value", ErrInsightNotEligible)
		}
		rule.Type = models.RuleTypeThreshold
		rule.Condition = models.Condition{
			Sensor:   models.SensorEnergy,
			Operator: ">",
			Value:    f(current * 0.9),
			Unit:     "kWh",
		}
		rule.Action = "lights.off"
	case models.InsightComfortImprovement:
		if !strings.Contains(strings.ToLower(insight.Title), "temperature") {
			return models.Rule{}, fmt.Errorf("%w: comfort insight is not about temperature", ErrInsightNotEligible)
		}
		max, ok := insight.MetricFloat("optimal_max")
		if !ok {
			max = 25
		}
		rule.Type = models.RuleTypeThreshold
		rule.Condition = models.Condition{
			Sensor:   models.SensorTemperature,
			Operator: ">",
			Value:    f(max),
			Unit:     "°C",
		}
		rule.Action = "ac.on"
		rule.ActionValue = "24"
	default:
		return models.Rule{}, fmt.Errorf("%w: no rule mapping for type %q", ErrInsightNotEligible, insight.Type)
	}
	return rule, nil
}

// Synthesize persists the rule for an eligible insight and records the
// conversion in the activity log.
func (s *Synthesizer) Synthesize(ctx context.Context, insight models.Insight) (*models.Rule, error) {
	rule, err := RuleFromInsight(insight)
	if err != nil {
		return nil, err
	}
	created, err := s.store.Create(ctx, rule)
	if err != nil {
		return nil, err
	}
	details, _ := json.Marshal(map[string]string{
		"insight": insight.Title,
		"rule":    created.Name,
		"action":  created.Action,
	})
	if err := s.activity.LogActivity(ctx, models.ActivityEntry{
		Type:      models.ActivityAIAutomation,
		Action:    "Created automation rule from insight",
		Details:   details,
		Timestamp: time.Now(),
	}); err != nil {
		log.Printf("AUTOMATION: failed to log insight conversion: %v", err)
	}
	return created, nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
