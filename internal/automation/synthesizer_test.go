package automation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartoffice/internal/models"
)

func recurringEnergyInsight() models.Insight {
	return models.Insight{
		ID:          "pattern_1_energy_trend",
		Title:       "Consistently High Energy Usage",
		Description: "Average energy consumption is above optimal levels over the past month.",
		Type:        models.InsightEnergySaving,
		Priority:    models.PriorityHigh,
		Metrics: map[string]any{
			"current_value": 130.0,
			"frequency":     "recurring",
		},
		Timestamp: time.Now(),
	}
}

func TestRuleFromInsightEnergy(t *testing.T) {
	rule, err := RuleFromInsight(recurringEnergyInsight())
	require.NoError(t, err)

	assert.Equal(t, models.RuleTypeThreshold, rule.Type)
	assert.Equal(t, models.SensorEnergy, rule.Condition.Sensor)
	assert.Equal(t, ">", rule.Condition.Operator)
	require.NotNil(t, rule.Condition.Value)
	assert.InDelta(t, 117.0, *rule.Condition.Value, 0.001)
	assert.Equal(t, "lights.off", rule.Action)
	assert.Equal(t, models.PriorityMedium, rule.Priority)
	assert.True(t, rule.Enabled)
	assert.True(t, rule.SendNotification)
	assert.Equal(t, models.SourceAIInsight, rule.Source)
}

func TestRuleFromInsightEnergyThresholdIsUnrounded(t *testing.T) {
	insight := recurringEnergyInsight()
	insight.Metrics["current_value"] = 133.3

	rule, err := RuleFromInsight(insight)
	require.NoError(t, err)
	require.NotNil(t, rule.Condition.Value)
	assert.InDelta(t, 119.97, *rule.Condition.Value, 0.0001)
}

func TestRuleFromInsightComfort(t *testing.T) {
	insight := models.Insight{
		Title:    "Recurring Temperature Discomfort",
		Type:     models.InsightComfortImprovement,
		Priority: models.PriorityHigh,
		Metrics: map[string]any{
			"optimal_max": 25.0,
			"frequency":   "recurring",
		},
	}
	rule, err := RuleFromInsight(insight)
	require.NoError(t, err)
	assert.Equal(t, models.SensorTemperature, rule.Condition.Sensor)
	require.NotNil(t, rule.Condition.Value)
	assert.InDelta(t, 25.0, *rule.Condition.Value, 0.001)
	assert.Equal(t, "ac.on", rule.Action)
	assert.Equal(t, "24", rule.ActionValue)

	// Without the metric the comfort bound falls back to 25.
	delete(insight.Metrics, "optimal_max")
	insight.Metrics["frequency"] = "recurring"
	rule, err = RuleFromInsight(insight)
	require.NoError(t, err)
	assert.InDelta(t, 25.0, *rule.Condition.Value, 0.001)
}

func TestRuleFromInsightEligibility(t *testing.T) {
	low := recurringEnergyInsight()
	low.Priority = models.PriorityMedium
	_, err := RuleFromInsight(low)
	assert.ErrorIs(t, err, ErrInsightNotEligible)

	oneOff := recurringEnergyInsight()
	delete(oneOff.Metrics, "frequency")
	_, err = RuleFromInsight(oneOff)
	assert.ErrorIs(t, err, ErrInsightNotEligible)

	unmapped := recurringEnergyInsight()
	unmapped.Type = models.InsightMaintenance
	_, err = RuleFromInsight(unmapped)
	assert.ErrorIs(t, err, ErrInsightNotEligible)

	comfortOffTopic := recurringEnergyInsight()
	comfortOffTopic.Type = models.InsightComfortImprovement
	comfortOffTopic.Title = "Humidity Swings Detected"
	_, err = RuleFromInsight(comfortOffTopic)
	assert.ErrorIs(t, err, ErrInsightNotEligible)
}

func TestRuleFromInsightTruncatesName(t *testing.T) {
	insight := recurringEnergyInsight()
	insight.Title = "An Extremely Verbose Insight Title That Keeps Going"
	rule, err := RuleFromInsight(insight)
	require.NoError(t, err)
	assert.Equal(t, "Auto: An Extremely Verbose Insight T", rule.Name)
}

func TestSynthesizePersistsAndLogs(t *testing.T) {
	storage := newMemStorage()
	activity := &memActivity{}
	synth := NewSynthesizer(NewStore(storage), activity)

	created, err := synth.Synthesize(context.Background(), recurringEnergyInsight())
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, models.SourceAIInsight, created.Source)

	rules := storage.rules()
	require.Len(t, rules, 1)
	assert.Equal(t, created.ID, rules[0].ID)

	entries := activity.all()
	require.Len(t, entries, 1)
	assert.Equal(t, models.ActivityAIAutomation, entries[0].Type)
}
