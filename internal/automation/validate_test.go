package automation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"smartoffice/internal/models"
)

func TestValidateTimeConditionExactlyOneField(t *testing.T) {
	rule := models.Rule{
		Name:   "Evening lock",
		Type:   models.RuleTypeTime,
		Action: "door.lock",
	}

	rule.Condition = models.Condition{Time: "18:00"}
	assert.NoError(t, ValidateRule(rule))

	rule.Condition = models.Condition{Day: "weekday"}
	assert.NoError(t, ValidateRule(rule))

	rule.Condition = models.Condition{Interval: 15}
	assert.NoError(t, ValidateRule(rule))

	rule.Condition = models.Condition{Time: "18:00", Day: "weekday"}
	assert.Error(t, ValidateRule(rule), "two time fields are ambiguous")

	rule.Condition = models.Condition{}
	assert.Error(t, ValidateRule(rule))

	rule.Condition = models.Condition{Time: "25:99"}
	assert.Error(t, ValidateRule(rule))

	rule.Condition = models.Condition{Day: "payday"}
	assert.Error(t, ValidateRule(rule))

	rule.Condition = models.Condition{Interval: 90}
	assert.Error(t, ValidateRule(rule))
}

func TestValidateCombinationSubConditions(t *testing.T) {
	rule := models.Rule{
		Name:   "Comfort",
		Type:   models.RuleTypeCombination,
		Action: "ac.on",
		Condition: models.Condition{All: []models.Condition{
			{Sensor: models.SensorTemperature, Operator: ">", Value: f(27)},
			{Day: "weekday"},
		}},
	}
	assert.NoError(t, ValidateRule(rule))

	rule.Condition.All = append(rule.Condition.All, models.Condition{State: "on"})
	assert.Error(t, ValidateRule(rule), "sub-condition with no recognizable shape")

	rule.Condition.All = nil
	assert.Error(t, ValidateRule(rule))
}

func TestValidateTemplatesAreWellFormed(t *testing.T) {
	for _, name := range TemplateNames() {
		tpl, ok := Template(name)
		assert.True(t, ok, name)
		assert.NoError(t, ValidateRule(tpl), name)
	}
}
