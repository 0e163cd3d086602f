package automation

import "smartoffice/internal/models"

func f(v float64) *float64 { return &v }

// ruleTemplates are the starter rules offered by the dashboard. Applying one
// goes through Store.Create, so each copy gets its own identity.
var ruleTemplates = map[string]models.Rule{
	"energy-saver": {
		Name:        "Energy Saver Mode",
		Description: "Turn off lights and AC when office is empty to save energy",
		Type:        models.RuleTypeThreshold,
		Condition: models.Condition{
			Sensor: models.SensorOccupancy, Operator: "==", Value: f(0), Unit: "people",
		},
		Action:           "lights.off",
		Priority:         models.PriorityHigh,
		Enabled:          true,
		SendNotification: true,
	},
	"comfort-mode": {
		Name:        "Comfort Mode",
		Description: "Maintain optimal temperature and air quality",
		Type:        models.RuleTypeCombination,
		Condition: models.Condition{
			All: []models.Condition{
				{Sensor: models.SensorTemperature, Operator: ">", Value: f(27), Unit: "°C"},
				{Sensor: models.SensorAirQuality, Operator: ">", Value: f(150), Unit: "AQI"},
			},
		},
		Action:      "ac.temperature",
		ActionValue: "24",
		Priority:    models.PriorityMedium,
		Enabled:     true,
	},
	"security": {
		Name:             "Security Protocol",
		Description:      "Automated security measures after office hours",
		Type:             models.RuleTypeTime,
		Condition:        models.Condition{Time: "18:00"},
		Action:           "door.lock",
		Priority:         models.PriorityHigh,
		Enabled:          true,
		SendNotification: true,
	},
	"schedule": {
		Name:        "Daily Schedule",
		Description: "Automated office setup for work hours",
		Type:        models.RuleTypeCombination,
		Condition: models.Condition{
			All: []models.Condition{
				{Time: "08:00"},
				{Day: "weekday"},
			},
		},
		Action:      "lights.brightness",
		ActionValue: "80",
		Priority:    models.PriorityMedium,
		Enabled:     true,
	},
}

// Template returns the named starter rule.
func Template(name string) (models.Rule, bool) {
	tpl, ok := ruleTemplates[name]
	return tpl, ok
}

// TemplateNames lists the available starter rules.
func TemplateNames() []string {
	return []string{"energy-saver", "comfort-mode", "security", "schedule"}
}
