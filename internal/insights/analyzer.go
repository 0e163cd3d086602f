// Package insights inspects the current sensor and device state, produces
// scored observations for the dashboard, and can convert qualifying ones
// into automation rules.
package insights

import (
	"context"
	"fmt"
	"log"
	"math"
	"math/rand"
	"time"

	"smartoffice/internal/automation"
	"smartoffice/internal/models"
	"smartoffice/internal/storage"
)

// Analysis thresholds. Readings past these produce insights.
const (
	energyHigh     = 150
	energyElevated = 100
	occupancyLow   = 10
	tempOptimalMin = 20
	tempOptimalMax = 25
	aqiOptimalMax  = 100
)

// Analyzer generates insights from live state and synthesized history.
type Analyzer struct {
	store   *storage.Store
	sensors automation.SensorSource
	synth   *automation.Synthesizer
	rng     *rand.Rand
	now     func() time.Time
}

func NewAnalyzer(store *storage.Store, sensors automation.SensorSource, synth *automation.Synthesizer) *Analyzer {
	return &Analyzer{
		store:   store,
		sensors: sensors,
		synth:   synth,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
		now:     time.Now,
	}
}

// Generate runs the live-state checks and persists whatever they find.
func (a *Analyzer) Generate(ctx context.Context) ([]models.Insight, error) {
	devices, err := a.store.GetDevices(ctx)
	if err != nil {
		return nil, fmt.Errorf("load devices: %w", err)
	}
	found := a.analyzeCurrentState(a.sensors.Current(), devices)
	for _, in := range found {
		if err := a.store.AddInsight(ctx, in); err != nil {
			return nil, err
		}
	}
	log.Printf("INSIGHTS: generated %d insights", len(found))
	return found, nil
}

// AnalyzePatterns runs the longer-horizon analysis over synthesized
// historical data and persists recurring-pattern insights.
func (a *Analyzer) AnalyzePatterns(ctx context.Context) ([]models.Insight, error) {
	hist := a.syntheticHistory(30)
	found := a.patternInsights(hist)
	for _, in := range found {
		if err := a.store.AddInsight(ctx, in); err != nil {
			return nil, err
		}
	}
	log.Printf("INSIGHTS: pattern analysis found %d insights", len(found))
	return found, nil
}

// List returns the stored insights, newest first.
func (a *Analyzer) List(ctx context.Context) ([]models.Insight, error) {
	return a.store.GetInsights(ctx)
}

// Clear drops all stored insights.
func (a *Analyzer) Clear(ctx context.Context) error {
	return a.store.ClearInsights(ctx)
}

// Apply converts a stored insight into an automation rule.
func (a *Analyzer) Apply(ctx context.Context, insightID string) (*models.Rule, error) {
	list, err := a.store.GetInsights(ctx)
	if err != nil {
		return nil, err
	}
	for _, in := range list {
		if in.ID == insightID {
			return a.synth.Synthesize(ctx, in)
		}
	}
	return nil, fmt.Errorf("insight %s not found", insightID)
}

func (a *Analyzer) analyzeCurrentState(sensors models.SensorSnapshot, devices models.DeviceMap) []models.Insight {
	var out []models.Insight
	now := a.now()
	hour := now.Hour()
	stamp := now.UnixMilli()

	if sensors.Energy > energyHigh {
		out = append(out, models.Insight{
			ID:          fmt.Sprintf("insight_%d_energy", stamp),
			Title:       "High Energy Consumption Detected",
			Description: fmt.Sprintf("Current energy usage (%.0fkWh) is above the optimal range. This could indicate inefficient device usage or equipment issues.", sensors.Energy),
			Type:        models.InsightEnergySaving,
			Priority:    models.PriorityHigh,
			Confidence:  85,
			Metrics: map[string]any{
				"current_value":     sensors.Energy,
				"threshold":         energyHigh,
				"deviation":         round1((sensors.Energy - energyHigh) / energyHigh * 100),
				"savings_potential": 25,
			},
			Recommendation: "Consider turning off non-essential devices and check AC settings. Enable Eco Mode during peak hours.",
			Timestamp:      now,
		})
	}

	if sensors.Occupancy == 0 && hour >= 8 && hour <= 18 {
		out = append(out, models.Insight{
			ID:          fmt.Sprintf("insight_%d_occupancy", stamp),
			Title:       "Office Empty During Work Hours",
			Description: "The office appears to be empty during typical work hours. This may indicate scheduling issues or remote work days.",
			Type:        models.InsightEfficiencyBoost,
			Priority:    models.PriorityMedium,
			Confidence:  90,
			Metrics: map[string]any{
				"current_occupancy":  sensors.Occupancy,
				"expected_occupancy": "15-25 people",
				"time_of_day":        fmt.Sprintf("%d:00", hour),
				"day_type":           dayType(now),
			},
			Recommendation: "Consider implementing flexible work schedules or optimize office space usage. Turn off lights and AC to save energy.",
			Timestamp:      now,
		})
	}

	if sensors.Temperature > tempOptimalMax {
		out = append(out, models.Insight{
			ID:          fmt.Sprintf("insight_%d_temp", stamp),
			Title:       "Suboptimal Office Temperature",
			Description: fmt.Sprintf("Current temperature (%.1f°C) is above the optimal comfort range (%d-%d°C).", sensors.Temperature, tempOptimalMin, tempOptimalMax),
			Type:        models.InsightComfortImprovement,
			Priority:    models.PriorityMedium,
			Confidence:  92,
			Metrics: map[string]any{
				"current_temperature": sensors.Temperature,
				"optimal_min":         tempOptimalMin,
				"optimal_max":         tempOptimalMax,
				"deviation":           round1(sensors.Temperature - tempOptimalMax),
			},
			Recommendation: "Adjust AC temperature to 24°C for optimal comfort and energy efficiency.",
			Timestamp:      now,
		})
	}

	if sensors.AirQuality > aqiOptimalMax {
		condition := "Moderate"
		if sensors.AirQuality > 150 {
			condition = "Unhealthy"
		}
		out = append(out, models.Insight{
			ID:          fmt.Sprintf("insight_%d_air", stamp),
			Title:       "Poor Air Quality Detected",
			Description: fmt.Sprintf("Air Quality Index (%.0f AQI) indicates suboptimal air conditions. This may affect employee comfort and productivity.", sensors.AirQuality),
			Type:        models.InsightComfortImprovement,
			Priority:    models.PriorityHigh,
			Confidence:  88,
			Metrics: map[string]any{
				"current_aqi": sensors.AirQuality,
				"optimal_max": aqiOptimalMax,
				"condition":   condition,
			},
			Recommendation: "Turn on air purifier and increase ventilation. Consider scheduling breaks for fresh air.",
			Timestamp:      now,
		})
	}

	active := 0
	for _, dev := range devices {
		if dev.Status == "on" {
			active++
		}
	}
	if active > 3 && sensors.Occupancy < 5 {
		out = append(out, models.Insight{
			ID:          fmt.Sprintf("insight_%d_devices", stamp),
			Title:       "Excessive Device Usage with Low Occupancy",
			Description: fmt.Sprintf("%d devices are active with only %.0f people in the office.", active, sensors.Occupancy),
			Type:        models.InsightEnergySaving,
			Priority:    models.PriorityMedium,
			Confidence:  78,
			Metrics: map[string]any{
				"active_devices":    active,
				"occupancy":         sensors.Occupancy,
				"device_ratio":      round1(float64(active) / math.Max(1, sensors.Occupancy)),
				"potential_savings": 30,
			},
			Recommendation: "Consider turning off unused devices or implementing automatic power management.",
			Timestamp:      now,
		})
	}

	if ac, ok := devices["ac"]; ok && ac.Status == "on" && hour > 18 {
		out = append(out, models.Insight{
			ID:          fmt.Sprintf("insight_%d_maintenance", stamp),
			Title:       "AC Running After Hours",
			Description: "Air conditioner is running outside of typical office hours. This may indicate scheduling issues or forgotten shutdown.",
			Type:        models.InsightMaintenance,
			Priority:    models.PriorityLow,
			Confidence:  95,
			Metrics: map[string]any{
				"device":               "Air Conditioner",
				"status":               "On",
				"current_time":         fmt.Sprintf("%d:00", hour),
				"recommended_off_time": "18:00",
				"extra_runtime":        fmt.Sprintf("%d hours", hour-18),
			},
			Recommendation: "Schedule automatic AC shutdown at 18:00 or implement occupancy-based control.",
			Timestamp:      now,
		})
	}

	return out
}

func dayType(t time.Time) string {
	if d := t.Weekday(); d >= time.Monday && d <= time.Friday {
		return "Weekday"
	}
	return "Weekend"
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
