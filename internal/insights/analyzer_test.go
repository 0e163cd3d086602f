package insights

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartoffice/internal/models"
)

func testAnalyzer(at time.Time) *Analyzer {
	return &Analyzer{
		rng: rand.New(rand.NewSource(1)),
		now: func() time.Time { return at },
	}
}

func workdayNoon() time.Time {
	return time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
}

func titles(list []models.Insight) []string {
	out := make([]string, len(list))
	for i, in := range list {
		out[i] = in.Title
	}
	return out
}

func TestAnalyzeHighEnergy(t *testing.T) {
	a := testAnalyzer(workdayNoon())
	sensors := models.SensorSnapshot{Energy: 160, Temperature: 22, AirQuality: 80, Occupancy: 10}

	found := a.analyzeCurrentState(sensors, models.DeviceMap{})
	require.Len(t, found, 1)
	assert.Equal(t, models.InsightEnergySaving, found[0].Type)
	assert.Equal(t, models.PriorityHigh, found[0].Priority)
	assert.Equal(t, 160.0, found[0].Metrics["current_value"])
}

func TestAnalyzeEmptyOfficeDuringWorkHours(t *testing.T) {
	sensors := models.SensorSnapshot{Occupancy: 0, Energy: 80, Temperature: 22, AirQuality: 80}

	found := testAnalyzer(workdayNoon()).analyzeCurrentState(sensors, models.DeviceMap{})
	assert.Contains(t, titles(found), "Office Empty During Work Hours")

	nightly := testAnalyzer(time.Date(2026, 3, 2, 22, 0, 0, 0, time.UTC))
	found = nightly.analyzeCurrentState(sensors, models.DeviceMap{})
	assert.NotContains(t, titles(found), "Office Empty During Work Hours")
}

func TestAnalyzeComfortChecks(t *testing.T) {
	a := testAnalyzer(workdayNoon())
	sensors := models.SensorSnapshot{Temperature: 27.5, AirQuality: 160, Energy: 80, Occupancy: 10}

	found := a.analyzeCurrentState(sensors, models.DeviceMap{})
	got := titles(found)
	assert.Contains(t, got, "Suboptimal Office Temperature")
	assert.Contains(t, got, "Poor Air Quality Detected")

	for _, in := range found {
		if in.Title == "Poor Air Quality Detected" {
			assert.Equal(t, "Unhealthy", in.Metrics["condition"])
		}
	}
}

func TestAnalyzeDeviceUsage(t *testing.T) {
	devices := models.DeviceMap{
		"lights":   {Status: "on"},
		"ac":       {Status: "on"},
		"purifier": {Status: "on"},
		"cctv":     {Status: "on"},
		"door":     {Status: "locked"},
	}
	sensors := models.SensorSnapshot{Occupancy: 2, Energy: 80, Temperature: 22, AirQuality: 80}

	found := testAnalyzer(workdayNoon()).analyzeCurrentState(sensors, devices)
	assert.Contains(t, titles(found), "Excessive Device Usage with Low Occupancy")
}

func TestAnalyzeACAfterHours(t *testing.T) {
	devices := models.DeviceMap{"ac": {Status: "on"}}
	sensors := models.SensorSnapshot{Occupancy: 3, Energy: 80, Temperature: 22, AirQuality: 80}

	evening := testAnalyzer(time.Date(2026, 3, 2, 21, 0, 0, 0, time.UTC))
	found := evening.analyzeCurrentState(sensors, devices)
	assert.Contains(t, titles(found), "AC Running After Hours")

	daytime := testAnalyzer(workdayNoon())
	found = daytime.analyzeCurrentState(sensors, devices)
	assert.NotContains(t, titles(found), "AC Running After Hours")
}

func TestAnalyzeQuietStateProducesNothing(t *testing.T) {
	sensors := models.SensorSnapshot{Temperature: 22, Humidity: 45, Occupancy: 12, Energy: 80, AirQuality: 80}
	found := testAnalyzer(workdayNoon()).analyzeCurrentState(sensors, models.DeviceMap{})
	assert.Empty(t, found)
}

func TestPatternInsightsCarryFrequency(t *testing.T) {
	a := testAnalyzer(workdayNoon())
	hist := historicalStats{
		energy:      seriesStats{avg: 120, std: 5},
		occupancy:   seriesStats{avg: 6, max: 20},
		temperature: seriesStats{avg: 26},
	}

	found := a.patternInsights(hist)
	require.Len(t, found, 3)
	for _, in := range found {
		assert.True(t, in.IsPattern, in.Title)
		freq, ok := in.MetricString("frequency")
		require.True(t, ok, in.Title)
		assert.Equal(t, "recurring", freq)
	}
}

func TestPatternInsightsQuietHistory(t *testing.T) {
	a := testAnalyzer(workdayNoon())
	hist := historicalStats{
		energy:      seriesStats{avg: 70},
		occupancy:   seriesStats{avg: 20},
		temperature: seriesStats{avg: 22},
	}
	assert.Empty(t, a.patternInsights(hist))
}

func TestSyntheticHistoryBounds(t *testing.T) {
	a := testAnalyzer(workdayNoon())
	hist := a.syntheticHistory(30)

	assert.Greater(t, hist.energy.avg, 0.0)
	assert.GreaterOrEqual(t, hist.energy.max, hist.energy.avg)
	assert.LessOrEqual(t, hist.energy.min, hist.energy.avg)
	assert.GreaterOrEqual(t, hist.occupancy.min, 0.0)
}
