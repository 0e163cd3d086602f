package automation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartoffice/internal/models"
)

func TestParseAction(t *testing.T) {
	device, verb, ok := ParseAction("lights.brightness")
	require.True(t, ok)
	assert.Equal(t, "lights", device)
	assert.Equal(t, "brightness", verb)

	_, _, ok = ParseAction("lights")
	assert.False(t, ok)
	_, _, ok = ParseAction(".on")
	assert.False(t, ok)
	_, _, ok = ParseAction("lights.")
	assert.False(t, ok)
}

func TestValidateAction(t *testing.T) {
	assert.NoError(t, ValidateAction("lights.on", ""))
	assert.NoError(t, ValidateAction("lights.brightness", "80"))
	assert.NoError(t, ValidateAction("ac.mode", "cool"))

	assert.Error(t, ValidateAction("lights.levitate", ""), "unknown verb")
	assert.Error(t, ValidateAction("heater.on", ""), "unknown device")
	assert.Error(t, ValidateAction("lights.brightness", ""), "missing value")
	assert.Error(t, ValidateAction("lights.brightness", "bright"), "non-numeric value")
	assert.Error(t, ValidateAction("lights.brightness", "140"), "out of range")
	assert.Error(t, ValidateAction("ac.mode", "arctic"), "unknown option")
}

func TestBuildDeviceUpdateVerbs(t *testing.T) {
	tests := []struct {
		verb  string
		value string
		want  map[string]any
	}{
		{"on", "", map[string]any{"status": "on"}},
		{"off", "", map[string]any{"status": "off"}},
		{"lock", "", map[string]any{"status": "locked"}},
		{"unlock", "", map[string]any{"status": "unlocked"}},
		{"brightness", "80", map[string]any{"brightness": 80, "status": "on"}},
		{"temperature", "24", map[string]any{"temperature": 24, "status": "on"}},
		{"speed", "3", map[string]any{"speed": 3, "status": "on"}},
		{"mode", "turbo", map[string]any{"mode": "turbo", "status": "on"}},
	}
	for _, tt := range tests {
		t.Run(tt.verb, func(t *testing.T) {
			got, known := buildDeviceUpdate(tt.verb, tt.value, models.Device{})
			require.True(t, known)
			assert.Equal(t, tt.want, got)
		})
	}

	_, known := buildDeviceUpdate("open", "", models.Device{})
	assert.False(t, known)
}

func TestBuildDeviceUpdateToggle(t *testing.T) {
	got, known := buildDeviceUpdate("toggle", "", models.Device{Status: "on"})
	require.True(t, known)
	assert.Equal(t, map[string]any{"status": "off"}, got)

	got, known = buildDeviceUpdate("toggle", "", models.Device{Status: "off"})
	require.True(t, known)
	assert.Equal(t, map[string]any{"status": "on"}, got)
}

func TestDispatchUnknownDevice(t *testing.T) {
	registry := newMemRegistry(models.DeviceMap{})
	rule := models.Rule{ID: "r", Action: "heater.on"}

	deviceID, updates, err := Dispatch(context.Background(), registry, models.DeviceMap{}, rule)
	require.NoError(t, err)
	assert.Equal(t, "heater", deviceID)
	assert.Nil(t, updates)
}

func TestDispatchAppliesUpdate(t *testing.T) {
	devices := models.DeviceMap{"lights": {ID: "lights", Status: "off"}}
	registry := newMemRegistry(devices)
	rule := models.Rule{ID: "r", Action: "lights.toggle"}

	deviceID, updates, err := Dispatch(context.Background(), registry, devices, rule)
	require.NoError(t, err)
	assert.Equal(t, "lights", deviceID)
	assert.Equal(t, map[string]any{"status": "on"}, updates)

	got, _ := registry.GetDevices(context.Background())
	assert.Equal(t, "on", got["lights"].Status)
}
