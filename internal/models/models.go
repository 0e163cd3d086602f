package models

import (
	"encoding/json"
	"time"
)

// RuleType determines which condition shape is valid for a rule.
type RuleType string

const (
	RuleTypeThreshold   RuleType = "threshold"
	RuleTypeTime        RuleType = "time"
	RuleTypeDevice      RuleType = "device"
	RuleTypeCombination RuleType = "combination"
)

// Priority is informational only; the engine never reads it for ordering.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// Condition is the variant payload of a rule. Which fields are meaningful
// depends on the rule type:
//
//	threshold:   Sensor, Operator, Value, Unit
//	time:        exactly one of Time ("HH:MM"), Day, Interval (minutes)
//	device:      Device, State
//	combination: All (sub-conditions, implicitly AND-ed)
type Condition struct {
	Sensor   string      `json:"sensor,omitempty"`
	Operator string      `json:"operator,omitempty"`
	Value    *float64    `json:"value,omitempty"`
	Unit     string      `json:"unit,omitempty"`
	Time     string      `json:"time,omitempty"`
	Day      string      `json:"day,omitempty"`
	Interval int         `json:"interval,omitempty"`
	Device   string      `json:"device,omitempty"`
	State    string      `json:"state,omitempty"`
	All      []Condition `json:"all,omitempty"`
}

// Rule represents an automation rule: a persisted condition-action pair
// governing automated device control.
type Rule struct {
	ID               string     `json:"id"`
	Name             string     `json:"name"`
	Description      string     `json:"description,omitempty"`
	Type             RuleType   `json:"type"`
	Condition        Condition  `json:"condition"`
	Action           string     `json:"action"`
	ActionValue      string     `json:"actionValue,omitempty"`
	Priority         string     `json:"priority"`
	Enabled          bool       `json:"enabled"`
	SendNotification bool       `json:"sendNotification"`
	ExecutionCount   int        `json:"executionCount"`
	LastTriggered    *time.Time `json:"lastTriggered"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
	Source           string     `json:"source,omitempty"`
}

// Rule provenance values.
const (
	SourceUser      = "user"
	SourceAIInsight = "ai_insight"
)

// RuleDocument is the persisted shape of the rule collection: a versioned
// JSON document under a single namespaced key, last-write-wins.
type RuleDocument struct {
	Version int    `json:"version"`
	Rules   []Rule `json:"rules"`
}

// RuleSchemaVersion is bumped when the Rule shape changes incompatibly.
const RuleSchemaVersion = 1

// SensorSnapshot is the read-only view of the simulated sensors at a point
// in time. The engine never mutates it.
type SensorSnapshot struct {
	Temperature float64   `json:"temperature"`
	Humidity    float64   `json:"humidity"`
	Occupancy   float64   `json:"occupancy"`
	Energy      float64   `json:"energy"`
	AirQuality  float64   `json:"airQuality"`
	LastUpdate  time.Time `json:"lastUpdate"`
}

// Sensor keys addressable from threshold conditions.
const (
	SensorTemperature = "temperature"
	SensorHumidity    = "humidity"
	SensorOccupancy   = "occupancy"
	SensorEnergy      = "energy"
	SensorAirQuality  = "airQuality"
)

// Value returns the reading for a sensor key. Unknown keys report ok=false
// so a malformed condition degrades to a no-match instead of an error.
func (s SensorSnapshot) Value(key string) (float64, bool) {
	switch key {
	case SensorTemperature:
		return s.Temperature, true
	case SensorHumidity:
		return s.Humidity, true
	case SensorOccupancy:
		return s.Occupancy, true
	case SensorEnergy:
		return s.Energy, true
	case SensorAirQuality:
		return s.AirQuality, true
	}
	return 0, false
}

// Device represents a controllable device and its current state.
type Device struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Type        string     `json:"type"`
	Status      string     `json:"status"`
	Power       *int       `json:"power,omitempty"`
	Brightness  *int       `json:"brightness,omitempty"`
	Temperature *int       `json:"temperature,omitempty"`
	Speed       *int       `json:"speed,omitempty"`
	Mode        string     `json:"mode,omitempty"`
	Recording   *bool      `json:"recording,omitempty"`
	LastAccess  *time.Time `json:"lastAccess,omitempty"`
}

// DeviceMap is the device registry snapshot, keyed by device ID.
type DeviceMap map[string]Device

// ActivityEntry is one row of the append-only activity log.
type ActivityEntry struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Action    string          `json:"action"`
	Details   json.RawMessage `json:"details,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
	User      string          `json:"user"`
}

// Activity entry types.
const (
	ActivityAutomation    = "automation"
	ActivityAIAutomation  = "ai_automation"
	ActivityDeviceControl = "device_control"
	ActivityAuth          = "auth"
	ActivitySystem        = "system"
)

// ExecutionDetails is the details payload of an automation log entry.
type ExecutionDetails struct {
	Rule        string `json:"rule"`
	Condition   string `json:"condition"`
	Action      string `json:"action"`
	TriggeredBy string `json:"triggeredBy"`
}

// Notification is a user-facing message pushed to the dashboard.
type Notification struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Priority  string    `json:"priority"`
	Read      bool      `json:"read"`
	Timestamp time.Time `json:"timestamp"`
}

// Insight types the synthesizer understands; other types are display-only.
const (
	InsightEnergySaving       = "energy_saving"
	InsightComfortImprovement = "comfort_improvement"
	InsightEfficiencyBoost    = "efficiency_boost"
	InsightMaintenance        = "maintenance"
)

// Insight is an observation about sensor/device state generated by the
// insights analyzer. Metrics values arrive as JSON scalars.
type Insight struct {
	ID             string         `json:"id"`
	Title          string         `json:"title"`
	Description    string         `json:"description"`
	Type           string         `json:"type"`
	Priority       string         `json:"priority"`
	Confidence     int            `json:"confidence"`
	Metrics        map[string]any `json:"metrics,omitempty"`
	Recommendation string         `json:"recommendation,omitempty"`
	IsPattern      bool           `json:"isPattern,omitempty"`
	Timestamp      time.Time      `json:"timestamp"`
}

// MetricFloat reads a numeric metric, tolerating the float64/int ambiguity
// of decoded JSON.
func (i Insight) MetricFloat(key string) (float64, bool) {
	v, ok := i.Metrics[key]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

// MetricString reads a string metric.
func (i Insight) MetricString(key string) (string, bool) {
	v, ok := i.Metrics[key].(string)
	return v, ok
}

// User is an authenticated dashboard user.
type User struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	Name     string `json:"name"`
	Email    string `json:"email"`
}
