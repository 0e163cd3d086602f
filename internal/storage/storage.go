package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"time"

	"smartoffice/internal/models"
	"smartoffice/internal/utils"

	"github.com/redis/go-redis/v9"
)

// Key namespace for all dashboard state.
const prefix = "smartoffice:"

const (
	keySensors       = prefix + "sensors"
	keyDevices       = prefix + "devices"
	keyRules         = prefix + "automation_rules"
	keyNotifications = prefix + "notifications"
	keyInsights      = prefix + "ai_insights"
)

const (
	maxNotifications = 50
	maxInsights      = 20
)

// Store is the key-value state store backing sensors, devices, the rule
// collection, notifications and insights. Every value is a JSON document
// under a namespaced key; writes are last-write-wins, no transactions.
type Store struct {
	rdb *redis.Client
}

// NewStore creates a store over the given Redis client.
func NewStore(rdb *redis.Client) *Store {
	return &Store{rdb: rdb}
}

func (s *Store) get(ctx context.Context, key string, out any) (bool, error) {
	raw, err := s.rdb.Get(ctx, key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("storage: get %s: %w", key, err)
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return false, fmt.Errorf("storage: decode %s: %w", key, err)
	}
	return true, nil
}

func (s *Store) set(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("storage: encode %s: %w", key, err)
	}
	if err := s.rdb.Set(ctx, key, raw, 0).Err(); err != nil {
		return fmt.Errorf("storage: set %s: %w", key, err)
	}
	return nil
}

// Init seeds default sensors, devices and rules on first run.
func (s *Store) Init(ctx context.Context) error {
	if _, err := s.rdb.Ping(ctx).Result(); err != nil {
		return fmt.Errorf("storage: ping: %w", err)
	}

	sensors := models.SensorSnapshot{
		Temperature: 24.5,
		Humidity:    45,
		Occupancy:   12,
		Energy:      85,
		AirQuality:  120,
		LastUpdate:  time.Now(),
	}
	if err := s.setNX(ctx, keySensors, sensors); err != nil {
		return err
	}

	if err := s.setNX(ctx, keyDevices, defaultDevices()); err != nil {
		return err
	}

	doc := models.RuleDocument{Version: models.RuleSchemaVersion, Rules: defaultRules()}
	if err := s.setNX(ctx, keyRules, doc); err != nil {
		return err
	}

	log.Println("STORAGE: state store initialized")
	return nil
}

func (s *Store) setNX(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("storage: encode %s: %w", key, err)
	}
	if err := s.rdb.SetNX(ctx, key, raw, 0).Err(); err != nil {
		return fmt.Errorf("storage: seed %s: %w", key, err)
	}
	return nil
}

func defaultDevices() models.DeviceMap {
	now := time.Now()
	power := 60
	acTemp := 22
	recording := true
	return models.DeviceMap{
		"lights":   {ID: "lights", Name: "Office Lights", Type: "lighting", Status: "on", Power: &power},
		"ac":       {ID: "ac", Name: "Air Conditioner", Type: "climate", Status: "on", Temperature: &acTemp},
		"cctv":     {ID: "cctv", Name: "Security Camera", Type: "security", Status: "on", Recording: &recording},
		"door":     {ID: "door", Name: "Smart Door", Type: "security", Status: "locked", LastAccess: &now},
		"purifier": {ID: "purifier", Name: "Air Purifier", Type: "air_quality", Status: "off", Mode: "auto"},
	}
}

func defaultRules() []models.Rule {
	now := time.Now()
	acThreshold := 27.0
	emptyOffice := 0.0
	poorAQI := 150.0
	mk := func(id, name string, cond models.Condition, action string) models.Rule {
		return models.Rule{
			ID:        id,
			Name:      name,
			Type:      models.RuleTypeThreshold,
			Condition: cond,
			Action:    action,
			Priority:  models.PriorityMedium,
			Enabled:   true,
			CreatedAt: now,
			UpdatedAt: now,
		}
	}
	return []models.Rule{
		mk("rule1", "Auto AC Control",
			models.Condition{Sensor: models.SensorTemperature, Operator: ">", Value: &acThreshold, Unit: "°C"}, "ac.on"),
		mk("rule2", "Lights Off When Empty",
			models.Condition{Sensor: models.SensorOccupancy, Operator: "==", Value: &emptyOffice, Unit: "people"}, "lights.off"),
		mk("rule3", "Air Purifier on Poor AQI",
			models.Condition{Sensor: models.SensorAirQuality, Operator: ">", Value: &poorAQI, Unit: "AQI"}, "purifier.on"),
	}
}

// LoadRuleDocument reads the persisted rule collection. A missing key yields
// an empty document at the current schema version.
func (s *Store) LoadRuleDocument(ctx context.Context) (models.RuleDocument, error) {
	var doc models.RuleDocument
	ok, err := s.get(ctx, keyRules, &doc)
	if err != nil {
		return models.RuleDocument{}, err
	}
	if !ok {
		return models.RuleDocument{Version: models.RuleSchemaVersion}, nil
	}
	if doc.Version == 0 {
		// Pre-versioning document; adopt the current schema on next save.
		doc.Version = models.RuleSchemaVersion
	}
	return doc, nil
}

// SaveRuleDocument writes the full rule collection back.
func (s *Store) SaveRuleDocument(ctx context.Context, doc models.RuleDocument) error {
	doc.Version = models.RuleSchemaVersion
	return s.set(ctx, keyRules, doc)
}

// GetSensors returns the last persisted sensor snapshot.
func (s *Store) GetSensors(ctx context.Context) (models.SensorSnapshot, error) {
	var snap models.SensorSnapshot
	if _, err := s.get(ctx, keySensors, &snap); err != nil {
		return models.SensorSnapshot{}, err
	}
	return snap, nil
}

// UpdateSensors persists a sensor snapshot, stamping LastUpdate.
func (s *Store) UpdateSensors(ctx context.Context, snap models.SensorSnapshot) (models.SensorSnapshot, error) {
	snap.LastUpdate = time.Now()
	if err := s.set(ctx, keySensors, snap); err != nil {
		return models.SensorSnapshot{}, err
	}
	return snap, nil
}

// GetDevices returns the device registry snapshot.
func (s *Store) GetDevices(ctx context.Context) (models.DeviceMap, error) {
	devices := models.DeviceMap{}
	if _, err := s.get(ctx, keyDevices, &devices); err != nil {
		return nil, err
	}
	return devices, nil
}

// UpdateDevice applies a partial update to one device and persists the full
// map. Returns nil for an unknown device ID.
func (s *Store) UpdateDevice(ctx context.Context, deviceID string, updates map[string]any) (*models.Device, error) {
	devices, err := s.GetDevices(ctx)
	if err != nil {
		return nil, err
	}
	dev, ok := devices[deviceID]
	if !ok {
		return nil, nil
	}
	applyDeviceUpdate(&dev, updates)
	devices[deviceID] = dev
	if err := s.set(ctx, keyDevices, devices); err != nil {
		return nil, err
	}
	return &dev, nil
}

func applyDeviceUpdate(dev *models.Device, updates map[string]any) {
	for key, v := range updates {
		switch key {
		case "status":
			if sv, ok := v.(string); ok {
				dev.Status = sv
			}
		case "mode":
			if sv, ok := v.(string); ok {
				dev.Mode = sv
			}
		case "brightness":
			if iv, ok := toInt(v); ok {
				dev.Brightness = &iv
			}
		case "temperature":
			if iv, ok := toInt(v); ok {
				dev.Temperature = &iv
			}
		case "speed":
			if iv, ok := toInt(v); ok {
				dev.Speed = &iv
			}
		case "power":
			if iv, ok := toInt(v); ok {
				dev.Power = &iv
			}
		case "recording":
			if bv, ok := v.(bool); ok {
				dev.Recording = &bv
			}
		default:
			log.Printf("STORAGE: ignoring unknown device field %q", key)
		}
	}
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case float64:
		return int(n), true
	case string:
		i, err := strconv.Atoi(n)
		return i, err == nil
	}
	return 0, false
}

// AddNotification prepends a notification, keeping the newest entries only.
func (s *Store) AddNotification(ctx context.Context, n models.Notification) error {
	if n.ID == "" {
		n.ID = utils.NewID()
	}
	if n.Timestamp.IsZero() {
		n.Timestamp = time.Now()
	}
	var list []models.Notification
	if _, err := s.get(ctx, keyNotifications, &list); err != nil {
		return err
	}
	list = append([]models.Notification{n}, list...)
	if len(list) > maxNotifications {
		list = list[:maxNotifications]
	}
	return s.set(ctx, keyNotifications, list)
}

// GetNotifications returns all stored notifications, newest first.
func (s *Store) GetNotifications(ctx context.Context) ([]models.Notification, error) {
	list := []models.Notification{}
	if _, err := s.get(ctx, keyNotifications, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// MarkNotificationRead flags one notification as read.
func (s *Store) MarkNotificationRead(ctx context.Context, id string) error {
	list, err := s.GetNotifications(ctx)
	if err != nil {
		return err
	}
	for i := range list {
		if list[i].ID == id {
			list[i].Read = true
			return s.set(ctx, keyNotifications, list)
		}
	}
	return nil
}

// MarkAllNotificationsRead flags every notification as read.
func (s *Store) MarkAllNotificationsRead(ctx context.Context) error {
	list, err := s.GetNotifications(ctx)
	if err != nil {
		return err
	}
	for i := range list {
		list[i].Read = true
	}
	return s.set(ctx, keyNotifications, list)
}

// AddInsight prepends an insight, keeping the newest entries only.
func (s *Store) AddInsight(ctx context.Context, in models.Insight) error {
	if in.ID == "" {
		in.ID = utils.NewID()
	}
	if in.Timestamp.IsZero() {
		in.Timestamp = time.Now()
	}
	var list []models.Insight
	if _, err := s.get(ctx, keyInsights, &list); err != nil {
		return err
	}
	list = append([]models.Insight{in}, list...)
	if len(list) > maxInsights {
		list = list[:maxInsights]
	}
	return s.set(ctx, keyInsights, list)
}

// GetInsights returns all stored insights, newest first.
func (s *Store) GetInsights(ctx context.Context) ([]models.Insight, error) {
	list := []models.Insight{}
	if _, err := s.get(ctx, keyInsights, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// ClearInsights removes all stored insights.
func (s *Store) ClearInsights(ctx context.Context) error {
	return s.set(ctx, keyInsights, []models.Insight{})
}
