package automation

import (
	"context"
	"sync"

	"smartoffice/internal/models"
)

// memStorage is an in-memory RuleStorage.
type memStorage struct {
	mu    sync.Mutex
	doc   models.RuleDocument
	loads int
}

func newMemStorage(rules ...models.Rule) *memStorage {
	return &memStorage{doc: models.RuleDocument{Version: models.RuleSchemaVersion, Rules: rules}}
}

func (m *memStorage) LoadRuleDocument(context.Context) (models.RuleDocument, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loads++
	doc := m.doc
	doc.Rules = append([]models.Rule(nil), m.doc.Rules...)
	return doc, nil
}

func (m *memStorage) SaveRuleDocument(_ context.Context, doc models.RuleDocument) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc.Rules = append([]models.Rule(nil), doc.Rules...)
	m.doc = doc
	return nil
}

func (m *memStorage) rules() []models.Rule {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.Rule(nil), m.doc.Rules...)
}

type deviceUpdate struct {
	deviceID string
	updates  map[string]any
}

// memRegistry is an in-memory DeviceRegistry.
type memRegistry struct {
	mu      sync.Mutex
	devices models.DeviceMap
	applied []deviceUpdate
	panics  bool
}

func newMemRegistry(devices models.DeviceMap) *memRegistry {
	if devices == nil {
		devices = models.DeviceMap{}
	}
	return &memRegistry{devices: devices}
}

func (r *memRegistry) GetDevices(context.Context) (models.DeviceMap, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := models.DeviceMap{}
	for id, dev := range r.devices {
		out[id] = dev
	}
	return out, nil
}

func (r *memRegistry) UpdateDevice(_ context.Context, deviceID string, updates map[string]any) (*models.Device, error) {
	if r.panics {
		panic("registry exploded")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	dev, ok := r.devices[deviceID]
	if !ok {
		return nil, nil
	}
	if status, ok := updates["status"].(string); ok {
		dev.Status = status
	}
	r.devices[deviceID] = dev
	r.applied = append(r.applied, deviceUpdate{deviceID: deviceID, updates: updates})
	return &dev, nil
}

// memActivity collects log entries.
type memActivity struct {
	mu      sync.Mutex
	entries []models.ActivityEntry
}

func (a *memActivity) LogActivity(_ context.Context, entry models.ActivityEntry) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = append(a.entries, entry)
	return nil
}

func (a *memActivity) all() []models.ActivityEntry {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]models.ActivityEntry(nil), a.entries...)
}

// memNotifier collects notifications.
type memNotifier struct {
	mu    sync.Mutex
	notes []models.Notification
}

func (n *memNotifier) AddNotification(_ context.Context, note models.Notification) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notes = append(n.notes, note)
	return nil
}

func (n *memNotifier) all() []models.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]models.Notification(nil), n.notes...)
}

// stubSensors serves a fixed snapshot.
type stubSensors struct {
	snap models.SensorSnapshot
}

func (s *stubSensors) Subscribe(func(models.SensorSnapshot)) func() { return func() {} }
func (s *stubSensors) Current() models.SensorSnapshot               { return s.snap }
