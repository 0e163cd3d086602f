package automation

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"

	"smartoffice/internal/models"
)

// DebounceWindow coalesces bursts of evaluation triggers. Sensor pushes and
// the periodic poll both funnel through Trigger, so two ticks landing close
// together produce a single pass.
const DebounceWindow = time.Second

// ActivityLog records engine and API activity. The db package implements it.
type ActivityLog interface {
	LogActivity(ctx context.Context, entry models.ActivityEntry) error
}

// Notifier delivers user-facing notifications. The storage package
// implements it.
type Notifier interface {
	AddNotification(ctx context.Context, n models.Notification) error
}

// SensorSource provides the current sensor snapshot and push updates. The
// simulator package implements it.
type SensorSource interface {
	Subscribe(fn func(models.SensorSnapshot)) (cancel func())
	Current() models.SensorSnapshot
}

// Engine evaluates the rule collection against sensor snapshots and
// dispatches actions for rules that fire. One engine instance runs per
// process; Shutdown releases its subscription and pending debounce timer.
type Engine struct {
	store      *Store
	devices    DeviceRegistry
	activity   ActivityLog
	notifier   Notifier
	sensors    SensorSource
	mqttClient pahomqtt.Client
	cooldown   *CooldownTracker

	now func() time.Time

	mu      sync.Mutex
	timer   *time.Timer
	pending models.SensorSnapshot
	unsub   func()
	closed  bool
}

// NewEngine wires an engine to its collaborators. mqttClient may be nil when
// no broker is configured; device commands are then not mirrored.
func NewEngine(store *Store, devices DeviceRegistry, activity ActivityLog, notifier Notifier, sensors SensorSource, mqttClient pahomqtt.Client) *Engine {
	return &Engine{
		store:      store,
		devices:    devices,
		activity:   activity,
		notifier:   notifier,
		sensors:    sensors,
		mqttClient: mqttClient,
		cooldown:   NewCooldownTracker(),
		now:        time.Now,
	}
}

// Start subscribes the engine to sensor updates.
func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || e.unsub != nil {
		return
	}
	e.unsub = e.sensors.Subscribe(e.Trigger)
	log.Println("ENGINE: started")
}

// Shutdown detaches the engine from its tick sources and stops any pending
// debounce timer. Safe to call more than once.
func (e *Engine) Shutdown() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.closed = true
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	if e.unsub != nil {
		e.unsub()
		e.unsub = nil
	}
	log.Println("ENGINE: stopped")
}

// Trigger requests an evaluation pass over the given snapshot. Calls within
// the debounce window collapse into one pass over the latest snapshot.
func (e *Engine) Trigger(snap models.SensorSnapshot) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.pending = snap
	if e.timer != nil {
		e.timer.Reset(DebounceWindow)
		return
	}
	e.timer = time.AfterFunc(DebounceWindow, e.run)
}

// Poll feeds the current snapshot into the debounced trigger. Registered
// with the scheduler as a safety net for time-based rules when sensor pushes
// are quiet.
func (e *Engine) Poll() {
	e.Trigger(e.sensors.Current())
}

func (e *Engine) run() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	snap := e.pending
	e.timer = nil
	e.mu.Unlock()

	if err := e.Evaluate(context.Background(), snap); err != nil {
		log.Printf("ENGINE: evaluation pass failed: %v", err)
	}
}

// Evaluate runs one pass over every rule, in stored order. A failure in one
// rule never stops the rest of the pass.
func (e *Engine) Evaluate(ctx context.Context, snap models.SensorSnapshot) error {
	rules, err := e.store.List(ctx)
	if err != nil {
		return fmt.Errorf("load rules: %w", err)
	}
	devices, err := e.devices.GetDevices(ctx)
	if err != nil {
		return fmt.Errorf("load devices: %w", err)
	}
	for _, rule := range rules {
		e.evaluateRule(ctx, rule, snap, devices)
	}
	return nil
}

// TriggerRule evaluates a single rule immediately against the current
// snapshot, bypassing the debounce but not the cooldown.
func (e *Engine) TriggerRule(ctx context.Context, ruleID string) error {
	rule, err := e.store.Get(ctx, ruleID)
	if err != nil {
		return err
	}
	devices, err := e.devices.GetDevices(ctx)
	if err != nil {
		return fmt.Errorf("load devices: %w", err)
	}
	e.evaluateRule(ctx, *rule, e.sensors.Current(), devices)
	return nil
}

// Forget clears cooldown state for a deleted rule.
func (e *Engine) Forget(ruleID string) {
	e.cooldown.Forget(ruleID)
}

func (e *Engine) evaluateRule(ctx context.Context, rule models.Rule, snap models.SensorSnapshot, devices models.DeviceMap) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("ENGINE: rule %s (%s) panicked during evaluation: %v", rule.ID, rule.Name, r)
		}
	}()
	if !rule.Enabled {
		return
	}
	now := e.now()
	if !Matches(rule, snap, devices, now) {
		return
	}
	if !e.cooldown.TryAcquire(rule, now) {
		return
	}
	e.fire(ctx, rule, devices, now)
}

// fire executes a rule whose condition matched: counters first, then the
// device action, then the log entry and optional notification.
func (e *Engine) fire(ctx context.Context, rule models.Rule, devices models.DeviceMap, now time.Time) {
	updated, err := e.store.RecordExecution(ctx, rule.ID, now)
	if err != nil {
		log.Printf("ENGINE: failed to record execution of rule %s: %v", rule.ID, err)
		updated = &rule
	}

	deviceID, updates, err := Dispatch(ctx, e.devices, devices, *updated)
	if err != nil {
		log.Printf("ENGINE: dispatch for rule %s failed: %v", rule.ID, err)
	}
	if len(updates) > 0 {
		e.publishCommand(deviceID, updates)
	}

	details, _ := json.Marshal(models.ExecutionDetails{
		Rule:        updated.Name,
		Condition:   FormatCondition(*updated),
		Action:      FormatAction(*updated),
		TriggeredBy: "automation_engine",
	})
	if err := e.activity.LogActivity(ctx, models.ActivityEntry{
		Type:      models.ActivityAutomation,
		Action:    "Executed rule: " + updated.Name,
		Details:   details,
		Timestamp: now,
	}); err != nil {
		log.Printf("ENGINE: failed to log execution of rule %s: %v", rule.ID, err)
	}

	if updated.SendNotification {
		if err := e.notifier.AddNotification(ctx, models.Notification{
			Type:      "automation",
			Title:     "Automation Triggered",
			Message:   fmt.Sprintf("%s: %s", updated.Name, FormatAction(*updated)),
			Priority:  updated.Priority,
			Timestamp: now,
		}); err != nil {
			log.Printf("ENGINE: failed to notify for rule %s: %v", rule.ID, err)
		}
	}
	log.Printf("ENGINE: rule %s (%s) fired", updated.ID, updated.Name)
}

// publishCommand mirrors an applied device update onto the MQTT command
// topic for physical integrations listening on the broker.
func (e *Engine) publishCommand(deviceID string, updates map[string]any) {
	if e.mqttClient == nil || !e.mqttClient.IsConnected() {
		return
	}
	payload, err := json.Marshal(updates)
	if err != nil {
		return
	}
	topic := "smartoffice/devices/" + deviceID + "/set"
	if token := e.mqttClient.Publish(topic, 0, false, payload); token.Wait() && token.Error() != nil {
		log.Printf("ENGINE: mqtt publish to %s failed: %v", topic, token.Error())
	}
}
