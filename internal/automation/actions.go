package automation

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"

	"smartoffice/internal/models"
)

// DeviceRegistry is the device-state collaborator the dispatcher and the
// engine talk to. The storage package implements it.
type DeviceRegistry interface {
	GetDevices(ctx context.Context) (models.DeviceMap, error)
	UpdateDevice(ctx context.Context, deviceID string, updates map[string]any) (*models.Device, error)
}

type actionValueKind int

const (
	valueNone actionValueKind = iota
	valueInt
	valueEnum
)

// ActionSpec describes one entry of the action catalog: a device verb, and
// what kind of value (if any) it takes.
type ActionSpec struct {
	Action  string
	Label   string
	Kind    actionValueKind
	Unit    string
	Min     int
	Max     int
	Options []string
}

var actionCatalog = []ActionSpec{
	{Action: "lights.on", Label: "Turn lights on"},
	{Action: "lights.off", Label: "Turn lights off"},
	{Action: "lights.toggle", Label: "Toggle lights"},
	{Action: "lights.brightness", Label: "Set light brightness", Kind: valueInt, Unit: "%", Min: 0, Max: 100},
	{Action: "ac.on", Label: "Turn AC on"},
	{Action: "ac.off", Label: "Turn AC off"},
	{Action: "ac.temperature", Label: "Set AC temperature", Kind: valueInt, Unit: "°C", Min: 16, Max: 30},
	{Action: "ac.mode", Label: "Set AC mode", Kind: valueEnum, Options: []string{"cool", "dry", "fan", "auto"}},
	{Action: "purifier.on", Label: "Turn air purifier on"},
	{Action: "purifier.off", Label: "Turn air purifier off"},
	{Action: "purifier.mode", Label: "Set purifier mode", Kind: valueEnum, Options: []string{"auto", "silent", "turbo", "sleep"}},
	{Action: "purifier.speed", Label: "Set purifier fan speed", Kind: valueInt, Min: 1, Max: 5},
	{Action: "cctv.on", Label: "Turn CCTV on"},
	{Action: "cctv.off", Label: "Turn CCTV off"},
	{Action: "door.lock", Label: "Lock main door"},
	{Action: "door.unlock", Label: "Unlock main door"},
}

// ActionCatalog returns the supported rule actions.
func ActionCatalog() []ActionSpec {
	out := make([]ActionSpec, len(actionCatalog))
	copy(out, actionCatalog)
	return out
}

func lookupAction(action string) (ActionSpec, bool) {
	for _, spec := range actionCatalog {
		if spec.Action == action {
			return spec, true
		}
	}
	return ActionSpec{}, false
}

// ParseAction splits "<deviceID>.<verb>" into its parts.
func ParseAction(action string) (deviceID, verb string, ok bool) {
	deviceID, verb, ok = strings.Cut(action, ".")
	if !ok || deviceID == "" || verb == "" {
		return "", "", false
	}
	return deviceID, verb, true
}

// ValidateAction rejects actions outside the catalog and action values that
// do not fit the verb, so misconfigured rules fail at authoring time rather
// than silently doing nothing when they fire.
func ValidateAction(action, actionValue string) error {
	if _, _, ok := ParseAction(action); !ok {
		return fmt.Errorf("action %q is not of the form device.verb", action)
	}
	spec, ok := lookupAction(action)
	if !ok {
		return fmt.Errorf("unknown action %q", action)
	}
	switch spec.Kind {
	case valueNone:
		return nil
	case valueInt:
		if actionValue == "" {
			return fmt.Errorf("action %q requires a value", action)
		}
		n, err := strconv.Atoi(actionValue)
		if err != nil {
			return fmt.Errorf("action %q requires a numeric value, got %q", action, actionValue)
		}
		if n < spec.Min || n > spec.Max {
			return fmt.Errorf("value %d for %q is outside %d..%d", n, action, spec.Min, spec.Max)
		}
	case valueEnum:
		for _, opt := range spec.Options {
			if actionValue == opt {
				return nil
			}
		}
		return fmt.Errorf("value %q for %q must be one of %v", actionValue, action, spec.Options)
	}
	return nil
}

// buildDeviceUpdate maps a verb plus its value onto a device update. The
// boolean is false when the verb is unknown; the current device state is
// only consulted for toggles.
func buildDeviceUpdate(verb, actionValue string, current models.Device) (map[string]any, bool) {
	switch verb {
	case "on":
		return map[string]any{"status": "on"}, true
	case "off":
		return map[string]any{"status": "off"}, true
	case "lock":
		return map[string]any{"status": "locked"}, true
	case "unlock":
		return map[string]any{"status": "unlocked"}, true
	case "toggle":
		next := "on"
		if current.Status == "on" {
			next = "off"
		}
		return map[string]any{"status": next}, true
	case "brightness":
		return map[string]any{"brightness": atoiOr(actionValue, 0), "status": "on"}, true
	case "temperature":
		return map[string]any{"temperature": atoiOr(actionValue, 0), "status": "on"}, true
	case "speed":
		return map[string]any{"speed": atoiOr(actionValue, 0), "status": "on"}, true
	case "mode":
		return map[string]any{"mode": actionValue, "status": "on"}, true
	default:
		return nil, false
	}
}

func atoiOr(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}

// Dispatch applies a rule's action to the device registry. An unknown verb
// is logged and skipped without error, so the rule still counts as fired.
// It returns the device touched and the updates written, if any.
func Dispatch(ctx context.Context, registry DeviceRegistry, devices models.DeviceMap, rule models.Rule) (string, map[string]any, error) {
	deviceID, verb, ok := ParseAction(rule.Action)
	if !ok {
		log.Printf("AUTOMATION: rule %s has malformed action %q, skipping dispatch", rule.ID, rule.Action)
		return "", nil, nil
	}
	current := devices[deviceID]
	updates, known := buildDeviceUpdate(verb, rule.ActionValue, current)
	if !known {
		log.Printf("AUTOMATION: rule %s uses unknown verb %q, skipping dispatch", rule.ID, verb)
		return "", nil, nil
	}
	dev, err := registry.UpdateDevice(ctx, deviceID, updates)
	if err != nil {
		return deviceID, nil, fmt.Errorf("update device %s: %w", deviceID, err)
	}
	if dev == nil {
		log.Printf("AUTOMATION: rule %s targets unknown device %q, skipping dispatch", rule.ID, deviceID)
		return deviceID, nil, nil
	}
	return deviceID, updates, nil
}
