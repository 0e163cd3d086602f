package automation

import (
	"sync"
	"time"

	"smartoffice/internal/models"
)

// CooldownWindow is the minimum gap between two firings of the same rule.
const CooldownWindow = time.Minute

// CooldownTracker remembers when each rule last fired so a rule whose
// condition stays true across consecutive evaluation passes only executes
// once per window. The persisted LastTriggered on the rule seeds the check,
// so cooldowns survive restarts.
type CooldownTracker struct {
	mu        sync.Mutex
	lastFired map[string]time.Time
}

func NewCooldownTracker() *CooldownTracker {
	return &CooldownTracker{lastFired: make(map[string]time.Time)}
}

// TryAcquire checks the rule's cooldown and, when the window has passed,
// records a firing at the given moment. Check and record share one lock so
// two concurrent evaluation passes cannot both claim the same window.
func (t *CooldownTracker) TryAcquire(rule models.Rule, now time.Time) bool {
	var last time.Time
	if rule.LastTriggered != nil {
		last = *rule.LastTriggered
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if mem, ok := t.lastFired[rule.ID]; ok && mem.After(last) {
		last = mem
	}
	if !last.IsZero() && now.Sub(last) < CooldownWindow {
		return false
	}
	t.lastFired[rule.ID] = now
	return true
}

// Forget drops the in-memory entry for a deleted rule.
func (t *CooldownTracker) Forget(ruleID string) {
	t.mu.Lock()
	delete(t.lastFired, ruleID)
	t.mu.Unlock()
}
