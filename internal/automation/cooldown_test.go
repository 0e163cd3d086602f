package automation

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"smartoffice/internal/models"
)

func TestCooldownTryAcquireWindow(t *testing.T) {
	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	tracker := NewCooldownTracker()
	rule := models.Rule{ID: "rule-1"}

	assert.True(t, tracker.TryAcquire(rule, base), "first firing is always allowed")
	assert.False(t, tracker.TryAcquire(rule, base.Add(30*time.Second)), "inside the window")
	assert.False(t, tracker.TryAcquire(rule, base.Add(CooldownWindow-time.Second)))
	assert.True(t, tracker.TryAcquire(rule, base.Add(CooldownWindow)), "window boundary is inclusive")
}

func TestCooldownTryAcquireSeedsFromPersisted(t *testing.T) {
	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	last := base.Add(-30 * time.Second)
	tracker := NewCooldownTracker()
	rule := models.Rule{ID: "rule-1", LastTriggered: &last}

	assert.False(t, tracker.TryAcquire(rule, base), "persisted firing counts against the window")
	assert.True(t, tracker.TryAcquire(rule, last.Add(CooldownWindow)))
}

func TestCooldownTryAcquireConcurrent(t *testing.T) {
	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	tracker := NewCooldownTracker()
	rule := models.Rule{ID: "rule-1"}

	var wg sync.WaitGroup
	var acquired int64
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if tracker.TryAcquire(rule, base) {
				atomic.AddInt64(&acquired, 1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int64(1), acquired, "only one concurrent pass may claim the window")
}

func TestCooldownForget(t *testing.T) {
	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	tracker := NewCooldownTracker()
	rule := models.Rule{ID: "rule-1"}

	assert.True(t, tracker.TryAcquire(rule, base))
	tracker.Forget(rule.ID)
	assert.True(t, tracker.TryAcquire(rule, base), "forgotten rules start fresh")
}
