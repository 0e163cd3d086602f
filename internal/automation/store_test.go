package automation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartoffice/internal/models"
)

func validRule() models.Rule {
	return models.Rule{
		Name: "Auto AC Control",
		Type: models.RuleTypeThreshold,
		Condition: models.Condition{
			Sensor: models.SensorTemperature, Operator: ">", Value: f(27), Unit: "°C",
		},
		Action:   "ac.on",
		Priority: models.PriorityHigh,
		Enabled:  true,
	}
}

func TestStoreCreateAssignsIdentity(t *testing.T) {
	store := NewStore(newMemStorage())

	input := validRule()
	input.ID = "caller-chosen"
	input.ExecutionCount = 99
	stale := time.Now().Add(-time.Hour)
	input.LastTriggered = &stale

	created, err := store.Create(context.Background(), input)
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.NotEqual(t, "caller-chosen", created.ID)
	assert.Zero(t, created.ExecutionCount)
	assert.Nil(t, created.LastTriggered)
	assert.Equal(t, models.SourceUser, created.Source)
	assert.False(t, created.CreatedAt.IsZero())
}

func TestStoreCreateRejectsInvalid(t *testing.T) {
	store := NewStore(newMemStorage())

	bad := validRule()
	bad.Name = "  "
	_, err := store.Create(context.Background(), bad)
	assert.Error(t, err)

	bad = validRule()
	bad.Action = "ac.levitate"
	_, err = store.Create(context.Background(), bad)
	assert.Error(t, err)

	bad = validRule()
	bad.Condition.Operator = "~="
	_, err = store.Create(context.Background(), bad)
	assert.Error(t, err)
}

func TestStoreUpdatePreservesCounters(t *testing.T) {
	storage := newMemStorage()
	store := NewStore(storage)
	created, err := store.Create(context.Background(), validRule())
	require.NoError(t, err)

	fired, err := store.RecordExecution(context.Background(), created.ID, time.Now())
	require.NoError(t, err)
	require.Equal(t, 1, fired.ExecutionCount)

	updated, err := store.Update(context.Background(), created.ID, func(r *models.Rule) {
		r.Name = "Renamed"
		r.ExecutionCount = 0
		r.LastTriggered = nil
	})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, 1, updated.ExecutionCount, "authoring cannot reset execution counters")
	assert.NotNil(t, updated.LastTriggered)
}

func TestStoreUpdateValidates(t *testing.T) {
	store := NewStore(newMemStorage())
	created, err := store.Create(context.Background(), validRule())
	require.NoError(t, err)

	_, err = store.Update(context.Background(), created.ID, func(r *models.Rule) {
		r.Action = "nonsense"
	})
	assert.Error(t, err)

	// A failed update must not be persisted.
	current, err := store.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "ac.on", current.Action)
}

func TestStoreDelete(t *testing.T) {
	store := NewStore(newMemStorage())
	created, err := store.Create(context.Background(), validRule())
	require.NoError(t, err)

	require.NoError(t, store.Delete(context.Background(), created.ID))
	_, err = store.Get(context.Background(), created.ID)
	assert.ErrorIs(t, err, ErrRuleNotFound)
	assert.ErrorIs(t, store.Delete(context.Background(), created.ID), ErrRuleNotFound)
}

func TestStoreSetAllEnabled(t *testing.T) {
	store := NewStore(newMemStorage())
	for i := 0; i < 3; i++ {
		_, err := store.Create(context.Background(), validRule())
		require.NoError(t, err)
	}

	changed, err := store.SetAllEnabled(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, 3, changed)

	changed, err = store.SetAllEnabled(context.Background(), false)
	require.NoError(t, err)
	assert.Zero(t, changed)
}

func TestStoreImportResetsIdentity(t *testing.T) {
	store := NewStore(newMemStorage())

	imported := validRule()
	imported.ID = "old-id"
	imported.ExecutionCount = 7

	count, err := store.Import(context.Background(), []models.Rule{imported})
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	rules, err := store.List(context.Background())
	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.NotEqual(t, "old-id", rules[0].ID)
	assert.Zero(t, rules[0].ExecutionCount)
}

func TestStoreImportRejectsBadBatch(t *testing.T) {
	store := NewStore(newMemStorage())

	bad := validRule()
	bad.Action = "nope"
	_, err := store.Import(context.Background(), []models.Rule{validRule(), bad})
	require.Error(t, err)

	rules, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, rules, "a bad file must not half-apply")
}

func TestStoreRecordExecution(t *testing.T) {
	store := NewStore(newMemStorage())
	created, err := store.Create(context.Background(), validRule())
	require.NoError(t, err)

	at := time.Now().Truncate(time.Second)
	fired, err := store.RecordExecution(context.Background(), created.ID, at)
	require.NoError(t, err)
	assert.Equal(t, 1, fired.ExecutionCount)
	require.NotNil(t, fired.LastTriggered)
	assert.True(t, fired.LastTriggered.Equal(at))

	_, err = store.RecordExecution(context.Background(), "missing", at)
	assert.ErrorIs(t, err, ErrRuleNotFound)
}
