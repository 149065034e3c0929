package storage

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/taskpilot/internal/domain"
)

func TestMemoryStore_AppendAndGet(t *testing.T) {
	store := NewMemoryStore()
	task := domain.NewTask("write the changelog")

	store.Append(task)

	got, err := store.Get(task.ID)
	require.NoError(t, err)
	assert.Same(t, task, got)
}

func TestMemoryStore_GetUnknown(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.Get("nope")
	assert.Error(t, err)
}

func TestMemoryStore_InsertionOrder(t *testing.T) {
	store := NewMemoryStore()

	var ids []string
	for i := range 5 {
		task := domain.NewTask(fmt.Sprintf("task %d", i))
		store.Append(task)
		ids = append(ids, task.ID)
	}

	snap := store.Snapshot()
	require.Len(t, snap.Tasks, 5)
	for i, task := range snap.Tasks {
		assert.Equal(t, ids[i], task.ID)
	}
}

func TestMemoryStore_DeleteClearsCurrent(t *testing.T) {
	store := NewMemoryStore()
	task := domain.NewTask("review the open incidents")
	store.Append(task)
	store.SetCurrent(task)

	removed, err := store.Delete(task.ID)
	require.NoError(t, err)
	assert.Same(t, task, removed)
	assert.Nil(t, store.Current())
	assert.Zero(t, store.Len())
}

func TestMemoryStore_DeleteKeepsUnrelatedCurrent(t *testing.T) {
	store := NewMemoryStore()
	keep := domain.NewTask("keep me")
	drop := domain.NewTask("drop me")
	store.Append(keep)
	store.Append(drop)
	store.SetCurrent(keep)

	_, err := store.Delete(drop.ID)
	require.NoError(t, err)
	assert.Same(t, keep, store.Current())
}

func TestMemoryStore_DeleteUnknown(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.Delete("missing")
	assert.Error(t, err)
}

func TestMemoryStore_Clear(t *testing.T) {
	store := NewMemoryStore()
	task := domain.NewTask("something to clear")
	store.Append(task)
	store.SetCurrent(task)
	store.SetConfidence(0.3)

	store.Clear()

	assert.Zero(t, store.Len())
	assert.Nil(t, store.Current())
	assert.InDelta(t, domain.DefaultConfidence, store.Confidence(), 1e-9)
}

func TestMemoryStore_SetConfidenceClamps(t *testing.T) {
	store := NewMemoryStore()

	assert.InDelta(t, domain.MinConfidence, store.SetConfidence(-1), 1e-9)
	assert.InDelta(t, domain.MaxConfidence, store.SetConfidence(2), 1e-9)
	assert.InDelta(t, 0.5, store.SetConfidence(0.5), 1e-9)
}

func TestMemoryStore_SnapshotIsolation(t *testing.T) {
	store := NewMemoryStore()
	store.Append(domain.NewTask("first"))

	snap := store.Snapshot()
	store.Append(domain.NewTask("second"))

	// The snapshot's task slice must not grow with the store.
	assert.Len(t, snap.Tasks, 1)
	assert.Equal(t, 2, store.Len())
}
