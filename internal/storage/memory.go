package storage

import (
	"fmt"
	"sync"

	"github.com/rcliao/taskpilot/internal/domain"
)

// MemoryStore holds one session's task list, current-task pointer, and
// last confidence value. Tasks keep insertion order; nothing is ever
// persisted. The current pointer always references a task that is still
// in the list, or is nil.
type MemoryStore struct {
	mu         sync.RWMutex
	tasks      []*domain.Task
	current    *domain.Task
	confidence float64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		tasks:      make([]*domain.Task, 0),
		confidence: domain.DefaultConfidence,
	}
}

// Append adds a task at the end of the list.
func (ms *MemoryStore) Append(task *domain.Task) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.tasks = append(ms.tasks, task)
}

// Get returns the task with the given id.
func (ms *MemoryStore) Get(id string) (*domain.Task, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	for _, task := range ms.tasks {
		if task.ID == id {
			return task, nil
		}
	}
	return nil, fmt.Errorf("task with ID %s not found", id)
}

// Delete removes the task with the given id, clearing the current
// pointer if it referenced the removed task.
func (ms *MemoryStore) Delete(id string) (*domain.Task, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	for i, task := range ms.tasks {
		if task.ID == id {
			ms.tasks = append(ms.tasks[:i], ms.tasks[i+1:]...)
			if ms.current != nil && ms.current.ID == id {
				ms.current = nil
			}
			return task, nil
		}
	}
	return nil, fmt.Errorf("task with ID %s not found", id)
}

// Clear empties the list, drops the current pointer, and resets
// confidence to its default.
func (ms *MemoryStore) Clear() {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.tasks = make([]*domain.Task, 0)
	ms.current = nil
	ms.confidence = domain.DefaultConfidence
}

// SetCurrent marks a task as the current one. The task must already be
// in the list.
func (ms *MemoryStore) SetCurrent(task *domain.Task) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.current = task
}

// Current returns the current task, or nil.
func (ms *MemoryStore) Current() *domain.Task {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	return ms.current
}

// Confidence returns the store's last confidence value.
func (ms *MemoryStore) Confidence() float64 {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	return ms.confidence
}

// SetConfidence stores a confidence value, clamped to the legal range.
func (ms *MemoryStore) SetConfidence(c float64) float64 {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.confidence = domain.ClampConfidence(c)
	return ms.confidence
}

// Len returns the number of tasks in the store.
func (ms *MemoryStore) Len() int {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	return len(ms.tasks)
}

// Snapshot returns the store state for serialization. Task pointers are
// shared, not copied; callers must not mutate through the snapshot.
func (ms *MemoryStore) Snapshot() domain.State {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	tasks := make([]*domain.Task, len(ms.tasks))
	copy(tasks, ms.tasks)

	return domain.State{
		Tasks:       tasks,
		CurrentTask: ms.current,
		Confidence:  ms.confidence,
	}
}
