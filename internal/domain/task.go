package domain

import (
	"time"

	"github.com/google/uuid"
)

// MaxTaskTextLen is the hard cap on stored task text. Longer input is
// truncated, never rejected.
const MaxTaskTextLen = 100

// Confidence bounds for store state. Operations clamp into this range.
const (
	MinConfidence     = 0.1
	MaxConfidence     = 0.95
	DefaultConfidence = 0.8
)

// Flag marks a property the scorer detected on the task text.
type Flag string

const (
	FlagMalformed     Flag = "malformed"
	FlagContradictory Flag = "contradictory"
	FlagUnsafe        Flag = "unsafe"
	FlagOverbroad     Flag = "overbroad"
	FlagVague         Flag = "vague"
	FlagComplex       Flag = "complex"
)

type Task struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Subtasks  []Subtask `json:"subtasks"`
	Completed bool      `json:"completed"`
	Suggested bool      `json:"suggested,omitempty"`
	Flags     []Flag    `json:"flags,omitempty"`
	CreatedAt time.Time `json:"created"`
}

// Subtask is one step of a decomposed task. IDs are 1-based positions
// within the owning task, reassigned on every breakdown.
type Subtask struct {
	ID        int    `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

func NewTask(text string) *Task {
	return &Task{
		ID:        uuid.New().String(),
		Text:      Truncate(text, MaxTaskTextLen),
		Subtasks:  make([]Subtask, 0),
		CreatedAt: time.Now(),
	}
}

// State is the full store snapshot sent to clients alongside every
// response. CurrentTask is nil when no task is selected.
type State struct {
	Tasks       []*Task `json:"tasks"`
	CurrentTask *Task   `json:"currentTask"`
	Confidence  float64 `json:"confidence"`
}

// ClampConfidence bounds a confidence value into the store's legal range.
func ClampConfidence(c float64) float64 {
	if c < MinConfidence {
		return MinConfidence
	}
	if c > MaxConfidence {
		return MaxConfidence
	}
	return c
}

// Truncate cuts s to at most n bytes. Task text is plain ASCII in
// practice; the cut is total, not word-rounded.
func Truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
