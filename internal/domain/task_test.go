package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewTask(t *testing.T) {
	task := NewTask("Write release notes")

	assert.NotEmpty(t, task.ID)
	assert.Equal(t, "Write release notes", task.Text)
	assert.NotNil(t, task.Subtasks)
	assert.Empty(t, task.Subtasks)
	assert.False(t, task.Completed)
	assert.False(t, task.Suggested)
	assert.NotZero(t, task.CreatedAt)
}

func TestNewTask_TruncatesText(t *testing.T) {
	long := strings.Repeat("x", 250)
	task := NewTask(long)

	assert.Len(t, task.Text, MaxTaskTextLen)
	assert.Equal(t, long[:MaxTaskTextLen], task.Text)
}

func TestNewTask_UniqueIDs(t *testing.T) {
	seen := make(map[string]bool)
	for range 50 {
		seen[NewTask("same text").ID] = true
	}
	assert.Len(t, seen, 50)
}

func TestClampConfidence(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{"below floor", -0.5, MinConfidence},
		{"at floor", 0.1, 0.1},
		{"in range", 0.62, 0.62},
		{"at ceiling", 0.95, 0.95},
		{"above ceiling", 1.3, MaxConfidence},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ClampConfidence(tt.in), 1e-9)
		})
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abc", 5))
	assert.Equal(t, "abcde", Truncate("abcdef", 5))
	assert.Equal(t, "", Truncate("", 5))
}
