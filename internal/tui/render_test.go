package tui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResponseTextCapsAt120(t *testing.T) {
	long := strings.Repeat("a", 200)
	got := ResponseText(long)
	assert.Len(t, got, MaxResponseLen)

	short := "Task created"
	assert.Equal(t, short, ResponseText(short))
}

func TestCharCounter(t *testing.T) {
	assert.Equal(t, "5/120 chars", CharCounter("hello"))

	// Counter reflects the displayed length, not the raw one.
	long := strings.Repeat("x", 500)
	assert.Equal(t, "120/120 chars", CharCounter(long))
}

func TestShowReason(t *testing.T) {
	tests := []struct {
		name       string
		confidence float64
		want       bool
	}{
		{"low confidence shows reason", 0.2, true},
		{"just under low bound", 0.59, true},
		{"low bound itself hidden", 0.6, false},
		{"mid range hidden", 0.75, false},
		{"high bound itself hidden", 0.9, false},
		{"above high bound shows reason", 0.95, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ShowReason(tt.confidence))
		})
	}
}

func TestReasonTextCapsAt80(t *testing.T) {
	long := strings.Repeat("r", 300)
	assert.Len(t, ReasonText(long), MaxReasonLen)
	assert.Equal(t, "short reason", ReasonText("short reason"))
}

func TestConfidenceColorBands(t *testing.T) {
	assert.Equal(t, colorLow, ConfidenceColor(0.1))
	assert.Equal(t, colorLow, ConfidenceColor(0.29))
	assert.Equal(t, colorMid, ConfidenceColor(0.3))
	assert.Equal(t, colorMid, ConfidenceColor(0.69))
	assert.Equal(t, colorHigh, ConfidenceColor(0.7))
	assert.Equal(t, colorHigh, ConfidenceColor(0.95))
}

func TestConfidenceBar(t *testing.T) {
	bar := ConfidenceBar(0.5, 10)
	assert.Contains(t, bar, "50%")
	assert.Equal(t, 5, strings.Count(bar, "█"))
	assert.Equal(t, 5, strings.Count(bar, "░"))

	full := ConfidenceBar(1.0, 10)
	assert.Contains(t, full, "100%")
	assert.Equal(t, 10, strings.Count(full, "█"))

	// Width never goes below one cell.
	assert.NotEmpty(t, ConfidenceBar(0.5, 0))
}
