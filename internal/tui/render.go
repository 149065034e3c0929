package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rcliao/taskpilot/internal/domain"
)

// Display constraints. Response text is capped at 120 characters with a
// visible counter; rationale is capped at 80 and only shown when the
// confidence is notably low or high.
const (
	MaxResponseLen = 120
	MaxReasonLen   = 80

	reasonLowBound  = 0.6
	reasonHighBound = 0.9
)

// Confidence meter band edges: red below 0.3, yellow below 0.7, green
// above.
const (
	bandWarn = 0.3
	bandGood = 0.7
)

var (
	colorLow  = lipgloss.Color("#e74c3c")
	colorMid  = lipgloss.Color("#f39c12")
	colorHigh = lipgloss.Color("#27ae60")
	colorDim  = lipgloss.Color("240")
)

// ResponseText applies the 120-character display cap.
func ResponseText(text string) string {
	return domain.Truncate(text, MaxResponseLen)
}

// CharCounter renders the "<len>/120 chars" indicator for a response.
func CharCounter(text string) string {
	return fmt.Sprintf("%d/%d chars", len(ResponseText(text)), MaxResponseLen)
}

// ShowReason reports whether the rationale should be displayed for the
// given confidence.
func ShowReason(confidence float64) bool {
	return confidence < reasonLowBound || confidence > reasonHighBound
}

// ReasonText applies the 80-character rationale cap.
func ReasonText(reason string) string {
	return domain.Truncate(reason, MaxReasonLen)
}

// ConfidenceColor picks the meter color for a confidence band.
func ConfidenceColor(confidence float64) lipgloss.Color {
	switch {
	case confidence < bandWarn:
		return colorLow
	case confidence < bandGood:
		return colorMid
	default:
		return colorHigh
	}
}

// ConfidenceBar renders a fixed-width meter plus percentage label.
func ConfidenceBar(confidence float64, width int) string {
	if width < 1 {
		width = 1
	}

	filled := int(confidence*float64(width) + 0.5)
	if filled > width {
		filled = width
	}

	bar := lipgloss.NewStyle().Foreground(ConfidenceColor(confidence)).
		Render(strings.Repeat("█", filled))
	rest := lipgloss.NewStyle().Foreground(colorDim).
		Render(strings.Repeat("░", width-filled))

	return fmt.Sprintf("%s%s %d%%", bar, rest, int(confidence*100+0.5))
}
