// Package planner decomposes tasks into fixed step templates and offers
// the canned task suggestions. Dispatch is pure keyword matching so the
// same text always produces the same plan.
package planner

import (
	"math/rand"
	"strings"

	"github.com/rcliao/taskpilot/internal/domain"
)

var (
	buildSteps    = []string{"Plan requirements", "Design solution", "Implement", "Test & deploy"}
	researchSteps = []string{"Define scope", "Gather sources", "Analyze data", "Write summary"}
	meetingSteps  = []string{"Set agenda", "Prepare materials", "Schedule time", "Follow up"}
	genericSteps  = []string{"Start task", "Make progress", "Review work", "Complete"}
)

// Breakdown returns the four-step plan for a task. The returned subtasks
// carry fresh 1-based ids and replace whatever plan the task had before;
// prior completion state is deliberately discarded.
func Breakdown(taskText string) []domain.Subtask {
	keywords := strings.ToLower(taskText)

	var steps []string
	switch {
	case strings.Contains(keywords, "project") || strings.Contains(keywords, "build"):
		steps = buildSteps
	case strings.Contains(keywords, "research") || strings.Contains(keywords, "study"):
		steps = researchSteps
	case strings.Contains(keywords, "meeting") || strings.Contains(keywords, "presentation"):
		steps = meetingSteps
	default:
		steps = genericSteps
	}

	subtasks := make([]domain.Subtask, len(steps))
	for i, text := range steps {
		subtasks[i] = domain.Subtask{ID: i + 1, Text: text}
	}
	return subtasks
}

var suggestions = []string{
	"Review and prioritize pending tasks",
	"Schedule focused work blocks",
	"Update project documentation",
	"Plan next week activities",
	"Organize workspace and files",
	"Follow up on pending communications",
}

// SuggestionConfidence is assigned to suggested tasks instead of a scorer
// call. Canned text would always score the same, so the constant is kept
// explicit.
const SuggestionConfidence = 0.7

// Suggest picks one of the canned suggestions uniformly at random.
func Suggest() string {
	return suggestions[rand.Intn(len(suggestions))]
}

// Suggestions returns the full suggestion pool in fixed order.
func Suggestions() []string {
	out := make([]string, len(suggestions))
	copy(out, suggestions)
	return out
}
