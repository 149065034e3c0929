package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBreakdown_KeywordDispatch(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"project keyword", "kick off the migration project", []string{"Plan requirements", "Design solution", "Implement", "Test & deploy"}},
		{"build keyword", "build a landing page", []string{"Plan requirements", "Design solution", "Implement", "Test & deploy"}},
		{"research keyword", "research caching strategies", []string{"Define scope", "Gather sources", "Analyze data", "Write summary"}},
		{"study keyword", "study the onboarding funnel", []string{"Define scope", "Gather sources", "Analyze data", "Write summary"}},
		{"meeting keyword", "prep the quarterly meeting", []string{"Set agenda", "Prepare materials", "Schedule time", "Follow up"}},
		{"presentation keyword", "draft the sales presentation", []string{"Set agenda", "Prepare materials", "Schedule time", "Follow up"}},
		{"fallback", "water the plants", []string{"Start task", "Make progress", "Review work", "Complete"}},
		{"case insensitive", "RESEARCH Vector Databases", []string{"Define scope", "Gather sources", "Analyze data", "Write summary"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			subtasks := Breakdown(tt.text)

			assert.Len(t, subtasks, 4)
			for i, st := range subtasks {
				assert.Equal(t, i+1, st.ID)
				assert.Equal(t, tt.want[i], st.Text)
				assert.False(t, st.Completed)
			}
		})
	}
}

func TestBreakdown_Deterministic(t *testing.T) {
	first := Breakdown("research vector databases")
	for range 5 {
		assert.Equal(t, first, Breakdown("research vector databases"))
	}
}

func TestSuggest_DrawsFromPool(t *testing.T) {
	pool := Suggestions()
	assert.Len(t, pool, 6)

	for range 50 {
		assert.Contains(t, pool, Suggest())
	}
}

func TestSuggestions_ReturnsCopy(t *testing.T) {
	first := Suggestions()
	first[0] = "mutated"
	assert.NotEqual(t, "mutated", Suggestions()[0])
}
