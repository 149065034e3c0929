package protocol

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/taskpilot/internal/domain"
)

func stateFixture() domain.State {
	task := domain.NewTask("demo")
	return domain.State{Tasks: []*domain.Task{task}, CurrentTask: task, Confidence: 0.55}
}

func TestParseAction(t *testing.T) {
	valid := []string{
		"create_task", "break_down", "mark_complete", "select_task",
		"get_suggestion", "edit_task", "delete_task", "clear_all", "retry",
	}
	for _, s := range valid {
		a, err := ParseAction(s)
		require.NoError(t, err, s)
		assert.Equal(t, s, string(a))
	}

	_, err := ParseAction("drop_tables")
	assert.Error(t, err)
	_, err = ParseAction("")
	assert.Error(t, err)
}

func TestToken_DecodesStringAndNumber(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Token
	}{
		{"string id", `{"input":"1712345","action":"select_task"}`, "1712345"},
		{"numeric id", `{"input":1712345,"action":"select_task"}`, "1712345"},
		{"uuid", `{"input":"6e1bfb6e-0001-4c00-9000-000000000000","action":"delete_task"}`, "6e1bfb6e-0001-4c00-9000-000000000000"},
		{"empty string", `{"input":"","action":"clear_all"}`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req Request
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &req))
			assert.Equal(t, tt.want, req.Input)
		})
	}
}

func TestToken_RejectsStructuredInput(t *testing.T) {
	var req Request
	err := json.Unmarshal([]byte(`{"input":{"nested":true},"action":"create_task"}`), &req)
	assert.Error(t, err)
}

func TestEditPayload_RoundTrip(t *testing.T) {
	// Both id encodings must produce the same payload.
	var a, b EditPayload
	require.NoError(t, json.Unmarshal([]byte(`{"taskId":"42","newText":"walk the dog"}`), &a))
	require.NoError(t, json.Unmarshal([]byte(`{"taskId":42,"newText":"walk the dog"}`), &b))
	assert.Equal(t, a, b)
	assert.Equal(t, Token("42"), a.TaskID)
}

func TestEnvelopes(t *testing.T) {
	resp := Response{Text: "Task completed!", Confidence: 0.95, Action: ResultTaskCompleted}

	env := ResponseEnvelope(resp, stateFixture())
	assert.Equal(t, TypeResponse, env.Type)
	require.NotNil(t, env.State)

	stateEnv := StateEnvelope(stateFixture())
	assert.Equal(t, TypeState, stateEnv.Type)
	assert.Nil(t, stateEnv.State)

	errEnv := ErrorEnvelope()
	assert.Equal(t, TypeError, errEnv.Type)
	data, ok := errEnv.Data.(Response)
	require.True(t, ok)
	assert.Equal(t, "Invalid input", data.Text)
	assert.InDelta(t, 0.1, data.Confidence, 1e-9)
	assert.True(t, data.IsError())
}

func TestEnvelope_JSONShape(t *testing.T) {
	resp := Response{Text: "Task \"demo\" created", Confidence: 0.55, Action: ResultTaskCreated, TaskID: "abc"}
	raw, err := json.Marshal(ResponseEnvelope(resp, stateFixture()))
	require.NoError(t, err)

	var decoded map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Contains(t, decoded, "type")
	assert.Contains(t, decoded, "data")
	assert.Contains(t, decoded, "state")

	var data map[string]any
	require.NoError(t, json.Unmarshal(decoded["data"], &data))
	assert.Equal(t, "task_created", data["action"])
	assert.NotContains(t, data, "subtasks", "empty subtasks must be omitted")
}
