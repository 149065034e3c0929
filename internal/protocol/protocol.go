// Package protocol defines the wire envelopes exchanged between the
// server and its clients, and the closed set of actions a client may
// request.
package protocol

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/rcliao/taskpilot/internal/domain"
)

// Action is a client-requested operation. The set is closed: dispatch
// switches over it exhaustively and anything else is answered with the
// fixed unknown-action response.
type Action string

const (
	ActionCreateTask    Action = "create_task"
	ActionBreakDown     Action = "break_down"
	ActionMarkComplete  Action = "mark_complete"
	ActionSelectTask    Action = "select_task"
	ActionGetSuggestion Action = "get_suggestion"
	ActionEditTask      Action = "edit_task"
	ActionDeleteTask    Action = "delete_task"
	ActionClearAll      Action = "clear_all"
	ActionRetry         Action = "retry"
)

// ParseAction validates an inbound action string.
func ParseAction(s string) (Action, error) {
	switch a := Action(s); a {
	case ActionCreateTask, ActionBreakDown, ActionMarkComplete, ActionSelectTask,
		ActionGetSuggestion, ActionEditTask, ActionDeleteTask, ActionClearAll, ActionRetry:
		return a, nil
	default:
		return "", fmt.Errorf("unknown action %q", s)
	}
}

// Token is an opaque comparable value carried in a request's input
// field. Browser clients historically sent task ids as JSON numbers and
// strings interchangeably, so both forms decode to the same token.
type Token string

func (t *Token) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*t = Token(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*t = Token(n.String())
		return nil
	}

	return fmt.Errorf("input must be a string or number, got %s", data)
}

func (t Token) String() string { return string(t) }

// Quote renders the token the way it arrived, for diagnostics.
func (t Token) Quote() string { return strconv.Quote(string(t)) }

// Request is the client-to-server message. For edit_task the input is
// itself a serialized EditPayload.
type Request struct {
	Input  Token  `json:"input"`
	Action string `json:"action"`
}

// EditPayload is the input of an edit_task request.
type EditPayload struct {
	TaskID  Token  `json:"taskId"`
	NewText string `json:"newText"`
}

// ResultKind tags an operation's outcome in the response data.
type ResultKind string

const (
	ResultTaskCreated       ResultKind = "task_created"
	ResultTaskSelected      ResultKind = "task_selected"
	ResultTaskCompleted     ResultKind = "task_completed"
	ResultTaskDeleted       ResultKind = "task_deleted"
	ResultTaskUpdated       ResultKind = "task_updated"
	ResultSubtasksGenerated ResultKind = "subtasks_generated"
	ResultTasksCleared      ResultKind = "tasks_cleared"
	ResultRetry             ResultKind = "retry"
	ResultError             ResultKind = "error"
)

// Response is the per-operation payload carried in an envelope.
type Response struct {
	Text       string           `json:"text"`
	Confidence float64          `json:"confidence"`
	Action     ResultKind       `json:"action"`
	TaskID     string           `json:"taskId,omitempty"`
	Subtasks   []domain.Subtask `json:"subtasks,omitempty"`
	Reason     string           `json:"reason,omitempty"`
}

// IsError reports whether the response describes a recoverable failure.
func (r Response) IsError() bool { return r.Action == ResultError }

// Envelope types on the server-to-client channel.
const (
	TypeResponse = "response"
	TypeState    = "state"
	TypeError    = "error"
)

// Envelope is the server-to-client message. State rides along with every
// operation response so clients can render without tracking deltas.
type Envelope struct {
	Type  string        `json:"type"`
	Data  any           `json:"data"`
	State *domain.State `json:"state,omitempty"`
}

// ResponseEnvelope wraps an operation result with the store snapshot.
func ResponseEnvelope(resp Response, state domain.State) Envelope {
	return Envelope{Type: TypeResponse, Data: resp, State: &state}
}

// StateEnvelope carries a bare store snapshot, sent on connect.
func StateEnvelope(state domain.State) Envelope {
	return Envelope{Type: TypeState, Data: state}
}

// ErrorEnvelope is the answer to a frame that could not be parsed at
// all. The connection stays usable afterwards.
func ErrorEnvelope() Envelope {
	return Envelope{Type: TypeError, Data: Response{
		Text:       "Invalid input",
		Confidence: 0.1,
		Action:     ResultError,
	}}
}

// Inbound is an envelope as decoded on the client side, where Data's
// shape depends on Type.
type Inbound struct {
	Type  string          `json:"type"`
	Data  json.RawMessage `json:"data"`
	State *domain.State   `json:"state"`
}

// Response decodes the data payload of a response or error envelope.
func (in Inbound) Response() (Response, error) {
	var resp Response
	if err := json.Unmarshal(in.Data, &resp); err != nil {
		return Response{}, fmt.Errorf("decode response data: %w", err)
	}
	return resp, nil
}

// StateData decodes the data payload of a state envelope.
func (in Inbound) StateData() (domain.State, error) {
	var state domain.State
	if err := json.Unmarshal(in.Data, &state); err != nil {
		return domain.State{}, fmt.Errorf("decode state data: %w", err)
	}
	return state, nil
}
