// Package agent implements the task store operations. Every operation
// is a synchronous computation over in-memory state that returns a
// response record; user-facing failures come back as error-kind
// responses, never as Go errors.
package agent

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/rcliao/taskpilot/internal/domain"
	"github.com/rcliao/taskpilot/internal/planner"
	"github.com/rcliao/taskpilot/internal/protocol"
	"github.com/rcliao/taskpilot/internal/scorer"
	"github.com/rcliao/taskpilot/internal/storage"
)

// Fixed confidence constants of operations that do not call the scorer.
// Kept as constants on purpose; see the suggestion note in planner.
const (
	completeConfidence = 0.95
	deleteConfidence   = 0.9
	editConfidence     = 0.8
	selectConfidence   = 0.7
	retryCeiling       = 0.9
	retryStep          = 0.1

	minTaskTextLen = 3
)

// Agent owns one session's store and applies operations to it. Callers
// must invoke operations serially; the agent itself does not queue.
type Agent struct {
	store   *storage.MemoryStore
	suggest func() string
	log     zerolog.Logger
}

func New(log zerolog.Logger) *Agent {
	return &Agent{
		store:   storage.NewMemoryStore(),
		suggest: planner.Suggest,
		log:     log,
	}
}

// State returns the current store snapshot.
func (a *Agent) State() domain.State {
	return a.store.Snapshot()
}

// Process maps one request to a store operation. The action set is
// closed; anything outside it gets the fixed unknown-action response.
func (a *Agent) Process(req protocol.Request) protocol.Response {
	action, err := protocol.ParseAction(req.Action)
	if err != nil {
		a.log.Debug().Str("action", req.Action).Msg("unknown action")
		return protocol.Response{Text: "Unknown action", Confidence: 0.3, Action: protocol.ResultError}
	}

	a.log.Debug().Str("action", string(action)).Msg("dispatching")

	switch action {
	case protocol.ActionCreateTask:
		return a.CreateTask(req.Input.String())
	case protocol.ActionBreakDown:
		return a.BreakDownTask(req.Input.String())
	case protocol.ActionMarkComplete:
		return a.MarkComplete(req.Input.String())
	case protocol.ActionSelectTask:
		return a.SelectTask(req.Input.String())
	case protocol.ActionGetSuggestion:
		return a.GetSuggestion()
	case protocol.ActionEditTask:
		return a.EditTask(req.Input.String())
	case protocol.ActionDeleteTask:
		return a.DeleteTask(req.Input.String())
	case protocol.ActionClearAll:
		return a.ClearAll()
	case protocol.ActionRetry:
		return a.Retry()
	}

	// Unreachable: ParseAction admits only the cases above.
	return protocol.Response{Text: "Unknown action", Confidence: 0.3, Action: protocol.ResultError}
}

// CreateTask appends a user-authored task. Text under three characters
// or text the scorer hard-rejects produces an error response and leaves
// the store untouched.
func (a *Agent) CreateTask(text string) protocol.Response {
	trimmed := strings.TrimSpace(text)
	if len(trimmed) < minTaskTextLen {
		return protocol.Response{
			Text:       "Task too short",
			Confidence: 0.2,
			Action:     protocol.ResultError,
			Reason:     "Insufficient task description",
		}
	}

	analysis := scorer.Analyze(trimmed)
	if analysis.HardRejected() {
		return protocol.Response{
			Text:       analysis.Reason,
			Confidence: analysis.Confidence,
			Action:     protocol.ResultError,
			Reason:     analysis.Reason,
		}
	}

	task := domain.NewTask(trimmed)
	task.Flags = analysis.Flags
	a.store.Append(task)
	a.store.SetCurrent(task)
	confidence := a.store.SetConfidence(analysis.Confidence)

	return protocol.Response{
		Text:       fmt.Sprintf("Task %q created", task.Text),
		Confidence: confidence,
		Action:     protocol.ResultTaskCreated,
		TaskID:     task.ID,
		Reason:     analysis.Reason,
	}
}

// GetSuggestion creates a task from the canned suggestion pool. The
// confidence is a fixed constant rather than a scorer call.
func (a *Agent) GetSuggestion() protocol.Response {
	text := a.suggest()

	task := domain.NewTask(text)
	task.Suggested = true
	a.store.Append(task)
	confidence := a.store.SetConfidence(planner.SuggestionConfidence)

	return protocol.Response{
		Text:       fmt.Sprintf("Added: %q", text),
		Confidence: confidence,
		Action:     protocol.ResultTaskCreated,
		TaskID:     task.ID,
	}
}

// MarkComplete completes a task and every one of its subtasks, and drops
// its suggested flag.
func (a *Agent) MarkComplete(id string) protocol.Response {
	task, err := a.store.Get(id)
	if err != nil {
		return taskNotFound()
	}

	task.Completed = true
	for i := range task.Subtasks {
		task.Subtasks[i].Completed = true
	}
	task.Suggested = false
	confidence := a.store.SetConfidence(completeConfidence)

	return protocol.Response{
		Text:       "Task completed!",
		Confidence: confidence,
		Action:     protocol.ResultTaskCompleted,
		TaskID:     task.ID,
		Reason:     "Task marked as complete",
	}
}

// DeleteTask removes a task. The store clears the current pointer if it
// referenced the removed task.
func (a *Agent) DeleteTask(id string) protocol.Response {
	task, err := a.store.Delete(id)
	if err != nil {
		return taskNotFound()
	}

	confidence := a.store.SetConfidence(deleteConfidence)

	return protocol.Response{
		Text:       fmt.Sprintf("Deleted: %q...", domain.Truncate(task.Text, 50)),
		Confidence: confidence,
		Action:     protocol.ResultTaskDeleted,
	}
}

// EditTask replaces a task's text. The input is a serialized
// {taskId, newText} pair.
func (a *Agent) EditTask(input string) protocol.Response {
	var payload protocol.EditPayload
	if err := json.Unmarshal([]byte(input), &payload); err != nil {
		a.log.Debug().Err(err).Msg("bad edit payload")
		return protocol.Response{Text: "Invalid input", Confidence: 0.1, Action: protocol.ResultError}
	}

	task, err := a.store.Get(payload.TaskID.String())
	if err != nil {
		return taskNotFound()
	}

	if len(strings.TrimSpace(payload.NewText)) < minTaskTextLen {
		return protocol.Response{Text: "Task text too short", Confidence: 0.2, Action: protocol.ResultError}
	}

	task.Text = domain.Truncate(strings.TrimSpace(payload.NewText), domain.MaxTaskTextLen)
	confidence := a.store.SetConfidence(editConfidence)

	return protocol.Response{
		Text:       fmt.Sprintf("Updated: %q", task.Text),
		Confidence: confidence,
		Action:     protocol.ResultTaskUpdated,
		TaskID:     task.ID,
	}
}

// BreakDownTask replaces a task's subtasks with a fresh four-step plan
// and rescores confidence. Prior subtask completion state is discarded.
func (a *Agent) BreakDownTask(id string) protocol.Response {
	task, err := a.store.Get(id)
	if err != nil {
		return taskNotFound()
	}

	subtasks := planner.Breakdown(task.Text)
	task.Subtasks = subtasks

	confidence := scorer.BreakdownConfidence(task.Text, len(subtasks))
	if task.Suggested {
		// First breakdown of a suggestion earns a planning boost.
		task.Suggested = false
		confidence = min(0.8, confidence+0.2)
	}

	a.store.SetCurrent(task)
	confidence = a.store.SetConfidence(confidence)

	return protocol.Response{
		Text:       fmt.Sprintf("%d steps planned. %s", len(subtasks), scorer.BreakdownReason(confidence)),
		Confidence: confidence,
		Action:     protocol.ResultSubtasksGenerated,
		TaskID:     task.ID,
		Subtasks:   subtasks,
		Reason:     scorer.BreakdownReason(confidence),
	}
}

// SelectTask marks a task as current without mutating it.
func (a *Agent) SelectTask(id string) protocol.Response {
	task, err := a.store.Get(id)
	if err != nil {
		return taskNotFound()
	}

	a.store.SetCurrent(task)
	confidence := a.store.SetConfidence(selectConfidence)

	return protocol.Response{
		Text:       fmt.Sprintf("Selected: %q...", domain.Truncate(task.Text, 60)),
		Confidence: confidence,
		Action:     protocol.ResultTaskSelected,
		TaskID:     task.ID,
		Reason:     "Task selected for review",
	}
}

// ClearAll empties the store and resets confidence to its default.
func (a *Agent) ClearAll() protocol.Response {
	a.store.Clear()

	return protocol.Response{
		Text:       "All tasks cleared",
		Confidence: a.store.Confidence(),
		Action:     protocol.ResultTasksCleared,
	}
}

// Retry nudges confidence toward its ceiling without touching tasks.
func (a *Agent) Retry() protocol.Response {
	confidence := a.store.SetConfidence(min(retryCeiling, a.store.Confidence()+retryStep))

	return protocol.Response{
		Text:       "Ready to try again",
		Confidence: confidence,
		Action:     protocol.ResultRetry,
	}
}

func taskNotFound() protocol.Response {
	return protocol.Response{
		Text:       "Task not found",
		Confidence: 0.1,
		Action:     protocol.ResultError,
		Reason:     "Invalid task ID",
	}
}
