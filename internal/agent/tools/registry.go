// Package tools exposes the five task operations to the model as callable
// tools. The set is closed: dispatch is a switch over the tool name with a
// typed argument struct per tool, and the caller identity is always
// injected by the pipeline — a user_id inside model-generated arguments is
// ignored.
package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/taskpilot/taskpilot/internal/agent/ai"
	"github.com/taskpilot/taskpilot/internal/apperr"
	"github.com/taskpilot/taskpilot/internal/db"
	"github.com/taskpilot/taskpilot/internal/logging"
)

// Tool names, as presented to the model.
const (
	NameAddTask      = "add_task"
	NameListTasks    = "list_tasks"
	NameCompleteTask = "complete_task"
	NameDeleteTask   = "delete_task"
	NameUpdateTask   = "update_task"
)

// Result is what a tool execution feeds back to the model. Failures are
// results too: the model sees the error text and gets a chance to recover.
type Result struct {
	Content string `json:"content"`
	IsError bool   `json:"is_error,omitempty"`
}

// Registry executes task tools against the store.
type Registry struct {
	store *db.Store
}

// NewRegistry creates a registry bound to a store
func NewRegistry(store *db.Store) *Registry {
	return &Registry{store: store}
}

type addTaskArgs struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

type listTasksArgs struct {
	Completed *bool `json:"completed,omitempty"`
}

type taskIDArgs struct {
	TaskID int64 `json:"task_id"`
}

type updateTaskArgs struct {
	TaskID      int64   `json:"task_id"`
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
}

// Definitions returns the tool schemas advertised to the model.
func (r *Registry) Definitions() []ai.ToolDefinition {
	return []ai.ToolDefinition{
		{
			Name:        NameAddTask,
			Description: "Create a new task for the user. Title is required; description is optional.",
			InputSchema: json.RawMessage(`{
				"type": "object",
				"properties": {
					"title": {"type": "string", "description": "Task title (max 500 characters)"},
					"description": {"type": "string", "description": "Optional longer description"}
				},
				"required": ["title"]
			}`),
		},
		{
			Name:        NameListTasks,
			Description: "List the user's tasks, newest first. Optionally filter by completion status.",
			InputSchema: json.RawMessage(`{
				"type": "object",
				"properties": {
					"completed": {"type": "boolean", "description": "If set, only return tasks with this completion status"}
				}
			}`),
		},
		{
			Name:        NameCompleteTask,
			Description: "Toggle a task's completion status by id.",
			InputSchema: json.RawMessage(`{
				"type": "object",
				"properties": {
					"task_id": {"type": "integer", "description": "Id of the task to toggle"}
				},
				"required": ["task_id"]
			}`),
		},
		{
			Name:        NameDeleteTask,
			Description: "Delete a task by id.",
			InputSchema: json.RawMessage(`{
				"type": "object",
				"properties": {
					"task_id": {"type": "integer", "description": "Id of the task to delete"}
				},
				"required": ["task_id"]
			}`),
		},
		{
			Name:        NameUpdateTask,
			Description: "Update a task's title and/or description by id. Only provided fields change.",
			InputSchema: json.RawMessage(`{
				"type": "object",
				"properties": {
					"task_id": {"type": "integer", "description": "Id of the task to update"},
					"title": {"type": "string", "description": "New title"},
					"description": {"type": "string", "description": "New description"}
				},
				"required": ["task_id"]
			}`),
		},
	}
}

// Execute runs a tool call for the given user and returns the result to
// feed back to the model. Never returns an error: store failures and bad
// arguments become error results.
func (r *Registry) Execute(ctx context.Context, userID string, call *ai.ToolCall) *Result {
	result, err := r.dispatch(ctx, userID, call)
	if err != nil {
		logging.Errorf("[tools] %s failed: %v", call.Name, err)
		return errorResult(err)
	}
	return result
}

func (r *Registry) dispatch(ctx context.Context, userID string, call *ai.ToolCall) (*Result, error) {
	switch call.Name {
	case NameAddTask:
		var args addTaskArgs
		if err := json.Unmarshal(call.Input, &args); err != nil {
			return nil, fmt.Errorf("invalid arguments: %w", err)
		}
		task, err := r.store.AddTask(ctx, userID, args.Title, args.Description)
		if err != nil {
			return nil, err
		}
		return jsonResult(task)

	case NameListTasks:
		var args listTasksArgs
		if err := json.Unmarshal(call.Input, &args); err != nil {
			return nil, fmt.Errorf("invalid arguments: %w", err)
		}
		tasks, err := r.store.ListTasks(ctx, userID, args.Completed)
		if err != nil {
			return nil, err
		}
		return jsonResult(tasks)

	case NameCompleteTask:
		var args taskIDArgs
		if err := json.Unmarshal(call.Input, &args); err != nil {
			return nil, fmt.Errorf("invalid arguments: %w", err)
		}
		task, err := r.store.ToggleTask(ctx, userID, args.TaskID)
		if err != nil {
			return nil, err
		}
		return jsonResult(task)

	case NameDeleteTask:
		var args taskIDArgs
		if err := json.Unmarshal(call.Input, &args); err != nil {
			return nil, fmt.Errorf("invalid arguments: %w", err)
		}
		if err := r.store.DeleteTask(ctx, userID, args.TaskID); err != nil {
			return nil, err
		}
		return jsonResult(map[string]any{"deleted": true, "task_id": args.TaskID})

	case NameUpdateTask:
		var args updateTaskArgs
		if err := json.Unmarshal(call.Input, &args); err != nil {
			return nil, fmt.Errorf("invalid arguments: %w", err)
		}
		task, err := r.store.UpdateTask(ctx, userID, args.TaskID, args.Title, args.Description)
		if err != nil {
			return nil, err
		}
		return jsonResult(task)

	default:
		return nil, fmt.Errorf("unknown tool: %s", call.Name)
	}
}

func jsonResult(v any) (*Result, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return &Result{Content: string(data)}, nil
}

// errorResult converts a failure into a tool result. Store internals stay
// in the log; the model only sees sanitized messages.
func errorResult(err error) *Result {
	message := "tool execution failed"
	if e, ok := apperr.As(err); ok {
		message = e.Message
	}
	data, _ := json.Marshal(map[string]string{"error": message})
	return &Result{Content: string(data), IsError: true}
}
