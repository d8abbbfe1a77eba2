// Package types holds the request and response shapes of the HTTP API.
package types

import (
	"encoding/json"
	"time"
)

// Auth

type RegisterRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expiresAt"` // unix milliseconds
	UserID    string `json:"userId"`
	Email     string `json:"email"`
	Name      string `json:"name"`
}

// Chat

type SendMessageRequest struct {
	Message        string `json:"message"`
	ConversationID string `json:"conversation_id,omitempty"`
}

// ToolCallView is one tool execution included in a chat response.
type ToolCallView struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
	Result    json.RawMessage `json:"result"`
}

type SendMessageResponse struct {
	ConversationID string         `json:"conversation_id"`
	Response       string         `json:"response"`
	ToolCalls      []ToolCallView `json:"tool_calls"`
	Timestamp      time.Time      `json:"timestamp"`
}

// Tasks

type CreateTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

type ListTasksRequest struct {
	Completed *bool `form:"completed"`
}

type TaskIDRequest struct {
	TaskID int64 `path:"id"`
}

type UpdateTaskRequest struct {
	TaskID      int64   `path:"id"`
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
}

type DeleteTaskResponse struct {
	Deleted bool  `json:"deleted"`
	TaskID  int64 `json:"task_id"`
}
