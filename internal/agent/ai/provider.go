// Package ai abstracts the language model service. The rest of the system
// talks to the Provider interface; the concrete vendor protocol lives in
// api_openai.go only.
package ai

import (
	"context"
	"encoding/json"
)

// ToolCall represents a tool invocation requested by the model
type ToolCall struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Input json.RawMessage `json:"input"`
}

// ToolDefinition describes a tool available to the model
type ToolDefinition struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	InputSchema json.RawMessage `json:"input_schema"`
}

// Message is one turn in the working message list sent to the model.
// Role "tool" messages carry a ToolCallID linking back to the assistant
// turn that requested the call.
type Message struct {
	Role       string     `json:"role"` // user, assistant, tool
	Content    string     `json:"content,omitempty"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
}

// ChatRequest is a single model invocation
type ChatRequest struct {
	Messages  []Message        `json:"messages"`
	Tools     []ToolDefinition `json:"tools,omitempty"`
	System    string           `json:"system,omitempty"`
	Model     string           `json:"model,omitempty"`
	MaxTokens int              `json:"max_tokens,omitempty"`
}

// Completion is the model's reply: either final text, or a batch of tool
// calls to execute before asking again.
type Completion struct {
	Text      string     `json:"text,omitempty"`
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`
}

// Provider is the abstract model service
type Provider interface {
	// ID returns the provider identifier (e.g. "openai")
	ID() string

	// Complete sends the request and blocks until the model replies
	Complete(ctx context.Context, req *ChatRequest) (*Completion, error)
}

// ProviderError represents an error from a provider
type ProviderError struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

func (e *ProviderError) Error() string {
	return e.Message
}
