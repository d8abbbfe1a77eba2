// Package runner drives the bounded tool-calling loop against the model.
// One Run handles one chat request; the runner keeps no state between
// requests.
package runner

import (
	"context"
	"encoding/json"

	"github.com/taskpilot/taskpilot/internal/agent/ai"
	"github.com/taskpilot/taskpilot/internal/agent/tools"
	"github.com/taskpilot/taskpilot/internal/apperr"
	"github.com/taskpilot/taskpilot/internal/logging"
)

// ToolCallRecord is one executed tool call, returned to the chat client.
type ToolCallRecord struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
	Result    json.RawMessage `json:"result"`
}

// Result is the outcome of a completed run.
type Result struct {
	Text      string
	ToolCalls []ToolCallRecord
}

// Runner executes the request/tool-call/tool-result loop.
type Runner struct {
	provider  ai.Provider
	tools     *tools.Registry
	maxRounds int
}

// DefaultMaxRounds bounds the loop when config supplies nothing.
const DefaultMaxRounds = 5

// New creates a runner. maxRounds <= 0 falls back to DefaultMaxRounds.
func New(provider ai.Provider, registry *tools.Registry, maxRounds int) *Runner {
	if maxRounds <= 0 {
		maxRounds = DefaultMaxRounds
	}
	return &Runner{
		provider:  provider,
		tools:     registry,
		maxRounds: maxRounds,
	}
}

// Run drives the loop until the model answers with plain text, the round
// cap is hit, or ctx expires. history must already end with the new user
// message. Tool executions commit immediately; a later timeout does not
// roll them back.
//
// Errors: a failed model call or an exhausted round cap is an upstream
// error (the caller maps it to 503); a ctx deadline surfaces as ctx.Err().
// Tool failures never abort the run — they are fed back to the model as
// error results.
func (r *Runner) Run(ctx context.Context, userID string, history []ai.Message) (*Result, error) {
	if r.provider == nil {
		return nil, apperr.Upstream("no model service configured")
	}

	working := make([]ai.Message, len(history))
	copy(working, history)

	var records []ToolCallRecord

	for round := 0; round < r.maxRounds; round++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		completion, err := r.provider.Complete(ctx, &ai.ChatRequest{
			Messages: working,
			Tools:    r.tools.Definitions(),
			System:   SystemPrompt(),
		})
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			logging.Errorf("[runner] model call failed: %v", err)
			return nil, apperr.Upstream("").WithCause(err)
		}

		if len(completion.ToolCalls) == 0 {
			return &Result{Text: completion.Text, ToolCalls: records}, nil
		}

		// One assistant turn carrying the batch, then one tool turn per call,
		// executed sequentially with the caller identity injected.
		working = append(working, ai.Message{
			Role:      "assistant",
			Content:   completion.Text,
			ToolCalls: completion.ToolCalls,
		})

		for i := range completion.ToolCalls {
			call := &completion.ToolCalls[i]
			logging.Infof("[runner] executing tool %s (round %d)", call.Name, round+1)

			result := r.tools.Execute(ctx, userID, call)
			records = append(records, ToolCallRecord{
				Name:      call.Name,
				Arguments: call.Input,
				Result:    json.RawMessage(result.Content),
			})
			working = append(working, ai.Message{
				Role:       "tool",
				Content:    result.Content,
				ToolCallID: call.ID,
			})
		}
	}

	logging.Errorf("[runner] exceeded %d tool rounds without a final answer", r.maxRounds)
	return nil, apperr.Upstream("model did not produce a final answer")
}
