package runner

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/taskpilot/taskpilot/internal/agent/ai"
	"github.com/taskpilot/taskpilot/internal/agent/tools"
	"github.com/taskpilot/taskpilot/internal/apperr"
	"github.com/taskpilot/taskpilot/internal/db"
	"github.com/taskpilot/taskpilot/internal/logging"
)

// scriptedProvider replays a fixed sequence of completions, recording every
// request it receives.
type scriptedProvider struct {
	replies  []*ai.Completion
	err      error
	requests []*ai.ChatRequest
}

func (p *scriptedProvider) ID() string { return "scripted" }

func (p *scriptedProvider) Complete(ctx context.Context, req *ai.ChatRequest) (*ai.Completion, error) {
	p.requests = append(p.requests, req)
	if p.err != nil {
		return nil, p.err
	}
	if len(p.replies) == 0 {
		return nil, errors.New("script exhausted")
	}
	reply := p.replies[0]
	p.replies = p.replies[1:]
	return reply, nil
}

func newTestEnv(t *testing.T) (*db.Store, *tools.Registry, string) {
	t.Helper()
	logging.Disable()
	store, err := db.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	user, err := store.CreateUser(context.Background(), "a@example.com", "Test User", "not-a-real-hash")
	if err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return store, tools.NewRegistry(store), user.ID
}

func userTurn(content string) []ai.Message {
	return []ai.Message{{Role: "user", Content: content}}
}

func TestRun_PlainTextResponse(t *testing.T) {
	_, registry, userID := newTestEnv(t)
	provider := &scriptedProvider{replies: []*ai.Completion{{Text: "hello!"}}}

	result, err := New(provider, registry, 5).Run(context.Background(), userID, userTurn("hi"))
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if result.Text != "hello!" {
		t.Fatalf("unexpected text: %q", result.Text)
	}
	if len(result.ToolCalls) != 0 {
		t.Fatalf("expected no tool calls, got %d", len(result.ToolCalls))
	}
}

func TestRun_ToolRoundThenAnswer(t *testing.T) {
	store, registry, userID := newTestEnv(t)
	provider := &scriptedProvider{replies: []*ai.Completion{
		{ToolCalls: []ai.ToolCall{{
			ID:    "call_1",
			Name:  tools.NameAddTask,
			Input: json.RawMessage(`{"title": "buy milk"}`),
		}}},
		{Text: "Done - I've added a task to buy milk."},
	}}

	result, err := New(provider, registry, 5).Run(context.Background(), userID, userTurn("Add a task to buy milk"))
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if result.Text != "Done - I've added a task to buy milk." {
		t.Fatalf("unexpected text: %q", result.Text)
	}

	if len(result.ToolCalls) != 1 {
		t.Fatalf("expected 1 tool call record, got %d", len(result.ToolCalls))
	}
	record := result.ToolCalls[0]
	if record.Name != tools.NameAddTask {
		t.Fatalf("unexpected tool name %q", record.Name)
	}
	var created db.Task
	if err := json.Unmarshal(record.Result, &created); err != nil {
		t.Fatalf("result not a task: %v", err)
	}
	if created.Title != "buy milk" || created.Completed {
		t.Fatalf("unexpected task in record: %+v", created)
	}

	// The mutation actually committed
	tasksList, err := store.ListTasks(context.Background(), userID, nil)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(tasksList) != 1 || tasksList[0].Title != "buy milk" {
		t.Fatalf("task not persisted: %+v", tasksList)
	}

	// Second model call must carry the tool result back
	if len(provider.requests) != 2 {
		t.Fatalf("expected 2 model calls, got %d", len(provider.requests))
	}
	last := provider.requests[1].Messages
	if last[len(last)-1].Role != "tool" || last[len(last)-1].ToolCallID != "call_1" {
		t.Fatalf("tool result not fed back: %+v", last[len(last)-1])
	}
}

// A failing tool becomes an error result the model can react to; it never
// aborts the request.
func TestRun_ToolFailureRecovered(t *testing.T) {
	_, registry, userID := newTestEnv(t)
	provider := &scriptedProvider{replies: []*ai.Completion{
		{ToolCalls: []ai.ToolCall{{
			ID:    "call_1",
			Name:  tools.NameDeleteTask,
			Input: json.RawMessage(`{"task_id": 12345}`),
		}}},
		{Text: "Sorry, I couldn't find that task."},
	}}

	result, err := New(provider, registry, 5).Run(context.Background(), userID, userTurn("delete task 12345"))
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if result.Text != "Sorry, I couldn't find that task." {
		t.Fatalf("unexpected text: %q", result.Text)
	}

	var toolResult map[string]string
	if err := json.Unmarshal(result.ToolCalls[0].Result, &toolResult); err != nil {
		t.Fatalf("result not json: %v", err)
	}
	if toolResult["error"] == "" {
		t.Fatalf("expected error result, got %v", toolResult)
	}
}

func TestRun_UnknownToolRecovered(t *testing.T) {
	_, registry, userID := newTestEnv(t)
	provider := &scriptedProvider{replies: []*ai.Completion{
		{ToolCalls: []ai.ToolCall{{ID: "call_1", Name: "launch_rocket", Input: json.RawMessage(`{}`)}}},
		{Text: "I can only manage tasks."},
	}}

	result, err := New(provider, registry, 5).Run(context.Background(), userID, userTurn("launch"))
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if result.Text != "I can only manage tasks." {
		t.Fatalf("unexpected text: %q", result.Text)
	}
}

func TestRun_RoundCapExceeded(t *testing.T) {
	_, registry, userID := newTestEnv(t)
	// The model asks for a tool on every round and never answers
	looping := &ai.Completion{ToolCalls: []ai.ToolCall{{
		ID:    "call_n",
		Name:  tools.NameListTasks,
		Input: json.RawMessage(`{}`),
	}}}
	provider := &scriptedProvider{replies: []*ai.Completion{looping, looping, looping}}

	_, err := New(provider, registry, 3).Run(context.Background(), userID, userTurn("loop forever"))
	if !apperr.IsKind(err, apperr.KindUpstream) {
		t.Fatalf("expected upstream error at round cap, got %v", err)
	}
	if len(provider.requests) != 3 {
		t.Fatalf("expected exactly 3 model calls, got %d", len(provider.requests))
	}
}

func TestRun_ModelFailureIsUpstream(t *testing.T) {
	_, registry, userID := newTestEnv(t)
	provider := &scriptedProvider{err: errors.New("connection refused")}

	_, err := New(provider, registry, 5).Run(context.Background(), userID, userTurn("hi"))
	if !apperr.IsKind(err, apperr.KindUpstream) {
		t.Fatalf("expected upstream error, got %v", err)
	}
}

func TestRun_NoProviderConfigured(t *testing.T) {
	_, registry, userID := newTestEnv(t)

	_, err := New(nil, registry, 5).Run(context.Background(), userID, userTurn("hi"))
	if !apperr.IsKind(err, apperr.KindUpstream) {
		t.Fatalf("expected upstream error, got %v", err)
	}
}

func TestRun_ContextDeadlineSurfaces(t *testing.T) {
	_, registry, userID := newTestEnv(t)
	provider := &scriptedProvider{replies: []*ai.Completion{{Text: "too late"}}}

	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()

	_, err := New(provider, registry, 5).Run(ctx, userID, userTurn("hi"))
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline error, got %v", err)
	}
}
