package chat

import (
	"context"
	"strings"
	"time"

	"github.com/taskpilot/taskpilot/internal/agent/ai"
	"github.com/taskpilot/taskpilot/internal/apperr"
	"github.com/taskpilot/taskpilot/internal/auth"
	"github.com/taskpilot/taskpilot/internal/logging"
	"github.com/taskpilot/taskpilot/internal/svc"
	"github.com/taskpilot/taskpilot/internal/types"
)

type SendMessageLogic struct {
	logging.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

// Send a chat message and get the assistant's reply (creates the
// conversation if needed)
func NewSendMessageLogic(ctx context.Context, svcCtx *svc.ServiceContext) *SendMessageLogic {
	return &SendMessageLogic{
		Logger: logging.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

// SendMessage runs the whole chat pipeline: resolve conversation, persist
// the inbound message, load the token-bounded history window, drive the
// agent loop, persist the reply.
//
// The inbound message is persisted before the model is contacted, so a
// timeout or crash during orchestration leaves it durably recorded and the
// conversation resumable on retry.
func (l *SendMessageLogic) SendMessage(claims *auth.Claims, req *types.SendMessageRequest) (*types.SendMessageResponse, error) {
	content := strings.TrimSpace(req.Message)
	if content == "" {
		return nil, apperr.Validation("message", "message cannot be empty")
	}
	if max := l.svcCtx.Config.Chat.MaxMessageChars; len(content) > max {
		return nil, apperr.Validation("message", "message is too long")
	}

	conv, err := l.svcCtx.DB.ResolveOrCreate(l.ctx, claims.UserID, req.ConversationID)
	if err != nil {
		return nil, err
	}

	if _, err := l.svcCtx.DB.AppendMessage(l.ctx, conv.ID, "user", content); err != nil {
		l.Errorf("failed to persist user message: %v", err)
		return nil, err
	}

	recent, err := l.svcCtx.DB.ListRecentMessages(l.ctx, conv.ID, historyScanLimit)
	if err != nil {
		return nil, err
	}
	window := WindowMessages(recent, l.svcCtx.Config.Chat.HistoryTokens)

	// The just-persisted user message is the newest row, so the window
	// always ends with it.
	history := make([]ai.Message, 0, len(window))
	for _, msg := range window {
		history = append(history, ai.Message{Role: msg.Role, Content: msg.Content})
	}

	result, err := l.svcCtx.Runner.Run(l.ctx, claims.UserID, history)
	if err != nil {
		return nil, err
	}

	if _, err := l.svcCtx.DB.AppendMessage(l.ctx, conv.ID, "assistant", result.Text); err != nil {
		l.Errorf("failed to persist assistant message: %v", err)
		return nil, err
	}

	toolCalls := make([]types.ToolCallView, 0, len(result.ToolCalls))
	for _, record := range result.ToolCalls {
		toolCalls = append(toolCalls, types.ToolCallView{
			Name:      record.Name,
			Arguments: record.Arguments,
			Result:    record.Result,
		})
	}

	return &types.SendMessageResponse{
		ConversationID: conv.ID,
		Response:       result.Text,
		ToolCalls:      toolCalls,
		Timestamp:      time.Now(),
	}, nil
}
