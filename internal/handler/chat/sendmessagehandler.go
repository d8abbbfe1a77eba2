package chat

import (
	"context"
	"net/http"

	"github.com/taskpilot/taskpilot/internal/httputil"
	"github.com/taskpilot/taskpilot/internal/logic/chat"
	"github.com/taskpilot/taskpilot/internal/middleware"
	"github.com/taskpilot/taskpilot/internal/svc"
	"github.com/taskpilot/taskpilot/internal/types"
)

// Send a chat message and get the assistant's reply.
//
// The configured chat timeout covers the whole pipeline, model calls and
// tool rounds included. When it fires the request fails with 504, but the
// already-persisted inbound message and any committed tool mutations stay.
func SendMessageHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.ClaimsFromContext(r.Context())
		if !ok {
			httputil.Unauthorized(w, "")
			return
		}

		var req types.SendMessageRequest
		if err := httputil.Parse(r, &req); err != nil {
			httputil.Error(w, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), svcCtx.Config.Chat.Timeout)
		defer cancel()

		l := chat.NewSendMessageLogic(ctx, svcCtx)
		resp, err := l.SendMessage(claims, &req)
		if err != nil {
			httputil.Error(w, err)
		} else {
			httputil.OkJSON(w, resp)
		}
	}
}
