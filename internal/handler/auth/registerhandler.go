package auth

import (
	"net/http"

	"github.com/taskpilot/taskpilot/internal/httputil"
	"github.com/taskpilot/taskpilot/internal/logic/auth"
	"github.com/taskpilot/taskpilot/internal/svc"
	"github.com/taskpilot/taskpilot/internal/types"
)

// Create a new account
func RegisterHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.RegisterRequest
		if err := httputil.Parse(r, &req); err != nil {
			httputil.Error(w, err)
			return
		}

		l := auth.NewRegisterLogic(r.Context(), svcCtx)
		resp, err := l.Register(&req)
		if err != nil {
			httputil.Error(w, err)
		} else {
			httputil.OkJSON(w, resp)
		}
	}
}
