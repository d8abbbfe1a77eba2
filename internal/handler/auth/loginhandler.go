package auth

import (
	"net/http"

	"github.com/taskpilot/taskpilot/internal/httputil"
	"github.com/taskpilot/taskpilot/internal/logic/auth"
	"github.com/taskpilot/taskpilot/internal/svc"
	"github.com/taskpilot/taskpilot/internal/types"
)

// Log in with email and password
func LoginHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.LoginRequest
		if err := httputil.Parse(r, &req); err != nil {
			httputil.Error(w, err)
			return
		}

		l := auth.NewLoginLogic(r.Context(), svcCtx)
		resp, err := l.Login(&req)
		if err != nil {
			httputil.Error(w, err)
		} else {
			httputil.OkJSON(w, resp)
		}
	}
}
