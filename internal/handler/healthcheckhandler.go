package handler

import (
	"net/http"

	"github.com/taskpilot/taskpilot/internal/httputil"
	"github.com/taskpilot/taskpilot/internal/svc"
)

// HealthCheckHandler reports liveness plus store reachability.
func HealthCheckHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := "ok"
		code := http.StatusOK
		if err := svcCtx.DB.DB().PingContext(r.Context()); err != nil {
			status = "degraded"
			code = http.StatusServiceUnavailable
		}
		httputil.WriteJSON(w, code, map[string]string{"status": status})
	}
}
