package tasks

import (
	"net/http"

	"github.com/taskpilot/taskpilot/internal/auth"
	"github.com/taskpilot/taskpilot/internal/httputil"
	"github.com/taskpilot/taskpilot/internal/logic/tasks"
	"github.com/taskpilot/taskpilot/internal/middleware"
	"github.com/taskpilot/taskpilot/internal/svc"
	"github.com/taskpilot/taskpilot/internal/types"
)

// withClaims extracts the verified identity or writes a 401.
func withClaims(w http.ResponseWriter, r *http.Request) (*auth.Claims, bool) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		httputil.Unauthorized(w, "")
	}
	return claims, ok
}

// Create a task
func CreateHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := withClaims(w, r)
		if !ok {
			return
		}
		var req types.CreateTaskRequest
		if err := httputil.Parse(r, &req); err != nil {
			httputil.Error(w, err)
			return
		}
		l := tasks.NewTasksLogic(r.Context(), svcCtx)
		task, err := l.Create(claims, &req)
		if err != nil {
			httputil.Error(w, err)
		} else {
			httputil.WriteJSON(w, http.StatusCreated, task)
		}
	}
}

// List tasks, optionally filtered by ?completed=
func ListHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := withClaims(w, r)
		if !ok {
			return
		}
		var req types.ListTasksRequest
		if err := httputil.Parse(r, &req); err != nil {
			httputil.Error(w, err)
			return
		}
		l := tasks.NewTasksLogic(r.Context(), svcCtx)
		list, err := l.List(claims, &req)
		if err != nil {
			httputil.Error(w, err)
		} else {
			httputil.OkJSON(w, list)
		}
	}
}

// Get a single task
func GetHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := withClaims(w, r)
		if !ok {
			return
		}
		var req types.TaskIDRequest
		if err := httputil.Parse(r, &req); err != nil {
			httputil.Error(w, err)
			return
		}
		l := tasks.NewTasksLogic(r.Context(), svcCtx)
		task, err := l.Get(claims, &req)
		if err != nil {
			httputil.Error(w, err)
		} else {
			httputil.OkJSON(w, task)
		}
	}
}

// Toggle a task's completion status
func ToggleHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := withClaims(w, r)
		if !ok {
			return
		}
		var req types.TaskIDRequest
		if err := httputil.Parse(r, &req); err != nil {
			httputil.Error(w, err)
			return
		}
		l := tasks.NewTasksLogic(r.Context(), svcCtx)
		task, err := l.Toggle(claims, &req)
		if err != nil {
			httputil.Error(w, err)
		} else {
			httputil.OkJSON(w, task)
		}
	}
}

// Update a task's title and/or description
func UpdateHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := withClaims(w, r)
		if !ok {
			return
		}
		var req types.UpdateTaskRequest
		if err := httputil.Parse(r, &req); err != nil {
			httputil.Error(w, err)
			return
		}
		l := tasks.NewTasksLogic(r.Context(), svcCtx)
		task, err := l.Update(claims, &req)
		if err != nil {
			httputil.Error(w, err)
		} else {
			httputil.OkJSON(w, task)
		}
	}
}

// Delete a task
func DeleteHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := withClaims(w, r)
		if !ok {
			return
		}
		var req types.TaskIDRequest
		if err := httputil.Parse(r, &req); err != nil {
			httputil.Error(w, err)
			return
		}
		l := tasks.NewTasksLogic(r.Context(), svcCtx)
		resp, err := l.Delete(claims, &req)
		if err != nil {
			httputil.Error(w, err)
		} else {
			httputil.OkJSON(w, resp)
		}
	}
}
