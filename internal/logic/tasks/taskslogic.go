// Package tasks implements the direct REST surface over the task store.
// It shares every validation and NotFound rule with the agent's tool
// registry because both go through the same store methods.
package tasks

import (
	"context"

	"github.com/taskpilot/taskpilot/internal/auth"
	"github.com/taskpilot/taskpilot/internal/db"
	"github.com/taskpilot/taskpilot/internal/logging"
	"github.com/taskpilot/taskpilot/internal/svc"
	"github.com/taskpilot/taskpilot/internal/types"
)

type TasksLogic struct {
	logging.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewTasksLogic(ctx context.Context, svcCtx *svc.ServiceContext) *TasksLogic {
	return &TasksLogic{
		Logger: logging.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *TasksLogic) Create(claims *auth.Claims, req *types.CreateTaskRequest) (*db.Task, error) {
	return l.svcCtx.DB.AddTask(l.ctx, claims.UserID, req.Title, req.Description)
}

func (l *TasksLogic) List(claims *auth.Claims, req *types.ListTasksRequest) ([]*db.Task, error) {
	return l.svcCtx.DB.ListTasks(l.ctx, claims.UserID, req.Completed)
}

func (l *TasksLogic) Get(claims *auth.Claims, req *types.TaskIDRequest) (*db.Task, error) {
	return l.svcCtx.DB.GetTask(l.ctx, claims.UserID, req.TaskID)
}

func (l *TasksLogic) Toggle(claims *auth.Claims, req *types.TaskIDRequest) (*db.Task, error) {
	return l.svcCtx.DB.ToggleTask(l.ctx, claims.UserID, req.TaskID)
}

func (l *TasksLogic) Update(claims *auth.Claims, req *types.UpdateTaskRequest) (*db.Task, error) {
	return l.svcCtx.DB.UpdateTask(l.ctx, claims.UserID, req.TaskID, req.Title, req.Description)
}

func (l *TasksLogic) Delete(claims *auth.Claims, req *types.TaskIDRequest) (*types.DeleteTaskResponse, error) {
	if err := l.svcCtx.DB.DeleteTask(l.ctx, claims.UserID, req.TaskID); err != nil {
		return nil, err
	}
	return &types.DeleteTaskResponse{Deleted: true, TaskID: req.TaskID}, nil
}
