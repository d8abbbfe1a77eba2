// Package svc wires shared dependencies into a single container that
// handlers and logic receive explicitly. Nothing here is request-scoped:
// all conversation, task, and rate limit state lives in the store.
package svc

import (
	"fmt"

	"github.com/taskpilot/taskpilot/internal/agent/ai"
	"github.com/taskpilot/taskpilot/internal/agent/runner"
	"github.com/taskpilot/taskpilot/internal/agent/tools"
	"github.com/taskpilot/taskpilot/internal/config"
	"github.com/taskpilot/taskpilot/internal/db"
	"github.com/taskpilot/taskpilot/internal/logging"
)

type ServiceContext struct {
	Config config.Config

	DB     *db.Store
	Tools  *tools.Registry
	Runner *runner.Runner
}

// NewServiceContext opens the database and builds the agent stack.
func NewServiceContext(c config.Config) (*ServiceContext, error) {
	store, err := db.NewSQLite(c.Database.SQLitePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	var provider ai.Provider
	if c.Model.APIKey != "" {
		provider = ai.NewOpenAIProvider(c.Model.APIKey, c.Model.BaseURL, c.Model.Name)
	} else {
		logging.Warnf("no model API key configured - chat requests will fail with 503")
	}

	registry := tools.NewRegistry(store)

	return &ServiceContext{
		Config: c,
		DB:     store,
		Tools:  registry,
		Runner: runner.New(provider, registry, c.Chat.MaxToolRounds),
	}, nil
}

// NewServiceContextWithDeps builds a context from pre-built dependencies
// (used by tests to inject a fake provider).
func NewServiceContextWithDeps(c config.Config, store *db.Store, provider ai.Provider) *ServiceContext {
	registry := tools.NewRegistry(store)
	return &ServiceContext{
		Config: c,
		DB:     store,
		Tools:  registry,
		Runner: runner.New(provider, registry, c.Chat.MaxToolRounds),
	}
}

// Close releases held resources
func (s *ServiceContext) Close() {
	if s.DB != nil {
		s.DB.Close()
	}
}
