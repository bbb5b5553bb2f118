/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package database

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

// Session is one connected database with the adapter that serves it.
// Callers own the session and close it; nothing here is package global.
type Session struct {
	Manager AbstractDatabaseManager
	Adapter *BunAdapter

	factory *BaseDatabaseFactory
	config  *Config
}

// Connect builds a manager from cfg, connects it and wraps the resulting
// database in a BunAdapter carrying the manager's statement hooks.
func Connect(ctx context.Context, cfg *Config) (*Session, error) {
	if cfg == nil {
		return nil, fmt.Errorf("database configuration cannot be empty")
	}
	factory := NewDatabaseFactory()
	manager, err := factory.CreateFromConfig(&cfg.ConnectionConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create database manager: %w", err)
	}
	if err := factory.InitializeDatabase(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	adapter, err := NewBunAdapter(manager.GetDB(),
		WithAdapterLogger(factory.logger),
		WithStatementHooks(manager.StatementHooks()...),
	)
	if err != nil {
		_ = factory.Close()
		return nil, fmt.Errorf("failed to create connection adapter: %w", err)
	}

	return &Session{Manager: manager, Adapter: adapter, factory: factory, config: cfg}, nil
}

// DB returns the bun database of the session.
func (s *Session) DB() *bun.DB {
	return s.Manager.GetDB()
}

// HealthCheck pings the database and reports pool statistics.
func (s *Session) HealthCheck(ctx context.Context) *HealthStatus {
	return s.factory.GetHealthStatus(ctx)
}

// CreateSchema creates the tables of registry that do not exist yet.
func (s *Session) CreateSchema(ctx context.Context, registry ModelRegistry) error {
	return CreateSchema(ctx, s.DB(), registry)
}

// Seed runs the seed files found under root for the configured environment.
// An empty root falls back to DataInitConfig.Filepath.
func (s *Session) Seed(ctx context.Context, root string) ([]ExecutionResult, error) {
	if root == "" {
		root = s.config.DataInitConfig.Filepath
	}
	env := s.config.DataInitConfig.Environment
	if env == "" {
		env = "prod"
	}
	m := NewSQLInitManager(s.DB(), env)
	m.SetSQLRootPath(root)
	m.SetLogger(s.factory.logger)
	return m.ExecuteInitialization(ctx)
}

// Close rolls back a transaction left open and disconnects.
func (s *Session) Close() error {
	if s.Adapter != nil && s.Adapter.InTransaction() {
		_ = s.Adapter.Rollback()
	}
	return s.factory.Close()
}
