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
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/uptrace/bun"
)

// driverTypes maps accepted type names to the driver the manager opens.
// postgres runs on lib/pq, pgx on the jackc/pgx stdlib driver; both use the
// postgres dialect.
var driverTypes = map[string]string{
	"mysql":      "mysql",
	"postgres":   "postgres",
	"postgresql": "postgres",
	"pgx":        "pgx",
	"sqlite":     "sqlite",
	"sqlite3":    "sqlite",
}

// normalizeType resolves a configured type name to its driver type.
func normalizeType(typ string) (string, error) {
	name := strings.ToLower(strings.TrimSpace(typ))
	driver, ok := driverTypes[name]
	if !ok {
		return "", fmt.Errorf("unsupported database type: %s, supported types: mysql, postgres, pgx, sqlite", typ)
	}
	return driver, nil
}

// envSetting applies one DB_* variable to a connection config.
type envSetting struct {
	name  string
	apply func(cfg *ConnectionConfig, value string) error
}

func envString(field func(*ConnectionConfig) *string) func(*ConnectionConfig, string) error {
	return func(cfg *ConnectionConfig, v string) error {
		*field(cfg) = v
		return nil
	}
}

func envInt(field func(*ConnectionConfig) *int) func(*ConnectionConfig, string) error {
	return func(cfg *ConnectionConfig, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		*field(cfg) = n
		return nil
	}
}

func envBool(field func(*ConnectionConfig) *bool) func(*ConnectionConfig, string) error {
	return func(cfg *ConnectionConfig, v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return err
		}
		*field(cfg) = b
		return nil
	}
}

// envDuration accepts a Go duration ("90s") or a bare number of seconds.
func envDuration(field func(*ConnectionConfig) *time.Duration) func(*ConnectionConfig, string) error {
	return func(cfg *ConnectionConfig, v string) error {
		if secs, err := strconv.Atoi(v); err == nil {
			*field(cfg) = time.Duration(secs) * time.Second
			return nil
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return err
		}
		*field(cfg) = d
		return nil
	}
}

var envSettings = []envSetting{
	{"DB_TYPE", envString(func(c *ConnectionConfig) *string { return &c.Type })},
	{"DB_HOST", envString(func(c *ConnectionConfig) *string { return &c.Host })},
	{"DB_PORT", envInt(func(c *ConnectionConfig) *int { return &c.Port })},
	{"DB_USERNAME", envString(func(c *ConnectionConfig) *string { return &c.Username })},
	{"DB_PASSWORD", envString(func(c *ConnectionConfig) *string { return &c.Password })},
	{"DB_NAME", envString(func(c *ConnectionConfig) *string { return &c.DBName })},
	{"DB_SSLMODE", envString(func(c *ConnectionConfig) *string { return &c.SSLMode })},
	{"DB_MAX_IDLE_CONNS", envInt(func(c *ConnectionConfig) *int { return &c.MaxIdleConns })},
	{"DB_MAX_OPEN_CONNS", envInt(func(c *ConnectionConfig) *int { return &c.MaxOpenConns })},
	{"DB_CONN_MAX_LIFETIME", envDuration(func(c *ConnectionConfig) *time.Duration { return &c.ConnMaxLifetime })},
	{"DB_SLOW_QUERY_TIME", envDuration(func(c *ConnectionConfig) *time.Duration { return &c.SlowQueryTime })},
	{"DB_ENABLE_QUERY_LOG", envBool(func(c *ConnectionConfig) *bool { return &c.EnableQueryLog })},
	{"DB_ENABLE_TRACE", envBool(func(c *ConnectionConfig) *bool { return &c.EnableTrace })},
}

// BaseDatabaseFactory turns a catalog connection config into a connected
// manager. It owns the manager until Close.
type BaseDatabaseFactory struct {
	manager AbstractDatabaseManager
	logger  Logger
}

// NewDatabaseFactory returns a factory using the package logger.
func NewDatabaseFactory() *BaseDatabaseFactory {
	return &BaseDatabaseFactory{logger: GetLogger()}
}

// CreateFromConfig applies DB_* overrides to cfg, resolves its type to a
// driver and returns a manager for it. cfg is updated in place.
func (f *BaseDatabaseFactory) CreateFromConfig(cfg *ConnectionConfig) (AbstractDatabaseManager, error) {
	if cfg == nil {
		return nil, fmt.Errorf("database configuration cannot be empty")
	}

	// Environment wins over the file, including for the type itself.
	f.overrideFromEnv(cfg)

	driver, err := normalizeType(cfg.Type)
	if err != nil {
		return nil, err
	}
	cfg.Type = driver
	if cfg.EnableTrace {
		f.logger.Debug("Statement trace enabled", "type", cfg.Type)
	}

	manager := NewDatabaseManager(cfg)
	manager.SetLogger(f.logger)
	f.manager = manager
	return manager, nil
}

// overrideFromEnv applies every DB_* variable that is set. Values that do
// not parse are logged and skipped.
func (f *BaseDatabaseFactory) overrideFromEnv(cfg *ConnectionConfig) {
	for _, s := range envSettings {
		v, ok := os.LookupEnv(s.name)
		if !ok || v == "" {
			continue
		}
		if err := s.apply(cfg, v); err != nil {
			f.logger.Warn("Ignoring invalid environment override", "variable", s.name, "error", err)
		}
	}
}

// InitializeDatabase connects the manager created by CreateFromConfig.
func (f *BaseDatabaseFactory) InitializeDatabase(ctx context.Context) error {
	if f.manager == nil {
		return fmt.Errorf("database manager not created")
	}
	if err := f.manager.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	f.logger.Info("Catalog database connected")
	return nil
}

// GetDB returns the bun database, or nil before CreateFromConfig.
func (f *BaseDatabaseFactory) GetDB() *bun.DB {
	if f.manager == nil {
		return nil
	}
	return f.manager.GetDB()
}

// SetLogger sets the logger on the factory and its manager.
func (f *BaseDatabaseFactory) SetLogger(logger Logger) {
	f.logger = logger
	if f.manager != nil {
		f.manager.SetLogger(logger)
	}
}

func (f *BaseDatabaseFactory) Close() error {
	if f.manager == nil {
		return nil
	}
	return f.manager.Disconnect()
}

// GetHealthStatus reports an unhealthy status until a manager exists.
func (f *BaseDatabaseFactory) GetHealthStatus(ctx context.Context) *HealthStatus {
	if f.manager == nil {
		return &HealthStatus{
			LastError:     "database manager not initialized",
			LastCheckTime: time.Now(),
		}
	}
	return f.manager.HealthCheck(ctx)
}

func (f *BaseDatabaseFactory) GetStats() *DBStats {
	if f.manager == nil {
		return &DBStats{}
	}
	return f.manager.GetStats()
}
