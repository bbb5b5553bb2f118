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

package mediatek

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/tomoncle/mediatek/database"
	"github.com/tomoncle/mediatek/repository"
	"github.com/tomoncle/mediatek/types"
)

// QueryDispatcher routes catalog requests to the handler registered for
// their (operation, table) pair, or to the generic single-table handler.
// Calls are serialized: one dispatcher drives one adapter session.
type QueryDispatcher struct {
	mu       sync.Mutex
	adapter  database.ConnectionAdapter
	routes   map[routeKey]Handler
	fallback Handler
	logger   database.Logger
	metrics  *Metrics
	extra    []customRoute
}

type customRoute struct {
	op    types.Operation
	table string
	h     Handler
}

// Option configures a QueryDispatcher.
type Option func(*QueryDispatcher)

// WithLogger sets the dispatcher logger, also used by the composite handlers.
func WithLogger(logger database.Logger) Option {
	return func(d *QueryDispatcher) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithMetrics records request counts and durations on m.
func WithMetrics(m *Metrics) Option {
	return func(d *QueryDispatcher) { d.metrics = m }
}

// WithRoute registers h for (op, table), replacing any default route.
func WithRoute(op types.Operation, table string, h Handler) Option {
	return func(d *QueryDispatcher) {
		d.extra = append(d.extra, customRoute{op: op, table: table, h: h})
	}
}

// New returns a dispatcher bound to adapter with the catalog routes.
func New(adapter database.ConnectionAdapter, opts ...Option) (*QueryDispatcher, error) {
	if adapter == nil {
		return nil, errors.New("connection adapter cannot be nil")
	}
	d := &QueryDispatcher{adapter: adapter, logger: database.GetLogger()}
	for _, opt := range opts {
		opt(d)
	}

	generic, err := repository.NewGenericQueryBuilder(adapter)
	if err != nil {
		return nil, err
	}
	d.fallback = NewGenericHandler(generic)

	if d.routes, err = defaultRoutes(adapter, d.logger); err != nil {
		return nil, err
	}
	for _, r := range d.extra {
		if err := d.Register(r.op, r.table, r.h); err != nil {
			return nil, err
		}
	}
	d.extra = nil
	return d, nil
}

// Register routes (op, table) to h. Table names are matched case-insensitively.
func (d *QueryDispatcher) Register(op types.Operation, table string, h Handler) error {
	if !op.IsValid() {
		return database.NewValidationError("register", table, "", "invalid operation")
	}
	key := newRouteKey(op, table)
	if key.table == "" {
		return database.NewValidationError("register", table, "", "table name is required")
	}
	if h == nil {
		return database.NewValidationError("register", table, "", "handler cannot be nil")
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.routes[key] = h
	return nil
}

// Route returns the handler serving (op, table) and its route name.
func (d *QueryDispatcher) Route(op types.Operation, table string) (Handler, string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.route(op, table)
}

func (d *QueryDispatcher) route(op types.Operation, table string) (Handler, string) {
	if h, ok := d.routes[newRouteKey(op, table)]; ok {
		return h, handlerName(h)
	}
	return d.fallback, handlerName(d.fallback)
}

// Select returns the rows of table matching every filter entry. An empty
// filter selects all rows.
func (d *QueryDispatcher) Select(ctx context.Context, table string, filter types.Fields) (rows []types.Row, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	start := time.Now()
	route := "none"
	defer func() { d.done(types.OpSelect, table, route, start, err) }()

	if err = requireTable(types.OpSelect, table); err != nil {
		return nil, err
	}
	h, route := d.route(types.OpSelect, table)
	return h.Select(ctx, table, filter)
}

// Insert creates a row, or a composite entity for book, dvd and periodical
// tables. fields must not be empty.
func (d *QueryDispatcher) Insert(ctx context.Context, table string, fields types.Fields) (res types.Result, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	start := time.Now()
	route := "none"
	defer func() { d.done(types.OpInsert, table, route, start, err) }()

	if err = requireTable(types.OpInsert, table); err != nil {
		return types.Result{}, err
	}
	if len(fields) == 0 {
		return types.Result{}, database.NewValidationError(types.OpInsert.Name(), table, "", "fields are required")
	}
	h, route := d.route(types.OpInsert, table)
	return h.Insert(ctx, table, fields)
}

// Update modifies the row or composite entity identified by id. Both id and
// fields are required.
func (d *QueryDispatcher) Update(ctx context.Context, table string, id string, fields types.Fields) (res types.Result, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	start := time.Now()
	route := "none"
	defer func() { d.done(types.OpUpdate, table, route, start, err) }()

	if err = requireTable(types.OpUpdate, table); err != nil {
		return types.Result{}, err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return types.Result{}, database.NewValidationError(types.OpUpdate.Name(), table, "id", "id is required")
	}
	if len(fields) == 0 {
		return types.Result{}, database.NewValidationError(types.OpUpdate.Name(), table, "", "fields are required")
	}
	h, route := d.route(types.OpUpdate, table)
	return h.Update(ctx, table, id, fields)
}

// Delete removes what filter designates. An empty filter is rejected so a
// whole table is never deleted.
func (d *QueryDispatcher) Delete(ctx context.Context, table string, filter types.Fields) (n int64, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	start := time.Now()
	route := "none"
	defer func() { d.done(types.OpDelete, table, route, start, err) }()

	if err = requireTable(types.OpDelete, table); err != nil {
		return 0, err
	}
	if len(filter) == 0 {
		return 0, database.NewValidationError(types.OpDelete.Name(), table, "", "filter is required")
	}
	h, route := d.route(types.OpDelete, table)
	return h.Delete(ctx, table, filter)
}

func requireTable(op types.Operation, table string) error {
	if strings.TrimSpace(table) == "" {
		return database.NewValidationError(op.Name(), table, "", "table name is required")
	}
	return nil
}

func (d *QueryDispatcher) done(op types.Operation, table, route string, start time.Time, err error) {
	d.metrics.observe(op.Name(), route, start, err)
	if err == nil {
		d.logger.Debug("Request dispatched", "operation", op.Name(), "table", table, "route", route,
			"duration", time.Since(start))
		return
	}
	d.logger.Warn("Request failed", "operation", op.Name(), "table", table, "route", route,
		"outcome", outcomeOf(err), "error", err)
}
