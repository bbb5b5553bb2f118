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
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/tomoncle/mediatek/types"
	"github.com/uptrace/bun"
)

// ConnectionAdapter executes parameterized statements against one session
// and owns at most one open transaction at a time.
//
// Statements use :name placeholders; params supplies one value per name.
type ConnectionAdapter interface {
	Query(ctx context.Context, statement string, params types.Params) ([]types.Row, error)
	Execute(ctx context.Context, statement string, params types.Params) (int64, error)
	BeginTransaction(ctx context.Context) error
	Commit() error
	Rollback() error
	Dialect() Dialect
}

// executor is satisfied by both *sql.DB and *sql.Tx.
type executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// BunAdapter is the ConnectionAdapter over a *bun.DB. Statements go to the
// underlying database/sql handle so values are bound by the driver rather
// than formatted into the text by bun.
type BunAdapter struct {
	db      *bun.DB
	dialect Dialect
	logger  Logger
	hooks   []StatementHook

	mu sync.Mutex
	tx *bun.Tx
}

var _ ConnectionAdapter = (*BunAdapter)(nil)

// AdapterOption configures a BunAdapter.
type AdapterOption func(*BunAdapter)

// WithAdapterLogger sets the logger used for statement and transaction logs.
func WithAdapterLogger(logger Logger) AdapterOption {
	return func(a *BunAdapter) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithStatementHooks appends hooks run after every statement.
func WithStatementHooks(hooks ...StatementHook) AdapterOption {
	return func(a *BunAdapter) {
		a.hooks = append(a.hooks, hooks...)
	}
}

// NewBunAdapter wraps db. It fails when db is nil or its dialect is not one
// of mysql, postgres or sqlite.
func NewBunAdapter(db *bun.DB, opts ...AdapterOption) (*BunAdapter, error) {
	if db == nil {
		return nil, errors.New("bun database cannot be nil")
	}
	d, err := DialectOf(db)
	if err != nil {
		return nil, err
	}
	a := &BunAdapter{db: db, dialect: d, logger: GetLogger()}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

func (a *BunAdapter) Dialect() Dialect { return a.dialect }

// InTransaction reports whether a transaction is currently open.
func (a *BunAdapter) InTransaction() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.tx != nil
}

func (a *BunAdapter) conn() executor {
	if a.tx != nil {
		return a.tx.Tx
	}
	return a.db.DB
}

func (a *BunAdapter) Query(ctx context.Context, statement string, params types.Params) ([]types.Row, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	query, args, err := CompileNamed(a.dialect, statement, params)
	if err != nil {
		return nil, &StatementError{Statement: statement, Err: err}
	}

	event := &StatementEvent{Operation: statementOperation(query), Statement: query, Args: args, StartTime: time.Now(), InTx: a.tx != nil}
	rows, err := a.conn().QueryContext(ctx, query, args...)
	if err == nil {
		var out []types.Row
		out, err = scanRows(rows)
		if err == nil {
			event.Affected = int64(len(out))
			a.afterStatement(ctx, event)
			return out, nil
		}
	}
	event.Err = err
	a.afterStatement(ctx, event)
	return nil, NewStatementError(query, err)
}

func (a *BunAdapter) Execute(ctx context.Context, statement string, params types.Params) (int64, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	query, args, err := CompileNamed(a.dialect, statement, params)
	if err != nil {
		return 0, &StatementError{Statement: statement, Err: err}
	}

	event := &StatementEvent{Operation: statementOperation(query), Statement: query, Args: args, StartTime: time.Now(), InTx: a.tx != nil}
	res, err := a.conn().ExecContext(ctx, query, args...)
	if err == nil {
		event.Affected, err = res.RowsAffected()
	}
	event.Err = err
	a.afterStatement(ctx, event)
	if err != nil {
		return 0, NewStatementError(query, err)
	}
	return event.Affected, nil
}

func (a *BunAdapter) BeginTransaction(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.tx != nil {
		return &TransactionError{Phase: TxBegin, Err: ErrNestedTransaction}
	}
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return &TransactionError{Phase: TxBegin, Err: err}
	}
	a.tx = &tx
	a.logger.Debug("Transaction opened", "dialect", a.dialect)
	return nil
}

// Commit ends the open transaction. The transaction is closed whatever the
// outcome, so a failed commit must not be followed by Rollback.
func (a *BunAdapter) Commit() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.tx == nil {
		return &TransactionError{Phase: TxCommit, Err: ErrNoTransaction}
	}
	err := a.tx.Commit()
	a.tx = nil
	if err != nil {
		return &TransactionError{Phase: TxCommit, Err: err}
	}
	a.logger.Debug("Transaction committed", "dialect", a.dialect)
	return nil
}

func (a *BunAdapter) Rollback() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.tx == nil {
		return &TransactionError{Phase: TxRollback, Err: ErrNoTransaction}
	}
	err := a.tx.Rollback()
	a.tx = nil
	if err != nil && !errors.Is(err, sql.ErrTxDone) {
		return &TransactionError{Phase: TxRollback, Err: err}
	}
	a.logger.Debug("Transaction rolled back", "dialect", a.dialect)
	return nil
}

func (a *BunAdapter) afterStatement(ctx context.Context, event *StatementEvent) {
	a.logger.Debug("Statement executed",
		"op", event.Operation,
		"rows", event.Affected,
		"in_tx", event.InTx,
		"duration", time.Since(event.StartTime).Round(time.Microsecond),
	)
	for _, h := range a.hooks {
		h.AfterStatement(ctx, event)
	}
}

// scanRows drains rows into column-keyed maps. Text returned as []byte is
// converted to string.
func scanRows(rows *sql.Rows) ([]types.Row, error) {
	defer func() { _ = rows.Close() }()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}
	out := make([]types.Row, 0)
	for rows.Next() {
		values := make([]interface{}, len(columns))
		ptrs := make([]interface{}, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		row := make(types.Row, len(columns))
		for i, col := range columns {
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
			} else {
				row[col] = values[i]
			}
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
