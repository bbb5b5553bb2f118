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

package testutil

import (
	"context"
	"errors"
	"sync"

	"github.com/tomoncle/mediatek/database"
	"github.com/tomoncle/mediatek/types"
)

// ErrInjected is returned by injected failures.
var ErrInjected = errors.New("injected failure")

// Call is one recorded adapter call.
type Call struct {
	Method    string
	Statement string
	Params    types.Params
}

// RecordingAdapter is an in-memory ConnectionAdapter that records calls and
// fails on demand. Execute returns Affected unless AffectedFn is set.
type RecordingAdapter struct {
	DialectValue database.Dialect

	Rows       []types.Row
	Affected   int64
	AffectedFn func(statement string) int64

	FailBegin    error
	FailCommit   error
	FailRollback error
	// FailExecAt fails the n-th Execute call (1-based) with ExecErr.
	FailExecAt int
	ExecErr    error

	mu    sync.Mutex
	calls []Call
	execs int
	inTx  bool
}

var _ database.ConnectionAdapter = (*RecordingAdapter)(nil)

// NewRecordingAdapter returns a sqlite-dialect fake whose writes affect one row.
func NewRecordingAdapter() *RecordingAdapter {
	return &RecordingAdapter{DialectValue: database.DialectSQLite, Affected: 1}
}

func (a *RecordingAdapter) record(method, statement string, params types.Params) {
	a.calls = append(a.calls, Call{Method: method, Statement: statement, Params: params})
}

func (a *RecordingAdapter) Query(_ context.Context, statement string, params types.Params) ([]types.Row, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.record("query", statement, params)
	return a.Rows, nil
}

func (a *RecordingAdapter) Execute(_ context.Context, statement string, params types.Params) (int64, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.record("execute", statement, params)
	a.execs++
	if a.FailExecAt > 0 && a.execs == a.FailExecAt {
		if a.ExecErr != nil {
			return 0, a.ExecErr
		}
		return 0, ErrInjected
	}
	if a.AffectedFn != nil {
		return a.AffectedFn(statement), nil
	}
	return a.Affected, nil
}

func (a *RecordingAdapter) BeginTransaction(_ context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.record("begin", "", nil)
	if a.FailBegin != nil {
		return a.FailBegin
	}
	if a.inTx {
		return &database.TransactionError{Phase: database.TxBegin, Err: database.ErrNestedTransaction}
	}
	a.inTx = true
	return nil
}

func (a *RecordingAdapter) Commit() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.record("commit", "", nil)
	a.inTx = false
	return a.FailCommit
}

func (a *RecordingAdapter) Rollback() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.record("rollback", "", nil)
	a.inTx = false
	return a.FailRollback
}

func (a *RecordingAdapter) Dialect() database.Dialect {
	if a.DialectValue == "" {
		return database.DialectSQLite
	}
	return a.DialectValue
}

// Calls returns a copy of the recorded calls.
func (a *RecordingAdapter) Calls() []Call {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]Call(nil), a.calls...)
}

// Methods returns the method names of the recorded calls in order.
func (a *RecordingAdapter) Methods() []string {
	calls := a.Calls()
	out := make([]string, len(calls))
	for i, c := range calls {
		out[i] = c.Method
	}
	return out
}

// Statements returns the statement text of every Execute and Query call.
func (a *RecordingAdapter) Statements() []string {
	var out []string
	for _, c := range a.Calls() {
		if c.Statement != "" {
			out = append(out, c.Statement)
		}
	}
	return out
}

// InTransaction reports whether a transaction is open.
func (a *RecordingAdapter) InTransaction() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.inTx
}

// FaultyAdapter forwards to a real adapter and fails the n-th Execute call
// instead of forwarding it.
type FaultyAdapter struct {
	database.ConnectionAdapter
	FailExecAt int

	mu    sync.Mutex
	execs int
}

func (a *FaultyAdapter) Execute(ctx context.Context, statement string, params types.Params) (int64, error) {
	a.mu.Lock()
	a.execs++
	fail := a.FailExecAt > 0 && a.execs == a.FailExecAt
	a.mu.Unlock()
	if fail {
		return 0, ErrInjected
	}
	return a.ConnectionAdapter.Execute(ctx, statement, params)
}
