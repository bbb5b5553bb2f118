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
	"io"
	"os"
	"reflect"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fatih/color"
	"github.com/uptrace/bun"
)

var statementSilentMode atomic.Bool

// EnableStatementSilent mutes every TraceHook and SlowStatementHook.
func EnableStatementSilent(b bool) {
	statementSilentMode.Store(b)
}

// StatementEvent describes one statement executed by a BunAdapter, or one
// query executed by bun itself when the hooks are installed on a *bun.DB.
type StatementEvent struct {
	Operation string
	Statement string
	Args      []interface{}
	StartTime time.Time
	Affected  int64
	InTx      bool
	Err       error
}

// StatementHook observes adapter statements after they ran.
type StatementHook interface {
	AfterStatement(ctx context.Context, event *StatementEvent)
}

// statementOperation returns the leading keyword of a statement.
func statementOperation(statement string) string {
	s := strings.TrimSpace(statement)
	if i := strings.IndexAny(s, " \t\n\r("); i > 0 {
		s = s[:i]
	}
	return strings.ToUpper(s)
}

func eventFromBun(event *bun.QueryEvent) *StatementEvent {
	return &StatementEvent{
		Operation: event.Operation(),
		Statement: event.Query,
		StartTime: event.StartTime,
		Err:       event.Err,
	}
}

var (
	selectColor = color.New(color.FgGreen)
	insertColor = color.New(color.FgBlue)
	updateColor = color.New(color.FgYellow)
	deleteColor = color.New(color.FgMagenta)
	otherColor  = color.New(color.FgRed)
	tagColor    = color.New(color.FgCyan)
	slowColor   = color.New(color.FgBlack, color.BgYellow)
	errorColor  = color.New(color.BgRed)
)

func operationColor(op string) *color.Color {
	switch op {
	case "SELECT":
		return selectColor
	case "INSERT":
		return insertColor
	case "UPDATE":
		return updateColor
	case "DELETE":
		return deleteColor
	default:
		return otherColor
	}
}

// TraceHook prints every statement with its duration. The environment
// variable named by EnvName overrides Enabled: "0" or "" disables, "2" also
// prints statements that succeeded.
type TraceHook struct {
	EnvName string
	Enabled bool
	Verbose bool
	Writer  io.Writer
}

var (
	_ StatementHook = (*TraceHook)(nil)
	_ bun.QueryHook = (*TraceHook)(nil)
)

// NewTraceHook returns a TraceHook writing to stderr and reading MEDIATEK_TRACE.
func NewTraceHook(verbose bool) *TraceHook {
	return &TraceHook{EnvName: "MEDIATEK_TRACE", Enabled: true, Verbose: verbose, Writer: os.Stderr}
}

func (h *TraceHook) AfterStatement(_ context.Context, event *StatementEvent) {
	if statementSilentMode.Load() {
		return
	}
	enabled, verbose := h.Enabled, h.Verbose
	if h.EnvName != "" {
		if env, ok := os.LookupEnv(h.EnvName); ok {
			enabled = env != "" && env != "0"
			verbose = env == "2"
		}
	}
	if !enabled {
		return
	}
	if !verbose {
		switch {
		case event.Err == nil, errors.Is(event.Err, sql.ErrNoRows), errors.Is(event.Err, sql.ErrTxDone):
			return
		}
	}

	now := time.Now()
	args := []interface{}{
		now.Format("2006-01-02 15:04:05.000"),
		tagColor.Sprintf("%10s", "[SQL]"),
		fmt.Sprintf("%14s", now.Sub(event.StartTime).Round(time.Microsecond)),
		" ", operationColor(event.Operation).Sprint(event.Statement),
	}
	if len(event.Args) > 0 {
		args = append(args, fmt.Sprintf("%v", event.Args))
	}
	if event.Err != nil {
		typ := reflect.TypeOf(event.Err).String()
		args = append(args, "\t", errorColor.Sprintf(" %s: %s ", typ, event.Err.Error()))
	}
	_, _ = fmt.Fprintln(h.writer(), args...)
}

func (h *TraceHook) BeforeQuery(ctx context.Context, _ *bun.QueryEvent) context.Context {
	return ctx
}

func (h *TraceHook) AfterQuery(ctx context.Context, event *bun.QueryEvent) {
	h.AfterStatement(ctx, eventFromBun(event))
}

func (h *TraceHook) writer() io.Writer {
	if h.Writer == nil {
		return os.Stderr
	}
	return h.Writer
}

// SlowStatementHook reports successful statements slower than Threshold,
// either to Logger as a warning or, without a logger, to Writer.
type SlowStatementHook struct {
	Threshold time.Duration
	Logger    Logger
	Writer    io.Writer
}

var (
	_ StatementHook = (*SlowStatementHook)(nil)
	_ bun.QueryHook = (*SlowStatementHook)(nil)
)

func (h *SlowStatementHook) AfterStatement(_ context.Context, event *StatementEvent) {
	if statementSilentMode.Load() || event.Err != nil || h.Threshold <= 0 {
		return
	}
	duration := time.Since(event.StartTime)
	if duration <= h.Threshold {
		return
	}
	if h.Logger != nil {
		h.Logger.Warn("Slow statement detected",
			"duration", duration.Round(time.Microsecond),
			"slow_threshold", h.Threshold,
			"statement", event.Statement,
		)
		return
	}
	if h.Writer != nil {
		_, _ = fmt.Fprintln(h.Writer,
			time.Now().Format("2006-01-02 15:04:05.000"),
			slowColor.Sprintf("%10s", "[SLOW]"),
			fmt.Sprintf("%14s", duration.Round(time.Microsecond)),
			" ", event.Statement,
		)
	}
}

func (h *SlowStatementHook) BeforeQuery(ctx context.Context, _ *bun.QueryEvent) context.Context {
	return ctx
}

func (h *SlowStatementHook) AfterQuery(ctx context.Context, event *bun.QueryEvent) {
	h.AfterStatement(ctx, eventFromBun(event))
}
