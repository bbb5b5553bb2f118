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

package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tomoncle/mediatek/database"
	"github.com/tomoncle/mediatek/types"
	"github.com/tomoncle/mediatek/utils"
)

// TxState is the lifecycle of one composite unit of work.
type TxState int

const (
	TxIdle TxState = iota
	TxOpen
	TxCommitted
	TxRolledBack
)

func (s TxState) String() string {
	switch s {
	case TxIdle:
		return "idle"
	case TxOpen:
		return "open"
	case TxCommitted:
		return "committed"
	case TxRolledBack:
		return "rolled_back"
	default:
		return "unknown"
	}
}

// step is one statement of a unit. A step with mustAffect fails when the
// statement affected no row.
type step struct {
	name       string
	stmt       Statement
	mustAffect bool
}

// unitOfWork runs steps in order inside one adapter transaction.
type unitOfWork struct {
	adapter database.ConnectionAdapter
	logger  database.Logger
	op      string
	kind    string
	id      string
	txID    string
	state   TxState
}

func newUnitOfWork(adapter database.ConnectionAdapter, logger database.Logger, op, kind, id string) *unitOfWork {
	return &unitOfWork{
		adapter: adapter,
		logger:  logger,
		op:      op,
		kind:    kind,
		id:      id,
		txID:    uuid.NewString(),
		state:   TxIdle,
	}
}

// run executes steps and returns the affected count of the last one. Any
// failure rolls the transaction back; a failed rollback is joined to the
// error that caused it. A failed commit closes the transaction and is not
// followed by a rollback.
func (u *unitOfWork) run(ctx context.Context, steps []step) (last int64, err error) {
	start := time.Now()
	if err := u.adapter.BeginTransaction(ctx); err != nil {
		u.logger.Error("Failed to begin transaction", u.fields("error", err)...)
		return 0, asTransactionError(database.TxBegin, err)
	}
	u.state = TxOpen
	u.logger.Debug("Transaction opened", u.fields()...)

	defer func() {
		if u.state != TxOpen {
			return
		}
		u.state = TxRolledBack
		if rbErr := u.adapter.Rollback(); rbErr != nil {
			u.logger.Error("Failed to rollback transaction", u.fields("error", rbErr)...)
			err = errors.Join(err, asTransactionError(database.TxRollback, rbErr))
			return
		}
		u.logger.Warn("Transaction rolled back", u.fields("error", err, "elapsed", utils.Elapsed(start))...)
	}()

	for _, s := range steps {
		n, execErr := u.adapter.Execute(ctx, s.stmt.Text, s.stmt.Params)
		if execErr != nil {
			return 0, fmt.Errorf("%s %s %s: %s: %w", u.op, u.kind, u.id, s.name, asStatementError(s.stmt.Text, execErr))
		}
		if s.mustAffect && n == 0 {
			return 0, fmt.Errorf("%s %s %s: %s: %w", u.op, u.kind, u.id, s.name,
				&database.StatementError{Statement: s.stmt.Text, Err: database.ErrNoRowsAffected})
		}
		last = n
	}

	if err := u.adapter.Commit(); err != nil {
		u.state = TxRolledBack
		u.logger.Error("Failed to commit transaction", u.fields("error", err)...)
		return 0, asTransactionError(database.TxCommit, err)
	}
	u.state = TxCommitted
	u.logger.Info("Transaction committed", u.fields("steps", len(steps), "elapsed", utils.Elapsed(start))...)
	return last, nil
}

func (u *unitOfWork) fields(kv ...interface{}) []interface{} {
	return append([]interface{}{"tx_id", u.txID, "op", u.op, "kind", u.kind, "id", u.id}, kv...)
}

func asTransactionError(phase database.TxPhase, err error) error {
	if database.IsTransaction(err) {
		return err
	}
	return &database.TransactionError{Phase: phase, Err: err}
}

func asStatementError(statement string, err error) error {
	if database.IsStatement(err) {
		return err
	}
	return database.NewStatementError(statement, err)
}

// idParams is the parameter set of the by-id steps.
func idParams(id string) types.Params {
	return types.Params{"id": id}
}
