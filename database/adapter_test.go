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

package database_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomoncle/mediatek/database"
	"github.com/tomoncle/mediatek/internal/testutil"
	"github.com/tomoncle/mediatek/types"
)

type eventRecorder struct {
	mu     sync.Mutex
	events []database.StatementEvent
}

func (r *eventRecorder) AfterStatement(_ context.Context, event *database.StatementEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, *event)
}

const insertGenre = `INSERT INTO "genre" ("id", "libelle") VALUES (:id, :libelle)`

func TestBunAdapterQueryAndExecute(t *testing.T) {
	ctx := context.Background()
	s := testutil.OpenSQLite(t)
	rec := &eventRecorder{}
	a, err := database.NewBunAdapter(s.DB(), database.WithStatementHooks(rec))
	require.NoError(t, err)
	assert.Equal(t, database.DialectSQLite, a.Dialect())

	n, err := a.Execute(ctx, insertGenre, types.Params{"id": 1, "libelle": "Roman"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	rows, err := a.Query(ctx, `SELECT "id", "libelle" FROM "genre" WHERE "libelle" = :libelle`,
		types.Params{"libelle": "Roman"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.EqualValues(t, 1, rows[0]["id"])
	assert.Equal(t, "Roman", rows[0]["libelle"])

	rows, err = a.Query(ctx, `SELECT * FROM "genre" WHERE "libelle" = :libelle`, types.Params{"libelle": "x"})
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)

	n, err = a.Execute(ctx, `DELETE FROM "genre" WHERE "id" = :id`, types.Params{"id": 42})
	require.NoError(t, err)
	assert.Zero(t, n)

	require.Len(t, rec.events, 4)
	assert.Equal(t, "INSERT", rec.events[0].Operation)
	assert.Equal(t, `INSERT INTO "genre" ("id", "libelle") VALUES (?, ?)`, rec.events[0].Statement)
	assert.Equal(t, []interface{}{1, "Roman"}, rec.events[0].Args)
	assert.EqualValues(t, 1, rec.events[1].Affected)
	assert.False(t, rec.events[0].InTx)
}

func TestBunAdapterStatementErrors(t *testing.T) {
	ctx := context.Background()
	a := testutil.OpenSQLite(t).Adapter

	_, err := a.Execute(ctx, `DELETE FROM "nope" WHERE "id" = :id`, types.Params{"id": 1})
	require.Error(t, err)
	assert.True(t, database.IsStatement(err))
	var st *database.StatementError
	require.ErrorAs(t, err, &st)
	assert.Equal(t, database.NoTableErr, st.Kind)

	_, err = a.Query(ctx, `SELECT * FROM "genre" WHERE "id" = :id`, nil)
	assert.True(t, database.IsStatement(err))
	assert.ErrorIs(t, err, database.ErrMissingParam)

	_, err = a.Execute(ctx, insertGenre, types.Params{"id": 1, "libelle": "Roman"})
	require.NoError(t, err)
	_, err = a.Execute(ctx, insertGenre, types.Params{"id": 1, "libelle": "Roman"})
	require.ErrorAs(t, err, &st)
	assert.Equal(t, database.DuplicateKeyErr, st.Kind)
}

func TestBunAdapterTransactions(t *testing.T) {
	ctx := context.Background()
	a := testutil.OpenSQLite(t).Adapter
	count := func() int64 {
		rows, err := a.Query(ctx, `SELECT count(*) AS "n" FROM "genre"`, nil)
		require.NoError(t, err)
		return rows[0]["n"].(int64)
	}

	err := a.Commit()
	assert.True(t, database.IsTransaction(err))
	assert.ErrorIs(t, err, database.ErrNoTransaction)
	assert.ErrorIs(t, a.Rollback(), database.ErrNoTransaction)

	require.NoError(t, a.BeginTransaction(ctx))
	assert.True(t, a.InTransaction())
	err = a.BeginTransaction(ctx)
	assert.ErrorIs(t, err, database.ErrNestedTransaction)
	var txErr *database.TransactionError
	require.ErrorAs(t, err, &txErr)
	assert.Equal(t, database.TxBegin, txErr.Phase)

	_, err = a.Execute(ctx, insertGenre, types.Params{"id": 1, "libelle": "Roman"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, count())
	require.NoError(t, a.Rollback())
	assert.False(t, a.InTransaction())
	assert.EqualValues(t, 0, count())

	require.NoError(t, a.BeginTransaction(ctx))
	_, err = a.Execute(ctx, insertGenre, types.Params{"id": 2, "libelle": "Bande dessinée"})
	require.NoError(t, err)
	require.NoError(t, a.Commit())
	assert.False(t, a.InTransaction())
	assert.EqualValues(t, 1, count())
}

func TestNewBunAdapterRejectsNil(t *testing.T) {
	_, err := database.NewBunAdapter(nil)
	assert.Error(t, err)
}
