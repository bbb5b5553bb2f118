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
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomoncle/mediatek/database"
	"github.com/tomoncle/mediatek/internal/testutil"
	"github.com/tomoncle/mediatek/types"
)

func TestBuildSelect(t *testing.T) {
	stmt, err := BuildSelect(database.DialectSQLite, "exemplaire", nil)
	require.NoError(t, err)
	want := Statement{Text: `SELECT * FROM "exemplaire"`, Params: types.Params{}}
	if diff := cmp.Diff(want, stmt); diff != "" {
		t.Errorf("unfiltered select (-want +got):\n%s", diff)
	}

	stmt, err = BuildSelect(database.DialectMySQL, "exemplaire", types.Fields{"numero": 2, "id": "L1"})
	require.NoError(t, err)
	want = Statement{
		Text:   "SELECT * FROM `exemplaire` WHERE `id` = :where_id AND `numero` = :where_numero",
		Params: types.Params{"where_id": "L1", "where_numero": 2},
	}
	if diff := cmp.Diff(want, stmt); diff != "" {
		t.Errorf("filtered select (-want +got):\n%s", diff)
	}
}

func TestBuildInsert(t *testing.T) {
	stmt, err := BuildInsert(database.DialectPostgres, "genre", types.Fields{"libelle": "Roman", "id": 1})
	require.NoError(t, err)
	want := Statement{
		Text:   `INSERT INTO "genre" ("id", "libelle") VALUES (:id, :libelle)`,
		Params: types.Params{"id": 1, "libelle": "Roman"},
	}
	if diff := cmp.Diff(want, stmt); diff != "" {
		t.Errorf("insert (-want +got):\n%s", diff)
	}
}

func TestBuildUpdate(t *testing.T) {
	stmt, err := BuildUpdate(database.DialectSQLite, "etat", "2", types.Fields{"libelle": "usagé", "id": 5})
	require.NoError(t, err)
	want := Statement{
		Text:   `UPDATE "etat" SET "id" = :set_id, "libelle" = :set_libelle WHERE "id" = :where_id`,
		Params: types.Params{"set_id": 5, "set_libelle": "usagé", "where_id": "2"},
	}
	if diff := cmp.Diff(want, stmt); diff != "" {
		t.Errorf("update (-want +got):\n%s", diff)
	}
}

func TestBuildDelete(t *testing.T) {
	stmt, err := BuildDelete(database.DialectSQLite, "commandedocument", types.Fields{"idLivreDvd": "L1"})
	require.NoError(t, err)
	want := Statement{
		Text:   `DELETE FROM "commandedocument" WHERE "idLivreDvd" = :where_idLivreDvd`,
		Params: types.Params{"where_idLivreDvd": "L1"},
	}
	if diff := cmp.Diff(want, stmt); diff != "" {
		t.Errorf("delete (-want +got):\n%s", diff)
	}
}

func TestBuildersRejectInvalidInput(t *testing.T) {
	d := database.DialectSQLite
	tests := []struct {
		name  string
		build func() (Statement, error)
		field string
	}{
		{"select empty table", func() (Statement, error) { return BuildSelect(d, "", nil) }, ""},
		{"select injected table", func() (Statement, error) { return BuildSelect(d, "genre; DROP TABLE genre", nil) }, ""},
		{"select injected column", func() (Statement, error) {
			return BuildSelect(d, "genre", types.Fields{"id = 1 OR 1": 1})
		}, "id = 1 OR 1"},
		{"insert no fields", func() (Statement, error) { return BuildInsert(d, "genre", types.Fields{}) }, ""},
		{"update no id", func() (Statement, error) { return BuildUpdate(d, "genre", " ", types.Fields{"libelle": "x"}) }, "id"},
		{"update no fields", func() (Statement, error) { return BuildUpdate(d, "genre", "1", nil) }, ""},
		{"delete no filter", func() (Statement, error) { return BuildDelete(d, "genre", types.Fields{}) }, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.build()
			require.Error(t, err)
			var ve *database.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestGenericQueryBuilderValidationRunsNoStatement(t *testing.T) {
	ctx := context.Background()
	a := testutil.NewRecordingAdapter()
	g, err := NewGenericQueryBuilder(a)
	require.NoError(t, err)

	_, err = g.Delete(ctx, "genre", nil)
	assert.True(t, database.IsValidation(err))
	_, err = g.Update(ctx, "genre", "", types.Fields{"libelle": "x"})
	assert.True(t, database.IsValidation(err))
	_, err = g.Insert(ctx, "genre", nil)
	assert.True(t, database.IsValidation(err))
	assert.Empty(t, a.Calls())
}

func TestGenericQueryBuilderForwardsAdapter(t *testing.T) {
	ctx := context.Background()
	a := testutil.NewRecordingAdapter()
	a.Rows = []types.Row{{"id": int64(1), "libelle": "Roman"}}
	g, err := NewGenericQueryBuilder(a)
	require.NoError(t, err)

	rows, err := g.Select(ctx, "genre", types.Fields{"id": 1})
	require.NoError(t, err)
	assert.Equal(t, a.Rows, rows)

	a.Affected = 0
	n, err := g.Update(ctx, "genre", "9", types.Fields{"libelle": "x"})
	require.NoError(t, err, "zero rows affected is not an error")
	assert.Zero(t, n)

	failure := errors.New("connection reset")
	a.FailExecAt, a.ExecErr = 2, failure
	_, err = g.Delete(ctx, "genre", types.Fields{"id": 1})
	assert.Same(t, failure, err)

	assert.Equal(t, []string{"query", "execute", "execute"}, a.Methods())
	assert.Equal(t, types.Params{"where_id": 1}, a.Calls()[0].Params)
}

func TestGenericQueryBuilderNilAdapter(t *testing.T) {
	_, err := NewGenericQueryBuilder(nil)
	assert.Error(t, err)
}
