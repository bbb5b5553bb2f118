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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomoncle/mediatek/database"
	"github.com/tomoncle/mediatek/internal/testutil"
	"github.com/tomoncle/mediatek/model"
	"github.com/tomoncle/mediatek/types"
)

func writeSQL(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestSessionSeed(t *testing.T) {
	ctx := context.Background()
	s := testutil.OpenSQLite(t)
	root := t.TempDir()

	writeSQL(t, filepath.Join(root, "common", "010_rayon.sql"),
		`INSERT INTO "rayon" ("id", "libelle") VALUES (1, 'Nouveautés');`)
	writeSQL(t, filepath.Join(root, "common", "002_genre.sql"), `
-- genres first
INSERT INTO "genre" ("id", "libelle") VALUES (1, 'Roman');
INSERT INTO "genre" ("id", "libelle") VALUES (2, 'Bande dessinée');
`)
	writeSQL(t, filepath.Join(root, "environments", "prod", "001_etat.sql"),
		`INSERT INTO "etat" ("id", "libelle") VALUES (1, 'neuf');`)
	writeSQL(t, filepath.Join(root, "environments", "dev", "001_etat.sql"),
		`INSERT INTO "etat" ("id", "libelle") VALUES (9, 'dev only');`)

	results, err := s.Seed(ctx, root)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "002_genre.sql", filepath.Base(results[0].File))
	assert.EqualValues(t, 2, results[0].RowsAffected)
	assert.Equal(t, "010_rayon.sql", filepath.Base(results[1].File))
	assert.Equal(t, "001_etat.sql", filepath.Base(results[2].File))

	rows, err := s.Adapter.Query(ctx, `SELECT "id" FROM "etat"`, nil)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.EqualValues(t, 1, rows[0]["id"])
}

func TestSessionSeedRollsBackFailingFile(t *testing.T) {
	ctx := context.Background()
	s := testutil.OpenSQLite(t)
	root := t.TempDir()

	writeSQL(t, filepath.Join(root, "common", "001_genre.sql"), `
INSERT INTO "genre" ("id", "libelle") VALUES (1, 'Roman');
INSERT INTO "nope" ("id") VALUES (1);
`)

	results, err := s.Seed(ctx, root)
	require.Error(t, err)
	require.Len(t, results, 1)
	assert.False(t, results[0].Success)
	assert.Equal(t, 0, testutil.CountByID(t, s.DB(), model.TableGenre, "1"))
}

func TestSessionHealthAndSchema(t *testing.T) {
	ctx := context.Background()
	s := testutil.OpenSQLite(t)

	status := s.HealthCheck(ctx)
	assert.True(t, status.Healthy)
	assert.True(t, status.Connected)

	// creating the schema twice is a no-op
	require.NoError(t, s.CreateSchema(ctx, model.Registry()))
	for _, table := range []string{model.TableDocument, model.TableLoanable, model.TableBook, model.TableCopy, model.TableOrder} {
		assert.Equal(t, 0, testutil.CountByID(t, s.DB(), table, "X"), table)
	}
}

func TestCreateSchemaDeclaresForeignKeys(t *testing.T) {
	ctx := context.Background()
	s := testutil.OpenSQLite(t)

	rows, err := s.Adapter.Query(ctx, `PRAGMA foreign_keys`, nil)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.EqualValues(t, 1, rows[0]["foreign_keys"])

	for _, fk := range model.ForeignKeys() {
		rows, err := s.Adapter.Query(ctx, `SELECT "table", "from", "to", "on_delete" FROM pragma_foreign_key_list(:table)`,
			types.Params{"table": fk.Table})
		require.NoError(t, err)
		require.Len(t, rows, 1, fk.Table)
		assert.Equal(t, fk.ReferenceTable, rows[0].Text("table"), fk.Table)
		assert.Equal(t, fk.Column, rows[0].Text("from"), fk.Table)
		assert.Equal(t, fk.ReferenceColumn, rows[0].Text("to"), fk.Table)
		assert.Equal(t, database.ActionRestrict, rows[0].Text("on_delete"), fk.Table)
	}

	registry := database.NewModelRegistry()
	registry.RegisterForeignKey(database.ForeignKeyConstraint{Table: "genre", Column: "id", ReferenceTable: "x y", ReferenceColumn: "id"})
	assert.Error(t, database.CreateSchema(ctx, s.DB(), registry))
}

func TestConnectRejectsBadConfig(t *testing.T) {
	_, err := database.Connect(context.Background(), nil)
	assert.Error(t, err)

	cfg := testutil.SQLiteConfig(t.TempDir())
	cfg.ConnectionConfig.Type = "oracle"
	_, err = database.Connect(context.Background(), cfg)
	assert.Error(t, err)
}
