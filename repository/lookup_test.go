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
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomoncle/mediatek/database"
	"github.com/tomoncle/mediatek/internal/testutil"
	"github.com/tomoncle/mediatek/types"
)

func column(rows []types.Row, name string) []interface{} {
	out := make([]interface{}, len(rows))
	for i, r := range rows {
		out[i] = r[name]
	}
	return out
}

func createAll(t *testing.T, a database.ConnectionAdapter, kind Kind, fields ...types.Fields) {
	t.Helper()
	repo, err := NewCompositeEntityRepository(a, kind, WithCompositeLogger(database.NewNopLogger()))
	require.NoError(t, err)
	for _, f := range fields {
		_, err := repo.Create(context.Background(), f)
		require.NoError(t, err)
	}
}

func TestBuildView(t *testing.T) {
	stmt := BuildView(database.DialectSQLite, Periodical)
	want := `SELECT l."id", l."periodicite", l."delaiMiseADispo", d."titre", d."image", d."idRayon", d."idPublic", d."idGenre", ` +
		`g."libelle" AS "genre", p."libelle" AS "lePublic", r."libelle" AS "rayon" ` +
		`FROM "revue" l JOIN "document" d ON l."id" = d."id" ` +
		`JOIN "genre" g ON g."id" = d."idGenre" ` +
		`JOIN "public" p ON p."id" = d."idPublic" ` +
		`JOIN "rayon" r ON r."id" = d."idRayon" ` +
		`ORDER BY d."titre"`
	if diff := cmp.Diff(want, stmt.Text); diff != "" {
		t.Errorf("view (-want +got):\n%s", diff)
	}
	assert.Empty(t, stmt.Params)
}

func TestListSimpleOrdersByLabel(t *testing.T) {
	ctx := context.Background()
	s := testutil.OpenSQLite(t)
	testutil.SeedLookups(t, s.Adapter)
	r, err := NewLookupRepository(s.Adapter)
	require.NoError(t, err)

	rows, err := r.ListSimple(ctx, "genre")
	require.NoError(t, err)
	assert.Equal(t, []interface{}{"Bande dessinée", "Roman", "Science-fiction"}, column(rows, "libelle"))
	assert.Equal(t, []interface{}{int64(2), int64(1), int64(3)}, column(rows, "id"))

	_, err = r.ListSimple(ctx, "genre ORDER BY 1")
	assert.True(t, database.IsValidation(err))
}

func TestListViews(t *testing.T) {
	ctx := context.Background()
	s := testutil.OpenSQLite(t)
	testutil.SeedLookups(t, s.Adapter)
	createAll(t, s.Adapter, Book, testutil.BookFields("L2", "Fondation"), testutil.BookFields("L1", "Dune"))
	createAll(t, s.Adapter, Dvd, testutil.DvdFields("D1", "Heat"))
	r, err := NewLookupRepository(s.Adapter)
	require.NoError(t, err)

	books, err := r.ListBooksView(ctx)
	require.NoError(t, err)
	require.Len(t, books, 2)
	assert.Equal(t, []interface{}{"Dune", "Fondation"}, column(books, "titre"))
	assert.Equal(t, "L1", books[0]["id"])
	assert.Equal(t, "123", books[0]["ISBN"])
	assert.Equal(t, testutil.Genres[3], books[0]["genre"])
	assert.Equal(t, testutil.Audiences[2], books[0]["lePublic"])
	assert.Equal(t, testutil.Shelves[1], books[0]["rayon"])

	dvds, err := r.ListDvdsView(ctx)
	require.NoError(t, err)
	require.Len(t, dvds, 1)
	assert.Equal(t, "Mann", dvds[0]["realisateur"])

	periodicals, err := r.ListPeriodicalsView(ctx)
	require.NoError(t, err)
	assert.Empty(t, periodicals)
}

func TestListCopiesAndOrders(t *testing.T) {
	ctx := context.Background()
	s := testutil.OpenSQLite(t)
	testutil.SeedLookups(t, s.Adapter)
	createAll(t, s.Adapter, Book, testutil.BookFields("L1", "Dune"), testutil.BookFields("L2", "Fondation"))

	for _, c := range []types.Params{
		{"id": "L1", "numero": 1, "dateAchat": "2023-02-10", "idEtat": 1},
		{"id": "L1", "numero": 2, "dateAchat": "2024-06-01", "idEtat": 2},
		{"id": "L1", "numero": 3, "dateAchat": "2021-11-30", "idEtat": 3},
		{"id": "L2", "numero": 1, "dateAchat": "2025-01-01", "idEtat": 1},
	} {
		_, err := s.Adapter.Execute(ctx,
			`INSERT INTO "exemplaire" ("id", "numero", "dateAchat", "photo", "idEtat") VALUES (:id, :numero, :dateAchat, '', :idEtat)`, c)
		require.NoError(t, err)
	}
	for _, o := range []types.Params{
		{"id": "00003", "n": 1, "doc": "L1"},
		{"id": "00001", "n": 4, "doc": "L1"},
		{"id": "00002", "n": 2, "doc": "L2"},
	} {
		_, err := s.Adapter.Execute(ctx,
			`INSERT INTO "commandedocument" ("id", "nbExemplaire", "idLivreDvd") VALUES (:id, :n, :doc)`, o)
		require.NoError(t, err)
	}

	r, err := NewLookupRepository(s.Adapter)
	require.NoError(t, err)

	copies, err := r.ListCopiesOf(ctx, "L1")
	require.NoError(t, err)
	assert.Equal(t, []interface{}{int64(2), int64(1), int64(3)}, column(copies, "numero"))

	orders, err := r.ListOrdersOf(ctx, "L1")
	require.NoError(t, err)
	assert.Equal(t, []interface{}{"00001", "00003"}, column(orders, "id"))

	none, err := r.ListCopiesOf(ctx, "X9")
	require.NoError(t, err)
	assert.Empty(t, none)

	_, err = r.ListCopiesOf(ctx, "")
	assert.True(t, database.IsValidation(err))
	_, err = r.ListOrdersOf(ctx, "  ")
	assert.True(t, database.IsValidation(err))
}
