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
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tomoncle/mediatek/database"
	"github.com/tomoncle/mediatek/model"
	"github.com/tomoncle/mediatek/types"
	"github.com/uptrace/bun"
)

// SQLiteConfig returns a config pointing at a fresh file under dir.
func SQLiteConfig(dir string) *database.Config {
	cfg := database.DefaultConfig()
	cfg.ConnectionConfig.Type = "sqlite"
	cfg.ConnectionConfig.DBName = filepath.Join(dir, "catalog")
	cfg.ConnectionConfig.SlowQueryTime = 0
	return cfg
}

// OpenSQLite connects to a new SQLite catalog in t.TempDir() with every
// catalog table created. The session is closed when the test ends.
func OpenSQLite(t *testing.T) *database.Session {
	t.Helper()
	ctx := context.Background()

	s, err := database.Connect(ctx, SQLiteConfig(t.TempDir()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.CreateSchema(ctx, model.Registry()))
	return s
}

// Lookup labels seeded by SeedLookups, deliberately not in label order.
var (
	Genres    = map[int64]string{1: "Roman", 2: "Bande dessinée", 3: "Science-fiction"}
	Audiences = map[int64]string{1: "Tous publics", 2: "Adultes", 3: "Jeunesse"}
	Shelves   = map[int64]string{1: "Nouveautés", 2: "Littérature", 3: "Policiers"}
	States    = map[int64]string{1: "neuf", 2: "usagé", 3: "détérioré"}
)

// SeedLookups fills the genre, public, rayon and etat tables.
func SeedLookups(t *testing.T, adapter database.ConnectionAdapter) {
	t.Helper()
	ctx := context.Background()
	d := adapter.Dialect()
	for table, labels := range map[string]map[int64]string{
		model.TableGenre:    Genres,
		model.TableAudience: Audiences,
		model.TableShelf:    Shelves,
		model.TableState:    States,
	} {
		for id, label := range labels {
			_, err := adapter.Execute(ctx,
				"INSERT INTO "+d.Quote(table)+" ("+d.Quote("id")+", "+d.Quote(model.LabelColumn)+") VALUES (:id, :label)",
				types.Params{"id": id, "label": label})
			require.NoError(t, err)
		}
	}
}

// CountByID counts the rows of table whose id column equals id.
func CountByID(t *testing.T, db *bun.DB, table, id string) int {
	t.Helper()
	var n int
	err := db.NewRaw("SELECT count(*) FROM ? WHERE ? = ?", bun.Ident(table), bun.Ident("id"), id).
		Scan(context.Background(), &n)
	require.NoError(t, err)
	return n
}

// BookFields returns a complete book request for id.
func BookFields(id, title string) types.Fields {
	return types.Fields{
		"Id": id, "Titre": title, "Image": "img.jpg",
		"IdRayon": 1, "IdPublic": 2, "IdGenre": 3,
		"Isbn": "123", "Auteur": "Herbert", "Collection": "SF",
	}
}

// DvdFields returns a complete dvd request for id.
func DvdFields(id, title string) types.Fields {
	return types.Fields{
		"Id": id, "Titre": title, "Image": "",
		"IdRayon": 2, "IdPublic": 1, "IdGenre": 1,
		"Synopsis": "A heist.", "Realisateur": "Mann", "Duree": 170,
	}
}

// PeriodicalFields returns a complete periodical request for id.
func PeriodicalFields(id, title string) types.Fields {
	return types.Fields{
		"Id": id, "Titre": title, "Image": "cover.png",
		"IdRayon": 3, "IdPublic": 3, "IdGenre": 2,
		"Periodicite": "MS", "DelaiMiseADispo": 30,
	}
}
