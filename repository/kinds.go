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

import "github.com/tomoncle/mediatek/model"

// IDField is the request key carrying a composite entity id.
const IDField = "Id"

// Column maps a request field key to its physical column.
type Column struct {
	Field  string
	Column string
}

// Kind describes one composite entity: its subtype table, whether it has a
// loanable marker row, and its subtype columns.
type Kind struct {
	Name     string
	Table    string
	Loanable bool
	Columns  []Column
}

// DocumentColumns are the shared columns written to the anchor table,
// besides id.
var DocumentColumns = []Column{
	{Field: "Titre", Column: "titre"},
	{Field: "Image", Column: "image"},
	{Field: "IdRayon", Column: "idRayon"},
	{Field: "IdPublic", Column: "idPublic"},
	{Field: "IdGenre", Column: "idGenre"},
}

var (
	Book = Kind{
		Name:     "book",
		Table:    model.TableBook,
		Loanable: true,
		Columns: []Column{
			{Field: "Isbn", Column: "ISBN"},
			{Field: "Auteur", Column: "auteur"},
			{Field: "Collection", Column: "collection"},
		},
	}
	Dvd = Kind{
		Name:     "dvd",
		Table:    model.TableDvd,
		Loanable: true,
		Columns: []Column{
			{Field: "Synopsis", Column: "synopsis"},
			{Field: "Realisateur", Column: "realisateur"},
			{Field: "Duree", Column: "duree"},
		},
	}
	Periodical = Kind{
		Name:     "periodical",
		Table:    model.TablePeriodical,
		Loanable: false,
		Columns: []Column{
			{Field: "Periodicite", Column: "periodicite"},
			{Field: "DelaiMiseADispo", Column: "delaiMiseADispo"},
		},
	}
)

// Kinds returns the composite kinds in a fixed order.
func Kinds() []Kind {
	return []Kind{Book, Dvd, Periodical}
}

// RequiredFields returns Id, the shared fields and the subtype fields.
func (k Kind) RequiredFields() []string {
	out := make([]string, 0, 1+len(DocumentColumns)+len(k.Columns))
	out = append(out, IDField)
	for _, c := range DocumentColumns {
		out = append(out, c.Field)
	}
	for _, c := range k.Columns {
		out = append(out, c.Field)
	}
	return out
}
