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

package model

import "github.com/tomoncle/mediatek/database"

// Creation priorities: referenced tables first.
const (
	PriorityLookup   = 0
	PriorityDocument = 10
	PriorityMarker   = 20
	PrioritySubtype  = 30
	PriorityChild    = 40
)

// Registry returns a registry holding every catalog table.
func Registry() database.ModelRegistry {
	r := database.NewModelRegistry()
	for _, m := range []database.SQLModel{
		database.NewModelAdapter((*Genre)(nil), PriorityLookup),
		database.NewModelAdapter((*Audience)(nil), PriorityLookup),
		database.NewModelAdapter((*Shelf)(nil), PriorityLookup),
		database.NewModelAdapter((*State)(nil), PriorityLookup),
		database.NewModelAdapter((*Document)(nil), PriorityDocument),
		database.NewModelAdapter((*Loanable)(nil), PriorityMarker),
		database.NewModelAdapter((*Book)(nil), PrioritySubtype),
		database.NewModelAdapter((*Dvd)(nil), PrioritySubtype),
		database.NewModelAdapter((*Periodical)(nil), PrioritySubtype),
		database.NewModelAdapter((*Copy)(nil), PriorityChild),
		database.NewModelAdapter((*Order)(nil), PriorityChild),
	} {
		r.Register(m)
	}
	r.RegisterForeignKey(ForeignKeys()...)
	return r
}

// ForeignKeys returns the references between catalog tables. Every entity
// row and every copy hangs off a document, orders hang off a book or dvd, and
// all of them restrict deleting what they reference.
func ForeignKeys() []database.ForeignKeyConstraint {
	fks := []database.ForeignKeyConstraint{
		{Table: TableLoanable, Column: "id", ReferenceTable: TableDocument, ReferenceColumn: "id"},
		{Table: TableBook, Column: "id", ReferenceTable: TableLoanable, ReferenceColumn: "id"},
		{Table: TableDvd, Column: "id", ReferenceTable: TableLoanable, ReferenceColumn: "id"},
		{Table: TablePeriodical, Column: "id", ReferenceTable: TableDocument, ReferenceColumn: "id"},
		{Table: TableCopy, Column: "id", ReferenceTable: TableDocument, ReferenceColumn: "id"},
		{Table: TableOrder, Column: "idLivreDvd", ReferenceTable: TableLoanable, ReferenceColumn: "id"},
	}
	for i := range fks {
		fks[i].OnDelete = database.ActionRestrict
		fks[i].OnUpdate = database.ActionRestrict
	}
	return fks
}
