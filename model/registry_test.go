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

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/tomoncle/mediatek/database"
)

func TestRegistryCreationOrder(t *testing.T) {
	var got []string
	for _, inst := range database.ModelInstances(Registry()) {
		got = append(got, fmt.Sprintf("%T", inst))
	}
	want := []string{
		"*model.Genre", "*model.Audience", "*model.Shelf", "*model.State",
		"*model.Document",
		"*model.Loanable",
		"*model.Book", "*model.Dvd", "*model.Periodical",
		"*model.Copy", "*model.Order",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("creation order mismatch (-want +got):\n%s", diff)
	}
}

func TestLookupTables(t *testing.T) {
	want := []string{TableGenre, TableAudience, TableShelf, TableState}
	if diff := cmp.Diff(want, LookupTables); diff != "" {
		t.Errorf("lookup tables mismatch (-want +got):\n%s", diff)
	}
}

func TestForeignKeysFollowCreationOrder(t *testing.T) {
	created := map[string]int{}
	for i, inst := range database.ModelInstances(Registry()) {
		created[tableOf(inst)] = i
	}
	fks := Registry().ForeignKeys()
	if len(fks) != len(ForeignKeys()) {
		t.Fatalf("registry holds %d foreign keys, want %d", len(fks), len(ForeignKeys()))
	}
	for _, fk := range fks {
		if err := fk.Validate(); err != nil {
			t.Errorf("%s: %v", fk.GenerateConstraintName(), err)
		}
		from, ok := created[fk.Table]
		if !ok {
			t.Errorf("%s: table %s is not registered", fk.GenerateConstraintName(), fk.Table)
		}
		to, ok := created[fk.ReferenceTable]
		if !ok || to >= from {
			t.Errorf("%s: %s must be created before %s", fk.GenerateConstraintName(), fk.ReferenceTable, fk.Table)
		}
		if fk.OnDelete != database.ActionRestrict {
			t.Errorf("%s: on delete %q, want RESTRICT", fk.GenerateConstraintName(), fk.OnDelete)
		}
	}
}

func tableOf(inst interface{}) string {
	switch inst.(type) {
	case *Genre:
		return TableGenre
	case *Audience:
		return TableAudience
	case *Shelf:
		return TableShelf
	case *State:
		return TableState
	case *Document:
		return TableDocument
	case *Loanable:
		return TableLoanable
	case *Book:
		return TableBook
	case *Dvd:
		return TableDvd
	case *Periodical:
		return TablePeriodical
	case *Copy:
		return TableCopy
	case *Order:
		return TableOrder
	}
	return ""
}
