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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func copyToDocument() ForeignKeyConstraint {
	return ForeignKeyConstraint{
		Table: "exemplaire", Column: "id", ReferenceTable: "document", ReferenceColumn: "id",
		OnDelete: ActionRestrict, OnUpdate: ActionRestrict,
	}
}

func TestForeignKeyConstraintValidate(t *testing.T) {
	assert.NoError(t, copyToDocument().Validate())
	assert.Equal(t, "fk_exemplaire_id", copyToDocument().GenerateConstraintName())

	lower := copyToDocument()
	lower.OnDelete = "set null"
	assert.NoError(t, lower.Validate())

	tests := []struct {
		name   string
		mutate func(*ForeignKeyConstraint)
		want   string
	}{
		{"blank table", func(fk *ForeignKeyConstraint) { fk.Table = "" }, "table name cannot be empty"},
		{"blank reference column", func(fk *ForeignKeyConstraint) { fk.ReferenceColumn = "" }, "reference column name cannot be empty"},
		{"unsafe column", func(fk *ForeignKeyConstraint) { fk.Column = "id; DROP" }, "invalid column name"},
		{"bad delete policy", func(fk *ForeignKeyConstraint) { fk.OnDelete = "EXPLODE" }, "invalid delete policy"},
		{"bad update policy", func(fk *ForeignKeyConstraint) { fk.OnUpdate = "RESTRICT; --" }, "invalid update policy"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fk := copyToDocument()
			tt.mutate(&fk)
			err := fk.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestForeignKeyManager(t *testing.T) {
	order := ForeignKeyConstraint{
		Table: "commandedocument", Column: "idLivreDvd", ReferenceTable: "livres_dvd", ReferenceColumn: "id",
		ConstraintName: "fk_order_loanable",
	}
	bad := ForeignKeyConstraint{Table: "dvd"}
	fkm := NewForeignKeyManager(NewNopLogger(), copyToDocument(), order, bad)

	assert.Equal(t, []ForeignKeyConstraint{order}, fkm.GetConstraintsByTable("CommandeDocument"))
	assert.Empty(t, fkm.GetConstraintsByTable("genre"))
	assert.Len(t, fkm.ListAllConstraints(), 3)
	assert.Len(t, fkm.ValidateConstraints(), 1)
}

func TestModelRegistryForeignKeys(t *testing.T) {
	r := NewModelRegistry()
	assert.Empty(t, r.ForeignKeys())
	r.RegisterForeignKey(copyToDocument())
	fks := r.ForeignKeys()
	require.Len(t, fks, 1)
	fks[0].Table = "changed"
	assert.Equal(t, "exemplaire", r.ForeignKeys()[0].Table)
}
