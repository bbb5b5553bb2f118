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
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestIsSqlError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		is   bool
		kind SQLError
	}{
		{"nil", nil, false, UnknownErr},
		{"plain", errors.New("boom"), false, UnknownErr},
		{"mysql duplicate", &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}, true, DuplicateKeyErr},
		{"mysql fk", &mysql.MySQLError{Number: 1452}, true, ForeignKeyViolationErr},
		{"mysql other", &mysql.MySQLError{Number: 9999}, true, UnknownErr},
		{"pq no table", &pq.Error{Code: "42P01"}, true, NoTableErr},
		{"pq other", &pq.Error{Code: "XX000"}, true, UnknownErr},
		{"pgx fk", &pgconn.PgError{Code: "23503"}, true, ForeignKeyViolationErr},
		{"pgx wrapped", fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23502"}), true, NotNullViolationErr},
		{"sqlite unique", errors.New("constraint failed: UNIQUE constraint failed: document.id (1555)"), true, DuplicateKeyErr},
		{"sqlite no table", errors.New("SQL logic error: no such table: livre (1)"), true, NoTableErr},
		{"sqlite column", errors.New("table document has no column named auteur"), true, NoColumnErr},
		{"no rows", sql.ErrNoRows, true, NoRowsErr},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			is, kind := IsSqlError(tt.err)
			assert.Equal(t, tt.is, is)
			assert.Equal(t, tt.kind, kind)
		})
	}
}

func TestErrorTaxonomy(t *testing.T) {
	v := NewValidationError("insert", "livre", "Titre", "field is required")
	assert.True(t, IsValidation(v))
	assert.False(t, IsStatement(v))
	assert.Equal(t, "validation failed: insert livre: field Titre: field is required", v.Error())

	tx := &TransactionError{Phase: TxCommit, Err: ErrNoTransaction}
	wrapped := fmt.Errorf("update dvd D1: %w", tx)
	assert.True(t, IsTransaction(wrapped))
	assert.ErrorIs(t, wrapped, ErrNoTransaction)
	var txErr *TransactionError
	assert.True(t, errors.As(wrapped, &txErr))
	assert.Equal(t, TxCommit, txErr.Phase)

	st := NewStatementError("INSERT ...", &pq.Error{Code: "23505"})
	assert.True(t, IsStatement(st))
	assert.False(t, IsTransaction(st))
	assert.Equal(t, DuplicateKeyErr, st.Kind)
	assert.Contains(t, st.Error(), "duplicate_key")
}
