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
	"fmt"
	"strings"

	"github.com/uptrace/bun"
)

// Referential actions for ON DELETE and ON UPDATE.
const (
	ActionRestrict = "RESTRICT"
	ActionCascade  = "CASCADE"
	ActionSetNull  = "SET NULL"
	ActionNoAction = "NO ACTION"
)

var referentialActions = []string{ActionRestrict, ActionCascade, ActionSetNull, ActionNoAction}

// ForeignKeyConstraint describes a foreign key relationship between tables.
// Constraints are declared when the referencing table is created, since
// SQLite cannot add them to an existing table.
type ForeignKeyConstraint struct {
	Table           string
	Column          string
	ReferenceTable  string
	ReferenceColumn string
	OnDelete        string
	OnUpdate        string
	ConstraintName  string
}

// GenerateConstraintName returns the explicit name or a derived name.
func (fk ForeignKeyConstraint) GenerateConstraintName() string {
	if fk.ConstraintName != "" {
		return fk.ConstraintName
	}
	return fmt.Sprintf("fk_%s_%s", fk.Table, fk.Column)
}

// Validate reports the first problem with fk: a blank or unsafe identifier,
// or an unknown referential action.
func (fk ForeignKeyConstraint) Validate() error {
	for _, ident := range []struct{ what, name string }{
		{"table", fk.Table},
		{"column", fk.Column},
		{"reference table", fk.ReferenceTable},
		{"reference column", fk.ReferenceColumn},
	} {
		if ident.name == "" {
			return fmt.Errorf("%s name cannot be empty: %s", ident.what, fk.GenerateConstraintName())
		}
		if !ValidIdent(ident.name) {
			return fmt.Errorf("invalid %s name %q: %s", ident.what, ident.name, fk.GenerateConstraintName())
		}
	}
	if !validAction(fk.OnDelete) {
		return fmt.Errorf("invalid delete policy: %s, constraint: %s", fk.OnDelete, fk.GenerateConstraintName())
	}
	if !validAction(fk.OnUpdate) {
		return fmt.Errorf("invalid update policy: %s, constraint: %s", fk.OnUpdate, fk.GenerateConstraintName())
	}
	return nil
}

func validAction(action string) bool {
	if action == "" {
		return true
	}
	for _, a := range referentialActions {
		if strings.EqualFold(action, a) {
			return true
		}
	}
	return false
}

// apply appends the constraint to a CREATE TABLE query.
func (fk ForeignKeyConstraint) apply(q *bun.CreateTableQuery) *bun.CreateTableQuery {
	clause := "(?) REFERENCES ? (?)"
	if fk.OnDelete != "" {
		clause += " ON DELETE " + strings.ToUpper(fk.OnDelete)
	}
	if fk.OnUpdate != "" {
		clause += " ON UPDATE " + strings.ToUpper(fk.OnUpdate)
	}
	return q.ForeignKey(clause, bun.Ident(fk.Column), bun.Ident(fk.ReferenceTable), bun.Ident(fk.ReferenceColumn))
}

// ForeignKeyManager holds the foreign keys schema bootstrap declares.
type ForeignKeyManager struct {
	constraints []ForeignKeyConstraint
	logger      Logger
}

// NewForeignKeyManager returns a manager holding constraints.
func NewForeignKeyManager(logger Logger, constraints ...ForeignKeyConstraint) *ForeignKeyManager {
	if logger == nil {
		logger = GetLogger()
	}
	return &ForeignKeyManager{
		constraints: append([]ForeignKeyConstraint(nil), constraints...),
		logger:      logger,
	}
}

// GetConstraintsByTable returns the constraints declared on a table.
func (fkm *ForeignKeyManager) GetConstraintsByTable(tableName string) []ForeignKeyConstraint {
	var result []ForeignKeyConstraint
	for _, constraint := range fkm.constraints {
		if strings.EqualFold(constraint.Table, tableName) {
			result = append(result, constraint)
		}
	}
	return result
}

// ListAllConstraints returns all configured constraints.
func (fkm *ForeignKeyManager) ListAllConstraints() []ForeignKeyConstraint {
	return append([]ForeignKeyConstraint(nil), fkm.constraints...)
}

// ValidateConstraints checks every constraint and returns the problems found.
func (fkm *ForeignKeyManager) ValidateConstraints() []error {
	var errs []error
	for _, constraint := range fkm.constraints {
		if err := constraint.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

// Apply adds the constraints declared on table to q.
func (fkm *ForeignKeyManager) Apply(q *bun.CreateTableQuery, table string) *bun.CreateTableQuery {
	for _, constraint := range fkm.GetConstraintsByTable(table) {
		q = constraint.apply(q)
		fkm.logger.Debug("Declared foreign key constraint", "constraint", constraint.GenerateConstraintName(),
			"references", constraint.ReferenceTable+"."+constraint.ReferenceColumn)
	}
	return q
}
