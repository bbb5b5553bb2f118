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
	"context"
	"database/sql"
	"errors"
	"fmt"
	"reflect"

	"github.com/uptrace/bun"
)

// CreateSchema creates a table for every registered model that does not
// exist yet, in one transaction, declaring the registry's foreign keys on
// the tables that hold them. Existing tables are left untouched.
func CreateSchema(ctx context.Context, db *bun.DB, registry ModelRegistry) error {
	if db == nil {
		return fmt.Errorf("database not initialized")
	}
	fkm := NewForeignKeyManager(GetLogger(), registry.ForeignKeys()...)
	if errs := fkm.ValidateConstraints(); len(errs) > 0 {
		return fmt.Errorf("invalid foreign keys: %w", errors.Join(errs...))
	}
	instances := ModelInstances(registry)

	return db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		for _, model := range instances {
			table := db.Table(reflect.TypeOf(model)).Name
			q := tx.NewCreateTable().
				Model(model).
				IfNotExists()
			if _, err := fkm.Apply(q, table).Exec(ctx); err != nil {
				return fmt.Errorf("failed to create table %s: %w", table, err)
			}
		}
		return nil
	})
}
