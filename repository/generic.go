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
	"errors"
	"strings"

	"github.com/tomoncle/mediatek/database"
	"github.com/tomoncle/mediatek/types"
)

const (
	setPrefix   = "set_"
	wherePrefix = "where_"
	idColumn    = "id"
)

// GenericQueryBuilder runs single-table statements built from field maps.
// Only identifiers reach the statement text; every value is a named parameter.
type GenericQueryBuilder struct {
	adapter database.ConnectionAdapter
}

var _ CrudRepository = (*GenericQueryBuilder)(nil)

// NewGenericQueryBuilder returns a builder bound to adapter.
func NewGenericQueryBuilder(adapter database.ConnectionAdapter) (*GenericQueryBuilder, error) {
	if adapter == nil {
		return nil, errors.New("connection adapter cannot be nil")
	}
	return &GenericQueryBuilder{adapter: adapter}, nil
}

// Select returns every row of table, or the rows matching all of filter.
func (g *GenericQueryBuilder) Select(ctx context.Context, table string, filter types.Fields) ([]types.Row, error) {
	stmt, err := BuildSelect(g.adapter.Dialect(), table, filter)
	if err != nil {
		return nil, err
	}
	return g.adapter.Query(ctx, stmt.Text, stmt.Params)
}

// Insert writes one row and returns the affected count.
func (g *GenericQueryBuilder) Insert(ctx context.Context, table string, fields types.Fields) (int64, error) {
	stmt, err := BuildInsert(g.adapter.Dialect(), table, fields)
	if err != nil {
		return 0, err
	}
	return g.adapter.Execute(ctx, stmt.Text, stmt.Params)
}

// Update sets fields on the row whose id column equals id.
func (g *GenericQueryBuilder) Update(ctx context.Context, table string, id string, fields types.Fields) (int64, error) {
	stmt, err := BuildUpdate(g.adapter.Dialect(), table, id, fields)
	if err != nil {
		return 0, err
	}
	return g.adapter.Execute(ctx, stmt.Text, stmt.Params)
}

// Delete removes the rows matching all of filter. An empty filter is refused.
func (g *GenericQueryBuilder) Delete(ctx context.Context, table string, filter types.Fields) (int64, error) {
	stmt, err := BuildDelete(g.adapter.Dialect(), table, filter)
	if err != nil {
		return 0, err
	}
	return g.adapter.Execute(ctx, stmt.Text, stmt.Params)
}

// BuildSelect builds "SELECT * FROM table [WHERE c1 = :where_c1 AND ...]".
func BuildSelect(d database.Dialect, table string, filter types.Fields) (Statement, error) {
	qt, err := quoteTable(d, "select", table)
	if err != nil {
		return Statement{}, err
	}
	text := "SELECT * FROM " + qt
	params := types.Params{}
	if len(filter) > 0 {
		where, err := buildWhere(d, "select", table, filter, params)
		if err != nil {
			return Statement{}, err
		}
		text += " WHERE " + where
	}
	return Statement{Text: text, Params: params}, nil
}

// BuildInsert builds "INSERT INTO table (c1, ...) VALUES (:c1, ...)".
func BuildInsert(d database.Dialect, table string, fields types.Fields) (Statement, error) {
	qt, err := quoteTable(d, "insert", table)
	if err != nil {
		return Statement{}, err
	}
	if len(fields) == 0 {
		return Statement{}, database.NewValidationError("insert", table, "", "fields are required")
	}
	keys := fields.Keys()
	cols := make([]string, 0, len(keys))
	holders := make([]string, 0, len(keys))
	params := make(types.Params, len(keys))
	for _, k := range keys {
		qc, err := quoteColumn(d, "insert", table, k)
		if err != nil {
			return Statement{}, err
		}
		cols = append(cols, qc)
		holders = append(holders, ":"+k)
		params[k] = fields[k]
	}
	text := "INSERT INTO " + qt + " (" + strings.Join(cols, ", ") + ") VALUES (" + strings.Join(holders, ", ") + ")"
	return Statement{Text: text, Params: params}, nil
}

// BuildUpdate builds "UPDATE table SET c1 = :set_c1, ... WHERE id = :where_id".
func BuildUpdate(d database.Dialect, table string, id string, fields types.Fields) (Statement, error) {
	qt, err := quoteTable(d, "update", table)
	if err != nil {
		return Statement{}, err
	}
	if strings.TrimSpace(id) == "" {
		return Statement{}, database.NewValidationError("update", table, idColumn, "id is required")
	}
	if len(fields) == 0 {
		return Statement{}, database.NewValidationError("update", table, "", "fields are required")
	}
	keys := fields.Keys()
	sets := make([]string, 0, len(keys))
	params := make(types.Params, len(keys)+1)
	for _, k := range keys {
		qc, err := quoteColumn(d, "update", table, k)
		if err != nil {
			return Statement{}, err
		}
		sets = append(sets, qc+" = :"+setPrefix+k)
		params[setPrefix+k] = fields[k]
	}
	params[wherePrefix+idColumn] = id
	text := "UPDATE " + qt + " SET " + strings.Join(sets, ", ") + " WHERE " + d.Quote(idColumn) + " = :" + wherePrefix + idColumn
	return Statement{Text: text, Params: params}, nil
}

// BuildDelete builds "DELETE FROM table WHERE c1 = :where_c1 AND ...".
func BuildDelete(d database.Dialect, table string, filter types.Fields) (Statement, error) {
	qt, err := quoteTable(d, "delete", table)
	if err != nil {
		return Statement{}, err
	}
	if len(filter) == 0 {
		return Statement{}, database.NewValidationError("delete", table, "", "a non-empty filter is required")
	}
	params := types.Params{}
	where, err := buildWhere(d, "delete", table, filter, params)
	if err != nil {
		return Statement{}, err
	}
	return Statement{Text: "DELETE FROM " + qt + " WHERE " + where, Params: params}, nil
}

func buildWhere(d database.Dialect, op, table string, filter types.Fields, params types.Params) (string, error) {
	keys := filter.Keys()
	preds := make([]string, 0, len(keys))
	for _, k := range keys {
		qc, err := quoteColumn(d, op, table, k)
		if err != nil {
			return "", err
		}
		preds = append(preds, qc+" = :"+wherePrefix+k)
		params[wherePrefix+k] = filter[k]
	}
	return strings.Join(preds, " AND "), nil
}

func quoteTable(d database.Dialect, op, table string) (string, error) {
	if table == "" {
		return "", database.NewValidationError(op, table, "", "table is required")
	}
	if !database.ValidIdent(table) {
		return "", database.NewValidationError(op, table, "", "invalid table name")
	}
	return d.Quote(table), nil
}

func quoteColumn(d database.Dialect, op, table, column string) (string, error) {
	if !database.ValidIdent(column) {
		return "", database.NewValidationError(op, table, column, "invalid column name")
	}
	return d.Quote(column), nil
}
