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
	"github.com/tomoncle/mediatek/model"
	"github.com/tomoncle/mediatek/types"
)

// CompositeEntityRepository writes a composite entity across the document
// table, the loanable marker table for books and dvds, and its subtype table,
// inside one transaction.
//
// Create runs document, marker, subtype. Update runs document, subtype.
// Delete runs subtype, marker, document.
type CompositeEntityRepository struct {
	kind    Kind
	adapter database.ConnectionAdapter
	logger  database.Logger
}

var _ CompositeRepository = (*CompositeEntityRepository)(nil)

// CompositeOption configures a CompositeEntityRepository.
type CompositeOption func(*CompositeEntityRepository)

// WithCompositeLogger sets the logger of transaction events.
func WithCompositeLogger(logger database.Logger) CompositeOption {
	return func(r *CompositeEntityRepository) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewCompositeEntityRepository returns the repository of kind bound to adapter.
func NewCompositeEntityRepository(adapter database.ConnectionAdapter, kind Kind, opts ...CompositeOption) (*CompositeEntityRepository, error) {
	if adapter == nil {
		return nil, errors.New("connection adapter cannot be nil")
	}
	if kind.Table == "" || len(kind.Columns) == 0 {
		return nil, errors.New("composite kind must name a table and its columns")
	}
	r := &CompositeEntityRepository{kind: kind, adapter: adapter, logger: database.GetLogger()}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

func (r *CompositeEntityRepository) Kind() Kind { return r.kind }

// Create inserts the document, the marker when the kind is loanable, and the
// subtype row. Every insert must affect a row. It returns the accepted fields.
func (r *CompositeEntityRepository) Create(ctx context.Context, fields types.Fields) (types.Result, error) {
	id, accepted, err := r.validate("insert", fields)
	if err != nil {
		return types.Result{}, err
	}
	d := r.adapter.Dialect()

	steps := []step{{
		name:       "insert " + model.TableDocument,
		stmt:       insertStatement(d, model.TableDocument, id, DocumentColumns, accepted),
		mustAffect: true,
	}}
	if r.kind.Loanable {
		steps = append(steps, step{
			name:       "insert " + model.TableLoanable,
			stmt:       insertStatement(d, model.TableLoanable, id, nil, accepted),
			mustAffect: true,
		})
	}
	steps = append(steps, step{
		name:       "insert " + r.kind.Table,
		stmt:       insertStatement(d, r.kind.Table, id, r.kind.Columns, accepted),
		mustAffect: true,
	})

	n, err := newUnitOfWork(r.adapter, r.logger, "insert", r.kind.Name, id).run(ctx, steps)
	if err != nil {
		return types.Result{}, err
	}
	return types.Result{Affected: n, Fields: accepted}, nil
}

// Update rewrites the document row then the subtype row. Rows matching no
// id are not an error. It returns the accepted fields.
func (r *CompositeEntityRepository) Update(ctx context.Context, fields types.Fields) (types.Result, error) {
	id, accepted, err := r.validate("update", fields)
	if err != nil {
		return types.Result{}, err
	}
	d := r.adapter.Dialect()

	steps := []step{
		{name: "update " + model.TableDocument, stmt: updateStatement(d, model.TableDocument, id, DocumentColumns, accepted)},
		{name: "update " + r.kind.Table, stmt: updateStatement(d, r.kind.Table, id, r.kind.Columns, accepted)},
	}
	n, err := newUnitOfWork(r.adapter, r.logger, "update", r.kind.Name, id).run(ctx, steps)
	if err != nil {
		return types.Result{}, err
	}
	return types.Result{Affected: n, Fields: accepted}, nil
}

// Delete removes the subtype row, the marker when the kind is loanable, and
// the document row. It returns the count of the document delete.
func (r *CompositeEntityRepository) Delete(ctx context.Context, id string) (int64, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return 0, database.NewValidationError("delete", r.kind.Table, IDField, "id is required")
	}
	d := r.adapter.Dialect()

	steps := []step{{name: "delete " + r.kind.Table, stmt: deleteStatement(d, r.kind.Table, id)}}
	if r.kind.Loanable {
		steps = append(steps, step{name: "delete " + model.TableLoanable, stmt: deleteStatement(d, model.TableLoanable, id)})
	}
	steps = append(steps, step{name: "delete " + model.TableDocument, stmt: deleteStatement(d, model.TableDocument, id)})

	return newUnitOfWork(r.adapter, r.logger, "delete", r.kind.Name, id).run(ctx, steps)
}

// validate checks that every required field is present before any
// transaction opens, and returns the trimmed id with the accepted subset of
// fields. Unknown keys are dropped.
func (r *CompositeEntityRepository) validate(op string, fields types.Fields) (string, types.Fields, error) {
	if len(fields) == 0 {
		return "", nil, database.NewValidationError(op, r.kind.Table, "", "fields are required")
	}
	id, ok := fields.Text(IDField)
	if !ok {
		return "", nil, database.NewValidationError(op, r.kind.Table, IDField, "id is required")
	}
	accepted := make(types.Fields, len(r.kind.Columns)+len(DocumentColumns)+1)
	for _, key := range r.kind.RequiredFields() {
		if !fields.Has(key) {
			return "", nil, database.NewValidationError(op, r.kind.Table, key, "field is required")
		}
		accepted[key] = fields[key]
	}
	accepted[IDField] = id
	return id, accepted, nil
}

func insertStatement(d database.Dialect, table, id string, columns []Column, fields types.Fields) Statement {
	cols := []string{d.Quote("id")}
	holders := []string{":id"}
	params := idParams(id)
	for _, c := range columns {
		cols = append(cols, d.Quote(c.Column))
		holders = append(holders, ":"+c.Column)
		params[c.Column] = fields[c.Field]
	}
	return Statement{
		Text:   "INSERT INTO " + d.Quote(table) + " (" + strings.Join(cols, ", ") + ") VALUES (" + strings.Join(holders, ", ") + ")",
		Params: params,
	}
}

func updateStatement(d database.Dialect, table, id string, columns []Column, fields types.Fields) Statement {
	sets := make([]string, 0, len(columns))
	params := idParams(id)
	for _, c := range columns {
		sets = append(sets, d.Quote(c.Column)+" = :"+c.Column)
		params[c.Column] = fields[c.Field]
	}
	return Statement{
		Text:   "UPDATE " + d.Quote(table) + " SET " + strings.Join(sets, ", ") + " WHERE " + d.Quote("id") + " = :id",
		Params: params,
	}
}

func deleteStatement(d database.Dialect, table, id string) Statement {
	return Statement{
		Text:   "DELETE FROM " + d.Quote(table) + " WHERE " + d.Quote("id") + " = :id",
		Params: idParams(id),
	}
}
