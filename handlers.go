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

package mediatek

import (
	"context"
	"fmt"

	"github.com/tomoncle/mediatek/database"
	"github.com/tomoncle/mediatek/repository"
	"github.com/tomoncle/mediatek/types"
)

// Handler serves the requests routed to it by a QueryDispatcher.
type Handler interface {
	// Select returns the rows of table matching filter.
	Select(ctx context.Context, table string, filter types.Fields) ([]types.Row, error)

	// Insert creates a row or composite entity from fields.
	Insert(ctx context.Context, table string, fields types.Fields) (types.Result, error)

	// Update modifies the row or composite entity identified by id.
	Update(ctx context.Context, table string, id string, fields types.Fields) (types.Result, error)

	// Delete removes what filter designates and returns the affected count.
	Delete(ctx context.Context, table string, filter types.Fields) (int64, error)
}

// NamedHandler is a Handler that reports a route name for logs and metrics.
type NamedHandler interface {
	Handler
	Name() string
}

func handlerName(h Handler) string {
	if n, ok := h.(NamedHandler); ok {
		return n.Name()
	}
	return "custom"
}

// GenericHandler routes to the single-table GenericQueryBuilder.
type GenericHandler struct {
	builder repository.CrudRepository
}

// NewGenericHandler wraps builder.
func NewGenericHandler(builder repository.CrudRepository) *GenericHandler {
	return &GenericHandler{builder: builder}
}

func (h *GenericHandler) Name() string { return "generic" }

func (h *GenericHandler) Select(ctx context.Context, table string, filter types.Fields) ([]types.Row, error) {
	return h.builder.Select(ctx, table, filter)
}

func (h *GenericHandler) Insert(ctx context.Context, table string, fields types.Fields) (types.Result, error) {
	n, err := h.builder.Insert(ctx, table, fields)
	if err != nil {
		return types.Result{}, err
	}
	return types.Result{Affected: n}, nil
}

func (h *GenericHandler) Update(ctx context.Context, table string, id string, fields types.Fields) (types.Result, error) {
	n, err := h.builder.Update(ctx, table, id, fields)
	if err != nil {
		return types.Result{}, err
	}
	return types.Result{Affected: n}, nil
}

func (h *GenericHandler) Delete(ctx context.Context, table string, filter types.Fields) (int64, error) {
	return h.builder.Delete(ctx, table, filter)
}

// CompositeHandler serves one composite kind: writes go through the
// composite repository, selects return the denormalized listing.
type CompositeHandler struct {
	repo   repository.CompositeRepository
	lookup repository.LookupReader
}

// NewCompositeHandler combines the writer and the listing of one kind.
func NewCompositeHandler(repo repository.CompositeRepository, lookup repository.LookupReader) *CompositeHandler {
	return &CompositeHandler{repo: repo, lookup: lookup}
}

func (h *CompositeHandler) Name() string { return "composite_" + h.repo.Kind().Name }

// Select ignores filter; the listing always covers the whole kind.
func (h *CompositeHandler) Select(ctx context.Context, _ string, _ types.Fields) ([]types.Row, error) {
	return h.lookup.ListView(ctx, h.repo.Kind())
}

func (h *CompositeHandler) Insert(ctx context.Context, _ string, fields types.Fields) (types.Result, error) {
	return h.repo.Create(ctx, fields)
}

// Update merges id into fields as Id. A different Id already in fields is
// rejected.
func (h *CompositeHandler) Update(ctx context.Context, table string, id string, fields types.Fields) (types.Result, error) {
	merged := fields.Clone()
	if existing, ok := merged.Text(repository.IDField); ok && existing != id {
		return types.Result{}, database.NewValidationError("update", table, repository.IDField,
			fmt.Sprintf("id %q does not match %q", existing, id))
	}
	merged[repository.IDField] = id
	return h.repo.Update(ctx, merged)
}

// Delete reads the entity id from the Id key of filter, or id when absent.
func (h *CompositeHandler) Delete(ctx context.Context, _ string, filter types.Fields) (int64, error) {
	id, ok := filter.Text(repository.IDField)
	if !ok {
		id, _ = filter.Text("id")
	}
	return h.repo.Delete(ctx, id)
}

// readOnly rejects writes on select-only routes.
type readOnly struct{ name string }

func (r readOnly) Name() string { return r.name }

func (r readOnly) Insert(_ context.Context, table string, _ types.Fields) (types.Result, error) {
	return types.Result{}, database.NewValidationError("insert", table, "", r.name+" route is read-only")
}

func (r readOnly) Update(_ context.Context, table string, _ string, _ types.Fields) (types.Result, error) {
	return types.Result{}, database.NewValidationError("update", table, "", r.name+" route is read-only")
}

func (r readOnly) Delete(_ context.Context, table string, _ types.Fields) (int64, error) {
	return 0, database.NewValidationError("delete", table, "", r.name+" route is read-only")
}

// LookupHandler lists an id+label table ordered by label. When table is set
// it is listed whatever name the request used.
type LookupHandler struct {
	readOnly
	lookup repository.LookupReader
	table  string
}

func NewLookupHandler(lookup repository.LookupReader) *LookupHandler {
	return &LookupHandler{readOnly: readOnly{name: "lookup"}, lookup: lookup}
}

func (h *LookupHandler) Select(ctx context.Context, table string, _ types.Fields) ([]types.Row, error) {
	if h.table != "" {
		table = h.table
	}
	return h.lookup.ListSimple(ctx, table)
}

// CopiesHandler lists the copies of the document named by the "id" filter.
type CopiesHandler struct {
	readOnly
	lookup repository.LookupReader
}

func NewCopiesHandler(lookup repository.LookupReader) *CopiesHandler {
	return &CopiesHandler{readOnly: readOnly{name: "copies"}, lookup: lookup}
}

func (h *CopiesHandler) Select(ctx context.Context, _ string, filter types.Fields) ([]types.Row, error) {
	id, _ := filter.Text("id")
	return h.lookup.ListCopiesOf(ctx, id)
}

// OrdersHandler lists the orders of the book or dvd named by the "id" filter.
type OrdersHandler struct {
	readOnly
	lookup repository.LookupReader
}

func NewOrdersHandler(lookup repository.LookupReader) *OrdersHandler {
	return &OrdersHandler{readOnly: readOnly{name: "orders"}, lookup: lookup}
}

func (h *OrdersHandler) Select(ctx context.Context, _ string, filter types.Fields) ([]types.Row, error) {
	id, _ := filter.Text("id")
	return h.lookup.ListOrdersOf(ctx, id)
}
