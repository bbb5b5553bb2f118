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

	"github.com/tomoncle/mediatek/types"
)

// Statement is statement text with :name placeholders and one value per name.
type Statement struct {
	Text   string
	Params types.Params
}

// CrudRepository is the single-table contract of the generic builder.
type CrudRepository interface {
	Select(ctx context.Context, table string, filter types.Fields) ([]types.Row, error)
	Insert(ctx context.Context, table string, fields types.Fields) (int64, error)
	Update(ctx context.Context, table string, id string, fields types.Fields) (int64, error)
	Delete(ctx context.Context, table string, filter types.Fields) (int64, error)
}

// LookupReader lists reference tables and denormalized catalog views.
type LookupReader interface {
	ListSimple(ctx context.Context, table string) ([]types.Row, error)
	ListView(ctx context.Context, kind Kind) ([]types.Row, error)
	ListCopiesOf(ctx context.Context, documentID string) ([]types.Row, error)
	ListOrdersOf(ctx context.Context, documentID string) ([]types.Row, error)
}

// CompositeRepository writes one composite kind as a single unit.
type CompositeRepository interface {
	Kind() Kind
	Create(ctx context.Context, fields types.Fields) (types.Result, error)
	Update(ctx context.Context, fields types.Fields) (types.Result, error)
	Delete(ctx context.Context, id string) (int64, error)
}
