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

// LookupRepository reads reference tables and the denormalized listings.
type LookupRepository struct {
	adapter database.ConnectionAdapter
}

var _ LookupReader = (*LookupRepository)(nil)

// NewLookupRepository returns a LookupRepository bound to adapter.
func NewLookupRepository(adapter database.ConnectionAdapter) (*LookupRepository, error) {
	if adapter == nil {
		return nil, errors.New("connection adapter cannot be nil")
	}
	return &LookupRepository{adapter: adapter}, nil
}

// ListSimple returns every row of an id+label table ordered by label.
func (r *LookupRepository) ListSimple(ctx context.Context, table string) ([]types.Row, error) {
	stmt, err := BuildListSimple(r.adapter.Dialect(), table)
	if err != nil {
		return nil, err
	}
	return r.adapter.Query(ctx, stmt.Text, stmt.Params)
}

func (r *LookupRepository) ListBooksView(ctx context.Context) ([]types.Row, error) {
	return r.ListView(ctx, Book)
}

func (r *LookupRepository) ListDvdsView(ctx context.Context) ([]types.Row, error) {
	return r.ListView(ctx, Dvd)
}

func (r *LookupRepository) ListPeriodicalsView(ctx context.Context) ([]types.Row, error) {
	return r.ListView(ctx, Periodical)
}

// ListView returns one row per item of kind joined with its document and
// the genre, audience and shelf labels, ordered by title.
func (r *LookupRepository) ListView(ctx context.Context, kind Kind) ([]types.Row, error) {
	stmt := BuildView(r.adapter.Dialect(), kind)
	return r.adapter.Query(ctx, stmt.Text, stmt.Params)
}

// ListCopiesOf returns the copies of a document, most recent purchase first.
func (r *LookupRepository) ListCopiesOf(ctx context.Context, documentID string) ([]types.Row, error) {
	stmt, err := BuildCopiesOf(r.adapter.Dialect(), documentID)
	if err != nil {
		return nil, err
	}
	return r.adapter.Query(ctx, stmt.Text, stmt.Params)
}

// ListOrdersOf returns the orders placed for a book or dvd by ascending id.
func (r *LookupRepository) ListOrdersOf(ctx context.Context, documentID string) ([]types.Row, error) {
	stmt, err := BuildOrdersOf(r.adapter.Dialect(), documentID)
	if err != nil {
		return nil, err
	}
	return r.adapter.Query(ctx, stmt.Text, stmt.Params)
}

func BuildListSimple(d database.Dialect, table string) (Statement, error) {
	qt, err := quoteTable(d, "select", table)
	if err != nil {
		return Statement{}, err
	}
	return Statement{
		Text:   "SELECT * FROM " + qt + " ORDER BY " + d.Quote(model.LabelColumn),
		Params: types.Params{},
	}, nil
}

func BuildView(d database.Dialect, kind Kind) Statement {
	col := func(alias, name string) string { return alias + "." + d.Quote(name) }

	fields := []string{col("l", "id")}
	for _, c := range kind.Columns {
		fields = append(fields, col("l", c.Column))
	}
	for _, c := range DocumentColumns {
		fields = append(fields, col("d", c.Column))
	}
	fields = append(fields,
		col("g", model.LabelColumn)+" AS "+d.Quote("genre"),
		col("p", model.LabelColumn)+" AS "+d.Quote("lePublic"),
		col("r", model.LabelColumn)+" AS "+d.Quote("rayon"),
	)

	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(strings.Join(fields, ", "))
	b.WriteString(" FROM " + d.Quote(kind.Table) + " l")
	b.WriteString(" JOIN " + d.Quote(model.TableDocument) + " d ON " + col("l", "id") + " = " + col("d", "id"))
	b.WriteString(" JOIN " + d.Quote(model.TableGenre) + " g ON " + col("g", "id") + " = " + col("d", "idGenre"))
	b.WriteString(" JOIN " + d.Quote(model.TableAudience) + " p ON " + col("p", "id") + " = " + col("d", "idPublic"))
	b.WriteString(" JOIN " + d.Quote(model.TableShelf) + " r ON " + col("r", "id") + " = " + col("d", "idRayon"))
	b.WriteString(" ORDER BY " + col("d", "titre"))
	return Statement{Text: b.String(), Params: types.Params{}}
}

func BuildCopiesOf(d database.Dialect, documentID string) (Statement, error) {
	if strings.TrimSpace(documentID) == "" {
		return Statement{}, database.NewValidationError("select", model.TableCopy, "id", "document id is required")
	}
	col := func(alias, name string) string { return alias + "." + d.Quote(name) }
	text := "SELECT " + strings.Join([]string{
		col("e", "id"), col("e", "numero"), col("e", "dateAchat"), col("e", "photo"), col("e", "idEtat"),
	}, ", ") +
		" FROM " + d.Quote(model.TableCopy) + " e" +
		" JOIN " + d.Quote(model.TableDocument) + " d ON " + col("e", "id") + " = " + col("d", "id") +
		" WHERE " + col("e", "id") + " = :id" +
		" ORDER BY " + col("e", "dateAchat") + " DESC"
	return Statement{Text: text, Params: types.Params{"id": documentID}}, nil
}

func BuildOrdersOf(d database.Dialect, documentID string) (Statement, error) {
	if strings.TrimSpace(documentID) == "" {
		return Statement{}, database.NewValidationError("select", model.TableOrder, "id", "document id is required")
	}
	text := "SELECT * FROM " + d.Quote(model.TableOrder) +
		" WHERE " + d.Quote("idLivreDvd") + " = :id" +
		" ORDER BY " + d.Quote("id") + " ASC"
	return Statement{Text: text, Params: types.Params{"id": documentID}}, nil
}
