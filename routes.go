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
	"strings"

	"github.com/tomoncle/mediatek/database"
	"github.com/tomoncle/mediatek/model"
	"github.com/tomoncle/mediatek/repository"
	"github.com/tomoncle/mediatek/types"
)

type routeKey struct {
	op    types.Operation
	table string
}

func newRouteKey(op types.Operation, table string) routeKey {
	return routeKey{op: op, table: normalizeTable(table)}
}

func normalizeTable(table string) string {
	return strings.ToLower(strings.TrimSpace(table))
}

// Table names accepted for each composite kind, catalog name first.
var kindAliases = map[string][]string{
	repository.Book.Name:       {model.TableBook, "book"},
	repository.Dvd.Name:        {model.TableDvd},
	repository.Periodical.Name: {model.TablePeriodical, "periodical"},
}

// Table names accepted for each lookup table.
var lookupAliases = map[string][]string{
	model.TableGenre:    {model.TableGenre},
	model.TableAudience: {model.TableAudience, "audience"},
	model.TableShelf:    {model.TableShelf, "shelf"},
	model.TableState:    {model.TableState, "state"},
}

var (
	copyAliases  = []string{model.TableCopy, "copy"}
	orderAliases = []string{model.TableOrder, "order"}
)

// defaultRoutes builds the catalog routing table over adapter.
func defaultRoutes(adapter database.ConnectionAdapter, logger database.Logger) (map[routeKey]Handler, error) {
	lookup, err := repository.NewLookupRepository(adapter)
	if err != nil {
		return nil, err
	}

	routes := make(map[routeKey]Handler)
	for _, kind := range repository.Kinds() {
		repo, err := repository.NewCompositeEntityRepository(adapter, kind, repository.WithCompositeLogger(logger))
		if err != nil {
			return nil, err
		}
		h := NewCompositeHandler(repo, lookup)
		for _, table := range kindAliases[kind.Name] {
			for _, op := range types.Operations() {
				routes[newRouteKey(op, table)] = h
			}
		}
	}

	for physical, aliases := range lookupAliases {
		h := NewLookupHandler(lookup)
		h.table = physical
		for _, table := range aliases {
			routes[newRouteKey(types.OpSelect, table)] = h
		}
	}

	copies := NewCopiesHandler(lookup)
	for _, table := range copyAliases {
		routes[newRouteKey(types.OpSelect, table)] = copies
	}
	orders := NewOrdersHandler(lookup)
	for _, table := range orderAliases {
		routes[newRouteKey(types.OpSelect, table)] = orders
	}
	return routes, nil
}
