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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomoncle/mediatek/database"
	"github.com/tomoncle/mediatek/internal/testutil"
	"github.com/tomoncle/mediatek/repository"
	"github.com/tomoncle/mediatek/types"
)

func TestReadOnlyHandlersRejectWrites(t *testing.T) {
	ctx := context.Background()
	a := testutil.NewRecordingAdapter()
	lookup, err := repository.NewLookupRepository(a)
	require.NoError(t, err)

	for _, h := range []Handler{NewLookupHandler(lookup), NewCopiesHandler(lookup), NewOrdersHandler(lookup)} {
		_, err := h.Insert(ctx, "genre", types.Fields{"id": 1})
		assert.True(t, database.IsValidation(err), handlerName(h))
		_, err = h.Update(ctx, "genre", "1", types.Fields{"libelle": "x"})
		assert.True(t, database.IsValidation(err), handlerName(h))
		_, err = h.Delete(ctx, "genre", types.Fields{"id": 1})
		assert.True(t, database.IsValidation(err), handlerName(h))
	}
	assert.Empty(t, a.Calls())
}

func TestCopiesHandlerRequiresID(t *testing.T) {
	ctx := context.Background()
	a := testutil.NewRecordingAdapter()
	lookup, err := repository.NewLookupRepository(a)
	require.NoError(t, err)

	_, err = NewCopiesHandler(lookup).Select(ctx, "exemplaire", nil)
	assert.True(t, database.IsValidation(err))
	_, err = NewOrdersHandler(lookup).Select(ctx, "commandedocument", types.Fields{"Id": "L1"})
	assert.True(t, database.IsValidation(err), "orders read the lowercase id key")

	_, err = NewCopiesHandler(lookup).Select(ctx, "exemplaire", types.Fields{"id": " L1 "})
	require.NoError(t, err)
	require.Len(t, a.Calls(), 1)
	assert.Equal(t, types.Params{"id": "L1"}, a.Calls()[0].Params)
}

func TestCompositeHandlerDeleteReadsEitherIDKey(t *testing.T) {
	ctx := context.Background()
	a := testutil.NewRecordingAdapter()
	repo, err := repository.NewCompositeEntityRepository(a, repository.Periodical,
		repository.WithCompositeLogger(database.NewNopLogger()))
	require.NoError(t, err)
	h := NewCompositeHandler(repo, nil)

	_, err = h.Delete(ctx, "revue", types.Fields{"id": "R1"})
	require.NoError(t, err)
	_, err = h.Delete(ctx, "revue", types.Fields{"Id": "R2", "id": "ignored"})
	require.NoError(t, err)
	_, err = h.Delete(ctx, "revue", types.Fields{"titre": "x"})
	assert.True(t, database.IsValidation(err))

	var ids []interface{}
	for _, c := range a.Calls() {
		if c.Method == "execute" {
			ids = append(ids, c.Params["id"])
		}
	}
	assert.Equal(t, []interface{}{"R1", "R1", "R2", "R2"}, ids)
}

func TestHandlerNameDefaultsToCustom(t *testing.T) {
	var h struct{ Handler }
	assert.Equal(t, "custom", handlerName(h))
}
