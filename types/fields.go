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

package types

import (
	"fmt"
	"sort"
	"strings"
)

// Fields maps column (or request field) names to values. It is used both for
// write payloads and for equality filters, which are ANDed together.
type Fields map[string]interface{}

// Params holds named statement parameters, referenced as :name in statement text.
type Params map[string]interface{}

// Row is one result row keyed by column name.
type Row map[string]interface{}

// Result describes the outcome of an insert or update request. Affected may be
// zero on success; Fields is set when a handler echoes the accepted field set.
type Result struct {
	Affected int64
	Fields   Fields
}

// Keys returns the field names in ascending order.
func (f Fields) Keys() []string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Has reports whether key is present with a non-nil value.
func (f Fields) Has(key string) bool {
	v, ok := f[key]
	return ok && v != nil
}

// Text returns the value for key rendered as a trimmed string. The second
// result is false when the key is absent, nil, or blank.
func (f Fields) Text(key string) (string, bool) {
	v, ok := f[key]
	if !ok || v == nil {
		return "", false
	}
	var s string
	switch t := v.(type) {
	case string:
		s = t
	case []byte:
		s = string(t)
	default:
		s = fmt.Sprint(t)
	}
	s = strings.TrimSpace(s)
	return s, s != ""
}

// Clone returns a shallow copy of f.
func (f Fields) Clone() Fields {
	out := make(Fields, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// Text returns the value of column as a string when it holds text.
func (r Row) Text(column string) string {
	switch t := r[column].(type) {
	case string:
		return t
	case []byte:
		return string(t)
	case nil:
		return ""
	default:
		return fmt.Sprint(t)
	}
}
