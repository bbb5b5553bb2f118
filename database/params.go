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
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/tomoncle/mediatek/types"
)

// CompileNamed rewrites :name placeholders into the positional form the
// driver of d understands and returns the matching argument list. Quoted
// regions and "::" casts are copied unchanged. A placeholder without a value
// in params is an error.
func CompileNamed(d Dialect, statement string, params types.Params) (string, []interface{}, error) {
	var (
		b       strings.Builder
		args    []interface{}
		indexOf map[string]int
		quote   byte
	)
	if d.PositionalArgs() {
		indexOf = make(map[string]int)
	}
	b.Grow(len(statement))

	for i := 0; i < len(statement); i++ {
		c := statement[i]
		if quote != 0 {
			b.WriteByte(c)
			if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '\'', '"', '`':
			quote = c
			b.WriteByte(c)
			continue
		case ':':
		default:
			b.WriteByte(c)
			continue
		}

		if i+1 < len(statement) && statement[i+1] == ':' {
			b.WriteString("::")
			i++
			continue
		}
		j := i + 1
		for j < len(statement) && isParamByte(statement[j], j == i+1) {
			j++
		}
		if j == i+1 {
			b.WriteByte(c)
			continue
		}

		name := statement[i+1 : j]
		value, ok := params[name]
		if !ok {
			return "", nil, fmt.Errorf("%w: %s", ErrMissingParam, name)
		}
		if indexOf != nil {
			n, seen := indexOf[name]
			if !seen {
				args = append(args, normalizeValue(value))
				n = len(args)
				indexOf[name] = n
			}
			b.WriteString("$" + strconv.Itoa(n))
		} else {
			args = append(args, normalizeValue(value))
			b.WriteByte('?')
		}
		i = j - 1
	}
	return b.String(), args, nil
}

func isParamByte(c byte, first bool) bool {
	switch {
	case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		return true
	case c >= '0' && c <= '9':
		return !first
	}
	return false
}

// normalizeValue turns decoded JSON numbers into driver-friendly values.
func normalizeValue(v interface{}) interface{} {
	n, ok := v.(json.Number)
	if !ok {
		return v
	}
	if i, err := n.Int64(); err == nil {
		return i
	}
	if f, err := n.Float64(); err == nil {
		return f
	}
	return n.String()
}
