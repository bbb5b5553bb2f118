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

import "strings"

// Common illegal/default values used by enums.
const (
	IllegalValue = -1
	IllegalName  = "unknown"
	IllegalDesc  = "unknown"
)

// BaseEnum represents a basic enum contract used by domain types.
type BaseEnum interface {
	IsValid() bool
	Number() int
	String() string
	Desc() string
	Name() string
}

// Operation is one of the four CRUD verbs a request can carry.
type Operation int

const (
	OpSelect Operation = iota
	OpInsert
	OpUpdate
	OpDelete
)

var _ BaseEnum = OpSelect

var operationNames = [...]string{"select", "insert", "update", "delete"}

var operationDescs = [...]string{
	"read rows matching an optional filter",
	"create a row or composite entity",
	"modify a row or composite entity by id",
	"remove rows matching a mandatory filter",
}

// Operations returns every valid operation in declaration order.
func Operations() []Operation {
	return []Operation{OpSelect, OpInsert, OpUpdate, OpDelete}
}

// ParseOperation resolves a verb name (case-insensitive).
func ParseOperation(s string) (Operation, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range operationNames {
		if name == s {
			return Operation(i), true
		}
	}
	return Operation(IllegalValue), false
}

func (o Operation) IsValid() bool {
	return o >= OpSelect && o <= OpDelete
}

func (o Operation) Number() int {
	if !o.IsValid() {
		return IllegalValue
	}
	return int(o)
}

func (o Operation) Name() string {
	if !o.IsValid() {
		return IllegalName
	}
	return operationNames[o]
}

func (o Operation) String() string { return o.Name() }

func (o Operation) Desc() string {
	if !o.IsValid() {
		return IllegalDesc
	}
	return operationDescs[o]
}
