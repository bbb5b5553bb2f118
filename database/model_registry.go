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
	"sort"
	"sync"
)

// SQLModel is a bun model that schema bootstrap creates a table for.
// Instance returns a struct pointer; Priority orders creation, lower first,
// so referenced tables exist before the tables pointing at them.
type SQLModel interface {
	Instance() interface{}
	Priority() int
}

// ModelRegistry stores SQL models and exposes them in a deterministic order,
// along with the foreign keys declared between their tables.
type ModelRegistry interface {
	Register(model SQLModel)
	Models() []SQLModel
	RegisterForeignKey(fks ...ForeignKeyConstraint)
	ForeignKeys() []ForeignKeyConstraint
}

type modelRegistry struct {
	models []SQLModel
	fks    []ForeignKeyConstraint
	mutex  sync.RWMutex
}

// NewModelRegistry returns an empty registry.
func NewModelRegistry() ModelRegistry {
	return &modelRegistry{
		models: make([]SQLModel, 0),
	}
}

func (r *modelRegistry) Register(model SQLModel) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.models = append(r.models, model)
}

func (r *modelRegistry) RegisterForeignKey(fks ...ForeignKeyConstraint) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.fks = append(r.fks, fks...)
}

func (r *modelRegistry) ForeignKeys() []ForeignKeyConstraint {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	return append([]ForeignKeyConstraint(nil), r.fks...)
}

// Models returns the registered models by ascending priority. Models of equal
// priority keep their registration order.
func (r *modelRegistry) Models() []SQLModel {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	result := make([]SQLModel, len(r.models))
	copy(result, r.models)
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Priority() < result[j].Priority()
	})
	return result
}

type ModelAdapter struct {
	instance interface{}
	priority int
}

// NewModelAdapter wraps a struct instance and priority into an SQLModel.
func NewModelAdapter(instance interface{}, priority int) SQLModel {
	return &ModelAdapter{
		instance: instance,
		priority: priority,
	}
}

func (a *ModelAdapter) Instance() interface{} {
	return a.instance
}

func (a *ModelAdapter) Priority() int {
	return a.priority
}

// ModelInstances returns the instances of registry in creation order.
func ModelInstances(registry ModelRegistry) []interface{} {
	models := registry.Models()
	instances := make([]interface{}, len(models))
	for i, model := range models {
		instances[i] = model.Instance()
	}
	return instances
}
