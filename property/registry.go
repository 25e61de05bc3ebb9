// Copyright 2020 The KIM Property Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package property

import (
	"sort"
	"sync"

	"openkim.org/kimprop/errors"
	"openkim.org/kimprop/property/catalog"
	"openkim.org/kimprop/property/definition"
	"openkim.org/kimprop/property/instance"
)

// A Registry holds the property definitions known to the create, modify,
// and dump operations, indexed by property id and by short property
// name. Definitions registered after construction are dynamic: they are
// deregistered again when the last instance referring to them is
// destroyed.
//
// A Registry is safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	defs     map[string]map[string]any
	nameToID map[string]string
	idToName map[string]string
	dynamic  map[string]bool
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		defs:     map[string]map[string]any{},
		nameToID: map[string]string{},
		idToName: map[string]string{},
		dynamic:  map[string]bool{},
	}
}

var (
	defaultOnce sync.Once
	defaultReg  *Registry
)

// Default returns the shared Registry seeded with the built-in property
// definitions.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultReg = NewRegistry()
		for id, doc := range catalog.Definitions() {
			_, _, _, name, err := instance.IDPath(id)
			if err != nil {
				panic(err)
			}
			defaultReg.defs[id] = doc
			defaultReg.nameToID[name] = id
			defaultReg.idToName[id] = name
		}
	})
	return defaultReg
}

// Register validates doc as a property definition and adds it to the
// registry as a dynamic definition. It fails if the property id is
// already registered.
func (r *Registry) Register(doc map[string]any) (string, error) {
	if err := definition.Check(doc); err != nil {
		return "", err
	}
	id := doc["property-id"].(string)
	_, _, _, name, err := instance.IDPath(id)
	if err != nil {
		return "", err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.defs[id]; ok {
		return "", errors.Newf(errors.Format,
			"the property ID %q already exists in the KIM property "+
				"definition list; use the existing definition or update the id", id)
	}
	r.defs[id] = doc
	r.nameToID[name] = id
	r.idToName[id] = name
	r.dynamic[id] = true
	return id, nil
}

// RegisterFile loads a property definition from a KIM-EDN or YAML file
// and registers it. It returns the property id.
func (r *Registry) RegisterFile(path string) (string, error) {
	doc, err := definition.Load(path)
	if err != nil {
		return "", err
	}
	return r.Register(doc)
}

// Deregister removes a dynamic definition from the registry. Built-in
// and seeded definitions are left untouched.
func (r *Registry) Deregister(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.dynamic[id] {
		return
	}
	delete(r.defs, id)
	delete(r.nameToID, r.idToName[id])
	delete(r.idToName, id)
	delete(r.dynamic, id)
}

// Lookup returns the definition registered under a property id or a
// short property name.
func (r *Registry) Lookup(nameOrID string) (map[string]any, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if doc, ok := r.defs[nameOrID]; ok {
		return doc, nil
	}
	if id, ok := r.nameToID[nameOrID]; ok {
		return r.defs[id], nil
	}
	return nil, errors.Newf(errors.NotFound,
		"the requested property name or id %q is not a registered KIM "+
			"property definition", nameOrID)
}

// Resolve implements instance.Resolver.
func (r *Registry) Resolve(propertyID string) (map[string]any, error) {
	r.mu.RLock()
	doc, ok := r.defs[propertyID]
	r.mu.RUnlock()
	if !ok {
		return nil, errors.Newf(errors.NotFound,
			"the requested property ID %q does not exist in the input KIM properties", propertyID)
	}
	return doc, nil
}

// IDs returns the registered property ids in lexical order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.defs))
	for id := range r.defs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
