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

package instance

import (
	"os"
	"path/filepath"

	"openkim.org/kimprop/errors"
	"openkim.org/kimprop/property/definition"
)

// A Resolver maps a property id to its property definition document.
type Resolver interface {
	Resolve(propertyID string) (map[string]any, error)
}

// Map resolves property ids from an in-memory collection of property
// definitions keyed by id.
type Map map[string]map[string]any

// Resolve implements Resolver.
func (m Map) Resolve(propertyID string) (map[string]any, error) {
	def, ok := m[propertyID]
	if !ok {
		return nil, errors.Newf(errors.NotFound,
			"the requested property ID %q does not exist in the input KIM properties", propertyID)
	}
	return def, nil
}

// Dir resolves property ids from a directory of property definition
// files, laid out either as <name>/<date>-<email>/<name>.edn or as a
// flat <name>.edn.
type Dir string

// Resolve implements Resolver.
func (d Dir) Resolve(propertyID string) (map[string]any, error) {
	relPath, _, _, name, err := IDPath(propertyID)
	if err != nil {
		return nil, err
	}
	nested := filepath.Join(string(d), filepath.FromSlash(relPath))
	flat := filepath.Join(string(d), name+".edn")
	for _, p := range []string{nested, flat} {
		if _, err := os.Stat(p); err == nil {
			return definition.Load(p)
		}
	}
	return nil, errors.Newf(errors.NotFound,
		"unable to find a KIM property definition at %q, nor at %q", nested, flat)
}

// Single resolves every property id to the one definition it wraps,
// provided the ids match.
type Single map[string]any

// Resolve implements Resolver.
func (s Single) Resolve(propertyID string) (map[string]any, error) {
	if id, _ := s["property-id"].(string); id != propertyID {
		return nil, errors.Newf(errors.NotFound,
			"wrong property definition is provided; property id %q is "+
				"different from the requested property id %q", id, propertyID)
	}
	return s, nil
}
