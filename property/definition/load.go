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

package definition

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"openkim.org/kimprop/edn"
	"openkim.org/kimprop/errors"
)

// Parse decodes a property definition from KIM-EDN source and validates
// it.
func Parse(src string) (map[string]any, error) {
	v, err := edn.Decode(src)
	if err != nil {
		return nil, err
	}
	doc, ok := v.(map[string]any)
	if !ok {
		return nil, errors.New(errors.Format,
			"a property definition must be a map")
	}
	if err := Check(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// Load reads and validates a property definition file. Files with a
// .yaml or .yml extension are decoded as YAML; everything else is
// decoded as KIM-EDN.
func Load(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Newf(errors.NotFound,
			"unable to find the property definition file %q", path)
	}
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		var v any
		if err := yaml.Unmarshal(data, &v); err != nil {
			return nil, errors.Newf(errors.Format,
				"invalid YAML in %q: %v", path, err)
		}
		v = normalizeYAML(v)
		doc, ok := v.(map[string]any)
		if !ok {
			return nil, errors.New(errors.Format,
				"a property definition must be a map")
		}
		if err := Check(doc); err != nil {
			return nil, err
		}
		return doc, nil
	}
	return Parse(string(data))
}

// normalizeYAML rewrites a decoded YAML tree into the shape produced by
// edn.Decode: string-keyed maps, []any vectors, and int64 integers.
func normalizeYAML(v any) any {
	switch x := v.(type) {
	case map[string]any:
		for k, e := range x {
			x[k] = normalizeYAML(e)
		}
		return x
	case map[any]any:
		m := make(map[string]any, len(x))
		for k, e := range x {
			if s, ok := k.(string); ok {
				m[s] = normalizeYAML(e)
			}
		}
		return m
	case []any:
		for i, e := range x {
			x[i] = normalizeYAML(e)
		}
		return x
	case int:
		return int64(x)
	}
	return v
}
