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

// Package catalog ships a built-in collection of KIM property
// definitions, embedded at build time.
package catalog

import (
	"embed"
	"sort"
	"strings"
	"sync"

	"openkim.org/kimprop/edn"
	"openkim.org/kimprop/errors"
)

//go:embed data/*.edn
var files embed.FS

var (
	once  sync.Once
	byID  map[string]map[string]any
	names map[string]string // short property name -> id
)

func load() {
	byID = map[string]map[string]any{}
	names = map[string]string{}
	entries, err := files.ReadDir("data")
	if err != nil {
		panic(err)
	}
	for _, e := range entries {
		data, err := files.ReadFile("data/" + e.Name())
		if err != nil {
			panic(err)
		}
		v, err := edn.Decode(string(data))
		if err != nil {
			panic("catalog: " + e.Name() + ": " + err.Error())
		}
		doc := v.(map[string]any)
		id := doc["property-id"].(string)
		byID[id] = doc
		name := id[strings.LastIndex(id, "/")+1:]
		names[name] = id
	}
}

// Definitions returns all embedded property definitions keyed by
// property id. The returned map is shared; callers must not modify it.
func Definitions() map[string]map[string]any {
	once.Do(load)
	return byID
}

// Lookup returns the embedded property definition for id, which may be
// either a full property id or a short property name such as
// "atomic-mass".
func Lookup(id string) (map[string]any, error) {
	once.Do(load)
	if doc, ok := byID[id]; ok {
		return doc, nil
	}
	if full, ok := names[id]; ok {
		return byID[full], nil
	}
	return nil, errors.Newf(errors.NotFound,
		"the requested property name or id %q is not among the built-in KIM properties", id)
}

// IDs returns the property ids of all embedded definitions in lexical
// order.
func IDs() []string {
	once.Do(load)
	ids := make([]string, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
