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

// Package property creates, modifies, and serializes KIM property
// instances.
//
// A property instance records a material property computed by a
// simulation, as an instance of a named property definition. Instances
// are carried between calls as serialized KIM-EDN vectors; each
// operation deserializes the collection, applies its change, and
// returns the new serialization:
//
//	s, err := property.Create(1, "cohesive-energy-relation-cubic-crystal")
//	s, err = property.Modify(s, 1,
//		"key", "short-name",
//		"source-value", "1", "fcc",
//		"key", "species",
//		"source-value", "1:4", "Al", "Al", "Al", "Al")
//	err = property.Dump(s, os.Stdout)
//
// The package-level functions operate on the default Registry, which is
// seeded with the built-in property definitions of the catalog package.
// A Registry of your own isolates dynamically registered definitions.
package property

import (
	"fmt"

	"openkim.org/kimprop/property/instance"
)

// extentKeys lists the standard instance fields that carry the extent of
// their property key, and therefore accept index tokens.
var extentKeys = []string{
	"source-value",
	"si-value",
	"source-std-uncert-value",
	"source-expand-uncert-value",
	"coverage-factor",
	"source-asym-std-uncert-neg",
	"source-asym-std-uncert-pos",
	"source-asym-expand-uncert-neg",
	"source-asym-expand-uncert-pos",
	"uncert-lev-of-confid",
	"digits",
}

// scalarOrExtentKeys lists the uncertainty and digits fields whose
// values are either arrays of the same extent as the source value, or
// scalars that apply equally to all values in the source value array.
var scalarOrExtentKeys = []string{
	"source-std-uncert-value",
	"source-expand-uncert-value",
	"coverage-factor",
	"source-asym-std-uncert-neg",
	"source-asym-std-uncert-pos",
	"source-asym-expand-uncert-neg",
	"source-asym-expand-uncert-pos",
	"uncert-lev-of-confid",
	"digits",
}

func isExtentKey(s string) bool {
	for _, k := range extentKeys {
		if s == k {
			return true
		}
	}
	return false
}

func isScalarOrExtentKey(s string) bool {
	for _, k := range scalarOrExtentKeys {
		if s == k {
			return true
		}
	}
	return false
}

// isFieldToken reports whether a token names a standard instance field,
// ending the value list of the preceding field.
func isFieldToken(s string) bool {
	return instance.IsStandardKey(s)
}

// ordinal spells out dimension n (zero based) for error messages.
func ordinal(n int) string {
	switch n {
	case 0:
		return "first"
	case 1:
		return "second"
	case 2:
		return "third"
	}
	return fmt.Sprintf("%dth", n+1)
}
