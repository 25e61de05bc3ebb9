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

// Package definition models and validates KIM property definitions.
//
// A property definition is a map with the required keys "property-id",
// "property-title", and "property-description". Every other top-level
// key is a property key mapping to the five standard fields "type",
// "has-unit", "extent", "required", and "description".
package definition

import (
	"regexp"
	"sort"
	"strings"

	"openkim.org/kimprop/errors"
)

// RequiredKeys lists the key-value pairs every property definition must
// contain.
var RequiredKeys = []string{
	"property-id",
	"property-title",
	"property-description",
}

// StandardKeys lists the fields of a property key map.
var StandardKeys = []string{
	"type",
	"has-unit",
	"extent",
	"required",
	"description",
}

// IsRequiredKey reports whether s is one of RequiredKeys.
func IsRequiredKey(s string) bool {
	for _, k := range RequiredKeys {
		if s == k {
			return true
		}
	}
	return false
}

// IsStandardKey reports whether s is one of StandardKeys.
func IsStandardKey(s string) bool {
	for _, k := range StandardKeys {
		if s == k {
			return true
		}
	}
	return false
}

var (
	// A property id conforms to the Tag URI scheme of RFC 4151:
	// tag:<email-address>,<date>:property/<property-name>. The e-mail
	// address must be lower case and must not contain a plus character.
	idPat = regexp.MustCompile(
		`^tag:[^+^A-Z]*@[^+^A-Z]*,\d{4}-\d{2}-\d{2}:property/[a-z0-9-]*$`)

	// A property key name only includes lower-case alphanumeric
	// characters and dashes.
	keyPat = regexp.MustCompile(`^[a-z0-9-]+$`)
)

// CheckID checks the property id format.
func CheckID(s string) error {
	if !idPat.MatchString(s) {
		return errors.Newf(errors.Format,
			"the \"property-id\" value %q does not meet the format specification "+
				"tag:<email-address>,<date>:property/<property-name>", s)
	}
	return nil
}

// CheckTitle checks that the property title does not include an ending
// period; the title is used in citations of the property.
func CheckTitle(s string) error {
	if strings.HasSuffix(s, ".") {
		return errors.Newf(errors.Format,
			"the \"property-title\" value %q should not include an ending period", s)
	}
	return nil
}

// CheckKeyName checks a property key name.
func CheckKeyName(s string) error {
	if !keyPat.MatchString(s) {
		return errors.Newf(errors.Format,
			"%q is an invalid property key; a key only includes lower-case "+
				"alphanumeric characters and dashes", s)
	}
	return nil
}

// CheckExtent checks an extent value: a vector whose entries are
// non-negative integers or the unbounded marker ":".
func CheckExtent(v any) error {
	a, ok := v.([]any)
	if !ok {
		return errors.Newf(errors.Format,
			"the specified extent %v is not a vector", v)
	}
	for _, e := range a {
		switch x := e.(type) {
		case int64:
			if x < 0 {
				return errors.Newf(errors.Format,
					"the specified extent contains a negative dimension %d", x)
			}
		case string:
			if x != ":" {
				return errors.Newf(errors.Format,
					"the specified extent contains invalid input %q", x)
			}
		default:
			return errors.Newf(errors.Format,
				"the specified extent contains invalid input %v", e)
		}
	}
	return nil
}

// ExtentIsScalar reports whether the extent specifies a single item
// value.
func ExtentIsScalar(extent []any) bool {
	return len(extent) == 0
}

// ExtentNDims returns the number of dimensions specified by the extent.
func ExtentNDims(extent []any) int {
	return len(extent)
}

// ExtentShape returns the shape specified by the extent, with unbounded
// dimensions counted as 1.
func ExtentShape(extent []any) ([]int, error) {
	s := make([]int, 0, len(extent))
	for _, e := range extent {
		switch x := e.(type) {
		case int64:
			s = append(s, int(x))
		case string:
			if x != ":" {
				return nil, errors.Newf(errors.Format,
					"extent contains non-standard value %q", x)
			}
			s = append(s, 1)
		default:
			return nil, errors.Newf(errors.Format,
				"extent contains non-standard value %v", e)
		}
	}
	return s, nil
}

// A Key is the typed view of a property key map.
type Key struct {
	Type        Type
	HasUnit     bool
	Extent      []any
	Required    bool
	Description string
}

// KeyOf validates a property key map and returns its typed view.
func KeyOf(m map[string]any) (*Key, error) {
	for k := range m {
		if !IsStandardKey(k) {
			return nil, errors.Newf(errors.Format,
				"wrong key; the input %q-key is not part of the standard key-value pairs", k)
		}
	}
	var k Key
	var err error
	ts, ok := m["type"].(string)
	if !ok {
		return nil, errors.New(errors.Format,
			"the \"type\" value is not a string")
	}
	if k.Type, err = ParseType(ts); err != nil {
		return nil, err
	}
	if k.HasUnit, ok = m["has-unit"].(bool); !ok {
		return nil, errors.Newf(errors.Format,
			"invalid value; %v should be a boolean that indicates whether the "+
				"variable value is physically-dimensioned and therefore has a "+
				"physical unit or not", m["has-unit"])
	}
	if err := CheckExtent(m["extent"]); err != nil {
		return nil, err
	}
	k.Extent = m["extent"].([]any)
	if k.Required, ok = m["required"].(bool); !ok {
		return nil, errors.Newf(errors.Format,
			"invalid value; %v should be a boolean that indicates whether the "+
				"variable must be reported in every property instance", m["required"])
	}
	if k.Description, ok = m["description"].(string); !ok {
		return nil, errors.New(errors.Format,
			"invalid value; the \"description\" value should be a string which "+
				"provides an explanation of what the variable represents")
	}
	return &k, nil
}

// NDims returns the number of dimensions of the key's extent.
func (k *Key) NDims() int { return ExtentNDims(k.Extent) }

// IsScalar reports whether the key's extent specifies a scalar.
func (k *Key) IsScalar() bool { return ExtentIsScalar(k.Extent) }

// Shape returns the extent's shape with unbounded dimensions counted
// as 1.
func (k *Key) Shape() ([]int, error) { return ExtentShape(k.Extent) }

// Unbounded reports whether dimension dim of the extent is unbounded.
func (k *Key) Unbounded(dim int) bool {
	if dim < 0 || dim >= len(k.Extent) {
		return false
	}
	s, ok := k.Extent[dim].(string)
	return ok && s == ":"
}

// Check validates a property definition document.
func Check(doc map[string]any) error {
	for _, r := range RequiredKeys {
		if _, ok := doc[r]; !ok {
			return errors.Newf(errors.Format,
				"the required key %q is not found", r)
		}
	}
	id, ok := doc["property-id"].(string)
	if !ok {
		return errors.New(errors.Format,
			"the \"property-id\" value is not a string")
	}
	if err := CheckID(id); err != nil {
		return err
	}
	title, ok := doc["property-title"].(string)
	if !ok {
		return errors.New(errors.Format,
			"the \"property-title\" value is not a string")
	}
	if err := CheckTitle(title); err != nil {
		return err
	}
	if _, ok := doc["property-description"].(string); !ok {
		return errors.New(errors.Format,
			"the \"property-description\" value is not a string")
	}

	keys := make([]string, 0, len(doc))
	for k := range doc {
		if !IsRequiredKey(k) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := CheckKeyName(k); err != nil {
			return err
		}
		m, ok := doc[k].(map[string]any)
		if !ok {
			return errors.Newf(errors.Format,
				"the %q-key value is not a map of standard key-value pairs", k)
		}
		if _, err := KeyOf(m); err != nil {
			return errors.Newf(errors.KindOf(err),
				"in property key %q: %v", k, err)
		}
	}
	return nil
}
