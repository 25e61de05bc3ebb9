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

// Package instance validates KIM property instances against their
// property definitions.
//
// A property instance is a map with the required keys "property-id" and
// "instance-id", the optional key "disclaimer", and an unordered set of
// property keys, each mapping to a map of standard fields such as
// "source-value" and "source-unit".
package instance

import (
	"path"
	"regexp"
	"sort"
	"strings"

	"openkim.org/kimprop/errors"
	"openkim.org/kimprop/internal/ndarray"
	"openkim.org/kimprop/property/definition"
)

// RequiredKeys lists the key-value pairs every property instance must
// contain.
var RequiredKeys = []string{
	"property-id",
	"instance-id",
}

// OptionalKeys lists the non-property keys an instance may contain.
var OptionalKeys = []string{
	"disclaimer",
}

// StandardKeys lists the fields of an instance property key map.
var StandardKeys = []string{
	"source-value",
	"source-unit",
	"si-value",
	"si-unit",
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

// IsStandardKey reports whether s is one of StandardKeys.
func IsStandardKey(s string) bool {
	for _, k := range StandardKeys {
		if s == k {
			return true
		}
	}
	return false
}

func isRequiredOrOptional(s string) bool {
	for _, k := range RequiredKeys {
		if s == k {
			return true
		}
	}
	for _, k := range OptionalKeys {
		if s == k {
			return true
		}
	}
	return false
}

var (
	idEmailPat = regexp.MustCompile(`^tag:[^+^A-Z]*@[^+^A-Z]*,`)
	idDatePat  = regexp.MustCompile(`,\d{4}-\d{2}-\d{2}:property`)
	idNamePat  = regexp.MustCompile(`property/[a-z0-9-]*$`)

	// Instance property key names start with a lower-case alphanumeric
	// character or a dash.
	keyPat = regexp.MustCompile(`^[a-z0-9-].*$`)
)

// IDPath splits a property id into the definition's relative path on
// disk, the contributor e-mail, the date, and the property name. The
// relative path follows the layout of the OpenKIM properties repository:
// <name>/<date>-<email>/<name>.edn.
func IDPath(propertyID string) (relPath, email, date, name string, err error) {
	if err = definition.CheckID(propertyID); err != nil {
		return "", "", "", "", err
	}
	email = strings.TrimSuffix(
		strings.TrimPrefix(idEmailPat.FindString(propertyID), "tag:"), ",")
	date = strings.TrimSuffix(
		strings.TrimPrefix(idDatePat.FindString(propertyID), ","), ":property")
	name = strings.TrimPrefix(idNamePat.FindString(propertyID), "property/")
	relPath = path.Join(name, date+"-"+email, name+".edn")
	return relPath, email, date, name, nil
}

// CheckID checks that an instance id is an integer equal to or greater
// than 1.
func CheckID(v any) error {
	id, ok := v.(int64)
	if !ok {
		return errors.New(errors.Format,
			"the \"instance-id\" value is not an integer and does not meet "+
				"the format specification")
	}
	if id < 1 {
		return errors.Newf(errors.Format,
			"the \"instance-id\" = %d does not meet the format specification "+
				"(an integer equal to or greater than 1)", id)
	}
	return nil
}

// CheckKeyName checks an instance property key name.
func CheckKeyName(s string) error {
	if !keyPat.MatchString(s) {
		return errors.Newf(errors.Format,
			"%q is an invalid property key; a key only includes lower-case "+
				"alphanumeric characters and dashes", s)
	}
	return nil
}

// SourceValueIsScalar reports whether a "source-value" value is a scalar
// of the given type. The integers 0 and 1 also pass for a bool type.
func SourceValueIsScalar(v any, t definition.Type) bool {
	switch x := v.(type) {
	case []any:
		return false
	case string:
		return t == definition.String || t == definition.File
	case bool:
		return t == definition.Bool
	case float64:
		return t == definition.Float
	case int64:
		if x == 0 || x == 1 {
			return t == definition.Int || t == definition.Float || t == definition.Bool
		}
		return t == definition.Int || t == definition.Float
	}
	return false
}

// NDims returns the number of dimensions of a "source-value" value.
// Scalars have zero dimensions.
func NDims(v any) int {
	if _, ok := v.([]any); !ok {
		return 0
	}
	return len(ndarray.Shape(v))
}

// CheckStandardPairs checks the map of an instance property key. When
// defKey is non-nil the value shape and units are checked against the
// property definition.
func CheckStandardPairs(m map[string]any, defKey *definition.Key) error {
	for k := range m {
		if !IsStandardKey(k) {
			return errors.Newf(errors.Format,
				"wrong key; the input %q-key is not part of the standard key-value pairs", k)
		}
	}
	if _, ok := m["source-value"]; !ok {
		return errors.New(errors.Format,
			"\"source-value\" is required, but it is not included in the "+
				"current input property instance")
	}
	if defKey == nil {
		return nil
	}

	sv := m["source-value"]
	if defKey.IsScalar() {
		if !SourceValueIsScalar(sv, defKey.Type) {
			return errors.New(errors.Bounds,
				"\"extent\" specifies single item, but \"source-value\" in "+
					"the property instance is an array of values")
		}
	} else if got, want := NDims(sv), defKey.NDims(); got != want {
		// A scalar stands in for a one-element array when the extent is a
		// single unbounded dimension.
		scalarOK := got == 0 && want == 1 && defKey.Unbounded(0) &&
			SourceValueIsScalar(sv, defKey.Type)
		if !scalarOK {
			return errors.Newf(errors.Bounds,
				"\"source-value\"-value number of dimensions = %d does not match "+
					"the \"extent\"-value number of dimensions = %d", got, want)
		}
	}

	if defKey.HasUnit {
		if _, ok := m["source-unit"]; !ok {
			return errors.New(errors.Unit,
				"\"source-unit\" is required, but it is not in the property "+
					"instance standard key-value pairs")
		}
	} else {
		for _, u := range []string{"source-unit", "si-unit"} {
			if _, ok := m[u]; ok {
				return errors.Newf(errors.Unit,
					"%q is wrongly provided; the corresponding \"has-unit\" "+
						"key in the property definition has a false value", u)
			}
		}
	}
	return nil
}

// checkOne validates a single instance document against its definition.
func checkOne(inst, def map[string]any) error {
	for _, r := range RequiredKeys {
		if _, ok := inst[r]; !ok {
			return errors.Newf(errors.Format,
				"the required key %q is not found", r)
		}
	}
	pid, ok := inst["property-id"].(string)
	if !ok {
		return errors.New(errors.Format,
			"the \"property-id\" value is not a string")
	}
	if err := definition.CheckID(pid); err != nil {
		return err
	}
	if did, _ := def["property-id"].(string); did != pid {
		return errors.Newf(errors.Format,
			"wrong property definition is provided; property id %q read from "+
				"the property definition is different from the property id %q "+
				"read from the property instance", did, pid)
	}
	if err := CheckID(inst["instance-id"]); err != nil {
		return err
	}

	keys := make([]string, 0, len(inst))
	for k := range inst {
		if !isRequiredOrOptional(k) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := CheckKeyName(k); err != nil {
			return err
		}
		m, ok := inst[k].(map[string]any)
		if !ok {
			return errors.Newf(errors.Format,
				"the %q-key value is not a map of standard key-value pairs", k)
		}
		var dk *definition.Key
		if dm, ok := def[k].(map[string]any); ok {
			var err error
			if dk, err = definition.KeyOf(dm); err != nil {
				return err
			}
		}
		if err := CheckStandardPairs(m, dk); err != nil {
			return errors.Newf(errors.KindOf(err),
				"in property instance key %q: %v", k, err)
		}
	}

	// Variables marked required in the definition must be reported in
	// every instance.
	for k, v := range def {
		if definition.IsRequiredKey(k) {
			continue
		}
		dm, ok := v.(map[string]any)
		if !ok {
			continue
		}
		if req, _ := dm["required"].(bool); req {
			if _, ok := inst[k]; !ok {
				return errors.Newf(errors.Format,
					"variable %q is marked required in the property "+
						"definition, but it is not present in the property instance", k)
			}
		}
	}
	return nil
}

// Check validates a property instance document, or a vector of instance
// documents, against the property definitions supplied by r. Within a
// vector, instance ids cannot repeat.
func Check(doc any, r Resolver) error {
	switch x := doc.(type) {
	case map[string]any:
		def, err := resolve(x, r)
		if err != nil {
			return err
		}
		return checkOne(x, def)
	case []any:
		seen := map[int64]bool{}
		for _, e := range x {
			inst, ok := e.(map[string]any)
			if !ok {
				return errors.New(errors.Format,
					"input to the function does not have a correct KIM-EDN format")
			}
			def, err := resolve(inst, r)
			if err != nil {
				return err
			}
			if err := checkOne(inst, def); err != nil {
				return err
			}
			id := inst["instance-id"].(int64)
			if seen[id] {
				return errors.Newf(errors.Format,
					"the \"instance-id\" %d repeats; instance ids cannot repeat", id)
			}
			seen[id] = true
		}
		return nil
	}
	return errors.New(errors.Format,
		"input to the function does not have a correct KIM-EDN format")
}

func resolve(inst map[string]any, r Resolver) (map[string]any, error) {
	pid, ok := inst["property-id"].(string)
	if !ok {
		return nil, errors.New(errors.Format,
			"the \"property-id\" value is not a string")
	}
	if err := definition.CheckID(pid); err != nil {
		return nil, err
	}
	if r == nil {
		return nil, errors.New(errors.NotFound,
			"either the path to the KIM properties or a KIM property "+
				"definition should be provided")
	}
	return r.Resolve(pid)
}
