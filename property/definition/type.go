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
	"strconv"

	"github.com/cockroachdb/apd/v3"

	"openkim.org/kimprop/errors"
)

// Type is the data type of a property key value.
type Type uint8

const (
	// String values are arbitrary strings.
	String Type = 1 + iota

	// Float values are double-precision floating point numbers.
	Float

	// Int values are integers.
	Int

	// Bool values are booleans.
	Bool

	// File names a file that accompanies the property instance.
	File
)

var typeNames = map[Type]string{
	String: "string",
	Float:  "float",
	Int:    "int",
	Bool:   "bool",
	File:   "file",
}

func (t Type) String() string {
	if s, ok := typeNames[t]; ok {
		return s
	}
	return "unknown"
}

// ParseType returns the Type named by s.
func ParseType(s string) (Type, error) {
	for t, n := range typeNames {
		if s == n {
			return t, nil
		}
	}
	return 0, errors.Newf(errors.Format,
		"wrong type; %q is not a standard type; the standard types are "+
			"\"string\", \"float\", \"int\", \"bool\", and \"file\"", s)
}

// Zero returns the fill value used when an array of this type grows.
func (t Type) Zero() any {
	switch t {
	case Float:
		return float64(0)
	case Int:
		return int64(0)
	case Bool:
		return false
	}
	return ""
}

var apdCtx = apd.BaseContext.WithPrecision(34)

// parseInt converts a numeric literal to an int64, accepting a float
// form only when it is exactly integral, so that "3.0" converts and
// "3.5" does not.
func parseInt(s string) (int64, error) {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i, nil
	}
	var x apd.Decimal
	if _, _, err := x.SetString(s); err != nil {
		return 0, errors.Newf(errors.Coercion,
			"%q is not a number", s)
	}
	var d apd.Decimal
	res, err := apdCtx.RoundToIntegralExact(&d, &x)
	if err != nil {
		return 0, errors.Newf(errors.Coercion,
			"%q can not be converted to an int", s)
	}
	if res.Inexact() {
		return 0, errors.Newf(errors.Coercion,
			"%q has a non-zero fractional part and can not be converted to an int", s)
	}
	i, err := d.Int64()
	if err != nil {
		return 0, errors.Newf(errors.Coercion,
			"%q does not fit in an int", s)
	}
	return i, nil
}

// Coerce converts a decoded token to this type. Tokens arrive as the
// string, int64, float64, or bool values produced by the edn package.
func (t Type) Coerce(tok any) (any, error) {
	switch t {
	case String, File:
		if s, ok := tok.(string); ok {
			return s, nil
		}
		return nil, errors.Newf(errors.Coercion,
			"input %v can not be converted to a string", tok)
	case Bool:
		switch x := tok.(type) {
		case bool:
			return x, nil
		case string:
			switch x {
			case "true", "True":
				return true, nil
			case "false", "False":
				return false, nil
			}
		}
		return nil, errors.Newf(errors.Coercion,
			"input %v can not be converted to a bool", tok)
	case Float:
		switch x := tok.(type) {
		case float64:
			return x, nil
		case int64:
			return float64(x), nil
		case string:
			f, err := strconv.ParseFloat(x, 64)
			if err != nil {
				return nil, errors.Newf(errors.Coercion,
					"input %q can not be converted to a float", x)
			}
			return f, nil
		}
		return nil, errors.Newf(errors.Coercion,
			"input %v can not be converted to a float", tok)
	case Int:
		switch x := tok.(type) {
		case int64:
			return x, nil
		case float64:
			return parseInt(strconv.FormatFloat(x, 'g', -1, 64))
		case string:
			return parseInt(x)
		}
		return nil, errors.Newf(errors.Coercion,
			"input %v can not be converted to an int", tok)
	}
	return nil, errors.Newf(errors.Coercion,
		"unknown type %d", t)
}
