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
	"regexp"
	"strconv"
	"strings"

	"openkim.org/kimprop/edn"
	"openkim.org/kimprop/errors"
	"openkim.org/kimprop/internal/ndarray"
	"openkim.org/kimprop/property/definition"
	"openkim.org/kimprop/property/instance"
)

var (
	indexPat = regexp.MustCompile(`^[1-9][0-9]*$`)
	rangePat = regexp.MustCompile(`^[1-9][:0-9]*$`)
)

// Modify incrementally builds the instance with the given id by
// interpreting a stream of tokens. It can be called multiple times and
// appends values to a given key.
//
// The token stream is a sequence of directives:
//
//	key KEYNAME FIELD...
//	disclaimer TEXT
//
// where KEYNAME selects a property key of the instance's definition and
// each FIELD is a standard field name followed by its arguments. Fields
// carrying the key's extent take one index token per dimension, either a
// one-based integer or a single "start:stop" range, followed by one
// value token per addressed element. Arrays grow as needed along
// unbounded extent dimensions; existing elements are preserved.
func (r *Registry) Modify(propertyInstances string, instanceID int64, tokens ...string) (string, error) {
	if emptyInstances(propertyInstances) {
		return "", errors.New(errors.Format,
			"there is no property instance to modify the content")
	}
	v, err := edn.Decode(propertyInstances)
	if err != nil {
		return "", err
	}
	list, ok := v.([]any)
	if !ok {
		// A single instance dumped without the enclosing vector.
		inst, ok := v.(map[string]any)
		if !ok {
			return "", errors.New(errors.Format,
				"the property instances input does not have a correct KIM-EDN format")
		}
		list = []any{inst}
	}

	var inst map[string]any
	for _, e := range list {
		p, ok := e.(map[string]any)
		if !ok {
			return "", errors.New(errors.Format,
				"the property instances input does not have a correct KIM-EDN format")
		}
		if _, ok := p["instance-id"]; !ok {
			return "", errors.New(errors.Format,
				"wrong input; the required \"instance-id\"-key is missing")
		}
		if id, _ := p["instance-id"].(int64); id == instanceID {
			inst = p
			break
		}
	}
	if inst == nil {
		return "", errors.Newf(errors.NotFound,
			"the requested instance id %d does not match any of the "+
				"property instances ids", instanceID)
	}
	pid, ok := inst["property-id"].(string)
	if !ok {
		return "", errors.New(errors.Format,
			"wrong input; the required \"property-id\"-key is missing")
	}
	def, err := r.Resolve(pid)
	if err != nil {
		return "", err
	}

	m := &modifier{toks: tokens, inst: inst, def: def}
	if err := m.run(); err != nil {
		return "", err
	}
	return edn.Encode(list)
}

// Modify incrementally builds a property instance using the default
// registry.
func Modify(propertyInstances string, instanceID int64, tokens ...string) (string, error) {
	return Default().Modify(propertyInstances, instanceID, tokens...)
}

// A modifier walks the token stream of a Modify call, carrying the
// property key selected by the most recent "key" directive.
type modifier struct {
	toks []string
	i    int
	inst map[string]any
	def  map[string]any

	keyName string
	keyMap  map[string]any
	defKey  *definition.Key
	shape   []int // definition shape, unbounded dimensions counted as 1
}

func (m *modifier) next() (string, bool) {
	if m.i >= len(m.toks) {
		return "", false
	}
	tok := m.toks[m.i]
	m.i++
	return tok, true
}

func (m *modifier) run() error {
	for m.i < len(m.toks) {
		tok, _ := m.next()
		switch tok {
		case "key":
			if err := m.selectKey(); err != nil {
				return err
			}
		case "disclaimer":
			text, ok := m.next()
			if !ok {
				return errors.New(errors.Arity,
					"the \"disclaimer\" directive requires a value")
			}
			m.inst["disclaimer"] = text
			// The disclaimer belongs to the instance, not to a property
			// key; field tokens need a fresh "key" directive after it.
			m.keyName = ""
			m.keyMap = nil
			m.defKey = nil
			m.shape = nil
		default:
			if err := m.field(tok); err != nil {
				return err
			}
		}
	}
	return nil
}

func (m *modifier) selectKey() error {
	name, ok := m.next()
	if !ok {
		return errors.New(errors.Arity,
			"the \"key\" directive requires a property key name")
	}
	dm, ok := m.def[name].(map[string]any)
	if !ok {
		return errors.Newf(errors.NotFound,
			"wrong keyword; the input %q-key is not defined in the "+
				"property definition (%s)", name, m.def["property-id"])
	}
	dk, err := definition.KeyOf(dm)
	if err != nil {
		return err
	}
	shape, err := dk.Shape()
	if err != nil {
		return err
	}
	m.keyName = name
	m.defKey = dk
	m.shape = shape
	if km, ok := m.inst[name].(map[string]any); ok {
		m.keyMap = km
	} else {
		m.keyMap = map[string]any{}
		m.inst[name] = m.keyMap
	}
	return nil
}

func (m *modifier) field(name string) error {
	if !instance.IsStandardKey(name) {
		return errors.Newf(errors.Format,
			"wrong key; the input %q-key is not part of the standard key-value pairs", name)
	}
	if m.keyMap == nil {
		return errors.Newf(errors.Format,
			"the %q-key is used before any \"key\" directive selected a property key", name)
	}
	if (name == "source-unit" || name == "si-unit") && !m.defKey.HasUnit {
		return errors.New(errors.Unit,
			"wrong key; the unit is wrongly provided to a key that does not "+
				"have a unit; the corresponding \"has-unit\" key in the "+
				"property definition has a false value")
	}
	if !isExtentKey(name) {
		return m.unitField(name)
	}
	if m.defKey.IsScalar() {
		return m.scalarField(name)
	}
	return m.arrayField(name)
}

// unitField consumes one value token for "source-unit" or "si-unit".
func (m *modifier) unitField(name string) error {
	val, ok := m.next()
	if !ok {
		return errors.Newf(errors.Arity,
			"there is not enough input arguments to use; processing the "+
				"{%q}:{%q} input arguments failed; at least one further "+
				"input is needed", m.keyName, name)
	}
	if err := m.noExtraValue(name, val, "a key with no extent"); err != nil {
		return err
	}
	m.keyMap[name] = val
	return nil
}

// scalarField consumes one value token for a field of a scalar property
// key.
func (m *modifier) scalarField(name string) error {
	tok, ok := m.next()
	if !ok {
		return errors.Newf(errors.Arity,
			"there is not enough input arguments to use; processing the "+
				"{%q}:{%q} input arguments failed; at least one further "+
				"input is needed", m.keyName, name)
	}
	v, err := m.fieldValue(name, tok)
	if err != nil {
		return err
	}
	if err := m.noExtraValue(name, tok, "a scalar key"); err != nil {
		return err
	}
	m.keyMap[name] = v
	return nil
}

// noExtraValue fails when a value token follows a completed scalar
// field. Indices cannot be used for scalar keys.
func (m *modifier) noExtraValue(name, prev, what string) error {
	if m.i >= len(m.toks) {
		return nil
	}
	tok := m.toks[m.i]
	if tok == "key" || tok == "disclaimer" || isFieldToken(tok) {
		return nil
	}
	return errors.Newf(errors.Arity,
		"two arguments are provided for %s; for %q in the property "+
			"definition, the %q-key is provided with two arguments: %q, %q "+
			"(one can not use an index here)", what, m.keyName, name, prev, tok)
}

// fieldValue coerces one value token for a field of a scalar property
// key. Uncertainty and digits fields coerce to float and int regardless
// of the key's type.
func (m *modifier) fieldValue(name, tok string) (any, error) {
	if isScalarOrExtentKey(name) {
		return scalarOrExtentValue(name, tok)
	}
	return m.defKey.Type.Coerce(tok)
}

// scalarOrExtentValue coerces a scalar value of an uncertainty or digits
// field.
func scalarOrExtentValue(name, tok string) (any, error) {
	if name == "digits" {
		v, err := definition.Int.Coerce(tok)
		if err != nil {
			return nil, errors.New(errors.Coercion,
				"\"digits\"-key is provided with a float value; "+
					"\"digits\"-key has an int type, and must be set to the "+
					"number of reported digits")
		}
		return v, nil
	}
	return definition.Float.Coerce(tok)
}

// scalarLookahead reports whether the current token of an uncertainty or
// digits field is a scalar value rather than the first index of an
// array assignment. A token followed by another directive is a scalar; a
// trailing token is a scalar when it parses as a number.
func (m *modifier) scalarLookahead() bool {
	if m.i+1 < len(m.toks) {
		next := m.toks[m.i+1]
		return next == "key" || isFieldToken(next)
	}
	if m.i < len(m.toks) {
		_, err := strconv.ParseFloat(m.toks[m.i], 64)
		return err == nil
	}
	return false
}

// arrayField consumes index tokens and value tokens for a field of a
// property key with extent.
func (m *modifier) arrayField(name string) error {
	existing, exists := m.keyMap[name]

	if isScalarOrExtentKey(name) {
		if m.scalarLookahead() {
			tok, _ := m.next()
			v, err := scalarOrExtentValue(name, tok)
			if err != nil {
				return err
			}
			m.keyMap[name] = v
			return nil
		}
		// A previously stored scalar becomes a one-element array before
		// indexed assignment extends it.
		switch existing.(type) {
		case int64, float64:
			existing = []any{existing}
			m.keyMap[name] = existing
		}
	}

	ndims := m.defKey.NDims()
	var newShape []int
	if exists {
		newShape = ndarray.Shape(existing)
		if len(newShape) != ndims {
			newShape = append([]int{}, m.shape...)
		}
	} else {
		newShape = append([]int{}, m.shape...)
	}

	index := make([]int, ndims)
	rangeDim := -1
	lo, hi := 0, 0

	for n := 0; n < ndims; n++ {
		tok, ok := m.next()
		if !ok {
			return errors.Newf(errors.Arity,
				"there is not enough input arguments to use; processing the "+
					"{%q}:{%q} input arguments failed; the %s index is "+
					"missing from the input arguments", m.keyName, name, ordinal(n))
		}
		switch {
		case indexPat.MatchString(tok):
			v, _ := strconv.Atoi(tok)
			if err := m.checkIndex(name, n, v, v); err != nil {
				return err
			}
			if m.shape[n] == 1 && v > 1 && newShape[n] < v {
				newShape[n] = v
			}
			index[n] = v - 1
		case rangePat.MatchString(tok):
			if rangeDim > -1 {
				return errors.New(errors.Format,
					"for multidimensional arrays, only one colon-separated "+
						"range is allowed in the index listing")
			}
			if strings.Count(tok, ":") > 1 {
				return errors.Newf(errors.Format,
					"use of indices range as %q is not accepted; the only "+
						"supported indices range format is \"start:stop\"", tok)
			}
			parts := strings.SplitN(tok, ":", 2)
			l, err := strconv.Atoi(parts[0])
			if err != nil {
				return m.badIndex(tok)
			}
			u, err := strconv.Atoi(parts[1])
			if err != nil {
				return m.badIndex(tok)
			}
			if u < l {
				return errors.Newf(errors.Format,
					"use of indices range as %q is not accepted; the only "+
						"supported indices range format is \"start:stop\", "+
						"where start is less or equal than stop", tok)
			}
			if err := m.checkIndex(name, n, u, u); err != nil {
				return err
			}
			if m.shape[n] == 1 && u > 1 && newShape[n] < u {
				newShape[n] = u
			}
			rangeDim = n
			lo, hi = l-1, u
			index[n] = -1
		default:
			return m.badIndex(tok)
		}
	}

	// The digits field is an int regardless of the key's type.
	etyp := m.defKey.Type
	if name == "digits" {
		etyp = definition.Int
	}

	var arr any
	if exists {
		var err error
		if arr, err = ndarray.ExtendFull(existing, newShape, etyp.Zero()); err != nil {
			return err
		}
	} else {
		arr = ndarray.Full(newShape, etyp.Zero())
	}

	if rangeDim > -1 {
		if remaining := len(m.toks) - m.i; remaining < hi-lo {
			return errors.Newf(errors.Arity,
				"there is not enough input arguments to use; processing the "+
					"{%q}:{%q} input arguments failed; we have %d more input "+
					"arguments while at least %d arguments are required",
				m.keyName, name, remaining, hi-lo)
		}
		for d := lo; d < hi; d++ {
			index[rangeDim] = d
			tok, _ := m.next()
			v, err := etyp.Coerce(tok)
			if err != nil {
				return err
			}
			ndarray.Set(arr, index, v)
		}
	} else {
		tok, ok := m.next()
		if !ok {
			return errors.Newf(errors.Arity,
				"there is not enough input arguments to use; processing the "+
					"{%q}:{%q} input arguments failed; the value is missing "+
					"from the input arguments", m.keyName, name)
		}
		v, err := etyp.Coerce(tok)
		if err != nil {
			return err
		}
		ndarray.Set(arr, index, v)
	}
	m.keyMap[name] = arr
	return nil
}

// checkIndex validates a one-based index against the definition shape of
// dimension n. Dimensions of length one grow only when the extent marks
// them unbounded.
func (m *modifier) checkIndex(name string, n, v, report int) error {
	if m.shape[n] > 1 && m.shape[n] < v {
		return errors.Newf(errors.Bounds,
			"this dimension has a fixed length = %d, while, wrong index = %d "+
				"is requested; processing the {%q}:{%q} input arguments, "+
				"wrong index at the %s dimension is requested",
			m.shape[n], report, m.keyName, name, ordinal(n))
	}
	if m.shape[n] == 1 && v > 1 && !m.defKey.Unbounded(n) {
		return errors.Newf(errors.Bounds,
			"this dimension has a fixed length = 1, while, wrong index = %d "+
				"is requested; processing the {%q}:{%q} input arguments, "+
				"wrong index at the %s dimension is requested",
			report, m.keyName, name, ordinal(n))
	}
	return nil
}

func (m *modifier) badIndex(tok string) error {
	return errors.Newf(errors.Format,
		"requested index %q does not meet the format specification; an "+
			"integer equal to or greater than 1 or an integer indices range "+
			"of \"start:stop\"", tok)
}
