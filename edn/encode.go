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

package edn

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"openkim.org/kimprop/errors"
)

// An EncodeOption configures Encode.
type EncodeOption func(*encOptions)

type encOptions struct {
	indent   int
	sortKeys bool
}

// Indent pretty-prints maps and vectors with the given indent width. An
// indent of 0 (the default) produces a compact single-line document.
func Indent(n int) EncodeOption {
	return func(o *encOptions) { o.indent = n }
}

// SortKeys emits map keys in lexical order instead of the default
// document order (identity keys first, remaining keys lexically).
func SortKeys() EncodeOption {
	return func(o *encOptions) { o.sortKeys = true }
}

// keyRank orders the keys that identify a document ahead of everything
// else, so that encoded definitions and instances read the way they are
// written by hand.
var keyRank = map[string]int{
	"property-id":          0,
	"property-title":       1,
	"property-description": 2,
	"instance-id":          3,
	"disclaimer":           4,
	"source-value":         5,
}

// Encode serializes v as KIM-EDN.
func Encode(v any, opts ...EncodeOption) (string, error) {
	var o encOptions
	for _, opt := range opts {
		opt(&o)
	}
	e := &encoder{opts: o}
	if err := e.value(v, 0); err != nil {
		return "", err
	}
	return e.b.String(), nil
}

type encoder struct {
	b    strings.Builder
	opts encOptions
}

func (e *encoder) newline(depth int) {
	e.b.WriteByte('\n')
	for i := 0; i < depth*e.opts.indent; i++ {
		e.b.WriteByte(' ')
	}
}

func (e *encoder) value(v any, depth int) error {
	switch x := v.(type) {
	case nil:
		return errors.New(errors.Format, "cannot encode a null value")
	case bool:
		if x {
			e.b.WriteString("true")
		} else {
			e.b.WriteString("false")
		}
	case int:
		e.b.WriteString(strconv.FormatInt(int64(x), 10))
	case int64:
		e.b.WriteString(strconv.FormatInt(x, 10))
	case float64:
		if math.IsInf(x, 0) || math.IsNaN(x) {
			return errors.Newf(errors.Format, "cannot encode non-finite float %v", x)
		}
		s := strconv.FormatFloat(x, 'g', -1, 64)
		// A float that formats without a fractional part or exponent
		// must not read back as an integer.
		if !strings.ContainsAny(s, ".eE") {
			s += ".0"
		}
		e.b.WriteString(s)
	case string:
		e.b.WriteString(strconv.Quote(x))
	case []any:
		return e.vector(x, depth)
	case map[string]any:
		return e.mapValue(x, depth)
	default:
		return errors.Newf(errors.Format, "cannot encode a value of type %T", v)
	}
	return nil
}

func (e *encoder) vector(a []any, depth int) error {
	if len(a) == 0 {
		e.b.WriteString("[]")
		return nil
	}
	e.b.WriteByte('[')
	for i, v := range a {
		if e.opts.indent > 0 {
			e.newline(depth + 1)
		} else if i > 0 {
			e.b.WriteByte(' ')
		}
		if err := e.value(v, depth+1); err != nil {
			return err
		}
	}
	if e.opts.indent > 0 {
		e.newline(depth)
	}
	e.b.WriteByte(']')
	return nil
}

func (e *encoder) mapValue(m map[string]any, depth int) error {
	if len(m) == 0 {
		e.b.WriteString("{}")
		return nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	if e.opts.sortKeys {
		sort.Strings(keys)
	} else {
		sort.Slice(keys, func(i, j int) bool {
			ri, iok := keyRank[keys[i]]
			rj, jok := keyRank[keys[j]]
			switch {
			case iok && jok:
				return ri < rj
			case iok:
				return true
			case jok:
				return false
			}
			return keys[i] < keys[j]
		})
	}
	e.b.WriteByte('{')
	for i, k := range keys {
		if e.opts.indent > 0 {
			e.newline(depth + 1)
		} else if i > 0 {
			e.b.WriteByte(' ')
		}
		e.b.WriteString(strconv.Quote(k))
		e.b.WriteByte(' ')
		if err := e.value(m[k], depth+1); err != nil {
			return err
		}
	}
	if e.opts.indent > 0 {
		e.newline(depth)
	}
	e.b.WriteByte('}')
	return nil
}
