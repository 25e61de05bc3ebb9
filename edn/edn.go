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

// Package edn implements the KIM-EDN notation used for property
// definitions and property instances.
//
// KIM-EDN is functionally equivalent to JSON restricted to maps,
// vectors, strings, integers, floats, and booleans, except that commas
// are whitespace, map entries are written "key" value without a colon,
// and bare symbols are accepted where strings are expected. Comments run
// from a semicolon to the end of the line.
//
// Decode produces a tree of map[string]any, []any, int64, float64, bool,
// and string values; Encode is its inverse.
package edn

import (
	"strconv"
	"strings"
	"unicode/utf16"

	"openkim.org/kimprop/errors"
)

// Decode parses a single KIM-EDN value from src.
func Decode(src string) (any, error) {
	d := &decoder{src: src}
	d.skipSpace()
	v, err := d.value()
	if err != nil {
		return nil, err
	}
	d.skipSpace()
	if d.pos < len(d.src) {
		return nil, d.errorf("unexpected trailing input")
	}
	return v, nil
}

type decoder struct {
	src string
	pos int
}

func (d *decoder) errorf(format string, args ...interface{}) error {
	args = append(args, d.pos)
	return errors.Newf(errors.Format, format+" at offset %d", args...)
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == ','
}

func (d *decoder) skipSpace() {
	for d.pos < len(d.src) {
		c := d.src[d.pos]
		if isSpace(c) {
			d.pos++
			continue
		}
		if c == ';' {
			for d.pos < len(d.src) && d.src[d.pos] != '\n' {
				d.pos++
			}
			continue
		}
		return
	}
}

func (d *decoder) value() (any, error) {
	if d.pos >= len(d.src) {
		return nil, d.errorf("unexpected end of input")
	}
	switch c := d.src[d.pos]; {
	case c == '{':
		return d.mapValue()
	case c == '[':
		return d.vector()
	case c == '"':
		return d.quoted()
	case c == '-' || c == '+' || '0' <= c && c <= '9':
		return d.number()
	default:
		return d.symbol()
	}
}

func (d *decoder) mapValue() (any, error) {
	d.pos++ // '{'
	m := map[string]any{}
	for {
		d.skipSpace()
		if d.pos >= len(d.src) {
			return nil, d.errorf("unterminated map")
		}
		if d.src[d.pos] == '}' {
			d.pos++
			return m, nil
		}
		k, err := d.value()
		if err != nil {
			return nil, err
		}
		key, ok := k.(string)
		if !ok {
			return nil, d.errorf("map key %v is not a string", k)
		}
		d.skipSpace()
		v, err := d.value()
		if err != nil {
			return nil, err
		}
		m[key] = v
	}
}

func (d *decoder) vector() (any, error) {
	d.pos++ // '['
	a := []any{}
	for {
		d.skipSpace()
		if d.pos >= len(d.src) {
			return nil, d.errorf("unterminated vector")
		}
		if d.src[d.pos] == ']' {
			d.pos++
			return a, nil
		}
		v, err := d.value()
		if err != nil {
			return nil, err
		}
		a = append(a, v)
	}
}

func (d *decoder) quoted() (any, error) {
	d.pos++ // '"'
	var b strings.Builder
	for d.pos < len(d.src) {
		c := d.src[d.pos]
		switch c {
		case '"':
			d.pos++
			return b.String(), nil
		case '\\':
			d.pos++
			if d.pos >= len(d.src) {
				return nil, d.errorf("unterminated escape")
			}
			switch e := d.src[d.pos]; e {
			case '"', '\\', '/':
				b.WriteByte(e)
			case 'b':
				b.WriteByte('\b')
			case 'f':
				b.WriteByte('\f')
			case 'n':
				b.WriteByte('\n')
			case 'r':
				b.WriteByte('\r')
			case 't':
				b.WriteByte('\t')
			case 'u':
				if d.pos+4 >= len(d.src) {
					return nil, d.errorf("truncated unicode escape")
				}
				n, err := strconv.ParseUint(d.src[d.pos+1:d.pos+5], 16, 32)
				if err != nil {
					return nil, d.errorf("invalid unicode escape")
				}
				d.pos += 4
				r := rune(n)
				if utf16.IsSurrogate(r) && d.pos+6 < len(d.src) &&
					d.src[d.pos+1] == '\\' && d.src[d.pos+2] == 'u' {
					n2, err := strconv.ParseUint(d.src[d.pos+3:d.pos+7], 16, 32)
					if err == nil {
						if dec := utf16.DecodeRune(r, rune(n2)); dec != 0xFFFD {
							r = dec
							d.pos += 6
						}
					}
				}
				b.WriteRune(r)
			default:
				return nil, d.errorf("invalid escape character %q", e)
			}
			d.pos++
		default:
			b.WriteByte(c)
			d.pos++
		}
	}
	return nil, d.errorf("unterminated string")
}

func (d *decoder) number() (any, error) {
	start := d.pos
	isFloat := false
	if c := d.src[d.pos]; c == '-' || c == '+' {
		d.pos++
	}
	for d.pos < len(d.src) {
		c := d.src[d.pos]
		switch {
		case '0' <= c && c <= '9':
		case c == '.' || c == 'e' || c == 'E':
			isFloat = true
		case c == '-' || c == '+':
			// exponent sign
		default:
			goto done
		}
		d.pos++
	}
done:
	s := d.src[start:d.pos]
	if isFloat {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, d.errorf("invalid float literal %q", s)
		}
		return f, nil
	}
	i, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil, d.errorf("invalid integer literal %q", s)
	}
	return i, nil
}

func isSymbolChar(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	case c == '-' || c == '_' || c == '.' || c == '/' || c == ':' ||
		c == '+' || c == '*' || c == '?' || c == '!' || c == '@':
		return true
	}
	return false
}

func (d *decoder) symbol() (any, error) {
	start := d.pos
	for d.pos < len(d.src) && isSymbolChar(d.src[d.pos]) {
		d.pos++
	}
	if d.pos == start {
		return nil, d.errorf("unexpected character %q", d.src[d.pos])
	}
	switch s := d.src[start:d.pos]; s {
	case "true":
		return true, nil
	case "false":
		return false, nil
	default:
		return s, nil
	}
}
