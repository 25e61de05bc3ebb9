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

// Package errors defines shared error types for kimprop packages.
//
// Every failure produced by this module carries a human-readable message
// and a Kind classifying the violation, so that callers can react
// programmatically without parsing messages.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind classifies a failure.
type Kind uint8

const (
	// Format indicates a malformed definition, instance, id, key, or
	// index token.
	Format Kind = 1 + iota

	// NotFound indicates an unknown instance id, property id, key, or
	// standard field.
	NotFound

	// Bounds indicates an index or shape violation.
	Bounds

	// Arity indicates too few or too many tokens for an operation.
	Arity

	// Coercion indicates a value that does not convert to its declared
	// type.
	Coercion

	// Unit indicates a unit supplied where disallowed, or missing where
	// required.
	Unit
)

func (k Kind) String() string {
	switch k {
	case Format:
		return "format"
	case NotFound:
		return "not found"
	case Bounds:
		return "bounds"
	case Arity:
		return "arity"
	case Coercion:
		return "coercion"
	case Unit:
		return "unit"
	}
	return "unknown"
}

// Error is the error type returned by all kimprop packages.
type Error struct {
	kind Kind
	msg  string
}

func (e *Error) Error() string { return e.msg }

// Kind reports the classification of the error.
func (e *Error) Kind() Kind { return e.kind }

// New returns an error of the given kind.
func New(k Kind, msg string) error {
	return &Error{kind: k, msg: msg}
}

// Newf returns an error of the given kind with a formatted message.
func Newf(k Kind, format string, args ...interface{}) error {
	return &Error{kind: k, msg: fmt.Sprintf(format, args...)}
}

// KindOf reports the Kind of err, or zero if err was not produced by this
// package. It unwraps err as needed.
func KindOf(err error) Kind {
	var e *Error
	if stderrors.As(err, &e) {
		return e.kind
	}
	return 0
}

// Is reports whether err is of kind k.
func Is(err error, k Kind) bool {
	return KindOf(err) == k
}
