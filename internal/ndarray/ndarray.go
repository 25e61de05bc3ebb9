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

// Package ndarray provides shape inference and construction helpers for
// the ragged N-dimensional arrays stored inside property instance
// documents. Arrays are nested []any values; leaves are int64, float64,
// bool, or string.
//
// Shape and Size assume uniformity along all dimensions. When the first
// dimension is not uniform they deliberately truncate instead of failing
// and report the outer length only; downstream validators rely on the
// resulting dimensionality mismatch to detect ragged input.
package ndarray

import (
	"openkim.org/kimprop/errors"
)

type kind uint8

const (
	kindSeq kind = 1 + iota
	kindBool
	kindInt
	kindFloat
	kindString
	kindOther
)

func kindOf(v any) kind {
	switch v.(type) {
	case []any:
		return kindSeq
	case bool:
		return kindBool
	case int64:
		return kindInt
	case float64:
		return kindFloat
	case string:
		return kindString
	}
	return kindOther
}

// firstDimUniform reports whether the elements of the first dimension of
// v agree in kind and, for sequence elements, in length.
func firstDimUniform(v any) bool {
	a, ok := v.([]any)
	if !ok || len(a) == 0 {
		return true
	}
	k := kindOf(a[0])
	for _, e := range a[1:] {
		if kindOf(e) != k {
			return false
		}
	}
	if k != kindSeq {
		return true
	}
	n := len(a[0].([]any))
	for _, e := range a[1:] {
		if len(e.([]any)) != n {
			return false
		}
	}
	return true
}

// Shape returns the dimension lengths of v. A non-sequence value has
// shape []. If the first dimension is not uniform, the shape is
// truncated to the outer length only.
func Shape(v any) []int {
	a, ok := v.([]any)
	if !ok {
		return []int{}
	}
	if !firstDimUniform(v) {
		return []int{len(a)}
	}
	if len(a) == 0 {
		return []int{0}
	}
	return append([]int{len(a)}, Shape(a[0])...)
}

// Size returns the number of elements in v, using the same truncation
// rule as Shape for non-uniform input.
func Size(v any) int {
	a, ok := v.([]any)
	if !ok {
		return 1
	}
	if !firstDimUniform(v) {
		return len(a)
	}
	if len(a) == 0 {
		return 0
	}
	return len(a) * Size(a[0])
}

// IsUniform reports whether v is uniform along all dimensions: at every
// level all elements have the same kind and, for sequences, the same
// length.
func IsUniform(v any) bool {
	a, ok := v.([]any)
	if !ok {
		return true
	}
	if !firstDimUniform(a) {
		return false
	}
	for _, e := range a {
		if !IsUniform(e) {
			return false
		}
	}
	return true
}

// Full returns a new array of the given shape with every leaf set to
// fill. An empty shape yields the fill value itself.
func Full(shape []int, fill any) any {
	if len(shape) == 0 {
		return fill
	}
	a := make([]any, shape[0])
	for i := range a {
		a[i] = Full(shape[1:], fill)
	}
	return a
}

// ExtendFull returns a new array of the given shape filled with fill,
// with every element of old copied into the corresponding prefix region.
// It fails if old is not uniform, if old is a scalar, if the number of
// dimensions differs, or if any dimension of old exceeds the new shape.
func ExtendFull(old any, shape []int, fill any) (any, error) {
	if !IsUniform(old) {
		return nil, errors.New(errors.Bounds,
			"the input array is not uniform along all dimensions")
	}
	oldShape := Shape(old)
	if len(oldShape) == 0 {
		return nil, errors.New(errors.Bounds,
			"a scalar value cannot be extended to an array")
	}
	if len(oldShape) != len(shape) {
		return nil, errors.Newf(errors.Bounds,
			"the old array has %d dimensions and can not be extended to a new %d dimensional array",
			len(oldShape), len(shape))
	}
	for i, o := range oldShape {
		if o > shape[i] {
			return nil, errors.Newf(errors.Bounds,
				"the old array with the shape of %v does not fit within the new array with the shape of %v",
				oldShape, shape)
		}
	}
	out := Full(shape, fill).([]any)
	copyPrefix(out, old.([]any))
	return out, nil
}

func copyPrefix(dst, src []any) {
	for i, e := range src {
		if inner, ok := e.([]any); ok {
			copyPrefix(dst[i].([]any), inner)
		} else {
			dst[i] = e
		}
	}
}

// At returns the element of arr at the given coordinate.
func At(arr any, index []int) any {
	for _, i := range index {
		arr = arr.([]any)[i]
	}
	return arr
}

// Set stores v at the given coordinate of arr. The index must be
// non-empty and within bounds.
func Set(arr any, index []int, v any) {
	a := arr.([]any)
	for _, i := range index[:len(index)-1] {
		a = a[i].([]any)
	}
	a[index[len(index)-1]] = v
}
