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

package ndarray

import (
	"testing"

	"github.com/go-quicktest/qt"

	"openkim.org/kimprop/errors"
)

func TestShape(t *testing.T) {
	testCases := []struct {
		name string
		in   any
		want []int
	}{
		{"scalar int", int64(3), []int{}},
		{"scalar string", "fcc", []int{}},
		{"empty", []any{}, []int{0}},
		{"vector", []any{1.0, 2.0, 3.0}, []int{3}},
		{"matrix", []any{
			[]any{1.0, 2.0, 3.0},
			[]any{4.0, 5.0, 6.0},
		}, []int{2, 3}},
		{"cube", []any{
			[]any{[]any{int64(1)}, []any{int64(2)}},
		}, []int{1, 2, 1}},
		// Ragged input truncates to the outer length.
		{"ragged lengths", []any{
			[]any{1.0, 2.0},
			[]any{3.0},
		}, []int{2}},
		{"mixed kinds", []any{1.0, []any{2.0}}, []int{2}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			qt.Assert(t, qt.DeepEquals(Shape(tc.in), tc.want))
		})
	}
}

func TestSize(t *testing.T) {
	qt.Assert(t, qt.Equals(Size(int64(7)), 1))
	qt.Assert(t, qt.Equals(Size([]any{}), 0))
	qt.Assert(t, qt.Equals(Size([]any{1.0, 2.0}), 2))
	qt.Assert(t, qt.Equals(Size([]any{
		[]any{1.0, 2.0, 3.0},
		[]any{4.0, 5.0, 6.0},
	}), 6))
}

func TestIsUniform(t *testing.T) {
	qt.Assert(t, qt.IsTrue(IsUniform(int64(1))))
	qt.Assert(t, qt.IsTrue(IsUniform([]any{1.0, 2.0})))
	qt.Assert(t, qt.IsTrue(IsUniform([]any{
		[]any{1.0, 2.0},
		[]any{3.0, 4.0},
	})))
	qt.Assert(t, qt.IsFalse(IsUniform([]any{
		[]any{1.0, 2.0},
		[]any{3.0},
	})))
	qt.Assert(t, qt.IsFalse(IsUniform([]any{1.0, "x"})))
	qt.Assert(t, qt.IsFalse(IsUniform([]any{
		[]any{[]any{1.0}, []any{2.0, 3.0}},
		[]any{[]any{4.0}, []any{5.0, 6.0}},
	})))
}

func TestFull(t *testing.T) {
	qt.Assert(t, qt.Equals(Full(nil, 0.0), 0.0))
	qt.Assert(t, qt.DeepEquals(Full([]int{2}, ""), any([]any{"", ""})))
	qt.Assert(t, qt.DeepEquals(Full([]int{2, 3}, 0.0), any([]any{
		[]any{0.0, 0.0, 0.0},
		[]any{0.0, 0.0, 0.0},
	})))
}

func TestExtendFull(t *testing.T) {
	old := []any{
		[]any{1.0, 2.0, 3.0},
	}
	got, err := ExtendFull(old, []int{3, 3}, 0.0)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.DeepEquals(got, any([]any{
		[]any{1.0, 2.0, 3.0},
		[]any{0.0, 0.0, 0.0},
		[]any{0.0, 0.0, 0.0},
	})))
}

func TestExtendFullErrors(t *testing.T) {
	testCases := []struct {
		name  string
		old   any
		shape []int
	}{
		{"scalar", int64(1), []int{2}},
		{"ragged", []any{[]any{1.0}, []any{2.0, 3.0}}, []int{2, 3}},
		{"ndims mismatch", []any{1.0, 2.0}, []int{2, 2}},
		{"shrinking", []any{1.0, 2.0, 3.0}, []int{2}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ExtendFull(tc.old, tc.shape, 0.0)
			qt.Assert(t, qt.IsNotNil(err))
			qt.Assert(t, qt.Equals(errors.KindOf(err), errors.Bounds))
		})
	}
}

func TestAtSet(t *testing.T) {
	arr := Full([]int{2, 3}, 0.0)
	Set(arr, []int{1, 2}, 42.0)
	qt.Assert(t, qt.Equals(At(arr, []int{1, 2}), any(42.0)))
	qt.Assert(t, qt.Equals(At(arr, []int{0, 0}), any(0.0)))
	qt.Assert(t, qt.DeepEquals(At(arr, []int{1}), any([]any{0.0, 0.0, 42.0})))
}
