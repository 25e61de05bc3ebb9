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

package errors

import (
	"fmt"
	"testing"

	"github.com/go-quicktest/qt"
)

func TestKind(t *testing.T) {
	err := Newf(Bounds, "index %d out of range", 7)
	qt.Assert(t, qt.Equals(err.Error(), "index 7 out of range"))
	qt.Assert(t, qt.Equals(KindOf(err), Bounds))
	qt.Assert(t, qt.IsTrue(Is(err, Bounds)))
	qt.Assert(t, qt.IsFalse(Is(err, Format)))
}

func TestKindOfWrapped(t *testing.T) {
	err := fmt.Errorf("while loading: %w", New(NotFound, "no such file"))
	qt.Assert(t, qt.Equals(KindOf(err), NotFound))
}

func TestKindOfForeign(t *testing.T) {
	qt.Assert(t, qt.Equals(KindOf(fmt.Errorf("plain")), Kind(0)))
	qt.Assert(t, qt.Equals(KindOf(nil), Kind(0)))
}

func TestKindString(t *testing.T) {
	for k, want := range map[Kind]string{
		Format:   "format",
		NotFound: "not found",
		Bounds:   "bounds",
		Arity:    "arity",
		Coercion: "coercion",
		Unit:     "unit",
		Kind(99): "unknown",
	} {
		qt.Assert(t, qt.Equals(k.String(), want))
	}
}
