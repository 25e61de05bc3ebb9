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
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-quicktest/qt"

	"openkim.org/kimprop/errors"
	"openkim.org/kimprop/property/catalog"
)

const (
	massName   = "atomic-mass"
	massID     = "tag:brunnels@noreply.openkim.org,2016-05-11:property/atomic-mass"
	cohesiveID = "tag:staff@noreply.openkim.org,2014-04-15:property/cohesive-energy-relation-cubic-crystal"
)

func TestCreate(t *testing.T) {
	s, err := Create(1, cohesiveName)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(s,
		`[{"property-id" "`+cohesiveID+`" "instance-id" 1}]`))

	// Create by full property id.
	s2, err := Create(1, cohesiveID)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(s2, s))
}

func TestCreateAppendsSorted(t *testing.T) {
	s, err := Create(2, massName)
	qt.Assert(t, qt.IsNil(err))
	s, err = Create(1, cohesiveName, WithInstances(s))
	qt.Assert(t, qt.IsNil(err))

	v := mustDecode(t, s).([]any)
	qt.Assert(t, qt.Equals(len(v), 2))
	qt.Assert(t, qt.Equals(v[0].(map[string]any)["instance-id"], any(int64(1))))
	qt.Assert(t, qt.Equals(v[1].(map[string]any)["instance-id"], any(int64(2))))
}

func TestCreateErrors(t *testing.T) {
	_, err := Create(0, massName)
	qt.Assert(t, qt.Equals(errors.KindOf(err), errors.Format))

	_, err = Create(1, "no-such-property")
	qt.Assert(t, qt.Equals(errors.KindOf(err), errors.NotFound))

	s, err := Create(1, massName)
	qt.Assert(t, qt.IsNil(err))
	_, err = Create(1, cohesiveName, WithInstances(s))
	qt.Assert(t, qt.Equals(errors.KindOf(err), errors.Format))
	qt.Assert(t, qt.IsTrue(strings.Contains(err.Error(), "cannot repeat")))
}

func TestCreateWithDisclaimer(t *testing.T) {
	s, err := Create(1, massName,
		WithDisclaimer("Reference data from CODATA."))
	qt.Assert(t, qt.IsNil(err))
	inst := decodeFirst(t, s, 1)
	qt.Assert(t, qt.Equals(inst["disclaimer"],
		any("Reference data from CODATA.")))
}

// newDefinitionFile writes a definition for a property id that is not
// built in.
func newDefinitionFile(t *testing.T) string {
	t.Helper()
	src := `{
  "property-id" "tag:tester@noreply.openkim.org,2023-06-01:property/melting-temperature"
  "property-title" "Melting temperature"
  "property-description" "Melting temperature of a crystal at a given pressure"
  "melting-temperature" {
    "type" "float"
    "has-unit" true
    "extent" []
    "required" true
    "description" "Melting temperature of the crystal"
  }
}`
	path := filepath.Join(t.TempDir(), "melting-temperature.edn")
	err := os.WriteFile(path, []byte(src), 0o666)
	qt.Assert(t, qt.IsNil(err))
	return path
}

const meltingID = "tag:tester@noreply.openkim.org,2023-06-01:property/melting-temperature"

func TestCreateFromFile(t *testing.T) {
	r := NewRegistry()
	path := newDefinitionFile(t)

	s, err := r.Create(1, path)
	qt.Assert(t, qt.IsNil(err))
	inst := decodeFirst(t, s, 1)
	qt.Assert(t, qt.Equals(inst["property-id"], any(meltingID)))

	// The definition is now registered under its name and its id.
	_, err = r.Lookup("melting-temperature")
	qt.Assert(t, qt.IsNil(err))
	_, err = r.Lookup(meltingID)
	qt.Assert(t, qt.IsNil(err))

	// Registering the same id twice is rejected.
	_, err = r.Create(2, path, WithInstances(s))
	qt.Assert(t, qt.Equals(errors.KindOf(err), errors.Format))
	qt.Assert(t, qt.IsTrue(strings.Contains(err.Error(), "already exists")))

	// The dynamic definition is usable by Modify.
	s, err = r.Modify(s, 1,
		"key", "melting-temperature",
		"source-value", "933.47", "source-unit", "K")
	qt.Assert(t, qt.IsNil(err))
	mt := decodeFirst(t, s, 1)["melting-temperature"].(map[string]any)
	qt.Assert(t, qt.Equals(mt["source-value"], any(933.47)))
}

func TestDestroy(t *testing.T) {
	s, err := Create(1, cohesiveName)
	qt.Assert(t, qt.IsNil(err))
	s, err = Create(2, massName, WithInstances(s))
	qt.Assert(t, qt.IsNil(err))

	s, err = Destroy(s, 2)
	qt.Assert(t, qt.IsNil(err))
	v := mustDecode(t, s).([]any)
	qt.Assert(t, qt.Equals(len(v), 1))
	qt.Assert(t, qt.Equals(v[0].(map[string]any)["instance-id"], any(int64(1))))

	s, err = Destroy(s, 1)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(s, "[]"))

	// Destroying from an empty collection is a no-op.
	s, err = Destroy("[]", 7)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(s, "[]"))
	s, err = Destroy("", 7)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(s, "[]"))
}

// Destroying the last instance of a dynamically registered definition
// deregisters the definition; built-in definitions stay.
func TestDestroyDeregisters(t *testing.T) {
	r := NewRegistry()
	path := newDefinitionFile(t)

	s, err := r.Create(1, path)
	qt.Assert(t, qt.IsNil(err))
	s, err = r.Create(2, "melting-temperature", WithInstances(s))
	qt.Assert(t, qt.IsNil(err))

	s, err = r.Destroy(s, 1)
	qt.Assert(t, qt.IsNil(err))
	_, err = r.Lookup(meltingID)
	qt.Assert(t, qt.IsNil(err), qt.Commentf("still referenced by instance 2"))

	_, err = r.Destroy(s, 2)
	qt.Assert(t, qt.IsNil(err))
	_, err = r.Lookup(meltingID)
	qt.Assert(t, qt.Equals(errors.KindOf(err), errors.NotFound))
}

func TestRemove(t *testing.T) {
	s, err := Create(1, cohesiveName)
	qt.Assert(t, qt.IsNil(err))
	s, err = Modify(s, 1,
		"key", "a",
		"source-value", "1:2", "3.9", "4.0",
		"source-unit", "angstrom", "digits", "5",
		"key", "short-name",
		"source-value", "1", "fcc")
	qt.Assert(t, qt.IsNil(err))

	// Remove a single standard field.
	s, err = Remove(s, 1, "key", "a", "digits")
	qt.Assert(t, qt.IsNil(err))
	a := decodeFirst(t, s, 1)["a"].(map[string]any)
	_, ok := a["digits"]
	qt.Assert(t, qt.IsFalse(ok))
	_, ok = a["source-unit"]
	qt.Assert(t, qt.IsTrue(ok))

	// Remove a whole key.
	s, err = Remove(s, 1, "key", "short-name", "key", "a", "source-unit")
	qt.Assert(t, qt.IsNil(err))
	inst := decodeFirst(t, s, 1)
	_, ok = inst["short-name"]
	qt.Assert(t, qt.IsFalse(ok))
	a = inst["a"].(map[string]any)
	_, ok = a["source-unit"]
	qt.Assert(t, qt.IsFalse(ok))
	qt.Assert(t, qt.DeepEquals(a["source-value"], any([]any{3.9, 4.0})))

	// A trailing key token removes the key whole.
	s, err = Remove(s, 1, "key", "a")
	qt.Assert(t, qt.IsNil(err))
	inst = decodeFirst(t, s, 1)
	_, ok = inst["a"]
	qt.Assert(t, qt.IsFalse(ok))
}

func TestRemoveErrors(t *testing.T) {
	_, err := Remove("[]", 1, "key", "a")
	qt.Assert(t, qt.Equals(errors.KindOf(err), errors.Format))

	s, err := Create(1, cohesiveName)
	qt.Assert(t, qt.IsNil(err))

	_, err = Remove(s, 2, "key", "a")
	qt.Assert(t, qt.Equals(errors.KindOf(err), errors.NotFound))

	_, err = Remove(s, 1, "key", "a")
	qt.Assert(t, qt.Equals(errors.KindOf(err), errors.NotFound))
}

func TestDump(t *testing.T) {
	s, err := Create(2, massName)
	qt.Assert(t, qt.IsNil(err))
	s, err = Modify(s, 2,
		"key", "mass",
		"source-value", "26.98", "source-unit", "grams/mole",
		"key", "species",
		"source-value", "Al")
	qt.Assert(t, qt.IsNil(err))

	var b strings.Builder
	err = Dump(s, &b)
	qt.Assert(t, qt.IsNil(err))
	out := b.String()

	// A single instance is written without the enclosing vector.
	qt.Assert(t, qt.IsTrue(strings.HasPrefix(out, "{\n")))
	qt.Assert(t, qt.DeepEquals(mustDecode(t, out), mustDecode(t, s).([]any)[0]))
}

func TestDumpValidates(t *testing.T) {
	// The atomic-mass definition marks "species" required.
	s, err := Create(2, massName)
	qt.Assert(t, qt.IsNil(err))
	s, err = Modify(s, 2,
		"key", "mass",
		"source-value", "26.98", "source-unit", "grams/mole")
	qt.Assert(t, qt.IsNil(err))

	var b strings.Builder
	err = Dump(s, &b)
	qt.Assert(t, qt.IsNotNil(err))
	qt.Assert(t, qt.Equals(errors.KindOf(err), errors.Format))
	qt.Assert(t, qt.IsTrue(strings.Contains(err.Error(), "species")))
}

func TestDumpFile(t *testing.T) {
	s, err := Create(1, cohesiveName)
	qt.Assert(t, qt.IsNil(err))
	s, err = Modify(s, 1,
		"key", "species",
		"source-value", "1", "Al",
		"key", "a",
		"source-value", "1", "4.05", "source-unit", "angstrom",
		"key", "basis-atom-coordinates",
		"source-value", "1", "1:3", "0.0", "0.0", "0.0",
		"key", "cohesive-potential-energy",
		"source-value", "1", "3.36", "source-unit", "eV")
	qt.Assert(t, qt.IsNil(err))

	path := filepath.Join(t.TempDir(), "instance.edn")
	err = DumpFile(s, path, DumpIndent(2), DumpSortKeys())
	qt.Assert(t, qt.IsNil(err))

	data, err := os.ReadFile(path)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.DeepEquals(mustDecode(t, string(data)),
		mustDecode(t, s).([]any)[0]))
}

func TestCatalogSeedsDefaultRegistry(t *testing.T) {
	for _, id := range catalog.IDs() {
		doc, err := Default().Lookup(id)
		qt.Assert(t, qt.IsNil(err))
		qt.Assert(t, qt.Equals(doc["property-id"], any(id)))
	}
	qt.Assert(t, qt.Equals(len(catalog.IDs()), 3))
}

func TestOrdinal(t *testing.T) {
	qt.Assert(t, qt.Equals(ordinal(0), "first"))
	qt.Assert(t, qt.Equals(ordinal(1), "second"))
	qt.Assert(t, qt.Equals(ordinal(2), "third"))
	qt.Assert(t, qt.Equals(ordinal(3), "4th"))
}
