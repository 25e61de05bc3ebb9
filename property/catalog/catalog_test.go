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

package catalog

import (
	"testing"

	"github.com/go-quicktest/qt"

	"openkim.org/kimprop/errors"
	"openkim.org/kimprop/property/definition"
)

func TestDefinitionsAreValid(t *testing.T) {
	defs := Definitions()
	qt.Assert(t, qt.Equals(len(defs), 3))
	for id, doc := range defs {
		qt.Assert(t, qt.IsNil(definition.Check(doc)), qt.Commentf("definition %s", id))
		qt.Assert(t, qt.Equals(doc["property-id"], any(id)))
	}
}

func TestLookup(t *testing.T) {
	byName, err := Lookup("atomic-mass")
	qt.Assert(t, qt.IsNil(err))
	byID, err := Lookup("tag:brunnels@noreply.openkim.org,2016-05-11:property/atomic-mass")
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(byName["property-id"], byID["property-id"]))

	_, err = Lookup("no-such-property")
	qt.Assert(t, qt.IsNotNil(err))
	qt.Assert(t, qt.Equals(errors.KindOf(err), errors.NotFound))
}

func TestIDs(t *testing.T) {
	ids := IDs()
	qt.Assert(t, qt.DeepEquals(ids, []string{
		"tag:brunnels@noreply.openkim.org,2016-05-11:property/atomic-mass",
		"tag:staff@noreply.openkim.org,2014-04-15:property/bulk-modulus-isothermal-cubic-crystal-npt",
		"tag:staff@noreply.openkim.org,2014-04-15:property/cohesive-energy-relation-cubic-crystal",
	}))
}
