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
	"openkim.org/kimprop/edn"
	"openkim.org/kimprop/errors"
)

// Destroy deletes a previously created property instance from the
// serialized collection. When the destroyed instance was the last
// referent of a dynamically registered property definition, the
// definition is deregistered as well.
//
// Destroying from an empty collection returns an empty collection.
func (r *Registry) Destroy(propertyInstances string, instanceID int64) (string, error) {
	if emptyInstances(propertyInstances) {
		return "[]", nil
	}
	v, err := edn.Decode(propertyInstances)
	if err != nil {
		return "", err
	}
	list, ok := v.([]any)
	if !ok {
		return "", errors.New(errors.Format,
			"the property instances input is not a KIM-EDN vector")
	}

	kept := list[:0]
	removed := map[string]bool{}
	for _, e := range list {
		inst, ok := e.(map[string]any)
		if !ok {
			return "", errors.New(errors.Format,
				"the property instances input does not have a correct KIM-EDN format")
		}
		if id, _ := inst["instance-id"].(int64); id == instanceID {
			if pid, ok := inst["property-id"].(string); ok {
				removed[pid] = true
			}
			continue
		}
		kept = append(kept, e)
	}

	for pid := range removed {
		if referenced(kept, pid) {
			continue
		}
		r.Deregister(pid)
	}
	return edn.Encode([]any(kept))
}

// Destroy deletes a property instance using the default registry.
func Destroy(propertyInstances string, instanceID int64) (string, error) {
	return Default().Destroy(propertyInstances, instanceID)
}

func referenced(list []any, propertyID string) bool {
	for _, e := range list {
		inst, ok := e.(map[string]any)
		if !ok {
			continue
		}
		if pid, _ := inst["property-id"].(string); pid == propertyID {
			return true
		}
	}
	return false
}
