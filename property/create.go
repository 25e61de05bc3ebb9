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
	"sort"

	"openkim.org/kimprop/edn"
	"openkim.org/kimprop/errors"
)

// A CreateOption configures Create.
type CreateOption func(*createOptions)

type createOptions struct {
	instances  string
	disclaimer string
}

// WithInstances appends the new instance to an existing serialized
// collection instead of starting a new one.
func WithInstances(serialized string) CreateOption {
	return func(o *createOptions) { o.instances = serialized }
}

// WithDisclaimer attaches a statement of applicability of the data
// contained in the new instance.
func WithDisclaimer(text string) CreateOption {
	return func(o *createOptions) { o.disclaimer = text }
}

// Create starts a new property instance with the given instance id.
//
// The name argument is a short property name such as "atomic-mass", a
// full property id, or a path to a property definition file. A file is
// validated and registered with the registry as a dynamic definition
// before the instance is created.
//
// It returns the serialized KIM-EDN collection holding the new instance
// together with any instances passed in through WithInstances, sorted by
// instance id.
func (r *Registry) Create(instanceID int64, name string, opts ...CreateOption) (string, error) {
	var o createOptions
	for _, opt := range opts {
		opt(&o)
	}

	if instanceID < 1 {
		return "", errors.Newf(errors.Format,
			"the \"instance-id\" = %d does not meet the format specification "+
				"(an integer equal to or greater than 1)", instanceID)
	}

	var list []any
	if !emptyInstances(o.instances) {
		v, err := edn.Decode(o.instances)
		if err != nil {
			return "", err
		}
		var ok bool
		if list, ok = v.([]any); !ok {
			return "", errors.New(errors.Format,
				"the property instances input is not a KIM-EDN vector")
		}
		for _, e := range list {
			inst, ok := e.(map[string]any)
			if !ok {
				return "", errors.New(errors.Format,
					"the property instances input does not have a correct KIM-EDN format")
			}
			if id, _ := inst["instance-id"].(int64); id == instanceID {
				return "", errors.Newf(errors.Format,
					"the \"instance-id\" %d repeats; in the case where there are "+
						"multiple property instances, the instance ids cannot repeat", instanceID)
			}
		}
	}

	var propertyID string
	if fi, err := os.Stat(name); err == nil && !fi.IsDir() {
		if propertyID, err = r.RegisterFile(name); err != nil {
			return "", err
		}
	} else {
		doc, err := r.Lookup(name)
		if err != nil {
			return "", errors.Newf(errors.NotFound,
				"the requested property name %q is not a registered KIM "+
					"property name, nor a path to a property definition file", name)
		}
		propertyID = doc["property-id"].(string)
	}

	inst := map[string]any{
		"property-id": propertyID,
		"instance-id": instanceID,
	}
	if o.disclaimer != "" {
		inst["disclaimer"] = o.disclaimer
	}
	list = append(list, inst)

	sort.SliceStable(list, func(i, j int) bool {
		ii, _ := list[i].(map[string]any)["instance-id"].(int64)
		ij, _ := list[j].(map[string]any)["instance-id"].(int64)
		return ii < ij
	})
	return edn.Encode(list)
}

// Create starts a new property instance using the default registry.
func Create(instanceID int64, name string, opts ...CreateOption) (string, error) {
	return Default().Create(instanceID, name, opts...)
}

// emptyInstances reports whether a serialized collection holds no
// instances at all.
func emptyInstances(s string) bool {
	switch s {
	case "", "None", "[]":
		return true
	}
	return false
}
