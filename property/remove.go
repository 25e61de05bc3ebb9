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

// Remove deletes property keys, or single standard fields of a property
// key, from the instance with the given id.
//
// The token stream is a sequence of directives:
//
//	key KEYNAME FIELD...
//
// A KEYNAME followed by another "key" directive, or ending the stream,
// removes the whole key from the instance. Otherwise each FIELD names a
// standard field to delete from the key's map; unknown fields are
// ignored.
func Remove(propertyInstances string, instanceID int64, tokens ...string) (string, error) {
	if emptyInstances(propertyInstances) {
		return "", errors.New(errors.Format,
			"there is no property instance to remove the content")
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

	var inst map[string]any
	for _, e := range list {
		p, ok := e.(map[string]any)
		if !ok {
			return "", errors.New(errors.Format,
				"the property instances input does not have a correct KIM-EDN format")
		}
		if id, _ := p["instance-id"].(int64); id == instanceID {
			inst = p
			break
		}
	}
	if inst == nil {
		return "", errors.Newf(errors.NotFound,
			"the requested instance id %d does not match any of the "+
				"property instances ids", instanceID)
	}

	var keyMap map[string]any
	for i := 0; i < len(tokens); i++ {
		if tokens[i] != "key" {
			if keyMap != nil {
				delete(keyMap, tokens[i])
			}
			continue
		}
		i++
		if i >= len(tokens) {
			return "", errors.New(errors.Arity,
				"the \"key\" directive requires a property key name")
		}
		name := tokens[i]
		m, ok := inst[name].(map[string]any)
		if !ok {
			return "", errors.Newf(errors.NotFound,
				"the key %q does not exist in the property instance", name)
		}
		// A key directly followed by another key, or ending the stream,
		// is removed whole.
		if i+1 >= len(tokens) || tokens[i+1] == "key" {
			delete(inst, name)
			keyMap = nil
			continue
		}
		keyMap = m
	}
	return edn.Encode(list)
}
