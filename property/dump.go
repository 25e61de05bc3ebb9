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
	"io"
	"os"

	"openkim.org/kimprop/edn"
	"openkim.org/kimprop/errors"
	"openkim.org/kimprop/property/instance"
)

// A DumpOption configures Dump.
type DumpOption func(*dumpOptions)

type dumpOptions struct {
	indent   int
	sortKeys bool
	dir      string
}

// DumpIndent sets the pretty-printing indent width. The default is 4; an
// indent of 0 produces a compact single-line document.
func DumpIndent(n int) DumpOption {
	return func(o *dumpOptions) { o.indent = n }
}

// DumpSortKeys emits map keys in lexical order.
func DumpSortKeys() DumpOption {
	return func(o *dumpOptions) { o.sortKeys = true }
}

// WithDefinitionsDir validates the instances against property definition
// files found under dir instead of the registry.
func WithDefinitionsDir(dir string) DumpOption {
	return func(o *dumpOptions) { o.dir = dir }
}

// Dump validates the serialized property instances against their
// definitions and writes them to w as pretty-printed KIM-EDN. A
// collection holding a single instance is written without the enclosing
// vector.
func (r *Registry) Dump(propertyInstances string, w io.Writer, opts ...DumpOption) error {
	o := dumpOptions{indent: 4}
	for _, opt := range opts {
		opt(&o)
	}

	if emptyInstances(propertyInstances) {
		return errors.New(errors.Format,
			"there is no property instance to dump")
	}
	v, err := edn.Decode(propertyInstances)
	if err != nil {
		return err
	}

	var resolver instance.Resolver = r
	if o.dir != "" {
		resolver = instance.Dir(o.dir)
	}
	if err := instance.Check(v, resolver); err != nil {
		return err
	}

	if list, ok := v.([]any); ok && len(list) == 1 {
		v = list[0]
	}

	encOpts := []edn.EncodeOption{edn.Indent(o.indent)}
	if o.sortKeys {
		encOpts = append(encOpts, edn.SortKeys())
	}
	s, err := edn.Encode(v, encOpts...)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, s+"\n")
	return err
}

// DumpFile validates the serialized property instances and writes them
// to the named file, creating or truncating it.
func (r *Registry) DumpFile(propertyInstances, path string, opts ...DumpOption) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := r.Dump(propertyInstances, f, opts...); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Dump validates and writes property instances using the default
// registry.
func Dump(propertyInstances string, w io.Writer, opts ...DumpOption) error {
	return Default().Dump(propertyInstances, w, opts...)
}

// DumpFile validates and writes property instances to the named file
// using the default registry.
func DumpFile(propertyInstances, path string, opts ...DumpOption) error {
	return Default().DumpFile(propertyInstances, path, opts...)
}
