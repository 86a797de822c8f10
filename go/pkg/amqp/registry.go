/*
Licensed to the Apache Software Foundation (ASF) under one
or more contributor license agreements.  See the NOTICE file
distributed with this work for additional information
regarding copyright ownership.  The ASF licenses this file
to you under the Apache License, Version 2.0 (the
"License"); you may not use this file except in compliance
with the License.  You may obtain a copy of the License at

  http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing,
software distributed under the License is distributed on an
"AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
KIND, either express or implied.  See the License for the
specific language governing permissions and limitations
under the License.
*/

package amqp

import (
	"fmt"
)

// DescribedType is implemented by Go values that encode as an AMQP described type.
type DescribedType interface {
	// Descriptor is the canonical numeric descriptor, a uint64.
	Descriptor() interface{}
	// Described is the value part of the described type.
	Described() interface{}
}

// Constructor makes a DescribedType from the decoded value part of a described type.
type Constructor func(value interface{}) (DescribedType, error)

// Registry maps descriptors to constructors. A descriptor is either a uint64
// code or a Symbol; a type normally registers both as aliases of the same
// constructor, for example 0x75 and "amqp:data:binary" for Data.
//
// A Registry is not safe for concurrent modification. Register everything
// before sharing it.
type Registry struct {
	constructors map[interface{}]Constructor
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{constructors: make(map[interface{}]Constructor)}
}

// DefaultRegistry returns a registry with the message sections and the
// Source and Target terminus types registered.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	RegisterSections(r)
	RegisterTerminus(r)
	return r
}

func descriptorKey(d interface{}) (interface{}, error) {
	switch d := d.(type) {
	case uint64:
		return d, nil
	case uint32:
		return uint64(d), nil
	case int:
		if d >= 0 {
			return uint64(d), nil
		}
	case Symbol:
		return d, nil
	case string:
		return Symbol(d), nil
	}
	return nil, Errorf(InvalidField, "bad descriptor %T(%#v)", d, d)
}

// Register c under each of the descriptors. Panics if a descriptor is not a
// uint64 or symbol, that is a programming error.
func (r *Registry) Register(c Constructor, descriptors ...interface{}) {
	for _, d := range descriptors {
		k, err := descriptorKey(d)
		if err != nil {
			panic(err)
		}
		r.constructors[k] = c
	}
}

// Lookup the constructor for a descriptor.
func (r *Registry) Lookup(descriptor interface{}) (Constructor, bool) {
	k, err := descriptorKey(descriptor)
	if err != nil {
		return nil, false
	}
	c, ok := r.constructors[k]
	return c, ok
}

// Construct returns the registered type for d, or d itself if its descriptor
// is not registered.
func (r *Registry) Construct(d Described) (interface{}, error) {
	c, ok := r.Lookup(d.Descriptor)
	if !ok {
		return d, nil
	}
	v, err := c(d.Value)
	if err != nil {
		return nil, err
	}
	return v, nil
}

// Decode one value from b. Described values with a registered descriptor are
// constructed, others are returned as Described. Returns the number of bytes
// consumed.
func (r *Registry) Decode(b []byte) (interface{}, int, error) {
	v, n, err := Decode(b)
	if err != nil {
		return nil, n, err
	}
	if d, ok := v.(Described); ok {
		v, err = r.Construct(d)
	}
	return v, n, err
}

// DecodeSections decodes consecutive values from b until it is exhausted,
// as found in the payload of a message transfer.
func (r *Registry) DecodeSections(b []byte) (sections []interface{}, err error) {
	for len(b) > 0 {
		v, n, err := r.Decode(b)
		if err != nil {
			return sections, err
		}
		sections = append(sections, v)
		b = b[n:]
	}
	return sections, nil
}

func describedString(t DescribedType) string {
	return fmt.Sprintf("%T(%#x)", t, t.Descriptor())
}
