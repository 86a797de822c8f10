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

// Terminus descriptors, numeric and symbolic.
const (
	SourceCode   = uint64(0x0000000000000028)
	TargetCode   = uint64(0x0000000000000029)
	SourceSymbol = Symbol("amqp:source:list")
	TargetSymbol = Symbol("amqp:target:list")
)

// Durability of a terminus.
type Durability uint32

const (
	// No terminus state is retained durably.
	DurabilityNone Durability = 0
	// Only the existence and configuration of the terminus is retained durably.
	DurabilityConfiguration Durability = 1
	// The unsettled state for durable messages is also retained durably.
	DurabilityUnsettledState Durability = 2
)

// Source is the source terminus of a link, where messages come from.
//
// Links hold their own copies of Source and Target values, use Copy if you
// keep one and modify it.
type Source struct {
	Address      string
	Durable      Durability
	Dynamic      bool
	Capabilities []Symbol
}

// Target is the target terminus of a link, where messages go to.
type Target struct {
	Address      string
	Durable      Durability
	Dynamic      bool
	Capabilities []Symbol
}

// Copy returns a deep copy of s. A nil s copies as nil.
func (s *Source) Copy() *Source {
	if s == nil {
		return nil
	}
	c := *s
	c.Capabilities = copySymbols(s.Capabilities)
	return &c
}

// Copy returns a deep copy of t. A nil t copies as nil.
func (t *Target) Copy() *Target {
	if t == nil {
		return nil
	}
	c := *t
	c.Capabilities = copySymbols(t.Capabilities)
	return &c
}

func copySymbols(s []Symbol) []Symbol {
	if s == nil {
		return nil
	}
	return append([]Symbol(nil), s...)
}

func (s *Source) Descriptor() interface{} { return SourceCode }

// Described fields in order: address, durable, expiry-policy, timeout,
// dynamic, dynamic-node-properties, distribution-mode, filter,
// default-outcome, outcomes, capabilities.
func (s *Source) Described() interface{} {
	l := List{nilIfEmpty(s.Address), uint32(s.Durable), nil, nil, s.Dynamic}
	if len(s.Capabilities) > 0 {
		l = append(l, nil, nil, nil, nil, nil, symbolList(s.Capabilities))
	}
	return l
}

func (t *Target) Descriptor() interface{} { return TargetCode }

// Described fields in order: address, durable, expiry-policy, timeout,
// dynamic, dynamic-node-properties, capabilities.
func (t *Target) Described() interface{} {
	l := List{nilIfEmpty(t.Address), uint32(t.Durable), nil, nil, t.Dynamic}
	if len(t.Capabilities) > 0 {
		l = append(l, nil, symbolList(t.Capabilities))
	}
	return l
}

func nilIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func symbolList(s []Symbol) List {
	l := make(List, len(s))
	for i, x := range s {
		l[i] = x
	}
	return l
}

// terminusFields extracts the fields common to source and target.
func terminusFields(v interface{}, capIndex int) (addr string, dur Durability, dyn bool, caps []Symbol, err error) {
	l, ok := v.(List)
	if !ok && v != nil {
		err = Errorf(DecodeError, "terminus: want list, got %T", v)
		return
	}
	field := func(i int) interface{} {
		if i < len(l) {
			return l[i]
		}
		return nil
	}
	switch a := field(0).(type) {
	case nil:
	case string:
		addr = a
	case Symbol:
		addr = string(a)
	default:
		err = Errorf(DecodeError, "terminus address: want string, got %T", a)
		return
	}
	switch d := field(1).(type) {
	case nil:
	case uint32:
		dur = Durability(d)
	default:
		err = Errorf(DecodeError, "terminus durable: want uint, got %T", d)
		return
	}
	if b, ok := field(4).(bool); ok {
		dyn = b
	}
	switch c := field(capIndex).(type) {
	case nil:
	case Symbol:
		caps = []Symbol{c}
	case List:
		for _, x := range c {
			s, ok := x.(Symbol)
			if !ok {
				err = Errorf(DecodeError, "terminus capability: want symbol, got %T", x)
				return
			}
			caps = append(caps, s)
		}
	default:
		err = Errorf(DecodeError, "terminus capabilities: want symbols, got %T", c)
	}
	return
}

func newSource(v interface{}) (DescribedType, error) {
	addr, dur, dyn, caps, err := terminusFields(v, 10)
	if err != nil {
		return nil, err
	}
	return &Source{Address: addr, Durable: dur, Dynamic: dyn, Capabilities: caps}, nil
}

func newTarget(v interface{}) (DescribedType, error) {
	addr, dur, dyn, caps, err := terminusFields(v, 6)
	if err != nil {
		return nil, err
	}
	return &Target{Address: addr, Durable: dur, Dynamic: dyn, Capabilities: caps}, nil
}

// RegisterTerminus registers Source and Target with r.
func RegisterTerminus(r *Registry) {
	r.Register(newSource, SourceCode, SourceSymbol)
	r.Register(newTarget, TargetCode, TargetSymbol)
}
