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

package engine

// handle is a generational index into an arena. The zero handle is nil: slot
// generations start at 1, so a zero gen never refers to a live value.
type handle struct {
	index, gen uint32
}

func (h handle) isNil() bool { return h.gen == 0 }

type slot[T any] struct {
	gen  uint32
	live bool
	val  T
}

// arena stores values of T behind handles. Slots are individually allocated
// so pointers returned by get stay valid until the handle is released.
// A released slot is reused with a new generation, stale handles resolve to nil.
type arena[T any] struct {
	slots []*slot[T]
	free  []uint32
	n     int
}

func (a *arena[T]) alloc() (handle, *T) {
	var i uint32
	if k := len(a.free); k > 0 {
		i = a.free[k-1]
		a.free = a.free[:k-1]
	} else {
		i = uint32(len(a.slots))
		a.slots = append(a.slots, &slot[T]{})
	}
	s := a.slots[i]
	s.gen++
	if s.gen == 0 {
		s.gen = 1
	}
	s.live = true
	var zero T
	s.val = zero
	a.n++
	return handle{index: i, gen: s.gen}, &s.val
}

// get returns nil for a nil, stale or released handle.
func (a *arena[T]) get(h handle) *T {
	if h.isNil() || int(h.index) >= len(a.slots) {
		return nil
	}
	if s := a.slots[h.index]; s.live && s.gen == h.gen {
		return &s.val
	}
	return nil
}

func (a *arena[T]) release(h handle) bool {
	if a.get(h) == nil {
		return false
	}
	s := a.slots[h.index]
	s.live = false
	var zero T
	s.val = zero
	a.free = append(a.free, h.index)
	a.n--
	return true
}

func (a *arena[T]) len() int { return a.n }
