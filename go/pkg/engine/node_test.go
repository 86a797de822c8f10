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

import (
	"testing"

	"github.com/creachadair/mds/mtest"
)

func TestArenaGenerations(t *testing.T) {
	var a arena[int]
	h1, v := a.alloc()
	*v = 1
	if got := a.get(h1); got == nil || *got != 1 {
		t.Fatalf("want 1 got %v", got)
	}
	if !a.release(h1) || a.release(h1) {
		t.Fatal("release should succeed exactly once")
	}
	h2, v := a.alloc()
	if h2.index != h1.index || h2.gen == h1.gen {
		t.Errorf("slot not reused with new generation: %v %v", h1, h2)
	}
	if *v != 0 {
		t.Errorf("reused slot not zeroed: %v", *v)
	}
	if a.get(h1) != nil {
		t.Error("stale handle resolved")
	}
	if a.get(handle{}) != nil {
		t.Error("nil handle resolved")
	}
	if a.len() != 1 {
		t.Errorf("want 1 got %v", a.len())
	}
}

func TestIndexCorruptionPanics(t *testing.T) {
	c := NewConnection()
	ssn, _ := c.Session()
	l := ssn.Sender("x")
	mtest.MustPanic(t, func() { c.linkIndex.push(l.h) })
	mtest.MustPanic(t, func() { c.linkIndex.from(handle{index: 99, gen: 1}, 0) })
}

func TestIndexRemove(t *testing.T) {
	c := NewConnection()
	ssn, _ := c.Session()
	a, b, d := ssn.Sender("a"), ssn.Sender("b"), ssn.Sender("d")
	for _, h := range []handle{b.h, a.h, d.h} {
		c.linkIndex.remove(h)
		c.linkIndex.remove(h) // no-op
	}
	if c.linkIndex.n != 0 || !c.linkIndex.head.isNil() || !c.linkIndex.tail.isNil() {
		t.Errorf("index not empty: %+v", c.linkIndex)
	}
	c.linkIndex.push(d.h)
	c.linkIndex.push(a.h)
	if got := c.Links(0); len(got) != 2 || got[0] != d.Link || got[1] != a.Link {
		t.Errorf("want [d a] got %v", got)
	}
}
