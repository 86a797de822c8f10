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

import "fmt"

// node is an endpoint's position in a connection traversal index.
type node struct {
	prev, next handle
	linked     bool
}

// index is an intrusive list of endpoints in creation order. The connection
// keeps one for sessions and one for links. Traversal filters on State.Match
// so a query visits only the endpoints that match.
type index struct {
	head, tail handle
	n          int
	lookup     func(handle) *endpoint
}

func (x *index) at(h handle) *endpoint {
	e := x.lookup(h)
	if e == nil {
		panic(fmt.Errorf("internal error, dangling handle %v in traversal index", h))
	}
	return e
}

func (x *index) push(h handle) {
	e := x.at(h)
	if e.node.linked {
		panic(fmt.Errorf("internal error, handle %v already indexed", h))
	}
	e.node = node{prev: x.tail, linked: true}
	if x.tail.isNil() {
		x.head = h
	} else {
		x.at(x.tail).node.next = h
	}
	x.tail = h
	x.n++
}

func (x *index) remove(h handle) {
	e := x.lookup(h)
	if e == nil || !e.node.linked {
		return
	}
	if e.node.prev.isNil() {
		x.head = e.node.next
	} else {
		x.at(e.node.prev).node.next = e.node.next
	}
	if e.node.next.isNil() {
		x.tail = e.node.prev
	} else {
		x.at(e.node.next).node.prev = e.node.prev
	}
	e.node = node{}
	x.n--
}

// first returns the first endpoint matching mask, or a nil handle.
func (x *index) first(mask State) handle { return x.from(x.head, mask) }

// after returns the first endpoint after h matching mask, or a nil handle.
func (x *index) after(h handle, mask State) handle {
	e := x.lookup(h)
	if e == nil || !e.node.linked {
		return handle{}
	}
	return x.from(e.node.next, mask)
}

func (x *index) from(h handle, mask State) handle {
	for !h.isNil() {
		e := x.at(h)
		if e.state().Match(mask) {
			return h
		}
		h = e.node.next
	}
	return handle{}
}

// all returns the handles matching mask in index order.
func (x *index) all(mask State) []handle {
	var hs []handle
	for h := x.first(mask); !h.isNil(); h = x.after(h, mask) {
		hs = append(hs, h)
	}
	return hs
}
