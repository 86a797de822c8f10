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

// workList is an intrusive list of deliveries through deliveryState.workPrev
// and workNext. A delivery is on the list at most once.
type workList struct {
	head, tail handle
	n          int
}

func (c *Connection) delivery(h handle) *deliveryState {
	d := c.deliveries.get(h)
	if d == nil {
		panic(fmt.Errorf("internal error, dangling delivery handle %v", h))
	}
	return d
}

// addWork is a no-op if d is already on the work list.
func (c *Connection) addWork(h handle, d *deliveryState) {
	if d.inWork {
		return
	}
	w := &c.work
	d.workPrev, d.workNext, d.inWork = w.tail, handle{}, true
	if w.tail.isNil() {
		w.head = h
	} else {
		c.delivery(w.tail).workNext = h
	}
	w.tail = h
	w.n++
}

// clearWork is a no-op if d is not on the work list.
func (c *Connection) clearWork(h handle, d *deliveryState) {
	if !d.inWork {
		return
	}
	w := &c.work
	if d.workPrev.isNil() {
		w.head = d.workNext
	} else {
		c.delivery(d.workPrev).workNext = d.workNext
	}
	if d.workNext.isNil() {
		w.tail = d.workPrev
	} else {
		c.delivery(d.workNext).workPrev = d.workPrev
	}
	d.workPrev, d.workNext, d.inWork = handle{}, handle{}, false
	w.n--
}

// workUpdate puts the delivery on the work list if the transport has work
// pending for it or its link's policy wants it considered, and takes it off
// otherwise.
func (c *Connection) workUpdate(h handle) {
	d := c.deliveries.get(h)
	if d == nil {
		return
	}
	if d.tpwork || c.links.get(d.link).wantsWork(h, d) {
		c.addWork(h, d)
	} else {
		c.clearWork(h, d)
	}
}

// WorkHead returns the first delivery on the work list. The result IsNil if
// the list is empty.
//
// A transport drains the list like this, fetching the next entry before
// clearing the current one since ClearWork may reclaim it:
//
//	for d := c.WorkHead(); !d.IsNil(); {
//		next := d.WorkNext()
//		// write transfer or disposition frames for d
//		d.ClearWork()
//		d = next
//	}
func (c *Connection) WorkHead() Delivery { return Delivery{c, c.work.head} }

// WorkLen is the number of deliveries on the work list.
func (c *Connection) WorkLen() int { return c.work.n }

// WorkNext returns the delivery after d on the work list.
func (d Delivery) WorkNext() Delivery {
	if ds := d.state(); ds != nil && ds.inWork {
		return Delivery{d.c, ds.workNext}
	}
	return Delivery{}
}

// AddWork puts d on the work list for the transport, if it is not already there.
func (d Delivery) AddWork() {
	if ds := d.state(); ds != nil {
		ds.tpwork = true
		d.c.addWork(d.h, ds)
	}
}

// ClearWork records that the transport has dealt with d. The delivery leaves
// the work list unless its link still wants it considered, for example the
// current delivery of a sender with credit. A delivery that is settled and
// done with is reclaimed and d becomes nil.
func (d Delivery) ClearWork() {
	ds := d.state()
	if ds == nil {
		return
	}
	ds.tpwork, ds.updated = false, false
	d.c.workUpdate(d.h)
	d.c.reclaim(d.h)
}
