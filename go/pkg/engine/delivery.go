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
	"fmt"

	"github.com/apache/qpid-proton-engine/go/pkg/amqp"
	"go.uber.org/zap"
)

// Disposition is the outcome or state of a delivery, one of the AMQP delivery
// state codes.
type Disposition uint64

const (
	Received Disposition = 0x23
	Accepted Disposition = 0x24
	Rejected Disposition = 0x25
	Released Disposition = 0x26
	Modified Disposition = 0x27
)

// String human readable name for a Disposition.
func (d Disposition) String() string {
	switch d {
	case 0:
		return "none"
	case Received:
		return "received"
	case Accepted:
		return "accepted"
	case Rejected:
		return "rejected"
	case Released:
		return "released"
	case Modified:
		return "modified"
	default:
		return fmt.Sprintf("disposition(%#x)", uint64(d))
	}
}

type deliveryState struct {
	link handle
	tag  []byte

	prev, next         handle // link queue
	workPrev, workNext handle // connection work list
	queued, inWork     bool   // on the link queue, on the work list

	data    []byte
	cursor  int  // sender: bytes framed, receiver: bytes read
	partial bool // receiver: more frames to come

	local, remote          Disposition
	settled, remoteSettled bool
	updated, tpwork        bool
	advanced               bool
}

// Delivery is a single message transfer on a link. The zero Delivery IsNil,
// as is one that has been freed or reclaimed after settlement.
type Delivery struct {
	c *Connection
	h handle
}

func (d Delivery) state() *deliveryState {
	if d.c == nil {
		return nil
	}
	return d.c.deliveries.get(d.h)
}

func (d Delivery) IsNil() bool { return d.state() == nil }

// live returns the delivery state, or ErrInvalidArgument if d is nil or freed.
func (d Delivery) live() (*deliveryState, error) {
	if ds := d.state(); ds != nil {
		return ds, nil
	}
	return nil, argErr("delivery is freed")
}

func (d Delivery) String() string {
	ds := d.state()
	if ds == nil {
		return "delivery(nil)"
	}
	return fmt.Sprintf("delivery(%x)@%s", ds.tag, Link{d.c, ds.link})
}

func (d Delivery) Link() Link {
	if ds := d.state(); ds != nil {
		return Link{d.c, ds.link}
	}
	return Link{}
}

func (d Delivery) Tag() []byte {
	if ds := d.state(); ds != nil {
		return append([]byte(nil), ds.tag...)
	}
	return nil
}

func (d Delivery) Settled() bool {
	ds := d.state()
	return ds != nil && ds.settled
}

func (d Delivery) RemoteSettled() bool {
	ds := d.state()
	return ds != nil && ds.remoteSettled
}

// Local is the disposition set locally.
func (d Delivery) Local() Disposition {
	if ds := d.state(); ds != nil {
		return ds.local
	}
	return 0
}

// Remote is the disposition received from the peer.
func (d Delivery) Remote() Disposition {
	if ds := d.state(); ds != nil {
		return ds.remote
	}
	return 0
}

// Updated is true if the peer changed the disposition or settled the delivery
// since the work list entry was last cleared.
func (d Delivery) Updated() bool {
	ds := d.state()
	return ds != nil && ds.updated
}

// Current is true if d is the current delivery of its link.
func (d Delivery) Current() bool {
	ds := d.state()
	return ds != nil && d.c.links.get(ds.link).current == d.h
}

// Partial is true for a received delivery with more frames to come.
func (d Delivery) Partial() bool {
	ds := d.state()
	return ds != nil && ds.partial
}

// Pending is the number of bytes not yet framed on a sender, or not yet read
// on a receiver.
func (d Delivery) Pending() int {
	if ds := d.state(); ds != nil {
		return len(ds.data) - ds.cursor
	}
	return 0
}

// Readable is true for the current delivery of a receiver.
func (d Delivery) Readable() bool {
	ds := d.state()
	return ds != nil && d.Current() && d.c.links.get(ds.link).role == receiverRole
}

// Writable is true for the current delivery of a sender with credit.
func (d Delivery) Writable() bool {
	ds := d.state()
	if ds == nil || !d.Current() {
		return false
	}
	s := d.c.links.get(ds.link)
	return s.role == senderRole && s.credit > 0
}

// Update the local disposition, the transport will send it to the peer.
func (d Delivery) Update(disp Disposition) error {
	ds, err := d.live()
	if err == nil {
		ds.local = disp
		ds.tpwork = true
		d.c.workUpdate(d.h)
	}
	return err
}

// Settle the delivery. Settling the current delivery advances the link first.
// A settled delivery is reclaimed once it has been advanced past, its transfer
// is complete and the transport has cleared its work. Settling twice is a no-op.
func (d Delivery) Settle() error {
	ds, err := d.live()
	if err != nil || ds.settled {
		return err
	}
	if d.Current() {
		d.Link().Advance()
	}
	d.c.settle(d.h)
	return nil
}

// SettleAs is equivalent to d.Update(disp); d.Settle()
func (d Delivery) SettleAs(disp Disposition) error {
	if err := d.Update(disp); err != nil {
		return err
	}
	return d.Settle()
}

// Accept accepts and settles a delivery.
func (d Delivery) Accept() error { return d.SettleAs(Accepted) }

// Reject rejects and settles a delivery
func (d Delivery) Reject() error { return d.SettleAs(Rejected) }

// Release releases and settles a delivery
// If delivered is true the delivery count for the message will be increased.
func (d Delivery) Release(delivered bool) error {
	if delivered {
		return d.SettleAs(Modified)
	}
	return d.SettleAs(Released)
}

// SetRemote records a disposition frame from the peer. Called by the transport.
// Remote settlement is final, settled=false does not undo it.
func (d Delivery) SetRemote(disp Disposition, settled bool) error {
	ds, err := d.live()
	if err != nil {
		return err
	}
	if disp != 0 {
		ds.remote = disp
	}
	ds.remoteSettled = ds.remoteSettled || settled
	ds.updated = true
	d.c.workUpdate(d.h)
	return nil
}

// Frame takes up to max unframed bytes from a sender delivery for a transfer
// frame, all of them if max <= 0. more is true if the delivery has bytes left
// or has not been advanced, so later frames will follow. Called by the transport.
// chunk is a copy, the caller may keep or modify it.
func (d Delivery) Frame(max int) (chunk []byte, more bool) {
	ds := d.state()
	if ds == nil || d.c.links.get(ds.link).role != senderRole {
		return nil, false
	}
	n := len(ds.data) - ds.cursor
	if max > 0 && n > max {
		n = max
	}
	chunk = append([]byte(nil), ds.data[ds.cursor:ds.cursor+n]...)
	ds.cursor += n
	more = ds.cursor < len(ds.data) || !ds.advanced
	if !more {
		d.c.maybeUnlink(d.h)
	}
	return chunk, more
}

// Sections decodes a complete received payload into message sections using reg,
// or amqp.DefaultRegistry() if reg is nil.
func (d Delivery) Sections(reg *amqp.Registry) ([]interface{}, error) {
	ds, err := d.live()
	if err != nil {
		return nil, err
	}
	if ds.partial {
		return nil, stateErr("%s is partial", d)
	}
	if reg == nil {
		reg = amqp.DefaultRegistry()
	}
	return reg.DecodeSections(ds.data)
}

// Free the delivery, settling it if necessary. It leaves the link queue and
// the work list, and d becomes nil.
func (d Delivery) Free() {
	ds := d.state()
	if ds == nil {
		return
	}
	c := d.c
	s := c.links.get(ds.link)
	if !ds.settled {
		ds.settled = true
		s.unsettled--
		delete(s.tags, string(ds.tag))
	}
	wasCurrent := s.current == d.h
	c.unlink(d.h, ds, s)
	c.clearWork(d.h, ds)
	c.log.Debug("delivery freed", deliveryField(d))
	c.deliveries.release(d.h)
	if wasCurrent {
		c.workUpdate(s.current)
	}
}

// settle marks a delivery settled and tells the transport.
func (c *Connection) settle(h handle) {
	ds := c.deliveries.get(h)
	if ds == nil || ds.settled {
		return
	}
	s := c.links.get(ds.link)
	ds.settled = true
	s.unsettled--
	delete(s.tags, string(ds.tag))
	ds.tpwork = true
	c.log.Debug("settle", deliveryField(Delivery{c, h}), zap.Stringer("disposition", ds.local))
	c.workUpdate(h)
	c.maybeUnlink(h)
}

// maybeUnlink takes a delivery off its link queue once it is settled,
// advanced past and complete.
func (c *Connection) maybeUnlink(h handle) {
	ds := c.deliveries.get(h)
	if ds == nil || !ds.queued || !ds.settled || !ds.advanced {
		return
	}
	s := c.links.get(ds.link)
	if !s.complete(ds) {
		return
	}
	c.unlink(h, ds, s)
	c.reclaim(h)
}

func (c *Connection) unlink(h handle, ds *deliveryState, s *linkState) {
	if !ds.queued {
		return
	}
	if s.current == h {
		s.current = ds.next
	}
	if !ds.advanced {
		s.queued--
	}
	if ds.prev.isNil() {
		s.head = ds.next
	} else {
		c.delivery(ds.prev).next = ds.next
	}
	if ds.next.isNil() {
		s.tail = ds.prev
	} else {
		c.delivery(ds.next).prev = ds.prev
	}
	ds.prev, ds.next, ds.queued = handle{}, handle{}, false
}

// reclaim releases a delivery that is off both lists.
func (c *Connection) reclaim(h handle) {
	ds := c.deliveries.get(h)
	if ds == nil || ds.queued || ds.inWork {
		return
	}
	c.log.Debug("delivery reclaimed", deliveryField(Delivery{c, h}))
	c.deliveries.release(h)
}
