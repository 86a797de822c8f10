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

type role uint8

const (
	senderRole role = iota
	receiverRole
)

// SndSettleMode is the sender settlement mode negotiated on attach.
type SndSettleMode uint8

const (
	// SndUnsettled: the sender sends deliveries unsettled.
	SndUnsettled SndSettleMode = iota
	// SndSettled: the sender settles deliveries as it sends them.
	SndSettled
	// SndMixed: the sender may send settled or unsettled deliveries.
	SndMixed
)

// RcvSettleMode is the receiver settlement mode negotiated on attach.
type RcvSettleMode uint8

const (
	// RcvFirst: the receiver settles spontaneously.
	RcvFirst RcvSettleMode = iota
	// RcvSecond: the receiver settles only after the sender has settled.
	RcvSecond
)

type linkState struct {
	endpoint
	role    role
	name    string
	session handle

	// delivery queue in creation order, current is the next delivery to
	// send or read.
	head, tail, current handle
	tags                map[string]handle // unsettled deliveries by tag

	queued, unsettled, credit int
	drain                     bool

	source, remoteSource *amqp.Source
	target, remoteTarget *amqp.Target
	sndSettle            SndSettleMode
	rcvSettle            RcvSettleMode

	// sender
	offered int
	drained bool
	// receiver
	drainedCredit int
}

func (s *linkState) wantsWork(h handle, d *deliveryState) bool {
	switch s.role {
	case senderRole:
		return d.updated || (s.current == h && s.credit > 0)
	default:
		return d.updated || s.current == h
	}
}

// complete is true when nothing remains to transfer for d.
func (s *linkState) complete(d *deliveryState) bool {
	switch s.role {
	case senderRole:
		return d.cursor == len(d.data)
	default:
		return !d.partial
	}
}

// Link is a unidirectional channel for deliveries, either a Sender or a Receiver.
// The zero Link IsNil, as is a Link that has been freed.
type Link struct {
	c *Connection
	h handle
}

func (l Link) state() *linkState {
	if l.c == nil {
		return nil
	}
	return l.c.links.get(l.h)
}

func (l Link) ep() *endpoint {
	if s := l.state(); s != nil {
		return &s.endpoint
	}
	return &endpoint{}
}

func (l Link) IsNil() bool { return l.state() == nil }

// live returns the link state, or ErrInvalidArgument if the link is nil or freed.
func (l Link) live() (*linkState, error) {
	if s := l.state(); s != nil {
		return s, nil
	}
	return nil, argErr("link is freed")
}

func (l Link) Connection() *Connection { return l.c }

func (l Link) Session() Session {
	if s := l.state(); s != nil {
		return Session{l.c, s.session}
	}
	return Session{}
}

func (l Link) Name() string {
	if s := l.state(); s != nil {
		return s.name
	}
	return ""
}

func (l Link) IsSender() bool {
	s := l.state()
	return s != nil && s.role == senderRole
}

func (l Link) IsReceiver() bool {
	s := l.state()
	return s != nil && s.role == receiverRole
}

// Sender returns l as a Sender, nil if l is not a sender.
func (l Link) Sender() Sender {
	if l.IsSender() {
		return Sender{l}
	}
	return Sender{}
}

// Receiver returns l as a Receiver, nil if l is not a receiver.
func (l Link) Receiver() Receiver {
	if l.IsReceiver() {
		return Receiver{l}
	}
	return Receiver{}
}

func (l Link) Type() string {
	if l.IsSender() {
		return "sender-link"
	}
	return "receiver-link"
}

func (l Link) String() string {
	var src, tgt string
	if s := l.state(); s != nil {
		if s.source != nil {
			src = s.source.Address
		}
		if s.target != nil {
			tgt = s.target.Address
		}
	}
	return fmt.Sprintf("%s(%s->%s)", l.Name(), src, tgt)
}

func (l Link) State() State {
	if s := l.state(); s != nil {
		return s.state()
	}
	return 0
}

func (l Link) Condition() *Condition       { return &l.ep().cond }
func (l Link) RemoteCondition() *Condition { return &l.ep().remoteErr }

func (l Link) Open() {
	if s := l.state(); s != nil && s.open() {
		l.c.changed(l, "link open")
	}
}

func (l Link) Close() {
	if s := l.state(); s != nil && s.close() {
		l.c.changed(l, "link close")
	}
}

func (l Link) RemoteOpen() {
	if s := l.state(); s != nil && s.remoteOpen() {
		l.c.changed(l, "link remote open")
	}
}

func (l Link) RemoteClose(err error) {
	if s := l.state(); s != nil && s.remoteClose(err) {
		l.c.changed(l, "link remote close")
	}
}

// Next returns the next link on the connection after l that matches mask.
func (l Link) Next(mask State) Link {
	if l.IsNil() {
		return Link{}
	}
	return Link{l.c, l.c.linkIndex.after(l.h, mask)}
}

func (l Link) Credit() int {
	if s := l.state(); s != nil {
		return s.credit
	}
	return 0
}

// Queued is the number of deliveries from the current delivery to the end of the queue.
func (l Link) Queued() int {
	if s := l.state(); s != nil {
		return s.queued
	}
	return 0
}

// Unsettled is the number of deliveries created on the link and not yet settled.
func (l Link) Unsettled() int {
	if s := l.state(); s != nil {
		return s.unsettled
	}
	return 0
}

func (l Link) IsDrain() bool {
	s := l.state()
	return s != nil && s.drain
}

// AddCredit adds n to the link credit, as when a flow frame grants credit.
func (l Link) AddCredit(n int) error {
	s, err := l.live()
	if err == nil {
		l.setCredit(s, s.credit+n)
	}
	return err
}

// SetCredit sets the link credit to n.
func (l Link) SetCredit(n int) error {
	s, err := l.live()
	if err == nil {
		l.setCredit(s, n)
	}
	return err
}

func (l Link) setCredit(s *linkState, n int) {
	if n < 0 {
		n = 0
	}
	s.credit = n
	l.c.log.Debug("credit", zap.Stringer("link", l), zap.Int("credit", n))
	l.c.workUpdate(s.current)
}

// SetDrain sets the drain flag, as when a flow frame requests drain.
func (l Link) SetDrain(drain bool) error {
	s, err := l.live()
	if err == nil {
		s.drain = drain
		l.c.workUpdate(s.current)
	}
	return err
}

func (l Link) SndSettleMode() SndSettleMode {
	if s := l.state(); s != nil {
		return s.sndSettle
	}
	return SndUnsettled
}

func (l Link) RcvSettleMode() RcvSettleMode {
	if s := l.state(); s != nil {
		return s.rcvSettle
	}
	return RcvFirst
}

func (l Link) SetSndSettleMode(m SndSettleMode) error {
	s, err := l.live()
	if err == nil {
		s.sndSettle = m
	}
	return err
}

func (l Link) SetRcvSettleMode(m RcvSettleMode) error {
	s, err := l.live()
	if err == nil {
		s.rcvSettle = m
	}
	return err
}

// Source returns a copy of the local source, nil if not set.
func (l Link) Source() *amqp.Source {
	if s := l.state(); s != nil {
		return s.source.Copy()
	}
	return nil
}

// Target returns a copy of the local target, nil if not set.
func (l Link) Target() *amqp.Target {
	if s := l.state(); s != nil {
		return s.target.Copy()
	}
	return nil
}

// RemoteSource returns a copy of the source sent by the peer, nil if not set.
func (l Link) RemoteSource() *amqp.Source {
	if s := l.state(); s != nil {
		return s.remoteSource.Copy()
	}
	return nil
}

// RemoteTarget returns a copy of the target sent by the peer, nil if not set.
func (l Link) RemoteTarget() *amqp.Target {
	if s := l.state(); s != nil {
		return s.remoteTarget.Copy()
	}
	return nil
}

// SetSource stores a copy of src, later changes to src do not affect the link.
func (l Link) SetSource(src *amqp.Source) error {
	s, err := l.live()
	if err == nil {
		s.source = src.Copy()
		l.c.markModified(l)
	}
	return err
}

// SetTarget stores a copy of t, later changes to t do not affect the link.
func (l Link) SetTarget(t *amqp.Target) error {
	s, err := l.live()
	if err == nil {
		s.target = t.Copy()
		l.c.markModified(l)
	}
	return err
}

// SetRemoteSource records the source received from the peer.
func (l Link) SetRemoteSource(src *amqp.Source) error {
	s, err := l.live()
	if err == nil {
		s.remoteSource = src.Copy()
	}
	return err
}

// SetRemoteTarget records the target received from the peer.
func (l Link) SetRemoteTarget(t *amqp.Target) error {
	s, err := l.live()
	if err == nil {
		s.remoteTarget = t.Copy()
	}
	return err
}

// Delivery creates a delivery with the given tag at the end of the link
// queue. It becomes the current delivery if the link has none.
// Tags must be unique among the unsettled deliveries of a link.
// A locally closed link refuses new deliveries with ErrInvalidState.
func (l Link) Delivery(tag []byte) (Delivery, error) {
	s, err := l.live()
	if err != nil {
		return Delivery{}, err
	}
	if s.local == SLocalClosed {
		return Delivery{}, stateErr("delivery on closed %s", l)
	}
	key := string(tag)
	if _, dup := s.tags[key]; dup {
		return Delivery{}, argErr("duplicate delivery tag %x on %s", tag, l)
	}
	c := l.c
	h, d := c.deliveries.alloc()
	d.link = l.h
	d.tag = append([]byte(nil), tag...)
	d.queued = true
	d.prev = s.tail
	if s.tail.isNil() {
		s.head = h
	} else {
		c.delivery(s.tail).next = h
	}
	s.tail = h
	if s.current.isNil() {
		s.current = h
	}
	s.queued++
	s.unsettled++
	s.tags[key] = h
	dv := Delivery{c, h}
	c.log.Debug("delivery created", deliveryField(dv))
	c.workUpdate(h)
	return dv, nil
}

// Current returns the current delivery, nil if there is none.
func (l Link) Current() Delivery {
	if s := l.state(); s != nil {
		return Delivery{l.c, s.current}
	}
	return Delivery{}
}

// Deliveries returns the deliveries in the link queue, oldest first. Deliveries
// before the current one have been advanced past and are waiting to be
// settled or finish their transfer.
func (l Link) Deliveries() (ds []Delivery) {
	s := l.state()
	if s == nil {
		return nil
	}
	for h := s.head; !h.isNil(); h = l.c.delivery(h).next {
		ds = append(ds, Delivery{l.c, h})
	}
	return
}

// Advance moves the current delivery to the next one in the queue. On a
// sender this ends the current delivery: it uses one credit and one offered
// delivery, and the transport is told to finish sending it. On a receiver it
// means the application has read the current delivery.
//
// Advance returns false if there is no current delivery or the link is
// locally closed. Credit is never reduced below zero.
func (l Link) Advance() bool {
	s := l.state()
	if s == nil || s.current.isNil() || s.local == SLocalClosed {
		return false
	}
	c := l.c
	old := s.current
	d := c.delivery(old)
	s.current = d.next
	d.advanced = true
	s.queued--
	if s.role == senderRole {
		if s.offered > 0 {
			s.offered--
		}
		if s.credit > 0 {
			s.credit--
		}
		d.tpwork = true
	}
	c.log.Debug("advance", deliveryField(Delivery{c, old}), zap.Int("credit", s.credit), zap.Int("queued", s.queued))
	c.workUpdate(old)
	c.workUpdate(s.current)
	if s.role == senderRole && s.sndSettle == SndSettled {
		c.settle(old)
	} else {
		c.maybeUnlink(old)
	}
	return true
}

// Free the link and its deliveries. The link leaves its session and the
// connection's link index, and values referring to it become nil.
func (l Link) Free() {
	s := l.state()
	if s == nil {
		return
	}
	c := l.c
	for h := s.head; !h.isNil(); {
		next := c.delivery(h).next
		Delivery{c, h}.Free()
		h = next
	}
	// Deliveries already off the queue may still be waiting on the work list.
	for h := c.work.head; !h.isNil(); {
		d := c.delivery(h)
		next := d.workNext
		if d.link == l.h {
			Delivery{c, h}.Free()
		}
		h = next
	}
	if ss := c.sessions.get(s.session); ss != nil {
		ss.table(s.role).DeleteWithKey(&named{name: s.name})
	}
	c.linkIndex.remove(l.h)
	c.log.Debug("link freed", zap.Stringer("link", l))
	c.links.release(l.h)
}
