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
	"strings"

	rb "github.com/glycerine/rbtree"
	"go.uber.org/zap"
)

// named is a session link table entry.
type named struct {
	name string
	link handle
}

func byName(a, b rb.Item) int {
	return strings.Compare(a.(*named).name, b.(*named).name)
}

type sessionState struct {
	endpoint
	senders, receivers *rb.Tree

	incomingCapacity int
	windowResize     bool
}

func (s *sessionState) init() {
	s.endpoint.init()
	s.senders = rb.NewTree(byName)
	s.receivers = rb.NewTree(byName)
}

func (s *sessionState) table(r role) *rb.Tree {
	if r == senderRole {
		return s.senders
	}
	return s.receivers
}

// Session is an AMQP session, it contains Senders and Receivers.
// The zero Session IsNil, as does a Session that has been freed.
type Session struct {
	c *Connection
	h handle
}

func (s Session) state() *sessionState {
	if s.c == nil {
		return nil
	}
	return s.c.sessions.get(s.h)
}

func (s Session) ep() *endpoint {
	if st := s.state(); st != nil {
		return &st.endpoint
	}
	return &endpoint{}
}

func (s Session) IsNil() bool                 { return s.state() == nil }
func (s Session) Connection() *Connection     { return s.c }
func (s Session) Type() string                { return "session" }
func (s Session) Condition() *Condition       { return &s.ep().cond }
func (s Session) RemoteCondition() *Condition { return &s.ep().remoteErr }

func (s Session) String() string {
	if s.IsNil() {
		return "session(nil)"
	}
	return fmt.Sprintf("session(%d)", s.h.index)
}

func (s Session) State() State {
	if st := s.state(); st != nil {
		return st.state()
	}
	return 0
}

func (s Session) Open() {
	if st := s.state(); st != nil && st.open() {
		s.c.changed(s, "session open")
	}
}

func (s Session) Close() {
	if st := s.state(); st != nil && st.close() {
		s.c.changed(s, "session close")
	}
}

func (s Session) RemoteOpen() {
	if st := s.state(); st != nil && st.remoteOpen() {
		s.c.changed(s, "session remote open")
	}
}

func (s Session) RemoteClose(err error) {
	if st := s.state(); st != nil && st.remoteClose(err) {
		s.c.changed(s, "session remote close")
	}
}

// Next returns the next session on the connection after s that matches mask.
func (s Session) Next(mask State) Session {
	if s.IsNil() {
		return Session{}
	}
	return Session{s.c, s.c.sessionIndex.after(s.h, mask)}
}

// Sender returns the sender called name, creating it if the session has none.
// A locally closed session returns existing links but creates none, the
// result is nil.
func (s Session) Sender(name string) Sender { return Sender{s.link(name, senderRole)} }

// Receiver returns the receiver called name, creating it if the session has none.
// Senders and receivers have separate names, a sender and a receiver may share a name.
func (s Session) Receiver(name string) Receiver { return Receiver{s.link(name, receiverRole)} }

func (s Session) link(name string, r role) Link {
	st := s.state()
	if st == nil {
		return Link{}
	}
	t := st.table(r)
	if it, ok := t.FindGE_isEqual(&named{name: name}); ok {
		return Link{s.c, it.Item().(*named).link}
	}
	if st.local == SLocalClosed {
		return Link{}
	}
	c := s.c
	h, ls := c.links.alloc()
	ls.endpoint.init()
	ls.role = r
	ls.name = name
	ls.session = s.h
	ls.tags = make(map[string]handle)
	t.Insert(&named{name: name, link: h})
	c.linkIndex.push(h)
	l := Link{c, h}
	c.log.Debug("link created", endpointField(l), zap.Stringer("session", s))
	return l
}

func (s Session) links(r role) (links []Link) {
	st := s.state()
	if st == nil {
		return nil
	}
	t := st.table(r)
	for it := t.Min(); !it.Limit(); it = it.Next() {
		links = append(links, Link{s.c, it.Item().(*named).link})
	}
	return
}

// Senders returns the session's senders in name order.
func (s Session) Senders() (senders []Sender) {
	for _, l := range s.links(senderRole) {
		senders = append(senders, Sender{l})
	}
	return
}

// Receivers returns the session's receivers in name order.
func (s Session) Receivers() (receivers []Receiver) {
	for _, l := range s.links(receiverRole) {
		receivers = append(receivers, Receiver{l})
	}
	return
}

func (s Session) IncomingCapacity() int {
	if st := s.state(); st != nil {
		return st.incomingCapacity
	}
	return 0
}

// SetIncomingCapacity sets the number of bytes the session may buffer. A
// change flags the incoming window for resize on the next flow frame.
func (s Session) SetIncomingCapacity(n int) error {
	st := s.state()
	if st == nil {
		return argErr("session is freed")
	}
	if st.incomingCapacity == n {
		return nil
	}
	st.incomingCapacity = n
	st.windowResize = true
	s.c.markModified(s)
	return nil
}

// ClearIncomingWindowResize returns true if the incoming window needs resizing
// and clears the flag. Called by the transport when it writes a flow frame.
func (s Session) ClearIncomingWindowResize() bool {
	st := s.state()
	if st == nil || !st.windowResize {
		return false
	}
	st.windowResize = false
	return true
}

// Free the session and all of its links. The links leave the connection
// link index before the session leaves the session index.
func (s Session) Free() {
	st := s.state()
	if st == nil {
		return
	}
	for _, l := range append(s.links(senderRole), s.links(receiverRole)...) {
		l.Free()
	}
	st.senders = rb.NewTree(byName)
	st.receivers = rb.NewTree(byName)
	s.c.sessionIndex.remove(s.h)
	s.c.log.Debug("session freed", zap.Stringer("session", s))
	s.c.sessions.release(s.h)
}
