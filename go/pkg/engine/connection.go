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
	"github.com/eapache/queue"
	"go.uber.org/zap"
)

// ConnectionOption can be passed when creating a connection to configure various options.
type ConnectionOption func(*Connection)

// Trace returns a ConnectionOption that sets the logger for engine events.
// Events are logged at debug level.
func Trace(l *zap.Logger) ConnectionOption {
	return func(c *Connection) { c.log = l }
}

// Container returns a ConnectionOption that sets the local container-id.
// If not set a random UUID is used.
func Container(id string) ConnectionOption {
	return func(c *Connection) { c.container = id }
}

// Hostname returns a ConnectionOption that sets the remote host name sent in the open frame.
func Hostname(h string) ConnectionOption {
	return func(c *Connection) { c.hostname = h }
}

// Connection is the root of the engine object graph. It owns its sessions,
// links and deliveries, indexes sessions and links for traversal, and keeps
// the work list of deliveries that need attention from the transport.
//
// A Connection is not safe for concurrent use. All calls on a connection and
// on the sessions, links and deliveries it owns must be serialized.
type Connection struct {
	endpoint
	container, hostname string

	sessions   arena[sessionState]
	links      arena[linkState]
	deliveries arena[deliveryState]

	sessionIndex, linkIndex index
	work                    workList
	pending                 *queue.Queue // modified endpoints
	log                     *zap.Logger
	freed                   bool
}

// NewConnection creates a connection with local and remote state uninitialized.
func NewConnection(opts ...ConnectionOption) *Connection {
	c := &Connection{pending: queue.New()}
	c.endpoint.init()
	c.sessionIndex.lookup = func(h handle) *endpoint {
		if s := c.sessions.get(h); s != nil {
			return &s.endpoint
		}
		return nil
	}
	c.linkIndex.lookup = func(h handle) *endpoint {
		if l := c.links.get(h); l != nil {
			return &l.endpoint
		}
		return nil
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = defaultLogger()
	}
	if c.container == "" {
		c.container = amqp.UUID4().Canonical()
	}
	return c
}

func (c *Connection) ep() *endpoint { return &c.endpoint }

func (c *Connection) State() State                { return c.state() }
func (c *Connection) Condition() *Condition       { return &c.cond }
func (c *Connection) RemoteCondition() *Condition { return &c.remoteErr }
func (c *Connection) Container() string           { return c.container }
func (c *Connection) Hostname() string            { return c.hostname }
func (c *Connection) Type() string                { return "connection" }

// IsNil is true for a nil or freed connection.
func (c *Connection) IsNil() bool { return c == nil || c.freed }

func (c *Connection) String() string {
	return fmt.Sprintf("connection(%s->%s)", c.container, c.hostname)
}

func (c *Connection) Open() {
	if !c.IsNil() && c.open() {
		c.changed(c, "open")
	}
}

func (c *Connection) Close() {
	if !c.IsNil() && c.close() {
		c.changed(c, "close")
	}
}

func (c *Connection) RemoteOpen() {
	if !c.IsNil() && c.remoteOpen() {
		c.changed(c, "remote open")
	}
}

func (c *Connection) RemoteClose(err error) {
	if !c.IsNil() && c.remoteClose(err) {
		c.changed(c, "remote close")
	}
}

// changed queues e on the modified list and traces the event.
func (c *Connection) changed(e Endpoint, event string) {
	c.markModified(e)
	c.log.Debug(event, endpointField(e))
}

func (c *Connection) markModified(e Endpoint) {
	if ep := e.ep(); !ep.modified {
		ep.modified = true
		c.pending.Add(e)
	}
}

// Modified removes and returns the next endpoint whose local or remote state
// changed since it was last returned, or nil if there is none. The transport
// uses it to decide which open, begin, attach, flow, detach, end or close frames
// to write. Freed endpoints are skipped.
func (c *Connection) Modified() Endpoint {
	for c.pending.Length() > 0 {
		e := c.pending.Remove().(Endpoint)
		if e.IsNil() {
			continue
		}
		e.ep().modified = false
		return e
	}
	return nil
}

// Session creates a new session on the connection.
// It fails with ErrInvalidState if the connection is closed or freed.
func (c *Connection) Session() (Session, error) {
	if c.IsNil() {
		return Session{}, stateErr("connection is freed")
	}
	if c.local == SLocalClosed {
		return Session{}, stateErr("%s is closed", c)
	}
	h, st := c.sessions.alloc()
	st.init()
	c.sessionIndex.push(h)
	s := Session{c, h}
	c.log.Debug("session created", endpointField(s))
	return s, nil
}

// SessionHead returns the first session matching mask, in creation order.
// The result IsNil if there is none.
func (c *Connection) SessionHead(mask State) Session {
	return Session{c, c.sessionIndex.first(mask)}
}

// LinkHead returns the first link matching mask across all sessions, in creation order.
func (c *Connection) LinkHead(mask State) Link {
	return Link{c, c.linkIndex.first(mask)}
}

// Sessions returns the sessions matching mask, in creation order.
func (c *Connection) Sessions(mask State) (sessions []Session) {
	for _, h := range c.sessionIndex.all(mask) {
		sessions = append(sessions, Session{c, h})
	}
	return
}

// Links returns the links matching mask, in creation order.
func (c *Connection) Links(mask State) (links []Link) {
	for _, h := range c.linkIndex.all(mask) {
		links = append(links, Link{c, h})
	}
	return
}

// Free the connection with all of its sessions, links and deliveries.
// Values referring to them become nil.
func (c *Connection) Free() {
	if c.IsNil() {
		return
	}
	for _, h := range c.sessionIndex.all(0) {
		Session{c, h}.Free()
	}
	for c.pending.Length() > 0 {
		c.pending.Remove()
	}
	c.freed = true
	c.log.Debug("connection freed", zap.String("connection", c.String()))
}
