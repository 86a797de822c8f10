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
	"strings"
)

// State holds the state flags for an AMQP endpoint.
//
// An endpoint has exactly one local and one remote flag set. A State used as
// a query mask may have several flags set in each half, see Match.
type State byte

const (
	SLocalUninit State = 1 << iota
	SLocalActive
	SLocalClosed
	SRemoteUninit
	SRemoteActive
	SRemoteClosed
)

const (
	localMask  = SLocalUninit | SLocalActive | SLocalClosed
	remoteMask = SRemoteUninit | SRemoteActive | SRemoteClosed
)

// Has is True if bits & state is non 0.
func (s State) Has(bits State) bool { return s&bits != 0 }

func (s State) LocalUninit() bool  { return s.Has(SLocalUninit) }
func (s State) LocalActive() bool  { return s.Has(SLocalActive) }
func (s State) LocalClosed() bool  { return s.Has(SLocalClosed) }
func (s State) RemoteUninit() bool { return s.Has(SRemoteUninit) }
func (s State) RemoteActive() bool { return s.Has(SRemoteActive) }
func (s State) RemoteClosed() bool { return s.Has(SRemoteClosed) }

// Return a State containing just the local flags
func (s State) Local() State { return s & localMask }

// Return a State containing just the remote flags
func (s State) Remote() State { return s & remoteMask }

// Match reports whether endpoint state s is selected by mask. Each half of
// the mask is a set of acceptable states: an empty half accepts any state,
// otherwise the endpoint's flag for that half must be in the set.
//
// For example SLocalActive|SLocalClosed matches every endpoint that has been
// opened locally, whatever the remote state.
func (s State) Match(mask State) bool {
	if l := mask.Local(); l != 0 && s&l == 0 {
		return false
	}
	if r := mask.Remote(); r != 0 && s&r == 0 {
		return false
	}
	return true
}

var stateNames = []struct {
	s    State
	name string
}{
	{SLocalUninit, "local-uninit"},
	{SLocalActive, "local-active"},
	{SLocalClosed, "local-closed"},
	{SRemoteUninit, "remote-uninit"},
	{SRemoteActive, "remote-active"},
	{SRemoteClosed, "remote-closed"},
}

func (s State) String() string {
	var names []string
	for _, n := range stateNames {
		if s.Has(n.s) {
			names = append(names, n.name)
		}
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, "|")
}

// Endpoint is the common interface for Connection, Link and Session.
type Endpoint interface {
	// State is the open/closed state.
	State() State
	// Open an endpoint.
	Open()
	// Close an endpoint.
	Close()
	// Condition holds a local error condition.
	Condition() *Condition
	// RemoteCondition holds a remote error condition.
	RemoteCondition() *Condition
	// RemoteOpen records that the peer opened the endpoint. Called by the transport.
	RemoteOpen()
	// RemoteClose records that the peer closed the endpoint, with an error
	// condition if err is not nil. Called by the transport.
	RemoteClose(err error)
	// IsNil is true for a zero or freed endpoint.
	IsNil() bool
	// Human readable name
	String() string
	// Human readable endpoint type "sender-link", "session" etc.
	Type() string

	ep() *endpoint
}

// endpoint is the state shared by connections, sessions and links.
type endpoint struct {
	local, remote   State
	cond, remoteErr Condition
	modified        bool // queued on the connection's modified list
	node            node // position in the connection's traversal index
}

func (e *endpoint) init() {
	e.local = SLocalUninit
	e.remote = SRemoteUninit
}

func (e *endpoint) state() State { return e.local | e.remote }

// open and close report whether the state changed. Close is terminal.
func (e *endpoint) open() bool {
	if e.local != SLocalUninit {
		return false
	}
	e.local = SLocalActive
	return true
}

func (e *endpoint) close() bool {
	if e.local == SLocalClosed {
		return false
	}
	e.local = SLocalClosed
	return true
}

func (e *endpoint) remoteOpen() bool {
	if e.remote != SRemoteUninit {
		return false
	}
	e.remote = SRemoteActive
	return true
}

func (e *endpoint) remoteClose(err error) bool {
	if e.remote == SRemoteClosed {
		return false
	}
	e.remoteErr.SetError(err)
	e.remote = SRemoteClosed
	return true
}

// CloseError sets an error condition (if err != nil) on an endpoint and closes
// the endpoint if not already closed
func CloseError(e Endpoint, err error) {
	if err != nil && !e.Condition().IsSet() {
		e.Condition().SetError(err)
	}
	e.Close()
}

// EndpointError returns the remote error if there is one, the local error if not
// nil if there is no error.
func EndpointError(e Endpoint) error {
	err := e.RemoteCondition().Error()
	if err == nil {
		err = e.Condition().Error()
	}
	return err
}
