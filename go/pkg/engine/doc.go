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

/*
Package engine is an AMQP 1.0 protocol engine without I/O.

It models the AMQP endpoints, Connection, Session and Link (Sender or Receiver),
and the Delivery of messages on links. Application calls and calls from a
transport that has decoded frames from the peer both mutate the same object
graph. The transport finds out what to write by draining two lists:

  - Connection.Modified returns endpoints whose state changed and need open,
    begin, attach, flow, detach, end or close frames.
  - Connection.WorkHead and Delivery.WorkNext walk the deliveries that need
    transfer or disposition frames.

Endpoints can also be traversed in creation order, filtered by state, with
Connection.SessionHead, Connection.LinkHead and the Next methods. A State
mask selects endpoints, for example

	for l := c.LinkHead(SLocalActive); !l.IsNil(); l = l.Next(SLocalActive) { ... }

visits every link that is locally open, whatever its remote state.

Sessions, links and deliveries are small values referring to storage owned by
the connection. When an object is freed, values referring to it become nil
(IsNil returns true) rather than dangling. Calls that change a nil value fail
with ErrInvalidArgument, except Open, Close, Free, AddWork and ClearWork which
do nothing.

Link flow control is credit based. A receiver grants credit with Flow or
Drain, a sender uses one credit each time it calls Advance. Deliveries are
reclaimed once they are settled, advanced past and fully transferred.

A Connection is not safe for concurrent use: all calls on one connection and
its sessions, links and deliveries must come from one goroutine at a time.
Set PN_TRACE_EVT=true in the environment or use the Trace option to log
engine events.
*/
package engine
