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

import "go.uber.org/zap"

// Sender is a Link that sends deliveries.
type Sender struct{ Link }

// Send appends b to the payload of d, which must be the current delivery of s.
// It fails with ErrInvalidState if s is closed, whatever b is, and with
// ErrInvalidArgument if d is not the current delivery.
func (s Sender) Send(d Delivery, b []byte) (int, error) {
	ls := s.state()
	if ls == nil || ls.role != senderRole {
		return 0, argErr("%s is not a sender", s.Link)
	}
	if ls.local == SLocalClosed {
		return 0, stateErr("send on closed %s", s.Link)
	}
	if d.c != s.c || d.h.isNil() || ls.current != d.h {
		return 0, argErr("%s is not the current delivery of %s", d, s.Link)
	}
	ds := s.c.delivery(d.h)
	ds.data = append(ds.data, b...)
	ds.tpwork = true
	s.c.workUpdate(d.h)
	return len(b), nil
}

// Offer sets the number of deliveries the sender intends to send, each
// Advance uses one.
func (s Sender) Offer(n int) error {
	ls, err := s.live()
	if err != nil {
		return err
	}
	if n < 0 {
		n = 0
	}
	ls.offered = n
	return nil
}

func (s Sender) Offered() int {
	if ls := s.state(); ls != nil {
		return ls.offered
	}
	return 0
}

// Drained answers a drain request: if the receiver asked to drain, the
// remaining credit is given up and the link is queued so the transport echoes
// the flow. It returns the credit given up.
func (s Sender) Drained() int {
	ls := s.state()
	if ls == nil || !ls.drain {
		return 0
	}
	n := ls.credit
	ls.credit = 0
	ls.drained = true
	s.c.markModified(s.Link)
	s.c.log.Debug("drained", zap.Stringer("link", s.Link), zap.Int("credit", n))
	s.c.workUpdate(ls.current)
	return n
}

// ClearDrained returns true once after Drained, so the transport sends the
// drain echo exactly once.
func (s Sender) ClearDrained() bool {
	ls := s.state()
	if ls == nil || !ls.drained {
		return false
	}
	ls.drained = false
	return true
}
