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
	"io"

	"go.uber.org/zap"
)

// Receiver is a Link that receives deliveries.
type Receiver struct{ Link }

// Flow grants n more credit to the sender.
func (r Receiver) Flow(n int) error {
	ls := r.state()
	if ls == nil || ls.role != receiverRole {
		return argErr("%s is not a receiver", r.Link)
	}
	if ls.local == SLocalClosed {
		return stateErr("flow on closed %s", r.Link)
	}
	if n < 0 {
		return argErr("negative credit %d", n)
	}
	ls.credit += n
	r.c.markModified(r.Link)
	r.c.log.Debug("flow", zap.Stringer("link", r.Link), zap.Int("credit", ls.credit))
	return nil
}

// Drain grants n more credit and asks the sender to use it all or give it back.
func (r Receiver) Drain(n int) error {
	if err := r.Flow(n); err != nil {
		return err
	}
	r.state().drain = true
	return nil
}

// Draining is true while a drain request has credit outstanding.
func (r Receiver) Draining() bool {
	ls := r.state()
	return ls != nil && ls.drain && ls.credit > 0
}

// RemoteDrained records a flow frame from the sender that ends a drain.
// The outstanding credit is counted as drained. Called by the transport.
func (r Receiver) RemoteDrained() {
	ls := r.state()
	if ls == nil {
		return
	}
	ls.drainedCredit += ls.credit
	ls.credit = 0
	ls.drain = false
}

// Drained returns the credit given up by the sender since the last call, and
// resets it.
func (r Receiver) Drained() int {
	ls := r.state()
	if ls == nil {
		return 0
	}
	n := ls.drainedCredit
	ls.drainedCredit = 0
	return n
}

// Incoming records a transfer frame. A frame continues the last delivery if it
// is partial, otherwise it starts a new delivery with tag, using one credit.
// more is true if frames follow. Called by the transport.
func (r Receiver) Incoming(tag, payload []byte, more bool) (Delivery, error) {
	ls := r.state()
	if ls == nil || ls.role != receiverRole {
		return Delivery{}, argErr("%s is not a receiver", r.Link)
	}
	if ls.local == SLocalClosed {
		return Delivery{}, stateErr("transfer on closed %s", r.Link)
	}
	var d Delivery
	if tail := r.c.deliveries.get(ls.tail); tail != nil && tail.partial {
		d = Delivery{r.c, ls.tail}
	} else {
		var err error
		if d, err = r.Delivery(tag); err != nil {
			return Delivery{}, err
		}
		if ls.credit > 0 {
			ls.credit--
		}
	}
	ds := d.state()
	ds.data = append(ds.data, payload...)
	ds.partial = more
	r.c.workUpdate(d.h)
	r.c.maybeUnlink(d.h)
	return d, nil
}

// Recv reads payload bytes from the current delivery. It returns io.EOF when
// a complete delivery has been read, and 0, nil when a partial delivery has
// no more bytes yet. It fails with ErrInvalidState if there is no current
// delivery.
func (r Receiver) Recv(buf []byte) (int, error) {
	ls := r.state()
	if ls == nil || ls.role != receiverRole {
		return 0, argErr("%s is not a receiver", r.Link)
	}
	ds := r.c.deliveries.get(ls.current)
	if ds == nil {
		return 0, stateErr("no current delivery on %s", r.Link)
	}
	n := copy(buf, ds.data[ds.cursor:])
	ds.cursor += n
	if n == 0 && len(buf) > 0 && !ds.partial {
		return 0, io.EOF
	}
	return n, nil
}
