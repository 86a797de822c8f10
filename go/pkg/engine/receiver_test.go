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
	"errors"
	"io"
	"testing"

	"github.com/apache/qpid-proton-engine/go/internal/test"
)

func TestReceiverIncomingRecv(t *testing.T) {
	c := NewConnection()
	rcv := newReceiver(t, c, "r")
	rcv.Open()
	test.FatalIf(t, rcv.Flow(2))

	buf := make([]byte, 10)
	if _, err := rcv.Recv(buf); !errors.Is(err, ErrInvalidState) {
		t.Errorf("recv with no delivery: want %v got %v", ErrInvalidState, err)
	}

	d, err := rcv.Incoming([]byte("1"), []byte("hel"), true)
	test.FatalIf(t, err)
	if rcv.Credit() != 1 || !d.Partial() || !d.Readable() || d.Writable() {
		t.Errorf("bad incoming state credit %v partial %v", rcv.Credit(), d.Partial())
	}
	if c.WorkHead() != d {
		t.Error("current receiver delivery not on work list")
	}
	n, err := rcv.Recv(buf)
	if n != 3 || err != nil || string(buf[:n]) != "hel" {
		t.Errorf("want 3 hel nil got %v %q %v", n, buf[:n], err)
	}
	if n, err := rcv.Recv(buf); n != 0 || err != nil {
		t.Errorf("partial: want 0 nil got %v %v", n, err)
	}

	d2, err := rcv.Incoming(nil, []byte("lo"), false)
	test.FatalIf(t, err)
	if d2 != d || rcv.Credit() != 1 || d.Partial() {
		t.Errorf("continuation started a new delivery: %v %v", d2, rcv.Credit())
	}
	n, err = rcv.Recv(buf)
	if n != 2 || err != nil || string(buf[:n]) != "lo" {
		t.Errorf("want 2 lo nil got %v %q %v", n, buf[:n], err)
	}
	if _, err := rcv.Recv(buf); err != io.EOF {
		t.Errorf("want EOF got %v", err)
	}

	next, err := rcv.Incoming([]byte("2"), []byte("x"), false)
	test.FatalIf(t, err)
	if rcv.Credit() != 0 || rcv.Queued() != 2 || next.Current() {
		t.Errorf("second delivery: credit %v queued %v", rcv.Credit(), rcv.Queued())
	}

	rcv.Advance()
	d.Accept()
	if !next.Current() || rcv.Unsettled() != 1 {
		t.Errorf("advance: current %v unsettled %v", rcv.Current(), rcv.Unsettled())
	}
	for w := c.WorkHead(); !w.IsNil(); {
		n := w.WorkNext()
		w.ClearWork()
		w = n
	}
	if !d.IsNil() || next.IsNil() {
		t.Errorf("want first reclaimed, second kept: %v %v", d, next)
	}
	if got := rcv.Deliveries(); len(got) != 1 || got[0] != next {
		t.Errorf("want [%v] got %v", next, got)
	}
}

func TestReceiverIncomingNoCredit(t *testing.T) {
	c := NewConnection()
	rcv := newReceiver(t, c, "r")
	if _, err := rcv.Incoming([]byte("1"), nil, false); err != nil {
		t.Fatal(err)
	}
	if rcv.Credit() != 0 {
		t.Errorf("credit went below zero: %v", rcv.Credit())
	}
	if _, err := rcv.Incoming([]byte("1"), nil, false); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("duplicate tag: want %v got %v", ErrInvalidArgument, err)
	}
}

func TestReceiverClosed(t *testing.T) {
	c := NewConnection()
	rcv := newReceiver(t, c, "r")
	rcv.Open()
	rcv.Close()
	if err := rcv.Flow(1); !errors.Is(err, ErrInvalidState) {
		t.Errorf("want %v got %v", ErrInvalidState, err)
	}
	if _, err := rcv.Incoming([]byte("1"), nil, false); !errors.Is(err, ErrInvalidState) {
		t.Errorf("want %v got %v", ErrInvalidState, err)
	}
	if err := (Receiver{}).Flow(1); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("want %v got %v", ErrInvalidArgument, err)
	}
}

func TestReceiverFlowErrors(t *testing.T) {
	c := NewConnection()
	rcv := newReceiver(t, c, "r")
	if err := rcv.Flow(-1); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("want %v got %v", ErrInvalidArgument, err)
	}
}

func TestReceiverDrain(t *testing.T) {
	c := NewConnection()
	rcv := newReceiver(t, c, "r")
	test.FatalIf(t, rcv.Drain(3))
	if !rcv.Draining() || !rcv.IsDrain() || rcv.Credit() != 3 {
		t.Fatalf("not draining: %v %v", rcv.Draining(), rcv.Credit())
	}
	rcv.Incoming([]byte("1"), nil, false)
	rcv.RemoteDrained()
	if rcv.Draining() || rcv.Credit() != 0 {
		t.Errorf("still draining: %v %v", rcv.Draining(), rcv.Credit())
	}
	if n := rcv.Drained(); n != 2 {
		t.Errorf("want 2 got %v", n)
	}
	if n := rcv.Drained(); n != 0 {
		t.Errorf("drained not reset: %v", n)
	}
}

func TestFlowController(t *testing.T) {
	c := NewConnection()
	rcv := newReceiver(t, c, "r")
	rcv.Open()
	fc := &FlowController{}
	test.FatalIf(t, fc.Replenish(rcv))
	if rcv.Credit() != DefaultWindow {
		t.Fatalf("want %v got %v", DefaultWindow, rcv.Credit())
	}
	rcv.Incoming([]byte("1"), nil, false)
	rcv.Incoming([]byte("2"), nil, false)
	test.FatalIf(t, fc.Replenish(rcv))
	if rcv.Credit() != DefaultWindow {
		t.Errorf("want %v got %v", DefaultWindow, rcv.Credit())
	}

	rcv.SetDrain(true)
	rcv.RemoteDrained()
	test.FatalIf(t, fc.Replenish(rcv))
	if fc.TotalDrained() != DefaultWindow || rcv.Credit() != DefaultWindow {
		t.Errorf("want %v, %v got %v, %v", DefaultWindow, DefaultWindow, fc.TotalDrained(), rcv.Credit())
	}

	small := &FlowController{Window: 3}
	test.FatalIf(t, small.Replenish(rcv)) // above window, no flow
	if rcv.Credit() != DefaultWindow {
		t.Errorf("flowed above window: %v", rcv.Credit())
	}
}
