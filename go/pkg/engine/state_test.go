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
	"testing"

	"github.com/apache/qpid-proton-engine/go/internal/test"
	"github.com/apache/qpid-proton-engine/go/pkg/amqp"
)

func TestStateMatch(t *testing.T) {
	s := SLocalActive | SRemoteUninit
	for _, x := range []struct {
		mask State
		want bool
	}{
		{0, true},
		{SLocalActive, true},
		{SLocalClosed, false},
		{SLocalActive | SLocalClosed, true},
		{SRemoteUninit, true},
		{SRemoteActive | SRemoteClosed, false},
		{SLocalActive | SRemoteUninit, true},
		{SLocalUninit | SRemoteUninit, false},
	} {
		if got := s.Match(x.mask); got != x.want {
			t.Errorf("(%s).Match(%s): want %v got %v", s, x.mask, x.want, got)
		}
	}
	if got, want := s.String(), "local-active|remote-uninit"; got != want {
		t.Errorf("want %q got %q", want, got)
	}
	if !s.Local().LocalActive() || s.Local().Has(SRemoteUninit) {
		t.Errorf("bad local half %s", s.Local())
	}
}

func TestEndpointLifecycle(t *testing.T) {
	c := NewConnection(Container("me"), Hostname("peer"))
	if got, want := c.State(), SLocalUninit|SRemoteUninit; got != want {
		t.Fatalf("want %s got %s", want, got)
	}
	ssn, err := c.Session()
	test.FatalIf(t, err)
	l := ssn.Sender("x")
	l.Open()
	l.RemoteOpen()
	if got, want := l.State(), SLocalActive|SRemoteActive; got != want {
		t.Errorf("want %s got %s", want, got)
	}
	l.Close()
	l.Open() // close is terminal
	if !l.State().LocalClosed() {
		t.Errorf("open after close: %s", l.State())
	}

	l.RemoteClose(amqp.Errorf(amqp.DetachForced, "gone"))
	if got, want := l.RemoteCondition().Name, amqp.DetachForced; got != want {
		t.Errorf("want %q got %q", want, got)
	}
	test.ErrorIf(t, test.Differ(amqp.Errorf(amqp.DetachForced, "gone"), EndpointError(l)))

	CloseError(ssn, amqp.Errorf(amqp.InternalError, "oops"))
	if !ssn.State().LocalClosed() || ssn.Condition().Name != amqp.InternalError {
		t.Errorf("close error not recorded: %s %v", ssn.State(), ssn.Condition())
	}
	if err := EndpointError(c); err != nil {
		t.Errorf("unexpected connection error %v", err)
	}
	if got, want := c.String(), "connection(me->peer)"; got != want {
		t.Errorf("want %q got %q", want, got)
	}
}

func TestConditionSetError(t *testing.T) {
	var c Condition
	if c.IsSet() || c.Error() != nil {
		t.Fatal("empty condition is set")
	}
	c.SetError(amqp.Errorf(amqp.NotFound, "no %s", "queue"))
	test.ErrorIf(t, test.Differ(Condition{amqp.NotFound, "no queue"}, c))
	c.Clear()
	if c.IsSet() {
		t.Error("clear did not clear")
	}
}
