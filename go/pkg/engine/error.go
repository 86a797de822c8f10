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
)

// ErrorCode classifies errors returned by engine operations.
// Test for them with errors.Is, the engine wraps them with detail.
type ErrorCode int

const (
	// ErrInvalidState: the local state of the endpoint forbids the operation,
	// for example sending on a closed sender.
	ErrInvalidState ErrorCode = iota + 1
	// ErrInvalidArgument: the operation names a delivery or link that does
	// not match, for example sending through a delivery that is not current.
	ErrInvalidArgument
)

func (e ErrorCode) String() string {
	switch e {
	case ErrInvalidState:
		return "bad-state"
	case ErrInvalidArgument:
		return "invalid-argument"
	default:
		return fmt.Sprintf("unknown-error(%d)", int(e))
	}
}

func (e ErrorCode) Error() string { return e.String() }

func stateErr(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidState, fmt.Sprintf(format, args...))
}

func argErr(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

// Condition is an AMQP error condition held by an endpoint, it is set when the
// endpoint is closed with an error.
type Condition struct {
	Name, Description string
}

// IsSet is true if the condition has a name.
func (c *Condition) IsSet() bool { return c != nil && c.Name != "" }

// Clear the condition.
func (c *Condition) Clear() { *c = Condition{} }

// Error returns an instance of amqp.Error or nil.
func (c *Condition) Error() error {
	if !c.IsSet() {
		return nil
	}
	return amqp.Error{Name: c.Name, Description: c.Description}
}

// Set a Go error into a condition, converting to an amqp.Error using amqp.MakeError
func (c *Condition) SetError(err error) {
	if err != nil {
		cond := amqp.MakeError(err)
		c.Name = cond.Name
		c.Description = cond.Description
	}
}
