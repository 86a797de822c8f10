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

// DefaultWindow is the credit window used by a FlowController with no Window set.
const DefaultWindow = 10

// FlowController keeps a receiver's credit topped up to a fixed window.
type FlowController struct {
	// Window is the credit to maintain, DefaultWindow if <= 0.
	Window int

	drained int
}

// Replenish collects credit drained by the sender and flows enough credit to
// bring r back up to the window. Call it after r is opened and whenever a
// delivery or flow arrives on r.
func (f *FlowController) Replenish(r Receiver) error {
	window := f.Window
	if window <= 0 {
		window = DefaultWindow
	}
	f.drained += r.Drained()
	if n := window - r.Credit(); n > 0 {
		return r.Flow(n)
	}
	return nil
}

// TotalDrained is the credit given back by the sender over the life of the controller.
func (f *FlowController) TotalDrained() int { return f.drained }
