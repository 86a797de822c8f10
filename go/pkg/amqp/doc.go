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
Package amqp provides the AMQP 1.0 value types and the codec boundary used by
the engine: AMQP error conditions, a registry of described types keyed by
numeric or symbolic descriptor, the message sections and link terminus types,
and a compact decoder and encoder for the primitive encodings they use.

The engine treats message payloads as opaque bytes. This package is how an
application or transport interprets them.

AMQP 1.0 is an open standard for inter-operable message exchange, see <http://www.amqp.org/>
*/
package amqp

// This file is just for the package comment.
