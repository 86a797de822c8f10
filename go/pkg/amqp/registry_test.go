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

package amqp

import (
	"testing"

	"github.com/apache/qpid-proton-engine/go/internal/test"
	cv "github.com/glycerine/goconvey/convey"
)

func TestRegistryAliases(t *testing.T) {
	cv.Convey("a section registered by code and symbol decodes from either descriptor", t, func() {
		r := DefaultRegistry()
		for _, descriptor := range []interface{}{DataCode, DataSymbol} {
			b, err := Marshal(Described{descriptor, Binary("xyz")}, nil)
			cv.So(err, cv.ShouldBeNil)
			v, n, err := r.Decode(b)
			cv.So(err, cv.ShouldBeNil)
			cv.So(n, cv.ShouldEqual, len(b))
			cv.So(test.Differ(Data("xyz"), v), cv.ShouldBeNil)
		}
		c1, ok1 := r.Lookup(uint32(0x75))
		c2, ok2 := r.Lookup("amqp:data:binary")
		cv.So(ok1 && ok2, cv.ShouldBeTrue)
		cv.So(c1 != nil && c2 != nil, cv.ShouldBeTrue)
	})

	cv.Convey("an unregistered described value is returned as Described", t, func() {
		r := NewRegistry()
		b, err := Marshal(Data("abc"), nil)
		cv.So(err, cv.ShouldBeNil)
		v, _, err := r.Decode(b)
		cv.So(err, cv.ShouldBeNil)
		cv.So(test.Differ(Described{DataCode, Binary("abc")}, v), cv.ShouldBeNil)
	})

	cv.Convey("registering a bad descriptor panics", t, func() {
		cv.So(func() { NewRegistry().Register(newData, 1.5) }, cv.ShouldPanic)
		cv.So(func() { NewRegistry().Register(newData, -1) }, cv.ShouldPanic)
	})
}

func TestDecodeSections(t *testing.T) {
	cv.Convey("consecutive sections decode into their registered types", t, func() {
		var b []byte
		var err error
		for _, s := range []interface{}{
			MessageAnnotations{Symbol("x-opt"): "a", uint64(7): int64(-1)},
			ApplicationProperties{"k": true, "n": int32(300)},
			Data("body"),
		} {
			b, err = Marshal(s, b)
			cv.So(err, cv.ShouldBeNil)
		}
		got, err := DefaultRegistry().DecodeSections(b)
		cv.So(err, cv.ShouldBeNil)
		want := []interface{}{
			MessageAnnotations{Symbol("x-opt"): "a", uint64(7): int64(-1)},
			ApplicationProperties{"k": true, "n": int32(300)},
			Data("body"),
		}
		cv.So(test.Differ(want, got), cv.ShouldBeNil)
	})

	cv.Convey("a section with the wrong value type is a decode error", t, func() {
		b, _ := Marshal(Described{ApplicationPropertiesCode, Map{Symbol("k"): "v"}}, nil)
		_, err := DefaultRegistry().DecodeSections(b)
		cv.So(err, cv.ShouldNotBeNil)
		cv.So(err.(Error).Name, cv.ShouldEqual, DecodeError)

		b, _ = Marshal(Described{DataCode, "not binary"}, nil)
		_, err = DefaultRegistry().DecodeSections(b)
		cv.So(err, cv.ShouldNotBeNil)
	})

	cv.Convey("a truncated payload returns the sections before the error", t, func() {
		b, _ := Marshal(Data("one"), nil)
		b2, _ := Marshal(Data("two"), nil)
		b = append(b, b2[:len(b2)-1]...)
		got, err := DefaultRegistry().DecodeSections(b)
		cv.So(err, cv.ShouldNotBeNil)
		cv.So(test.Differ([]interface{}{Data("one")}, got), cv.ShouldBeNil)
	})
}
