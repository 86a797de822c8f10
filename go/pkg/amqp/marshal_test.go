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
	"bytes"
	"testing"

	"github.com/apache/qpid-proton-engine/go/internal/test"
	cv "github.com/glycerine/goconvey/convey"
)

func TestMarshalCompact(t *testing.T) {
	cv.Convey("values use the smallest encoding that holds them", t, func() {
		for _, x := range []struct {
			v    interface{}
			want []byte
		}{
			{nil, []byte{0x40}},
			{true, []byte{0x41}},
			{uint32(0), []byte{0x43}},
			{uint32(7), []byte{0x52, 7}},
			{uint32(256), []byte{0x70, 0, 0, 1, 0}},
			{uint64(0x75), []byte{0x53, 0x75}},
			{int32(-2), []byte{0x54, 0xfe}},
			{-200, []byte{0x81, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x38}},
			{"hi", []byte{0xa1, 2, 'h', 'i'}},
			{Symbol("s"), []byte{0xa3, 1, 's'}},
			{[]byte{1}, []byte{0xa0, 1, 1}},
			{List{}, []byte{0x45}},
			{List{true}, []byte{0xc0, 2, 1, 0x41}},
			{Data("d"), []byte{0x00, 0x53, 0x75, 0xa0, 1, 'd'}},
		} {
			got, err := Marshal(x.v, nil)
			cv.So(err, cv.ShouldBeNil)
			cv.So(bytes.Equal(got, x.want), cv.ShouldBeTrue)
		}
	})

	cv.Convey("long values switch to 32 bit sizes", t, func() {
		long := string(bytes.Repeat([]byte("x"), 300))
		b, err := Marshal(long, nil)
		cv.So(err, cv.ShouldBeNil)
		cv.So(Code(b[0]), cv.ShouldEqual, codeStr32)
		v, n, err := Decode(b)
		cv.So(err, cv.ShouldBeNil)
		cv.So(n, cv.ShouldEqual, len(b))
		cv.So(v, cv.ShouldEqual, long)
	})

	cv.Convey("equal maps encode equally", t, func() {
		m := Map{Symbol("b"): 1, Symbol("a"): 2, uint64(3): "c"}
		b1, err := Marshal(m, nil)
		cv.So(err, cv.ShouldBeNil)
		for i := 0; i < 5; i++ {
			b2, _ := Marshal(Map{uint64(3): "c", Symbol("a"): 2, Symbol("b"): 1}, nil)
			cv.So(bytes.Equal(b1, b2), cv.ShouldBeTrue)
		}
		v, _, err := Decode(b1)
		cv.So(err, cv.ShouldBeNil)
		cv.So(test.Differ(Map{Symbol("b"): int64(1), Symbol("a"): int64(2), uint64(3): "c"}, v), cv.ShouldBeNil)
	})

	cv.Convey("unsupported Go types are marshal errors", t, func() {
		_, err := Marshal(1.5, nil)
		cv.So(err, cv.ShouldNotBeNil)
		_, ok := err.(MarshalError)
		cv.So(ok, cv.ShouldBeTrue)
	})
}

func TestDecodeErrors(t *testing.T) {
	cv.Convey("malformed input reports the offset of the failure", t, func() {
		for _, x := range []struct {
			b      []byte
			offset int
		}{
			{nil, 0},
			{[]byte{0xa1, 5, 'a'}, 2},
			{[]byte{0x99}, 0},
			{[]byte{0x00, 0x41, 0x40}, 2},
			{[]byte{0xc1, 3, 1, 0x40, 0x40}, 3},
			{[]byte{0xc1, 3, 2, 0x45, 0x40}, 3},
			{[]byte{0xc0, 3, 1, 0x40, 0x40}, 4},
		} {
			_, _, err := Decode(x.b)
			cv.So(err, cv.ShouldNotBeNil)
			ue, ok := err.(UnmarshalError)
			cv.So(ok, cv.ShouldBeTrue)
			cv.So(ue.Offset, cv.ShouldEqual, x.offset)
			cv.So(ue.AMQP().Name, cv.ShouldEqual, DecodeError)
		}
	})

	cv.Convey("element counts larger than the body are refused before allocating", t, func() {
		for _, x := range []struct {
			b      []byte
			offset int
		}{
			{[]byte{0xd0, 0, 0, 0, 4, 0x7f, 0xff, 0xff, 0xff}, 9},
			{[]byte{0xd1, 0, 0, 0, 4, 0x7f, 0xff, 0xff, 0xfe}, 9},
			{[]byte{0xd0, 0, 0, 0, 5, 0, 0, 0, 2, 0x40}, 9},
			{[]byte{0xc0, 2, 5, 0x40}, 3},
		} {
			_, _, err := Decode(x.b)
			cv.So(err, cv.ShouldNotBeNil)
			ue, ok := err.(UnmarshalError)
			cv.So(ok, cv.ShouldBeTrue)
			cv.So(ue.Offset, cv.ShouldEqual, x.offset)
		}
	})

	cv.Convey("described map keys holding a list or map are decode errors", t, func() {
		for _, b := range [][]byte{
			{0xc1, 6, 2, 0x00, 0x53, 0x01, 0x45, 0x40},
			{0xc1, 8, 2, 0x00, 0x53, 0x01, 0xc1, 1, 0, 0x40},
			{0xc1, 9, 2, 0x00, 0x53, 0x01, 0x00, 0x53, 0x02, 0x45, 0x40},
		} {
			_, _, err := Decode(b)
			cv.So(err, cv.ShouldNotBeNil)
			ue, ok := err.(UnmarshalError)
			cv.So(ok, cv.ShouldBeTrue)
			cv.So(ue.Offset, cv.ShouldEqual, 3)
		}
	})

	cv.Convey("described map keys with scalar values decode", t, func() {
		v, _, err := Decode([]byte{0xc1, 6, 2, 0x00, 0x53, 0x01, 0x41, 0x40})
		cv.So(err, cv.ShouldBeNil)
		m := v.(Map)
		cv.So(m[Described{Descriptor: uint64(1), Value: true}], cv.ShouldBeNil)
		cv.So(len(m), cv.ShouldEqual, 1)
	})

	cv.Convey("Decode consumes one value and reports its length", t, func() {
		v, n, err := Decode([]byte{0x52, 9, 0x40})
		cv.So(err, cv.ShouldBeNil)
		cv.So(v, cv.ShouldEqual, uint32(9))
		cv.So(n, cv.ShouldEqual, 2)
	})
}

func TestTypesPrint(t *testing.T) {
	cv.Convey("types print readably", t, func() {
		cv.So(Symbol("s").GoString(), cv.ShouldEqual, `s"s"`)
		cv.So(Binary("b").GoString(), cv.ShouldEqual, `b"b"`)
		cv.So(List{int32(1)}.GoString(), cv.ShouldEqual, `amqp.List{int32(1)}`)
		cv.So(codeSym32.String(), cv.ShouldEqual, "symbol")
		cv.So(Code(0xff).String(), cv.ShouldEqual, "<bad-type 0xff>")
		cv.So(UUID{0: 1}.String(), cv.ShouldEqual, "UUID(01000000-0000-0000-0000-000000000000)")
		cv.So(Data("x").String(), cv.ShouldEqual, "amqp.Data(0x75)")
	})
}

func TestUUID4(t *testing.T) {
	cv.Convey("random UUIDs are version 4 and distinct", t, func() {
		u, v := UUID4(), UUID4()
		cv.So(u != v, cv.ShouldBeTrue)
		cv.So(u[6]>>4, cv.ShouldEqual, byte(4))
		cv.So(u[8]>>6, cv.ShouldEqual, byte(2))
		cv.So(len(u.Canonical()), cv.ShouldEqual, 36)
	})
}
