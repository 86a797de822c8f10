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
	"encoding/binary"
	"fmt"
)

// UnmarshalError is returned if bytes cannot be decoded as an AMQP value.
type UnmarshalError struct {
	// Offset of the failure in the input.
	Offset int
	Reason string
}

func (e UnmarshalError) Error() string {
	return fmt.Sprintf("cannot unmarshal AMQP at offset %d: %s", e.Offset, e.Reason)
}

// AMQP converts the error to an amqp.Error with the decode-error condition,
// suitable for closing the endpoint that sent the data.
func (e UnmarshalError) AMQP() Error { return Error{DecodeError, e.Reason} }

func doRecover(err *error) {
	r := recover()
	switch r := r.(type) {
	case nil:
	case *UnmarshalError:
		*err = *r
	case *MarshalError:
		*err = *r
	default:
		panic(r)
	}
}

//
// NOTE: we use panic() to signal a decoding error, simplifies decoding logic.
// We recover() at the highest possible level - i.e. in the exported Decode.
//

// Decode one AMQP value from the front of b, returns the value and the number
// of bytes consumed.
//
// AMQP types decode to Go types as follows: null to nil, bool to bool, ubyte
// to uint8, uint to uint32, ulong to uint64, int to int32, long to int64,
// binary to Binary, string to string, symbol to Symbol, list to List, map to
// Map and described types to Described. Use Registry.Decode to construct
// registered described types.
func Decode(b []byte) (v interface{}, n int, err error) {
	defer doRecover(&err)
	d := decoder{b: b}
	v = d.value()
	return v, d.pos, nil
}

type decoder struct {
	b   []byte
	pos int
}

func (d *decoder) fail(format string, args ...interface{}) {
	panic(&UnmarshalError{d.pos, fmt.Sprintf(format, args...)})
}

func (d *decoder) next(n int) []byte {
	if n < 0 || d.pos+n > len(d.b) {
		d.fail("need %d bytes, have %d", n, len(d.b)-d.pos)
	}
	s := d.b[d.pos : d.pos+n]
	d.pos += n
	return s
}

func (d *decoder) u8() byte    { return d.next(1)[0] }
func (d *decoder) u32() uint32 { return binary.BigEndian.Uint32(d.next(4)) }
func (d *decoder) u64() uint64 { return binary.BigEndian.Uint64(d.next(8)) }

func (d *decoder) value() interface{} {
	code := Code(d.u8())
	switch code {
	case codeDescribed:
		descriptor := d.value()
		switch descriptor.(type) {
		case uint64, Symbol:
		default:
			d.fail("bad descriptor type %T", descriptor)
		}
		return Described{Descriptor: descriptor, Value: d.value()}
	case codeNull:
		return nil
	case codeTrue:
		return true
	case codeFalse:
		return false
	case codeBool:
		return d.u8() != 0
	case codeUbyte:
		return d.u8()
	case codeUint0:
		return uint32(0)
	case codeSmallUint:
		return uint32(d.u8())
	case codeUint:
		return d.u32()
	case codeUlong0:
		return uint64(0)
	case codeSmallUlong:
		return uint64(d.u8())
	case codeUlong:
		return d.u64()
	case codeSmallInt:
		return int32(int8(d.u8()))
	case codeInt:
		return int32(d.u32())
	case codeSmallLong:
		return int64(int8(d.u8()))
	case codeLong:
		return int64(d.u64())
	case codeVbin8:
		return Binary(d.next(int(d.u8())))
	case codeVbin32:
		return Binary(d.next(int(d.u32())))
	case codeStr8:
		return string(d.next(int(d.u8())))
	case codeStr32:
		return string(d.next(int(d.u32())))
	case codeSym8:
		return Symbol(d.next(int(d.u8())))
	case codeSym32:
		return Symbol(d.next(int(d.u32())))
	case codeList0:
		return List{}
	case codeList8:
		size, count := int(d.u8()), int(d.u8())
		return d.list(size-1, count)
	case codeList32:
		size, count := int(d.u32()), int(d.u32())
		return d.list(size-4, count)
	case codeMap8:
		size, count := int(d.u8()), int(d.u8())
		return d.amap(size-1, count)
	case codeMap32:
		size, count := int(d.u32()), int(d.u32())
		return d.amap(size-4, count)
	}
	d.pos--
	d.fail("unsupported type code %#x", byte(code))
	return nil
}

// sub returns a decoder limited to the next size bytes.
func (d *decoder) sub(size int) *decoder {
	start := d.pos
	body := d.next(size)
	return &decoder{b: d.b[:start+len(body)], pos: start}
}

// checkCount fails if count elements cannot fit in the rest of d, each
// element takes at least one byte.
func (d *decoder) checkCount(count int) {
	if count < 0 || count > len(d.b)-d.pos {
		d.fail("element count %d exceeds %d bytes", count, len(d.b)-d.pos)
	}
}

// hashable is false for values that cannot be map keys.
func hashable(v interface{}) bool {
	switch v := v.(type) {
	case List, Map:
		return false
	case Described:
		return hashable(v.Descriptor) && hashable(v.Value)
	}
	return true
}

func (d *decoder) list(size, count int) List {
	s := d.sub(size)
	s.checkCount(count)
	l := make(List, 0, count)
	for i := 0; i < count; i++ {
		l = append(l, s.value())
	}
	if s.pos != len(s.b) {
		s.fail("list has %d trailing bytes", len(s.b)-s.pos)
	}
	return l
}

func (d *decoder) amap(size, count int) Map {
	if count%2 != 0 {
		d.fail("map has odd element count %d", count)
	}
	s := d.sub(size)
	s.checkCount(count)
	m := make(Map, count/2)
	for i := 0; i < count; i += 2 {
		at := s.pos
		k := s.value()
		if !hashable(k) {
			s.pos = at
			s.fail("map key of type %T", k)
		}
		m[k] = s.value()
	}
	if s.pos != len(s.b) {
		s.fail("map has %d trailing bytes", len(s.b)-s.pos)
	}
	return m
}
