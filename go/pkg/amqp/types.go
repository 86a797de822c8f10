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
	"fmt"
)

// Type codes for the AMQP primitive encodings understood by Decode and Marshal.
type Code byte

const (
	codeDescribed  Code = 0x00
	codeNull       Code = 0x40
	codeTrue       Code = 0x41
	codeFalse      Code = 0x42
	codeUint0      Code = 0x43
	codeUlong0     Code = 0x44
	codeList0      Code = 0x45
	codeUbyte      Code = 0x50
	codeSmallUint  Code = 0x52
	codeSmallUlong Code = 0x53
	codeSmallInt   Code = 0x54
	codeSmallLong  Code = 0x55
	codeBool       Code = 0x56
	codeUint       Code = 0x70
	codeInt        Code = 0x71
	codeUlong      Code = 0x80
	codeLong       Code = 0x81
	codeVbin8      Code = 0xa0
	codeStr8       Code = 0xa1
	codeSym8       Code = 0xa3
	codeVbin32     Code = 0xb0
	codeStr32      Code = 0xb1
	codeSym32      Code = 0xb3
	codeList8      Code = 0xc0
	codeMap8       Code = 0xc1
	codeList32     Code = 0xd0
	codeMap32      Code = 0xd1
)

func (c Code) String() string {
	switch c {
	case codeDescribed:
		return "described"
	case codeNull:
		return "null"
	case codeTrue, codeFalse, codeBool:
		return "bool"
	case codeUbyte:
		return "ubyte"
	case codeUint0, codeSmallUint, codeUint:
		return "uint"
	case codeSmallInt, codeInt:
		return "int"
	case codeUlong0, codeSmallUlong, codeUlong:
		return "ulong"
	case codeSmallLong, codeLong:
		return "long"
	case codeVbin8, codeVbin32:
		return "binary"
	case codeStr8, codeStr32:
		return "string"
	case codeSym8, codeSym32:
		return "symbol"
	case codeList0, codeList8, codeList32:
		return "list"
	case codeMap8, codeMap32:
		return "map"
	default:
		return fmt.Sprintf("<bad-type %#x>", byte(c))
	}
}

// The AMQP map type. A generic map that can have mixed-type keys and values.
type Map map[interface{}]interface{}

// The AMQP list type. A generic list that can hold mixed-type values.
type List []interface{}

// Symbol is a string that is encoded as an AMQP symbol
type Symbol string

func (s Symbol) String() string   { return string(s) }
func (s Symbol) GoString() string { return fmt.Sprintf("s\"%s\"", s) }

// Binary is a string that is encoded as an AMQP binary.
// It is a string rather than a byte[] because byte[] is not hashable and can't be used as
// a map key, AMQP frequently uses binary types as map keys. It can convert to and from []byte
type Binary string

func (b Binary) String() string   { return string(b) }
func (b Binary) GoString() string { return fmt.Sprintf("b\"%s\"", b) }

// GoString for Map prints values with their types, useful for debugging.
func (m Map) GoString() string {
	out := &bytes.Buffer{}
	fmt.Fprintf(out, "%T{", m)
	i := len(m)
	for k, v := range m {
		fmt.Fprintf(out, "%T(%#v): %T(%#v)", k, k, v, v)
		i--
		if i > 0 {
			fmt.Fprint(out, ", ")
		}
	}
	fmt.Fprint(out, "}")
	return out.String()
}

// GoString for List prints values with their types, useful for debugging.
func (l List) GoString() string {
	out := &bytes.Buffer{}
	fmt.Fprintf(out, "%T{", l)
	for i := 0; i < len(l); i++ {
		fmt.Fprintf(out, "%T(%#v)", l[i], l[i])
		if i < len(l)-1 {
			fmt.Fprint(out, ", ")
		}
	}
	fmt.Fprint(out, "}")
	return out.String()
}

// Described represents an AMQP described type, which is really
// just a pair of AMQP values - the first is treated as a "descriptor",
// and is normally a string or ulong providing information about the type.
// The second is the "value" and can be any AMQP value.
type Described struct {
	Descriptor interface{}
	Value      interface{}
}

// Char is an AMQP unicode character, equivalent to a Go rune.
// It is defined as a distinct type so it can be distinguished from an AMQP int
type Char rune
