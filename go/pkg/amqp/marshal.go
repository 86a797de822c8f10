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
	"math"
	"reflect"
	"sort"
)

/*
Marshal encodes a Go value as AMQP data appended to buffer, which may be nil.
Returns the extended buffer.

Go types are encoded as follows

 +-------------------------------------+--------------------------------------------+
 |Go type                              |AMQP type                                   |
 +-------------------------------------+--------------------------------------------+
 |bool                                 |bool                                        |
 +-------------------------------------+--------------------------------------------+
 |int32, int64 (int)                   |int, long                                   |
 +-------------------------------------+--------------------------------------------+
 |uint8, uint32, uint64 (uint)         |ubyte, uint, ulong                          |
 +-------------------------------------+--------------------------------------------+
 |string                               |string                                      |
 +-------------------------------------+--------------------------------------------+
 |[]byte, Binary                       |binary                                      |
 +-------------------------------------+--------------------------------------------+
 |Symbol                               |symbol                                      |
 +-------------------------------------+--------------------------------------------+
 |nil                                  |null                                        |
 +-------------------------------------+--------------------------------------------+
 |Described, DescribedType             |described type                              |
 +-------------------------------------+--------------------------------------------+
 |map[K]T, Map                         |map, keys written in a stable order         |
 +-------------------------------------+--------------------------------------------+
 |[]T, List                            |list                                        |
 +-------------------------------------+--------------------------------------------+

Only the compact encodings are produced: values use the smallest width that
holds them. Floating point, decimal, timestamp, uuid and array types are not
supported.
*/
func Marshal(v interface{}, buffer []byte) (outbuf []byte, err error) {
	defer doRecover(&err)
	return marshal(v, buffer), nil
}

func marshal(v interface{}, b []byte) []byte {
	switch v := v.(type) {
	case nil:
		return append(b, byte(codeNull))
	case Described:
		b = append(b, byte(codeDescribed))
		b = marshal(v.Descriptor, b)
		return marshal(v.Value, b)
	case DescribedType:
		b = append(b, byte(codeDescribed))
		b = marshal(v.Descriptor(), b)
		return marshal(v.Described(), b)
	case bool:
		if v {
			return append(b, byte(codeTrue))
		}
		return append(b, byte(codeFalse))
	case uint8:
		return append(b, byte(codeUbyte), v)
	case uint32:
		switch {
		case v == 0:
			return append(b, byte(codeUint0))
		case v <= math.MaxUint8:
			return append(b, byte(codeSmallUint), byte(v))
		}
		return binary.BigEndian.AppendUint32(append(b, byte(codeUint)), v)
	case uint64:
		switch {
		case v == 0:
			return append(b, byte(codeUlong0))
		case v <= math.MaxUint8:
			return append(b, byte(codeSmallUlong), byte(v))
		}
		return binary.BigEndian.AppendUint64(append(b, byte(codeUlong)), v)
	case uint:
		return marshal(uint64(v), b)
	case int32:
		if v >= math.MinInt8 && v <= math.MaxInt8 {
			return append(b, byte(codeSmallInt), byte(int8(v)))
		}
		return binary.BigEndian.AppendUint32(append(b, byte(codeInt)), uint32(v))
	case int64:
		if v >= math.MinInt8 && v <= math.MaxInt8 {
			return append(b, byte(codeSmallLong), byte(int8(v)))
		}
		return binary.BigEndian.AppendUint64(append(b, byte(codeLong)), uint64(v))
	case int:
		return marshal(int64(v), b)
	case string:
		return putVariable(b, codeStr8, codeStr32, []byte(v))
	case Symbol:
		return putVariable(b, codeSym8, codeSym32, []byte(v))
	case Binary:
		return putVariable(b, codeVbin8, codeVbin32, []byte(v))
	case []byte:
		return putVariable(b, codeVbin8, codeVbin32, v)
	case List:
		return putList(b, len(v), func(i int) interface{} { return v[i] })
	case Map:
		return putMap(b, v)
	default:
		rv := reflect.ValueOf(v)
		switch rv.Kind() {
		case reflect.Map:
			m := make(Map, rv.Len())
			for _, k := range rv.MapKeys() {
				m[k.Interface()] = rv.MapIndex(k).Interface()
			}
			return putMap(b, m)
		case reflect.Slice:
			return putList(b, rv.Len(), func(i int) interface{} { return rv.Index(i).Interface() })
		}
		panic(&MarshalError{reflect.TypeOf(v)})
	}
}

func putVariable(b []byte, small, large Code, v []byte) []byte {
	if len(v) <= math.MaxUint8 {
		b = append(b, byte(small), byte(len(v)))
	} else {
		b = binary.BigEndian.AppendUint32(append(b, byte(large)), uint32(len(v)))
	}
	return append(b, v...)
}

func putCompound(b []byte, small, large Code, count int, body []byte) []byte {
	if count <= math.MaxUint8 && len(body)+1 <= math.MaxUint8 {
		b = append(b, byte(small), byte(len(body)+1), byte(count))
	} else {
		b = append(b, byte(large))
		b = binary.BigEndian.AppendUint32(b, uint32(len(body)+4))
		b = binary.BigEndian.AppendUint32(b, uint32(count))
	}
	return append(b, body...)
}

func putList(b []byte, n int, at func(int) interface{}) []byte {
	if n == 0 {
		return append(b, byte(codeList0))
	}
	var body []byte
	for i := 0; i < n; i++ {
		body = marshal(at(i), body)
	}
	return putCompound(b, codeList8, codeList32, n, body)
}

// putMap writes keys sorted by their printed form so equal maps encode equally.
func putMap(b []byte, m Map) []byte {
	keys := make([]interface{}, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return fmt.Sprintf("%#v", keys[i]) < fmt.Sprintf("%#v", keys[j])
	})
	var body []byte
	for _, k := range keys {
		body = marshal(k, body)
		body = marshal(m[k], body)
	}
	return putCompound(b, codeMap8, codeMap32, 2*len(m), body)
}

// MarshalError is returned if a Go value cannot be marshaled as AMQP.
type MarshalError struct {
	GoType reflect.Type
}

func (e MarshalError) Error() string {
	return fmt.Sprintf("cannot marshal %s to AMQP", e.GoType)
}
