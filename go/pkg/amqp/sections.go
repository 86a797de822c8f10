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

// Message section descriptors, numeric and symbolic.
const (
	ApplicationPropertiesCode = uint64(0x0000000000000074)
	MessageAnnotationsCode    = uint64(0x0000000000000072)
	DataCode                  = uint64(0x0000000000000075)

	ApplicationPropertiesSymbol = Symbol("amqp:application-properties:map")
	MessageAnnotationsSymbol    = Symbol("amqp:message-annotations:map")
	DataSymbol                  = Symbol("amqp:data:binary")
)

// Data is a message body section containing opaque binary data.
type Data []byte

func (d Data) Descriptor() interface{} { return DataCode }
func (d Data) Described() interface{}  { return Binary(d) }
func (d Data) String() string          { return describedString(d) }

func newData(v interface{}) (DescribedType, error) {
	switch v := v.(type) {
	case Binary:
		return Data(v), nil
	case []byte:
		return Data(v), nil
	case nil:
		return Data(nil), nil
	}
	return nil, Errorf(DecodeError, "data section: want binary, got %T", v)
}

// ApplicationProperties is a message section of application defined
// properties, keyed by string.
type ApplicationProperties map[string]interface{}

func (a ApplicationProperties) Descriptor() interface{} { return ApplicationPropertiesCode }
func (a ApplicationProperties) Described() interface{}  { return map[string]interface{}(a) }

func newApplicationProperties(v interface{}) (DescribedType, error) {
	switch v := v.(type) {
	case nil:
		return ApplicationProperties{}, nil
	case Map:
		a := make(ApplicationProperties, len(v))
		for k, x := range v {
			s, ok := k.(string)
			if !ok {
				return nil, Errorf(DecodeError, "application-properties: key %T(%#v) is not a string", k, k)
			}
			a[s] = x
		}
		return a, nil
	}
	return nil, Errorf(DecodeError, "application-properties: want map, got %T", v)
}

// MessageAnnotations is a message section of annotations for the
// infrastructure. Keys are Symbol or uint64.
type MessageAnnotations Map

func (m MessageAnnotations) Descriptor() interface{} { return MessageAnnotationsCode }
func (m MessageAnnotations) Described() interface{}  { return Map(m) }

func newMessageAnnotations(v interface{}) (DescribedType, error) {
	switch v := v.(type) {
	case nil:
		return MessageAnnotations{}, nil
	case Map:
		for k := range v {
			switch k.(type) {
			case Symbol, uint64:
			default:
				return nil, Errorf(DecodeError, "message-annotations: key %T(%#v) is not a symbol or ulong", k, k)
			}
		}
		return MessageAnnotations(v), nil
	}
	return nil, Errorf(DecodeError, "message-annotations: want map, got %T", v)
}

// RegisterSections registers the message section types with r.
func RegisterSections(r *Registry) {
	r.Register(newData, DataCode, DataSymbol)
	r.Register(newApplicationProperties, ApplicationPropertiesCode, ApplicationPropertiesSymbol)
	r.Register(newMessageAnnotations, MessageAnnotationsCode, MessageAnnotationsSymbol)
}
