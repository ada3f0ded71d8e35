/*
 * MIT License
 *
 * Copyright (c) 2022-2025 Arsene Tochemey Gandote
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

package publisher

import (
	jsoniter "github.com/json-iterator/go"
	"google.golang.org/protobuf/proto"
)

// Codec encodes events into the payloads a relay publishes to its broker.
type Codec[E any] interface {
	// Marshal encodes the given event into its wire payload
	Marshal(event E) ([]byte, error)
}

// JSONCodec encodes events as JSON.
type JSONCodec[E any] struct{}

// enforce the complete implementation of the Codec interface
var _ Codec[any] = JSONCodec[any]{}

// NewJSONCodec creates an instance of JSONCodec
func NewJSONCodec[E any]() JSONCodec[E] {
	return JSONCodec[E]{}
}

// Marshal encodes the given event into its JSON representation
func (JSONCodec[E]) Marshal(event E) ([]byte, error) {
	return jsoniter.ConfigFastest.Marshal(event)
}

// ProtoCodec encodes protobuf events into their binary wire format.
type ProtoCodec[E proto.Message] struct{}

// enforce the complete implementation of the Codec interface
var _ Codec[proto.Message] = ProtoCodec[proto.Message]{}

// NewProtoCodec creates an instance of ProtoCodec
func NewProtoCodec[E proto.Message]() ProtoCodec[E] {
	return ProtoCodec[E]{}
}

// Marshal encodes the given event into the protobuf wire format
func (ProtoCodec[E]) Marshal(event E) ([]byte, error) {
	return proto.Marshal(event)
}
