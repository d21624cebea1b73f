// Copyright 2025 easymvp
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package fluxjson

import "reflect"

// category is the Type Classifier's output (§4.1).
type category int

const (
	// catPrimitive covers strings, numbers, bools, nil, and anything else
	// the classifier cannot place elsewhere.
	catPrimitive category = iota
	// catUndefined covers func and chan values, which have no JSON
	// representation: elided in object context, null in array context.
	catUndefined
	catObject
	catArray
	catDeferred
	catByteStream
	catRecordStream
)

// classify implements §4.1's ordered rule list. It is called on a value
// that has already passed through the replacer pipeline.
func classify(value any) category {
	if value == nil || value == undefined {
		return catPrimitive
	}

	if isFuncOrChan(value) {
		return catUndefined
	}

	if _, ok := value.(Deferred); ok {
		return catDeferred
	}
	if _, ok := value.(RecordStream); ok {
		return catRecordStream
	}
	if _, ok := value.(ByteStream); ok {
		return catByteStream
	}

	rv := reflect.ValueOf(value)
	if _, ok := value.(FieldOrder); ok && !(rv.Kind() == reflect.Ptr && rv.IsNil()) {
		return catObject
	}
	switch rv.Kind() {
	case reflect.Slice:
		// []byte is treated as a primitive string-like value, matching the
		// conventional Go JSON treatment of byte slices, rather than as an
		// ARRAY of small integers.
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return catPrimitive
		}
		return catArray
	case reflect.Array:
		return catArray
	case reflect.Map, reflect.Struct:
		return catObject
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return catPrimitive
		}
		return classify(rv.Elem().Interface())
	default:
		return catPrimitive
	}
}

// isFuncOrChan reports whether value's underlying kind is Func or Chan —
// Go's closest equivalents to "function or symbol" in the source spec.
func isFuncOrChan(value any) bool {
	if value == nil {
		return false
	}
	switch k := reflect.ValueOf(value).Kind(); k {
	case reflect.Func, reflect.Chan:
		return true
	default:
		return false
	}
}
