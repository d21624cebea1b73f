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

// undefinedType is the private sentinel substituted for values a replacer,
// a ToJSONer hook, or the classifier itself cannot represent (func, chan).
// It is never exposed to callers; Submit treats it specially per §4.4.
type undefinedType struct{}

// undefined is the single instance of undefinedType.
var undefined = undefinedType{}

// ToJSONer lets a value customize its own JSON representation, keyed by the
// property name it is being encoded under (the empty string at the root).
// This is the Go expression of the spec's "toJSON-style hook".
type ToJSONer interface {
	MarshalJSONKeyed(key string) (any, error)
}

// FieldOrder lets a value declare its own object key enumeration order,
// overriding the default (struct field declaration order, or map keys
// sorted for determinism). Used instead of relying on Go map iteration,
// which is randomized by the runtime and would break §8's order-preservation
// property for map-typed input.
type FieldOrder interface {
	// OrderedFields returns the keys to encode, in the order to encode
	// them, and a lookup for the value at each key.
	OrderedFields() (keys []string, get func(key string) (any, bool))
}

// ReplacerFunc transforms a (key, value) pair before classification. An
// error return aborts encoding with ErrReplacerFailure.
type ReplacerFunc func(key string, value any) (any, error)

// KeyFilter is an ordered allow-list of object keys. When set, only the
// listed keys are encoded from OBJECT values, in list order — the only
// ordering a map[string]any input can support deterministically, since Go
// map iteration order is randomized (see DESIGN.md "Open-question
// decisions").
type KeyFilter []string

// replacerPipeline bundles the two replacer shapes §4.3 recognizes. At most
// one of fn or filter is meaningful at a time; WithKeyFilter/WithReplacer
// each clear the other, "last write wins" per SPEC_FULL.md §6.
type replacerPipeline struct {
	fn     ReplacerFunc
	filter KeyFilter
}

// apply runs the ToJSONer hook (if value implements it) followed by the
// configured ReplacerFunc (if any), returning the substituted value.
func (p *replacerPipeline) apply(key string, value any) (any, error) {
	if tj, ok := value.(ToJSONer); ok {
		v, err := tj.MarshalJSONKeyed(key)
		if err != nil {
			return nil, newError("toJSON hook for "+describeKey(key), value, &wrappedReplacerErr{err})
		}
		value = v
	}

	if p != nil && p.fn != nil {
		v, err := p.fn(key, value)
		if err != nil {
			return nil, newError("replacer for "+describeKey(key), value, &wrappedReplacerErr{err})
		}
		value = v
	}

	if isFuncOrChan(value) {
		return undefined, nil
	}

	return value, nil
}

// filterKeys narrows keys down to the configured KeyFilter, in filter
// order, dropping any name the object does not actually have.
func (p *replacerPipeline) filterKeys(has func(key string) bool, keys []string) []string {
	if p == nil || len(p.filter) == 0 {
		return keys
	}
	out := make([]string, 0, len(p.filter))
	for _, k := range p.filter {
		if has(k) {
			out = append(out, k)
		}
	}
	return out
}

func describeKey(key string) string {
	if key == "" {
		return "root value"
	}
	return "key \"" + key + "\""
}

// wrappedReplacerErr tags a user replacer's returned error with
// ErrReplacerFailure for errors.Is, while preserving the original via
// Unwrap.
type wrappedReplacerErr struct{ err error }

func (w *wrappedReplacerErr) Error() string { return ErrReplacerFailure.Error() + ": " + w.err.Error() }
func (w *wrappedReplacerErr) Unwrap() []error {
	return []error{ErrReplacerFailure, w.err}
}
