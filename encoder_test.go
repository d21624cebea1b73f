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

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodeAll(t *testing.T, value any, opts ...Option) string {
	t.Helper()
	e := New(value, opts...)
	out, err := io.ReadAll(e)
	require.NoError(t, err)
	return string(out)
}

func TestEncodePrimitives(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		value any
		want  string
	}{
		"nil root":    {nil, "null"},
		"string root": {"hi", `"hi"`},
		"int root":    {5, "5"},
		"bool root":   {false, "false"},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, encodeAll(t, tc.value))
		})
	}
}

func TestEncodeStruct(t *testing.T) {
	t.Parallel()

	type person struct {
		Name string
		Age  int
		Tag  string `json:"-"`
	}

	got := encodeAll(t, person{Name: "Ada", Age: 30, Tag: "hidden"})
	assert.Equal(t, `{"Name":"Ada","Age":30}`, got)
}

func TestEncodeStructFieldWithNamedPrimitiveType(t *testing.T) {
	t.Parallel()

	type status string

	type job struct {
		Status status
	}

	got := encodeAll(t, job{Status: "running"})
	assert.Equal(t, `{"Status":"running"}`, got)
}

func TestEncodeStructJSONTagRename(t *testing.T) {
	t.Parallel()

	type person struct {
		FullName string `json:"name,omitempty"`
	}

	got := encodeAll(t, person{FullName: "Grace"})
	assert.Equal(t, `{"name":"Grace"}`, got)
}

func TestEncodeMapSortsKeys(t *testing.T) {
	t.Parallel()

	got := encodeAll(t, map[string]int{"z": 1, "a": 2, "m": 3})
	assert.Equal(t, `{"a":2,"m":3,"z":1}`, got)
}

func TestEncodeArray(t *testing.T) {
	t.Parallel()

	got := encodeAll(t, []int{1, 2, 3})
	assert.Equal(t, `[1,2,3]`, got)
}

func TestEncodeEmptyArrayAndObject(t *testing.T) {
	t.Parallel()

	assert.Equal(t, `[]`, encodeAll(t, []int{}))
	assert.Equal(t, `{}`, encodeAll(t, map[string]int{}))
}

func TestEncodeNestedStructures(t *testing.T) {
	t.Parallel()

	value := map[string]any{
		"list": []any{1, "two", map[string]any{"nested": true}},
	}
	assert.Equal(t, `{"list":[1,"two",{"nested":true}]}`, encodeAll(t, value))
}

func TestEncodeIndent(t *testing.T) {
	t.Parallel()

	got := encodeAll(t, map[string]int{"a": 1}, WithIndent(2))
	assert.Equal(t, "{\n  \"a\": 1\n}", got)
}

func TestEncodeCircularStructureFails(t *testing.T) {
	t.Parallel()

	m := map[string]any{}
	m["self"] = m

	e := New(m)
	_, err := io.ReadAll(e)
	require.ErrorIs(t, err, ErrCircularStructure)
}

func TestEncodeCircularSlicePointerFails(t *testing.T) {
	t.Parallel()

	type node struct {
		Next []any
	}
	n := &node{}
	n.Next = []any{n}

	e := New(n)
	_, err := io.ReadAll(e)
	require.ErrorIs(t, err, ErrCircularStructure)
}

func TestEncodeFuncAndChanBecomeUndefined(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "null", encodeAll(t, func() {}))

	got := encodeAll(t, map[string]any{"fn": func() {}, "kept": 1})
	assert.Equal(t, `{"kept":1}`, got)

	got = encodeAll(t, []any{func() {}, 1})
	assert.Equal(t, `[null,1]`, got)
}

func TestEncodeNonFiniteFloatsBecomeNull(t *testing.T) {
	t.Parallel()

	got := encodeAll(t, []any{1.5, nanValue(), infValue()})
	assert.Equal(t, `[1.5,null,null]`, got)
}

func TestEncodeWithKeyFilter(t *testing.T) {
	t.Parallel()

	got := encodeAll(t, map[string]any{"a": 1, "b": 2, "c": 3}, WithKeyFilter([]string{"c", "a"}))
	assert.Equal(t, `{"c":3,"a":1}`, got)
}

func TestEncodeWithReplacer(t *testing.T) {
	t.Parallel()

	got := encodeAll(t, map[string]any{"password": "secret", "name": "bob"},
		WithReplacer(func(key string, value any) (any, error) {
			if key == "password" {
				return undefined, nil
			}
			return value, nil
		}))
	assert.Equal(t, `{"name":"bob"}`, got)
}

func TestEncodeToJSONerHook(t *testing.T) {
	t.Parallel()

	got := encodeAll(t, keyedMarshaler{suffix: "!"})
	assert.Equal(t, `"!"`, got)
}

func nanValue() float64 { var z float64; return z / z }
func infValue() float64 { return 1 / zeroFloat() }
func zeroFloat() float64 { var z float64; return z }
