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
	"testing"

	"github.com/stretchr/testify/assert"
)

type stubDeferred struct{}

func (stubDeferred) Subscribe(func(any), func(error)) {}

type stubRecordStream struct{}

func (stubRecordStream) ReadRecords(int) ([]any, StreamStatus) { return nil, StreamEnded }
func (stubRecordStream) Readable() <-chan struct{}             { return nil }
func (stubRecordStream) Ended() bool                           { return true }
func (stubRecordStream) Err() error                             { return nil }

type stubByteStream struct{}

func (stubByteStream) ReadBytes(int) ([]byte, StreamStatus) { return nil, StreamEnded }
func (stubByteStream) Readable() <-chan struct{}            { return nil }
func (stubByteStream) Ended() bool                          { return true }
func (stubByteStream) Err() error                            { return nil }

func TestClassify(t *testing.T) {
	t.Parallel()

	var nilPtr *int
	n := 5

	tcs := map[string]struct {
		value any
		want  category
	}{
		"nil":             {nil, catPrimitive},
		"undefined":       {undefined, catPrimitive},
		"string":          {"hi", catPrimitive},
		"int":             {7, catPrimitive},
		"bool":            {true, catPrimitive},
		"byte slice":      {[]byte("abc"), catPrimitive},
		"nil pointer":     {nilPtr, catPrimitive},
		"pointer to int":  {&n, catPrimitive},
		"func":            {func() {}, catUndefined},
		"chan":            {make(chan int), catUndefined},
		"slice":           {[]int{1, 2}, catArray},
		"array":           {[3]int{1, 2, 3}, catArray},
		"map":             {map[string]int{"a": 1}, catObject},
		"struct":          {struct{ A int }{1}, catObject},
		"deferred":        {stubDeferred{}, catDeferred},
		"record stream":   {stubRecordStream{}, catRecordStream},
		"byte stream":     {stubByteStream{}, catByteStream},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, classify(tc.value))
		})
	}
}

func TestClassifyDereferencesPointers(t *testing.T) {
	t.Parallel()

	m := map[string]int{"a": 1}
	assert.Equal(t, catObject, classify(&m))

	s := []int{1, 2, 3}
	assert.Equal(t, catArray, classify(&s))
}
