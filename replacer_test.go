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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type keyedMarshaler struct{ suffix string }

func (k keyedMarshaler) MarshalJSONKeyed(key string) (any, error) {
	return key + k.suffix, nil
}

type failingMarshaler struct{}

func (failingMarshaler) MarshalJSONKeyed(string) (any, error) {
	return nil, errors.New("boom")
}

func TestReplacerPipelineToJSONHook(t *testing.T) {
	t.Parallel()

	p := &replacerPipeline{}
	got, err := p.apply("name", keyedMarshaler{suffix: "-x"})
	require.NoError(t, err)
	assert.Equal(t, "name-x", got)
}

func TestReplacerPipelineToJSONHookError(t *testing.T) {
	t.Parallel()

	p := &replacerPipeline{}
	_, err := p.apply("name", failingMarshaler{})
	require.Error(t, err)
}

func TestReplacerPipelineFunc(t *testing.T) {
	t.Parallel()

	p := &replacerPipeline{fn: func(key string, value any) (any, error) {
		if key == "secret" {
			return undefined, nil
		}
		return value, nil
	}}

	got, err := p.apply("secret", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, undefined, got)

	got, err = p.apply("name", "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", got)
}

func TestReplacerPipelineFuncError(t *testing.T) {
	t.Parallel()

	wantErr := errors.New("replacer exploded")
	p := &replacerPipeline{fn: func(string, any) (any, error) {
		return nil, wantErr
	}}

	_, err := p.apply("k", "v")
	require.ErrorIs(t, err, ErrReplacerFailure)
	require.ErrorIs(t, err, wantErr)
}

func TestReplacerPipelineFuncAndChanBecomeUndefined(t *testing.T) {
	t.Parallel()

	var p *replacerPipeline

	got, err := p.apply("k", func() {})
	require.NoError(t, err)
	assert.Equal(t, undefined, got)

	got, err = p.apply("k", make(chan int))
	require.NoError(t, err)
	assert.Equal(t, undefined, got)
}

func TestReplacerPipelineFilterKeys(t *testing.T) {
	t.Parallel()

	has := map[string]bool{"a": true, "b": true, "c": true}
	hasFn := func(k string) bool { return has[k] }

	tcs := map[string]struct {
		filter KeyFilter
		keys   []string
		want   []string
	}{
		"nil filter passes through": {
			filter: nil,
			keys:   []string{"a", "b", "c"},
			want:   []string{"a", "b", "c"},
		},
		"filter reorders and drops": {
			filter: KeyFilter{"c", "a", "missing"},
			keys:   []string{"a", "b", "c"},
			want:   []string{"c", "a"},
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			p := &replacerPipeline{filter: tc.filter}
			got := p.filterKeys(hasFn, tc.keys)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestDescribeKey(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "root value", describeKey(""))
	assert.Equal(t, `key "name"`, describeKey("name"))
}
