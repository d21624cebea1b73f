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

package source

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeferredResolveDeliversValue(t *testing.T) {
	t.Parallel()

	d := NewDeferred()
	go d.Resolve(42)

	resolved := make(chan any, 1)
	d.Subscribe(func(v any) { resolved <- v }, func(error) { t.Fatal("unexpected reject") })

	select {
	case v := <-resolved:
		assert.Equal(t, 42, v)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for resolution")
	}
}

func TestDeferredRejectDeliversError(t *testing.T) {
	t.Parallel()

	wantErr := errors.New("boom")
	d := NewDeferred()
	go d.Reject(wantErr)

	rejected := make(chan error, 1)
	d.Subscribe(func(any) { t.Fatal("unexpected resolve") }, func(err error) { rejected <- err })

	select {
	case err := <-rejected:
		require.ErrorIs(t, err, wantErr)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for rejection")
	}
}

func TestDeferredOnlyFirstCallWins(t *testing.T) {
	t.Parallel()

	d := NewDeferred()
	d.Resolve("first")
	d.Resolve("second")
	d.Reject(errors.New("third"))

	resolved := make(chan any, 1)
	d.Subscribe(func(v any) { resolved <- v }, func(error) { t.Fatal("unexpected reject") })

	select {
	case v := <-resolved:
		assert.Equal(t, "first", v)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for resolution")
	}
}
