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

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fluxjson/fluxjson"
)

func TestRecordStreamReadsBeforeAndAfterPush(t *testing.T) {
	t.Parallel()

	s := NewRecordStream()

	items, status := s.ReadRecords(10)
	assert.Nil(t, items)
	assert.Equal(t, fluxjson.StreamNoData, status)

	s.Push(1, 2, 3)

	items, status = s.ReadRecords(2)
	require.Equal(t, fluxjson.StreamOK, status)
	assert.Equal(t, []any{1, 2}, items)

	items, status = s.ReadRecords(10)
	require.Equal(t, fluxjson.StreamOK, status)
	assert.Equal(t, []any{3}, items)

	assert.False(t, s.Ended())
	s.Close()
	assert.True(t, s.Ended())

	_, status = s.ReadRecords(10)
	assert.Equal(t, fluxjson.StreamEnded, status)
}

func TestRecordStreamCloseWithErrorSurfacesErr(t *testing.T) {
	t.Parallel()

	wantErr := errors.New("producer failed")
	s := NewRecordStream()
	s.CloseWithError(wantErr)

	assert.True(t, s.Ended())
	assert.ErrorIs(t, s.Err(), wantErr)

	_, status := s.ReadRecords(1)
	assert.Equal(t, fluxjson.StreamEnded, status)
}

func TestRecordStreamReadableWakesOnPush(t *testing.T) {
	t.Parallel()

	s := NewRecordStream()
	go s.Push("item")

	<-s.Readable()
	items, status := s.ReadRecords(1)
	require.Equal(t, fluxjson.StreamOK, status)
	assert.Equal(t, []any{"item"}, items)
}

func TestRecordStreamPushAfterCloseIsIgnored(t *testing.T) {
	t.Parallel()

	s := NewRecordStream()
	s.Close()
	s.Push("too late")

	_, status := s.ReadRecords(1)
	assert.Equal(t, fluxjson.StreamEnded, status)
}
