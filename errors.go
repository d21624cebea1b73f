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
	"fmt"
)

// Sentinel errors returned (wrapped in *EncodeError) by an Encoder. Use
// errors.Is to test for a specific failure mode.
var (
	// ErrCircularStructure indicates a container value is already open on
	// the frame stack (a value transitively contains itself).
	ErrCircularStructure = errors.New("fluxjson: circular structure")
	// ErrUnsupportedType indicates the classifier could not place a value
	// and the primitive encoder does not accept it either.
	ErrUnsupportedType = errors.New("fluxjson: unsupported type")
	// ErrStreamEnded indicates a stream was already exhausted at submission.
	ErrStreamEnded = errors.New("fluxjson: stream already ended")
	// ErrStreamStateInvalid indicates a stream was in flowing/push mode at
	// submission.
	ErrStreamStateInvalid = errors.New("fluxjson: stream in flowing mode")
	// ErrStreamError indicates an input stream reported an error.
	ErrStreamError = errors.New("fluxjson: stream error")
	// ErrDeferredRejected indicates a Deferred value failed.
	ErrDeferredRejected = errors.New("fluxjson: deferred rejected")
	// ErrReplacerFailure indicates the user replacer or ToJSONer hook
	// returned an error.
	ErrReplacerFailure = errors.New("fluxjson: replacer failed")
)

// EncodeError wraps one of the sentinels above with positional context: the
// operation being performed and the value that triggered it.
type EncodeError struct {
	// Op names the operation in progress, e.g. "encode key \"a\"".
	Op string
	// Value is the value being processed when the error occurred, if any.
	Value any
	// Err is the underlying sentinel or wrapped cause.
	Err error
}

func (e *EncodeError) Error() string {
	if e.Op == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("fluxjson: %s: %v", e.Op, e.Err)
}

func (e *EncodeError) Unwrap() error {
	return e.Err
}

// newError builds an *EncodeError, wrapping err with the given op/value
// context. If err is nil, newError returns nil.
func newError(op string, value any, err error) error {
	if err == nil {
		return nil
	}
	return &EncodeError{Op: op, Value: value, Err: err}
}
