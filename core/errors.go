/* Copyright 2018-2024 Comcast Cable Communications Management, LLC
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 * http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package core

// These errors are user errors (bad views), not internal errors.

import (
	"errors"
	"fmt"
)

// ErrorKind distinguishes the ways a Binding Invocation can fail.
type ErrorKind int

const (
	// EmptyNameError occurs when a key is nothing but a
	// specifier.
	EmptyNameError ErrorKind = iota + 1

	// UnsafeExpressionError occurs when an expression is one of
	// the denied prototype tokens.  See IsUnsafe.
	UnsafeExpressionError

	// EvaluationError occurs when the Interpreter fails.
	EvaluationError

	// SnapshotError occurs when the variables can't be copied.
	SnapshotError
)

func (k ErrorKind) String() string {
	switch k {
	case EmptyNameError:
		return "EmptyNameError"
	case UnsafeExpressionError:
		return "UnsafeExpressionError"
	case EvaluationError:
		return "EvaluationError"
	case SnapshotError:
		return "SnapshotError"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// ErrorContext identifies the property that caused a BloxError.
type ErrorContext struct {
	Key   string      `json:"key"`
	Value interface{} `json:"value"`
}

// BloxError is the structured error that every handler failure
// produces.
type BloxError struct {
	Kind ErrorKind `json:"kind"`

	// Title is a short summary.
	Title string `json:"title"`

	// DebugMessage says what went wrong in enough detail to fix
	// the view.
	DebugMessage string `json:"debugMessage"`

	Context *ErrorContext `json:"context,omitempty"`

	// Cause is the underlying error, if any (usually from the
	// Interpreter).
	Cause error `json:"-"`
}

func (e *BloxError) Error() string {
	return e.Title + " " + e.DebugMessage
}

func (e *BloxError) Unwrap() error {
	return e.Cause
}

// Is makes errors.Is(err, &BloxError{Kind: k}) match any BloxError
// of kind k.
func (e *BloxError) Is(target error) bool {
	t, is := target.(*BloxError)
	if !is {
		return false
	}
	return t.Kind == e.Kind && t.Title == "" && t.DebugMessage == ""
}

// AsBloxError finds the first BloxError in err's chain (or returns
// nil).
func AsBloxError(err error) *BloxError {
	var be *BloxError
	if errors.As(err, &be) {
		return be
	}
	return nil
}

func newEmptyNameError(directive, key string, value interface{}) *BloxError {
	return &BloxError{
		Kind:         EmptyNameError,
		Title:        capitalize(directive) + " parsing failed.",
		DebugMessage: "The value for the prop name for " + directive + " must be a string with length > 0.",
		Context:      &ErrorContext{Key: key, Value: value},
	}
}

func newUnsafeExpressionError(key string, value interface{}) *BloxError {
	return &BloxError{
		Kind:  UnsafeExpressionError,
		Title: "Expression parsing failed.",
		DebugMessage: fmt.Sprintf("The call to Evaluate() for value %v was aborted because prototype access was detected.",
			value),
		Context: &ErrorContext{Key: key, Value: value},
	}
}

func newEvaluationError(key string, value interface{}, err error) *BloxError {
	return &BloxError{
		Kind:         EvaluationError,
		Title:        "Expression parsing failed.",
		DebugMessage: fmt.Sprintf("The call to Evaluate() for value %v threw the error: %s", value, err),
		Context:      &ErrorContext{Key: key, Value: value},
		Cause:        err,
	}
}

func newSnapshotError(key string, value interface{}, err error) *BloxError {
	return &BloxError{
		Kind:         SnapshotError,
		Title:        "Variables snapshot failed.",
		DebugMessage: fmt.Sprintf("The variables for value %v could not be copied: %s", value, err),
		Context:      &ErrorContext{Key: key, Value: value},
		Cause:        err,
	}
}
