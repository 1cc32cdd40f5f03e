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

import (
	"context"
	"errors"
)

var (
	// InterpreterNotFound occurs when a named Interpreter isn't
	// in the given map of interpreters.
	InterpreterNotFound = errors.New("interpreter not found")

	// DefaultInterpreters is used by FindInterpreter when given
	// nil interpreters.  Interpreter packages register themselves
	// here in init().
	DefaultInterpreters = make(map[string]Interpreter)
)

// Functions is a table of callables that an expression can reach by
// name.
//
// A table is built for each Binding Invocation and handed to the
// Interpreter along with the scope.  Nobody mutates a table that
// somebody else might be using.
type Functions map[string]interface{}

// Copy makes a shallow copy of the Functions.
func (fs Functions) Copy() Functions {
	acc := make(Functions, len(fs))
	for name, f := range fs {
		acc[name] = f
	}
	return acc
}

// Interpreter evaluates expression strings.
type Interpreter interface {
	// Evaluate evaluates the expression against the given scope,
	// which the Interpreter may modify.  The given functions are
	// callable from the expression.
	//
	// Malformed expressions and references to undefined names
	// are errors.
	Evaluate(ctx context.Context, src string, scope Scope, fns Functions) (interface{}, error)
}

// InterpreterFunc adapts a Go function to an Interpreter.
type InterpreterFunc func(ctx context.Context, src string, scope Scope, fns Functions) (interface{}, error)

func (f InterpreterFunc) Evaluate(ctx context.Context, src string, scope Scope, fns Functions) (interface{}, error) {
	return f(ctx, src, scope, fns)
}

// FindInterpreter looks up the named Interpreter in the given map,
// which defaults to DefaultInterpreters.
func FindInterpreter(interpreters map[string]Interpreter, name string) (Interpreter, error) {
	if interpreters == nil {
		interpreters = DefaultInterpreters
	}
	i, have := interpreters[name]
	if !have {
		return nil, InterpreterNotFound
	}
	return i, nil
}
