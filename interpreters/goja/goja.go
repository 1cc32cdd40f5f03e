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

// Package goja provides an ECMAScript expression interpreter.
package goja

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/url"
	"time"

	"github.com/Comcast/blox/core"

	"github.com/dop251/goja"
	"github.com/gorhill/cronexpr"
)

var (
	// InterruptedMessage is the string value of Interrupted.
	InterruptedMessage = "RuntimeError: timeout"

	// Interrupted is returned by Evaluate if the evaluation is
	// interrupted.
	Interrupted = errors.New(InterruptedMessage)
)

// init adds an Interpreter as one of the DefaultInterpreters.
func init() {
	core.DefaultInterpreters["goja"] = NewInterpreter()
}

// Interpreter implements core.Interpreter using Goja, which is a Go
// implementation of ECMAScript 5.1+.
//
// See https://github.com/dop251/goja.
type Interpreter struct {
	// Extended adds some utility callables.  See Evaluate.
	Extended bool

	// Testing is used to expose or hide some runtime
	// capabilities.
	Testing bool
}

// NewInterpreter makes a new Interpreter.
func NewInterpreter() *Interpreter {
	return &Interpreter{}
}

// Evaluate implements the core.Interpreter method of the same name.
//
// Each evaluation gets its own runtime.  Every scope entry and every
// given callable is a global in that runtime.  Objects in the scope
// are shared with the runtime, so the expression's changes to them
// land in the given scope.
//
// Extended callables (enabled by the interpreter's Extended
// property):
//
//	cronNext(s): Return a string representing (RFC3999Nano) the
//	  next time for the given crontab expression.
//	esc(s): URL query-escape the given string.
//	gensym(): generate a random string.
//	log(x): log x as JSON.
//
// Testing callables (enabled by the interpreter's Testing property):
//
//	sleep(ms): sleep for the given number of milliseconds.
//
// Cancelling ctx interrupts the evaluation, which then returns
// Interrupted.
func (i *Interpreter) Evaluate(ctx context.Context, src string, scope core.Scope, fns core.Functions) (interface{}, error) {
	o := goja.New()

	for name, x := range scope {
		if err := o.Set(name, x); err != nil {
			return nil, err
		}
	}

	if i.Extended {
		for name, f := range extensions() {
			if err := o.Set(name, f); err != nil {
				return nil, err
			}
		}
	}

	if i.Testing {
		if err := o.Set("sleep", func(ms int) {
			time.Sleep(time.Duration(ms) * time.Millisecond)
		}); err != nil {
			return nil, err
		}
	}

	// Callables last so that they shadow everything else.
	for name, f := range fns {
		if err := o.Set(name, f); err != nil {
			return nil, err
		}
	}

	// We want to make sure that the following goroutine is
	// terminated as soon as possible.
	ictx, cancel := context.WithCancel(ctx)
	go func() {
		<-ictx.Done()
		// If Evaluate calls cancel() after RunString returns,
		// then the interrupt lands on a runtime that nobody will
		// use again.
		o.Interrupt(InterruptedMessage)
	}()

	v, err := o.RunString(src)
	cancel()

	if err != nil {
		if _, is := err.(*goja.InterruptedError); is {
			return nil, Interrupted
		}
		return nil, err
	}

	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return nil, nil
	}

	return v.Export(), nil
}

func extensions() core.Functions {
	return core.Functions{
		"cronNext": func(expr string) (string, error) {
			c, err := cronexpr.Parse(expr)
			if err != nil {
				return "", err
			}
			return c.Next(time.Now()).UTC().Format(time.RFC3339Nano), nil
		},
		"esc": func(s string) string {
			return url.QueryEscape(s)
		},
		"gensym": func() string {
			return core.Gensym(32)
		},
		"log": func(x interface{}) interface{} {
			js, err := json.Marshal(&x)
			if err != nil {
				log.Println("goja.log (can't marshal: " + err.Error() + ")")
			} else {
				log.Println(string(js))
			}
			return x
		},
	}
}

// String is for logging.
func (i *Interpreter) String() string {
	return fmt.Sprintf("goja(extended=%v)", i.Extended)
}
