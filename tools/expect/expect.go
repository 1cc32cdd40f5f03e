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

// Package expect is a tool for testing views.
//
// You construct a Session, which has a view, initial variables, and
// a sequence of Steps.  Each Step can trigger a Callback, and then it
// checks properties and variables.
//
// See ../../cmd/bloxtool for command-line use.
package expect

import (
	"context"
	"fmt"
	"log"
	"reflect"
	"time"

	"github.com/Comcast/blox/core"
	"github.com/Comcast/blox/render"
	. "github.com/Comcast/blox/util/testutil"
)

// Trigger invokes a node's Callback.
type Trigger struct {
	// Id is the node's id.  Empty means the root node.
	Id string `json:"id,omitempty" yaml:"id,omitempty"`

	// Prop is the Callback's property name (like "onClicked").
	Prop string `json:"prop" yaml:"prop"`

	Args []interface{} `json:"args,omitempty" yaml:"args,omitempty"`
}

// Expectation is a check after a Step.
//
// Exactly one of Prop and Variable should be given.
type Expectation struct {
	// Doc is an opaque documentation string.
	Doc string `json:"doc,omitempty" yaml:"doc,omitempty"`

	// Id is the node's id.  Empty means the root node.
	Id string `json:"id,omitempty" yaml:"id,omitempty"`

	Prop     string `json:"prop,omitempty" yaml:"prop,omitempty"`
	Variable string `json:"var,omitempty" yaml:"var,omitempty"`

	// Value is compared after a JSON round trip.  A Callback
	// property compares equal to "function".
	Value interface{} `json:"value" yaml:"value"`

	// Missing means the property or variable shouldn't exist.
	Missing bool `json:"missing,omitempty" yaml:"missing,omitempty"`
}

// Step is one thing to do and what to expect afterwards.
type Step struct {
	// Doc is an opaque documentation string.
	Doc string `json:"doc,omitempty" yaml:"doc,omitempty"`

	// SetVariables are written to the live variables before
	// anything else happens.
	SetVariables map[string]interface{} `json:"setVars,omitempty" yaml:"setVars,omitempty"`

	Trigger *Trigger `json:"trigger,omitempty" yaml:"trigger,omitempty"`

	// Error, if not empty, is the core.ErrorKind name (like
	// "UnsafeExpressionError") that rendering or triggering should
	// report.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`

	Expect []Expectation `json:"expect,omitempty" yaml:"expect,omitempty"`
}

// Session is mostly a sequence of Steps.
type Session struct {
	// Doc is an opaque documentation string.
	Doc string `json:"doc,omitempty" yaml:"doc,omitempty"`

	View      map[string]interface{} `json:"view" yaml:"view"`
	Variables map[string]interface{} `json:"vars,omitempty" yaml:"vars,omitempty"`

	Steps []Step `json:"steps" yaml:"steps"`

	// Timeout is the optional timeout for each step.
	Timeout time.Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`

	Verbose bool `json:"verbose,omitempty" yaml:"verbose,omitempty"`
}

// Failure reports the first Step that didn't go as expected.
type Failure struct {
	Step int
	Doc  string
	Msg  string
}

func (f *Failure) Error() string {
	if f.Doc == "" {
		return fmt.Sprintf("step %d: %s", f.Step, f.Msg)
	}
	return fmt.Sprintf("step %d (%s): %s", f.Step, f.Doc, f.Msg)
}

// Run processes all the Steps in the Session with a Host that uses
// the given Renderer.
//
// The view is rendered before the first Step.
func (s *Session) Run(ctx context.Context, r *render.Renderer) error {
	v, err := render.AsView(s.View)
	if err != nil {
		return err
	}

	vars, err := core.Snapshot(s.Variables)
	if err != nil {
		return err
	}

	h := render.NewHost(r, v, vars)

	for i, step := range s.Steps {
		if err := s.step(ctx, h, i, step); err != nil {
			return err
		}
	}

	return nil
}

func (s *Session) step(ctx context.Context, h *render.Host, i int, step Step) error {
	if 0 < s.Timeout {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	fail := func(format string, args ...interface{}) error {
		return &Failure{
			Step: i,
			Doc:  step.Doc,
			Msg:  fmt.Sprintf(format, args...),
		}
	}

	if s.Verbose {
		log.Printf("step %d %s", i, JS(step))
	}

	if step.SetVariables != nil {
		h.SetVariables(step.SetVariables)
	}

	var (
		n   *render.Node
		err error
	)
	if step.Trigger != nil {
		n, err = h.Trigger(ctx, step.Trigger.Id, step.Trigger.Prop, step.Trigger.Args...)
	} else {
		n, err = h.Render(ctx)
	}

	if step.Error != "" {
		be := core.AsBloxError(err)
		if be == nil {
			return fail("wanted a %s error but got %v", step.Error, err)
		}
		if be.Kind.String() != step.Error {
			return fail("wanted a %s error but got %s (%s)", step.Error, be.Kind, be)
		}
		if n = h.Tree(); n == nil {
			if n, err = h.Render(ctx); err != nil {
				return fail("render after error: %s", err)
			}
		}
	} else if err != nil {
		return fail("%s", err)
	}

	vars, err := h.Variables()
	if err != nil {
		return fail("%s", err)
	}

	for _, e := range step.Expect {
		var (
			got  interface{}
			have bool
			what string
		)
		if e.Variable != "" {
			what = "variable " + e.Variable
			got, have = vars[e.Variable]
		} else {
			what = fmt.Sprintf("%q prop %s", e.Id, e.Prop)
			target := n.Find(e.Id)
			if target == nil {
				return fail("no node %q", e.Id)
			}
			got, have = target.Props[e.Prop]
			if _, is := got.(core.Callback); is {
				got = "function"
			}
		}

		if e.Missing {
			if have {
				return fail("%s exists (%s)", what, JS(got))
			}
			continue
		}
		if !have {
			return fail("%s is missing", what)
		}
		if !Same(got, e.Value) {
			return fail("%s is %s, not %s", what, JS(got), JS(e.Value))
		}
	}

	return nil
}

// Same compares two values after JSON round trips.
func Same(x, y interface{}) bool {
	cx, err := core.Canonicalize(x)
	if err != nil {
		return false
	}
	cy, err := core.Canonicalize(y)
	if err != nil {
		return false
	}
	return reflect.DeepEqual(cx, cy)
}
