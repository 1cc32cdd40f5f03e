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
	"strconv"

	"github.com/Comcast/blox/util"
)

// NoLiveVariables is returned by setVariable when the Binding
// Invocation didn't have any live variables to write to.
var NoLiveVariables = errors.New("no live variables")

// Invocation is one property of one node, as given by the host.
type Invocation struct {
	Key   string
	Value interface{}

	// Variables are the live variables.  A handler only writes
	// to them through setVariable.
	Variables Scope
}

// Prop is a property key and value.
type Prop struct {
	Key   string
	Value interface{}
}

// Callback is the property value that a CallbackMode Directive
// reports.  The host invokes it with the trigger's arguments.
//
// A host that invokes Callbacks concurrently, or that modifies the
// live variables concurrently with Callbacks, must serialize those
// operations itself.
type Callback func(ctx context.Context, args ...interface{}) error

// Handler runs a Directive against properties.
type Handler struct {
	Directive   *Directive
	Interpreter Interpreter

	// Functions are user callables available to every
	// evaluation.  Read-only once the Handler is in use.
	Functions Functions
}

// NewHandler makes a Handler that runs the Directive's expressions
// with the given Interpreter.
func NewHandler(d *Directive, i Interpreter) *Handler {
	return &Handler{
		Directive:   d,
		Interpreter: i,
	}
}

// NewComputeHandler handles "compute:" properties.
func NewComputeHandler(i Interpreter) *Handler {
	return NewHandler(ComputeDirective(), i)
}

// NewEmitHandler handles "on:" properties.
func NewEmitHandler(i Interpreter) *Handler {
	return NewHandler(EmitDirective(), i)
}

// NewEventHandler handles "event:" properties.
func NewEventHandler(i Interpreter) *Handler {
	return NewHandler(EventDirective(), i)
}

// StandardHandlers makes a Handler for each of the
// StandardDirectives.
func StandardHandlers(i Interpreter) []*Handler {
	ds := StandardDirectives()
	acc := make([]*Handler, len(ds))
	for n, d := range ds {
		acc[n] = NewHandler(d, i)
	}
	return acc
}

// Run processes one property.
//
// If the Directive doesn't own the key, Run returns the given key and
// value and does nothing else.  Otherwise Run reports the output
// property to the sink and returns the output property name with
// the given value.
//
// Either the property is reported in full or Run returns a
// *BloxError and reports nothing.
func (h *Handler) Run(ctx context.Context, inv *Invocation, sink PropSink) (Prop, error) {
	d := h.Directive

	remainder, matches := Match(inv.Key, d.Specifier)
	if !matches {
		return Prop{Key: inv.Key, Value: inv.Value}, nil
	}

	if remainder == "" {
		return Prop{}, newEmptyNameError(d.Name, inv.Key, inv.Value)
	}

	var (
		name = d.PropName(remainder)
		expr = ExpressionString(inv.Value)
	)

	switch d.Mode {
	case CallbackMode:
		cb, err := h.wire(inv, expr)
		if err != nil {
			return Prop{}, err
		}
		util.Logf("%s wired %s for %q", d.Name, name, inv.Key)
		sink.SetProp(name, cb)
	default:
		x, err := h.compute(ctx, inv, expr)
		if err != nil {
			return Prop{}, err
		}
		util.Logf("%s computed %s for %q", d.Name, name, inv.Key)
		sink.SetProp(name, x)
	}

	return Prop{Key: name, Value: inv.Value}, nil
}

// RunFuncs is Run for hosts that pass positional arguments.
func (h *Handler) RunFuncs(ctx context.Context, key string, value interface{}, vars Scope, setProp func(string, interface{}), setSlot func(string, []interface{})) (Prop, error) {
	inv := &Invocation{
		Key:       key,
		Value:     value,
		Variables: vars,
	}
	return h.Run(ctx, inv, SinkFuncs{Prop: setProp, Slot: setSlot})
}

// RunContext is Run for hosts that pass a single BindingContext.
func (h *Handler) RunContext(ctx context.Context, bc BindingContext) (Prop, error) {
	inv := &Invocation{
		Key:       bc.Key(),
		Value:     bc.Value(),
		Variables: bc.Variables(),
	}
	return h.Run(ctx, inv, contextSink{bc})
}

func (h *Handler) compute(ctx context.Context, inv *Invocation, expr string) (interface{}, error) {
	if IsUnsafe(expr) {
		return nil, newUnsafeExpressionError(inv.Key, inv.Value)
	}

	scope, err := Snapshot(inv.Variables)
	if err != nil {
		return nil, newSnapshotError(inv.Key, inv.Value, err)
	}

	return h.evaluate(ctx, inv, expr, scope, h.functions(nil))
}

func (h *Handler) wire(inv *Invocation, expr string) (Callback, error) {
	d := h.Directive

	if d.GuardPhase == AtWiring && IsUnsafe(expr) {
		return nil, newUnsafeExpressionError(inv.Key, inv.Value)
	}

	var wired Scope
	if d.SnapshotPhase == AtWiring {
		s, err := Snapshot(inv.Variables)
		if err != nil {
			return nil, newSnapshotError(inv.Key, inv.Value, err)
		}
		wired = s
	}

	// Hold on to the invocation's parts rather than the
	// Invocation, which the host might reuse.
	var (
		key   = inv.Key
		value = inv.Value
		live  = inv.Variables
	)

	return func(ctx context.Context, args ...interface{}) error {
		inv := &Invocation{
			Key:       key,
			Value:     value,
			Variables: live,
		}

		if d.GuardPhase == AtTrigger && IsUnsafe(expr) {
			return newUnsafeExpressionError(key, value)
		}

		from := live
		if d.SnapshotPhase == AtWiring {
			from = wired
		}
		scope, err := Snapshot(from)
		if err != nil {
			return newSnapshotError(key, value, err)
		}

		for i, arg := range args {
			scope[strconv.Itoa(i)] = arg
		}

		util.Logf("%s triggered for %q with %d args", d.Name, key, len(args))

		_, err = h.evaluate(ctx, inv, expr, scope, h.functions(live))
		return err
	}, nil
}

func (h *Handler) evaluate(ctx context.Context, inv *Invocation, expr string, scope Scope, fns Functions) (interface{}, error) {
	if h.Interpreter == nil {
		return nil, newEvaluationError(inv.Key, inv.Value, InterpreterNotFound)
	}
	x, err := h.Interpreter.Evaluate(ctx, expr, scope, fns)
	if err != nil {
		return nil, newEvaluationError(inv.Key, inv.Value, err)
	}
	return x, nil
}

// functions builds the callable table for one evaluation.
func (h *Handler) functions(live Scope) Functions {
	d := h.Directive
	fns := h.Functions.Copy()
	for name, f := range d.Functions {
		fns[name] = f
	}
	if d.LiveWrites {
		fns["setVariable"] = func(name string, value interface{}) error {
			if live == nil {
				return NoLiveVariables
			}
			live[name] = value
			return nil
		}
	}
	return fns
}
