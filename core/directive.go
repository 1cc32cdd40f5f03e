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

// Mode says what a Directive does with its expression.
type Mode int

const (
	// ValueMode evaluates the expression right away and reports
	// the result as the property value.
	ValueMode Mode = iota

	// CallbackMode reports a Callback as the property value.
	// The expression is evaluated each time the host triggers
	// that Callback.
	CallbackMode
)

// Phase says when something happens for a CallbackMode Directive.
type Phase int

const (
	// AtWiring is when the handler runs.
	AtWiring Phase = iota

	// AtTrigger is when the host invokes the Callback.
	AtTrigger
)

// Directive describes one binding rule.
//
// A Directive is built once, when handlers are registered, and it
// isn't modified after that.
type Directive struct {
	// Name appears in error messages ("compute", "emit", "event").
	Name string

	// Specifier is the key prefix that this Directive owns.
	Specifier string

	// Transform computes the output property name.
	Transform NameTransform

	Mode Mode

	// GuardPhase is when a CallbackMode Directive checks its
	// expression with IsUnsafe.  ValueMode Directives always
	// check before evaluating.
	GuardPhase Phase

	// SnapshotPhase is when a CallbackMode Directive copies the
	// live variables.  AtWiring copies once and derives a fresh
	// copy of that Snapshot for every trigger.  AtTrigger copies
	// the live variables on every trigger.
	SnapshotPhase Phase

	// LiveWrites provides the setVariable(name, value) callable,
	// which writes to the live variables.
	LiveWrites bool

	// Functions are callables this Directive adds to every
	// evaluation.  Read-only.
	Functions Functions
}

// Owns reports whether the key starts with this Directive's
// Specifier.
func (d *Directive) Owns(key string) bool {
	_, matches := Match(key, d.Specifier)
	return matches
}

// PropName computes the output property name for the given
// remainder.
func (d *Directive) PropName(remainder string) string {
	if d.Transform == nil {
		return remainder
	}
	return d.Transform(remainder)
}

// ComputeDirective makes the "compute:" Directive, which reports the
// value of its expression under the name that follows the
// specifier.
func ComputeDirective() *Directive {
	return &Directive{
		Name:      "compute",
		Specifier: "compute:",
		Transform: Identity,
		Mode:      ValueMode,
	}
}

// EmitDirective makes the "on:" Directive, which reports a Callback
// for a component-emitted event.  "on:did_click" gives
// "onDidClick".
//
// The expression can call internal_invokeFunctions(f, g, ...), which
// returns a function that calls each given function in order.
func EmitDirective() *Directive {
	return &Directive{
		Name:          "emit",
		Specifier:     "on:",
		Transform:     CamelJoin,
		Mode:          CallbackMode,
		GuardPhase:    AtWiring,
		SnapshotPhase: AtTrigger,
		Functions: Functions{
			"internal_invokeFunctions": invokeFunctions,
		},
	}
}

// EventDirective makes the "event:" Directive, which reports a
// Callback for a native event.  "event:didClick" gives
// "onDidClick".
//
// The expression can call setVariable(name, value) to change the
// live variables.
func EventDirective() *Directive {
	return &Directive{
		Name:          "event",
		Specifier:     "event:",
		Transform:     CapitalizeFirst,
		Mode:          CallbackMode,
		GuardPhase:    AtTrigger,
		SnapshotPhase: AtWiring,
		LiveWrites:    true,
	}
}

// StandardDirectives returns new compute, emit, and event
// Directives.
func StandardDirectives() []*Directive {
	return []*Directive{
		ComputeDirective(),
		EmitDirective(),
		EventDirective(),
	}
}

func invokeFunctions(fs ...func()) func() {
	return func() {
		for _, f := range fs {
			if f != nil {
				f()
			}
		}
	}
}
