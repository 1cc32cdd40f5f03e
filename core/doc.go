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

// Package core provides the directive handlers that rewrite
// declarative view properties into renderer-consumable properties.
//
// A view node is a JSON-shaped map.  Most of its properties are
// plain data, but a property whose key starts with a reserved
// specifier ("compute:", "on:", "event:") carries an expression
// string that should be evaluated against the current variables.
// Each specifier is described by a Directive, and a Handler runs one
// Directive against one property at a time.
//
// The host that walks the view calls every Handler once per
// property with the key, the value, the live variables, and a sink.
// A Handler that doesn't own the key does nothing.  A Handler that
// does own the key either evaluates the expression right away and
// reports the result (the compute directive) or reports a Callback
// that evaluates the expression later, when the host triggers it
// (the emit and event directives).
//
// Expressions are evaluated by an Interpreter, which is pluggable.
// See the interpreters package.  The variables handed to an
// Interpreter are always a Snapshot: a deep copy that the expression
// can scribble on without disturbing the live variables.  The only
// sanctioned way for an expression to change the live variables is
// the setVariable callable that the event directive provides.
//
// Every failure is reported as a *BloxError, which carries the
// offending key and value.
package core
