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
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
)

// Scope is a map from variable names to their values.
//
// The host owns the live Scope.  The handlers in this package only
// ever hand Snapshots of it to an Interpreter.
type Scope map[string]interface{}

// NewScope makes an empty Scope.
func NewScope() Scope {
	return make(Scope, 8)
}

// Extend adds the property; modifies and returns the Scope.
func (s Scope) Extend(p string, v interface{}) Scope {
	s[p] = v
	return s
}

// Copy makes a shallow copy of the Scope.
func (s Scope) Copy() Scope {
	acc := make(Scope, len(s))
	for k, v := range s {
		acc[k] = v
	}
	return acc
}

// Snapshot makes an inert, independently mutable copy of the given
// variables.
//
// A nil Scope gives an empty Scope.  Maps and slices are copied
// recursively, so the result shares no mutable structure with the
// input.  Functions are dropped (as JSON would drop them).  Values of
// other types (structs, typed maps, pointers) go through a JSON
// round trip.  Values that can't survive that trip (channels,
// cycles) produce an error.
func Snapshot(vars Scope) (Scope, error) {
	c := make(copier)
	acc := make(Scope, len(vars))
	for k, v := range vars {
		if isFunc(v) {
			continue
		}
		y, err := c.copy(v)
		if err != nil {
			return nil, fmt.Errorf("variable %q: %w", k, err)
		}
		acc[k] = y
	}
	return acc, nil
}

// ErrCycle is returned when a value contains itself.
var ErrCycle = errors.New("cyclic value")

func isFunc(x interface{}) bool {
	if x == nil {
		return false
	}
	return reflect.TypeOf(x).Kind() == reflect.Func
}

// copier remembers the maps and slices on the current path.
type copier map[uintptr]bool

// enter marks x as being copied.  Empty containers are never
// entered since they can't lead back to anything.
func (c copier) enter(x interface{}, n int) (uintptr, error) {
	if n == 0 {
		return 0, nil
	}
	p := reflect.ValueOf(x).Pointer()
	if c[p] {
		return 0, ErrCycle
	}
	c[p] = true
	return p, nil
}

func (c copier) leave(p uintptr) {
	if p != 0 {
		delete(c, p)
	}
}

func (c copier) copy(x interface{}) (interface{}, error) {
	switch vv := x.(type) {
	case nil, string, bool,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return vv, nil
	case Scope:
		return c.copyMap(vv)
	case map[string]interface{}:
		m, err := c.copyMap(vv)
		if err != nil {
			return nil, err
		}
		return map[string]interface{}(m), nil
	case []interface{}:
		p, err := c.enter(vv, len(vv))
		if err != nil {
			return nil, err
		}
		defer c.leave(p)
		acc := make([]interface{}, len(vv))
		for i, y := range vv {
			if isFunc(y) {
				continue
			}
			z, err := c.copy(y)
			if err != nil {
				return nil, err
			}
			acc[i] = z
		}
		return acc, nil
	default:
		return Canonicalize(x)
	}
}

func (c copier) copyMap(m map[string]interface{}) (Scope, error) {
	p, err := c.enter(m, len(m))
	if err != nil {
		return nil, err
	}
	defer c.leave(p)
	acc := make(Scope, len(m))
	for k, v := range m {
		if isFunc(v) {
			continue
		}
		y, err := c.copy(v)
		if err != nil {
			return nil, err
		}
		acc[k] = y
	}
	return acc, nil
}

// Canonicalize returns the result of a JSON round trip of the given
// value.
func Canonicalize(x interface{}) (interface{}, error) {
	js, err := json.Marshal(&x)
	if err != nil {
		return nil, err
	}
	var y interface{}
	if err = json.Unmarshal(js, &y); err != nil {
		return nil, err
	}
	return y, nil
}
