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

// Package render is a small reference host for the directive
// handlers in package core.
//
// It walks a view, runs every handler against every property, and
// collects the results into a tree of Nodes.  It also owns the live
// variables and lets callers trigger the Callbacks that the emit and
// event directives wire.
package render

import (
	"errors"
	"fmt"

	"github.com/jsccast/yaml"
)

// These keys in a view aren't properties.
const (
	// TypeKey names the component type.
	TypeKey = "type"

	// SlotsKey holds a map from slot name to a list of views.
	SlotsKey = "slots"

	// DocKey holds Markdown documentation, which isn't rendered.
	DocKey = "doc"

	// IdKey is an ordinary property that Find uses.
	IdKey = "id"
)

// View is a JSON-shaped description of a node and its slots.
type View map[string]interface{}

// ParseView parses a JSON or YAML view.
//
// Background: The YAML parser https://github.com/go-yaml/yaml will
// return map[interface{}]interface{}, which is correct but
// inconvenient.  So we use the fork at https://github.com/jsccast/yaml,
// which will return map[string]interface{}.  AsView still accepts
// map[interface{}]interface{} for views that came from elsewhere.
func ParseView(bs []byte) (View, error) {
	var x interface{}
	if err := yaml.Unmarshal(bs, &x); err != nil {
		return nil, err
	}
	return AsView(x)
}

// AsView tries to interpret the given value as a View.
func AsView(x interface{}) (View, error) {
	switch vv := x.(type) {
	case View:
		return vv, nil
	case map[string]interface{}:
		return View(vv), nil
	case map[interface{}]interface{}:
		m := make(View, len(vv))
		for k, v := range vv {
			s, is := k.(string)
			if !is {
				return nil, fmt.Errorf("bad view key %#v (%T)", k, k)
			}
			m[s] = v
		}
		return m, nil
	case nil:
		return nil, errors.New("empty view")
	default:
		return nil, fmt.Errorf("bad view (%T)", x)
	}
}

// Type returns the view's component type, if any.
func (v View) Type() string {
	s, _ := v[TypeKey].(string)
	return s
}

// Doc returns the view's documentation, if any.
func (v View) Doc() string {
	s, _ := v[DocKey].(string)
	return s
}

// Slots returns the view's slots.
func (v View) Slots() (map[string][]View, error) {
	x, have := v[SlotsKey]
	if !have || x == nil {
		return nil, nil
	}
	var m map[string]interface{}
	switch vv := x.(type) {
	case map[string]interface{}:
		m = vv
	default:
		y, err := AsView(x)
		if err != nil {
			return nil, fmt.Errorf("bad slots: %s", err)
		}
		m = y
	}
	acc := make(map[string][]View, len(m))
	for name, y := range m {
		xs, is := y.([]interface{})
		if !is {
			return nil, fmt.Errorf("slot %q isn't a list (%T)", name, y)
		}
		views := make([]View, 0, len(xs))
		for i, z := range xs {
			child, err := AsView(z)
			if err != nil {
				return nil, fmt.Errorf("slot %q item %d: %s", name, i, err)
			}
			views = append(views, child)
		}
		acc[name] = views
	}
	return acc, nil
}

// IsProp reports whether the key names a property (rather than
// structure).
func IsProp(key string) bool {
	switch key {
	case TypeKey, SlotsKey, DocKey:
		return false
	}
	return true
}
