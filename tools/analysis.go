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

package tools

import (
	"fmt"
	"sort"

	"github.com/Comcast/blox/core"
	"github.com/Comcast/blox/render"
)

// Binding is a property key that a Directive owns.
type Binding struct {
	// Path locates the node, like render.RenderError's Path.
	Path string

	Key       string
	Directive string

	// PropName is the output property name, which is empty when
	// the name would be empty.
	PropName string

	Expression string
}

// ViewAnalysis reports what a view's bindings will do without
// evaluating anything.
type ViewAnalysis struct {
	Errors []string

	NodeCount   int
	Types       []string
	PassThrough int
	Bindings    []Binding

	// Directives counts Bindings by Directive name.
	Directives map[string]int

	// EmptyNames and UnsafeExpressions are "path key" strings
	// for bindings that will fail.
	EmptyNames        []string
	UnsafeExpressions []string

	// Collisions are output property names that more than one
	// key in the same node produces.
	Collisions []string
}

// Analyze walks the view and reports every binding that one of the
// given Directives owns.
//
// Nil ds means core.StandardDirectives().
func Analyze(v render.View, ds []*core.Directive) (*ViewAnalysis, error) {
	if ds == nil {
		ds = core.StandardDirectives()
	}

	a := &ViewAnalysis{
		Errors:     make([]string, 0, 8),
		Directives: make(map[string]int),
	}

	types := make(map[string]bool)
	a.analyze("/", v, ds, types)
	a.Types = keys(types)

	return a, nil
}

func (a *ViewAnalysis) analyze(path string, v render.View, ds []*core.Directive, types map[string]bool) {
	a.NodeCount++
	if typ := v.Type(); typ != "" {
		types[typ] = true
	}

	ks := make([]string, 0, len(v))
	for k := range v {
		if render.IsProp(k) {
			ks = append(ks, k)
		}
	}
	sort.Strings(ks)

	names := make(map[string]int)

	for _, k := range ks {
		owned := false
		for _, d := range ds {
			remainder, matches := core.Match(k, d.Specifier)
			if !matches {
				continue
			}
			owned = true
			b := Binding{
				Path:       path,
				Key:        k,
				Directive:  d.Name,
				Expression: core.ExpressionString(v[k]),
			}
			where := path + " " + k
			if remainder == "" {
				a.EmptyNames = append(a.EmptyNames, where)
			} else {
				b.PropName = d.PropName(remainder)
				names[b.PropName]++
			}
			if core.IsUnsafe(b.Expression) {
				a.UnsafeExpressions = append(a.UnsafeExpressions, where)
			}
			a.Bindings = append(a.Bindings, b)
			a.Directives[d.Name]++
		}
		if !owned {
			a.PassThrough++
			names[k]++
		}
	}

	for _, name := range keys(names) {
		if 1 < names[name] {
			a.Collisions = append(a.Collisions, path+" "+name)
		}
	}

	slots, err := v.Slots()
	if err != nil {
		a.Errors = append(a.Errors, path+" "+err.Error())
		return
	}
	slotNames := make([]string, 0, len(slots))
	for name := range slots {
		slotNames = append(slotNames, name)
	}
	sort.Strings(slotNames)
	for _, name := range slotNames {
		for i, child := range slots[name] {
			a.analyze(fmt.Sprintf("%sslots/%s/%d/", path, name, i), child, ds, types)
		}
	}
}

// OK reports whether the analysis found nothing that would fail.
func (a *ViewAnalysis) OK() bool {
	return len(a.Errors) == 0 && len(a.EmptyNames) == 0 && len(a.UnsafeExpressions) == 0
}

func keys(m interface{}) []string {
	var acc []string
	switch vv := m.(type) {
	case map[string]bool:
		for k := range vv {
			acc = append(acc, k)
		}
	case map[string]int:
		for k := range vv {
			acc = append(acc, k)
		}
	}
	sort.Strings(acc)
	return acc
}
