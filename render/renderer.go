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

package render

import (
	"context"
	"fmt"
	"sort"

	"github.com/Comcast/blox/core"
	"github.com/Comcast/blox/util"
)

// RenderError reports where in a view rendering failed.
//
// Err is usually a *core.BloxError.
type RenderError struct {
	// Path is like "/slots/items/2".  The root is "/".
	Path string

	// Key is the property key, if any.
	Key string

	Err error
}

func (e *RenderError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("render %s: %s", e.Path, e.Err)
	}
	return fmt.Sprintf("render %s %q: %s", e.Path, e.Key, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

// Renderer runs Handlers over views.
type Renderer struct {
	// Handlers run in order against every property.  A
	// Handler sees the property that the previous one returned.
	Handlers []*core.Handler
}

func NewRenderer(hs ...*core.Handler) *Renderer {
	return &Renderer{
		Handlers: hs,
	}
}

// Render renders the view and its slots recursively.
//
// Properties that no Handler owns go into the Node as they are.
// Properties are processed in key order.  The first error stops
// rendering.
func (r *Renderer) Render(ctx context.Context, v View, vars core.Scope) (*Node, error) {
	return r.render(ctx, "/", v, vars)
}

func (r *Renderer) render(ctx context.Context, path string, v View, vars core.Scope) (*Node, error) {
	n := NewNode(v.Type())

	keys := make([]string, 0, len(v))
	for key := range v {
		if IsProp(key) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	for _, key := range keys {
		if err := ctx.Err(); err != nil {
			return nil, &RenderError{Path: path, Key: key, Err: err}
		}
		if err := r.renderProp(ctx, n, key, v[key], vars); err != nil {
			return nil, &RenderError{Path: path, Key: key, Err: err}
		}
	}

	slots, err := v.Slots()
	if err != nil {
		return nil, &RenderError{Path: path, Err: err}
	}

	names := make([]string, 0, len(slots))
	for name := range slots {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		views := slots[name]
		children := make([]interface{}, 0, len(views))
		for i, child := range views {
			p := fmt.Sprintf("%sslots/%s/%d/", path, name, i)
			c, err := r.render(ctx, p, child, vars)
			if err != nil {
				return nil, err
			}
			children = append(children, c)
		}
		n.SetSlot(name, children)
	}

	return n, nil
}

func (r *Renderer) renderProp(ctx context.Context, n *Node, key string, value interface{}, vars core.Scope) error {
	var (
		prop  = core.Prop{Key: key, Value: value}
		owned = false
	)
	for _, h := range r.Handlers {
		if !h.Directive.Owns(prop.Key) {
			continue
		}
		owned = true
		inv := &core.Invocation{
			Key:       prop.Key,
			Value:     prop.Value,
			Variables: vars,
		}
		p, err := h.Run(ctx, inv, n)
		if err != nil {
			return err
		}
		prop = p
	}
	if !owned {
		util.Logf("render passing %q through", key)
		n.SetProp(key, value)
	}
	return nil
}
