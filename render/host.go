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
	"errors"
	"fmt"
	"sync"

	"github.com/Comcast/blox/core"
	"github.com/Comcast/blox/util"
)

var (
	// NotFound is returned by Trigger when there's no node with
	// the given id.
	NotFound = errors.New("node not found")

	// NotCallback is returned by Trigger when the property isn't
	// a core.Callback.
	NotCallback = errors.New("property isn't a callback")
)

// Host owns a view, its live variables, and the latest rendering.
//
// Host serializes rendering, triggering, and variable updates.
type Host struct {
	sync.Mutex

	Renderer *Renderer

	view View
	vars core.Scope
	tree *Node
}

func NewHost(r *Renderer, v View, vars core.Scope) *Host {
	if vars == nil {
		vars = core.NewScope()
	}
	return &Host{
		Renderer: r,
		view:     v,
		vars:     vars,
	}
}

// Render renders the current view with the live variables.
func (h *Host) Render(ctx context.Context) (*Node, error) {
	h.Lock()
	defer h.Unlock()
	return h.render(ctx)
}

func (h *Host) render(ctx context.Context) (*Node, error) {
	if h.view == nil {
		return nil, errors.New("no view")
	}
	n, err := h.Renderer.Render(ctx, h.view, h.vars)
	if err != nil {
		return nil, err
	}
	h.tree = n
	return n, nil
}

// Tree returns the latest rendering, which might be nil.
func (h *Host) Tree() *Node {
	h.Lock()
	defer h.Unlock()
	return h.tree
}

// View returns the current view.
func (h *Host) View() View {
	h.Lock()
	defer h.Unlock()
	return h.view
}

// SetView replaces the view.  Call Render to see it.
func (h *Host) SetView(v View) {
	h.Lock()
	h.view = v
	h.tree = nil
	h.Unlock()
}

// Variables returns a snapshot of the live variables.
func (h *Host) Variables() (core.Scope, error) {
	h.Lock()
	defer h.Unlock()
	return core.Snapshot(h.vars)
}

// SetVariables writes the given bindings into the live variables.
func (h *Host) SetVariables(vs map[string]interface{}) {
	h.Lock()
	for name, x := range vs {
		h.vars[name] = x
	}
	h.Unlock()
}

// Trigger invokes a node's Callback and then renders again.
//
// The empty id names the root node.  If there's no rendering yet,
// Trigger renders first.
func (h *Host) Trigger(ctx context.Context, id, prop string, args ...interface{}) (*Node, error) {
	h.Lock()
	defer h.Unlock()

	if h.tree == nil {
		if _, err := h.render(ctx); err != nil {
			return nil, err
		}
	}

	n := h.tree.Find(id)
	if n == nil {
		return nil, fmt.Errorf("%w: %q", NotFound, id)
	}
	cb, is := n.Callback(prop)
	if !is {
		return nil, fmt.Errorf("%w: %q on %q", NotCallback, prop, id)
	}

	util.Logf("host triggering %s on %q", prop, id)

	if err := cb(ctx, args...); err != nil {
		return nil, err
	}

	return h.render(ctx)
}
