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
	"encoding/json"
	"sort"

	"github.com/Comcast/blox/core"
)

// Node is a rendered View.
//
// Props hold plain values and core.Callbacks.
type Node struct {
	Type  string
	Props map[string]interface{}
	Slots map[string][]*Node
}

func NewNode(typ string) *Node {
	return &Node{
		Type:  typ,
		Props: make(map[string]interface{}),
		Slots: make(map[string][]*Node),
	}
}

// SetProp implements core.PropSink.
func (n *Node) SetProp(name string, value interface{}) {
	n.Props[name] = value
}

// SetSlot implements core.SlotSink.
//
// Values that aren't Nodes are ignored.
func (n *Node) SetSlot(name string, views []interface{}) {
	acc := make([]*Node, 0, len(views))
	for _, x := range views {
		if child, is := x.(*Node); is {
			acc = append(acc, child)
		}
	}
	n.Slots[name] = acc
}

// Callback returns the named property if it's a core.Callback.
func (n *Node) Callback(prop string) (core.Callback, bool) {
	cb, is := n.Props[prop].(core.Callback)
	return cb, is
}

// Callbacks returns the sorted names of the properties that are
// Callbacks.
func (n *Node) Callbacks() []string {
	acc := make([]string, 0, len(n.Props))
	for name, x := range n.Props {
		if _, is := x.(core.Callback); is {
			acc = append(acc, name)
		}
	}
	sort.Strings(acc)
	return acc
}

// Find does a depth-first search for the node with the given "id"
// property.  An empty id finds the receiver.
func (n *Node) Find(id string) *Node {
	if n == nil {
		return nil
	}
	if id == "" {
		return n
	}
	if s, _ := n.Props[IdKey].(string); s == id {
		return n
	}
	for _, name := range sortedSlotNames(n.Slots) {
		for _, child := range n.Slots[name] {
			if found := child.Find(id); found != nil {
				return found
			}
		}
	}
	return nil
}

// MarshalJSON shows Callbacks as "function".
func (n *Node) MarshalJSON() ([]byte, error) {
	props := make(map[string]interface{}, len(n.Props))
	for name, x := range n.Props {
		switch x.(type) {
		case core.Callback:
			props[name] = "function"
		default:
			props[name] = x
		}
	}
	m := map[string]interface{}{
		"props": props,
	}
	if n.Type != "" {
		m["type"] = n.Type
	}
	if 0 < len(n.Slots) {
		m["slots"] = n.Slots
	}
	return json.Marshal(&m)
}

func sortedSlotNames(slots map[string][]*Node) []string {
	acc := make([]string, 0, len(slots))
	for name := range slots {
		acc = append(acc, name)
	}
	sort.Strings(acc)
	return acc
}
