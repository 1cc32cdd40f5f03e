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

import "sync"

// PropSink receives the properties that handlers compute.
type PropSink interface {
	SetProp(name string, value interface{})
}

// SlotSink receives rendered slot contents.
//
// The directive handlers never call SetSlot, but hosts use the same
// sink for both.
type SlotSink interface {
	SetSlot(name string, views []interface{})
}

// Sink is a PropSink that is also a SlotSink.
type Sink interface {
	PropSink
	SlotSink
}

// SinkFuncs adapts a pair of positional callbacks to a Sink.
//
// Either function can be nil.
type SinkFuncs struct {
	Prop func(name string, value interface{})
	Slot func(name string, views []interface{})
}

// SetProp calls Prop if it's there.
func (s SinkFuncs) SetProp(name string, value interface{}) {
	if s.Prop != nil {
		s.Prop(name, value)
	}
}

// SetSlot calls Slot if it's there.
func (s SinkFuncs) SetSlot(name string, views []interface{}) {
	if s.Slot != nil {
		s.Slot(name, views)
	}
}

// Props is a Sink that just remembers what it's told.
type Props struct {
	sync.Mutex

	Props map[string]interface{}
	Slots map[string][]interface{}
}

// NewProps makes an empty Props.
func NewProps() *Props {
	return &Props{
		Props: make(map[string]interface{}),
		Slots: make(map[string][]interface{}),
	}
}

func (p *Props) SetProp(name string, value interface{}) {
	p.Lock()
	p.Props[name] = value
	p.Unlock()
}

func (p *Props) SetSlot(name string, views []interface{}) {
	p.Lock()
	p.Slots[name] = views
	p.Unlock()
}

// Get returns the named property.
func (p *Props) Get(name string) (interface{}, bool) {
	p.Lock()
	x, have := p.Props[name]
	p.Unlock()
	return x, have
}

// Callback returns the named property if it's a Callback.
func (p *Props) Callback(name string) (Callback, bool) {
	x, have := p.Get(name)
	if !have {
		return nil, false
	}
	cb, is := x.(Callback)
	return cb, is
}

// PropUpdate is what a BindingContext's SetProp receives.
type PropUpdate struct {
	PropName string
	Value    interface{}
}

// BindingContext is the bundled form of a Binding Invocation that
// some hosts prefer over positional arguments.
type BindingContext interface {
	Key() string
	Value() interface{}
	Variables() Scope
	SetProp(PropUpdate)
}

// contextSink adapts a BindingContext to a PropSink.
type contextSink struct {
	bc BindingContext
}

func (s contextSink) SetProp(name string, value interface{}) {
	s.bc.SetProp(PropUpdate{
		PropName: name,
		Value:    value,
	})
}
