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

package main

import (
	"context"
	"fmt"
	"log"

	"github.com/Comcast/blox/core"
	"github.com/Comcast/blox/render"
	. "github.com/Comcast/blox/util/testutil"
)

// SOp is a Service Operation.
//
// Only one of Make, Rem, List, Render, Trigger, SetVars, or GetVars
// should have value.  Do fills in the results.
type SOp struct {
	// Make creates a session.
	Make *MakeOp `json:"make,omitempty" yaml:",omitempty"`

	// Rem gives the id of the session to be removed.
	Rem string `json:"rem,omitempty" yaml:",omitempty"`

	// List reports the session ids.
	List *ListOp `json:"list,omitempty" yaml:",omitempty"`

	Render  *RenderOp  `json:"render,omitempty" yaml:",omitempty"`
	Trigger *TriggerOp `json:"trigger,omitempty" yaml:",omitempty"`
	SetVars *SetVarsOp `json:"setVars,omitempty" yaml:",omitempty"`
	GetVars *GetVarsOp `json:"getVars,omitempty" yaml:",omitempty"`

	// ReplyTo optionally gives the MQTT topic for the reply.
	ReplyTo string `json:"replyTo,omitempty" yaml:",omitempty"`

	// Error will hold an error (if any) that results from
	// processing this operation.
	Error error `json:"-" yaml:"-"`

	// Err will hold a string representation of an error (if any)
	// that results from processing this operation.
	Err string `json:"err,omitempty" yaml:",omitempty"`

	// Blox has the parts of a core.BloxError, if that's what
	// Error is.
	Blox *ErrorReport `json:"blox,omitempty" yaml:",omitempty"`
}

// ErrorReport presents a core.BloxError.
type ErrorReport struct {
	Kind    string             `json:"kind"`
	Title   string             `json:"title"`
	Debug   string             `json:"debug"`
	Context *core.ErrorContext `json:"context,omitempty"`
}

// erred records the error in the operation.
func (o *SOp) erred(err error) {
	if err == nil {
		return
	}
	o.Error = err
	o.Err = err.Error()
	if be := core.AsBloxError(err); be != nil {
		o.Blox = &ErrorReport{
			Kind:    be.Kind.String(),
			Title:   be.Title,
			Debug:   be.DebugMessage,
			Context: be.Context,
		}
	}
}

func (o *SOp) Do(ctx context.Context, s *Service) error {
	var err error
	switch {
	case o.Make != nil:
		err = o.Make.Do(ctx, s)
	case o.Rem != "":
		err = s.RemSession(ctx, o.Rem)
	case o.List != nil:
		err = o.List.Do(ctx, s)
	case o.Render != nil:
		err = o.Render.Do(ctx, s)
	case o.Trigger != nil:
		err = o.Trigger.Do(ctx, s)
	case o.SetVars != nil:
		err = o.SetVars.Do(ctx, s)
	case o.GetVars != nil:
		err = o.GetVars.Do(ctx, s)
	default:
		err = fmt.Errorf("not implemented: %s", JS(o))
	}

	if err != nil && o.Error == nil {
		o.erred(err)
	}

	if o.Error != nil {
		log.Printf("op error %s", o.Err)
	}

	return o.Error
}

type MakeOp struct {
	Id   string                 `json:"id"`
	View map[string]interface{} `json:"view"`
	Vars map[string]interface{} `json:"vars,omitempty" yaml:",omitempty"`
}

func (o *MakeOp) Do(ctx context.Context, s *Service) error {
	return s.MakeSession(ctx, o.Id, o.View, o.Vars)
}

type ListOp struct {
	Ids []string `json:"ids"`
}

func (o *ListOp) Do(ctx context.Context, s *Service) error {
	ids, err := s.Sessions(ctx)
	if err != nil {
		return err
	}
	o.Ids = ids
	return nil
}

type RenderOp struct {
	Id   string       `json:"id"`
	Node *render.Node `json:"node,omitempty" yaml:",omitempty"`
}

func (o *RenderOp) Do(ctx context.Context, s *Service) error {
	n, err := s.Render(ctx, o.Id)
	if err != nil {
		return err
	}
	o.Node = n
	return nil
}

// TriggerOp invokes a Callback.
type TriggerOp struct {
	Id string `json:"id"`

	// NodeId is the node's "id" property.  Empty means the root.
	NodeId string `json:"node,omitempty" yaml:",omitempty"`

	// Prop is the Callback's property name (like "onClicked").
	Prop string        `json:"prop"`
	Args []interface{} `json:"args,omitempty" yaml:",omitempty"`

	Node *render.Node `json:"result,omitempty" yaml:",omitempty"`
}

func (o *TriggerOp) Do(ctx context.Context, s *Service) error {
	n, err := s.Trigger(ctx, o.Id, o.NodeId, o.Prop, o.Args...)
	if err != nil {
		return err
	}
	o.Node = n
	return nil
}

type SetVarsOp struct {
	Id   string                 `json:"id"`
	Vars map[string]interface{} `json:"vars"`

	Node *render.Node `json:"result,omitempty" yaml:",omitempty"`
}

func (o *SetVarsOp) Do(ctx context.Context, s *Service) error {
	n, err := s.SetVariables(ctx, o.Id, o.Vars)
	if err != nil {
		return err
	}
	o.Node = n
	return nil
}

type GetVarsOp struct {
	Id   string     `json:"id"`
	Vars core.Scope `json:"vars,omitempty" yaml:",omitempty"`
}

func (o *GetVarsOp) Do(ctx context.Context, s *Service) error {
	vars, err := s.Variables(ctx, o.Id)
	if err != nil {
		return err
	}
	o.Vars = vars
	return nil
}
