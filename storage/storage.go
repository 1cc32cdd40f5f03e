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

// Package storage persists host sessions: a view and its live
// variables.
package storage

import (
	"context"
	"errors"
)

// NotFound is returned when there's no session with the given id.
var NotFound = errors.New("session not found")

// Session is a presentation of a host's state as stored in a
// Storage system.
type Session struct {
	// Id is the id for the session.
	Id string `json:"id,omitempty" yaml:"id,omitempty"`

	View      map[string]interface{} `json:"view,omitempty" yaml:"view,omitempty"`
	Variables map[string]interface{} `json:"vars" yaml:"vars"`
}

// Storage is a persistence interface that's suitable for hosts.
type Storage interface {
	Open(ctx context.Context) error
	Close(ctx context.Context) error

	// GetSession returns NotFound if there's no such session.
	GetSession(ctx context.Context, id string) (*Session, error)

	WriteSession(ctx context.Context, s *Session) error

	RemSession(ctx context.Context, id string) error

	// Sessions returns the ids of the stored sessions.
	Sessions(ctx context.Context) ([]string, error)
}
