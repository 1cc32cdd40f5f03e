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
	"errors"
	"fmt"
	"io/ioutil"
	"log"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/Comcast/blox/core"
	"github.com/Comcast/blox/render"
	"github.com/Comcast/blox/storage"
)

// Service hosts sessions.  Each session is a render.Host whose view
// and variables are persisted after every change.
type Service struct {
	sync.Mutex

	Renderer *render.Renderer
	Storage  storage.Storage

	hosts map[string]*render.Host

	// firehose, if not nil, receives session updates for
	// Websocket clients.
	firehose chan interface{}
}

func NewService(r *render.Renderer, st storage.Storage) *Service {
	if st == nil {
		st = &storage.NoopStorage{}
	}
	return &Service{
		Renderer: r,
		Storage:  st,
		hosts:    make(map[string]*render.Host),
	}
}

// Update is what the firehose reports when a session changes.
type Update struct {
	Id   string       `json:"id"`
	Node *render.Node `json:"node,omitempty"`
}

func (s *Service) announce(id string, n *render.Node) {
	if s.firehose == nil {
		return
	}
	select {
	case s.firehose <- map[string]*Update{"update": {Id: id, Node: n}}:
	default:
		log.Printf("s.firehose blocked")
	}
}

// MakeSession creates (or replaces) a session.
func (s *Service) MakeSession(ctx context.Context, id string, v render.View, vars core.Scope) error {
	if id == "" {
		return errors.New("no session id")
	}
	if v == nil {
		return errors.New("no view")
	}
	h := render.NewHost(s.Renderer, v, vars)

	s.Lock()
	s.hosts[id] = h
	s.Unlock()

	return s.save(ctx, id, h)
}

// RemSession forgets the session.
func (s *Service) RemSession(ctx context.Context, id string) error {
	s.Lock()
	delete(s.hosts, id)
	s.Unlock()
	return s.Storage.RemSession(ctx, id)
}

// Sessions returns the ids of the sessions in memory or in storage.
func (s *Service) Sessions(ctx context.Context) ([]string, error) {
	ids, err := s.Storage.Sessions(ctx)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		seen[id] = true
	}
	s.Lock()
	for id := range s.hosts {
		if !seen[id] {
			ids = append(ids, id)
		}
	}
	s.Unlock()
	sort.Strings(ids)
	return ids, nil
}

func (s *Service) findHost(ctx context.Context, id string) (*render.Host, error) {
	s.Lock()
	defer s.Unlock()

	if h, have := s.hosts[id]; have {
		return h, nil
	}

	sess, err := s.Storage.GetSession(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("session %q: %w", id, err)
	}
	v, err := render.AsView(sess.View)
	if err != nil {
		return nil, err
	}
	h := render.NewHost(s.Renderer, v, sess.Variables)
	s.hosts[id] = h
	return h, nil
}

func (s *Service) save(ctx context.Context, id string, h *render.Host) error {
	vars, err := h.Variables()
	if err != nil {
		return err
	}
	return s.Storage.WriteSession(ctx, &storage.Session{
		Id:        id,
		View:      h.View(),
		Variables: vars,
	})
}

func (s *Service) Render(ctx context.Context, id string) (*render.Node, error) {
	h, err := s.findHost(ctx, id)
	if err != nil {
		return nil, err
	}
	return h.Render(ctx)
}

// Trigger invokes a Callback in the session and persists the
// resulting variables.
func (s *Service) Trigger(ctx context.Context, id, node, prop string, args ...interface{}) (*render.Node, error) {
	h, err := s.findHost(ctx, id)
	if err != nil {
		return nil, err
	}
	n, err := h.Trigger(ctx, node, prop, args...)
	if err != nil {
		return nil, err
	}
	if err = s.save(ctx, id, h); err != nil {
		return nil, err
	}
	s.announce(id, n)
	return n, nil
}

func (s *Service) Variables(ctx context.Context, id string) (core.Scope, error) {
	h, err := s.findHost(ctx, id)
	if err != nil {
		return nil, err
	}
	return h.Variables()
}

// SetVariables updates the session's variables, renders, and
// persists.
func (s *Service) SetVariables(ctx context.Context, id string, vars map[string]interface{}) (*render.Node, error) {
	h, err := s.findHost(ctx, id)
	if err != nil {
		return nil, err
	}
	h.SetVariables(vars)
	if err = s.save(ctx, id, h); err != nil {
		return nil, err
	}
	n, err := h.Render(ctx)
	if err != nil {
		return nil, err
	}
	s.announce(id, n)
	return n, nil
}

// LoadViews makes a session for each view file in the directory
// unless storage already has that session.  The session id is the
// filename without its extension.
func (s *Service) LoadViews(ctx context.Context, dir string) error {
	files, err := ioutil.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, f := range files {
		ext := filepath.Ext(f.Name())
		switch ext {
		case ".yaml", ".json":
		default:
			continue
		}
		id := strings.TrimSuffix(f.Name(), ext)
		if _, err := s.Storage.GetSession(ctx, id); err == nil {
			continue
		} else if !errors.Is(err, storage.NotFound) {
			return err
		}
		bs, err := ioutil.ReadFile(filepath.Join(dir, f.Name()))
		if err != nil {
			return err
		}
		v, err := render.ParseView(bs)
		if err != nil {
			return fmt.Errorf("%s: %w", f.Name(), err)
		}
		if err = s.MakeSession(ctx, id, v, nil); err != nil {
			return err
		}
		log.Printf("loaded view %s", id)
	}
	return nil
}
