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

package storage

import (
	"context"
	"encoding/json"
	"io/ioutil"
	"os"
	"sort"
	"sync"
)

// JSONStore is a primitive facility to store sessions as JSON in a
// file.
//
// Not glamorous or efficient.  Every write rewrites the whole file.
type JSONStore struct {
	sync.Mutex

	// Filename is the file that holds the sessions.
	Filename string

	state map[string]*Session
}

func NewJSONStore(filename string) *JSONStore {
	return &JSONStore{
		Filename: filename,
	}
}

// Open reads the file if it exists.
func (s *JSONStore) Open(ctx context.Context) error {
	s.Lock()
	defer s.Unlock()

	s.state = make(map[string]*Session)

	js, err := ioutil.ReadFile(s.Filename)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	if len(js) == 0 {
		return nil
	}
	return json.Unmarshal(js, &s.state)
}

// Close writes the file.
func (s *JSONStore) Close(ctx context.Context) error {
	s.Lock()
	defer s.Unlock()
	return s.write()
}

func (s *JSONStore) write() error {
	if s.state == nil {
		return nil
	}
	js, err := json.MarshalIndent(&s.state, "", "  ")
	if err != nil {
		return err
	}
	return ioutil.WriteFile(s.Filename, js, 0644)
}

func (s *JSONStore) GetSession(ctx context.Context, id string) (*Session, error) {
	s.Lock()
	defer s.Unlock()

	sess, have := s.state[id]
	if !have {
		return nil, NotFound
	}
	// Return a copy via JSON so the caller can't modify our state.
	js, err := json.Marshal(sess)
	if err != nil {
		return nil, err
	}
	var acc Session
	if err = json.Unmarshal(js, &acc); err != nil {
		return nil, err
	}
	acc.Id = id
	return &acc, nil
}

func (s *JSONStore) WriteSession(ctx context.Context, sess *Session) error {
	s.Lock()
	defer s.Unlock()

	if s.state == nil {
		s.state = make(map[string]*Session)
	}

	js, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	var acc Session
	if err = json.Unmarshal(js, &acc); err != nil {
		return err
	}
	acc.Id = ""
	s.state[sess.Id] = &acc

	return s.write()
}

func (s *JSONStore) RemSession(ctx context.Context, id string) error {
	s.Lock()
	defer s.Unlock()

	if _, have := s.state[id]; !have {
		return nil
	}
	delete(s.state, id)
	return s.write()
}

func (s *JSONStore) Sessions(ctx context.Context) ([]string, error) {
	s.Lock()
	defer s.Unlock()

	acc := make([]string, 0, len(s.state))
	for id := range s.state {
		acc = append(acc, id)
	}
	sort.Strings(acc)
	return acc, nil
}
