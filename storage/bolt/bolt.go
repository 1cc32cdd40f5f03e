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

// Package bolt is a storage.Storage backed by BoltDB.
package bolt

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/Comcast/blox/storage"

	bolt "go.etcd.io/bbolt"
)

var sessionsBucket = []byte("sessions")

// NotOpen is returned when the Storage hasn't been opened.
var NotOpen = errors.New("storage not open")

type Storage struct {
	Debug bool

	// Timeout is how long Open waits for the file lock.
	Timeout time.Duration

	filename string
	db       *bolt.DB
}

func NewStorage(filename string) (*Storage, error) {
	if filename == "" {
		return nil, errors.New("no filename")
	}
	return &Storage{
		filename: filename,
		Timeout:  time.Second,
	}, nil
}

func (s *Storage) Open(ctx context.Context) error {
	opts := &bolt.Options{
		Timeout: s.Timeout,
	}

	db, err := bolt.Open(s.filename, 0644, opts)
	if err != nil {
		return err
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(sessionsBucket)
		return err
	})
	if err != nil {
		db.Close()
		return err
	}
	s.db = db
	return nil
}

func (s *Storage) Close(ctx context.Context) error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *Storage) logf(format string, args ...interface{}) {
	if s.Debug {
		log.Printf("BoltDB Storage."+format, args...)
	}
}

func (s *Storage) GetSession(ctx context.Context, id string) (*storage.Session, error) {
	s.logf("GetSession %s", id)
	if s.db == nil {
		return nil, NotOpen
	}

	var sess *storage.Session
	err := s.db.View(func(tx *bolt.Tx) error {
		bs := tx.Bucket(sessionsBucket).Get([]byte(id))
		if bs == nil {
			return storage.NotFound
		}
		sess = &storage.Session{}
		return json.Unmarshal(bs, sess)
	})
	if err != nil {
		return nil, err
	}
	sess.Id = id
	return sess, nil
}

func (s *Storage) WriteSession(ctx context.Context, sess *storage.Session) error {
	s.logf("WriteSession %s", sess.Id)
	if s.db == nil {
		return NotOpen
	}
	if sess.Id == "" {
		return errors.New("session has no id")
	}

	// To save some space, remove id.
	js, err := json.Marshal(&storage.Session{
		View:      sess.View,
		Variables: sess.Variables,
	})
	if err != nil {
		return err
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(sessionsBucket).Put([]byte(sess.Id), js)
	})
}

func (s *Storage) RemSession(ctx context.Context, id string) error {
	s.logf("RemSession %s", id)
	if s.db == nil {
		return NotOpen
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(sessionsBucket).Delete([]byte(id))
	})
}

func (s *Storage) Sessions(ctx context.Context) ([]string, error) {
	if s.db == nil {
		return nil, NotOpen
	}
	acc := make([]string, 0, 32)
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(sessionsBucket).Cursor()
		for id, _ := c.First(); id != nil; id, _ = c.Next() {
			acc = append(acc, string(id))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logf("Sessions found %d", len(acc))
	return acc, nil
}
