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

package bolt

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/Comcast/blox/storage"
)

func TestImpl(t *testing.T) {
	var _ storage.Storage = &Storage{}
}

func TestBasics(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "storage.db")

	s, err := NewStorage(filename)
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if _, err := s.GetSession(ctx, "a"); !errors.Is(err, NotOpen) {
		t.Fatal(err)
	}

	if err := s.Open(ctx); err != nil {
		t.Fatal(err)
	}

	defer func() {
		if err := s.Close(ctx); err != nil {
			t.Fatal(err)
		}
	}()

	write := func(id, likes string) {
		sess := &storage.Session{
			Id: id,
			View: map[string]interface{}{
				"type": "label",
			},
			Variables: map[string]interface{}{
				"likes": likes,
			},
		}
		if err := s.WriteSession(ctx, sess); err != nil {
			t.Fatal(err)
		}
	}

	check := func(who, what string) {
		got, err := s.GetSession(ctx, who)
		if what == "" {
			if !errors.Is(err, storage.NotFound) {
				t.Fatalf("%s: %v", who, err)
			}
			return
		}
		if err != nil {
			t.Fatal(err)
		}
		if got.Id != who {
			t.Fatal(got.Id)
		}
		if likes := got.Variables["likes"]; likes != what {
			t.Fatalf(`"%s" != "%s"`, likes, what)
		}
	}

	write("a", "tacos")
	write("b", "queso")

	check("a", "tacos")
	check("b", "queso")

	write("a", "chips")

	check("a", "chips")
	check("b", "queso")

	ids, err := s.Sessions(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 2 || ids[0] != "a" || ids[1] != "b" {
		t.Fatal(ids)
	}

	if err := s.RemSession(ctx, "a"); err != nil {
		t.Fatal(err)
	}

	check("a", "")
	check("b", "queso")

	if err := s.WriteSession(ctx, &storage.Session{}); err == nil {
		t.Fatal("expected an error")
	}
}

// BenchmarkBolt is just for fun.  Bolt is slow.
func BenchmarkBolt(b *testing.B) {
	filename := filepath.Join(b.TempDir(), "storage.db")

	s, err := NewStorage(filename)
	if err != nil {
		b.Fatal(err)
	}

	ctx := context.Background()

	if err := s.Open(ctx); err != nil {
		b.Fatal(err)
	}

	defer func() {
		if err := s.Close(ctx); err != nil {
			b.Fatal(err)
		}
	}()

	sess := &storage.Session{
		Id: "a",
		Variables: map[string]interface{}{
			"likes": "tacos",
		},
	}

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		var err error
		if i%2 == 0 {
			err = s.WriteSession(ctx, sess)
		} else {
			_, err = s.GetSession(ctx, "a")
		}
		if err != nil {
			b.Fatal(err)
		}
	}
}
