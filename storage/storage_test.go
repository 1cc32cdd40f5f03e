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
	"errors"
	"path/filepath"
	"testing"
)

func TestImpl(t *testing.T) {
	var _ Storage = &NoopStorage{}
	var _ Storage = &JSONStore{}
}

func TestNoop(t *testing.T) {
	ctx := context.Background()
	s := &NoopStorage{}
	if err := s.WriteSession(ctx, &Session{Id: "a"}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.GetSession(ctx, "a"); !errors.Is(err, NotFound) {
		t.Fatal(err)
	}
}

func TestJSONStore(t *testing.T) {
	var (
		ctx      = context.Background()
		filename = filepath.Join(t.TempDir(), "sessions.json")
		s        = NewJSONStore(filename)
	)

	if err := s.Open(ctx); err != nil {
		t.Fatal(err)
	}

	sess := &Session{
		Id: "homer",
		View: map[string]interface{}{
			"type":          "button",
			"event:clicked": `setVariable("didClick", true)`,
		},
		Variables: map[string]interface{}{
			"didClick": false,
			"likes":    "tacos",
		},
	}
	if err := s.WriteSession(ctx, sess); err != nil {
		t.Fatal(err)
	}
	sess.Variables["likes"] = "queso"

	got, err := s.GetSession(ctx, "homer")
	if err != nil {
		t.Fatal(err)
	}
	if got.Id != "homer" {
		t.Fatal(got.Id)
	}
	if x := got.Variables["likes"]; x != "tacos" {
		t.Fatal(x)
	}

	if err = s.Close(ctx); err != nil {
		t.Fatal(err)
	}

	// Reopen from the file.
	s = NewJSONStore(filename)
	if err = s.Open(ctx); err != nil {
		t.Fatal(err)
	}
	ids, err := s.Sessions(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 1 || ids[0] != "homer" {
		t.Fatal(ids)
	}
	if got, err = s.GetSession(ctx, "homer"); err != nil {
		t.Fatal(err)
	}
	if x := got.View["type"]; x != "button" {
		t.Fatal(x)
	}

	if err = s.RemSession(ctx, "homer"); err != nil {
		t.Fatal(err)
	}
	if _, err = s.GetSession(ctx, "homer"); !errors.Is(err, NotFound) {
		t.Fatal(err)
	}
}
