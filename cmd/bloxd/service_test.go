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
	"bytes"
	"context"
	"encoding/json"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Comcast/blox/core"

	"github.com/gorilla/websocket"
)

func testService(t *testing.T, ctx context.Context, store string) *Service {
	cfg := DefaultConfig()
	cfg.StoreFile = store
	cfg.ViewsDir = "../../views"
	s, err := makeService(ctx, cfg)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func do(t *testing.T, ctx context.Context, s *Service, js string) *SOp {
	var op SOp
	if err := json.Unmarshal([]byte(js), &op); err != nil {
		t.Fatal(err)
	}
	op.Do(ctx, s)
	return &op
}

func TestService(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := filepath.Join(t.TempDir(), "sessions.json")
	s := testService(t, ctx, store)

	op := do(t, ctx, s, `{"list":{}}`)
	if op.Error != nil {
		t.Fatal(op.Error)
	}
	if ids := op.List.Ids; len(ids) != 3 || ids[0] != "button" {
		t.Fatal(ids)
	}

	op = do(t, ctx, s, `{"render":{"id":"button"}}`)
	if op.Error != nil {
		t.Fatal(op.Error)
	}
	if x := op.Render.Node.Props["label"]; x != "Click me" {
		t.Fatal(x)
	}

	op = do(t, ctx, s, `{"trigger":{"id":"button","node":"button","prop":"onClicked"}}`)
	if op.Error != nil {
		t.Fatal(op.Error)
	}
	if x := op.Trigger.Node.Props["label"]; x != "Clicked" {
		t.Fatal(x)
	}

	if err := s.Storage.Close(ctx); err != nil {
		t.Fatal(err)
	}

	// A new service should see the clicked state.
	s = testService(t, ctx, store)
	defer s.Storage.Close(ctx)

	op = do(t, ctx, s, `{"getVars":{"id":"button"}}`)
	if op.Error != nil {
		t.Fatal(op.Error)
	}
	if x := op.GetVars.Vars["didClick"]; x != true {
		t.Fatal(op.GetVars.Vars)
	}

	op = do(t, ctx, s, `{"setVars":{"id":"button","vars":{"didClick":false}}}`)
	if op.Error != nil {
		t.Fatal(op.Error)
	}
	if x := op.SetVars.Node.Props["label"]; x != "Click me" {
		t.Fatal(x)
	}

	op = do(t, ctx, s, `{"rem":"button"}`)
	if op.Error != nil {
		t.Fatal(op.Error)
	}
	if op = do(t, ctx, s, `{"render":{"id":"button"}}`); op.Error == nil {
		t.Fatal("expected an error")
	}
}

func TestServiceBloxErrors(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := testService(t, ctx, "")

	op := do(t, ctx, s, `{"render":{"id":"unsafe"}}`)
	if op.Blox == nil {
		t.Fatal(op.Err)
	}
	if op.Blox.Kind != core.EmptyNameError.String() {
		t.Fatal(op.Blox.Kind)
	}

	op = do(t, ctx, s, `{"make":{"id":"bad","view":{"type":"button","on:clicked":"__proto__"}}}`)
	if op.Error != nil {
		t.Fatal(op.Error)
	}
	op = do(t, ctx, s, `{"render":{"id":"bad"}}`)
	if op.Blox == nil || op.Blox.Kind != core.UnsafeExpressionError.String() {
		t.Fatal(op.Err)
	}
	if op.Blox.Context == nil || op.Blox.Context.Key != "on:clicked" {
		t.Fatal(op.Blox.Context)
	}

	if op = do(t, ctx, s, `{}`); op.Error == nil {
		t.Fatal("expected an error")
	}
}

func TestHTTP(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := testService(t, ctx, "")
	mux := http.NewServeMux()
	s.HTTPHandlers(ctx, mux)

	srv := httptest.NewServer(mux)
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api", "application/json",
		bytes.NewBufferString(`{"render":{"id":"button"}}`))
	if err != nil {
		t.Fatal(err)
	}
	bs, err := ioutil.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatal(resp.StatusCode, string(bs))
	}
	if !strings.Contains(string(bs), `"onClicked":"function"`) {
		t.Fatal(string(bs))
	}

	if resp, err = http.Get(srv.URL + "/doc/button"); err != nil {
		t.Fatal(err)
	}
	bs, err = ioutil.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(bs), "remembers whether it was clicked") {
		t.Fatal(string(bs))
	}

	if resp, err = http.Get(srv.URL + "/doc/nope"); err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatal(resp.StatusCode)
	}
}

func TestWebSockets(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := testService(t, ctx, "")
	mux := http.NewServeMux()
	if err := s.WebSockets(ctx, mux, ":0"); err != nil {
		t.Fatal(err)
	}

	srv := httptest.NewServer(mux)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/api"
	c, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	op := `{"trigger":{"id":"button","node":"button","prop":"onClicked"}}`
	if err = c.WriteMessage(websocket.TextMessage, []byte(op)); err != nil {
		t.Fatal(err)
	}

	var gotOp, gotUpdate bool
	c.SetReadDeadline(time.Now().Add(5 * time.Second))
	for !gotOp || !gotUpdate {
		_, bs, err := c.ReadMessage()
		if err != nil {
			t.Fatal(err)
		}
		var m map[string]json.RawMessage
		if err = json.Unmarshal(bs, &m); err != nil {
			t.Fatal(err)
		}
		if js, have := m["op"]; have {
			gotOp = true
			if !strings.Contains(string(js), `"label":"Clicked"`) {
				t.Fatal(string(js))
			}
		}
		if _, have := m["update"]; have {
			gotUpdate = true
		}
	}

	if err = c.WriteMessage(websocket.TextMessage, []byte("nope")); err != nil {
		t.Fatal(err)
	}
	_, bs, err := c.ReadMessage()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(bs), "can't parse") {
		t.Fatal(string(bs))
	}
}

func TestSendAfterDone(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	out := make(chan interface{}, 1)
	if !send(ctx, out, 1) {
		t.Fatal("send to an open channel failed")
	}

	cancel()

	// out is full and nobody is reading it.
	done := make(chan bool)
	go func() {
		done <- send(ctx, out, 2)
	}()
	select {
	case sent := <-done:
		if sent {
			t.Fatal("sent to a full channel")
		}
	case <-time.After(time.Second):
		t.Fatal("send blocked after cancel")
	}
}

func TestMQTTHandle(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c := &MQTTCouplings{
		PubTopic:  "blox/out:1",
		InTimeout: time.Second,
		s:         testService(t, ctx, ""),
	}

	topic, qos, js := c.handle(ctx, []byte(`{"render":{"id":"button"}}`))
	if topic != "blox/out" || qos != 1 {
		t.Fatal(topic, qos)
	}
	if !strings.Contains(string(js), `"label":"Click me"`) {
		t.Fatal(string(js))
	}

	topic, _, js = c.handle(ctx, []byte(`{"render":{"id":"nope"},"replyTo":"me"}`))
	if topic != "me" {
		t.Fatal(topic)
	}
	if !strings.Contains(string(js), `"err"`) {
		t.Fatal(string(js))
	}

	if _, _, js = c.handle(ctx, []byte(`nope`)); !strings.Contains(string(js), `"err"`) {
		t.Fatal(string(js))
	}
}

func TestParseTopic(t *testing.T) {
	for s, want := range map[string]struct {
		topic string
		qos   byte
	}{
		"blox/in":   {"blox/in", 0},
		"blox/in:1": {"blox/in", 1},
		"blox/in:2": {"blox/in", 2},
		"blox/in:x": {"blox/in:x", 0},
		" a:1 ":     {"a", 1},
		"":          {"", 0},
	} {
		topic, qos := parseTopic(s)
		if topic != want.topic || qos != want.qos {
			t.Fatalf("%q: %q %d", s, topic, qos)
		}
	}
}

func TestParseConfig(t *testing.T) {
	cfg, err := ParseConfig([]byte(`
http: ":9090"
store: blox.db
mqtt:
  broker: tcp://broker
  pub: replies
  inTimeout: 2s
`))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.HTTPPort != ":9090" || !cfg.WebSockets || cfg.Interpreter != "goja" {
		t.Fatal(cfg)
	}
	if cfg.MQTT == nil {
		t.Fatal("no MQTT")
	}
	if cfg.MQTT.Broker != "tcp://broker" || cfg.MQTT.Port != 1883 || cfg.MQTT.SubTopics != "blox/in" {
		t.Fatal(cfg.MQTT)
	}
	if cfg.MQTT.PubTopic != "replies" || cfg.MQTT.InTimeout != 2*time.Second {
		t.Fatal(cfg.MQTT)
	}
	if err = cfg.Check(); err != nil {
		t.Fatal(err)
	}

	if _, err = ParseConfig([]byte(`htp: ":9090"`)); err == nil {
		t.Fatal("expected an error for an unknown key")
	}

	cfg = DefaultConfig()
	cfg.HTTPPort = ""
	if err = cfg.Check(); err == nil {
		t.Fatal("expected an error")
	}
}

func TestConfigStorage(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	for _, name := range []string{"", "s.json", "s.db"} {
		cfg := DefaultConfig()
		if name != "" {
			cfg.StoreFile = filepath.Join(dir, name)
		}
		st, err := cfg.Storage()
		if err != nil {
			t.Fatal(err)
		}
		if err = st.Open(ctx); err != nil {
			t.Fatal(err)
		}
		if err = st.Close(ctx); err != nil {
			t.Fatal(err)
		}
	}
}
