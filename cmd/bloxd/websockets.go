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
	"encoding/json"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// WebSockets adds Websockets support to the given mux.
//
// Each client gets a reply to each operation it sends.  Every client
// also gets every session update (from triggers and variable
// changes) via the firehose.
func (s *Service) WebSockets(ctx context.Context, mux *http.ServeMux, port string) error {
	s.firehose = make(chan interface{}, 1024)

	var upgrader = websocket.Upgrader{} // use default options

	conns := sync.Map{}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case x := <-s.firehose:
				conns.Range(func(k, v interface{}) bool {
					c := v.(chan interface{})
					select {
					case c <- x:
					default:
						log.Printf("%v firehose blocked", k)
					}
					return true
				})
			}
		}
	}()

	api := func(w http.ResponseWriter, r *http.Request) {
		c, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Println("upgrade error", err)
			return
		}
		defer c.Close()

		ctl := make(chan bool)
		defer close(ctl)

		// The writer goroutine is the only one that writes to
		// the connection.
		out := make(chan interface{}, 32)

		id := c.RemoteAddr().String()
		conns.Store(id, out)
		defer conns.Delete(id)

		go func() {
			mt := websocket.TextMessage

		LOOP:
			for {
				select {
				case <-ctl:
					break LOOP
				case <-ctx.Done():
					break LOOP
				case x := <-out:
					js, err := json.Marshal(&x)
					if err != nil {
						log.Printf("Marshal error %v on %#v", err, x)
						continue
					}
					if err = c.WriteMessage(mt, js); err != nil {
						log.Println("write error", err)
					}
				}
			}
		}()

		for {
			_, message, err := c.ReadMessage()
			if err != nil {
				if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					log.Println("read error", err)
				}
				break
			}

			var op SOp
			if err := json.Unmarshal(message, &op); err != nil {
				if !send(ctx, out, map[string]string{
					"err": fmt.Sprintf("can't parse: %v", err),
				}) {
					return
				}
				continue
			}
			op.Do(ctx, s)
			if !send(ctx, out, map[string]*SOp{"op": &op}) {
				return
			}
		}
	}

	var uiTemplate = template.Must(template.New("").Parse(`
<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<script>
window.addEventListener("load", function(evt) {

    var output = document.getElementById("output");
    var input = document.getElementById("input");
    var ws;

    var print = function(message) {
        var d = document.createElement("div");
        d.textContent = message;
        output.insertBefore(d, output.firstChild);
    };

    document.getElementById("open").onclick = function(evt) {
        if (ws) {
            return false;
        }
        ws = new WebSocket("ws://{{.}}/ws/api");
        ws.onopen = function(evt) {
            print("OPEN");
        }
        ws.onclose = function(evt) {
            print("CLOSE");
            ws = null;
        }
        ws.onmessage = function(evt) {
            print("RESPONSE: " + evt.data);
        }
        ws.onerror = function(evt) {
            print("ERROR: " + evt.data);
        }
        return false;
    };

    document.getElementById("send").onclick = function(evt) {
        if (!ws) {
            return false;
        }
        print("SEND: " + input.value);
        ws.send(input.value);
        return false;
    };

    document.getElementById("close").onclick = function(evt) {
        if (!ws) {
            return false;
        }
        ws.close();
        return false;
    };

});
</script>
<style>
body { margin: 2em }
</style>
</head>
<body>
<form>
<button id="open">Open connection</button>
<button id="close">Close connection</button>
<br><input id="input" size="100" type="text" value='{"trigger":{"id":"button","node":"button","prop":"onClicked"}}'>
<br><button id="send">Send</button>
<hr>
<div id="output"></div>
</body>
</html>
`))

	ui := func(w http.ResponseWriter, r *http.Request) {
		uiTemplate.Execute(w, "localhost"+port)
	}

	mux.HandleFunc("/ws/api", api)
	mux.HandleFunc("/ws/ui", ui)

	log.Printf("Service (%s) has Websockets", port)

	return nil
}

// send queues x for a connection's writer.  Returns false if ctx is
// done first, since the writer won't be draining out any more.
func send(ctx context.Context, out chan interface{}, x interface{}) bool {
	select {
	case out <- x:
		return true
	case <-ctx.Done():
		return false
	}
}
