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
	"io/ioutil"
	"log"
	"net/http"
	"strings"

	"github.com/Comcast/blox/tools"
)

// HTTPHandlers adds the HTTP API to the mux.
//
//	POST /api      body is an SOp; the response is the processed SOp
//	GET  /doc/ID   HTML documentation for the session's view
func (s *Service) HTTPHandlers(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/api", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "POST an op", http.StatusMethodNotAllowed)
			return
		}
		bs, err := ioutil.ReadAll(r.Body)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		var op SOp
		if err = json.Unmarshal(bs, &op); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		status := http.StatusOK
		if err = op.Do(r.Context(), s); err != nil {
			status = http.StatusUnprocessableEntity
		}

		js, err := json.Marshal(&op)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if _, err = w.Write(js); err != nil {
			log.Printf("write error %s", err)
		}
	})

	mux.HandleFunc("/doc/", func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimPrefix(r.URL.Path, "/doc/")
		h, err := s.findHost(r.Context(), id)
		if err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err = tools.RenderViewPage(id, h.View(), w, nil); err != nil {
			log.Printf("doc error %s", err)
		}
	})
}
