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

package tools

import (
	"bytes"
	"strings"
	"testing"
)

func TestDot(t *testing.T) {
	out := bytes.NewBuffer(make([]byte, 0, 1024*16))

	if err := Dot(readView(t, "../views/list.yaml"), nil, out, "second"); err != nil {
		t.Fatal(err)
	}

	s := out.String()
	if !strings.HasPrefix(s, "digraph G {") {
		t.Fatal(s)
	}
	if n := strings.Count(s, " -> "); n != 2 {
		t.Fatal(n, s)
	}
	if !strings.Contains(s, `color="red"`) {
		t.Fatal(s)
	}
	if !strings.Contains(s, "compute:title") {
		t.Fatal(s)
	}
}
