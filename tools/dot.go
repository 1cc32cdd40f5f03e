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
	"fmt"
	"io"
	"os"
	"os/exec"
	"sort"
	"strings"

	"github.com/Comcast/blox/core"
	"github.com/Comcast/blox/render"

	"gopkg.in/yaml.v2"
)

// Dot writes a Graphviz dot file for the given view.  Each node shows
// its type, its id, and its bindings (as YAML).  Edges go from a node
// to the nodes in its slots.
//
// The optional highlight is a node id to draw in red.
func Dot(v render.View, ds []*core.Directive, w io.Writer, highlight string) error {
	if ds == nil {
		ds = core.StandardDirectives()
	}

	fmt.Fprintf(w, "digraph G {\n")
	fmt.Fprintf(w, `  graph [ordering=out,rankdir=TB,nodesep=0.3,ranksep=0.6]
  node [shape="record" style="rounded,filled"]
  edge [fontsize = "12"]
`)

	n := 0
	var node func(v render.View) (string, error)
	node = func(v render.View) (string, error) {
		name := fmt.Sprintf("n%d", n)
		n++

		id, _ := v[render.IdKey].(string)

		label := escape(v.Type())
		if label == "" {
			label = "?"
		}
		if id != "" {
			label += " <I>" + escape(id) + "</I>"
		}

		bindings := make(map[string]string)
		callbacks := false
		for k, x := range v {
			for _, d := range ds {
				if d.Owns(k) {
					bindings[k] = fmt.Sprint(x)
					if d.Mode == core.CallbackMode {
						callbacks = true
					}
				}
			}
		}
		if 0 < len(bindings) {
			js, err := yaml.Marshal(bindings)
			if err != nil {
				js = []byte(err.Error())
			}
			label += `<FONT POINT-SIZE="8"><BR/>` +
				strings.Replace(escape(string(js)), "\n", `<BR ALIGN="LEFT"/>`, -1) +
				`</FONT>`
		}

		var (
			color     = "black"
			fillcolor = "#99ddc8"
			shape     = "record"
		)
		if callbacks {
			fillcolor = "#2d93ad"
			shape = "note"
		}
		if id != "" && id == highlight {
			color = "red"
			fillcolor = "#f98b8b"
		}
		fmt.Fprintf(w, "  %s [shape=\"%s\", color=\"%s\", fillcolor=\"%s\", label=<%s> ]\n",
			name, shape, color, fillcolor, label)

		slots, err := v.Slots()
		if err != nil {
			return "", err
		}
		slotNames := make([]string, 0, len(slots))
		for s := range slots {
			slotNames = append(slotNames, s)
		}
		sort.Strings(slotNames)
		for _, s := range slotNames {
			for i, child := range slots[s] {
				c, err := node(child)
				if err != nil {
					return "", err
				}
				fmt.Fprintf(w, "  %s -> %s [ label = <%s %d> ]\n", name, c, escape(s), i)
			}
		}
		return name, nil
	}

	if _, err := node(v); err != nil {
		return err
	}

	fmt.Fprintf(w, "}\n")
	return nil
}

// PNG generates a PNG image based on output from Dot.
//
// This function with write two files: basename.dot and basename.png,
// where the basename is the given string.  Requires Graphviz's dot.
func PNG(v render.View, basename string, highlight string) (string, error) {
	dotname := basename + ".dot"
	pngname := basename + ".png"

	dotfile, err := os.Create(dotname)
	if err != nil {
		return pngname, err
	}
	if err := Dot(v, nil, dotfile, highlight); err != nil {
		dotfile.Close()
		return pngname, err
	}
	if err = dotfile.Close(); err != nil {
		return pngname, err
	}
	if err := exec.Command("dot", "-Tpng", "-o", pngname, dotname).Run(); err != nil {
		return pngname, err
	}
	return pngname, nil
}

func escape(s string) string {
	s = strings.Replace(s, "&", `&amp;`, -1)
	s = strings.Replace(s, "<", `&lt;`, -1)
	s = strings.Replace(s, ">", `&gt;`, -1)
	return s
}
