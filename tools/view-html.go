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
	"encoding/json"
	"fmt"
	"html"
	"io"
	"io/ioutil"
	"sort"

	"github.com/Comcast/blox/core"
	"github.com/Comcast/blox/render"

	md "github.com/russross/blackfriday/v2"
)

// RenderViewHTML writes an HTML table that documents the view's
// nodes and their bindings.  Node docs are Markdown.
func RenderViewHTML(v render.View, ds []*core.Directive, out io.Writer) error {
	a, err := Analyze(v, ds)
	if err != nil {
		return err
	}

	bindings := make(map[string][]Binding)
	for _, b := range a.Bindings {
		bindings[b.Path] = append(bindings[b.Path], b)
	}

	f := func(format string, args ...interface{}) {
		fmt.Fprintf(out, format+"\n", args...)
	}

	var node func(path string, v render.View)
	node = func(path string, v render.View) {
		f(`<tr class="node"><td><span class="nodePath">%s</span></td><td>`, html.EscapeString(path))
		if typ := v.Type(); typ != "" {
			f(`<div>type: <span class="nodeType">%s</span></div>`, html.EscapeString(typ))
		}
		if doc := v.Doc(); doc != "" {
			f(`<div class="nodeDoc doc">%s</div>`, md.Run([]byte(doc)))
		}
		if bs := bindings[path]; 0 < len(bs) {
			f(`<div class="bindings"><table>`)
			for _, b := range bs {
				prop := b.PropName
				if prop == "" {
					prop = "(empty)"
				}
				f(`<tr><td class="directive">%s</td><td><code>%s</code></td><td><div class="code"><pre>%s</pre></div></td></tr>`,
					b.Directive, html.EscapeString(prop), html.EscapeString(b.Expression))
			}
			f(`</table></div>`)
		}
		f(`</td></tr>`)

		slots, err := v.Slots()
		if err != nil {
			return
		}
		names := make([]string, 0, len(slots))
		for name := range slots {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			for i, child := range slots[name] {
				node(fmt.Sprintf("%sslots/%s/%d/", path, name, i), child)
			}
		}
	}

	f(`<div class="nodes"><table>`)
	node("/", v)
	f(`</table></div>`)

	if !a.OK() {
		f(`<div class="problems"><ul>`)
		for _, s := range a.Errors {
			f(`<li>error: %s</li>`, html.EscapeString(s))
		}
		for _, s := range a.EmptyNames {
			f(`<li>empty name: %s</li>`, html.EscapeString(s))
		}
		for _, s := range a.UnsafeExpressions {
			f(`<li>unsafe expression: %s</li>`, html.EscapeString(s))
		}
		f(`</ul></div>`)
	}

	return nil
}

// RenderViewPage writes a complete HTML page.
func RenderViewPage(title string, v render.View, out io.Writer, cssFiles []string) error {
	if cssFiles == nil {
		cssFiles = []string{"/static/view-html.css"}
	}

	js, err := json.Marshal(v)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, `<!DOCTYPE html>
<meta charset="utf-8">
<html>
  <head>
  <title>%s</title>
  <script>
  var thisView = %s;
  </script>
`, html.EscapeString(title), js)

	for _, cssFile := range cssFiles {
		fmt.Fprintf(out, "  <link href=\"%s\" rel=\"stylesheet\">\n", cssFile)
	}

	fmt.Fprintf(out, `
  </head>
  <body>
    <h1>%s</h1>
`, html.EscapeString(title))

	if err = RenderViewHTML(v, nil, out); err != nil {
		return err
	}

	fmt.Fprintf(out, `
  </body>
</html>
`)

	return nil
}

func ReadAndRenderViewPage(filename string, cssFiles []string, out io.Writer) error {
	bs, err := ioutil.ReadFile(filename)
	if err != nil {
		return err
	}
	v, err := render.ParseView(bs)
	if err != nil {
		return err
	}
	return RenderViewPage(filename, v, out, cssFiles)
}
