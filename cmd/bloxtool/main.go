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

// Package main is a command-line tool for views.
//
// Subcommands read a view (YAML or JSON) from stdin unless a file is
// given.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io/ioutil"
	"os"

	"github.com/Comcast/blox/core"
	"github.com/Comcast/blox/interpreters"
	"github.com/Comcast/blox/render"
	"github.com/Comcast/blox/tools"
	"github.com/Comcast/blox/tools/expect"
	"github.com/Comcast/blox/util"

	"github.com/jsccast/yaml"
)

func main() {
	if len(os.Args) < 2 {
		Usage()
		os.Exit(1)
	}

	var err error

	switch os.Args[1] {
	case "analyze":
		err = analyze(os.Args[2:])
	case "html":
		err = page(os.Args[2:])
	case "dot":
		err = dot(os.Args[2:])
	case "yamltojson":
		err = yamlToJSON(os.Args[2:])
	case "jsontoyaml":
		err = jsonToYAML(os.Args[2:])
	case "expect":
		err = runExpect(os.Args[2:])
	default:
		fmt.Printf("Unknown subcommand \"%s\"\n", os.Args[1])
		Usage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func Usage() {
	fmt.Printf(`Subcommands:

  analyze [FILENAME]     report bindings and problems as JSON
  html [-css URL] [FILENAME]
                         render documentation as an HTML page
  dot [-hl ID] [FILENAME]
                         write a Graphviz dot file for the view
  yamltojson [-p] [FILENAME]
                         convert a view to JSON (-p to pretty-print)
  jsontoyaml [FILENAME]  convert a view to YAML
  expect [-i INTERPRETER] [-v] FILENAME
                         run an expect session

`)
}

func read(args []string) ([]byte, error) {
	switch len(args) {
	case 0:
		return ioutil.ReadAll(os.Stdin)
	case 1:
		return ioutil.ReadFile(args[0])
	default:
		return nil, fmt.Errorf("unsupported args: %v", args)
	}
}

func readView(args []string) (render.View, error) {
	bs, err := read(args)
	if err != nil {
		return nil, err
	}
	return render.ParseView(bs)
}

func write(bs []byte) error {
	if _, err := os.Stdout.Write(bs); err != nil {
		return err
	}
	_, err := os.Stdout.Write([]byte{'\n'})
	return err
}

func analyze(args []string) error {
	v, err := readView(args)
	if err != nil {
		return err
	}
	a, err := tools.Analyze(v, nil)
	if err != nil {
		return err
	}
	bs, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return err
	}
	if err = write(bs); err != nil {
		return err
	}
	if !a.OK() {
		os.Exit(2)
	}
	return nil
}

func page(args []string) error {
	fs := flag.NewFlagSet("html", flag.ExitOnError)
	css := fs.String("css", "", "CSS URL")
	if err := fs.Parse(args); err != nil {
		return err
	}
	var cssFiles []string
	if *css != "" {
		cssFiles = []string{*css}
	}
	title := "view"
	if 0 < fs.NArg() {
		title = fs.Arg(0)
	}
	v, err := readView(fs.Args())
	if err != nil {
		return err
	}
	return tools.RenderViewPage(title, v, os.Stdout, cssFiles)
}

func dot(args []string) error {
	fs := flag.NewFlagSet("dot", flag.ExitOnError)
	hl := fs.String("hl", "", "node id to highlight")
	if err := fs.Parse(args); err != nil {
		return err
	}
	v, err := readView(fs.Args())
	if err != nil {
		return err
	}
	return tools.Dot(v, nil, os.Stdout, *hl)
}

func yamlToJSON(args []string) error {
	fs := flag.NewFlagSet("yamltojson", flag.ExitOnError)
	pretty := fs.Bool("p", false, "pretty-print")
	if err := fs.Parse(args); err != nil {
		return err
	}
	v, err := readView(fs.Args())
	if err != nil {
		return err
	}
	var bs []byte
	if *pretty {
		bs, err = json.MarshalIndent(&v, "", "  ")
	} else {
		bs, err = json.Marshal(&v)
	}
	if err != nil {
		return err
	}
	return write(bs)
}

func jsonToYAML(args []string) error {
	bs, err := read(args)
	if err != nil {
		return err
	}
	var v render.View
	if err = json.Unmarshal(bs, &v); err != nil {
		return err
	}
	if bs, err = yaml.Marshal(&v); err != nil {
		return err
	}
	_, err = os.Stdout.Write(bs)
	return err
}

func runExpect(args []string) error {
	fs := flag.NewFlagSet("expect", flag.ExitOnError)
	var (
		interpreter = fs.String("i", "goja", "interpreter name")
		verbose     = fs.Bool("v", false, "verbose")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("need exactly one session file")
	}

	bs, err := ioutil.ReadFile(fs.Arg(0))
	if err != nil {
		return err
	}
	var s expect.Session
	if err = yaml.Unmarshal(bs, &s); err != nil {
		return err
	}
	s.Verbose = *verbose
	util.Logging = *verbose

	i, err := core.FindInterpreter(interpreters.Standard(), *interpreter)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err = s.Run(ctx, render.NewRenderer(core.StandardHandlers(i)...)); err != nil {
		return err
	}
	fmt.Printf("%d steps passed\n", len(s.Steps))
	return nil
}
