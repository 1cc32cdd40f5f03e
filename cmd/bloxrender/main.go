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

// Package main is a little command-line utility to render a view.
//
//	bloxrender -f views/button.yaml -vars '{"didClick":false}' -t button.onClicked
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io/ioutil"
	"log"
	"os"
	"strings"
	"time"

	"github.com/Comcast/blox/core"
	"github.com/Comcast/blox/interpreters"
	"github.com/Comcast/blox/render"
	"github.com/Comcast/blox/util"
)

func main() {
	var (
		viewFile    = flag.String("f", "", "view file (YAML or JSON); stdin if empty")
		varsJS      = flag.String("vars", "{}", "variables in JSON")
		interpreter = flag.String("i", "goja", "interpreter name")
		trigger     = flag.String("t", "", "callback to trigger after rendering, as ID.PROP (empty ID means the root)")
		argsJS      = flag.String("args", "[]", "trigger arguments in JSON")
		pretty      = flag.Bool("p", false, "pretty-print")
		bench       = flag.Int("bench", 0, "number of times to render (and report time)")
		verbose     = flag.Bool("log", false, "verbose logging")
		timeout     = flag.Duration("timeout", 10*time.Second, "timeout for everything")

		vars core.Scope
		args []interface{}
	)

	flag.Parse()

	util.Logging = *verbose

	if err := json.Unmarshal([]byte(*varsJS), &vars); err != nil {
		log.Fatalf("bad -vars: %s", err)
	}
	if err := json.Unmarshal([]byte(*argsJS), &args); err != nil {
		log.Fatalf("bad -args: %s", err)
	}

	v, err := readView(*viewFile)
	if err != nil {
		log.Fatal(err)
	}

	i, err := core.FindInterpreter(interpreters.Standard(), *interpreter)
	if err != nil {
		log.Fatalf("%s: %q", err, *interpreter)
	}

	r := render.NewRenderer(core.StandardHandlers(i)...)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if 0 < *bench {
		then := time.Now()
		for n := 0; n < *bench; n++ {
			if _, err := r.Render(ctx, v, vars); err != nil {
				log.Fatal(err)
			}
		}
		elapsed := time.Now().Sub(then)
		fmt.Fprintf(os.Stderr, "%d renders in %s (%f renders/sec)\n",
			*bench, elapsed, float64(*bench)/elapsed.Seconds())
	}

	h := render.NewHost(r, v, vars)

	n, err := h.Render(ctx)
	if err != nil {
		report(err)
		os.Exit(1)
	}

	if *trigger != "" {
		id, prop := parseTrigger(*trigger)
		if n, err = h.Trigger(ctx, id, prop, args...); err != nil {
			report(err)
			os.Exit(1)
		}
	}

	live, err := h.Variables()
	if err != nil {
		log.Fatal(err)
	}

	out := map[string]interface{}{
		"node": n,
		"vars": live,
	}

	var js []byte
	if *pretty {
		js, err = json.MarshalIndent(out, "", "  ")
	} else {
		js, err = json.Marshal(out)
	}
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("%s\n", js)
}

func readView(filename string) (render.View, error) {
	var (
		bs  []byte
		err error
	)
	if filename == "" {
		bs, err = ioutil.ReadAll(os.Stdin)
	} else {
		bs, err = ioutil.ReadFile(filename)
	}
	if err != nil {
		return nil, err
	}
	return render.ParseView(bs)
}

// parseTrigger splits "ID.PROP" at the last dot.
func parseTrigger(s string) (string, string) {
	i := strings.LastIndex(s, ".")
	if i < 0 {
		return "", s
	}
	return s[:i], s[i+1:]
}

// report writes a BloxError as JSON so callers can see its parts.
func report(err error) {
	if be := core.AsBloxError(err); be != nil {
		js, _ := json.Marshal(map[string]interface{}{
			"error":   err.Error(),
			"kind":    be.Kind.String(),
			"title":   be.Title,
			"debug":   be.DebugMessage,
			"context": be.Context,
		})
		fmt.Fprintf(os.Stderr, "%s\n", js)
		return
	}
	fmt.Fprintf(os.Stderr, "error: %s\n", err)
}
