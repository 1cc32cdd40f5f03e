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

// Package main is a service that hosts sessions over HTTP,
// Websockets, and MQTT.
//
//	bloxd -views views -store blox.db
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"

	"github.com/Comcast/blox/core"
	"github.com/Comcast/blox/interpreters"
	"github.com/Comcast/blox/render"
	"github.com/Comcast/blox/util"
)

func init() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds | log.LUTC)
}

func main() {
	var (
		configFile  = flag.String("c", "", "optional YAML config file")
		httpPort    = flag.String("h", "", "HTTP service port (default \":8080\")")
		httpDir     = flag.String("d", "", "optional directory that the HTTP service will serve")
		storeFile   = flag.String("p", "", "optional filename for persistence (.json or BoltDB)")
		websockets  = flag.Bool("w", true, "Websockets service (requires HTTP service)")
		viewsDir    = flag.String("views", "", "optional directory of views to load as sessions")
		interpreter = flag.String("i", "", "interpreter name (default \"goja\")")
		broker      = flag.String("mqtt", "", "optional MQTT broker (like tcp://localhost)")
		verbose     = flag.Bool("v", false, "verbose logging")
	)

	flag.Parse()

	cfg := DefaultConfig()
	if *configFile != "" {
		var err error
		if cfg, err = ReadConfig(*configFile); err != nil {
			log.Fatal(err)
		}
	}

	// Flags override the config file only when they're given.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "h":
			cfg.HTTPPort = *httpPort
		case "p":
			cfg.StoreFile = *storeFile
		case "w":
			cfg.WebSockets = *websockets
		case "views":
			cfg.ViewsDir = *viewsDir
		case "i":
			cfg.Interpreter = *interpreter
		case "mqtt":
			if cfg.MQTT == nil {
				cfg.MQTT = DefaultMQTTConfig()
			}
			cfg.MQTT.Broker = *broker
		case "v":
			cfg.Verbose = *verbose
		}
	})

	if err := cfg.Check(); err != nil {
		log.Fatal(err)
	}

	util.Logging = cfg.Verbose

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s, err := makeService(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer func() {
		if err := s.Storage.Close(ctx); err != nil {
			log.Printf("warning storage.Close() error %v", err)
		}
	}()

	if cfg.MQTT != nil {
		c := NewMQTTCouplings(ctx, cfg.MQTT, s)
		if err = c.Start(ctx); err != nil {
			log.Fatal(err)
		}
		defer c.Stop(ctx)
	}

	if cfg.HTTPPort != "" {
		mux := http.NewServeMux()
		s.HTTPHandlers(ctx, mux)
		if cfg.WebSockets {
			if err = s.WebSockets(ctx, mux, cfg.HTTPPort); err != nil {
				log.Fatal(err)
			}
		}
		if *httpDir != "" {
			fs := http.FileServer(http.Dir(*httpDir))
			mux.Handle("/f/", http.StripPrefix("/f", fs))
		}
		go func() {
			log.Printf("HTTP service on %s", cfg.HTTPPort)
			if err := http.ListenAndServe(cfg.HTTPPort, mux); err != nil {
				log.Fatal(err)
			}
		}()
	}

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt)
	<-sigs

	log.Printf("main terminating")
}

func makeService(ctx context.Context, cfg *Config) (*Service, error) {
	i, err := core.FindInterpreter(interpreters.Standard(), cfg.Interpreter)
	if err != nil {
		return nil, err
	}

	st, err := cfg.Storage()
	if err != nil {
		return nil, err
	}
	if err = st.Open(ctx); err != nil {
		return nil, err
	}

	s := NewService(render.NewRenderer(core.StandardHandlers(i)...), st)

	if cfg.ViewsDir != "" {
		if err = s.LoadViews(ctx, cfg.ViewsDir); err != nil {
			return nil, err
		}
	}

	return s, nil
}
