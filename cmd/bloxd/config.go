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
	"errors"
	"io/ioutil"
	"path/filepath"
	"strings"
	"time"

	"github.com/Comcast/blox/storage"
	"github.com/Comcast/blox/storage/bolt"

	"gopkg.in/yaml.v2"
)

// Config is bloxd's configuration.  Command-line flags override what
// a config file says.
type Config struct {
	// HTTPPort is like ":8080".
	HTTPPort string `yaml:"http"`

	WebSockets bool `yaml:"websockets"`

	// StoreFile is the optional persistence file.  A name ending
	// in ".json" gives a storage.JSONStore.  Other names give
	// BoltDB storage.
	StoreFile string `yaml:"store"`

	// ViewsDir optionally holds views to load as sessions.
	ViewsDir string `yaml:"views"`

	Interpreter string `yaml:"interpreter"`

	Verbose bool `yaml:"verbose"`

	MQTT *MQTTConfig `yaml:"mqtt"`
}

// MQTTConfig follows mosquitto_sub's command line args where it can.
type MQTTConfig struct {
	Broker    string        `yaml:"broker"`
	Port      int           `yaml:"port"`
	ClientId  string        `yaml:"clientId"`
	KeepAlive int           `yaml:"keepAlive"`
	Username  string        `yaml:"username"`
	Password  string        `yaml:"password"`
	Reconnect bool          `yaml:"reconnect"`
	Insecure  bool          `yaml:"insecure"`
	Quiesce   uint          `yaml:"quiesce"`
	SubTopics string        `yaml:"sub"`
	PubTopic  string        `yaml:"pub"`
	InTimeout time.Duration `yaml:"inTimeout"`
}

func DefaultConfig() *Config {
	return &Config{
		HTTPPort:    ":8080",
		WebSockets:  true,
		Interpreter: "goja",
	}
}

func DefaultMQTTConfig() *MQTTConfig {
	return &MQTTConfig{
		Broker:    "tcp://localhost",
		Port:      1883,
		KeepAlive: 10,
		Quiesce:   100,
		SubTopics: "blox/in",
		PubTopic:  "blox/out",
		InTimeout: time.Second,
	}
}

// ReadConfig reads a YAML config file.  Anything the file doesn't
// say keeps its default value.
func ReadConfig(filename string) (*Config, error) {
	bs, err := ioutil.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return ParseConfig(bs)
}

func ParseConfig(bs []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.UnmarshalStrict(bs, cfg); err != nil {
		return nil, err
	}
	if cfg.MQTT != nil {
		m := DefaultMQTTConfig()
		if err := yaml.Unmarshal(bs, &struct {
			MQTT *MQTTConfig `yaml:"mqtt"`
		}{m}); err != nil {
			return nil, err
		}
		cfg.MQTT = m
	}
	return cfg, nil
}

// Storage makes the configured storage.
func (c *Config) Storage() (storage.Storage, error) {
	switch {
	case c.StoreFile == "":
		return &storage.NoopStorage{}, nil
	case strings.ToLower(filepath.Ext(c.StoreFile)) == ".json":
		return storage.NewJSONStore(c.StoreFile), nil
	default:
		s, err := bolt.NewStorage(c.StoreFile)
		if err != nil {
			return nil, err
		}
		s.Debug = c.Verbose
		return s, nil
	}
}

func (c *Config) Check() error {
	if c.HTTPPort == "" && c.MQTT == nil {
		return errors.New("need HTTP or MQTT")
	}
	if c.WebSockets && c.HTTPPort == "" {
		return errors.New("Websockets require HTTP")
	}
	return nil
}
