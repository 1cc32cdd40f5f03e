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
	"crypto/tls"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// MQTTCouplings processes SOps that arrive via MQTT and publishes
// the processed SOps.
type MQTTCouplings struct {
	Client    mqtt.Client
	Quiesce   uint
	SubTopics string

	// PubTopic is the reply topic when an SOp doesn't have a
	// ReplyTo.
	PubTopic string

	InTimeout time.Duration

	s *Service
}

func NewMQTTCouplings(ctx context.Context, cfg *MQTTConfig, s *Service) *MQTTCouplings {
	mqtt.ERROR = log.New(os.Stderr, "mqtt.error", 0)

	opts := mqtt.NewClientOptions()

	opts.AddBroker(fmt.Sprintf("%s:%d", cfg.Broker, cfg.Port))
	opts.SetClientID(cfg.ClientId)
	opts.SetKeepAlive(time.Second * time.Duration(cfg.KeepAlive))

	opts.Username = cfg.Username
	opts.Password = cfg.Password
	opts.AutoReconnect = cfg.Reconnect
	opts.CleanSession = true

	opts.SetTLSConfig(&tls.Config{
		InsecureSkipVerify: cfg.Insecure,
	})

	opts.OnConnectionLost = func(client mqtt.Client, err error) {
		log.Printf("MQTT connection lost: %s", err)
	}

	c := &MQTTCouplings{
		Quiesce:   cfg.Quiesce,
		SubTopics: cfg.SubTopics,
		PubTopic:  cfg.PubTopic,
		InTimeout: cfg.InTimeout,
		s:         s,
	}

	opts.DefaultPublishHandler = func(client mqtt.Client, msg mqtt.Message) {
		c.inHandler(ctx, client, msg)
	}

	c.Client = mqtt.NewClient(opts)

	return c
}

// inHandler is a Paho publish handler, which is used to handle
// messages send to us from the MQTT broker due to our subscriptions.
func (c *MQTTCouplings) inHandler(ctx context.Context, client mqtt.Client, msg mqtt.Message) {
	log.Printf("incoming: %s %s\n", msg.Topic(), msg.Payload())

	topic, qos, js := c.handle(ctx, msg.Payload())
	if topic == "" {
		return
	}

	token := client.Publish(topic, qos, false, js)
	token.Wait()
	if err := token.Error(); err != nil {
		log.Printf("Publish error: %s", err)
	}
}

// handle processes one payload and returns what to publish.
func (c *MQTTCouplings) handle(ctx context.Context, payload []byte) (string, byte, []byte) {
	var op SOp
	if err := json.Unmarshal(payload, &op); err != nil {
		log.Printf("Couldn't JSON-parse payload: %s", payload)
		op.erred(err)
	} else {
		if 0 < c.InTimeout {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, c.InTimeout)
			defer cancel()
		}
		op.Do(ctx, c.s)
	}

	to := op.ReplyTo
	if to == "" {
		to = c.PubTopic
	}
	topic, qos := parseTopic(to)

	js, err := json.Marshal(&op)
	if err != nil {
		log.Printf("Failed to marshal %#v", op)
		return "", 0, nil
	}
	return topic, qos, js
}

// Start creates the MQTT session.
func (c *MQTTCouplings) Start(ctx context.Context) error {
	log.Printf("Attempting to connected to broker")
	if token := c.Client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	log.Printf("Connected to broker")

	for _, topic := range strings.Split(c.SubTopics, ",") {
		topic, qos := parseTopic(topic)
		if topic == "" {
			continue
		}
		log.Printf("Subscribing to %s (%d)", topic, qos)
		if t := c.Client.Subscribe(topic, qos, nil); t.Wait() && t.Error() != nil {
			return t.Error()
		}
	}
	log.Printf("Couplings started")

	return nil
}

// Stop terminates the MQTT session.
func (c *MQTTCouplings) Stop(ctx context.Context) error {
	log.Printf("Disconnecting")
	c.Client.Disconnect(c.Quiesce)
	return nil
}

// parseTopic can extract QoS from a topic name of the form TOPIC:QOS.
func parseTopic(s string) (string, byte) {
	s = strings.TrimSpace(s)
	i := strings.LastIndex(s, ":")
	if i < 0 {
		return s, 0
	}
	var qos byte
	if _, err := fmt.Sscanf(s[i+1:], "%d", &qos); err != nil || 2 < qos {
		return s, 0
	}
	return s[:i], qos
}
