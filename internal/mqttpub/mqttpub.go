// Package mqttpub optionally publishes unique decoded packets to an MQTT
// broker for external fan-out, mirroring the decoded-spot publishing
// pattern used elsewhere in this codebase's MQTT integrations.
package mqttpub

import (
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/cwsl/pktsdr/internal/packet"
)

// Publisher publishes packets to a broker as retained messages under
// "<topicPrefix>/<source_chain>/<stream_address>".
type Publisher struct {
	client      mqtt.Client
	topicPrefix string
}

// Connect dials broker (e.g. "tcp://localhost:1883") and returns a ready
// Publisher.
func Connect(broker, topicPrefix, clientID string) (*Publisher, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetConnectTimeout(5 * time.Second)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker %s: %w", broker, token.Error())
	}
	return &Publisher{client: client, topicPrefix: topicPrefix}, nil
}

// Topic returns the retained-message topic for pkt under prefix.
func Topic(prefix string, pkt packet.Packet) string {
	return fmt.Sprintf("%s/%s/%d", prefix, pkt.SourceChain, pkt.StreamAddress)
}

// Publish sends p as a retained MQTT message.
func (p *Publisher) Publish(pkt packet.Packet) error {
	topic := Topic(p.topicPrefix, pkt)
	token := p.client.Publish(topic, 0, true, pkt.Data)
	token.Wait()
	if err := token.Error(); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", topic, err)
	}
	return nil
}

// Close disconnects from the broker.
func (p *Publisher) Close() {
	p.client.Disconnect(250)
}
