package mqtt

import (
	"fmt"
	"log"

	paho "github.com/eclipse/paho.mqtt.golang"
)

// IPublisher is the outbound bus surface the simulator depends on.
type IPublisher interface {
	Publish(topic string, payload []byte, retain bool) error
	Close()
}

// Publisher publishes telemetry payloads on the shared MQTT client with a
// fixed QoS. It is the only shared resource across the fleet; the paho client
// serializes publishes internally, so no extra locking is needed here.
type Publisher struct {
	client paho.Client
	qos    byte
}

func NewPublisher(client paho.Client, qos byte) *Publisher {
	return &Publisher{client: client, qos: qos}
}

func (p *Publisher) Publish(topic string, payload []byte, retain bool) error {
	token := p.client.Publish(topic, p.qos, retain, payload)
	token.Wait()
	if token.Error() != nil {
		return fmt.Errorf("failed to publish to %s: %v", topic, token.Error())
	}
	return nil
}

// Close gracefully closes the MQTT connection for the publisher.
func (p *Publisher) Close() {
	if p.client.IsConnected() {
		p.client.Disconnect(250)
		log.Println("MQTT client disconnected")
	}
}
