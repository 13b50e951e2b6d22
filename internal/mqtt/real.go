package mqtt

import (
	"fmt"
	"log"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/sweeney/temp-indicator/internal/logic"
)

// bufferCapacity is the number of messages kept while the broker is unreachable.
const bufferCapacity = 100

// RealPublisher publishes to an actual MQTT broker.
// Messages published while disconnected are buffered and replayed, oldest
// first, once the connection comes back.
type RealPublisher struct {
	client paho.Client

	mu        sync.Mutex
	buf       *ringBuffer
	connected bool
	everUp    bool
}

// NewRealPublisher creates a publisher for the given broker. The broker
// need not be reachable yet: paho keeps retrying in the background.
func NewRealPublisher(broker, clientID string) (*RealPublisher, error) {
	p := &RealPublisher{buf: newRingBuffer(bufferCapacity)}

	will, err := FormatSystemPayload(SystemEvent{
		Timestamp: time.Now(),
		Event:     "SHUTDOWN",
		Reason:    "MQTT_DISCONNECT",
	})
	if err != nil {
		return nil, fmt.Errorf("format will payload: %w", err)
	}

	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5*time.Second).
		SetBinaryWill(TopicSystem, will, 1, true).
		SetOnConnectHandler(p.onConnect).
		SetConnectionLostHandler(p.onConnectionLost)

	p.client = paho.NewClient(opts)
	token := p.client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		log.Printf("mqtt: broker %s not reachable yet, buffering until connected", broker)
		return p, nil
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect to broker: %w", err)
	}

	return p, nil
}

func (p *RealPublisher) onConnect(c paho.Client) {
	p.mu.Lock()
	defer p.mu.Unlock()

	// Replay under the lock so nothing published meanwhile overtakes the backlog.
	for _, m := range p.connectedLocked(time.Now()) {
		c.Publish(m.topic, m.qos, m.retained, m.payload)
	}
}

// connectedLocked marks the connection up and returns the messages to send
// first: RECONNECTED after a drop, then the buffered backlog. p.mu must be held.
func (p *RealPublisher) connectedLocked(now time.Time) []bufferedMsg {
	p.connected = true

	var out []bufferedMsg
	if p.everUp {
		m, err := SystemMessage(SystemEvent{Timestamp: now, Event: "RECONNECTED"})
		if err != nil {
			log.Printf("mqtt: skipping RECONNECTED: %v", err)
		} else {
			out = append(out, bufferedMsg{topic: m.Topic, payload: m.Payload, qos: m.QoS, retained: m.Retained})
		}
	}
	p.everUp = true

	pending, dropped := p.buf.drainAll()
	if dropped > 0 {
		log.Printf("mqtt: buffer overflowed while disconnected, dropped %d oldest messages", dropped)
	}
	if len(pending) > 0 {
		log.Printf("mqtt: connected, replaying %d buffered messages", len(pending))
	}
	return append(out, pending...)
}

func (p *RealPublisher) onConnectionLost(_ paho.Client, err error) {
	log.Printf("mqtt: connection lost: %v", err)
	p.mu.Lock()
	p.connected = false
	p.mu.Unlock()
}

// IsConnected reports whether the broker connection is up.
func (p *RealPublisher) IsConnected() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.connected
}

func (p *RealPublisher) send(m Message) error {
	p.mu.Lock()
	if !p.connected {
		p.buf.push(bufferedMsg{topic: m.Topic, payload: m.Payload, qos: m.QoS, retained: m.Retained})
		p.mu.Unlock()
		return nil
	}
	p.mu.Unlock()

	token := p.client.Publish(m.Topic, m.QoS, m.Retained, m.Payload)
	if !token.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("publish to %s: timeout", m.Topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish to %s: %w", m.Topic, err)
	}
	return nil
}

// Publish sends a band transition event to the MQTT broker.
func (p *RealPublisher) Publish(event logic.Event) error {
	m, err := EventMessage(event)
	if err != nil {
		return err
	}
	return p.send(m)
}

// PublishReading sends the latest reading.
func (p *RealPublisher) PublishReading(s Sample) error {
	m, err := ReadingMessage(s)
	if err != nil {
		return err
	}
	return p.send(m)
}

// PublishSystem sends a system lifecycle event to the MQTT broker.
func (p *RealPublisher) PublishSystem(event SystemEvent) error {
	m, err := SystemMessage(event)
	if err != nil {
		return err
	}
	return p.send(m)
}

// Close disconnects from the broker.
func (p *RealPublisher) Close() error {
	p.client.Disconnect(1000) // 1 second timeout
	return nil
}
