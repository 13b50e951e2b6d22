package mqtt

import (
	"sync"

	"github.com/sweeney/temp-indicator/internal/logic"
)

// FakePublisher records what would have been sent to the broker. It encodes
// every publish exactly as RealPublisher does, so tests can assert on
// topics, QoS, retain flags and payloads. Safe for concurrent use; read the
// recorded slices only after the publishing goroutine is done.
type FakePublisher struct {
	mu sync.Mutex

	// Messages is every encoded publish, in order, across all topics.
	Messages []Message

	// Events, Samples and SystemEvents are the decoded inputs per topic.
	Events       []logic.Event
	Samples      []Sample
	SystemEvents []SystemEvent

	// Payloads and SystemPayloads hold the encoded bodies per topic.
	Payloads       [][]byte
	SystemPayloads [][]byte

	// PublishError fails Publish and PublishReading; PublishSystemError
	// fails PublishSystem. Nothing is recorded on failure.
	PublishError       error
	PublishSystemError error

	Closed    bool
	Connected bool
}

// NewFakePublisher creates a FakePublisher for testing.
func NewFakePublisher() *FakePublisher {
	return &FakePublisher{}
}

func (f *FakePublisher) record(m Message) {
	f.Messages = append(f.Messages, m)
}

// Publish records the band transition event.
func (f *FakePublisher) Publish(event logic.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.PublishError != nil {
		return f.PublishError
	}
	m, err := EventMessage(event)
	if err != nil {
		return err
	}
	f.record(m)
	f.Events = append(f.Events, event)
	f.Payloads = append(f.Payloads, m.Payload)
	return nil
}

// PublishReading records the reading.
func (f *FakePublisher) PublishReading(s Sample) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.PublishError != nil {
		return f.PublishError
	}
	m, err := ReadingMessage(s)
	if err != nil {
		return err
	}
	f.record(m)
	f.Samples = append(f.Samples, s)
	return nil
}

// PublishSystem records the system event.
func (f *FakePublisher) PublishSystem(event SystemEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.PublishSystemError != nil {
		return f.PublishSystemError
	}
	m, err := SystemMessage(event)
	if err != nil {
		return err
	}
	f.record(m)
	f.SystemEvents = append(f.SystemEvents, event)
	f.SystemPayloads = append(f.SystemPayloads, m.Payload)
	return nil
}

// OnTopic returns the recorded messages for one topic.
func (f *FakePublisher) OnTopic(topic string) []Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []Message
	for _, m := range f.Messages {
		if m.Topic == topic {
			out = append(out, m)
		}
	}
	return out
}

// Close marks the publisher as closed.
func (f *FakePublisher) Close() error {
	f.mu.Lock()
	f.Closed = true
	f.mu.Unlock()
	return nil
}

// IsConnected returns Connected.
func (f *FakePublisher) IsConnected() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Connected
}

// Reset clears everything recorded and every knob.
func (f *FakePublisher) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Messages = nil
	f.Events = nil
	f.Samples = nil
	f.SystemEvents = nil
	f.Payloads = nil
	f.SystemPayloads = nil
	f.PublishError = nil
	f.PublishSystemError = nil
	f.Closed = false
	f.Connected = false
}
