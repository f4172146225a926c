package pubsub

import (
	"sync"

	"github.com/vmihailenco/msgpack/v5"
)

// MockPubSubClient captures published events instead of talking to Google
// Pub/Sub. Safe for concurrent use.
type MockPubSubClient struct {
	mu sync.Mutex

	SendMessageFunc    func(topic EventType, data any) error
	ProcessMessageFunc func(data []byte, returnValue any) error

	SendMessageCalls []SendMessageCall
	decoded          int
}

// SendMessageCall records one published event.
type SendMessageCall struct {
	Topic string
	Data  any
}

var _ PubSubClient = (*MockPubSubClient)(nil)

// NewMock creates a capturing PubSubClient. The projectID is ignored.
func NewMock(projectID string) *MockPubSubClient {
	return &MockPubSubClient{}
}

// Reset clears the captured events.
func (m *MockPubSubClient) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendMessageCalls = nil
	m.decoded = 0
}

// Topics returns the topics published so far, in publish order.
func (m *MockPubSubClient) Topics() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	topics := make([]string, len(m.SendMessageCalls))
	for i, call := range m.SendMessageCalls {
		topics[i] = call.Topic
	}
	return topics
}

// Decoded reports how many push payloads ProcessMessage has handled.
func (m *MockPubSubClient) Decoded() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.decoded
}

// SendMessage captures the event. If SendMessageFunc is set it decides the
// returned error.
func (m *MockPubSubClient) SendMessage(topic EventType, data any) error {
	m.mu.Lock()
	m.SendMessageCalls = append(m.SendMessageCalls, SendMessageCall{Topic: string(topic), Data: data})
	fn := m.SendMessageFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(topic, data)
	}
	return nil
}

// ProcessMessage decodes the payload the way the real client does unless
// ProcessMessageFunc overrides it.
func (m *MockPubSubClient) ProcessMessage(data []byte, returnValue any) error {
	m.mu.Lock()
	m.decoded++
	fn := m.ProcessMessageFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(data, returnValue)
	}
	return msgpack.Unmarshal(data, returnValue)
}
