package llm

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
)

// MockResponse is one queued reply of a MockProvider.
type MockResponse struct {
	Content json.RawMessage
	Usage   Usage
	Err     error
}

// MockProvider replies from a FIFO queue and records every request. It
// validates queued content against the request schema like a real provider.
type MockProvider struct {
	mu    sync.Mutex
	queue []MockResponse
	calls []Request
}

// NewMockProvider returns a provider that replies with responses in order.
func NewMockProvider(responses ...MockResponse) *MockProvider {
	return &MockProvider{queue: responses}
}

// Push queues another reply.
func (m *MockProvider) Push(r MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = append(m.queue, r)
}

// Calls returns the requests received so far.
func (m *MockProvider) Calls() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Request(nil), m.calls...)
}

func (m *MockProvider) ModelID() string { return "mock" }

func (m *MockProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.calls = append(m.calls, req)
	if len(m.queue) == 0 {
		m.mu.Unlock()
		return nil, &Error{Kind: ErrUnavailable, Err: errors.New("mock: nothing queued")}
	}
	r := m.queue[0]
	m.queue = m.queue[1:]
	m.mu.Unlock()

	if r.Err != nil {
		return nil, r.Err
	}
	return finish(req, r.Content, "mock", StopEnd, r.Usage)
}
