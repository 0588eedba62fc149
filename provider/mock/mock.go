// Package mock provides a scripted suggestion provider for testing and
// offline use.
package mock

import (
	"context"
	"sync"

	"github.com/GoCodeAlone/timetable/provider"
)

const defaultResponse = `{"suggested_start_time": "2025-01-01T09:00:00Z", "reason": "First free slot."}`

// MockProvider implements provider.Provider. It returns scripted responses in
// order, cycling when they run out, and records every conversation it sees.
type MockProvider struct {
	mu        sync.Mutex
	responses []string
	idx       int
	err       error
	calls     [][]provider.Message
}

// New creates a MockProvider that cycles through the given responses.
func New(responses ...string) *MockProvider {
	return &MockProvider{responses: responses}
}

// Failing creates a MockProvider whose Chat always returns err.
func Failing(err error) *MockProvider {
	return &MockProvider{err: err}
}

// Name returns the provider identifier.
func (m *MockProvider) Name() string { return "mock" }

// Chat returns the next scripted response.
func (m *MockProvider) Chat(_ context.Context, messages []provider.Message) (*provider.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, messages)
	if m.err != nil {
		return nil, m.err
	}
	if len(m.responses) == 0 {
		return &provider.Response{Content: defaultResponse}, nil
	}
	resp := m.responses[m.idx%len(m.responses)]
	m.idx++
	return &provider.Response{Content: resp}, nil
}

// Calls returns the conversations passed to Chat so far.
func (m *MockProvider) Calls() [][]provider.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]provider.Message, len(m.calls))
	copy(out, m.calls)
	return out
}
