package mocks

import (
	"fmt"
	"sync"

	"github.com/mcoot/banker/internal/dependencies/ids"
)

// MockIDs is a mock implementation of ids.Generator for testing
type MockIDs struct {
	mu sync.Mutex

	// Results is a queue of IDs to return from NewID
	Results []string
	index   int

	// Prefix is used to build sequential IDs once the queue is exhausted
	Prefix string
	seq    int
}

// Ensure MockIDs implements Generator
var _ ids.Generator = (*MockIDs)(nil)

// NewMockIDs creates a MockIDs that falls back to "<prefix>-N"
func NewMockIDs(prefix string) *MockIDs {
	return &MockIDs{Prefix: prefix}
}

// NewID returns the next queued ID, or a sequential one if none remaining
func (m *MockIDs) NewID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.index < len(m.Results) {
		id := m.Results[m.index]
		m.index++
		return id
	}
	m.seq++
	return fmt.Sprintf("%s-%04d", m.Prefix, m.seq)
}

// Queue adds values to the result queue
func (m *MockIDs) Queue(values ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Results = append(m.Results, values...)
}
