package settlement

import "sync"

// MockSettler is a mock implementation of the Settler interface for testing.
type MockSettler struct {
	mu                 sync.Mutex
	ProcessRoundsCalls []bool
	ProcessRoundCalls  []string
	ProcessRoundErr    error
}

func NewMockSettler() *MockSettler {
	return &MockSettler{}
}

func (m *MockSettler) ProcessRounds(dryRun bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ProcessRoundsCalls = append(m.ProcessRoundsCalls, dryRun)
}

func (m *MockSettler) ProcessRound(id string, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ProcessRoundCalls = append(m.ProcessRoundCalls, id)
	return m.ProcessRoundErr
}
