package rounds

import "sync"

var _ Store = (*MockStore)(nil)

// MockStore is a mock implementation of the Store interface for testing.
// It is safe for concurrent use.
type MockStore struct {
	mu sync.Mutex

	// Spies for method calls
	UpsertRoundFunc            func(round *Round) error
	GetRoundFunc               func(id string) (*Round, error)
	GetRoundsForProcessingFunc func() ([]*Round, error)
	GetAllRoundsFunc           func() ([]*Round, error)
	SaveSettlementFunc         func(round *Round) error

	// Call records
	UpsertRoundCalls            []*Round
	UpdateProcessingStatusCalls []UpdateProcessingStatusCall
	MarkFailedCalls             []MarkFailedCall
	SaveSettlementCalls         []*Round
	ClearCalls                  int
	ClearRoundCalls             []string
}

// UpdateProcessingStatusCall holds the arguments for a call to UpdateProcessingStatus.
type UpdateProcessingStatusCall struct {
	ID     string
	Status ProcessingStatus
}

// MarkFailedCall holds the arguments for a call to MarkFailed.
type MarkFailedCall struct {
	ID     string
	Reason string
}

// NewMock creates a new mock store.
func NewMock() *MockStore {
	return &MockStore{}
}

func (m *MockStore) UpsertRound(round *Round) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpsertRoundCalls = append(m.UpsertRoundCalls, round)
	if m.UpsertRoundFunc != nil {
		return m.UpsertRoundFunc(round)
	}
	return nil
}

func (m *MockStore) GetRound(id string) (*Round, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetRoundFunc != nil {
		return m.GetRoundFunc(id)
	}
	return nil, nil
}

func (m *MockStore) GetRoundsForProcessing() ([]*Round, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetRoundsForProcessingFunc != nil {
		return m.GetRoundsForProcessingFunc()
	}
	return nil, nil
}

func (m *MockStore) GetAllRounds() ([]*Round, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetAllRoundsFunc != nil {
		return m.GetAllRoundsFunc()
	}
	return nil, nil
}

func (m *MockStore) UpdateProcessingStatus(id string, status ProcessingStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpdateProcessingStatusCalls = append(m.UpdateProcessingStatusCalls, UpdateProcessingStatusCall{ID: id, Status: status})
	return nil
}

func (m *MockStore) MarkFailed(id string, reason string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.MarkFailedCalls = append(m.MarkFailedCalls, MarkFailedCall{ID: id, Reason: reason})
	return nil
}

func (m *MockStore) SaveSettlement(round *Round) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SaveSettlementCalls = append(m.SaveSettlementCalls, round)
	if m.SaveSettlementFunc != nil {
		return m.SaveSettlementFunc(round)
	}
	return nil
}

func (m *MockStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ClearCalls++
	return nil
}

func (m *MockStore) ClearRound(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ClearRoundCalls = append(m.ClearRoundCalls, id)
	return nil
}
