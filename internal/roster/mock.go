package roster

import "sync"

var _ Store = (*MockStore)(nil)

// MockStore is a mock implementation of the Store interface for testing.
// It is safe for concurrent use.
type MockStore struct {
	mu sync.Mutex

	// Spies for method calls
	GetPlayerFunc     func(name string) (*Player, error)
	GetPlayersFunc    func(names []string) ([]Player, error)
	GetAllPlayersFunc func() ([]Player, error)

	// Call records
	UpsertPlayerCalls    []Player
	UpsertPlayersCalls   [][]Player
	CommitHandicapsCalls []map[string]int
	MarkWinnersCalls     []MarkWinnersCall
	ClearCalls           int
}

// MarkWinnersCall holds the arguments for a call to MarkWinners.
type MarkWinnersCall struct {
	GrossChampion string
	NetChampion   string
	NetRunnerUp   string
}

// NewMock creates a new mock store.
func NewMock() *MockStore {
	return &MockStore{}
}

func (m *MockStore) UpsertPlayer(p Player) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpsertPlayerCalls = append(m.UpsertPlayerCalls, p)
	return nil
}

func (m *MockStore) UpsertPlayers(players []Player) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpsertPlayersCalls = append(m.UpsertPlayersCalls, players)
	return nil
}

func (m *MockStore) GetPlayer(name string) (*Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetPlayerFunc != nil {
		return m.GetPlayerFunc(name)
	}
	return nil, nil
}

func (m *MockStore) GetPlayers(names []string) ([]Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetPlayersFunc != nil {
		return m.GetPlayersFunc(names)
	}
	return nil, nil
}

func (m *MockStore) GetAllPlayers() ([]Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetAllPlayersFunc != nil {
		return m.GetAllPlayersFunc()
	}
	return nil, nil
}

func (m *MockStore) IsKnownPlayer(name string) bool {
	p, _ := m.GetPlayer(name)
	return p != nil
}

func (m *MockStore) CommitHandicaps(updated map[string]int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CommitHandicapsCalls = append(m.CommitHandicapsCalls, updated)
	return nil
}

func (m *MockStore) MarkWinners(grossChampion, netChampion, netRunnerUp string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.MarkWinnersCalls = append(m.MarkWinnersCalls, MarkWinnersCall{
		GrossChampion: grossChampion,
		NetChampion:   netChampion,
		NetRunnerUp:   netRunnerUp,
	})
	return nil
}

func (m *MockStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ClearCalls++
	return nil
}
