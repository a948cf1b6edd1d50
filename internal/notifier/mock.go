package notifier

import (
	"sync"

	"github.com/mauv0809/fairway-ledger/internal/export"
	"github.com/mauv0809/fairway-ledger/internal/rounds"
)

var _ Notifier = (*Mock)(nil)

// Mock is a mock implementation of the Notifier interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	// Call records
	SendSettlementNotificationCalls []*rounds.Round
	SendPointsBankLogCalls          []*rounds.Round
	SendLeaderboardCalls            []export.Table

	// Spies for format functions
	FormatLeaderboardResponseFunc func(table export.Table) (any, error)

	LastLeaderboardResponse any
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

// Reset clears all call records.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendSettlementNotificationCalls = nil
	m.SendPointsBankLogCalls = nil
	m.SendLeaderboardCalls = nil
	m.LastLeaderboardResponse = nil
}

func (m *Mock) SendSettlementNotification(round *rounds.Round, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendSettlementNotificationCalls = append(m.SendSettlementNotificationCalls, round)
	return nil
}

func (m *Mock) SendPointsBankLog(round *rounds.Round, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendPointsBankLogCalls = append(m.SendPointsBankLogCalls, round)
	return nil
}

func (m *Mock) SendLeaderboard(table export.Table, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendLeaderboardCalls = append(m.SendLeaderboardCalls, table)
	return nil
}

func (m *Mock) FormatLeaderboardResponse(table export.Table) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FormatLeaderboardResponseFunc != nil {
		resp, err := m.FormatLeaderboardResponseFunc(table)
		m.LastLeaderboardResponse = resp
		return resp, err
	}
	return "formatted_leaderboard", nil
}
