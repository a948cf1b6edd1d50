package metrics

import "sync"

var _ Metrics = (*Mock)(nil)

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu                  sync.Mutex
	roundsSubmitted     int
	roundsSettled       int
	settlementFailures  int
	settlementDurations []float64
	slackNotifSent      int
	slackNotifFailed    int
	roundsPublished     int
	startupTime         float64
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{
		settlementDurations: make([]float64, 0),
	}
}

func (m *Mock) IncRoundsSubmitted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.roundsSubmitted++
}

func (m *Mock) IncRoundsSettled() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.roundsSettled++
}

func (m *Mock) IncSettlementFailures() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settlementFailures++
}

func (m *Mock) ObserveSettlementDuration(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settlementDurations = append(m.settlementDurations, duration)
}

func (m *Mock) IncSlackNotifSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifSent++
}

func (m *Mock) IncSlackNotifFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifFailed++
}

func (m *Mock) IncRoundsPublished() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.roundsPublished++
}

func (m *Mock) SetStartupTime(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startupTime = duration
}

// RoundsSubmitted returns how many times IncRoundsSubmitted was called.
func (m *Mock) RoundsSubmitted() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.roundsSubmitted
}

// RoundsSettled returns how many times IncRoundsSettled was called.
func (m *Mock) RoundsSettled() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.roundsSettled
}

// SettlementFailures returns how many times IncSettlementFailures was called.
func (m *Mock) SettlementFailures() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.settlementFailures
}

// RoundsPublished returns how many times IncRoundsPublished was called.
func (m *Mock) RoundsPublished() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.roundsPublished
}
