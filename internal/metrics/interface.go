package metrics

// Metrics defines the interface for collecting application metrics.
// This decouples the application from the specific metrics implementation (e.g., Prometheus).
type Metrics interface {
	IncRoundsSubmitted()
	IncRoundsSettled()
	IncSettlementFailures()
	ObserveSettlementDuration(duration float64)
	IncSlackNotifSent()
	IncSlackNotifFailed()
	IncRoundsPublished()
	SetStartupTime(duration float64)
}
