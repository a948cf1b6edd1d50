package notifier

import (
	"github.com/mauv0809/fairway-ledger/internal/export"
	"github.com/mauv0809/fairway-ledger/internal/rounds"
)

// Notifier defines a high-level interface for sending notifications about business events.
// This decouples the rest of the application from the specific notification provider (e.g., Slack).
type Notifier interface {
	// For settled rounds
	SendSettlementNotification(round *rounds.Round, dryRun bool) error
	// For the points-bank hole-by-hole log
	SendPointsBankLog(round *rounds.Round, dryRun bool) error
	// For slash commands
	SendLeaderboard(table export.Table, dryRun bool) error

	// For formatting responses for slash commands
	FormatLeaderboardResponse(table export.Table) (any, error)
}
