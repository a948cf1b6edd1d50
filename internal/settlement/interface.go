package settlement

// Settler is the surface the HTTP layer drives. ProcessRounds picks up
// every round awaiting work and advances it as far as it can go.
type Settler interface {
	ProcessRounds(dryRun bool)
	ProcessRound(id string, dryRun bool) error
}
