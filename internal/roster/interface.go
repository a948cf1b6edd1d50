package roster

// Store defines the interface for interacting with the player registry.
type Store interface {
	UpsertPlayer(p Player) error
	UpsertPlayers(players []Player) error
	GetPlayer(name string) (*Player, error)
	GetPlayers(names []string) ([]Player, error)
	GetAllPlayers() ([]Player, error)
	IsKnownPlayer(name string) bool
	// CommitHandicaps applies a settled round's updated-handicap map. This
	// is the explicit post-settlement step; the engines themselves never
	// touch the registry.
	CommitHandicaps(updated map[string]int) error
	MarkWinners(grossChampion, netChampion, netRunnerUp string) error
	Clear() error
}
