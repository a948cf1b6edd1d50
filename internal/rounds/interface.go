package rounds

// Store defines the interface for persisting round documents.
type Store interface {
	UpsertRound(round *Round) error
	GetRound(id string) (*Round, error)
	GetRoundsForProcessing() ([]*Round, error)
	GetAllRounds() ([]*Round, error)
	UpdateProcessingStatus(id string, status ProcessingStatus) error
	MarkFailed(id string, reason string) error
	SaveSettlement(round *Round) error
	Clear() error
	ClearRound(id string) error
}
