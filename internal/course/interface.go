package course

// Store defines the interface for course master data access.
type Store interface {
	UpsertNine(nine Nine) error
	UpsertNines(nines []Nine) error
	GetNine(courseName, area string) ([]Hole, error)
	ListCourses() ([]string, error)
	ListAreas(courseName string) ([]string, error)
	Clear() error
}
