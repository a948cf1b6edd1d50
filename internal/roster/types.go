package roster

import (
	"fmt"
)

// Handicap bounds observed in the club's player data.
const (
	MinHandicap = 0
	MaxHandicap = 54
)

// Player is one club member as known at the start of a round. The flags
// record past wins that make a player ineligible for the matching award
// this season. The handicap here is a snapshot: the engines never mutate
// it, they return updated maps the caller may commit.
type Player struct {
	Name           string `json:"name"`
	Handicap       int    `json:"handicap"`
	HasWonGross    bool   `json:"has_won_gross"`
	HasWonNet      bool   `json:"has_won_net"`
	HasWonRunnerUp bool   `json:"has_won_runner_up"`
}

// HandicapOutOfRangeError reports a handicap outside the configured bounds.
// Rejected at input time, never during settlement.
type HandicapOutOfRangeError struct {
	Player   string
	Handicap int
}

func (e HandicapOutOfRangeError) Error() string {
	return fmt.Sprintf("handicap %d for %s outside %d..%d", e.Handicap, e.Player, MinHandicap, MaxHandicap)
}

// DuplicatePlayerError reports a player selected twice in one roster.
type DuplicatePlayerError struct {
	Name string
}

func (e DuplicatePlayerError) Error() string {
	return fmt.Sprintf("player %q selected more than once", e.Name)
}

// ValidateHandicap checks a handicap against the configured bounds.
func ValidateHandicap(name string, handicap int) error {
	if handicap < MinHandicap || handicap > MaxHandicap {
		return HandicapOutOfRangeError{Player: name, Handicap: handicap}
	}
	return nil
}

// Roster is the set of players taking part in one round. It rejects
// duplicates and out-of-range handicaps at build time, before any scores
// are accepted.
type Roster struct {
	players []Player
	seen    map[string]struct{}
}

// NewRoster creates an empty roster.
func NewRoster() *Roster {
	return &Roster{seen: make(map[string]struct{})}
}

// Add appends a player, preserving insertion order.
func (r *Roster) Add(p Player) error {
	if _, ok := r.seen[p.Name]; ok {
		return DuplicatePlayerError{Name: p.Name}
	}
	if err := ValidateHandicap(p.Name, p.Handicap); err != nil {
		return err
	}
	r.seen[p.Name] = struct{}{}
	r.players = append(r.players, p)
	return nil
}

// Players returns the roster in insertion order. The returned slice is a
// copy; the roster itself stays immutable once built.
func (r *Roster) Players() []Player {
	out := make([]Player, len(r.players))
	copy(out, r.players)
	return out
}

// Handicaps returns a name→handicap snapshot for the settlement engines.
func (r *Roster) Handicaps() map[string]int {
	out := make(map[string]int, len(r.players))
	for _, p := range r.players {
		out[p.Name] = p.Handicap
	}
	return out
}
