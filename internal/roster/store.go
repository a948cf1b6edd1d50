package roster

import (
	"database/sql"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
)

// store handles all database operations for the player registry.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new player registry Store.
func New(db *sql.DB) Store {
	return &store{db: db}
}

// UpsertPlayer inserts a player or updates their handicap and flags.
func (s *store) UpsertPlayer(p Player) error {
	if err := ValidateHandicap(p.Name, p.Handicap); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.upsertLocked(p)
}

// UpsertPlayers inserts or updates several players.
func (s *store) UpsertPlayers(players []Player) error {
	for _, p := range players {
		if err := ValidateHandicap(p.Name, p.Handicap); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range players {
		if err := s.upsertLocked(p); err != nil {
			return fmt.Errorf("failed to upsert player %q: %w", p.Name, err)
		}
	}
	return nil
}

func (s *store) upsertLocked(p Player) error {
	_, err := s.db.Exec(`
		INSERT INTO players (name, handicap, has_won_gross, has_won_net, has_won_runner_up)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			handicap = excluded.handicap,
			has_won_gross = excluded.has_won_gross,
			has_won_net = excluded.has_won_net,
			has_won_runner_up = excluded.has_won_runner_up;
	`, p.Name, p.Handicap, p.HasWonGross, p.HasWonNet, p.HasWonRunnerUp)
	return err
}

// GetPlayer returns a single player, or nil if unknown.
func (s *store) GetPlayer(name string) (*Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow(`
		SELECT name, handicap, has_won_gross, has_won_net, has_won_runner_up
		FROM players WHERE name = ?
	`, name)

	var p Player
	err := row.Scan(&p.Name, &p.Handicap, &p.HasWonGross, &p.HasWonNet, &p.HasWonRunnerUp)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetPlayers returns the named players. Unknown names are simply absent
// from the result.
func (s *store) GetPlayers(names []string) ([]Player, error) {
	players := make([]Player, 0, len(names))
	for _, name := range names {
		p, err := s.GetPlayer(name)
		if err != nil {
			return nil, err
		}
		if p != nil {
			players = append(players, *p)
		}
	}
	return players, nil
}

// GetAllPlayers returns every registered player ordered by name.
func (s *store) GetAllPlayers() ([]Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT name, handicap, has_won_gross, has_won_net, has_won_runner_up
		FROM players ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var players []Player
	for rows.Next() {
		var p Player
		if err := rows.Scan(&p.Name, &p.Handicap, &p.HasWonGross, &p.HasWonNet, &p.HasWonRunnerUp); err != nil {
			return nil, err
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

// IsKnownPlayer reports whether a player is registered.
func (s *store) IsKnownPlayer(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM players WHERE name = ?`, name).Scan(&count)
	if err != nil {
		log.Error("Failed to look up player", "name", name, "error", err)
		return false
	}
	return count > 0
}

// CommitHandicaps writes a settled round's updated handicaps back to the
// registry in one transaction.
func (s *store) CommitHandicaps(updated map[string]int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	for name, handicap := range updated {
		if _, err := tx.Exec(`UPDATE players SET handicap = ? WHERE name = ?`, handicap, name); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to update handicap for %q: %w", name, err)
		}
	}
	return tx.Commit()
}

// MarkWinners flips the award-eligibility flags for this round's winners.
// Empty names are skipped.
func (s *store) MarkWinners(grossChampion, netChampion, netRunnerUp string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	mark := func(column, name string) error {
		if name == "" {
			return nil
		}
		_, err := tx.Exec(fmt.Sprintf(`UPDATE players SET %s = 1 WHERE name = ?`, column), name)
		return err
	}
	if err := mark("has_won_gross", grossChampion); err != nil {
		tx.Rollback()
		return err
	}
	if err := mark("has_won_net", netChampion); err != nil {
		tx.Rollback()
		return err
	}
	if err := mark("has_won_runner_up", netRunnerUp); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

// Clear removes all players. Intended for tests and the /clear endpoint.
func (s *store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`DELETE FROM players`)
	return err
}
