package rounds

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/log"
)

// New creates a new round Store.
func New(db *sql.DB) Store {
	return &store{db: db}
}

// UpsertRound inserts a new round or updates an existing one. It is "dumb"
// and never changes the processing status of an existing round; the
// settlement pipeline owns status transitions.
func (s *store) UpsertRound(round *Round) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	parJSON, err := json.Marshal(round.Par)
	if err != nil {
		return err
	}
	strokeIdxJSON, err := json.Marshal(round.StrokeIdx)
	if err != nil {
		return err
	}
	entriesJSON, err := json.Marshal(round.Entries)
	if err != nil {
		return err
	}
	eventsJSON, err := json.Marshal(round.Events)
	if err != nil {
		return err
	}
	settlementJSON, err := marshalSettlement(round.Settlement)
	if err != nil {
		return err
	}

	_, err = s.db.Exec(`
		INSERT INTO rounds (id, format, course_name, front_area, back_area, main_player, bet_per_hole,
			par_json, stroke_index_json, entries_json, events_json, settlement_json,
			created_at, processing_status, fail_reason)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			format = excluded.format,
			course_name = excluded.course_name,
			front_area = excluded.front_area,
			back_area = excluded.back_area,
			main_player = excluded.main_player,
			bet_per_hole = excluded.bet_per_hole,
			par_json = excluded.par_json,
			stroke_index_json = excluded.stroke_index_json,
			entries_json = excluded.entries_json,
			events_json = excluded.events_json,
			created_at = excluded.created_at;
	`, round.ID, round.Format, round.CourseName, round.FrontArea, round.BackArea,
		round.MainPlayer, round.BetPerHole, parJSON, strokeIdxJSON, entriesJSON,
		eventsJSON, settlementJSON, round.CreatedAt, StatusNew, round.FailReason)
	return err
}

// SaveSettlement persists the settlement output of a round without touching
// the rest of the document.
func (s *store) SaveSettlement(round *Round) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	settlementJSON, err := marshalSettlement(round.Settlement)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(`UPDATE rounds SET settlement_json = ? WHERE id = ?`, settlementJSON, round.ID)
	return err
}

// UpdateProcessingStatus transitions a round to a new state.
func (s *store) UpdateProcessingStatus(id string, status ProcessingStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`UPDATE rounds SET processing_status = ? WHERE id = ?`, status, id)
	return err
}

// MarkFailed records a fatal settlement error against a round.
func (s *store) MarkFailed(id string, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`UPDATE rounds SET processing_status = ?, fail_reason = ? WHERE id = ?`, StatusFailed, reason, id)
	return err
}

// GetRound returns one round document, or nil if unknown.
func (s *store) GetRound(id string) (*Round, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow(selectRounds+` WHERE id = ?`, id)
	round, err := scanRound(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return round, nil
}

// GetRoundsForProcessing retrieves all rounds not yet completed or failed.
func (s *store) GetRoundsForProcessing() ([]*Round, error) {
	return s.query(selectRounds+` WHERE processing_status NOT IN (?, ?) ORDER BY created_at`, StatusCompleted, StatusFailed)
}

// GetAllRounds returns every round, newest first.
func (s *store) GetAllRounds() ([]*Round, error) {
	return s.query(selectRounds + ` ORDER BY created_at DESC`)
}

func (s *store) query(q string, args ...any) ([]*Round, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rounds []*Round
	for rows.Next() {
		round, err := scanRound(rows)
		if err != nil {
			log.Error("Failed to scan round row", "error", err)
			continue
		}
		rounds = append(rounds, round)
	}
	return rounds, rows.Err()
}

// Clear removes all rounds. Intended for tests and the /clear endpoint.
func (s *store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`DELETE FROM rounds`)
	return err
}

// ClearRound removes a single round.
func (s *store) ClearRound(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`DELETE FROM rounds WHERE id = ?`, id)
	return err
}

const selectRounds = `
	SELECT id, format, course_name, front_area, back_area, main_player, bet_per_hole,
		par_json, stroke_index_json, entries_json, events_json, settlement_json,
		created_at, processing_status, fail_reason
	FROM rounds`

// scanRound is a helper to scan a single round row.
func scanRound(scanner interface{ Scan(...any) error }) (*Round, error) {
	var round Round
	var parJSON, strokeIdxJSON, entriesJSON, eventsJSON []byte
	var settlementJSON sql.NullString
	var failReason sql.NullString

	err := scanner.Scan(
		&round.ID, &round.Format, &round.CourseName, &round.FrontArea, &round.BackArea,
		&round.MainPlayer, &round.BetPerHole, &parJSON, &strokeIdxJSON, &entriesJSON,
		&eventsJSON, &settlementJSON, &round.CreatedAt, &round.Status, &failReason,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(parJSON, &round.Par); err != nil {
		return nil, fmt.Errorf("failed to unmarshal par for round %s: %w", round.ID, err)
	}
	if err := json.Unmarshal(strokeIdxJSON, &round.StrokeIdx); err != nil {
		return nil, fmt.Errorf("failed to unmarshal stroke indexes for round %s: %w", round.ID, err)
	}
	if err := json.Unmarshal(entriesJSON, &round.Entries); err != nil {
		return nil, fmt.Errorf("failed to unmarshal entries for round %s: %w", round.ID, err)
	}
	if err := json.Unmarshal(eventsJSON, &round.Events); err != nil {
		return nil, fmt.Errorf("failed to unmarshal events for round %s: %w", round.ID, err)
	}
	if settlementJSON.Valid && settlementJSON.String != "" {
		var settlement Settlement
		if err := json.Unmarshal([]byte(settlementJSON.String), &settlement); err != nil {
			return nil, fmt.Errorf("failed to unmarshal settlement for round %s: %w", round.ID, err)
		}
		round.Settlement = &settlement
	}
	if failReason.Valid {
		round.FailReason = failReason.String
	}
	return &round, nil
}

func marshalSettlement(settlement *Settlement) (any, error) {
	if settlement == nil {
		return nil, nil
	}
	data, err := json.Marshal(settlement)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}
