package course

import (
	"database/sql"
	"fmt"
	"sync"
)

// store handles all database operations for course master data.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new course Store.
func New(db *sql.DB) Store {
	return &store{db: db}
}

// UpsertNine inserts or replaces all holes of one course area.
func (s *store) UpsertNine(nine Nine) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.upsertNineLocked(nine)
}

// UpsertNines inserts or replaces several nines in one transaction per nine.
func (s *store) UpsertNines(nines []Nine) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, nine := range nines {
		if err := s.upsertNineLocked(nine); err != nil {
			return fmt.Errorf("failed to upsert %s/%s: %w", nine.CourseName, nine.Area, err)
		}
	}
	return nil
}

func (s *store) upsertNineLocked(nine Nine) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}

	stmt, err := tx.Prepare(`
		INSERT INTO course_holes (course_name, area, hole_number, par, stroke_index)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(course_name, area, hole_number) DO UPDATE SET
			par = excluded.par,
			stroke_index = excluded.stroke_index;
	`)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for _, hole := range nine.Holes {
		if _, err := stmt.Exec(nine.CourseName, nine.Area, hole.Number, hole.Par, hole.StrokeIndex); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// GetNine returns one area's holes ordered by hole number.
func (s *store) GetNine(courseName, area string) ([]Hole, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT hole_number, par, stroke_index
		FROM course_holes
		WHERE course_name = ? AND area = ?
		ORDER BY hole_number
	`, courseName, area)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var holes []Hole
	for rows.Next() {
		var h Hole
		if err := rows.Scan(&h.Number, &h.Par, &h.StrokeIndex); err != nil {
			return nil, err
		}
		holes = append(holes, h)
	}
	return holes, rows.Err()
}

// ListCourses returns the distinct course names known to the store.
func (s *store) ListCourses() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`SELECT DISTINCT course_name FROM course_holes ORDER BY course_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// ListAreas returns the areas recorded for one course.
func (s *store) ListAreas(courseName string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`SELECT DISTINCT area FROM course_holes WHERE course_name = ? ORDER BY area`, courseName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var areas []string
	for rows.Next() {
		var area string
		if err := rows.Scan(&area); err != nil {
			return nil, err
		}
		areas = append(areas, area)
	}
	return areas, rows.Err()
}

// Clear removes all course data. Intended for tests and the /clear endpoint.
func (s *store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`DELETE FROM course_holes`)
	return err
}
