package roster

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Player master data columns, matching the club's players_db files. The
// champion/runnerup columns hold "Yes"/"No" in the source data.
var requiredColumns = []string{"name", "handicap", "champion", "runnerup"}

// LoadCSV reads player master data from a CSV stream.
func LoadCSV(r io.Reader) ([]Player, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read player csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("player data is empty")
	}

	cols := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		cols[strings.TrimSpace(strings.ToLower(name))] = i
	}
	for _, required := range requiredColumns {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("player data is missing required column %q", required)
		}
	}
	netCol, hasNetCol := cols["netwinner"]

	players := make([]Player, 0, len(records)-1)
	for rowNum, record := range records[1:] {
		if len(record) < len(records[0]) {
			return nil, fmt.Errorf("row %d: expected %d columns, got %d", rowNum+2, len(records[0]), len(record))
		}
		get := func(col string) string { return strings.TrimSpace(record[cols[col]]) }

		name := get("name")
		handicap, err := strconv.Atoi(get("handicap"))
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid handicap %q for player %q", rowNum+2, get("handicap"), name)
		}
		if err := ValidateHandicap(name, handicap); err != nil {
			return nil, fmt.Errorf("row %d: %w", rowNum+2, err)
		}

		p := Player{
			Name:           name,
			Handicap:       handicap,
			HasWonGross:    isYes(get("champion")),
			HasWonRunnerUp: isYes(get("runnerup")),
		}
		// Older exports reuse the runnerup column for net eligibility;
		// newer ones carry a dedicated netwinner column.
		if hasNetCol {
			p.HasWonNet = isYes(strings.TrimSpace(record[netCol]))
		} else {
			p.HasWonNet = p.HasWonRunnerUp
		}
		players = append(players, p)
	}
	return players, nil
}

func isYes(v string) bool {
	return strings.EqualFold(v, "yes") || v == "1" || strings.EqualFold(v, "true")
}
