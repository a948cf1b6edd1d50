// Package export shapes settlement results into tabular form for the
// external formatters: CSV for downloads, xlsx for the club spreadsheet.
package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/mauv0809/fairway-ledger/internal/matchplay"
	"github.com/mauv0809/fairway-ledger/internal/rounds"
)

// Table is a plain rows-and-columns structure. The core produces it; how
// it is rendered is the consumer's business.
type Table struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// LeaderboardTable builds the combined leaderboard/settlement table for a
// settled round: scores and ranks from stroke play, earnings and
// win/lose/tie counts from match play, points from the points bank. Rows
// follow the round's entry order.
func LeaderboardTable(round *rounds.Round) (Table, error) {
	if round.Settlement == nil {
		return Table{}, fmt.Errorf("round %s has no settlement to export", round.ID)
	}
	s := round.Settlement

	table := Table{
		Columns: []string{"Player", "Gross", "Net", "Gross Rank", "Net Rank", "Earnings", "Win", "Lose", "Tie", "Points", "Title"},
	}
	for _, entry := range round.Entries {
		name := entry.Name
		tracker := trackerFor(s, name)
		table.Rows = append(table.Rows, []string{
			name,
			cell(s.Gross, name),
			cell(s.Net, name),
			cell(s.GrossRank, name),
			cell(s.NetRank, name),
			cell(s.Earnings, name),
			fmt.Sprintf("%d", tracker.Win),
			fmt.Sprintf("%d", tracker.Lose),
			fmt.Sprintf("%d", tracker.Tie),
			cell(s.RunningPoints, name),
			titleFor(s, name),
		})
	}
	return table, nil
}

func trackerFor(s *rounds.Settlement, name string) matchplay.Tracker {
	if s.Trackers == nil {
		return matchplay.Tracker{}
	}
	return s.Trackers[name]
}

func titleFor(s *rounds.Settlement, name string) string {
	if s.Titles == nil {
		return ""
	}
	return string(s.Titles[name])
}

func cell(m map[string]int, name string) string {
	if m == nil {
		return ""
	}
	v, ok := m[name]
	if !ok {
		return ""
	}
	return fmt.Sprintf("%d", v)
}

// WriteCSV writes the table as CSV.
func (t Table) WriteCSV(w io.Writer) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(t.Columns); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, row := range t.Rows {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteXLSX writes the table as a single-sheet xlsx workbook.
func (t Table) WriteXLSX(w io.Writer, sheet string) error {
	f := excelize.NewFile()
	defer f.Close()

	if sheet == "" {
		sheet = "Leaderboard"
	}
	index, err := f.NewSheet(sheet)
	if err != nil {
		return fmt.Errorf("failed to create sheet %q: %w", sheet, err)
	}
	f.SetActiveSheet(index)
	if sheet != "Sheet1" {
		f.DeleteSheet("Sheet1")
	}

	header := make([]any, len(t.Columns))
	for i, c := range t.Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header row: %w", err)
	}
	for i, row := range t.Rows {
		values := make([]any, len(row))
		for j, v := range row {
			values[j] = v
		}
		cellRef, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cellRef, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
