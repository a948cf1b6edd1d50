package course

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Expected course master data columns, matching the club's course_db files.
var requiredColumns = []string{"course_name", "area", "hole", "hcp", "par"}

// LoadCSV reads course master data from a CSV stream.
// Rows are grouped into nines by (course_name, area) in first-seen order,
// with holes sorted by their hole number within each nine.
func LoadCSV(r io.Reader) ([]Nine, error) {
	reader := csv.NewReader(r)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read course csv: %w", err)
	}
	return parseRecords(records)
}

// LoadXLSX reads the same course master data from the first sheet of an
// xlsx workbook.
func LoadXLSX(r io.Reader) ([]Nine, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open course workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("course workbook has no sheets")
	}
	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read course sheet %q: %w", sheets[0], err)
	}
	return parseRecords(records)
}

func parseRecords(records [][]string) ([]Nine, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("course data is empty")
	}

	cols := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		cols[strings.TrimSpace(strings.ToLower(name))] = i
	}
	for _, required := range requiredColumns {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("course data is missing required column %q", required)
		}
	}

	type key struct{ course, area string }
	grouped := make(map[key][]Hole)
	var order []key

	for rowNum, record := range records[1:] {
		if len(record) < len(records[0]) {
			return nil, fmt.Errorf("row %d: expected %d columns, got %d", rowNum+2, len(records[0]), len(record))
		}
		get := func(col string) string { return strings.TrimSpace(record[cols[col]]) }

		holeNumber, err := strconv.Atoi(get("hole"))
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid hole number %q", rowNum+2, get("hole"))
		}
		par, err := strconv.Atoi(get("par"))
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid par %q", rowNum+2, get("par"))
		}
		strokeIndex, err := strconv.Atoi(get("hcp"))
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid hcp %q", rowNum+2, get("hcp"))
		}

		k := key{course: get("course_name"), area: get("area")}
		if _, ok := grouped[k]; !ok {
			order = append(order, k)
		}
		grouped[k] = append(grouped[k], Hole{Number: holeNumber, Par: par, StrokeIndex: strokeIndex})
	}

	nines := make([]Nine, 0, len(order))
	for _, k := range order {
		holes := grouped[k]
		sort.SliceStable(holes, func(i, j int) bool { return holes[i].Number < holes[j].Number })
		nines = append(nines, Nine{CourseName: k.course, Area: k.area, Holes: holes})
	}
	return nines, nil
}
