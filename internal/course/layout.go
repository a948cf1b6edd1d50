package course

import (
	"fmt"
)

// InvalidCourseSelectionError reports a front/back combination that does not
// add up to a full 18-hole layout. Settlement never starts on one of these.
type InvalidCourseSelectionError struct {
	CourseName string
	FrontArea  string
	BackArea   string
	Got        int
}

func (e InvalidCourseSelectionError) Error() string {
	return fmt.Sprintf("course %q: areas %q+%q yield %d holes, need exactly %d",
		e.CourseName, e.FrontArea, e.BackArea, e.Got, HoleCount)
}

// Assemble concatenates a front and a back nine into a playable layout.
// Holes are renumbered 1..18 in concatenation order; the source area's own
// hole numbering is treated as ordering only.
func Assemble(courseName, frontArea, backArea string, front, back []Hole) (Layout, error) {
	if len(front)+len(back) != HoleCount {
		return Layout{}, InvalidCourseSelectionError{
			CourseName: courseName,
			FrontArea:  frontArea,
			BackArea:   backArea,
			Got:        len(front) + len(back),
		}
	}

	holes := make([]Hole, 0, HoleCount)
	holes = append(holes, front...)
	holes = append(holes, back...)
	for i := range holes {
		holes[i].Number = i + 1
	}

	return Layout{
		CourseName: courseName,
		FrontArea:  frontArea,
		BackArea:   backArea,
		Holes:      holes,
	}, nil
}

// Validate checks the layout's stroke indexes against the expected 1..18
// permutation. Master data does not always honour this, so violations are
// returned as warnings rather than errors; stroke allocation still works,
// it just hands out strokes unevenly.
func (l Layout) Validate() []string {
	var warnings []string
	seen := make(map[int]int, HoleCount)
	for _, h := range l.Holes {
		if h.StrokeIndex < 1 || h.StrokeIndex > HoleCount {
			warnings = append(warnings, fmt.Sprintf("hole %d: stroke index %d outside 1..%d", h.Number, h.StrokeIndex, HoleCount))
			continue
		}
		seen[h.StrokeIndex]++
	}
	for idx, n := range seen {
		if n > 1 {
			warnings = append(warnings, fmt.Sprintf("stroke index %d assigned to %d holes", idx, n))
		}
	}
	for idx := 1; idx <= HoleCount; idx++ {
		if seen[idx] == 0 {
			warnings = append(warnings, fmt.Sprintf("stroke index %d missing", idx))
		}
	}
	return warnings
}
