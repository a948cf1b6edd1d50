package course

// HoleCount is the number of holes in a playable round.
const HoleCount = 18

// Hole is a single hole on a nine, with its par and stroke index.
// The stroke index ("hcp" in the source data) ranks difficulty across the
// full 18-hole layout: 1 is the hardest hole and receives a handicap
// stroke first.
type Hole struct {
	Number      int `json:"number"`
	Par         int `json:"par"`
	StrokeIndex int `json:"stroke_index"`
}

// Nine is one course area's set of holes as imported from master data.
type Nine struct {
	CourseName string `json:"course_name"`
	Area       string `json:"area"`
	Holes      []Hole `json:"holes"`
}

// Layout is a playable 18-hole combination of a front and back nine.
type Layout struct {
	CourseName string `json:"course_name"`
	FrontArea  string `json:"front_area"`
	BackArea   string `json:"back_area"`
	Holes      []Hole `json:"holes"`
}

// Pars returns the per-hole pars in hole order.
func (l Layout) Pars() []int {
	pars := make([]int, len(l.Holes))
	for i, h := range l.Holes {
		pars[i] = h.Par
	}
	return pars
}

// StrokeIndexes returns the per-hole stroke indexes in hole order.
func (l Layout) StrokeIndexes() []int {
	idx := make([]int, len(l.Holes))
	for i, h := range l.Holes {
		idx[i] = h.StrokeIndex
	}
	return idx
}
