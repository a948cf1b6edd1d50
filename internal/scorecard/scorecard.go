// Package scorecard validates and normalizes raw per-hole stroke input.
// Everything downstream of this package works on typed, range-checked
// stroke sequences; the 18-digit quick-entry string form never leaks past
// the parser.
package scorecard

import (
	"fmt"
)

const (
	// HoleCount is the fixed length of a complete scorecard.
	HoleCount = 18
	// MinStroke and MaxStroke bound a single hole's stroke count. The
	// bounds come from the score entry UI but are enforced here as a
	// domain invariant.
	MinStroke = 1
	MaxStroke = 15
)

// Strokes is a complete, validated scorecard: one stroke count per hole.
type Strokes [HoleCount]int

// Total returns the gross score, the plain sum of all strokes.
func (s Strokes) Total() int {
	total := 0
	for _, strokes := range s {
		total += strokes
	}
	return total
}

// Slice returns the strokes as a plain slice, for serialization.
func (s Strokes) Slice() []int {
	out := make([]int, HoleCount)
	copy(out, s[:])
	return out
}

// IncompleteInputError reports quick-entry input that is not 18 digits.
type IncompleteInputError struct {
	Player string
	Reason string
}

func (e IncompleteInputError) Error() string {
	return fmt.Sprintf("incomplete score input for %s: %s", e.Player, e.Reason)
}

// OutOfRangeStrokeError reports a per-hole stroke count outside 1..15.
type OutOfRangeStrokeError struct {
	Player  string
	Hole    int
	Strokes int
}

func (e OutOfRangeStrokeError) Error() string {
	return fmt.Sprintf("out-of-range stroke count for %s on hole %d: got %d, want %d..%d",
		e.Player, e.Hole, e.Strokes, MinStroke, MaxStroke)
}

// ParseQuick parses an 18-character quick-entry digit string into a
// scorecard. Each character is one hole's stroke count.
func ParseQuick(player, raw string) (Strokes, error) {
	var card Strokes
	if len(raw) != HoleCount {
		return card, IncompleteInputError{
			Player: player,
			Reason: fmt.Sprintf("expected %d digits, got %d", HoleCount, len(raw)),
		}
	}
	for i, c := range raw {
		if c < '0' || c > '9' {
			return card, IncompleteInputError{
				Player: player,
				Reason: fmt.Sprintf("non-digit character %q at position %d", string(c), i+1),
			}
		}
		card[i] = int(c - '0')
	}
	return card, validate(player, card)
}

// FromInts builds a scorecard from 18 discrete stroke counts.
func FromInts(player string, values []int) (Strokes, error) {
	var card Strokes
	if len(values) != HoleCount {
		return card, IncompleteInputError{
			Player: player,
			Reason: fmt.Sprintf("expected %d hole scores, got %d", HoleCount, len(values)),
		}
	}
	copy(card[:], values)
	return card, validate(player, card)
}

func validate(player string, card Strokes) error {
	for i, strokes := range card {
		if strokes < MinStroke || strokes > MaxStroke {
			return OutOfRangeStrokeError{Player: player, Hole: i + 1, Strokes: strokes}
		}
	}
	return nil
}
