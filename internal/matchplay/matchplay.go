// Package matchplay is the hole-by-hole betting engine. It allocates
// handicap strokes to the hardest holes, decides each hole pairwise, and
// settles money with a doubled stake when the winning score beats par.
//
// Like the other engines it is pure: the result is a function of the
// scorecards, handicap snapshot, bets and holes, with no hidden state.
package matchplay

import (
	"fmt"

	"github.com/mauv0809/fairway-ledger/internal/course"
	"github.com/mauv0809/fairway-ledger/internal/roster"
	"github.com/mauv0809/fairway-ledger/internal/scorecard"
)

// Outcome of one hole from one player's point of view.
const (
	OutcomeWin  = "win"
	OutcomeLose = "lose"
	OutcomeTie  = "tie"
)

// Tracker accumulates a player's hole outcomes across all pairings.
type Tracker struct {
	Win  int `json:"win"`
	Lose int `json:"lose"`
	Tie  int `json:"tie"`
}

// PairHole is one hole of one head-to-head pairing: raw and
// handicap-adjusted scores, the winner (empty on a tie), and the amount
// that changed hands.
type PairHole struct {
	Hole     int    `json:"hole"`
	Par      int    `json:"par"`
	RawA     int    `json:"raw_a"`
	RawB     int    `json:"raw_b"`
	AdjA     int    `json:"adj_a"`
	AdjB     int    `json:"adj_b"`
	Winner   string `json:"winner,omitempty"`
	Bonus    int    `json:"bonus"`
	Amount   int    `json:"amount"`
	StrokeTo string `json:"stroke_to,omitempty"`
}

// Pairing is the full head-to-head record between two players, including
// the net settlement from A's perspective.
type Pairing struct {
	PlayerA string     `json:"player_a"`
	PlayerB string     `json:"player_b"`
	Bet     int        `json:"bet"`
	Holes   []PairHole `json:"holes"`
	WinsA   int        `json:"wins_a"`
	WinsB   int        `json:"wins_b"`
	Ties    int        `json:"ties"`
	Net     int        `json:"net"` // positive: A collects from B
}

// Result aggregates every pairing of one settlement run.
type Result struct {
	Earnings map[string]int     `json:"earnings"`
	Trackers map[string]Tracker `json:"trackers"`
	Pairings []Pairing          `json:"pairings"`
	// Excluded lists players skipped for lack of a complete scorecard.
	Excluded []string `json:"excluded,omitempty"`
}

// MissingPrimaryScoreError aborts a 1-vs-N settlement whose main player has
// no complete scorecard. Opponents missing cards are merely excluded; the
// main player is the one participant every pairing needs.
type MissingPrimaryScoreError struct {
	Player string
}

func (e MissingPrimaryScoreError) Error() string {
	return fmt.Sprintf("main player %s has no complete scorecard", e.Player)
}

// StrokeReceiver reports who gets a handicap stroke on the given hole for
// a pairing with the given handicaps, or "" when neither does. The player
// with the higher handicap receives strokes on the |diff|
// lowest-stroke-index (hardest) holes.
func StrokeReceiver(hole course.Hole, nameA, nameB string, hcpA, hcpB int) string {
	switch {
	case hcpA > hcpB && hole.StrokeIndex <= hcpA-hcpB:
		return nameA
	case hcpB > hcpA && hole.StrokeIndex <= hcpB-hcpA:
		return nameB
	}
	return ""
}

// SettleOneVsN settles the main player against each opponent
// independently, with a per-opponent stake.
func SettleOneVsN(main roster.Player, opponents []roster.Player, cards map[string]scorecard.Strokes, bets map[string]int, holes []course.Hole) (Result, error) {
	if len(holes) != course.HoleCount {
		return Result{}, fmt.Errorf("match play needs exactly %d holes, got %d", course.HoleCount, len(holes))
	}
	if _, ok := cards[main.Name]; !ok {
		return Result{}, MissingPrimaryScoreError{Player: main.Name}
	}

	res := newResult()
	res.ensure(main.Name)
	for _, opp := range opponents {
		if _, ok := cards[opp.Name]; !ok {
			res.Excluded = append(res.Excluded, opp.Name)
			continue
		}
		res.settlePair(main, opp, cards[main.Name], cards[opp.Name], bets[opp.Name], holes)
	}
	return res, nil
}

// SettleAllPairs settles every unordered pair of players with one
// round-wide stake.
func SettleAllPairs(players []roster.Player, cards map[string]scorecard.Strokes, betPerHole int, holes []course.Hole) (Result, error) {
	if len(holes) != course.HoleCount {
		return Result{}, fmt.Errorf("match play needs exactly %d holes, got %d", course.HoleCount, len(holes))
	}

	res := newResult()
	entrants := make([]roster.Player, 0, len(players))
	for _, p := range players {
		if _, ok := cards[p.Name]; !ok {
			res.Excluded = append(res.Excluded, p.Name)
			continue
		}
		entrants = append(entrants, p)
		res.ensure(p.Name)
	}

	for i := 0; i < len(entrants); i++ {
		for j := i + 1; j < len(entrants); j++ {
			a, b := entrants[i], entrants[j]
			res.settlePair(a, b, cards[a.Name], cards[b.Name], betPerHole, holes)
		}
	}
	return res, nil
}

func newResult() Result {
	return Result{
		Earnings: make(map[string]int),
		Trackers: make(map[string]Tracker),
	}
}

func (r *Result) ensure(name string) {
	if _, ok := r.Earnings[name]; !ok {
		r.Earnings[name] = 0
		r.Trackers[name] = Tracker{}
	}
}

// settlePair plays all 18 holes of one pairing. Each pairing is
// independent: a player's adjusted score against one opponent never leaks
// into another pairing.
func (r *Result) settlePair(a, b roster.Player, cardA, cardB scorecard.Strokes, bet int, holes []course.Hole) {
	r.ensure(a.Name)
	r.ensure(b.Name)

	pairing := Pairing{PlayerA: a.Name, PlayerB: b.Name, Bet: bet, Holes: make([]PairHole, 0, course.HoleCount)}
	trackerA := r.Trackers[a.Name]
	trackerB := r.Trackers[b.Name]

	for i, hole := range holes {
		rawA, rawB := cardA[i], cardB[i]
		adjA, adjB := rawA, rawB
		receiver := StrokeReceiver(hole, a.Name, b.Name, a.Handicap, b.Handicap)
		switch receiver {
		case a.Name:
			adjA--
		case b.Name:
			adjB--
		}

		ph := PairHole{
			Hole:     hole.Number,
			Par:      hole.Par,
			RawA:     rawA,
			RawB:     rawB,
			AdjA:     adjA,
			AdjB:     adjB,
			Bonus:    1,
			StrokeTo: receiver,
		}

		switch {
		case adjA < adjB:
			// Birdie bonus is judged on the raw count, not the
			// handicap-adjusted one.
			if rawA < hole.Par {
				ph.Bonus = 2
			}
			ph.Winner = a.Name
			ph.Amount = bet * ph.Bonus
			r.Earnings[a.Name] += ph.Amount
			r.Earnings[b.Name] -= ph.Amount
			trackerA.Win++
			trackerB.Lose++
			pairing.WinsA++
			pairing.Net += ph.Amount
		case adjB < adjA:
			if rawB < hole.Par {
				ph.Bonus = 2
			}
			ph.Winner = b.Name
			ph.Amount = bet * ph.Bonus
			r.Earnings[b.Name] += ph.Amount
			r.Earnings[a.Name] -= ph.Amount
			trackerA.Lose++
			trackerB.Win++
			pairing.WinsB++
			pairing.Net -= ph.Amount
		default:
			trackerA.Tie++
			trackerB.Tie++
			pairing.Ties++
		}
		pairing.Holes = append(pairing.Holes, ph)
	}

	r.Trackers[a.Name] = trackerA
	r.Trackers[b.Name] = trackerB
	r.Pairings = append(r.Pairings, pairing)
}
