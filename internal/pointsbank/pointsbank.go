// Package pointsbank implements the running-points settlement variant: a
// shared bank grows through tied holes, a sole winner takes it, and players
// pick up and lose titles at point thresholds that only take effect on the
// following hole.
//
// The hole loop is inherently sequential. Hole N+1 depends on hole N's
// titles and bank, so holes must be played strictly in order 1..18.
package pointsbank

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mauv0809/fairway-ledger/internal/course"
	"github.com/mauv0809/fairway-ledger/internal/roster"
	"github.com/mauv0809/fairway-ledger/internal/scorecard"
)

// Title is a player's standing in the points bank game.
type Title string

const (
	TitleNone         Title = "none"
	TitleRichMan      Title = "rich_man"
	TitleSuperRichMan Title = "super_rich_man"
)

// Title thresholds. Transitions are computed from the pre-hole title and
// the post-settlement point total.
const (
	richManThreshold      = 4
	superRichManThreshold = 8
)

// Event is a penalty-relevant tag recorded against a player on one hole.
type Event string

const (
	EventSand      Event = "sand"
	EventWater     Event = "water"
	EventOB        Event = "ob"
	EventMiss      Event = "miss"
	EventThreePutt Event = "3putt_or_plus3"
	EventParOn     Event = "par_on"
)

// maxPenaltyPerHole caps the event-driven deduction per player per hole.
// The SuperRichMan par_on surcharge applies on top of this cap.
const maxPenaltyPerHole = 3

// Valid reports whether the tag belongs to the fixed event vocabulary.
// Unknown tags are ignored by the engine rather than rejected, matching
// how the score sheets treat free-text notes.
func (e Event) Valid() bool {
	switch e {
	case EventSand, EventWater, EventOB, EventMiss, EventThreePutt, EventParOn:
		return true
	}
	return false
}

// HoleEvents maps player name to the tags recorded on one hole.
type HoleEvents map[string][]Event

// HoleOutcome summarizes one processed hole.
type HoleOutcome struct {
	Hole        int            `json:"hole"`
	Winner      string         `json:"winner,omitempty"`
	Tie         bool           `json:"tie"`
	Gain        int            `json:"gain"`
	PenaltyPool int            `json:"penalty_pool"`
	BirdieSteal int            `json:"birdie_steal"`
	Penalties   map[string]int `json:"penalties,omitempty"`
	Log         string         `json:"log"`
}

// Snapshot is the serializable state of a game, shaped for the round
// document. Restoring a snapshot yields an equivalent game.
type Snapshot struct {
	Points        map[string]int   `json:"points"`
	Bank          int              `json:"bank"`
	Titles        map[string]Title `json:"titles"`
	PendingTitles map[string]Title `json:"pending_titles"`
	Logs          []string         `json:"logs"`
	NextHole      int              `json:"next_hole"`
}

// Game is the points-bank state machine for one round.
type Game struct {
	players  []roster.Player
	points   map[string]int
	bank     int
	titles   map[string]Title
	pending  map[string]Title
	logs     []string
	nextHole int
}

// New starts a game for the given players. The bank opens at 1 and
// everyone starts untitled with zero points.
func New(players []roster.Player) *Game {
	g := &Game{
		players:  make([]roster.Player, len(players)),
		points:   make(map[string]int, len(players)),
		bank:     1,
		titles:   make(map[string]Title, len(players)),
		pending:  make(map[string]Title, len(players)),
		nextHole: 1,
	}
	copy(g.players, players)
	for _, p := range players {
		g.points[p.Name] = 0
		g.titles[p.Name] = TitleNone
		g.pending[p.Name] = TitleNone
	}
	return g
}

// Bank returns the current bank value. It is always >= 1 at the start of a
// hole: it only resets to 1, never below.
func (g *Game) Bank() int { return g.bank }

// Points returns a copy of the current per-player point totals.
func (g *Game) Points() map[string]int {
	out := make(map[string]int, len(g.points))
	for k, v := range g.points {
		out[k] = v
	}
	return out
}

// Titles returns a copy of the currently effective titles.
func (g *Game) Titles() map[string]Title {
	out := make(map[string]Title, len(g.titles))
	for k, v := range g.titles {
		out[k] = v
	}
	return out
}

// Logs returns the hole-by-hole log lines appended so far.
func (g *Game) Logs() []string {
	out := make([]string, len(g.logs))
	copy(out, g.logs)
	return out
}

// PlayHole processes the next hole in sequence. raw holds every player's
// raw stroke count for this hole; events the penalty tags recorded on it.
func (g *Game) PlayHole(hole course.Hole, raw map[string]int, events HoleEvents) (HoleOutcome, error) {
	if g.nextHole > course.HoleCount {
		return HoleOutcome{}, fmt.Errorf("all %d holes already played", course.HoleCount)
	}
	if hole.Number != g.nextHole {
		return HoleOutcome{}, fmt.Errorf("holes must be played in order: expected hole %d, got %d", g.nextHole, hole.Number)
	}
	for _, p := range g.players {
		if _, ok := raw[p.Name]; !ok {
			return HoleOutcome{}, fmt.Errorf("hole %d: missing stroke count for %s", hole.Number, p.Name)
		}
	}

	// Titles staged on the previous hole become effective now.
	for name, title := range g.pending {
		g.titles[name] = title
	}

	outcome := HoleOutcome{Hole: hole.Number, Penalties: make(map[string]int)}

	// Adjusted scores against the whole field at once: one stroke off for
	// every opponent out-ranked by at least this hole's stroke index.
	adjusted := make(map[string]int, len(g.players))
	for _, p := range g.players {
		adj := raw[p.Name]
		for _, o := range g.players {
			if o.Name == p.Name {
				continue
			}
			if p.Handicap-o.Handicap >= hole.StrokeIndex {
				adj--
			}
		}
		adjusted[p.Name] = adj
	}

	winner, tie := soleWinner(g.players, adjusted)

	// Penalties hit titled players only, before any points change hands.
	for _, p := range g.players {
		title := g.titles[p.Name]
		if title == TitleNone {
			continue
		}
		tagged := 0
		parOn := false
		for _, e := range events[p.Name] {
			if !e.Valid() {
				continue
			}
			tagged++
			if e == EventParOn {
				parOn = true
			}
		}
		penalty := tagged
		if penalty > maxPenaltyPerHole {
			penalty = maxPenaltyPerHole
		}
		if title == TitleSuperRichMan && parOn {
			penalty++
		}
		if penalty > g.points[p.Name] {
			penalty = g.points[p.Name]
		}
		if penalty > 0 {
			g.points[p.Name] -= penalty
			outcome.PenaltyPool += penalty
			outcome.Penalties[p.Name] = penalty
		}
	}

	if tie {
		outcome.Tie = true
		g.bank += 1 + outcome.PenaltyPool
	} else {
		outcome.Winner = winner
		gain := g.bank + outcome.PenaltyPool
		// A raw birdie steals one point from everyone still holding any.
		if raw[winner] < hole.Par {
			for _, p := range g.players {
				if p.Name == winner || g.points[p.Name] <= 0 {
					continue
				}
				g.points[p.Name]--
				outcome.BirdieSteal++
			}
			gain += outcome.BirdieSteal
		}
		g.points[winner] += gain
		outcome.Gain = gain
		g.bank = 1
	}

	// Stage next-hole titles from the pre-hole title and the settled
	// point totals. They do not affect this hole.
	for _, p := range g.players {
		g.pending[p.Name] = nextTitle(g.titles[p.Name], g.points[p.Name])
	}

	outcome.Log = g.formatLog(outcome)
	g.logs = append(g.logs, outcome.Log)
	g.nextHole++
	return outcome, nil
}

// soleWinner returns the single player whose adjusted score beats every
// other player's, or tie when no such player exists. A tie on the best
// score stays a tie no matter what the rest of the field shoots.
func soleWinner(players []roster.Player, adjusted map[string]int) (string, bool) {
	winner := ""
	best := 0
	tied := false
	for i, p := range players {
		adj := adjusted[p.Name]
		switch {
		case i == 0 || adj < best:
			winner = p.Name
			best = adj
			tied = false
		case adj == best:
			tied = true
		}
	}
	if tied {
		return "", true
	}
	return winner, false
}

func nextTitle(current Title, points int) Title {
	switch current {
	case TitleRichMan:
		switch {
		case points >= superRichManThreshold:
			return TitleSuperRichMan
		case points == 0:
			return TitleNone
		}
		return TitleRichMan
	case TitleSuperRichMan:
		if points <= richManThreshold {
			return TitleRichMan
		}
		return TitleSuperRichMan
	default:
		switch {
		case points >= superRichManThreshold:
			return TitleSuperRichMan
		case points >= richManThreshold:
			return TitleRichMan
		}
		return TitleNone
	}
}

func (g *Game) formatLog(o HoleOutcome) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hole %d: ", o.Hole)
	if o.Tie {
		fmt.Fprintf(&b, "tie, bank grows to %d", g.bank)
	} else {
		fmt.Fprintf(&b, "%s wins %d point(s)", o.Winner, o.Gain)
	}
	if o.PenaltyPool > 0 {
		names := make([]string, 0, len(o.Penalties))
		for name := range o.Penalties {
			names = append(names, name)
		}
		sort.Strings(names)
		parts := make([]string, 0, len(names))
		for _, name := range names {
			parts = append(parts, fmt.Sprintf("%s -%d", name, o.Penalties[name]))
		}
		fmt.Fprintf(&b, "; penalties: %s", strings.Join(parts, ", "))
	}
	if o.BirdieSteal > 0 {
		fmt.Fprintf(&b, "; birdie steals %d point(s) from the field", o.BirdieSteal)
	}
	return b.String()
}

// Snapshot exports the game state for the round document.
func (g *Game) Snapshot() Snapshot {
	snap := Snapshot{
		Points:        g.Points(),
		Bank:          g.bank,
		Titles:        g.Titles(),
		PendingTitles: make(map[string]Title, len(g.pending)),
		Logs:          g.Logs(),
		NextHole:      g.nextHole,
	}
	for k, v := range g.pending {
		snap.PendingTitles[k] = v
	}
	return snap
}

// Restore rebuilds a game from a snapshot, e.g. for a spectator view of a
// persisted round.
func Restore(players []roster.Player, snap Snapshot) *Game {
	g := New(players)
	g.bank = snap.Bank
	g.nextHole = snap.NextHole
	for k, v := range snap.Points {
		g.points[k] = v
	}
	for k, v := range snap.Titles {
		g.titles[k] = v
	}
	for k, v := range snap.PendingTitles {
		g.pending[k] = v
	}
	g.logs = make([]string, len(snap.Logs))
	copy(g.logs, snap.Logs)
	return g
}

// Run plays a full 18-hole game in one call. strokes holds each player's
// complete scorecard; events holds per-hole penalty tags (nil entries are
// holes without events).
func Run(players []roster.Player, cards map[string]scorecard.Strokes, holes []course.Hole, events []HoleEvents) (*Game, []HoleOutcome, error) {
	if len(holes) != course.HoleCount {
		return nil, nil, fmt.Errorf("points bank needs exactly %d holes, got %d", course.HoleCount, len(holes))
	}
	if len(events) != 0 && len(events) != course.HoleCount {
		return nil, nil, fmt.Errorf("expected %d hole event sets, got %d", course.HoleCount, len(events))
	}
	for _, p := range players {
		if _, ok := cards[p.Name]; !ok {
			return nil, nil, fmt.Errorf("points bank needs a complete scorecard for every player, missing %s", p.Name)
		}
	}

	g := New(players)
	outcomes := make([]HoleOutcome, 0, course.HoleCount)
	for i, hole := range holes {
		raw := make(map[string]int, len(players))
		for _, p := range players {
			card := cards[p.Name]
			raw[p.Name] = card[i]
		}
		var ev HoleEvents
		if len(events) == course.HoleCount {
			ev = events[i]
		}
		outcome, err := g.PlayHole(hole, raw, ev)
		if err != nil {
			return nil, nil, err
		}
		outcomes = append(outcomes, outcome)
	}
	return g, outcomes, nil
}
