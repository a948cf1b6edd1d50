package rounds

import (
	"database/sql"
	"sync"

	"github.com/mauv0809/fairway-ledger/internal/matchplay"
	"github.com/mauv0809/fairway-ledger/internal/pointsbank"
	"github.com/mauv0809/fairway-ledger/internal/strokeplay"
)

// store handles all database operations for round documents.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Format selects which settlement engines run for a round.
type Format string

const (
	FormatStrokePlay Format = "stroke_play"
	FormatMatchPlay  Format = "match_play" // 1-vs-N with per-opponent stakes
	FormatAllPairs   Format = "all_pairs"  // N-vs-N with one round-wide stake
	FormatPointsBank Format = "points_bank"
)

// ProcessingStatus tracks a round through the settlement pipeline.
type ProcessingStatus string

const (
	StatusNew       ProcessingStatus = "NEW"
	StatusSettled   ProcessingStatus = "SETTLED"
	StatusNotified  ProcessingStatus = "NOTIFIED"
	StatusPublished ProcessingStatus = "PUBLISHED"
	StatusCompleted ProcessingStatus = "COMPLETED"
	StatusFailed    ProcessingStatus = "FAILED"
)

// Entry is one player's submission within a round: the handicap snapshot
// taken at round start, the per-opponent stake (match play), and the raw
// strokes. QuickEntry, when present, is the original 18-digit input kept
// for audit; Strokes is always the parsed, validated form.
type Entry struct {
	Name       string `json:"name"`
	Handicap   int    `json:"handicap"`
	Bet        int    `json:"bet,omitempty"`
	QuickEntry string `json:"quick_entry,omitempty"`
	Strokes    []int  `json:"strokes"`
}

// Settlement is the full engine output persisted with a round. Only the
// sections matching the round's format are populated.
type Settlement struct {
	// Stroke play
	Gross            map[string]int      `json:"gross,omitempty"`
	Net              map[string]int      `json:"net,omitempty"`
	GrossRank        map[string]int      `json:"gross_rank,omitempty"`
	NetRank          map[string]int      `json:"net_rank,omitempty"`
	GrossChampion    string              `json:"gross_champion,omitempty"`
	GrossRunnerUp    string              `json:"gross_runner_up,omitempty"`
	NetChampion      string              `json:"net_champion,omitempty"`
	NetRunnerUp      string              `json:"net_runner_up,omitempty"`
	Birdies          []strokeplay.Birdie `json:"birdies,omitempty"`
	UpdatedHandicaps map[string]int      `json:"updated_handicaps,omitempty"`

	// Match play
	Earnings map[string]int               `json:"earnings,omitempty"`
	Trackers map[string]matchplay.Tracker `json:"trackers,omitempty"`
	Pairings []matchplay.Pairing          `json:"pairings,omitempty"`
	Excluded []string                     `json:"excluded,omitempty"`

	// Points bank
	RunningPoints map[string]int              `json:"running_points,omitempty"`
	Bank          int                         `json:"bank,omitempty"`
	Titles        map[string]pointsbank.Title `json:"titles,omitempty"`
	PendingTitles map[string]pointsbank.Title `json:"pending_titles,omitempty"`
	HoleLogs      []string                    `json:"hole_logs,omitempty"`
}

// HoleEventTags maps player name to the penalty tags recorded on one hole.
type HoleEventTags map[string][]string

// Round is the persisted document for one submitted round: course
// selection, roster snapshot, raw input, and (once settled) the full
// settlement output. Serializing and re-reading a settled round yields
// equivalent state; spectator views are rebuilt from this document alone.
type Round struct {
	ID         string           `json:"id"`
	Format     Format           `json:"format"`
	CourseName string           `json:"course_name"`
	FrontArea  string           `json:"front_area"`
	BackArea   string           `json:"back_area"`
	Par        []int            `json:"par"`
	StrokeIdx  []int            `json:"stroke_index"`
	MainPlayer string           `json:"main_player,omitempty"`
	BetPerHole int              `json:"bet_per_hole,omitempty"`
	Entries    []Entry          `json:"entries"`
	Events     []HoleEventTags  `json:"events,omitempty"` // indexed by hole, may be empty
	CreatedAt  int64            `json:"created_at"`
	Status     ProcessingStatus `json:"status"`
	FailReason string           `json:"fail_reason,omitempty"`
	Settlement *Settlement      `json:"settlement,omitempty"`
}
