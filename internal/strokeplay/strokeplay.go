// Package strokeplay is the stroke-play settlement engine: gross and net
// totals, birdie detection, champion selection under award-eligibility
// rules, and the resulting handicap adjustments.
//
// The engine is a pure function over immutable snapshots. It never mutates
// the player registry; handicap changes come back as a map the caller may
// commit in a separate step.
package strokeplay

import (
	"fmt"
	"sort"

	"github.com/mauv0809/fairway-ledger/internal/course"
	"github.com/mauv0809/fairway-ledger/internal/roster"
	"github.com/mauv0809/fairway-ledger/internal/scorecard"
)

// NetPolicy selects how net champion/runner-up eligibility interacts with
// the gross winners. The club's historical sheets disagree on this, so it
// is an explicit deployment choice rather than a silent reconciliation.
type NetPolicy string

const (
	// NetIndependent ranks every net-eligible player regardless of who
	// took the gross titles.
	NetIndependent NetPolicy = "independent"
	// NetExcludeGrossWinners removes the gross champion and runner-up
	// from net eligibility before ranking.
	NetExcludeGrossWinners NetPolicy = "exclude_gross_winners"
)

// RunnerUpFlag selects which eligibility flag gates the gross runner-up.
type RunnerUpFlag string

const (
	// RunnerUpByNetFlag gates the gross runner-up on the shared
	// has-won-net flag (the common variant).
	RunnerUpByNetFlag RunnerUpFlag = "net_flag"
	// RunnerUpBySeparateFlag gates it on the dedicated has-won-runner-up
	// flag instead.
	RunnerUpBySeparateFlag RunnerUpFlag = "separate_flag"
)

// Config carries the per-deployment policy choices.
type Config struct {
	NetPolicy    NetPolicy    `json:"net_policy"`
	RunnerUpFlag RunnerUpFlag `json:"runner_up_flag"`
}

// DefaultConfig matches the only variant of the source sheets with an
// unambiguous settlement loop.
func DefaultConfig() Config {
	return Config{NetPolicy: NetIndependent, RunnerUpFlag: RunnerUpByNetFlag}
}

// Birdie records one player scoring under par on one hole. Eagles and
// better count as birdies too; the club does not track a separate category.
type Birdie struct {
	Player string `json:"player"`
	Hole   int    `json:"hole"`
}

// Result is the full stroke-play settlement for one round. Champion fields
// are empty when no eligible player exists.
type Result struct {
	Gross            map[string]int `json:"gross"`
	Net              map[string]int `json:"net"`
	GrossRank        map[string]int `json:"gross_rank"`
	NetRank          map[string]int `json:"net_rank"`
	GrossChampion    string         `json:"gross_champion"`
	GrossRunnerUp    string         `json:"gross_runner_up"`
	NetChampion      string         `json:"net_champion"`
	NetRunnerUp      string         `json:"net_runner_up"`
	Birdies          []Birdie       `json:"birdies"`
	UpdatedHandicaps map[string]int `json:"updated_handicaps"`
}

// Settle computes the stroke-play result for the given players. Only
// players present in cards take part; a player without a complete
// scorecard simply does not exist for stroke-play purposes.
func Settle(players []roster.Player, cards map[string]scorecard.Strokes, holes []course.Hole, cfg Config) (Result, error) {
	if len(holes) != course.HoleCount {
		return Result{}, fmt.Errorf("stroke play needs exactly %d holes, got %d", course.HoleCount, len(holes))
	}

	// Keep input order: it is the de facto tie-break under stable sort.
	entrants := make([]roster.Player, 0, len(players))
	for _, p := range players {
		if _, ok := cards[p.Name]; ok {
			entrants = append(entrants, p)
		}
	}

	res := Result{
		Gross:            make(map[string]int, len(entrants)),
		Net:              make(map[string]int, len(entrants)),
		GrossRank:        make(map[string]int, len(entrants)),
		NetRank:          make(map[string]int, len(entrants)),
		UpdatedHandicaps: make(map[string]int, len(entrants)),
	}

	for _, p := range entrants {
		card := cards[p.Name]
		res.Gross[p.Name] = card.Total()
		res.Net[p.Name] = card.Total() - p.Handicap
		res.UpdatedHandicaps[p.Name] = p.Handicap
		for i, strokes := range card {
			if strokes < holes[i].Par {
				res.Birdies = append(res.Birdies, Birdie{Player: p.Name, Hole: i + 1})
			}
		}
	}

	grossOrder := sortedBy(entrants, res.Gross)
	netOrder := sortedBy(entrants, res.Net)
	rank(res.GrossRank, grossOrder, res.Gross)
	rank(res.NetRank, netOrder, res.Net)

	// Gross champion: best gross among players who have not taken the
	// gross title before.
	for _, p := range grossOrder {
		if !p.HasWonGross {
			res.GrossChampion = p.Name
			break
		}
	}

	// Gross runner-up: same ranking, gated on the configured flag, never
	// the champion again.
	for _, p := range grossOrder {
		if p.Name == res.GrossChampion {
			continue
		}
		if runnerUpEligible(p, cfg.RunnerUpFlag) {
			res.GrossRunnerUp = p.Name
			break
		}
	}

	// Net titles: rank by net score, skipping past net winners, and under
	// the exclusion policy also the gross top two.
	excluded := map[string]bool{}
	if cfg.NetPolicy == NetExcludeGrossWinners {
		excluded[res.GrossChampion] = true
		excluded[res.GrossRunnerUp] = true
	}
	for _, p := range netOrder {
		if p.HasWonNet || excluded[p.Name] {
			continue
		}
		if res.NetChampion == "" {
			res.NetChampion = p.Name
			continue
		}
		res.NetRunnerUp = p.Name
		break
	}

	if res.NetChampion != "" {
		res.UpdatedHandicaps[res.NetChampion] -= 2
	}
	if res.NetRunnerUp != "" {
		res.UpdatedHandicaps[res.NetRunnerUp] -= 1
	}

	return res, nil
}

func runnerUpEligible(p roster.Player, flag RunnerUpFlag) bool {
	if flag == RunnerUpBySeparateFlag {
		return !p.HasWonRunnerUp
	}
	return !p.HasWonNet
}

// sortedBy returns the players stable-sorted ascending by score, so equal
// scores keep their input order.
func sortedBy(players []roster.Player, scores map[string]int) []roster.Player {
	out := make([]roster.Player, len(players))
	copy(out, players)
	sort.SliceStable(out, func(i, j int) bool {
		return scores[out[i].Name] < scores[out[j].Name]
	})
	return out
}

// rank assigns min-style ranks: equal scores share the lowest position.
func rank(dst map[string]int, order []roster.Player, scores map[string]int) {
	for i, p := range order {
		if i > 0 && scores[p.Name] == scores[order[i-1].Name] {
			dst[p.Name] = dst[order[i-1].Name]
			continue
		}
		dst[p.Name] = i + 1
	}
}
