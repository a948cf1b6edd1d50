package settlement

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/fairway-ledger/internal/course"
	"github.com/mauv0809/fairway-ledger/internal/matchplay"
	"github.com/mauv0809/fairway-ledger/internal/metrics"
	"github.com/mauv0809/fairway-ledger/internal/notifier"
	"github.com/mauv0809/fairway-ledger/internal/pointsbank"
	"github.com/mauv0809/fairway-ledger/internal/pubsub"
	"github.com/mauv0809/fairway-ledger/internal/roster"
	"github.com/mauv0809/fairway-ledger/internal/rounds"
	"github.com/mauv0809/fairway-ledger/internal/scorecard"
	"github.com/mauv0809/fairway-ledger/internal/strokeplay"
)

// New creates a new Processor.
func New(store rounds.Store, players roster.Store, notifier notifier.Notifier, metrics metrics.Metrics, pubsub pubsub.PubSubClient, cfg strokeplay.Config) *Processor {
	return &Processor{
		store:    store,
		players:  players,
		notifier: notifier,
		metrics:  metrics,
		pubsub:   pubsub,
		cfg:      cfg,
	}
}

// ProcessRounds fetches rounds that need processing and advances them through the state machine.
func (p *Processor) ProcessRounds(dryRun bool) {
	log.Info("Starting round processing...")
	pending, err := p.store.GetRoundsForProcessing()
	if err != nil {
		log.Error("Failed to get rounds for processing", "error", err)
		return
	}

	if len(pending) == 0 {
		log.Info("No rounds to process.")
		return
	}

	log.Info("Found rounds to process", "count", len(pending))
	for _, round := range pending {
		startTime := time.Now()
		p.processRound(round, dryRun)
		duration := time.Since(startTime).Milliseconds()
		p.metrics.ObserveSettlementDuration(float64(duration))
	}
	log.Info("Round processing finished.")
}

// ProcessRound advances a single round by ID.
func (p *Processor) ProcessRound(id string, dryRun bool) error {
	round, err := p.store.GetRound(id)
	if err != nil {
		return err
	}
	if round == nil {
		return fmt.Errorf("round %s not found", id)
	}
	startTime := time.Now()
	p.processRound(round, dryRun)
	p.metrics.ObserveSettlementDuration(float64(time.Since(startTime).Milliseconds()))
	return nil
}

func (p *Processor) processRound(round *rounds.Round, dryRun bool) {
	log.Info("Processing round", "roundID", round.ID, "format", round.Format, "initial_status", round.Status)
	for {
		currentState := round.Status
		log.Debug("Evaluating round state", "roundID", round.ID, "status", currentState)

		switch currentState {
		case rounds.StatusNew:
			settlement, err := p.settle(round)
			if err != nil {
				log.Error("Settlement failed", "error", err, "roundID", round.ID)
				p.markFailed(round, err, dryRun)
				return
			}
			round.Settlement = settlement
			if !dryRun {
				if err := p.store.SaveSettlement(round); err != nil {
					log.Error("Failed to save settlement", "error", err, "roundID", round.ID)
					return
				}
			} else {
				log.Info("[Dry Run] Would save settlement", "roundID", round.ID)
			}
			p.applyRegistryUpdates(round, dryRun)
			p.metrics.IncRoundsSettled()
			p.updateStatus(round, rounds.StatusSettled, dryRun)

		case rounds.StatusSettled:
			if err := p.notifier.SendSettlementNotification(round, dryRun); err != nil {
				log.Error("Failed to send settlement notification", "error", err, "roundID", round.ID)
				return
			}
			if round.Format == rounds.FormatPointsBank {
				if err := p.notifier.SendPointsBankLog(round, dryRun); err != nil {
					log.Error("Failed to send points-bank log", "error", err, "roundID", round.ID)
					return
				}
			}
			p.updateStatus(round, rounds.StatusNotified, dryRun)

		case rounds.StatusNotified:
			if dryRun {
				log.Info("[Dry Run] Would publish round-settled event", "roundID", round.ID)
			} else {
				if err := p.pubsub.SendMessage(pubsub.EventRoundSettled, round); err != nil {
					log.Error("Failed to publish round-settled event", "error", err, "roundID", round.ID)
					return
				}
				if changed := changedHandicaps(round); len(changed) > 0 {
					if err := p.pubsub.SendMessage(pubsub.EventHandicapsUpdated, changed); err != nil {
						log.Error("Failed to publish handicaps-updated event", "error", err, "roundID", round.ID)
						return
					}
				}
			}
			p.metrics.IncRoundsPublished()
			p.updateStatus(round, rounds.StatusPublished, dryRun)

		case rounds.StatusPublished:
			p.updateStatus(round, rounds.StatusCompleted, dryRun)

		case rounds.StatusCompleted, rounds.StatusFailed:
			log.Info("Round processing complete", "roundID", round.ID, "final_status", round.Status)
			return

		default:
			log.Warn("Unknown processing status, skipping round", "roundID", round.ID, "status", currentState)
			return
		}
	}
}

// settle runs the engine matching the round's format and shapes the output
// into the persisted settlement document.
func (p *Processor) settle(round *rounds.Round) (*rounds.Settlement, error) {
	holes, err := holesFromRound(round)
	if err != nil {
		return nil, err
	}
	players, err := p.playersFromEntries(round.Entries)
	if err != nil {
		return nil, err
	}
	cards, err := cardsFromEntries(round.Entries)
	if err != nil {
		return nil, err
	}

	switch round.Format {
	case rounds.FormatStrokePlay:
		res, err := strokeplay.Settle(players, cards, holes, p.cfg)
		if err != nil {
			return nil, err
		}
		return &rounds.Settlement{
			Gross:            res.Gross,
			Net:              res.Net,
			GrossRank:        res.GrossRank,
			NetRank:          res.NetRank,
			GrossChampion:    res.GrossChampion,
			GrossRunnerUp:    res.GrossRunnerUp,
			NetChampion:      res.NetChampion,
			NetRunnerUp:      res.NetRunnerUp,
			Birdies:          res.Birdies,
			UpdatedHandicaps: res.UpdatedHandicaps,
		}, nil

	case rounds.FormatMatchPlay:
		main, opponents, bets, err := splitMainPlayer(round, players)
		if err != nil {
			return nil, err
		}
		res, err := matchplay.SettleOneVsN(main, opponents, cards, bets, holes)
		if err != nil {
			return nil, err
		}
		return matchPlaySettlement(res), nil

	case rounds.FormatAllPairs:
		res, err := matchplay.SettleAllPairs(players, cards, round.BetPerHole, holes)
		if err != nil {
			return nil, err
		}
		return matchPlaySettlement(res), nil

	case rounds.FormatPointsBank:
		game, _, err := pointsbank.Run(players, cards, holes, holeEvents(round.Events))
		if err != nil {
			return nil, err
		}
		snap := game.Snapshot()
		return &rounds.Settlement{
			RunningPoints: snap.Points,
			Bank:          snap.Bank,
			Titles:        snap.Titles,
			PendingTitles: snap.PendingTitles,
			HoleLogs:      snap.Logs,
		}, nil
	}
	return nil, fmt.Errorf("unknown round format %q", round.Format)
}

// applyRegistryUpdates is the explicit post-settlement step for stroke
// play: commit changed handicaps and mark the new title holders.
func (p *Processor) applyRegistryUpdates(round *rounds.Round, dryRun bool) {
	if round.Format != rounds.FormatStrokePlay || round.Settlement == nil {
		return
	}
	s := round.Settlement
	changed := changedHandicaps(round)
	if dryRun {
		log.Info("[Dry Run] Would commit handicaps and mark winners",
			"roundID", round.ID, "changed", changed,
			"grossChampion", s.GrossChampion, "netChampion", s.NetChampion, "netRunnerUp", s.NetRunnerUp)
		return
	}
	if len(changed) > 0 {
		if err := p.players.CommitHandicaps(changed); err != nil {
			log.Error("Failed to commit handicaps", "error", err, "roundID", round.ID)
		}
	}
	if err := p.players.MarkWinners(s.GrossChampion, s.NetChampion, s.NetRunnerUp); err != nil {
		log.Error("Failed to mark winners", "error", err, "roundID", round.ID)
	}
}

func (p *Processor) markFailed(round *rounds.Round, cause error, dryRun bool) {
	p.metrics.IncSettlementFailures()
	if dryRun {
		log.Info("[Dry Run] Would mark round as failed", "roundID", round.ID, "reason", cause.Error())
		round.Status = rounds.StatusFailed
		round.FailReason = cause.Error()
		return
	}
	if err := p.store.MarkFailed(round.ID, cause.Error()); err != nil {
		log.Error("Failed to mark round as failed", "error", err, "roundID", round.ID)
		return
	}
	round.Status = rounds.StatusFailed
	round.FailReason = cause.Error()
}

func (p *Processor) updateStatus(round *rounds.Round, newStatus rounds.ProcessingStatus, dryRun bool) {
	if dryRun {
		log.Info("[Dry Run] Would update round status", "roundID", round.ID, "from", round.Status, "to", newStatus)
		round.Status = newStatus // Update in-memory for the loop
		return
	}

	err := p.store.UpdateProcessingStatus(round.ID, newStatus)
	if err != nil {
		log.Error("Failed to update processing status", "error", err, "roundID", round.ID)
	} else {
		log.Debug("Successfully updated status", "roundID", round.ID, "from", round.Status, "to", newStatus)
		round.Status = newStatus // Keep the in-memory object in sync
	}
}

// playersFromEntries rebuilds the round's player snapshot: handicaps come
// from the entries (frozen at round start), eligibility flags from the
// registry. Unknown players simply carry zero flags.
func (p *Processor) playersFromEntries(entries []rounds.Entry) ([]roster.Player, error) {
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name)
	}
	known, err := p.players.GetPlayers(names)
	if err != nil {
		return nil, fmt.Errorf("failed to load players: %w", err)
	}
	flags := make(map[string]roster.Player, len(known))
	for _, pl := range known {
		flags[pl.Name] = pl
	}

	players := make([]roster.Player, 0, len(entries))
	for _, e := range entries {
		pl := roster.Player{Name: e.Name, Handicap: e.Handicap}
		if f, ok := flags[e.Name]; ok {
			pl.HasWonGross = f.HasWonGross
			pl.HasWonNet = f.HasWonNet
			pl.HasWonRunnerUp = f.HasWonRunnerUp
		}
		players = append(players, pl)
	}
	return players, nil
}

func cardsFromEntries(entries []rounds.Entry) (map[string]scorecard.Strokes, error) {
	cards := make(map[string]scorecard.Strokes, len(entries))
	for _, e := range entries {
		card, err := scorecard.FromInts(e.Name, e.Strokes)
		if err != nil {
			return nil, err
		}
		cards[e.Name] = card
	}
	return cards, nil
}

func holesFromRound(round *rounds.Round) ([]course.Hole, error) {
	if len(round.Par) != course.HoleCount || len(round.StrokeIdx) != course.HoleCount {
		return nil, fmt.Errorf("round %s has %d pars and %d stroke indexes, need %d of each",
			round.ID, len(round.Par), len(round.StrokeIdx), course.HoleCount)
	}
	holes := make([]course.Hole, course.HoleCount)
	for i := range holes {
		holes[i] = course.Hole{Number: i + 1, Par: round.Par[i], StrokeIndex: round.StrokeIdx[i]}
	}
	return holes, nil
}

func splitMainPlayer(round *rounds.Round, players []roster.Player) (roster.Player, []roster.Player, map[string]int, error) {
	if round.MainPlayer == "" {
		return roster.Player{}, nil, nil, fmt.Errorf("round %s has no main player", round.ID)
	}
	var main roster.Player
	found := false
	opponents := make([]roster.Player, 0, len(players))
	for _, pl := range players {
		if pl.Name == round.MainPlayer {
			main = pl
			found = true
			continue
		}
		opponents = append(opponents, pl)
	}
	if !found {
		return roster.Player{}, nil, nil, fmt.Errorf("main player %s is not among the round's entries", round.MainPlayer)
	}
	bets := make(map[string]int, len(round.Entries))
	for _, e := range round.Entries {
		if e.Name != round.MainPlayer {
			bets[e.Name] = e.Bet
		}
	}
	return main, opponents, bets, nil
}

func matchPlaySettlement(res matchplay.Result) *rounds.Settlement {
	return &rounds.Settlement{
		Earnings: res.Earnings,
		Trackers: res.Trackers,
		Pairings: res.Pairings,
		Excluded: res.Excluded,
	}
}

func holeEvents(tags []rounds.HoleEventTags) []pointsbank.HoleEvents {
	if len(tags) == 0 {
		return nil
	}
	events := make([]pointsbank.HoleEvents, len(tags))
	for i, holeTags := range tags {
		if holeTags == nil {
			continue
		}
		ev := make(pointsbank.HoleEvents, len(holeTags))
		for name, ts := range holeTags {
			for _, t := range ts {
				ev[name] = append(ev[name], pointsbank.Event(t))
			}
		}
		events[i] = ev
	}
	return events
}

// changedHandicaps filters the settled handicap map down to players whose
// handicap actually moved.
func changedHandicaps(round *rounds.Round) map[string]int {
	if round.Settlement == nil || len(round.Settlement.UpdatedHandicaps) == 0 {
		return nil
	}
	before := make(map[string]int, len(round.Entries))
	for _, e := range round.Entries {
		before[e.Name] = e.Handicap
	}
	changed := make(map[string]int)
	for name, hcp := range round.Settlement.UpdatedHandicaps {
		if hcp != before[name] {
			changed[name] = hcp
		}
	}
	return changed
}
