package settlement

import (
	"testing"

	"github.com/mauv0809/fairway-ledger/internal/metrics"
	"github.com/mauv0809/fairway-ledger/internal/notifier"
	"github.com/mauv0809/fairway-ledger/internal/pubsub"
	"github.com/mauv0809/fairway-ledger/internal/roster"
	"github.com/mauv0809/fairway-ledger/internal/rounds"
	"github.com/mauv0809/fairway-ledger/internal/strokeplay"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullPar() []int {
	pars := make([]int, 18)
	for i := range pars {
		pars[i] = 4
	}
	return pars
}

func strokeIdx() []int {
	idx := make([]int, 18)
	for i := range idx {
		idx[i] = i + 1
	}
	return idx
}

func flatStrokes(strokes int) []int {
	values := make([]int, 18)
	for i := range values {
		values[i] = strokes
	}
	return values
}

func strokePlayRound() *rounds.Round {
	return &rounds.Round{
		ID:         "r1",
		Format:     rounds.FormatStrokePlay,
		CourseName: "Sunset",
		Par:        fullPar(),
		StrokeIdx:  strokeIdx(),
		Entries: []rounds.Entry{
			{Name: "Anna", Handicap: 10, Strokes: flatStrokes(5)},
			{Name: "Bo", Handicap: 5, Strokes: flatStrokes(4)},
		},
		Status: rounds.StatusNew,
	}
}

func newTestProcessor() (*Processor, *rounds.MockStore, *roster.MockStore, *notifier.Mock, *metrics.Mock, *pubsub.MockPubSubClient) {
	store := rounds.NewMock()
	players := roster.NewMock()
	notif := notifier.NewMock()
	metr := metrics.NewMock()
	ps := pubsub.NewMock()
	p := New(store, players, notif, metr, ps, strokeplay.DefaultConfig())
	return p, store, players, notif, metr, ps
}

func TestProcessRounds(t *testing.T) {
	t.Run("new stroke play round runs through to completion", func(t *testing.T) {
		p, store, players, notif, metr, ps := newTestProcessor()

		round := strokePlayRound()
		store.GetRoundsForProcessingFunc = func() ([]*rounds.Round, error) {
			return []*rounds.Round{round}, nil
		}

		p.ProcessRounds(false)

		// Settlement output lands on the document and is persisted.
		require.NotNil(t, round.Settlement)
		assert.Equal(t, "Bo", round.Settlement.GrossChampion)
		assert.Equal(t, "Bo", round.Settlement.NetChampion)
		assert.Equal(t, "Anna", round.Settlement.NetRunnerUp)
		require.Len(t, store.SaveSettlementCalls, 1)

		// The registry post-step commits handicaps and marks winners.
		require.Len(t, players.CommitHandicapsCalls, 1)
		assert.Equal(t, map[string]int{"Bo": 3, "Anna": 9}, players.CommitHandicapsCalls[0])
		require.Len(t, players.MarkWinnersCalls, 1)
		assert.Equal(t, "Bo", players.MarkWinnersCalls[0].GrossChampion)
		assert.Equal(t, "Anna", players.MarkWinnersCalls[0].NetRunnerUp)

		// Notification and publication follow, then the terminal state.
		require.Len(t, notif.SendSettlementNotificationCalls, 1)
		require.Len(t, ps.SendMessageCalls, 2)
		assert.Equal(t, string(pubsub.EventRoundSettled), ps.SendMessageCalls[0].Topic)
		assert.Equal(t, string(pubsub.EventHandicapsUpdated), ps.SendMessageCalls[1].Topic)

		statuses := store.UpdateProcessingStatusCalls
		require.Len(t, statuses, 4)
		assert.Equal(t, rounds.StatusSettled, statuses[0].Status)
		assert.Equal(t, rounds.StatusNotified, statuses[1].Status)
		assert.Equal(t, rounds.StatusPublished, statuses[2].Status)
		assert.Equal(t, rounds.StatusCompleted, statuses[3].Status)

		assert.Equal(t, 1, metr.RoundsSettled())
		assert.Equal(t, 1, metr.RoundsPublished())
	})

	t.Run("eligibility flags come from the registry", func(t *testing.T) {
		p, store, players, _, _, _ := newTestProcessor()

		round := strokePlayRound()
		store.GetRoundsForProcessingFunc = func() ([]*rounds.Round, error) {
			return []*rounds.Round{round}, nil
		}
		players.GetPlayersFunc = func(names []string) ([]roster.Player, error) {
			return []roster.Player{
				{Name: "Bo", Handicap: 5, HasWonGross: true},
			}, nil
		}

		p.ProcessRounds(false)

		require.NotNil(t, round.Settlement)
		assert.Equal(t, "Anna", round.Settlement.GrossChampion)
	})

	t.Run("match play round without main scorecard is marked failed", func(t *testing.T) {
		p, store, players, notif, metr, _ := newTestProcessor()

		round := strokePlayRound()
		round.Format = rounds.FormatMatchPlay
		round.MainPlayer = "Anna"
		round.Entries[0].Strokes = nil // missing card aborts 1-vs-N

		store.GetRoundsForProcessingFunc = func() ([]*rounds.Round, error) {
			return []*rounds.Round{round}, nil
		}

		p.ProcessRounds(false)

		require.Len(t, store.MarkFailedCalls, 1)
		assert.Equal(t, "r1", store.MarkFailedCalls[0].ID)
		assert.NotEmpty(t, store.MarkFailedCalls[0].Reason)
		assert.Equal(t, rounds.StatusFailed, round.Status)
		assert.Equal(t, 1, metr.SettlementFailures())

		assert.Empty(t, store.SaveSettlementCalls)
		assert.Empty(t, notif.SendSettlementNotificationCalls)
		assert.Empty(t, players.MarkWinnersCalls)
	})

	t.Run("points bank round sends the hole log", func(t *testing.T) {
		p, store, _, notif, _, _ := newTestProcessor()

		round := strokePlayRound()
		round.Format = rounds.FormatPointsBank

		store.GetRoundsForProcessingFunc = func() ([]*rounds.Round, error) {
			return []*rounds.Round{round}, nil
		}

		p.ProcessRounds(false)

		require.NotNil(t, round.Settlement)
		assert.Len(t, round.Settlement.HoleLogs, 18)
		// Bo wins every hole outright after handicap adjustment.
		assert.Greater(t, round.Settlement.RunningPoints["Bo"], 0)
		require.Len(t, notif.SendPointsBankLogCalls, 1)
		assert.Equal(t, rounds.StatusCompleted, round.Status)
	})

	t.Run("dry run persists nothing", func(t *testing.T) {
		p, store, players, notif, _, ps := newTestProcessor()

		round := strokePlayRound()
		store.GetRoundsForProcessingFunc = func() ([]*rounds.Round, error) {
			return []*rounds.Round{round}, nil
		}

		p.ProcessRounds(true)

		// The in-memory round still walks the full pipeline.
		assert.Equal(t, rounds.StatusCompleted, round.Status)
		require.NotNil(t, round.Settlement)

		assert.Empty(t, store.SaveSettlementCalls)
		assert.Empty(t, store.UpdateProcessingStatusCalls)
		assert.Empty(t, players.CommitHandicapsCalls)
		assert.Empty(t, players.MarkWinnersCalls)
		assert.Empty(t, ps.SendMessageCalls)
		// Notifications honor the dry-run flag internally and are still invoked.
		require.Len(t, notif.SendSettlementNotificationCalls, 1)
	})
}

func TestProcessRound(t *testing.T) {
	t.Run("processes a single round by id", func(t *testing.T) {
		p, store, _, _, _, _ := newTestProcessor()

		round := strokePlayRound()
		store.GetRoundFunc = func(id string) (*rounds.Round, error) {
			if id == "r1" {
				return round, nil
			}
			return nil, nil
		}

		require.NoError(t, p.ProcessRound("r1", false))
		assert.Equal(t, rounds.StatusCompleted, round.Status)
	})

	t.Run("unknown round is an error", func(t *testing.T) {
		p, _, _, _, _, _ := newTestProcessor()
		require.Error(t, p.ProcessRound("nope", false))
	})
}
