package pointsbank_test

import (
	"testing"

	"github.com/mauv0809/fairway-ledger/internal/course"
	"github.com/mauv0809/fairway-ledger/internal/pointsbank"
	"github.com/mauv0809/fairway-ledger/internal/roster"
	"github.com/mauv0809/fairway-ledger/internal/scorecard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hole(number int) course.Hole {
	return course.Hole{Number: number, Par: 4, StrokeIndex: 18}
}

func twoPlayers() []roster.Player {
	return []roster.Player{
		{Name: "Anna", Handicap: 0},
		{Name: "Bo", Handicap: 0},
	}
}

func TestPlayHoleBankAndWinner(t *testing.T) {
	g := pointsbank.New(twoPlayers())
	assert.Equal(t, 1, g.Bank())

	// Two ties grow the bank by one each.
	outcome, err := g.PlayHole(hole(1), map[string]int{"Anna": 4, "Bo": 4}, nil)
	require.NoError(t, err)
	assert.True(t, outcome.Tie)
	assert.Equal(t, 2, g.Bank())

	_, err = g.PlayHole(hole(2), map[string]int{"Anna": 4, "Bo": 4}, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, g.Bank())

	// A sole winner takes the whole bank and it resets to 1.
	outcome, err = g.PlayHole(hole(3), map[string]int{"Anna": 4, "Bo": 5}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Anna", outcome.Winner)
	assert.Equal(t, 3, outcome.Gain)
	assert.Equal(t, 3, g.Points()["Anna"])
	assert.Equal(t, 1, g.Bank())
}

func TestPlayHoleTieOnBest(t *testing.T) {
	threePlayers := []roster.Player{
		{Name: "Anna", Handicap: 0},
		{Name: "Bo", Handicap: 0},
		{Name: "Cy", Handicap: 0},
	}

	t.Run("a tie on the best score stays a tie", func(t *testing.T) {
		g := pointsbank.New(threePlayers)

		// Anna and Bo share the best score; Cy beats nobody and must not
		// collect the bank.
		outcome, err := g.PlayHole(hole(1), map[string]int{"Anna": 3, "Bo": 3, "Cy": 5}, nil)
		require.NoError(t, err)
		assert.True(t, outcome.Tie)
		assert.Empty(t, outcome.Winner)
		assert.Equal(t, 2, g.Bank())
		assert.Equal(t, 0, g.Points()["Cy"])
	})

	t.Run("ties on worse scores do not block a sole winner", func(t *testing.T) {
		g := pointsbank.New(threePlayers)

		outcome, err := g.PlayHole(hole(1), map[string]int{"Anna": 3, "Bo": 5, "Cy": 5}, nil)
		require.NoError(t, err)
		assert.False(t, outcome.Tie)
		assert.Equal(t, "Anna", outcome.Winner)
		assert.Equal(t, 1, g.Points()["Anna"])
	})

	t.Run("best score arriving last still ties the hole", func(t *testing.T) {
		g := pointsbank.New(threePlayers)

		outcome, err := g.PlayHole(hole(1), map[string]int{"Anna": 5, "Bo": 3, "Cy": 3}, nil)
		require.NoError(t, err)
		assert.True(t, outcome.Tie)
		assert.Equal(t, 2, g.Bank())
	})
}

func TestPlayHoleBirdieSteal(t *testing.T) {
	g := pointsbank.New(twoPlayers())

	// Anna builds up a balance first.
	_, err := g.PlayHole(hole(1), map[string]int{"Anna": 4, "Bo": 5}, nil)
	require.NoError(t, err)
	_, err = g.PlayHole(hole(2), map[string]int{"Anna": 4, "Bo": 5}, nil)
	require.NoError(t, err)
	require.Equal(t, 2, g.Points()["Anna"])

	// Bo wins hole 3 with a raw birdie: bank plus one stolen point.
	outcome, err := g.PlayHole(hole(3), map[string]int{"Anna": 4, "Bo": 3}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Bo", outcome.Winner)
	assert.Equal(t, 1, outcome.BirdieSteal)
	assert.Equal(t, 2, outcome.Gain)
	assert.Equal(t, 1, g.Points()["Anna"])
	assert.Equal(t, 2, g.Points()["Bo"])
}

func TestTitlesLagOneHole(t *testing.T) {
	g := pointsbank.New(twoPlayers())

	// Three ties put 4 points in the bank; Anna takes them on hole 4.
	for i := 1; i <= 3; i++ {
		_, err := g.PlayHole(hole(i), map[string]int{"Anna": 4, "Bo": 4}, nil)
		require.NoError(t, err)
	}
	_, err := g.PlayHole(hole(4), map[string]int{"Anna": 4, "Bo": 5}, nil)
	require.NoError(t, err)
	require.Equal(t, 4, g.Points()["Anna"])

	// The title is staged, not yet effective: penalty tags on the very
	// next event set would already bite, but only from hole 5 on.
	assert.Equal(t, pointsbank.TitleNone, g.Titles()["Anna"])
	snap := g.Snapshot()
	assert.Equal(t, pointsbank.TitleRichMan, snap.PendingTitles["Anna"])

	// On hole 5 the pending title becomes effective and penalties apply.
	outcome, err := g.PlayHole(hole(5), map[string]int{"Anna": 4, "Bo": 4}, pointsbank.HoleEvents{
		"Anna": {pointsbank.EventSand, pointsbank.EventWater},
		"Bo":   {pointsbank.EventOB}, // untitled, no penalty
	})
	require.NoError(t, err)
	assert.Equal(t, pointsbank.TitleRichMan, g.Titles()["Anna"])
	assert.Equal(t, 2, outcome.Penalties["Anna"])
	assert.NotContains(t, outcome.Penalties, "Bo")
	assert.Equal(t, 2, g.Points()["Anna"])

	// The tied hole folds the penalty pool into the bank.
	assert.True(t, outcome.Tie)
	assert.Equal(t, 1+1+2, g.Bank())

	// Rich man only loses the title at zero, not at dropping below 4.
	assert.Equal(t, pointsbank.TitleRichMan, g.Snapshot().PendingTitles["Anna"])
}

func TestPenaltyCaps(t *testing.T) {
	players := twoPlayers()

	t.Run("per-hole penalty is capped", func(t *testing.T) {
		g := pointsbank.Restore(players, pointsbank.Snapshot{
			Points:        map[string]int{"Anna": 10, "Bo": 0},
			Bank:          1,
			Titles:        map[string]pointsbank.Title{"Anna": pointsbank.TitleSuperRichMan, "Bo": pointsbank.TitleNone},
			PendingTitles: map[string]pointsbank.Title{"Anna": pointsbank.TitleSuperRichMan, "Bo": pointsbank.TitleNone},
			NextHole:      6,
		})

		// Five tags cap at 3; the super rich man par_on surcharge lands on top.
		outcome, err := g.PlayHole(hole(6), map[string]int{"Anna": 4, "Bo": 4}, pointsbank.HoleEvents{
			"Anna": {pointsbank.EventSand, pointsbank.EventWater, pointsbank.EventOB, pointsbank.EventMiss, pointsbank.EventParOn},
		})
		require.NoError(t, err)
		assert.Equal(t, 4, outcome.Penalties["Anna"])
		assert.Equal(t, 6, g.Points()["Anna"])
	})

	t.Run("penalty never exceeds the player's balance", func(t *testing.T) {
		g := pointsbank.Restore(players, pointsbank.Snapshot{
			Points:        map[string]int{"Anna": 1, "Bo": 0},
			Bank:          1,
			Titles:        map[string]pointsbank.Title{"Anna": pointsbank.TitleRichMan, "Bo": pointsbank.TitleNone},
			PendingTitles: map[string]pointsbank.Title{"Anna": pointsbank.TitleRichMan, "Bo": pointsbank.TitleNone},
			NextHole:      6,
		})

		outcome, err := g.PlayHole(hole(6), map[string]int{"Anna": 4, "Bo": 4}, pointsbank.HoleEvents{
			"Anna": {pointsbank.EventSand, pointsbank.EventWater, pointsbank.EventOB},
		})
		require.NoError(t, err)
		assert.Equal(t, 1, outcome.Penalties["Anna"])
		assert.Equal(t, 0, g.Points()["Anna"])
	})

	t.Run("unknown tags are ignored", func(t *testing.T) {
		g := pointsbank.Restore(players, pointsbank.Snapshot{
			Points:        map[string]int{"Anna": 5, "Bo": 0},
			Bank:          1,
			Titles:        map[string]pointsbank.Title{"Anna": pointsbank.TitleRichMan, "Bo": pointsbank.TitleNone},
			PendingTitles: map[string]pointsbank.Title{"Anna": pointsbank.TitleRichMan, "Bo": pointsbank.TitleNone},
			NextHole:      6,
		})

		outcome, err := g.PlayHole(hole(6), map[string]int{"Anna": 4, "Bo": 4}, pointsbank.HoleEvents{
			"Anna": {pointsbank.Event("lost_glove"), pointsbank.EventSand},
		})
		require.NoError(t, err)
		assert.Equal(t, 1, outcome.Penalties["Anna"])
	})
}

func TestPlayHoleOrderEnforced(t *testing.T) {
	g := pointsbank.New(twoPlayers())

	_, err := g.PlayHole(hole(2), map[string]int{"Anna": 4, "Bo": 4}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected hole 1")

	_, err = g.PlayHole(hole(1), map[string]int{"Anna": 4}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing stroke count for Bo")
}

func TestSnapshotRestore(t *testing.T) {
	players := twoPlayers()
	g := pointsbank.New(players)
	for i := 1; i <= 4; i++ {
		raw := map[string]int{"Anna": 4, "Bo": 4}
		if i%2 == 0 {
			raw["Bo"] = 5
		}
		_, err := g.PlayHole(hole(i), raw, nil)
		require.NoError(t, err)
	}

	snap := g.Snapshot()
	restored := pointsbank.Restore(players, snap)
	assert.Equal(t, snap, restored.Snapshot())

	// Both games continue identically.
	raw := map[string]int{"Anna": 5, "Bo": 4}
	want, err := g.PlayHole(hole(5), raw, nil)
	require.NoError(t, err)
	got, err := restored.PlayHole(hole(5), raw, nil)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestRun(t *testing.T) {
	players := twoPlayers()
	annaValues := make([]int, course.HoleCount)
	boValues := make([]int, course.HoleCount)
	for i := range annaValues {
		annaValues[i] = 4
		boValues[i] = 5
	}
	annaCard, err := scorecard.FromInts("Anna", annaValues)
	require.NoError(t, err)
	boCard, err := scorecard.FromInts("Bo", boValues)
	require.NoError(t, err)
	cards := map[string]scorecard.Strokes{"Anna": annaCard, "Bo": boCard}

	holes := make([]course.Hole, course.HoleCount)
	for i := range holes {
		holes[i] = hole(i + 1)
	}

	g, outcomes, err := pointsbank.Run(players, cards, holes, nil)
	require.NoError(t, err)
	require.Len(t, outcomes, course.HoleCount)

	// Anna wins every hole: one point per hole, no ties.
	assert.Equal(t, course.HoleCount, g.Points()["Anna"])
	assert.Equal(t, 0, g.Points()["Bo"])
	assert.Equal(t, pointsbank.TitleSuperRichMan, g.Titles()["Anna"])
	assert.Len(t, g.Logs(), course.HoleCount)

	t.Run("rejects a missing card", func(t *testing.T) {
		_, _, err := pointsbank.Run(players, map[string]scorecard.Strokes{"Anna": annaCard}, holes, nil)
		require.Error(t, err)
	})

	t.Run("rejects a partial event list", func(t *testing.T) {
		_, _, err := pointsbank.Run(players, cards, holes, make([]pointsbank.HoleEvents, 3))
		require.Error(t, err)
	})
}
