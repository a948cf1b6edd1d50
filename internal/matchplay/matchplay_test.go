package matchplay_test

import (
	"testing"

	"github.com/mauv0809/fairway-ledger/internal/course"
	"github.com/mauv0809/fairway-ledger/internal/matchplay"
	"github.com/mauv0809/fairway-ledger/internal/roster"
	"github.com/mauv0809/fairway-ledger/internal/scorecard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testHoles returns 18 par-4 holes with stroke index equal to hole number.
func testHoles() []course.Hole {
	holes := make([]course.Hole, course.HoleCount)
	for i := range holes {
		holes[i] = course.Hole{Number: i + 1, Par: 4, StrokeIndex: i + 1}
	}
	return holes
}

func flatCard(t *testing.T, name string, strokes int) scorecard.Strokes {
	t.Helper()
	values := make([]int, course.HoleCount)
	for i := range values {
		values[i] = strokes
	}
	card, err := scorecard.FromInts(name, values)
	require.NoError(t, err)
	return card
}

func TestStrokeReceiver(t *testing.T) {
	hole := course.Hole{Number: 3, Par: 4, StrokeIndex: 3}

	assert.Equal(t, "Bo", matchplay.StrokeReceiver(hole, "Anna", "Bo", 0, 5))
	assert.Equal(t, "Anna", matchplay.StrokeReceiver(hole, "Anna", "Bo", 5, 0))
	assert.Equal(t, "", matchplay.StrokeReceiver(hole, "Anna", "Bo", 4, 4))

	// The stroke only lands on holes at least as hard as the difference.
	hard := course.Hole{Number: 1, Par: 4, StrokeIndex: 1}
	easy := course.Hole{Number: 18, Par: 4, StrokeIndex: 18}
	assert.Equal(t, "Bo", matchplay.StrokeReceiver(hard, "Anna", "Bo", 0, 2))
	assert.Equal(t, "", matchplay.StrokeReceiver(easy, "Anna", "Bo", 0, 2))
}

func TestSettleOneVsN(t *testing.T) {
	main := roster.Player{Name: "Anna", Handicap: 0}
	opp := roster.Player{Name: "Bo", Handicap: 5}

	boCard := flatCard(t, "Bo", 5)
	boCard[4] = 3 // raw birdie on hole 5, stroke index 5
	cards := map[string]scorecard.Strokes{
		"Anna": flatCard(t, "Anna", 4),
		"Bo":   boCard,
	}
	bets := map[string]int{"Bo": 10}

	res, err := matchplay.SettleOneVsN(main, []roster.Player{opp}, cards, bets, testHoles())
	require.NoError(t, err)
	require.Len(t, res.Pairings, 1)

	pairing := res.Pairings[0]
	assert.Equal(t, "Anna", pairing.PlayerA)
	assert.Equal(t, "Bo", pairing.PlayerB)

	// Holes 1-5 give Bo a stroke (handicap diff 5). On holes 1-4 that
	// turns his 5 into a tying 4; on hole 5 his raw 3 becomes a winning 2
	// and the raw birdie doubles the stake.
	hole5 := pairing.Holes[4]
	assert.Equal(t, "Bo", hole5.StrokeTo)
	assert.Equal(t, 2, hole5.AdjB)
	assert.Equal(t, "Bo", hole5.Winner)
	assert.Equal(t, 2, hole5.Bonus)
	assert.Equal(t, 20, hole5.Amount)

	// Holes 6-18 are straight wins for Anna at the base stake.
	assert.Equal(t, 13, pairing.WinsA)
	assert.Equal(t, 1, pairing.WinsB)
	assert.Equal(t, 4, pairing.Ties)
	assert.Equal(t, 110, pairing.Net)

	assert.Equal(t, 110, res.Earnings["Anna"])
	assert.Equal(t, -110, res.Earnings["Bo"])
	assert.Equal(t, matchplay.Tracker{Win: 13, Lose: 1, Tie: 4}, res.Trackers["Anna"])
	assert.Equal(t, matchplay.Tracker{Win: 1, Lose: 13, Tie: 4}, res.Trackers["Bo"])
}

func TestSettleOneVsNMissingMainCard(t *testing.T) {
	main := roster.Player{Name: "Anna", Handicap: 0}
	opp := roster.Player{Name: "Bo", Handicap: 0}
	cards := map[string]scorecard.Strokes{
		"Bo": flatCard(t, "Bo", 4),
	}

	_, err := matchplay.SettleOneVsN(main, []roster.Player{opp}, cards, nil, testHoles())
	var missing matchplay.MissingPrimaryScoreError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "Anna", missing.Player)
}

func TestSettleOneVsNExcludesOpponentsWithoutCards(t *testing.T) {
	main := roster.Player{Name: "Anna", Handicap: 0}
	opponents := []roster.Player{
		{Name: "Bo", Handicap: 0},
		{Name: "Cy", Handicap: 0},
	}
	cards := map[string]scorecard.Strokes{
		"Anna": flatCard(t, "Anna", 4),
		"Bo":   flatCard(t, "Bo", 5),
	}

	res, err := matchplay.SettleOneVsN(main, opponents, cards, map[string]int{"Bo": 5, "Cy": 5}, testHoles())
	require.NoError(t, err)

	assert.Equal(t, []string{"Cy"}, res.Excluded)
	require.Len(t, res.Pairings, 1)
	assert.NotContains(t, res.Earnings, "Cy")
}

func TestSettleAllPairsIsZeroSum(t *testing.T) {
	players := []roster.Player{
		{Name: "Anna", Handicap: 0},
		{Name: "Bo", Handicap: 3},
		{Name: "Cy", Handicap: 9},
	}
	cyCard := flatCard(t, "Cy", 6)
	cyCard[0] = 3
	cards := map[string]scorecard.Strokes{
		"Anna": flatCard(t, "Anna", 4),
		"Bo":   flatCard(t, "Bo", 5),
		"Cy":   cyCard,
	}

	res, err := matchplay.SettleAllPairs(players, cards, 5, testHoles())
	require.NoError(t, err)

	require.Len(t, res.Pairings, 3)
	total := 0
	for _, earned := range res.Earnings {
		total += earned
	}
	assert.Equal(t, 0, total, "every win is one player's loss")

	// Adjustments are pairwise: Cy gets strokes from both opponents, but
	// a different number against each.
	for _, pairing := range res.Pairings {
		for _, hole := range pairing.Holes {
			if pairing.PlayerB != "Cy" {
				continue
			}
			diff := 0
			switch pairing.PlayerA {
			case "Anna":
				diff = 9
			case "Bo":
				diff = 6
			}
			if hole.Hole <= diff {
				assert.Equal(t, "Cy", hole.StrokeTo)
			} else {
				assert.Empty(t, hole.StrokeTo)
			}
		}
	}
}

func TestSettleAllPairsBonusJudgedOnRawScore(t *testing.T) {
	players := []roster.Player{
		{Name: "Anna", Handicap: 0},
		{Name: "Bo", Handicap: 18},
	}
	// Bo's raw 4 on hole 1 becomes an adjusted 3. The win pays the base
	// stake only: the adjusted score beats par, the raw one does not.
	boCard := flatCard(t, "Bo", 5)
	boCard[0] = 4
	annaCard := flatCard(t, "Anna", 4)
	annaCard[0] = 5
	cards := map[string]scorecard.Strokes{
		"Anna": annaCard,
		"Bo":   boCard,
	}

	res, err := matchplay.SettleAllPairs(players, cards, 10, testHoles())
	require.NoError(t, err)
	require.Len(t, res.Pairings, 1)

	hole1 := res.Pairings[0].Holes[0]
	assert.Equal(t, "Bo", hole1.Winner)
	assert.Equal(t, 3, hole1.AdjB)
	assert.Equal(t, 1, hole1.Bonus)
	assert.Equal(t, 10, hole1.Amount)
}

func TestSettleRejectsPartialLayout(t *testing.T) {
	_, err := matchplay.SettleAllPairs(nil, nil, 1, testHoles()[:9])
	require.Error(t, err)
	_, err = matchplay.SettleOneVsN(roster.Player{Name: "Anna"}, nil, nil, nil, nil)
	require.Error(t, err)
}
