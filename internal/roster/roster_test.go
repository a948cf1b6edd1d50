package roster_test

import (
	"strings"
	"testing"

	"github.com/mauv0809/fairway-ledger/internal/database"
	"github.com/mauv0809/fairway-ledger/internal/roster"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestStore(t *testing.T) (roster.Store, func()) {
	t.Helper()

	db, dbTeardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)

	return roster.New(db), dbTeardown
}

func TestValidateHandicap(t *testing.T) {
	assert.NoError(t, roster.ValidateHandicap("Anna", 0))
	assert.NoError(t, roster.ValidateHandicap("Anna", 54))

	err := roster.ValidateHandicap("Anna", 55)
	var outOfRange roster.HandicapOutOfRangeError
	require.ErrorAs(t, err, &outOfRange)
	assert.Equal(t, 55, outOfRange.Handicap)

	require.Error(t, roster.ValidateHandicap("Anna", -1))
}

func TestRosterRejectsDuplicates(t *testing.T) {
	r := roster.NewRoster()
	require.NoError(t, r.Add(roster.Player{Name: "Anna", Handicap: 10}))
	require.NoError(t, r.Add(roster.Player{Name: "Bo", Handicap: 5}))

	err := r.Add(roster.Player{Name: "Anna", Handicap: 12})
	var dup roster.DuplicatePlayerError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "Anna", dup.Name)

	assert.Len(t, r.Players(), 2)
	assert.Equal(t, map[string]int{"Anna": 10, "Bo": 5}, r.Handicaps())
}

func TestStoreUpsertAndGet(t *testing.T) {
	store, teardown := setupTestStore(t)
	defer teardown()

	require.NoError(t, store.UpsertPlayers([]roster.Player{
		{Name: "Anna", Handicap: 10},
		{Name: "Bo", Handicap: 5, HasWonGross: true},
	}))

	assert.True(t, store.IsKnownPlayer("Anna"))
	assert.False(t, store.IsKnownPlayer("Cy"))

	p, err := store.GetPlayer("Bo")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, 5, p.Handicap)
	assert.True(t, p.HasWonGross)

	// Upsert overwrites handicap and flags.
	require.NoError(t, store.UpsertPlayer(roster.Player{Name: "Bo", Handicap: 4}))
	p, err = store.GetPlayer("Bo")
	require.NoError(t, err)
	assert.Equal(t, 4, p.Handicap)
	assert.False(t, p.HasWonGross)

	// Out-of-range handicaps never reach the database.
	require.Error(t, store.UpsertPlayer(roster.Player{Name: "Dee", Handicap: 80}))
	assert.False(t, store.IsKnownPlayer("Dee"))

	all, err := store.GetAllPlayers()
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Anna", all[0].Name)
}

func TestCommitHandicaps(t *testing.T) {
	store, teardown := setupTestStore(t)
	defer teardown()

	require.NoError(t, store.UpsertPlayers([]roster.Player{
		{Name: "Anna", Handicap: 10},
		{Name: "Bo", Handicap: 5},
	}))

	require.NoError(t, store.CommitHandicaps(map[string]int{"Anna": 8}))

	p, err := store.GetPlayer("Anna")
	require.NoError(t, err)
	assert.Equal(t, 8, p.Handicap)
	p, err = store.GetPlayer("Bo")
	require.NoError(t, err)
	assert.Equal(t, 5, p.Handicap)
}

func TestMarkWinners(t *testing.T) {
	store, teardown := setupTestStore(t)
	defer teardown()

	require.NoError(t, store.UpsertPlayers([]roster.Player{
		{Name: "Anna", Handicap: 10},
		{Name: "Bo", Handicap: 5},
		{Name: "Cy", Handicap: 2},
	}))

	require.NoError(t, store.MarkWinners("Anna", "Bo", "Cy"))

	anna, err := store.GetPlayer("Anna")
	require.NoError(t, err)
	assert.True(t, anna.HasWonGross)
	assert.False(t, anna.HasWonNet)

	bo, err := store.GetPlayer("Bo")
	require.NoError(t, err)
	assert.True(t, bo.HasWonNet)

	cy, err := store.GetPlayer("Cy")
	require.NoError(t, err)
	assert.True(t, cy.HasWonRunnerUp)

	// Empty names are skipped without error.
	require.NoError(t, store.MarkWinners("", "", ""))
}

func TestLoadCSV(t *testing.T) {
	t.Run("parses the registry format", func(t *testing.T) {
		data := "name,handicap,champion,runnerup,netwinner\n" +
			"Anna,10,Yes,No,No\n" +
			"Bo,5,no,yes,yes\n"

		players, err := roster.LoadCSV(strings.NewReader(data))
		require.NoError(t, err)
		require.Len(t, players, 2)

		assert.True(t, players[0].HasWonGross)
		assert.False(t, players[0].HasWonNet)
		assert.True(t, players[1].HasWonRunnerUp)
		assert.True(t, players[1].HasWonNet)
	})

	t.Run("falls back to the runnerup column for net eligibility", func(t *testing.T) {
		data := "name,handicap,champion,runnerup\nAnna,10,No,Yes\n"
		players, err := roster.LoadCSV(strings.NewReader(data))
		require.NoError(t, err)
		require.Len(t, players, 1)
		assert.True(t, players[0].HasWonNet)
		assert.True(t, players[0].HasWonRunnerUp)
	})

	t.Run("rejects out-of-range handicaps", func(t *testing.T) {
		data := "name,handicap,champion,runnerup\nAnna,99,No,No\n"
		_, err := roster.LoadCSV(strings.NewReader(data))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "row 2")
	})

	t.Run("rejects missing columns", func(t *testing.T) {
		_, err := roster.LoadCSV(strings.NewReader("name,handicap\nAnna,10\n"))
		require.Error(t, err)
	})
}
