package course_test

import (
	"strings"
	"testing"

	"github.com/mauv0809/fairway-ledger/internal/course"
	"github.com/mauv0809/fairway-ledger/internal/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nineHoles(startStrokeIdx int) []course.Hole {
	holes := make([]course.Hole, 9)
	for i := range holes {
		holes[i] = course.Hole{Number: i + 1, Par: 4, StrokeIndex: startStrokeIdx + i}
	}
	return holes
}

func TestAssemble(t *testing.T) {
	t.Run("renumbers holes across the nines", func(t *testing.T) {
		layout, err := course.Assemble("Sunset", "Lakes", "Pines", nineHoles(1), nineHoles(10))
		require.NoError(t, err)

		require.Len(t, layout.Holes, 18)
		assert.Equal(t, 1, layout.Holes[0].Number)
		assert.Equal(t, 10, layout.Holes[9].Number)
		assert.Equal(t, 18, layout.Holes[17].Number)
		// The back nine keeps its own stroke indexes.
		assert.Equal(t, 10, layout.Holes[9].StrokeIndex)
		assert.Empty(t, layout.Validate())
	})

	t.Run("rejects a short combination", func(t *testing.T) {
		_, err := course.Assemble("Sunset", "Lakes", "Lakes", nineHoles(1), nineHoles(1)[:5])
		var invalid course.InvalidCourseSelectionError
		require.ErrorAs(t, err, &invalid)
		assert.Equal(t, 14, invalid.Got)
	})
}

func TestValidateWarnsOnBadStrokeIndexes(t *testing.T) {
	front := nineHoles(1)
	back := nineHoles(1) // duplicates 1..9, leaves 10..18 missing
	layout, err := course.Assemble("Sunset", "Lakes", "Lakes", front, back)
	require.NoError(t, err)

	warnings := layout.Validate()
	require.NotEmpty(t, warnings)
	assert.Contains(t, strings.Join(warnings, "\n"), "stroke index 1 assigned to 2 holes")
	assert.Contains(t, strings.Join(warnings, "\n"), "stroke index 18 missing")
}

func TestLoadCSV(t *testing.T) {
	t.Run("groups rows into nines", func(t *testing.T) {
		var b strings.Builder
		b.WriteString("course_name,area,hole,hcp,par\n")
		// Out of order on purpose; the loader sorts by hole number.
		b.WriteString("Sunset,Lakes,2,3,4\n")
		b.WriteString("Sunset,Lakes,1,5,5\n")
		b.WriteString("Sunset,Pines,1,2,3\n")

		nines, err := course.LoadCSV(strings.NewReader(b.String()))
		require.NoError(t, err)
		require.Len(t, nines, 2)

		assert.Equal(t, "Lakes", nines[0].Area)
		assert.Equal(t, 1, nines[0].Holes[0].Number)
		assert.Equal(t, 5, nines[0].Holes[0].Par)
		assert.Equal(t, "Pines", nines[1].Area)
	})

	t.Run("rejects missing columns", func(t *testing.T) {
		_, err := course.LoadCSV(strings.NewReader("course_name,area,hole\nSunset,Lakes,1\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "par")
	})

	t.Run("rejects non-numeric values", func(t *testing.T) {
		_, err := course.LoadCSV(strings.NewReader("course_name,area,hole,hcp,par\nSunset,Lakes,one,3,4\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "row 2")
	})
}

func setupTestStore(t *testing.T) (course.Store, func()) {
	t.Helper()

	db, dbTeardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)

	return course.New(db), dbTeardown
}

func TestStore(t *testing.T) {
	store, teardown := setupTestStore(t)
	defer teardown()

	front := course.Nine{CourseName: "Sunset", Area: "Lakes", Holes: nineHoles(1)}
	back := course.Nine{CourseName: "Sunset", Area: "Pines", Holes: nineHoles(10)}
	require.NoError(t, store.UpsertNines([]course.Nine{front, back}))

	holes, err := store.GetNine("Sunset", "Lakes")
	require.NoError(t, err)
	require.Len(t, holes, 9)
	assert.Equal(t, 1, holes[0].StrokeIndex)

	courses, err := store.ListCourses()
	require.NoError(t, err)
	assert.Equal(t, []string{"Sunset"}, courses)

	areas, err := store.ListAreas("Sunset")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Lakes", "Pines"}, areas)

	// Upserting the same nine with new data replaces it.
	front.Holes[0].Par = 5
	require.NoError(t, store.UpsertNine(front))
	holes, err = store.GetNine("Sunset", "Lakes")
	require.NoError(t, err)
	assert.Equal(t, 5, holes[0].Par)

	// Unknown areas come back empty.
	holes, err = store.GetNine("Sunset", "Dunes")
	require.NoError(t, err)
	assert.Empty(t, holes)

	require.NoError(t, store.Clear())
	courses, err = store.ListCourses()
	require.NoError(t, err)
	assert.Empty(t, courses)
}
