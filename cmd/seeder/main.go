package main

import (
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/mauv0809/fairway-ledger/internal/course"
	"github.com/mauv0809/fairway-ledger/internal/database"
	"github.com/mauv0809/fairway-ledger/internal/roster"
	"github.com/mauv0809/fairway-ledger/internal/rounds"
	"github.com/mauv0809/fairway-ledger/internal/scorecard"
)

// Simplified config loading for the script
func loadConfig() map[string]string {
	err := godotenv.Load()
	if err != nil {
		log.Warn("No .env file found, reading from environment variables")
	}

	config := make(map[string]string)
	required := []string{"DB_NAME"}

	for _, key := range required {
		if value, ok := os.LookupEnv(key); ok {
			config[key] = value
		} else {
			log.Fatalf("Error: Required environment variable %s is not set.", key)
		}
	}
	config["TURSO_PRIMARY_URL"] = os.Getenv("TURSO_PRIMARY_URL")
	config["TURSO_AUTH_TOKEN"] = os.Getenv("TURSO_AUTH_TOKEN")
	return config
}

func main() {
	log.Info("Starting database seeder...")
	cfg := loadConfig()

	db, teardown, err := database.InitDB(cfg["DB_NAME"], cfg["TURSO_PRIMARY_URL"], cfg["TURSO_AUTH_TOKEN"], "./migrations")
	if err != nil {
		log.Fatalf("Failed to initialize database: %s", err)
	}
	defer teardown()

	playerStore := roster.New(db)
	courseStore := course.New(db)
	roundStore := rounds.New(db)

	// A small field of players with spread-out handicaps. The first two
	// already hold titles so settlement has eligibility rules to chew on.
	players := make([]roster.Player, 0, 8)
	for i := 0; i < 8; i++ {
		players = append(players, roster.Player{
			Name:           gofakeit.Name(),
			Handicap:       gofakeit.Number(roster.MinHandicap, 36),
			HasWonGross:    i == 0,
			HasWonNet:      i == 1,
			HasWonRunnerUp: i == 1,
		})
	}
	if err := playerStore.UpsertPlayers(players); err != nil {
		log.Fatalf("Failed to seed players: %s", err)
	}
	log.Info("Seeded players", "count", len(players))

	front, back := demoNines()
	if err := courseStore.UpsertNines([]course.Nine{front, back}); err != nil {
		log.Fatalf("Failed to seed course: %s", err)
	}
	log.Info("Seeded course", "course", front.CourseName)

	layout, err := course.Assemble(front.CourseName, front.Area, back.Area, front.Holes, back.Holes)
	if err != nil {
		log.Fatalf("Failed to assemble demo layout: %s", err)
	}

	// One unsettled stroke-play round so /process has work to do.
	entries := make([]rounds.Entry, 0, 4)
	for _, p := range players[:4] {
		card := demoCard(layout)
		entries = append(entries, rounds.Entry{
			Name:     p.Name,
			Handicap: p.Handicap,
			Strokes:  card.Slice(),
		})
	}
	round := &rounds.Round{
		ID:         uuid.New().String(),
		Format:     rounds.FormatStrokePlay,
		CourseName: layout.CourseName,
		FrontArea:  layout.FrontArea,
		BackArea:   layout.BackArea,
		Par:        layout.Pars(),
		StrokeIdx:  layout.StrokeIndexes(),
		Entries:    entries,
		CreatedAt:  time.Now().Unix(),
		Status:     rounds.StatusNew,
	}
	if err := roundStore.UpsertRound(round); err != nil {
		log.Fatalf("Failed to seed round: %s", err)
	}
	log.Info("Seeded round", "roundID", round.ID, "format", round.Format)

	log.Info("Seeding complete.")
}

// demoNines builds a plausible par-72 course with every stroke index used
// exactly once across the 18 holes.
func demoNines() (course.Nine, course.Nine) {
	name := "Sunset Hills"
	pars := []int{4, 3, 5, 4, 4, 3, 5, 4, 4, 4, 5, 3, 4, 4, 5, 3, 4, 4}
	strokeIdx := []int{5, 17, 1, 9, 13, 15, 3, 7, 11, 6, 2, 18, 10, 14, 4, 16, 8, 12}

	build := func(area string, offset int) course.Nine {
		holes := make([]course.Hole, 9)
		for i := range holes {
			holes[i] = course.Hole{
				Number:      i + 1,
				Par:         pars[offset+i],
				StrokeIndex: strokeIdx[offset+i],
			}
		}
		return course.Nine{CourseName: name, Area: area, Holes: holes}
	}
	return build("Lakes", 0), build("Pines", 9)
}

// demoCard rolls a scorecard loosely around par.
func demoCard(layout course.Layout) scorecard.Strokes {
	var card scorecard.Strokes
	for i, hole := range layout.Holes {
		card[i] = hole.Par + gofakeit.Number(-1, 3)
	}
	return card
}
