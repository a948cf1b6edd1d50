package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/slack-go/slack"

	"github.com/mauv0809/fairway-ledger/internal/course"
	"github.com/mauv0809/fairway-ledger/internal/export"
	"github.com/mauv0809/fairway-ledger/internal/roster"
	"github.com/mauv0809/fairway-ledger/internal/rounds"
	"github.com/mauv0809/fairway-ledger/internal/scorecard"
)

func (s *Server) HealthCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Received health check request")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK!")
	}
}

func (s *Server) ClearStoreHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		roundID := r.URL.Query().Get("roundID")
		if roundID != "" {
			log.Info("Received request to clear a specific round", "roundID", roundID)
			if err := s.Rounds.ClearRound(roundID); err != nil {
				log.Error("Failed to clear round", "error", err, "roundID", roundID)
				http.Error(w, "Failed to clear round", http.StatusInternalServerError)
				return
			}
			w.WriteHeader(http.StatusOK)
			fmt.Fprintf(w, "Cleared round %s from store!", roundID)
		} else {
			log.Info("Received request to clear all rounds")
			if err := s.Rounds.Clear(); err != nil {
				log.Error("Failed to clear rounds", "error", err)
				http.Error(w, "Failed to clear rounds", http.StatusInternalServerError)
				return
			}
			w.WriteHeader(http.StatusOK)
			fmt.Fprint(w, "Store cleared!")
		}
	}
}

func (s *Server) ListPlayersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		players, err := s.Players.GetAllPlayers()
		if err != nil {
			http.Error(w, "Failed to get players", http.StatusInternalServerError)
			log.Error("Failed to get players from store", "error", err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(players); err != nil {
			log.Error("Failed to write response", "error", err)
		}
	}
}

func (s *Server) ListCoursesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		names, err := s.Courses.ListCourses()
		if err != nil {
			http.Error(w, "Failed to get courses", http.StatusInternalServerError)
			log.Error("Failed to get courses from store", "error", err)
			return
		}
		courses := make(map[string][]string, len(names))
		for _, name := range names {
			areas, err := s.Courses.ListAreas(name)
			if err != nil {
				http.Error(w, "Failed to get course areas", http.StatusInternalServerError)
				log.Error("Failed to get areas from store", "error", err, "course", name)
				return
			}
			courses[name] = areas
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(courses); err != nil {
			log.Error("Failed to write response", "error", err)
		}
	}
}

func (s *Server) ListRoundsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		all, err := s.Rounds.GetAllRounds()
		if err != nil {
			http.Error(w, "Failed to get rounds", http.StatusInternalServerError)
			log.Error("Failed to get rounds from store", "error", err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(all); err != nil {
			log.Error("Failed to encode rounds to JSON", "error", err)
		}
	}
}

// submitEntry is one player's line in a round submission. Strokes may come
// as the 18-digit quick string or as an explicit slice; handicap defaults
// to the registry value when omitted.
type submitEntry struct {
	Name     string `json:"name"`
	Handicap *int   `json:"handicap,omitempty"`
	Bet      int    `json:"bet,omitempty"`
	Quick    string `json:"quick,omitempty"`
	Strokes  []int  `json:"strokes,omitempty"`
}

type submitRoundRequest struct {
	Format     string                 `json:"format"`
	CourseName string                 `json:"course_name"`
	FrontArea  string                 `json:"front_area"`
	BackArea   string                 `json:"back_area"`
	MainPlayer string                 `json:"main_player,omitempty"`
	BetPerHole int                    `json:"bet_per_hole,omitempty"`
	Entries    []submitEntry          `json:"entries"`
	Events     []rounds.HoleEventTags `json:"events,omitempty"`
}

func (s *Server) SubmitRoundHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		isDryRun := isDryRunFromContext(r)

		var req submitRoundRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Error("Failed to decode round submission", "error", err)
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}

		switch rounds.Format(req.Format) {
		case rounds.FormatStrokePlay, rounds.FormatMatchPlay, rounds.FormatAllPairs, rounds.FormatPointsBank:
		default:
			http.Error(w, fmt.Sprintf("unknown format %q", req.Format), http.StatusBadRequest)
			return
		}
		if len(req.Entries) == 0 {
			http.Error(w, "a round needs at least one entry", http.StatusBadRequest)
			return
		}
		if len(req.Events) != 0 && len(req.Events) != course.HoleCount {
			http.Error(w, fmt.Sprintf("expected %d hole event sets, got %d", course.HoleCount, len(req.Events)), http.StatusBadRequest)
			return
		}

		layout, err := s.assembleLayout(req.CourseName, req.FrontArea, req.BackArea)
		if err != nil {
			log.Error("Failed to assemble course layout", "error", err)
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		for _, warning := range layout.Validate() {
			log.Warn("Course layout warning", "course", req.CourseName, "warning", warning)
		}

		entries, err := s.buildEntries(req.Entries)
		if err != nil {
			log.Error("Rejected round submission", "error", err)
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := validateStakes(rounds.Format(req.Format), req.MainPlayer, req.BetPerHole, entries); err != nil {
			log.Error("Rejected round submission", "error", err)
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		round := &rounds.Round{
			ID:         uuid.New().String(),
			Format:     rounds.Format(req.Format),
			CourseName: req.CourseName,
			FrontArea:  req.FrontArea,
			BackArea:   req.BackArea,
			Par:        layout.Pars(),
			StrokeIdx:  layout.StrokeIndexes(),
			MainPlayer: req.MainPlayer,
			BetPerHole: req.BetPerHole,
			Entries:    entries,
			Events:     req.Events,
			CreatedAt:  time.Now().Unix(),
			Status:     rounds.StatusNew,
		}

		if isDryRun {
			log.Info("[Dry Run] Would have saved round", "roundID", round.ID, "format", round.Format)
		} else {
			if err := s.Rounds.UpsertRound(round); err != nil {
				log.Error("Failed to save round", "error", err)
				http.Error(w, "Failed to save round", http.StatusInternalServerError)
				return
			}
		}
		s.Metrics.IncRoundsSubmitted()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		if err := json.NewEncoder(w).Encode(map[string]string{"id": round.ID}); err != nil {
			log.Error("Failed to write response", "error", err)
		}
	}
}

func (s *Server) assembleLayout(courseName, frontArea, backArea string) (course.Layout, error) {
	front, err := s.Courses.GetNine(courseName, frontArea)
	if err != nil {
		return course.Layout{}, err
	}
	back, err := s.Courses.GetNine(courseName, backArea)
	if err != nil {
		return course.Layout{}, err
	}
	return course.Assemble(courseName, frontArea, backArea, front, back)
}

// buildEntries validates the submitted lines into the persisted entry
// form: parsed strokes plus a handicap snapshot taken now.
func (s *Server) buildEntries(submitted []submitEntry) ([]rounds.Entry, error) {
	entries := make([]rounds.Entry, 0, len(submitted))
	seen := make(map[string]bool, len(submitted))
	for _, e := range submitted {
		if e.Name == "" {
			return nil, errors.New("entry with empty player name")
		}
		if seen[e.Name] {
			return nil, roster.DuplicatePlayerError{Name: e.Name}
		}
		seen[e.Name] = true

		var card scorecard.Strokes
		var err error
		if e.Quick != "" {
			card, err = scorecard.ParseQuick(e.Name, e.Quick)
		} else {
			card, err = scorecard.FromInts(e.Name, e.Strokes)
		}
		if err != nil {
			return nil, err
		}

		handicap := 0
		if e.Handicap != nil {
			handicap = *e.Handicap
		} else {
			known, err := s.Players.GetPlayer(e.Name)
			if err != nil {
				return nil, fmt.Errorf("failed to look up player %s: %w", e.Name, err)
			}
			if known == nil {
				return nil, fmt.Errorf("player %s is not registered and no handicap was given", e.Name)
			}
			handicap = known.Handicap
		}
		if err := roster.ValidateHandicap(e.Name, handicap); err != nil {
			return nil, err
		}

		entries = append(entries, rounds.Entry{
			Name:       e.Name,
			Handicap:   handicap,
			Bet:        e.Bet,
			QuickEntry: e.Quick,
			Strokes:    card.Slice(),
		})
	}
	return entries, nil
}

// validateStakes enforces positive stakes on the monetary formats. A zero
// bet would settle to a silent no-op and a negative one would invert every
// transfer, so both are rejected up front.
func validateStakes(format rounds.Format, mainPlayer string, betPerHole int, entries []rounds.Entry) error {
	switch format {
	case rounds.FormatMatchPlay:
		for _, e := range entries {
			if e.Name == mainPlayer {
				continue
			}
			if e.Bet <= 0 {
				return fmt.Errorf("opponent %s needs a positive bet per hole, got %d", e.Name, e.Bet)
			}
		}
	case rounds.FormatAllPairs:
		if betPerHole <= 0 {
			return fmt.Errorf("all pairs needs a positive bet per hole, got %d", betPerHole)
		}
	}
	return nil
}

func (s *Server) ProcessRoundsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Info("Starting round processing...")
		isDryRun := isDryRunFromContext(r)

		if roundID := r.URL.Query().Get("roundID"); roundID != "" {
			if err := s.Settler.ProcessRound(roundID, isDryRun); err != nil {
				log.Error("Failed to process round", "error", err, "roundID", roundID)
				http.Error(w, err.Error(), http.StatusNotFound)
				return
			}
		} else {
			s.Settler.ProcessRounds(isDryRun)
		}

		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "Round processing completed.")
		log.Info("Round processing finished.")
	}
}

// leaderboardTable resolves the round named in the request, falling back
// to the most recently settled round when none is given.
func (s *Server) leaderboardTable(roundID string) (export.Table, error) {
	var round *rounds.Round
	if roundID != "" {
		var err error
		round, err = s.Rounds.GetRound(roundID)
		if err != nil {
			return export.Table{}, err
		}
		if round == nil {
			return export.Table{}, fmt.Errorf("round %s not found", roundID)
		}
	} else {
		all, err := s.Rounds.GetAllRounds()
		if err != nil {
			return export.Table{}, err
		}
		for _, candidate := range all {
			if candidate.Settlement == nil {
				continue
			}
			if round == nil || candidate.CreatedAt > round.CreatedAt {
				round = candidate
			}
		}
		if round == nil {
			return export.Table{}, errors.New("no settled rounds available")
		}
	}
	return export.LeaderboardTable(round)
}

// LeaderboardHandler serves the settled leaderboard of a round as JSON.
func (s *Server) LeaderboardHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		table, err := s.leaderboardTable(r.URL.Query().Get("roundID"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			log.Error("Failed to build leaderboard", "error", err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(table); err != nil {
			log.Error("Failed to encode leaderboard to JSON", "error", err)
		}
	}
}

// NotifyLeaderboardHandler posts the leaderboard of a settled round to the
// configured Slack channel, instead of returning it to the caller.
func (s *Server) NotifyLeaderboardHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		isDryRun := isDryRunFromContext(r)
		table, err := s.leaderboardTable(r.URL.Query().Get("roundID"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			log.Error("Failed to build leaderboard", "error", err)
			return
		}
		if err := s.Notifier.SendLeaderboard(table, isDryRun); err != nil {
			http.Error(w, "Failed to send leaderboard", http.StatusInternalServerError)
			log.Error("Failed to send leaderboard", "error", err)
			return
		}
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "Leaderboard sent.")
	}
}

// pushEnvelope is the wrapper a Pub/Sub push subscription delivers.
// Message.Data is the base64-encoded msgpack round document.
type pushEnvelope struct {
	Message struct {
		Data      []byte `json:"data"`
		MessageID string `json:"messageId"`
	} `json:"message"`
	Subscription string `json:"subscription"`
}

// PubSubPushHandler consumes settled round documents delivered by a push
// subscription and announces their leaderboard on Slack. Any 2xx status
// acks the message; bad payloads are acked too, since redelivery cannot
// fix them.
func (s *Server) PubSubPushHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		isDryRun := isDryRunFromContext(r)

		var env pushEnvelope
		if err := json.NewDecoder(r.Body).Decode(&env); err != nil {
			log.Error("Failed to decode push envelope", "error", err)
			http.Error(w, "Invalid push envelope", http.StatusBadRequest)
			return
		}

		var round rounds.Round
		if err := s.PubSub.ProcessMessage(env.Message.Data, &round); err != nil {
			log.Error("Failed to decode round document", "error", err, "messageID", env.Message.MessageID)
			w.WriteHeader(http.StatusNoContent)
			return
		}
		if round.Settlement == nil {
			log.Warn("Push message carried an unsettled round, ignoring", "roundID", round.ID)
			w.WriteHeader(http.StatusNoContent)
			return
		}

		table, err := export.LeaderboardTable(&round)
		if err != nil {
			log.Error("Failed to build leaderboard from push message", "error", err, "roundID", round.ID)
			w.WriteHeader(http.StatusNoContent)
			return
		}
		if err := s.Notifier.SendLeaderboard(table, isDryRun); err != nil {
			log.Error("Failed to send leaderboard", "error", err, "roundID", round.ID)
			http.Error(w, "Failed to send leaderboard", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) ExportLeaderboardCSVHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		table, err := s.leaderboardTable(r.URL.Query().Get("roundID"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			log.Error("Failed to build leaderboard export", "error", err)
			return
		}
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="leaderboard.csv"`)
		if err := table.WriteCSV(w); err != nil {
			log.Error("Failed to write CSV export", "error", err)
		}
	}
}

func (s *Server) ExportLeaderboardXLSXHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		table, err := s.leaderboardTable(r.URL.Query().Get("roundID"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			log.Error("Failed to build leaderboard export", "error", err)
			return
		}
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", `attachment; filename="leaderboard.xlsx"`)
		if err := table.WriteXLSX(w, "Leaderboard"); err != nil {
			log.Error("Failed to write XLSX export", "error", err)
		}
	}
}

func (s *Server) ImportPlayersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		isDryRun := isDryRunFromContext(r)
		players, err := roster.LoadCSV(r.Body)
		if err != nil {
			log.Error("Failed to parse player CSV", "error", err)
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if isDryRun {
			log.Info("[Dry Run] Would have upserted players", "count", len(players))
		} else {
			if err := s.Players.UpsertPlayers(players); err != nil {
				log.Error("Failed to upsert players", "error", err)
				http.Error(w, "Failed to save players", http.StatusInternalServerError)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "Imported %d players.\n", len(players))
	}
}

func (s *Server) ImportCoursesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		isDryRun := isDryRunFromContext(r)

		var nines []course.Nine
		var err error
		if r.URL.Query().Get("format") == "xlsx" {
			nines, err = course.LoadXLSX(r.Body)
		} else {
			nines, err = course.LoadCSV(r.Body)
		}
		if err != nil {
			log.Error("Failed to parse course sheet", "error", err)
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if isDryRun {
			log.Info("[Dry Run] Would have upserted course nines", "count", len(nines))
		} else {
			if err := s.Courses.UpsertNines(nines); err != nil {
				log.Error("Failed to upsert course nines", "error", err)
				http.Error(w, "Failed to save courses", http.StatusInternalServerError)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "Imported %d nines.\n", len(nines))
	}
}

// respondWithSlackMsg is a helper to format and write a Slack message as an HTTP response.
func respondWithSlackMsg(w http.ResponseWriter, msg slack.Message) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(msg); err != nil {
		log.Error("Failed to encode slack message to JSON", "error", err)
	}
}

// LeaderboardCommandHandler returns a handler for the /leaderboard Slack command.
// The command text, when present, names the round to show.
func (s *Server) LeaderboardCommandHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}
		roundID := r.FormValue("text")

		table, err := s.leaderboardTable(roundID)
		if err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			log.Error("Failed to build leaderboard for slash command", "error", err)
			return
		}

		msg, err := s.Notifier.FormatLeaderboardResponse(table)
		if err != nil {
			http.Error(w, "Failed to format leaderboard", http.StatusInternalServerError)
			log.Error("Failed to format leaderboard", "error", err)
			return
		}

		slackMsg, ok := msg.(slack.Message)
		if !ok {
			http.Error(w, "Invalid message format for Slack", http.StatusInternalServerError)
			log.Error("Failed to cast message to slack.Message")
			return
		}

		respondWithSlackMsg(w, slackMsg)
	}
}
