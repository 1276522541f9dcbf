package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/MJE43/game-arena/internal/arena"
	"github.com/MJE43/game-arena/internal/engine"
	"github.com/MJE43/game-arena/internal/games"
	"github.com/MJE43/game-arena/internal/report"
	"github.com/MJE43/game-arena/internal/store"
)

func (s *Server) handleListGames(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, GamesResponse{
		Games:         games.List(),
		EngineVersion: EngineVersion,
	})
}

// decode reads a JSON body, writing a validation error and returning false
// when it cannot.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxRequestBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		s.errorHandler.HandleValidationError(w, r, "body", fmt.Sprintf("invalid JSON: %v", err))
		return false
	}
	return true
}

func (s *Server) validationFailed(w http.ResponseWriter, r *http.Request, err error) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		s.errorHandler.HandleValidationError(w, r, ve.Field, ve.Message)
		return
	}
	s.errorHandler.HandleError(w, r, err)
}

func (s *Server) handleMatch(w http.ResponseWriter, r *http.Request) {
	var req MatchRequest
	if !s.decode(w, r, &req) {
		return
	}
	game, err := games.Find(req.Game)
	if err != nil {
		s.errorHandler.HandleError(w, r, err)
		return
	}
	if err := ValidateMatchRequest(&req, game.Spec()); err != nil {
		s.validationFailed(w, r, err)
		return
	}

	result, err := game.Match(r.Context(), req.Actors, s.gameOptions(req.Seeds))
	if err != nil {
		s.errorHandler.HandleError(w, r, err)
		return
	}

	s.logger.Printf("match_completed request_id=%s game=%s actors=%v outcome=%s",
		middleware.GetReqID(r.Context()), req.Game, result.Actors, result.Outcome)
	s.writeJSON(w, http.StatusOK, MatchResponse{Result: result, EngineVersion: EngineVersion})
}

func (s *Server) handleCreateTournament(w http.ResponseWriter, r *http.Request) {
	var req TournamentRequest
	if !s.decode(w, r, &req) {
		return
	}
	game, err := games.Find(req.Game)
	if err != nil {
		s.errorHandler.HandleError(w, r, err)
		return
	}
	if err := ValidateTournamentRequest(&req, s.cfg.MaxRepetitions); err != nil {
		s.validationFailed(w, r, err)
		return
	}

	opts := s.gameOptions(req.Seeds)
	if opts.Seeds == (engine.Seeds{}) {
		opts.Seeds = engine.RandomSeeds()
	}

	start := time.Now()
	ranking, err := game.Tournament(r.Context(), req.Actors, req.Repetitions, s.arenaConfig(), opts)
	if err != nil {
		s.errorHandler.HandleError(w, r, err)
		return
	}
	elapsed := time.Since(start)

	rec := store.NewTournament(req.Game, req.Repetitions, opts.Seeds, ranking, elapsed, EngineVersion)
	if err := s.db.SaveTournament(r.Context(), rec); err != nil {
		s.errorHandler.HandleError(w, r, err)
		return
	}

	s.logger.Printf("tournament_saved request_id=%s id=%s game=%s actors=%d repetitions=%d duration=%v",
		middleware.GetReqID(r.Context()), rec.ID, rec.Game, rec.ActorCount, rec.Repetitions, elapsed)
	s.writeJSON(w, http.StatusCreated, s.tournamentResponse(rec, ranking))
}

func (s *Server) tournamentResponse(rec *store.Tournament, ranking *arena.Ranking) TournamentResponse {
	return TournamentResponse{
		Tournament:    rec,
		Ranking:       ranking,
		Ratings:       report.Ratings(ranking),
		EngineVersion: EngineVersion,
	}
}

func (s *Server) handleListTournaments(w http.ResponseWriter, r *http.Request) {
	q := store.TournamentsQuery{Game: r.URL.Query().Get("game")}

	for _, p := range []struct {
		name string
		dst  *int
	}{{"page", &q.Page}, {"perPage", &q.PerPage}} {
		raw := r.URL.Query().Get(p.name)
		if raw == "" {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			s.errorHandler.HandleValidationError(w, r, p.name, "must be a non-negative integer")
			return
		}
		*p.dst = v
	}

	list, err := s.db.ListTournaments(r.Context(), q)
	if err != nil {
		s.errorHandler.HandleError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, list)
}

// loadRanking fetches a stored tournament and rebuilds its ranking.
func (s *Server) loadRanking(w http.ResponseWriter, r *http.Request) (*store.Tournament, *arena.Ranking, bool) {
	rec, err := s.db.GetTournament(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.errorHandler.HandleError(w, r, err)
		return nil, nil, false
	}
	ranking, err := rec.Ranking()
	if err != nil {
		s.errorHandler.HandleError(w, r, err)
		return nil, nil, false
	}
	return rec, ranking, true
}

func (s *Server) handleGetTournament(w http.ResponseWriter, r *http.Request) {
	rec, ranking, ok := s.loadRanking(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, s.tournamentResponse(rec, ranking))
}

func (s *Server) handleMatrixCSV(w http.ResponseWriter, r *http.Request) {
	s.writeCSV(w, r, "matrix", report.WriteMatrixCSV)
}

func (s *Server) handleStandingsCSV(w http.ResponseWriter, r *http.Request) {
	s.writeCSV(w, r, "standings", report.WriteStandingsCSV)
}

func (s *Server) writeCSV(w http.ResponseWriter, r *http.Request, kind string, write func(io.Writer, *arena.Ranking) error) {
	rec, ranking, ok := s.loadRanking(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fmt.Sprintf("%s-%s.csv", kind, rec.ID)))
	w.Header().Set("X-Engine-Version", EngineVersion)
	w.WriteHeader(http.StatusOK)
	if err := write(w, ranking); err != nil {
		s.logger.Printf("csv_write_failed id=%s kind=%s err=%v", rec.ID, kind, err)
	}
}

func (s *Server) handleDeleteTournament(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.db.DeleteTournament(r.Context(), id); err != nil {
		s.errorHandler.HandleError(w, r, err)
		return
	}
	s.logger.Printf("tournament_deleted request_id=%s id=%s", middleware.GetReqID(r.Context()), id)
	w.WriteHeader(http.StatusNoContent)
}
