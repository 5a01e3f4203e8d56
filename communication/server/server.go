package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"darkchess/communication"
	"darkchess/game"
	"darkchess/searcher/agent"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

// Server exposes the rule engine and move selection over HTTP. It is stateless:
// every request carries the board it is about.
type Server struct {
	tiers agent.Tiers
}

func New(tiers agent.Tiers) *Server {
	if tiers == nil {
		tiers = agent.DefaultTiers()
	}
	return &Server{tiers: tiers}
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/api/ping", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})
	r.Get("/api/tiers", s.handleTiers)
	r.Post("/api/games", s.handleNewGame)
	r.Post("/api/legal", s.handleLegal)
	r.Post("/api/perform", s.handlePerform)
	r.Post("/api/selectmove", s.handleSelectMove)
	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	serverErrCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrCh <- err
		}
		close(serverErrCh)
	}()
	log.Info().Msgf("move selection server listening on %s", addr)

	select {
	case err := <-serverErrCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	return server.Shutdown(shutdownCtx)
}

func (s *Server) handleTiers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, communication.TiersResponse{Tiers: s.tiers, Terms: game.TermNames()})
}

func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var payload communication.NewGameRequest
	// An empty body asks for a random deal.
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	seed := game.RandomSeed()
	if payload.Seed != nil {
		seed = *payload.Seed
	}
	b := game.NewBoard(seed)
	writeJSON(w, http.StatusOK, communication.GameResponse{Seed: seed, Board: b, Legal: b.LegalActions()})
}

func (s *Server) handleLegal(w http.ResponseWriter, r *http.Request) {
	var payload communication.LegalRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.Board == nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if payload.From == nil {
		writeJSON(w, http.StatusOK, communication.LegalResponse{Actions: payload.Board.LegalActions()})
		return
	}
	writeJSON(w, http.StatusOK, communication.LegalResponse{
		Actions: payload.Board.ActionsFrom(*payload.From),
		Targets: payload.Board.Targets(*payload.From),
	})
}

func (s *Server) handlePerform(w http.ResponseWriter, r *http.Request) {
	var payload communication.PerformRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.Board == nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	ok := payload.Board.Perform(payload.Action)
	writeJSON(w, http.StatusOK, communication.PerformResponse{OK: ok, Board: payload.Board})
}

func (s *Server) handleSelectMove(w http.ResponseWriter, r *http.Request) {
	var payload communication.SelectMoveRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.Board == nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	tier, err := s.tiers.Lookup(payload.Tier)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if payload.Board.GameOver {
		writeError(w, http.StatusConflict, "game is over")
		return
	}

	seed := game.RandomSeed()
	if payload.Seed != nil {
		seed = *payload.Seed
	}
	action, metric, found := agent.NewSelector(seed).SelectMove(payload.Board, tier, s.tiers)
	writeJSON(w, http.StatusOK, communication.SelectMoveResponse{Action: action, Found: found, Metric: metric})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, communication.ErrorResponse{Error: message})
}
