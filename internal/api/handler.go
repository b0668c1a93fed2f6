// Package api exposes the game engine over an always-JSON HTTP boundary: the
// hosting application creates a game session, submits one turn per round for
// its role, and reads snapshots and final results. Chart and animation
// collaborators consume only these response shapes; entity state never leaves
// the engine by reference.
package api

import (
	"encoding/json"
	"errors"
	"math/rand"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"bullwhip-go/internal/chain"
	"bullwhip-go/internal/demand"
	"bullwhip-go/internal/game"
)

// session is one running game. Engine methods are not goroutine-safe, so
// every access goes through mu.
type session struct {
	mu     sync.Mutex
	engine *game.Engine
	seed   int64
}

// Server routes game sessions. Sessions live in memory for one process; the
// simulation has no persistence requirement.
type Server struct {
	cfg      Config
	log      *zap.SugaredLogger
	schedule demand.Schedule

	mu    sync.Mutex
	games map[string]*session
}

// NewServer builds the session server around a demand schedule.
func NewServer(cfg Config, schedule demand.Schedule, log *zap.SugaredLogger) *Server {
	return &Server{
		cfg:      cfg,
		log:      log,
		schedule: schedule,
		games:    make(map[string]*session),
	}
}

// Routes registers every endpoint on a fresh mux.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/games", s.handleCreate)
	mux.HandleFunc("POST /api/games/{id}/turn", s.handleTurn)
	mux.HandleFunc("GET /api/games/{id}/snapshot", s.handleSnapshot)
	mux.HandleFunc("GET /api/games/{id}/results", s.handleResults)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}

type createGameRequest struct {
	PlayerRole  string `json:"player_role"`
	PlayerLabel string `json:"player_label"`
	Seed        int64  `json:"seed"`
}

type createGameResponse struct {
	GameID string     `json:"game_id"`
	Role   chain.Role `json:"role"`
	Seed   int64      `json:"seed"`
	Round  int        `json:"round"`
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createGameRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.PlayerRole == "" {
		req.PlayerRole = s.cfg.DefaultRole
	}
	role, err := chain.Parse(req.PlayerRole)
	if err != nil {
		s.writeError(w, err)
		return
	}

	seed := req.Seed
	if seed == 0 {
		seed = s.cfg.Seed
	}
	if seed == 0 {
		if seed, err = newSeed(); err != nil {
			s.writeError(w, err)
			return
		}
	}

	rng := rand.New(rand.NewSource(seed))
	engine, err := game.New(role, req.PlayerLabel, demand.NewGenerator(s.schedule, rng), rng)
	if err != nil {
		s.writeError(w, err)
		return
	}

	id := uuid.NewString()
	s.mu.Lock()
	s.games[id] = &session{engine: engine, seed: seed}
	s.mu.Unlock()

	s.log.Infow("game created", "game_id", id, "role", role.String(), "seed", seed)
	s.writeJSON(w, http.StatusCreated, createGameResponse{GameID: id, Role: role, Seed: seed, Round: 1})
}

type turnRequest struct {
	Role     string `json:"role"`
	Quantity int    `json:"quantity"`
	Round    int    `json:"round"`
}

func (s *Server) handleTurn(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req turnRequest
	if !s.decode(w, r, &req) {
		return
	}
	role, err := chain.Parse(req.Role)
	if err != nil {
		s.writeError(w, err)
		return
	}

	sess.mu.Lock()
	result, err := sess.engine.ProcessExternalTurn(role, req.Quantity, req.Round)
	sess.mu.Unlock()
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	role, err := chain.Parse(r.URL.Query().Get("role"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	sess.mu.Lock()
	round := sess.engine.Rounds() + 1
	if round > game.MaxRounds {
		round = game.MaxRounds
	}
	state, err := sess.engine.Snapshot(round, role)
	sess.mu.Unlock()
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, state)
}

func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	sess.mu.Lock()
	results, err := sess.engine.FinalResults()
	sess.mu.Unlock()
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, results)
}

// session resolves the {id} path segment; a miss writes the 404 itself.
func (s *Server) session(w http.ResponseWriter, r *http.Request) (*session, bool) {
	id := r.PathValue("id")
	s.mu.Lock()
	sess, ok := s.games[id]
	s.mu.Unlock()
	if !ok {
		s.writeJSON(w, http.StatusNotFound, errorResponse{Error: "game not found"})
		return nil, false
	}
	return sess, true
}

// decode reads a limited body once and unmarshals it; a failure writes the
// 400 itself.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	body, err := readAllLimited(r, s.cfg.MaxBodyBytes)
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "unreadable body"})
		return false
	}
	if err := json.Unmarshal(body, dst); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed JSON"})
		return false
	}
	return true
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeError maps engine sentinels onto HTTP statuses; everything else is a
// 500 so protocol bugs stay loud.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, chain.ErrUnknownRole), errors.Is(err, game.ErrInvalidRound):
		status = http.StatusBadRequest
	case errors.Is(err, game.ErrGameOver), errors.Is(err, game.ErrGameInProgress):
		status = http.StatusConflict
	}
	if status == http.StatusInternalServerError {
		s.log.Errorw("request failed", "error", err)
	}
	s.writeJSON(w, status, errorResponse{Error: err.Error()})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Errorw("encode response", "error", err)
	}
}
