// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/cuatro-costuras/pitchboard/internal/domain/types"
)

// Read shapes returned by the query endpoints.
type (
	Entry          = types.Entry
	Arsenal        = types.Arsenal
	PlayerCard     = types.PlayerCard
	MovementReport = types.MovementReport
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	PlayerDependencies
	ConsistencyDependencies
	LeaderboardDependencies
	MovementDependencies
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	playersHandler     *PlayersHandler
	consistencyHandler *ConsistencyHandler
	leaderboardHandler *LeaderboardHandler
	movementHandler    *MovementHandler
}

// NewServer creates a new API server with all handlers. maxLimit caps the
// leaderboard limit parameter.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxLimit int) *Server {
	return &Server{
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(statsProvider),
		playersHandler:     NewPlayersHandler(deps),
		consistencyHandler: NewConsistencyHandler(deps),
		leaderboardHandler: NewLeaderboardHandler(deps, maxLimit),
		movementHandler:    NewMovementHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", withMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", withMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/players", withMiddleware(s.playersHandler.HandleListPlayers, "players"))
	mux.HandleFunc("/players/", withMiddleware(s.playersHandler.HandlePlayerResource, "player_resource"))
	mux.HandleFunc("/consistency", withMiddleware(s.consistencyHandler.HandleGetConsistency, "consistency"))
	mux.HandleFunc("/leaderboard", withMiddleware(s.leaderboardHandler.HandleGetLeaderboard, "leaderboard"))
	mux.HandleFunc("/movement", withMiddleware(s.movementHandler.HandleGetMovement, "movement"))
}

// withMiddleware applies the standard handler chain: request id outermost,
// then metrics capture.
func withMiddleware(next http.HandlerFunc, endpoint string) http.HandlerFunc {
	return RequestIDMiddleware(MetricsMiddleware(next, endpoint))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// respondError translates an upstream error to its HTTP shape.
func respondError(w http.ResponseWriter, op string, err error) {
	status, code := statusFromError(err)
	writeError(w, status, code, Wrap(op, err))
}
