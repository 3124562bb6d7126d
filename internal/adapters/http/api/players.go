// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"strings"
)

// PlayerDependencies defines the interface for player operations.
type PlayerDependencies interface {
	Players(ctx context.Context) []string
	Summary(ctx context.Context, player string) (PlayerCard, error)
	Arsenal(ctx context.Context, player string) (Arsenal, error)
}

// PlayersHandler handles player listing and player subresources.
type PlayersHandler struct {
	deps PlayerDependencies
}

// NewPlayersHandler creates a new players handler.
func NewPlayersHandler(deps PlayerDependencies) *PlayersHandler {
	return &PlayersHandler{deps: deps}
}

// HandleListPlayers handles GET /players requests.
func (h *PlayersHandler) HandleListPlayers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Players(r.Context()))
}

// HandlePlayerResource handles GET /players/{name}/summary and
// GET /players/{name}/arsenal requests. The name segment is the pitcher
// name exactly as listed by /players ("Last, First"), URL-encoded.
func (h *PlayersHandler) HandlePlayerResource(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_player_resource"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	// Extract {name}/{resource} after /players/
	path := strings.TrimPrefix(r.URL.Path, "/players/")
	name, resource, ok := strings.Cut(path, "/")
	if !ok || strings.TrimSpace(name) == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}

	switch resource {
	case "summary":
		card, err := h.deps.Summary(r.Context(), name)
		if err != nil {
			respondError(w, op, err)
			return
		}
		writeJSON(w, http.StatusOK, card)
	case "arsenal":
		arsenal, err := h.deps.Arsenal(r.Context(), name)
		if err != nil {
			respondError(w, op, err)
			return
		}
		writeJSON(w, http.StatusOK, arsenal)
	default:
		http.NotFound(w, r)
	}
}
