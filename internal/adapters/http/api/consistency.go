// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/cuatro-costuras/pitchboard/internal/domain/pitch"
)

// ConsistencyDependencies defines the interface for consistency lookups.
type ConsistencyDependencies interface {
	Consistency(ctx context.Context, player string, code pitch.Type) (Entry, error)
}

// ConsistencyHandler handles per-group consistency requests.
type ConsistencyHandler struct {
	deps ConsistencyDependencies
}

// NewConsistencyHandler creates a new consistency handler.
func NewConsistencyHandler(deps ConsistencyDependencies) *ConsistencyHandler {
	return &ConsistencyHandler{deps: deps}
}

// HandleGetConsistency handles GET /consistency?player=&pitch_type= requests.
func (h *ConsistencyHandler) HandleGetConsistency(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_consistency"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	player := strings.TrimSpace(r.URL.Query().Get("player"))
	if player == "" {
		writeError(w, http.StatusBadRequest, "bad_request",
			WrapKind(op, ErrBadRequest, fmt.Errorf("missing player")))
		return
	}
	code, err := parsePitchType(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	entry, err := h.deps.Consistency(r.Context(), player, code)
	if err != nil {
		respondError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// parsePitchType reads and validates the pitch_type query parameter.
func parsePitchType(r *http.Request) (pitch.Type, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("pitch_type"))
	if raw == "" {
		return pitch.Unknown, fmt.Errorf("missing pitch_type")
	}
	code := pitch.ParseType(strings.ToUpper(raw))
	if !code.Known() {
		return pitch.Unknown, fmt.Errorf("unknown pitch_type %q", raw)
	}
	return code, nil
}
