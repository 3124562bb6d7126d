// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/cuatro-costuras/pitchboard/internal/domain/pitch"
)

// defaultBins is the histogram bin count when the request leaves it out.
const defaultBins = 30

// MovementDependencies defines the interface for movement-profile lookups.
type MovementDependencies interface {
	MovementProfile(ctx context.Context, player string, code pitch.Type, bins int) (MovementReport, error)
}

// MovementHandler handles movement-profile requests.
type MovementHandler struct {
	deps MovementDependencies
}

// NewMovementHandler creates a new movement handler.
func NewMovementHandler(deps MovementDependencies) *MovementHandler {
	return &MovementHandler{deps: deps}
}

// HandleGetMovement handles GET /movement?player=&pitch_type=&bins= requests.
// bins is optional and defaults to 30.
func (h *MovementHandler) HandleGetMovement(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_movement"
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

	bins := defaultBins
	if binsStr := r.URL.Query().Get("bins"); binsStr != "" {
		bins, err = strconv.Atoi(binsStr)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request",
				WrapKind(op, ErrBadRequest, fmt.Errorf("bins must be an integer")))
			return
		}
	}

	report, err := h.deps.MovementProfile(r.Context(), player, code, bins)
	if err != nil {
		respondError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}
