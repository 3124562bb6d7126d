package api

import (
	"errors"
	"fmt"
	"net/http"

	repository "github.com/cuatro-costuras/pitchboard/internal/adapters/repository"
	service "github.com/cuatro-costuras/pitchboard/internal/app"
	"github.com/cuatro-costuras/pitchboard/internal/domain/consistency"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest = errors.New("bad request")
)

// Wrap annotates err with the operation that produced it.
func Wrap(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}

// NewKind returns an error of the given kind tagged with the operation.
func NewKind(op string, kind error) error {
	return fmt.Errorf("%s: %w", op, kind)
}

// WrapKind ties err to a sentinel kind under the operation, so callers can
// errors.Is the kind while keeping the cause.
func WrapKind(op string, kind, err error) error {
	return fmt.Errorf("%s: %w: %w", op, kind, err)
}

// statusFromError maps upstream sentinel errors onto HTTP statuses. An
// unknown player or group is a 404; malformed or out-of-range parameters
// are 400s; a group too small to score is a 422, never a zero score.
func statusFromError(err error) (status int, code string) {
	switch {
	case errors.Is(err, service.ErrUnknownPlayer),
		errors.Is(err, service.ErrUnknownGroup),
		errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, consistency.ErrInsufficientSample):
		return http.StatusUnprocessableEntity, "insufficient_sample"
	case errors.Is(err, service.ErrUnknownPitchType),
		errors.Is(err, repository.ErrInvalidLimit),
		errors.Is(err, consistency.ErrInvalidBins),
		errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest, "bad_request"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
