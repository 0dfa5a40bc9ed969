package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rgehrsitz/finplan/internal/breakeven"
	"github.com/rgehrsitz/finplan/internal/domain"
	"github.com/rgehrsitz/finplan/internal/transform"
)

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// statusFor maps engine errors onto HTTP statuses: malformed input is the
// caller's fault (400), well-formed input with no answer is 422.
func statusFor(err error) int {
	var (
		validation *domain.ValidationError
		tooLow     *domain.PaymentTooLowError
		horizon    *domain.PayoffHorizonExceededError
		empty      *domain.EmptyInputError
		transformE *transform.TransformError
		solverE    *breakeven.BreakEvenError
	)
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	case errors.Is(err, breakeven.ErrTargetUnreachable),
		errors.As(err, &tooLow),
		errors.As(err, &horizon),
		errors.As(err, &empty):
		return http.StatusUnprocessableEntity
	case errors.As(err, &validation),
		errors.As(err, &transformE),
		errors.As(err, &solverE):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	resp := errorResponse{Error: err.Error()}
	var validation *domain.ValidationError
	if errors.As(err, &validation) {
		resp.Field = validation.Field
	}
	if status >= 500 {
		s.logEntry(r).WithError(err).Error("engine error")
		if status == http.StatusInternalServerError {
			resp = errorResponse{Error: "internal error"}
		}
	}
	writeJSON(w, status, resp)
}
