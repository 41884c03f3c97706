package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/ahesenov7-ai/paysphate.demo/internal/application/dto"
	"github.com/ahesenov7-ai/paysphate.demo/internal/application/sequencer"
	"github.com/ahesenov7-ai/paysphate.demo/internal/infrastructure/scheduler"
	"github.com/ahesenov7-ai/paysphate.demo/internal/infrastructure/session"
	"github.com/ahesenov7-ai/paysphate.demo/internal/widget/feedback"
	"github.com/ahesenov7-ai/paysphate.demo/internal/widget/nav"
	"github.com/ahesenov7-ai/paysphate.demo/internal/widget/toggle"
)

const maxBodyBytes = 64 << 10

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

// decodeJSON reads an optional JSON body into v. An empty body leaves v
// untouched.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("malformed request body: %w", err)
	}
	return nil
}

// statusFor maps application errors onto HTTP status codes.
func statusFor(err error) int {
	var verr *dto.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusUnprocessableEntity
	case errors.Is(err, toggle.ErrUnknownPanel), errors.Is(err, nav.ErrUnknownLink):
		return http.StatusUnprocessableEntity
	case errors.Is(err, sequencer.ErrSubmissionInFlight),
		errors.Is(err, sequencer.ErrInvalidTransition),
		errors.Is(err, feedback.ErrSubmitting):
		return http.StatusConflict
	case errors.Is(err, session.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, scheduler.ErrLoopStopped),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	code := statusFor(err)
	resp := ErrorResponse{Error: err.Error()}
	var verr *dto.ValidationError
	if errors.As(err, &verr) {
		resp.Error = verr.Error()
		resp.Field = verr.Field
	}
	if code >= http.StatusInternalServerError {
		logger.Error("request failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
		if code == http.StatusInternalServerError {
			resp.Error = "internal error"
		}
	}
	writeJSON(w, code, resp)
}
