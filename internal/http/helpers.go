package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"successpath/internal/api"
	"successpath/internal/playlist"
)

func handleHealth(w http.ResponseWriter, r *http.Request) {
	NewJSONResponse(map[string]string{"status": "ok"}).Write(w)
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.ready != nil {
		if err := s.ready(r.Context()); err != nil {
			slog.WarnContext(r.Context(), "Readiness check failed", "error", err)
			ServiceUnavailableError("not ready").Write(w)
			return
		}
	}
	NewJSONResponse(map[string]string{"status": "ready"}).Write(w)
}

// collaboratorError maps a music or content failure to a response.
func collaboratorError(ctx context.Context, err error) *JSONResponse {
	switch {
	case errors.Is(err, playlist.ErrUnknownGenre), errors.Is(err, api.ErrNotFound):
		return NotFoundError(err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return ErrorResponse(http.StatusGatewayTimeout, "collaborator timed out")
	default:
		slog.ErrorContext(ctx, "Collaborator request failed", "error", err)
		return BadGatewayError("collaborator unavailable")
	}
}
