package handler

import (
	"log/slog"
	"net/http"

	"github.com/sfines/sdd-process-example/internal/api/apierr"
)

var errInvalidBody = apierr.NewInvalidRequestError("Invalid request body")

// badRequest reports a malformed request that never reached a service
func badRequest(message string) error {
	return apierr.NewInvalidRequestError(message)
}

// writeError writes err as an API error response. The client only sees a
// generic message for internal failures, so their cause is logged here.
func writeError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	if apierr.Status(err) == http.StatusInternalServerError {
		logger.Error("request failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
	}
	apierr.WriteError(w, err)
}
