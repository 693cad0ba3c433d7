package http

import (
	"context"
	"log/slog"
	"net/http"
)

// Pinger checks that the backing store is reachable.
type Pinger func(ctx context.Context) error

type healthResponse struct {
	Status string `json:"status"`
}

// HandleHealth reports liveness, and storage reachability when ping is set.
func HandleHealth(ping Pinger, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			writeMethodNotAllowed(w, http.MethodGet, http.MethodHead)
			return
		}
		if ping != nil {
			if err := ping(r.Context()); err != nil {
				logger.WarnContext(r.Context(), "health check failed", slog.String("error", err.Error()))
				writeError(w, http.StatusServiceUnavailable, codeUnavailable, "storage unavailable")
				return
			}
		}
		writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
	}
}
