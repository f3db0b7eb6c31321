package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/aretw0/pairs/pkg/domain"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Default().Error("response encode failed", "err", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeEngineError answers 400 for rule violations and 500 for everything else.
func (s *Server) writeEngineError(w http.ResponseWriter, r *http.Request, err error) {
	if msg, ok := domain.PlayerMessage(err); ok {
		s.logger.Debug("request rejected", "path", r.URL.Path, "reason", err)
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
	writeError(w, http.StatusInternalServerError, "Internal server error")
}
