package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/aretw0/fittrack/pkg/aggregate"
	"github.com/aretw0/fittrack/pkg/auth"
	"github.com/aretw0/fittrack/pkg/core"
)

// errBadRequest marks request decoding failures.
var errBadRequest = errors.New("bad request")

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errBadRequest), errors.Is(err, core.ErrValidation), errors.Is(err, aggregate.ErrAmount):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, errForbidden):
		return http.StatusForbidden
	case errors.Is(err, core.ErrLookup), errors.Is(err, core.ErrNotFound), errors.Is(err, core.ErrNoReference):
		return http.StatusNotFound
	case errors.Is(err, core.ErrReadOnly), errors.Is(err, auth.ErrUserExists):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		msg = http.StatusText(status)
	}
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
