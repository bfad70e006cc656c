package httpapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/aretw0/fittrack/pkg/core"
)

// errForbidden is returned when a logged-in user asks for another user's data.
var errForbidden = errors.New("access to another user's data")

type userKey struct{}

// authenticate checks basic-auth credentials and that they belong to the
// user named in the path.
func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name, password, ok := r.BasicAuth()
		if !ok {
			w.Header().Set("WWW-Authenticate", `Basic realm="fittrack"`)
			s.writeError(w, r, core.ErrUnauthorized)
			return
		}
		if err := s.auth.Login(r.Context(), name, password); err != nil {
			if errors.Is(err, core.ErrUnauthorized) {
				w.Header().Set("WWW-Authenticate", `Basic realm="fittrack"`)
			}
			s.writeError(w, r, err)
			return
		}
		if mux.Vars(r)["user"] != name {
			s.writeError(w, r, errForbidden)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey{}, name)))
	})
}

func currentUser(r *http.Request) string {
	name, _ := r.Context().Value(userKey{}).(string)
	return name
}
