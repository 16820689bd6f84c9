package httpapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/prismdash/prism/internal/logging"
	"github.com/prismdash/prism/internal/model"
	"github.com/prismdash/prism/internal/session"
)

type ctxKey int

const identityKey ctxKey = iota

func identityFrom(ctx context.Context) (model.Identity, bool) {
	id, ok := ctx.Value(identityKey).(model.Identity)
	return id, ok
}

// requireSession resolves the session cookie to an identity and stores it
// on the request context. No cookie or an unknown token is a 401; a store
// failure is a 500.
func (s *server) requireSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := s.deps.Sessions.Identity(r)
		if err != nil {
			if errors.Is(err, session.ErrNoSession) {
				WriteError(w, http.StatusUnauthorized, "not logged in")
				return
			}
			writeErrorFromErr(w, r, err)
			return
		}
		next(w, r.WithContext(context.WithValue(r.Context(), identityKey, *id)))
	}
}

// requireServerAccess runs after requireSession and gates the {id} path
// value behind the ownership check. A deny is a 403; a failed check
// (panel or store unreachable) is a 500, never a silent allow.
func (s *server) requireServerAccess(next http.HandlerFunc) http.HandlerFunc {
	return s.requireSession(func(w http.ResponseWriter, r *http.Request) {
		identity, _ := identityFrom(r.Context())
		serverID := r.PathValue("id")

		decision, err := s.deps.Auth.Authorize(r.Context(), identity, serverID)
		if err != nil {
			writeErrorFromErr(w, r, err)
			return
		}
		if !decision.Allowed {
			metricsIncAuthDenial(string(decision.Reason))
			logging.Debugf("access denied user=%s server=%s reason=%s", identity.Username, serverID, decision.Reason)
			WriteError(w, http.StatusForbidden, "you do not have access to this server")
			return
		}
		next(w, r)
	})
}
