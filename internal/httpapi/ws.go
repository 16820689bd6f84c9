package httpapi

import (
	"net/http"

	"github.com/prismdash/prism/internal/logging"
	"github.com/prismdash/prism/internal/relay"
)

// handleConsoleWS upgrades the request and bridges it to the server's
// daemon websocket. Access was already checked by the middleware; after
// the upgrade errors can only be reported over the socket itself.
func (s *server) handleConsoleWS(w http.ResponseWriter, r *http.Request) {
	serverID := r.PathValue("id")

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error response.
		logging.Debugf("ws upgrade server %s: %v", serverID, err)
		return
	}

	if err := s.deps.Relay.Bridge(r.Context(), serverID, relay.WrapConn(conn)); err != nil {
		logging.Warnf("ws bridge server %s: %v", serverID, err)
	}
}
