package httpapi

import (
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/prismdash/prism/internal/config"
)

type server struct {
	deps     Deps
	modules  []Manifest
	upgrader websocket.Upgrader
}

// NewMux validates the module registry against the running platform and
// mounts every route. A manifest mismatch is returned to the caller,
// which treats it as fatal.
func NewMux(deps Deps) (*http.ServeMux, error) {
	if err := checkModules(moduleRegistry, config.Version); err != nil {
		return nil, err
	}
	deps.Options = deps.Options.withDefaults()
	s := &server{
		deps:    deps,
		modules: moduleRegistry,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", handleHealthz)
	mux.HandleFunc("GET /metrics", handleMetrics)

	mux.HandleFunc("GET /api/state", s.requireSession(s.handleState))
	mux.HandleFunc("GET /api/user", s.requireSession(s.handleUser))
	mux.HandleFunc("GET /api/coins", s.requireSession(s.handleCoins))

	mux.HandleFunc("GET /api/server/{id}/players", s.requireServerAccess(s.handlePlayers))
	mux.HandleFunc("GET /api/server/{id}/users", s.requireServerAccess(s.handleListUsers))
	mux.HandleFunc("POST /api/server/{id}/users", s.requireServerAccess(s.handleCreateUser))
	mux.HandleFunc("DELETE /api/server/{id}/users/{userId}", s.requireServerAccess(s.handleDeleteUser))
	mux.HandleFunc("POST /api/server/{id}/command", s.requireServerAccess(s.handleCommand))
	mux.HandleFunc("GET /api/server/{id}/activity", s.requireServerAccess(s.handleActivity))
	mux.HandleFunc("GET /api/server/{id}/ws", s.requireServerAccess(s.handleConsoleWS))

	mux.HandleFunc("GET /api/subuser-servers", s.requireSession(s.handleSubuserServers))
	mux.HandleFunc("POST /api/subuser-servers-sync", s.requireSession(s.handleSubuserSync))

	mux.HandleFunc("GET /api/plugins/list", s.handlePluginList)
	mux.HandleFunc("GET /api/plugins/search", s.handlePluginSearch)
	mux.HandleFunc("POST /api/plugins/install/{id}", s.requireServerAccess(s.handlePluginInstall))

	return mux, nil
}

// NewHandler returns the production handler (mux + observability middleware).
//
// Tests can still use NewMux directly to avoid noisy logs unless needed.
func NewHandler(deps Deps) (http.Handler, error) {
	mux, err := NewMux(deps)
	if err != nil {
		return nil, err
	}
	return withObservability(mux), nil
}
