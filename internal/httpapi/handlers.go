package httpapi

import (
	"net/http"

	"github.com/prismdash/prism/internal/config"
)

func handleHealthz(w http.ResponseWriter, r *http.Request) {
	WriteText(w, http.StatusOK, "ok\n")
}

func (s *server) handleState(w http.ResponseWriter, r *http.Request) {
	identity, _ := identityFrom(r.Context())
	WriteJSON(w, http.StatusOK, map[string]any{
		"message": "logged in",
		"user":    identity.Username,
		"version": config.Version,
		"modules": s.modules,
	})
}

func (s *server) handleUser(w http.ResponseWriter, r *http.Request) {
	identity, _ := identityFrom(r.Context())

	user, err := s.deps.Panel.FetchUser(r.Context(), identity.UserID)
	if err != nil {
		writeErrorFromErr(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"id":       user.ID,
		"username": user.Username,
		"email":    user.Email,
		"servers":  user.Servers,
	})
}

func (s *server) handleCoins(w http.ResponseWriter, r *http.Request) {
	identity, _ := identityFrom(r.Context())

	coins, err := s.deps.Store.Coins(r.Context(), identity.UserID)
	if err != nil {
		writeErrorFromErr(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]int{"coins": coins})
}
