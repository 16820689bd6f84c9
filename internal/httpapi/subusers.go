package httpapi

import (
	"net/http"

	"github.com/prismdash/prism/internal/model"
)

func (s *server) handleSubuserServers(w http.ResponseWriter, r *http.Request) {
	identity, _ := identityFrom(r.Context())

	records, err := s.deps.Store.SubuserServers(r.Context(), identity.Username)
	if err != nil {
		writeErrorFromErr(w, r, err)
		return
	}
	if records == nil {
		records = []model.SubuserRecord{}
	}
	WriteJSON(w, http.StatusOK, records)
}

func (s *server) handleSubuserSync(w http.ResponseWriter, r *http.Request) {
	identity, _ := identityFrom(r.Context())

	user, err := s.deps.Panel.FetchUser(r.Context(), identity.UserID)
	if err != nil {
		writeErrorFromErr(w, r, err)
		return
	}
	if err := s.deps.Sync.SyncUser(r.Context(), user); err != nil {
		writeErrorFromErr(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"message": "memberships synced"})
}
