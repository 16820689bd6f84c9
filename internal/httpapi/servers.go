package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/prismdash/prism/internal/logging"
	"github.com/prismdash/prism/internal/model"
)

// playerListRE matches the vanilla "list" command response anywhere in a
// console line, prefixes and timestamps included.
var playerListRE = regexp.MustCompile(`There are (\d+) of a max of (\d+) players online:?\s*(.*)`)

func (s *server) handlePlayers(w http.ResponseWriter, r *http.Request) {
	serverID := r.PathValue("id")

	lines, err := s.deps.Relay.SendCommandAndAwait(r.Context(), serverID, "list", s.deps.Options.CommandWait)
	if err != nil {
		writeErrorFromErr(w, r, err)
		return
	}

	online, max := 0, 0
	players := []string{}
	// The list response can land anywhere in the sampled window; take the
	// last match in case older output is still draining.
	for _, line := range lines {
		m := playerListRE.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		online, _ = strconv.Atoi(m[1])
		max, _ = strconv.Atoi(m[2])
		players = players[:0]
		for _, name := range strings.Split(m[3], ",") {
			if name = strings.TrimSpace(name); name != "" {
				players = append(players, name)
			}
		}
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"online":  online,
		"max":     max,
		"players": players,
	})
}

func (s *server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	serverID := r.PathValue("id")
	identity, _ := identityFrom(r.Context())

	users, err := s.deps.Panel.ServerUsers(r.Context(), serverID)
	if err != nil {
		writeErrorFromErr(w, r, err)
		return
	}
	if users == nil {
		users = []model.Subuser{}
	}

	// Keep the membership records in step with what the panel just told us.
	if err := s.deps.Sync.Reconcile(r.Context(), serverID, identity.UserID); err != nil {
		logging.Warnf("reconcile server %s: %v", serverID, err)
	}

	WriteJSON(w, http.StatusOK, users)
}

func (s *server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	serverID := r.PathValue("id")
	identity, _ := identityFrom(r.Context())

	var body struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || strings.TrimSpace(body.Email) == "" {
		writeErrorFromErr(w, r, requestError("email is required"))
		return
	}

	created, err := s.deps.Panel.CreateServerUser(r.Context(), serverID, body.Email)
	if err != nil {
		writeErrorFromErr(w, r, err)
		return
	}

	if err := s.deps.Sync.Reconcile(r.Context(), serverID, identity.UserID); err != nil {
		logging.Warnf("reconcile server %s: %v", serverID, err)
	}
	if created.Username != "" {
		if err := s.deps.Store.AddUser(r.Context(), created.Username); err != nil {
			logging.Warnf("record user %s: %v", created.Username, err)
		}
	}
	s.logActivity(r, serverID, "user.create", fmt.Sprintf("added %s by %s", body.Email, identity.Username))

	WriteJSON(w, http.StatusCreated, created)
}

func (s *server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	serverID := r.PathValue("id")
	subuserID := r.PathValue("userId")
	identity, _ := identityFrom(r.Context())

	if err := s.deps.Panel.DeleteServerUser(r.Context(), serverID, subuserID); err != nil {
		writeErrorFromErr(w, r, err)
		return
	}

	// The membership snapshot must not keep listing the removed user.
	if err := s.deps.Sync.Reconcile(r.Context(), serverID, identity.UserID); err != nil {
		logging.Warnf("reconcile server %s: %v", serverID, err)
	}
	s.logActivity(r, serverID, "user.delete", fmt.Sprintf("removed subuser %s by %s", subuserID, identity.Username))

	w.WriteHeader(http.StatusNoContent)
}

func (s *server) handleCommand(w http.ResponseWriter, r *http.Request) {
	serverID := r.PathValue("id")
	identity, _ := identityFrom(r.Context())

	var body struct {
		Command string `json:"command"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || strings.TrimSpace(body.Command) == "" {
		writeErrorFromErr(w, r, requestError("command is required"))
		return
	}

	output, err := s.deps.Relay.SendCommandAndAwait(r.Context(), serverID, body.Command, s.deps.Options.CommandWait)
	if err != nil {
		writeErrorFromErr(w, r, err)
		return
	}
	if output == nil {
		output = []string{}
	}
	s.logActivity(r, serverID, "server.command", fmt.Sprintf("%s ran %q", identity.Username, body.Command))

	WriteJSON(w, http.StatusOK, map[string][]string{"output": output})
}

func (s *server) handleActivity(w http.ResponseWriter, r *http.Request) {
	serverID := r.PathValue("id")

	entries, err := s.deps.Store.ActivityLog(r.Context(), serverID)
	if err != nil {
		writeErrorFromErr(w, r, err)
		return
	}
	if entries == nil {
		entries = []model.ActivityEntry{}
	}
	WriteJSON(w, http.StatusOK, entries)
}

// logActivity best-effort appends to the server's activity log. Failures
// never fail the request that triggered them.
func (s *server) logActivity(r *http.Request, serverID, action, details string) {
	if err := s.deps.Store.AppendActivity(r.Context(), serverID, action, details); err != nil {
		logging.Warnf("activity log server %s: %v", serverID, err)
	}
}
