// Package subuser reconciles the Ownership Store against the panel's
// collaborator lists. It is the only writer of subuser records; the
// authorizer only reads them.
package subuser

import (
	"context"
	"fmt"

	"github.com/prismdash/prism/internal/logging"
	"github.com/prismdash/prism/internal/model"
	"github.com/prismdash/prism/internal/panel"
	"github.com/prismdash/prism/internal/store"
)

// PanelAPI is the slice of the panel client the synchronizer needs.
type PanelAPI interface {
	ServerUsers(ctx context.Context, serverID string) ([]model.Subuser, error)
	ServerName(ctx context.Context, serverID string) (string, error)
}

type Synchronizer struct {
	Panel PanelAPI
	Store store.Store
}

// Reconcile refreshes who can access serverID. On a failed user-list fetch
// the call is abandoned with the store exactly as it was; there is no retry
// and no partial rollback. Per-user updates are independent read-then-write
// steps with no cross-user atomicity, so concurrent reconciles over
// overlapping users can interleave.
func (s *Synchronizer) Reconcile(ctx context.Context, serverID string, ownerID int) error {
	users, err := s.Panel.ServerUsers(ctx, serverID)
	if err != nil {
		return fmt.Errorf("fetch users for %s: %w", serverID, err)
	}

	// Verbatim snapshot of the panel's answer.
	if err := s.Store.SetSubusers(ctx, serverID, users); err != nil {
		return err
	}

	name, err := s.Panel.ServerName(ctx, serverID)
	if err != nil {
		logging.Debugf("subuser: server name for %s unavailable: %v", serverID, err)
		name = "Unknown Server"
	}

	target := model.NormalizeServerID(serverID)
	for _, u := range users {
		records, err := s.Store.SubuserServers(ctx, u.Username)
		if err != nil {
			return err
		}
		if hasRecord(records, target) {
			continue
		}
		records = append(records, model.SubuserRecord{ID: serverID, Name: name, OwnerID: ownerID})
		if err := s.Store.SetSubuserServers(ctx, u.Username, records); err != nil {
			return err
		}
	}
	return nil
}

// hasRecord compares by normalized id. Records written by older dashboard
// versions may hold the long form while requests carry the short one; the
// normalized key matches both, so no duplicate pair of forms accumulates.
func hasRecord(records []model.SubuserRecord, normalizedID string) bool {
	for _, r := range records {
		if model.NormalizeServerID(r.ID) == normalizedID {
			return true
		}
	}
	return false
}

// SyncUser replays reconciliation for everything a user touches: the
// servers they own and the servers they were granted. Individual failures
// are logged and skipped so one dead server doesn't block the rest.
func (s *Synchronizer) SyncUser(ctx context.Context, user *panel.User) error {
	if err := s.Store.AddUser(ctx, user.Username); err != nil {
		return err
	}
	for _, srv := range user.Servers {
		if err := s.Reconcile(ctx, srv.Identifier, user.ID); err != nil {
			logging.Warnf("subuser: sync of owned server %s for %s: %v", srv.Identifier, user.Username, err)
		}
	}
	records, err := s.Store.SubuserServers(ctx, user.Username)
	if err != nil {
		return err
	}
	for _, r := range records {
		if err := s.Reconcile(ctx, r.ID, r.OwnerID); err != nil {
			logging.Warnf("subuser: sync of granted server %s for %s: %v", r.ID, user.Username, err)
		}
	}
	return nil
}
