// Package auth decides whether a session may act on a server. Access is
// additive: panel ownership or a synchronized subuser record grants it, and
// nothing revokes it.
package auth

import (
	"context"
	"errors"
	"strconv"

	"github.com/prismdash/prism/internal/model"
	"github.com/prismdash/prism/internal/panel"
)

// IdentityResolver fetches the authoritative owned-server list. Satisfied by
// *panel.Client.
type IdentityResolver interface {
	FetchUser(ctx context.Context, userID int) (*panel.User, error)
}

// RecordReader reads synchronized subuser records. Satisfied by store.Store.
type RecordReader interface {
	SubuserServers(ctx context.Context, username string) ([]model.SubuserRecord, error)
}

type Reason string

const (
	ReasonNoServerID      Reason = "no-server-id"
	ReasonUnknownUser     Reason = "unknown-user"
	ReasonNoSubuserRecord Reason = "no-subuser-record"
	ReasonForbidden       Reason = "forbidden"
)

// Via reports which path granted access.
type Via string

const (
	ViaOwner   Via = "owner"
	ViaSubuser Via = "subuser"
)

// Decision is the outcome of one authorization check. A deny is a Decision,
// not an error; errors mean the check itself could not be performed.
type Decision struct {
	Allowed bool
	Via     Via
	Reason  Reason
}

func allow(via Via) Decision { return Decision{Allowed: true, Via: via} }
func deny(r Reason) Decision { return Decision{Reason: r} }

type Authorizer struct {
	Resolver IdentityResolver
	Records  RecordReader
}

// Authorize checks identity against serverID. The target id and every
// candidate id are compared through model.NormalizeServerID, so long and
// short server handles match freely.
func (a *Authorizer) Authorize(ctx context.Context, identity model.Identity, serverID string) (Decision, error) {
	if serverID == "" {
		return deny(ReasonNoServerID), nil
	}
	target := model.NormalizeServerID(serverID)

	user, err := a.Resolver.FetchUser(ctx, identity.UserID)
	if err != nil {
		if errors.Is(err, panel.ErrUserNotFound) {
			return deny(ReasonUnknownUser), nil
		}
		// Remote failure is not a deny; callers must be able to tell
		// "no access" from "couldn't check access".
		return Decision{}, err
	}

	for _, s := range user.Servers {
		// The panel exposes both a short identifier and a numeric id; a
		// request may reference either.
		if model.NormalizeServerID(s.Identifier) == target || strconv.Itoa(s.ID) == target {
			return allow(ViaOwner), nil
		}
	}

	records, err := a.Records.SubuserServers(ctx, identity.Username)
	if err != nil {
		return Decision{}, err
	}
	if len(records) == 0 {
		return deny(ReasonNoSubuserRecord), nil
	}
	for _, r := range records {
		if model.NormalizeServerID(r.ID) == target {
			return allow(ViaSubuser), nil
		}
	}
	return deny(ReasonForbidden), nil
}
