// Package store is the Ownership Store: a keyed JSON blob store holding the
// subuser/server relationship records, per-server activity logs, and session
// state. Each key is independently owned; there are no multi-key
// transactions anywhere in this package.
package store

import (
	"context"

	"github.com/prismdash/prism/internal/model"
)

// Keys follow the original dashboard's layout so existing databases keep
// working.
const (
	keySubusersPrefix       = "subusers-"
	keySubuserServersPrefix = "subuser-servers-"
	keyActivityPrefix       = "activity_log_"
	keyCoinsPrefix          = "coins-"
	keySessionPrefix        = "session-"
	keyAllUsers             = "all_users"
)

// ActivityCap bounds each server's activity log; older entries fall off.
const ActivityCap = 100

// Store defines every persistence operation the dashboard performs.
type Store interface {
	// Get unmarshals the value at key into v. The bool reports whether the
	// key existed.
	Get(ctx context.Context, key string, v any) (bool, error)
	Set(ctx context.Context, key string, v any) error

	Subusers(ctx context.Context, serverID string) ([]model.Subuser, error)
	SetSubusers(ctx context.Context, serverID string, subusers []model.Subuser) error

	SubuserServers(ctx context.Context, username string) ([]model.SubuserRecord, error)
	SetSubuserServers(ctx context.Context, username string, records []model.SubuserRecord) error

	ActivityLog(ctx context.Context, serverID string) ([]model.ActivityEntry, error)
	AppendActivity(ctx context.Context, serverID, action, details string) error

	AllUsers(ctx context.Context) ([]string, error)
	AddUser(ctx context.Context, username string) error

	Coins(ctx context.Context, userID int) (int, error)

	Close() error
}

func SubusersKey(serverID string) string       { return keySubusersPrefix + serverID }
func SubuserServersKey(username string) string { return keySubuserServersPrefix + username }
func ActivityKey(serverID string) string       { return keyActivityPrefix + serverID }
func CoinsKey(userID string) string            { return keyCoinsPrefix + userID }
func SessionKey(token string) string           { return keySessionPrefix + token }
