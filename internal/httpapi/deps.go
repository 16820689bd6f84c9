package httpapi

import (
	"context"
	"encoding/json"
	"time"

	"github.com/prismdash/prism/internal/auth"
	"github.com/prismdash/prism/internal/model"
	"github.com/prismdash/prism/internal/panel"
	"github.com/prismdash/prism/internal/plugins"
	"github.com/prismdash/prism/internal/relay"
	"github.com/prismdash/prism/internal/session"
	"github.com/prismdash/prism/internal/store"
	"github.com/prismdash/prism/internal/subuser"
)

// Panel is the slice of the panel client the HTTP layer consumes.
// Websocket credentials are reached through the relay manager instead.
type Panel interface {
	FetchUser(ctx context.Context, userID int) (*panel.User, error)
	ServerUsers(ctx context.Context, serverID string) ([]model.Subuser, error)
	CreateServerUser(ctx context.Context, serverID, email string) (model.Subuser, error)
	DeleteServerUser(ctx context.Context, serverID, subuserID string) error
	UploadURL(ctx context.Context, serverID string) (string, error)
	UploadFile(ctx context.Context, uploadURL, filename, contentType string, data []byte) error
	RenameFile(ctx context.Context, serverID, root, from, to string) error
}

// Marketplace is the plugin marketplace surface (Spiget in production).
type Marketplace interface {
	List(ctx context.Context) (json.RawMessage, error)
	Search(ctx context.Context, query string) (json.RawMessage, error)
	Resource(ctx context.Context, pluginID int) (plugins.Resource, error)
	Download(ctx context.Context, pluginID int) ([]byte, error)
}

// Authorizer decides whether an identity may act on a server.
type Authorizer interface {
	Authorize(ctx context.Context, identity model.Identity, serverID string) (auth.Decision, error)
}

// Deps carries every collaborator the routes need. Constructed once in
// cmd/prism; handlers never reach for globals.
type Deps struct {
	Store    store.Store
	Panel    Panel
	Auth     Authorizer
	Sessions *session.Manager
	Relay    *relay.Manager
	Sync     *subuser.Synchronizer
	Plugins  Marketplace

	Options Options
}

// Options controls HTTP API runtime behavior (timeouts, etc.).
type Options struct {
	// CommandWait is how long the command endpoints sample console output
	// after sending a command.
	CommandWait time.Duration

	// RequestTimeout is the hard upper bound for a single non-websocket
	// request that talks to the panel or the marketplace.
	RequestTimeout time.Duration
}

func (o Options) withDefaults() Options {
	if o.CommandWait <= 0 {
		o.CommandWait = 5 * time.Second
	}
	if o.RequestTimeout <= 0 {
		o.RequestTimeout = 30 * time.Second
	}
	return o
}
