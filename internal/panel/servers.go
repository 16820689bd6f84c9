package panel

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/prismdash/prism/internal/model"
)

// subuserPermissions is the full grant the dashboard hands to every
// collaborator it creates, matching the panel's complete permission set.
var subuserPermissions = []string{
	"control.console", "control.start", "control.stop", "control.restart",
	"user.create", "user.read", "user.update", "user.delete",
	"file.create", "file.read", "file.update", "file.delete",
	"file.archive", "file.sftp", "backup.create", "backup.read",
	"backup.delete", "backup.update", "backup.download",
	"allocation.update", "startup.update", "startup.read",
	"database.create", "database.read", "database.update",
	"database.delete", "database.view_password", "schedule.create",
	"schedule.read", "schedule.update", "settings.rename",
	"schedule.delete", "settings.reinstall", "websocket.connect",
}

type subuserAttributes struct {
	UUID     string `json:"uuid"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type subuserList struct {
	Data []struct {
		Attributes subuserAttributes `json:"attributes"`
	} `json:"data"`
}

// ServerUsers lists a server's collaborators. The record id is the panel
// username, matching the layout of the persisted subuser snapshot.
func (c *Client) ServerUsers(ctx context.Context, serverID string) ([]model.Subuser, error) {
	var resp subuserList
	err := c.do(ctx, "server_users", http.MethodGet,
		"/api/client/servers/"+url.PathEscape(serverID)+"/users", nil, &resp)
	if err != nil {
		return nil, err
	}
	out := make([]model.Subuser, 0, len(resp.Data))
	for _, d := range resp.Data {
		out = append(out, model.Subuser{
			ID:       d.Attributes.Username,
			Username: d.Attributes.Username,
			Email:    d.Attributes.Email,
		})
	}
	return out, nil
}

// CreateServerUser invites email as a collaborator with the full permission
// set and returns the created username.
func (c *Client) CreateServerUser(ctx context.Context, serverID, email string) (model.Subuser, error) {
	body := map[string]any{"email": email, "permissions": subuserPermissions}
	var resp struct {
		Attributes subuserAttributes `json:"attributes"`
	}
	err := c.do(ctx, "create_server_user", http.MethodPost,
		"/api/client/servers/"+url.PathEscape(serverID)+"/users", body, &resp)
	if err != nil {
		return model.Subuser{}, err
	}
	return model.Subuser{
		ID:       resp.Attributes.Username,
		Username: resp.Attributes.Username,
		Email:    resp.Attributes.Email,
	}, nil
}

// DeleteServerUser removes a collaborator by their panel subuser uuid.
func (c *Client) DeleteServerUser(ctx context.Context, serverID, subuserID string) error {
	return c.do(ctx, "delete_server_user", http.MethodDelete,
		"/api/client/servers/"+url.PathEscape(serverID)+"/users/"+url.PathEscape(subuserID), nil, nil)
}

// ServerName fetches the display name of a server.
func (c *Client) ServerName(ctx context.Context, serverID string) (string, error) {
	var resp struct {
		Attributes struct {
			Name string `json:"name"`
		} `json:"attributes"`
	}
	err := c.do(ctx, "server_name", http.MethodGet,
		"/api/client/servers/"+url.PathEscape(serverID), nil, &resp)
	if err != nil {
		return "", err
	}
	return resp.Attributes.Name, nil
}

// Credentials is a one-time websocket grant: the upstream socket address
// plus a short-lived token.
type Credentials struct {
	Socket string `json:"socket"`
	Token  string `json:"token"`
}

// WebsocketCredentials obtains connection credentials for a server's event
// stream. Tokens expire quickly; the relay refreshes them mid-session via
// this same call.
func (c *Client) WebsocketCredentials(ctx context.Context, serverID string) (Credentials, error) {
	var resp struct {
		Data Credentials `json:"data"`
	}
	err := c.do(ctx, "websocket_credentials", http.MethodGet,
		"/api/client/servers/"+url.PathEscape(serverID)+"/websocket", nil, &resp)
	if err != nil {
		return Credentials{}, err
	}
	if resp.Data.Socket == "" || resp.Data.Token == "" {
		return Credentials{}, fmt.Errorf("panel websocket_credentials: empty socket or token")
	}
	return resp.Data, nil
}
