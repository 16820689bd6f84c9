package panel

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// ErrUserNotFound means the panel has no user for the given id. Callers use
// it to tell "unknown user" apart from "the panel call failed".
var ErrUserNotFound = errors.New("panel user not found")

// OwnedServer is one server from a user's relationship list. The panel
// reports both a numeric id and a short string identifier; authorization
// compares against both.
type OwnedServer struct {
	ID         int    `json:"id"`
	UUID       string `json:"uuid"`
	Identifier string `json:"identifier"`
	Name       string `json:"name"`
}

// User is the authoritative panel-side view of a dashboard user, including
// the servers they own. It is resolved per authorization decision and must
// not be persisted as ownership truth.
type User struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`

	Servers []OwnedServer `json:"-"`
}

type userResponse struct {
	Attributes struct {
		ID            int    `json:"id"`
		Username      string `json:"username"`
		Email         string `json:"email"`
		Relationships struct {
			Servers struct {
				Data []struct {
					Attributes OwnedServer `json:"attributes"`
				} `json:"data"`
			} `json:"servers"`
		} `json:"relationships"`
	} `json:"attributes"`
}

// FetchUser resolves a panel user with their owned-server relationships.
func (c *Client) FetchUser(ctx context.Context, userID int) (*User, error) {
	var resp userResponse
	err := c.do(ctx, "fetch_user", http.MethodGet,
		fmt.Sprintf("/api/application/users/%d?include=servers", userID), nil, &resp)
	if err != nil {
		var ae *APIError
		if errors.As(err, &ae) && ae.StatusCode == http.StatusNotFound {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	u := &User{
		ID:       resp.Attributes.ID,
		Username: resp.Attributes.Username,
		Email:    resp.Attributes.Email,
	}
	for _, s := range resp.Attributes.Relationships.Servers.Data {
		u.Servers = append(u.Servers, s.Attributes)
	}
	return u, nil
}
