// Package session resolves a request's identity from the session cookie.
// Creating sessions belongs to the (out of scope) login surface; this
// package only mints tokens on its behalf and reads them back.
package session

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/prismdash/prism/internal/model"
	"github.com/prismdash/prism/internal/store"
)

// CookieName is the session cookie the dashboard front-end sends.
const CookieName = "prism_session"

// ErrNoSession means the request carries no valid session. Distinct from a
// store failure so the HTTP layer can answer 401 vs 500.
var ErrNoSession = errors.New("no session")

type Manager struct {
	Store store.Store
}

// Create mints a token for identity and persists it.
func (m *Manager) Create(ctx context.Context, identity model.Identity) (string, error) {
	token := uuid.NewString()
	if err := m.Store.Set(ctx, store.SessionKey(token), identity); err != nil {
		return "", err
	}
	return token, nil
}

// Identity resolves the session cookie on r. A missing or unknown cookie is
// ErrNoSession; anything else is a store failure.
func (m *Manager) Identity(r *http.Request) (*model.Identity, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return nil, ErrNoSession
	}
	var id model.Identity
	ok, err := m.Store.Get(r.Context(), store.SessionKey(cookie.Value), &id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNoSession
	}
	return &id, nil
}
