package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prismdash/prism/internal/model"
	"github.com/prismdash/prism/internal/store"
)

func sessionCookie(v string) *http.Cookie {
	return &http.Cookie{Name: CookieName, Value: v}
}

func TestCreateAndResolve(t *testing.T) {
	mem := store.NewMemory()
	m := &Manager{Store: mem}

	token, err := m.Create(context.Background(), model.Identity{UserID: 7, Username: "alice"})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	r := httptest.NewRequest("GET", "/api/state", nil)
	r.AddCookie(sessionCookie(token))

	id, err := m.Identity(r)
	require.NoError(t, err)
	assert.Equal(t, 7, id.UserID)
	assert.Equal(t, "alice", id.Username)
}

func TestIdentity_MissingCookie(t *testing.T) {
	m := &Manager{Store: store.NewMemory()}
	r := httptest.NewRequest("GET", "/api/state", nil)

	_, err := m.Identity(r)
	require.ErrorIs(t, err, ErrNoSession)
}

func TestIdentity_UnknownToken(t *testing.T) {
	m := &Manager{Store: store.NewMemory()}
	r := httptest.NewRequest("GET", "/api/state", nil)
	r.AddCookie(sessionCookie("not-a-session"))

	_, err := m.Identity(r)
	require.ErrorIs(t, err, ErrNoSession)
}

func TestIdentity_StoreFailureIsNotNoSession(t *testing.T) {
	mem := store.NewMemory()
	mem.FailGets = true
	m := &Manager{Store: mem}
	r := httptest.NewRequest("GET", "/api/state", nil)
	r.AddCookie(sessionCookie("whatever"))

	_, err := m.Identity(r)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoSession)
}
