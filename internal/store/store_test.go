package store

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prismdash/prism/internal/model"
)

// Both implementations must agree on behavior, so every case runs against
// the SQLite store and the in-memory fake.
func eachStore(t *testing.T, fn func(t *testing.T, s Store)) {
	t.Helper()

	t.Run("sqlite", func(t *testing.T) {
		s, err := Open("file:" + t.TempDir() + "/prism.db")
		require.NoError(t, err)
		defer s.Close()
		fn(t, s)
	})
	t.Run("memory", func(t *testing.T) {
		fn(t, NewMemory())
	})
}

func TestSubuserServersRoundTrip(t *testing.T) {
	eachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()

		got, err := s.SubuserServers(ctx, "alice")
		require.NoError(t, err)
		assert.Empty(t, got, "missing key reads as empty list")

		records := []model.SubuserRecord{
			{ID: "abc12345-xxxx", Name: "SMP", OwnerID: 7},
			{ID: "def99", Name: "Creative", OwnerID: 9},
		}
		require.NoError(t, s.SetSubuserServers(ctx, "alice", records))

		got, err = s.SubuserServers(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, records, got)

		// Overwrite, not append.
		require.NoError(t, s.SetSubuserServers(ctx, "alice", records[:1]))
		got, err = s.SubuserServers(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, records[:1], got)
	})
}

func TestSubusersSnapshot(t *testing.T) {
	eachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		subs := []model.Subuser{{ID: "bob", Username: "bob", Email: "bob@example.com"}}
		require.NoError(t, s.SetSubusers(ctx, "abc12345", subs))

		got, err := s.Subusers(ctx, "abc12345")
		require.NoError(t, err)
		assert.Equal(t, subs, got)
	})
}

func TestActivityLogCap(t *testing.T) {
	eachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		for i := 0; i < 150; i++ {
			require.NoError(t, s.AppendActivity(ctx, "srv", "action", fmt.Sprintf("entry-%d", i)))
		}

		log, err := s.ActivityLog(ctx, "srv")
		require.NoError(t, err)
		require.Len(t, log, ActivityCap)
		// Newest first: the last append is at index 0.
		assert.Equal(t, "entry-149", log[0].Details)
		assert.Equal(t, "entry-50", log[ActivityCap-1].Details)
	})
}

func TestAllUsersIdempotentAdd(t *testing.T) {
	eachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		require.NoError(t, s.AddUser(ctx, "alice"))
		require.NoError(t, s.AddUser(ctx, "bob"))
		require.NoError(t, s.AddUser(ctx, "alice"))

		users, err := s.AllUsers(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"alice", "bob"}, users)
	})
}

func TestCoinsDefaultZero(t *testing.T) {
	eachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		coins, err := s.Coins(ctx, 42)
		require.NoError(t, err)
		assert.Zero(t, coins)

		require.NoError(t, s.Set(ctx, CoinsKey("42"), 250))
		coins, err = s.Coins(ctx, 42)
		require.NoError(t, err)
		assert.Equal(t, 250, coins)
	})
}
