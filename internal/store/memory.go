package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/prismdash/prism/internal/model"
)

// Memory is a map-backed Store used by tests across packages. It keeps the
// same JSON round-trip as the SQLite store so encoding bugs don't hide.
type Memory struct {
	mu   sync.Mutex
	data map[string][]byte

	// FailGets forces every read to fail, for exercising internal-error paths.
	FailGets bool
}

func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

func (m *Memory) Get(ctx context.Context, key string, v any) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailGets {
		return false, fmt.Errorf("get %q: store unavailable", key)
	}
	raw, ok := m.data[key]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return false, fmt.Errorf("decode %q: %w", key, err)
	}
	return true, nil
}

func (m *Memory) Set(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %q: %w", key, err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = raw
	return nil
}

func (m *Memory) Subusers(ctx context.Context, serverID string) ([]model.Subuser, error) {
	var out []model.Subuser
	if _, err := m.Get(ctx, SubusersKey(serverID), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (m *Memory) SetSubusers(ctx context.Context, serverID string, subusers []model.Subuser) error {
	return m.Set(ctx, SubusersKey(serverID), subusers)
}

func (m *Memory) SubuserServers(ctx context.Context, username string) ([]model.SubuserRecord, error) {
	var out []model.SubuserRecord
	if _, err := m.Get(ctx, SubuserServersKey(username), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (m *Memory) SetSubuserServers(ctx context.Context, username string, records []model.SubuserRecord) error {
	return m.Set(ctx, SubuserServersKey(username), records)
}

func (m *Memory) ActivityLog(ctx context.Context, serverID string) ([]model.ActivityEntry, error) {
	var out []model.ActivityEntry
	if _, err := m.Get(ctx, ActivityKey(serverID), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (m *Memory) AppendActivity(ctx context.Context, serverID, action, details string) error {
	log, err := m.ActivityLog(ctx, serverID)
	if err != nil {
		return err
	}
	entry := model.ActivityEntry{Timestamp: time.Now().UTC(), Action: action, Details: details}
	log = append([]model.ActivityEntry{entry}, log...)
	if len(log) > ActivityCap {
		log = log[:ActivityCap]
	}
	return m.Set(ctx, ActivityKey(serverID), log)
}

func (m *Memory) AllUsers(ctx context.Context) ([]string, error) {
	var out []string
	if _, err := m.Get(ctx, keyAllUsers, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (m *Memory) AddUser(ctx context.Context, username string) error {
	users, err := m.AllUsers(ctx)
	if err != nil {
		return err
	}
	for _, u := range users {
		if u == username {
			return nil
		}
	}
	return m.Set(ctx, keyAllUsers, append(users, username))
}

func (m *Memory) Coins(ctx context.Context, userID int) (int, error) {
	var coins int
	if _, err := m.Get(ctx, CoinsKey(strconv.Itoa(userID)), &coins); err != nil {
		return 0, err
	}
	return coins, nil
}

func (m *Memory) Close() error { return nil }
