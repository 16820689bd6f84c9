package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/prismdash/prism/internal/model"
)

// kvEntry is the single table backing the store. Values are opaque JSON.
type kvEntry struct {
	bun.BaseModel `bun:"table:kv_entries"`
	Key           string `bun:"key,pk"`
	Value         []byte `bun:"value,notnull"`
}

// SqliteStore is the SQLite implementation of Store.
type SqliteStore struct {
	db  *sql.DB
	bun *bun.DB
}

// Open connects to the given SQLite DSN and creates the schema when absent.
func Open(dsn string) (*SqliteStore, error) {
	sqldb, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	bdb := bun.NewDB(sqldb, sqlitedialect.New())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := bdb.NewCreateTable().Model((*kvEntry)(nil)).IfNotExists().Exec(ctx); err != nil {
		_ = sqldb.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &SqliteStore{db: sqldb, bun: bdb}, nil
}

func (s *SqliteStore) Close() error { return s.db.Close() }

func (s *SqliteStore) Get(ctx context.Context, key string, v any) (bool, error) {
	var e kvEntry
	err := s.bun.NewSelect().Model(&e).Where("key = ?", key).Limit(1).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("get %q: %w", key, err)
	}
	if err := json.Unmarshal(e.Value, v); err != nil {
		return false, fmt.Errorf("decode %q: %w", key, err)
	}
	return true, nil
}

func (s *SqliteStore) Set(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %q: %w", key, err)
	}
	e := kvEntry{Key: key, Value: raw}
	_, err = s.bun.NewInsert().Model(&e).
		On("CONFLICT (key) DO UPDATE").
		Set("value = EXCLUDED.value").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("set %q: %w", key, err)
	}
	return nil
}

func (s *SqliteStore) Subusers(ctx context.Context, serverID string) ([]model.Subuser, error) {
	var out []model.Subuser
	if _, err := s.Get(ctx, SubusersKey(serverID), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *SqliteStore) SetSubusers(ctx context.Context, serverID string, subusers []model.Subuser) error {
	return s.Set(ctx, SubusersKey(serverID), subusers)
}

func (s *SqliteStore) SubuserServers(ctx context.Context, username string) ([]model.SubuserRecord, error) {
	var out []model.SubuserRecord
	if _, err := s.Get(ctx, SubuserServersKey(username), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *SqliteStore) SetSubuserServers(ctx context.Context, username string, records []model.SubuserRecord) error {
	return s.Set(ctx, SubuserServersKey(username), records)
}

func (s *SqliteStore) ActivityLog(ctx context.Context, serverID string) ([]model.ActivityEntry, error) {
	var out []model.ActivityEntry
	if _, err := s.Get(ctx, ActivityKey(serverID), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AppendActivity prepends one entry and drops anything past ActivityCap, so
// the stored log is always newest-first.
func (s *SqliteStore) AppendActivity(ctx context.Context, serverID, action, details string) error {
	log, err := s.ActivityLog(ctx, serverID)
	if err != nil {
		return err
	}
	entry := model.ActivityEntry{Timestamp: time.Now().UTC(), Action: action, Details: details}
	log = append([]model.ActivityEntry{entry}, log...)
	if len(log) > ActivityCap {
		log = log[:ActivityCap]
	}
	return s.Set(ctx, ActivityKey(serverID), log)
}

func (s *SqliteStore) AllUsers(ctx context.Context) ([]string, error) {
	var out []string
	if _, err := s.Get(ctx, keyAllUsers, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *SqliteStore) AddUser(ctx context.Context, username string) error {
	users, err := s.AllUsers(ctx)
	if err != nil {
		return err
	}
	for _, u := range users {
		if u == username {
			return nil
		}
	}
	return s.Set(ctx, keyAllUsers, append(users, username))
}

func (s *SqliteStore) Coins(ctx context.Context, userID int) (int, error) {
	var coins int
	if _, err := s.Get(ctx, CoinsKey(strconv.Itoa(userID)), &coins); err != nil {
		return 0, err
	}
	return coins, nil
}
