package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ziadkadry99/livepad/internal/db"
	"github.com/ziadkadry99/livepad/internal/fragment"
)

// Store persists fragments and preferences as string values under fixed keys.
type Store struct {
	db *db.DB
}

// NewStore creates a new key-value store.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// Get returns the value stored under key. ok is false when the key is
// missing or holds NULL.
func (s *Store) Get(ctx context.Context, key string) (value string, ok bool, err error) {
	var v sql.NullString
	err = s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&v)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("getting %s: %w", key, err)
	}
	return v.String, v.Valid, nil
}

// Set stores value under key, replacing any previous value.
func (s *Store) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("setting %s: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("deleting %s: %w", key, err)
	}
	return nil
}

// Clear removes every key.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv`); err != nil {
		return fmt.Errorf("clearing store: %w", err)
	}
	return nil
}

// Keys returns all stored keys in lexical order.
func (s *Store) Keys(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key FROM kv ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("listing keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("scanning key: %w", err)
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// LoadSources reads the three fragments. Absent fragments are empty.
func (s *Store) LoadSources(ctx context.Context) (fragment.Sources, error) {
	var src fragment.Sources
	for _, f := range fragment.All {
		v, _, err := s.Get(ctx, f.Key())
		if err != nil {
			return fragment.Sources{}, err
		}
		src.Set(f, v)
	}
	return src, nil
}

// LoadPreferences reads the view preferences. Absent or unrecognised
// values fall back to the defaults.
func (s *Store) LoadPreferences(ctx context.Context) (fragment.Preferences, error) {
	prefs := fragment.DefaultPreferences()

	if v, ok, err := s.Get(ctx, fragment.PrefTheme.Key()); err != nil {
		return prefs, err
	} else if ok {
		if t, err := fragment.ParseTheme(v); err == nil {
			prefs.Theme = t
		}
	}

	if v, ok, err := s.Get(ctx, fragment.PrefLayout.Key()); err != nil {
		return prefs, err
	} else if ok {
		if m, err := fragment.ParseLayout(v); err == nil {
			prefs.Layout = m
		}
	}

	return prefs, nil
}

// SaveFragment persists the text of one fragment.
func (s *Store) SaveFragment(ctx context.Context, f fragment.Fragment, text string) error {
	return s.Set(ctx, f.Key(), text)
}

// SaveTheme persists the theme preference.
func (s *Store) SaveTheme(ctx context.Context, t fragment.Theme) error {
	return s.Set(ctx, fragment.PrefTheme.Key(), string(t))
}

// SaveLayout persists the layout preference.
func (s *Store) SaveLayout(ctx context.Context, m fragment.LayoutMode) error {
	return s.Set(ctx, fragment.PrefLayout.Key(), string(m))
}
