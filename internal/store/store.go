// Package store is the persisted key-value preferences store: local
// identity (user id, username) and theme survive process restarts.
package store

import (
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/glebarez/go-sqlite"
	"github.com/google/uuid"

	"matchcenter/pkg/models"
)

// Well-known keys
const (
	keyUserID   = "user_id"
	keyUsername = "username"
	keyTheme    = "theme"
)

// Theme values
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// Store is a sqlite-backed key-value settings store
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the settings database at path
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open settings db: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS settings (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to init settings db: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database handle
func (s *Store) Close() error {
	return s.db.Close()
}

// Get returns the value for key; ok is false when the key is unset
func (s *Store) Get(key string) (value string, ok bool, err error) {
	row := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key)
	if err := row.Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to read setting %s: %w", key, err)
	}
	return value, true, nil
}

// Set writes the value for key, replacing any previous value
func (s *Store) Set(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value)
	if err != nil {
		return fmt.Errorf("failed to write setting %s: %w", key, err)
	}
	return nil
}

// Identity returns the durable local identity. On first run a user id
// is generated and persisted with an empty username; the UI layer is
// responsible for prompting the user to choose one.
func (s *Store) Identity() (models.User, error) {
	id, ok, err := s.Get(keyUserID)
	if err != nil {
		return models.User{}, err
	}
	if !ok || id == "" {
		id = uuid.New().String()
		if err := s.Set(keyUserID, id); err != nil {
			return models.User{}, err
		}
	}
	username, _, err := s.Get(keyUsername)
	if err != nil {
		return models.User{}, err
	}
	return models.User{UserID: id, Username: username}, nil
}

// SetUsername validates and persists the display name
func (s *Store) SetUsername(username string) error {
	if err := models.ValidateUsername(username); err != nil {
		return err
	}
	return s.Set(keyUsername, username)
}

// Theme returns the persisted theme preference, defaulting to light
func (s *Store) Theme() (string, error) {
	theme, ok, err := s.Get(keyTheme)
	if err != nil {
		return "", err
	}
	if !ok || (theme != ThemeLight && theme != ThemeDark) {
		return ThemeLight, nil
	}
	return theme, nil
}

// SetTheme persists the theme preference
func (s *Store) SetTheme(theme string) error {
	if theme != ThemeLight && theme != ThemeDark {
		return fmt.Errorf("unknown theme %q", theme)
	}
	return s.Set(keyTheme, theme)
}
