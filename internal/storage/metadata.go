package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/meur/battlebuddy/internal/models"
)

// Counter names backing the global metadata document
const (
	CounterTotalUsers      = "total_user_count"
	CounterTotalAdsWatched = "total_ads_watched"
)

// --- Ammo metadata ---

// SaveAmmoMetadata creates or replaces caliber display entries in a transaction
func (s *Store) SaveAmmoMetadata(ctx context.Context, entries []models.AmmoMetadata) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO ammo_metadata (caliber, display_name, idx) VALUES (?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, e := range entries {
		if e.Caliber == "" {
			return errors.New("ammo metadata without caliber")
		}
		if _, err := stmt.ExecContext(ctx, e.Caliber, e.DisplayName, e.Index); err != nil {
			return fmt.Errorf("failed to save ammo metadata %s: %w", e.Caliber, err)
		}
	}

	return tx.Commit()
}

// AmmoMetadata returns every caliber display entry ordered by index
func (s *Store) AmmoMetadata(ctx context.Context) ([]models.AmmoMetadata, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT caliber, display_name, idx FROM ammo_metadata ORDER BY idx, caliber
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []models.AmmoMetadata{}
	for rows.Next() {
		var e models.AmmoMetadata
		if err := rows.Scan(&e.Caliber, &e.DisplayName, &e.Index); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// --- Counters ---

// IncrementCounter adds delta to a named counter and returns the new value
func (s *Store) IncrementCounter(ctx context.Context, name string, delta int) (int, error) {
	var value int
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO counters (name, value) VALUES (?, ?)
		ON CONFLICT(name) DO UPDATE SET value = value + excluded.value
		RETURNING value
	`, name, delta).Scan(&value)
	return value, err
}

// Counter returns a named counter, zero when it was never incremented
func (s *Store) Counter(ctx context.Context, name string) (int, error) {
	var value int
	err := s.db.QueryRowContext(ctx, `SELECT value FROM counters WHERE name = ?`, name).Scan(&value)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	return value, err
}

// GlobalMetadata assembles the metadata document served to clients
func (s *Store) GlobalMetadata(ctx context.Context) (models.GlobalMetadata, error) {
	users, err := s.Counter(ctx, CounterTotalUsers)
	if err != nil {
		return models.GlobalMetadata{}, err
	}
	ads, err := s.Counter(ctx, CounterTotalAdsWatched)
	if err != nil {
		return models.GlobalMetadata{}, err
	}
	ammo, err := s.AmmoMetadata(ctx)
	if err != nil {
		return models.GlobalMetadata{}, err
	}
	return models.GlobalMetadata{
		TotalUserCount:  users,
		TotalAdsWatched: ads,
		AmmoMetadata:    ammo,
	}, nil
}

// --- Preferences ---

// Preference returns a stored preference and whether it exists
func (s *Store) Preference(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM preferences WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// SetPreference creates or replaces a preference
func (s *Store) SetPreference(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO preferences (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	return err
}

// AllPreferences returns every stored preference
func (s *Store) AllPreferences(ctx context.Context) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM preferences`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	prefs := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		prefs[k] = v
	}
	return prefs, rows.Err()
}

// --- Feedback ---

// Feedback is a message left by a user
type Feedback struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	Contact   string    `json:"contact,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// SaveFeedback stores a feedback message, assigning its ID and timestamp
func (s *Store) SaveFeedback(ctx context.Context, message, contact string) (*Feedback, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, errors.New("feedback message is required")
	}

	f := &Feedback{
		ID:        uuid.New().String(),
		Message:   message,
		Contact:   strings.TrimSpace(contact),
		CreatedAt: time.Now().UTC(),
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO feedback (id, message, contact, created_at) VALUES (?, ?, ?, ?)
	`, f.ID, f.Message, f.Contact, f.CreatedAt)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// ListFeedback returns stored feedback, newest first
func (s *Store) ListFeedback(ctx context.Context) ([]Feedback, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, message, contact, created_at FROM feedback ORDER BY created_at DESC, id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []Feedback{}
	for rows.Next() {
		var f Feedback
		var contact sql.NullString
		if err := rows.Scan(&f.ID, &f.Message, &contact, &f.CreatedAt); err != nil {
			return nil, err
		}
		f.Contact = contact.String
		list = append(list, f)
	}
	return list, rows.Err()
}
