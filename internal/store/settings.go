package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/ayusman/nayana/internal/wink"
)

// Setting keys.
const (
	KeyThresholdDefault     = "threshold.default"
	KeyThresholdConstrained = "threshold.constrained"
)

// SettingsRepository reads and writes key-value settings.
type SettingsRepository struct {
	db *sql.DB
}

// Settings returns the settings repository for this store.
func (s *Store) Settings() *SettingsRepository {
	return &SettingsRepository{db: s.db}
}

// Get returns the value for key, or ErrNotFound.
func (r *SettingsRepository) Get(key string) (string, error) {
	var value string
	err := r.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

// GetFloat returns the value for key parsed as a float.
func (r *SettingsRepository) GetFloat(key string) (float64, error) {
	value, err := r.Get(key)
	if err != nil {
		return 0, err
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("setting %s: %w", key, err)
	}
	return f, nil
}

// Set inserts or replaces the value for key.
func (r *SettingsRepository) Set(key, value string) error {
	_, err := r.db.Exec(
		`INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now(),
	)
	return err
}

// Delete removes key. Deleting a missing key returns ErrNotFound.
func (r *SettingsRepository) Delete(key string) error {
	result, err := r.db.Exec(`DELETE FROM settings WHERE key = ?`, key)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// All returns every setting.
func (r *SettingsRepository) All() (map[string]string, error) {
	rows, err := r.db.Query(`SELECT key, value FROM settings ORDER BY key`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	settings := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		settings[key] = value
	}

	return settings, rows.Err()
}

// Thresholds applies any stored threshold overrides on top of base and
// validates the result.
func (r *SettingsRepository) Thresholds(base wink.Thresholds) (wink.Thresholds, error) {
	t := base

	if v, err := r.GetFloat(KeyThresholdDefault); err == nil {
		t.Default = v
	} else if !errors.Is(err, ErrNotFound) {
		return base, err
	}

	if v, err := r.GetFloat(KeyThresholdConstrained); err == nil {
		t.Constrained = v
	} else if !errors.Is(err, ErrNotFound) {
		return base, err
	}

	if err := t.Validate(); err != nil {
		return base, err
	}
	return t, nil
}

// SaveThresholds validates t and stores both levels in one transaction.
func (r *SettingsRepository) SaveThresholds(t wink.Thresholds) error {
	if err := t.Validate(); err != nil {
		return err
	}

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now()
	for key, value := range map[string]float64{
		KeyThresholdDefault:     t.Default,
		KeyThresholdConstrained: t.Constrained,
	} {
		_, err := tx.Exec(
			`INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)
			 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
			key, strconv.FormatFloat(value, 'f', -1, 64), now,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}
