package store

import (
	"database/sql"
	"errors"
	"strconv"
	"time"

	"github.com/minsukim/jikimi/internal/decision"
)

// Setting keys for the decision parameters.
const (
	SettingThreshold = "threshold"
	SettingHoldMs    = "hold_ms"
)

// SettingRepository provides key-value access to the settings table.
type SettingRepository struct {
	db *sql.DB
}

// Settings returns the setting repository for this store.
func (s *Store) Settings() *SettingRepository {
	return &SettingRepository{db: s.db}
}

// Get retrieves a setting value by key.
func (r *SettingRepository) Get(key string) (string, error) {
	var value string
	err := r.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}
	return value, nil
}

// Set stores a setting value, replacing any existing one.
func (r *SettingRepository) Set(key, value string) error {
	_, err := r.db.Exec(
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	return err
}

// Params loads the persisted decision parameters, falling back to the
// defaults for keys that were never set. Loaded values pass through the same
// clamp as live updates.
func (r *SettingRepository) Params() (decision.Params, error) {
	params := decision.DefaultParams()

	if v, err := r.Get(SettingThreshold); err == nil {
		if f, perr := strconv.ParseFloat(v, 64); perr == nil {
			params.Threshold = f
		}
	} else if !errors.Is(err, ErrNotFound) {
		return params, err
	}

	if v, err := r.Get(SettingHoldMs); err == nil {
		if ms, perr := strconv.ParseInt(v, 10, 64); perr == nil {
			params.Hold = time.Duration(ms) * time.Millisecond
		}
	} else if !errors.Is(err, ErrNotFound) {
		return params, err
	}

	return params.Clamp(), nil
}

// SaveParams persists the decision parameters.
func (r *SettingRepository) SaveParams(params decision.Params) error {
	if err := r.Set(SettingThreshold, strconv.FormatFloat(params.Threshold, 'f', -1, 64)); err != nil {
		return err
	}
	return r.Set(SettingHoldMs, strconv.FormatInt(params.Hold.Milliseconds(), 10))
}
