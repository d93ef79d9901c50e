package database

import (
	"database/sql"
	"fmt"
	"log"
)

// SettingsRepository handles database operations for key-value settings
type SettingsRepository struct{}

// NewSettingsRepository creates a new repository instance
func NewSettingsRepository() *SettingsRepository {
	return &SettingsRepository{}
}

// GetSetting returns the stored value for key, or defaultValue when the
// key is absent or the read fails
func (r *SettingsRepository) GetSetting(key, defaultValue string) string {
	var value string
	err := DB.Get(&value, "SELECT value FROM settings WHERE key = $1", key)
	if err == sql.ErrNoRows {
		return defaultValue
	}
	if err != nil {
		log.Printf("Error getting setting %s: %v", key, err)
		return defaultValue
	}
	return value
}

// SaveSetting stores a value under key, overwriting any previous value
func (r *SettingsRepository) SaveSetting(key, value string) error {
	query := `
		INSERT INTO settings (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value
	`
	if _, err := DB.Exec(query, key, value); err != nil {
		return fmt.Errorf("%w: failed to save setting %s: %v", ErrPersistence, key, err)
	}
	return nil
}

// DeleteSetting removes a setting. Deleting an absent key is not an error.
func (r *SettingsRepository) DeleteSetting(key string) error {
	if _, err := DB.Exec("DELETE FROM settings WHERE key = $1", key); err != nil {
		return fmt.Errorf("%w: failed to delete setting %s: %v", ErrPersistence, key, err)
	}
	return nil
}
