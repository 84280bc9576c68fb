package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// SettingUpstreamToken is the settings key for the governance backend token.
const SettingUpstreamToken = "upstream_api_token"

// SecretRecord is one encrypted console setting. The store never sees the
// plaintext; callers encrypt before saving and decrypt after loading.
type SecretRecord struct {
	Key        string
	Ciphertext string
	Nonce      string
	KeyID      string
	UpdatedAt  time.Time
}

// SettingsStore handles encrypted console settings persistence.
type SettingsStore struct {
	db *sql.DB
}

// NewSettingsStore creates a new SettingsStore using the global DB connection.
func NewSettingsStore() *SettingsStore {
	return &SettingsStore{db: DB}
}

// SaveSecret inserts or replaces an encrypted setting.
func (s *SettingsStore) SaveSecret(ctx context.Context, rec *SecretRecord) error {
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO console_settings (key, value_ciphertext, value_nonce, value_key_id, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value_ciphertext = excluded.value_ciphertext,
			value_nonce = excluded.value_nonce,
			value_key_id = excluded.value_key_id,
			updated_at = excluded.updated_at
	`, rec.Key, rec.Ciphertext, rec.Nonce, rec.KeyID, rec.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save setting: %w", err)
	}
	return nil
}

// GetSecret returns the encrypted setting, or nil when absent.
func (s *SettingsStore) GetSecret(ctx context.Context, key string) (*SecretRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT key, value_ciphertext, value_nonce, value_key_id, updated_at
		FROM console_settings WHERE key = ?
	`, key)

	var rec SecretRecord
	err := row.Scan(&rec.Key, &rec.Ciphertext, &rec.Nonce, &rec.KeyID, &rec.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get setting: %w", err)
	}
	return &rec, nil
}

// DeleteSecret removes a setting.
func (s *SettingsStore) DeleteSecret(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM console_settings WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("failed to delete setting: %w", err)
	}
	return nil
}
