package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"budget_tracker/internal/model"
)

const appSettingsKey = "app"

// SettingsRepository stores the application settings document
type SettingsRepository interface {
	// Get returns the stored settings, or model.ErrNotFound when none were saved yet
	Get(ctx context.Context) (*model.Settings, error)
	Save(ctx context.Context, settings *model.Settings) error
}

type settingsRepository struct {
	db Querier
}

// NewSettingsRepository creates a new SettingsRepository
func NewSettingsRepository(db Querier) SettingsRepository {
	return &settingsRepository{db: db}
}

func (r *settingsRepository) Get(ctx context.Context) (*model.Settings, error) {
	var raw []byte
	err := r.db.QueryRow(ctx, `SELECT value FROM settings WHERE key = $1`, appSettingsKey).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, persistenceErr("load settings", err)
	}

	var s model.Settings
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, persistenceErr("decode settings", err)
	}
	return &s, nil
}

func (r *settingsRepository) Save(ctx context.Context, s *model.Settings) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	sql := `INSERT INTO settings (key, value, updated_at) VALUES ($1, $2, NOW())
            ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`
	if _, err := r.db.Exec(ctx, sql, appSettingsKey, raw); err != nil {
		return persistenceErr("save settings", err)
	}
	return nil
}
