package repository

import (
	"context"

	"suratapi/internal/model"
)

// SettingsRepository reads and writes the single global settings record,
// seeded with defaults at migration time.
type SettingsRepository interface {
	Get(ctx context.Context) (*model.Settings, error)
	Update(ctx context.Context, s *model.Settings) error
}
