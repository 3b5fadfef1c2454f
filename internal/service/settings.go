package service

import (
	"context"
	"database/sql"
	"errors"

	"suratapi/internal/model"
	"suratapi/internal/repository"
)

// SettingsService exposes the singleton office configuration row.
type SettingsService interface {
	// Get returns the current settings, falling back to defaults when the
	// row has never been written.
	Get(ctx context.Context) (*model.Settings, error)

	// Update replaces the settings row.
	Update(ctx context.Context, s *model.Settings) (*model.Settings, error)
}

type settingsService struct {
	repo repository.SettingsRepository
}

// NewSettingsService constructs a new SettingsService.
func NewSettingsService(repo repository.SettingsRepository) SettingsService {
	return &settingsService{repo: repo}
}

func (s *settingsService) Get(ctx context.Context) (*model.Settings, error) {
	cfg, err := s.repo.Get(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			def := model.DefaultSettings()
			return &def, nil
		}
		return nil, err
	}
	return cfg, nil
}

func (s *settingsService) Update(ctx context.Context, cfg *model.Settings) (*model.Settings, error) {
	if err := s.repo.Update(ctx, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
