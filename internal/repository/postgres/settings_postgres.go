package postgres

import (
	"context"
	"database/sql"

	"suratapi/internal/model"
	"suratapi/internal/repository"
)

// SettingsPostgres reads and writes the single settings row seeded by the
// migration.
type SettingsPostgres struct {
	db *sql.DB
}

// NewSettingsPostgres creates a new SettingsPostgres repository.
func NewSettingsPostgres(db *sql.DB) *SettingsPostgres {
	return &SettingsPostgres{db: db}
}

var _ repository.SettingsRepository = (*SettingsPostgres)(nil)

// Get returns the global settings record.
func (r *SettingsPostgres) Get(ctx context.Context) (*model.Settings, error) {
	const q = `SELECT qr_enabled, office_name, office_address, phone, website FROM settings WHERE id = 1`
	var s model.Settings
	if err := r.db.QueryRowContext(ctx, q).Scan(
		&s.QREnabled,
		&s.OfficeName,
		&s.OfficeAddress,
		&s.Phone,
		&s.Website,
	); err != nil {
		return nil, err
	}
	return &s, nil
}

// Update overwrites the global settings record.
func (r *SettingsPostgres) Update(ctx context.Context, s *model.Settings) error {
	const q = `
		UPDATE settings
		SET qr_enabled = $1, office_name = $2, office_address = $3, phone = $4, website = $5
		WHERE id = 1
	`
	_, err := r.db.ExecContext(ctx, q, s.QREnabled, s.OfficeName, s.OfficeAddress, s.Phone, s.Website)
	return err
}
