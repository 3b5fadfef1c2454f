package postgres

import (
	"context"
	"database/sql"
	"testing"

	"suratapi/internal/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestSettingsPostgres_Get(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewSettingsPostgres(db)

	rows := sqlmock.NewRows([]string{"qr_enabled", "office_name", "office_address", "phone", "website"}).
		AddRow(true, "Pemerintah Desa Sukamaju", "Jl. Raya Sukamaju No. 10", "(021) 555123", "www.sukamaju.desa.id")

	mock.ExpectQuery("SELECT qr_enabled, office_name, office_address, phone, website FROM settings").
		WillReturnRows(rows)

	s, err := repo.Get(context.Background())

	assert.NoError(t, err)
	assert.True(t, s.QREnabled)
	assert.Equal(t, "Pemerintah Desa Sukamaju", s.OfficeName)
	assert.Equal(t, "www.sukamaju.desa.id", s.Website)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSettingsPostgres_Get_NoRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewSettingsPostgres(db)

	mock.ExpectQuery("SELECT qr_enabled, office_name, office_address, phone, website FROM settings").
		WillReturnError(sql.ErrNoRows)

	s, err := repo.Get(context.Background())

	assert.Nil(t, s)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSettingsPostgres_Update(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewSettingsPostgres(db)

	s := model.Settings{
		QREnabled:     true,
		OfficeName:    "Pemerintah Desa Sukamaju",
		OfficeAddress: "Jl. Raya Sukamaju No. 10",
		Phone:         "(021) 555123",
		Website:       "www.sukamaju.desa.id",
	}

	mock.ExpectExec("UPDATE settings").
		WithArgs(s.QREnabled, s.OfficeName, s.OfficeAddress, s.Phone, s.Website).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.Update(context.Background(), &s)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
