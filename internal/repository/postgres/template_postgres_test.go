package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"suratapi/internal/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func templateRows(templates ...model.Template) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"id", "name", "original_file", "storage_key", "number_format", "last_number", "uploaded_at"})
	for _, tm := range templates {
		rows.AddRow(tm.ID, tm.Name, tm.OriginalFile, tm.StorageKey, tm.NumberFormat, tm.LastNumber, tm.UploadedAt)
	}
	return rows
}

func TestTemplatePostgres_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewTemplatePostgres(db)

	tm := model.Template{
		ID:           "test-uuid",
		Name:         "Surat Keterangan Usaha",
		OriginalFile: "sku.docx",
		StorageKey:   "templates/test-uuid.docx",
		NumberFormat: "145/[NOMOR]/DS/[BULAN]/[TAHUN]",
		LastNumber:   0,
		UploadedAt:   time.Now().UTC(),
	}

	mock.ExpectQuery("INSERT INTO templates").
		WithArgs(tm.ID, tm.Name, tm.OriginalFile, tm.StorageKey, tm.NumberFormat, tm.LastNumber, tm.UploadedAt).
		WillReturnRows(templateRows(tm))

	stored, err := repo.Create(context.Background(), &tm)

	assert.NoError(t, err)
	assert.Equal(t, tm.ID, stored.ID)
	assert.Equal(t, int64(0), stored.LastNumber)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTemplatePostgres_FindByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewTemplatePostgres(db)

	t.Run("found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM templates WHERE id = ?").
			WithArgs("test-uuid").
			WillReturnRows(templateRows(model.Template{ID: "test-uuid", LastNumber: 7, UploadedAt: time.Now()}))

		tm, err := repo.FindByID(context.Background(), "test-uuid")

		assert.NoError(t, err)
		assert.Equal(t, int64(7), tm.LastNumber)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM templates WHERE id = ?").
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		tm, err := repo.FindByID(context.Background(), "missing")

		assert.ErrorIs(t, err, sql.ErrNoRows)
		assert.Nil(t, tm)
	})
}

func TestTemplatePostgres_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewTemplatePostgres(db)

	mock.ExpectQuery("SELECT (.+) FROM templates ORDER BY uploaded_at DESC").
		WillReturnRows(templateRows(
			model.Template{ID: "b", UploadedAt: time.Now()},
			model.Template{ID: "a", UploadedAt: time.Now().Add(-time.Hour)},
		))

	items, err := repo.List(context.Background())

	assert.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Equal(t, "b", items[0].ID)
}

func TestTemplatePostgres_UpdateNumbering(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewTemplatePostgres(db)

	mock.ExpectExec("UPDATE templates SET number_format").
		WithArgs("test-uuid", "B/[NOMOR]/[TAHUN]", int64(12)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.UpdateNumbering(context.Background(), "test-uuid", "B/[NOMOR]/[TAHUN]", 12)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTemplatePostgres_IncrementCounter(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewTemplatePostgres(db)

	mock.ExpectExec(`UPDATE templates SET last_number = last_number \+ 1`).
		WithArgs("test-uuid").
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.IncrementCounter(context.Background(), "test-uuid"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTemplatePostgres_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewTemplatePostgres(db)

	mock.ExpectExec("DELETE FROM templates WHERE id = ?").
		WithArgs("test-uuid").
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.Delete(context.Background(), "test-uuid"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
