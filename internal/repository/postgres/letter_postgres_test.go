package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"suratapi/internal/model"
	"suratapi/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func letterRows(letters ...model.Letter) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"id", "template_id", "letter_type", "applicant", "number", "issued_at", "filename", "storage_key", "created_at"})
	for _, l := range letters {
		rows.AddRow(l.ID, l.TemplateID, l.LetterType, l.Applicant, l.Number, l.IssuedAt, l.Filename, l.StorageKey, l.CreatedAt)
	}
	return rows
}

func TestLetterPostgres_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewLetterPostgres(db)
	ctx := context.Background()

	l := model.Letter{
		ID:         "1767343200000",
		TemplateID: "tmpl-1",
		LetterType: "Surat Keterangan Usaha",
		Applicant:  "BUDI SANTOSO",
		Number:     "145/001/DS/I/2026",
		IssuedAt:   "2/1/2026, 10.30.00",
		Filename:   "Surat_BUDI_SANTOSO_00000.docx",
		StorageKey: "letters/Surat_BUDI_SANTOSO_00000.docx",
		CreatedAt:  time.Now().UTC(),
	}

	mock.ExpectQuery("INSERT INTO letters").
		WithArgs(l.ID, l.TemplateID, l.LetterType, l.Applicant, l.Number, l.IssuedAt, l.Filename, l.StorageKey, l.CreatedAt).
		WillReturnRows(letterRows(l))

	stored, err := repo.Create(ctx, &l)

	assert.NoError(t, err)
	assert.Equal(t, l.ID, stored.ID)
	assert.Equal(t, l.Number, stored.Number)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLetterPostgres_FindByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewLetterPostgres(db)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM letters WHERE id = ?").
			WithArgs("1767343200000").
			WillReturnRows(letterRows(model.Letter{ID: "1767343200000", Applicant: "ANI", CreatedAt: time.Now()}))

		l, err := repo.FindByID(ctx, "1767343200000")

		assert.NoError(t, err)
		assert.Equal(t, "ANI", l.Applicant)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM letters WHERE id = ?").
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		l, err := repo.FindByID(ctx, "missing")

		assert.ErrorIs(t, err, sql.ErrNoRows)
		assert.Nil(t, l)
	})
}

func TestLetterPostgres_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewLetterPostgres(db)
	ctx := context.Background()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM letters`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery("SELECT (.+) FROM letters ORDER BY created_at DESC").
		WithArgs(10, 0).
		WillReturnRows(letterRows(
			model.Letter{ID: "2", CreatedAt: time.Now()},
			model.Letter{ID: "1", CreatedAt: time.Now().Add(-time.Hour)},
		))

	res, err := repo.List(ctx, repository.PageQuery{Limit: 10, Offset: 0})

	assert.NoError(t, err)
	assert.Equal(t, 2, res.Total)
	assert.Len(t, res.Items, 2)
	assert.Equal(t, "2", res.Items[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLetterPostgres_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewLetterPostgres(db)

	mock.ExpectExec("DELETE FROM letters WHERE id = ?").
		WithArgs("1767343200000").
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.Delete(context.Background(), "1767343200000"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLetterPostgres_Search(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewLetterPostgres(db)

	mock.ExpectQuery("SELECT (.+) FROM letters").
		WithArgs("%budi%", 8).
		WillReturnRows(letterRows(model.Letter{ID: "1", Applicant: "BUDI", CreatedAt: time.Now()}))

	items, err := repo.Search(context.Background(), "budi", 8)

	assert.NoError(t, err)
	assert.Len(t, items, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLetterPostgres_Counts(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewLetterPostgres(db)
	ctx := context.Background()

	t.Run("by month", func(t *testing.T) {
		since := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
		mock.ExpectQuery("SELECT EXTRACT").
			WithArgs(since).
			WillReturnRows(sqlmock.NewRows([]string{"year", "month", "count"}).
				AddRow(2026, 3, 4).
				AddRow(2026, 5, 1))

		counts, err := repo.CountByMonth(ctx, since)

		assert.NoError(t, err)
		assert.Equal(t, []repository.MonthCount{
			{Year: 2026, Month: time.March, Count: 4},
			{Year: 2026, Month: time.May, Count: 1},
		}, counts)
	})

	t.Run("by type", func(t *testing.T) {
		mock.ExpectQuery("SELECT letter_type, COUNT").
			WillReturnRows(sqlmock.NewRows([]string{"letter_type", "count"}).
				AddRow("SKU", 3).
				AddRow("SKTM", 1))

		counts, err := repo.CountByType(ctx)

		assert.NoError(t, err)
		assert.Equal(t, map[string]int{"SKU": 3, "SKTM": 1}, counts)
	})
}
