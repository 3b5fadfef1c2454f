package postgres

import (
	"context"
	"database/sql"

	"suratapi/internal/model"
	"suratapi/internal/repository"
)

// TemplatePostgres is a PostgreSQL implementation of
// repository.TemplateRepository. It uses database/sql with parameterized
// queries and contains no business logic.
type TemplatePostgres struct {
	db *sql.DB
}

// NewTemplatePostgres creates a new TemplatePostgres repository.
func NewTemplatePostgres(db *sql.DB) *TemplatePostgres {
	return &TemplatePostgres{db: db}
}

var _ repository.TemplateRepository = (*TemplatePostgres)(nil)

const templateColumns = `id, name, original_file, storage_key, number_format, last_number, uploaded_at`

func scanTemplate(row interface{ Scan(...any) error }) (*model.Template, error) {
	var t model.Template
	if err := row.Scan(
		&t.ID,
		&t.Name,
		&t.OriginalFile,
		&t.StorageKey,
		&t.NumberFormat,
		&t.LastNumber,
		&t.UploadedAt,
	); err != nil {
		return nil, err
	}
	return &t, nil
}

// Create inserts a new template row and returns the stored record.
func (r *TemplatePostgres) Create(ctx context.Context, t *model.Template) (*model.Template, error) {
	const q = `
		INSERT INTO templates (id, name, original_file, storage_key, number_format, last_number, uploaded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + templateColumns
	row := r.db.QueryRowContext(ctx, q,
		t.ID,
		t.Name,
		t.OriginalFile,
		t.StorageKey,
		t.NumberFormat,
		t.LastNumber,
		t.UploadedAt,
	)
	return scanTemplate(row)
}

// FindByID fetches a single template by its ID.
func (r *TemplatePostgres) FindByID(ctx context.Context, id string) (*model.Template, error) {
	const q = `SELECT ` + templateColumns + ` FROM templates WHERE id = $1`
	return scanTemplate(r.db.QueryRowContext(ctx, q, id))
}

// List returns all templates, most recently uploaded first.
func (r *TemplatePostgres) List(ctx context.Context) ([]model.Template, error) {
	const q = `SELECT ` + templateColumns + ` FROM templates ORDER BY uploaded_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Template, 0)
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *t)
	}
	return items, rows.Err()
}

// Delete removes a template by ID. It does not return an error if the row
// does not exist.
func (r *TemplatePostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM templates WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	_, _ = res.RowsAffected()
	return nil
}

// UpdateNumbering sets the number format pattern and counter for a template.
func (r *TemplatePostgres) UpdateNumbering(ctx context.Context, id, format string, lastNumber int64) error {
	const q = `UPDATE templates SET number_format = $2, last_number = $3 WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id, format, lastNumber)
	return err
}

// IncrementCounter bumps the counter by one in a single statement, so the
// increment itself is atomic at the row level.
func (r *TemplatePostgres) IncrementCounter(ctx context.Context, id string) error {
	const q = `UPDATE templates SET last_number = last_number + 1 WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id)
	return err
}
