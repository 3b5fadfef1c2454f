package postgres

import (
	"context"
	"database/sql"
	"time"

	"suratapi/internal/model"
	"suratapi/internal/repository"
)

// LetterPostgres is a PostgreSQL implementation of repository.LetterRepository.
type LetterPostgres struct {
	db *sql.DB
}

// NewLetterPostgres creates a new LetterPostgres repository.
func NewLetterPostgres(db *sql.DB) *LetterPostgres {
	return &LetterPostgres{db: db}
}

var _ repository.LetterRepository = (*LetterPostgres)(nil)

const letterColumns = `id, template_id, letter_type, applicant, number, issued_at, filename, storage_key, created_at`

func scanLetter(row interface{ Scan(...any) error }) (*model.Letter, error) {
	var l model.Letter
	if err := row.Scan(
		&l.ID,
		&l.TemplateID,
		&l.LetterType,
		&l.Applicant,
		&l.Number,
		&l.IssuedAt,
		&l.Filename,
		&l.StorageKey,
		&l.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &l, nil
}

// Create appends a letter row and returns the stored record.
func (r *LetterPostgres) Create(ctx context.Context, l *model.Letter) (*model.Letter, error) {
	const q = `
		INSERT INTO letters (id, template_id, letter_type, applicant, number, issued_at, filename, storage_key, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + letterColumns
	row := r.db.QueryRowContext(ctx, q,
		l.ID,
		l.TemplateID,
		l.LetterType,
		l.Applicant,
		l.Number,
		l.IssuedAt,
		l.Filename,
		l.StorageKey,
		l.CreatedAt,
	)
	return scanLetter(row)
}

// FindByID fetches a single letter by its ID.
func (r *LetterPostgres) FindByID(ctx context.Context, id string) (*model.Letter, error) {
	const q = `SELECT ` + letterColumns + ` FROM letters WHERE id = $1`
	return scanLetter(r.db.QueryRowContext(ctx, q, id))
}

// List returns letters most-recent-first using LIMIT/OFFSET pagination and a
// total count.
func (r *LetterPostgres) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.Letter], error) {
	const qCount = `SELECT COUNT(*) FROM letters`
	var total int
	if err := r.db.QueryRowContext(ctx, qCount).Scan(&total); err != nil {
		return nil, err
	}

	const qList = `
		SELECT ` + letterColumns + `
		FROM letters
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.QueryContext(ctx, qList, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Letter, 0)
	for rows.Next() {
		l, err := scanLetter(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.Letter]{Items: items, Total: total}, nil
}

// Delete removes a letter by ID. It does not return an error if the row does
// not exist.
func (r *LetterPostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM letters WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	_, _ = res.RowsAffected()
	return nil
}

// Search matches letter type, applicant, or number case-insensitively.
func (r *LetterPostgres) Search(ctx context.Context, q string, limit int) ([]model.Letter, error) {
	const qSearch = `
		SELECT ` + letterColumns + `
		FROM letters
		WHERE letter_type ILIKE $1 OR applicant ILIKE $1 OR number ILIKE $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`
	rows, err := r.db.QueryContext(ctx, qSearch, "%"+q+"%", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Letter, 0)
	for rows.Next() {
		l, err := scanLetter(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *l)
	}
	return items, rows.Err()
}

// CountByMonth groups letter volume per calendar month since the given time.
func (r *LetterPostgres) CountByMonth(ctx context.Context, since time.Time) ([]repository.MonthCount, error) {
	const q = `
		SELECT EXTRACT(YEAR FROM created_at)::int, EXTRACT(MONTH FROM created_at)::int, COUNT(*)
		FROM letters
		WHERE created_at >= $1
		GROUP BY 1, 2
		ORDER BY 1, 2
	`
	rows, err := r.db.QueryContext(ctx, q, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make([]repository.MonthCount, 0)
	for rows.Next() {
		var year, month, count int
		if err := rows.Scan(&year, &month, &count); err != nil {
			return nil, err
		}
		counts = append(counts, repository.MonthCount{Year: year, Month: time.Month(month), Count: count})
	}
	return counts, rows.Err()
}

// CountByType groups the whole archive by letter type.
func (r *LetterPostgres) CountByType(ctx context.Context) (map[string]int, error) {
	const q = `SELECT letter_type, COUNT(*) FROM letters GROUP BY letter_type`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var typ string
		var count int
		if err := rows.Scan(&typ, &count); err != nil {
			return nil, err
		}
		counts[typ] = count
	}
	return counts, rows.Err()
}
