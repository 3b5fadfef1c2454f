package repository

import (
	"context"
	"time"

	"suratapi/internal/model"
)

// MonthCount is one month's letter volume, used by the archive stats view.
type MonthCount struct {
	Year  int
	Month time.Month
	Count int
}

// LetterRepository defines data access for the archive ledger. The ledger is
// append-only from the generation path; deletion by ID is the only mutation.
type LetterRepository interface {
	// Create appends a letter record and returns the stored row.
	Create(ctx context.Context, l *model.Letter) (*model.Letter, error)

	// FindByID returns a letter by its ID (also the verification token).
	FindByID(ctx context.Context, id string) (*model.Letter, error)

	// List returns letters most-recent-first with a total count.
	List(ctx context.Context, pq PageQuery) (*PageResult[model.Letter], error)

	// Delete removes a letter record by ID. It returns nil if the row was
	// deleted or did not exist.
	Delete(ctx context.Context, id string) error

	// Search matches letters whose type, applicant, or number contains q,
	// case-insensitively, capped at limit rows.
	Search(ctx context.Context, q string, limit int) ([]model.Letter, error)

	// CountByMonth groups letter volume per calendar month since the given
	// time. Months with no letters are absent from the result.
	CountByMonth(ctx context.Context, since time.Time) ([]MonthCount, error)

	// CountByType groups the whole archive by letter type.
	CountByType(ctx context.Context) (map[string]int, error)
}
