package repository

import (
	"context"

	"suratapi/internal/model"
)

// TemplateRepository defines data access for letter templates using SQL
// queries only. No business logic here, strictly persistence operations.
type TemplateRepository interface {
	// Create inserts a new template record and returns the stored row.
	Create(ctx context.Context, t *model.Template) (*model.Template, error)

	// FindByID returns a template by its ID.
	FindByID(ctx context.Context, id string) (*model.Template, error)

	// List returns all templates, most recently uploaded first.
	List(ctx context.Context) ([]model.Template, error)

	// Delete removes a template by ID. It returns nil if the row was deleted
	// or did not exist.
	Delete(ctx context.Context, id string) error

	// UpdateNumbering sets a template's number format pattern and counter.
	UpdateNumbering(ctx context.Context, id, format string, lastNumber int64) error

	// IncrementCounter bumps a template's counter by exactly one. The counter
	// is monotonically non-decreasing and owned by this template alone.
	IncrementCounter(ctx context.Context, id string) error
}
