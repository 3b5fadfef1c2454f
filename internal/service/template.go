package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"suratapi/internal/docx"
	"suratapi/internal/form"
	"suratapi/internal/model"
	"suratapi/internal/repository"
	"suratapi/internal/sequence"
	"suratapi/internal/storage"
)

var (
	ErrIDRequired       = errors.New("id is required")
	ErrReaderNil        = errors.New("reader is nil")
	ErrTemplateNotFound = errors.New("template not found")
	ErrNoFieldsFound    = errors.New("no tags found in template")
)

// FormSpec is the renderable input form for one template: the classified
// fields plus the candidate next document number.
type FormSpec struct {
	Template *model.Template `json:"template"`
	Number   string          `json:"number"`
	Fields   []form.Field    `json:"fields"`
}

// TemplateService defines the use cases for managing letter templates.
type TemplateService interface {
	// Upload stores the template file in object storage and saves its record
	// with the default numbering pattern. Storage is rolled back if the DB
	// save fails.
	Upload(ctx context.Context, r io.Reader, originalFilename string, size int64) (*model.Template, error)

	// List returns all templates, most recently uploaded first.
	List(ctx context.Context) ([]model.Template, error)

	// Get returns a single template by its ID.
	Get(ctx context.Context, id string) (*model.Template, error)

	// Delete removes a template from both storage and the repository.
	Delete(ctx context.Context, id string) error

	// Fields reads the stored template, extracts its tags, and builds the
	// input form. The number field is pre-filled with the candidate next
	// document number, which is not reserved until a letter is generated.
	Fields(ctx context.Context, id string) (*FormSpec, error)

	// UpdateNumbering sets a template's number format pattern and counter.
	UpdateNumbering(ctx context.Context, id, format string, lastNumber int64) error

	// Search matches templates whose name contains q, case-insensitively.
	Search(ctx context.Context, q string) ([]model.Template, error)
}

type templateService struct {
	store storage.Storage
	repo  repository.TemplateRepository
	now   func() time.Time
}

// NewTemplateService constructs a new TemplateService.
func NewTemplateService(store storage.Storage, repo repository.TemplateRepository) TemplateService {
	return &templateService{store: store, repo: repo, now: time.Now}
}

func (s *templateService) Upload(ctx context.Context, r io.Reader, originalFilename string, size int64) (*model.Template, error) {
	if r == nil {
		return nil, ErrReaderNil
	}
	id := uuid.New().String()
	key := filepath.ToSlash(filepath.Join("templates", id+".docx"))

	_, err := s.store.Put(ctx, key, r, storage.PutObjectOptions{
		Size:        size,
		ContentType: storage.ContentTypeDocx,
		Metadata: map[string]string{
			"original-filename": originalFilename,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("upload to storage: %w", err)
	}

	name := originalFilename
	if ext := filepath.Ext(name); ext != "" {
		name = name[:len(name)-len(ext)]
	}
	tpl := &model.Template{
		ID:           id,
		Name:         name,
		OriginalFile: originalFilename,
		StorageKey:   key,
		NumberFormat: sequence.DefaultPattern,
		LastNumber:   0,
		UploadedAt:   s.now().UTC(),
	}
	stored, err := s.repo.Create(ctx, tpl)
	if err != nil {
		// Rollback: delete the object from storage
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			return nil, fmt.Errorf("db save failed: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("db save failed: %w", err)
	}
	return stored, nil
}

func (s *templateService) List(ctx context.Context) ([]model.Template, error) {
	return s.repo.List(ctx)
}

func (s *templateService) Get(ctx context.Context, id string) (*model.Template, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	tpl, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTemplateNotFound
		}
		return nil, err
	}
	return tpl, nil
}

// Delete removes the template file from storage, then deletes its record.
// Letters already generated from the template keep their archive rows.
func (s *templateService) Delete(ctx context.Context, id string) error {
	tpl, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, tpl.StorageKey); err != nil {
		return fmt.Errorf("delete storage: %w", err)
	}
	return s.repo.Delete(ctx, id)
}

func (s *templateService) Fields(ctx context.Context, id string) (*FormSpec, error) {
	tpl, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	obj, _, err := s.store.Get(ctx, tpl.StorageKey)
	if err != nil {
		return nil, fmt.Errorf("fetch template file: %w", err)
	}
	defer obj.Close()
	pkg, err := io.ReadAll(obj)
	if err != nil {
		return nil, fmt.Errorf("read template file: %w", err)
	}

	tags := docx.ExtractTags(pkg)
	number, _ := sequence.Format(tpl.NumberFormat, tpl.LastNumber, s.now())

	fields := make([]form.Field, 0, len(tags))
	for _, tag := range tags {
		if tag == docx.QRTag {
			// Resolved automatically at merge time, never shown as an input.
			continue
		}
		fields = append(fields, form.FieldFor(tag, number))
	}
	if len(fields) == 0 {
		return nil, ErrNoFieldsFound
	}
	return &FormSpec{Template: tpl, Number: number, Fields: fields}, nil
}

func (s *templateService) UpdateNumbering(ctx context.Context, id, format string, lastNumber int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if format == "" {
		format = sequence.DefaultPattern
	}
	if lastNumber < 0 {
		lastNumber = 0
	}
	return s.repo.UpdateNumbering(ctx, id, format, lastNumber)
}

// Search filters the full template list in memory; the catalog stays small
// enough that a dedicated query is not worth it.
func (s *templateService) Search(ctx context.Context, q string) ([]model.Template, error) {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return []model.Template{}, nil
	}
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	matched := make([]model.Template, 0, len(all))
	for _, tpl := range all {
		if strings.Contains(strings.ToLower(tpl.Name), q) {
			matched = append(matched, tpl)
		}
	}
	return matched, nil
}
