package service

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"suratapi/internal/docx"
	"suratapi/internal/model"
	"suratapi/internal/pdf"
	"suratapi/internal/qr"
	"suratapi/internal/repository"
	"suratapi/internal/sequence"
	"suratapi/internal/storage"
)

// ErrNotFound is returned when a letter ID resolves to no archive record.
var ErrNotFound = errors.New("letter not found")

const (
	searchLimit  = 20
	statsMonths  = 6
	applicantDef = "Warga"
)

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9]`)

// GenerateInput carries one letter generation request.
type GenerateInput struct {
	TemplateID string
	LetterType string
	Values     map[string]string
}

// ArchiveInput carries a manually archived letter: a finished file plus the
// ledger metadata an operator typed in.
type ArchiveInput struct {
	LetterType string
	Applicant  string
	Number     string
}

// LetterListResult is the service-level DTO for paginated archive rows.
type LetterListResult struct {
	Items []model.Letter `json:"data"`
	Total int            `json:"total"`
}

// MonthlyCount is one month's letter volume keyed as "YYYY-MM".
type MonthlyCount struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

// Stats summarizes the archive for the dashboard.
type Stats struct {
	Total   int            `json:"total"`
	Monthly []MonthlyCount `json:"monthly"`
	ByType  map[string]int `json:"by_type"`
}

// LetterService defines the use cases around issued letters: generation from
// templates, manual archiving, verification lookups, and archive queries.
type LetterService interface {
	// Generate merges submitted values into a template, assigns the document
	// number, stores the result, and appends the archive record. Generations
	// against the same template are serialized so numbers stay sequential.
	Generate(ctx context.Context, in GenerateInput) (*model.Letter, error)

	// Archive stores an externally produced file and records it in the ledger
	// without consuming any template counter.
	Archive(ctx context.Context, r io.Reader, size int64, in ArchiveInput) (*model.Letter, error)

	// List returns archive rows most-recent-first with a total count.
	List(ctx context.Context, limit, offset int) (*LetterListResult, error)

	// Get returns a single letter by its ID, which doubles as the
	// verification token printed into the QR code.
	Get(ctx context.Context, id string) (*model.Letter, error)

	// Delete removes a letter's file, its QR image, and its archive record.
	Delete(ctx context.Context, id string) error

	// Download streams the stored letter file.
	Download(ctx context.Context, id string) (io.ReadCloser, *model.Letter, error)

	// RenderPDF converts the stored letter to PDF. It fails with
	// pdf.ErrUnavailable when no converter is installed.
	RenderPDF(ctx context.Context, id string) ([]byte, *model.Letter, error)

	// Search matches archive rows on type, applicant, or number.
	Search(ctx context.Context, q string) ([]model.Letter, error)

	// Stats returns archive volume for the last six months plus per-type
	// totals.
	Stats(ctx context.Context) (*Stats, error)
}

type letterService struct {
	store     storage.Storage
	letters   repository.LetterRepository
	templates repository.TemplateRepository
	settings  repository.SettingsRepository
	converter pdf.Converter
	baseURL   string
	now       func() time.Time

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewLetterService constructs a new LetterService. baseURL is the public
// address verification links are built against; converter may be nil when no
// PDF backend is available.
func NewLetterService(
	store storage.Storage,
	letters repository.LetterRepository,
	templates repository.TemplateRepository,
	settings repository.SettingsRepository,
	converter pdf.Converter,
	baseURL string,
) LetterService {
	return &letterService{
		store:     store,
		letters:   letters,
		templates: templates,
		settings:  settings,
		converter: converter,
		baseURL:   baseURL,
		now:       time.Now,
		locks:     make(map[string]*sync.Mutex),
	}
}

// templateLock returns the mutex serializing generations for one template.
func (s *letterService) templateLock(templateID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.locks == nil {
		s.locks = make(map[string]*sync.Mutex)
	}
	l, ok := s.locks[templateID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[templateID] = l
	}
	return l
}

func (s *letterService) Generate(ctx context.Context, in GenerateInput) (*model.Letter, error) {
	if in.TemplateID == "" {
		return nil, ErrIDRequired
	}

	// Hold the template lock across read-counter, merge, and
	// persist-increment so concurrent requests cannot reuse a number.
	lock := s.templateLock(in.TemplateID)
	lock.Lock()
	defer lock.Unlock()

	tpl, err := s.templates.FindByID(ctx, in.TemplateID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTemplateNotFound
		}
		return nil, err
	}

	obj, _, err := s.store.Get(ctx, tpl.StorageKey)
	if err != nil {
		return nil, fmt.Errorf("fetch template file: %w", err)
	}
	pkg, err := io.ReadAll(obj)
	obj.Close()
	if err != nil {
		return nil, fmt.Errorf("read template file: %w", err)
	}

	issuedAt := s.now()
	number := submittedNumber(in.Values)
	if number == "" {
		number, _ = sequence.Format(tpl.NumberFormat, tpl.LastNumber, issuedAt)
	}
	letterID := strconv.FormatInt(issuedAt.UnixMilli(), 10)

	img, err := s.verificationImage(ctx, letterID)
	if err != nil {
		// The letter is still issued without a code; verification by ID
		// keeps working.
		log.Printf("letter %s: qr generation skipped: %v", letterID, err)
		img = nil
	}

	merged, err := docx.Merge(pkg, in.Values, img)
	if err != nil {
		return nil, err
	}

	// The counter advances as soon as a number is consumed, even when the
	// operator overrode the number field, matching how a paper ledger is
	// kept. A failure past this point skips a number; it never reuses one.
	if err := s.templates.IncrementCounter(ctx, tpl.ID); err != nil {
		return nil, fmt.Errorf("advance counter: %w", err)
	}

	letterType := in.LetterType
	if letterType == "" {
		letterType = tpl.Name
	}
	applicant := applicantName(in.Values)
	filename := letterFilename("Surat", applicant, letterID)
	key := filepath.ToSlash(filepath.Join("letters", filename))
	if _, err := s.store.Put(ctx, key, bytes.NewReader(merged), storage.PutObjectOptions{
		Size:        int64(len(merged)),
		ContentType: storage.ContentTypeDocx,
	}); err != nil {
		return nil, fmt.Errorf("store letter: %w", err)
	}

	letter := &model.Letter{
		ID:         letterID,
		TemplateID: tpl.ID,
		LetterType: letterType,
		Applicant:  applicant,
		Number:     number,
		IssuedAt:   formatIssuedAt(issuedAt),
		Filename:   filename,
		StorageKey: key,
		CreatedAt:  issuedAt.UTC(),
	}
	stored, err := s.letters.Create(ctx, letter)
	if err != nil {
		// The stored object is left in place so the file can still be
		// recovered and re-registered by hand.
		log.Printf("letter %s: record save failed, object %s orphaned: %v", letterID, key, err)
		return nil, fmt.Errorf("save letter record: %w", err)
	}
	return stored, nil
}

// verificationImage renders and stores the QR code for a letter when QR is
// enabled in settings. A nil image with nil error means QR is turned off.
func (s *letterService) verificationImage(ctx context.Context, letterID string) (*docx.ImageRef, error) {
	cfg, err := s.settings.Get(ctx)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("load settings: %w", err)
		}
		def := model.DefaultSettings()
		cfg = &def
	}
	if !cfg.QREnabled {
		return nil, nil
	}
	png, err := qr.Render(qr.VerifyURL(s.baseURL, letterID), qr.ImageSize)
	if err != nil {
		return nil, err
	}
	key := filepath.ToSlash(filepath.Join("qr", letterID+".png"))
	if _, err := s.store.Put(ctx, key, bytes.NewReader(png), storage.PutObjectOptions{
		Size:        int64(len(png)),
		ContentType: storage.ContentTypePNG,
	}); err != nil {
		// The embedded copy in the document is the one that matters.
		log.Printf("letter %s: qr object save failed: %v", letterID, err)
	}
	return &docx.ImageRef{PNG: png}, nil
}

func (s *letterService) Archive(ctx context.Context, r io.Reader, size int64, in ArchiveInput) (*model.Letter, error) {
	if r == nil {
		return nil, ErrReaderNil
	}
	archivedAt := s.now()
	letterID := strconv.FormatInt(archivedAt.UnixMilli(), 10)
	applicant := in.Applicant
	if applicant == "" {
		applicant = applicantDef
	}
	filename := letterFilename("Arsip", applicant, letterID)
	key := filepath.ToSlash(filepath.Join("letters", filename))

	if _, err := s.store.Put(ctx, key, r, storage.PutObjectOptions{
		Size:        size,
		ContentType: storage.ContentTypeDocx,
	}); err != nil {
		return nil, fmt.Errorf("upload to storage: %w", err)
	}
	letter := &model.Letter{
		ID:         letterID,
		TemplateID: model.ManualTemplateID,
		LetterType: in.LetterType,
		Applicant:  applicant,
		Number:     in.Number,
		IssuedAt:   formatIssuedAt(archivedAt),
		Filename:   filename,
		StorageKey: key,
		CreatedAt:  archivedAt.UTC(),
	}
	stored, err := s.letters.Create(ctx, letter)
	if err != nil {
		// Rollback: delete the object from storage
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			return nil, fmt.Errorf("db save failed: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("db save failed: %w", err)
	}
	return stored, nil
}

func (s *letterService) List(ctx context.Context, limit, offset int) (*LetterListResult, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}
	res, err := s.letters.List(ctx, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &LetterListResult{Items: res.Items, Total: res.Total}, nil
}

func (s *letterService) Get(ctx context.Context, id string) (*model.Letter, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	letter, err := s.letters.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return letter, nil
}

func (s *letterService) Delete(ctx context.Context, id string) error {
	letter, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, letter.StorageKey); err != nil {
		return fmt.Errorf("delete storage: %w", err)
	}
	// QR image may not exist for letters issued with QR disabled.
	if err := s.store.Delete(ctx, filepath.ToSlash(filepath.Join("qr", letter.ID+".png"))); err != nil {
		log.Printf("letter %s: qr object delete failed: %v", letter.ID, err)
	}
	return s.letters.Delete(ctx, id)
}

func (s *letterService) Download(ctx context.Context, id string) (io.ReadCloser, *model.Letter, error) {
	letter, err := s.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	obj, _, err := s.store.Get(ctx, letter.StorageKey)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch letter file: %w", err)
	}
	return obj, letter, nil
}

func (s *letterService) RenderPDF(ctx context.Context, id string) ([]byte, *model.Letter, error) {
	if s.converter == nil {
		return nil, nil, pdf.ErrUnavailable
	}
	obj, letter, err := s.Download(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	defer obj.Close()
	doc, err := io.ReadAll(obj)
	if err != nil {
		return nil, nil, fmt.Errorf("read letter file: %w", err)
	}
	rendered, err := s.converter.Convert(ctx, doc)
	if err != nil {
		return nil, nil, err
	}
	return rendered, letter, nil
}

func (s *letterService) Search(ctx context.Context, q string) ([]model.Letter, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return []model.Letter{}, nil
	}
	return s.letters.Search(ctx, q, searchLimit)
}

func (s *letterService) Stats(ctx context.Context) (*Stats, error) {
	now := s.now()
	since := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -(statsMonths - 1), 0)
	counts, err := s.letters.CountByMonth(ctx, since)
	if err != nil {
		return nil, err
	}
	byMonth := make(map[string]int, len(counts))
	for _, c := range counts {
		byMonth[fmt.Sprintf("%04d-%02d", c.Year, c.Month)] = c.Count
	}

	// Every month in the window appears, zero-filled, oldest first.
	monthly := make([]MonthlyCount, 0, statsMonths)
	for i := 0; i < statsMonths; i++ {
		m := since.AddDate(0, i, 0)
		key := fmt.Sprintf("%04d-%02d", m.Year(), m.Month())
		monthly = append(monthly, MonthlyCount{Month: key, Count: byMonth[key]})
	}

	byType, err := s.letters.CountByType(ctx)
	if err != nil {
		return nil, err
	}
	total := 0
	for _, n := range byType {
		total += n
	}
	return &Stats{Total: total, Monthly: monthly, ByType: byType}, nil
}

// submittedNumber picks the document number from the submitted values: the
// first field, in key order, whose name contains "nomor" but not "nik".
func submittedNumber(values map[string]string) string {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		name := strings.ToLower(k)
		if strings.Contains(name, "nomor") && !strings.Contains(name, "nik") {
			return values[k]
		}
	}
	return ""
}

// applicantName resolves the ledger's applicant column from the submitted
// values, falling back to a generic resident label.
func applicantName(values map[string]string) string {
	for _, k := range []string{"NAMA", "NAMA_LENGKAP", "PEMOHON"} {
		if v := values[k]; v != "" {
			return v
		}
	}
	return applicantDef
}

// letterFilename builds "<prefix>_<applicant>_<id-tail>.docx" with the
// applicant name reduced to filesystem-safe characters.
func letterFilename(prefix, applicant, letterID string) string {
	safe := unsafeFilenameChars.ReplaceAllString(applicant, "_")
	tail := letterID
	if len(tail) > 5 {
		tail = tail[len(tail)-5:]
	}
	return prefix + "_" + safe + "_" + tail + ".docx"
}

// formatIssuedAt renders the human-readable issue timestamp shown on
// verification pages, in the d/m/yyyy, hh.mm.ss form used locally.
func formatIssuedAt(t time.Time) string {
	return fmt.Sprintf("%d/%d/%d, %02d.%02d.%02d",
		t.Day(), int(t.Month()), t.Year(), t.Hour(), t.Minute(), t.Second())
}
