package model

import "time"

// ManualTemplateID is the sentinel template reference for letters archived by
// hand, outside template-based generation.
const ManualTemplateID = "manual"

// Letter is one generated or manually archived output document record.
// Its ID is time-derived and doubles as the public verification token.
// Letters are created once and deleted explicitly; never mutated in between.
type Letter struct {
	ID         string    `json:"id"`
	TemplateID string    `json:"template_id"`
	LetterType string    `json:"letter_type"`
	Applicant  string    `json:"applicant"`
	Number     string    `json:"number"`
	IssuedAt   string    `json:"issued_at"` // id-ID locale display form, e.g. "2/1/2026, 15.04.05"
	Filename   string    `json:"filename"`
	StorageKey string    `json:"storage_key"`
	CreatedAt  time.Time `json:"created_at"`
}
