package model

import "time"

// Template is an uploaded letter package plus its numbering configuration.
// This is a pure domain model with no database-specific dependencies or tags.
// The counter (LastNumber) is owned exclusively by the template it belongs to.
type Template struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	OriginalFile string    `json:"original_file"`
	StorageKey   string    `json:"storage_key"`
	NumberFormat string    `json:"number_format"`
	LastNumber   int64     `json:"last_number"`
	UploadedAt   time.Time `json:"uploaded_at"`
}
