// Package pdf renders archived letters to PDF through an external converter.
// Conversion is a pure function of the document bytes: it never touches the
// archived record, which stays retrievable in its native form when the
// converter is missing or fails.
package pdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// ErrUnavailable marks a conversion backend that is absent or erroring.
// Handlers translate it to a conversion-unavailable response.
var ErrUnavailable = errors.New("pdf conversion unavailable")

// Converter renders a word-processing document into PDF bytes.
type Converter interface {
	Convert(ctx context.Context, doc []byte) ([]byte, error)
}

// LibreOffice shells out to a soffice binary in headless mode. The call is
// bounded by ctx; each conversion runs in its own scratch directory so
// concurrent conversions do not collide.
type LibreOffice struct {
	Binary string
}

// NewLibreOffice returns a converter using the given binary, defaulting to
// "soffice" on PATH.
func NewLibreOffice(binary string) *LibreOffice {
	if binary == "" {
		binary = "soffice"
	}
	return &LibreOffice{Binary: binary}
}

func (l *LibreOffice) Convert(ctx context.Context, doc []byte) ([]byte, error) {
	dir, err := os.MkdirTemp("", "suratapi-pdf-*")
	if err != nil {
		return nil, fmt.Errorf("scratch dir: %w", err)
	}
	defer os.RemoveAll(dir)

	in := filepath.Join(dir, "letter.docx")
	if err := os.WriteFile(in, doc, 0o600); err != nil {
		return nil, fmt.Errorf("write input: %w", err)
	}

	cmd := exec.CommandContext(ctx, l.Binary, "--headless", "--convert-to", "pdf", "--outdir", dir, in)
	if out, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("%w: %v: %s", ErrUnavailable, err, bytes.TrimSpace(out))
	}

	pdfBytes, err := os.ReadFile(filepath.Join(dir, "letter.pdf"))
	if err != nil {
		return nil, fmt.Errorf("%w: no output produced: %v", ErrUnavailable, err)
	}
	return pdfBytes, nil
}
