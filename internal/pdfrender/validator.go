package pdfrender

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotFound reports a missing input PDF. Callers treat this as a warning
// rather than a fatal error, since the sample PDF is optional.
var ErrNotFound = errors.New("pdf file not found")

// DPI bounds accepted by the renderer.
const (
	MinDPI = 36
	MaxDPI = 600
)

// Validator provides input validation for PDF rendering.
type Validator struct{}

// NewValidator creates a new validator instance.
func NewValidator() *Validator {
	return &Validator{}
}

// ValidatePDFPath validates that a file path is valid and points to a PDF.
func (v *Validator) ValidatePDFPath(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("file path cannot be empty")
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return fmt.Errorf("cannot access file %s: %w", path, err)
	}

	if info.IsDir() {
		return fmt.Errorf("path is a directory, not a file: %s", path)
	}

	if ext := strings.ToLower(filepath.Ext(path)); ext != ".pdf" {
		return fmt.Errorf("file is not a PDF (has extension %q): %s", ext, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("cannot open file %s: %w", path, err)
	}
	f.Close()

	return nil
}

// ValidateDPI validates the rasterization resolution.
func (v *Validator) ValidateDPI(dpi float64) error {
	if dpi < MinDPI || dpi > MaxDPI {
		return fmt.Errorf("dpi must be between %d and %d, got %g", MinDPI, MaxDPI, dpi)
	}
	return nil
}
