// Package pdfrender rasterizes the pages of a sample ECG PDF into PNG images
// using go-fitz (MuPDF).
package pdfrender

import (
	"context"
	"fmt"
	"image/png"
	"os"
	"path/filepath"

	"github.com/gen2brain/go-fitz"
)

// PageImage describes one rasterized page.
type PageImage struct {
	Page   int // 1-based page number
	Path   string
	Width  int
	Height int
}

// Renderer converts PDF pages to images.
type Renderer struct{}

// NewRenderer creates a new renderer instance.
func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render rasterizes every page of the PDF at the given resolution and writes
// PNG files into outputDir, returning the pages in order.
func (r *Renderer) Render(ctx context.Context, pdfPath, outputDir string, dpi float64) ([]PageImage, error) {
	validator := NewValidator()
	if err := validator.ValidatePDFPath(pdfPath); err != nil {
		return nil, err
	}
	if err := validator.ValidateDPI(dpi); err != nil {
		return nil, err
	}

	doc, err := fitz.New(pdfPath)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer doc.Close()

	pageCount := doc.NumPage()
	if pageCount == 0 {
		return nil, fmt.Errorf("pdf has no pages: %s", pdfPath)
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	pages := make([]PageImage, 0, pageCount)
	for pageNum := 0; pageNum < pageCount; pageNum++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		img, err := doc.ImageDPI(pageNum, dpi)
		if err != nil {
			return nil, fmt.Errorf("rasterize page %d: %w", pageNum+1, err)
		}

		outputPath := filepath.Join(outputDir, fmt.Sprintf("page_%03d.png", pageNum+1))
		f, err := os.Create(outputPath)
		if err != nil {
			return nil, fmt.Errorf("create page file %d: %w", pageNum+1, err)
		}
		err = png.Encode(f, img)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("encode page %d: %w", pageNum+1, err)
		}

		bounds := img.Bounds()
		pages = append(pages, PageImage{
			Page:   pageNum + 1,
			Path:   outputPath,
			Width:  bounds.Dx(),
			Height: bounds.Dy(),
		})
	}

	return pages, nil
}
