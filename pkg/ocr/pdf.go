package ocr

import (
	"fmt"
	"strings"

	"github.com/gen2brain/go-fitz"
)

// PDF reads the text layer of a PDF and rasterizes its pages for OCR.
type PDF struct {
	dpi      float64
	maxPages int
}

func NewPDF(dpi float64, maxPages int) *PDF {
	if dpi <= 0 {
		dpi = 300
	}
	if maxPages <= 0 {
		maxPages = 5
	}
	return &PDF{dpi: dpi, maxPages: maxPages}
}

// TextLayer returns the embedded text of up to maxPages pages, one page per
// block, along with the document's page count.
func (p *PDF) TextLayer(data []byte) (string, int, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return "", 0, fmt.Errorf("%w: %v", ErrInvalidPDF, err)
	}
	defer doc.Close()

	var textBuilder strings.Builder
	pages := min(doc.NumPage(), p.maxPages)
	for i := 0; i < pages; i++ {
		pageText, err := doc.Text(i)
		if err != nil {
			return "", doc.NumPage(), fmt.Errorf("failed to read page %d: %w", i+1, err)
		}
		if pageText = strings.TrimSpace(pageText); pageText != "" {
			textBuilder.WriteString(pageText)
			textBuilder.WriteString("\n")
		}
	}

	return strings.TrimSpace(textBuilder.String()), doc.NumPage(), nil
}

// RenderPages rasterizes up to maxPages pages to PNG.
func (p *PDF) RenderPages(data []byte) ([][]byte, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPDF, err)
	}
	defer doc.Close()

	pages := min(doc.NumPage(), p.maxPages)
	images := make([][]byte, 0, pages)
	for i := 0; i < pages; i++ {
		img, err := doc.ImageDPI(i, p.dpi)
		if err != nil {
			return nil, fmt.Errorf("failed to render page %d: %w", i+1, err)
		}
		encoded, err := EncodePNG(img)
		if err != nil {
			return nil, err
		}
		images = append(images, encoded)
	}
	return images, nil
}
