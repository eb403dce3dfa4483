// Package ocr turns receipt images and PDFs into raw text.
package ocr

import (
	"context"
	"errors"
)

var (
	ErrNoText        = errors.New("no text recognized")
	ErrUnsupported   = errors.New("unsupported file format")
	ErrInvalidImage  = errors.New("invalid image")
	ErrInvalidPDF    = errors.New("invalid pdf")
	ErrVisionRefusal = errors.New("vision model refused the request")
)

// Result is the text recognized in one image.
type Result struct {
	Text       string
	Confidence float64 // 0..1; 0 when the backend does not report one
}

// Recognizer extracts text from an encoded image.
type Recognizer interface {
	Recognize(ctx context.Context, image []byte) (Result, error)
	Name() string
}
