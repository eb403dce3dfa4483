package ocr

import (
	"context"
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// Tesseract recognizes text with a local tesseract installation. A client is
// created per call; gosseract clients are not safe for concurrent use.
type Tesseract struct {
	language   string
	preprocess bool
}

func NewTesseract(language string) *Tesseract {
	if language == "" {
		language = "eng"
	}
	return &Tesseract{language: language, preprocess: true}
}

func (t *Tesseract) Name() string {
	return "tesseract"
}

func (t *Tesseract) Recognize(ctx context.Context, image []byte) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	input := image
	if t.preprocess {
		prepared, err := Preprocess(image)
		if err != nil {
			return Result{}, err
		}
		input = prepared
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(t.language); err != nil {
		return Result{}, fmt.Errorf("failed to set tesseract language: %w", err)
	}
	if err := client.SetImageFromBytes(input); err != nil {
		return Result{}, fmt.Errorf("failed to load image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return Result{}, fmt.Errorf("tesseract failed: %w", err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return Result{}, ErrNoText
	}

	return Result{Text: text, Confidence: wordConfidence(client)}, ctx.Err()
}

// wordConfidence averages tesseract's per-word confidence into 0..1.
func wordConfidence(client *gosseract.Client) float64 {
	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil || len(boxes) == 0 {
		return 0
	}
	var sum float64
	for _, b := range boxes {
		sum += b.Confidence
	}
	return sum / float64(len(boxes)) / 100
}
