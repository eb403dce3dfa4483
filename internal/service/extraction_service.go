package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"receipt-rewards/internal/metrics"
	"receipt-rewards/internal/models"
	"receipt-rewards/internal/receipt"
	"receipt-rewards/pkg/config"
	"receipt-rewards/pkg/ocr"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

// PDFReader reads the text layer of a PDF and rasterizes it for OCR.
type PDFReader interface {
	TextLayer(data []byte) (string, int, error)
	RenderPages(data []byte) ([][]byte, error)
}

// ExtractionService turns uploaded files into raw receipt text. At most
// MaxConcurrent extractions run at once; each one is bounded by Timeout.
type ExtractionService struct {
	recognizer       ocr.Recognizer
	pdf              PDFReader
	pool             *semaphore.Weighted
	timeout          time.Duration
	minPDFTextLength int
	minOCRConfidence float64
	metrics          *metrics.Metrics
	logger           *zap.Logger
}

func NewExtractionService(recognizer ocr.Recognizer, pdf PDFReader, cfg *config.ExtractionConfig, m *metrics.Metrics, logger *zap.Logger) *ExtractionService {
	workers := cfg.MaxConcurrent
	if workers < 1 {
		workers = 1
	}
	return &ExtractionService{
		recognizer:       recognizer,
		pdf:              pdf,
		pool:             semaphore.NewWeighted(workers),
		timeout:          cfg.Timeout,
		minPDFTextLength: cfg.MinPDFTextLength,
		minOCRConfidence: cfg.MinOCRConfidence,
		metrics:          m,
		logger:           logger,
	}
}

// DetectKind classifies an upload by its content, falling back to the file
// extension for plain text.
func DetectKind(fileName string, data []byte) (models.FileKind, error) {
	contentType := http.DetectContentType(data)
	switch {
	case contentType == "application/pdf":
		return models.FileKindPDF, nil
	case strings.HasPrefix(contentType, "image/"):
		return models.FileKindImage, nil
	case strings.HasPrefix(contentType, "text/plain"):
		return models.FileKindText, nil
	}

	if strings.ToLower(filepath.Ext(fileName)) == ".txt" {
		return models.FileKindText, nil
	}
	return "", fmt.Errorf("%w: %s", ocr.ErrUnsupported, contentType)
}

type extraction struct {
	text receipt.ExtractedText
	err  error
}

// Extract acquires the text of one file. Every failure, including a timeout
// or a full worker pool, is a *receipt.SubmissionError of kind
// extraction-failed.
func (s *ExtractionService) Extract(ctx context.Context, kind models.FileKind, data []byte) (receipt.ExtractedText, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	if err := s.pool.Acquire(ctx, 1); err != nil {
		s.observe(kind, "queue-timeout", start)
		return receipt.ExtractedText{}, receipt.ExtractionFailed("timed out waiting for a free extraction worker", err)
	}

	// The worker keeps its slot until the backend returns, even after the
	// caller gave up; OCR calls cannot be interrupted.
	done := make(chan extraction, 1)
	go func() {
		defer s.pool.Release(1)
		defer s.metrics.ExtractionStarted()()

		text, err := s.extract(ctx, kind, data)
		done <- extraction{text: text, err: err}
	}()

	select {
	case <-ctx.Done():
		s.observe(kind, "timeout", start)
		return receipt.ExtractedText{}, receipt.ExtractionFailed("text extraction timed out", ctx.Err())
	case res := <-done:
		if res.err != nil {
			s.observe(kind, "error", start)
			s.logger.Warn("Extraction failed",
				zap.String("file_kind", string(kind)),
				zap.Strings("attempts", res.text.Attempts),
				zap.Error(res.err),
			)
			return res.text, res.err
		}
		s.observe(kind, "ok", start)
		s.logger.Info("Extraction completed",
			zap.String("file_kind", string(kind)),
			zap.String("source", string(res.text.Source)),
			zap.Int("text_length", len(res.text.Text)),
			zap.Float64("confidence", res.text.Confidence),
			zap.Duration("elapsed", time.Since(start)),
		)
		return res.text, nil
	}
}

func (s *ExtractionService) observe(kind models.FileKind, status string, start time.Time) {
	s.metrics.ObserveExtraction(string(kind), status, time.Since(start))
}

func (s *ExtractionService) extract(ctx context.Context, kind models.FileKind, data []byte) (receipt.ExtractedText, error) {
	switch kind {
	case models.FileKindImage:
		return s.extractImage(ctx, data)
	case models.FileKindPDF:
		return s.extractPDF(ctx, data)
	case models.FileKindText:
		return extractPlain(data)
	default:
		return receipt.ExtractedText{}, receipt.ExtractionFailed("unsupported file type", ocr.ErrUnsupported)
	}
}

func (s *ExtractionService) imageSource() receipt.Source {
	if s.recognizer.Name() == "tesseract" {
		return receipt.SourceOCR
	}
	return receipt.SourceVision
}

func (s *ExtractionService) extractImage(ctx context.Context, data []byte) (receipt.ExtractedText, error) {
	attempt := s.recognizer.Name()
	res, err := s.recognizer.Recognize(ctx, data)
	if err != nil {
		return receipt.ExtractedText{Attempts: []string{attempt + "-error: " + err.Error()}},
			receipt.ExtractionFailed("could not read text from the image", err)
	}

	text := sanitizeText(strings.TrimSpace(res.Text))
	if text == "" {
		return receipt.ExtractedText{Attempts: []string{attempt + "-empty"}},
			receipt.ExtractionFailed("no text was recognized in the image", ocr.ErrNoText)
	}

	return receipt.ExtractedText{
		Text:       text,
		Source:     s.imageSource(),
		Confidence: res.Confidence,
		Pages:      1,
		Attempts:   []string{attempt},
	}, nil
}

// extractPDF prefers the embedded text layer and falls back to OCR of the
// rendered pages when the layer is missing or unreadable. When OCR also
// fails, an existing text layer is still returned so the corruption
// classifier can explain what is wrong with it.
func (s *ExtractionService) extractPDF(ctx context.Context, data []byte) (receipt.ExtractedText, error) {
	var attempts []string

	layer, pages, err := s.pdf.TextLayer(data)
	if err != nil {
		if errors.Is(err, ocr.ErrInvalidPDF) {
			return receipt.ExtractedText{Attempts: []string{"pdf-open-error"}},
				receipt.ExtractionFailed("the PDF could not be opened", err)
		}
		attempts = append(attempts, "pdf-text-error: "+err.Error())
	}
	layer = sanitizeText(layer)

	switch {
	case layer == "":
		attempts = append(attempts, "pdf-text-empty")
	case len(layer) >= s.minPDFTextLength && receipt.Classify(layer).Usable:
		return receipt.ExtractedText{
			Text:     layer,
			Source:   receipt.SourcePDFText,
			Pages:    pages,
			Attempts: append(attempts, "pdf-text"),
		}, nil
	default:
		attempts = append(attempts, "pdf-text-unreadable")
	}

	text, confidence, ocrErr := s.ocrPages(ctx, data)
	if ocrErr != nil {
		attempts = append(attempts, "pdf-ocr-error: "+ocrErr.Error())
	} else if text != "" && (s.trustOCR(text, confidence) || layer == "") {
		return receipt.ExtractedText{
			Text:       text,
			Source:     receipt.SourcePDFOCR,
			Confidence: confidence,
			Pages:      pages,
			Attempts:   append(attempts, "pdf-ocr"),
		}, nil
	} else {
		attempts = append(attempts, fmt.Sprintf("pdf-ocr-low-confidence: %.2f", confidence))
	}

	if layer != "" {
		return receipt.ExtractedText{
			Text:     layer,
			Source:   receipt.SourcePDFText,
			Pages:    pages,
			Attempts: attempts,
		}, nil
	}

	return receipt.ExtractedText{Attempts: attempts},
		receipt.ExtractionFailed("no text could be extracted from the PDF ("+strings.Join(attempts, "; ")+")", ocr.ErrNoText)
}

// trustOCR decides whether OCR text replaces an unreadable text layer. A
// zero confidence means the backend reports none, so the text itself has to
// pass the usability check.
func (s *ExtractionService) trustOCR(text string, confidence float64) bool {
	if confidence == 0 {
		return receipt.Classify(text).Usable
	}
	return confidence >= s.minOCRConfidence
}

// ocrPages recognizes every rendered page and averages the confidences of
// pages that produced text.
func (s *ExtractionService) ocrPages(ctx context.Context, data []byte) (string, float64, error) {
	images, err := s.pdf.RenderPages(data)
	if err != nil {
		return "", 0, err
	}

	var (
		texts      []string
		confidence float64
	)
	for i, img := range images {
		res, err := s.recognizer.Recognize(ctx, img)
		if err != nil {
			if ctx.Err() != nil {
				return "", 0, ctx.Err()
			}
			s.logger.Warn("Page OCR failed", zap.Int("page", i+1), zap.Error(err))
			continue
		}
		if t := strings.TrimSpace(res.Text); t != "" {
			texts = append(texts, t)
			confidence += res.Confidence
		}
	}

	if len(texts) == 0 {
		return "", 0, ocr.ErrNoText
	}
	return sanitizeText(strings.Join(texts, "\n")), confidence / float64(len(texts)), nil
}

func extractPlain(data []byte) (receipt.ExtractedText, error) {
	text := strings.TrimSpace(sanitizeText(string(data)))
	if text == "" {
		return receipt.ExtractedText{Attempts: []string{"plain-text-empty"}},
			receipt.ExtractionFailed("the text file is empty", ocr.ErrNoText)
	}
	return receipt.ExtractedText{
		Text:     text,
		Source:   receipt.SourcePlain,
		Pages:    1,
		Attempts: []string{"plain-text"},
	}, nil
}
