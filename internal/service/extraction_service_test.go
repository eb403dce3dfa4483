package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"receipt-rewards/internal/metrics"
	"receipt-rewards/internal/models"
	"receipt-rewards/internal/receipt"
	"receipt-rewards/pkg/config"
	"receipt-rewards/pkg/ocr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const goodReceipt = "SHOPRITE BEDFORDVIEW\n15/03/2024 14:22\nBLOEDLEMOEN GIN 750ML 349.99\nTOTAL 349.99"

var corruptedLayer = "Subject: Your order\nFrom: shop\nOrder #12345\n" + strings.Repeat("VGG", 60)

func newTestExtraction(rec ocr.Recognizer, pdf PDFReader, timeout time.Duration) *ExtractionService {
	cfg := &config.ExtractionConfig{
		MaxConcurrent:    2,
		Timeout:          timeout,
		MinPDFTextLength: 50,
		MinOCRConfidence: 0.3,
	}
	return NewExtractionService(rec, pdf, cfg, metrics.New(), zap.NewNop())
}

func TestDetectKind(t *testing.T) {
	tests := []struct {
		name     string
		fileName string
		data     []byte
		want     models.FileKind
		wantErr  bool
	}{
		{name: "png", fileName: "r.png", data: []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), want: models.FileKindImage},
		{name: "jpeg", fileName: "r.jpg", data: []byte("\xff\xd8\xff\xe0\x00\x10JFIF\x00"), want: models.FileKindImage},
		{name: "pdf", fileName: "r.pdf", data: []byte("%PDF-1.7\n%\xe2\xe3\xcf\xd3"), want: models.FileKindPDF},
		{name: "text", fileName: "receipt", data: []byte(goodReceipt), want: models.FileKindText},
		{name: "txt extension", fileName: "email.TXT", data: []byte{0x00, 0x01, 0x02}, want: models.FileKindText},
		{name: "unsupported", fileName: "r.bin", data: []byte{0x00, 0x01, 0x02}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DetectKind(tt.fileName, tt.data)
			if tt.wantErr {
				assert.ErrorIs(t, err, ocr.ErrUnsupported)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtract_Image(t *testing.T) {
	rec := &fakeRecognizer{results: []ocr.Result{{Text: "  " + goodReceipt + "\n", Confidence: 0.82}}}
	s := newTestExtraction(rec, &fakePDF{}, time.Second)

	got, err := s.Extract(context.Background(), models.FileKindImage, []byte("img"))

	require.NoError(t, err)
	assert.Equal(t, goodReceipt, got.Text)
	assert.Equal(t, receipt.SourceOCR, got.Source)
	assert.InDelta(t, 0.82, got.Confidence, 1e-9)
}

func TestExtract_ImageViaVision(t *testing.T) {
	rec := &fakeRecognizer{name: "gigachat-vision", results: []ocr.Result{{Text: goodReceipt}}}
	s := newTestExtraction(rec, &fakePDF{}, time.Second)

	got, err := s.Extract(context.Background(), models.FileKindImage, []byte("img"))

	require.NoError(t, err)
	assert.Equal(t, receipt.SourceVision, got.Source)
}

func TestExtract_ImageFailures(t *testing.T) {
	tests := []struct {
		name string
		rec  *fakeRecognizer
	}{
		{name: "backend error", rec: &fakeRecognizer{err: ocr.ErrInvalidImage}},
		{name: "no text", rec: &fakeRecognizer{results: []ocr.Result{{Text: "   "}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestExtraction(tt.rec, &fakePDF{}, time.Second)

			_, err := s.Extract(context.Background(), models.FileKindImage, []byte("img"))

			se, ok := receipt.AsSubmissionError(err)
			require.True(t, ok)
			assert.Equal(t, receipt.KindExtractionFailed, se.Kind)
		})
	}
}

func TestExtract_PDFTextLayer(t *testing.T) {
	rec := &fakeRecognizer{}
	s := newTestExtraction(rec, &fakePDF{layer: goodReceipt, pages: 1}, time.Second)

	got, err := s.Extract(context.Background(), models.FileKindPDF, []byte("%PDF"))

	require.NoError(t, err)
	assert.Equal(t, receipt.SourcePDFText, got.Source)
	assert.Equal(t, []string{"pdf-text"}, got.Attempts)
	assert.Zero(t, rec.calls)
}

func TestExtract_PDFFallsBackToOCR(t *testing.T) {
	rec := &fakeRecognizer{results: []ocr.Result{{Text: goodReceipt, Confidence: 0.7}}}
	pdf := &fakePDF{layer: corruptedLayer, pages: 1, images: [][]byte{[]byte("page1")}}
	s := newTestExtraction(rec, pdf, time.Second)

	got, err := s.Extract(context.Background(), models.FileKindPDF, []byte("%PDF"))

	require.NoError(t, err)
	assert.Equal(t, receipt.SourcePDFOCR, got.Source)
	assert.Equal(t, goodReceipt, got.Text)
	assert.Equal(t, []string{"pdf-text-unreadable", "pdf-ocr"}, got.Attempts)
}

func TestExtract_PDFLowConfidenceKeepsLayer(t *testing.T) {
	rec := &fakeRecognizer{results: []ocr.Result{{Text: "s0me n0ise", Confidence: 0.1}}}
	pdf := &fakePDF{layer: corruptedLayer, pages: 1, images: [][]byte{[]byte("page1")}}
	s := newTestExtraction(rec, pdf, time.Second)

	got, err := s.Extract(context.Background(), models.FileKindPDF, []byte("%PDF"))

	require.NoError(t, err)
	assert.Equal(t, receipt.SourcePDFText, got.Source)
	assert.Equal(t, corruptedLayer, got.Text)
	assert.Contains(t, got.Attempts, "pdf-text-unreadable")

	_, err = receipt.NewEngine(receipt.DefaultPolicy()).Evaluate(got)
	se, ok := receipt.AsSubmissionError(err)
	require.True(t, ok)
	assert.Equal(t, receipt.KindCorruptionDetected, se.Kind)
}

func TestExtract_PDFVisionWithoutConfidenceReplacesLayer(t *testing.T) {
	rec := &fakeRecognizer{name: "gigachat-vision", results: []ocr.Result{{Text: goodReceipt}}}
	pdf := &fakePDF{layer: corruptedLayer, pages: 1, images: [][]byte{[]byte("page1")}}
	s := newTestExtraction(rec, pdf, time.Second)

	got, err := s.Extract(context.Background(), models.FileKindPDF, []byte("%PDF"))

	require.NoError(t, err)
	assert.Equal(t, receipt.SourcePDFOCR, got.Source)
	assert.Equal(t, goodReceipt, got.Text)
	assert.Equal(t, []string{"pdf-text-unreadable", "pdf-ocr"}, got.Attempts)

	_, err = receipt.NewEngine(receipt.DefaultPolicy()).Evaluate(got)
	assert.NoError(t, err)
}

func TestExtract_PDFVisionGarbageKeepsLayer(t *testing.T) {
	rec := &fakeRecognizer{name: "gigachat-vision", results: []ocr.Result{{Text: "ok"}}}
	pdf := &fakePDF{layer: corruptedLayer, pages: 1, images: [][]byte{[]byte("page1")}}
	s := newTestExtraction(rec, pdf, time.Second)

	got, err := s.Extract(context.Background(), models.FileKindPDF, []byte("%PDF"))

	require.NoError(t, err)
	assert.Equal(t, receipt.SourcePDFText, got.Source)
	assert.Equal(t, corruptedLayer, got.Text)
}

func TestExtract_PDFScannedUsesAnyOCRText(t *testing.T) {
	rec := &fakeRecognizer{results: []ocr.Result{{Text: goodReceipt, Confidence: 0.1}}}
	pdf := &fakePDF{pages: 1, images: [][]byte{[]byte("page1")}}
	s := newTestExtraction(rec, pdf, time.Second)

	got, err := s.Extract(context.Background(), models.FileKindPDF, []byte("%PDF"))

	require.NoError(t, err)
	assert.Equal(t, receipt.SourcePDFOCR, got.Source)
	assert.Equal(t, []string{"pdf-text-empty", "pdf-ocr"}, got.Attempts)
}

func TestExtract_PDFNothingWorks(t *testing.T) {
	pdf := &fakePDF{pages: 1, renderErr: errors.New("render failed")}
	s := newTestExtraction(&fakeRecognizer{}, pdf, time.Second)

	got, err := s.Extract(context.Background(), models.FileKindPDF, []byte("%PDF"))

	se, ok := receipt.AsSubmissionError(err)
	require.True(t, ok)
	assert.Equal(t, receipt.KindExtractionFailed, se.Kind)
	assert.Contains(t, se.Details, "pdf-text-empty")
	assert.Equal(t, []string{"pdf-text-empty", "pdf-ocr-error: render failed"}, got.Attempts)
}

func TestExtract_PDFInvalid(t *testing.T) {
	pdf := &fakePDF{layerErr: ocr.ErrInvalidPDF}
	s := newTestExtraction(&fakeRecognizer{}, pdf, time.Second)

	_, err := s.Extract(context.Background(), models.FileKindPDF, []byte("nope"))

	se, ok := receipt.AsSubmissionError(err)
	require.True(t, ok)
	assert.Equal(t, receipt.KindExtractionFailed, se.Kind)
	assert.ErrorIs(t, err, ocr.ErrInvalidPDF)
}

func TestExtract_PlainText(t *testing.T) {
	s := newTestExtraction(&fakeRecognizer{}, &fakePDF{}, time.Second)

	got, err := s.Extract(context.Background(), models.FileKindText, []byte(goodReceipt+"\xff\n"))

	require.NoError(t, err)
	assert.Equal(t, receipt.SourcePlain, got.Source)
	assert.Equal(t, goodReceipt, got.Text)
}

func TestExtract_TimeoutIsExtractionFailure(t *testing.T) {
	block := make(chan struct{})
	defer close(block)
	rec := &fakeRecognizer{block: block, results: []ocr.Result{{Text: goodReceipt}}}
	s := newTestExtraction(rec, &fakePDF{}, 20*time.Millisecond)

	_, err := s.Extract(context.Background(), models.FileKindImage, []byte("img"))

	se, ok := receipt.AsSubmissionError(err)
	require.True(t, ok)
	assert.Equal(t, receipt.KindExtractionFailed, se.Kind)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
