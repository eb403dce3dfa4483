package service

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"receipt-rewards/internal/metrics"
	"receipt-rewards/internal/models"
	"receipt-rewards/internal/receipt"
	"receipt-rewards/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const qualifyingReceipt = "SHOPRITE BEDFORDVIEW\n2024/03/15 14:22\n2 x BLOEDLEMOEN GIN 750ML 699.98\n" +
	"FEVER TREE TONIC WATER 4PK 89.99\nTOTAL 789.97\nTHANK YOU FOR SHOPPING"

type receiptFixture struct {
	store     *fakeReceiptStore
	extractor *fakeExtractor
	claimer   *fakeClaimer
	dir       string
	svc       *ReceiptService
}

func newReceiptFixture(t *testing.T, text string) *receiptFixture {
	t.Helper()
	f := &receiptFixture{
		store:     &fakeReceiptStore{balance: models.Balance{Points: 350, TotalEarned: 600}},
		extractor: &fakeExtractor{text: receipt.ExtractedText{Text: text, Source: receipt.SourcePlain}},
		claimer:   &fakeClaimer{},
		dir:       t.TempDir(),
	}
	engine := receipt.NewEngine(receipt.DefaultPolicy())
	f.svc = NewReceiptService(f.store, f.extractor, f.claimer, engine, metrics.New(), f.dir, 1024, zap.NewNop())
	return f
}

func (f *receiptFixture) uploads(t *testing.T) []os.DirEntry {
	t.Helper()
	entries, err := os.ReadDir(f.dir)
	require.NoError(t, err)
	return entries
}

func submissionKind(t *testing.T, err error) *receipt.SubmissionError {
	t.Helper()
	se, ok := receipt.AsSubmissionError(err)
	require.True(t, ok, "expected a submission error, got %v", err)
	return se
}

func TestSubmit_Accepted(t *testing.T) {
	f := newReceiptFixture(t, qualifyingReceipt)
	userID := uuid.New()

	resp, err := f.svc.Submit(context.Background(), userID, "receipt.txt", strings.NewReader(qualifyingReceipt))

	require.NoError(t, err)
	assert.Equal(t, 250, resp.PointsEarned)
	assert.Equal(t, 350, resp.NewPointsBalance)
	assert.Equal(t, 600, resp.TotalEarned)
	assert.Equal(t, 2, resp.Bottles)
	assert.Equal(t, 1, resp.Packs)
	assert.Len(t, resp.DetectedItems, 2)
	assert.Equal(t, "SHOPRITE", resp.Receipt.StoreName)
	assert.Equal(t, "789.97", resp.Receipt.TotalAmount)

	rec := f.store.created
	require.NotNil(t, rec)
	assert.Equal(t, userID, rec.UserID)
	assert.Len(t, rec.Fingerprint, 64)
	assert.True(t, rec.IsVerified)
	assert.True(t, rec.TotalAmount.Decimal.Equal(decimal.RequireFromString("789.97")))
	assert.Equal(t, models.EventReceiptUploaded, f.store.event.EventType)
	assert.Equal(t, rec.ID.String(), f.store.event.Metadata["receipt_id"])

	assert.Equal(t, []string{rec.Fingerprint}, f.claimer.released)
	assert.Len(t, f.uploads(t), 1)
}

func TestSubmit_ValidationFailedStoresNothing(t *testing.T) {
	text := "SHOPRITE\nMILK 2L 25.99\nBREAD 15.99\nTOTAL 41.98\n15/03/2024"
	f := newReceiptFixture(t, text)

	_, err := f.svc.Submit(context.Background(), uuid.New(), "receipt.txt", strings.NewReader(text))

	assert.Equal(t, receipt.KindValidationFailed, submissionKind(t, err).Kind)
	assert.Nil(t, f.store.created)
	assert.Zero(t, f.claimer.claims)
	assert.Empty(t, f.uploads(t))
}

func TestSubmit_ExtractionFailure(t *testing.T) {
	f := newReceiptFixture(t, "")
	f.extractor.err = receipt.ExtractionFailed("text extraction timed out", context.DeadlineExceeded)

	_, err := f.svc.Submit(context.Background(), uuid.New(), "receipt.png", bytes.NewReader([]byte("\x89PNG\r\n\x1a\n....")))

	assert.Equal(t, receipt.KindExtractionFailed, submissionKind(t, err).Kind)
	assert.Empty(t, f.uploads(t))
}

func TestSubmit_UnsupportedFile(t *testing.T) {
	f := newReceiptFixture(t, qualifyingReceipt)

	_, err := f.svc.Submit(context.Background(), uuid.New(), "receipt.bin", bytes.NewReader([]byte{0x00, 0x01, 0x02}))

	assert.Equal(t, receipt.KindExtractionFailed, submissionKind(t, err).Kind)
}

func TestSubmit_UploadLimits(t *testing.T) {
	f := newReceiptFixture(t, qualifyingReceipt)

	_, err := f.svc.Submit(context.Background(), uuid.New(), "big.txt", strings.NewReader(strings.Repeat("a", 1025)))
	assert.ErrorIs(t, err, ErrFileTooLarge)

	_, err = f.svc.Submit(context.Background(), uuid.New(), "empty.txt", strings.NewReader(" \n "))
	assert.ErrorIs(t, err, ErrEmptyFile)
}

func TestSubmit_Duplicates(t *testing.T) {
	userID := uuid.New()
	otherID := uuid.New()

	tests := []struct {
		name     string
		setup    func(f *receiptFixture)
		sameUser bool
	}{
		{
			name:     "already submitted by same user",
			setup:    func(f *receiptFixture) { f.store.owner, f.store.ownerFound = userID, true },
			sameUser: true,
		},
		{
			name:  "claimed by another account",
			setup: func(f *receiptFixture) { f.store.owner, f.store.ownerFound = otherID, true },
		},
		{
			name:  "in flight for another account",
			setup: func(f *receiptFixture) { f.claimer.held, f.claimer.holder = true, otherID.String() },
		},
		{
			name:     "lost the race inside the transaction",
			setup:    func(f *receiptFixture) { f.store.createErr = &repository.DuplicateError{OwnerID: userID} },
			sameUser: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newReceiptFixture(t, qualifyingReceipt)
			tt.setup(f)

			_, err := f.svc.Submit(context.Background(), userID, "receipt.txt", strings.NewReader(qualifyingReceipt))

			se := submissionKind(t, err)
			assert.Equal(t, receipt.KindDuplicateDetected, se.Kind)
			assert.Equal(t, receipt.DuplicateDetected(tt.sameUser).Hint, se.Hint)
			assert.Nil(t, f.store.created)
			assert.Empty(t, f.uploads(t))
		})
	}
}

func TestSubmit_ContendedClaimFallsThroughToTransaction(t *testing.T) {
	f := newReceiptFixture(t, qualifyingReceipt)
	f.claimer.held, f.claimer.holder = true, ""

	resp, err := f.svc.Submit(context.Background(), uuid.New(), "receipt.txt", strings.NewReader(qualifyingReceipt))

	require.NoError(t, err)
	assert.Equal(t, 250, resp.PointsEarned)
	require.NotNil(t, f.store.created)
	assert.Equal(t, 1, f.claimer.claims)
	assert.Empty(t, f.claimer.released)
}

func TestAnalyze(t *testing.T) {
	f := newReceiptFixture(t, "")

	resp := f.svc.Analyze(qualifyingReceipt)

	assert.True(t, resp.Usable)
	assert.True(t, resp.Analysis.IsValid)
	assert.Equal(t, 250, resp.PointsWouldEarn)
	assert.Len(t, resp.Fingerprint, 64)
	assert.Nil(t, f.store.created)
}

func TestList_ClampsPaging(t *testing.T) {
	f := newReceiptFixture(t, "")
	f.store.listed = []*models.Receipt{{ID: uuid.New(), StoreName: "SPAR", PointsEarned: 100, CreatedAt: time.Now()}}

	resp, err := f.svc.List(context.Background(), uuid.New(), 500, -3)

	require.NoError(t, err)
	assert.Equal(t, maxListLimit, f.store.listLimit)
	assert.Zero(t, f.store.listOffset)
	require.Len(t, resp.Receipts, 1)
	assert.Empty(t, resp.Receipts[0].TotalAmount)
	assert.NotNil(t, resp.Receipts[0].DetectedItems)
}
