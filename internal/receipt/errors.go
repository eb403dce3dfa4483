package receipt

import (
	"errors"
	"fmt"
)

// ErrorKind classifies why a submission was rejected.
type ErrorKind string

const (
	KindExtractionFailed   ErrorKind = "extraction-failed"
	KindCorruptionDetected ErrorKind = "corruption-detected"
	KindValidationFailed   ErrorKind = "validation-failed"
	KindDuplicateDetected  ErrorKind = "duplicate-detected"
)

// SubmissionError is a terminal failure of one receipt submission. No points
// are awarded when it is returned.
type SubmissionError struct {
	Kind    ErrorKind
	Details string
	Hint    string
	Cause   error
}

func (e *SubmissionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Details, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Details)
}

func (e *SubmissionError) Unwrap() error {
	return e.Cause
}

// AsSubmissionError extracts a SubmissionError from an error chain.
func AsSubmissionError(err error) (*SubmissionError, bool) {
	var se *SubmissionError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

const (
	hintRetry = "Please try again with a clear, well-lit photo of the whole receipt or the original PDF."

	hintEmailPDF = "This PDF was likely created by converting an email to PDF, which corrupted the text. " +
		"Copy the receipt text from the original email, save it as a .txt file and upload that instead, " +
		"or upload a screenshot of the receipt."

	hintGlyph = "This file uses fonts that cannot be decoded. Try uploading the original receipt image " +
		"or the receipt text instead."

	hintInsufficient = "Too little readable text was found. Make sure the whole receipt is in frame and in focus."

	hintValidation = "The receipt must clearly show a participating product (Bloedlemoen Gin or Fever-Tree Tonic) " +
		"together with the store name, total and date. Contact info@bloedlemoengin.com if your purchase qualifies."

	hintDuplicateSelf  = "You have already submitted this receipt."
	hintDuplicateOther = "This receipt has already been claimed by another account."
)

// ExtractionFailed reports that no usable text could be produced.
func ExtractionFailed(details string, cause error) *SubmissionError {
	return &SubmissionError{Kind: KindExtractionFailed, Details: details, Hint: hintRetry, Cause: cause}
}

// CorruptionDetected reports text that was produced but is unusable.
func CorruptionDetected(v Verdict) *SubmissionError {
	var hint string
	switch v.Kind {
	case CorruptionEmailPDF:
		hint = hintEmailPDF
	case CorruptionGlyph:
		hint = hintGlyph
	default:
		hint = hintInsufficient
	}
	return &SubmissionError{
		Kind: KindCorruptionDetected,
		Details: fmt.Sprintf("%s: %.1f%% corrupted, %d readable words found",
			v.Kind, v.CorruptionRatio*100, v.ReadableWords),
		Hint: hint,
	}
}

// ValidationFailed reports a usable receipt that did not qualify.
func ValidationFailed(a *Analysis) *SubmissionError {
	return &SubmissionError{
		Kind: KindValidationFailed,
		Details: fmt.Sprintf("confidence %d, %d bottles, %d packs",
			a.Confidence, a.TotalBottles, a.TotalPacks),
		Hint: hintValidation,
	}
}

// DuplicateDetected reports a fingerprint collision with an accepted receipt.
func DuplicateDetected(sameUser bool) *SubmissionError {
	if sameUser {
		return &SubmissionError{Kind: KindDuplicateDetected, Details: "receipt already submitted by this account", Hint: hintDuplicateSelf}
	}
	return &SubmissionError{Kind: KindDuplicateDetected, Details: "receipt already claimed by another account", Hint: hintDuplicateOther}
}
