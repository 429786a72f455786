package pdftext

import (
	"errors"
	"fmt"
)

// Common PDF conversion errors
var (
	// ErrInvalidPDF is returned when the provided data is not a valid PDF document
	// or cannot be processed by Document AI.
	ErrInvalidPDF = errors.New("invalid or corrupted PDF document")

	// ErrConversionFailed is returned when Document AI processing fails.
	ErrConversionFailed = errors.New("document AI processing failed")

	// ErrInvalidCredentials is returned when Google Cloud credentials are invalid
	// or do not have the necessary permissions.
	ErrInvalidCredentials = errors.New("invalid Google Cloud credentials")

	// ErrMissingCredentials is returned when Google Cloud credentials are not configured.
	ErrMissingCredentials = errors.New("missing Google Cloud credentials")

	// ErrInvalidConfiguration is returned when the Document AI configuration is invalid.
	ErrInvalidConfiguration = errors.New("invalid Document AI configuration")

	// ErrProcessorNotFound is returned when the specified Document AI processor
	// cannot be found or accessed.
	ErrProcessorNotFound = errors.New("Document AI processor not found")

	// ErrQuotaExceeded is returned when Document AI API quota limits are exceeded.
	ErrQuotaExceeded = errors.New("Document AI API quota exceeded")

	// ErrDocumentTooLarge is returned when the PDF exceeds size limits.
	ErrDocumentTooLarge = errors.New("document exceeds maximum size limit")

	// ErrEmptyDocument is returned when Document AI finds no text in the PDF.
	ErrEmptyDocument = errors.New("document contains no extractable text")

	// ErrConversionCanceled is returned when conversion is canceled via context.
	ErrConversionCanceled = errors.New("PDF conversion was canceled")
)

// ConversionError wraps errors with additional context about PDF conversion failures.
type ConversionError struct {
	// Op is the operation that failed (e.g., "ConvertPDF").
	Op string

	// Err is the underlying error.
	Err error

	// Details provides additional context about the failure.
	Details string
}

// Error implements the error interface.
func (e *ConversionError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("pdftext: %s failed: %s: %v", e.Op, e.Details, e.Err)
	}
	return fmt.Sprintf("pdftext: %s failed: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *ConversionError) Unwrap() error {
	return e.Err
}

// Is implements error matching for Go 1.13+ error handling.
func (e *ConversionError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// WrapConversionError wraps an error as a ConversionError if it isn't already one.
func WrapConversionError(op string, err error, details string) error {
	if err == nil {
		return nil
	}

	var convErr *ConversionError
	if errors.As(err, &convErr) {
		return err
	}

	return &ConversionError{Op: op, Err: err, Details: details}
}
