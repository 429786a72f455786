package invoice

import (
	"errors"
	"fmt"
)

// Common invoice generation errors
var (
	// ErrNoContent is returned when the input document text is empty.
	ErrNoContent = errors.New("document contains no text")

	// ErrNoData is returned when extraction finds nothing usable in the
	// document.
	ErrNoData = errors.New("no invoice data could be extracted")

	// ErrExtractionFailed is returned when the language model calls fail.
	ErrExtractionFailed = errors.New("invoice data extraction failed")

	// ErrXMLGeneration is returned when the OIOUBL document cannot be built.
	ErrXMLGeneration = errors.New("OIOUBL XML generation failed")

	// ErrOutputWrite is returned when the XML file cannot be written.
	ErrOutputWrite = errors.New("failed to write output file")

	// ErrGenerationCanceled is returned when generation is canceled via context.
	ErrGenerationCanceled = errors.New("invoice generation was canceled")
)

// GenerationError wraps errors with additional context about invoice
// generation failures.
type GenerationError struct {
	// Op is the operation that failed (e.g., "GenerateInvoice").
	Op string

	// Err is the underlying error.
	Err error

	// Details provides additional context about the failure.
	Details string

	// InvoiceNumber is the invoice being processed (if known).
	InvoiceNumber string
}

// Error implements the error interface.
func (e *GenerationError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("invoice: %s failed: %s: %v", e.Op, e.Details, e.Err)
	}
	if e.InvoiceNumber != "" {
		return fmt.Sprintf("invoice: %s failed (invoice: %s): %v", e.Op, e.InvoiceNumber, e.Err)
	}
	return fmt.Sprintf("invoice: %s failed: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *GenerationError) Unwrap() error {
	return e.Err
}

// Is implements error matching for Go 1.13+ error handling.
func (e *GenerationError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// WrapGenerationError wraps an error as a GenerationError if it isn't already one.
func WrapGenerationError(op string, err error, details string) error {
	if err == nil {
		return nil
	}

	var genErr *GenerationError
	if errors.As(err, &genErr) {
		return err
	}

	return &GenerationError{Op: op, Err: err, Details: details}
}
