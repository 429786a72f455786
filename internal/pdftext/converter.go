// Package pdftext converts PDF invoices to plain text using Google
// Cloud Document AI OCR.
//
// Required Environment Variables:
//   - GOOGLE_APPLICATION_CREDENTIALS: Path to service account JSON file, OR
//   - GOOGLE_CREDENTIALS: Inline JSON credentials string
//   - GOOGLE_CLOUD_PROJECT: Google Cloud project ID
//   - GOOGLE_CLOUD_LOCATION: Processing location (e.g., "eu")
//   - DOCUMENT_AI_PROCESSOR_ID: Document AI processor ID
//
// Document AI API Limitations:
//   - Maximum file size: 20MB for synchronous processing
//   - Processing time: Typically 5-15 seconds per invoice
//   - Quota limits apply (check Google Cloud Console)
package pdftext

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	documentai "cloud.google.com/go/documentai/apiv1"
	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"

	"fakturatools/internal/logger"
)

const (
	// MaxDocumentSizeBytes is the maximum document size for synchronous
	// processing (20MB).
	MaxDocumentSizeBytes = 20 * 1024 * 1024

	// DefaultTimeout is the maximum time to wait for a single document.
	DefaultTimeout = 60 * time.Second
)

// Converter defines the interface for PDF to text conversion.
type Converter interface {
	// ConvertPDF extracts the full text of a PDF document.
	ConvertPDF(ctx context.Context, pdfData io.Reader) (string, error)
}

// Config holds configuration for Google Document AI conversion.
type Config struct {
	// ProjectID is the Google Cloud project ID where Document AI is enabled.
	ProjectID string

	// Location is the processing location (e.g., "us", "eu").
	// Should match where the Document AI processor is created.
	Location string

	// ProcessorID is the Document AI processor ID.
	ProcessorID string

	// Timeout is the maximum time to wait for processing.
	// Default: 60 seconds.
	Timeout time.Duration
}

// DocumentAIConverter implements Converter using Google Document AI.
type DocumentAIConverter struct {
	client *documentai.DocumentProcessorClient
	config Config
	log    zerolog.Logger
}

// NewDocumentAIConverter creates a converter with credentials from the
// environment.
func NewDocumentAIConverter(ctx context.Context) (Converter, error) {
	const op = "NewDocumentAIConverter"

	config := Config{
		ProjectID:   os.Getenv("GOOGLE_CLOUD_PROJECT"),
		Location:    os.Getenv("GOOGLE_CLOUD_LOCATION"),
		ProcessorID: os.Getenv("DOCUMENT_AI_PROCESSOR_ID"),
		Timeout:     DefaultTimeout,
	}

	if config.ProjectID == "" {
		return nil, WrapConversionError(op, ErrInvalidConfiguration, "GOOGLE_CLOUD_PROJECT is required")
	}
	if config.ProcessorID == "" {
		return nil, WrapConversionError(op, ErrInvalidConfiguration, "DOCUMENT_AI_PROCESSOR_ID is required")
	}
	if config.Location == "" {
		config.Location = "eu"
	}

	var clientOptions []option.ClientOption

	// Regional endpoint for anything outside us-central1
	if config.Location != "us" {
		endpoint := fmt.Sprintf("%s-documentai.googleapis.com:443", config.Location)
		clientOptions = append(clientOptions, option.WithEndpoint(endpoint))
	}

	if credJSON := os.Getenv("GOOGLE_CREDENTIALS"); credJSON != "" {
		clientOptions = append(clientOptions, option.WithCredentialsJSON([]byte(credJSON)))
	} else if credFile := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); credFile != "" {
		clientOptions = append(clientOptions, option.WithCredentialsFile(credFile))
	}

	client, err := documentai.NewDocumentProcessorClient(ctx, clientOptions...)
	if err != nil {
		if len(clientOptions) == 0 {
			return nil, WrapConversionError(op, ErrMissingCredentials, "no credentials found in environment")
		}
		return nil, WrapConversionError(op, err, fmt.Sprintf("failed to create Document AI client for location: %s", config.Location))
	}

	return &DocumentAIConverter{
		client: client,
		config: config,
		log:    logger.WithComponent("pdftext"),
	}, nil
}

// NewDocumentAIConverterWithConfig creates a converter with explicit config and client (for testing).
func NewDocumentAIConverterWithConfig(config Config, client *documentai.DocumentProcessorClient) Converter {
	if config.Timeout == 0 {
		config.Timeout = DefaultTimeout
	}
	return &DocumentAIConverter{
		client: client,
		config: config,
		log:    logger.WithComponent("pdftext"),
	}
}

// ConvertPDF extracts the full text of a PDF document.
func (c *DocumentAIConverter) ConvertPDF(ctx context.Context, pdfData io.Reader) (string, error) {
	const op = "ConvertPDF"

	pdfBytes, err := io.ReadAll(pdfData)
	if err != nil {
		return "", WrapConversionError(op, err, "failed to read PDF data")
	}

	if len(pdfBytes) > MaxDocumentSizeBytes {
		return "", WrapConversionError(op, ErrDocumentTooLarge, fmt.Sprintf("file size: %d bytes", len(pdfBytes)))
	}

	if len(pdfBytes) < 4 || string(pdfBytes[:4]) != "%PDF" {
		return "", WrapConversionError(op, ErrInvalidPDF, "missing PDF header")
	}

	processCtx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	req := &documentaipb.ProcessRequest{
		Name: c.processorName(),
		Source: &documentaipb.ProcessRequest_RawDocument{
			RawDocument: &documentaipb.RawDocument{
				Content:  pdfBytes,
				MimeType: "application/pdf",
			},
		},
	}

	c.log.Debug().Int("size_bytes", len(pdfBytes)).Msg("Sending PDF to Document AI")

	resp, err := c.client.ProcessDocument(processCtx, req)
	if err != nil {
		return "", c.handleProcessingError(op, err)
	}

	if resp.Document == nil {
		return "", WrapConversionError(op, ErrConversionFailed, "no document in response")
	}

	text := resp.Document.Text
	if strings.TrimSpace(text) == "" {
		return "", WrapConversionError(op, ErrEmptyDocument, "")
	}

	c.log.Info().Int("chars", len(text)).Msg("PDF converted to text")
	return text, nil
}

func (c *DocumentAIConverter) processorName() string {
	return fmt.Sprintf("projects/%s/locations/%s/processors/%s",
		c.config.ProjectID, c.config.Location, c.config.ProcessorID)
}

// handleProcessingError converts Document AI errors to appropriate conversion errors.
func (c *DocumentAIConverter) handleProcessingError(op string, err error) error {
	errStr := err.Error()

	switch {
	case strings.Contains(errStr, "PERMISSION_DENIED"):
		return WrapConversionError(op, ErrInvalidCredentials, "insufficient permissions for Document AI")
	case strings.Contains(errStr, "QUOTA_EXCEEDED"):
		return WrapConversionError(op, ErrQuotaExceeded, "Document AI API quota exceeded")
	case strings.Contains(errStr, "NOT_FOUND"):
		return WrapConversionError(op, ErrProcessorNotFound, fmt.Sprintf("processor not found: %s", c.config.ProcessorID))
	case strings.Contains(errStr, "INVALID_ARGUMENT"):
		return WrapConversionError(op, ErrInvalidPDF, "document format not supported or corrupted")
	case strings.Contains(errStr, "DeadlineExceeded") || strings.Contains(errStr, "context deadline exceeded"):
		return WrapConversionError(op, context.DeadlineExceeded, "processing timeout")
	case strings.Contains(errStr, "Canceled") || strings.Contains(errStr, "context canceled"):
		return WrapConversionError(op, ErrConversionCanceled, "processing was canceled")
	default:
		return WrapConversionError(op, ErrConversionFailed, fmt.Sprintf("Document AI error: %v", err))
	}
}
