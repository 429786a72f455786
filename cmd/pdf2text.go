package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"fakturatools/internal/logger"
	"fakturatools/internal/pdftext"
)

var pdfToTextCmd = &cobra.Command{
	Use:   "pdf-to-text [pdf-file]",
	Short: "Convert a PDF invoice to plain text using Google Document AI",
	Long: `Convert a PDF invoice to plain text using Google Document AI OCR.

The extracted text preserves the reading order the OCR produces, which
the generate command relies on for its deterministic header scan.

Required environment variables:
  GOOGLE_APPLICATION_CREDENTIALS - Path to service account JSON file, OR
  GOOGLE_CREDENTIALS - Inline JSON credentials string
  GOOGLE_CLOUD_PROJECT - Your Google Cloud project ID
  GOOGLE_CLOUD_LOCATION - Processing location (us, eu, etc.)
  DOCUMENT_AI_PROCESSOR_ID - Your Document AI processor ID`,
	Example: `  # Print extracted text to stdout
  fakturatools pdf-to-text invoice.pdf

  # Save extracted text to a file
  fakturatools pdf-to-text invoice.pdf -o invoice.txt`,
	Args: cobra.ExactArgs(1),
	RunE: runPDFToText,
}

func init() {
	rootCmd.AddCommand(pdfToTextCmd)

	pdfToTextCmd.Flags().StringP("output", "o", "", "Output file path (default: stdout)")
	pdfToTextCmd.Flags().Int("timeout", 120, "Processing timeout in seconds")
}

func runPDFToText(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("pdf-to-text")

	outputPath, _ := cmd.Flags().GetString("output")
	timeoutSecs, _ := cmd.Flags().GetInt("timeout")

	pdfPath := args[0]

	log.Info().
		Str("file", pdfPath).
		Str("output", outputPath).
		Msg("Starting PDF conversion")

	if err := validatePDFPath(pdfPath, log); err != nil {
		return err
	}

	ctx, cancel := signalContext(timeoutSecs, log)
	defer cancel()

	converter, err := createConverter(ctx, log)
	if err != nil {
		return err
	}

	pdfFile, err := os.Open(pdfPath)
	if err != nil {
		log.Error().
			Err(err).
			Str("file", pdfPath).
			Msg("Failed to open PDF file")
		return fmt.Errorf("failed to open PDF file: %w", err)
	}
	defer func() {
		if closeErr := pdfFile.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("Failed to close PDF file")
		}
	}()

	startTime := time.Now()
	text, err := converter.ConvertPDF(ctx, pdfFile)
	if err != nil {
		return handleConversionError(err, log)
	}

	log.Info().
		Int("chars", len(text)).
		Dur("duration", time.Since(startTime)).
		Msg("PDF conversion completed successfully")

	if outputPath != "" {
		if err := os.WriteFile(outputPath, []byte(text), 0644); err != nil {
			log.Error().
				Err(err).
				Str("output_file", outputPath).
				Msg("Failed to write output file")
			return fmt.Errorf("failed to write output file: %w", err)
		}
		log.Info().
			Str("output_file", outputPath).
			Msg("Text written to file")
		return nil
	}

	fmt.Println(text)
	return nil
}

// validatePDFPath validates the PDF file before sending it to Document AI.
func validatePDFPath(pdfPath string, log zerolog.Logger) error {
	fileInfo, err := os.Stat(pdfPath)
	if err != nil {
		if os.IsNotExist(err) {
			log.Error().
				Str("file", pdfPath).
				Msg("PDF file not found")
			return fmt.Errorf("PDF file not found: %s", pdfPath)
		}
		if os.IsPermission(err) {
			return fmt.Errorf("permission denied accessing PDF file: %s", pdfPath)
		}
		return fmt.Errorf("error accessing PDF file: %w", err)
	}

	if !fileInfo.Mode().IsRegular() {
		return fmt.Errorf("path is not a regular file: %s", pdfPath)
	}

	if !strings.HasSuffix(strings.ToLower(pdfPath), ".pdf") {
		log.Warn().
			Str("file", pdfPath).
			Msg("File does not have .pdf extension")
	}

	if fileInfo.Size() == 0 {
		return fmt.Errorf("PDF file is empty: %s", pdfPath)
	}

	if fileInfo.Size() > pdftext.MaxDocumentSizeBytes {
		log.Error().
			Str("file", pdfPath).
			Int64("size", fileInfo.Size()).
			Msg("PDF file exceeds maximum size limit")
		return fmt.Errorf("PDF file too large (%d bytes). Maximum size is %d bytes (20MB)",
			fileInfo.Size(), pdftext.MaxDocumentSizeBytes)
	}

	return nil
}

// createConverter creates and configures the Document AI converter.
func createConverter(ctx context.Context, log zerolog.Logger) (pdftext.Converter, error) {
	converter, err := pdftext.NewDocumentAIConverter(ctx)
	if err != nil {
		if errors.Is(err, pdftext.ErrMissingCredentials) {
			log.Error().
				Err(err).
				Msg("Google Cloud credentials not configured")
			return nil, fmt.Errorf("missing Google Cloud credentials. Please set one of:\n"+
				"  GOOGLE_APPLICATION_CREDENTIALS=/path/to/service-account-key.json\n"+
				"  GOOGLE_CREDENTIALS='<json-credentials>'\n"+
				"Original error: %w", err)
		}
		if errors.Is(err, pdftext.ErrInvalidConfiguration) {
			log.Error().
				Err(err).
				Msg("Document AI configuration invalid")
			return nil, fmt.Errorf("invalid Document AI configuration. Please check your .env file:\n"+
				"  GOOGLE_CLOUD_PROJECT - your Google Cloud project ID\n"+
				"  GOOGLE_CLOUD_LOCATION - processing location (us, eu, etc.)\n"+
				"  DOCUMENT_AI_PROCESSOR_ID - your Document AI processor ID\n"+
				"Original error: %w", err)
		}
		log.Error().
			Err(err).
			Msg("Failed to create PDF converter")
		return nil, fmt.Errorf("failed to create PDF converter: %w", err)
	}

	log.Debug().Msg("PDF converter created successfully")
	return converter, nil
}

// handleConversionError provides user-friendly error messages for conversion failures.
func handleConversionError(err error, log zerolog.Logger) error {
	log.Error().Err(err).Msg("PDF conversion failed")

	errStr := err.Error()

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("PDF conversion timed out. Try increasing --timeout or processing a smaller file")
	case errors.Is(err, pdftext.ErrConversionCanceled) || errors.Is(err, context.Canceled):
		return fmt.Errorf("PDF conversion was canceled")
	case errors.Is(err, pdftext.ErrInvalidPDF):
		return fmt.Errorf("invalid or corrupted PDF file. Please check the file integrity")
	case errors.Is(err, pdftext.ErrDocumentTooLarge):
		return fmt.Errorf("PDF file is too large (maximum 20MB). Try compressing or splitting the file")
	case errors.Is(err, pdftext.ErrProcessorNotFound):
		return fmt.Errorf("Document AI processor not found. Please check your DOCUMENT_AI_PROCESSOR_ID environment variable")
	case errors.Is(err, pdftext.ErrEmptyDocument):
		return fmt.Errorf("the PDF contains no extractable text")
	case strings.Contains(errStr, "Unauthenticated") ||
		strings.Contains(errStr, "invalid_grant") ||
		strings.Contains(errStr, "credentials"):
		return fmt.Errorf("Google Cloud authentication failed. Please check your credentials:\n\n"+
			"1. Set GOOGLE_APPLICATION_CREDENTIALS to your service account JSON file path\n"+
			"2. Or set GOOGLE_CREDENTIALS with inline JSON credentials\n"+
			"3. Ensure the service account has 'Document AI API User' role\n\n"+
			"Original error: %v", err)
	case strings.Contains(errStr, "PERMISSION_DENIED"):
		return fmt.Errorf("permission denied. Please ensure your service account has 'Document AI API User' role")
	case strings.Contains(errStr, "QUOTA_EXCEEDED"):
		return fmt.Errorf("Document AI API quota exceeded. Check your project quotas in Google Cloud Console")
	default:
		return fmt.Errorf("PDF conversion failed: %w", err)
	}
}
