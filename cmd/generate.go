package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"fakturatools/internal/config"
	"fakturatools/internal/invoice"
	"fakturatools/internal/logger"
)

var generateCmd = &cobra.Command{
	Use:   "generate [invoice-file]",
	Short: "Generate an OIOUBL XML invoice from a Danish PDF or text invoice",
	Long: `Generate an OIOUBL 2.02 XML invoice from a Danish invoice.

Files ending in .pdf are first converted to text with Google Document
AI; anything else is read as plain text (use --text to force text mode).
The text is chunked and passed through three OpenAI extraction passes:
general invoice fields per chunk, payment details (FIK or bank
transfer) and additional charges (environmental and shipping fees).
Supplier CVR and GLN numbers are enriched from the company registry,
amounts are recomputed with decimal arithmetic, and the result is
written as a NemHandel-ready UBL 2.0 invoice.

Required environment variables:
  OPENAI_API_KEY - Your OpenAI API key
  (plus the Google Document AI variables for PDF input, see pdf-to-text)`,
	Example: `  # Generate XML from a PDF invoice
  fakturatools generate invoice.pdf

  # Generate XML from an invoice text file
  fakturatools generate invoice.txt

  # Write the XML to a specific directory
  fakturatools generate invoice.pdf --output-dir invoices/

  # Process with custom timeout
  fakturatools generate large-invoice.pdf --timeout 300`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringP("output-dir", "o", "", "Output directory (default: OUTPUT_DIR or ./output)")
	generateCmd.Flags().Bool("text", false, "Treat the input as plain text regardless of extension")
	generateCmd.Flags().Int("timeout", 300, "Processing timeout in seconds")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("generate")

	outputDir, _ := cmd.Flags().GetString("output-dir")
	forceText, _ := cmd.Flags().GetBool("text")
	timeoutSecs, _ := cmd.Flags().GetInt("timeout")

	inputPath := args[0]

	log.Info().
		Str("file", inputPath).
		Int("timeout", timeoutSecs).
		Msg("Starting invoice generation")

	cfg, err := config.Load()
	if err != nil {
		log.Error().Err(err).Msg("Configuration invalid")
		return fmt.Errorf("invalid configuration. Please check your .env file:\n"+
			"  OPENAI_API_KEY - your OpenAI API key\n"+
			"Original error: %w", err)
	}
	if outputDir != "" {
		cfg.OutputDir = outputDir
	}

	ctx, cancel := signalContext(timeoutSecs, log)
	defer cancel()

	content, err := readInvoiceText(ctx, inputPath, forceText, log)
	if err != nil {
		return err
	}

	service := invoice.NewGeneratorService(cfg)

	startTime := time.Now()
	result, err := service.GenerateInvoice(ctx, content)
	if err != nil {
		return handleGenerationError(err, log)
	}

	log.Info().
		Str("invoice_number", result.Document.InvoiceNumber).
		Str("supplier", result.Document.Supplier.Name).
		Str("payable", result.Document.PayableAmount.StringFixed(2)).
		Int("total_tokens", result.Usage.TotalTokens).
		Dur("duration", time.Since(startTime)).
		Msg("Invoice generation completed successfully")

	fmt.Printf("Invoice %s written to %s\n", result.Document.InvoiceNumber, result.FilePath)
	fmt.Printf("Tokens used: %d (prompt: %d, completion: %d)\n",
		result.Usage.TotalTokens, result.Usage.PromptTokens, result.Usage.CompletionTokens)

	return nil
}

// readInvoiceText reads the invoice as text, converting PDFs through
// Document AI first.
func readInvoiceText(ctx context.Context, inputPath string, forceText bool, log zerolog.Logger) (string, error) {
	if !forceText && strings.HasSuffix(strings.ToLower(inputPath), ".pdf") {
		if err := validatePDFPath(inputPath, log); err != nil {
			return "", err
		}

		converter, err := createConverter(ctx, log)
		if err != nil {
			return "", err
		}

		pdfFile, err := os.Open(inputPath)
		if err != nil {
			return "", fmt.Errorf("failed to open PDF file: %w", err)
		}
		defer func() {
			if closeErr := pdfFile.Close(); closeErr != nil {
				log.Warn().Err(closeErr).Msg("Failed to close PDF file")
			}
		}()

		text, err := converter.ConvertPDF(ctx, pdfFile)
		if err != nil {
			return "", handleConversionError(err, log)
		}

		log.Info().Int("chars", len(text)).Msg("PDF converted to text")
		return text, nil
	}

	content, err := os.ReadFile(inputPath)
	if err != nil {
		if os.IsNotExist(err) {
			log.Error().
				Str("file", inputPath).
				Msg("Invoice file not found")
			return "", fmt.Errorf("invoice file not found: %s", inputPath)
		}
		return "", fmt.Errorf("error reading invoice file: %w", err)
	}
	return string(content), nil
}

// signalContext creates a context with timeout and interrupt handling.
func signalContext(timeoutSecs int, log zerolog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeoutSecs)*time.Second)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigChan:
			log.Info().
				Str("signal", sig.String()).
				Msg("Received interrupt signal, canceling")
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}

// handleGenerationError provides user-friendly error messages for generation failures.
func handleGenerationError(err error, log zerolog.Logger) error {
	log.Error().Err(err).Msg("Invoice generation failed")

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("invoice generation timed out. Try increasing --timeout")
	case errors.Is(err, invoice.ErrGenerationCanceled) || errors.Is(err, context.Canceled):
		return fmt.Errorf("invoice generation was canceled")
	case errors.Is(err, invoice.ErrNoContent):
		return fmt.Errorf("the input file contains no text")
	case errors.Is(err, invoice.ErrNoData):
		return fmt.Errorf("no invoice data could be extracted. The text may not be a Danish invoice")
	case errors.Is(err, invoice.ErrExtractionFailed):
		return fmt.Errorf("OpenAI extraction failed. Check your OPENAI_API_KEY and network connection: %w", err)
	case errors.Is(err, invoice.ErrOutputWrite):
		return fmt.Errorf("could not write the XML file. Check permissions on the output directory: %w", err)
	default:
		return fmt.Errorf("invoice generation failed: %w", err)
	}
}
