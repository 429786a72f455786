package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"fakturatools/internal/config"
	"fakturatools/internal/invoice"
	"fakturatools/internal/logger"
	"fakturatools/pkg/models"
)

var extractCmd = &cobra.Command{
	Use:   "extract [invoice-file]",
	Short: "Extract structured invoice data without generating XML",
	Long: `Run extraction and normalization on a Danish invoice and print the
structured result as JSON, without writing an OIOUBL document.

Files ending in .pdf are first converted to text with Google Document
AI; anything else is read as plain text (use --text to force text
mode). Useful for inspecting what the pipeline sees before generating
XML.

Required environment variables:
  OPENAI_API_KEY - Your OpenAI API key`,
	Example: `  # Print extracted invoice data as JSON
  fakturatools extract invoice.pdf

  # Save extracted data to a JSON file
  fakturatools extract invoice.txt -o invoice-data.json`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

// ExtractOutput represents the JSON output structure for extraction.
type ExtractOutput struct {
	// Invoice contains the normalized invoice data.
	Invoice InvoiceData `json:"invoice"`

	// Metadata contains processing information.
	Metadata ExtractionMetadata `json:"metadata"`
}

// InvoiceData represents the normalized invoice information.
type InvoiceData struct {
	InvoiceNumber     string     `json:"invoice_number"`
	IssueDate         string     `json:"issue_date"`
	DueDate           string     `json:"due_date"`
	Currency          string     `json:"currency"`
	OrderNumber       string     `json:"order_number,omitempty"`
	CustomerReference string     `json:"customer_reference,omitempty"`
	Supplier          PartyData  `json:"supplier"`
	Customer          PartyData  `json:"customer"`
	PaymentMethod     string     `json:"payment_method"`
	PaymentMeansCode  string     `json:"payment_means_code"`
	Lines             []LineData `json:"lines"`
	LineExtension     string     `json:"line_extension_amount"`
	ChargeTotal       string     `json:"charge_total_amount,omitempty"`
	TaxTotal          string     `json:"tax_total_amount"`
	PayableAmount     string     `json:"payable_amount"`
}

// PartyData represents one side of the invoice.
type PartyData struct {
	Name string `json:"name"`
	CVR  string `json:"cvr,omitempty"`
	VAT  string `json:"vat,omitempty"`
	GLN  string `json:"gln,omitempty"`
	City string `json:"city,omitempty"`
}

// LineData represents a single invoice line.
type LineData struct {
	Description string `json:"description"`
	Quantity    string `json:"quantity"`
	Unit        string `json:"unit,omitempty"`
	UnitPrice   string `json:"unit_price"`
	LineAmount  string `json:"line_amount"`
}

// ExtractionMetadata contains information about the extraction run.
type ExtractionMetadata struct {
	FileName    string            `json:"file_name"`
	ProcessedAt time.Time         `json:"processed_at"`
	Duration    time.Duration     `json:"duration"`
	Usage       models.TokenUsage `json:"token_usage"`
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().StringP("output", "o", "", "Output file path (default: stdout)")
	extractCmd.Flags().Bool("text", false, "Treat the input as plain text regardless of extension")
	extractCmd.Flags().Int("timeout", 300, "Processing timeout in seconds")
}

func runExtract(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("extract")

	outputPath, _ := cmd.Flags().GetString("output")
	forceText, _ := cmd.Flags().GetBool("text")
	timeoutSecs, _ := cmd.Flags().GetInt("timeout")

	inputPath := args[0]

	log.Info().
		Str("file", inputPath).
		Msg("Starting invoice extraction")

	cfg, err := config.Load()
	if err != nil {
		log.Error().Err(err).Msg("Configuration invalid")
		return fmt.Errorf("invalid configuration: %w", err)
	}

	ctx, cancel := signalContext(timeoutSecs, log)
	defer cancel()

	content, err := readInvoiceText(ctx, inputPath, forceText, log)
	if err != nil {
		return err
	}

	service := invoice.NewGeneratorService(cfg)

	startTime := time.Now()
	doc, usage, err := service.ExtractInvoice(ctx, content)
	if err != nil {
		return handleGenerationError(err, log)
	}

	output := ExtractOutput{
		Invoice: convertToInvoiceData(doc),
		Metadata: ExtractionMetadata{
			FileName:    inputPath,
			ProcessedAt: time.Now(),
			Duration:    time.Since(startTime),
			Usage:       usage,
		},
	}

	log.Info().
		Str("invoice_number", doc.InvoiceNumber).
		Int("lines", len(doc.Lines)).
		Int("total_tokens", usage.TotalTokens).
		Msg("Invoice extraction completed successfully")

	return outputExtractResults(output, outputPath, log)
}

// convertToInvoiceData flattens the invoice document for JSON output.
func convertToInvoiceData(doc *models.InvoiceDocument) InvoiceData {
	data := InvoiceData{
		InvoiceNumber:     doc.InvoiceNumber,
		IssueDate:         doc.IssueDate,
		DueDate:           doc.Payment.DueDate,
		Currency:          doc.Currency,
		OrderNumber:       doc.OrderNumber,
		CustomerReference: doc.CustomerReference,
		Supplier: PartyData{
			Name: doc.Supplier.Name,
			CVR:  doc.Supplier.CVR,
			VAT:  doc.Supplier.VAT,
			GLN:  doc.Supplier.GLN,
			City: doc.Supplier.City,
		},
		Customer: PartyData{
			Name: doc.Customer.Name,
			VAT:  doc.Customer.VAT,
			City: doc.Customer.City,
		},
		PaymentMethod:    doc.Payment.MethodType,
		PaymentMeansCode: doc.Payment.MeansCode,
		LineExtension:    doc.LineExtension.StringFixed(2),
		TaxTotal:         doc.TaxTotal.StringFixed(2),
		PayableAmount:    doc.PayableAmount.StringFixed(2),
	}

	if doc.ChargeTotal.IsPositive() {
		data.ChargeTotal = doc.ChargeTotal.StringFixed(2)
	}

	for _, line := range doc.Lines {
		data.Lines = append(data.Lines, LineData{
			Description: line.Description,
			Quantity:    line.Quantity.StringFixed(3),
			Unit:        line.Unit,
			UnitPrice:   line.UnitPrice.StringFixed(2),
			LineAmount:  line.LineAmount.StringFixed(2),
		})
	}

	return data
}

// outputExtractResults formats and outputs the extraction results as JSON.
func outputExtractResults(output ExtractOutput, outputPath string, log zerolog.Logger) error {
	jsonData, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal invoice data to JSON")
		return fmt.Errorf("failed to create JSON output: %w", err)
	}

	if outputPath != "" {
		if err := os.WriteFile(outputPath, jsonData, 0644); err != nil {
			log.Error().
				Err(err).
				Str("output_file", outputPath).
				Msg("Failed to write output file")
			return fmt.Errorf("failed to write output file: %w", err)
		}

		log.Info().
			Str("output_file", outputPath).
			Int("bytes", len(jsonData)).
			Msg("Invoice data written to file")
		return nil
	}

	if _, err := os.Stdout.Write(jsonData); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	fmt.Println()
	return nil
}
