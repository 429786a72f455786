package invoice_test

import (
	"context"
	"fmt"
	"log"
	"time"

	"fakturatools/internal/config"
	"fakturatools/internal/invoice"
)

// ExampleDefaultGeneratorService_GenerateInvoice demonstrates the full
// pipeline: invoice text in, OIOUBL XML file out.
func ExampleDefaultGeneratorService_GenerateInvoice() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	service := invoice.NewGeneratorService(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	content := `Faktura 12345
Fakturadato: 2024-05-15
Aalborg VVS A/S
CVR: 47458714

Kobberrør 15mm    3 m    124,95    374,85`

	result, err := service.GenerateInvoice(ctx, content)
	if err != nil {
		log.Fatalf("Invoice generation failed: %v", err)
	}

	fmt.Printf("Invoice %s written to %s\n", result.Document.InvoiceNumber, result.FilePath)
	fmt.Printf("Tokens used: %d\n", result.Usage.TotalTokens)
}

// ExampleDefaultGeneratorService_ExtractInvoice demonstrates extraction
// without XML generation, for inspecting the normalized data.
func ExampleDefaultGeneratorService_ExtractInvoice() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	service := invoice.NewGeneratorService(cfg)

	doc, usage, err := service.ExtractInvoice(context.Background(), "Faktura 12345 ...")
	if err != nil {
		log.Fatalf("Extraction failed: %v", err)
	}

	fmt.Printf("Invoice %s from %s, payable %s %s\n",
		doc.InvoiceNumber, doc.Supplier.Name, doc.PayableAmount.StringFixed(2), doc.Currency)
	fmt.Printf("Prompt tokens: %d, completion tokens: %d\n", usage.PromptTokens, usage.CompletionTokens)
}
