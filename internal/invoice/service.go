// Package invoice turns the plain text of a Danish PDF invoice into an
// OIOUBL 2.02 XML document.
//
// The pipeline chunks the text, pins the invoice number with a
// deterministic header scan, runs three OpenAI extraction passes
// (general fields per chunk, payment details, additional charges),
// enriches the result from the company registry, normalizes it into a
// complete invoice document and serializes it as OIOUBL XML.
package invoice

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
	"github.com/shopspring/decimal"

	"fakturatools/internal/chunk"
	"fakturatools/internal/config"
	"fakturatools/internal/extract"
	"fakturatools/internal/logger"
	"fakturatools/internal/normalize"
	"fakturatools/internal/oioubl"
	"fakturatools/internal/registry"
	"fakturatools/pkg/models"
)

// chunkDelay spaces out the per-chunk OpenAI calls to stay under rate
// limits.
const chunkDelay = time.Second

// filenameSanitizer replaces everything outside [A-Za-z0-9_-] in the
// invoice number before it becomes part of the output filename.
var filenameSanitizer = regexp.MustCompile(`[^\w\-]`)

// GenerationResult is the outcome of a successful generation run.
type GenerationResult struct {
	// FilePath is where the XML document was written.
	FilePath string

	// Document is the normalized invoice the XML was built from.
	Document *models.InvoiceDocument

	// XML is the serialized OIOUBL document.
	XML string

	// Usage sums the tokens spent across all OpenAI calls.
	Usage models.TokenUsage
}

// InvoiceGenerator defines the interface for invoice generation services.
type InvoiceGenerator interface {
	// GenerateInvoice extracts invoice data from document text and
	// writes an OIOUBL XML file.
	GenerateInvoice(ctx context.Context, content string) (*GenerationResult, error)

	// ExtractInvoice runs extraction and normalization only, returning
	// the invoice document without serializing it.
	ExtractInvoice(ctx context.Context, content string) (*models.InvoiceDocument, models.TokenUsage, error)
}

// DefaultGeneratorService implements InvoiceGenerator using OpenAI for
// extraction.
type DefaultGeneratorService struct {
	splitter   chunk.Splitter
	extractor  *extract.Extractor
	registry   *registry.Registry
	normalizer *normalize.Normalizer
	builder    *oioubl.Builder
	outputDir  string
	delay      time.Duration
	log        zerolog.Logger
}

// NewGeneratorService wires the pipeline from configuration.
func NewGeneratorService(cfg *config.Config) *DefaultGeneratorService {
	client := openai.NewClient(cfg.OpenAIAPIKey)

	return &DefaultGeneratorService{
		splitter:  chunk.NewSplitter(),
		extractor: extract.NewExtractor(client, cfg.OpenAIModel, extract.NewUsageTracker()),
		registry:  registry.Load(cfg.CompanyRegistryPath),
		normalizer: normalize.New(normalize.Options{
			TaxPercent:             decimal.NewFromFloat(cfg.TaxPercent),
			DefaultCustomer:        registry.LoadCustomer(cfg.DefaultCustomerPath),
			UseDefaultCustomerOnly: cfg.UseDefaultCustomerOnly,
		}),
		builder:   oioubl.NewBuilder(),
		outputDir: cfg.OutputDir,
		delay:     chunkDelay,
		log:       logger.WithComponent("invoice"),
	}
}

// GenerateInvoice extracts invoice data from document text and writes
// an OIOUBL XML file.
func (s *DefaultGeneratorService) GenerateInvoice(ctx context.Context, content string) (result *GenerationResult, err error) {
	const op = "GenerateInvoice"

	// Model output is untrusted; a malformed response must surface as
	// an error, never a crash.
	defer func() {
		if r := recover(); r != nil {
			s.log.Error().Interface("panic", r).Msg("Recovered from panic during invoice generation")
			result = nil
			err = WrapGenerationError(op, ErrExtractionFailed, fmt.Sprintf("panic: %v", r))
		}
	}()

	doc, usage, err := s.ExtractInvoice(ctx, content)
	if err != nil {
		return nil, err
	}

	xmlOut, err := s.builder.Build(doc)
	if err != nil {
		return nil, &GenerationError{Op: op, Err: ErrXMLGeneration, Details: err.Error(), InvoiceNumber: doc.InvoiceNumber}
	}

	path, err := s.writeOutput(doc.InvoiceNumber, xmlOut)
	if err != nil {
		return nil, &GenerationError{Op: op, Err: ErrOutputWrite, Details: err.Error(), InvoiceNumber: doc.InvoiceNumber}
	}

	s.log.Info().
		Str("invoice_number", doc.InvoiceNumber).
		Str("file", path).
		Int("total_tokens", usage.TotalTokens).
		Msg("Invoice generated")

	return &GenerationResult{
		FilePath: path,
		Document: doc,
		XML:      xmlOut,
		Usage:    usage,
	}, nil
}

// ExtractInvoice runs extraction and normalization only, returning the
// invoice document without serializing it.
func (s *DefaultGeneratorService) ExtractInvoice(ctx context.Context, content string) (*models.InvoiceDocument, models.TokenUsage, error) {
	const op = "ExtractInvoice"

	if strings.TrimSpace(content) == "" {
		return nil, models.TokenUsage{}, WrapGenerationError(op, ErrNoContent, "")
	}

	s.extractor.Usage().Reset()

	res := extract.NewResult()

	header := extract.ScanHeader(content)
	if header.InvoiceNumber != "" {
		s.log.Info().Str("invoice_number", header.InvoiceNumber).Msg("Invoice number found in document header")
	}
	res.ApplyHeader(header)

	res.ApplyCharges(s.extractor.ExtractAdditionalCharges(ctx, content))

	chunks := s.splitter.Split(content)
	s.log.Info().Int("chunks", len(chunks)).Msg("Extracting invoice fields")

	for i, part := range chunks {
		if i > 0 && s.delay > 0 {
			select {
			case <-time.After(s.delay):
			case <-ctx.Done():
				return nil, models.TokenUsage{}, WrapGenerationError(op, ErrGenerationCanceled, ctx.Err().Error())
			}
		}

		chunkRes, err := s.extractor.ExtractChunk(ctx, part)
		if err != nil {
			if ctx.Err() != nil {
				return nil, models.TokenUsage{}, WrapGenerationError(op, ErrGenerationCanceled, ctx.Err().Error())
			}
			// A failed chunk contributes nothing; the rest of the
			// document can still produce a usable invoice.
			s.log.Warn().Err(err).Int("chunk", i+1).Int("chunks", len(chunks)).Msg("Chunk extraction failed, skipping")
			continue
		}
		if chunkRes == nil {
			s.log.Warn().Int("chunk", i+1).Msg("Skipping chunk with unparseable model output")
			continue
		}
		res.ApplyChunk(chunkRes)
	}

	// The dedicated payment pass wins over payment fields the general
	// chunks picked up.
	res.ApplyPayment(s.extractor.ExtractPaymentDetails(ctx, content))

	if res.Empty() {
		return nil, models.TokenUsage{}, WrapGenerationError(op, ErrNoData, "")
	}

	s.registry.Enrich(res)
	res.RecoverOrderReference(content)

	doc := s.normalizer.Normalize(res)
	return doc, s.extractor.Usage().Snapshot(), nil
}

// writeOutput writes the XML next to other generated invoices, naming
// the file after the invoice number and generation time.
func (s *DefaultGeneratorService) writeOutput(invoiceNumber, xmlOut string) (string, error) {
	if err := os.MkdirAll(s.outputDir, 0o755); err != nil {
		return "", err
	}

	name := fmt.Sprintf("invoice_%s_%s.xml",
		filenameSanitizer.ReplaceAllString(invoiceNumber, "_"),
		time.Now().Format("20060102150405"))

	path := filepath.Join(s.outputDir, name)
	if err := os.WriteFile(path, []byte(xmlOut), 0o644); err != nil {
		return "", err
	}
	return path, nil
}
