// Package extract turns raw invoice text into structured data using a
// deterministic header scan plus three targeted OpenAI calls: general
// per-chunk extraction, payment details, and additional charges.
package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"

	"fakturatools/internal/logger"
)

// Extractor runs the model calls and tracks their token usage.
type Extractor struct {
	client *openai.Client
	model  string
	usage  *UsageTracker
	log    zerolog.Logger
}

// NewExtractor creates an Extractor. The usage tracker is shared with
// the caller so a whole generation run accumulates into one total.
func NewExtractor(client *openai.Client, model string, usage *UsageTracker) *Extractor {
	return &Extractor{
		client: client,
		model:  model,
		usage:  usage,
		log:    logger.WithComponent("extract"),
	}
}

// Usage returns the shared usage tracker.
func (e *Extractor) Usage() *UsageTracker {
	return e.usage
}

// chat runs one chat completion and records its token usage.
func (e *Extractor) chat(ctx context.Context, system, user string, temperature float32, maxTokens int) (string, error) {
	resp, err := e.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       e.model,
		Temperature: temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		MaxTokens: maxTokens,
	})
	if err != nil {
		return "", err
	}

	e.usage.Add(resp.Usage.PromptTokens, resp.Usage.CompletionTokens)

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response choices from model")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// ExtractChunk runs the general extraction prompt over one text chunk.
// Returns nil rather than an error when the model output cannot be
// salvaged; the chunk is simply skipped.
func (e *Extractor) ExtractChunk(ctx context.Context, chunk string) (*ChunkResult, error) {
	const op = "ExtractChunk"

	content, err := e.chat(ctx, generalSystemPrompt, generalPrompt(chunk), 0.1, 1000)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result, err := DecodeChunkResult(content)
	if err != nil {
		e.log.Warn().
			Err(err).
			Str("response", content).
			Msg("Could not parse chunk extraction response, skipping chunk")
		return nil, nil
	}
	return result, nil
}

// ExtractPaymentDetails runs the payment prompt over the full invoice
// text. On any failure it falls back to an unspecified payment due in
// 30 days rather than failing the whole pipeline.
func (e *Extractor) ExtractPaymentDetails(ctx context.Context, content string) *PaymentResult {
	response, err := e.chat(ctx, paymentSystemPrompt, paymentPrompt(content), 0.0, 500)
	if err != nil {
		e.log.Error().Err(err).Msg("Payment details extraction failed, using defaults")
		return DefaultPaymentResult(time.Now())
	}

	result, err := DecodePaymentResult(response)
	if err != nil {
		e.log.Error().
			Err(err).
			Str("response", response).
			Msg("Could not parse payment details, using defaults")
		return DefaultPaymentResult(time.Now())
	}

	e.log.Info().
		Str("method", result.MethodType).
		Str("means_code", result.MeansCode.String()).
		Msg("Extracted payment details")
	return result
}

// ExtractAdditionalCharges runs the charges prompt over the full
// invoice text. Failures degrade to an empty result.
func (e *Extractor) ExtractAdditionalCharges(ctx context.Context, content string) *ChargesResult {
	response, err := e.chat(ctx, chargesSystemPrompt, chargesPrompt(content), 0.0, 500)
	if err != nil {
		e.log.Error().Err(err).Msg("Additional charges extraction failed")
		return &ChargesResult{}
	}

	result, err := DecodeChargesResult(response)
	if err != nil {
		e.log.Error().
			Err(err).
			Str("response", response).
			Msg("Could not parse additional charges")
		return &ChargesResult{}
	}

	if result.EnvironmentalFee != "" || result.ShippingFee != "" {
		e.log.Info().
			Str("environmental_fee", result.EnvironmentalFee.String()).
			Str("shipping_fee", result.ShippingFee.String()).
			Msg("Found additional charges")
	}
	return result
}

// DecodeChunkResult parses a general extraction response, attempting a
// JSON repair pass when the initial parse fails.
func DecodeChunkResult(content string) (*ChunkResult, error) {
	content = StripCodeFence(content)

	var result ChunkResult
	if err := json.Unmarshal([]byte(content), &result); err == nil {
		return &result, nil
	}

	fixed := RepairJSON(content)
	if err := json.Unmarshal([]byte(fixed), &result); err != nil {
		return nil, fmt.Errorf("could not repair JSON: %w", err)
	}
	return &result, nil
}

// DecodePaymentResult parses and validates a payment-details response.
func DecodePaymentResult(content string) (*PaymentResult, error) {
	content = TruncateToObject(StripCodeFence(content))

	var result PaymentResult
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		return nil, err
	}

	validatePayment(&result)
	return &result, nil
}

// DecodeChargesResult parses an additional-charges response.
func DecodeChargesResult(content string) (*ChargesResult, error) {
	content = StripCodeFence(content)
	if content == "" {
		return &ChargesResult{}, nil
	}

	var result ChargesResult
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// DefaultPaymentResult is the fallback when payment extraction fails:
// unspecified method, credit transfer code, due in 30 days.
func DefaultPaymentResult(now time.Time) *PaymentResult {
	return &PaymentResult{
		MethodType: "UNSPECIFIED",
		MeansCode:  "30",
		DueDate:    now.AddDate(0, 0, 30).Format("2006-01-02"),
	}
}

// validatePayment normalizes a parsed payment result per payment type.
func validatePayment(p *PaymentResult) {
	switch strings.ToUpper(p.MethodType) {
	case "FIK":
		if id := p.PaymentID.String(); id == "71" || id == "73" || id == "75" {
			instruction := strings.ReplaceAll(p.InstructionID.String(), " ", "")
			if len(instruction) == 15 {
				p.InstructionID = FlexString(instruction)
			}
			account := strings.ReplaceAll(p.AccountID.String(), " ", "")
			if len(account) == 8 {
				p.AccountID = FlexString(account)
			}
			p.MeansCode = "93"
		}
	case "BANK_TRANSFER":
		p.MeansCode = "42"
		if p.IBAN != "" {
			p.IBAN = strings.ToUpper(strings.ReplaceAll(p.IBAN, " ", ""))
		}
	default:
		if p.MeansCode == "" {
			p.MeansCode = "30"
		}
	}
}
