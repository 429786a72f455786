package invoice

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fakturatools/internal/config"
)

func testService(t *testing.T) *DefaultGeneratorService {
	t.Helper()
	svc := NewGeneratorService(&config.Config{
		OpenAIAPIKey: "test-key",
		OpenAIModel:  "gpt-4o",
		OutputDir:    t.TempDir(),
		TaxPercent:   25,
	})
	svc.delay = 0
	return svc
}

func TestGenerateInvoiceRejectsEmptyContent(t *testing.T) {
	svc := testService(t)

	_, err := svc.GenerateInvoice(context.Background(), "")
	assert.ErrorIs(t, err, ErrNoContent)

	_, err = svc.GenerateInvoice(context.Background(), "   \n\t ")
	assert.ErrorIs(t, err, ErrNoContent)
}

func TestWriteOutputSanitizesFilename(t *testing.T) {
	svc := testService(t)

	path, err := svc.writeOutput("FA 2024/117", "<Invoice/>")
	require.NoError(t, err)

	name := filepath.Base(path)
	assert.True(t, strings.HasPrefix(name, "invoice_FA_2024_117_"), "got %s", name)
	assert.True(t, strings.HasSuffix(name, ".xml"))
}

func TestGenerationErrorWrapping(t *testing.T) {
	err := WrapGenerationError("GenerateInvoice", ErrNoData, "")
	assert.ErrorIs(t, err, ErrNoData)
	assert.Contains(t, err.Error(), "GenerateInvoice")

	// Already-wrapped errors keep their original operation.
	again := WrapGenerationError("Outer", err, "")
	var genErr *GenerationError
	require.True(t, errors.As(again, &genErr))
	assert.Equal(t, "GenerateInvoice", genErr.Op)

	withInvoice := &GenerationError{Op: "GenerateInvoice", Err: ErrXMLGeneration, InvoiceNumber: "12345"}
	assert.Contains(t, withInvoice.Error(), "12345")

	assert.Nil(t, WrapGenerationError("GenerateInvoice", nil, ""))
}
