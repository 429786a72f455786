package extract

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyChunkLastWriteWins(t *testing.T) {
	r := NewResult()

	r.ApplyChunk(&ChunkResult{SupplierName: "Danfoss", Currency: "DKK"})
	r.ApplyChunk(&ChunkResult{SupplierName: "Danfoss A/S"})

	assert.Equal(t, "Danfoss A/S", r.Supplier.Name)
	assert.Equal(t, "DKK", r.Currency, "absent field must not clear earlier value")
}

func TestApplyChunkPinnedInvoiceNumberSurvives(t *testing.T) {
	r := NewResult()
	r.ApplyHeader(HeaderFields{InvoiceNumber: "112262"})

	r.ApplyChunk(&ChunkResult{InvoiceNumber: "999999"})

	assert.Equal(t, "112262", r.InvoiceNumber)
	assert.True(t, r.InvoiceNumberPinned())
}

func TestApplyChunkUnpinnedInvoiceNumberUpdates(t *testing.T) {
	r := NewResult()

	r.ApplyChunk(&ChunkResult{InvoiceNumber: "3341219"})

	assert.Equal(t, "3341219", r.InvoiceNumber)
	assert.False(t, r.InvoiceNumberPinned())
}

func TestApplyChunkAccumulatesLineItems(t *testing.T) {
	r := NewResult()

	r.ApplyChunk(&ChunkResult{LineItems: []LineItemResult{{Description: "skrue"}}})
	r.ApplyChunk(&ChunkResult{LineItems: []LineItemResult{{Description: "møtrik"}, {Description: "bolt"}}})

	require.Len(t, r.LineItems, 3)
	assert.Equal(t, "skrue", r.LineItems[0].Description)
	assert.Equal(t, "bolt", r.LineItems[2].Description)
}

func TestApplyPaymentOverridesMeansCode(t *testing.T) {
	r := NewResult()
	r.ApplyChunk(&ChunkResult{PaymentMeansCode: "30"})

	r.ApplyPayment(&PaymentResult{
		MethodType: "FIK",
		MeansCode:  "93",
		PaymentID:  "71",
		AccountID:  "12345678",
		DueDate:    "2024-06-01",
	})

	assert.Equal(t, "93", r.PaymentMeansCode)
	assert.Equal(t, "2024-06-01", r.DueDate)
	assert.Equal(t, "71", r.Payment.PaymentID.String())
}

func TestRecoverOrderReferenceFromSagsNr(t *testing.T) {
	r := NewResult()
	content := "KUNDE NR. 88220\nSAGS. NR.: 4028204\n"

	r.RecoverOrderReference(content)

	assert.Equal(t, "4028204", r.OrderNumber)
}

func TestRecoverOrderReferenceRejectsLongModelValue(t *testing.T) {
	r := NewResult()
	r.OrderNumber = "123456789012" // too long to be a case number
	content := "SAGS. NR. 4028204\n"

	r.RecoverOrderReference(content)

	assert.Equal(t, "4028204", r.OrderNumber)
}

func TestRecoverOrderReferenceKundeNrFallback(t *testing.T) {
	r := NewResult()

	r.RecoverOrderReference("KUNDE NR.: 88220\n")

	assert.Equal(t, "88220", r.OrderNumber)
}

func TestRecoverOrderReferenceInvoiceNumberLastResort(t *testing.T) {
	r := NewResult()
	r.InvoiceNumber = "112262"

	r.RecoverOrderReference("ingen referencer her\n")

	assert.Equal(t, "112262", r.OrderNumber)
}

func TestRecoverOrderReferenceFixesEncoding(t *testing.T) {
	r := NewResult()
	r.CustomerReference = "Fztex Zlgod"

	r.RecoverOrderReference("")

	assert.Equal(t, "Føtex Ølgod", r.CustomerReference)
}

func TestDefaultPaymentResult(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	p := DefaultPaymentResult(now)

	assert.Equal(t, "UNSPECIFIED", p.MethodType)
	assert.Equal(t, "30", p.MeansCode.String())
	assert.Equal(t, "2024-05-31", p.DueDate)
}

func TestUsageTrackerConcurrentAdds(t *testing.T) {
	tracker := NewUsageTracker()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tracker.Add(10, 5)
		}()
	}
	wg.Wait()

	usage := tracker.Snapshot()
	assert.Equal(t, 500, usage.PromptTokens)
	assert.Equal(t, 250, usage.CompletionTokens)
	assert.Equal(t, 750, usage.TotalTokens)

	tracker.Reset()
	assert.Zero(t, tracker.Snapshot().TotalTokens)
}
