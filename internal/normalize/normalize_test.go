package normalize

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fakturatools/internal/extract"
	"fakturatools/internal/registry"
)

func testNormalizer() *Normalizer {
	return New(Options{
		Now:     time.Date(2024, 5, 15, 10, 30, 0, 0, time.UTC),
		NewUUID: func() string { return "00000000-0000-0000-0000-000000000001" },
	})
}

func TestNormalizeDefaults(t *testing.T) {
	doc := testNormalizer().Normalize(extract.NewResult())

	assert.Equal(t, "INV-20240515103000", doc.InvoiceNumber)
	assert.Equal(t, "2024-05-15", doc.IssueDate)
	assert.Equal(t, "DKK", doc.Currency)
	assert.Equal(t, "1", doc.ContractID)

	assert.Equal(t, "Unknown Supplier", doc.Supplier.Name)
	assert.Equal(t, "Unknown Street", doc.Supplier.Street)
	assert.Equal(t, "Unknown City", doc.Supplier.City)
	assert.Equal(t, "0000", doc.Supplier.PostalZone)
	assert.Equal(t, "DK", doc.Supplier.Country)
	assert.Equal(t, "00000000", doc.Supplier.CVR)
	assert.Equal(t, "DK00000000", doc.Supplier.VAT)

	// Missing buyer identity gets visible placeholders; only address
	// and contact come from the default customer profile.
	assert.Equal(t, "Unknown Customer", doc.Customer.Name)
	assert.Equal(t, "N/A", doc.Customer.VAT)
	assert.Equal(t, "DK", doc.Customer.Country)
	assert.Equal(t, registry.DefaultCustomer().Street, doc.Customer.Street)
	assert.Equal(t, registry.DefaultCustomer().City, doc.Customer.City)
	assert.Equal(t, registry.DefaultCustomer().PostalCode, doc.Customer.PostalZone)

	// Order references default to the invoice number.
	assert.Equal(t, doc.InvoiceNumber, doc.SalesOrderID)
	assert.Equal(t, doc.InvoiceNumber, doc.CustomerReference)

	// 30 day default payment term.
	assert.Equal(t, "2024-06-14", doc.Payment.DueDate)
	assert.Equal(t, "30", doc.Payment.MeansCode)
}

func TestNormalizeSupplierVATSynthesis(t *testing.T) {
	res := extract.NewResult()
	res.Supplier.Name = "Aalborg VVS A/S"
	res.Supplier.CVR = "12 34 56 78"

	doc := testNormalizer().Normalize(res)
	assert.Equal(t, "12345678", doc.Supplier.CVR)
	assert.Equal(t, "DK12345678", doc.Supplier.VAT)
}

func TestNormalizeSupplierCVRFromVAT(t *testing.T) {
	res := extract.NewResult()
	res.Supplier.VAT = "DK47458714"

	doc := testNormalizer().Normalize(res)
	assert.Equal(t, "47458714", doc.Supplier.CVR)
	assert.Equal(t, "DK47458714", doc.Supplier.VAT)
}

func TestNormalizeSupplierGLNLength(t *testing.T) {
	res := extract.NewResult()
	res.Supplier.GLN = "579000012345" // 12 digits, not a GLN

	doc := testNormalizer().Normalize(res)
	assert.Empty(t, doc.Supplier.GLN)

	res.Supplier.GLN = "5790000123456"
	doc = testNormalizer().Normalize(res)
	assert.Equal(t, "5790000123456", doc.Supplier.GLN)
}

func TestNormalizeLineMath(t *testing.T) {
	res := extract.NewResult()
	res.LineItems = []extract.LineItemResult{
		{Description: "Kobberrør 15mm", Quantity: "3", Unit: "m", UnitPrice: "124,95", Discount: "10"},
		{Description: "Fittings", Quantity: "2", Unit: "stk", UnitPrice: "45,50"},
	}

	doc := testNormalizer().Normalize(res)
	require.Len(t, doc.Lines, 2)

	// 3 * 124.95 * 0.9 = 337.365 -> 337.37 rounded
	assert.Equal(t, "337.37", doc.Lines[0].LineAmount.StringFixed(2))
	assert.Equal(t, "112.46", doc.Lines[0].DiscountedUnitPrice.Round(2).StringFixed(2))
	assert.Equal(t, "84.34", doc.Lines[0].TaxAmount.StringFixed(2))

	assert.Equal(t, "91.00", doc.Lines[1].LineAmount.StringFixed(2))

	// The total sums unrounded line amounts: 337.365 + 91.00 = 428.365 -> 428.37
	assert.Equal(t, "428.37", doc.LineExtension.StringFixed(2))
	assert.Equal(t, "107.09", doc.TaxTotal.StringFixed(2))
	assert.Equal(t, doc.TaxTotal.StringFixed(2), doc.TaxExclusiveAmount.StringFixed(2))
	assert.Equal(t, "535.46", doc.TaxInclusiveAmount.StringFixed(2))
	assert.Equal(t, doc.TaxInclusiveAmount.StringFixed(2), doc.PayableAmount.StringFixed(2))
}

func TestNormalizeLineAmountFallback(t *testing.T) {
	res := extract.NewResult()
	res.LineItems = []extract.LineItemResult{
		{Description: "Servicebesøg", Amount: "1.250,00"},
	}

	doc := testNormalizer().Normalize(res)
	require.Len(t, doc.Lines, 1)
	assert.Equal(t, "1250.00", doc.Lines[0].LineAmount.StringFixed(2))
	assert.Equal(t, "1", doc.Lines[0].Quantity.String())
}

func TestNormalizeZeroQuantityLine(t *testing.T) {
	res := extract.NewResult()
	res.LineItems = []extract.LineItemResult{
		{Description: "Restordre", Quantity: "0", UnitPrice: "124,95", Amount: "124,95"},
		{Description: "Kobberrør 15mm", Quantity: "2", UnitPrice: "50,00"},
	}

	doc := testNormalizer().Normalize(res)
	require.Len(t, doc.Lines, 2)

	// A zero quantity yields a zero line, not the amount fallback.
	assert.Equal(t, "0.000", doc.Lines[0].Quantity.StringFixed(3))
	assert.Equal(t, "0.00", doc.Lines[0].LineAmount.StringFixed(2))
	assert.Equal(t, "100.00", doc.LineExtension.StringFixed(2))
	assert.Equal(t, "25.00", doc.TaxTotal.StringFixed(2))
}

func TestNormalizeCharges(t *testing.T) {
	res := extract.NewResult()
	res.LineItems = []extract.LineItemResult{
		{Description: "Varer", Quantity: "1", UnitPrice: "1000,00"},
	}
	res.EnvironmentalFee = "12,50 DKK"
	res.FreightFee = "49 kr"

	doc := testNormalizer().Normalize(res)
	assert.Equal(t, "12.50", doc.EnvironmentalFee.StringFixed(2))
	assert.Equal(t, "49.00", doc.FreightFee.StringFixed(2))
	assert.Equal(t, "61.50", doc.ChargeTotal.StringFixed(2))

	// 25% of 1000 = 250, 25% of 61.50 = 15.38
	assert.Equal(t, "265.38", doc.TaxTotal.StringFixed(2))
	assert.Equal(t, "1061.50", doc.TaxableAmount.StringFixed(2))
	assert.Equal(t, "1326.88", doc.TaxInclusiveAmount.StringFixed(2))
}

func TestNormalizeNoCharges(t *testing.T) {
	doc := testNormalizer().Normalize(extract.NewResult())
	assert.True(t, doc.ChargeTotal.IsZero())
}

func TestNormalizePaymentFIK(t *testing.T) {
	res := extract.NewResult()
	res.Payment = extract.PaymentResult{
		MethodType:    "FIK",
		PaymentID:     "71",
		InstructionID: "123456789012345",
		AccountID:     "123456",
	}
	res.PaymentMeansCode = "93"

	doc := testNormalizer().Normalize(res)
	assert.Equal(t, "93", doc.Payment.MeansCode)
	assert.Equal(t, "71", doc.Payment.PaymentID)
	assert.Equal(t, "00123456", doc.Payment.CreditAccount)
}

func TestNormalizePaymentFIKInvalidPaymentID(t *testing.T) {
	res := extract.NewResult()
	res.Payment = extract.PaymentResult{MethodType: "FIK", PaymentID: "99", AccountID: "123456789"}

	doc := testNormalizer().Normalize(res)
	assert.Equal(t, "71", doc.Payment.PaymentID)
	assert.Equal(t, "12345678", doc.Payment.CreditAccount)
}

func TestNormalizePaymentBankCombinedAccount(t *testing.T) {
	res := extract.NewResult()
	res.Payment = extract.PaymentResult{
		MethodType:  "BANK_TRANSFER",
		BankAccount: "1234-1234567890",
	}

	doc := testNormalizer().Normalize(res)
	assert.Equal(t, "42", doc.Payment.MeansCode)
	assert.Equal(t, "1234", doc.Payment.RegNumber)
	assert.Equal(t, "1234567890", doc.Payment.AccountNumber)
}

func TestNormalizePaymentBankDefaults(t *testing.T) {
	res := extract.NewResult()
	res.Payment = extract.PaymentResult{MethodType: "BANK_TRANSFER", RegNumber: "123"}

	doc := testNormalizer().Normalize(res)
	assert.Equal(t, "0123", doc.Payment.RegNumber)
	assert.Equal(t, "0000000000", doc.Payment.AccountNumber)
}

func TestNormalizePaymentMeansCodeRemap(t *testing.T) {
	cases := map[string]string{"71": "93", "73": "93", "75": "93", "77": "30"}
	for code, want := range cases {
		res := extract.NewResult()
		res.PaymentMeansCode = code
		doc := testNormalizer().Normalize(res)
		assert.Equal(t, want, doc.Payment.MeansCode, "code %s", code)
	}
}

func TestNormalizeDueDateFromDocument(t *testing.T) {
	res := extract.NewResult()
	res.InvoiceDate = "2024-03-01"
	res.DueDate = "2024-03-20"

	doc := testNormalizer().Normalize(res)
	assert.Equal(t, "2024-03-20", doc.Payment.DueDate)
}

func TestNormalizeUseDefaultCustomerOnly(t *testing.T) {
	n := New(Options{
		Now:                    time.Date(2024, 5, 15, 0, 0, 0, 0, time.UTC),
		NewUUID:                func() string { return "u" },
		UseDefaultCustomerOnly: true,
	})
	res := extract.NewResult()
	res.Customer.Name = "Extracted Buyer ApS"
	res.Customer.VAT = "DK11111111"

	doc := n.Normalize(res)
	assert.Equal(t, registry.DefaultCustomer().Name, doc.Customer.Name)
	assert.Equal(t, registry.DefaultCustomer().VAT, doc.Customer.VAT)
}

func TestNormalizeUnknownCustomerNotReplacedByProfile(t *testing.T) {
	n := New(Options{
		Now:     time.Date(2024, 5, 15, 0, 0, 0, 0, time.UTC),
		NewUUID: func() string { return "u" },
	})
	res := extract.NewResult()
	res.InvoiceNumber = "12345"

	// Without the policy switch an unidentified buyer must stay
	// visibly unknown, not be billed as the default customer.
	doc := n.Normalize(res)
	assert.Equal(t, "Unknown Customer", doc.Customer.Name)
	assert.Equal(t, "N/A", doc.Customer.VAT)
	assert.Equal(t, "DK", doc.Customer.Country)
}

func TestNormalizeTaxPercentFromDocument(t *testing.T) {
	res := extract.NewResult()
	res.TaxPercent = "12,5"
	res.LineItems = []extract.LineItemResult{{Quantity: "1", UnitPrice: "100"}}

	doc := testNormalizer().Normalize(res)
	assert.True(t, doc.TaxPercent.Equal(decimal.RequireFromString("12.5")), "unexpected tax percent")
	assert.Equal(t, "12.50", doc.TaxTotal.StringFixed(2))
}

func TestParseDecimal(t *testing.T) {
	cases := map[string]string{
		"1.250,50 DKK": "1250.5",
		"49 kr":        "49",
		"124,95":       "124.95",
		"0":            "0",
		"337.37":       "337.37",
	}
	for in, want := range cases {
		d, err := parseDecimal(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, d.String(), in)
	}

	_, err := parseDecimal("")
	assert.Error(t, err)
	_, err = parseDecimal("ikke et beløb")
	assert.Error(t, err)
}
