package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeChunkResultPlainJSON(t *testing.T) {
	content := `{
		"invoice_number": 3341219,
		"supplier_name": "Danfoss A/S",
		"supplier_cvr": "20165715",
		"tax_percent": 25,
		"line_items": [
			{"description": "ventil", "quantity": 5, "unit": "stk", "unit_price": "120,50"}
		]
	}`

	result, err := DecodeChunkResult(content)
	require.NoError(t, err)

	assert.Equal(t, "3341219", result.InvoiceNumber.String())
	assert.Equal(t, "Danfoss A/S", result.SupplierName)
	assert.Equal(t, "25", result.TaxPercent.String())
	require.Len(t, result.LineItems, 1)
	assert.Equal(t, "5", result.LineItems[0].Quantity.String())
	assert.Equal(t, "120,50", result.LineItems[0].UnitPrice.String())
}

func TestDecodeChunkResultFencedAndBroken(t *testing.T) {
	content := "```json\n{\"supplier_name\": \"Lemvigh-Müller\", \"line_items\": [{\"description\": \"rør\"}\n```"

	result, err := DecodeChunkResult(content)
	require.NoError(t, err)

	assert.Equal(t, "Lemvigh-Müller", result.SupplierName)
	require.Len(t, result.LineItems, 1)
}

func TestDecodePaymentResultFIK(t *testing.T) {
	content := `{
		"payment_method_type": "FIK",
		"payment_means_code": 71,
		"payment_id": "71",
		"instruction_id": "123 456 789 012 345",
		"account_id": "9876 5432",
		"payment_due_date": "2024-06-15"
	}`

	result, err := DecodePaymentResult(content)
	require.NoError(t, err)

	assert.Equal(t, "93", result.MeansCode.String(), "FIK always maps to means code 93")
	assert.Equal(t, "123456789012345", result.InstructionID.String())
	assert.Equal(t, "98765432", result.AccountID.String())
}

func TestDecodePaymentResultBankTransferNormalizesIBAN(t *testing.T) {
	content := `{
		"payment_method_type": "BANK_TRANSFER",
		"iban": "dk50 0040 0440 1162 43",
		"bic": "NDEADKKK"
	}`

	result, err := DecodePaymentResult(content)
	require.NoError(t, err)

	assert.Equal(t, "42", result.MeansCode.String())
	assert.Equal(t, "DK5000400440116243", result.IBAN)
}

func TestDecodePaymentResultUnspecifiedDefaultsMeansCode(t *testing.T) {
	result, err := DecodePaymentResult(`{"payment_method_type": "UNSPECIFIED"}`)
	require.NoError(t, err)
	assert.Equal(t, "30", result.MeansCode.String())
}

func TestDecodePaymentResultTrailingProse(t *testing.T) {
	content := `{"payment_method_type": "UNSPECIFIED", "payment_means_code": "30"} The invoice has no payment info.`

	result, err := DecodePaymentResult(content)
	require.NoError(t, err)
	assert.Equal(t, "UNSPECIFIED", result.MethodType)
}

func TestDecodeChargesResult(t *testing.T) {
	content := "```json\n{\"environmental_fee\": \"190,64\", \"shipping_fee\": 141.00}\n```"

	result, err := DecodeChargesResult(content)
	require.NoError(t, err)

	assert.Equal(t, "190,64", result.EnvironmentalFee.String())
	assert.Equal(t, "141.00", result.ShippingFee.String())
}

func TestDecodeChargesResultEmptyResponse(t *testing.T) {
	result, err := DecodeChargesResult("")
	require.NoError(t, err)
	assert.Empty(t, result.EnvironmentalFee)
}
