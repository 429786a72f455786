package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScanHeaderInlineNumber(t *testing.T) {
	content := "Danfoss A/S\nFaktura 112262\nFakturadato 2024-03-01\n"

	fields := ScanHeader(content)

	assert.Equal(t, "112262", fields.InvoiceNumber)
}

func TestScanHeaderInlineNumberWithSeparators(t *testing.T) {
	fields := ScanHeader("Faktura 2024-0042\n")
	assert.Equal(t, "2024-0042", fields.InvoiceNumber)
}

func TestScanHeaderRejectsNonNumeric(t *testing.T) {
	fields := ScanHeader("Faktura vedlagt\n")
	assert.Empty(t, fields.InvoiceNumber)
}

func TestScanHeaderBareLabelThenNumber(t *testing.T) {
	content := "Faktura\n\n\n421900\n"

	fields := ScanHeader(content)

	assert.Equal(t, "421900", fields.InvoiceNumber)
}

func TestScanHeaderColumnLayout(t *testing.T) {
	content := `Fakturadato
Fakturakonto
Nummer
2024-05-12
10233
3341219
`

	fields := ScanHeader(content)

	assert.Equal(t, "2024-05-12", fields.InvoiceDate)
	assert.Equal(t, "10233", fields.BillingAccount)
	assert.Equal(t, "3341219", fields.InvoiceNumber)
}

func TestScanHeaderColumnLayoutKeepsInlineNumber(t *testing.T) {
	// The inline "Faktura 112262" wins; the column still provides date
	// and account.
	content := `Faktura 112262

Fakturadato
Fakturakonto
Nummer
2024-05-12
10233
999999
`

	fields := ScanHeader(content)

	assert.Equal(t, "112262", fields.InvoiceNumber)
	assert.Equal(t, "2024-05-12", fields.InvoiceDate)
	assert.Equal(t, "10233", fields.BillingAccount)
}

func TestScanHeaderNothingFound(t *testing.T) {
	fields := ScanHeader("Almindelig tekst uden labels\n")
	assert.Equal(t, HeaderFields{}, fields)
}
