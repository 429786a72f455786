package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fakturatools/internal/extract"
)

func TestLookupCVRSubstringMatch(t *testing.T) {
	r := Load("")

	cvr, ok := r.LookupCVR("Danfoss A/S, Nordborg")
	require.True(t, ok)
	assert.Equal(t, "20165715", cvr)
}

func TestLookupCVRCaseInsensitive(t *testing.T) {
	r := Load("")

	cvr, ok := r.LookupCVR("NOVO NORDISK A/S")
	require.True(t, ok)
	assert.Equal(t, "24256790", cvr)
}

func TestLookupCVRUnknownCompany(t *testing.T) {
	r := Load("")

	_, ok := r.LookupCVR("Helt Ukendt Firma ApS")
	assert.False(t, ok)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "companies.json")
	content := `{"company_cvr_map": {"acme": "11223344"}}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	r := Load(path)

	cvr, ok := r.LookupCVR("ACME Industries")
	require.True(t, ok)
	assert.Equal(t, "11223344", cvr)

	// The file replaces the built-in mapping entirely.
	_, ok = r.LookupCVR("Danfoss")
	assert.False(t, ok)
}

func TestLoadMissingFileFallsBack(t *testing.T) {
	r := Load("/nonexistent/companies.json")

	_, ok := r.LookupCVR("Carlsberg Breweries A/S")
	assert.True(t, ok)
}

func TestEnrichFillsMissingIdentifiers(t *testing.T) {
	r := Load("")
	res := extract.NewResult()
	res.Supplier.Name = "Danfoss A/S"
	res.Customer.Name = "LEGO System A/S"

	r.Enrich(res)

	assert.Equal(t, "20165715", res.Supplier.VAT)
	assert.Equal(t, "5790000345678", res.Supplier.GLN)
	assert.Equal(t, "47458714", res.Customer.VAT)
}

func TestEnrichKeepsDocumentValues(t *testing.T) {
	r := Load("")
	res := extract.NewResult()
	res.Supplier.Name = "Danfoss A/S"
	res.Supplier.VAT = "DK99999999"

	r.Enrich(res)

	assert.Equal(t, "DK99999999", res.Supplier.VAT, "identifier from the document must win")
}

func TestLoadCustomerBuiltin(t *testing.T) {
	c := LoadCustomer("")

	assert.Equal(t, "Nordsjælland Teknik ApS", c.Name)
	assert.Equal(t, "DK29847156", c.VAT)
	assert.Equal(t, "3400", c.PostalCode)
}

func TestLoadCustomerFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "customer.json")
	content := `{"default_customer": {"name": "Testkunde A/S", "vat": "DK11111111", "country": "DK"}}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	c := LoadCustomer(path)

	assert.Equal(t, "Testkunde A/S", c.Name)
	assert.Equal(t, "DK11111111", c.VAT)
}

func TestLoadCustomerInvalidFileFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "customer.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0644))

	c := LoadCustomer(path)

	assert.Equal(t, "Nordsjælland Teknik ApS", c.Name)
}
