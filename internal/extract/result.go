package extract

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// FlexString decodes a JSON value that models return inconsistently as
// either a string, a number or null.
type FlexString string

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	// Render whole numbers without a trailing ".000000"
	if i, err := n.Int64(); err == nil {
		*f = FlexString(strconv.FormatInt(i, 10))
		return nil
	}
	*f = FlexString(n.String())
	return nil
}

// String returns the underlying string value.
func (f FlexString) String() string {
	return string(f)
}

// LineItemResult is one invoice line as returned by the general
// extraction call.
type LineItemResult struct {
	ItemNumber  FlexString `json:"item_number"`
	Description string     `json:"description"`
	Quantity    FlexString `json:"quantity"`
	Unit        string     `json:"unit"`
	UnitPrice   FlexString `json:"unit_price"`
	Discount    FlexString `json:"discount"`
	Amount      FlexString `json:"amount"`
	GTIN        FlexString `json:"gtin"`
	EAN         FlexString `json:"ean"`
	CatalogueID FlexString `json:"catalog_id"`
}

// ChunkResult holds the optional fields the general extraction call may
// find in a single chunk. Absent fields stay empty and never overwrite
// values found in earlier chunks.
type ChunkResult struct {
	InvoiceNumber  FlexString `json:"invoice_number"`
	BillingAccount FlexString `json:"billing_account"`
	InvoiceDate    string     `json:"invoice_date"`
	DueDate        string     `json:"due_date"`
	Currency       string     `json:"currency"`

	CustomerReference string     `json:"customer_reference"`
	OrderNumber       FlexString `json:"order_number"`

	CustomerName       string     `json:"customer_name"`
	CustomerCVR        FlexString `json:"customer_cvr"`
	CustomerVAT        FlexString `json:"customer_vat"`
	CustomerStreet     string     `json:"customer_street"`
	CustomerCity       string     `json:"customer_city"`
	CustomerPostalCode FlexString `json:"customer_postal_code"`
	CustomerCountry    string     `json:"customer_country"`

	SupplierName       string     `json:"supplier_name"`
	SupplierCVR        FlexString `json:"supplier_cvr"`
	SupplierVAT        FlexString `json:"supplier_vat"`
	SupplierStreet     string     `json:"supplier_street"`
	SupplierCity       string     `json:"supplier_city"`
	SupplierPostalCode FlexString `json:"supplier_postal_code"`
	SupplierCountry    string     `json:"supplier_country"`

	Subtotal         FlexString `json:"subtotal"`
	TaxAmount        FlexString `json:"tax_amount"`
	TaxPercent       FlexString `json:"tax_percent"`
	TotalAmount      FlexString `json:"total_amount"`
	PaymentTerms     string     `json:"payment_terms"`
	PaymentMeansCode FlexString `json:"payment_means_code"`

	LineItems []LineItemResult `json:"line_items"`
}

// PaymentResult holds the fields of the dedicated payment-details call.
type PaymentResult struct {
	MethodType string     `json:"payment_method_type"`
	MeansCode  FlexString `json:"payment_means_code"`

	// FIK payment slip
	InstructionID FlexString `json:"instruction_id"`
	PaymentID     FlexString `json:"payment_id"`
	AccountID     FlexString `json:"account_id"`

	// Bank transfer
	BankAccount   FlexString `json:"bank_account"`
	RegNumber     FlexString `json:"reg_number"`
	AccountNumber FlexString `json:"account_number"`
	IBAN          string     `json:"iban"`
	BIC           string     `json:"bic"`

	Terms   string `json:"payment_terms"`
	DueDate string `json:"payment_due_date"`
}

// OtherCharge is a charge the additional-charges call could not
// classify as environmental or freight.
type OtherCharge struct {
	Description string     `json:"description"`
	Amount      FlexString `json:"amount"`
}

// ChargesResult holds the fields of the additional-charges call.
type ChargesResult struct {
	EnvironmentalFee     FlexString    `json:"environmental_fee"`
	EnvironmentalFeeText string        `json:"environmental_fee_description"`
	ShippingFee          FlexString    `json:"shipping_fee"`
	ShippingFeeText      string        `json:"shipping_fee_description"`
	OtherCharges         []OtherCharge `json:"other_charges"`
	SubtotalBefore       FlexString    `json:"subtotal_before_charges"`
	SubtotalWith         FlexString    `json:"subtotal_with_charges"`
}

// PartyFields collects the per-party fields of the merged result.
type PartyFields struct {
	Name       string
	CVR        string
	VAT        string
	GLN        string
	Street     string
	City       string
	PostalCode string
	Country    string
}

// Result accumulates everything extracted for one invoice. Chunks are
// merged last-write-wins, except the invoice number: once the
// deterministic header scan has pinned it, model output cannot replace
// it.
type Result struct {
	InvoiceNumber       string
	invoiceNumberPinned bool

	BillingAccount string
	InvoiceDate    string
	DueDate        string
	Currency       string

	CustomerReference string
	OrderNumber       string

	Supplier PartyFields
	Customer PartyFields

	Subtotal         string
	TaxAmount        string
	TaxPercent       string
	TotalAmount      string
	PaymentTerms     string
	PaymentMeansCode string

	Payment PaymentResult

	EnvironmentalFee string
	FreightFee       string

	LineItems []LineItemResult
}

// NewResult returns an empty accumulator.
func NewResult() *Result {
	return &Result{}
}

// PinInvoiceNumber records a deterministically extracted invoice number
// and protects it against later model output.
func (r *Result) PinInvoiceNumber(number string) {
	if number == "" {
		return
	}
	r.InvoiceNumber = number
	r.invoiceNumberPinned = true
}

// InvoiceNumberPinned reports whether the invoice number came from the
// deterministic header scan.
func (r *Result) InvoiceNumberPinned() bool {
	return r.invoiceNumberPinned
}

// Empty reports whether nothing at all was extracted.
func (r *Result) Empty() bool {
	return r.InvoiceNumber == "" &&
		r.InvoiceDate == "" &&
		r.Supplier.Name == "" &&
		r.Customer.Name == "" &&
		r.TotalAmount == "" &&
		len(r.LineItems) == 0
}
