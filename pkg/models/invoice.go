package models

import "github.com/shopspring/decimal"

// TokenUsage accumulates OpenAI token consumption across extraction calls.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Party identifies one side of an invoice (supplier or customer).
type Party struct {
	Name string // Registered company name

	// Danish companies carry two identifiers: the 8-digit CVR number and
	// the VAT (SE) number, normally "DK" followed by the CVR digits.
	CVR string
	VAT string

	// GLN is the 13-digit EAN location number, if known.
	GLN string

	// Address
	Street     string
	City       string
	PostalZone string
	Country    string // 2-letter code (DK, SE, ...)

	// Contact
	ContactName  string
	ContactPhone string
}

// PaymentDetails describes how the invoice is to be settled.
type PaymentDetails struct {
	// MethodType is "FIK", "BANK_TRANSFER" or "UNSPECIFIED".
	MethodType string

	// MeansCode is the OIOUBL payment means code: 93 for FIK payment
	// slips, 42 for bank transfers, 30 for plain credit transfer.
	MeansCode string

	// FIK payment slip fields (method FIK only).
	PaymentID     string // 71, 73 or 75
	InstructionID string // 15-digit instruction ID
	CreditAccount string // 8-digit creditor account

	// Bank transfer fields (method BANK_TRANSFER only).
	RegNumber     string // 4-digit bank registration number
	AccountNumber string
	IBAN          string
	BIC           string

	Terms   string
	DueDate string // YYYY-MM-DD
}

// LineItem is a single invoice line with computed monetary values.
type LineItem struct {
	Description string
	ItemNumber  string // Seller's item/product code
	GTIN        string // Standard item identification (EAN/GTIN)
	CatalogueID string

	Quantity decimal.Decimal
	Unit     string // Unit text as extracted ("stk", "m", ...)

	UnitPrice           decimal.Decimal // Original price before discount
	DiscountPercent     decimal.Decimal
	DiscountedUnitPrice decimal.Decimal

	// LineAmount is quantity times discounted unit price, rounded to
	// two decimals. TaxAmount is the VAT on that rounded amount.
	LineAmount decimal.Decimal
	TaxAmount  decimal.Decimal
}

// InvoiceDocument is the fully normalized invoice, ready for OIOUBL
// serialization. All monetary aggregates are computed; dates are
// YYYY-MM-DD strings as they appear in the XML.
type InvoiceDocument struct {
	InvoiceNumber string
	UUID          string
	IssueDate     string
	Currency      string
	Note          string

	// Order reference
	OrderNumber       string // Case/order number (SAGS. NR)
	SalesOrderID      string
	CustomerReference string
	OrderDate         string
	ContractID        string

	Supplier Party
	Customer Party

	Payment PaymentDetails

	Lines []LineItem

	// Additional document-level charges, zero when absent.
	EnvironmentalFee decimal.Decimal
	FreightFee       decimal.Decimal

	// Monetary totals. TaxExclusiveAmount deliberately carries the
	// total tax amount: the receiving OIOUBL validator expects it
	// there, not the net amount.
	TaxPercent         decimal.Decimal
	LineExtension      decimal.Decimal // Sum of line amounts
	ChargeTotal        decimal.Decimal // Sum of additional charges
	TaxTotal           decimal.Decimal // Line tax + tax on charges
	TaxableAmount      decimal.Decimal // Lines + charges
	TaxExclusiveAmount decimal.Decimal
	TaxInclusiveAmount decimal.Decimal
	PayableAmount      decimal.Decimal
}
