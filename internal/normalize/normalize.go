// Package normalize turns a merged extraction result into a complete
// invoice document: defaults applied, identifiers cleaned, and all
// monetary aggregates computed.
package normalize

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"fakturatools/internal/extract"
	"fakturatools/internal/logger"
	"fakturatools/internal/registry"
	"fakturatools/pkg/models"
)

// validMeansCodes are the payment means codes OIOUBL accepts.
var validMeansCodes = map[string]bool{
	"1": true, "10": true, "20": true, "31": true, "42": true,
	"48": true, "49": true, "50": true, "93": true, "97": true,
}

// Options configures normalization.
type Options struct {
	// TaxPercent is the VAT rate used when the document does not state
	// one. Zero means 25.
	TaxPercent decimal.Decimal

	// Now anchors generated identifiers and default dates. Zero means
	// time.Now().
	Now time.Time

	// NewUUID overrides UUID generation, for deterministic tests.
	NewUUID func() string

	// DefaultCustomer fills in buyer fields the document does not
	// provide. UseDefaultCustomerOnly ignores extracted buyer data
	// entirely.
	DefaultCustomer        registry.CustomerProfile
	UseDefaultCustomerOnly bool
}

// Normalizer applies Options to extraction results.
type Normalizer struct {
	opts Options
	log  zerolog.Logger
}

// New creates a Normalizer, filling unset options with defaults.
func New(opts Options) *Normalizer {
	if opts.TaxPercent.IsZero() {
		opts.TaxPercent = decimal.NewFromInt(25)
	}
	if opts.NewUUID == nil {
		opts.NewUUID = uuid.NewString
	}
	if opts.DefaultCustomer == (registry.CustomerProfile{}) {
		opts.DefaultCustomer = registry.DefaultCustomer()
	}
	return &Normalizer{opts: opts, log: logger.WithComponent("normalize")}
}

// Normalize builds the invoice document from an extraction result.
func (n *Normalizer) Normalize(res *extract.Result) *models.InvoiceDocument {
	now := n.opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	doc := &models.InvoiceDocument{
		InvoiceNumber: res.InvoiceNumber,
		UUID:          n.opts.NewUUID(),
		IssueDate:     res.InvoiceDate,
		Currency:      res.Currency,
		ContractID:    "1",
	}

	if doc.InvoiceNumber == "" {
		doc.InvoiceNumber = "INV-" + now.Format("20060102150405")
		n.log.Warn().Str("invoice_number", doc.InvoiceNumber).Msg("No invoice number extracted, generated one")
	}
	if doc.IssueDate == "" {
		doc.IssueDate = now.Format("2006-01-02")
	}
	if doc.Currency == "" {
		doc.Currency = "DKK"
	}

	doc.Payment = n.normalizePayment(res, doc.IssueDate, now)

	taxPercent := n.opts.TaxPercent
	if res.TaxPercent != "" {
		if p, err := parseDecimal(strings.TrimSuffix(res.TaxPercent, "%")); err == nil && p.IsPositive() {
			taxPercent = p
		}
	}
	doc.TaxPercent = taxPercent

	doc.Supplier = n.normalizeSupplier(res)
	doc.Customer = n.normalizeCustomer(res)

	// Order references all fall back to the invoice number.
	doc.OrderNumber = res.OrderNumber
	doc.SalesOrderID = doc.InvoiceNumber
	doc.CustomerReference = res.CustomerReference
	if doc.CustomerReference == "" {
		doc.CustomerReference = doc.InvoiceNumber
	}
	doc.OrderDate = doc.IssueDate

	n.computeMoney(doc, res, taxPercent)

	return doc
}

// normalizeSupplier cleans supplier identifiers. The CVR is forced to
// 8 digits and the VAT number to "DK" plus those digits; either can be
// synthesized from the other.
func (n *Normalizer) normalizeSupplier(res *extract.Result) models.Party {
	p := models.Party{
		Name:    res.Supplier.Name,
		GLN:     res.Supplier.GLN,
		Street:  res.Supplier.Street,
		City:    res.Supplier.City,
		Country: res.Supplier.Country,
	}
	p.PostalZone = res.Supplier.PostalCode

	if p.Name == "" {
		p.Name = "Unknown Supplier"
	}
	if p.Street == "" {
		p.Street = "Unknown Street"
	}
	if p.City == "" {
		p.City = "Unknown City"
	}
	if p.PostalZone == "" {
		p.PostalZone = "0000"
	}
	if p.Country == "" {
		p.Country = "DK"
	}
	p.ContactName = p.Name

	cvr := res.Supplier.CVR
	if cvr == "" {
		if vat := res.Supplier.VAT; strings.HasPrefix(vat, "DK") && len(vat) >= 10 {
			cvr = vat[2:]
		} else if vat != "" && digitsOnly(vat) == vat && len(vat) == 8 {
			// Registry lookups store the bare CVR in the VAT field
			cvr = vat
		}
	}
	cvr = digitsOnly(cvr)
	if len(cvr) != 8 {
		if cvr != "" {
			n.log.Warn().Str("cvr", cvr).Msg("Invalid supplier CVR format, using default")
		}
		cvr = "00000000"
	}
	p.CVR = cvr

	vat := res.Supplier.VAT
	if vat == "" || len(vat) < 10 {
		vat = "DK" + cvr
	}
	if !strings.HasPrefix(vat, "DK") {
		vat = "DK" + vat
	}
	vat = alnumOnly(vat)
	if len(vat) != 10 || !strings.HasPrefix(vat, "DK") {
		vat = "DK" + cvr
	}
	p.VAT = vat

	// Only a full 13-digit GLN is usable in the XML.
	if len(p.GLN) != 13 {
		p.GLN = ""
	}

	return p
}

// normalizeCustomer fills missing buyer fields, or replaces the buyer
// with the default customer profile entirely when configured so.
func (n *Normalizer) normalizeCustomer(res *extract.Result) models.Party {
	def := n.opts.DefaultCustomer

	if n.opts.UseDefaultCustomerOnly {
		return models.Party{
			Name:         def.Name,
			VAT:          def.VAT,
			Street:       def.Street,
			City:         def.City,
			PostalZone:   def.PostalCode,
			Country:      def.Country,
			ContactName:  def.ContactName,
			ContactPhone: def.ContactPhone,
		}
	}

	// Identity fields get visible placeholders when extraction found
	// nothing; only address and contact fall back to the profile.
	p := models.Party{
		Name:         fallback(res.Customer.Name, "Unknown Customer"),
		VAT:          fallback(res.Customer.VAT, "N/A"),
		CVR:          digitsOnly(res.Customer.CVR),
		Street:       fallback(res.Customer.Street, def.Street),
		City:         fallback(res.Customer.City, def.City),
		PostalZone:   fallback(res.Customer.PostalCode, def.PostalCode),
		Country:      fallback(res.Customer.Country, "DK"),
		ContactName:  def.ContactName,
		ContactPhone: def.ContactPhone,
	}
	return p
}

// normalizePayment validates the payment means code and formats FIK
// and bank account identifiers.
func (n *Normalizer) normalizePayment(res *extract.Result, issueDate string, now time.Time) models.PaymentDetails {
	p := models.PaymentDetails{
		MethodType: strings.ToUpper(res.Payment.MethodType),
		Terms:      res.PaymentTerms,
		DueDate:    res.DueDate,
		IBAN:       res.Payment.IBAN,
		BIC:        res.Payment.BIC,
	}

	if p.DueDate == "" {
		if issued, err := time.Parse("2006-01-02", issueDate); err == nil {
			p.DueDate = issued.AddDate(0, 0, 30).Format("2006-01-02")
		} else {
			p.DueDate = now.AddDate(0, 0, 30).Format("2006-01-02")
		}
	}

	code := res.PaymentMeansCode
	switch {
	case code == "":
		switch p.MethodType {
		case "FIK":
			code = "93"
		case "BANK_TRANSFER":
			code = "42"
		default:
			code = "30"
		}
	case !validMeansCodes[code]:
		mapped := "30"
		if code == "71" || code == "73" || code == "75" {
			mapped = "93"
		} else if p.MethodType == "BANK_TRANSFER" {
			mapped = "42"
		}
		n.log.Info().Str("from", code).Str("to", mapped).Msg("Mapped invalid payment means code")
		code = mapped
	}
	p.MeansCode = code

	if p.MethodType == "FIK" || code == "93" {
		paymentID := res.Payment.PaymentID.String()
		if paymentID != "71" && paymentID != "73" && paymentID != "75" {
			if paymentID != "" {
				n.log.Warn().Str("payment_id", paymentID).Msg("Invalid FIK payment ID, defaulting to 71")
			}
			paymentID = "71"
		}
		p.PaymentID = paymentID
		p.InstructionID = strings.TrimSpace(res.Payment.InstructionID.String())

		account := strings.TrimSpace(res.Payment.AccountID.String())
		if len(account) > 8 {
			account = account[:8]
		}
		p.CreditAccount = zfill(account, 8)
	}

	if p.MethodType == "BANK_TRANSFER" || code == "42" {
		reg := strings.TrimSpace(res.Payment.RegNumber.String())
		account := strings.TrimSpace(res.Payment.AccountNumber.String())

		if account == "" && res.Payment.BankAccount != "" {
			combined := strings.NewReplacer(" ", "", "-", "").Replace(res.Payment.BankAccount.String())
			if len(combined) > 10 {
				if reg == "" {
					reg = combined[:4]
				}
				account = combined[len(combined)-10:]
			} else {
				account = combined
			}
		}

		if reg == "" {
			reg = "0000"
		}
		if account == "" {
			account = "0000000000"
		}
		p.RegNumber = zfill(reg, 4)
		p.AccountNumber = account
	}

	return p
}

// computeMoney derives line amounts and the document totals. Line
// amounts are summed unrounded before the final rounding, so the total
// can differ by a few øre from the sum of the individually rounded
// line amounts; the serializer reconciles that drift.
func (n *Normalizer) computeMoney(doc *models.InvoiceDocument, res *extract.Result, taxPercent decimal.Decimal) {
	taxRate := taxPercent.Div(decimal.NewFromInt(100))

	var rawLineTotal, lineTaxTotal decimal.Decimal

	for _, item := range res.LineItems {
		line := models.LineItem{
			Description: item.Description,
			ItemNumber:  item.ItemNumber.String(),
			GTIN:        fallback(item.GTIN.String(), item.EAN.String()),
			CatalogueID: item.CatalogueID.String(),
			Unit:        item.Unit,
		}

		qty, err := parseDecimal(item.Quantity.String())
		// An explicit zero quantity is a real zero line, not missing data.
		qtyZero := err == nil && qty.IsZero()
		if err != nil {
			qty = decimal.NewFromInt(1)
		}
		line.Quantity = qty

		unitPrice, err := parseDecimal(item.UnitPrice.String())
		if err != nil {
			unitPrice = decimal.Zero
		}
		line.UnitPrice = unitPrice

		discount := decimal.Zero
		if d := strings.TrimSpace(strings.TrimSuffix(item.Discount.String(), "%")); d != "" {
			if parsed, err := parseDecimal(d); err == nil {
				discount = parsed
			}
		}
		line.DiscountPercent = discount

		line.DiscountedUnitPrice = unitPrice.Mul(decimal.NewFromInt(1).Sub(discount.Div(decimal.NewFromInt(100))))

		raw := qty.Mul(line.DiscountedUnitPrice)
		if raw.IsZero() && !qtyZero && item.Amount != "" {
			if amount, err := parseDecimal(item.Amount.String()); err == nil {
				raw = amount
			}
		}

		line.LineAmount = raw.Round(2)
		line.TaxAmount = line.LineAmount.Mul(taxRate).Round(2)

		rawLineTotal = rawLineTotal.Add(raw)
		lineTaxTotal = lineTaxTotal.Add(raw.Mul(taxRate).Round(2))

		doc.Lines = append(doc.Lines, line)
	}

	doc.LineExtension = rawLineTotal.Round(2)

	doc.EnvironmentalFee = parseAmount(res.EnvironmentalFee)
	doc.FreightFee = parseAmount(res.FreightFee)
	charges := doc.EnvironmentalFee.Add(doc.FreightFee)

	var taxOnCharges decimal.Decimal
	if charges.IsPositive() {
		taxOnCharges = charges.Mul(taxRate).Round(2)
		doc.ChargeTotal = charges
	}

	totalTax := lineTaxTotal.Add(taxOnCharges)

	doc.TaxTotal = totalTax
	doc.TaxExclusiveAmount = totalTax
	doc.TaxableAmount = doc.LineExtension.Add(charges)
	doc.TaxInclusiveAmount = doc.LineExtension.Add(totalTax).Add(charges)
	doc.PayableAmount = doc.TaxInclusiveAmount
}

// parseAmount parses a Danish amount string such as "1.250,50 DKK".
// Unparseable values become zero.
func parseAmount(s string) decimal.Decimal {
	d, err := parseDecimal(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func parseDecimal(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "DKK", "")
	s = strings.ReplaceAll(s, "kr", "")
	s = strings.ReplaceAll(s, " ", "")
	// "1.250,50" carries a thousands dot; bare "1.250" is ambiguous and
	// read as a decimal point.
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}
	if s == "" {
		return decimal.Zero, fmt.Errorf("empty amount")
	}
	return decimal.NewFromString(s)
}

func zfill(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat("0", width-len(s)) + s
}

func fallback(value, def string) string {
	if value != "" {
		return value
	}
	return def
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func alnumOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
