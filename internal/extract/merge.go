package extract

import (
	"regexp"
	"strings"
)

// ApplyHeader merges deterministically scanned header fields into the
// result. The invoice number, when found, is pinned.
func (r *Result) ApplyHeader(h HeaderFields) {
	r.PinInvoiceNumber(h.InvoiceNumber)
	if h.InvoiceDate != "" {
		r.InvoiceDate = h.InvoiceDate
	}
	if h.BillingAccount != "" {
		r.BillingAccount = h.BillingAccount
	}
}

// ApplyChunk merges one chunk's extraction result. Later chunks win
// for scalar fields; line items accumulate across chunks. A pinned
// invoice number is never overwritten.
func (r *Result) ApplyChunk(c *ChunkResult) {
	if c == nil {
		return
	}

	if !r.invoiceNumberPinned {
		setIfPresent(&r.InvoiceNumber, c.InvoiceNumber.String())
	}
	setIfPresent(&r.BillingAccount, c.BillingAccount.String())
	setIfPresent(&r.InvoiceDate, c.InvoiceDate)
	setIfPresent(&r.DueDate, c.DueDate)
	setIfPresent(&r.Currency, c.Currency)

	setIfPresent(&r.CustomerReference, c.CustomerReference)
	setIfPresent(&r.OrderNumber, c.OrderNumber.String())

	setIfPresent(&r.Customer.Name, c.CustomerName)
	setIfPresent(&r.Customer.CVR, c.CustomerCVR.String())
	setIfPresent(&r.Customer.VAT, c.CustomerVAT.String())
	setIfPresent(&r.Customer.Street, c.CustomerStreet)
	setIfPresent(&r.Customer.City, c.CustomerCity)
	setIfPresent(&r.Customer.PostalCode, c.CustomerPostalCode.String())
	setIfPresent(&r.Customer.Country, c.CustomerCountry)

	setIfPresent(&r.Supplier.Name, c.SupplierName)
	setIfPresent(&r.Supplier.CVR, c.SupplierCVR.String())
	setIfPresent(&r.Supplier.VAT, c.SupplierVAT.String())
	setIfPresent(&r.Supplier.Street, c.SupplierStreet)
	setIfPresent(&r.Supplier.City, c.SupplierCity)
	setIfPresent(&r.Supplier.PostalCode, c.SupplierPostalCode.String())
	setIfPresent(&r.Supplier.Country, c.SupplierCountry)

	setIfPresent(&r.Subtotal, c.Subtotal.String())
	setIfPresent(&r.TaxAmount, c.TaxAmount.String())
	setIfPresent(&r.TaxPercent, c.TaxPercent.String())
	setIfPresent(&r.TotalAmount, c.TotalAmount.String())
	setIfPresent(&r.PaymentTerms, c.PaymentTerms)
	setIfPresent(&r.PaymentMeansCode, c.PaymentMeansCode.String())

	r.LineItems = append(r.LineItems, c.LineItems...)
}

// ApplyPayment merges the payment-details result.
func (r *Result) ApplyPayment(p *PaymentResult) {
	if p == nil {
		return
	}
	r.Payment = *p
	if p.MeansCode != "" {
		r.PaymentMeansCode = p.MeansCode.String()
	}
	setIfPresent(&r.PaymentTerms, p.Terms)
	setIfPresent(&r.DueDate, p.DueDate)
}

// ApplyCharges merges the additional-charges result.
func (r *Result) ApplyCharges(c *ChargesResult) {
	if c == nil {
		return
	}
	setIfPresent(&r.EnvironmentalFee, c.EnvironmentalFee.String())
	setIfPresent(&r.FreightFee, c.ShippingFee.String())
}

func setIfPresent(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}

var (
	sagsNrRe  = regexp.MustCompile(`SAGS\.\s*NR.*?[:\.\s]+(\d+)`)
	kundeNrRe = regexp.MustCompile(`KUNDE\s*NR.*?[:\.\s]+(\d+)`)
)

// maxOrderNumberLen bounds what passes as a case/order number; longer
// values from the model are usually some other number off the page.
const maxOrderNumberLen = 8

// RecoverOrderReference validates the model-extracted order number and
// falls back to pattern matching against the raw text when it is
// missing or implausible. Danish invoices label the case number
// "SAGS. NR." and sometimes only carry a customer number "KUNDE NR.".
// As a last resort a short invoice number doubles as order reference.
func (r *Result) RecoverOrderReference(content string) {
	if r.OrderNumber != "" && len(r.OrderNumber) <= maxOrderNumberLen {
		// Model output looks plausible
	} else {
		r.OrderNumber = ""
		for _, line := range strings.Split(content, "\n") {
			if strings.Contains(line, "SAGS. NR") {
				if m := sagsNrRe.FindStringSubmatch(line); m != nil {
					r.OrderNumber = m[1]
					break
				}
			}
		}
	}

	if r.OrderNumber == "" {
		for _, line := range strings.Split(content, "\n") {
			if strings.Contains(line, "KUNDE NR") {
				if m := kundeNrRe.FindStringSubmatch(line); m != nil {
					r.OrderNumber = m[1]
					break
				}
			}
		}
	}

	if r.OrderNumber == "" && r.InvoiceNumber != "" && len(r.InvoiceNumber) <= maxOrderNumberLen {
		r.OrderNumber = r.InvoiceNumber
	}

	// OCR mangles Danish letters in a known reference
	if strings.Contains(r.CustomerReference, "Fztex Zlgod") {
		r.CustomerReference = "Føtex Ølgod"
	}
}
