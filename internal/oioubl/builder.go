package oioubl

import (
	"encoding/xml"
	"fmt"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"fakturatools/internal/logger"
	"fakturatools/pkg/models"
)

const (
	nsInvoice = "urn:oasis:names:specification:ubl:schema:xsd:Invoice-2"
	nsCac     = "urn:oasis:names:specification:ubl:schema:xsd:CommonAggregateComponents-2"
	nsCbc     = "urn:oasis:names:specification:ubl:schema:xsd:CommonBasicComponents-2"
	nsCcts    = "urn:un:unece:uncefact:documentation:2"
	nsExt     = "urn:oasis:names:specification:ubl:schema:xsd:CommonExtensionComponents-2"
	nsQdt     = "urn:oasis:names:specification:ubl:schema:xsd:QualifiedDatatypes-2"
	nsUdt     = "urn:un:unece:uncefact:data:specification:UnqualifiedDataTypesSchemaModule:2"
	nsXsi     = "http://www.w3.org/2001/XMLSchema-instance"

	schemaLocation = nsInvoice + " UBL-Invoice-2.0.xsd"

	codeListAgency = "320"
)

// reconcileLimit is the largest rounding drift the builder corrects by
// adjusting a line amount. Larger differences indicate an extraction
// problem and are left for the recipient to see.
var reconcileLimit = decimal.RequireFromString("0.1")

// Builder renders invoice documents as OIOUBL 2.02 XML.
type Builder struct {
	log zerolog.Logger
}

// NewBuilder creates a Builder.
func NewBuilder() *Builder {
	return &Builder{log: logger.WithComponent("oioubl")}
}

// Build serializes the document. The returned string includes the XML
// declaration.
func (b *Builder) Build(doc *models.InvoiceDocument) (string, error) {
	const op = "oioubl.Build"

	b.reconcile(doc)

	inv := &Invoice{
		Xmlns:          nsInvoice,
		XmlnsCac:       nsCac,
		XmlnsCbc:       nsCbc,
		XmlnsCcts:      nsCcts,
		XmlnsExt:       nsExt,
		XmlnsQdt:       nsQdt,
		XmlnsUdt:       nsUdt,
		XmlnsXsi:       nsXsi,
		SchemaLocation: schemaLocation,

		UBLVersionID:    "2.0",
		CustomizationID: "OIOUBL-2.02",
		ProfileID: CodeValue{
			SchemeAgencyID: codeListAgency,
			SchemeID:       "urn:oioubl:id:profileid-1.2",
			Value:          "urn:www.nesubl.eu:profiles:profile5:ver2.0",
		},

		ID:            doc.InvoiceNumber,
		CopyIndicator: "false",
		UUID:          doc.UUID,
		IssueDate:     doc.IssueDate,
		InvoiceTypeCode: CodeValue{
			ListAgencyID: codeListAgency,
			ListID:       "urn:oioubl:codelist:invoicetypecode-1.1",
			Value:        "380",
		},
		Note:             doc.Note,
		DocumentCurrency: doc.Currency,
		LineCountNumeric: strconv.Itoa(len(doc.Lines)),

		InvoicePeriod: Period{StartDate: doc.IssueDate},
		OrderReference: &OrderReference{
			ID:           doc.CustomerReference,
			SalesOrderID: doc.OrderNumber,
			IssueDate:    doc.OrderDate,
		},
		ContractDocumentReference: &DocumentReference{
			ID: IDValue{SchemeID: "CT", Value: doc.ContractID},
		},
	}

	supplier := b.supplierParty(doc)
	inv.AccountingSupplierParty = SupplierParty{Party: supplier}
	inv.AccountingCustomerParty = CustomerParty{Party: b.customerParty(doc)}

	// The seller party mirrors the supplier without an endpoint, and
	// its legal entity carries the VAT number rather than the CVR.
	seller := supplier
	seller.EndpointID = nil
	seller.PartyLegalEntity.CompanyID = IDValue{SchemeID: "DK:CVR", Value: doc.Supplier.VAT}
	inv.SellerSupplierParty = SupplierParty{Party: seller}

	inv.PaymentMeans = b.paymentMeans(doc)
	inv.PaymentTerms = PaymentTerms{
		ID:                        "1",
		PaymentMeansID:            "1",
		SettlementDiscountPercent: "0.00",
		Amount:                    b.amount(doc, doc.PayableAmount),
		SettlementPeriod:          SettlementPeriod{EndDate: doc.Payment.DueDate},
	}

	inv.AllowanceCharge = b.allowanceCharges(doc)

	inv.TaxTotal = TaxTotal{
		TaxAmount: b.amount(doc, doc.TaxTotal),
		TaxSubtotal: []TaxSubtotal{{
			TaxableAmount: b.amount(doc, doc.TaxableAmount),
			TaxAmount:     b.amount(doc, doc.TaxTotal),
			TaxCategory:   b.taxCategory(doc),
		}},
	}

	inv.LegalMonetaryTotal = MonetaryTotal{
		LineExtensionAmount: b.amount(doc, doc.LineExtension),
		TaxExclusiveAmount:  b.amount(doc, doc.TaxExclusiveAmount),
		TaxInclusiveAmount:  b.amount(doc, doc.TaxInclusiveAmount),
		PayableAmount:       b.amount(doc, doc.PayableAmount),
	}
	if doc.ChargeTotal.IsPositive() {
		charge := b.amount(doc, doc.ChargeTotal)
		inv.LegalMonetaryTotal.ChargeTotalAmount = &charge
	}

	for i, line := range doc.Lines {
		inv.InvoiceLines = append(inv.InvoiceLines, b.invoiceLine(doc, i, line))
	}

	out, err := xml.MarshalIndent(inv, "", "  ")
	if err != nil {
		return "", fmt.Errorf("%s: marshaling invoice %s: %w", op, doc.InvoiceNumber, err)
	}
	return xml.Header + string(out), nil
}

// reconcile absorbs sub-øre rounding drift between the document total
// and the individually rounded line amounts into the last substantial
// line.
func (b *Builder) reconcile(doc *models.InvoiceDocument) {
	if len(doc.Lines) == 0 {
		return
	}

	var rendered decimal.Decimal
	for _, line := range doc.Lines {
		rendered = rendered.Add(line.LineAmount)
	}

	diff := doc.LineExtension.Sub(rendered)
	if diff.IsZero() || diff.Abs().GreaterThanOrEqual(reconcileLimit) {
		return
	}

	threshold := decimal.RequireFromString("0.01")
	for i := len(doc.Lines) - 1; i >= 0; i-- {
		if doc.Lines[i].LineAmount.GreaterThan(threshold) {
			doc.Lines[i].LineAmount = doc.Lines[i].LineAmount.Add(diff)
			b.log.Info().
				Int("line", i+1).
				Str("adjustment", diff.StringFixed(2)).
				Msg("Reconciled rounding difference on invoice line")
			return
		}
	}
}

func (b *Builder) amount(doc *models.InvoiceDocument, d decimal.Decimal) Amount {
	return Amount{CurrencyID: doc.Currency, Value: d.StringFixed(2)}
}

func (b *Builder) taxCategory(doc *models.InvoiceDocument) TaxCategory {
	return TaxCategory{
		ID: CodeValue{
			SchemeAgencyID: codeListAgency,
			SchemeID:       "urn:oioubl:id:taxcategoryid-1.1",
			Value:          "StandardRated",
		},
		Percent:   doc.TaxPercent.StringFixed(2),
		TaxScheme: momsScheme(),
	}
}

func momsScheme() TaxScheme {
	return TaxScheme{
		ID: CodeValue{
			SchemeAgencyID: codeListAgency,
			SchemeID:       "urn:oioubl:id:taxschemeid-1.1",
			Value:          "63",
		},
		Name: "Moms",
	}
}

func structuredAddress(street, city, zone, country string) Address {
	return Address{
		AddressFormatCode: CodeValue{
			ListAgencyID: codeListAgency,
			ListID:       "urn:oioubl:codelist:addressformatcode-1.1",
			Value:        "StructuredDK",
		},
		StreetName:     street,
		BuildingNumber: ".",
		CityName:       city,
		PostalZone:     zone,
		Country:        Country{IdentificationCode: country},
	}
}

func (b *Builder) supplierParty(doc *models.InvoiceDocument) Party {
	s := doc.Supplier

	p := Party{
		EndpointID:    &IDValue{SchemeID: "DK:CVR", Value: "DK" + s.CVR},
		PartyName:     PartyName{Name: s.Name},
		PostalAddress: structuredAddress(s.Street, s.City, s.PostalZone, s.Country),
		PartyTaxScheme: &PartyTaxScheme{
			CompanyID: IDValue{SchemeID: "DK:SE", Value: s.VAT},
			TaxScheme: momsScheme(),
		},
		PartyLegalEntity: PartyLegalEntity{
			RegistrationName: s.Name,
			CompanyID:        IDValue{SchemeID: "DK:CVR", Value: "DK" + s.CVR},
		},
		Contact: Contact{ID: "n/a", Name: s.ContactName},
	}

	if s.GLN != "" {
		p.PartyIdentification = &PartyIdentification{
			ID: IDValue{SchemeAgencyID: "9", SchemeID: "GLN", Value: s.GLN},
		}
	}

	return p
}

// customerParty deliberately carries no PartyTaxScheme; NemHandel
// rejects buyer tax schemes on domestic invoices.
func (b *Builder) customerParty(doc *models.InvoiceDocument) Party {
	c := doc.Customer

	return Party{
		EndpointID: &IDValue{SchemeID: "DK:CVR", Value: c.VAT},
		PartyIdentification: &PartyIdentification{
			ID: IDValue{SchemeID: "DK:CVR", Value: c.VAT},
		},
		PartyName:     PartyName{Name: c.Name},
		PostalAddress: structuredAddress(c.Street, c.City, c.PostalZone, c.Country),
		PartyLegalEntity: PartyLegalEntity{
			RegistrationName: c.Name,
			CompanyID:        IDValue{SchemeID: "DK:CVR", Value: c.VAT},
		},
		Contact: Contact{ID: "n/a", Name: c.ContactName, Telephone: c.ContactPhone},
	}
}

func (b *Builder) paymentMeans(doc *models.InvoiceDocument) PaymentMeans {
	p := doc.Payment

	pm := PaymentMeans{
		ID:               "1",
		PaymentMeansCode: p.MeansCode,
		PaymentDueDate:   p.DueDate,
	}

	switch p.MeansCode {
	case "93":
		pm.PaymentChannelCode = &CodeValue{
			ListAgencyID: codeListAgency,
			ListID:       "urn:oioubl:codelist:paymentchannelcode-1.1",
			Value:        "DK:FIK",
		}
		pm.InstructionID = p.InstructionID
		pm.PaymentID = &CodeValue{
			SchemeAgencyID: codeListAgency,
			SchemeID:       "urn:oioubl:id:paymentid-1.1",
			Value:          p.PaymentID,
		}
		pm.CreditAccount = &CreditAccount{AccountID: p.CreditAccount}
	case "42":
		pm.PaymentChannelCode = &CodeValue{
			ListAgencyID: codeListAgency,
			ListID:       "urn:oioubl:codelist:paymentchannelcode-1.1",
			Value:        "DK:BANK",
		}
		account := &PayeeFinancialAccount{
			ID:                         p.AccountNumber,
			Name:                       doc.Supplier.Name,
			FinancialInstitutionBranch: &FinancialInstitutionBranch{ID: p.RegNumber},
		}
		if p.BIC != "" {
			account.FinancialInstitutionBranch.FinancialInstitution = &FinancialInstitution{
				ID: IDValue{SchemeID: "BIC", Value: p.BIC},
			}
		}
		pm.PayeeFinancialAccount = account
	}

	return pm
}

func (b *Builder) allowanceCharges(doc *models.InvoiceDocument) []AllowanceCharge {
	var charges []AllowanceCharge

	add := func(code, reason string, fee decimal.Decimal) {
		if !fee.IsPositive() {
			return
		}
		charges = append(charges, AllowanceCharge{
			ChargeIndicator:           "true",
			AllowanceChargeReasonCode: code,
			AllowanceChargeReason:     reason,
			Amount:                    b.amount(doc, fee),
			TaxCategory:               b.taxCategory(doc),
		})
	}

	add("ENV", "Miljøafgift", doc.EnvironmentalFee)
	add("FC", "Fragt", doc.FreightFee)

	return charges
}

func (b *Builder) invoiceLine(doc *models.InvoiceDocument, idx int, line models.LineItem) InvoiceLine {
	id := strconv.Itoa(idx + 1)

	unitCode, known := UnitCode(line.Unit)
	if !known {
		b.log.Warn().Str("unit", line.Unit).Str("line", id).Msg("Unknown unit, using EA")
	}

	orderID := doc.OrderNumber
	if orderID == "" {
		orderID = doc.InvoiceNumber
	}

	il := InvoiceLine{
		ID:                  id,
		InvoicedQuantity:    Quantity{UnitCode: unitCode, Value: line.Quantity.StringFixed(3)},
		LineExtensionAmount: b.amount(doc, line.LineAmount),
		OrderLineReference: &OrderLineReference{
			LineID: id,
			OrderReference: LineOrderReference{
				ID:                orderID,
				SalesOrderID:      &IDValue{SchemeID: "VN", Value: doc.SalesOrderID},
				CustomerReference: doc.CustomerReference,
				IssueDate:         doc.OrderDate,
			},
		},
		PricingReference: &PricingReference{
			AlternativeConditionPrice: AlternativeConditionPrice{
				PriceAmount:   b.amount(doc, line.UnitPrice),
				PriceTypeCode: CodeValue{ListID: "UN/ECE 5387", Value: "AAB"},
			},
		},
		TaxTotal: TaxTotal{
			TaxAmount: b.amount(doc, line.TaxAmount),
			TaxSubtotal: []TaxSubtotal{{
				TaxableAmount: b.amount(doc, line.LineAmount),
				TaxAmount:     b.amount(doc, line.TaxAmount),
				TaxCategory:   b.taxCategory(doc),
			}},
		},
		Item: Item{
			Description: line.Description,
			Name:        line.Description,
		},
		Price: Price{
			PriceAmount:             b.amount(doc, line.DiscountedUnitPrice),
			BaseQuantity:            &Quantity{UnitCode: unitCode, Value: "1"},
			OrderableUnitFactorRate: "1",
		},
	}

	if line.ItemNumber != "" {
		il.Item.SellersItemIdentification = &ItemIdentification{
			ID: IDValue{SchemeID: "SA", Value: line.ItemNumber},
		}
	}
	if line.GTIN != "" {
		il.Item.StandardItemIdentification = &ItemIdentification{
			ID: IDValue{SchemeID: "GTIN", Value: line.GTIN},
		}
	}
	if line.CatalogueID != "" {
		il.Item.CatalogueItemIdentification = &ItemIdentification{
			ID: IDValue{SchemeID: "MP", Value: line.CatalogueID},
		}
	}

	return il
}
