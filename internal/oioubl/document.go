// Package oioubl serializes invoice documents as OIOUBL 2.02 XML, the
// Danish profile of UBL 2.0.
package oioubl

import "encoding/xml"

// Field order in every struct below follows the UBL-Invoice-2.0 schema
// sequence; NemHandel validators reject reordered elements.

// Amount is a monetary value with its currency attribute.
type Amount struct {
	CurrencyID string `xml:"currencyID,attr"`
	Value      string `xml:",chardata"`
}

// Quantity is a quantity with its UN/ECE unit code attribute.
type Quantity struct {
	UnitCode string `xml:"unitCode,attr"`
	Value    string `xml:",chardata"`
}

// CodeValue is a coded element carrying code list attributes.
type CodeValue struct {
	SchemeAgencyID string `xml:"schemeAgencyID,attr,omitempty"`
	SchemeID       string `xml:"schemeID,attr,omitempty"`
	ListAgencyID   string `xml:"listAgencyID,attr,omitempty"`
	ListID         string `xml:"listID,attr,omitempty"`
	Value          string `xml:",chardata"`
}

// IDValue is an identifier with an optional scheme.
type IDValue struct {
	SchemeAgencyID string `xml:"schemeAgencyID,attr,omitempty"`
	SchemeID       string `xml:"schemeID,attr,omitempty"`
	Value          string `xml:",chardata"`
}

type Period struct {
	StartDate string `xml:"cbc:StartDate,omitempty"`
	EndDate   string `xml:"cbc:EndDate,omitempty"`
}

type OrderReference struct {
	ID                string `xml:"cbc:ID"`
	SalesOrderID      string `xml:"cbc:SalesOrderID,omitempty"`
	CustomerReference string `xml:"cbc:CustomerReference,omitempty"`
	IssueDate         string `xml:"cbc:IssueDate,omitempty"`
}

type LineOrderReference struct {
	ID                string   `xml:"cbc:ID"`
	SalesOrderID      *IDValue `xml:"cbc:SalesOrderID,omitempty"`
	CustomerReference string   `xml:"cbc:CustomerReference,omitempty"`
	IssueDate         string   `xml:"cbc:IssueDate,omitempty"`
}

type DocumentReference struct {
	ID IDValue `xml:"cbc:ID"`
}

type Country struct {
	IdentificationCode string `xml:"cbc:IdentificationCode"`
}

type Address struct {
	AddressFormatCode CodeValue `xml:"cbc:AddressFormatCode"`
	StreetName        string    `xml:"cbc:StreetName"`
	BuildingNumber    string    `xml:"cbc:BuildingNumber"`
	CityName          string    `xml:"cbc:CityName"`
	PostalZone        string    `xml:"cbc:PostalZone"`
	Country           Country   `xml:"cac:Country"`
}

type TaxScheme struct {
	ID   CodeValue `xml:"cbc:ID"`
	Name string    `xml:"cbc:Name"`
}

type PartyTaxScheme struct {
	CompanyID IDValue   `xml:"cbc:CompanyID"`
	TaxScheme TaxScheme `xml:"cac:TaxScheme"`
}

type PartyLegalEntity struct {
	RegistrationName string  `xml:"cbc:RegistrationName"`
	CompanyID        IDValue `xml:"cbc:CompanyID"`
}

type Contact struct {
	ID        string `xml:"cbc:ID"`
	Name      string `xml:"cbc:Name,omitempty"`
	Telephone string `xml:"cbc:Telephone,omitempty"`
}

type PartyName struct {
	Name string `xml:"cbc:Name"`
}

type PartyIdentification struct {
	ID IDValue `xml:"cbc:ID"`
}

type Party struct {
	EndpointID          *IDValue             `xml:"cbc:EndpointID,omitempty"`
	PartyIdentification *PartyIdentification `xml:"cac:PartyIdentification,omitempty"`
	PartyName           PartyName            `xml:"cac:PartyName"`
	PostalAddress       Address              `xml:"cac:PostalAddress"`
	PartyTaxScheme      *PartyTaxScheme      `xml:"cac:PartyTaxScheme,omitempty"`
	PartyLegalEntity    PartyLegalEntity     `xml:"cac:PartyLegalEntity"`
	Contact             Contact              `xml:"cac:Contact"`
}

type SupplierParty struct {
	Party Party `xml:"cac:Party"`
}

type CustomerParty struct {
	Party Party `xml:"cac:Party"`
}

type FinancialInstitution struct {
	ID IDValue `xml:"cbc:ID"`
}

type FinancialInstitutionBranch struct {
	ID                   string                `xml:"cbc:ID"`
	FinancialInstitution *FinancialInstitution `xml:"cac:FinancialInstitution,omitempty"`
}

type PayeeFinancialAccount struct {
	ID                         string                      `xml:"cbc:ID"`
	Name                       string                      `xml:"cbc:Name,omitempty"`
	FinancialInstitutionBranch *FinancialInstitutionBranch `xml:"cac:FinancialInstitutionBranch,omitempty"`
}

type CreditAccount struct {
	AccountID string `xml:"cbc:AccountID"`
}

type PaymentMeans struct {
	ID                    string                 `xml:"cbc:ID"`
	PaymentMeansCode      string                 `xml:"cbc:PaymentMeansCode"`
	PaymentDueDate        string                 `xml:"cbc:PaymentDueDate"`
	PaymentChannelCode    *CodeValue             `xml:"cbc:PaymentChannelCode,omitempty"`
	InstructionID         string                 `xml:"cbc:InstructionID,omitempty"`
	PaymentID             *CodeValue             `xml:"cbc:PaymentID,omitempty"`
	PayeeFinancialAccount *PayeeFinancialAccount `xml:"cac:PayeeFinancialAccount,omitempty"`
	CreditAccount         *CreditAccount         `xml:"cac:CreditAccount,omitempty"`
}

type SettlementPeriod struct {
	EndDate string `xml:"cbc:EndDate"`
}

type PaymentTerms struct {
	ID                        string           `xml:"cbc:ID"`
	PaymentMeansID            string           `xml:"cbc:PaymentMeansID"`
	SettlementDiscountPercent string           `xml:"cbc:SettlementDiscountPercent"`
	Amount                    Amount           `xml:"cbc:Amount"`
	SettlementPeriod          SettlementPeriod `xml:"cac:SettlementPeriod"`
}

type TaxCategory struct {
	ID        CodeValue `xml:"cbc:ID"`
	Percent   string    `xml:"cbc:Percent"`
	TaxScheme TaxScheme `xml:"cac:TaxScheme"`
}

type AllowanceCharge struct {
	ChargeIndicator           string      `xml:"cbc:ChargeIndicator"`
	AllowanceChargeReasonCode string      `xml:"cbc:AllowanceChargeReasonCode"`
	AllowanceChargeReason     string      `xml:"cbc:AllowanceChargeReason"`
	Amount                    Amount      `xml:"cbc:Amount"`
	TaxCategory               TaxCategory `xml:"cac:TaxCategory"`
}

type TaxSubtotal struct {
	TaxableAmount Amount      `xml:"cbc:TaxableAmount"`
	TaxAmount     Amount      `xml:"cbc:TaxAmount"`
	TaxCategory   TaxCategory `xml:"cac:TaxCategory"`
}

type TaxTotal struct {
	TaxAmount   Amount        `xml:"cbc:TaxAmount"`
	TaxSubtotal []TaxSubtotal `xml:"cac:TaxSubtotal"`
}

type MonetaryTotal struct {
	LineExtensionAmount Amount  `xml:"cbc:LineExtensionAmount"`
	TaxExclusiveAmount  Amount  `xml:"cbc:TaxExclusiveAmount"`
	TaxInclusiveAmount  Amount  `xml:"cbc:TaxInclusiveAmount"`
	ChargeTotalAmount   *Amount `xml:"cbc:ChargeTotalAmount,omitempty"`
	PayableAmount       Amount  `xml:"cbc:PayableAmount"`
}

type ItemIdentification struct {
	ID IDValue `xml:"cbc:ID"`
}

type Item struct {
	Description                 string              `xml:"cbc:Description,omitempty"`
	Name                        string              `xml:"cbc:Name"`
	SellersItemIdentification   *ItemIdentification `xml:"cac:SellersItemIdentification,omitempty"`
	StandardItemIdentification  *ItemIdentification `xml:"cac:StandardItemIdentification,omitempty"`
	CatalogueItemIdentification *ItemIdentification `xml:"cac:CatalogueItemIdentification,omitempty"`
}

type AlternativeConditionPrice struct {
	PriceAmount   Amount    `xml:"cbc:PriceAmount"`
	PriceTypeCode CodeValue `xml:"cbc:PriceTypeCode"`
}

type PricingReference struct {
	AlternativeConditionPrice AlternativeConditionPrice `xml:"cac:AlternativeConditionPrice"`
}

type Price struct {
	PriceAmount             Amount    `xml:"cbc:PriceAmount"`
	BaseQuantity            *Quantity `xml:"cbc:BaseQuantity,omitempty"`
	OrderableUnitFactorRate string    `xml:"cbc:OrderableUnitFactorRate,omitempty"`
}

type InvoiceLine struct {
	ID                  string              `xml:"cbc:ID"`
	InvoicedQuantity    Quantity            `xml:"cbc:InvoicedQuantity"`
	LineExtensionAmount Amount              `xml:"cbc:LineExtensionAmount"`
	OrderLineReference  *OrderLineReference `xml:"cac:OrderLineReference,omitempty"`
	PricingReference    *PricingReference   `xml:"cac:PricingReference,omitempty"`
	TaxTotal            TaxTotal            `xml:"cac:TaxTotal"`
	Item                Item                `xml:"cac:Item"`
	Price               Price               `xml:"cac:Price"`
}

type OrderLineReference struct {
	LineID         string             `xml:"cbc:LineID"`
	OrderReference LineOrderReference `xml:"cac:OrderReference"`
}

// Invoice is the document root. The namespace attributes are emitted
// literally so the marshaled output matches what NemHandel expects.
type Invoice struct {
	XMLName        xml.Name `xml:"Invoice"`
	Xmlns          string   `xml:"xmlns,attr"`
	XmlnsCac       string   `xml:"xmlns:cac,attr"`
	XmlnsCbc       string   `xml:"xmlns:cbc,attr"`
	XmlnsCcts      string   `xml:"xmlns:ccts,attr"`
	XmlnsExt       string   `xml:"xmlns:ext,attr"`
	XmlnsQdt       string   `xml:"xmlns:qdt,attr"`
	XmlnsUdt       string   `xml:"xmlns:udt,attr"`
	XmlnsXsi       string   `xml:"xmlns:xsi,attr"`
	SchemaLocation string   `xml:"xsi:schemaLocation,attr"`

	UBLVersionID    string    `xml:"cbc:UBLVersionID"`
	CustomizationID string    `xml:"cbc:CustomizationID"`
	ProfileID       CodeValue `xml:"cbc:ProfileID"`

	ID               string    `xml:"cbc:ID"`
	CopyIndicator    string    `xml:"cbc:CopyIndicator"`
	UUID             string    `xml:"cbc:UUID"`
	IssueDate        string    `xml:"cbc:IssueDate"`
	InvoiceTypeCode  CodeValue `xml:"cbc:InvoiceTypeCode"`
	Note             string    `xml:"cbc:Note,omitempty"`
	DocumentCurrency string    `xml:"cbc:DocumentCurrencyCode"`
	LineCountNumeric string    `xml:"cbc:LineCountNumeric"`

	InvoicePeriod             Period             `xml:"cac:InvoicePeriod"`
	OrderReference            *OrderReference    `xml:"cac:OrderReference,omitempty"`
	ContractDocumentReference *DocumentReference `xml:"cac:ContractDocumentReference,omitempty"`

	AccountingSupplierParty SupplierParty `xml:"cac:AccountingSupplierParty"`
	AccountingCustomerParty CustomerParty `xml:"cac:AccountingCustomerParty"`
	SellerSupplierParty     SupplierParty `xml:"cac:SellerSupplierParty"`

	PaymentMeans    PaymentMeans      `xml:"cac:PaymentMeans"`
	PaymentTerms    PaymentTerms      `xml:"cac:PaymentTerms"`
	AllowanceCharge []AllowanceCharge `xml:"cac:AllowanceCharge"`

	TaxTotal           TaxTotal      `xml:"cac:TaxTotal"`
	LegalMonetaryTotal MonetaryTotal `xml:"cac:LegalMonetaryTotal"`
	InvoiceLines       []InvoiceLine `xml:"cac:InvoiceLine"`
}
