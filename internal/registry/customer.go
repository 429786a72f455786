package registry

import (
	"encoding/json"
	"os"

	"fakturatools/internal/logger"
)

// CustomerProfile is the fallback buyer identity applied when the
// invoice text does not identify the customer, or when the pipeline is
// configured to always bill the default customer.
type CustomerProfile struct {
	Name         string `json:"name"`
	VAT          string `json:"vat"`
	Street       string `json:"street"`
	City         string `json:"city"`
	PostalCode   string `json:"postal_code"`
	Country      string `json:"country"`
	ContactName  string `json:"contact_name"`
	ContactPhone string `json:"contact_phone"`
}

type customerFile struct {
	DefaultCustomer *CustomerProfile `json:"default_customer"`
}

// DefaultCustomer returns the built-in customer profile.
func DefaultCustomer() CustomerProfile {
	return CustomerProfile{
		Name:         "Nordsjælland Teknik ApS",
		VAT:          "DK29847156",
		Street:       "Hovedgade 45B",
		City:         "Hillerød",
		PostalCode:   "3400",
		Country:      "DK",
		ContactName:  "Lars Nielsen",
		ContactPhone: "48262890",
	}
}

// LoadCustomer reads the default customer profile from path, falling
// back to the built-in profile when the file is missing or invalid.
func LoadCustomer(path string) CustomerProfile {
	log := logger.WithComponent("registry")

	if path == "" {
		return DefaultCustomer()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		log.Warn().
			Err(err).
			Str("path", path).
			Msg("Default customer file not readable, using built-in profile")
		return DefaultCustomer()
	}

	var file customerFile
	if err := json.Unmarshal(data, &file); err != nil || file.DefaultCustomer == nil {
		log.Error().
			Err(err).
			Str("path", path).
			Msg("Default customer file invalid, using built-in profile")
		return DefaultCustomer()
	}

	log.Info().Str("path", path).Str("customer", file.DefaultCustomer.Name).Msg("Loaded default customer profile")
	return *file.DefaultCustomer
}
