package extract

import (
	"regexp"
	"strings"
)

// HeaderFields are the values the deterministic header scan can pick
// out of a Danish invoice without any model call.
type HeaderFields struct {
	InvoiceNumber  string
	InvoiceDate    string
	BillingAccount string
}

var digitRe = regexp.MustCompile(`\d`)

// numericCandidate reports whether s looks like an invoice number:
// digits, optionally broken up by dashes or dots.
func numericCandidate(s string) bool {
	stripped := strings.NewReplacer("-", "", ".", "").Replace(s)
	if stripped == "" {
		return false
	}
	for _, r := range stripped {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ScanHeader extracts the invoice number, date and billing account from
// the document header. Danish invoices commonly render these in one of
// two layouts: "Faktura 112262" inline, or a column of labels
// (Faktura, Fakturadato, Fakturakonto, Nummer) followed by a column of
// values in the same order.
func ScanHeader(content string) HeaderFields {
	var fields HeaderFields
	lines := strings.Split(content, "\n")

	// Inline layout: the number follows "Faktura" on the same line, or
	// stands alone within the next few lines.
	for i, line := range lines {
		line = strings.TrimSpace(line)
		if !strings.Contains(line, "Faktura") {
			continue
		}

		if strings.HasPrefix(line, "Faktura") {
			if parts := strings.Fields(line); len(parts) > 1 && numericCandidate(parts[1]) {
				fields.InvoiceNumber = parts[1]
				break
			}
		}

		if line == "Faktura" {
			for j := i + 1; j <= i+5 && j < len(lines); j++ {
				next := strings.TrimSpace(lines[j])
				if next != "" && numericCandidate(next) {
					fields.InvoiceNumber = next
					break
				}
			}
			if fields.InvoiceNumber != "" {
				break
			}
		}
	}

	// Column layout: locate the labels, then read the value column that
	// starts at the first digit-bearing line below them. Values appear
	// in label order: date, account, invoice number.
	lastLabel := -1
	found := false
	for i, line := range lines {
		switch strings.TrimSpace(line) {
		case "Faktura", "Fakturadato", "Fakturakonto", "Nummer":
			found = true
			if i > lastLabel {
				lastLabel = i
			}
		}
	}
	if !found {
		return fields
	}

	firstValue := -1
	for i := lastLabel + 1; i < len(lines); i++ {
		if digitRe.MatchString(strings.TrimSpace(lines[i])) {
			firstValue = i
			break
		}
	}
	if firstValue < 0 || firstValue+2 >= len(lines) {
		return fields
	}

	fields.InvoiceDate = strings.TrimSpace(lines[firstValue])
	fields.BillingAccount = strings.TrimSpace(lines[firstValue+1])
	if fields.InvoiceNumber == "" {
		fields.InvoiceNumber = strings.TrimSpace(lines[firstValue+2])
	}

	return fields
}
