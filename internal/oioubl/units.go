package oioubl

import "strings"

// danishUnits maps unit texts found on Danish invoices to UN/ECE
// Recommendation 20 codes.
var danishUnits = map[string]string{
	"stk":    "EA",
	"stk.":   "EA",
	"szet":   "SET",
	"sæt":    "SET",
	"pk":     "PK",
	"pk.":    "PK",
	"m":      "MTR",
	"kg":     "KGM",
	"l":      "LTR",
	"timer":  "HUR",
	"time":   "HUR",
	"dag":    "DAY",
	"dage":   "DAY",
	"kasse":  "CS",
	"rulle":  "RO",
	"flaske": "BO",
	"palle":  "PF",
	"boks":   "BX",
}

// knownCodes are UN/ECE codes accepted verbatim.
var knownCodes = map[string]bool{
	"EA": true, "SET": true, "PK": true, "MTR": true, "KGM": true,
	"LTR": true, "HUR": true, "DAY": true, "CS": true, "RO": true,
	"BO": true, "PF": true, "BX": true, "MTK": true, "MTQ": true,
	"GRM": true, "TNE": true, "KWH": true, "MIN": true, "MON": true,
}

// UnitCode translates a unit found on the invoice to a UN/ECE code.
// Unknown units become EA (each); the second return value reports
// whether the unit was recognized.
func UnitCode(unit string) (string, bool) {
	unit = strings.TrimSpace(unit)
	if unit == "" {
		return "EA", true
	}
	if code, ok := danishUnits[strings.ToLower(unit)]; ok {
		return code, true
	}
	if upper := strings.ToUpper(unit); knownCodes[upper] {
		return upper, true
	}
	return "EA", false
}
