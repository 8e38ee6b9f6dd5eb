package utils

import (
	"regexp"
	"strings"
)

var canadianTailPattern = regexp.MustCompile(`^C[A-Z0-9]{4}$`)

// faFlightIDSuffix strips the "-<epoch>-<provider>-<n>" tail that AeroAPI
// appends to its fa_flight_id values, e.g. "CGXYZ-1633036800-adhoc-0".
var faFlightIDSuffix = regexp.MustCompile(`-\d{9,}.*$`)

// NormalizeTailToken uppercases a registration and restores the canonical
// hyphen for Canadian tails ("CGXYZ" -> "C-GXYZ").
func NormalizeTailToken(ident string) string {
	ident = strings.ToUpper(strings.TrimSpace(ident))
	compact := strings.ReplaceAll(ident, "-", "")
	if canadianTailPattern.MatchString(compact) {
		return "C-" + compact[1:]
	}
	return ident
}

// IdentFromFaFlightID extracts the flight ident portion of a provider
// fa_flight_id. Returns "" when nothing usable is left.
func IdentFromFaFlightID(faFlightID string) string {
	trimmed := faFlightIDSuffix.ReplaceAllString(strings.TrimSpace(faFlightID), "")
	if trimmed == "" {
		return ""
	}
	return NormalizeTailToken(trimmed)
}
