package reconcile

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// directionalQualifiers are searched in order; longer forms come before
// their abbreviations so "opposite" wins over "opp".
var directionalQualifiers = []string{"opposite", "back side", "front side", "behind", "near", "opp"}

const defaultQualifier = "Near"

// FormatLandmark prefixes landmark with the directional qualifier used in the
// raw address, or with "Near" when the address has none.
func FormatLandmark(rawAddress, landmark string) string {
	landmark = stripQualifier(strings.TrimSpace(landmark))
	if landmark == "" {
		return ""
	}
	return qualifierFor(rawAddress) + " " + landmark
}

// qualifierFor returns the first qualifier found in raw, in raw's casing with
// the first letter capitalized.
func qualifierFor(raw string) string {
	lower := strings.ToLower(raw)
	for _, q := range directionalQualifiers {
		idx := strings.Index(lower, q)
		if idx < 0 {
			continue
		}
		// Offsets into lower only line up with raw when lowering kept byte lengths.
		original := q
		if idx+len(q) <= len(raw) && strings.EqualFold(raw[idx:idx+len(q)], q) {
			original = raw[idx : idx+len(q)]
		}
		return capitalize(original)
	}
	return defaultQualifier
}

// stripQualifier removes a qualifier the Oracle left on the landmark despite
// being told not to.
func stripQualifier(landmark string) string {
	lower := strings.ToLower(landmark)
	for _, q := range directionalQualifiers {
		for _, sep := range []string{" ", ". ", ": "} {
			if strings.HasPrefix(lower, q+sep) {
				return strings.TrimSpace(landmark[len(q)+len(sep):])
			}
		}
	}
	if strings.HasPrefix(lower, "opp.") {
		return strings.TrimSpace(landmark[len("opp."):])
	}
	return landmark
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
