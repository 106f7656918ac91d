package reconcile

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var rawPINPattern = regexp.MustCompile(`\b\d{6}\b`)

// ExtractPIN returns the first standalone six-digit number in text, or "".
func ExtractPIN(text string) string {
	return rawPINPattern.FindString(text)
}

// CleanName strips digits and punctuation other than '.' and '\'' from a
// customer name, collapses whitespace and title-cases the result.
func CleanName(name string) string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || r == '.' || r == '\'' {
			return r
		}
		return ' '
	}, name)

	cleaned = strings.Join(strings.Fields(cleaned), " ")
	if cleaned == "" {
		return ""
	}
	// Casers hold state and cannot be shared between goroutines.
	return cases.Title(language.English).String(cleaned)
}

// tokenSet lowercases words into a lookup set.
func tokenSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			set[w] = struct{}{}
		}
	}
	return set
}

// foldToken lowercases a word and trims surrounding punctuation.
func foldToken(w string) string {
	return strings.ToLower(strings.TrimFunc(w, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}))
}

// splitWords breaks text on whitespace and list punctuation.
func splitWords(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return unicode.IsSpace(r) || r == ',' || r == ';'
	})
}

// stripStopWords removes stop words from text and returns the remaining words
// in their original order and casing.
func stripStopWords(text string, stop map[string]struct{}) []string {
	var kept []string
	for _, w := range splitWords(text) {
		lower := strings.ToLower(w)
		if _, ok := stop[lower]; ok {
			continue
		}
		folded := foldToken(w)
		if folded == "" {
			continue
		}
		if _, ok := stop[folded]; ok {
			continue
		}
		kept = append(kept, strings.TrimFunc(w, unicode.IsPunct))
	}
	return kept
}

// containsFold reports whether needle appears in haystack ignoring case.
func containsFold(haystack, needle string) bool {
	needle = strings.TrimSpace(needle)
	return needle != "" && strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// samePlace reports whether two place names refer to the same place, allowing
// for suffixes such as "Bangalore" against "Bangalore Urban".
func samePlace(a, b string) bool {
	a, b = placeKey(a), placeKey(b)
	if a == "" || b == "" {
		return true
	}
	return a == b || strings.Contains(a, b) || strings.Contains(b, a)
}

func placeKey(s string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
