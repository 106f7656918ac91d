package extract

import (
	"regexp"
	"strings"

	"github.com/Veraticus/pinpoint/internal/model"
)

var noisePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(?:mob(?:ile)?|ph(?:one)?|contact|cell|tel)\s*(?:no\.?|number)?\s*[:.\-]?\s*(?:\+?91[\s-]?)?\d{10}\b`),
	regexp.MustCompile(`(?:\+91[\s-]?|\b0)?\b[6-9]\d{9}\b`),
	regexp.MustCompile(`(?i)\bpin\s*(?:code)?\s*[:.\-]?\s*\d{6}\b`),
	regexp.MustCompile(`\b\d{6}\b`),
	regexp.MustCompile(`(?i)[\w.+-]+@[\w-]+\.[\w.]+`),
}

var (
	repeatedPunct = regexp.MustCompile(`\s*([,;])(?:\s*[,;])+`)
	spaceRun      = regexp.MustCompile(`\s+`)
)

// CleanNoise strips phone numbers, PIN codes and e-mail addresses from raw
// address text and tidies the punctuation left behind.
func CleanNoise(raw string) string {
	s := raw
	for _, p := range noisePatterns {
		s = p.ReplaceAllString(s, " ")
	}
	s = spaceRun.ReplaceAllString(s, " ")
	s = repeatedPunct.ReplaceAllString(s, "$1")
	s = strings.ReplaceAll(s, " ,", ",")
	return strings.Trim(strings.TrimSpace(s), ",;-. ")
}

// Degraded synthesizes components from the raw text when the Oracle's output
// could not be parsed.
func Degraded(raw string) model.ExtractedComponents {
	return model.ExtractedComponents{
		FormattedAddress: CleanNoise(raw),
		AddressQuality:   model.QualityVeryBad,
		Degraded:         true,
	}
}
