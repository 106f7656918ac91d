package extract

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strings"
	"unicode"

	"github.com/Veraticus/pinpoint/internal/model"
)

// ParseError reports an Oracle response that could not be read as components.
// It is recoverable: callers fall back to degraded components.
type ParseError struct {
	Err error
	Raw string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse extraction response: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

var (
	errNoObject      = errors.New("no JSON object in response")
	errNoKnownFields = errors.New("response has none of the expected fields")
)

var codeFencePattern = regexp.MustCompile("(?s)^```[a-zA-Z]*\\s*(.*?)\\s*```$")

// StripCodeFence removes a surrounding markdown code fence, if any.
func StripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if m := codeFencePattern.FindStringSubmatch(s); m != nil {
		return strings.TrimSpace(m[1])
	}
	return s
}

// fieldAliases lists, per canonical field, the folded key spellings
// (lowercase, letters and digits only) models drift between. Order is
// precedence: when a response carries several spellings of one field, the
// earliest non-empty one wins, whatever order the keys arrived in.
var fieldAliases = []struct {
	field   string
	aliases []string
}{
	{"PremiseNumber", []string{"premisenumber", "premise", "housenumber", "houseno", "flatno"}},
	{"Colony", []string{"colony"}},
	{"Street", []string{"street", "streetname"}},
	{"Locality", []string{"locality", "area"}},
	{"Building", []string{"building", "buildingname"}},
	{"Floor", []string{"floor"}},
	{"PostOffice", []string{"postoffice", "po"}},
	{"Tehsil", []string{"tehsil", "taluk", "subdistrict"}},
	{"District", []string{"district", "dist"}},
	{"State", []string{"state"}},
	{"PIN", []string{"pin", "pincode", "postalcode"}},
	{"Landmark", []string{"landmark"}},
	{"Remaining", []string{"remaining", "remainder", "unclassified"}},
	{"FormattedAddress", []string{"formattedaddress"}},
	{"LocationType", []string{"locationtype"}},
	{"AddressQuality", []string{"addressquality", "quality"}},
	{"LocationSuitability", []string{"locationsuitability", "suitability"}},
}

var nullWords = map[string]bool{
	"null": true, "none": true, "n/a": true, "na": true, "nil": true, "-": true, "not available": true, "unknown": true,
}

// Parse reads a raw model response into components. Code fences and prose
// around the JSON object are tolerated; anything else is a *ParseError.
func Parse(raw string) (model.ExtractedComponents, error) {
	body := StripCodeFence(raw)

	obj, err := decodeObject(body)
	if err != nil {
		return model.ExtractedComponents{}, &ParseError{Err: err, Raw: raw}
	}

	values := foldKeys(obj)

	fields := make(map[string]string, len(fieldAliases))
	for _, fa := range fieldAliases {
		for _, alias := range fa.aliases {
			v, ok := values[alias]
			if !ok {
				continue
			}
			if _, seen := fields[fa.field]; !seen || v != "" {
				fields[fa.field] = v
			}
			if v != "" {
				break
			}
		}
	}
	if len(fields) == 0 {
		return model.ExtractedComponents{}, &ParseError{Err: errNoKnownFields, Raw: raw}
	}

	return normalize(fields), nil
}

func decodeObject(body string) (map[string]json.RawMessage, error) {
	start := strings.IndexAny(body, "{[")
	if start < 0 {
		return nil, errNoObject
	}
	body = body[start:]

	dec := json.NewDecoder(strings.NewReader(body))
	dec.UseNumber()

	if body[0] == '[' {
		var arr []map[string]json.RawMessage
		if err := dec.Decode(&arr); err != nil {
			return nil, err
		}
		if len(arr) == 0 {
			return nil, errNoObject
		}
		return arr[0], nil
	}

	var obj map[string]json.RawMessage
	if err := dec.Decode(&obj); err != nil {
		return nil, err
	}
	return obj, nil
}

func normalize(f map[string]string) model.ExtractedComponents {
	c := model.ExtractedComponents{
		PremiseNumber:    f["PremiseNumber"],
		Colony:           f["Colony"],
		Street:           f["Street"],
		Locality:         f["Locality"],
		Building:         f["Building"],
		Floor:            f["Floor"],
		PostOffice:       f["PostOffice"],
		Tehsil:           f["Tehsil"],
		District:         f["District"],
		State:            f["State"],
		PIN:              normalizePIN(f["PIN"]),
		Landmark:         f["Landmark"],
		Remaining:        f["Remaining"],
		FormattedAddress: f["FormattedAddress"],
		LocationType:     f["LocationType"],
	}

	quality, ok := model.ParseAddressQuality(f["AddressQuality"])
	if !ok {
		quality = model.QualityVeryBad
	}
	c.AddressQuality = quality

	if suitability, ok := model.ParseLocationSuitability(f["LocationSuitability"]); ok {
		c.LocationSuitability = suitability
	}

	return c
}

// foldKeys indexes obj by folded key. Keys that fold together ("District"
// and "district") are visited in sorted order and the first non-empty value
// is kept.
func foldKeys(obj map[string]json.RawMessage) map[string]string {
	out := make(map[string]string, len(obj))
	for _, key := range slices.Sorted(maps.Keys(obj)) {
		folded := foldKey(key)
		if prev, ok := out[folded]; ok && prev != "" {
			continue
		}
		out[folded] = stringValue(obj[key])
	}
	return out
}

func foldKey(k string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(k) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

func stringValue(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}

	var s string
	switch raw[0] {
	case '"':
		if err := json.Unmarshal(raw, &s); err != nil {
			return ""
		}
	case '[', '{', 't', 'f':
		return ""
	default:
		s = string(raw)
	}

	s = strings.Join(strings.Fields(s), " ")
	if nullWords[strings.ToLower(s)] {
		return ""
	}
	return s
}

// normalizePIN keeps the digits of s and returns them only when they form a PIN.
func normalizePIN(s string) string {
	var sb strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			sb.WriteRune(r)
		}
	}
	if pin := sb.String(); model.IsValidPIN(pin) {
		return pin
	}
	return ""
}
