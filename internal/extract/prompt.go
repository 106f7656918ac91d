package extract

import (
	"fmt"
	"strings"

	"github.com/Veraticus/pinpoint/internal/model"
)

const systemPrompt = `You are an expert in Indian postal addresses. You read noisy, free-text
addresses typed by customers and return their structured components as a single JSON object.
Respond with the JSON object only. Never invent values that cannot be inferred from the text or
from general geographic knowledge; use null for anything unknown.`

// BuildPrompt renders the user prompt for one address. A verified reference
// anchors the model to the official offices; otherwise it is asked to infer a PIN.
func BuildPrompt(address string, ref model.PostalReference) string {
	var sb strings.Builder

	sb.WriteString("Address:\n")
	sb.WriteString(strings.TrimSpace(address))
	sb.WriteString("\n\n")

	sb.WriteString(`Before extracting:
- Transliterate any non-English words into English.
- Fix common phonetic spellings and abbreviations (e.g. "opp" to "Opposite", "rd" to "Road", "ngr" to "Nagar").
- Remove consecutive repeated words or phrases.
- Ignore phone numbers, e-mail addresses and delivery instructions.

`)

	if primary := ref.Primary(); primary != nil {
		sb.WriteString("The PIN in this address is verified. Official post offices for it:\n")
		for _, office := range ref.Offices {
			fmt.Fprintf(&sb, "- %s (sub-district: %s, district: %s, state: %s)\n",
				office.Name, orNA(office.SubDistrict), office.District, office.State)
		}
		sb.WriteString("Prefer these names for PostOffice, Tehsil, District and State. ")
		sb.WriteString("If the text clearly describes a different locality, still report the place names the text uses in District and State.\n\n")
	} else {
		sb.WriteString("No verified PIN is available for this address. ")
		sb.WriteString("Infer the most likely 6-digit PIN from the locality, district and state using general geographic knowledge, and return it in PIN. ")
		sb.WriteString("Return null for PIN if you cannot infer it with reasonable confidence.\n\n")
	}

	sb.WriteString(`Fields:
- PremiseNumber: house, flat, plot, door or shop number.
- Colony, Street, Locality, Building, Floor: the matching free-text parts.
- PostOffice, Tehsil, District, State, PIN: administrative geography.
- Landmark: a nearby landmark WITHOUT any "near"/"opposite"/"behind" prefix.
- Remaining: any text you could not classify.
- FormattedAddress: one clean line combining premise, building, street, colony and locality.
- LocationType: e.g. Residential, Commercial, Rural, Industrial.
- AddressQuality: one of "Very Good", "Good", "Medium", "Bad", "Very Bad".
- LocationSuitability: one of "Prime Location", "Tier 1 & 2 Cities", "Remote/Difficult Location", "Non-Serviceable Location".
`)

	return sb.String()
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "NA"
	}
	return s
}
