package model

import "strings"

// AddressQuality is the Oracle's categorical rating of an address.
type AddressQuality string

// Address quality tiers, best first.
const (
	QualityVeryGood AddressQuality = "Very Good"
	QualityGood     AddressQuality = "Good"
	QualityMedium   AddressQuality = "Medium"
	QualityBad      AddressQuality = "Bad"
	QualityVeryBad  AddressQuality = "Very Bad"
)

var qualityOrder = []AddressQuality{
	QualityVeryGood,
	QualityGood,
	QualityMedium,
	QualityBad,
	QualityVeryBad,
}

// ParseAddressQuality maps loosely formatted model output ("very_good", "GOOD ")
// onto a tier. The second result is false when nothing matched.
func ParseAddressQuality(s string) (AddressQuality, bool) {
	key := normalizeEnumKey(s)
	for _, q := range qualityOrder {
		if normalizeEnumKey(string(q)) == key {
			return q, true
		}
	}
	return "", false
}

// Rank returns 0 for the best tier and 4 for the worst. Unknown values rank worst.
func (q AddressQuality) Rank() int {
	for i, candidate := range qualityOrder {
		if candidate == q {
			return i
		}
	}
	return len(qualityOrder) - 1
}

// IsTopTier reports whether q is the best rating.
func (q AddressQuality) IsTopTier() bool {
	return q == QualityVeryGood
}

// Cap returns q, or limit when q is better than limit.
func (q AddressQuality) Cap(limit AddressQuality) AddressQuality {
	if q.Rank() < limit.Rank() {
		return limit
	}
	return q
}

// LocationSuitability rates how serviceable a location is for couriers.
type LocationSuitability string

// Location suitability values.
const (
	SuitabilityPrime          LocationSuitability = "Prime Location"
	SuitabilityTier12         LocationSuitability = "Tier 1 & 2 Cities"
	SuitabilityRemote         LocationSuitability = "Remote/Difficult Location"
	SuitabilityNonServiceable LocationSuitability = "Non-Serviceable Location"
)

var suitabilityValues = []LocationSuitability{
	SuitabilityPrime,
	SuitabilityTier12,
	SuitabilityRemote,
	SuitabilityNonServiceable,
}

// ParseLocationSuitability maps loosely formatted model output onto a known value.
func ParseLocationSuitability(s string) (LocationSuitability, bool) {
	key := normalizeEnumKey(s)
	for _, v := range suitabilityValues {
		if normalizeEnumKey(string(v)) == key {
			return v, true
		}
	}
	return "", false
}

func normalizeEnumKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer("_", "", "-", "", " ", "", "/", "", "&", "", "and", "").Replace(s)
	return s
}
