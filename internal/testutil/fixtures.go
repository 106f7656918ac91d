package testutil

import "github.com/Veraticus/pinpoint/internal/model"

// Offices known to the fake postal server in most tests.
var (
	PuneCity = model.PostOffice{Name: "Pune City", SubDistrict: "Pune City", District: "Pune", State: "Maharashtra"}
	Madhapur = model.PostOffice{Name: "Madhapur", SubDistrict: "Serilingampally", District: "K.V.Rangareddy", State: "Telangana"}
)

// DefaultOffices maps PINs to the offices above.
func DefaultOffices() map[string][]model.PostOffice {
	return map[string][]model.PostOffice{
		"411001": {PuneCity},
		"500081": {Madhapur},
	}
}

// Canned Oracle responses for the addresses the fixtures cover.
const (
	PuneAddress  = "12, MG Road, near Apollo Hospital, Pune 411001"
	PuneResponse = `{"PremiseNumber":"12","Street":"MG Road","Landmark":"Apollo Hospital","District":"Pune",` +
		`"State":"Maharashtra","PIN":"411001","FormattedAddress":"12, MG Road, Pune","LocationType":"Commercial",` +
		`"AddressQuality":"Very Good","LocationSuitability":"Prime Location"}`

	MadhapurAddress  = "Flat 302, Sri Sai Residency, Madhapur 500001"
	MadhapurResponse = `{"PremiseNumber":"Flat 302","Building":"Sri Sai Residency","Locality":"Madhapur",` +
		`"PIN":"500081","FormattedAddress":"Flat 302, Sri Sai Residency, Madhapur","AddressQuality":"Good",` +
		`"LocationSuitability":"Tier 1 & 2 Cities"}`
)
