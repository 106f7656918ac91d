// Package model defines the core domain models used throughout the application.
package model

import (
	"regexp"
	"strings"
)

var pinPattern = regexp.MustCompile(`^[0-9]{6}$`)

// IsValidPIN reports whether s is exactly six ASCII digits.
func IsValidPIN(s string) bool {
	return pinPattern.MatchString(s)
}

// RawInput is a single address submitted for verification.
type RawInput struct {
	Address      string `json:"address"`
	CustomerName string `json:"customerName,omitempty"`
}

// Validate ensures the input carries a non-blank address.
func (r RawInput) Validate() error {
	if strings.TrimSpace(r.Address) == "" {
		return ErrEmptyAddress
	}
	return nil
}

// PostOffice is one official post-office record served by a PIN.
type PostOffice struct {
	Name        string `json:"name"`
	SubDistrict string `json:"subDistrict"`
	District    string `json:"district"`
	State       string `json:"state"`
}

// ReferenceStatus marks whether a PIN resolved against the postal service.
type ReferenceStatus string

// Reference status constants.
const (
	ReferenceVerified   ReferenceStatus = "Verified"
	ReferenceUnverified ReferenceStatus = "Unverified"
)

// PostalReference is the lookup result for one PIN.
type PostalReference struct {
	Status  ReferenceStatus `json:"status"`
	Offices []PostOffice    `json:"offices,omitempty"`
}

// Unverified returns the reference used for every failed lookup.
func Unverified() PostalReference {
	return PostalReference{Status: ReferenceUnverified}
}

// IsVerified reports whether the reference is verified and has at least one office.
func (r PostalReference) IsVerified() bool {
	return r.Status == ReferenceVerified && len(r.Offices) > 0
}

// Primary returns the authoritative office (the first entry), or nil when unverified.
func (r PostalReference) Primary() *PostOffice {
	if !r.IsVerified() {
		return nil
	}
	return &r.Offices[0]
}

// ExtractedComponents is the Oracle's structured reading of an address.
// Empty strings stand in for null.
type ExtractedComponents struct {
	PremiseNumber       string              `json:"PremiseNumber"`
	Colony              string              `json:"Colony"`
	Street              string              `json:"Street"`
	Locality            string              `json:"Locality"`
	Building            string              `json:"Building"`
	Floor               string              `json:"Floor"`
	PostOffice          string              `json:"PostOffice"`
	Tehsil              string              `json:"Tehsil"`
	District            string              `json:"District"`
	State               string              `json:"State"`
	PIN                 string              `json:"PIN"`
	Landmark            string              `json:"Landmark"`
	Remaining           string              `json:"Remaining"`
	FormattedAddress    string              `json:"FormattedAddress"`
	LocationType        string              `json:"LocationType"`
	AddressQuality      AddressQuality      `json:"AddressQuality"`
	LocationSuitability LocationSuitability `json:"LocationSuitability"`

	// Degraded is set when the Oracle output could not be parsed and the
	// components were synthesized from the raw text instead.
	Degraded bool `json:"-"`
}

// StructuralCount returns how many structural components are populated.
func (e ExtractedComponents) StructuralCount() int {
	n := 0
	for _, v := range []string{e.PremiseNumber, e.Colony, e.Street, e.Locality, e.Building, e.Landmark} {
		if strings.TrimSpace(v) != "" {
			n++
		}
	}
	return n
}
