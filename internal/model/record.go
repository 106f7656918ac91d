package model

import (
	"errors"
	"time"
)

// ErrEmptyAddress is returned when a request carries no address text.
var ErrEmptyAddress = errors.New("address is required")

// RecordStatus is the outcome of a verification.
type RecordStatus string

// Record status constants.
const (
	StatusSuccess RecordStatus = "Success"
	StatusError   RecordStatus = "Error"
)

// SkippedEmptyRemark is the remark written for batch rows without an address.
const SkippedEmptyRemark = "Skipped: Address is empty."

// VerificationRecord is the normalized, reviewable result for one address.
type VerificationRecord struct {
	ID                  string              `json:"id,omitempty"`
	Status              RecordStatus        `json:"status"`
	Message             string              `json:"message,omitempty"`
	CustomerRawName     string              `json:"customerRawName"`
	CustomerCleanName   string              `json:"customerCleanName"`
	AddressLine1        string              `json:"addressLine1"`
	Landmark            string              `json:"landmark"`
	PostOffice          string              `json:"postOffice"`
	Tehsil              string              `json:"tehsil"`
	District            string              `json:"district"`
	State               string              `json:"state"`
	PIN                 *string             `json:"pin"`
	AddressQuality      AddressQuality      `json:"addressQuality"`
	LocationType        string              `json:"locationType"`
	LocationSuitability LocationSuitability `json:"locationSuitability"`
	Remarks             string              `json:"remarks"`
	VerifiedAt          time.Time           `json:"verifiedAt"`
}

// PINValue returns the PIN or "" when none was resolved.
func (r VerificationRecord) PINValue() string {
	if r.PIN == nil {
		return ""
	}
	return *r.PIN
}

// SetPIN stores pin when it is a valid six-digit code and clears the field otherwise.
func (r *VerificationRecord) SetPIN(pin string) {
	if !IsValidPIN(pin) {
		r.PIN = nil
		return
	}
	p := pin
	r.PIN = &p
}

// ErrorRecord builds the terse failure shape returned for unrecoverable errors.
func ErrorRecord(raw RawInput, message string) VerificationRecord {
	return VerificationRecord{
		Status:          StatusError,
		Message:         message,
		CustomerRawName: raw.CustomerName,
		AddressQuality:  QualityVeryBad,
		Remarks:         message,
		VerifiedAt:      time.Now(),
	}
}

// SkippedRecord builds the record for a batch row with a blank address.
func SkippedRecord(raw RawInput) VerificationRecord {
	rec := ErrorRecord(raw, ErrEmptyAddress.Error())
	rec.Remarks = SkippedEmptyRemark
	return rec
}
