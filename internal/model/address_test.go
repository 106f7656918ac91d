package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidPIN(t *testing.T) {
	assert.True(t, IsValidPIN("411001"))
	assert.False(t, IsValidPIN("41100"))
	assert.False(t, IsValidPIN("4110011"))
	assert.False(t, IsValidPIN("41100a"))
	assert.False(t, IsValidPIN("４１１００１"))
	assert.False(t, IsValidPIN(""))
}

func TestPostalReference_Primary(t *testing.T) {
	assert.Nil(t, Unverified().Primary())
	assert.Nil(t, PostalReference{Status: ReferenceVerified}.Primary())

	ref := PostalReference{
		Status: ReferenceVerified,
		Offices: []PostOffice{
			{Name: "Pune City", District: "Pune", State: "Maharashtra"},
			{Name: "Camp", District: "Pune", State: "Maharashtra"},
		},
	}
	require.NotNil(t, ref.Primary())
	assert.Equal(t, "Pune City", ref.Primary().Name)
}

func TestVerificationRecord_PIN(t *testing.T) {
	var rec VerificationRecord
	rec.SetPIN("5000")
	assert.Nil(t, rec.PIN)
	assert.Equal(t, "", rec.PINValue())

	rec.SetPIN("500081")
	assert.Equal(t, "500081", rec.PINValue())

	data, err := json.Marshal(VerificationRecord{Status: StatusSuccess})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"pin":null`)
}

func TestSkippedRecord(t *testing.T) {
	rec := SkippedRecord(RawInput{CustomerName: "Asha"})
	assert.Equal(t, StatusError, rec.Status)
	assert.Equal(t, SkippedEmptyRemark, rec.Remarks)
	assert.Equal(t, QualityVeryBad, rec.AddressQuality)
	assert.Equal(t, "Asha", rec.CustomerRawName)
}

func TestRawInput_Validate(t *testing.T) {
	assert.ErrorIs(t, RawInput{Address: "   "}.Validate(), ErrEmptyAddress)
	assert.NoError(t, RawInput{Address: "12 MG Road"}.Validate())
}
