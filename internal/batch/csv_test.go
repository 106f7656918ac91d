package batch

import (
	"bytes"
	"context"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/pinpoint/internal/model"
)

func TestReadRows(t *testing.T) {
	input := "\ufeffOrder ID, Customer_Name ,Address\n" +
		"A1,Asha Rao,\"12, MG Road, Pune 411001\"\n" +
		",,\n" +
		"A2,Ravi,\n" +
		",Meena,Flat 4B Kochi\n"

	rows, err := ReadRows(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, []model.Row{
		{OrderID: "A1", CustomerName: "Asha Rao", RawAddress: "12, MG Road, Pune 411001"},
		{OrderID: "A2", CustomerName: "Ravi", RawAddress: ""},
		{OrderID: "row-3", CustomerName: "Meena", RawAddress: "Flat 4B Kochi"},
	}, rows)
}

func TestReadRows_Errors(t *testing.T) {
	_, err := ReadRows(strings.NewReader("orderId,customerName\nA1,Asha\n"))
	require.ErrorIs(t, err, ErrMissingColumn)

	rows, err := ReadRows(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, rows)

	_, err = ReadRows(strings.NewReader("rawAddress\n\"unterminated\n"))
	assert.Error(t, err)
}

func TestCSVWriter(t *testing.T) {
	pin := "411001"
	verifiedAt := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	results := []model.RowResult{
		{
			Row: model.Row{OrderID: "A1", CustomerName: "asha rao", RawAddress: "12 MG Road Pune 411001"},
			Record: model.VerificationRecord{
				Status:              model.StatusSuccess,
				CustomerRawName:     "asha rao",
				CustomerCleanName:   "Asha Rao",
				AddressLine1:        "12, MG Road",
				District:            "Pune",
				State:               "Maharashtra",
				PIN:                 &pin,
				AddressQuality:      model.QualityGood,
				LocationSuitability: model.SuitabilityTier12,
				Remarks:             "Address verified successfully",
				VerifiedAt:          verifiedAt,
			},
		},
		{
			Row:    model.Row{OrderID: "A2"},
			Record: model.SkippedRecord(model.RawInput{}),
		},
	}

	var buf bytes.Buffer
	require.NoError(t, NewCSVWriter(&buf).WriteResults(context.Background(), results))

	lines, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, lines, 3)
	assert.Equal(t, Columns, lines[0])

	first := toMap(lines[0], lines[1])
	assert.Equal(t, "A1", first["orderId"])
	assert.Equal(t, "Asha Rao", first["customerCleanName"])
	assert.Equal(t, "411001", first["pin"])
	assert.Equal(t, "Tier 1 & 2 Cities", first["locationSuitability"])
	assert.Equal(t, "2026-03-01T10:00:00Z", first["verifiedAt"])

	second := toMap(lines[0], lines[2])
	assert.Equal(t, "A2", second["orderId"])
	assert.Equal(t, "Error", second["status"])
	assert.Equal(t, model.SkippedEmptyRemark, second["remarks"])
	assert.Equal(t, "Very Bad", second["addressQuality"])
	assert.Empty(t, second["pin"])
}

func toMap(header, values []string) map[string]string {
	m := make(map[string]string, len(header))
	for i, h := range header {
		m[h] = values[i]
	}
	return m
}
