package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatLandmark(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		landmark string
		want     string
	}{
		{name: "no landmark", raw: "near temple", landmark: "", want: ""},
		{name: "default prefix", raw: "12 MG Road, Pune", landmark: "Apollo Hospital", want: "Near Apollo Hospital"},
		{name: "near keeps casing", raw: "12 MG Road NEAR Apollo", landmark: "Apollo Hospital", want: "NEAR Apollo Hospital"},
		{name: "opposite", raw: "opposite SBI bank, Indore", landmark: "SBI Bank", want: "Opposite SBI Bank"},
		{name: "opposite wins over opp", raw: "Opp. water tank, opposite school", landmark: "School", want: "Opposite School"},
		{name: "opp abbreviation", raw: "opp water tank", landmark: "Water Tank", want: "Opp Water Tank"},
		{name: "back side", raw: "Back Side of Railway Station", landmark: "Railway Station", want: "Back Side Railway Station"},
		{name: "behind", raw: "behind bus stand", landmark: "Bus Stand", want: "Behind Bus Stand"},
		{name: "no double prefix", raw: "near clock tower", landmark: "Near Clock Tower", want: "Near Clock Tower"},
		{name: "oracle prefix replaced", raw: "behind clock tower", landmark: "opp. Clock Tower", want: "Behind Clock Tower"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatLandmark(tt.raw, tt.landmark))
		})
	}
}
