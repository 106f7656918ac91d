package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractPIN(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{text: "12 MG Road, Pune 411001", want: "411001"},
		{text: "PIN:560001.", want: "560001"},
		{text: "Ph 9876543210", want: ""},
		{text: "Sector 12345", want: ""},
		{text: "Plot 411001 and 560001", want: "411001"},
		{text: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractPIN(tt.text))
		})
	}
}

func TestCleanName(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{name: "", want: ""},
		{name: "  asha   rao ", want: "Asha Rao"},
		{name: "MR. RAJ-KUMAR #42", want: "Mr. Raj Kumar"},
		{name: "1234", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanName(tt.name))
		})
	}
}

func TestStripStopWords(t *testing.T) {
	stop := tokenSet([]string{"near", "the", "po", "c/o"})

	assert.Empty(t, stripStopWords("", stop))
	assert.Empty(t, stripStopWords("Near, THE; po", stop))
	assert.Equal(t, []string{"Shiv", "Mandir"}, stripStopWords("near the Shiv Mandir,", stop))
	assert.Equal(t, []string{"Ramesh"}, stripStopWords("C/O Ramesh", stop))
}

func TestSamePlace(t *testing.T) {
	assert.True(t, samePlace("Pune", "PUNE"))
	assert.True(t, samePlace("Bengaluru", "Bengaluru Urban"))
	assert.True(t, samePlace("", "Pune"))
	assert.False(t, samePlace("Mysore", "Bengaluru Urban"))
}
