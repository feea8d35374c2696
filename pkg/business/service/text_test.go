package service

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTextService_Fold(t *testing.T) {
	ts := NewTextService()

	assert.Equal(t, "crème", ts.Fold("  CRÈME "))
	assert.Equal(t, ts.Fold("Straße"), ts.Fold("STRASSE"))
}

func TestTextService_NormalizeCode(t *testing.T) {
	ts := NewTextService()

	tests := []struct {
		name string
		raw  interface{}
		want string
	}{
		{"string", "1234", "1234"},
		{"padded string", " 00123 ", "00123"},
		{"float from json", float64(1234), "1234"},
		{"json number", json.Number("1234"), "1234"},
		{"json number with fraction", json.Number("1234.0"), "1234"},
		{"json decimal", json.Number("12.5"), "12.5"},
		{"json number beyond float precision", json.Number("9007199254740993"), "9007199254740993"},
		{"json number neighbour stays distinct", json.Number("9007199254740992"), "9007199254740992"},
		{"json exponent", json.Number("1e3"), "1000"},
		{"int", 42, "42"},
		{"nil", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ts.NormalizeCode(tt.raw))
		})
	}
}

func TestTextService_SplitCodes(t *testing.T) {
	ts := NewTextService()

	assert.Equal(t, []string{"100", "200", "300"}, ts.SplitCodes("100, 200,300"))
	assert.Equal(t, []string{"ab12", "cd"}, ts.SplitCodes(" AB12 ,, Cd ,"))
	assert.Empty(t, ts.SplitCodes(" , "))
}

func TestTextService_Highlight(t *testing.T) {
	ts := NewTextService()

	assert.Equal(t, "<b>Beur</b>re doux <b>beur</b>", ts.Highlight("Beurre doux beur", "beur", "<b>", "</b>"))
	assert.Equal(t, "prix [1.5]", ts.Highlight("prix 1.5", "1.5", "[", "]"))
	assert.Equal(t, "prix 105", ts.Highlight("prix 105", "1.5", "[", "]"))
	assert.Equal(t, "intact", ts.Highlight("intact", "  ", "[", "]"))
}
