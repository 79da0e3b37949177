package attributes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNeverFails(t *testing.T) {
	// Every malformed shape resolves to nil, never a panic or an error.
	cases := []string{
		"",
		"   ",
		"null",
		"{",
		"}",
		"[1,2,3]",
		`"just a string"`,
		"42",
		"true",
		"not json at all",
		`{"unterminated": `,
	}

	for _, raw := range cases {
		assert.Nil(t, Parse(raw), "input %q", raw)
	}
}

func TestParseValidBlob(t *testing.T) {
	attrs := Parse(`{"brand": "Acme", "nicotine_strength": "10mg", "flavours": ["Strawberry", "Menthol"]}`)
	require.NotNil(t, attrs)

	assert.Equal(t, "Acme", attrs.First(KeyBrand))
	assert.Equal(t, "10mg", attrs.First(KeyNicotineStrength))
	assert.Equal(t, []string{"Strawberry", "Menthol"}, attrs.Values(KeyFlavours))
}

func TestValuesShapes(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		key  string
		want []string
	}{
		{"scalar string", `{"brand": "Acme"}`, KeyBrand, []string{"Acme"}},
		{"scalar trims whitespace", `{"brand": "  Acme  "}`, KeyBrand, []string{"Acme"}},
		{"empty string dropped", `{"brand": ""}`, KeyBrand, nil},
		{"number coerced", `{"pack_size": 10}`, KeyPackSize, []string{"10"}},
		{"decimal number coerced", `{"coil_resistance": 0.8}`, KeyCoilResistance, []string{"0.8"}},
		{"list of strings", `{"flavours": ["Mango", "Ice"]}`, KeyFlavours, []string{"Mango", "Ice"}},
		{"mixed list keeps usable elements", `{"flavours": ["Mango", 3, true, ""]}`, KeyFlavours, []string{"Mango", "3"}},
		{"absent key", `{"brand": "Acme"}`, KeyVolume, nil},
		{"unusable shape", `{"brand": {"nested": true}}`, KeyBrand, nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			attrs := Parse(tc.raw)
			require.NotNil(t, attrs)
			assert.Equal(t, tc.want, attrs.Values(tc.key))
		})
	}
}

func TestNilReceiverAccess(t *testing.T) {
	var attrs *ParsedAttributes

	assert.Nil(t, attrs.Value(KeyBrand))
	assert.Nil(t, attrs.Values(KeyBrand))
	assert.Equal(t, "", attrs.First(KeyBrand))
	assert.False(t, attrs.Has(KeyBrand))
}

func TestParseVariant(t *testing.T) {
	assert.Nil(t, ParseVariant(""))
	assert.Nil(t, ParseVariant("{broken"))

	vattrs := ParseVariant(`{"flavour": "Strawberry", "nicotine_strength": "20mg"}`)
	require.NotNil(t, vattrs)
	assert.Equal(t, "Strawberry", vattrs.First(KeyFlavour))
	assert.Equal(t, "20mg", vattrs.First(KeyNicotineStrength))
}

func TestIsApplicable(t *testing.T) {
	tests := []struct {
		name        string
		key         string
		productType string
		want        bool
	}{
		{"brand is universal", KeyBrand, "Battery", true},
		{"product type is universal", KeyProductType, "Coil", true},
		{"cbd strength on cbd oil", KeyCBDStrength, "CBD Oil", true},
		{"cbd strength on battery", KeyCBDStrength, "Battery", false},
		{"nicotine on e-liquid", KeyNicotineStrength, "E-Liquid", true},
		{"nicotine case-insensitive", KeyNicotineStrength, "e-liquid", true},
		{"nicotine on tank", KeyNicotineStrength, "Tank", false},
		{"puff count on disposable", KeyPuffCount, "Disposable Vape", true},
		{"puff count on e-liquid", KeyPuffCount, "E-Liquid", false},
		{"unknown product type allows everything", KeyCBDStrength, "", true},
		{"unmapped key applies everywhere", "warranty_months", "Battery", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, IsApplicable(tc.key, tc.productType))
		})
	}
}
