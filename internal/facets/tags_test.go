package facets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vapeworks/storefront-search/internal/attributes"
)

func TestParseLegacyTag(t *testing.T) {
	tests := []struct {
		name      string
		tag       string
		wantKey   string
		wantValue string
		wantOK    bool
	}{
		{"brand tag", "filter:brand:Acme", attributes.KeyBrand, "Acme", true},
		{"category alias resolves", "filter:category:Disposable", attributes.KeyProductType, "Disposable", true},
		{"vendor alias resolves", "filter:vendor:Acme", attributes.KeyBrand, "Acme", true},
		{"flavour alias resolves", "filter:flavour:Fruits", attributes.KeyFlavourCategory, "Fruits", true},
		{"strength alias resolves", "filter:strength:10mg", attributes.KeyNicotineStrength, "10mg", true},
		{"mixed case prefix", "Filter:Brand:Acme", attributes.KeyBrand, "Acme", true},
		{"value keeps embedded colon", "filter:brand:Acme:Pro", attributes.KeyBrand, "Acme:Pro", true},
		{"unknown group", "filter:warehouse:A1", "", "", false},
		{"empty value", "filter:brand:", "", "", false},
		{"empty group", "filter::Acme", "", "", false},
		{"missing value part", "filter:brand", "", "", false},
		{"not a filter tag", "bestseller", "", "", false},
		{"empty tag", "", "", "", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			key, value, ok := ParseLegacyTag(tc.tag)
			assert.Equal(t, tc.wantOK, ok)
			assert.Equal(t, tc.wantKey, key)
			assert.Equal(t, tc.wantValue, value)
		})
	}
}

func TestDeriveFromTags(t *testing.T) {
	derived := DeriveFromTags([]string{
		"10mg",
		"20 mg",
		"50ml",
		"Strawberry Ice",
		"classic tobacco",
		"bestseller",
		"filter:brand:Acme",
		"",
	})

	assert.Equal(t, []string{"10mg", "20mg"}, derived[attributes.KeyNicotineStrength])
	assert.Equal(t, []string{"50ml"}, derived[attributes.KeyVolume])
	assert.ElementsMatch(t, []string{"Fruits", "Tobacco"}, derived[attributes.KeyFlavourCategory])
}

func TestDeriveFromTagsNormalises(t *testing.T) {
	derived := DeriveFromTags([]string{"10MG", "10mg", "10 Mg"})

	// Case variants of the same strength collapse to one value.
	require.Len(t, derived[attributes.KeyNicotineStrength], 1)
	assert.Equal(t, "10mg", derived[attributes.KeyNicotineStrength][0])
}

func TestDeriveFromTagsNoMatches(t *testing.T) {
	derived := DeriveFromTags([]string{"bestseller", "new-in", "18650"})
	assert.Empty(t, derived)
}
