// Package facets derives filterable facet groups, filter predicates and a
// price summary from a product result set. Everything here is a pure
// function of its inputs; working maps live and die inside a single call.
package facets

import (
	"github.com/vapeworks/storefront-search/internal/attributes"
)

// groupConfig describes one filterable attribute: its canonical key, the
// label the UI renders, the legacy tag group names that fold into it, and
// its option ordering.
type groupConfig struct {
	Key          string
	Label        string
	Aliases      []string
	Alphabetical bool
}

// groupConfigs fixes the set of filterable attributes and the order groups
// are emitted in. Brand sorts alphabetically; everything else by descending
// count.
var groupConfigs = []groupConfig{
	{Key: attributes.KeyProductType, Label: "Product Type", Aliases: []string{"category", "type"}},
	{Key: attributes.KeyBrand, Label: "Brand", Aliases: []string{"vendor", "manufacturer"}, Alphabetical: true},
	{Key: attributes.KeyFlavourCategory, Label: "Flavour", Aliases: []string{"flavour", "flavor"}},
	{Key: attributes.KeyNicotineStrength, Label: "Nicotine Strength", Aliases: []string{"strength", "nicotine"}},
	{Key: attributes.KeyVolume, Label: "Bottle Size", Aliases: []string{"size-ml"}},
	{Key: attributes.KeyDeviceType, Label: "Device Type", Aliases: []string{"device"}},
	{Key: attributes.KeyCBDStrength, Label: "CBD Strength"},
	{Key: attributes.KeyCBDType, Label: "CBD Type"},
	{Key: attributes.KeyCBDForm, Label: "CBD Form"},
	{Key: attributes.KeyCapacity, Label: "Capacity"},
	{Key: attributes.KeyPackSize, Label: "Pack Size"},
	{Key: attributes.KeyPuffCount, Label: "Puff Count"},
	{Key: attributes.KeyBatteryCapacity, Label: "Battery"},
	{Key: attributes.KeyCoilResistance, Label: "Resistance"},
	{Key: attributes.KeyMaterial, Label: "Material"},
	{Key: attributes.KeyColor, Label: "Colour"},
	{Key: attributes.KeySize, Label: "Size"},
}

// productListKeys fold product-level list attributes into a group keyed by a
// different attribute. The flavours list feeds the flavour group.
var productListKeys = map[string]string{
	attributes.KeyFlavours: attributes.KeyFlavourCategory,
}

// variantGroupKeys maps variant-level attribute keys onto product-level
// groups. A variant's flavour folding into flavour_category matches the
// storefront's observed behavior and is kept here on purpose; splitting
// those facets is a product decision, not a bug fix.
var variantGroupKeys = map[string]string{
	attributes.KeyFlavour:          attributes.KeyFlavourCategory,
	attributes.KeyNicotineStrength: attributes.KeyNicotineStrength,
	attributes.KeyVolume:           attributes.KeyVolume,
	attributes.KeyColor:            attributes.KeyColor,
	attributes.KeySize:             attributes.KeySize,
}

// configByKey and aliasToKey are derived lookups over groupConfigs.
var (
	configByKey = map[string]groupConfig{}
	aliasToKey  = map[string]string{}
)

func init() {
	for _, cfg := range groupConfigs {
		configByKey[cfg.Key] = cfg
		aliasToKey[cfg.Key] = cfg.Key
		for _, alias := range cfg.Aliases {
			aliasToKey[alias] = cfg.Key
		}
	}
}

// canonicalKey resolves an attribute key or legacy group alias to the
// canonical group key, or "" when the name is not filterable.
func canonicalKey(name string) string {
	return aliasToKey[name]
}
