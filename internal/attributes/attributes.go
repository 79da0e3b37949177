// Package attributes decodes the per-product and per-variant attribute blobs
// the commerce backend stores as JSON metafields. Parsing is best-effort:
// missing or malformed blobs mean "no attributes known", never an error.
package attributes

import (
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

// Attribute keys recognised in product-level blobs. Variant blobs carry a
// subset (flavour, strength, volume, colour, size).
const (
	KeyProductType      = "product_type"
	KeyBrand            = "brand"
	KeyFlavourCategory  = "flavour_category"
	KeyFlavours         = "flavours"
	KeyFlavour          = "flavour"
	KeyNicotineStrength = "nicotine_strength"
	KeyCBDStrength      = "cbd_strength"
	KeyCBDType          = "cbd_type"
	KeyCBDForm          = "cbd_form"
	KeyDeviceType       = "device_type"
	KeyVolume           = "volume"
	KeyCapacity         = "capacity"
	KeyPackSize         = "pack_size"
	KeyPuffCount        = "puff_count"
	KeyBatteryCapacity  = "battery_capacity"
	KeyCoilResistance   = "coil_resistance"
	KeyMaterial         = "material"
	KeyColor            = "color"
	KeySize             = "size"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ParsedAttributes is a decoded attribute blob. Fields are loosely typed as
// stored (string, list, or number); all access goes through Value/Values so
// the shape check happens in one place.
type ParsedAttributes struct {
	fields map[string]interface{}
}

// Parse decodes a product attribute blob. It returns nil for empty input,
// malformed JSON, or a blob that is not a JSON object; none of these are
// errors, the product simply has no structured attributes.
func Parse(raw string) *ParsedAttributes {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	var fields map[string]interface{}
	if err := json.UnmarshalFromString(raw, &fields); err != nil {
		return nil
	}
	if fields == nil {
		return nil
	}

	return &ParsedAttributes{fields: fields}
}

// ParseVariant decodes a per-variant attribute blob. The variant schema is a
// subset of the product schema, so decoding is identical.
func ParseVariant(raw string) *ParsedAttributes {
	return Parse(raw)
}

// Value returns the raw stored value for key, or nil if the receiver is nil
// or the key is absent. It never panics.
func (a *ParsedAttributes) Value(key string) interface{} {
	if a == nil || a.fields == nil {
		return nil
	}
	return a.fields[key]
}

// Values normalises the stored value for key into a list of strings: a
// scalar becomes a one-element list, a JSON array contributes each usable
// element, and numbers are rendered in canonical decimal form. Empty strings
// and unusable shapes are dropped.
func (a *ParsedAttributes) Values(key string) []string {
	raw := a.Value(key)
	if raw == nil {
		return nil
	}

	switch v := raw.(type) {
	case string:
		if s := strings.TrimSpace(v); s != "" {
			return []string{s}
		}
		return nil
	case float64:
		return []string{formatNumber(v)}
	case []interface{}:
		var out []string
		for _, el := range v {
			switch e := el.(type) {
			case string:
				if s := strings.TrimSpace(e); s != "" {
					out = append(out, s)
				}
			case float64:
				out = append(out, formatNumber(e))
			}
		}
		return out
	default:
		return nil
	}
}

// First returns the first normalised value for key, or "" when none exists.
func (a *ParsedAttributes) First(key string) string {
	if vals := a.Values(key); len(vals) > 0 {
		return vals[0]
	}
	return ""
}

// Has reports whether key holds at least one usable value.
func (a *ParsedAttributes) Has(key string) bool {
	return len(a.Values(key)) > 0
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
