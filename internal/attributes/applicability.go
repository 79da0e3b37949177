package attributes

import "strings"

// universalKeys apply to every product regardless of its type.
var universalKeys = map[string]bool{
	KeyBrand:       true,
	KeyProductType: true,
}

// applicability maps an attribute key to the product types it makes sense
// for. Keys missing from the table are treated as applicable everywhere.
// The table keeps a CBD-strength facet off a page of batteries and a puff
// count off a bottle of e-liquid.
var applicability = map[string][]string{
	KeyNicotineStrength: {"E-Liquid", "Nic Salt", "Shortfill", "Disposable Vape"},
	KeyFlavourCategory:  {"E-Liquid", "Nic Salt", "Shortfill", "Disposable Vape", "CBD E-Liquid", "CBD Gummies"},
	KeyFlavours:         {"E-Liquid", "Nic Salt", "Shortfill", "Disposable Vape", "CBD E-Liquid", "CBD Gummies"},
	KeyCBDStrength:      {"CBD Oil", "CBD E-Liquid", "CBD Gummies", "CBD Capsules", "CBD Topical"},
	KeyCBDType:          {"CBD Oil", "CBD E-Liquid", "CBD Gummies", "CBD Capsules", "CBD Topical"},
	KeyCBDForm:          {"CBD Oil", "CBD E-Liquid", "CBD Gummies", "CBD Capsules", "CBD Topical"},
	KeyDeviceType:       {"Vape Kit", "Pod Kit", "Mod"},
	KeyVolume:           {"E-Liquid", "Nic Salt", "Shortfill", "CBD Oil", "CBD E-Liquid"},
	KeyCapacity:         {"Vape Kit", "Pod Kit", "Tank", "Pod"},
	KeyPackSize:         {"Coil", "Pod", "CBD Gummies", "CBD Capsules"},
	KeyPuffCount:        {"Disposable Vape"},
	KeyBatteryCapacity:  {"Vape Kit", "Pod Kit", "Mod", "Disposable Vape", "Battery"},
	KeyCoilResistance:   {"Coil", "Pod", "Disposable Vape"},
	KeyMaterial:         {"Coil", "Tank", "Drip Tip"},
	KeyColor:            {"Vape Kit", "Pod Kit", "Mod", "Disposable Vape", "Drip Tip"},
	KeySize:             {"Tank", "Coil", "Drip Tip"},
}

// IsApplicable reports whether an attribute makes sense for a product type.
// Universal keys always apply, as does any key when the product type is
// unknown (an empty type cannot rule anything out).
func IsApplicable(key, productType string) bool {
	if universalKeys[key] {
		return true
	}
	if productType == "" {
		return true
	}

	types, ok := applicability[key]
	if !ok {
		return true
	}
	for _, t := range types {
		if strings.EqualFold(t, productType) {
			return true
		}
	}
	return false
}
