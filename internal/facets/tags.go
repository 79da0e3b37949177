package facets

import (
	"regexp"
	"strings"

	"github.com/vapeworks/storefront-search/internal/attributes"
)

const legacyTagPrefix = "filter:"

// Free-text tag heuristics for products that predate the structured
// attribute blob.
var (
	nicotineTagRe = regexp.MustCompile(`(?i)^(\d+(?:\.\d+)?)\s?mg$`)
	volumeTagRe   = regexp.MustCompile(`(?i)^(\d+(?:\.\d+)?)\s?ml$`)
)

// flavourKeywords maps flavour words found in tags to the category the
// storefront files them under. First match wins, so the more specific words
// come before the generic ones.
var flavourKeywords = []struct {
	Word     string
	Category string
}{
	{"strawberry", "Fruits"},
	{"raspberry", "Fruits"},
	{"blueberry", "Fruits"},
	{"blackcurrant", "Fruits"},
	{"watermelon", "Fruits"},
	{"mango", "Fruits"},
	{"apple", "Fruits"},
	{"grape", "Fruits"},
	{"cherry", "Fruits"},
	{"peach", "Fruits"},
	{"citrus", "Fruits"},
	{"lemon", "Fruits"},
	{"menthol", "Menthol"},
	{"mint", "Menthol"},
	{"ice", "Menthol"},
	{"tobacco", "Tobacco"},
	{"custard", "Desserts"},
	{"vanilla", "Desserts"},
	{"caramel", "Desserts"},
	{"doughnut", "Desserts"},
	{"cake", "Desserts"},
	{"biscuit", "Desserts"},
	{"cola", "Drinks"},
	{"lemonade", "Drinks"},
	{"energy", "Drinks"},
	{"coffee", "Drinks"},
	{"bubblegum", "Sweets"},
	{"candy", "Sweets"},
	{"sherbet", "Sweets"},
	{"gummy", "Sweets"},
}

// ParseLegacyTag splits a "filter:<group>:<value>" tag. ok is false for
// anything that is not well-formed: wrong prefix, unknown group name, or an
// empty value. Malformed tags are discarded, not reported.
func ParseLegacyTag(tag string) (key, value string, ok bool) {
	if !strings.HasPrefix(strings.ToLower(tag), legacyTagPrefix) {
		return "", "", false
	}

	rest := tag[len(legacyTagPrefix):]
	parts := strings.SplitN(rest, ":", 2)
	if len(parts) != 2 {
		return "", "", false
	}

	group := strings.ToLower(strings.TrimSpace(parts[0]))
	value = strings.TrimSpace(parts[1])
	if group == "" || value == "" {
		return "", "", false
	}

	key = canonicalKey(group)
	if key == "" {
		return "", "", false
	}
	return key, value, true
}

// DeriveFromTags pattern-matches free-text tags into attribute values:
// "10mg" style tags become nicotine strengths, "50ml" volumes, and flavour
// words map through the keyword table. Legacy "filter:" tags are not
// consumed here; they have their own pass.
func DeriveFromTags(tags []string) map[string][]string {
	derived := make(map[string][]string)

	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" || strings.HasPrefix(strings.ToLower(tag), legacyTagPrefix) {
			continue
		}

		if m := nicotineTagRe.FindStringSubmatch(tag); m != nil {
			appendUnique(derived, attributes.KeyNicotineStrength, m[1]+"mg")
			continue
		}
		if m := volumeTagRe.FindStringSubmatch(tag); m != nil {
			appendUnique(derived, attributes.KeyVolume, m[1]+"ml")
			continue
		}

		lower := strings.ToLower(tag)
		for _, kw := range flavourKeywords {
			if strings.Contains(lower, kw.Word) {
				appendUnique(derived, attributes.KeyFlavourCategory, kw.Category)
				break
			}
		}
	}

	return derived
}

func appendUnique(m map[string][]string, key, value string) {
	for _, v := range m[key] {
		if strings.EqualFold(v, value) {
			return
		}
	}
	m[key] = append(m[key], value)
}
