package catalog

import "github.com/jithuth/roneywo/pkg/enums"

// Built-in reference lists. The public intake form falls back to these
// whenever the managed tables are empty or unreachable, so the flow
// never renders an empty dropdown.
var defaultCountries = []string{
	"United States", "United Kingdom", "Canada", "Germany", "France",
	"Spain", "Italy", "Australia", "India", "Brazil", "UAE", "Saudi Arabia",
	"Philippines", "Indonesia", "Nigeria", "South Africa",
}

var defaultBrands = []string{
	"Huawei", "ZTE", "TP-Link", "Netgear", "Alcatel", "D-Link",
	"Samsung", "Novatel", "Sierra Wireless", "Franklin",
}

// DefaultNames returns a copy of the built-in list for the kind.
func DefaultNames(kind enums.CatalogKind) []string {
	var source []string
	switch kind {
	case enums.CatalogKindCountries:
		source = defaultCountries
	case enums.CatalogKindBrands:
		source = defaultBrands
	default:
		return nil
	}
	names := make([]string, len(source))
	copy(names, source)
	return names
}
