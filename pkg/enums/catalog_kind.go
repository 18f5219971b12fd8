package enums

import "fmt"

// CatalogKind selects one of the managed reference lists.
type CatalogKind string

const (
	CatalogKindCountries CatalogKind = "countries"
	CatalogKindBrands    CatalogKind = "brands"
)

var validCatalogKinds = []CatalogKind{
	CatalogKindCountries,
	CatalogKindBrands,
}

// String implements fmt.Stringer.
func (k CatalogKind) String() string {
	return string(k)
}

// IsValid reports whether the value is a known CatalogKind.
func (k CatalogKind) IsValid() bool {
	for _, candidate := range validCatalogKinds {
		if candidate == k {
			return true
		}
	}
	return false
}

// TableName maps the kind onto its backing table.
func (k CatalogKind) TableName() string {
	return string(k)
}

// ParseCatalogKind converts raw input into a CatalogKind.
func ParseCatalogKind(value string) (CatalogKind, error) {
	for _, candidate := range validCatalogKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid catalog kind %q", value)
}
