package mediapackage

import (
	"fmt"
	"strings"
)

// Wildcard matches any flavor type or subtype.
const Wildcard = "*"

// Flavor classifies the role of a media package element, e.g. presenter/source.
type Flavor struct {
	Type    string
	Subtype string
}

// NewFlavor builds a flavor from its two halves.
func NewFlavor(flavorType, subtype string) Flavor {
	return Flavor{Type: strings.TrimSpace(flavorType), Subtype: strings.TrimSpace(subtype)}
}

// ParseFlavor parses a "type/subtype" string.
func ParseFlavor(value string) (Flavor, error) {
	trimmed := strings.TrimSpace(value)
	parts := strings.Split(trimmed, "/")
	if len(parts) != 2 {
		return Flavor{}, fmt.Errorf("invalid flavor %q: expected type/subtype", value)
	}
	flavor := NewFlavor(parts[0], parts[1])
	if flavor.Type == "" || flavor.Subtype == "" {
		return Flavor{}, fmt.Errorf("invalid flavor %q: empty type or subtype", value)
	}
	return flavor, nil
}

// MustParseFlavor is ParseFlavor for literals known to be valid.
func MustParseFlavor(value string) Flavor {
	flavor, err := ParseFlavor(value)
	if err != nil {
		panic(err)
	}
	return flavor
}

// String renders the flavor as type/subtype. The zero flavor renders empty.
func (f Flavor) String() string {
	if f.IsZero() {
		return ""
	}
	return f.Type + "/" + f.Subtype
}

// IsZero reports whether the flavor is unset.
func (f Flavor) IsZero() bool {
	return f.Type == "" && f.Subtype == ""
}

// WithSubtype returns a copy of the flavor with its subtype replaced.
func (f Flavor) WithSubtype(subtype string) Flavor {
	return Flavor{Type: f.Type, Subtype: subtype}
}

// Matches reports whether f matches pattern, honouring wildcards on either side.
func (f Flavor) Matches(pattern Flavor) bool {
	return matchPart(f.Type, pattern.Type) && matchPart(f.Subtype, pattern.Subtype)
}

func matchPart(value, pattern string) bool {
	if value == Wildcard || pattern == Wildcard {
		return true
	}
	return value == pattern
}
