package aggregate

import "strings"

// Include selects the related tables attached to a vehicle.
type Include struct {
	Variants   bool
	Colors     bool
	Components bool
}

// ParseInclude reads a comma-separated subset of "variants,colors,components".
// Unknown names are ignored.
func ParseInclude(s string) Include {
	var inc Include
	for _, part := range strings.Split(s, ",") {
		switch strings.ToLower(strings.TrimSpace(part)) {
		case "variants":
			inc.Variants = true
		case "colors":
			inc.Colors = true
		case "components":
			inc.Components = true
		}
	}
	return inc
}
