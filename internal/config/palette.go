package config

import (
	"fmt"
	"sort"
	"strings"
)

// Palettes are the named categorical colour schemes.
var Palettes = map[string][]string{
	// ColorBrewer Set2.
	"set2": {"#66c2a5", "#fc8d62", "#8da0cb", "#e78ac3", "#a6d854", "#ffd92f", "#e5c494", "#b3b3b3"},
	"tableau10": {
		"#4e79a7", "#f28e2c", "#e15759", "#76b7b2", "#59a14f",
		"#edc949", "#af7aa1", "#ff9da7", "#9c755f", "#bab0ab",
	},
	// ColorBrewer Dark2, for light-on-dark terminals.
	"dark2": {"#1b9e77", "#d95f02", "#7570b3", "#e7298a", "#66a61e", "#e6ab02", "#a6761d", "#666666"},
}

// Resolve returns the palette in use: Custom if set, else the named one.
func (c Colors) Resolve() ([]string, error) {
	if len(c.Custom) > 0 {
		for _, col := range c.Custom {
			if !isHexColor(col) {
				return nil, fmt.Errorf("custom_palette entry %q is not a #rrggbb colour", col)
			}
		}
		return c.Custom, nil
	}
	p, ok := Palettes[strings.ToLower(c.Palette)]
	if !ok {
		names := make([]string, 0, len(Palettes))
		for n := range Palettes {
			names = append(names, n)
		}
		sort.Strings(names)
		return nil, fmt.Errorf("unknown palette %q (known: %s)", c.Palette, strings.Join(names, ", "))
	}
	return p, nil
}

func isHexColor(s string) bool {
	if len(s) != 7 || s[0] != '#' {
		return false
	}
	for _, r := range s[1:] {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'f', r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}
