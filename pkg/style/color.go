package style

import (
	"fmt"
	"strings"
)

var namedColors = map[string]string{
	"black":     "#000000",
	"white":     "#FFFFFF",
	"gray":      "#808080",
	"grey":      "#808080",
	"lightgray": "#D3D3D3",
	"red":       "#FF0000",
	"maroon":    "#800000",
	"orange":    "#FFA500",
	"gold":      "#FFD700",
	"yellow":    "#FFFF00",
	"lime":      "#00FF00",
	"green":     "#008000",
	"teal":      "#008080",
	"cyan":      "#00FFFF",
	"skyblue":   "#87CEEB",
	"blue":      "#0000FF",
	"darkblue":  "#00008B",
	"navy":      "#000080",
	"purple":    "#800080",
	"magenta":   "#FF00FF",
	"pink":      "#FFC0CB",
}

// ParseColor normalizes a color to upper-case #RRGGBB. It accepts #RGB,
// #RRGGBB and a small set of CSS color names.
func ParseColor(s string) (string, error) {
	s = strings.TrimSpace(s)
	if hex, ok := namedColors[strings.ToLower(s)]; ok {
		return hex, nil
	}
	if !strings.HasPrefix(s, "#") {
		return "", fmt.Errorf("unknown color %q", s)
	}
	digits := strings.ToUpper(s[1:])
	for _, r := range digits {
		if !strings.ContainsRune("0123456789ABCDEF", r) {
			return "", fmt.Errorf("invalid hex color %q", s)
		}
	}
	switch len(digits) {
	case 3:
		return "#" + string([]byte{digits[0], digits[0], digits[1], digits[1], digits[2], digits[2]}), nil
	case 6:
		return "#" + digits, nil
	}
	return "", fmt.Errorf("hex color %q must have 3 or 6 digits", s)
}
