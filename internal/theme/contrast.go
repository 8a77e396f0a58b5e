package theme

import (
	"math"
	"strconv"
	"strings"
)

// Text color tokens paired with light/dark backgrounds.
const (
	TextDark  = "text-gray-800"
	TextLight = "text-white"
)

// IsLightColor reports whether a 6-hex-digit color (optional leading '#')
// reads as light. Luminance uses the Rec. 601 weights:
//
//	(0.299*R + 0.587*G + 0.114*B) / 255
//
// and "light" means luminance strictly above 0.5.
//
// Inputs are not validated. Wrong-length or non-hex input produces NaN
// components, the comparison comes out false, and the color is treated as
// dark. Callers rely on that (a garbage header color still yields a usable
// text color).
func IsLightColor(hex string) bool {
	hex = strings.TrimPrefix(hex, "#")
	r := hexComponent(hex, 0)
	g := hexComponent(hex, 2)
	b := hexComponent(hex, 4)
	luminance := (0.299*r + 0.587*g + 0.114*b) / 255
	return luminance > 0.5
}

// TextColorFor derives the readable foreground token for the given
// background color.
func TextColorFor(background string) string {
	if IsLightColor(background) {
		return TextDark
	}
	return TextLight
}

func hexComponent(s string, i int) float64 {
	if i+2 > len(s) {
		return math.NaN()
	}
	v, err := strconv.ParseUint(s[i:i+2], 16, 8)
	if err != nil {
		return math.NaN()
	}
	return float64(v)
}
