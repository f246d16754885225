package catalog

import "fmt"

// ColorOption is a display color offered when creating a custom module.
type ColorOption struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// DefaultColor is used when a custom module is created without a color.
const DefaultColor = "bg-gray-700"

// ColorOptions returns the color tokens offered for custom modules.
func ColorOptions() []ColorOption {
	return []ColorOption{
		{"Gray (Dark)", "bg-gray-700"},
		{"Gray (Darker)", "bg-gray-800"},
		{"Indigo (Deep)", "bg-indigo-950"},
		{"Blue (Slate)", "bg-slate-700"},
		{"Cyan (Dark)", "bg-cyan-950"},
		{"Black (Neutral)", "bg-neutral-900"},
		{"White/Silver", "bg-slate-300"},
		{"Emerald", "bg-emerald-900"},
		{"Red", "bg-red-700"},
		{"Orange", "bg-orange-700"},
		{"Pink", "bg-pink-700"},
		{"Yellow", "bg-yellow-600"},
	}
}

var tokenHex = map[string]string{
	"bg-gray-700":    "#374151",
	"bg-gray-800":    "#1f2937",
	"bg-indigo-950":  "#1e1b4b",
	"bg-slate-300":   "#cbd5e1",
	"bg-slate-700":   "#334155",
	"bg-slate-800":   "#1e293b",
	"bg-slate-900":   "#0f172a",
	"bg-cyan-950":    "#083344",
	"bg-neutral-800": "#262626",
	"bg-neutral-900": "#171717",
	"bg-emerald-900": "#064e3b",
	"bg-red-700":     "#b91c1c",
	"bg-orange-700":  "#c2410c",
	"bg-pink-700":    "#be185d",
	"bg-yellow-600":  "#ca8a04",
}

// Hex resolves a color token to a "#rrggbb" value for renderers. Values
// that already look like hex colors pass through; unknown tokens map to
// the default color.
func Hex(token string) string {
	if len(token) == 7 && token[0] == '#' {
		return token
	}
	if hex, ok := tokenHex[token]; ok {
		return hex
	}
	return tokenHex[DefaultColor]
}

// Light reports whether text on the hex color should be dark.
func Light(hex string) bool {
	var r, g, b int
	if _, err := fmt.Sscanf(hex, "#%02x%02x%02x", &r, &g, &b); err != nil {
		return false
	}
	return 299*r+587*g+114*b > 150_000
}
