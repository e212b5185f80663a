package config

import "sort"

// Palette holds the status bar colours as ANSI 256 codes.
type Palette struct {
	Primary  string
	Muted    string
	Success  string
	Warning  string
	Error    string
	Emphasis string
}

var palettes = map[string]Palette{
	"default": {
		Primary:  "213", // Purple
		Muted:    "245", // Grey
		Success:  "114", // Green
		Warning:  "220", // Yellow
		Error:    "196", // Red
		Emphasis: "212", // Light Pink
	},
	"dark": {
		Primary:  "105",
		Muted:    "240",
		Success:  "78",
		Warning:  "214",
		Error:    "160",
		Emphasis: "147",
	},
	"light": {
		Primary:  "135",
		Muted:    "250",
		Success:  "150",
		Warning:  "222",
		Error:    "210",
		Emphasis: "219",
	},
	"monochrome": {
		Primary:  "245",
		Muted:    "241",
		Success:  "252",
		Warning:  "248",
		Error:    "255",
		Emphasis: "255",
	},
	"ocean": {
		Primary:  "31",
		Muted:    "244",
		Success:  "36",
		Warning:  "220",
		Error:    "196",
		Emphasis: "51",
	},
}

// GetPalette returns the named palette, or the default one if name is
// unknown.
func GetPalette(name string) Palette {
	if p, ok := palettes[name]; ok {
		return p
	}
	return palettes["default"]
}

// ListPalettes returns the palette names in order.
func ListPalettes() []string {
	names := make([]string, 0, len(palettes))
	for name := range palettes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
