package tables

import "strings"

// Countries maps common spellings to the country name stored for
// competitors and competitions.
var Countries = map[string]string{
	"ca":                       "Canada",
	"can":                      "Canada",
	"canada":                   "Canada",
	"us":                       "United States",
	"usa":                      "United States",
	"united states":            "United States",
	"united states of america": "United States",
	"jp":                       "Japan",
	"jpn":                      "Japan",
	"japan":                    "Japan",
	"fr":                       "France",
	"france":                   "France",
	"uk":                       "United Kingdom",
	"gb":                       "United Kingdom",
	"united kingdom":           "United Kingdom",
	"mx":                       "Mexico",
	"mexico":                   "Mexico",
	"online":                   "Online",
}

// NormalizeCountry converts a country code or spelling to its stored name.
// Unrecognized values are returned trimmed but otherwise unchanged.
func NormalizeCountry(s string) string {
	s = strings.TrimSpace(s)
	if name, ok := Countries[strings.ToLower(s)]; ok {
		return name
	}
	return s
}
