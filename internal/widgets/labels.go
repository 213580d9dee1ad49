package widgets

import (
	"github.com/pariz/gountries"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	countryQuery = gountries.New()
	titleCaser   = cases.Title(language.English)
)

// displayLabel maps raw group keys to human-readable chart labels. Country
// breakdowns arrive as ISO codes and are expanded to country names; everything
// else passes through untouched.
func displayLabel(dimension, key string) string {
	if dimension != "country" || key == "" {
		return key
	}
	country, err := countryQuery.FindCountryByAlpha(key)
	if err != nil {
		return titleCaser.String(key)
	}
	return country.Name.Common
}
