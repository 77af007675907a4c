package extraction

import "strings"

// languageNames is the static reference list used to validate the languages
// the model reports on a receipt. The field is display-only metadata, so a
// plain string checked against this list is all that is needed.
var languageNames = []string{
	"Arabic",
	"Bengali",
	"Chinese",
	"Czech",
	"Danish",
	"Dutch",
	"English",
	"Finnish",
	"French",
	"German",
	"Greek",
	"Gujarati",
	"Hebrew",
	"Hindi",
	"Hungarian",
	"Indonesian",
	"Italian",
	"Japanese",
	"Kannada",
	"Korean",
	"Malay",
	"Malayalam",
	"Marathi",
	"Norwegian",
	"Polish",
	"Portuguese",
	"Punjabi",
	"Romanian",
	"Russian",
	"Spanish",
	"Swedish",
	"Tamil",
	"Telugu",
	"Thai",
	"Turkish",
	"Ukrainian",
	"Urdu",
	"Vietnamese",
}

var languagesByLower = func() map[string]string {
	m := make(map[string]string, len(languageNames))
	for _, name := range languageNames {
		m[strings.ToLower(name)] = name
	}
	return m
}()

// KnownLanguages filters a reported language list down to entries found in
// the reference list, canonicalizing their casing. Unknown entries are
// dropped silently.
func KnownLanguages(reported []string) []string {
	known := make([]string, 0, len(reported))
	for _, lang := range reported {
		if canonical, ok := languagesByLower[strings.ToLower(strings.TrimSpace(lang))]; ok {
			known = append(known, canonical)
		}
	}
	return known
}
