package config

import "strings"

// Languages whose transcription word tokens carry a pipe-delimited reading
// annotation (word|reading). Keyed by the bare language subtag.
var annotatedReadings = map[string]bool{
	"ja":  true,
	"jpn": true,
}

// HasAnnotatedReadings returns true if transcript tokens for the language use
// the word|reading form and only the part before the pipe should be displayed.
func HasAnnotatedReadings(langCode string) bool {
	if i := strings.IndexAny(langCode, "-_"); i >= 0 {
		langCode = langCode[:i]
	}
	return annotatedReadings[langCode]
}
