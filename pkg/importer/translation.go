package importer

import "github.com/Ramsey-B/fern/pkg/ptv"

// setTranslation applies one feed translation entry through a model setter.
// When override is non-empty it replaces the entry's own value, which is how
// composed fields like street addresses are written.
func setTranslation(set func(lang, value string), entry ptv.LocalizedText, override string) {
	value := override
	if value == "" {
		value = entry.Value
	}
	set(entry.Language, value)
}
