package models

// Languages lists the translation columns the directory schema carries.
// Feed records may use other language codes; those are kept in memory but only
// the schema languages persist.
var Languages = []string{"fi", "sv", "en"}

// LocalizedString holds per-language values for a translated field. It is
// serialized to <field>_<lang> columns at write time.
type LocalizedString map[string]string

// Set assigns the value for a language and reports whether anything changed.
func (l *LocalizedString) Set(lang, value string) bool {
	if *l == nil {
		*l = LocalizedString{}
	}
	if (*l)[lang] == value {
		return false
	}
	(*l)[lang] = value
	return true
}

// Get returns the value for a language, or "" when unset.
func (l LocalizedString) Get(lang string) string {
	return l[lang]
}

// Default returns the first non-empty value in schema language order.
func (l LocalizedString) Default() string {
	for _, lang := range Languages {
		if v, ok := l[lang]; ok && v != "" {
			return v
		}
	}
	return ""
}
