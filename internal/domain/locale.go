package domain

import "strings"

// Locale is one of the supported display languages.
type Locale string

const (
	LocaleEN Locale = "en"
	LocaleFR Locale = "fr"
)

// DefaultLocale applies when the request path carries no locale segment.
const DefaultLocale = LocaleFR

var SupportedLocales = []Locale{LocaleEN, LocaleFR}

// ParseLocale accepts "en"/"fr" in any case; anything else is not a locale.
func ParseLocale(s string) (Locale, bool) {
	switch Locale(strings.ToLower(strings.TrimSpace(s))) {
	case LocaleEN:
		return LocaleEN, true
	case LocaleFR:
		return LocaleFR, true
	}
	return "", false
}

func (l Locale) Valid() bool {
	return l == LocaleEN || l == LocaleFR
}

// Other returns the fallback locale for bilingual fields.
func (l Locale) Other() Locale {
	if l == LocaleEN {
		return LocaleFR
	}
	return LocaleEN
}

func (l Locale) String() string { return string(l) }
