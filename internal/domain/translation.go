package domain

// TranslationEntry is one row of the translations table; (Key, Locale) is unique.
type TranslationEntry struct {
	Key    string `json:"key_name"`
	Locale Locale `json:"locale"`
	Value  string `json:"value"`
	Active bool   `json:"is_active"`
}

// Catalog maps locale -> key -> string.
type Catalog map[Locale]map[string]string

// NewCatalog indexes active entries; inactive rows and unknown locales are skipped.
func NewCatalog(entries []TranslationEntry) Catalog {
	c := Catalog{}
	for _, l := range SupportedLocales {
		c[l] = map[string]string{}
	}
	for _, e := range entries {
		if !e.Active || !e.Locale.Valid() {
			continue
		}
		c[e.Locale][e.Key] = e.Value
	}
	return c
}

func (c Catalog) Get(l Locale, key string) (string, bool) {
	m, ok := c[l]
	if !ok {
		return "", false
	}
	v, ok := m[key]
	return v, ok
}

// Size is the total number of strings across locales.
func (c Catalog) Size() int {
	n := 0
	for _, m := range c {
		n += len(m)
	}
	return n
}
