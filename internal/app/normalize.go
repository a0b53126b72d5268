package app

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"siam_tours/internal/domain"
)

const (
	UntitledTour     = "Untitled Tour"
	defaultDays      = 1
	defaultGroupMin  = 2
	defaultGroupMax  = 8
	defaultStatus    = "draft"
	defaultPriceCode = domain.CurrencyTHB
)

// Normalize shapes a raw tour row for one locale. It has no I/O and never
// fails: bilingual fields fall back to the other language, numeric fields to
// business defaults, list fields to empty lists.
func Normalize(raw domain.RawTourRecord, locale domain.Locale) domain.NormalizedTour {
	if !locale.Valid() {
		locale = domain.DefaultLocale
	}

	days := intOr(raw.DurationDays, defaultDays)
	if days < 1 {
		days = defaultDays
	}
	nights := days - 1
	if raw.DurationNights != nil && *raw.DurationNights >= 0 {
		nights = *raw.DurationNights
	}

	gmin := intOr(raw.MinGroupSize, defaultGroupMin)
	gmax := intOr(raw.MaxGroupSize, defaultGroupMax)
	if gmin < 1 {
		gmin = 1
	}
	if gmax < gmin {
		gmax = gmin
	}

	gallery := ParseList(raw.GalleryImages)
	hero := imageURL(raw.HeroImage)
	thumb := imageURL(raw.ThumbnailImage)
	if hero == "" {
		hero = thumb
	}
	if hero == "" && len(gallery) > 0 {
		hero = gallery[0]
	}
	if thumb == "" {
		thumb = hero
	}

	slug := pick(locale, raw.SlugEN, raw.SlugFR)
	if slug == "" {
		slug = raw.ID
	}
	title := pick(locale, raw.TitleEN, raw.TitleFR)
	if title == "" {
		title = UntitledTour
	}

	var category string
	if raw.Category != nil {
		category = pick(locale, raw.Category.NameEN, raw.Category.NameFR)
	}

	status := strings.TrimSpace(deref(raw.Status))
	if status == "" {
		status = defaultStatus
	}

	return domain.NormalizedTour{
		ID:          raw.ID,
		Slug:        slug,
		Title:       title,
		Description: pick(locale, raw.DescriptionEN, raw.DescriptionFR),
		Destination: strings.TrimSpace(deref(raw.Destination)),
		Duration: domain.Duration{
			Days:   days,
			Nights: nights,
			Label:  durationLabel(locale, days, nights),
		},
		Price: domain.Price{
			Adult:    floatOr(raw.PriceAdult, 0),
			Child:    floatOr(raw.PriceChild, 0),
			Currency: defaultPriceCode,
			AdultEUR: positive(raw.PriceAdultEUR),
			ChildEUR: positive(raw.PriceChildEUR),
		},
		Difficulty:     strings.TrimSpace(deref(raw.Difficulty)),
		GroupSize:      domain.GroupSize{Min: gmin, Max: gmax},
		Languages:      ParseList(raw.Languages),
		HeroImage:      hero,
		ThumbnailImage: thumb,
		GalleryImages:  gallery,
		Highlights:     ParseList(raw.Highlights),
		Activities:     ParseList(raw.Activities),
		IncludedItems:  ParseList(raw.IncludedItems),
		ExcludedItems:  ParseList(raw.ExcludedItems),
		Itinerary:      ParseItinerary(raw.Itinerary, locale),
		Status:         status,
		IsPrivate:      raw.IsPrivate != nil && *raw.IsPrivate,
		CategoryName:   category,
		Locale:         locale,
	}
}

// ParseList is the single place where list-shaped columns are decoded. It
// accepts nil, a JSON-encoded string (or bytes), a []string, or a []any of
// strings and {url|src|name} objects, and always returns a non-nil slice.
// Anything it cannot read becomes an empty list.
func ParseList(v any) []string {
	out := []string{}
	switch t := v.(type) {
	case nil:
	case []string:
		for _, s := range t {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	case []any:
		for _, it := range t {
			if s := listItem(it); s != "" {
				out = append(out, s)
			}
		}
	case string:
		return ParseList(decodeJSON([]byte(t)))
	case []byte:
		return ParseList(decodeJSON(t))
	case json.RawMessage:
		return ParseList(decodeJSON(t))
	}
	return out
}

// decodeJSON returns the decoded array, or nil for anything that is not one.
// A JSON string holding an array (a JSONB column written from an already
// serialized value) is unwrapped once.
func decodeJSON(b []byte) any {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return nil
	}
	if s, ok := v.(string); ok {
		if err := json.Unmarshal([]byte(s), &v); err != nil {
			return nil
		}
	}
	if arr, ok := v.([]any); ok {
		return arr
	}
	return nil
}

func listItem(it any) string {
	switch t := it.(type) {
	case string:
		return strings.TrimSpace(t)
	case map[string]any:
		for _, k := range []string{"url", "src", "name"} {
			if s, ok := t[k].(string); ok && strings.TrimSpace(s) != "" {
				return strings.TrimSpace(s)
			}
		}
	}
	return ""
}

// ParseItinerary decodes the itinerary column. Items are either day objects
// (with optional per-language title/description keys) or plain strings, which
// become that day's description.
func ParseItinerary(v any, locale domain.Locale) []domain.ItineraryDay {
	out := []domain.ItineraryDay{}
	var items []any
	switch t := v.(type) {
	case []any:
		items = t
	case []map[string]any:
		for _, m := range t {
			items = append(items, m)
		}
	case []string:
		for _, s := range t {
			items = append(items, s)
		}
	case string:
		items, _ = decodeJSON([]byte(t)).([]any)
	case []byte:
		items, _ = decodeJSON(t).([]any)
	case json.RawMessage:
		items, _ = decodeJSON(t).([]any)
	}

	for i, it := range items {
		day := domain.ItineraryDay{Day: i + 1}
		switch t := it.(type) {
		case string:
			day.Description = strings.TrimSpace(t)
			if day.Description == "" {
				continue
			}
		case map[string]any:
			if n, ok := dayNumber(t["day"]); ok {
				day.Day = n
			}
			day.Title = localized(t, "title", locale)
			day.Description = localized(t, "description", locale)
			if day.Title == "" && day.Description == "" {
				continue
			}
		default:
			continue
		}
		out = append(out, day)
	}
	return out
}

func localized(m map[string]any, field string, locale domain.Locale) string {
	for _, k := range []string{field + "_" + locale.String(), field, field + "_" + locale.Other().String()} {
		if s, ok := m[k].(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

func dayNumber(v any) (int, bool) {
	switch t := v.(type) {
	case float64:
		if t >= 1 {
			return int(t), true
		}
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(t)); err == nil && n >= 1 {
			return n, true
		}
	}
	return 0, false
}

// pick prefers the locale's value, then the other language's, then "".
func pick(locale domain.Locale, en, fr *string) string {
	first, second := en, fr
	if locale == domain.LocaleFR {
		first, second = fr, en
	}
	if s := strings.TrimSpace(deref(first)); s != "" {
		return s
	}
	return strings.TrimSpace(deref(second))
}

func durationLabel(locale domain.Locale, days, nights int) string {
	dayWord, nightWord := "day", "night"
	if locale == domain.LocaleFR {
		dayWord, nightWord = "jour", "nuit"
	}
	label := fmt.Sprintf("%d %s", days, plural(dayWord, days))
	if nights > 0 {
		label += fmt.Sprintf(" / %d %s", nights, plural(nightWord, nights))
	}
	return label
}

func plural(word string, n int) string {
	if n > 1 {
		return word + "s"
	}
	return word
}

func imageURL(img *domain.ImageRef) string {
	if img == nil {
		return ""
	}
	return strings.TrimSpace(img.URL)
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func intOr(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}

func floatOr(p *float64, def float64) float64 {
	if p == nil {
		return def
	}
	return *p
}

func positive(p *float64) *float64 {
	if p == nil || *p <= 0 {
		return nil
	}
	v := *p
	return &v
}
