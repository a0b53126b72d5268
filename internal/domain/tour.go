package domain

// ImageRef is a joined row from the images table.
type ImageRef struct {
	ID    string  `json:"id"`
	URL   string  `json:"url"`
	AltEN *string `json:"alt_en,omitempty"`
	AltFR *string `json:"alt_fr,omitempty"`
}

type CategoryRef struct {
	ID     string  `json:"id"`
	NameEN *string `json:"name_en,omitempty"`
	NameFR *string `json:"name_fr,omitempty"`
}

// RawTourRecord is a tours row joined with its images and category, as read
// from the backing store. Bilingual fields are independent and nullable.
// List-shaped fields are left untyped: depending on the writer they arrive as a
// JSON-encoded string, a decoded array, or nothing at all.
type RawTourRecord struct {
	ID             string       `json:"id"`
	SlugEN         *string      `json:"slug_en"`
	SlugFR         *string      `json:"slug_fr"`
	TitleEN        *string      `json:"title_en"`
	TitleFR        *string      `json:"title_fr"`
	DescriptionEN  *string      `json:"description_en"`
	DescriptionFR  *string      `json:"description_fr"`
	Destination    *string      `json:"destination"`
	DurationDays   *int         `json:"duration_days"`
	DurationNights *int         `json:"duration_nights"`
	PriceAdult     *float64     `json:"price_adult"` // THB
	PriceChild     *float64     `json:"price_child"` // THB
	PriceAdultEUR  *float64     `json:"price_adult_eur"`
	PriceChildEUR  *float64     `json:"price_child_eur"`
	Difficulty     *string      `json:"difficulty"`
	MinGroupSize   *int         `json:"min_group_size"`
	MaxGroupSize   *int         `json:"max_group_size"`
	Languages      any          `json:"languages"`
	HeroImage      *ImageRef    `json:"hero_image"`
	ThumbnailImage *ImageRef    `json:"thumbnail_image"`
	GalleryImages  any          `json:"gallery_images_urls"`
	Highlights     any          `json:"highlights"`
	Activities     any          `json:"activities"`
	IncludedItems  any          `json:"included_items"`
	ExcludedItems  any          `json:"excluded_items"`
	Itinerary      any          `json:"itinerary"`
	Status         *string      `json:"status"`
	IsPrivate      *bool        `json:"is_private"`
	Category       *CategoryRef `json:"category"`
}

// NormalizedTour is the single-language display shape. It is recomputed on
// every read and never stored.
type NormalizedTour struct {
	ID             string         `json:"id"`
	Slug           string         `json:"slug"`
	Title          string         `json:"title"`
	Description    string         `json:"description"`
	Destination    string         `json:"destination"`
	Duration       Duration       `json:"duration"`
	Price          Price          `json:"price"`
	Difficulty     string         `json:"difficulty"`
	GroupSize      GroupSize      `json:"groupSize"`
	Languages      []string       `json:"languages"`
	HeroImage      string         `json:"heroImage"`
	ThumbnailImage string         `json:"thumbnailImage"`
	GalleryImages  []string       `json:"galleryImages"`
	Highlights     []string       `json:"highlights"`
	Activities     []string       `json:"activities"`
	IncludedItems  []string       `json:"includedItems"`
	ExcludedItems  []string       `json:"excludedItems"`
	Itinerary      []ItineraryDay `json:"itinerary"`
	Status         string         `json:"status"`
	IsPrivate      bool           `json:"isPrivate"`
	CategoryName   string         `json:"categoryName"`
	Locale         Locale         `json:"locale"`
}

type Duration struct {
	Days   int    `json:"days"`
	Nights int    `json:"nights"`
	Label  string `json:"label"`
}

// Price amounts are THB. The EUR amounts are optional operator-set prices that
// take precedence over conversion when present.
type Price struct {
	Adult    float64  `json:"adult"`
	Child    float64  `json:"child"`
	Currency Currency `json:"currency"`
	AdultEUR *float64 `json:"adultEur,omitempty"`
	ChildEUR *float64 `json:"childEur,omitempty"`
}

type GroupSize struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

type ItineraryDay struct {
	Day         int    `json:"day"`
	Title       string `json:"title"`
	Description string `json:"description"`
}
