package sqlstore

// Queries are written with ? placeholders and rebound per dialect.

const listActiveTranslationsSQL = `
SELECT key_name, locale, value, is_active
FROM translations
WHERE is_active = TRUE
ORDER BY key_name, locale
`

const upsertTranslationPostgresSQL = `
INSERT INTO translations (key_name, locale, value, is_active)
VALUES (?, ?, ?, ?)
ON CONFLICT (key_name, locale) DO UPDATE SET
  value      = EXCLUDED.value,
  is_active  = EXCLUDED.is_active,
  updated_at = CURRENT_TIMESTAMP
`

const upsertTranslationMySQLSQL = `
INSERT INTO translations (key_name, locale, value, is_active)
VALUES (?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  value      = VALUES(value),
  is_active  = VALUES(is_active),
  updated_at = CURRENT_TIMESTAMP
`

// -----------------------------------------------------------------------------
// TOURS
// -----------------------------------------------------------------------------

// Column order must match scanTour.
const selectTourSQL = `
SELECT
  t.id, t.slug_en, t.slug_fr, t.title_en, t.title_fr,
  t.description_en, t.description_fr, t.destination,
  t.duration_days, t.duration_nights,
  t.price_adult, t.price_child, t.price_adult_eur, t.price_child_eur,
  t.difficulty, t.min_group_size, t.max_group_size,
  t.languages, t.gallery_images_urls, t.highlights, t.activities,
  t.included_items, t.excluded_items, t.itinerary,
  t.status, t.is_private,
  h.id, h.url, h.alt_en, h.alt_fr,
  th.id, th.url, th.alt_en, th.alt_fr,
  c.id, c.name_en, c.name_fr
FROM tours t
LEFT JOIN images h ON h.id = t.hero_image_id
LEFT JOIN images th ON th.id = t.thumbnail_image_id
LEFT JOIN categories c ON c.id = t.category_id
`

const listPublishedToursSQL = selectTourSQL + `
WHERE t.status = 'published'
ORDER BY t.created_at DESC, t.id
`

const getTourBySlugSQL = selectTourSQL + `
WHERE t.status = 'published' AND (t.slug_en = ? OR t.slug_fr = ?)
LIMIT 1
`

// -----------------------------------------------------------------------------
// ACCESS / BOOKINGS
// -----------------------------------------------------------------------------

// A user_id match wins over an email match.
const lookupRoleSQL = `
SELECT role
FROM user_roles
WHERE user_id = ? OR (? <> '' AND LOWER(email) = LOWER(?))
ORDER BY CASE WHEN user_id = ? THEN 0 ELSE 1 END
LIMIT 1
`

const insertBookingRequestSQL = `
INSERT INTO booking_requests
  (id, tour_id, tour_slug, travel_date, adults, children, name, email, phone, message, locale, currency, total_thb)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`
