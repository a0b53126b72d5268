package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"siam_tours/internal/domain"
)

func valStr(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

func strPtr(n sql.NullString) *string {
	if !n.Valid {
		return nil
	}
	s := n.String
	return &s
}

func intPtr(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	i := int(n.Int64)
	return &i
}

func floatPtr(n sql.NullFloat64) *float64 {
	if !n.Valid {
		return nil
	}
	f := n.Float64
	return &f
}

// listVal hands JSON list columns to the normalizer as text; NULL stays nil.
func listVal(n sql.NullString) any {
	if !n.Valid {
		return nil
	}
	return n.String
}

// Repo implements the translation, tour, role and booking ports on one
// database/sql pool, for either Postgres (pgx) or MySQL.
type Repo struct {
	db *sql.DB
	d  dialect
}

func New(db *sql.DB, driver string) (*Repo, error) {
	d, err := dialectFor(driver)
	if err != nil {
		return nil, err
	}
	return &Repo{db: db, d: d}, nil
}

func (r *Repo) ListActiveTranslations(ctx context.Context) ([]domain.TranslationEntry, error) {
	rows, err := r.db.QueryContext(ctx, r.d.rebind(listActiveTranslationsSQL))
	if err != nil {
		return nil, fmt.Errorf("query translations: %w", err)
	}
	defer rows.Close()

	var out []domain.TranslationEntry
	for rows.Next() {
		var e domain.TranslationEntry
		var locale string
		if err := rows.Scan(&e.Key, &locale, &e.Value, &e.Active); err != nil {
			return nil, fmt.Errorf("scan translation: %w", err)
		}
		e.Locale = domain.Locale(locale)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate translations: %w", err)
	}
	return out, nil
}

func (r *Repo) UpsertTranslation(ctx context.Context, e domain.TranslationEntry) error {
	_, err := r.db.ExecContext(ctx, r.d.rebind(r.d.upsertTranslation), e.Key, string(e.Locale), e.Value, e.Active)
	return err
}

func (r *Repo) ListPublishedTours(ctx context.Context) ([]domain.RawTourRecord, error) {
	rows, err := r.db.QueryContext(ctx, r.d.rebind(listPublishedToursSQL))
	if err != nil {
		return nil, fmt.Errorf("query tours: %w", err)
	}
	defer rows.Close()

	out := []domain.RawTourRecord{}
	for rows.Next() {
		t, err := scanTour(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tours: %w", err)
	}
	return out, nil
}

func (r *Repo) GetTourBySlug(ctx context.Context, slug string) (domain.RawTourRecord, error) {
	row := r.db.QueryRowContext(ctx, r.d.rebind(getTourBySlugSQL), slug, slug)
	t, err := scanTour(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.RawTourRecord{}, domain.ErrNotFound
	}
	return t, err
}

func (r *Repo) LookupRole(ctx context.Context, userID, email string) (domain.Role, bool, error) {
	var role string
	err := r.db.QueryRowContext(ctx, r.d.rebind(lookupRoleSQL), userID, email, email, userID).Scan(&role)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("lookup role: %w", err)
	}
	return domain.Role(role), true, nil
}

func (r *Repo) InsertBookingRequest(ctx context.Context, p domain.BookingPayload) error {
	date, err := time.Parse("2006-01-02", p.Date)
	if err != nil {
		return fmt.Errorf("booking date: %w", err)
	}
	_, err = r.db.ExecContext(ctx, r.d.rebind(insertBookingRequestSQL),
		p.RequestID,
		p.TourID,
		p.TourSlug,
		date,
		p.Adults,
		p.Children,
		p.Name,
		p.Email,
		valStr(p.Phone),
		p.Message,
		string(p.Locale),
		string(p.Currency),
		p.TotalTHB,
	)
	if err != nil {
		return fmt.Errorf("insert booking request: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTour(s scanner) (domain.RawTourRecord, error) {
	var t domain.RawTourRecord
	var (
		slugEN, slugFR, titleEN, titleFR   sql.NullString
		descEN, descFR, destination        sql.NullString
		days, nights, gmin, gmax           sql.NullInt64
		adult, child, adultEUR, childEUR   sql.NullFloat64
		difficulty, status                 sql.NullString
		languages, gallery, highlights     sql.NullString
		activities, included, excluded     sql.NullString
		itinerary                          sql.NullString
		private                            sql.NullBool
		heroID, heroURL, heroAltEN         sql.NullString
		heroAltFR, thumbID, thumbURL       sql.NullString
		thumbAltEN, thumbAltFR             sql.NullString
		catID, catNameEN, catNameFR        sql.NullString
	)
	if err := s.Scan(
		&t.ID, &slugEN, &slugFR, &titleEN, &titleFR,
		&descEN, &descFR, &destination,
		&days, &nights,
		&adult, &child, &adultEUR, &childEUR,
		&difficulty, &gmin, &gmax,
		&languages, &gallery, &highlights, &activities,
		&included, &excluded, &itinerary,
		&status, &private,
		&heroID, &heroURL, &heroAltEN, &heroAltFR,
		&thumbID, &thumbURL, &thumbAltEN, &thumbAltFR,
		&catID, &catNameEN, &catNameFR,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return t, err
		}
		return t, fmt.Errorf("scan tour: %w", err)
	}

	t.SlugEN, t.SlugFR = strPtr(slugEN), strPtr(slugFR)
	t.TitleEN, t.TitleFR = strPtr(titleEN), strPtr(titleFR)
	t.DescriptionEN, t.DescriptionFR = strPtr(descEN), strPtr(descFR)
	t.Destination = strPtr(destination)
	t.DurationDays, t.DurationNights = intPtr(days), intPtr(nights)
	t.MinGroupSize, t.MaxGroupSize = intPtr(gmin), intPtr(gmax)
	t.PriceAdult, t.PriceChild = floatPtr(adult), floatPtr(child)
	t.PriceAdultEUR, t.PriceChildEUR = floatPtr(adultEUR), floatPtr(childEUR)
	t.Difficulty, t.Status = strPtr(difficulty), strPtr(status)
	if private.Valid {
		b := private.Bool
		t.IsPrivate = &b
	}

	t.Languages = listVal(languages)
	t.GalleryImages = listVal(gallery)
	t.Highlights = listVal(highlights)
	t.Activities = listVal(activities)
	t.IncludedItems = listVal(included)
	t.ExcludedItems = listVal(excluded)
	t.Itinerary = listVal(itinerary)

	if heroID.Valid {
		t.HeroImage = &domain.ImageRef{ID: heroID.String, URL: heroURL.String, AltEN: strPtr(heroAltEN), AltFR: strPtr(heroAltFR)}
	}
	if thumbID.Valid {
		t.ThumbnailImage = &domain.ImageRef{ID: thumbID.String, URL: thumbURL.String, AltEN: strPtr(thumbAltEN), AltFR: strPtr(thumbAltFR)}
	}
	if catID.Valid {
		t.Category = &domain.CategoryRef{ID: catID.String, NameEN: strPtr(catNameEN), NameFR: strPtr(catNameFR)}
	}
	return t, nil
}
