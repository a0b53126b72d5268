package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"siam_tours/internal/domain"
)

const publishedToursKey = "tours:published"

// TourService reads raw tour rows (cache-aside) and normalizes them per request.
// Only raw rows are cached; the display shape is rebuilt on every read.
type TourService struct {
	repo     domain.TourRepository
	cache    domain.Cache // optional
	cacheTTL time.Duration
}

func NewTourService(r domain.TourRepository, c domain.Cache, ttl time.Duration) *TourService {
	return &TourService{repo: r, cache: c, cacheTTL: ttl}
}

// List returns published tours for locale. Private tours are included only
// when includePrivate is set (b2b and admin callers).
func (s *TourService) List(ctx context.Context, locale domain.Locale, includePrivate bool) ([]domain.NormalizedTour, error) {
	var raws []domain.RawTourRecord
	if !s.cacheGet(ctx, publishedToursKey, &raws) {
		var err error
		raws, err = s.repo.ListPublishedTours(ctx)
		if err != nil {
			return nil, fmt.Errorf("list tours: %w", err)
		}
		s.cacheSet(ctx, publishedToursKey, raws)
	}

	out := make([]domain.NormalizedTour, 0, len(raws))
	for _, r := range raws {
		t := Normalize(r, locale)
		if t.IsPrivate && !includePrivate {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

// Get finds a tour by either language's slug.
func (s *TourService) Get(ctx context.Context, slug string, locale domain.Locale) (domain.NormalizedTour, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return domain.NormalizedTour{}, domain.ErrNotFound
	}
	key := "tour:" + strings.ToLower(slug)
	var raw domain.RawTourRecord
	if !s.cacheGet(ctx, key, &raw) {
		var err error
		raw, err = s.repo.GetTourBySlug(ctx, slug)
		if err != nil {
			return domain.NormalizedTour{}, err
		}
		s.cacheSet(ctx, key, raw)
	}
	return Normalize(raw, locale), nil
}

// Invalidate drops the cached list; per-slug entries age out with their TTL.
func (s *TourService) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, publishedToursKey); err != nil {
		log.Warn().Err(err).Str("context", "TourService.Invalidate").Msg("cache delete failed")
	}
}

func (s *TourService) cacheGet(ctx context.Context, key string, dst any) bool {
	if s.cache == nil {
		return false
	}
	ok, err := s.cache.Get(ctx, key, dst)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache read failed")
		return false
	}
	return ok
}

func (s *TourService) cacheSet(ctx context.Context, key string, v any) {
	if s.cache == nil || s.cacheTTL <= 0 {
		return
	}
	if err := s.cache.Set(ctx, key, v, int(s.cacheTTL.Seconds())); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache write failed")
	}
}
