package app

import (
	"context"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"siam_tours/internal/adapters/observability"
	"siam_tours/internal/domain"
)

const (
	DefaultTranslationsTTL = 5 * time.Minute
	translationsCacheKey   = "translations:v1"
)

// TranslationStore is the process-wide translation catalog. A cold or expired
// catalog is refetched by exactly one caller; everyone else waits on that fetch.
// A failed fetch keeps serving the previous snapshot (or an empty one).
type TranslationStore struct {
	repo  domain.TranslationRepository
	cache domain.Cache // optional, shared across instances
	ttl   time.Duration
	now   func() time.Time

	mu        sync.RWMutex
	catalog   domain.Catalog
	fetchedAt time.Time
	failedAt  time.Time // last failed backing fetch; zero after a success
	stale     bool

	flight singleflight.Group
}

type StoreOption func(*TranslationStore)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) StoreOption {
	return func(s *TranslationStore) { s.now = now }
}

func NewTranslationStore(repo domain.TranslationRepository, cache domain.Cache, ttl time.Duration, opts ...StoreOption) *TranslationStore {
	if ttl <= 0 {
		ttl = DefaultTranslationsTTL
	}
	s := &TranslationStore{repo: repo, cache: cache, ttl: ttl, now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Init warms the catalog. The store stays usable when it fails.
func (s *TranslationStore) Init(ctx context.Context) error {
	_, err := s.refresh(ctx)
	return err
}

// Invalidate forces the next read to refetch. The old snapshot is only served
// again if that refetch fails.
func (s *TranslationStore) Invalidate(ctx context.Context) {
	s.mu.Lock()
	s.stale = true
	s.failedAt = time.Time{}
	s.mu.Unlock()
	if s.cache != nil {
		if err := s.cache.Del(ctx, translationsCacheKey); err != nil {
			log.Warn().Err(err).Str("context", "TranslationStore.Invalidate").Msg("shared cache delete failed")
		}
	}
}

// FetchAll returns the current catalog, refreshing it when expired. After a
// failed fetch the previous catalog is served for one TTL before the next attempt.
func (s *TranslationStore) FetchAll(ctx context.Context) domain.Catalog {
	if c, ok := s.fresh(); ok {
		return c
	}
	if s.backingOff() {
		return s.snapshot()
	}
	c, err := s.refresh(ctx)
	if err != nil {
		log.Error().Err(err).Str("context", "TranslationStore.FetchAll").Msg("translation fetch failed; serving previous catalog")
		return s.snapshot()
	}
	return c
}

// Lookup resolves key for locale and substitutes {name} params. It never
// returns an empty string: exact match, then the other locale, then a label
// derived from the key.
func (s *TranslationStore) Lookup(ctx context.Context, locale domain.Locale, key string, params map[string]string) string {
	if !locale.Valid() {
		locale = domain.DefaultLocale
	}
	c := s.FetchAll(ctx)
	if v, ok := c.Get(locale, key); ok && v != "" {
		return Interpolate(v, params)
	}
	if v, ok := c.Get(locale.Other(), key); ok && v != "" {
		log.Debug().Str("key", key).Str("locale", locale.String()).Str("served", locale.Other().String()).Msg("translation locale fallback")
		observability.ObserveTranslationFallback("locale")
		return Interpolate(v, params)
	}
	log.Debug().Str("key", key).Str("locale", locale.String()).Msg("translation missing; humanized key")
	observability.ObserveTranslationFallback("humanized")
	return HumanizeKey(key)
}

// Messages is every key for locale, with gaps filled from the other locale.
func (s *TranslationStore) Messages(ctx context.Context, locale domain.Locale) map[string]string {
	if !locale.Valid() {
		locale = domain.DefaultLocale
	}
	c := s.FetchAll(ctx)
	out := make(map[string]string, len(c[locale])+len(c[locale.Other()]))
	for k, v := range c[locale.Other()] {
		if v != "" {
			out[k] = v
		}
	}
	for k, v := range c[locale] {
		if v != "" {
			out[k] = v
		}
	}
	return out
}

func (s *TranslationStore) fresh() (domain.Catalog, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.catalog == nil || s.stale || s.now().Sub(s.fetchedAt) >= s.ttl {
		return nil, false
	}
	return s.catalog, true
}

func (s *TranslationStore) backingOff() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.failedAt.IsZero() && s.now().Sub(s.failedAt) < s.ttl
}

func (s *TranslationStore) snapshot() domain.Catalog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.catalog == nil {
		return domain.NewCatalog(nil)
	}
	return s.catalog
}

func (s *TranslationStore) refresh(ctx context.Context) (domain.Catalog, error) {
	// the shared fetch must not die with whichever caller happened to start it
	fctx := context.WithoutCancel(ctx)
	v, err, _ := s.flight.Do(translationsCacheKey, func() (any, error) {
		if c, ok := s.fresh(); ok {
			return c, nil
		}
		c, at, err := s.load(fctx)
		if err != nil {
			s.mu.Lock()
			s.failedAt = s.now()
			s.mu.Unlock()
			return nil, err
		}
		s.mu.Lock()
		s.catalog, s.fetchedAt, s.stale, s.failedAt = c, at, false, time.Time{}
		s.mu.Unlock()
		return c, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(domain.Catalog), nil
}

type cachedCatalog struct {
	Catalog   domain.Catalog `json:"catalog"`
	FetchedAt time.Time      `json:"fetched_at"`
}

func (s *TranslationStore) load(ctx context.Context) (domain.Catalog, time.Time, error) {
	if s.cache != nil {
		var cc cachedCatalog
		ok, err := s.cache.Get(ctx, translationsCacheKey, &cc)
		if err != nil {
			log.Warn().Err(err).Str("context", "TranslationStore.load").Msg("shared cache read failed")
		}
		if ok && cc.Catalog != nil && s.now().Sub(cc.FetchedAt) < s.ttl {
			return cc.Catalog, cc.FetchedAt, nil
		}
	}

	entries, err := s.repo.ListActiveTranslations(ctx)
	observability.ObserveTranslationFetch(err)
	if err != nil {
		return nil, time.Time{}, err
	}
	c := domain.NewCatalog(entries)
	at := s.now()
	log.Info().Int("strings", c.Size()).Msg("translation catalog loaded")

	if s.cache != nil {
		if err := s.cache.Set(ctx, translationsCacheKey, cachedCatalog{Catalog: c, FetchedAt: at}, int(s.ttl.Seconds())); err != nil {
			log.Warn().Err(err).Str("context", "TranslationStore.load").Msg("shared cache write failed")
		}
	}
	return c, at, nil
}

var paramToken = regexp.MustCompile(`\{([A-Za-z0-9_.-]+)\}`)

// Interpolate replaces {name} with params[name]; unknown tokens stay as written.
func Interpolate(s string, params map[string]string) string {
	if len(params) == 0 || !strings.Contains(s, "{") {
		return s
	}
	return paramToken.ReplaceAllStringFunc(s, func(tok string) string {
		if v, ok := params[tok[1:len(tok)-1]]; ok {
			return v
		}
		return tok
	})
}

// HumanizeKey turns "tours.detail.book_now" into "Book Now".
func HumanizeKey(key string) string {
	parts := strings.Split(key, ".")
	last := ""
	for i := len(parts) - 1; i >= 0; i-- {
		if t := strings.TrimSpace(parts[i]); t != "" {
			last = t
			break
		}
	}
	last = strings.Join(strings.Fields(strings.NewReplacer("_", " ", "-", " ").Replace(last)), " ")
	if last == "" {
		return "Untitled"
	}
	return cases.Title(language.English, cases.NoLower).String(last)
}
