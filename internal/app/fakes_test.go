package app_test

import (
	"context"
	"encoding/json"
	"sync"

	"siam_tours/internal/domain"
)

// ---- fakes ----

type fakeTranslations struct {
	mu      sync.Mutex
	entries []domain.TranslationEntry
	err     error
	calls   int
	started chan struct{} // closed on first call when non-nil
	release chan struct{} // blocks every call until closed when non-nil
	upserts []domain.TranslationEntry
}

func (f *fakeTranslations) ListActiveTranslations(ctx context.Context) ([]domain.TranslationEntry, error) {
	f.mu.Lock()
	f.calls++
	if f.calls == 1 && f.started != nil {
		close(f.started)
	}
	entries, err, release := f.entries, f.err, f.release
	f.mu.Unlock()
	if release != nil {
		<-release
	}
	return entries, err
}

func (f *fakeTranslations) UpsertTranslation(ctx context.Context, e domain.TranslationEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if e.Key == "fail.me" {
		return context.DeadlineExceeded
	}
	f.upserts = append(f.upserts, e)
	return nil
}

func (f *fakeTranslations) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// fakeCache round-trips through JSON like the redis adapter does.
type fakeCache struct {
	mu    sync.Mutex
	store map[string][]byte
	dels  []string
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.store[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.store == nil {
		c.store = map[string][]byte{}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.store[key] = b
	return nil
}

func (c *fakeCache) Del(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.store, key)
	c.dels = append(c.dels, key)
	return nil
}

type fakeTours struct {
	list  []domain.RawTourRecord
	err   error
	calls int
}

func (f *fakeTours) ListPublishedTours(ctx context.Context) ([]domain.RawTourRecord, error) {
	f.calls++
	return f.list, f.err
}

func (f *fakeTours) GetTourBySlug(ctx context.Context, slug string) (domain.RawTourRecord, error) {
	f.calls++
	if f.err != nil {
		return domain.RawTourRecord{}, f.err
	}
	for _, r := range f.list {
		if deref(r.SlugEN) == slug || deref(r.SlugFR) == slug {
			return r, nil
		}
	}
	return domain.RawTourRecord{}, domain.ErrNotFound
}

type fakeRoles struct {
	role  domain.Role
	ok    bool
	err   error
	calls int
}

func (f *fakeRoles) LookupRole(ctx context.Context, userID, email string) (domain.Role, bool, error) {
	f.calls++
	return f.role, f.ok, f.err
}

type fakeNotifier struct {
	contacts []domain.ContactPayload
	bookings []domain.BookingPayload
	err      error
}

func (n *fakeNotifier) SendContact(ctx context.Context, p domain.ContactPayload) error {
	n.contacts = append(n.contacts, p)
	return n.err
}

func (n *fakeNotifier) SendBooking(ctx context.Context, p domain.BookingPayload) error {
	n.bookings = append(n.bookings, p)
	return n.err
}

type fakeBookings struct {
	saved []domain.BookingPayload
}

func (b *fakeBookings) InsertBookingRequest(ctx context.Context, p domain.BookingPayload) error {
	b.saved = append(b.saved, p)
	return nil
}

func ptr[T any](v T) *T { return &v }

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
