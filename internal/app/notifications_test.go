package app_test

import (
	"context"
	"errors"
	"testing"

	"siam_tours/internal/app"
	"siam_tours/internal/domain"
)

func newNotifications(n domain.Notifier, b *fakeBookings) *app.NotificationService {
	tours := app.NewTourService(&fakeTours{list: []domain.RawTourRecord{{
		ID:            "t1",
		SlugEN:        ptr("city-tour"),
		TitleEN:       ptr("City Tour"),
		TitleFR:       ptr("Visite"),
		PriceAdult:    ptr(1000.0),
		PriceChild:    ptr(500.0),
		PriceAdultEUR: ptr(30.0),
		MaxGroupSize:  ptr(6),
	}}}, nil, 0)
	return app.NewNotificationService(n, b, tours, app.NewCurrencyResolver(app.DefaultEURRate))
}

func TestContact_BuildsPayload(t *testing.T) {
	n := &fakeNotifier{}
	s := newNotifications(n, &fakeBookings{})

	p, err := s.Contact(context.Background(), domain.LocaleFR, domain.ContactRequest{
		Name: " Ana ", Email: "Ana@Example.com", Phone: ptr("  "), Message: "Bonjour",
	})
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(n.contacts) != 1 {
		t.Fatalf("expected one notification, got %d", len(n.contacts))
	}
	got := n.contacts[0]
	if got != p || got.Name != "Ana" || got.Email != "ana@example.com" || got.Phone != nil || got.Source != "contact_form" || got.Locale != domain.LocaleFR {
		t.Fatalf("unexpected payload: %+v", got)
	}
}

func TestContact_Validation(t *testing.T) {
	s := newNotifications(&fakeNotifier{}, &fakeBookings{})
	bad := []domain.ContactRequest{
		{Name: "A", Email: "not-an-email", Message: "m"},
		{Name: "", Email: "a@b.io", Message: "m"},
		{Name: "A", Email: "a@b.io", Message: "   "},
		{Name: "A", Email: "Ana <a@b.io>", Message: "m"},
	}
	for _, req := range bad {
		if _, err := s.Contact(context.Background(), domain.LocaleEN, req); !errors.Is(err, domain.ErrInvalidPayload) {
			t.Fatalf("expected ErrInvalidPayload for %+v, got %v", req, err)
		}
	}
}

func TestContact_DeliveryErrorSurfaces(t *testing.T) {
	s := newNotifications(&fakeNotifier{err: errors.New("502")}, &fakeBookings{})
	_, err := s.Contact(context.Background(), domain.LocaleEN, domain.ContactRequest{Name: "A", Email: "a@b.io", Message: "m"})
	if err == nil {
		t.Fatalf("expected error")
	}
}

func TestBook_PricesStoresAndNotifies(t *testing.T) {
	n := &fakeNotifier{}
	b := &fakeBookings{}
	s := newNotifications(n, b)

	p, err := s.Book(context.Background(), domain.LocaleFR, domain.CurrencyEUR, domain.BookingRequest{
		TourSlug: "city-tour", Date: "2099-01-15", Adults: 2, Children: 1, Name: "Ana", Email: "ana@example.com",
	})
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if p.RequestID == "" || p.TourTitle != "Visite" || p.TotalTHB != 2500 {
		t.Fatalf("unexpected payload: %+v", p)
	}
	// child has no EUR price, so the whole total is converted: ceil(2500/37.6) = 67
	if p.DisplayTotal != "67 €" {
		t.Fatalf("unexpected display total: %q", p.DisplayTotal)
	}
	if len(b.saved) != 1 || b.saved[0].RequestID != p.RequestID {
		t.Fatalf("booking not stored: %+v", b.saved)
	}
	if len(n.bookings) != 1 {
		t.Fatalf("booking not notified")
	}

	p, err = s.Book(context.Background(), domain.LocaleEN, domain.CurrencyEUR, domain.BookingRequest{
		TourSlug: "city-tour", Date: "2099-01-15", Adults: 2, Name: "Ana", Email: "ana@example.com",
	})
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if p.DisplayTotal != "60 €" {
		t.Fatalf("expected operator EUR price, got %q", p.DisplayTotal)
	}
}

func TestBook_NotifierFailureKeepsStoredRequest(t *testing.T) {
	b := &fakeBookings{}
	s := newNotifications(&fakeNotifier{err: errors.New("down")}, b)
	_, err := s.Book(context.Background(), domain.LocaleEN, domain.CurrencyTHB, domain.BookingRequest{
		TourSlug: "city-tour", Date: "2099-01-15", Adults: 1, Name: "Ana", Email: "ana@example.com",
	})
	if err != nil {
		t.Fatalf("stored booking should not fail on notifier error: %v", err)
	}
	if len(b.saved) != 1 {
		t.Fatalf("expected stored booking")
	}
}

func TestBook_Validation(t *testing.T) {
	s := newNotifications(nil, &fakeBookings{})
	base := domain.BookingRequest{TourSlug: "city-tour", Date: "2099-01-15", Adults: 1, Name: "Ana", Email: "ana@example.com"}

	mutate := []func(r *domain.BookingRequest){
		func(r *domain.BookingRequest) { r.Adults = 0 },
		func(r *domain.BookingRequest) { r.Children = -1 },
		func(r *domain.BookingRequest) { r.Date = "15/01/2099" },
		func(r *domain.BookingRequest) { r.Date = "2000-01-01" },
		func(r *domain.BookingRequest) { r.TourSlug = "missing" },
		func(r *domain.BookingRequest) { r.Adults = 5; r.Children = 2 },
		func(r *domain.BookingRequest) { r.Email = "" },
		func(r *domain.BookingRequest) { r.Name = " " },
	}
	for i, m := range mutate {
		req := base
		m(&req)
		if _, err := s.Book(context.Background(), domain.LocaleEN, domain.CurrencyTHB, req); !errors.Is(err, domain.ErrInvalidPayload) {
			t.Fatalf("case %d: expected ErrInvalidPayload, got %v", i, err)
		}
	}

	if _, err := s.Book(context.Background(), domain.LocaleEN, domain.CurrencyTHB, base); err != nil {
		t.Fatalf("valid request with disabled notifier failed: %v", err)
	}
}
