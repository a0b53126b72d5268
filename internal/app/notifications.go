package app

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"siam_tours/internal/domain"
)

const maxMessageLen = 5000

// NotificationService builds the payloads handed to the email-sending
// function. Templating and delivery are the collaborator's job.
type NotificationService struct {
	notifier domain.Notifier // nil disables delivery
	bookings domain.BookingRepository
	tours    *TourService
	currency *CurrencyResolver
	newID    func() string
	now      func() time.Time
}

func NewNotificationService(n domain.Notifier, b domain.BookingRepository, tours *TourService, cur *CurrencyResolver) *NotificationService {
	return &NotificationService{
		notifier: n,
		bookings: b,
		tours:    tours,
		currency: cur,
		newID:    func() string { return uuid.NewString() },
		now:      time.Now,
	}
}

func (s *NotificationService) Contact(ctx context.Context, locale domain.Locale, req domain.ContactRequest) (domain.ContactPayload, error) {
	name := strings.TrimSpace(req.Name)
	msg := strings.TrimSpace(req.Message)
	email, err := validEmail(req.Email)
	if err != nil {
		return domain.ContactPayload{}, err
	}
	if name == "" || msg == "" || len(msg) > maxMessageLen {
		return domain.ContactPayload{}, fmt.Errorf("%w: name and message are required", domain.ErrInvalidPayload)
	}
	source := strings.TrimSpace(req.Source)
	if source == "" {
		source = "contact_form"
	}

	p := domain.ContactPayload{
		Name:    name,
		Email:   email,
		Phone:   trimmedPtr(req.Phone),
		Message: msg,
		Source:  source,
		Locale:  locale,
	}
	if err := s.deliver(func() error { return s.notifier.SendContact(ctx, p) }); err != nil {
		return domain.ContactPayload{}, err
	}
	return p, nil
}

// Book validates a booking request, prices it in cur, stores it and notifies.
func (s *NotificationService) Book(ctx context.Context, locale domain.Locale, cur domain.Currency, req domain.BookingRequest) (domain.BookingPayload, error) {
	email, err := validEmail(req.Email)
	if err != nil {
		return domain.BookingPayload{}, err
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.BookingPayload{}, fmt.Errorf("%w: name is required", domain.ErrInvalidPayload)
	}
	if req.Adults < 1 || req.Children < 0 {
		return domain.BookingPayload{}, fmt.Errorf("%w: at least one adult is required", domain.ErrInvalidPayload)
	}
	date, err := time.Parse("2006-01-02", strings.TrimSpace(req.Date))
	if err != nil {
		return domain.BookingPayload{}, fmt.Errorf("%w: date must be YYYY-MM-DD", domain.ErrInvalidPayload)
	}
	if date.Before(s.now().Truncate(24 * time.Hour)) {
		return domain.BookingPayload{}, fmt.Errorf("%w: date is in the past", domain.ErrInvalidPayload)
	}
	if len(req.Message) > maxMessageLen {
		return domain.BookingPayload{}, fmt.Errorf("%w: message too long", domain.ErrInvalidPayload)
	}

	tour, err := s.tours.Get(ctx, req.TourSlug, locale)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.BookingPayload{}, fmt.Errorf("%w: unknown tour %q", domain.ErrInvalidPayload, req.TourSlug)
		}
		return domain.BookingPayload{}, err
	}
	if tour.GroupSize.Max > 0 && req.Adults+req.Children > tour.GroupSize.Max {
		return domain.BookingPayload{}, fmt.Errorf("%w: group larger than %d", domain.ErrInvalidPayload, tour.GroupSize.Max)
	}

	totalTHB := float64(req.Adults)*tour.Price.Adult + float64(req.Children)*tour.Price.Child
	p := domain.BookingPayload{
		RequestID:    s.newID(),
		TourID:       tour.ID,
		TourSlug:     tour.Slug,
		TourTitle:    tour.Title,
		Date:         date.Format("2006-01-02"),
		Adults:       req.Adults,
		Children:     req.Children,
		Name:         name,
		Email:        email,
		Phone:        trimmedPtr(req.Phone),
		Message:      strings.TrimSpace(req.Message),
		Locale:       locale,
		Currency:     cur,
		TotalTHB:     totalTHB,
		DisplayTotal: s.currency.Format(cur, totalTHB, eurTotal(tour.Price, req.Adults, req.Children)),
	}

	if s.bookings != nil {
		if err := s.bookings.InsertBookingRequest(ctx, p); err != nil {
			return domain.BookingPayload{}, fmt.Errorf("store booking request: %w", err)
		}
	}
	if err := s.deliver(func() error { return s.notifier.SendBooking(ctx, p) }); err != nil {
		// the request is stored; operators still see it in the back office
		log.Error().Err(err).Str("request_id", p.RequestID).Msg("booking notification failed")
	}
	return p, nil
}

func (s *NotificationService) deliver(send func() error) error {
	if s.notifier == nil {
		log.Warn().Msg("notifier disabled; payload not sent")
		return nil
	}
	if err := send(); err != nil {
		return fmt.Errorf("send notification: %w", err)
	}
	return nil
}

// eurTotal uses operator-set EUR prices only when every priced seat has one.
func eurTotal(p domain.Price, adults, children int) *float64 {
	if p.AdultEUR == nil || (children > 0 && p.ChildEUR == nil) {
		return nil
	}
	total := float64(adults) * *p.AdultEUR
	if children > 0 {
		total += float64(children) * *p.ChildEUR
	}
	return &total
}

func validEmail(s string) (string, error) {
	addr, err := mail.ParseAddress(strings.TrimSpace(s))
	if err != nil || addr.Name != "" {
		return "", fmt.Errorf("%w: invalid email", domain.ErrInvalidPayload)
	}
	return strings.ToLower(addr.Address), nil
}

func trimmedPtr(p *string) *string {
	if p == nil {
		return nil
	}
	t := strings.TrimSpace(*p)
	if t == "" {
		return nil
	}
	return &t
}
