package domain

import "context"

type TranslationRepository interface {
	ListActiveTranslations(ctx context.Context) ([]TranslationEntry, error)
	UpsertTranslation(ctx context.Context, e TranslationEntry) error
}

type TourRepository interface {
	ListPublishedTours(ctx context.Context) ([]RawTourRecord, error)
	// GetTourBySlug matches either language's slug.
	GetTourBySlug(ctx context.Context, slug string) (RawTourRecord, error)
}

// RoleStore is the legacy role table. ok is false when the user has no row.
type RoleStore interface {
	LookupRole(ctx context.Context, userID, email string) (role Role, ok bool, err error)
}

type BookingRepository interface {
	InsertBookingRequest(ctx context.Context, p BookingPayload) error
}

type Notifier interface {
	SendContact(ctx context.Context, p ContactPayload) error
	SendBooking(ctx context.Context, p BookingPayload) error
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}
