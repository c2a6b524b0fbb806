package domain

import "context"

type RoomsAPI interface {
	// ListRooms returns raw room records; ErrNoLiveCatalog when the API does not answer status "ok".
	ListRooms(ctx context.Context) ([]map[string]any, error)
}

type BookingsAPI interface {
	CreateBooking(ctx context.Context, token string, req BookingRequest) error
	MyBookings(ctx context.Context, token string) ([]map[string]any, error)
	CancelBooking(ctx context.Context, token, id string) error
}

type AuthAPI interface {
	// Login returns the bearer token and the raw user record.
	Login(ctx context.Context, email, password string) (string, map[string]any, error)
	Register(ctx context.Context, req RegisterRequest) error
	Me(ctx context.Context, token string) (map[string]any, error)
	UpdateMe(ctx context.Context, token string, p ProfileUpdate) (map[string]any, error)
}

// StorefrontAPI is the remote hotel API as a whole.
type StorefrontAPI interface {
	RoomsAPI
	BookingsAPI
	AuthAPI
}

// KVStore is a string key-value store. A missing key is ("", false, nil).
type KVStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Del(ctx context.Context, keys ...string) error
}
