// Package mocks holds test doubles for the storefront ports.
package mocks

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"gogo_hotel/internal/domain"
)

// API is a testify mock of domain.StorefrontAPI.
type API struct{ mock.Mock }

var _ domain.StorefrontAPI = (*API)(nil)

func (m *API) ListRooms(ctx context.Context) ([]map[string]any, error) {
	args := m.Called(ctx)
	rooms, _ := args.Get(0).([]map[string]any)
	return rooms, args.Error(1)
}

func (m *API) CreateBooking(ctx context.Context, token string, req domain.BookingRequest) error {
	return m.Called(ctx, token, req).Error(0)
}

func (m *API) MyBookings(ctx context.Context, token string) ([]map[string]any, error) {
	args := m.Called(ctx, token)
	bs, _ := args.Get(0).([]map[string]any)
	return bs, args.Error(1)
}

func (m *API) CancelBooking(ctx context.Context, token, id string) error {
	return m.Called(ctx, token, id).Error(0)
}

func (m *API) Login(ctx context.Context, email, password string) (string, map[string]any, error) {
	args := m.Called(ctx, email, password)
	user, _ := args.Get(1).(map[string]any)
	return args.String(0), user, args.Error(2)
}

func (m *API) Register(ctx context.Context, req domain.RegisterRequest) error {
	return m.Called(ctx, req).Error(0)
}

func (m *API) Me(ctx context.Context, token string) (map[string]any, error) {
	args := m.Called(ctx, token)
	user, _ := args.Get(0).(map[string]any)
	return user, args.Error(1)
}

func (m *API) UpdateMe(ctx context.Context, token string, p domain.ProfileUpdate) (map[string]any, error) {
	args := m.Called(ctx, token, p)
	user, _ := args.Get(0).(map[string]any)
	return user, args.Error(1)
}

// MemKV is an in-memory domain.KVStore.
type MemKV struct {
	mu   sync.Mutex
	data map[string]string
	Err  error // returned by every call when set
}

var _ domain.KVStore = (*MemKV)(nil)

func NewMemKV() *MemKV { return &MemKV{data: map[string]string{}} }

func (m *MemKV) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return "", false, m.Err
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *MemKV) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.data[key] = value
	return nil
}

func (m *MemKV) Del(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

// Len returns how many keys are stored.
func (m *MemKV) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.data)
}
