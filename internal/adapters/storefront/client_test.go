package storefront_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gogo_hotel/internal/adapters/observability"
	"gogo_hotel/internal/adapters/storefront"
	"gogo_hotel/internal/domain"
)

func newClient(t *testing.T, h http.HandlerFunc) *storefront.Client {
	t.Helper()
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	cl, err := storefront.New(ts.URL, 100) // high RPS for tests
	require.NoError(t, err)
	return cl
}

func ctxT(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestNew_RejectsBadBase(t *testing.T) {
	_, err := storefront.New("not a url", 1)
	assert.Error(t, err)
	_, err = storefront.New("http://localhost:3333", 0)
	assert.NoError(t, err)
}

func TestListRooms_RetriesThenSuccess(t *testing.T) {
	var hits int32
	cl := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rooms", r.URL.Path)
		switch atomic.AddInt32(&hits, 1) {
		case 1, 2:
			// two transient failures
			w.WriteHeader(http.StatusInternalServerError)
		default:
			writeJSON(w, 200, map[string]any{"status": "ok", "rooms": []any{
				map[string]any{"id": 1.0, "type": "deluxe"},
			}})
		}
	})

	rooms, err := cl.ListRooms(ctxT(t))
	require.NoError(t, err)
	require.Len(t, rooms, 1)
	assert.Equal(t, "deluxe", rooms[0]["type"])
	assert.GreaterOrEqual(t, atomic.LoadInt32(&hits), int32(3))
}

func TestListRooms_StatusNotOK(t *testing.T) {
	cl := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, map[string]any{"status": "maintenance"})
	})
	_, err := cl.ListRooms(ctxT(t))
	assert.ErrorIs(t, err, domain.ErrNoLiveCatalog)
}

func counterValue(t *testing.T, c interface{ Write(*dto.Metric) error }) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}

func TestListRooms_TransportErrorIsNetwork(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	failures := observability.ExternalErrors.WithLabelValues("storefront", "/rooms", "*url.Error")
	before := counterValue(t, failures)

	cl, err := storefront.New(url, 100)
	require.NoError(t, err)
	_, err = cl.ListRooms(ctxT(t))
	assert.ErrorIs(t, err, domain.ErrNetwork)
	assert.Equal(t, before+1, counterValue(t, failures), "transport failure is counted once, not retried")
}

func TestCreateBooking_SendsPayloadOnce(t *testing.T) {
	var hits int32
	cl := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "4821", body["booking_code"])
		assert.Equal(t, 13320.0, body["total_price"])
		writeJSON(w, 200, map[string]any{"status": "ok"})
	})

	err := cl.CreateBooking(ctxT(t), "tok", domain.BookingRequest{BookingCode: "4821", TotalPrice: 13320})
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestCreateBooking_FullIsFullyBooked(t *testing.T) {
	for _, status := range []int{200, 409} {
		cl := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, status, map[string]any{"status": "full"})
		})
		err := cl.CreateBooking(ctxT(t), "tok", domain.BookingRequest{})
		require.ErrorIs(t, err, domain.ErrFullyBooked, "status %d", status)
		assert.Equal(t, domain.ErrFullyBooked.Error(), err.Error())
	}
}

func TestCreateBooking_ServerErrorNotRetried(t *testing.T) {
	var hits int32
	cl := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	err := cl.CreateBooking(ctxT(t), "tok", domain.BookingRequest{})
	assert.ErrorIs(t, err, domain.ErrRemote)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestLogin_StatusMapping(t *testing.T) {
	cases := []struct {
		status int
		body   map[string]any
		kind   error
		msg    string
	}{
		{401, map[string]any{}, domain.ErrInvalidCredentials, "Invalid email or password"},
		{401, map[string]any{"message": "Wrong password"}, domain.ErrInvalidCredentials, "Wrong password"},
		{429, map[string]any{}, domain.ErrTooManyAttempts, "Too many attempts. Please try again later."},
		{500, map[string]any{}, domain.ErrRemote, "Server error"},
		{200, map[string]any{"message": "no token"}, domain.ErrRemote, "no token"},
	}
	for _, tc := range cases {
		cl := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, tc.status, tc.body)
		})
		_, _, err := cl.Login(ctxT(t), "a@b.co", "secret1")
		require.ErrorIs(t, err, tc.kind)
		assert.Equal(t, tc.msg, err.Error())
	}
}

func TestLogin_ReturnsTokenAndUser(t *testing.T) {
	cl := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "a@b.co", body["email"])
		writeJSON(w, 200, map[string]any{"token": "jwt", "user": map[string]any{"fname": "Ann"}})
	})
	tok, user, err := cl.Login(ctxT(t), "a@b.co", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "jwt", tok)
	assert.Equal(t, "Ann", user["fname"])
}

func TestRegister_Conflict(t *testing.T) {
	cl := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 409, map[string]any{})
	})
	err := cl.Register(ctxT(t), domain.RegisterRequest{Email: "a@b.co"})
	require.ErrorIs(t, err, domain.ErrEmailTaken)
	assert.Equal(t, "This email is already registered", err.Error())
}

func TestMe_JWTExpired(t *testing.T) {
	cl := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 401, map[string]any{"message": "jwt expired"})
	})
	_, err := cl.Me(ctxT(t), "tok")
	assert.ErrorIs(t, err, domain.ErrSessionExpired)

	other := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 401, map[string]any{"message": "no token"})
	})
	_, err = other.Me(ctxT(t), "tok")
	assert.ErrorIs(t, err, domain.ErrNotSignedIn)
}

func TestMyBookingsAndCancel(t *testing.T) {
	cl := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/my-bookings":
			writeJSON(w, 200, map[string]any{"status": "ok", "bookings": []any{map[string]any{"id": 7.0}}})
		case r.Method == http.MethodDelete && r.URL.Path == "/my-bookings/7":
			writeJSON(w, 200, map[string]any{"status": "ok"})
		case r.Method == http.MethodDelete:
			writeJSON(w, 200, map[string]any{"status": "error", "message": "Booking not found"})
		default:
			w.WriteHeader(http.StatusTeapot)
		}
	})

	bs, err := cl.MyBookings(ctxT(t), "tok")
	require.NoError(t, err)
	require.Len(t, bs, 1)

	require.NoError(t, cl.CancelBooking(ctxT(t), "tok", "7"))
	err = cl.CancelBooking(ctxT(t), "tok", "8")
	require.ErrorIs(t, err, domain.ErrRemote)
	assert.Equal(t, "Booking not found", err.Error())
}
