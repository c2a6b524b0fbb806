package app_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"gogo_hotel/internal/app"
	"gogo_hotel/internal/app/mocks"
	"gogo_hotel/internal/domain"
)

type accountFixture struct {
	api     *mocks.API
	durable *mocks.MemKV
	scoped  *mocks.MemKV
	svc     *app.AccountService
}

func newAccountFixture() accountFixture {
	api := &mocks.API{}
	durable, scoped := mocks.NewMemKV(), mocks.NewMemKV()
	return accountFixture{
		api:     api,
		durable: durable,
		scoped:  scoped,
		svc:     app.NewAccountService(api, app.NewSessionAccessor(durable, scoped)),
	}
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "1", "exp": exp.Unix()}).
		SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return tok
}

func (f accountFixture) signIn(t *testing.T, token string, remember bool) string {
	t.Helper()
	f.api.On("Login", mock.Anything, "ann@example.com", "secret1").
		Return(token, map[string]any{"id": 7.0, "fname": "Ann", "lname": "Lee", "email": "ann@example.com"}, nil).Once()
	sid, _, err := f.svc.Login(context.Background(), "ann@example.com", "secret1", remember)
	require.NoError(t, err)
	return sid
}

func TestLogin_ValidatesBeforeCallingAPI(t *testing.T) {
	f := newAccountFixture()
	ctx := context.Background()

	_, _, err := f.svc.Login(ctx, "not-an-email", "secret1", false)
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, "Please enter a valid email address.", err.Error())

	_, _, err = f.svc.Login(ctx, "a@b.co", "12345", false)
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, "Password must be at least 6 characters long.", err.Error())

	f.api.AssertNotCalled(t, "Login", mock.Anything, mock.Anything, mock.Anything)
}

func TestLogin_NormalizesEmailAndStoresSession(t *testing.T) {
	f := newAccountFixture()
	f.api.On("Login", mock.Anything, "ann@example.com", "secret1").
		Return("opaque", map[string]any{"id": 7.0, "fname": "Ann"}, nil).Once()

	sid, user, err := f.svc.Login(context.Background(), "  Ann@Example.COM ", "secret1", true)
	require.NoError(t, err)
	require.NotEmpty(t, sid)
	assert.Equal(t, &domain.User{ID: "7", FName: "Ann"}, user)
	assert.Equal(t, 2, f.durable.Len())
	assert.Equal(t, 0, f.scoped.Len())

	sess, err := f.svc.Session(context.Background(), sid)
	require.NoError(t, err)
	assert.Equal(t, "opaque", sess.Token)
	f.api.AssertExpectations(t)
}

func TestLogin_APIErrorPassesThrough(t *testing.T) {
	f := newAccountFixture()
	f.api.On("Login", mock.Anything, mock.Anything, mock.Anything).
		Return("", nil, &domain.APIError{Status: 429, Message: "Slow down", Kind: domain.ErrTooManyAttempts})

	_, _, err := f.svc.Login(context.Background(), "a@b.co", "secret1", false)
	require.ErrorIs(t, err, domain.ErrTooManyAttempts)
	assert.Equal(t, "Slow down", err.Error())
	assert.Equal(t, 0, f.scoped.Len())
}

func TestRegister_Validation(t *testing.T) {
	f := newAccountFixture()
	ctx := context.Background()
	cases := []struct {
		req   domain.RegisterRequest
		field string
	}{
		{domain.RegisterRequest{LName: "Lee", Email: "a@b.co", Password: "secret1"}, "fname"},
		{domain.RegisterRequest{FName: "Ann", Email: "a@b.co", Password: "secret1"}, "lname"},
		{domain.RegisterRequest{FName: "Ann", LName: "Lee", Email: "a@b", Password: "secret1"}, "email"},
		{domain.RegisterRequest{FName: "Ann", LName: "Lee", Email: "a@b.co", Password: "123"}, "password"},
	}
	for _, tc := range cases {
		err := f.svc.Register(ctx, tc.req)
		var ve *domain.ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, tc.field, ve.Field)
	}

	f.api.On("Register", mock.Anything, domain.RegisterRequest{FName: "Ann", LName: "Lee", Email: "a@b.co", Password: "secret1"}).
		Return(&domain.APIError{Status: 409, Kind: domain.ErrEmailTaken}).Once()
	err := f.svc.Register(ctx, domain.RegisterRequest{FName: " Ann ", LName: "Lee", Email: "A@B.co", Password: "secret1"})
	assert.ErrorIs(t, err, domain.ErrEmailTaken)
	f.api.AssertExpectations(t)
}

func TestSession_LocallyExpiredTokenIsCleared(t *testing.T) {
	f := newAccountFixture()
	sid := f.signIn(t, signedToken(t, time.Now().Add(-time.Minute)), true)

	_, err := f.svc.Session(context.Background(), sid)
	assert.ErrorIs(t, err, domain.ErrSessionExpired)
	assert.Equal(t, 0, f.durable.Len())

	_, err = f.svc.Me(context.Background(), sid)
	assert.ErrorIs(t, err, domain.ErrNotSignedIn)
}

func TestMe_MergesIntoStoredProfile(t *testing.T) {
	f := newAccountFixture()
	tok := signedToken(t, time.Now().Add(time.Hour))
	sid := f.signIn(t, tok, false)

	f.api.On("Me", mock.Anything, tok).Return(map[string]any{"phone": "0812345678"}, nil).Once()
	u, err := f.svc.Me(context.Background(), sid)
	require.NoError(t, err)
	assert.Equal(t, domain.User{ID: "7", FName: "Ann", LName: "Lee", Email: "ann@example.com", Phone: "0812345678"}, u)

	sess, err := f.svc.Session(context.Background(), sid)
	require.NoError(t, err)
	assert.Equal(t, "0812345678", sess.User.Phone)
	assert.False(t, sess.Durable)
}

func TestMe_RemoteExpiryClearsSession(t *testing.T) {
	f := newAccountFixture()
	sid := f.signIn(t, "opaque", false)

	f.api.On("Me", mock.Anything, "opaque").
		Return(nil, &domain.APIError{Status: 401, Message: "jwt expired", Kind: domain.ErrSessionExpired}).Once()
	_, err := f.svc.Me(context.Background(), sid)
	assert.ErrorIs(t, err, domain.ErrSessionExpired)
	assert.Equal(t, 0, f.scoped.Len())
}

func TestUpdateProfile_TrimsAndStores(t *testing.T) {
	f := newAccountFixture()
	sid := f.signIn(t, "opaque", true)

	f.api.On("UpdateMe", mock.Anything, "opaque", domain.ProfileUpdate{FName: "Anna", LName: "Lee", Phone: ""}).
		Return(map[string]any{"id": 7.0, "fname": "Anna", "lname": "Lee", "email": "ann@example.com"}, nil).Once()
	u, err := f.svc.UpdateProfile(context.Background(), sid, domain.ProfileUpdate{FName: " Anna ", LName: "Lee ", Phone: "  "})
	require.NoError(t, err)
	assert.Equal(t, "Anna", u.FName)
	assert.Equal(t, "", u.Phone)

	sess, err := f.svc.Session(context.Background(), sid)
	require.NoError(t, err)
	assert.Equal(t, "Anna", sess.User.FName)
	f.api.AssertExpectations(t)
}

func TestBookings_MapsRecords(t *testing.T) {
	f := newAccountFixture()
	sid := f.signIn(t, "opaque", false)

	f.api.On("MyBookings", mock.Anything, "opaque").Return([]map[string]any{{
		"id":              12.0,
		"booking_code":    4821.0,
		"room_name":       "Deluxe Twin",
		"room_type":       "deluxe",
		"city":            "Bangkok",
		"rooms":           2.0,
		"nights":          "3",
		"adults":          2.0,
		"children":        1.0,
		"price_per_night": "1950.00",
		"total_price":     "13,320.00",
		"check_in":        "2024-05-10 14:00:00",
		"check_out":       "2024-05-13T05:00:00.000Z",
	}}, nil).Once()

	bs, err := f.svc.Bookings(context.Background(), sid)
	require.NoError(t, err)
	require.Len(t, bs, 1)
	b := bs[0]
	assert.Equal(t, "12", b.ID)
	assert.Equal(t, "4821", b.BookingCode)
	assert.Equal(t, 3, b.Nights)
	assert.Equal(t, 1950.0, b.PricePerNight)
	assert.Equal(t, 13320.0, b.TotalPrice)
	require.NotNil(t, b.CheckIn)
	assert.Equal(t, 14, b.CheckIn.Hour())
	require.NotNil(t, b.CheckOut)
	assert.Equal(t, 13, b.CheckOut.Day())
	assert.Nil(t, b.CreatedAt)
}

func TestBookings_NotSignedIn(t *testing.T) {
	f := newAccountFixture()
	bs, err := f.svc.Bookings(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrNotSignedIn)
	assert.NotNil(t, bs)
}

func TestCancelBooking(t *testing.T) {
	f := newAccountFixture()
	sid := f.signIn(t, "opaque", false)

	assert.ErrorIs(t, f.svc.CancelBooking(context.Background(), sid, " "), domain.ErrValidation)

	f.api.On("CancelBooking", mock.Anything, "opaque", "12").Return(nil).Once()
	require.NoError(t, f.svc.CancelBooking(context.Background(), sid, "12"))
	f.api.AssertExpectations(t)
}

func TestLogout_ClearsSession(t *testing.T) {
	f := newAccountFixture()
	sid := f.signIn(t, "opaque", true)
	require.NoError(t, f.svc.Logout(context.Background(), sid))
	_, err := f.svc.Session(context.Background(), sid)
	assert.ErrorIs(t, err, domain.ErrNotSignedIn)
}

func TestOverview_LoadsBoth(t *testing.T) {
	f := newAccountFixture()
	sid := f.signIn(t, "opaque", false)

	f.api.On("Me", mock.Anything, "opaque").Return(map[string]any{"fname": "Ann"}, nil).Once()
	f.api.On("MyBookings", mock.Anything, "opaque").Return([]map[string]any{{"id": "b1"}}, nil).Once()

	ov, err := f.svc.Overview(context.Background(), sid)
	require.NoError(t, err)
	assert.Equal(t, "Ann", ov.User.FName)
	require.Len(t, ov.Bookings, 1)
	assert.Equal(t, "b1", ov.Bookings[0].ID)
	f.api.AssertExpectations(t)
}
