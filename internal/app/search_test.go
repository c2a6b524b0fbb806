package app_test

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gogo_hotel/internal/app"
	"gogo_hotel/internal/domain"
)

func day(s string) *time.Time {
	t, err := time.Parse(app.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return &t
}

func ids(rs []domain.Room) []string {
	out := make([]string, 0, len(rs))
	for _, r := range rs {
		out = append(out, r.ID)
	}
	return out
}

func testCatalog() []domain.Room {
	return app.NormalizeRooms([]map[string]any{
		{"id": "std", "name": "Standard Queen", "type": "Standard", "city": "Bangkok", "price": 1200.0, "guests": 2.0},
		{"id": "dlx", "name": "Deluxe Twin", "type": "Deluxe", "city": "Bangkok", "price": 1950.0, "guests": 3.0},
		{"id": "ste", "name": "Garden Suite", "type": "Suite", "city": "Chiang Mai", "price": 3200.0, "guests": 4.0},
		{"id": "pres", "name": "The Presidential", "type": "Signature", "city": "Phuket", "price": 3900.0, "guests": 4.0},
	})
}

func TestSearch_NonFiniteBudgetRejected(t *testing.T) {
	for _, b := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		c := domain.DefaultCriteria()
		c.MaxBudget = b
		_, err := app.Search(testCatalog(), c)
		var ve *domain.ValidationError
		require.ErrorAs(t, err, &ve, "budget %v", b)
		assert.Equal(t, "max_budget", ve.Field)
	}
}

func TestSearch_Budget(t *testing.T) {
	c := domain.DefaultCriteria()
	c.Adults = 1
	c.MaxBudget = 1950 // ceiling is inclusive
	got, err := app.Search(testCatalog(), c)
	require.NoError(t, err)
	assert.Equal(t, []string{"std", "dlx"}, ids(got))

	c.MaxBudget = 1949.99
	got, err = app.Search(testCatalog(), c)
	require.NoError(t, err)
	assert.Equal(t, []string{"std"}, ids(got))
}

func TestSearch_Type(t *testing.T) {
	c := domain.DefaultCriteria()
	c.MaxBudget = 10000

	c.RoomType = "SUITE"
	got, err := app.Search(testCatalog(), c)
	require.NoError(t, err)
	assert.Equal(t, []string{"ste"}, ids(got))

	// presidential also matches by name
	c.RoomType = "presidential"
	got, err = app.Search(testCatalog(), c)
	require.NoError(t, err)
	assert.Equal(t, []string{"pres"}, ids(got))

	c.RoomType = domain.RoomTypeAny
	got, err = app.Search(testCatalog(), c)
	require.NoError(t, err)
	assert.Len(t, got, 4)
}

func TestSearch_CapacityIsAggregate(t *testing.T) {
	c := domain.DefaultCriteria()
	c.MaxBudget = 10000
	c.Adults, c.Children, c.Rooms = 3, 1, 1
	got, err := app.Search(testCatalog(), c)
	require.NoError(t, err)
	assert.Equal(t, []string{"ste", "pres"}, ids(got))

	// 2 rooms of 2 guests hold 4
	c.Rooms = 2
	got, err = app.Search(testCatalog(), c)
	require.NoError(t, err)
	assert.Equal(t, []string{"std", "dlx", "ste", "pres"}, ids(got))
}

func TestSearch_Destination(t *testing.T) {
	c := domain.DefaultCriteria()
	c.MaxBudget = 10000

	c.Destination = "  chiang "
	got, err := app.Search(testCatalog(), c)
	require.NoError(t, err)
	assert.Equal(t, []string{"ste"}, ids(got))

	// name substring also matches
	c.Destination = "twin"
	got, err = app.Search(testCatalog(), c)
	require.NoError(t, err)
	assert.Equal(t, []string{"dlx"}, ids(got))

	c.Destination = "Tokyo"
	got, err = app.Search(testCatalog(), c)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSearch_DateValidation(t *testing.T) {
	c := domain.DefaultCriteria()
	c.CheckIn = day("2024-05-10")

	for _, out := range []string{"2024-05-10", "2024-05-09"} {
		c.CheckOut = day(out)
		_, err := app.Search(testCatalog(), c)
		require.Error(t, err, out)
		assert.True(t, errors.Is(err, domain.ErrValidation))
		assert.Equal(t, "Please select a valid date range (check-out after check-in).", err.Error())
	}

	c.CheckOut = day("2024-05-12")
	_, err := app.Search(testCatalog(), c)
	require.NoError(t, err)
	assert.Equal(t, 2, app.StayNights(c))
}

func TestSearch_CountFloors(t *testing.T) {
	c := domain.DefaultCriteria()
	c.Adults = 0
	_, err := app.Search(testCatalog(), c)
	assert.ErrorIs(t, err, domain.ErrValidation)

	c = domain.DefaultCriteria()
	c.Rooms = 0
	_, err = app.Search(testCatalog(), c)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestSearch_IdempotentAndStable(t *testing.T) {
	c := domain.DefaultCriteria()
	c.MaxBudget = 10000
	cat := testCatalog()
	a, err := app.Search(cat, c)
	require.NoError(t, err)
	b, err := app.Search(cat, c)
	require.NoError(t, err)
	if diff := cmp.Diff(a, b); diff != "" {
		t.Fatalf("search not idempotent (-first +second):\n%s", diff)
	}
	assert.Equal(t, ids(cat), ids(a))
}

func TestSearch_EmptyCatalogUsesFallback(t *testing.T) {
	got, err := app.Search(nil, domain.DefaultCriteria())
	require.NoError(t, err)
	if diff := cmp.Diff(app.FallbackRooms(), got); diff != "" {
		t.Fatalf("fallback mismatch (-want +got):\n%s", diff)
	}
}

func TestNightsBetween(t *testing.T) {
	in := time.Date(2024, 5, 10, 23, 30, 0, 0, time.UTC)
	out := time.Date(2024, 5, 11, 0, 15, 0, 0, time.UTC)
	assert.Equal(t, 1, app.NightsBetween(in, out))
	assert.Equal(t, -1, app.NightsBetween(out, in))
	assert.Equal(t, 0, app.StayNights(domain.SearchCriteria{CheckIn: &in}))
}
