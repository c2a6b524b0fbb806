package app

import (
	"math"
	"strings"
	"time"

	"gogo_hotel/internal/adapters/observability"
	"gogo_hotel/internal/domain"
)

const msgInvalidRange = "Please select a valid date range (check-out after check-in)."

const msgBadBudget = "max_budget must be a number."

// NightsBetween counts whole calendar days from check-in to check-out.
// The result is negative when check-out is earlier.
func NightsBetween(checkIn, checkOut time.Time) int {
	in := dateOnly(checkIn)
	out := dateOnly(checkOut)
	return int(out.Sub(in).Hours() / 24)
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// StayNights is max(0, NightsBetween) or 0 when a date is missing.
func StayNights(c domain.SearchCriteria) int {
	if c.CheckIn == nil || c.CheckOut == nil {
		return 0
	}
	if n := NightsBetween(*c.CheckIn, *c.CheckOut); n > 0 {
		return n
	}
	return 0
}

// ValidateCriteria rejects a date range that does not move forward and
// occupancy counts below their floors.
func ValidateCriteria(c domain.SearchCriteria) error {
	if c.CheckIn != nil && c.CheckOut != nil && NightsBetween(*c.CheckIn, *c.CheckOut) <= 0 {
		return domain.Invalid("check_out", msgInvalidRange)
	}
	if c.Adults < 1 {
		return domain.Invalid("adults", "At least one adult is required.")
	}
	if c.Children < 0 {
		return domain.Invalid("children", "Children cannot be negative.")
	}
	if c.Rooms < 1 {
		return domain.Invalid("rooms", "At least one room is required.")
	}
	if math.IsNaN(c.MaxBudget) || math.IsInf(c.MaxBudget, 0) {
		return domain.Invalid("max_budget", msgBadBudget)
	}
	return nil
}

// Search filters the catalog by every predicate in c and keeps catalog order.
// An empty catalog is replaced by the fallback rooms.
func Search(catalog []domain.Room, c domain.SearchCriteria) ([]domain.Room, error) {
	if err := ValidateCriteria(c); err != nil {
		observability.ObserveSearch("invalid")
		return nil, err
	}
	if len(catalog) == 0 {
		catalog = fallbackRooms
	}

	wantType := matchKey(c.RoomType)
	anyType := wantType == "" || wantType == domain.RoomTypeAny
	required := c.Adults + c.Children
	q := matchKey(c.Destination)

	out := make([]domain.Room, 0, len(catalog))
	for _, r := range catalog {
		if r.PricePerNight > c.MaxBudget {
			continue
		}
		if !anyType && r.TypeKey != wantType &&
			!(wantType == "presidential" && strings.Contains(r.NameKey, "presidential")) {
			continue
		}
		if r.Guests*c.Rooms < required {
			continue
		}
		if q != "" && !strings.Contains(r.CityKey, q) && !strings.Contains(r.NameKey, q) {
			continue
		}
		out = append(out, r)
	}

	if len(out) == 0 {
		observability.ObserveSearch("empty")
	} else {
		observability.ObserveSearch("ok")
	}
	return out, nil
}
