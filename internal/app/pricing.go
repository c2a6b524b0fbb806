package app

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"gogo_hotel/internal/domain"
)

// BreakfastPrice is charged per occupant per night.
const BreakfastPrice = 180

const (
	checkInHour  = 14
	checkOutHour = 12
)

const msgMissingDates = "Please select check-in and check-out dates"

// ComputeTotal prices a selection: nights x rooms at the nightly rate, plus breakfast.
func ComputeTotal(sel domain.Selection) domain.Totals {
	t := domain.Totals{
		RoomSubtotal: sel.Room.PricePerNight * float64(sel.Nights) * float64(sel.Rooms),
	}
	if sel.Breakfast {
		t.AddOnSubtotal = float64((sel.Adults+sel.Children)*sel.Nights) * BreakfastPrice
	}
	t.GrandTotal = t.RoomSubtotal + t.AddOnSubtotal
	return t
}

// CodeGenerator returns a booking reference code.
type CodeGenerator func() string

// NewBookingCode returns a 4-digit numeric code in 1000..9999.
func NewBookingCode() string {
	n, err := rand.Int(rand.Reader, big.NewInt(9000))
	if err != nil {
		// crypto/rand does not fail on supported platforms
		return fmt.Sprintf("%04d", time.Now().UnixNano()%9000+1000)
	}
	return fmt.Sprintf("%04d", n.Int64()+1000)
}

// StayWindow pins date-only check-in/out to the hotel's 14:00 / 12:00 cutoffs in loc.
func StayWindow(checkIn, checkOut time.Time, loc *time.Location) (time.Time, time.Time) {
	if loc == nil {
		loc = time.UTC
	}
	y1, m1, d1 := checkIn.Date()
	y2, m2, d2 := checkOut.Date()
	return time.Date(y1, m1, d1, checkInHour, 0, 0, 0, loc),
		time.Date(y2, m2, d2, checkOutHour, 0, 0, 0, loc)
}

// BookingPayload builds the POST /bookings body for a confirmed selection.
func BookingPayload(sel domain.Selection, loc *time.Location) domain.BookingRequest {
	in, out := StayWindow(sel.CheckIn, sel.CheckOut, loc)
	return domain.BookingRequest{
		RoomID:        sel.Room.ID,
		RoomName:      sel.Room.Name,
		City:          sel.Room.City,
		RoomType:      sel.Room.Type,
		PricePerNight: sel.Room.PricePerNight,
		Rooms:         sel.Rooms,
		Nights:        sel.Nights,
		CheckIn:       in,
		CheckOut:      out,
		Adults:        sel.Adults,
		Children:      sel.Children,
		Breakfast:     sel.Breakfast,
		TotalPrice:    ComputeTotal(sel).GrandTotal,
		BookingCode:   sel.BookingCode,
	}
}

// GuestSummary renders the guests-and-rooms field, e.g. "2 adults, 1 child, 1 room".
func GuestSummary(adults, children, rooms int) string {
	s := plural(adults, "adult", "adults")
	if children > 0 {
		s += ", " + plural(children, "child", "children")
	}
	return s + ", " + plural(rooms, "room", "rooms")
}

// NightsLabel renders the nights badge, or "" when there is no stay.
func NightsLabel(nights int) string {
	if nights <= 0 {
		return ""
	}
	return plural(nights, "night", "nights")
}

func plural(n int, one, many string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, one)
	}
	return fmt.Sprintf("%d %s", n, many)
}
