package domain

import "time"

// Room is a normalized catalog entry. The *Key fields are matching copies
// and never leave the process.
type Room struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	RoomNumber    string   `json:"room_number,omitempty"`
	Type          string   `json:"type"`       // resolved type: presidential|family|deluxe|suite|standard|<raw>
	TypeLabel     string   `json:"type_label"` // display label
	City          string   `json:"city"`
	Image         string   `json:"image"`
	Guests        int      `json:"guests"`
	Beds          int      `json:"beds"`
	PricePerNight float64  `json:"price_per_night"`
	Rating        *float64 `json:"rating,omitempty"`
	Amenities     []string `json:"amenities"`

	TypeKey string `json:"-"`
	CityKey string `json:"-"`
	NameKey string `json:"-"`
}

// RoomTypeAny disables the type predicate.
const RoomTypeAny = "any"

type SearchCriteria struct {
	Destination string
	CheckIn     *time.Time // date only
	CheckOut    *time.Time // date only
	Adults      int
	Children    int
	Rooms       int
	RoomType    string
	MaxBudget   float64
}

// DefaultCriteria mirrors the storefront's initial form state.
func DefaultCriteria() SearchCriteria {
	return SearchCriteria{
		Adults:    2,
		Children:  0,
		Rooms:     1,
		RoomType:  RoomTypeAny,
		MaxBudget: 4000,
	}
}

// Selection is a room the guest confirmed in the detail dialog.
type Selection struct {
	Room        Room
	CheckIn     time.Time
	CheckOut    time.Time
	Nights      int
	Rooms       int
	Adults      int
	Children    int
	BookingCode string
	Breakfast   bool
}

type Totals struct {
	RoomSubtotal  float64 `json:"room_subtotal"`
	AddOnSubtotal float64 `json:"addon_subtotal"`
	GrandTotal    float64 `json:"grand_total"`
}
