package domain

import "time"

type User struct {
	ID    string `json:"id,omitempty"`
	FName string `json:"fname"`
	LName string `json:"lname"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Session is what the storefront keeps per browser: the API bearer token and
// a cached copy of the signed-in user.
type Session struct {
	Token   string
	User    *User
	Durable bool // read from the "remember me" store
}

type RegisterRequest struct {
	FName    string `json:"fname"`
	LName    string `json:"lname"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ProfileUpdate struct {
	FName string `json:"fname"`
	LName string `json:"lname"`
	Phone string `json:"phone"`
}

// BookingRequest is the payload for POST /bookings.
type BookingRequest struct {
	RoomID        string    `json:"room_id"`
	RoomName      string    `json:"room_name"`
	City          string    `json:"city"`
	RoomType      string    `json:"room_type"`
	PricePerNight float64   `json:"price_per_night"`
	Rooms         int       `json:"rooms"`
	Nights        int       `json:"nights"`
	CheckIn       time.Time `json:"check_in"`
	CheckOut      time.Time `json:"check_out"`
	Adults        int       `json:"adults"`
	Children      int       `json:"children"`
	Breakfast     bool      `json:"breakfast"`
	TotalPrice    float64   `json:"total_price"`
	BookingCode   string    `json:"booking_code"`
}

// Booking is one entry of the booking history.
type Booking struct {
	ID            string     `json:"id"`
	BookingCode   string     `json:"booking_code"`
	RoomName      string     `json:"room_name"`
	RoomType      string     `json:"room_type"`
	City          string     `json:"city"`
	Rooms         int        `json:"rooms"`
	Nights        int        `json:"nights"`
	Adults        int        `json:"adults"`
	Children      int        `json:"children"`
	PricePerNight float64    `json:"price_per_night"`
	TotalPrice    float64    `json:"total_price"`
	CheckIn       *time.Time `json:"check_in,omitempty"`
	CheckOut      *time.Time `json:"check_out,omitempty"`
	CreatedAt     *time.Time `json:"created_at,omitempty"`
}
