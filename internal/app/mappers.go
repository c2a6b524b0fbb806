package app

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	"gogo_hotel/internal/domain"
)

/********** alias registries (single source of truth) **********/

// The rooms API has shipped both camelCase and snake_case records.
var roomAliases = map[string][]string{
	"id":          {"id", "room_id", "roomId", "_id"},
	"name":        {"name", "room_name", "roomName", "title"},
	"room_number": {"room_number", "roomNumber", "number", "room_no"},
	"type":        {"type", "room_type", "roomType", "category"},
	"city":        {"city", "city_name", "cityName", "location.city", "location"},
	"image":       {"image", "image_url", "imageUrl", "photo", "thumbnail"},
	"price":       {"pricePerNight", "price_per_night", "nightly_price", "price"},
	"guests":      {"guests", "max_guests", "maxGuests", "capacity", "max_occupancy", "maxOccupancy"},
	"beds":        {"beds", "bed_count", "bedCount"},
	"amenities":   {"amenities", "facilities", "features"},
	"rating":      {"rating", "score", "rating.value"},
}

var userAliases = map[string][]string{
	"id":    {"id", "user_id", "userId", "_id"},
	"fname": {"fname", "first_name", "firstName"},
	"lname": {"lname", "last_name", "lastName"},
	"email": {"email"},
	"phone": {"phone", "phone_number", "phoneNumber", "tel"},
}

var bookingAliases = map[string][]string{
	"id":         {"id", "booking_id", "bookingId"},
	"code":       {"booking_code", "bookingCode", "code"},
	"room_name":  {"room_name", "roomName", "name"},
	"room_type":  {"room_type", "roomType", "type"},
	"city":       {"city"},
	"rooms":      {"rooms", "room_count", "roomCount"},
	"nights":     {"nights"},
	"adults":     {"adults"},
	"children":   {"children"},
	"price":      {"price_per_night", "pricePerNight", "price"},
	"total":      {"total_price", "totalPrice", "total"},
	"check_in":   {"check_in", "checkIn"},
	"check_out":  {"check_out", "checkOut"},
	"created_at": {"created_at", "createdAt"},
}

/********** tiny helpers **********/

// lookupAny: safe nested lookup with dot paths on maps.
func lookupAny(m map[string]any, path string) any {
	cur := any(m)
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		v, ok := obj[part]
		if !ok {
			return nil
		}
		cur = v
	}
	return cur
}

// lookupStr returns string at path or "".
func lookupStr(m map[string]any, path string) string {
	if v := lookupAny(m, path); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// firstNonEmptyAlias: first non-empty string for a named alias set.
func firstNonEmptyAlias(m map[string]any, aliases map[string][]string, key string) string {
	for _, p := range aliases[key] {
		if s := strings.TrimSpace(lookupStr(m, p)); s != "" {
			return s
		}
	}
	return ""
}

// getFloatFlexible: number from several paths (float64/int/string like "1,950").
// Commas are thousands separators here; prices never carry decimals with a comma.
func getFloatFlexible(m map[string]any, paths ...string) *float64 {
	for _, k := range paths {
		switch v := lookupAny(m, k).(type) {
		case float64:
			f := v
			return &f
		case int:
			f := float64(v)
			return &f
		case int64:
			f := float64(v)
			return &f
		case string:
			s := strings.TrimSpace(strings.ReplaceAll(v, ",", ""))
			if s == "" {
				continue
			}
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				return &f
			}
		}
	}
	return nil
}

// firstIntFlexible: int from several paths (float64/int/string).
func firstIntFlexible(m map[string]any, paths ...string) *int {
	for _, k := range paths {
		switch v := lookupAny(m, k).(type) {
		case float64:
			x := int(v)
			return &x
		case int:
			x := v
			return &x
		case int64:
			x := int(v)
			return &x
		case string:
			s := strings.TrimSpace(v)
			if s == "" {
				continue
			}
			if n, err := strconv.Atoi(s); err == nil {
				return &n
			}
		}
	}
	return nil
}

// idFlexible renders numeric ids without a fractional part.
func idFlexible(m map[string]any, paths ...string) string {
	for _, k := range paths {
		switch v := lookupAny(m, k).(type) {
		case string:
			if s := strings.TrimSpace(v); s != "" {
				return s
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		case int:
			return strconv.Itoa(v)
		case int64:
			return strconv.FormatInt(v, 10)
		}
	}
	return ""
}

// firstSliceStrings: accept []any with either strings or {name/label}.
func firstSliceStrings(m map[string]any, paths ...string) []string {
	for _, k := range paths {
		raw, ok := lookupAny(m, k).([]any)
		if !ok {
			continue
		}
		out := make([]string, 0, len(raw))
		for _, it := range raw {
			switch t := it.(type) {
			case string:
				if s := strings.TrimSpace(t); s != "" {
					out = append(out, s)
				}
			case map[string]any:
				if n, ok := t["name"].(string); ok && n != "" {
					out = append(out, n)
					continue
				}
				if n, ok := t["label"].(string); ok && n != "" {
					out = append(out, n)
				}
			}
		}
		return out
	}
	return nil
}

// timeLayouts covers JSON timestamps and MySQL DATETIME text.
var timeLayouts = []string{time.RFC3339Nano, "2006-01-02 15:04:05", "2006-01-02T15:04:05", "2006-01-02"}

func timeFlexible(m map[string]any, paths ...string) *time.Time {
	for _, k := range paths {
		s := strings.TrimSpace(lookupStr(m, k))
		if s == "" {
			continue
		}
		for _, layout := range timeLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return &t
			}
		}
	}
	return nil
}

func intOr(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}

func floatOr(p *float64, def float64) float64 {
	if p == nil {
		return def
	}
	return *p
}

func matchKey(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

/********** room mapper **********/

// typePriority is checked in order; the first substring hit wins.
var typePriority = []string{"presidential", "family", "deluxe", "suite", "standard"}

// ResolveType maps a free-form type onto a known tier, or returns it verbatim.
func ResolveType(raw string) string {
	low := strings.ToLower(raw)
	for _, t := range typePriority {
		if strings.Contains(low, t) {
			return t
		}
	}
	return raw
}

func placeholderImage(city, name string) string {
	text := strings.TrimSpace(strings.Join(nonEmpty(city, name), " - "))
	if text == "" {
		text = "Room"
	}
	return "https://via.placeholder.com/400x225/e5e7eb/111827?text=" + url.QueryEscape(text)
}

func nonEmpty(parts ...string) []string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func mapRoom(r map[string]any, tpls map[string]roomTemplate) domain.Room {
	rawType := firstNonEmptyAlias(r, roomAliases, "type")
	resolved := ResolveType(rawType)
	tpl, hasTpl := tpls[resolved]

	room := domain.Room{
		ID:         idFlexible(r, roomAliases["id"]...),
		Name:       firstNonEmptyAlias(r, roomAliases, "name"),
		RoomNumber: idFlexible(r, roomAliases["room_number"]...),
		Type:       resolved,
		TypeLabel:  rawType,
		City:       firstNonEmptyAlias(r, roomAliases, "city"),
		Image:      firstNonEmptyAlias(r, roomAliases, "image"),
		Rating:     getFloatFlexible(r, roomAliases["rating"]...),
		Amenities:  firstSliceStrings(r, roomAliases["amenities"]...),
	}
	if hasTpl && tpl.Label != "" {
		room.TypeLabel = tpl.Label
	}
	if room.Name == "" && room.RoomNumber != "" {
		room.Name = fmt.Sprintf("Room %s", room.RoomNumber)
	}

	// Price: explicit positive price, else template, else zero.
	if p := getFloatFlexible(r, roomAliases["price"]...); p != nil && *p > 0 && !math.IsInf(*p, 0) {
		room.PricePerNight = *p
	} else if hasTpl {
		room.PricePerNight = tpl.Price
	}

	// Image: explicit, else template, else placeholder.
	if room.Image == "" {
		if hasTpl && tpl.Image != "" {
			room.Image = tpl.Image
		} else {
			room.Image = placeholderImage(room.City, room.Name)
		}
	}

	// Guests/beds/amenities: raw, else template, else 2/1/empty.
	if g := firstIntFlexible(r, roomAliases["guests"]...); g != nil && *g > 0 {
		room.Guests = *g
	} else if hasTpl && tpl.Guests > 0 {
		room.Guests = tpl.Guests
	} else {
		room.Guests = 2
	}
	if b := firstIntFlexible(r, roomAliases["beds"]...); b != nil && *b > 0 {
		room.Beds = *b
	} else if hasTpl && tpl.Beds > 0 {
		room.Beds = tpl.Beds
	} else {
		room.Beds = 1
	}
	if room.Amenities == nil {
		if hasTpl {
			room.Amenities = append([]string(nil), tpl.Amenities...)
		}
		if room.Amenities == nil {
			room.Amenities = []string{}
		}
	}

	room.TypeKey = matchKey(room.Type)
	room.CityKey = matchKey(room.City)
	if room.Name != "" {
		room.NameKey = matchKey(room.Name)
	} else {
		room.NameKey = matchKey(room.RoomNumber)
	}
	return room
}

/********** account mappers **********/

func mapUser(u map[string]any) domain.User {
	return domain.User{
		ID:    idFlexible(u, userAliases["id"]...),
		FName: firstNonEmptyAlias(u, userAliases, "fname"),
		LName: firstNonEmptyAlias(u, userAliases, "lname"),
		Email: firstNonEmptyAlias(u, userAliases, "email"),
		Phone: firstNonEmptyAlias(u, userAliases, "phone"),
	}
}

func mapBookings(in []map[string]any) []domain.Booking {
	out := make([]domain.Booking, 0, len(in))
	for _, b := range in {
		if b == nil {
			continue
		}
		out = append(out, domain.Booking{
			ID:            idFlexible(b, bookingAliases["id"]...),
			BookingCode:   idFlexible(b, bookingAliases["code"]...),
			RoomName:      firstNonEmptyAlias(b, bookingAliases, "room_name"),
			RoomType:      firstNonEmptyAlias(b, bookingAliases, "room_type"),
			City:          firstNonEmptyAlias(b, bookingAliases, "city"),
			Rooms:         intOr(firstIntFlexible(b, bookingAliases["rooms"]...), 0),
			Nights:        intOr(firstIntFlexible(b, bookingAliases["nights"]...), 0),
			Adults:        intOr(firstIntFlexible(b, bookingAliases["adults"]...), 0),
			Children:      intOr(firstIntFlexible(b, bookingAliases["children"]...), 0),
			PricePerNight: floatOr(getFloatFlexible(b, bookingAliases["price"]...), 0),
			TotalPrice:    floatOr(getFloatFlexible(b, bookingAliases["total"]...), 0),
			CheckIn:       timeFlexible(b, bookingAliases["check_in"]...),
			CheckOut:      timeFlexible(b, bookingAliases["check_out"]...),
			CreatedAt:     timeFlexible(b, bookingAliases["created_at"]...),
		})
	}
	return out
}
