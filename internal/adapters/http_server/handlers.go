// internal/adapters/http_server/handlers.go
package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"gogo_hotel/internal/app"
	"gogo_hotel/internal/domain"
)

type Handlers struct {
	Catalog  *app.CatalogService
	Pages    *app.PageRegistry
	Accounts *app.AccountService
	Bookings domain.BookingsAPI
	Cookies  CookieOptions
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Get("/v1/rooms", h.searchRooms)

	s.mux.Post("/v1/pages", h.openPage)
	s.mux.Get("/v1/pages/{id}", h.getPage)
	s.mux.Delete("/v1/pages/{id}", h.closePage)
	s.mux.Patch("/v1/pages/{id}/filters", h.patchFilters)
	s.mux.Post("/v1/pages/{id}/search", h.submitSearch)
	s.mux.Post("/v1/pages/{id}/selection", h.selectRoom)
	s.mux.Delete("/v1/pages/{id}/selection", h.closeDetail)
	s.mux.Post("/v1/pages/{id}/checkout", h.confirmCheckout)
	s.mux.Patch("/v1/pages/{id}/checkout", h.toggleBreakfast)
	s.mux.Delete("/v1/pages/{id}/checkout", h.cancelCheckout)
	s.mux.Post("/v1/pages/{id}/checkout/pay", h.pay)

	s.mux.Post("/v1/login", h.login)
	s.mux.Post("/v1/register", h.register)
	s.mux.Post("/v1/logout", h.logout)
	s.mux.Get("/v1/me", h.getMe)
	s.mux.Put("/v1/me", h.putMe)
	s.mux.Get("/v1/account", h.account)
	s.mux.Get("/v1/my-bookings", h.myBookings)
	s.mux.Delete("/v1/my-bookings/{id}", h.cancelBooking)
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

type statusOK struct {
	Status string `json:"status"`
}

var okBody = statusOK{Status: "ok"}

// decodeBody reads a JSON body into dst; an empty body leaves dst untouched.
func decodeBody(r *http.Request, dst any) error {
	err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(dst)
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err != nil {
		return domain.Invalid("body", "Request body must be valid JSON.")
	}
	return nil
}

type roomsResponse struct {
	Count int           `json:"count"`
	Rooms []domain.Room `json:"rooms"`
}

// searchRooms is the stateless search: it applies every filter at once.
func (h *Handlers) searchRooms(w http.ResponseWriter, r *http.Request) {
	c, err := criteriaFromQuery(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	rooms, err := app.Search(h.Catalog.Load(r.Context()), c)
	if err != nil {
		writeError(w, r, err)
		return
	}

	etag, body := calcETagAndBody(roomsResponse{Count: len(rooms), Rooms: rooms})
	// If client already has this version, short-circuit.
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write searchRooms body")
	}
}

func criteriaFromQuery(r *http.Request) (domain.SearchCriteria, error) {
	q := r.URL.Query()
	c := domain.DefaultCriteria()
	c.Destination = strings.TrimSpace(q.Get("destination"))
	if v := q.Get("room_type"); v != "" {
		c.RoomType = v
	}

	ints := []struct {
		key string
		dst *int
	}{{"adults", &c.Adults}, {"children", &c.Children}, {"rooms", &c.Rooms}}
	for _, it := range ints {
		v := q.Get(it.key)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return c, domain.Invalid(it.key, it.key+" must be a whole number.")
		}
		*it.dst = n
	}
	if v := q.Get("max_budget"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return c, domain.Invalid("max_budget", "max_budget must be a number.")
		}
		c.MaxBudget = f
	}

	var err error
	if c.CheckIn, err = parseDate("check_in", q.Get("check_in")); err != nil {
		return c, err
	}
	if c.CheckOut, err = parseDate("check_out", q.Get("check_out")); err != nil {
		return c, err
	}
	return c, nil
}

func parseDate(field, v string) (*time.Time, error) {
	if strings.TrimSpace(v) == "" {
		return nil, nil
	}
	t, err := time.Parse(app.DateLayout, strings.TrimSpace(v))
	if err != nil {
		return nil, domain.Invalid(field, field+" must be a date like 2025-01-31.")
	}
	return &t, nil
}
