package httpserver

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"gogo_hotel/internal/app"
	"gogo_hotel/internal/domain"
)

func (h *Handlers) page(w http.ResponseWriter, r *http.Request) (*app.Page, bool) {
	p, err := h.Pages.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return nil, false
	}
	return p, true
}

// respondView writes the page view, or the problem for err.
func respondView(w http.ResponseWriter, r *http.Request, v app.PageView, err error) {
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (h *Handlers) openPage(w http.ResponseWriter, r *http.Request) {
	p := h.Pages.Open(r.Context())
	w.Header().Set("Location", "/v1/pages/"+p.ID)
	writeJSON(w, http.StatusCreated, p.View())
}

func (h *Handlers) getPage(w http.ResponseWriter, r *http.Request) {
	if p, ok := h.page(w, r); ok {
		writeJSON(w, http.StatusOK, p.View())
	}
}

func (h *Handlers) closePage(w http.ResponseWriter, r *http.Request) {
	h.Pages.Close(chi.URLParam(r, "id"))
	w.WriteHeader(http.StatusNoContent)
}

// filtersBody mirrors app.FilterPatch on the wire. An empty check_in or
// check_out string clears both dates.
type filtersBody struct {
	Destination *string  `json:"destination"`
	CheckIn     *string  `json:"check_in"`
	CheckOut    *string  `json:"check_out"`
	RoomType    *string  `json:"room_type"`
	MaxBudget   *float64 `json:"max_budget"`
	Adults      *int     `json:"adults"`
	Children    *int     `json:"children"`
	Rooms       *int     `json:"rooms"`
}

func (b filtersBody) patch() (app.FilterPatch, error) {
	f := app.FilterPatch{
		Destination: b.Destination,
		RoomType:    b.RoomType,
		MaxBudget:   b.MaxBudget,
		Adults:      b.Adults,
		Children:    b.Children,
		Rooms:       b.Rooms,
	}
	if f.Destination != nil {
		d := strings.TrimSpace(*f.Destination)
		f.Destination = &d
	}
	if (b.CheckIn != nil && strings.TrimSpace(*b.CheckIn) == "") ||
		(b.CheckOut != nil && strings.TrimSpace(*b.CheckOut) == "") {
		f.ClearDates = true
		return f, nil
	}
	var err error
	if b.CheckIn != nil {
		if f.CheckIn, err = parseDate("check_in", *b.CheckIn); err != nil {
			return f, err
		}
	}
	if b.CheckOut != nil {
		if f.CheckOut, err = parseDate("check_out", *b.CheckOut); err != nil {
			return f, err
		}
	}
	return f, nil
}

func (h *Handlers) patchFilters(w http.ResponseWriter, r *http.Request) {
	p, ok := h.page(w, r)
	if !ok {
		return
	}
	var body filtersBody
	if err := decodeBody(r, &body); err != nil {
		writeError(w, r, err)
		return
	}
	f, err := body.patch()
	if err != nil {
		writeError(w, r, err)
		return
	}
	v, err := p.ApplyFilters(f)
	respondView(w, r, v, err)
}

func (h *Handlers) submitSearch(w http.ResponseWriter, r *http.Request) {
	if p, ok := h.page(w, r); ok {
		v, err := p.Submit()
		respondView(w, r, v, err)
	}
}

func (h *Handlers) selectRoom(w http.ResponseWriter, r *http.Request) {
	p, ok := h.page(w, r)
	if !ok {
		return
	}
	var body struct {
		RoomID string `json:"room_id"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, r, err)
		return
	}
	if strings.TrimSpace(body.RoomID) == "" {
		writeError(w, r, domain.Invalid("room_id", "room_id is required."))
		return
	}
	v, err := p.Select(body.RoomID)
	respondView(w, r, v, err)
}

func (h *Handlers) closeDetail(w http.ResponseWriter, r *http.Request) {
	if p, ok := h.page(w, r); ok {
		writeJSON(w, http.StatusOK, p.CloseDetail())
	}
}

func (h *Handlers) confirmCheckout(w http.ResponseWriter, r *http.Request) {
	if p, ok := h.page(w, r); ok {
		v, err := p.Confirm()
		respondView(w, r, v, err)
	}
}

func (h *Handlers) toggleBreakfast(w http.ResponseWriter, r *http.Request) {
	p, ok := h.page(w, r)
	if !ok {
		return
	}
	var body struct {
		Breakfast *bool `json:"breakfast"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, r, err)
		return
	}
	if body.Breakfast == nil {
		writeError(w, r, domain.Invalid("breakfast", "breakfast must be true or false."))
		return
	}
	v, err := p.SetBreakfast(*body.Breakfast)
	respondView(w, r, v, err)
}

func (h *Handlers) cancelCheckout(w http.ResponseWriter, r *http.Request) {
	if p, ok := h.page(w, r); ok {
		writeJSON(w, http.StatusOK, p.Cancel())
	}
}

type payResponse struct {
	Status  string                `json:"status"`
	Booking domain.BookingRequest `json:"booking"`
	Page    app.PageView          `json:"page"`
}

func (h *Handlers) pay(w http.ResponseWriter, r *http.Request) {
	p, ok := h.page(w, r)
	if !ok {
		return
	}
	sid := sessionID(r)
	token, err := h.Accounts.Token(r.Context(), sid)
	if err != nil {
		h.authFailed(w, r, err)
		return
	}
	req, err := p.Pay(r.Context(), token, h.Bookings)
	if err != nil {
		h.authFailed(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, payResponse{Status: "ok", Booking: req, Page: p.View()})
}
