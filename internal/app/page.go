package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"gogo_hotel/internal/adapters/observability"
	"gogo_hotel/internal/domain"
)

// DateLayout is the wire format of date-only values.
const DateLayout = "2006-01-02"

type Stage string

const (
	StageBrowsing        Stage = "browsing"
	StageRoomSelected    Stage = "room_selected"
	StageCheckoutPending Stage = "checkout_pending"
)

// FilterPatch changes page criteria. Nil fields are left alone.
// Destination and dates are stored only; the rest re-filter once a search was submitted.
type FilterPatch struct {
	Destination *string
	CheckIn     *time.Time
	CheckOut    *time.Time
	ClearDates  bool

	RoomType  *string
	MaxBudget *float64
	Adults    *int
	Children  *int
	Rooms     *int
}

func (p FilterPatch) live() bool {
	return p.RoomType != nil || p.MaxBudget != nil || p.Adults != nil || p.Children != nil || p.Rooms != nil
}

// Page is one storefront page session: the catalog loaded on open, the
// search form, the result list, and the detail/checkout dialogs.
type Page struct {
	ID string

	mu        sync.Mutex
	catalog   []domain.Room
	criteria  domain.SearchCriteria
	results   []domain.Room
	searched  bool
	stage     Stage
	selected  *domain.Room
	selNights int
	selIn     time.Time
	selOut    time.Time
	checkout  *domain.Selection

	newCode CodeGenerator
	loc     *time.Location
}

func NewPage(id string, catalog []domain.Room, newCode CodeGenerator, loc *time.Location) *Page {
	if newCode == nil {
		newCode = NewBookingCode
	}
	initial := catalog
	if len(initial) == 0 {
		initial = FallbackRooms()
	}
	return &Page{
		ID:       id,
		catalog:  catalog,
		criteria: domain.DefaultCriteria(),
		results:  append([]domain.Room(nil), initial...),
		stage:    StageBrowsing,
		newCode:  newCode,
		loc:      loc,
	}
}

// ApplyFilters stores the patch. If it touches a live filter and a search was
// already submitted, the filter re-runs; a validation failure keeps the old results.
func (p *Page) ApplyFilters(f FilterPatch) (PageView, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	next := p.criteria
	if f.Destination != nil {
		next.Destination = *f.Destination
	}
	if f.ClearDates {
		next.CheckIn, next.CheckOut = nil, nil
	}
	if f.CheckIn != nil {
		d := dateOnly(*f.CheckIn)
		next.CheckIn = &d
	}
	if f.CheckOut != nil {
		d := dateOnly(*f.CheckOut)
		next.CheckOut = &d
	}
	if f.RoomType != nil {
		next.RoomType = *f.RoomType
	}
	if f.MaxBudget != nil {
		next.MaxBudget = *f.MaxBudget
	}
	if f.Adults != nil {
		next.Adults = *f.Adults
	}
	if f.Children != nil {
		next.Children = *f.Children
	}
	if f.Rooms != nil {
		next.Rooms = *f.Rooms
	}

	switch {
	case next.Adults < 1:
		return p.viewLocked(), domain.Invalid("adults", "At least one adult is required.")
	case next.Children < 0:
		return p.viewLocked(), domain.Invalid("children", "Children cannot be negative.")
	case next.Rooms < 1:
		return p.viewLocked(), domain.Invalid("rooms", "At least one room is required.")
	}
	p.criteria = next

	if f.live() && p.searched {
		if err := p.searchLocked(); err != nil {
			return p.viewLocked(), err
		}
	}
	return p.viewLocked(), nil
}

// Submit runs the search with the current criteria.
func (p *Page) Submit() (PageView, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.searchLocked(); err != nil {
		return p.viewLocked(), err
	}
	return p.viewLocked(), nil
}

func (p *Page) searchLocked() error {
	res, err := Search(p.catalog, p.criteria)
	if err != nil {
		return err
	}
	p.results = res
	p.searched = true
	return nil
}

// Select opens the detail dialog for a room from the current results.
// Nights and the stay dates are fixed here from the form; later date edits
// do not reach this selection.
func (p *Page) Select(roomID string) (PageView, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stage == StageCheckoutPending {
		return p.viewLocked(), fmt.Errorf("select room: %w", domain.ErrWrongStage)
	}
	room, ok := p.findLocked(roomID)
	if !ok {
		return p.viewLocked(), fmt.Errorf("room %q: %w", roomID, domain.ErrNotFound)
	}
	p.selected = &room
	p.selNights = StayNights(p.criteria)
	p.selIn, p.selOut = time.Time{}, time.Time{}
	if p.selNights > 0 {
		p.selIn, p.selOut = *p.criteria.CheckIn, *p.criteria.CheckOut
	}
	p.stage = StageRoomSelected
	return p.viewLocked(), nil
}

func (p *Page) findLocked(id string) (domain.Room, bool) {
	for _, r := range p.results {
		if r.ID == id {
			return r, true
		}
	}
	return domain.Room{}, false
}

// CloseDetail dismisses the detail dialog.
func (p *Page) CloseDetail() PageView {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stage == StageRoomSelected {
		p.resetLocked()
	}
	return p.viewLocked()
}

// Confirm turns the selected room into a pending checkout with a fresh booking code.
func (p *Page) Confirm() (PageView, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stage != StageRoomSelected || p.selected == nil {
		return p.viewLocked(), fmt.Errorf("confirm room: %w", domain.ErrWrongStage)
	}
	if p.selNights <= 0 {
		return p.viewLocked(), domain.Invalid("check_in", msgMissingDates)
	}
	p.checkout = &domain.Selection{
		Room:        *p.selected,
		CheckIn:     p.selIn,
		CheckOut:    p.selOut,
		Nights:      p.selNights,
		Rooms:       p.criteria.Rooms,
		Adults:      p.criteria.Adults,
		Children:    p.criteria.Children,
		BookingCode: p.newCode(),
	}
	p.stage = StageCheckoutPending
	return p.viewLocked(), nil
}

// SetBreakfast toggles the breakfast add-on on a pending checkout.
func (p *Page) SetBreakfast(on bool) (PageView, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stage != StageCheckoutPending || p.checkout == nil {
		return p.viewLocked(), fmt.Errorf("breakfast: %w", domain.ErrWrongStage)
	}
	p.checkout.Breakfast = on
	return p.viewLocked(), nil
}

// Cancel abandons a pending checkout (or an open detail dialog).
func (p *Page) Cancel() PageView {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.resetLocked()
	return p.viewLocked()
}

// Pay submits the pending checkout. On success the page returns to browsing;
// on failure the checkout stays pending so the guest can retry or cancel.
func (p *Page) Pay(ctx context.Context, token string, api domain.BookingsAPI) (domain.BookingRequest, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stage != StageCheckoutPending || p.checkout == nil {
		return domain.BookingRequest{}, fmt.Errorf("pay: %w", domain.ErrWrongStage)
	}
	req := BookingPayload(*p.checkout, p.loc)
	if err := api.CreateBooking(ctx, token, req); err != nil {
		outcome := "error"
		if errors.Is(err, domain.ErrFullyBooked) {
			outcome = "full"
		}
		observability.ObserveBooking(outcome)
		log.Warn().Err(err).Str("page", p.ID).Str("room", req.RoomID).Str("outcome", outcome).Msg("booking rejected")
		return req, err
	}
	observability.ObserveBooking("ok")
	log.Info().Str("page", p.ID).Str("room", req.RoomID).Str("code", req.BookingCode).
		Int("nights", req.Nights).Float64("total", req.TotalPrice).Msg("booking submitted")
	p.resetLocked()
	return req, nil
}

func (p *Page) resetLocked() {
	p.selected = nil
	p.selNights = 0
	p.selIn, p.selOut = time.Time{}, time.Time{}
	p.checkout = nil
	p.stage = StageBrowsing
}

func (p *Page) View() PageView {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.viewLocked()
}

/********** views **********/

type CriteriaView struct {
	Destination string  `json:"destination"`
	CheckIn     string  `json:"check_in,omitempty"`
	CheckOut    string  `json:"check_out,omitempty"`
	Adults      int     `json:"adults"`
	Children    int     `json:"children"`
	Rooms       int     `json:"rooms"`
	RoomType    string  `json:"room_type"`
	MaxBudget   float64 `json:"max_budget"`
}

type CheckoutView struct {
	Room        domain.Room   `json:"room"`
	BookingCode string        `json:"booking_code"`
	CheckIn     string        `json:"check_in"`
	CheckOut    string        `json:"check_out"`
	Nights      int           `json:"nights"`
	Rooms       int           `json:"rooms"`
	Adults      int           `json:"adults"`
	Children    int           `json:"children"`
	Breakfast   bool          `json:"breakfast"`
	Totals      domain.Totals `json:"totals"`
}

type PageView struct {
	ID           string        `json:"id"`
	Stage        Stage         `json:"stage"`
	Criteria     CriteriaView  `json:"criteria"`
	GuestSummary string        `json:"guest_summary"`
	NightsLabel  string        `json:"nights_label,omitempty"`
	Searched     bool          `json:"searched"`
	Results      []domain.Room `json:"results"`
	Selected     *domain.Room  `json:"selected,omitempty"`
	Checkout     *CheckoutView `json:"checkout,omitempty"`
}

func (p *Page) viewLocked() PageView {
	c := p.criteria
	v := PageView{
		ID:    p.ID,
		Stage: p.stage,
		Criteria: CriteriaView{
			Destination: c.Destination,
			Adults:      c.Adults,
			Children:    c.Children,
			Rooms:       c.Rooms,
			RoomType:    c.RoomType,
			MaxBudget:   c.MaxBudget,
		},
		GuestSummary: GuestSummary(c.Adults, c.Children, c.Rooms),
		NightsLabel:  NightsLabel(StayNights(c)),
		Searched:     p.searched,
		Results:      append([]domain.Room{}, p.results...),
	}
	if c.CheckIn != nil {
		v.Criteria.CheckIn = c.CheckIn.Format(DateLayout)
	}
	if c.CheckOut != nil {
		v.Criteria.CheckOut = c.CheckOut.Format(DateLayout)
	}
	if p.selected != nil {
		r := *p.selected
		v.Selected = &r
	}
	if s := p.checkout; s != nil {
		v.Checkout = &CheckoutView{
			Room:        s.Room,
			BookingCode: s.BookingCode,
			CheckIn:     s.CheckIn.Format(DateLayout),
			CheckOut:    s.CheckOut.Format(DateLayout),
			Nights:      s.Nights,
			Rooms:       s.Rooms,
			Adults:      s.Adults,
			Children:    s.Children,
			Breakfast:   s.Breakfast,
			Totals:      ComputeTotal(*s),
		}
	}
	return v
}
