package httpserver

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"gogo_hotel/internal/domain"
)

const sessionCookie = "gogo_sid"

type CookieOptions struct {
	Secure      bool
	RememberFor time.Duration
}

func sessionID(r *http.Request) string {
	c, err := r.Cookie(sessionCookie)
	if err != nil {
		return ""
	}
	return c.Value
}

// setSession issues the session cookie; remembered sessions outlive the browser.
func (h *Handlers) setSession(w http.ResponseWriter, sid string, remember bool) {
	c := &http.Cookie{
		Name:     sessionCookie,
		Value:    sid,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.Cookies.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	if remember {
		c.MaxAge = int(h.Cookies.RememberFor / time.Second)
	}
	http.SetCookie(w, c)
}

func (h *Handlers) clearSession(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   h.Cookies.Secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

// authFailed answers err and drops the cookie once the session is gone.
func (h *Handlers) authFailed(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, domain.ErrSessionExpired) {
		h.Accounts.Expired(r.Context(), sessionID(r))
		h.clearSession(w)
	}
	writeError(w, r, err)
}

type loginBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Remember bool   `json:"remember"`
}

type userResponse struct {
	User *domain.User `json:"user"`
}

func (h *Handlers) login(w http.ResponseWriter, r *http.Request) {
	var body loginBody
	if err := decodeBody(r, &body); err != nil {
		writeError(w, r, err)
		return
	}
	sid, user, err := h.Accounts.Login(r.Context(), body.Email, body.Password, body.Remember)
	if err != nil {
		writeError(w, r, err)
		return
	}
	// a fresh sign-in replaces whatever the browser held
	if old := sessionID(r); old != "" && old != sid {
		if err := h.Accounts.Logout(r.Context(), old); err != nil {
			log.Warn().Err(err).Str("sid", old).Msg("clear replaced session failed")
		}
	}
	h.setSession(w, sid, body.Remember)
	writeJSON(w, http.StatusOK, userResponse{User: user})
}

func (h *Handlers) register(w http.ResponseWriter, r *http.Request) {
	var body domain.RegisterRequest
	if err := decodeBody(r, &body); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.Accounts.Register(r.Context(), body); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, okBody)
}

func (h *Handlers) logout(w http.ResponseWriter, r *http.Request) {
	if sid := sessionID(r); sid != "" {
		if err := h.Accounts.Logout(r.Context(), sid); err != nil {
			writeError(w, r, err)
			return
		}
	}
	h.clearSession(w)
	writeJSON(w, http.StatusOK, okBody)
}

func (h *Handlers) getMe(w http.ResponseWriter, r *http.Request) {
	u, err := h.Accounts.Me(r.Context(), sessionID(r))
	if err != nil {
		h.authFailed(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, userResponse{User: &u})
}

func (h *Handlers) putMe(w http.ResponseWriter, r *http.Request) {
	var body domain.ProfileUpdate
	if err := decodeBody(r, &body); err != nil {
		writeError(w, r, err)
		return
	}
	u, err := h.Accounts.UpdateProfile(r.Context(), sessionID(r), body)
	if err != nil {
		h.authFailed(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, userResponse{User: &u})
}

func (h *Handlers) account(w http.ResponseWriter, r *http.Request) {
	ov, err := h.Accounts.Overview(r.Context(), sessionID(r))
	if err != nil {
		h.authFailed(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ov)
}

type bookingsResponse struct {
	Status   string           `json:"status"`
	Bookings []domain.Booking `json:"bookings"`
}

func (h *Handlers) myBookings(w http.ResponseWriter, r *http.Request) {
	bs, err := h.Accounts.Bookings(r.Context(), sessionID(r))
	if err != nil {
		h.authFailed(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, bookingsResponse{Status: "ok", Bookings: bs})
}

func (h *Handlers) cancelBooking(w http.ResponseWriter, r *http.Request) {
	if err := h.Accounts.CancelBooking(r.Context(), sessionID(r), chi.URLParam(r, "id")); err != nil {
		h.authFailed(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, okBody)
}
