package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"gogo_hotel/internal/domain"
)

type problem struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Field    string `json:"field,omitempty"`
	Redirect string `json:"redirect,omitempty"`
}

func writeProblem(w http.ResponseWriter, p problem) {
	if p.Type == "" {
		p.Type = "about:blank"
	}
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(p.Status)
	if err := json.NewEncoder(w).Encode(p); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeError maps domain errors onto problem responses.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	p := problemFor(err)
	if p.Status >= 500 {
		log.Error().Err(err).Str("path", r.URL.Path).Int("status", p.Status).Msg("request failed")
	}
	writeProblem(w, p)
}

func problemFor(err error) problem {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		return problem{Title: "Invalid input", Status: http.StatusUnprocessableEntity, Detail: ve.Message, Field: ve.Field}
	case errors.Is(err, domain.ErrSessionExpired):
		return problem{Title: "Session expired", Status: http.StatusUnauthorized,
			Detail: "Your session has expired. Please sign in again.", Redirect: "/login"}
	case errors.Is(err, domain.ErrNotSignedIn):
		return problem{Title: "Not signed in", Status: http.StatusUnauthorized,
			Detail: "Please sign in first.", Redirect: "/login"}
	case errors.Is(err, domain.ErrInvalidCredentials):
		return problem{Title: "Sign-in failed", Status: http.StatusUnauthorized, Detail: err.Error()}
	case errors.Is(err, domain.ErrTooManyAttempts):
		return problem{Title: "Too many attempts", Status: http.StatusTooManyRequests, Detail: err.Error()}
	case errors.Is(err, domain.ErrEmailTaken):
		return problem{Title: "Email taken", Status: http.StatusConflict, Detail: err.Error(), Field: "email"}
	case errors.Is(err, domain.ErrFullyBooked):
		return problem{Title: "Fully booked", Status: http.StatusConflict, Detail: domain.ErrFullyBooked.Error()}
	case errors.Is(err, domain.ErrWrongStage):
		return problem{Title: "Conflict", Status: http.StatusConflict, Detail: domain.ErrWrongStage.Error()}
	case errors.Is(err, domain.ErrNotFound):
		return problem{Title: "Not Found", Status: http.StatusNotFound, Detail: "not found"}
	case errors.Is(err, domain.ErrNetwork):
		return problem{Title: "Bad Gateway", Status: http.StatusBadGateway, Detail: "Network error"}
	case errors.Is(err, domain.ErrRemote):
		return problem{Title: "Bad Gateway", Status: http.StatusBadGateway, Detail: err.Error()}
	case errors.Is(err, context.DeadlineExceeded):
		return problem{Title: "Gateway Timeout", Status: http.StatusGatewayTimeout, Detail: "Network error"}
	default:
		return problem{Title: "Internal Server Error", Status: http.StatusInternalServerError}
	}
}
