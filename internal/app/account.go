package app

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"gogo_hotel/internal/domain"
)

var emailRe = regexp.MustCompile(`\S+@\S+\.\S+`)

const minPasswordLen = 6

type accountAPI interface {
	domain.AuthAPI
	domain.BookingsAPI
}

type AccountService struct {
	api      accountAPI
	sessions *SessionAccessor
	now      func() time.Time
}

func NewAccountService(api accountAPI, sessions *SessionAccessor) *AccountService {
	return &AccountService{api: api, sessions: sessions, now: time.Now}
}

func validateCredentials(email, password string) error {
	if email == "" || !emailRe.MatchString(email) {
		return domain.Invalid("email", "Please enter a valid email address.")
	}
	if len(password) < minPasswordLen {
		return domain.Invalid("password", "Password must be at least 6 characters long.")
	}
	return nil
}

// Login signs in and stores the session in the durable store when remember is set.
// It returns the new session id.
func (s *AccountService) Login(ctx context.Context, email, password string, remember bool) (string, *domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := validateCredentials(email, password); err != nil {
		return "", nil, err
	}
	token, rawUser, err := s.api.Login(ctx, email, password)
	if err != nil {
		return "", nil, err
	}
	if token == "" {
		return "", nil, &domain.APIError{Message: "Login failed", Kind: domain.ErrRemote}
	}
	var user *domain.User
	if rawUser != nil {
		u := mapUser(rawUser)
		user = &u
	}
	sid := uuid.NewString()
	if err := s.sessions.Save(ctx, sid, remember, domain.Session{Token: token, User: user}); err != nil {
		return "", nil, err
	}
	log.Info().Str("sid", sid).Bool("remember", remember).Msg("signed in")
	return sid, user, nil
}

func (s *AccountService) Register(ctx context.Context, req domain.RegisterRequest) error {
	req.FName = strings.TrimSpace(req.FName)
	req.LName = strings.TrimSpace(req.LName)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.FName == "" {
		return domain.Invalid("fname", "First name is required.")
	}
	if req.LName == "" {
		return domain.Invalid("lname", "Last name is required.")
	}
	if err := validateCredentials(req.Email, req.Password); err != nil {
		return err
	}
	return s.api.Register(ctx, req)
}

func (s *AccountService) Logout(ctx context.Context, sid string) error {
	return s.sessions.Clear(ctx, sid)
}

// Session returns the stored session, clearing it when its token has expired.
func (s *AccountService) Session(ctx context.Context, sid string) (domain.Session, error) {
	sess, err := s.sessions.Load(ctx, sid)
	if err != nil {
		return domain.Session{}, err
	}
	if tokenExpired(sess.Token, s.now()) {
		s.expire(ctx, sid)
		return domain.Session{}, domain.ErrSessionExpired
	}
	return sess, nil
}

// tokenExpired reads the exp claim without verifying the signature; the API
// stays the authority. Opaque tokens never expire locally.
func tokenExpired(token string, now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := new(jwt.Parser).ParseUnverified(token, claims); err != nil {
		return false
	}
	if _, ok := claims["exp"]; !ok {
		return false
	}
	return !claims.VerifyExpiresAt(now.Unix(), true)
}

func (s *AccountService) expire(ctx context.Context, sid string) {
	if err := s.sessions.Clear(ctx, sid); err != nil {
		log.Error().Err(err).Str("sid", sid).Msg("clear expired session failed")
		return
	}
	log.Info().Str("sid", sid).Msg("session expired; cleared")
}

// withToken runs fn with the session token and clears the session if the API
// reports it expired.
func (s *AccountService) withToken(ctx context.Context, sid string, fn func(sess domain.Session) error) error {
	sess, err := s.Session(ctx, sid)
	if err != nil {
		return err
	}
	if err := fn(sess); err != nil {
		if errors.Is(err, domain.ErrSessionExpired) {
			s.expire(ctx, sid)
		}
		return err
	}
	return nil
}

// Token returns the bearer token for sid, for callers that talk to the API themselves.
func (s *AccountService) Token(ctx context.Context, sid string) (string, error) {
	sess, err := s.Session(ctx, sid)
	if err != nil {
		return "", err
	}
	return sess.Token, nil
}

// Expired clears sid after the API rejected its token.
func (s *AccountService) Expired(ctx context.Context, sid string) { s.expire(ctx, sid) }

// mergeUser overlays the non-empty fields of fresh on stored.
func mergeUser(stored *domain.User, fresh domain.User) domain.User {
	var out domain.User
	if stored != nil {
		out = *stored
	}
	if fresh.ID != "" {
		out.ID = fresh.ID
	}
	if fresh.FName != "" {
		out.FName = fresh.FName
	}
	if fresh.LName != "" {
		out.LName = fresh.LName
	}
	if fresh.Email != "" {
		out.Email = fresh.Email
	}
	if fresh.Phone != "" {
		out.Phone = fresh.Phone
	}
	return out
}

// Me fetches the profile and refreshes the cached copy next to the token.
func (s *AccountService) Me(ctx context.Context, sid string) (domain.User, error) {
	var out domain.User
	err := s.withToken(ctx, sid, func(sess domain.Session) error {
		raw, err := s.api.Me(ctx, sess.Token)
		if err != nil {
			return err
		}
		out = mergeUser(sess.User, mapUser(raw))
		if err := s.sessions.SaveUser(ctx, sid, out); err != nil {
			log.Warn().Err(err).Str("sid", sid).Msg("cache profile failed")
		}
		return nil
	})
	return out, err
}

func (s *AccountService) UpdateProfile(ctx context.Context, sid string, p domain.ProfileUpdate) (domain.User, error) {
	p.FName = strings.TrimSpace(p.FName)
	p.LName = strings.TrimSpace(p.LName)
	p.Phone = strings.TrimSpace(p.Phone)
	var out domain.User
	err := s.withToken(ctx, sid, func(sess domain.Session) error {
		raw, err := s.api.UpdateMe(ctx, sess.Token, p)
		if err != nil {
			return err
		}
		if raw != nil {
			out = mapUser(raw)
		} else {
			out = mergeUser(sess.User, domain.User{FName: p.FName, LName: p.LName, Phone: p.Phone})
		}
		return s.sessions.SaveUser(ctx, sid, out)
	})
	return out, err
}

func (s *AccountService) Bookings(ctx context.Context, sid string) ([]domain.Booking, error) {
	var out []domain.Booking
	err := s.withToken(ctx, sid, func(sess domain.Session) error {
		raw, err := s.api.MyBookings(ctx, sess.Token)
		if err != nil {
			return err
		}
		out = mapBookings(raw)
		return nil
	})
	if out == nil {
		out = []domain.Booking{}
	}
	return out, err
}

func (s *AccountService) CancelBooking(ctx context.Context, sid, bookingID string) error {
	if strings.TrimSpace(bookingID) == "" {
		return domain.Invalid("id", "Booking id is required.")
	}
	return s.withToken(ctx, sid, func(sess domain.Session) error {
		if err := s.api.CancelBooking(ctx, sess.Token, bookingID); err != nil {
			return err
		}
		log.Info().Str("sid", sid).Str("booking", bookingID).Msg("booking cancelled")
		return nil
	})
}

type AccountOverview struct {
	User     domain.User      `json:"user"`
	Bookings []domain.Booking `json:"bookings"`
}

// Overview loads the profile and the booking history concurrently.
func (s *AccountService) Overview(ctx context.Context, sid string) (AccountOverview, error) {
	// check expiry once up front so the two calls don't race to clear
	if _, err := s.Session(ctx, sid); err != nil {
		return AccountOverview{}, err
	}
	var ov AccountOverview
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		u, err := s.Me(gctx, sid)
		ov.User = u
		return err
	})
	g.Go(func() error {
		bs, err := s.Bookings(gctx, sid)
		ov.Bookings = bs
		return err
	})
	if err := g.Wait(); err != nil {
		return AccountOverview{}, err
	}
	return ov, nil
}
