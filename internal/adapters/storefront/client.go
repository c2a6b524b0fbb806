// internal/adapters/storefront/client.go
package storefront

import (
	"bytes"
	"context"
	crand "crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"

	"gogo_hotel/internal/adapters/observability"
	"gogo_hotel/internal/domain"
)

const service = "storefront"

// maxInflight caps concurrent requests to the API across all browser sessions.
const maxInflight = 16

// Client talks to the booking API. It returns raw records; mapping happens in app.
type Client struct {
	base     string
	hc       *http.Client
	rl       *rate.Limiter
	inflight *semaphore.Weighted
}

func New(base string, rps int) (*Client, error) {
	u, err := url.Parse(base)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid API base URL %q", base)
	}
	if rps <= 0 {
		rps = 5
	}
	return &Client{
		base:     strings.TrimRight(base, "/"),
		hc:       &http.Client{Timeout: 20 * time.Second},
		rl:       rate.NewLimiter(rate.Limit(rps), rps),
		inflight: semaphore.NewWeighted(maxInflight),
	}, nil
}

// envelope is the union of every response body the API sends.
type envelope struct {
	Status   string           `json:"status"`
	Message  string           `json:"message"`
	Token    string           `json:"token"`
	User     map[string]any   `json:"user"`
	Rooms    []map[string]any `json:"rooms"`
	Bookings []map[string]any `json:"bookings"`
}

// ---- Rooms ----

// ListRooms returns the raw room records, or ErrNoLiveCatalog when the API
// answers without status "ok".
func (c *Client) ListRooms(ctx context.Context) ([]map[string]any, error) {
	env, err := c.get(ctx, "/rooms", "/rooms", "")
	if err != nil {
		return nil, err
	}
	if env.Status != "ok" {
		return nil, fmt.Errorf("rooms status %q: %w", env.Status, domain.ErrNoLiveCatalog)
	}
	return env.Rooms, nil
}

// ---- Bookings ----

func (c *Client) CreateBooking(ctx context.Context, token string, req domain.BookingRequest) error {
	r, err := c.send(ctx, http.MethodPost, "/bookings", "/bookings", token, req)
	if err != nil {
		return err
	}
	status, env := r.status, r.env
	// "full" can arrive with 200 or 409
	if env.Status == "full" {
		return &domain.APIError{Status: status, Message: domain.ErrFullyBooked.Error(), Kind: domain.ErrFullyBooked}
	}
	if !ok(status) {
		return apiError(status, env, opDefault{msg: "Booking failed."})
	}
	if env.Status != "ok" {
		return &domain.APIError{Status: status, Message: orDefault(env.Message, "Booking failed."), Kind: domain.ErrRemote}
	}
	return nil
}

func (c *Client) MyBookings(ctx context.Context, token string) ([]map[string]any, error) {
	env, err := c.get(ctx, "/my-bookings", "/my-bookings", token)
	if err != nil {
		var ae *domain.APIError
		if errors.As(err, &ae) && ae.Message == "" {
			ae.Message = "Failed to load bookings."
		}
		return nil, err
	}
	if env.Status != "ok" {
		return nil, &domain.APIError{Status: http.StatusOK, Message: orDefault(env.Message, "Failed to load bookings."), Kind: domain.ErrRemote}
	}
	return env.Bookings, nil
}

func (c *Client) CancelBooking(ctx context.Context, token, id string) error {
	path := "/my-bookings/" + url.PathEscape(id)
	r, err := c.send(ctx, http.MethodDelete, path, "/my-bookings/{id}", token, nil)
	if err != nil {
		return err
	}
	status, env := r.status, r.env
	if !ok(status) {
		return apiError(status, env, opDefault{msg: "Cancellation failed."})
	}
	if env.Status != "ok" {
		return &domain.APIError{Status: status, Message: orDefault(env.Message, "Cancellation failed."), Kind: domain.ErrRemote}
	}
	return nil
}

// ---- Auth ----

func (c *Client) Login(ctx context.Context, email, password string) (string, map[string]any, error) {
	body := map[string]string{"email": email, "password": password}
	r, err := c.send(ctx, http.MethodPost, "/login", "/login", "", body)
	if err != nil {
		return "", nil, err
	}
	status, env := r.status, r.env
	if !ok(status) {
		return "", nil, apiError(status, env, opDefault{
			msg:          "Server error",
			unauthorized: domain.ErrInvalidCredentials,
			unauthMsg:    "Invalid email or password",
		})
	}
	if env.Token == "" {
		return "", nil, &domain.APIError{Status: status, Message: orDefault(env.Message, "Login failed"), Kind: domain.ErrRemote}
	}
	return env.Token, env.User, nil
}

func (c *Client) Register(ctx context.Context, req domain.RegisterRequest) error {
	r, err := c.send(ctx, http.MethodPost, "/register", "/register", "", req)
	if err != nil {
		return err
	}
	status, env := r.status, r.env
	if status == http.StatusConflict {
		return &domain.APIError{Status: status, Message: orDefault(env.Message, "This email is already registered"), Kind: domain.ErrEmailTaken}
	}
	if !ok(status) {
		return apiError(status, env, opDefault{msg: "Register failed"})
	}
	return nil
}

func (c *Client) Me(ctx context.Context, token string) (map[string]any, error) {
	env, err := c.get(ctx, "/me", "/me", token)
	if err != nil {
		return nil, err
	}
	return env.User, nil
}

func (c *Client) UpdateMe(ctx context.Context, token string, p domain.ProfileUpdate) (map[string]any, error) {
	r, err := c.send(ctx, http.MethodPut, "/me", "/me", token, p)
	if err != nil {
		return nil, err
	}
	status, env := r.status, r.env
	if !ok(status) {
		return nil, apiError(status, env, opDefault{msg: fmt.Sprintf("Error %d", status)})
	}
	return env.User, nil
}

// ---- Internals ----

type opDefault struct {
	msg          string
	unauthorized error // Kind for a plain 401; ErrNotSignedIn when nil
	unauthMsg    string
}

func ok(status int) bool { return status >= 200 && status < 300 }

func orDefault(s, def string) string {
	if strings.TrimSpace(s) != "" {
		return s
	}
	return def
}

// apiError maps a non-2xx answer onto a domain sentinel, keeping the API message.
func apiError(status int, env envelope, d opDefault) error {
	ae := &domain.APIError{Status: status, Message: env.Message}
	switch status {
	case http.StatusUnauthorized:
		switch {
		case strings.Contains(strings.ToLower(env.Message), "jwt expired"):
			ae.Kind = domain.ErrSessionExpired
		case d.unauthorized != nil:
			ae.Kind = d.unauthorized
			ae.Message = orDefault(env.Message, d.unauthMsg)
		default:
			ae.Kind = domain.ErrNotSignedIn
		}
	case http.StatusTooManyRequests:
		ae.Kind = domain.ErrTooManyAttempts
		ae.Message = orDefault(env.Message, "Too many attempts. Please try again later.")
	case http.StatusNotFound:
		ae.Kind = domain.ErrNotFound
	default:
		ae.Kind = domain.ErrRemote
		ae.Message = orDefault(env.Message, d.msg)
	}
	return ae
}

type reply struct {
	status int
	header http.Header
	env    envelope
}

// send performs one request with client-side rate limiting. Mutating calls go
// through here directly and are never retried.
func (c *Client) send(ctx context.Context, method, path, endpoint, token string, body any) (reply, error) {
	var r reply
	if err := c.inflight.Acquire(ctx, 1); err != nil {
		return r, err
	}
	defer c.inflight.Release(1)
	if err := c.rl.Wait(ctx); err != nil {
		return r, err
	}

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return r, fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		rdr = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, rdr)
	if err != nil {
		return r, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "gogo-hotel/1.0")

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		observability.ObserveExternal(service, endpoint, 0, time.Since(start))
		observability.ObserveExternalError(service, endpoint, err)
		if ctx.Err() != nil {
			return r, ctx.Err()
		}
		return r, fmt.Errorf("%w: %s %s: %v", domain.ErrNetwork, method, path, err)
	}
	defer resp.Body.Close()
	observability.ObserveExternal(service, endpoint, resp.StatusCode, time.Since(start))
	r.status, r.header = resp.StatusCode, resp.Header

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return r, fmt.Errorf("%w: read %s %s: %v", domain.ErrNetwork, method, path, err)
	}
	if len(bytes.TrimSpace(raw)) > 0 {
		// error bodies that are not JSON keep an empty envelope
		if err := json.Unmarshal(raw, &r.env); err != nil && ok(r.status) {
			return r, &domain.APIError{Status: r.status, Message: "Unexpected response from server", Kind: domain.ErrRemote}
		}
	}
	return r, nil
}

// get performs a GET and retries on 429 and transient 5xx, honoring
// Retry-After when provided. Transport errors are not retried.
func (c *Client) get(ctx context.Context, path, endpoint, token string) (envelope, error) {
	const attempts = 4
	var last error
	for i := 0; i < attempts; i++ {
		r, err := c.send(ctx, http.MethodGet, path, endpoint, token, nil)
		if err != nil {
			return r.env, err
		}
		switch r.status {
		case http.StatusTooManyRequests, http.StatusInternalServerError,
			http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			last = apiError(r.status, r.env, opDefault{msg: "Server error"})
			wait := retryAfter(r.header)
			if wait == 0 {
				wait = backoff(i)
			}
			if i < attempts-1 && sleepCtx(ctx, wait) {
				continue
			}
			if ctx.Err() != nil {
				return r.env, ctx.Err()
			}
			return r.env, last
		}
		if !ok(r.status) {
			return r.env, apiError(r.status, r.env, opDefault{msg: "Server error"})
		}
		return r.env, nil
	}
	return envelope{}, last
}

// sleepCtx waits for d or returns early if ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// retryAfter parses Retry-After header (seconds or HTTP-date). Returns 0 if absent/invalid.
func retryAfter(h http.Header) time.Duration {
	v := h.Get("Retry-After")
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(v); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

// backoff returns an exponential delay (200ms, 400ms, 800ms...) with up to
// +50% jitter from crypto/rand.
func backoff(i int) time.Duration {
	base := time.Duration(1<<i) * 200 * time.Millisecond
	var b [1]byte
	if _, err := crand.Read(b[:]); err != nil {
		return base
	}
	f := float64(b[0]) / 255.0
	return base + time.Duration(0.5*f*float64(base))
}
