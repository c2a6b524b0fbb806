package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"gogo_hotel/internal/domain"
)

func tokenKey(sid string) string { return "session:" + sid + ":token" }
func userKey(sid string) string  { return "session:" + sid + ":user" }

// SessionAccessor keeps a token and its user in exactly one of two stores:
// the durable "remember me" store or the session-scoped one. Reads check the
// durable store first and never combine values from both.
type SessionAccessor struct {
	durable domain.KVStore
	scoped  domain.KVStore
}

func NewSessionAccessor(durable, scoped domain.KVStore) *SessionAccessor {
	return &SessionAccessor{durable: durable, scoped: scoped}
}

func (a *SessionAccessor) stores() []domain.KVStore {
	return []domain.KVStore{a.durable, a.scoped}
}

func (a *SessionAccessor) Load(ctx context.Context, sid string) (domain.Session, error) {
	if sid == "" {
		return domain.Session{}, domain.ErrNotSignedIn
	}
	for i, st := range a.stores() {
		tok, ok, err := st.Get(ctx, tokenKey(sid))
		if err != nil {
			return domain.Session{}, fmt.Errorf("read session token: %w", err)
		}
		if !ok || tok == "" {
			continue
		}
		s := domain.Session{Token: tok, Durable: i == 0}
		raw, ok, err := st.Get(ctx, userKey(sid))
		if err != nil {
			return domain.Session{}, fmt.Errorf("read session user: %w", err)
		}
		if ok && raw != "" {
			var u domain.User
			if err := json.Unmarshal([]byte(raw), &u); err != nil {
				log.Warn().Err(err).Msg("stored user is not valid JSON; ignoring")
			} else {
				s.User = &u
			}
		}
		return s, nil
	}
	return domain.Session{}, domain.ErrNotSignedIn
}

// Save writes token and user to the store picked by remember and removes any
// copy from the other store.
func (a *SessionAccessor) Save(ctx context.Context, sid string, remember bool, s domain.Session) error {
	target, other := a.scoped, a.durable
	if remember {
		target, other = a.durable, a.scoped
	}
	if err := other.Del(ctx, tokenKey(sid), userKey(sid)); err != nil {
		return fmt.Errorf("clear other session store: %w", err)
	}
	if err := target.Set(ctx, tokenKey(sid), s.Token); err != nil {
		return fmt.Errorf("store session token: %w", err)
	}
	if s.User == nil {
		return target.Del(ctx, userKey(sid))
	}
	b, err := json.Marshal(s.User)
	if err != nil {
		return fmt.Errorf("marshal session user: %w", err)
	}
	return target.Set(ctx, userKey(sid), string(b))
}

// SaveUser replaces the cached user in whichever store holds the token,
// defaulting to the durable store.
func (a *SessionAccessor) SaveUser(ctx context.Context, sid string, u domain.User) error {
	b, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("marshal session user: %w", err)
	}
	for _, st := range a.stores() {
		tok, ok, err := st.Get(ctx, tokenKey(sid))
		if err != nil {
			return fmt.Errorf("read session token: %w", err)
		}
		if ok && tok != "" {
			return st.Set(ctx, userKey(sid), string(b))
		}
	}
	return a.durable.Set(ctx, userKey(sid), string(b))
}

// Clear signs the session out of both stores.
func (a *SessionAccessor) Clear(ctx context.Context, sid string) error {
	var errs []error
	for _, st := range a.stores() {
		if err := st.Del(ctx, tokenKey(sid), userKey(sid)); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
