package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"gogo_hotel/internal/domain"
)

type PageOptions struct {
	IdleTTL  time.Duration
	Location *time.Location
	NewCode  CodeGenerator
	Now      func() time.Time
}

type pageEntry struct {
	page *Page
	seen time.Time
}

// PageRegistry holds open pages in memory. Idle pages are dropped lazily
// whenever a page is opened.
type PageRegistry struct {
	catalog *CatalogService
	opts    PageOptions

	mu    sync.Mutex
	pages map[string]*pageEntry
}

func NewPageRegistry(c *CatalogService, opts PageOptions) *PageRegistry {
	if opts.IdleTTL <= 0 {
		opts.IdleTTL = 30 * time.Minute
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	return &PageRegistry{catalog: c, opts: opts, pages: map[string]*pageEntry{}}
}

// Open loads the catalog and starts a new page in the browsing stage.
func (r *PageRegistry) Open(ctx context.Context) *Page {
	rooms := r.catalog.Load(ctx)
	p := NewPage(uuid.NewString(), rooms, r.opts.NewCode, r.opts.Location)

	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.opts.Now()
	r.sweepLocked(now)
	r.pages[p.ID] = &pageEntry{page: p, seen: now}
	log.Debug().Str("page", p.ID).Int("rooms", len(rooms)).Int("open_pages", len(r.pages)).Msg("page opened")
	return p
}

func (r *PageRegistry) Get(id string) (*Page, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.opts.Now()
	e, ok := r.pages[id]
	if !ok || now.Sub(e.seen) > r.opts.IdleTTL {
		delete(r.pages, id)
		return nil, fmt.Errorf("page %s: %w", id, domain.ErrNotFound)
	}
	e.seen = now
	return e.page, nil
}

func (r *PageRegistry) Close(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.pages, id)
}

func (r *PageRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pages)
}

func (r *PageRegistry) sweepLocked(now time.Time) {
	for id, e := range r.pages {
		if now.Sub(e.seen) > r.opts.IdleTTL {
			delete(r.pages, id)
		}
	}
}
