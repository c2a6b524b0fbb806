package app

import (
	"context"
	_ "embed"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"gogo_hotel/internal/adapters/observability"
	"gogo_hotel/internal/domain"
)

//go:embed catalog.yaml
var catalogYAML []byte

type roomTemplate struct {
	Label     string   `yaml:"label"`
	Price     float64  `yaml:"price"`
	Guests    int      `yaml:"guests"`
	Beds      int      `yaml:"beds"`
	Image     string   `yaml:"image"`
	Amenities []string `yaml:"amenities"`
}

type catalogDoc struct {
	Types    map[string]roomTemplate `yaml:"types"`
	Fallback []map[string]any        `yaml:"fallback"`
}

var (
	templates     map[string]roomTemplate
	fallbackRooms []domain.Room
)

func init() {
	var doc catalogDoc
	if err := yaml.Unmarshal(catalogYAML, &doc); err != nil {
		panic(fmt.Errorf("embedded catalog.yaml: %w", err))
	}
	templates = doc.Types
	fallbackRooms = NormalizeRooms(doc.Fallback)
}

// NormalizeRooms turns raw records into rooms, keeping input order.
func NormalizeRooms(raw []map[string]any) []domain.Room {
	out := make([]domain.Room, 0, len(raw))
	for _, r := range raw {
		if r == nil {
			continue
		}
		out = append(out, mapRoom(r, templates))
	}
	return out
}

// FallbackRooms returns a copy of the static sample catalog.
func FallbackRooms() []domain.Room {
	out := make([]domain.Room, len(fallbackRooms))
	copy(out, fallbackRooms)
	return out
}

type CatalogService struct {
	api domain.RoomsAPI
}

func NewCatalogService(api domain.RoomsAPI) *CatalogService {
	return &CatalogService{api: api}
}

// Load fetches and normalizes the live catalog. Failures yield an empty
// catalog; Search substitutes the fallback rooms for it.
func (s *CatalogService) Load(ctx context.Context) []domain.Room {
	raw, err := s.api.ListRooms(ctx)
	if err != nil {
		outcome := "error"
		if errors.Is(err, domain.ErrNoLiveCatalog) {
			outcome = "not_ok"
		}
		observability.ObserveCatalog(outcome)
		log.Warn().Err(err).Str("outcome", outcome).Msg("room catalog unavailable")
		return []domain.Room{}
	}
	rooms := NormalizeRooms(raw)
	if len(rooms) == 0 {
		observability.ObserveCatalog("empty")
	} else {
		observability.ObserveCatalog("ok")
	}
	log.Debug().Int("rooms", len(rooms)).Msg("room catalog loaded")
	return rooms
}
