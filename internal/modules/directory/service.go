// README: Directory service. Registers users and facilities, answers
// existence checks for the dish lifecycle, and finds the nearest hub by a
// plain scan over all facilities.
package directory

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"justonemore/internal/geo"
	"justonemore/internal/types"
)

var ErrInvalidInput = errors.New("invalid directory input")

type Store interface {
	CreateUser(ctx context.Context, u *User) error
	UpsertUser(ctx context.Context, u *User) (*User, error)
	GetUser(ctx context.Context, id types.ID) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	CreateHub(ctx context.Context, h *Hub) error
	GetHub(ctx context.Context, id types.ID) (*Hub, error)
	ListHubs(ctx context.Context) ([]*Hub, error)
	CreateLighthouse(ctx context.Context, l *Lighthouse) error
	GetLighthouse(ctx context.Context, id types.ID) (*Lighthouse, error)
	ListLighthouses(ctx context.Context) ([]*Lighthouse, error)
}

// Geocoder resolves a street address to coordinates. Nil result means the
// address could not be resolved; facility creation proceeds without coords.
type Geocoder interface {
	Lookup(ctx context.Context, address string) *types.Point
}

// Indexer mirrors hub coordinates into the fast lookup index.
type Indexer interface {
	AddHub(ctx context.Context, h *Hub) error
	NearbyIDs(ctx context.Context, origin types.Point, count int) ([]types.ID, error)
}

type Service struct {
	store    Store
	geocoder Geocoder
	index    Indexer
}

func NewService(store Store, geocoder Geocoder, index Indexer) *Service {
	return &Service{store: store, geocoder: geocoder, index: index}
}

// Registration carries the fields a user signs up with. Roles may hold
// several entries; duplicates are collapsed.
type Registration struct {
	Name    string
	Email   string
	Phone   string
	Address string
	Roles   []Role
	Coords  *types.Point
}

func (s *Service) RegisterUser(ctx context.Context, reg Registration) (*User, error) {
	name := strings.TrimSpace(reg.Name)
	email := strings.TrimSpace(strings.ToLower(reg.Email))
	if name == "" || email == "" || len(reg.Roles) == 0 {
		return nil, ErrInvalidInput
	}
	seen := make(map[Role]bool, len(reg.Roles))
	roles := make([]Role, 0, len(reg.Roles))
	for _, r := range reg.Roles {
		if !r.IsValid() {
			return nil, ErrInvalidInput
		}
		if !seen[r] {
			seen[r] = true
			roles = append(roles, r)
		}
	}
	coords := reg.Coords
	if coords == nil && reg.Address != "" && s.geocoder != nil {
		coords = s.geocoder.Lookup(ctx, reg.Address)
	}
	return s.store.UpsertUser(ctx, &User{
		ID:      types.ID(uuid.NewString()),
		Name:    name,
		Email:   email,
		Phone:   strings.TrimSpace(reg.Phone),
		Roles:   roles,
		Address: reg.Address,
		Coords:  coords,
	})
}

func (s *Service) GetUser(ctx context.Context, id types.ID) (*User, error) {
	return s.store.GetUser(ctx, id)
}

func (s *Service) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	return s.store.GetUserByEmail(ctx, strings.TrimSpace(strings.ToLower(email)))
}

func (s *Service) CreateHub(ctx context.Context, name, address string, coords *types.Point) (*Hub, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrInvalidInput
	}
	if coords == nil && address != "" && s.geocoder != nil {
		coords = s.geocoder.Lookup(ctx, address)
	}
	h := &Hub{
		ID:      types.ID(uuid.NewString()),
		Name:    strings.TrimSpace(name),
		Address: address,
		Coords:  coords,
	}
	if err := s.store.CreateHub(ctx, h); err != nil {
		return nil, err
	}
	if s.index != nil {
		if err := s.index.AddHub(ctx, h); err != nil {
			log.Warn().Err(err).Str("hub_id", string(h.ID)).Msg("hub geo index update failed")
		}
	}
	return h, nil
}

func (s *Service) CreateLighthouse(ctx context.Context, name, address string, coords *types.Point) (*Lighthouse, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrInvalidInput
	}
	if coords == nil && address != "" && s.geocoder != nil {
		coords = s.geocoder.Lookup(ctx, address)
	}
	l := &Lighthouse{
		ID:      types.ID(uuid.NewString()),
		Name:    strings.TrimSpace(name),
		Address: address,
		Coords:  coords,
	}
	if err := s.store.CreateLighthouse(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

func (s *Service) GetHub(ctx context.Context, id types.ID) (*Hub, error) {
	return s.store.GetHub(ctx, id)
}

func (s *Service) ListHubs(ctx context.Context) ([]*Hub, error) {
	return s.store.ListHubs(ctx)
}

func (s *Service) ListLighthouses(ctx context.Context) ([]*Lighthouse, error) {
	return s.store.ListLighthouses(ctx)
}

// HubExists reports whether a hub id is registered.
func (s *Service) HubExists(ctx context.Context, id types.ID) (bool, error) {
	_, err := s.store.GetHub(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// LighthouseExists reports whether a lighthouse id is registered.
func (s *Service) LighthouseExists(ctx context.Context, id types.ID) (bool, error) {
	_, err := s.store.GetLighthouse(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// NearestHub scans every hub and keeps the one with the smallest great
// circle distance to origin. Hubs without coordinates never win. Returns
// (nil, nil) when no hub has coordinates.
func (s *Service) NearestHub(ctx context.Context, origin types.Point) (*Hub, float64, error) {
	hubs, err := s.store.ListHubs(ctx)
	if err != nil {
		return nil, 0, err
	}
	var best *Hub
	bestKm := 0.0
	for _, h := range hubs {
		if h.Coords == nil {
			continue
		}
		d := geo.HaversineKm(origin.Lat, origin.Lng, h.Coords.Lat, h.Coords.Lng)
		if best == nil || d < bestKm {
			best, bestKm = h, d
		}
	}
	if best == nil {
		return nil, 0, nil
	}
	return best, bestKm, nil
}

// HubDistance pairs a hub with its distance from a query point.
type HubDistance struct {
	Hub *Hub
	Km  float64
}

// HubsByDistance lists located hubs ordered nearest first. The geo index
// supplies the ordering when available; otherwise every hub is scanned.
// Hubs without coordinates are left out either way.
func (s *Service) HubsByDistance(ctx context.Context, origin types.Point) ([]HubDistance, error) {
	hubs, err := s.store.ListHubs(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[types.ID]*Hub, len(hubs))
	for _, h := range hubs {
		if h.Coords != nil {
			byID[h.ID] = h
		}
	}

	if s.index != nil {
		ids, err := s.index.NearbyIDs(ctx, origin, len(byID))
		if err != nil {
			log.Warn().Err(err).Msg("hub geo index query failed, scanning instead")
		} else if len(ids) == len(byID) {
			out := make([]HubDistance, 0, len(ids))
			for _, id := range ids {
				h, ok := byID[id]
				if !ok {
					continue
				}
				out = append(out, HubDistance{
					Hub: h,
					Km:  geo.HaversineKm(origin.Lat, origin.Lng, h.Coords.Lat, h.Coords.Lng),
				})
			}
			return out, nil
		}
	}

	out := make([]HubDistance, 0, len(byID))
	for _, h := range byID {
		out = append(out, HubDistance{
			Hub: h,
			Km:  geo.HaversineKm(origin.Lat, origin.Lng, h.Coords.Lat, h.Coords.Lng),
		})
	}
	geo.SortByDistance(out, func(hd HubDistance) float64 { return hd.Km })
	return out, nil
}
