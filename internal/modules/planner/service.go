// README: Route planner for driver pickup runs. Orders prepared dishes by
// repeatedly taking the nearest remaining pickup, then appends the hub
// nearest the final stop as the drop-off terminal.
package planner

import (
	"context"
	"errors"

	"justonemore/internal/geo"
	"justonemore/internal/maps"
	"justonemore/internal/modules/directory"
	"justonemore/internal/modules/dish"
	"justonemore/internal/types"
)

var ErrInvalidInput = errors.New("invalid planner input")

// DishSource lists dishes awaiting pickup.
type DishSource interface {
	ListByStatus(ctx context.Context, status dish.Status) ([]*dish.Dish, error)
}

// HubFinder locates the drop-off hub closest to a point.
type HubFinder interface {
	NearestHub(ctx context.Context, origin types.Point) (*directory.Hub, float64, error)
}

type Stop struct {
	Dish  *dish.Dish
	LegKm float64
}

type Route struct {
	Stops []Stop
	// Hub is the drop-off terminal, nil when no hub has coordinates.
	Hub        *directory.Hub
	FinalLegKm float64
	TotalKm    float64
	// MapsLink covers origin, every stop, and the hub when present.
	MapsLink string
}

// Pickup is a prepared dish annotated with its distance from the driver.
type Pickup struct {
	Dish *dish.Dish
	// DistanceKm is negative when the dish has no pickup coordinates.
	DistanceKm float64
}

type Service struct {
	dishes       DishSource
	hubs         HubFinder
	defaultLimit int
	maxLimit     int
}

func NewService(dishes DishSource, hubs HubFinder, defaultLimit, maxLimit int) *Service {
	if defaultLimit < 1 {
		defaultLimit = 8
	}
	if maxLimit < defaultLimit {
		maxLimit = defaultLimit
	}
	return &Service{dishes: dishes, hubs: hubs, defaultLimit: defaultLimit, maxLimit: maxLimit}
}

// AvailablePickups lists prepared dishes sorted by distance from origin.
// Dishes without coordinates sort last with a negative distance. A nil
// origin skips the annotation and returns listing order.
func (s *Service) AvailablePickups(ctx context.Context, origin *types.Point) ([]Pickup, error) {
	prepared, err := s.dishes.ListByStatus(ctx, dish.StatusPrepared)
	if err != nil {
		return nil, err
	}
	out := make([]Pickup, 0, len(prepared))
	for _, d := range prepared {
		p := Pickup{Dish: d, DistanceKm: -1}
		if origin != nil && d.PickupCoords != nil {
			p.DistanceKm = legKm(*origin, *d.PickupCoords)
		}
		out = append(out, p)
	}
	if origin != nil {
		geo.SortByDistance(out, func(p Pickup) float64 {
			if p.DistanceKm < 0 {
				return 1e9
			}
			return p.DistanceKm
		})
	}
	return out, nil
}

// Plan builds a pickup route from origin. Dishes without coordinates are
// excluded. At most limit stops are planned; limit 0 uses the configured
// default and larger requests are clamped to the configured maximum.
func (s *Service) Plan(ctx context.Context, origin types.Point, limit int) (*Route, error) {
	if limit == 0 {
		limit = s.defaultLimit
	}
	if limit < 1 {
		return nil, ErrInvalidInput
	}
	if limit > s.maxLimit {
		limit = s.maxLimit
	}

	prepared, err := s.dishes.ListByStatus(ctx, dish.StatusPrepared)
	if err != nil {
		return nil, err
	}
	remaining := make([]*dish.Dish, 0, len(prepared))
	for _, d := range prepared {
		if d.PickupCoords != nil {
			remaining = append(remaining, d)
		}
	}

	route := &Route{}
	cur := origin
	for len(remaining) > 0 && len(route.Stops) < limit {
		best := 0
		bestKm := legKm(cur, *remaining[0].PickupCoords)
		for i := 1; i < len(remaining); i++ {
			if d := legKm(cur, *remaining[i].PickupCoords); d < bestKm {
				best, bestKm = i, d
			}
		}
		picked := remaining[best]
		route.Stops = append(route.Stops, Stop{Dish: picked, LegKm: bestKm})
		route.TotalKm += bestKm
		cur = *picked.PickupCoords
		remaining = append(remaining[:best], remaining[best+1:]...)
	}

	if s.hubs != nil {
		terminal := origin
		if len(route.Stops) > 0 {
			terminal = *route.Stops[len(route.Stops)-1].Dish.PickupCoords
		}
		hub, _, err := s.hubs.NearestHub(ctx, terminal)
		if err != nil {
			return nil, err
		}
		if hub == nil && len(route.Stops) > 0 {
			// No hub near the last stop; retry from the driver's origin.
			hub, _, err = s.hubs.NearestHub(ctx, origin)
			if err != nil {
				return nil, err
			}
		}
		if hub != nil && hub.Coords != nil {
			route.Hub = hub
			route.FinalLegKm = legKm(cur, *hub.Coords)
			route.TotalKm += route.FinalLegKm
		}
	}

	route.MapsLink = s.mapsLink(origin, route)
	return route, nil
}

func legKm(from, to types.Point) float64 {
	return geo.HaversineKm(from.Lat, from.Lng, to.Lat, to.Lng)
}

func (s *Service) mapsLink(origin types.Point, route *Route) string {
	if len(route.Stops) == 0 {
		return ""
	}
	waypoints := make([]types.Point, 0, len(route.Stops)+1)
	waypoints = append(waypoints, origin)
	for _, stop := range route.Stops {
		waypoints = append(waypoints, *stop.Dish.PickupCoords)
	}
	if route.Hub != nil && route.Hub.Coords != nil {
		return maps.MultiStopLink(waypoints, *route.Hub.Coords)
	}
	dest := waypoints[len(waypoints)-1]
	return maps.MultiStopLink(waypoints[:len(waypoints)-1], dest)
}
