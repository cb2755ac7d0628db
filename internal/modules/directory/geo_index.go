// README: Redis GEO index over hub coordinates. The index is a read-side
// accelerator; PostgreSQL stays the source of truth and NearestHub falls
// back to scanning it when Redis is unavailable.
package directory

import (
	"context"

	"github.com/redis/go-redis/v9"

	"justonemore/internal/types"
)

const hubGeoKey = "directory:hubs"

type GeoIndex struct {
	redis *redis.Client
}

func NewGeoIndex(client *redis.Client) *GeoIndex {
	return &GeoIndex{redis: client}
}

func (g *GeoIndex) AddHub(ctx context.Context, h *Hub) error {
	if h.Coords == nil {
		return nil
	}
	return g.redis.GeoAdd(ctx, hubGeoKey, &redis.GeoLocation{
		Name:      string(h.ID),
		Longitude: h.Coords.Lng,
		Latitude:  h.Coords.Lat,
	}).Err()
}

func (g *GeoIndex) RemoveHub(ctx context.Context, id types.ID) error {
	return g.redis.ZRem(ctx, hubGeoKey, string(id)).Err()
}

// Nearest returns the closest indexed hub id to p, or "" when the index is
// empty.
func (g *GeoIndex) Nearest(ctx context.Context, p types.Point) (types.ID, error) {
	results, err := g.redis.GeoSearch(ctx, hubGeoKey, &redis.GeoSearchQuery{
		Longitude:  p.Lng,
		Latitude:   p.Lat,
		Radius:     20000,
		RadiusUnit: "km",
		Sort:       "ASC",
		Count:      1,
	}).Result()
	if err != nil {
		return "", err
	}
	if len(results) == 0 {
		return "", nil
	}
	return types.ID(results[0]), nil
}

// NearbyIDs returns up to count indexed hub ids ordered nearest first.
func (g *GeoIndex) NearbyIDs(ctx context.Context, p types.Point, count int) ([]types.ID, error) {
	if count < 1 {
		return nil, nil
	}
	results, err := g.redis.GeoSearch(ctx, hubGeoKey, &redis.GeoSearchQuery{
		Longitude:  p.Lng,
		Latitude:   p.Lat,
		Radius:     20000,
		RadiusUnit: "km",
		Sort:       "ASC",
		Count:      count,
	}).Result()
	if err != nil {
		return nil, err
	}
	out := make([]types.ID, 0, len(results))
	for _, name := range results {
		out = append(out, types.ID(name))
	}
	return out, nil
}
