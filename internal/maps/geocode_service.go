package maps

import (
	"context"
	"fmt"
	"time"

	"googlemaps.github.io/maps"

	"justonemore/internal/types"
)

// GeocodeService resolves free-text addresses to coordinates through the
// Google Maps Geocoding API.
//
// Geocoding is an optional enhancement to the donation workflow: a dish can
// be created and collected without coordinates. Lookup therefore fails soft —
// any transport error, timeout, or empty result yields (nil, nil), never an
// error the caller has to handle.
type GeocodeService struct {
	client  *maps.Client
	timeout time.Duration
}

// NewGeocodeService creates a new GeocodeService with the given API key.
func NewGeocodeService(apiKey string, timeout time.Duration) (*GeocodeService, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &GeocodeService{client: client, timeout: timeout}, nil
}

// Lookup returns the best-match coordinates for the address, or nil if the
// address is empty or could not be resolved within the timeout.
func (s *GeocodeService) Lookup(ctx context.Context, address string) *types.Point {
	if address == "" {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	results, err := s.client.Geocode(ctx, &maps.GeocodingRequest{Address: address})
	if err != nil || len(results) == 0 {
		return nil
	}

	loc := results[0].Geometry.Location
	return &types.Point{Lat: loc.Lat, Lng: loc.Lng}
}
