package directory

import (
	"context"

	"justonemore/internal/types"
)

// EnsureSeedData creates one default hub and one default lighthouse when the
// directory is empty, so a fresh install has somewhere for dishes to flow.
func (s *Service) EnsureSeedData(ctx context.Context) error {
	hubs, err := s.store.ListHubs(ctx)
	if err != nil {
		return err
	}
	if len(hubs) == 0 {
		if _, err := s.CreateHub(ctx, "Central Hub", "Cape Town, South Africa",
			&types.Point{Lat: -33.9249, Lng: 18.4241}); err != nil {
			return err
		}
	}
	lighthouses, err := s.store.ListLighthouses(ctx)
	if err != nil {
		return err
	}
	if len(lighthouses) == 0 {
		if _, err := s.CreateLighthouse(ctx, "Lighthouse A", "Cape Town, South Africa",
			&types.Point{Lat: -33.93, Lng: 18.42}); err != nil {
			return err
		}
	}
	return nil
}
