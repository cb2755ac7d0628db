package maps

import (
	"fmt"
	"strings"

	"justonemore/internal/types"
)

// DirectionsLink returns a Google Maps driving-directions URL to a single
// destination. The origin is left to the Maps app (the user's live position).
func DirectionsLink(dest types.Point) string {
	return fmt.Sprintf("https://www.google.com/maps/dir/?api=1&destination=%f,%f&travelmode=driving", dest.Lat, dest.Lng)
}

// MultiStopLink returns a Google Maps driving-directions URL through the
// given waypoints to the destination.
func MultiStopLink(waypoints []types.Point, dest types.Point) string {
	base := DirectionsLink(dest)
	if len(waypoints) == 0 {
		return base
	}
	parts := make([]string, len(waypoints))
	for i, wp := range waypoints {
		parts[i] = fmt.Sprintf("%f,%f", wp.Lat, wp.Lng)
	}
	return base + "&waypoints=" + strings.Join(parts, "|")
}
