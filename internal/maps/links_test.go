package maps

import (
	"strings"
	"testing"

	"justonemore/internal/types"
)

func TestDirectionsLink(t *testing.T) {
	link := DirectionsLink(types.Point{Lat: -33.9249, Lng: 18.4241})
	if !strings.HasPrefix(link, "https://www.google.com/maps/dir/?api=1&destination=") {
		t.Errorf("unexpected link prefix: %s", link)
	}
	if !strings.Contains(link, "travelmode=driving") {
		t.Errorf("expected driving mode in link: %s", link)
	}
}

func TestMultiStopLink(t *testing.T) {
	dest := types.Point{Lat: -33.93, Lng: 18.42}
	waypoints := []types.Point{
		{Lat: -33.915, Lng: 18.390},
		{Lat: -33.959, Lng: 18.467},
	}

	link := MultiStopLink(waypoints, dest)
	if !strings.Contains(link, "&waypoints=") {
		t.Fatalf("expected waypoints in link: %s", link)
	}
	if !strings.Contains(link, "|") {
		t.Errorf("expected pipe-separated waypoints: %s", link)
	}

	// No waypoints degrades to a plain directions link.
	if got := MultiStopLink(nil, dest); strings.Contains(got, "waypoints") {
		t.Errorf("empty waypoints must not appear in link: %s", got)
	}
}
