package planner

import (
	"context"
	"math"
	"strings"
	"testing"

	"justonemore/internal/modules/directory"
	"justonemore/internal/modules/dish"
	"justonemore/internal/types"
)

type stubDishes struct {
	dishes []*dish.Dish
}

func (s *stubDishes) ListByStatus(_ context.Context, status dish.Status) ([]*dish.Dish, error) {
	var out []*dish.Dish
	for _, d := range s.dishes {
		if d.Status == status {
			out = append(out, d)
		}
	}
	return out, nil
}

type stubHubs struct {
	hub *directory.Hub
}

func (s *stubHubs) NearestHub(_ context.Context, _ types.Point) (*directory.Hub, float64, error) {
	return s.hub, 0, nil
}

func prepared(id types.ID, lat, lng float64) *dish.Dish {
	return &dish.Dish{
		ID:           id,
		Status:       dish.StatusPrepared,
		PickupCoords: &types.Point{Lat: lat, Lng: lng},
	}
}

var capeTown = types.Point{Lat: -33.9249, Lng: 18.4241}

func TestPlan_GreedyNearestFirst(t *testing.T) {
	// One dish roughly 2 km north, one roughly 5 km north. With limit 2 the
	// closer dish must come first even though it is listed second.
	dishes := &stubDishes{dishes: []*dish.Dish{
		prepared("far", capeTown.Lat+0.045, capeTown.Lng),
		prepared("near", capeTown.Lat+0.018, capeTown.Lng),
	}}
	svc := NewService(dishes, nil, 8, 15)

	route, err := svc.Plan(context.Background(), capeTown, 2)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if len(route.Stops) != 2 {
		t.Fatalf("got %d stops, want 2", len(route.Stops))
	}
	if route.Stops[0].Dish.ID != "near" || route.Stops[1].Dish.ID != "far" {
		t.Errorf("route order: %s, %s", route.Stops[0].Dish.ID, route.Stops[1].Dish.ID)
	}
	if math.Abs(route.Stops[0].LegKm-2.0) > 0.2 {
		t.Errorf("first leg %f km, want ~2", route.Stops[0].LegKm)
	}
	if math.Abs(route.Stops[1].LegKm-3.0) > 0.2 {
		t.Errorf("second leg %f km, want ~3", route.Stops[1].LegKm)
	}
	wantTotal := route.Stops[0].LegKm + route.Stops[1].LegKm
	if math.Abs(route.TotalKm-wantTotal) > 0.001 {
		t.Errorf("total %f, want leg sum %f", route.TotalKm, wantTotal)
	}
}

func TestPlan_LimitAndSkipUnlocated(t *testing.T) {
	dishes := &stubDishes{dishes: []*dish.Dish{
		prepared("a", -33.93, 18.42),
		{ID: "no-coords", Status: dish.StatusPrepared},
		prepared("b", -33.94, 18.43),
		prepared("c", -33.95, 18.44),
		{ID: "not-prepared", Status: dish.StatusAtHub, PickupCoords: &capeTown},
	}}
	svc := NewService(dishes, nil, 8, 15)

	route, err := svc.Plan(context.Background(), capeTown, 2)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if len(route.Stops) != 2 {
		t.Fatalf("limit not honored: %d stops", len(route.Stops))
	}
	for _, stop := range route.Stops {
		if stop.Dish.ID == "no-coords" || stop.Dish.ID == "not-prepared" {
			t.Errorf("dish %s must not be planned", stop.Dish.ID)
		}
	}
}

func TestPlan_LimitClamping(t *testing.T) {
	var many []*dish.Dish
	for i := 0; i < 20; i++ {
		many = append(many, prepared(types.ID(string(rune('a'+i))), -33.9-float64(i)*0.01, 18.42))
	}
	svc := NewService(&stubDishes{dishes: many}, nil, 8, 15)
	ctx := context.Background()

	route, err := svc.Plan(ctx, capeTown, 0)
	if err != nil {
		t.Fatalf("plan default: %v", err)
	}
	if len(route.Stops) != 8 {
		t.Errorf("default limit: got %d stops, want 8", len(route.Stops))
	}

	route, err = svc.Plan(ctx, capeTown, 100)
	if err != nil {
		t.Fatalf("plan clamped: %v", err)
	}
	if len(route.Stops) != 15 {
		t.Errorf("max limit: got %d stops, want 15", len(route.Stops))
	}

	if _, err := svc.Plan(ctx, capeTown, -1); err != ErrInvalidInput {
		t.Errorf("negative limit: expected ErrInvalidInput, got %v", err)
	}
}

func TestPlan_HubTerminal(t *testing.T) {
	hub := &directory.Hub{
		ID:     "H1",
		Name:   "Central Hub",
		Coords: &types.Point{Lat: -33.96, Lng: 18.45},
	}
	dishes := &stubDishes{dishes: []*dish.Dish{prepared("a", -33.93, 18.42)}}
	svc := NewService(dishes, &stubHubs{hub: hub}, 8, 15)

	route, err := svc.Plan(context.Background(), capeTown, 5)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if route.Hub == nil || route.Hub.ID != "H1" {
		t.Fatalf("hub terminal missing: %+v", route.Hub)
	}
	if route.FinalLegKm <= 0 {
		t.Errorf("final leg must be positive, got %f", route.FinalLegKm)
	}
	if math.Abs(route.TotalKm-(route.Stops[0].LegKm+route.FinalLegKm)) > 0.001 {
		t.Errorf("total %f must be leg sum plus final", route.TotalKm)
	}
	if !strings.Contains(route.MapsLink, "waypoints=") {
		t.Errorf("maps link missing waypoints: %s", route.MapsLink)
	}
	if !strings.Contains(route.MapsLink, "-33.96") {
		t.Errorf("maps link must end at the hub: %s", route.MapsLink)
	}
}

func TestPlan_NoHubConfigured(t *testing.T) {
	dishes := &stubDishes{dishes: []*dish.Dish{prepared("a", -33.93, 18.42)}}
	svc := NewService(dishes, &stubHubs{hub: nil}, 8, 15)

	route, err := svc.Plan(context.Background(), capeTown, 5)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if route.Hub != nil || route.FinalLegKm != 0 {
		t.Errorf("route must have no terminal when no hub exists: %+v", route)
	}
}

func TestPlan_NoDishes(t *testing.T) {
	svc := NewService(&stubDishes{}, nil, 8, 15)
	route, err := svc.Plan(context.Background(), capeTown, 5)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if len(route.Stops) != 0 || route.TotalKm != 0 || route.MapsLink != "" {
		t.Errorf("empty plan expected, got %+v", route)
	}
}

func TestAvailablePickups(t *testing.T) {
	dishes := &stubDishes{dishes: []*dish.Dish{
		prepared("far", -34.1, 18.8),
		{ID: "unlocated", Status: dish.StatusPrepared},
		prepared("near", -33.93, 18.43),
	}}
	svc := NewService(dishes, nil, 8, 15)

	pickups, err := svc.AvailablePickups(context.Background(), &capeTown)
	if err != nil {
		t.Fatalf("pickups: %v", err)
	}
	if len(pickups) != 3 {
		t.Fatalf("got %d pickups, want 3", len(pickups))
	}
	if pickups[0].Dish.ID != "near" || pickups[1].Dish.ID != "far" {
		t.Errorf("order: %s, %s", pickups[0].Dish.ID, pickups[1].Dish.ID)
	}
	if pickups[2].Dish.ID != "unlocated" || pickups[2].DistanceKm >= 0 {
		t.Errorf("unlocated dish must sort last with negative distance: %+v", pickups[2])
	}
}
