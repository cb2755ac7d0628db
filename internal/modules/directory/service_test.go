package directory

import (
	"context"
	"testing"

	"justonemore/internal/types"
)

type memStore struct {
	users       map[types.ID]*User
	hubs        []*Hub
	lighthouses []*Lighthouse
}

func newMemStore() *memStore {
	return &memStore{users: make(map[types.ID]*User)}
}

func (m *memStore) CreateUser(_ context.Context, u *User) error {
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *memStore) UpsertUser(_ context.Context, u *User) (*User, error) {
	for _, existing := range m.users {
		if existing.Email == u.Email {
			existing.Name = u.Name
			existing.Phone = u.Phone
			existing.Roles = append([]Role(nil), u.Roles...)
			existing.Address = u.Address
			if u.Coords != nil {
				existing.Coords = u.Coords
			}
			cp := *existing
			return &cp, nil
		}
	}
	cp := *u
	m.users[u.ID] = &cp
	out := cp
	return &out, nil
}

func (m *memStore) GetUser(_ context.Context, id types.ID) (*User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memStore) GetUserByEmail(_ context.Context, email string) (*User, error) {
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *memStore) CreateHub(_ context.Context, h *Hub) error {
	cp := *h
	m.hubs = append(m.hubs, &cp)
	return nil
}

func (m *memStore) GetHub(_ context.Context, id types.ID) (*Hub, error) {
	for _, h := range m.hubs {
		if h.ID == id {
			cp := *h
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *memStore) ListHubs(_ context.Context) ([]*Hub, error) {
	return m.hubs, nil
}

func (m *memStore) CreateLighthouse(_ context.Context, l *Lighthouse) error {
	cp := *l
	m.lighthouses = append(m.lighthouses, &cp)
	return nil
}

func (m *memStore) GetLighthouse(_ context.Context, id types.ID) (*Lighthouse, error) {
	for _, l := range m.lighthouses {
		if l.ID == id {
			cp := *l
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *memStore) ListLighthouses(_ context.Context) ([]*Lighthouse, error) {
	return m.lighthouses, nil
}

func TestRegisterUserUpserts(t *testing.T) {
	svc := NewService(newMemStore(), nil, nil)
	ctx := context.Background()

	first, err := svc.RegisterUser(ctx, Registration{
		Name: "Carla", Email: "Carla@Example.org", Roles: []Role{RoleCook},
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if first.Email != "carla@example.org" {
		t.Errorf("email not normalized: %s", first.Email)
	}

	second, err := svc.RegisterUser(ctx, Registration{
		Name: "Carla B", Email: "carla@example.org", Phone: " 021 555 0101 ",
		Roles: []Role{RoleDriver, RoleCook, RoleDriver},
	})
	if err != nil {
		t.Fatalf("re-register: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("same email must map to the same user: %s vs %s", first.ID, second.ID)
	}
	if second.Name != "Carla B" || second.Phone != "021 555 0101" {
		t.Errorf("record not refreshed: %+v", second)
	}
	if len(second.Roles) != 2 || second.Roles[0] != RoleDriver || second.Roles[1] != RoleCook {
		t.Errorf("roles not deduplicated in order: %v", second.Roles)
	}
	if !second.HasRole(RoleCook) || second.HasRole(RoleHub) {
		t.Errorf("HasRole mismatch: %v", second.Roles)
	}
}

func TestRegisterUser_Invalid(t *testing.T) {
	svc := NewService(newMemStore(), nil, nil)
	ctx := context.Background()

	cases := []struct {
		name, userName, email string
		roles                 []Role
	}{
		{"empty name", "", "x@example.org", []Role{RoleCook}},
		{"empty email", "X", "", []Role{RoleCook}},
		{"no roles", "X", "x@example.org", nil},
		{"bad role", "X", "x@example.org", []Role{RoleCook, Role("admin")}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.RegisterUser(ctx, Registration{Name: tc.userName, Email: tc.email, Roles: tc.roles})
			if err != ErrInvalidInput {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestNearestHub(t *testing.T) {
	store := newMemStore()
	svc := NewService(store, nil, nil)
	ctx := context.Background()

	origin := types.Point{Lat: -33.9249, Lng: 18.4241}

	// No hubs at all.
	h, _, err := svc.NearestHub(ctx, origin)
	if err != nil || h != nil {
		t.Fatalf("empty directory: hub=%v err=%v", h, err)
	}

	store.hubs = []*Hub{
		{ID: "far", Name: "Far", Coords: &types.Point{Lat: -34.1, Lng: 18.8}},
		{ID: "no-coords", Name: "Unlocated"},
		{ID: "near", Name: "Near", Coords: &types.Point{Lat: -33.93, Lng: 18.43}},
	}

	h, km, err := svc.NearestHub(ctx, origin)
	if err != nil {
		t.Fatalf("nearest: %v", err)
	}
	if h == nil || h.ID != "near" {
		t.Fatalf("got %+v, want hub 'near'", h)
	}
	if km <= 0 || km > 2 {
		t.Errorf("distance %f km out of expected range", km)
	}
}

func TestNearestHub_AllUnlocated(t *testing.T) {
	store := newMemStore()
	store.hubs = []*Hub{{ID: "a"}, {ID: "b"}}
	svc := NewService(store, nil, nil)

	h, _, err := svc.NearestHub(context.Background(), types.Point{Lat: 0, Lng: 0})
	if err != nil || h != nil {
		t.Fatalf("hubs without coordinates must not win: hub=%v err=%v", h, err)
	}
}

type stubIndex struct {
	ids  []types.ID
	err  error
	adds int
}

func (s *stubIndex) AddHub(context.Context, *Hub) error { s.adds++; return nil }

func (s *stubIndex) NearbyIDs(context.Context, types.Point, int) ([]types.ID, error) {
	return s.ids, s.err
}

func TestHubsByDistance(t *testing.T) {
	store := newMemStore()
	store.hubs = []*Hub{
		{ID: "far", Name: "Far", Coords: &types.Point{Lat: -34.1, Lng: 18.8}},
		{ID: "no-coords", Name: "Unlocated"},
		{ID: "near", Name: "Near", Coords: &types.Point{Lat: -33.93, Lng: 18.43}},
	}
	origin := types.Point{Lat: -33.9249, Lng: 18.4241}

	// Index supplies the ordering.
	idx := &stubIndex{ids: []types.ID{"near", "far"}}
	svc := NewService(store, nil, idx)
	ranked, err := svc.HubsByDistance(context.Background(), origin)
	if err != nil {
		t.Fatalf("indexed: %v", err)
	}
	if len(ranked) != 2 || ranked[0].Hub.ID != "near" || ranked[1].Hub.ID != "far" {
		t.Fatalf("unexpected indexed order: %+v", ranked)
	}
	if ranked[0].Km <= 0 || ranked[0].Km >= ranked[1].Km {
		t.Errorf("distances not increasing: %f, %f", ranked[0].Km, ranked[1].Km)
	}

	// Index failure falls back to scanning, same order.
	svc = NewService(store, nil, &stubIndex{err: context.DeadlineExceeded})
	ranked, err = svc.HubsByDistance(context.Background(), origin)
	if err != nil {
		t.Fatalf("fallback: %v", err)
	}
	if len(ranked) != 2 || ranked[0].Hub.ID != "near" || ranked[1].Hub.ID != "far" {
		t.Fatalf("unexpected fallback order: %+v", ranked)
	}

	// No index configured at all.
	svc = NewService(store, nil, nil)
	ranked, err = svc.HubsByDistance(context.Background(), origin)
	if err != nil || len(ranked) != 2 {
		t.Fatalf("no index: %v %+v", err, ranked)
	}
}

func TestFacilityExistence(t *testing.T) {
	store := newMemStore()
	store.hubs = []*Hub{{ID: "H1"}}
	store.lighthouses = []*Lighthouse{{ID: "L1"}}
	svc := NewService(store, nil, nil)
	ctx := context.Background()

	if ok, _ := svc.HubExists(ctx, "H1"); !ok {
		t.Error("H1 should exist")
	}
	if ok, _ := svc.HubExists(ctx, "H2"); ok {
		t.Error("H2 should not exist")
	}
	if ok, _ := svc.LighthouseExists(ctx, "L1"); !ok {
		t.Error("L1 should exist")
	}
	if ok, _ := svc.LighthouseExists(ctx, "nope"); ok {
		t.Error("unknown lighthouse should not exist")
	}
}

func TestEnsureSeedData(t *testing.T) {
	store := newMemStore()
	svc := NewService(store, nil, nil)
	ctx := context.Background()

	if err := svc.EnsureSeedData(ctx); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if len(store.hubs) != 1 || len(store.lighthouses) != 1 {
		t.Fatalf("seed created %d hubs, %d lighthouses", len(store.hubs), len(store.lighthouses))
	}

	// Idempotent.
	if err := svc.EnsureSeedData(ctx); err != nil {
		t.Fatalf("second seed: %v", err)
	}
	if len(store.hubs) != 1 || len(store.lighthouses) != 1 {
		t.Error("seed must not duplicate facilities")
	}
}
