// README: Demo seeder. Populates a fresh installation with a small cast of
// users and dishes and walks one dish through the whole lifecycle, so every
// screen has something to show during a demonstration.
package demo

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"justonemore/internal/modules/directory"
	"justonemore/internal/modules/dish"
	"justonemore/internal/modules/trip"
	"justonemore/internal/types"
)

// Result counts what the seed run created.
type Result struct {
	Users         int `json:"users"`
	Dishes        int `json:"dishes"`
	Trips         int `json:"trips"`
	Notifications int `json:"notifications"`
}

// Directory is the slice of the directory service the seeder uses.
type Directory interface {
	EnsureSeedData(ctx context.Context) error
	ListHubs(ctx context.Context) ([]*directory.Hub, error)
	ListLighthouses(ctx context.Context) ([]*directory.Lighthouse, error)
	RegisterUser(ctx context.Context, reg directory.Registration) (*directory.User, error)
}

// Dishes is the slice of the dish service the seeder uses.
type Dishes interface {
	Create(ctx context.Context, cmd dish.CreateCommand) (*dish.Dish, error)
	ApplyTransition(ctx context.Context, cmd dish.TransitionCommand) (*dish.Dish, error)
}

// Trips is the slice of the trip service the seeder uses.
type Trips interface {
	Start(ctx context.Context, driverID types.ID) (*trip.Trip, error)
}

type Seeder struct {
	directory Directory
	dishes    Dishes
	trips     Trips
}

func NewSeeder(dir Directory, dishes Dishes, trips Trips) *Seeder {
	return &Seeder{directory: dir, dishes: dishes, trips: trips}
}

type seedUser struct {
	name, email, address string
	roles                []directory.Role
	lat, lng             float64
}

var seedUsers = []seedUser{
	{"Alice Cook", "alice@example.org", "Sea Point, Cape Town, South Africa", []directory.Role{directory.RoleCook}, -33.915, 18.390},
	{"Zane Cook", "zane@example.org", "Rondebosch, Cape Town, South Africa", []directory.Role{directory.RoleCook}, -33.959, 18.467},
	{"Bob Driver", "bob@example.org", "Green Point, Cape Town, South Africa", []directory.Role{directory.RoleDriver}, -33.904, 18.407},
	{"Hannah Hub", "hannah@example.org", "Cape Town, South Africa", []directory.Role{directory.RoleHub}, -33.924, 18.424},
	{"Liam Light", "liam@example.org", "Woodstock, Cape Town, South Africa", []directory.Role{directory.RoleLighthouse}, -33.930, 18.448},
}

type seedDish struct {
	cook        string
	title, desc string
	allergens   []string
	portions    int
	hasExpiry   bool
	address     string
	lat, lng    float64
}

var seedDishes = []seedDish{
	{"alice@example.org", "Chicken Casserole", "Hearty baked casserole", []string{"Celery"}, 4, true, "Sea Point, Cape Town", -33.915, 18.390},
	{"alice@example.org", "Veg Pasta Bake", "Cheesy pasta bake", []string{"Milk", "Gluten"}, 6, true, "Sea Point, Cape Town", -33.915, 18.390},
	{"zane@example.org", "Beef Stew", "Slow-cooked stew", nil, 5, false, "Rondebosch, Cape Town", -33.959, 18.467},
	{"zane@example.org", "Lentil Soup", "Vegan soup", nil, 8, true, "Rondebosch, Cape Town", -33.959, 18.467},
}

// Run seeds the demo data set. Re-running is safe: users upsert by email
// and the facility seed is idempotent, though each run adds a fresh batch
// of dishes.
func (s *Seeder) Run(ctx context.Context) (*Result, error) {
	if err := s.directory.EnsureSeedData(ctx); err != nil {
		return nil, err
	}
	hubs, err := s.directory.ListHubs(ctx)
	if err != nil {
		return nil, err
	}
	lighthouses, err := s.directory.ListLighthouses(ctx)
	if err != nil {
		return nil, err
	}
	if len(hubs) == 0 || len(lighthouses) == 0 {
		return &Result{}, nil
	}
	hub := hubs[0]
	lighthouse := lighthouses[0]

	res := &Result{}
	users := make(map[string]*directory.User, len(seedUsers))
	for _, su := range seedUsers {
		coords := types.Point{Lat: su.lat, Lng: su.lng}
		u, err := s.directory.RegisterUser(ctx, directory.Registration{
			Name:    su.name,
			Email:   su.email,
			Address: su.address,
			Roles:   su.roles,
			Coords:  &coords,
		})
		if err != nil {
			return nil, err
		}
		users[su.email] = u
		res.Users++
	}

	demoTrip, err := s.trips.Start(ctx, users["bob@example.org"].ID)
	if err != nil {
		return nil, err
	}
	res.Trips = 1

	now := time.Now().UTC()
	dishes := make([]*dish.Dish, 0, len(seedDishes))
	for _, sd := range seedDishes {
		cook, ok := users[sd.cook]
		if !ok {
			return nil, errors.New("seed dish references unknown cook")
		}
		var expiry *time.Time
		if sd.hasExpiry {
			e := now.Add(24 * time.Hour)
			expiry = &e
		}
		coords := types.Point{Lat: sd.lat, Lng: sd.lng}
		d, err := s.dishes.Create(ctx, dish.CreateCommand{
			CookID:        cook.ID,
			Title:         sd.title,
			Description:   sd.desc,
			Allergens:     sd.allergens,
			Portions:      sd.portions,
			PreparedAt:    now,
			ExpiryDate:    expiry,
			PickupAddress: sd.address,
			PickupCoords:  &coords,
		})
		if err != nil {
			return nil, err
		}
		dishes = append(dishes, d)
		res.Dishes++
	}

	// One dish travels all the way to a recipient; the distributed step
	// raises the cook's thank-you notification.
	full := dishes[1]
	walk := []dish.TransitionCommand{
		{PayloadOrCode: full.QRPayload, Target: dish.StatusPickedUp, TripID: &demoTrip.ID},
		{PayloadOrCode: full.QRPayload, Target: dish.StatusAtHub, HubID: &hub.ID},
		{PayloadOrCode: full.QRPayload, Target: dish.StatusAssignedToLighthouse, HubID: &hub.ID, LighthouseID: &lighthouse.ID},
		{PayloadOrCode: full.QRPayload, Target: dish.StatusAtLighthouse, LighthouseID: &lighthouse.ID},
		{PayloadOrCode: full.QRPayload, Target: dish.StatusDistributed, LighthouseID: &lighthouse.ID},
	}
	for _, cmd := range walk {
		if _, err := s.dishes.ApplyTransition(ctx, cmd); err != nil {
			return nil, err
		}
	}
	res.Notifications = 1

	// A second dish stops at the hub so the hub inventory is not empty.
	half := dishes[2]
	for _, cmd := range []dish.TransitionCommand{
		{PayloadOrCode: half.QRPayload, Target: dish.StatusPickedUp, TripID: &demoTrip.ID},
		{PayloadOrCode: half.QRPayload, Target: dish.StatusAtHub, HubID: &hub.ID},
	} {
		if _, err := s.dishes.ApplyTransition(ctx, cmd); err != nil {
			return nil, err
		}
	}

	log.Info().
		Int("users", res.Users).
		Int("dishes", res.Dishes).
		Int("trips", res.Trips).
		Msg("demo data seeded")
	return res, nil
}
