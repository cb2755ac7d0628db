// README: Dish aggregate, status vocabulary, and allergen definitions.
package dish

import (
	"time"

	"justonemore/internal/types"
)

type Status string

// Dish statuses in required forward order. prepared is the only initial
// state and distributed the only terminal one. Transitions are applied
// permissively (the engine records what was scanned; see service.go), but
// the order here is the canonical lifecycle and drives display ranking.
const (
	StatusPrepared             Status = "prepared"
	StatusPickedUp             Status = "picked_up"
	StatusAtHub                Status = "at_hub"
	StatusAssignedToLighthouse Status = "assigned_to_lighthouse"
	StatusAtLighthouse         Status = "at_lighthouse"
	StatusDistributed          Status = "distributed"
)

// AllStatuses lists the status vocabulary in lifecycle order.
var AllStatuses = []Status{
	StatusPrepared,
	StatusPickedUp,
	StatusAtHub,
	StatusAssignedToLighthouse,
	StatusAtLighthouse,
	StatusDistributed,
}

// Rank returns the position of s in the forward order, or -1 for an unknown
// status.
func (s Status) Rank() int {
	for i, known := range AllStatuses {
		if known == s {
			return i
		}
	}
	return -1
}

// IsValid reports whether s is part of the status vocabulary.
func (s Status) IsValid() bool {
	return s.Rank() >= 0
}

// Allergens is the closed 14-entry labelling vocabulary.
var Allergens = []string{
	"Gluten", "Crustaceans", "Eggs", "Fish", "Peanuts", "Soybeans",
	"Milk", "Nuts", "Celery", "Mustard", "Sesame", "Sulphites", "Lupin", "Molluscs",
}

// IsValidAllergen reports whether tag is part of the closed vocabulary.
func IsValidAllergen(tag string) bool {
	for _, a := range Allergens {
		if a == tag {
			return true
		}
	}
	return false
}

// Dish is one donated prepared-food unit tracked end-to-end. Trip, hub and
// lighthouse fields are weak references: they are set through transition
// context and coalesce-merged, never cleared by a later transition that
// omits them.
type Dish struct {
	ID            types.ID
	CookID        types.ID
	Title         string
	Description   string
	Allergens     []string
	Portions      int
	PreparedAt    time.Time
	ExpiryDate    *time.Time
	Status        Status
	PickupAddress string
	PickupCoords  *types.Point
	QRPayload     string
	QRPath        string
	TripID        *types.ID
	HubID         *types.ID
	LighthouseID  *types.ID
}
