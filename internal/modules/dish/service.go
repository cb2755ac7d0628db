// README: Lifecycle engine: dish creation and scan-driven status transitions.
package dish

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"justonemore/internal/modules/qrcode"
	"justonemore/internal/types"
)

var (
	// ErrInvalidInput rejects a malformed creation request; no partial
	// record is created.
	ErrInvalidInput = errors.New("invalid dish input")
	// ErrUnresolvedScan means the payload does not match the expected
	// format or references a nonexistent dish; no state mutation occurred.
	ErrUnresolvedScan = errors.New("unresolved scan")
	// ErrNotFound means a dish id lookup missed.
	ErrNotFound = errors.New("dish not found")
)

// Store is the persistence contract the engine mutates dishes through.
type Store interface {
	Create(ctx context.Context, d *Dish) error
	Get(ctx context.Context, id types.ID) (*Dish, error)
	// UpdateStatus sets the status and coalesce-merges the association ids:
	// a nil pointer preserves the stored value. Returns the updated snapshot.
	UpdateStatus(ctx context.Context, id types.ID, status Status, tripID, hubID, lighthouseID *types.ID) (*Dish, error)
	ListByStatus(ctx context.Context, status Status) ([]*Dish, error)
	ListByCook(ctx context.Context, cookID types.ID) ([]*Dish, error)
	ListHubInventory(ctx context.Context, hubID types.ID) ([]*Dish, error)
	ListLighthouseInventory(ctx context.Context) ([]*Dish, error)
}

// Directory validates facility references attached during transitions.
type Directory interface {
	HubExists(ctx context.Context, id types.ID) (bool, error)
	LighthouseExists(ctx context.Context, id types.ID) (bool, error)
}

// Notifier observes terminal transitions. The engine invokes it whenever a
// transition lands on distributed, so "every distribution notifies the cook"
// holds for every caller, not just the lighthouse scan handler.
type Notifier interface {
	DishDistributed(ctx context.Context, d *Dish) error
}

// LabelWriter persists the rendered QR label and returns a reference to it.
type LabelWriter interface {
	WriteLabel(ctx context.Context, dishID types.ID, payload string) (string, error)
}

// Geocoder resolves a pickup address when no coordinates were supplied.
// Lookup is fail-soft: nil means unknown, dish creation proceeds without
// coordinates.
type Geocoder interface {
	Lookup(ctx context.Context, address string) *types.Point
}

type Service struct {
	store     Store
	directory Directory
	notifier  Notifier
	labels    LabelWriter
	geocoder  Geocoder
}

func NewService(store Store, directory Directory, notifier Notifier, labels LabelWriter, geocoder Geocoder) *Service {
	return &Service{store: store, directory: directory, notifier: notifier, labels: labels, geocoder: geocoder}
}

type CreateCommand struct {
	CookID        types.ID
	Title         string
	Description   string
	Allergens     []string
	Portions      int
	PreparedAt    time.Time
	ExpiryDate    *time.Time
	PickupAddress string
	PickupCoords  *types.Point
}

// Create validates the request, mints the dish id and its immutable scan
// payload, and persists the dish in prepared status with no associations.
func (s *Service) Create(ctx context.Context, cmd CreateCommand) (*Dish, error) {
	if strings.TrimSpace(cmd.Title) == "" || cmd.Portions < 1 || cmd.CookID == "" {
		return nil, ErrInvalidInput
	}
	for _, tag := range cmd.Allergens {
		if !IsValidAllergen(tag) {
			return nil, ErrInvalidInput
		}
	}

	coords := cmd.PickupCoords
	if coords == nil && s.geocoder != nil {
		coords = s.geocoder.Lookup(ctx, cmd.PickupAddress)
	}

	id := types.ID(uuid.NewString())
	payload := qrcode.EncodePayload(id)

	d := &Dish{
		ID:            id,
		CookID:        cmd.CookID,
		Title:         cmd.Title,
		Description:   cmd.Description,
		Allergens:     cmd.Allergens,
		Portions:      cmd.Portions,
		PreparedAt:    cmd.PreparedAt,
		ExpiryDate:    cmd.ExpiryDate,
		Status:        StatusPrepared,
		PickupAddress: cmd.PickupAddress,
		PickupCoords:  coords,
		QRPayload:     payload,
	}

	// Label rendering is an enhancement: the payload alone supports manual
	// code entry, so a failed render does not block creation.
	if s.labels != nil {
		if path, err := s.labels.WriteLabel(ctx, id, payload); err == nil {
			d.QRPath = path
		}
	}

	if err := s.store.Create(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

type TransitionCommand struct {
	// PayloadOrCode is either a decoded scan payload or a manually typed
	// code; both are validated by the same format check.
	PayloadOrCode string
	Target        Status
	TripID        *types.ID
	HubID         *types.ID
	LighthouseID  *types.ID
}

// ApplyTransition resolves the payload to a dish and applies the target
// status, coalesce-merging the supplied association ids. The status itself
// is applied permissively; re-intake scans at a hub are legitimate and the
// forward order is not enforced here.
func (s *Service) ApplyTransition(ctx context.Context, cmd TransitionCommand) (*Dish, error) {
	if !cmd.Target.IsValid() {
		return nil, ErrInvalidInput
	}

	id, err := qrcode.DecodePayload(cmd.PayloadOrCode)
	if err != nil {
		return nil, ErrUnresolvedScan
	}
	if _, err := s.store.Get(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrUnresolvedScan
		}
		return nil, err
	}

	if err := s.validateFacilities(ctx, cmd.HubID, cmd.LighthouseID); err != nil {
		return nil, err
	}

	updated, err := s.store.UpdateStatus(ctx, id, cmd.Target, cmd.TripID, cmd.HubID, cmd.LighthouseID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrUnresolvedScan
		}
		return nil, err
	}

	if updated.Status == StatusDistributed && s.notifier != nil {
		_ = s.notifier.DishDistributed(ctx, updated)
	}
	return updated, nil
}

// Assign moves a dish already at a hub onto a lighthouse, by dish id. Hub
// operators pick dishes from their inventory list rather than re-scanning
// each container.
func (s *Service) Assign(ctx context.Context, dishID, hubID, lighthouseID types.ID) (*Dish, error) {
	if err := s.validateFacilities(ctx, &hubID, &lighthouseID); err != nil {
		return nil, err
	}
	return s.store.UpdateStatus(ctx, dishID, StatusAssignedToLighthouse, nil, &hubID, &lighthouseID)
}

func (s *Service) Get(ctx context.Context, id types.ID) (*Dish, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) ListByStatus(ctx context.Context, status Status) ([]*Dish, error) {
	if !status.IsValid() {
		return nil, ErrInvalidInput
	}
	return s.store.ListByStatus(ctx, status)
}

func (s *Service) ListByCook(ctx context.Context, cookID types.ID) ([]*Dish, error) {
	return s.store.ListByCook(ctx, cookID)
}

// HubInventory lists dishes sitting at or assigned out of the given hub.
func (s *Service) HubInventory(ctx context.Context, hubID types.ID) ([]*Dish, error) {
	return s.store.ListHubInventory(ctx, hubID)
}

// LighthouseInventory lists dishes assigned to or arrived at lighthouses.
func (s *Service) LighthouseInventory(ctx context.Context) ([]*Dish, error) {
	return s.store.ListLighthouseInventory(ctx)
}

func (s *Service) validateFacilities(ctx context.Context, hubID, lighthouseID *types.ID) error {
	if s.directory == nil {
		return nil
	}
	if hubID != nil {
		ok, err := s.directory.HubExists(ctx, *hubID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrInvalidInput
		}
	}
	if lighthouseID != nil {
		ok, err := s.directory.LighthouseExists(ctx, *lighthouseID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrInvalidInput
		}
	}
	return nil
}
