// README: Impact service. Computes badges and points from dish counts and
// records distribution notifications for cooks.
package impact

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"justonemore/internal/modules/dish"
	"justonemore/internal/types"
)

// Badge thresholds. Counting is cumulative, so every badge once earned
// stays earned.
const (
	badgeFirstCook   = "First Cook"
	badgeHomeChef    = "Home Chef 10"
	badgeFirstPickup = "First Pickup"
	badgeRoadHero    = "Road Hero 20"
	badgeImpactMaker = "Impact Maker"
)

// Per-action point weights.
const (
	pointsPerCooked      = 10
	pointsPerPickedUp    = 5
	pointsPerDistributed = 8
)

// StatsSource supplies the dish counts behind badges, points, and platform
// reporting.
type StatsSource interface {
	CountCookedBy(ctx context.Context, userID types.ID) (int, error)
	CountPickedUpBy(ctx context.Context, userID types.ID) (int, error)
	CountDistributedBy(ctx context.Context, userID types.ID) (int, error)
	CountByStatus(ctx context.Context) (map[dish.Status]int, error)
	TotalPortions(ctx context.Context) (int, error)
}

// UserCounter reports how many users are registered.
type UserCounter interface {
	CountUsers(ctx context.Context) (int, error)
}

// TripCounter reports how many delivery trips are currently underway.
type TripCounter interface {
	CountActive(ctx context.Context) (int, error)
}

type NotificationStore interface {
	Create(ctx context.Context, n *Notification) error
	ListRecent(ctx context.Context, userID types.ID, limit int) ([]*Notification, error)
	MarkRead(ctx context.Context, id types.ID) error
}

type Service struct {
	stats         StatsSource
	users         UserCounter
	trips         TripCounter
	notifications NotificationStore
}

func NewService(stats StatsSource, users UserCounter, trips TripCounter, notifications NotificationStore) *Service {
	return &Service{stats: stats, users: users, trips: trips, notifications: notifications}
}

// Badges lists the badges earned by the given counts, in award order.
func Badges(cooked, pickedUp, distributed int) []string {
	var out []string
	if cooked >= 1 {
		out = append(out, badgeFirstCook)
	}
	if cooked >= 10 {
		out = append(out, badgeHomeChef)
	}
	if pickedUp >= 1 {
		out = append(out, badgeFirstPickup)
	}
	if pickedUp >= 20 {
		out = append(out, badgeRoadHero)
	}
	if distributed >= 1 {
		out = append(out, badgeImpactMaker)
	}
	return out
}

// Points scores a user's contributions.
func Points(cooked, pickedUp, distributed int) int {
	return cooked*pointsPerCooked + pickedUp*pointsPerPickedUp + distributed*pointsPerDistributed
}

// Summary tallies a user's contributions with their badges and points.
func (s *Service) Summary(ctx context.Context, userID types.ID) (*Summary, error) {
	cooked, err := s.stats.CountCookedBy(ctx, userID)
	if err != nil {
		return nil, err
	}
	pickedUp, err := s.stats.CountPickedUpBy(ctx, userID)
	if err != nil {
		return nil, err
	}
	distributed, err := s.stats.CountDistributedBy(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &Summary{
		Cooked:      cooked,
		PickedUp:    pickedUp,
		Distributed: distributed,
		Points:      Points(cooked, pickedUp, distributed),
		Badges:      Badges(cooked, pickedUp, distributed),
	}, nil
}

// PlatformStats aggregates platform-wide activity.
func (s *Service) PlatformStats(ctx context.Context) (*PlatformStats, error) {
	users := 0
	if s.users != nil {
		n, err := s.users.CountUsers(ctx)
		if err != nil {
			return nil, err
		}
		users = n
	}
	byStatus, err := s.stats.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	portions, err := s.stats.TotalPortions(ctx)
	if err != nil {
		return nil, err
	}
	activeTrips := 0
	if s.trips != nil {
		n, err := s.trips.CountActive(ctx)
		if err != nil {
			return nil, err
		}
		activeTrips = n
	}
	total := 0
	breakdown := make(map[string]int, len(byStatus))
	for status, n := range byStatus {
		total += n
		breakdown[string(status)] = n
	}
	return &PlatformStats{
		Users:            users,
		Dishes:           total,
		Portions:         portions,
		DistributedCount: byStatus[dish.StatusDistributed],
		ActiveTrips:      activeTrips,
		ByStatus:         breakdown,
	}, nil
}

// DishDistributed records a thank-you notification for the cook. Satisfies
// the dish lifecycle's notifier hook.
func (s *Service) DishDistributed(ctx context.Context, d *dish.Dish) error {
	if s.notifications == nil {
		return nil
	}
	dishID := d.ID
	return s.notifications.Create(ctx, &Notification{
		ID:        types.ID(uuid.NewString()),
		UserID:    d.CookID,
		DishID:    &dishID,
		Type:      NotificationTypeDistributed,
		Message:   fmt.Sprintf("Your dish '%s' has been distributed. Thank you for your contribution!", d.Title),
		CreatedAt: time.Now().UTC(),
	})
}

// Notifications returns the user's most recent notifications, newest first.
func (s *Service) Notifications(ctx context.Context, userID types.ID, limit int) ([]*Notification, error) {
	if limit < 1 {
		limit = 10
	}
	return s.notifications.ListRecent(ctx, userID, limit)
}

func (s *Service) MarkNotificationRead(ctx context.Context, id types.ID) error {
	return s.notifications.MarkRead(ctx, id)
}
