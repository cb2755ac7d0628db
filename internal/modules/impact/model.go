// README: Impact accounting. Badges and points reward contribution volume;
// notifications tell cooks when their dish reached a recipient.
package impact

import (
	"time"

	"justonemore/internal/types"
)

const (
	NotificationTypeInfo        = "info"
	NotificationTypeWarning     = "warning"
	NotificationTypeDistributed = "distributed"
)

type Notification struct {
	ID        types.ID
	UserID    types.ID
	DishID    *types.ID
	Type      string
	Message   string
	CreatedAt time.Time
	Read      bool
}

// Summary is a user's contribution tally.
type Summary struct {
	Cooked      int
	PickedUp    int
	Distributed int
	Points      int
	Badges      []string
}

// PlatformStats aggregates activity across all users.
type PlatformStats struct {
	Users            int
	Dishes           int
	Portions         int
	DistributedCount int
	ActiveTrips      int
	ByStatus         map[string]int
}
