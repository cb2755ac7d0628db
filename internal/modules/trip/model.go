// README: Trip domain model. A trip groups the pickups a driver makes in one
// outing; dishes reference it through their trip association.
package trip

import (
	"time"

	"justonemore/internal/types"
)

type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
)

type Trip struct {
	ID        types.ID
	DriverID  types.ID
	Status    Status
	StartedAt time.Time
	EndedAt   *time.Time
}
