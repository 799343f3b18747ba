package entity

import (
	"time"

	"github.com/google/uuid"
)

// Route is the destinations reference table. DestinationID is the short
// route code other tooling keys on ("BJM", "MTP", ...).
type Route struct {
	DestinationID string    `db:"destination_id"`
	Name          string    `db:"name"`
	BasePrice     float64   `db:"base_price"`
	CreatedAt     time.Time `db:"created_at"`
}

// DestinationGrant is the allow-list join: a vehicle may only enter queues
// for destinations it holds a grant for. Name is the fallback display name
// when the destination has no routes row.
type DestinationGrant struct {
	ID            uuid.UUID `db:"id"`
	VehicleID     uuid.UUID `db:"vehicle_id"`
	DestinationID string    `db:"destination_id"`
	Name          string    `db:"name"`
	CreatedAt     time.Time `db:"created_at"`
}
