package entity

import (
	"time"

	"github.com/google/uuid"
)

// DayPass is the once-per-vehicle-per-day entry fee record. PassDate is the
// station-local calendar day; (vehicle_id, pass_date) is unique so
// concurrent entry decisions collapse into one atomic insert attempt.
type DayPass struct {
	ID        uuid.UUID `db:"id"`
	VehicleID uuid.UUID `db:"vehicle_id"`
	PassDate  time.Time `db:"pass_date"`
	Fee       float64   `db:"fee"`
	IsActive  bool      `db:"is_active"`
	CreatedAt time.Time `db:"created_at"`
}
