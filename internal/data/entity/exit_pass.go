package entity

import (
	"time"

	"github.com/google/uuid"
)

// ExitPass authorizes a loaded vehicle to depart. Exactly one is created
// per queue entry dispatch, immutable once written. PrevLicensePlate and
// PrevIssuedAt carry the previous same-destination exit of the local day,
// printed as "next car" guidance for waiting passengers.
type ExitPass struct {
	ID               uuid.UUID  `db:"id"`
	QueueEntryID     uuid.UUID  `db:"queue_entry_id"`
	VehicleID        uuid.UUID  `db:"vehicle_id"`
	LicensePlate     string     `db:"license_plate"`
	DestinationID    string     `db:"destination_id"`
	DestinationName  string     `db:"destination_name"`
	SeatsUsed        int        `db:"seats_used"`
	IssuedBy         uuid.UUID  `db:"issued_by"`
	IssuedAt         time.Time  `db:"issued_at"`
	PrevLicensePlate *string    `db:"prev_license_plate"`
	PrevIssuedAt     *time.Time `db:"prev_issued_at"`
}
