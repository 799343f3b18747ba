package entity

import (
	"time"

	"github.com/google/uuid"
)

type QueueStatus string

const (
	QueueStatusWaiting QueueStatus = "WAITING"
	QueueStatusLoading QueueStatus = "LOADING"
	QueueStatusReady   QueueStatus = "READY"
)

// QueueEntry is a vehicle's single live slot in a destination queue.
// Position is dense 1..N per destination; position 1 loads and departs
// first. available_seats is only mutated by the allocator, cancellation and
// transfer paths, always inside a locked transaction.
type QueueEntry struct {
	ID              uuid.UUID   `db:"id"`
	VehicleID       uuid.UUID   `db:"vehicle_id"`
	DestinationID   string      `db:"destination_id"`
	DestinationName string      `db:"destination_name"`
	Position        int         `db:"position"`
	Status          QueueStatus `db:"status"`
	AvailableSeats  int         `db:"available_seats"`
	TotalSeats      int         `db:"total_seats"`
	BasePrice       float64     `db:"base_price"`
	EnteredAt       time.Time   `db:"entered_at"`
}

// StatusForSeats derives the lifecycle status from seat counts. Status is
// recomputed after every seat mutation, so cancellation reverts READY.
func StatusForSeats(available, total int) QueueStatus {
	switch {
	case available == total:
		return QueueStatusWaiting
	case available == 0:
		return QueueStatusReady
	default:
		return QueueStatusLoading
	}
}

// BookedSeats is the number of seats live bookings must account for.
func (q *QueueEntry) BookedSeats() int {
	return q.TotalSeats - q.AvailableSeats
}
