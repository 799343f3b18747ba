package entity

import (
	"github.com/google/uuid"
)

type PaymentStatus string

const (
	PaymentStatusPaid      PaymentStatus = "PAID"
	PaymentStatusCancelled PaymentStatus = "CANCELLED"
)

// Booking reserves seats against one queue entry. DestinationID is
// denormalized so staff can still find a booking after its vehicle was
// removed from the queue.
type Booking struct {
	BaseSimple
	QueueEntryID     uuid.UUID     `db:"queue_entry_id"`
	DestinationID    string        `db:"destination_id"`
	SeatsBooked      int           `db:"seats_booked"`
	TotalAmount      float64       `db:"total_amount"`
	VerificationCode string        `db:"verification_code"`
	PaymentStatus    PaymentStatus `db:"payment_status"`
	PaymentMethod    string        `db:"payment_method"`
	CreatedBy        uuid.UUID     `db:"created_by"`
}
