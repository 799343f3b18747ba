package response

import (
	"time"

	"station-dispatch/internal/data/entity"
)

type BookingResponse struct {
	ID               string               `json:"id"`
	QueueEntryID     string               `json:"queue_entry_id"`
	DestinationID    string               `json:"destination_id"`
	SeatsBooked      int                  `json:"seats_booked"`
	TotalAmount      float64              `json:"total_amount"`
	VerificationCode string               `json:"verification_code"`
	PaymentStatus    entity.PaymentStatus `json:"payment_status"`
	PaymentMethod    string               `json:"payment_method"`
	CreatedBy        string               `json:"created_by"`
	CreatedAt        time.Time            `json:"created_at"`
}

type ExitPassResponse struct {
	ID               string     `json:"id"`
	QueueEntryID     string     `json:"queue_entry_id"`
	LicensePlate     string     `json:"license_plate"`
	DestinationID    string     `json:"destination_id"`
	DestinationName  string     `json:"destination_name"`
	SeatsUsed        int        `json:"seats_used"`
	IssuedAt         time.Time  `json:"issued_at"`
	PrevLicensePlate *string    `json:"prev_license_plate,omitempty"`
	PrevIssuedAt     *time.Time `json:"prev_issued_at,omitempty"`
}

// AllocationResponse is the result of one booking call: one BookingResponse
// per vehicle touched, plus exit passes for vehicles that filled up.
type AllocationResponse struct {
	SeatsBooked int                  `json:"seats_booked"`
	TotalAmount float64              `json:"total_amount"`
	Bookings    []BookingResponse    `json:"bookings"`
	ExitPasses  []ExitPassResponse   `json:"exit_passes,omitempty"`
	Entries     []QueueEntryResponse `json:"entries"`
}

// Helper converters
func BookingToResponse(b *entity.Booking) BookingResponse {
	return BookingResponse{
		ID:               b.ID.String(),
		QueueEntryID:     b.QueueEntryID.String(),
		DestinationID:    b.DestinationID,
		SeatsBooked:      b.SeatsBooked,
		TotalAmount:      b.TotalAmount,
		VerificationCode: b.VerificationCode,
		PaymentStatus:    b.PaymentStatus,
		PaymentMethod:    b.PaymentMethod,
		CreatedBy:        b.CreatedBy.String(),
		CreatedAt:        b.CreatedAt,
	}
}

func ExitPassToResponse(p *entity.ExitPass) ExitPassResponse {
	return ExitPassResponse{
		ID:               p.ID.String(),
		QueueEntryID:     p.QueueEntryID.String(),
		LicensePlate:     p.LicensePlate,
		DestinationID:    p.DestinationID,
		DestinationName:  p.DestinationName,
		SeatsUsed:        p.SeatsUsed,
		IssuedAt:         p.IssuedAt,
		PrevLicensePlate: p.PrevLicensePlate,
		PrevIssuedAt:     p.PrevIssuedAt,
	}
}
