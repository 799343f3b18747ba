package request

type BookByDestinationRequest struct {
	DestinationID string `json:"destination_id" validate:"required,min=2,max=10"`
	Seats         int    `json:"seats" validate:"required,gt=0"`
	PaymentMethod string `json:"payment_method,omitempty" validate:"omitempty,oneof=CASH QRIS TRANSFER"`
}

type BookByVehicleRequest struct {
	QueueEntryID  string `json:"queue_entry_id" validate:"required,uuid4"`
	Seats         int    `json:"seats" validate:"required,gt=0"`
	PaymentMethod string `json:"payment_method,omitempty" validate:"omitempty,oneof=CASH QRIS TRANSFER"`
}

// CancelLastRequest drops the most recent live booking's last seat at a
// destination. OwnOnly restricts the lookup to bookings created by the
// calling staff before falling back to any staff.
type CancelLastRequest struct {
	DestinationID string `json:"destination_id" validate:"required,min=2,max=10"`
	OwnOnly       bool   `json:"own_only,omitempty"`
}
