package response

import (
	"time"

	"station-dispatch/internal/data/entity"
)

type QueueEntryResponse struct {
	ID              string             `json:"id"`
	VehicleID       string             `json:"vehicle_id"`
	LicensePlate    string             `json:"license_plate,omitempty"`
	DestinationID   string             `json:"destination_id"`
	DestinationName string             `json:"destination_name"`
	Position        int                `json:"position"`
	Status          entity.QueueStatus `json:"status"`
	AvailableSeats  int                `json:"available_seats"`
	TotalSeats      int                `json:"total_seats"`
	BasePrice       float64            `json:"base_price"`
	EnteredAt       time.Time          `json:"entered_at"`
}

type QueueSummaryResponse struct {
	DestinationID   string               `json:"destination_id"`
	DestinationName string               `json:"destination_name"`
	TotalAvailable  int                  `json:"total_available"`
	Entries         []QueueEntryResponse `json:"entries"`
}

type TransferResponse struct {
	SourceEntryID string `json:"source_entry_id"`
	TargetEntryID string `json:"target_entry_id,omitempty"`
	SeatsMoved    int    `json:"seats_moved"`
}

type EmergencyRemoveResponse struct {
	VehicleID         string  `json:"vehicle_id"`
	CancelledBookings int     `json:"cancelled_bookings"`
	RefundTotal       float64 `json:"refund_total"`
}

// Helper converters
func QueueEntryToResponse(e *entity.QueueEntry) QueueEntryResponse {
	return QueueEntryResponse{
		ID:              e.ID.String(),
		VehicleID:       e.VehicleID.String(),
		DestinationID:   e.DestinationID,
		DestinationName: e.DestinationName,
		Position:        e.Position,
		Status:          e.Status,
		AvailableSeats:  e.AvailableSeats,
		TotalSeats:      e.TotalSeats,
		BasePrice:       e.BasePrice,
		EnteredAt:       e.EnteredAt,
	}
}

func QueueSummaryToResponse(destinationID string, entries []*entity.QueueEntry) *QueueSummaryResponse {
	summary := &QueueSummaryResponse{
		DestinationID: destinationID,
		Entries:       make([]QueueEntryResponse, 0, len(entries)),
	}
	for _, e := range entries {
		summary.TotalAvailable += e.AvailableSeats
		summary.Entries = append(summary.Entries, QueueEntryToResponse(e))
	}
	if len(entries) > 0 {
		summary.DestinationName = entries[0].DestinationName
	}
	return summary
}
