package response

import (
	"time"

	"station-dispatch/internal/data/entity"
)

type VehicleResponse struct {
	ID                   string    `json:"id"`
	LicensePlate         string    `json:"license_plate"`
	Capacity             int       `json:"capacity"`
	IsActive             bool      `json:"is_active"`
	IsBanned             bool      `json:"is_banned"`
	DefaultDestinationID *string   `json:"default_destination_id,omitempty"`
	CreatedAt            time.Time `json:"created_at"`
}

type GrantResponse struct {
	VehicleID     string `json:"vehicle_id"`
	DestinationID string `json:"destination_id"`
	Name          string `json:"name,omitempty"`
}

// Helper converters
func VehicleToResponse(v *entity.Vehicle) VehicleResponse {
	return VehicleResponse{
		ID:                   v.ID.String(),
		LicensePlate:         v.LicensePlate,
		Capacity:             v.Capacity,
		IsActive:             v.IsActive,
		IsBanned:             v.IsBanned,
		DefaultDestinationID: v.DefaultDestinationID,
		CreatedAt:            v.CreatedAt,
	}
}

func GrantToResponse(g *entity.DestinationGrant) GrantResponse {
	return GrantResponse{
		VehicleID:     g.VehicleID.String(),
		DestinationID: g.DestinationID,
		Name:          g.Name,
	}
}
