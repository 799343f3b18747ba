package request

type CreateVehicleRequest struct {
	LicensePlate         string  `json:"license_plate" validate:"required,min=3,max=15"`
	Capacity             int     `json:"capacity" validate:"required,gt=0,max=60"`
	DefaultDestinationID *string `json:"default_destination_id,omitempty" validate:"omitempty,min=2,max=10"`
}

type SetVehicleBanRequest struct {
	Banned bool `json:"banned"`
}

type SetVehicleActiveRequest struct {
	Active bool `json:"active"`
}

type GrantDestinationRequest struct {
	DestinationID string `json:"destination_id" validate:"required,min=2,max=10"`
	Name          string `json:"name,omitempty" validate:"omitempty,max=100"`
}
