package request

type EnterQueueRequest struct {
	VehicleID       string `json:"vehicle_id" validate:"required,uuid4"`
	DestinationID   string `json:"destination_id" validate:"required,min=2,max=10"`
	DestinationName string `json:"destination_name,omitempty" validate:"omitempty,max=100"`
}

type ReorderItem struct {
	QueueEntryID string `json:"queue_entry_id" validate:"required,uuid4"`
	Position     int    `json:"position" validate:"required,gt=0"`
}

type ReorderRequest struct {
	Items []ReorderItem `json:"items" validate:"required,min=1,dive"`
}

type TransferRemoveRequest struct {
	VehicleID     string `json:"vehicle_id" validate:"required,uuid4"`
	DestinationID string `json:"destination_id" validate:"required,min=2,max=10"`
}
