package adaptor

import (
	"encoding/json"
	"net/http"

	"station-dispatch/internal/dto/request"
	"station-dispatch/internal/usecase"
	"station-dispatch/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type RecoveryHandler struct {
	service usecase.RecoveryService
	log     *zap.Logger
}

func NewRecoveryHandler(service usecase.RecoveryService, log *zap.Logger) *RecoveryHandler {
	return &RecoveryHandler{
		service: service,
		log:     log.With(zap.String("handler", "recovery")),
	}
}

// TransferRemove handles POST /api/queue/transfer-remove (protected)
func (h *RecoveryHandler) TransferRemove(w http.ResponseWriter, r *http.Request) {
	var req request.TransferRemoveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.service.TransferAndRemove(r.Context(), &req)
	if err != nil {
		handleServiceError(h.log, w, err, "transfer and remove")
		return
	}

	utils.ResponseSuccess(w, "success", result)
}

// EmergencyRemove handles POST /api/queue/emergency-remove (protected)
func (h *RecoveryHandler) EmergencyRemove(w http.ResponseWriter, r *http.Request) {
	var req struct {
		VehicleID string `json:"vehicle_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.service.EmergencyRemove(r.Context(), req.VehicleID)
	if err != nil {
		handleServiceError(h.log, w, err, "emergency remove")
		return
	}

	utils.ResponseSuccess(w, "success", result)
}

// EndTrip handles POST /api/queue/entry/{id}/end-trip (protected)
func (h *RecoveryHandler) EndTrip(w http.ResponseWriter, r *http.Request) {
	staffID, ok := utils.GetStaffIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	entryID := chi.URLParam(r, "id")
	pass, err := h.service.EndTripPartialCapacity(r.Context(), entryID, staffID)
	if err != nil {
		handleServiceError(h.log, w, err, "end trip")
		return
	}

	utils.ResponseSuccess(w, "success", pass)
}
