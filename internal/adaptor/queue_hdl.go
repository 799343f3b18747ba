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

type QueueHandler struct {
	service usecase.AdmissionService
	log     *zap.Logger
}

func NewQueueHandler(service usecase.AdmissionService, log *zap.Logger) *QueueHandler {
	return &QueueHandler{
		service: service,
		log:     log.With(zap.String("handler", "queue")),
	}
}

// Enter handles POST /api/queue/enter (protected)
func (h *QueueHandler) Enter(w http.ResponseWriter, r *http.Request) {
	staffID, ok := utils.GetStaffIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.EnterQueueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	entry, err := h.service.Enter(r.Context(), &req, staffID)
	if err != nil {
		handleServiceError(h.log, w, err, "enter queue")
		return
	}

	utils.ResponseCreated(w, "success", entry)
}

// Remove handles DELETE /api/queue/vehicle/{vehicleId} (protected)
func (h *QueueHandler) Remove(w http.ResponseWriter, r *http.Request) {
	vehicleID := chi.URLParam(r, "vehicleId")

	if err := h.service.Remove(r.Context(), vehicleID); err != nil {
		handleServiceError(h.log, w, err, "remove from queue")
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}

// Reorder handles PUT /api/queue/{destinationId}/reorder (protected)
func (h *QueueHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	destinationID := chi.URLParam(r, "destinationId")

	var req request.ReorderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if err := h.service.Reorder(r.Context(), destinationID, &req); err != nil {
		handleServiceError(h.log, w, err, "reorder queue")
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}

// MoveToFront handles PUT /api/queue/entry/{id}/front?destination_id= (protected)
func (h *QueueHandler) MoveToFront(w http.ResponseWriter, r *http.Request) {
	entryID := chi.URLParam(r, "id")
	destinationID := r.URL.Query().Get("destination_id")

	entry, err := h.service.MoveToFront(r.Context(), entryID, destinationID)
	if err != nil {
		handleServiceError(h.log, w, err, "move to front")
		return
	}

	utils.ResponseSuccess(w, "success", entry)
}

// Queue handles GET /api/queue/{destinationId}
func (h *QueueHandler) Queue(w http.ResponseWriter, r *http.Request) {
	destinationID := chi.URLParam(r, "destinationId")

	summary, err := h.service.Queue(r.Context(), destinationID)
	if err != nil {
		handleServiceError(h.log, w, err, "queue summary")
		return
	}

	utils.ResponseSuccess(w, "success", summary)
}
