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

type VehicleHandler struct {
	service usecase.VehicleService
	log     *zap.Logger
}

func NewVehicleHandler(service usecase.VehicleService, log *zap.Logger) *VehicleHandler {
	return &VehicleHandler{
		service: service,
		log:     log.With(zap.String("handler", "vehicle")),
	}
}

// Register handles POST /api/vehicles (protected)
func (h *VehicleHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req request.CreateVehicleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	vehicle, err := h.service.Register(r.Context(), &req)
	if err != nil {
		handleServiceError(h.log, w, err, "register vehicle")
		return
	}

	utils.ResponseCreated(w, "success", vehicle)
}

// Get handles GET /api/vehicles/{id} (protected)
func (h *VehicleHandler) Get(w http.ResponseWriter, r *http.Request) {
	vehicle, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(h.log, w, err, "get vehicle")
		return
	}

	utils.ResponseSuccess(w, "success", vehicle)
}

// List handles GET /api/vehicles (protected)
func (h *VehicleHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	limit := utils.ParseInt(query.Get("limit"), 20)
	offset := 0
	if page := utils.ParseInt(query.Get("page"), 1); page > 1 {
		offset = (page - 1) * limit
	}

	vehicles, err := h.service.List(r.Context(), limit, offset)
	if err != nil {
		handleServiceError(h.log, w, err, "list vehicles")
		return
	}

	utils.ResponseSuccess(w, "success", vehicles)
}

// SetBan handles PUT /api/vehicles/{id}/ban (protected)
func (h *VehicleHandler) SetBan(w http.ResponseWriter, r *http.Request) {
	var req request.SetVehicleBanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if err := h.service.SetBanned(r.Context(), chi.URLParam(r, "id"), req.Banned); err != nil {
		handleServiceError(h.log, w, err, "ban vehicle")
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}

// SetActive handles PUT /api/vehicles/{id}/active (protected)
func (h *VehicleHandler) SetActive(w http.ResponseWriter, r *http.Request) {
	var req request.SetVehicleActiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if err := h.service.SetActive(r.Context(), chi.URLParam(r, "id"), req.Active); err != nil {
		handleServiceError(h.log, w, err, "activate vehicle")
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}

// Grant handles POST /api/vehicles/{id}/grants (protected)
func (h *VehicleHandler) Grant(w http.ResponseWriter, r *http.Request) {
	var req request.GrantDestinationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	grant, err := h.service.Grant(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(h.log, w, err, "grant destination")
		return
	}

	utils.ResponseCreated(w, "success", grant)
}

// Revoke handles DELETE /api/vehicles/{id}/grants/{destinationId} (protected)
func (h *VehicleHandler) Revoke(w http.ResponseWriter, r *http.Request) {
	err := h.service.Revoke(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "destinationId"))
	if err != nil {
		handleServiceError(h.log, w, err, "revoke destination")
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}

// ListGrants handles GET /api/vehicles/{id}/grants (protected)
func (h *VehicleHandler) ListGrants(w http.ResponseWriter, r *http.Request) {
	grants, err := h.service.ListGrants(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(h.log, w, err, "list grants")
		return
	}

	utils.ResponseSuccess(w, "success", grants)
}
