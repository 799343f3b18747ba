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

type BookingHandler struct {
	service usecase.AllocationService
	log     *zap.Logger
}

func NewBookingHandler(service usecase.AllocationService, log *zap.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log.With(zap.String("handler", "booking")),
	}
}

// BookByDestination handles POST /api/bookings/destination (protected)
func (h *BookingHandler) BookByDestination(w http.ResponseWriter, r *http.Request) {
	staffID, ok := utils.GetStaffIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.BookByDestinationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.service.BookByDestination(r.Context(), &req, staffID)
	if err != nil {
		handleServiceError(h.log, w, err, "book by destination")
		return
	}

	utils.ResponseCreated(w, "success", result)
}

// BookByVehicle handles POST /api/bookings/vehicle (protected)
func (h *BookingHandler) BookByVehicle(w http.ResponseWriter, r *http.Request) {
	staffID, ok := utils.GetStaffIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.BookByVehicleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.service.BookByVehicle(r.Context(), &req, staffID)
	if err != nil {
		handleServiceError(h.log, w, err, "book by vehicle")
		return
	}

	utils.ResponseCreated(w, "success", result)
}

// Cancel handles DELETE /api/bookings/{id} (protected)
func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	bookingID := chi.URLParam(r, "id")

	if err := h.service.Cancel(r.Context(), bookingID); err != nil {
		handleServiceError(h.log, w, err, "cancel booking")
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}

// CancelLast handles POST /api/bookings/cancel-last (protected)
func (h *BookingHandler) CancelLast(w http.ResponseWriter, r *http.Request) {
	staffID, ok := utils.GetStaffIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.CancelLastRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	booking, err := h.service.CancelLast(r.Context(), &req, staffID)
	if err != nil {
		handleServiceError(h.log, w, err, "cancel last booking")
		return
	}

	utils.ResponseSuccess(w, "success", booking)
}

// FindByCode handles GET /api/bookings/code/{code} (protected)
func (h *BookingHandler) FindByCode(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	booking, err := h.service.FindByVerificationCode(r.Context(), code)
	if err != nil {
		handleServiceError(h.log, w, err, "find booking by code")
		return
	}

	utils.ResponseSuccess(w, "success", booking)
}
