package adaptor

import (
	"net/http"

	"station-dispatch/internal/domain"
	"station-dispatch/internal/usecase"
	"station-dispatch/pkg/utils"

	"go.uber.org/zap"
)

type Handler struct {
	Auth     *AuthHandler
	Vehicle  *VehicleHandler
	Queue    *QueueHandler
	Booking  *BookingHandler
	Recovery *RecoveryHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Auth:     NewAuthHandler(service.Auth, log),
		Vehicle:  NewVehicleHandler(service.Vehicle, log),
		Queue:    NewQueueHandler(service.Admission, log),
		Booking:  NewBookingHandler(service.Allocation, log),
		Recovery: NewRecoveryHandler(service.Recovery, log),
	}
}

// handleServiceError maps the error taxonomy onto HTTP statuses. Messages
// pass through verbatim; the kind decides the code.
func handleServiceError(log *zap.Logger, w http.ResponseWriter, err error, operation string) {
	kind := domain.KindOf(err)
	switch kind {
	case domain.KindNotFound:
		log.Warn(operation+" failed - not found", zap.Error(err))
		utils.ResponseNotFound(w, err.Error())

	case domain.KindInvalidState:
		log.Warn(operation+" rejected", zap.Error(err))
		utils.ResponseBadRequest(w, err.Error(), nil)

	case domain.KindInsufficientCapacity:
		log.Warn(operation+" failed - insufficient capacity", zap.Error(err))
		utils.ResponseConflict(w, err.Error())

	case domain.KindAccessDenied:
		log.Warn(operation+" denied", zap.Error(err))
		utils.ResponseForbidden(w, err.Error())

	default:
		log.Error(operation+" failed", zap.Error(err))
		utils.ResponseInternalError(w, err.Error())
	}
}
