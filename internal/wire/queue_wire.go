package wire

import (
	"station-dispatch/internal/adaptor"
	"station-dispatch/internal/data/repository"
	"station-dispatch/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireQueue(
	r chi.Router,
	queueHandler *adaptor.QueueHandler,
	recoveryHandler *adaptor.RecoveryHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	// ==================== PROTECTED ROUTES (require auth) ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.StaffSession(repo.StaffSession, repo.Staff, log))

		// POST /api/queue/enter - Admit or re-target a vehicle
		r.Post("/api/queue/enter", queueHandler.Enter)

		// DELETE /api/queue/vehicle/{vehicleId} - Remove a vehicle's entry
		r.Delete("/api/queue/vehicle/{vehicleId}", queueHandler.Remove)

		// PUT /api/queue/{destinationId}/reorder - Rewrite queue positions
		r.Put("/api/queue/{destinationId}/reorder", queueHandler.Reorder)

		// PUT /api/queue/entry/{id}/front - Move an entry to position 1
		r.Put("/api/queue/entry/{id}/front", queueHandler.MoveToFront)

		// GET /api/queue/{destinationId} - Ordered queue summary
		r.Get("/api/queue/{destinationId}", queueHandler.Queue)

		// POST /api/queue/transfer-remove - Move passengers, drop the vehicle
		r.Post("/api/queue/transfer-remove", recoveryHandler.TransferRemove)

		// POST /api/queue/emergency-remove - Drop the vehicle, refund bookings
		r.Post("/api/queue/emergency-remove", recoveryHandler.EmergencyRemove)

		// POST /api/queue/entry/{id}/end-trip - Dispatch a partially full vehicle
		r.Post("/api/queue/entry/{id}/end-trip", recoveryHandler.EndTrip)
	})
}
