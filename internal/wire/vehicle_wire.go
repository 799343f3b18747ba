package wire

import (
	"station-dispatch/internal/adaptor"
	"station-dispatch/internal/data/repository"
	"station-dispatch/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireVehicle(
	r chi.Router,
	vehicleHandler *adaptor.VehicleHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	// ==================== PROTECTED ROUTES (require auth) ====================
	r.Route("/api/vehicles", func(r chi.Router) {
		r.Use(middleware.StaffSession(repo.StaffSession, repo.Staff, log))

		// POST /api/vehicles - Register a vehicle
		r.Post("/", vehicleHandler.Register)

		// GET /api/vehicles - List vehicles
		r.Get("/", vehicleHandler.List)

		// GET /api/vehicles/{id} - Vehicle detail
		r.Get("/{id}", vehicleHandler.Get)

		// PUT /api/vehicles/{id}/ban - Set or clear the ban flag
		r.Put("/{id}/ban", vehicleHandler.SetBan)

		// PUT /api/vehicles/{id}/active - Set or clear the active flag
		r.Put("/{id}/active", vehicleHandler.SetActive)

		// POST /api/vehicles/{id}/grants - Authorize a destination
		r.Post("/{id}/grants", vehicleHandler.Grant)

		// GET /api/vehicles/{id}/grants - List authorized destinations
		r.Get("/{id}/grants", vehicleHandler.ListGrants)

		// DELETE /api/vehicles/{id}/grants/{destinationId} - Revoke
		r.Delete("/{id}/grants/{destinationId}", vehicleHandler.Revoke)
	})
}
