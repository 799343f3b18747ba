package wire

import (
	"station-dispatch/internal/adaptor"
	"station-dispatch/internal/data/repository"
	"station-dispatch/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireBooking(
	r chi.Router,
	bookingHandler *adaptor.BookingHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	// ==================== PROTECTED ROUTES (require auth) ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.StaffSession(repo.StaffSession, repo.Staff, log))

		// POST /api/bookings/destination - Book seats against a destination
		r.Post("/api/bookings/destination", bookingHandler.BookByDestination)

		// POST /api/bookings/vehicle - Book seats on one explicit vehicle
		r.Post("/api/bookings/vehicle", bookingHandler.BookByVehicle)

		// DELETE /api/bookings/{id} - Cancel a whole booking
		r.Delete("/api/bookings/{id}", bookingHandler.Cancel)

		// POST /api/bookings/cancel-last - Drop one seat from the latest booking
		r.Post("/api/bookings/cancel-last", bookingHandler.CancelLast)

		// GET /api/bookings/code/{code} - Counter lookup by verification code
		r.Get("/api/bookings/code/{code}", bookingHandler.FindByCode)
	})
}
