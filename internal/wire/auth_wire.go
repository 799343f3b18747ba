package wire

import (
	"station-dispatch/internal/adaptor"
	"station-dispatch/internal/data/repository"
	"station-dispatch/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireAuth(
	r chi.Router,
	authHandler *adaptor.AuthHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	// POST /api/login - Staff login
	r.Post("/api/login", authHandler.Login)

	// ==================== PROTECTED ROUTES (require auth) ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.StaffSession(repo.StaffSession, repo.Staff, log))

		// POST /api/logout - Invalidate the current session
		r.Post("/api/logout", authHandler.Logout)
	})
}
