package wire

import (
	"net/http"

	"station-dispatch/internal/adaptor"
	"station-dispatch/internal/data/repository"
	"station-dispatch/internal/usecase"
	"station-dispatch/pkg/cache"
	"station-dispatch/pkg/database"
	"station-dispatch/pkg/middleware"
	"station-dispatch/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// App menyimpan semua dependencies
type App struct {
	Router *chi.Mux
}

// Wiring menginisialisasi semua dependencies
func Wiring(
	db database.PgxIface,
	repo *repository.Repository,
	config *utils.Config,
	tasks usecase.TaskScheduler,
	store *cache.Cache,
	logger *zap.Logger,
) *App {
	service := usecase.NewService(db, repo, config, tasks, store, logger)
	handler := adaptor.NewHandler(service, logger)

	router := setupRouter(handler, repo, logger)

	return &App{
		Router: router,
	}
}

// setupRouter konfigurasi Chi router
func setupRouter(
	handler *adaptor.Handler,
	repo *repository.Repository,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Apply global middleware
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))

	// Apply routes
	wireAuth(r, handler.Auth, repo, logger)
	wireVehicle(r, handler.Vehicle, repo, logger)
	wireQueue(r, handler.Queue, handler.Recovery, repo, logger)
	wireBooking(r, handler.Booking, repo, logger)

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Prometheus scrape endpoint
	r.Handle("/metrics", promhttp.Handler())

	return r
}
