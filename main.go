// main.go
package main

import (
	"log"

	"station-dispatch/cmd"
	"station-dispatch/internal/data/repository"
	"station-dispatch/internal/dispatch"
	"station-dispatch/internal/wire"
	"station-dispatch/pkg/cache"
	"station-dispatch/pkg/database"
	"station-dispatch/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
	)

	// Connect to database
	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	// Initialize all repositories
	repos := repository.NewRepository(db, logger)

	// Redis-backed summary cache; runs disabled when redis is unreachable
	store := cache.New(config.Redis, logger)
	defer store.Close()

	// Side-effect worker: ticket printing and day-pass decisions
	printer, err := dispatch.NewSpoolPrinter(config.Dispatch.SpoolDir)
	if err != nil {
		logger.Fatal("Failed to create print spool", zap.Error(err))
	}
	loc := utils.LoadStationLocation(config.Station.Timezone)
	dispatcher := dispatch.NewDispatcher(
		config.Dispatch.QueueSize,
		printer,
		repos.DayPass,
		config.Pricing.DayPassFee,
		loc,
		logger,
	)
	dispatcher.Start()
	defer dispatcher.Stop()

	// Wire all dependencies
	app := wire.Wiring(db, repos, config, dispatcher, store, logger)

	// Start server
	logger.Info("Starting HTTP server", zap.String("port", config.App.Port))

	cmd.APIServer(app.Router, config.App.Port)
}
