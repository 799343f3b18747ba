package repository

import (
	"station-dispatch/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	Vehicle      VehicleRepository
	Route        RouteRepository
	Grant        DestinationGrantRepository
	Queue        QueueRepository
	Booking      BookingRepository
	ExitPass     ExitPassRepository
	DayPass      DayPassRepository
	Staff        StaffRepository
	StaffSession StaffSessionRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		Vehicle:      NewVehicleRepository(db, log),
		Route:        NewRouteRepository(db, log),
		Grant:        NewDestinationGrantRepository(db, log),
		Queue:        NewQueueRepository(db, log),
		Booking:      NewBookingRepository(db, log),
		ExitPass:     NewExitPassRepository(db, log),
		DayPass:      NewDayPassRepository(db, log),
		Staff:        NewStaffRepository(db, log),
		StaffSession: NewStaffSessionRepository(db, log),
	}
}
