package usecase

import (
	"context"
	"time"

	"station-dispatch/internal/data/entity"
	"station-dispatch/internal/data/repository"
	"station-dispatch/internal/dispatch"
	"station-dispatch/pkg/cache"
	"station-dispatch/pkg/database"
	"station-dispatch/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TaskScheduler is the post-commit side-effect sink. Satisfied by
// dispatch.Dispatcher; tests substitute a recording fake.
type TaskScheduler interface {
	Enqueue(task dispatch.Task)
}

type Service struct {
	Auth       AuthService
	Vehicle    VehicleService
	Admission  AdmissionService
	Allocation AllocationService
	Recovery   RecoveryService
}

func NewService(
	db database.PgxIface,
	repo *repository.Repository,
	config *utils.Config,
	tasks TaskScheduler,
	store *cache.Cache,
	log *zap.Logger,
) *Service {
	loc := utils.LoadStationLocation(config.Station.Timezone)
	return &Service{
		Auth:       NewAuthService(repo, config, log),
		Vehicle:    NewVehicleService(repo, log),
		Admission:  NewAdmissionService(db, repo, tasks, store, log),
		Allocation: NewAllocationService(db, repo, config.Pricing.ServiceFeePerSeat, tasks, store, loc, log),
		Recovery:   NewRecoveryService(db, repo, tasks, store, loc, log),
	}
}

func queueCacheKey(destinationID string) string {
	return "queue:" + destinationID
}

// rollbackTx is the deferred-cleanup rollback; after a successful commit it
// is a no-op error we deliberately ignore.
func rollbackTx(ctx context.Context, tx database.Tx) {
	_ = tx.Rollback(ctx)
}

// issueExitPassTx creates the one exit authorization a queue entry ever
// gets. Returns nil without error when a pass already exists, so cancel and
// re-fill cycles cannot print a second slip.
func issueExitPassTx(
	ctx context.Context,
	tx database.Tx,
	repo *repository.Repository,
	entry *entity.QueueEntry,
	seatsUsed int,
	staffID uuid.UUID,
	loc *time.Location,
	now time.Time,
) (*entity.ExitPass, error) {
	exists, err := repo.ExitPass.ExistsForQueueEntryTx(ctx, tx, entry.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, nil
	}

	plate := ""
	if vehicle, err := repo.Vehicle.FindByID(ctx, entry.VehicleID); err == nil && vehicle != nil {
		plate = vehicle.LicensePlate
	}

	prev, err := repo.ExitPass.FindLatestByDestinationSinceTx(ctx, tx, entry.DestinationID, utils.LocalDay(now, loc))
	if err != nil {
		return nil, err
	}

	pass := &entity.ExitPass{
		ID:              utils.GenerateUUID(),
		QueueEntryID:    entry.ID,
		VehicleID:       entry.VehicleID,
		LicensePlate:    plate,
		DestinationID:   entry.DestinationID,
		DestinationName: entry.DestinationName,
		SeatsUsed:       seatsUsed,
		IssuedBy:        staffID,
		IssuedAt:        now,
	}
	if prev != nil {
		pass.PrevLicensePlate = &prev.LicensePlate
		pass.PrevIssuedAt = &prev.IssuedAt
	}

	if err := repo.ExitPass.CreateTx(ctx, tx, pass); err != nil {
		return nil, err
	}
	return pass, nil
}

// entryDecisionTask re-runs the day-pass fee decision for a vehicle whose
// booking just completed. The dispatcher settles it against the unique
// (vehicle_id, pass_date) index, so a vehicle that already paid today gets a
// zero-fee ticket.
func entryDecisionTask(pass *entity.ExitPass, position int) dispatch.Task {
	return dispatch.Task{
		Kind:         dispatch.TaskEntryTicket,
		VehicleID:    pass.VehicleID,
		LicensePlate: pass.LicensePlate,
		Destination:  pass.DestinationName,
		Position:     position,
		IssuedAt:     pass.IssuedAt,
	}
}

// exitPassTask converts a freshly issued pass into its print task.
func exitPassTask(pass *entity.ExitPass, staffName string) dispatch.Task {
	task := dispatch.Task{
		Kind:         dispatch.TaskExitPass,
		VehicleID:    pass.VehicleID,
		LicensePlate: pass.LicensePlate,
		Destination:  pass.DestinationName,
		SeatsUsed:    pass.SeatsUsed,
		IssuedBy:     staffName,
		IssuedAt:     pass.IssuedAt,
		PrevIssuedAt: pass.PrevIssuedAt,
	}
	if pass.PrevLicensePlate != nil {
		task.PrevLicensePlate = *pass.PrevLicensePlate
	}
	return task
}
