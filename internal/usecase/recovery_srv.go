package usecase

import (
	"context"
	"fmt"
	"time"

	"station-dispatch/internal/data/entity"
	"station-dispatch/internal/data/repository"
	"station-dispatch/internal/domain"
	"station-dispatch/internal/dto/request"
	"station-dispatch/internal/dto/response"
	"station-dispatch/pkg/cache"
	"station-dispatch/pkg/database"
	"station-dispatch/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type RecoveryService interface {
	TransferAndRemove(ctx context.Context, req *request.TransferRemoveRequest) (*response.TransferResponse, error)
	EmergencyRemove(ctx context.Context, vehicleID string) (*response.EmergencyRemoveResponse, error)
	EndTripPartialCapacity(ctx context.Context, queueEntryID string, staffID uuid.UUID) (*response.ExitPassResponse, error)
}

type recoveryService struct {
	db    database.PgxIface
	repo  *repository.Repository
	tasks TaskScheduler
	store *cache.Cache
	loc   *time.Location
	log   *zap.Logger
}

func NewRecoveryService(
	db database.PgxIface,
	repo *repository.Repository,
	tasks TaskScheduler,
	store *cache.Cache,
	loc *time.Location,
	log *zap.Logger,
) RecoveryService {
	return &recoveryService{
		db:    db,
		repo:  repo,
		tasks: tasks,
		store: store,
		loc:   loc,
		log:   log.With(zap.String("service", "recovery")),
	}
}

// TransferAndRemove pulls a broken-down vehicle out of its queue. Booked
// passengers move as one block to another vehicle in the same queue; an
// entry with no bookings is simply deleted.
func (s *recoveryService) TransferAndRemove(ctx context.Context, req *request.TransferRemoveRequest) (*response.TransferResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, domain.InvalidStateError{Msg: utils.FormatValidationErrors(errs)}
	}

	vehicleID, err := utils.ParseUUID(req.VehicleID)
	if err != nil {
		return nil, domain.InvalidStateError{Msg: fmt.Sprintf("invalid vehicle id %q", req.VehicleID), Err: err}
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, domain.StorageError{Op: "transfer and remove", Err: err}
	}
	defer rollbackTx(ctx, tx)

	entries, err := s.repo.Queue.LockByDestinationTx(ctx, tx, req.DestinationID)
	if err != nil {
		return nil, domain.StorageError{Op: "transfer and remove", Err: err}
	}

	var source *entity.QueueEntry
	for _, e := range entries {
		if e.VehicleID == vehicleID {
			source = e
			break
		}
	}
	if source == nil {
		return nil, domain.NotFoundError{Resource: "queue entry"}
	}

	booked := source.BookedSeats()
	result := &response.TransferResponse{SourceEntryID: source.ID.String()}
	var printed *entity.ExitPass
	printedPos := 0

	if booked > 0 {
		// Lowest-position vehicle with room for the whole block wins.
		var target *entity.QueueEntry
		bestAvailable := 0
		candidates := 0
		for _, e := range entries {
			if e.ID == source.ID {
				continue
			}
			candidates++
			if e.AvailableSeats > bestAvailable {
				bestAvailable = e.AvailableSeats
			}
			if target == nil && e.AvailableSeats >= booked {
				target = e
			}
		}
		if candidates == 0 {
			return nil, domain.InsufficientCapacityError{
				Requested: booked,
				Msg:       fmt.Sprintf("tidak ada kendaraan lain di antrian %s untuk menampung penumpang", req.DestinationID),
			}
		}
		if target == nil {
			return nil, domain.InsufficientCapacityError{
				Requested: booked,
				Available: bestAvailable,
				Msg:       fmt.Sprintf("tidak ada kendaraan dengan %d kursi kosong di antrian %s", booked, req.DestinationID),
			}
		}

		if err := s.repo.Booking.ReassignQueueEntryTx(ctx, tx, source.ID, target.ID); err != nil {
			return nil, domain.StorageError{Op: "transfer and remove", Err: err}
		}

		newAvailable := target.AvailableSeats - booked
		status := entity.StatusForSeats(newAvailable, target.TotalSeats)
		if err := s.repo.Queue.UpdateSeatsTx(ctx, tx, target.ID, newAvailable, status); err != nil {
			return nil, domain.StorageError{Op: "transfer and remove", Err: err}
		}
		target.AvailableSeats = newAvailable
		target.Status = status
		result.TargetEntryID = target.ID.String()
		result.SeatsMoved = booked

		if newAvailable == 0 {
			staffID, _ := utils.GetStaffIDFromContext(ctx)
			printed, err = issueExitPassTx(ctx, tx, s.repo, target, target.TotalSeats, staffID, s.loc, time.Now())
			if err != nil {
				return nil, domain.StorageError{Op: "transfer and remove", Err: err}
			}
			// Position on the printed ticket reflects the queue after the
			// source's slot closes.
			printedPos = target.Position
			if target.Position > source.Position {
				printedPos--
			}
		}
	}

	if err := s.repo.Queue.DeleteTx(ctx, tx, source.ID); err != nil {
		return nil, domain.StorageError{Op: "transfer and remove", Err: err}
	}
	if err := s.repo.Queue.CloseGapTx(ctx, tx, source.DestinationID, source.Position); err != nil {
		return nil, domain.StorageError{Op: "transfer and remove", Err: err}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, domain.StorageError{Op: "transfer and remove", Err: err}
	}

	s.store.Invalidate(ctx, queueCacheKey(source.DestinationID))
	if printed != nil {
		staffName, _ := utils.GetStaffNameFromContext(ctx)
		s.tasks.Enqueue(exitPassTask(printed, staffName))
		s.tasks.Enqueue(entryDecisionTask(printed, printedPos))
	}

	s.log.Info("Vehicle transferred and removed",
		zap.String("vehicle_id", req.VehicleID),
		zap.String("destination_id", req.DestinationID),
		zap.Int("seats_moved", booked),
	)
	return result, nil
}

// EmergencyRemove yanks a vehicle out regardless of bookings. Live bookings
// are marked cancelled (kept for the refund audit) and their amounts summed
// as the refund the counter owes.
func (s *recoveryService) EmergencyRemove(ctx context.Context, vehicleID string) (*response.EmergencyRemoveResponse, error) {
	id, err := utils.ParseUUID(vehicleID)
	if err != nil {
		return nil, domain.InvalidStateError{Msg: fmt.Sprintf("invalid vehicle id %q", vehicleID), Err: err}
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, domain.StorageError{Op: "emergency remove", Err: err}
	}
	defer rollbackTx(ctx, tx)

	entry, err := s.repo.Queue.LockByVehicleIDTx(ctx, tx, id)
	if err != nil {
		return nil, domain.StorageError{Op: "emergency remove", Err: err}
	}
	if entry == nil {
		return nil, domain.NotFoundError{Resource: "queue entry"}
	}

	bookings, err := s.repo.Booking.ListLiveByQueueEntryTx(ctx, tx, entry.ID)
	if err != nil {
		return nil, domain.StorageError{Op: "emergency remove", Err: err}
	}

	refund := 0.0
	for _, b := range bookings {
		refund += b.TotalAmount
	}
	if len(bookings) > 0 {
		if err := s.repo.Booking.CancelLiveByQueueEntryTx(ctx, tx, entry.ID); err != nil {
			return nil, domain.StorageError{Op: "emergency remove", Err: err}
		}
	}

	if err := s.repo.Queue.DeleteTx(ctx, tx, entry.ID); err != nil {
		return nil, domain.StorageError{Op: "emergency remove", Err: err}
	}
	if err := s.repo.Queue.CloseGapTx(ctx, tx, entry.DestinationID, entry.Position); err != nil {
		return nil, domain.StorageError{Op: "emergency remove", Err: err}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, domain.StorageError{Op: "emergency remove", Err: err}
	}

	s.store.Invalidate(ctx, queueCacheKey(entry.DestinationID))
	s.log.Warn("Vehicle emergency removed",
		zap.String("vehicle_id", vehicleID),
		zap.String("destination_id", entry.DestinationID),
		zap.Int("cancelled_bookings", len(bookings)),
		zap.Float64("refund_total", refund),
	)

	return &response.EmergencyRemoveResponse{
		VehicleID:         vehicleID,
		CancelledBookings: len(bookings),
		RefundTotal:       refund,
	}, nil
}

// EndTripPartialCapacity dispatches a vehicle that never filled. Seats used
// is what the seat counters say, regardless of how many booking rows back
// them.
func (s *recoveryService) EndTripPartialCapacity(ctx context.Context, queueEntryID string, staffID uuid.UUID) (*response.ExitPassResponse, error) {
	id, err := utils.ParseUUID(queueEntryID)
	if err != nil {
		return nil, domain.InvalidStateError{Msg: fmt.Sprintf("invalid queue entry id %q", queueEntryID), Err: err}
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, domain.StorageError{Op: "end trip", Err: err}
	}
	defer rollbackTx(ctx, tx)

	entry, err := s.repo.Queue.LockByIDTx(ctx, tx, id)
	if err != nil {
		return nil, domain.StorageError{Op: "end trip", Err: err}
	}
	if entry == nil {
		return nil, domain.NotFoundError{Resource: "queue entry"}
	}

	now := time.Now()
	pass, err := issueExitPassTx(ctx, tx, s.repo, entry, entry.BookedSeats(), staffID, s.loc, now)
	if err != nil {
		return nil, domain.StorageError{Op: "end trip", Err: err}
	}

	if err := s.repo.Queue.DeleteTx(ctx, tx, entry.ID); err != nil {
		return nil, domain.StorageError{Op: "end trip", Err: err}
	}
	if err := s.repo.Queue.CloseGapTx(ctx, tx, entry.DestinationID, entry.Position); err != nil {
		return nil, domain.StorageError{Op: "end trip", Err: err}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, domain.StorageError{Op: "end trip", Err: err}
	}

	s.store.Invalidate(ctx, queueCacheKey(entry.DestinationID))
	if pass == nil {
		// READY already issued the pass; the vehicle just leaves.
		return nil, nil
	}

	staffName, _ := utils.GetStaffNameFromContext(ctx)
	s.tasks.Enqueue(exitPassTask(pass, staffName))
	s.tasks.Enqueue(entryDecisionTask(pass, entry.Position))

	s.log.Info("Trip ended with partial load",
		zap.String("queue_entry_id", queueEntryID),
		zap.Int("seats_used", pass.SeatsUsed),
	)
	res := response.ExitPassToResponse(pass)
	return &res, nil
}
