package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"station-dispatch/internal/data/entity"
	"station-dispatch/internal/data/repository"
	"station-dispatch/internal/dispatch"
	"station-dispatch/internal/domain"
	"station-dispatch/internal/dto/request"
	"station-dispatch/internal/dto/response"
	"station-dispatch/pkg/cache"
	"station-dispatch/pkg/database"
	"station-dispatch/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AdmissionService interface {
	Enter(ctx context.Context, req *request.EnterQueueRequest, staffID uuid.UUID) (*response.QueueEntryResponse, error)
	Remove(ctx context.Context, vehicleID string) error
	Reorder(ctx context.Context, destinationID string, req *request.ReorderRequest) error
	MoveToFront(ctx context.Context, queueEntryID, destinationID string) (*response.QueueEntryResponse, error)
	Queue(ctx context.Context, destinationID string) (*response.QueueSummaryResponse, error)
}

type admissionService struct {
	db    database.PgxIface
	repo  *repository.Repository
	tasks TaskScheduler
	store *cache.Cache
	log   *zap.Logger
}

func NewAdmissionService(
	db database.PgxIface,
	repo *repository.Repository,
	tasks TaskScheduler,
	store *cache.Cache,
	log *zap.Logger,
) AdmissionService {
	return &admissionService{
		db:    db,
		repo:  repo,
		tasks: tasks,
		store: store,
		log:   log.With(zap.String("service", "admission")),
	}
}

// Enter admits a vehicle into a destination queue, or re-targets its
// existing entry when it is already queued somewhere. A vehicle holds at
// most one queue entry system-wide.
func (s *admissionService) Enter(ctx context.Context, req *request.EnterQueueRequest, staffID uuid.UUID) (*response.QueueEntryResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Enter queue validation failed", zap.Any("errors", errs))
		return nil, domain.InvalidStateError{Msg: utils.FormatValidationErrors(errs)}
	}

	vehicleID, err := utils.ParseUUID(req.VehicleID)
	if err != nil {
		return nil, domain.InvalidStateError{Msg: fmt.Sprintf("invalid vehicle id %q", req.VehicleID), Err: err}
	}

	vehicle, err := s.repo.Vehicle.FindByID(ctx, vehicleID)
	if err != nil {
		return nil, domain.StorageError{Op: "enter queue", Err: err}
	}
	if vehicle == nil {
		return nil, domain.NotFoundError{Resource: "vehicle"}
	}
	if !vehicle.IsActive {
		return nil, domain.InvalidStateError{Msg: fmt.Sprintf("kendaraan %s tidak aktif", vehicle.LicensePlate)}
	}
	if vehicle.IsBanned {
		return nil, domain.InvalidStateError{Msg: fmt.Sprintf("kendaraan %s sedang diblokir", vehicle.LicensePlate)}
	}

	grant, err := s.repo.Grant.Find(ctx, vehicleID, req.DestinationID)
	if err != nil {
		return nil, domain.StorageError{Op: "enter queue", Err: err}
	}

	route, err := s.repo.Route.FindByDestinationID(ctx, req.DestinationID)
	if err != nil {
		return nil, domain.StorageError{Op: "enter queue", Err: err}
	}

	// Name and price resolution chain: routes table wins, then the
	// caller-supplied name, then the grant's name, then the raw code.
	name := req.DestinationID
	price := 0.0
	switch {
	case route != nil:
		name = route.Name
		price = route.BasePrice
	case req.DestinationName != "":
		name = req.DestinationName
	case grant != nil && grant.Name != "":
		name = grant.Name
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, domain.StorageError{Op: "enter queue", Err: err}
	}
	defer rollbackTx(ctx, tx)

	existing, err := s.repo.Queue.LockByVehicleIDTx(ctx, tx, vehicleID)
	if err != nil {
		return nil, domain.StorageError{Op: "enter queue", Err: err}
	}

	// A missing grant is only forgiven when the vehicle is already queued
	// for this very destination.
	if grant == nil && (existing == nil || existing.DestinationID != req.DestinationID) {
		return nil, domain.InvalidStateError{
			Msg: fmt.Sprintf("kendaraan %s tidak memiliki izin jurusan %s", vehicle.LicensePlate, req.DestinationID),
		}
	}

	maxPos, err := s.repo.Queue.MaxPositionTx(ctx, tx, req.DestinationID)
	if err != nil {
		return nil, domain.StorageError{Op: "enter queue", Err: err}
	}

	now := time.Now()
	var entry *entity.QueueEntry
	var oldDestinationID string

	if existing != nil {
		// Re-target: append at the new tail, then close the gap the entry
		// left behind. Moving within the same queue nets out to the tail as
		// well, since closing the gap shifts the moved entry back down.
		oldDestinationID = existing.DestinationID
		oldPosition := existing.Position

		if err := s.repo.Queue.RetargetTx(ctx, tx, existing.ID, req.DestinationID, name, price, maxPos+1); err != nil {
			return nil, domain.StorageError{Op: "enter queue", Err: err}
		}
		if err := s.repo.Queue.CloseGapTx(ctx, tx, oldDestinationID, oldPosition); err != nil {
			return nil, domain.StorageError{Op: "enter queue", Err: err}
		}

		entry = existing
		entry.DestinationID = req.DestinationID
		entry.DestinationName = name
		entry.BasePrice = price
		entry.Position = maxPos + 1
		if oldDestinationID == req.DestinationID {
			entry.Position = maxPos
		}
	} else {
		entry = &entity.QueueEntry{
			ID:              utils.GenerateUUID(),
			VehicleID:       vehicleID,
			DestinationID:   req.DestinationID,
			DestinationName: name,
			Position:        maxPos + 1,
			Status:          entity.QueueStatusWaiting,
			AvailableSeats:  vehicle.Capacity,
			TotalSeats:      vehicle.Capacity,
			BasePrice:       price,
			EnteredAt:       now,
		}
		if err := s.repo.Queue.InsertTx(ctx, tx, entry); err != nil {
			return nil, domain.StorageError{Op: "enter queue", Err: err}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, domain.StorageError{Op: "enter queue", Err: err}
	}

	s.store.Invalidate(ctx, queueCacheKey(req.DestinationID))
	if oldDestinationID != "" && oldDestinationID != req.DestinationID {
		s.store.Invalidate(ctx, queueCacheKey(oldDestinationID))
	}

	// Every admission, including a re-target, forces a fresh entry-ticket
	// decision.
	s.tasks.Enqueue(dispatch.Task{
		Kind:         dispatch.TaskEntryTicket,
		VehicleID:    vehicleID,
		LicensePlate: vehicle.LicensePlate,
		Destination:  name,
		Position:     entry.Position,
		IssuedAt:     now,
	})

	s.log.Info("Vehicle entered queue",
		zap.String("license_plate", vehicle.LicensePlate),
		zap.String("destination_id", req.DestinationID),
		zap.Int("position", entry.Position),
		zap.Bool("retarget", existing != nil),
		zap.String("staff_id", staffID.String()),
	)

	res := response.QueueEntryToResponse(entry)
	res.LicensePlate = vehicle.LicensePlate
	return &res, nil
}

func (s *admissionService) Remove(ctx context.Context, vehicleID string) error {
	id, err := utils.ParseUUID(vehicleID)
	if err != nil {
		return domain.InvalidStateError{Msg: fmt.Sprintf("invalid vehicle id %q", vehicleID), Err: err}
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return domain.StorageError{Op: "remove from queue", Err: err}
	}
	defer rollbackTx(ctx, tx)

	entry, err := s.repo.Queue.LockByVehicleIDTx(ctx, tx, id)
	if err != nil {
		return domain.StorageError{Op: "remove from queue", Err: err}
	}
	if entry == nil {
		return domain.NotFoundError{Resource: "queue entry"}
	}

	if err := s.repo.Queue.DeleteTx(ctx, tx, entry.ID); err != nil {
		return domain.StorageError{Op: "remove from queue", Err: err}
	}
	if err := s.repo.Queue.CloseGapTx(ctx, tx, entry.DestinationID, entry.Position); err != nil {
		return domain.StorageError{Op: "remove from queue", Err: err}
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.StorageError{Op: "remove from queue", Err: err}
	}

	s.store.Invalidate(ctx, queueCacheKey(entry.DestinationID))
	s.log.Info("Vehicle removed from queue",
		zap.String("vehicle_id", vehicleID),
		zap.String("destination_id", entry.DestinationID),
	)
	return nil
}

// Reorder rewrites queue positions from a full permutation submitted by the
// dispatch desk.
func (s *admissionService) Reorder(ctx context.Context, destinationID string, req *request.ReorderRequest) error {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return domain.InvalidStateError{Msg: utils.FormatValidationErrors(errs)}
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return domain.StorageError{Op: "reorder queue", Err: err}
	}
	defer rollbackTx(ctx, tx)

	entries, err := s.repo.Queue.LockByDestinationTx(ctx, tx, destinationID)
	if err != nil {
		return domain.StorageError{Op: "reorder queue", Err: err}
	}
	if len(entries) == 0 {
		return domain.NotFoundError{Resource: "queue"}
	}

	assigned, err := validateReorder(entries, req.Items)
	if err != nil {
		return err
	}

	for _, item := range req.Items {
		id, _ := uuid.Parse(item.QueueEntryID)
		if err := s.repo.Queue.UpdatePositionTx(ctx, tx, id, assigned[id]); err != nil {
			return domain.StorageError{Op: "reorder queue", Err: err}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.StorageError{Op: "reorder queue", Err: err}
	}

	s.store.Invalidate(ctx, queueCacheKey(destinationID))
	s.log.Info("Queue reordered",
		zap.String("destination_id", destinationID),
		zap.Int("entries", len(entries)),
	)
	return nil
}

// MoveToFront puts an entry at position 1; everything that was ahead of it
// shifts back by one. Position 1 boards and departs first.
func (s *admissionService) MoveToFront(ctx context.Context, queueEntryID, destinationID string) (*response.QueueEntryResponse, error) {
	id, err := utils.ParseUUID(queueEntryID)
	if err != nil {
		return nil, domain.InvalidStateError{Msg: fmt.Sprintf("invalid queue entry id %q", queueEntryID), Err: err}
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, domain.StorageError{Op: "move to front", Err: err}
	}
	defer rollbackTx(ctx, tx)

	entry, err := s.repo.Queue.LockByIDTx(ctx, tx, id)
	if err != nil {
		return nil, domain.StorageError{Op: "move to front", Err: err}
	}
	if entry == nil {
		return nil, domain.NotFoundError{Resource: "queue entry"}
	}
	if entry.DestinationID != destinationID {
		return nil, domain.InvalidStateError{
			Msg: fmt.Sprintf("queue entry is queued for %s, not %s", entry.DestinationID, destinationID),
		}
	}

	if entry.Position > 1 {
		if err := s.repo.Queue.ShiftPositionsUpTx(ctx, tx, destinationID, entry.Position); err != nil {
			return nil, domain.StorageError{Op: "move to front", Err: err}
		}
		if err := s.repo.Queue.UpdatePositionTx(ctx, tx, entry.ID, 1); err != nil {
			return nil, domain.StorageError{Op: "move to front", Err: err}
		}
		entry.Position = 1
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, domain.StorageError{Op: "move to front", Err: err}
	}

	s.store.Invalidate(ctx, queueCacheKey(destinationID))
	res := response.QueueEntryToResponse(entry)
	return &res, nil
}

// Queue returns the ordered summary without locking. Cached briefly; every
// mutation on the destination invalidates the key.
func (s *admissionService) Queue(ctx context.Context, destinationID string) (*response.QueueSummaryResponse, error) {
	key := queueCacheKey(destinationID)
	if raw, ok := s.store.Get(ctx, key); ok {
		var cached response.QueueSummaryResponse
		if err := json.Unmarshal(raw, &cached); err == nil {
			return &cached, nil
		}
	}

	entries, err := s.repo.Queue.ListByDestination(ctx, destinationID)
	if err != nil {
		return nil, domain.StorageError{Op: "queue summary", Err: err}
	}

	summary := response.QueueSummaryToResponse(destinationID, entries)
	for i, e := range entries {
		if vehicle, err := s.repo.Vehicle.FindByID(ctx, e.VehicleID); err == nil && vehicle != nil {
			summary.Entries[i].LicensePlate = vehicle.LicensePlate
		}
	}
	if summary.DestinationName == "" {
		if route, err := s.repo.Route.FindByDestinationID(ctx, destinationID); err == nil && route != nil {
			summary.DestinationName = route.Name
		}
	}

	if raw, err := json.Marshal(summary); err == nil {
		s.store.Set(ctx, key, raw)
	}
	return summary, nil
}
