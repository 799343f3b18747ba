package usecase

import (
	"context"
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

const defaultPaymentMethod = "CASH"

type AllocationService interface {
	BookByDestination(ctx context.Context, req *request.BookByDestinationRequest, staffID uuid.UUID) (*response.AllocationResponse, error)
	BookByVehicle(ctx context.Context, req *request.BookByVehicleRequest, staffID uuid.UUID) (*response.AllocationResponse, error)
	Cancel(ctx context.Context, bookingID string) error
	CancelLast(ctx context.Context, req *request.CancelLastRequest, staffID uuid.UUID) (*response.BookingResponse, error)
	FindByVerificationCode(ctx context.Context, code string) (*response.BookingResponse, error)
}

type allocationService struct {
	db         database.PgxIface
	repo       *repository.Repository
	serviceFee float64
	tasks      TaskScheduler
	store      *cache.Cache
	loc        *time.Location
	log        *zap.Logger
}

func NewAllocationService(
	db database.PgxIface,
	repo *repository.Repository,
	serviceFeePerSeat float64,
	tasks TaskScheduler,
	store *cache.Cache,
	loc *time.Location,
	log *zap.Logger,
) AllocationService {
	return &allocationService{
		db:         db,
		repo:       repo,
		serviceFee: serviceFeePerSeat,
		tasks:      tasks,
		store:      store,
		loc:        loc,
		log:        log.With(zap.String("service", "allocation")),
	}
}

// BookByDestination sells seats against a destination queue. All bookable
// rows are locked up front; either the whole request fits or nothing is
// written.
func (s *allocationService) BookByDestination(ctx context.Context, req *request.BookByDestinationRequest, staffID uuid.UUID) (*response.AllocationResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Book by destination validation failed", zap.Any("errors", errs))
		return nil, domain.InvalidStateError{Msg: utils.FormatValidationErrors(errs)}
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, domain.StorageError{Op: "book by destination", Err: err}
	}
	defer rollbackTx(ctx, tx)

	entries, err := s.repo.Queue.LockBookableByDestinationTx(ctx, tx, req.DestinationID)
	if err != nil {
		return nil, domain.StorageError{Op: "book by destination", Err: err}
	}

	plans, err := planSeats(entries, req.Seats)
	if err != nil {
		return nil, err
	}

	result, tasks, err := s.applyPlans(ctx, tx, plans, staffID, req.PaymentMethod)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, domain.StorageError{Op: "book by destination", Err: err}
	}

	s.store.Invalidate(ctx, queueCacheKey(req.DestinationID))
	for _, task := range tasks {
		s.tasks.Enqueue(task)
	}

	s.log.Info("Seats booked",
		zap.String("destination_id", req.DestinationID),
		zap.Int("seats", req.Seats),
		zap.Int("vehicles", len(plans)),
		zap.String("staff_id", staffID.String()),
	)
	return result, nil
}

// BookByVehicle is the same per-row logic pinned to one explicit entry.
func (s *allocationService) BookByVehicle(ctx context.Context, req *request.BookByVehicleRequest, staffID uuid.UUID) (*response.AllocationResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, domain.InvalidStateError{Msg: utils.FormatValidationErrors(errs)}
	}

	entryID, err := utils.ParseUUID(req.QueueEntryID)
	if err != nil {
		return nil, domain.InvalidStateError{Msg: fmt.Sprintf("invalid queue entry id %q", req.QueueEntryID), Err: err}
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, domain.StorageError{Op: "book by vehicle", Err: err}
	}
	defer rollbackTx(ctx, tx)

	entry, err := s.repo.Queue.LockByIDTx(ctx, tx, entryID)
	if err != nil {
		return nil, domain.StorageError{Op: "book by vehicle", Err: err}
	}
	if entry == nil {
		return nil, domain.NotFoundError{Resource: "queue entry"}
	}

	plans, err := planSeats([]*entity.QueueEntry{entry}, req.Seats)
	if err != nil {
		return nil, err
	}

	result, tasks, err := s.applyPlans(ctx, tx, plans, staffID, req.PaymentMethod)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, domain.StorageError{Op: "book by vehicle", Err: err}
	}

	s.store.Invalidate(ctx, queueCacheKey(entry.DestinationID))
	for _, task := range tasks {
		s.tasks.Enqueue(task)
	}
	return result, nil
}

// applyPlans runs the seat debits inside the caller's transaction: one
// booking row per touched vehicle, status recomputed from seat counts, exit
// pass the instant a row empties.
func (s *allocationService) applyPlans(
	ctx context.Context,
	tx database.Tx,
	plans []seatPlan,
	staffID uuid.UUID,
	paymentMethod string,
) (*response.AllocationResponse, []dispatch.Task, error) {
	if paymentMethod == "" {
		paymentMethod = defaultPaymentMethod
	}
	staffName, _ := utils.GetStaffNameFromContext(ctx)
	now := time.Now()

	result := &response.AllocationResponse{}
	var tasks []dispatch.Task

	for _, p := range plans {
		entry := p.entry
		newAvailable := entry.AvailableSeats - p.seats
		status := entity.StatusForSeats(newAvailable, entry.TotalSeats)

		if err := s.repo.Queue.UpdateSeatsTx(ctx, tx, entry.ID, newAvailable, status); err != nil {
			return nil, nil, domain.StorageError{Op: "book seats", Err: err}
		}

		booking := &entity.Booking{
			QueueEntryID:     entry.ID,
			DestinationID:    entry.DestinationID,
			SeatsBooked:      p.seats,
			TotalAmount:      bookingAmount(entry.BasePrice, s.serviceFee, p.seats),
			VerificationCode: utils.GenerateVerificationCode(),
			PaymentStatus:    entity.PaymentStatusPaid,
			PaymentMethod:    paymentMethod,
			CreatedBy:        staffID,
		}
		booking.ID = utils.GenerateUUID()
		booking.CreatedAt = now

		if err := s.repo.Booking.CreateTx(ctx, tx, booking); err != nil {
			return nil, nil, domain.StorageError{Op: "book seats", Err: err}
		}

		entry.AvailableSeats = newAvailable
		entry.Status = status
		result.SeatsBooked += p.seats
		result.TotalAmount += booking.TotalAmount
		result.Bookings = append(result.Bookings, response.BookingToResponse(booking))
		result.Entries = append(result.Entries, response.QueueEntryToResponse(entry))

		if newAvailable == 0 {
			pass, err := issueExitPassTx(ctx, tx, s.repo, entry, entry.TotalSeats, staffID, s.loc, now)
			if err != nil {
				return nil, nil, domain.StorageError{Op: "issue exit pass", Err: err}
			}
			if pass != nil {
				result.ExitPasses = append(result.ExitPasses, response.ExitPassToResponse(pass))
				tasks = append(tasks, exitPassTask(pass, staffName), entryDecisionTask(pass, entry.Position))
			}
		}
	}
	return result, tasks, nil
}

// Cancel refunds a whole booking: seats go back to the queue entry (when it
// still exists) and the booking row is deleted. The entry's status is
// recomputed, so a full vehicle drops back to LOADING.
func (s *allocationService) Cancel(ctx context.Context, bookingID string) error {
	id, err := utils.ParseUUID(bookingID)
	if err != nil {
		return domain.InvalidStateError{Msg: fmt.Sprintf("invalid booking id %q", bookingID), Err: err}
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return domain.StorageError{Op: "cancel booking", Err: err}
	}
	defer rollbackTx(ctx, tx)

	booking, err := s.repo.Booking.LockByIDTx(ctx, tx, id)
	if err != nil {
		return domain.StorageError{Op: "cancel booking", Err: err}
	}
	if booking == nil {
		return domain.NotFoundError{Resource: "booking"}
	}
	if booking.PaymentStatus != entity.PaymentStatusPaid {
		return domain.InvalidStateError{Msg: "booking sudah dibatalkan"}
	}

	entry, err := s.repo.Queue.LockByIDTx(ctx, tx, booking.QueueEntryID)
	if err != nil {
		return domain.StorageError{Op: "cancel booking", Err: err}
	}
	if entry != nil {
		restored := entry.AvailableSeats + booking.SeatsBooked
		if restored > entry.TotalSeats {
			restored = entry.TotalSeats
		}
		status := entity.StatusForSeats(restored, entry.TotalSeats)
		if err := s.repo.Queue.UpdateSeatsTx(ctx, tx, entry.ID, restored, status); err != nil {
			return domain.StorageError{Op: "cancel booking", Err: err}
		}
	}

	if err := s.repo.Booking.DeleteTx(ctx, tx, booking.ID); err != nil {
		return domain.StorageError{Op: "cancel booking", Err: err}
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.StorageError{Op: "cancel booking", Err: err}
	}

	s.store.Invalidate(ctx, queueCacheKey(booking.DestinationID))
	s.log.Info("Booking cancelled",
		zap.String("booking_id", bookingID),
		zap.Int("seats_restored", booking.SeatsBooked),
	)
	return nil
}

// CancelLast drops one seat from the most recent live booking at a
// destination. With OwnOnly the lookup is pinned to the calling staff;
// otherwise their bookings are preferred but any staff's counts.
func (s *allocationService) CancelLast(ctx context.Context, req *request.CancelLastRequest, staffID uuid.UUID) (*response.BookingResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, domain.InvalidStateError{Msg: utils.FormatValidationErrors(errs)}
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, domain.StorageError{Op: "cancel last booking", Err: err}
	}
	defer rollbackTx(ctx, tx)

	booking, err := s.repo.Booking.FindLatestLiveByDestinationTx(ctx, tx, req.DestinationID, &staffID)
	if err != nil {
		return nil, domain.StorageError{Op: "cancel last booking", Err: err}
	}
	if booking == nil && !req.OwnOnly {
		booking, err = s.repo.Booking.FindLatestLiveByDestinationTx(ctx, tx, req.DestinationID, nil)
		if err != nil {
			return nil, domain.StorageError{Op: "cancel last booking", Err: err}
		}
	}
	if booking == nil {
		return nil, domain.NotFoundError{Resource: "booking"}
	}

	entry, err := s.repo.Queue.LockByIDTx(ctx, tx, booking.QueueEntryID)
	if err != nil {
		return nil, domain.StorageError{Op: "cancel last booking", Err: err}
	}
	if entry == nil {
		return nil, domain.AccessDeniedError{Msg: "kendaraan sudah keluar dari antrian, pembatalan tidak diizinkan"}
	}

	if booking.SeatsBooked == 1 {
		if err := s.repo.Booking.DeleteTx(ctx, tx, booking.ID); err != nil {
			return nil, domain.StorageError{Op: "cancel last booking", Err: err}
		}
		booking.SeatsBooked = 0
		booking.TotalAmount = 0
	} else {
		perSeat := booking.TotalAmount / float64(booking.SeatsBooked)
		booking.SeatsBooked--
		booking.TotalAmount -= perSeat
		if err := s.repo.Booking.UpdateSeatsTx(ctx, tx, booking.ID, booking.SeatsBooked, booking.TotalAmount); err != nil {
			return nil, domain.StorageError{Op: "cancel last booking", Err: err}
		}
	}

	restored := entry.AvailableSeats + 1
	if restored > entry.TotalSeats {
		restored = entry.TotalSeats
	}
	status := entity.StatusForSeats(restored, entry.TotalSeats)
	if err := s.repo.Queue.UpdateSeatsTx(ctx, tx, entry.ID, restored, status); err != nil {
		return nil, domain.StorageError{Op: "cancel last booking", Err: err}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, domain.StorageError{Op: "cancel last booking", Err: err}
	}

	s.store.Invalidate(ctx, queueCacheKey(req.DestinationID))
	res := response.BookingToResponse(booking)
	return &res, nil
}

func (s *allocationService) FindByVerificationCode(ctx context.Context, code string) (*response.BookingResponse, error) {
	if code == "" {
		return nil, domain.InvalidStateError{Msg: "verification code is required"}
	}

	booking, err := s.repo.Booking.FindByVerificationCode(ctx, code)
	if err != nil {
		return nil, domain.StorageError{Op: "find booking", Err: err}
	}
	if booking == nil {
		return nil, domain.NotFoundError{Resource: "booking"}
	}

	res := response.BookingToResponse(booking)
	return &res, nil
}
