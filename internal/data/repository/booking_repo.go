package repository

import (
	"context"
	"fmt"

	"station-dispatch/internal/data/entity"
	"station-dispatch/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type BookingRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	FindByVerificationCode(ctx context.Context, code string) (*entity.Booking, error)

	CreateTx(ctx context.Context, tx database.Tx, booking *entity.Booking) error
	LockByIDTx(ctx context.Context, tx database.Tx, id uuid.UUID) (*entity.Booking, error)
	ListLiveByQueueEntryTx(ctx context.Context, tx database.Tx, queueEntryID uuid.UUID) ([]*entity.Booking, error)
	FindLatestLiveByDestinationTx(ctx context.Context, tx database.Tx, destinationID string, createdBy *uuid.UUID) (*entity.Booking, error)
	UpdateSeatsTx(ctx context.Context, tx database.Tx, id uuid.UUID, seatsBooked int, totalAmount float64) error
	ReassignQueueEntryTx(ctx context.Context, tx database.Tx, fromEntryID, toEntryID uuid.UUID) error
	CancelLiveByQueueEntryTx(ctx context.Context, tx database.Tx, queueEntryID uuid.UUID) error
	DeleteTx(ctx context.Context, tx database.Tx, id uuid.UUID) error
}

type bookingRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewBookingRepository(db database.PgxIface, log *zap.Logger) BookingRepository {
	return &bookingRepository{
		db:  db,
		log: log.With(zap.String("repository", "booking")),
	}
}

const bookingColumns = `id, queue_entry_id, destination_id, seats_booked, total_amount, verification_code, payment_status, payment_method, created_by, created_at`

func scanBooking(row pgx.Row) (*entity.Booking, error) {
	var b entity.Booking
	err := row.Scan(
		&b.ID,
		&b.QueueEntryID,
		&b.DestinationID,
		&b.SeatsBooked,
		&b.TotalAmount,
		&b.VerificationCode,
		&b.PaymentStatus,
		&b.PaymentMethod,
		&b.CreatedBy,
		&b.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *bookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	booking, err := scanBooking(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking by ID",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return nil, fmt.Errorf("find booking by ID %s: %w", id.String(), err)
	}

	return booking, nil
}

func (r *bookingRepository) FindByVerificationCode(ctx context.Context, code string) (*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE verification_code = $1`

	booking, err := scanBooking(r.db.QueryRow(ctx, query, code))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking by verification code",
			zap.Error(err),
			zap.String("verification_code", code),
		)
		return nil, fmt.Errorf("find booking by code %s: %w", code, err)
	}

	return booking, nil
}

func (r *bookingRepository) CreateTx(ctx context.Context, tx database.Tx, booking *entity.Booking) error {
	query := `
		INSERT INTO bookings (id, queue_entry_id, destination_id, seats_booked, total_amount, verification_code, payment_status, payment_method, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := tx.Exec(ctx, query,
		booking.ID,
		booking.QueueEntryID,
		booking.DestinationID,
		booking.SeatsBooked,
		booking.TotalAmount,
		booking.VerificationCode,
		booking.PaymentStatus,
		booking.PaymentMethod,
		booking.CreatedBy,
		booking.CreatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create booking",
			zap.Error(err),
			zap.String("queue_entry_id", booking.QueueEntryID.String()),
			zap.String("verification_code", booking.VerificationCode),
		)
		return fmt.Errorf("create booking %s: %w", booking.VerificationCode, err)
	}

	return nil
}

func (r *bookingRepository) LockByIDTx(ctx context.Context, tx database.Tx, id uuid.UUID) (*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1 FOR UPDATE`

	booking, err := scanBooking(tx.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to lock booking",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return nil, fmt.Errorf("lock booking %s: %w", id.String(), err)
	}

	return booking, nil
}

func (r *bookingRepository) ListLiveByQueueEntryTx(ctx context.Context, tx database.Tx, queueEntryID uuid.UUID) ([]*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE queue_entry_id = $1 AND payment_status = $2
		ORDER BY created_at
	`

	rows, err := tx.Query(ctx, query, queueEntryID, entity.PaymentStatusPaid)
	if err != nil {
		r.log.Error("Failed to list live bookings",
			zap.Error(err),
			zap.String("queue_entry_id", queueEntryID.String()),
		)
		return nil, fmt.Errorf("list live bookings for entry %s: %w", queueEntryID.String(), err)
	}
	defer rows.Close()

	var bookings []*entity.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			r.log.Error("Failed to scan booking row", zap.Error(err))
			return nil, fmt.Errorf("scan booking row: %w", err)
		}
		bookings = append(bookings, booking)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate booking rows: %w", err)
	}

	return bookings, nil
}

// FindLatestLiveByDestinationTx returns the newest PAID booking for the
// destination, optionally restricted to one creator. Used by the
// cancel-one-seat counter flow.
func (r *bookingRepository) FindLatestLiveByDestinationTx(ctx context.Context, tx database.Tx, destinationID string, createdBy *uuid.UUID) (*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE destination_id = $1 AND payment_status = $2
	`
	args := []any{destinationID, entity.PaymentStatusPaid}
	if createdBy != nil {
		query += ` AND created_by = $3`
		args = append(args, *createdBy)
	}
	query += ` ORDER BY created_at DESC LIMIT 1 FOR UPDATE`

	booking, err := scanBooking(tx.QueryRow(ctx, query, args...))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find latest live booking",
			zap.Error(err),
			zap.String("destination_id", destinationID),
		)
		return nil, fmt.Errorf("find latest live booking for %s: %w", destinationID, err)
	}

	return booking, nil
}

func (r *bookingRepository) UpdateSeatsTx(ctx context.Context, tx database.Tx, id uuid.UUID, seatsBooked int, totalAmount float64) error {
	query := `UPDATE bookings SET seats_booked = $2, total_amount = $3 WHERE id = $1`

	result, err := tx.Exec(ctx, query, id, seatsBooked, totalAmount)
	if err != nil {
		r.log.Error("Failed to update booking seats",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return fmt.Errorf("update booking %s seats: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("booking %s not found", id.String())
	}

	return nil
}

// ReassignQueueEntryTx re-points every live booking from one queue entry to
// another. Transfer-and-remove uses this before deleting the source row.
func (r *bookingRepository) ReassignQueueEntryTx(ctx context.Context, tx database.Tx, fromEntryID, toEntryID uuid.UUID) error {
	query := `UPDATE bookings SET queue_entry_id = $2 WHERE queue_entry_id = $1 AND payment_status = $3`

	_, err := tx.Exec(ctx, query, fromEntryID, toEntryID, entity.PaymentStatusPaid)
	if err != nil {
		r.log.Error("Failed to reassign bookings",
			zap.Error(err),
			zap.String("from_entry_id", fromEntryID.String()),
			zap.String("to_entry_id", toEntryID.String()),
		)
		return fmt.Errorf("reassign bookings %s -> %s: %w", fromEntryID.String(), toEntryID.String(), err)
	}

	return nil
}

func (r *bookingRepository) CancelLiveByQueueEntryTx(ctx context.Context, tx database.Tx, queueEntryID uuid.UUID) error {
	query := `UPDATE bookings SET payment_status = $2 WHERE queue_entry_id = $1 AND payment_status = $3`

	_, err := tx.Exec(ctx, query, queueEntryID, entity.PaymentStatusCancelled, entity.PaymentStatusPaid)
	if err != nil {
		r.log.Error("Failed to cancel live bookings",
			zap.Error(err),
			zap.String("queue_entry_id", queueEntryID.String()),
		)
		return fmt.Errorf("cancel live bookings for entry %s: %w", queueEntryID.String(), err)
	}

	return nil
}

func (r *bookingRepository) DeleteTx(ctx context.Context, tx database.Tx, id uuid.UUID) error {
	query := `DELETE FROM bookings WHERE id = $1`

	result, err := tx.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to delete booking",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return fmt.Errorf("delete booking %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("booking %s not found", id.String())
	}

	return nil
}
