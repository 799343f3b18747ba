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

// QueueRepository is the per-destination ordered queue store. All seat- or
// position-mutating methods take an open transaction; the Lock* variants
// acquire row locks (FOR UPDATE) that are held until the caller commits or
// rolls back. queue_position is dense 1..N per destination, enforced by a
// deferred unique index so renumbering inside one statement never trips it.
type QueueRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.QueueEntry, error)
	FindByVehicleID(ctx context.Context, vehicleID uuid.UUID) (*entity.QueueEntry, error)
	ListByDestination(ctx context.Context, destinationID string) ([]*entity.QueueEntry, error)

	InsertTx(ctx context.Context, tx database.Tx, entry *entity.QueueEntry) error
	MaxPositionTx(ctx context.Context, tx database.Tx, destinationID string) (int, error)
	LockByIDTx(ctx context.Context, tx database.Tx, id uuid.UUID) (*entity.QueueEntry, error)
	LockByVehicleIDTx(ctx context.Context, tx database.Tx, vehicleID uuid.UUID) (*entity.QueueEntry, error)
	LockBookableByDestinationTx(ctx context.Context, tx database.Tx, destinationID string) ([]*entity.QueueEntry, error)
	LockByDestinationTx(ctx context.Context, tx database.Tx, destinationID string) ([]*entity.QueueEntry, error)
	UpdateSeatsTx(ctx context.Context, tx database.Tx, id uuid.UUID, availableSeats int, status entity.QueueStatus) error
	RetargetTx(ctx context.Context, tx database.Tx, id uuid.UUID, destinationID, destinationName string, basePrice float64, position int) error
	UpdatePositionTx(ctx context.Context, tx database.Tx, id uuid.UUID, position int) error
	ShiftPositionsUpTx(ctx context.Context, tx database.Tx, destinationID string, belowPosition int) error
	CloseGapTx(ctx context.Context, tx database.Tx, destinationID string, removedPosition int) error
	DeleteTx(ctx context.Context, tx database.Tx, id uuid.UUID) error
}

type queueRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewQueueRepository(db database.PgxIface, log *zap.Logger) QueueRepository {
	return &queueRepository{
		db:  db,
		log: log.With(zap.String("repository", "queue")),
	}
}

const queueColumns = `id, vehicle_id, destination_id, destination_name, queue_position, status, available_seats, total_seats, base_price, entered_at`

func scanQueueEntry(row pgx.Row) (*entity.QueueEntry, error) {
	var e entity.QueueEntry
	err := row.Scan(
		&e.ID,
		&e.VehicleID,
		&e.DestinationID,
		&e.DestinationName,
		&e.Position,
		&e.Status,
		&e.AvailableSeats,
		&e.TotalSeats,
		&e.BasePrice,
		&e.EnteredAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *queueRepository) collectEntries(rows pgx.Rows) ([]*entity.QueueEntry, error) {
	defer rows.Close()

	var entries []*entity.QueueEntry
	for rows.Next() {
		entry, err := scanQueueEntry(rows)
		if err != nil {
			r.log.Error("Failed to scan queue entry row", zap.Error(err))
			return nil, fmt.Errorf("scan queue entry row: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate queue entry rows: %w", err)
	}

	return entries, nil
}

func (r *queueRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.QueueEntry, error) {
	query := `SELECT ` + queueColumns + ` FROM queue_entries WHERE id = $1`

	entry, err := scanQueueEntry(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find queue entry by ID",
			zap.Error(err),
			zap.String("queue_entry_id", id.String()),
		)
		return nil, fmt.Errorf("find queue entry by ID %s: %w", id.String(), err)
	}

	return entry, nil
}

func (r *queueRepository) FindByVehicleID(ctx context.Context, vehicleID uuid.UUID) (*entity.QueueEntry, error) {
	query := `SELECT ` + queueColumns + ` FROM queue_entries WHERE vehicle_id = $1`

	entry, err := scanQueueEntry(r.db.QueryRow(ctx, query, vehicleID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find queue entry by vehicle",
			zap.Error(err),
			zap.String("vehicle_id", vehicleID.String()),
		)
		return nil, fmt.Errorf("find queue entry by vehicle %s: %w", vehicleID.String(), err)
	}

	return entry, nil
}

// ListByDestination is the unlocked read for summaries; it may observe
// aggregates mid-transaction staleness and that is fine.
func (r *queueRepository) ListByDestination(ctx context.Context, destinationID string) ([]*entity.QueueEntry, error) {
	query := `
		SELECT ` + queueColumns + `
		FROM queue_entries
		WHERE destination_id = $1
		ORDER BY queue_position
	`

	rows, err := r.db.Query(ctx, query, destinationID)
	if err != nil {
		r.log.Error("Failed to list queue entries",
			zap.Error(err),
			zap.String("destination_id", destinationID),
		)
		return nil, fmt.Errorf("list queue entries for %s: %w", destinationID, err)
	}

	return r.collectEntries(rows)
}

func (r *queueRepository) InsertTx(ctx context.Context, tx database.Tx, entry *entity.QueueEntry) error {
	query := `
		INSERT INTO queue_entries (id, vehicle_id, destination_id, destination_name, queue_position, status, available_seats, total_seats, base_price, entered_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := tx.Exec(ctx, query,
		entry.ID,
		entry.VehicleID,
		entry.DestinationID,
		entry.DestinationName,
		entry.Position,
		entry.Status,
		entry.AvailableSeats,
		entry.TotalSeats,
		entry.BasePrice,
		entry.EnteredAt,
	)

	if err != nil {
		r.log.Error("Failed to insert queue entry",
			zap.Error(err),
			zap.String("vehicle_id", entry.VehicleID.String()),
			zap.String("destination_id", entry.DestinationID),
		)
		return fmt.Errorf("insert queue entry for vehicle %s: %w", entry.VehicleID.String(), err)
	}

	return nil
}

func (r *queueRepository) MaxPositionTx(ctx context.Context, tx database.Tx, destinationID string) (int, error) {
	query := `SELECT COALESCE(MAX(queue_position), 0) FROM queue_entries WHERE destination_id = $1`

	var max int
	if err := tx.QueryRow(ctx, query, destinationID).Scan(&max); err != nil {
		r.log.Error("Failed to read max queue position",
			zap.Error(err),
			zap.String("destination_id", destinationID),
		)
		return 0, fmt.Errorf("max position for %s: %w", destinationID, err)
	}

	return max, nil
}

func (r *queueRepository) LockByIDTx(ctx context.Context, tx database.Tx, id uuid.UUID) (*entity.QueueEntry, error) {
	query := `SELECT ` + queueColumns + ` FROM queue_entries WHERE id = $1 FOR UPDATE`

	entry, err := scanQueueEntry(tx.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to lock queue entry",
			zap.Error(err),
			zap.String("queue_entry_id", id.String()),
		)
		return nil, fmt.Errorf("lock queue entry %s: %w", id.String(), err)
	}

	return entry, nil
}

func (r *queueRepository) LockByVehicleIDTx(ctx context.Context, tx database.Tx, vehicleID uuid.UUID) (*entity.QueueEntry, error) {
	query := `SELECT ` + queueColumns + ` FROM queue_entries WHERE vehicle_id = $1 FOR UPDATE`

	entry, err := scanQueueEntry(tx.QueryRow(ctx, query, vehicleID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to lock queue entry by vehicle",
			zap.Error(err),
			zap.String("vehicle_id", vehicleID.String()),
		)
		return nil, fmt.Errorf("lock queue entry for vehicle %s: %w", vehicleID.String(), err)
	}

	return entry, nil
}

// LockBookableByDestinationTx serializes concurrent bookings against one
// destination: rows come back in boarding order and stay locked for the
// transaction.
func (r *queueRepository) LockBookableByDestinationTx(ctx context.Context, tx database.Tx, destinationID string) ([]*entity.QueueEntry, error) {
	query := `
		SELECT ` + queueColumns + `
		FROM queue_entries
		WHERE destination_id = $1 AND available_seats > 0
		ORDER BY queue_position
		FOR UPDATE
	`

	rows, err := tx.Query(ctx, query, destinationID)
	if err != nil {
		r.log.Error("Failed to lock bookable queue entries",
			zap.Error(err),
			zap.String("destination_id", destinationID),
		)
		return nil, fmt.Errorf("lock bookable entries for %s: %w", destinationID, err)
	}

	return r.collectEntries(rows)
}

func (r *queueRepository) LockByDestinationTx(ctx context.Context, tx database.Tx, destinationID string) ([]*entity.QueueEntry, error) {
	query := `
		SELECT ` + queueColumns + `
		FROM queue_entries
		WHERE destination_id = $1
		ORDER BY queue_position
		FOR UPDATE
	`

	rows, err := tx.Query(ctx, query, destinationID)
	if err != nil {
		r.log.Error("Failed to lock queue entries",
			zap.Error(err),
			zap.String("destination_id", destinationID),
		)
		return nil, fmt.Errorf("lock entries for %s: %w", destinationID, err)
	}

	return r.collectEntries(rows)
}

func (r *queueRepository) UpdateSeatsTx(ctx context.Context, tx database.Tx, id uuid.UUID, availableSeats int, status entity.QueueStatus) error {
	query := `UPDATE queue_entries SET available_seats = $2, status = $3 WHERE id = $1`

	result, err := tx.Exec(ctx, query, id, availableSeats, status)
	if err != nil {
		r.log.Error("Failed to update queue entry seats",
			zap.Error(err),
			zap.String("queue_entry_id", id.String()),
		)
		return fmt.Errorf("update seats for queue entry %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("queue entry %s not found", id.String())
	}

	return nil
}

// RetargetTx moves an existing entry to another destination queue. This is
// the single-entry-per-vehicle rule: admission re-targets instead of
// inserting a duplicate.
func (r *queueRepository) RetargetTx(ctx context.Context, tx database.Tx, id uuid.UUID, destinationID, destinationName string, basePrice float64, position int) error {
	query := `
		UPDATE queue_entries
		SET destination_id = $2, destination_name = $3, base_price = $4, queue_position = $5
		WHERE id = $1
	`

	result, err := tx.Exec(ctx, query, id, destinationID, destinationName, basePrice, position)
	if err != nil {
		r.log.Error("Failed to retarget queue entry",
			zap.Error(err),
			zap.String("queue_entry_id", id.String()),
			zap.String("destination_id", destinationID),
		)
		return fmt.Errorf("retarget queue entry %s to %s: %w", id.String(), destinationID, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("queue entry %s not found", id.String())
	}

	return nil
}

func (r *queueRepository) UpdatePositionTx(ctx context.Context, tx database.Tx, id uuid.UUID, position int) error {
	query := `UPDATE queue_entries SET queue_position = $2 WHERE id = $1`

	result, err := tx.Exec(ctx, query, id, position)
	if err != nil {
		r.log.Error("Failed to update queue position",
			zap.Error(err),
			zap.String("queue_entry_id", id.String()),
			zap.Int("queue_position", position),
		)
		return fmt.Errorf("update position for queue entry %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("queue entry %s not found", id.String())
	}

	return nil
}

// ShiftPositionsUpTx bumps every entry in front of belowPosition one slot
// back, freeing position 1 for a move-to-front.
func (r *queueRepository) ShiftPositionsUpTx(ctx context.Context, tx database.Tx, destinationID string, belowPosition int) error {
	query := `
		UPDATE queue_entries
		SET queue_position = queue_position + 1
		WHERE destination_id = $1 AND queue_position < $2
	`

	_, err := tx.Exec(ctx, query, destinationID, belowPosition)
	if err != nil {
		r.log.Error("Failed to shift queue positions up",
			zap.Error(err),
			zap.String("destination_id", destinationID),
			zap.Int("below_position", belowPosition),
		)
		return fmt.Errorf("shift positions for %s: %w", destinationID, err)
	}

	return nil
}

// CloseGapTx renumbers positions after a removal so the queue stays dense
// 1..N.
func (r *queueRepository) CloseGapTx(ctx context.Context, tx database.Tx, destinationID string, removedPosition int) error {
	query := `
		UPDATE queue_entries
		SET queue_position = queue_position - 1
		WHERE destination_id = $1 AND queue_position > $2
	`

	_, err := tx.Exec(ctx, query, destinationID, removedPosition)
	if err != nil {
		r.log.Error("Failed to close queue position gap",
			zap.Error(err),
			zap.String("destination_id", destinationID),
			zap.Int("removed_position", removedPosition),
		)
		return fmt.Errorf("close position gap for %s: %w", destinationID, err)
	}

	return nil
}

func (r *queueRepository) DeleteTx(ctx context.Context, tx database.Tx, id uuid.UUID) error {
	query := `DELETE FROM queue_entries WHERE id = $1`

	result, err := tx.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to delete queue entry",
			zap.Error(err),
			zap.String("queue_entry_id", id.String()),
		)
		return fmt.Errorf("delete queue entry %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("queue entry %s not found", id.String())
	}

	return nil
}
