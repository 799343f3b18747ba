package repository

import (
	"context"
	"fmt"
	"time"

	"station-dispatch/internal/data/entity"
	"station-dispatch/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type ExitPassRepository interface {
	CreateTx(ctx context.Context, tx database.Tx, pass *entity.ExitPass) error
	ExistsForQueueEntryTx(ctx context.Context, tx database.Tx, queueEntryID uuid.UUID) (bool, error)
	FindLatestByDestinationSinceTx(ctx context.Context, tx database.Tx, destinationID string, since time.Time) (*entity.ExitPass, error)
	ListByDestinationSince(ctx context.Context, destinationID string, since time.Time) ([]*entity.ExitPass, error)
}

type exitPassRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewExitPassRepository(db database.PgxIface, log *zap.Logger) ExitPassRepository {
	return &exitPassRepository{
		db:  db,
		log: log.With(zap.String("repository", "exit_pass")),
	}
}

const exitPassColumns = `id, queue_entry_id, vehicle_id, license_plate, destination_id, destination_name, seats_used, issued_by, issued_at, prev_license_plate, prev_issued_at`

func scanExitPass(row pgx.Row) (*entity.ExitPass, error) {
	var p entity.ExitPass
	err := row.Scan(
		&p.ID,
		&p.QueueEntryID,
		&p.VehicleID,
		&p.LicensePlate,
		&p.DestinationID,
		&p.DestinationName,
		&p.SeatsUsed,
		&p.IssuedBy,
		&p.IssuedAt,
		&p.PrevLicensePlate,
		&p.PrevIssuedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *exitPassRepository) CreateTx(ctx context.Context, tx database.Tx, pass *entity.ExitPass) error {
	query := `
		INSERT INTO exit_passes (id, queue_entry_id, vehicle_id, license_plate, destination_id, destination_name, seats_used, issued_by, issued_at, prev_license_plate, prev_issued_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := tx.Exec(ctx, query,
		pass.ID,
		pass.QueueEntryID,
		pass.VehicleID,
		pass.LicensePlate,
		pass.DestinationID,
		pass.DestinationName,
		pass.SeatsUsed,
		pass.IssuedBy,
		pass.IssuedAt,
		pass.PrevLicensePlate,
		pass.PrevIssuedAt,
	)

	if err != nil {
		r.log.Error("Failed to create exit pass",
			zap.Error(err),
			zap.String("queue_entry_id", pass.QueueEntryID.String()),
			zap.String("license_plate", pass.LicensePlate),
		)
		return fmt.Errorf("create exit pass for entry %s: %w", pass.QueueEntryID.String(), err)
	}

	return nil
}

func (r *exitPassRepository) ExistsForQueueEntryTx(ctx context.Context, tx database.Tx, queueEntryID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM exit_passes WHERE queue_entry_id = $1)`

	var exists bool
	if err := tx.QueryRow(ctx, query, queueEntryID).Scan(&exists); err != nil {
		r.log.Error("Failed to check exit pass existence",
			zap.Error(err),
			zap.String("queue_entry_id", queueEntryID.String()),
		)
		return false, fmt.Errorf("check exit pass for entry %s: %w", queueEntryID.String(), err)
	}

	return exists, nil
}

// FindLatestByDestinationSinceTx returns the newest exit pass issued for the
// destination at or after `since` (the station-local start of day). Printed
// on the next pass as "previous car" guidance.
func (r *exitPassRepository) FindLatestByDestinationSinceTx(ctx context.Context, tx database.Tx, destinationID string, since time.Time) (*entity.ExitPass, error) {
	query := `
		SELECT ` + exitPassColumns + `
		FROM exit_passes
		WHERE destination_id = $1 AND issued_at >= $2
		ORDER BY issued_at DESC
		LIMIT 1
	`

	pass, err := scanExitPass(tx.QueryRow(ctx, query, destinationID, since))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find latest exit pass",
			zap.Error(err),
			zap.String("destination_id", destinationID),
		)
		return nil, fmt.Errorf("find latest exit pass for %s: %w", destinationID, err)
	}

	return pass, nil
}

func (r *exitPassRepository) ListByDestinationSince(ctx context.Context, destinationID string, since time.Time) ([]*entity.ExitPass, error) {
	query := `
		SELECT ` + exitPassColumns + `
		FROM exit_passes
		WHERE destination_id = $1 AND issued_at >= $2
		ORDER BY issued_at DESC
	`

	rows, err := r.db.Query(ctx, query, destinationID, since)
	if err != nil {
		r.log.Error("Failed to list exit passes",
			zap.Error(err),
			zap.String("destination_id", destinationID),
		)
		return nil, fmt.Errorf("list exit passes for %s: %w", destinationID, err)
	}
	defer rows.Close()

	var passes []*entity.ExitPass
	for rows.Next() {
		pass, err := scanExitPass(rows)
		if err != nil {
			r.log.Error("Failed to scan exit pass row", zap.Error(err))
			return nil, fmt.Errorf("scan exit pass row: %w", err)
		}
		passes = append(passes, pass)
	}

	return passes, nil
}
