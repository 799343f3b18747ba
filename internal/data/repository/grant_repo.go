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

type DestinationGrantRepository interface {
	Create(ctx context.Context, grant *entity.DestinationGrant) error
	Find(ctx context.Context, vehicleID uuid.UUID, destinationID string) (*entity.DestinationGrant, error)
	ListByVehicle(ctx context.Context, vehicleID uuid.UUID) ([]*entity.DestinationGrant, error)
	Delete(ctx context.Context, vehicleID uuid.UUID, destinationID string) error
}

type destinationGrantRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewDestinationGrantRepository(db database.PgxIface, log *zap.Logger) DestinationGrantRepository {
	return &destinationGrantRepository{
		db:  db,
		log: log.With(zap.String("repository", "destination_grant")),
	}
}

func (r *destinationGrantRepository) Create(ctx context.Context, grant *entity.DestinationGrant) error {
	query := `
		INSERT INTO destination_grants (id, vehicle_id, destination_id, name, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (vehicle_id, destination_id) DO NOTHING
	`

	_, err := r.db.Exec(ctx, query,
		grant.ID,
		grant.VehicleID,
		grant.DestinationID,
		grant.Name,
		grant.CreatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create destination grant",
			zap.Error(err),
			zap.String("vehicle_id", grant.VehicleID.String()),
			zap.String("destination_id", grant.DestinationID),
		)
		return fmt.Errorf("create grant %s/%s: %w", grant.VehicleID.String(), grant.DestinationID, err)
	}

	return nil
}

func (r *destinationGrantRepository) Find(ctx context.Context, vehicleID uuid.UUID, destinationID string) (*entity.DestinationGrant, error) {
	query := `
		SELECT id, vehicle_id, destination_id, name, created_at
		FROM destination_grants
		WHERE vehicle_id = $1 AND destination_id = $2
	`

	var grant entity.DestinationGrant
	err := r.db.QueryRow(ctx, query, vehicleID, destinationID).Scan(
		&grant.ID,
		&grant.VehicleID,
		&grant.DestinationID,
		&grant.Name,
		&grant.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find destination grant",
			zap.Error(err),
			zap.String("vehicle_id", vehicleID.String()),
			zap.String("destination_id", destinationID),
		)
		return nil, fmt.Errorf("find grant %s/%s: %w", vehicleID.String(), destinationID, err)
	}

	return &grant, nil
}

func (r *destinationGrantRepository) ListByVehicle(ctx context.Context, vehicleID uuid.UUID) ([]*entity.DestinationGrant, error) {
	query := `
		SELECT id, vehicle_id, destination_id, name, created_at
		FROM destination_grants
		WHERE vehicle_id = $1
		ORDER BY destination_id
	`

	rows, err := r.db.Query(ctx, query, vehicleID)
	if err != nil {
		r.log.Error("Failed to list grants by vehicle",
			zap.Error(err),
			zap.String("vehicle_id", vehicleID.String()),
		)
		return nil, fmt.Errorf("list grants for vehicle %s: %w", vehicleID.String(), err)
	}
	defer rows.Close()

	var grants []*entity.DestinationGrant
	for rows.Next() {
		var grant entity.DestinationGrant
		err := rows.Scan(
			&grant.ID,
			&grant.VehicleID,
			&grant.DestinationID,
			&grant.Name,
			&grant.CreatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan grant row", zap.Error(err))
			return nil, fmt.Errorf("scan grant row: %w", err)
		}
		grants = append(grants, &grant)
	}

	return grants, nil
}

func (r *destinationGrantRepository) Delete(ctx context.Context, vehicleID uuid.UUID, destinationID string) error {
	query := `DELETE FROM destination_grants WHERE vehicle_id = $1 AND destination_id = $2`

	result, err := r.db.Exec(ctx, query, vehicleID, destinationID)
	if err != nil {
		r.log.Error("Failed to delete destination grant",
			zap.Error(err),
			zap.String("vehicle_id", vehicleID.String()),
			zap.String("destination_id", destinationID),
		)
		return fmt.Errorf("delete grant %s/%s: %w", vehicleID.String(), destinationID, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("grant %s/%s not found", vehicleID.String(), destinationID)
	}

	return nil
}
