package repository

import (
	"context"
	"fmt"

	"station-dispatch/internal/data/entity"
	"station-dispatch/pkg/database"

	"go.uber.org/zap"
)

type DayPassRepository interface {
	// InsertIfAbsent attempts the once-per-day insert; created=false means a
	// pass for that vehicle and day already existed.
	InsertIfAbsent(ctx context.Context, pass *entity.DayPass) (created bool, err error)
}

type dayPassRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewDayPassRepository(db database.PgxIface, log *zap.Logger) DayPassRepository {
	return &dayPassRepository{
		db:  db,
		log: log.With(zap.String("repository", "day_pass")),
	}
}

// InsertIfAbsent relies on the unique (vehicle_id, pass_date) index: the
// check-then-act race between concurrent entry decisions collapses into
// whichever insert lands first.
func (r *dayPassRepository) InsertIfAbsent(ctx context.Context, pass *entity.DayPass) (bool, error) {
	query := `
		INSERT INTO day_passes (id, vehicle_id, pass_date, fee, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (vehicle_id, pass_date) DO NOTHING
	`

	result, err := r.db.Exec(ctx, query,
		pass.ID,
		pass.VehicleID,
		pass.PassDate,
		pass.Fee,
		pass.IsActive,
		pass.CreatedAt,
	)

	if err != nil {
		r.log.Error("Failed to insert day pass",
			zap.Error(err),
			zap.String("vehicle_id", pass.VehicleID.String()),
		)
		return false, fmt.Errorf("insert day pass for vehicle %s: %w", pass.VehicleID.String(), err)
	}

	return result.RowsAffected() > 0, nil
}
