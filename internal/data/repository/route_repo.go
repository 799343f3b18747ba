package repository

import (
	"context"
	"fmt"

	"station-dispatch/internal/data/entity"
	"station-dispatch/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type RouteRepository interface {
	Create(ctx context.Context, route *entity.Route) error
	FindByDestinationID(ctx context.Context, destinationID string) (*entity.Route, error)
	List(ctx context.Context) ([]*entity.Route, error)
}

type routeRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewRouteRepository(db database.PgxIface, log *zap.Logger) RouteRepository {
	return &routeRepository{
		db:  db,
		log: log.With(zap.String("repository", "route")),
	}
}

func (r *routeRepository) Create(ctx context.Context, route *entity.Route) error {
	query := `
		INSERT INTO routes (destination_id, name, base_price, created_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.db.Exec(ctx, query,
		route.DestinationID,
		route.Name,
		route.BasePrice,
		route.CreatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create route",
			zap.Error(err),
			zap.String("destination_id", route.DestinationID),
		)
		return fmt.Errorf("create route %s: %w", route.DestinationID, err)
	}

	return nil
}

func (r *routeRepository) FindByDestinationID(ctx context.Context, destinationID string) (*entity.Route, error) {
	query := `SELECT destination_id, name, base_price, created_at FROM routes WHERE destination_id = $1`

	var route entity.Route
	err := r.db.QueryRow(ctx, query, destinationID).Scan(
		&route.DestinationID,
		&route.Name,
		&route.BasePrice,
		&route.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find route",
			zap.Error(err),
			zap.String("destination_id", destinationID),
		)
		return nil, fmt.Errorf("find route %s: %w", destinationID, err)
	}

	return &route, nil
}

func (r *routeRepository) List(ctx context.Context) ([]*entity.Route, error) {
	query := `SELECT destination_id, name, base_price, created_at FROM routes ORDER BY destination_id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.log.Error("Failed to list routes", zap.Error(err))
		return nil, fmt.Errorf("list routes: %w", err)
	}
	defer rows.Close()

	var routes []*entity.Route
	for rows.Next() {
		var route entity.Route
		err := rows.Scan(
			&route.DestinationID,
			&route.Name,
			&route.BasePrice,
			&route.CreatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan route row", zap.Error(err))
			return nil, fmt.Errorf("scan route row: %w", err)
		}
		routes = append(routes, &route)
	}

	return routes, nil
}
