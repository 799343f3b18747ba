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

type StaffRepository interface {
	Create(ctx context.Context, staff *entity.Staff) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Staff, error)
	FindByUsername(ctx context.Context, username string) (*entity.Staff, error)
}

type staffRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewStaffRepository(db database.PgxIface, log *zap.Logger) StaffRepository {
	return &staffRepository{
		db:  db,
		log: log.With(zap.String("repository", "staff")),
	}
}

const staffColumns = `id, username, password_hash, display_name, is_active, created_at, updated_at`

func scanStaff(row pgx.Row) (*entity.Staff, error) {
	var s entity.Staff
	err := row.Scan(
		&s.ID,
		&s.Username,
		&s.PasswordHash,
		&s.DisplayName,
		&s.IsActive,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *staffRepository) Create(ctx context.Context, staff *entity.Staff) error {
	query := `
		INSERT INTO staff (id, username, password_hash, display_name, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.Exec(ctx, query,
		staff.ID,
		staff.Username,
		staff.PasswordHash,
		staff.DisplayName,
		staff.IsActive,
		staff.CreatedAt,
		staff.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create staff",
			zap.Error(err),
			zap.String("username", staff.Username),
		)
		return fmt.Errorf("create staff %s: %w", staff.Username, err)
	}

	return nil
}

func (r *staffRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Staff, error) {
	query := `SELECT ` + staffColumns + ` FROM staff WHERE id = $1`

	staff, err := scanStaff(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find staff by ID",
			zap.Error(err),
			zap.String("staff_id", id.String()),
		)
		return nil, fmt.Errorf("find staff by ID %s: %w", id.String(), err)
	}

	return staff, nil
}

func (r *staffRepository) FindByUsername(ctx context.Context, username string) (*entity.Staff, error) {
	query := `SELECT ` + staffColumns + ` FROM staff WHERE username = $1`

	staff, err := scanStaff(r.db.QueryRow(ctx, query, username))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find staff by username",
			zap.Error(err),
			zap.String("username", username),
		)
		return nil, fmt.Errorf("find staff by username %s: %w", username, err)
	}

	return staff, nil
}
