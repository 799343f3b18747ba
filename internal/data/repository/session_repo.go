package repository

import (
	"context"
	"fmt"

	"station-dispatch/internal/data/entity"
	"station-dispatch/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type StaffSessionRepository interface {
	Create(ctx context.Context, session *entity.StaffSession) error
	FindValidSession(ctx context.Context, token string) (*entity.StaffSession, error)
	Delete(ctx context.Context, token string) error
}

type staffSessionRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewStaffSessionRepository(db database.PgxIface, log *zap.Logger) StaffSessionRepository {
	return &staffSessionRepository{
		db:  db,
		log: log.With(zap.String("repository", "staff_session")),
	}
}

func (r *staffSessionRepository) Create(ctx context.Context, session *entity.StaffSession) error {
	query := `
		INSERT INTO staff_sessions (token, staff_id, expires_at, created_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.db.Exec(ctx, query,
		session.Token,
		session.StaffID,
		session.ExpiresAt,
		session.CreatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create staff session",
			zap.Error(err),
			zap.String("staff_id", session.StaffID.String()),
		)
		return fmt.Errorf("create session for staff %s: %w", session.StaffID.String(), err)
	}

	return nil
}

func (r *staffSessionRepository) FindValidSession(ctx context.Context, token string) (*entity.StaffSession, error) {
	query := `
		SELECT token, staff_id, expires_at, created_at
		FROM staff_sessions
		WHERE token = $1 AND expires_at > NOW()
	`

	var session entity.StaffSession
	err := r.db.QueryRow(ctx, query, token).Scan(
		&session.Token,
		&session.StaffID,
		&session.ExpiresAt,
		&session.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find session", zap.Error(err))
		return nil, fmt.Errorf("find session: %w", err)
	}

	return &session, nil
}

func (r *staffSessionRepository) Delete(ctx context.Context, token string) error {
	query := `DELETE FROM staff_sessions WHERE token = $1`

	result, err := r.db.Exec(ctx, query, token)
	if err != nil {
		r.log.Error("Failed to delete session", zap.Error(err))
		return fmt.Errorf("delete session: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("session not found")
	}

	return nil
}
