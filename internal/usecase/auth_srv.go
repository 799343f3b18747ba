package usecase

import (
	"context"
	"time"

	"station-dispatch/internal/data/entity"
	"station-dispatch/internal/data/repository"
	"station-dispatch/internal/domain"
	"station-dispatch/internal/dto/request"
	"station-dispatch/internal/dto/response"
	"station-dispatch/pkg/utils"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type AuthService interface {
	Login(ctx context.Context, req *request.LoginRequest) (*response.LoginResponse, error)
	Logout(ctx context.Context, token string) error
}

type authService struct {
	repo   *repository.Repository
	config *utils.Config
	log    *zap.Logger
}

func NewAuthService(repo *repository.Repository, config *utils.Config, log *zap.Logger) AuthService {
	return &authService{
		repo:   repo,
		config: config,
		log:    log.With(zap.String("service", "auth")),
	}
}

func (s *authService) Login(ctx context.Context, req *request.LoginRequest) (*response.LoginResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Login validation failed", zap.Any("errors", errs))
		return nil, domain.InvalidStateError{Msg: utils.FormatValidationErrors(errs)}
	}

	staff, err := s.repo.Staff.FindByUsername(ctx, req.Username)
	if err != nil {
		return nil, domain.StorageError{Op: "login", Err: err}
	}
	// Same message for unknown user, inactive account and wrong password.
	if staff == nil || !staff.IsActive {
		return nil, domain.AccessDeniedError{Msg: "username atau password salah"}
	}

	if err := bcrypt.CompareHashAndPassword([]byte(staff.PasswordHash), []byte(req.Password)); err != nil {
		s.log.Warn("Login failed", zap.String("username", req.Username))
		return nil, domain.AccessDeniedError{Msg: "username atau password salah"}
	}

	now := time.Now()
	session := &entity.StaffSession{
		Token:     utils.GenerateSessionToken(),
		StaffID:   staff.ID,
		ExpiresAt: now.Add(time.Duration(s.config.Session.ExpiryHours) * time.Hour),
		CreatedAt: now,
	}
	if err := s.repo.StaffSession.Create(ctx, session); err != nil {
		return nil, domain.StorageError{Op: "login", Err: err}
	}

	s.log.Info("Staff logged in", zap.String("username", staff.Username))
	return &response.LoginResponse{
		Token:       session.Token.String(),
		StaffID:     staff.ID.String(),
		DisplayName: staff.DisplayName,
		ExpiresAt:   session.ExpiresAt,
	}, nil
}

func (s *authService) Logout(ctx context.Context, token string) error {
	if err := s.repo.StaffSession.Delete(ctx, token); err != nil {
		return domain.StorageError{Op: "logout", Err: err}
	}
	return nil
}
