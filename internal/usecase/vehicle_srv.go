package usecase

import (
	"context"
	"fmt"
	"time"

	"station-dispatch/internal/data/entity"
	"station-dispatch/internal/data/repository"
	"station-dispatch/internal/domain"
	"station-dispatch/internal/dto/request"
	"station-dispatch/internal/dto/response"
	"station-dispatch/pkg/utils"

	"go.uber.org/zap"
)

type VehicleService interface {
	Register(ctx context.Context, req *request.CreateVehicleRequest) (*response.VehicleResponse, error)
	Get(ctx context.Context, vehicleID string) (*response.VehicleResponse, error)
	List(ctx context.Context, limit, offset int) ([]response.VehicleResponse, error)
	SetBanned(ctx context.Context, vehicleID string, banned bool) error
	SetActive(ctx context.Context, vehicleID string, active bool) error
	Grant(ctx context.Context, vehicleID string, req *request.GrantDestinationRequest) (*response.GrantResponse, error)
	Revoke(ctx context.Context, vehicleID, destinationID string) error
	ListGrants(ctx context.Context, vehicleID string) ([]response.GrantResponse, error)
}

type vehicleService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewVehicleService(repo *repository.Repository, log *zap.Logger) VehicleService {
	return &vehicleService{
		repo: repo,
		log:  log.With(zap.String("service", "vehicle")),
	}
}

func (s *vehicleService) Register(ctx context.Context, req *request.CreateVehicleRequest) (*response.VehicleResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Register vehicle validation failed", zap.Any("errors", errs))
		return nil, domain.InvalidStateError{Msg: utils.FormatValidationErrors(errs)}
	}

	existing, err := s.repo.Vehicle.FindByLicensePlate(ctx, req.LicensePlate)
	if err != nil {
		return nil, domain.StorageError{Op: "register vehicle", Err: err}
	}
	if existing != nil {
		return nil, domain.InvalidStateError{Msg: fmt.Sprintf("plat %s sudah terdaftar", req.LicensePlate)}
	}

	now := time.Now()
	vehicle := &entity.Vehicle{
		LicensePlate:         req.LicensePlate,
		Capacity:             req.Capacity,
		IsActive:             true,
		DefaultDestinationID: req.DefaultDestinationID,
	}
	vehicle.ID = utils.GenerateUUID()
	vehicle.CreatedAt = now
	vehicle.UpdatedAt = now

	if err := s.repo.Vehicle.Create(ctx, vehicle); err != nil {
		return nil, domain.StorageError{Op: "register vehicle", Err: err}
	}

	s.log.Info("Vehicle registered",
		zap.String("license_plate", vehicle.LicensePlate),
		zap.Int("capacity", vehicle.Capacity),
	)
	res := response.VehicleToResponse(vehicle)
	return &res, nil
}

func (s *vehicleService) Get(ctx context.Context, vehicleID string) (*response.VehicleResponse, error) {
	vehicle, err := s.findVehicle(ctx, vehicleID)
	if err != nil {
		return nil, err
	}
	res := response.VehicleToResponse(vehicle)
	return &res, nil
}

func (s *vehicleService) List(ctx context.Context, limit, offset int) ([]response.VehicleResponse, error) {
	vehicles, err := s.repo.Vehicle.List(ctx, limit, offset)
	if err != nil {
		return nil, domain.StorageError{Op: "list vehicles", Err: err}
	}

	result := make([]response.VehicleResponse, 0, len(vehicles))
	for _, v := range vehicles {
		result = append(result, response.VehicleToResponse(v))
	}
	return result, nil
}

func (s *vehicleService) SetBanned(ctx context.Context, vehicleID string, banned bool) error {
	vehicle, err := s.findVehicle(ctx, vehicleID)
	if err != nil {
		return err
	}

	if err := s.repo.Vehicle.SetBanned(ctx, vehicle.ID, banned); err != nil {
		return domain.StorageError{Op: "ban vehicle", Err: err}
	}

	s.log.Info("Vehicle ban flag updated",
		zap.String("license_plate", vehicle.LicensePlate),
		zap.Bool("banned", banned),
	)
	return nil
}

func (s *vehicleService) SetActive(ctx context.Context, vehicleID string, active bool) error {
	vehicle, err := s.findVehicle(ctx, vehicleID)
	if err != nil {
		return err
	}

	if err := s.repo.Vehicle.SetActive(ctx, vehicle.ID, active); err != nil {
		return domain.StorageError{Op: "activate vehicle", Err: err}
	}

	s.log.Info("Vehicle active flag updated",
		zap.String("license_plate", vehicle.LicensePlate),
		zap.Bool("active", active),
	)
	return nil
}

func (s *vehicleService) Grant(ctx context.Context, vehicleID string, req *request.GrantDestinationRequest) (*response.GrantResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, domain.InvalidStateError{Msg: utils.FormatValidationErrors(errs)}
	}

	vehicle, err := s.findVehicle(ctx, vehicleID)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.Grant.Find(ctx, vehicle.ID, req.DestinationID)
	if err != nil {
		return nil, domain.StorageError{Op: "grant destination", Err: err}
	}
	if existing != nil {
		res := response.GrantToResponse(existing)
		return &res, nil
	}

	grant := &entity.DestinationGrant{
		ID:            utils.GenerateUUID(),
		VehicleID:     vehicle.ID,
		DestinationID: req.DestinationID,
		Name:          req.Name,
		CreatedAt:     time.Now(),
	}
	if err := s.repo.Grant.Create(ctx, grant); err != nil {
		return nil, domain.StorageError{Op: "grant destination", Err: err}
	}

	s.log.Info("Destination granted",
		zap.String("license_plate", vehicle.LicensePlate),
		zap.String("destination_id", req.DestinationID),
	)
	res := response.GrantToResponse(grant)
	return &res, nil
}

func (s *vehicleService) Revoke(ctx context.Context, vehicleID, destinationID string) error {
	vehicle, err := s.findVehicle(ctx, vehicleID)
	if err != nil {
		return err
	}

	existing, err := s.repo.Grant.Find(ctx, vehicle.ID, destinationID)
	if err != nil {
		return domain.StorageError{Op: "revoke destination", Err: err}
	}
	if existing == nil {
		return domain.NotFoundError{Resource: "destination grant"}
	}

	if err := s.repo.Grant.Delete(ctx, vehicle.ID, destinationID); err != nil {
		return domain.StorageError{Op: "revoke destination", Err: err}
	}
	return nil
}

func (s *vehicleService) ListGrants(ctx context.Context, vehicleID string) ([]response.GrantResponse, error) {
	vehicle, err := s.findVehicle(ctx, vehicleID)
	if err != nil {
		return nil, err
	}

	grants, err := s.repo.Grant.ListByVehicle(ctx, vehicle.ID)
	if err != nil {
		return nil, domain.StorageError{Op: "list grants", Err: err}
	}

	result := make([]response.GrantResponse, 0, len(grants))
	for _, g := range grants {
		result = append(result, response.GrantToResponse(g))
	}
	return result, nil
}

func (s *vehicleService) findVehicle(ctx context.Context, vehicleID string) (*entity.Vehicle, error) {
	id, err := utils.ParseUUID(vehicleID)
	if err != nil {
		return nil, domain.InvalidStateError{Msg: fmt.Sprintf("invalid vehicle id %q", vehicleID), Err: err}
	}

	vehicle, err := s.repo.Vehicle.FindByID(ctx, id)
	if err != nil {
		return nil, domain.StorageError{Op: "find vehicle", Err: err}
	}
	if vehicle == nil {
		return nil, domain.NotFoundError{Resource: "vehicle"}
	}
	return vehicle, nil
}
