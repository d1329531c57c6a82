package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/cankorkmaz/city-hotel-garage/internal/model"
	"github.com/cankorkmaz/city-hotel-garage/internal/queue"
	"github.com/cankorkmaz/city-hotel-garage/internal/repository"
)

// CarStore is the persistence surface CarService needs.
type CarStore interface {
	GetAll(ctx context.Context) ([]model.Car, error)
	GetByID(ctx context.Context, id uint64) (*model.Car, error)
	GetByLicensePlate(ctx context.Context, plate string) (*model.Car, error)
	Create(ctx context.Context, c *model.Car) error
	Update(ctx context.Context, c *model.Car) error
	Delete(ctx context.Context, id uint64) (bool, error)
}

// CarService manages parked cars. Parking enforces garage capacity and
// system-wide plate uniqueness; the capacity check is a best-effort precheck
// and the plate check is ultimately backed by the unique index on the plate
// column.
type CarService struct {
	cars    CarStore
	garages GarageStore
	events  *queue.Publisher
	log     *slog.Logger
}

func NewCarService(cars CarStore, garages GarageStore, events *queue.Publisher, log *slog.Logger) *CarService {
	return &CarService{cars: cars, garages: garages, events: events, log: log}
}

type CarRequest struct {
	Brand        string `json:"brand" validate:"required,min=2,max=50"`
	LicensePlate string `json:"licensePlate" validate:"required,min=2,max=20"`
	OwnerName    string `json:"ownerName" validate:"required,min=2,max=100"`
	GarageID     uint64 `json:"garageId" validate:"required,gt=0"`
}

// GetAll returns every parked car.
func (s *CarService) GetAll(ctx context.Context) Result[[]model.Car] {
	cars, err := s.cars.GetAll(ctx)
	if err != nil {
		s.log.Error("car list query failed", "err", err)
		return Fail[[]model.Car](FailureInternal, "could not retrieve cars")
	}
	return OK(cars, "cars retrieved")
}

// GetByID returns one car.
func (s *CarService) GetByID(ctx context.Context, id uint64) Result[model.Car] {
	car, err := s.cars.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCarNotFound) {
			return Fail[model.Car](FailureNotFound, "car not found")
		}
		s.log.Error("car query failed", "car_id", id, "err", err)
		return Fail[model.Car](FailureInternal, "could not retrieve car")
	}
	return OK(*car, "car retrieved")
}

// GetByLicensePlate looks up a car by its plate, case-insensitively.
func (s *CarService) GetByLicensePlate(ctx context.Context, plate string) Result[model.Car] {
	car, err := s.cars.GetByLicensePlate(ctx, plate)
	if err != nil {
		if errors.Is(err, repository.ErrCarNotFound) {
			return Fail[model.Car](FailureNotFound, "car not found")
		}
		s.log.Error("car plate query failed", "err", err)
		return Fail[model.Car](FailureInternal, "could not retrieve car")
	}
	return OK(*car, "car retrieved")
}

// Park places a car into a garage. The garage must exist and have a free
// space, and the plate must not already be parked anywhere.
func (s *CarService) Park(ctx context.Context, req CarRequest) Result[model.Car] {
	if errs := validateStruct(req); errs != nil {
		return Fail[model.Car](FailureValidation, "validation failed", errs...)
	}

	free, err := s.garages.AvailableSpaces(ctx, req.GarageID)
	if err != nil {
		if errors.Is(err, repository.ErrGarageNotFound) {
			return Fail[model.Car](FailureNotFound, "garage not found")
		}
		s.log.Error("garage availability query failed", "garage_id", req.GarageID, "err", err)
		return Fail[model.Car](FailureInternal, "could not park car")
	}
	if free <= 0 {
		return Fail[model.Car](FailureConflict, "garage is full")
	}

	plate := strings.ToUpper(strings.TrimSpace(req.LicensePlate))
	if _, err := s.cars.GetByLicensePlate(ctx, plate); err == nil {
		return Fail[model.Car](FailureConflict, "a car with this license plate is already parked")
	} else if !errors.Is(err, repository.ErrCarNotFound) {
		s.log.Error("car plate query failed", "err", err)
		return Fail[model.Car](FailureInternal, "could not park car")
	}

	car := &model.Car{
		Brand:        strings.TrimSpace(req.Brand),
		LicensePlate: plate,
		OwnerName:    strings.TrimSpace(req.OwnerName),
		GarageID:     req.GarageID,
	}
	if err := s.cars.Create(ctx, car); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return Fail[model.Car](FailureConflict, "a car with this license plate is already parked")
		}
		s.log.Error("car insert failed", "err", err)
		return Fail[model.Car](FailureInternal, "could not park car")
	}

	created, err := s.cars.GetByID(ctx, car.ID)
	if err != nil {
		s.log.Error("car reload failed", "car_id", car.ID, "err", err)
		return Fail[model.Car](FailureInternal, "could not park car")
	}

	s.publish(ctx, queue.ActionCreated, car.ID)
	s.log.Info("car parked", "car_id", car.ID, "garage_id", car.GarageID)
	return OK(*created, "car parked")
}

// Update modifies a car. Moving it to another garage re-checks that garage's
// free space.
func (s *CarService) Update(ctx context.Context, id uint64, req CarRequest) Result[model.Car] {
	if errs := validateStruct(req); errs != nil {
		return Fail[model.Car](FailureValidation, "validation failed", errs...)
	}

	current, err := s.cars.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCarNotFound) {
			return Fail[model.Car](FailureNotFound, "car not found")
		}
		s.log.Error("car query failed", "car_id", id, "err", err)
		return Fail[model.Car](FailureInternal, "could not update car")
	}

	if req.GarageID != current.GarageID {
		free, err := s.garages.AvailableSpaces(ctx, req.GarageID)
		if err != nil {
			if errors.Is(err, repository.ErrGarageNotFound) {
				return Fail[model.Car](FailureNotFound, "garage not found")
			}
			s.log.Error("garage availability query failed", "garage_id", req.GarageID, "err", err)
			return Fail[model.Car](FailureInternal, "could not update car")
		}
		if free <= 0 {
			return Fail[model.Car](FailureConflict, "garage is full")
		}
	}

	car := &model.Car{
		ID:           id,
		Brand:        strings.TrimSpace(req.Brand),
		LicensePlate: strings.ToUpper(strings.TrimSpace(req.LicensePlate)),
		OwnerName:    strings.TrimSpace(req.OwnerName),
		GarageID:     req.GarageID,
	}
	if err := s.cars.Update(ctx, car); err != nil {
		switch {
		case errors.Is(err, repository.ErrCarNotFound):
			return Fail[model.Car](FailureNotFound, "car not found")
		case errors.Is(err, repository.ErrDuplicate):
			return Fail[model.Car](FailureConflict, "a car with this license plate is already parked")
		}
		s.log.Error("car update failed", "car_id", id, "err", err)
		return Fail[model.Car](FailureInternal, "could not update car")
	}

	updated, err := s.cars.GetByID(ctx, id)
	if err != nil {
		s.log.Error("car reload failed", "car_id", id, "err", err)
		return Fail[model.Car](FailureInternal, "could not update car")
	}

	s.publish(ctx, queue.ActionUpdated, id)
	s.log.Info("car updated", "car_id", id)
	return OK(*updated, "car updated")
}

// Remove takes a car out of its garage, freeing a space.
func (s *CarService) Remove(ctx context.Context, id uint64) Status {
	deleted, err := s.cars.Delete(ctx, id)
	if err != nil {
		s.log.Error("car delete failed", "car_id", id, "err", err)
		return FailStatus(FailureInternal, "could not remove car")
	}
	if !deleted {
		return FailStatus(FailureNotFound, "car not found")
	}

	s.publish(ctx, queue.ActionDeleted, id)
	s.log.Info("car removed", "car_id", id)
	return OKStatus("car removed")
}

func (s *CarService) publish(ctx context.Context, action string, id uint64) {
	_ = s.events.Publish(ctx, queue.NewEntityChanged("car", action, id))
}
