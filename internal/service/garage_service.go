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

// GarageStore is the persistence surface GarageService needs.
type GarageStore interface {
	GetAll(ctx context.Context) ([]model.Garage, error)
	GetByID(ctx context.Context, id uint64) (*model.Garage, error)
	GetByHotel(ctx context.Context, hotelID uint64) ([]model.Garage, error)
	AvailableSpaces(ctx context.Context, id uint64) (int, error)
	Create(ctx context.Context, g *model.Garage) error
	Update(ctx context.Context, g *model.Garage) error
	Delete(ctx context.Context, id uint64) (bool, error)
}

// GarageService manages hotel garages. Garage data is not cached: occupancy
// changes with every park and a stale available-space count would let a full
// garage accept cars.
type GarageService struct {
	garages GarageStore
	hotels  HotelStore
	events  *queue.Publisher
	log     *slog.Logger
}

func NewGarageService(garages GarageStore, hotels HotelStore, events *queue.Publisher, log *slog.Logger) *GarageService {
	return &GarageService{garages: garages, hotels: hotels, events: events, log: log}
}

type GarageRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Capacity int    `json:"capacity" validate:"required,gt=0"`
	HotelID  uint64 `json:"hotelId" validate:"required,gt=0"`
}

// GarageAvailability reports the free spaces of one garage.
type GarageAvailability struct {
	GarageID        uint64 `json:"garageId"`
	Capacity        int    `json:"capacity"`
	AvailableSpaces int    `json:"availableSpaces"`
}

// GetAll returns every garage.
func (s *GarageService) GetAll(ctx context.Context) Result[[]model.Garage] {
	garages, err := s.garages.GetAll(ctx)
	if err != nil {
		s.log.Error("garage list query failed", "err", err)
		return Fail[[]model.Garage](FailureInternal, "could not retrieve garages")
	}
	return OK(garages, "garages retrieved")
}

// GetByID returns one garage.
func (s *GarageService) GetByID(ctx context.Context, id uint64) Result[model.Garage] {
	garage, err := s.garages.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrGarageNotFound) {
			return Fail[model.Garage](FailureNotFound, "garage not found")
		}
		s.log.Error("garage query failed", "garage_id", id, "err", err)
		return Fail[model.Garage](FailureInternal, "could not retrieve garage")
	}
	return OK(*garage, "garage retrieved")
}

// GetByHotel returns the garages of one hotel. An unknown hotel is a
// not-found, not an empty list.
func (s *GarageService) GetByHotel(ctx context.Context, hotelID uint64) Result[[]model.Garage] {
	if _, err := s.hotels.GetByID(ctx, hotelID); err != nil {
		if errors.Is(err, repository.ErrHotelNotFound) {
			return Fail[[]model.Garage](FailureNotFound, "hotel not found")
		}
		s.log.Error("hotel query failed", "hotel_id", hotelID, "err", err)
		return Fail[[]model.Garage](FailureInternal, "could not retrieve garages")
	}

	garages, err := s.garages.GetByHotel(ctx, hotelID)
	if err != nil {
		s.log.Error("garage hotel query failed", "hotel_id", hotelID, "err", err)
		return Fail[[]model.Garage](FailureInternal, "could not retrieve garages")
	}
	return OK(garages, "garages retrieved")
}

// GetAvailability reports capacity and free spaces for one garage.
func (s *GarageService) GetAvailability(ctx context.Context, id uint64) Result[GarageAvailability] {
	garage, err := s.garages.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrGarageNotFound) {
			return Fail[GarageAvailability](FailureNotFound, "garage not found")
		}
		s.log.Error("garage query failed", "garage_id", id, "err", err)
		return Fail[GarageAvailability](FailureInternal, "could not retrieve garage availability")
	}

	free, err := s.garages.AvailableSpaces(ctx, id)
	if err != nil {
		s.log.Error("garage availability query failed", "garage_id", id, "err", err)
		return Fail[GarageAvailability](FailureInternal, "could not retrieve garage availability")
	}
	return OK(GarageAvailability{GarageID: id, Capacity: garage.Capacity, AvailableSpaces: free},
		"garage availability retrieved")
}

// Create inserts a garage after verifying the hotel exists.
func (s *GarageService) Create(ctx context.Context, req GarageRequest) Result[model.Garage] {
	if errs := validateStruct(req); errs != nil {
		return Fail[model.Garage](FailureValidation, "validation failed", errs...)
	}

	if _, err := s.hotels.GetByID(ctx, req.HotelID); err != nil {
		if errors.Is(err, repository.ErrHotelNotFound) {
			return Fail[model.Garage](FailureNotFound, "hotel not found")
		}
		s.log.Error("hotel query failed", "hotel_id", req.HotelID, "err", err)
		return Fail[model.Garage](FailureInternal, "could not create garage")
	}

	garage := &model.Garage{Name: strings.TrimSpace(req.Name), Capacity: req.Capacity, HotelID: req.HotelID}
	if err := s.garages.Create(ctx, garage); err != nil {
		s.log.Error("garage insert failed", "err", err)
		return Fail[model.Garage](FailureInternal, "could not create garage")
	}

	created, err := s.garages.GetByID(ctx, garage.ID)
	if err != nil {
		s.log.Error("garage reload failed", "garage_id", garage.ID, "err", err)
		return Fail[model.Garage](FailureInternal, "could not create garage")
	}

	s.publish(ctx, queue.ActionCreated, garage.ID)
	s.log.Info("garage created", "garage_id", garage.ID, "name", garage.Name)
	return OK(*created, "garage created")
}

// Update modifies a garage after verifying the target hotel exists. Shrinking
// capacity below the current car count is allowed; the garage just stops
// accepting new cars until occupancy drops.
func (s *GarageService) Update(ctx context.Context, id uint64, req GarageRequest) Result[model.Garage] {
	if errs := validateStruct(req); errs != nil {
		return Fail[model.Garage](FailureValidation, "validation failed", errs...)
	}

	if _, err := s.hotels.GetByID(ctx, req.HotelID); err != nil {
		if errors.Is(err, repository.ErrHotelNotFound) {
			return Fail[model.Garage](FailureNotFound, "hotel not found")
		}
		s.log.Error("hotel query failed", "hotel_id", req.HotelID, "err", err)
		return Fail[model.Garage](FailureInternal, "could not update garage")
	}

	garage := &model.Garage{ID: id, Name: strings.TrimSpace(req.Name), Capacity: req.Capacity, HotelID: req.HotelID}
	if err := s.garages.Update(ctx, garage); err != nil {
		if errors.Is(err, repository.ErrGarageNotFound) {
			return Fail[model.Garage](FailureNotFound, "garage not found")
		}
		s.log.Error("garage update failed", "garage_id", id, "err", err)
		return Fail[model.Garage](FailureInternal, "could not update garage")
	}

	updated, err := s.garages.GetByID(ctx, id)
	if err != nil {
		s.log.Error("garage reload failed", "garage_id", id, "err", err)
		return Fail[model.Garage](FailureInternal, "could not update garage")
	}

	s.publish(ctx, queue.ActionUpdated, id)
	s.log.Info("garage updated", "garage_id", id)
	return OK(*updated, "garage updated")
}

// Delete removes a garage.
func (s *GarageService) Delete(ctx context.Context, id uint64) Status {
	deleted, err := s.garages.Delete(ctx, id)
	if err != nil {
		s.log.Error("garage delete failed", "garage_id", id, "err", err)
		return FailStatus(FailureInternal, "could not delete garage")
	}
	if !deleted {
		return FailStatus(FailureNotFound, "garage not found")
	}

	s.publish(ctx, queue.ActionDeleted, id)
	s.log.Info("garage deleted", "garage_id", id)
	return OKStatus("garage deleted")
}

func (s *GarageService) publish(ctx context.Context, action string, id uint64) {
	_ = s.events.Publish(ctx, queue.NewEntityChanged("garage", action, id))
}
