package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cankorkmaz/city-hotel-garage/internal/cache"
	"github.com/cankorkmaz/city-hotel-garage/internal/model"
	"github.com/cankorkmaz/city-hotel-garage/internal/queue"
	"github.com/cankorkmaz/city-hotel-garage/internal/repository"
)

const (
	allHotelsKey     = "hotels:all"
	hotelByIDKey     = "hotels:id:%d"
	hotelsByCityKey  = "hotels:city:%d"
	allHotelsTTL     = 45 * time.Minute
	hotelByIDTTL     = time.Hour
	hotelsByCityTTL  = 30 * time.Minute
	hotelsPatternKey = "hotels"
)

// HotelStore is the persistence surface HotelService needs.
type HotelStore interface {
	GetAll(ctx context.Context) ([]model.Hotel, error)
	GetByID(ctx context.Context, id uint64) (*model.Hotel, error)
	GetByCity(ctx context.Context, cityID uint64) ([]model.Hotel, error)
	Create(ctx context.Context, h *model.Hotel) error
	Update(ctx context.Context, h *model.Hotel) error
	Delete(ctx context.Context, id uint64) (bool, error)
}

// HotelService serves hotel reads through the cache. Hotel rows embed their
// city name, so the per-city listing key is part of the swept pattern too.
type HotelService struct {
	hotels HotelStore
	cities CityStore
	cache  *cache.Store
	events *queue.Publisher
	log    *slog.Logger
}

func NewHotelService(hotels HotelStore, cities CityStore, c *cache.Store, events *queue.Publisher, log *slog.Logger) *HotelService {
	c.RegisterPattern(hotelsPatternKey, []string{allHotelsKey}, []string{"hotels:city:", "hotels:id:"})
	return &HotelService{hotels: hotels, cities: cities, cache: c, events: events, log: log}
}

type HotelRequest struct {
	Name   string `json:"name" validate:"required,min=2,max=100"`
	Stars  int    `json:"stars" validate:"gte=1,lte=5"`
	CityID uint64 `json:"cityId" validate:"required,gt=0"`
}

// GetAll returns every hotel, cached under a single key.
func (s *HotelService) GetAll(ctx context.Context) Result[[]model.Hotel] {
	var cached []model.Hotel
	if s.cache.Get(ctx, allHotelsKey, &cached) {
		return OK(cached, "hotels retrieved")
	}

	hotels, err := s.hotels.GetAll(ctx)
	if err != nil {
		s.log.Error("hotel list query failed", "err", err)
		return Fail[[]model.Hotel](FailureInternal, "could not retrieve hotels")
	}
	s.cache.Set(ctx, allHotelsKey, hotels, allHotelsTTL)
	return OK(hotels, "hotels retrieved")
}

// GetByID returns one hotel, cached per id.
func (s *HotelService) GetByID(ctx context.Context, id uint64) Result[model.Hotel] {
	key := fmt.Sprintf(hotelByIDKey, id)
	var cached model.Hotel
	if s.cache.Get(ctx, key, &cached) {
		return OK(cached, "hotel retrieved")
	}

	hotel, err := s.hotels.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrHotelNotFound) {
			return Fail[model.Hotel](FailureNotFound, "hotel not found")
		}
		s.log.Error("hotel query failed", "hotel_id", id, "err", err)
		return Fail[model.Hotel](FailureInternal, "could not retrieve hotel")
	}
	s.cache.Set(ctx, key, hotel, hotelByIDTTL)
	return OK(*hotel, "hotel retrieved")
}

// GetByCity returns the hotels of one city, cached per city. An unknown city
// is a not-found, not an empty list.
func (s *HotelService) GetByCity(ctx context.Context, cityID uint64) Result[[]model.Hotel] {
	key := fmt.Sprintf(hotelsByCityKey, cityID)
	var cached []model.Hotel
	if s.cache.Get(ctx, key, &cached) {
		return OK(cached, "hotels retrieved")
	}

	if _, err := s.cities.GetByID(ctx, cityID); err != nil {
		if errors.Is(err, repository.ErrCityNotFound) {
			return Fail[[]model.Hotel](FailureNotFound, "city not found")
		}
		s.log.Error("city query failed", "city_id", cityID, "err", err)
		return Fail[[]model.Hotel](FailureInternal, "could not retrieve hotels")
	}

	hotels, err := s.hotels.GetByCity(ctx, cityID)
	if err != nil {
		s.log.Error("hotel city query failed", "city_id", cityID, "err", err)
		return Fail[[]model.Hotel](FailureInternal, "could not retrieve hotels")
	}
	s.cache.Set(ctx, key, hotels, hotelsByCityTTL)
	return OK(hotels, "hotels retrieved")
}

// Create inserts a hotel after verifying the city exists.
func (s *HotelService) Create(ctx context.Context, req HotelRequest) Result[model.Hotel] {
	if errs := validateStruct(req); errs != nil {
		return Fail[model.Hotel](FailureValidation, "validation failed", errs...)
	}

	if _, err := s.cities.GetByID(ctx, req.CityID); err != nil {
		if errors.Is(err, repository.ErrCityNotFound) {
			return Fail[model.Hotel](FailureNotFound, "city not found")
		}
		s.log.Error("city query failed", "city_id", req.CityID, "err", err)
		return Fail[model.Hotel](FailureInternal, "could not create hotel")
	}

	hotel := &model.Hotel{Name: strings.TrimSpace(req.Name), Stars: req.Stars, CityID: req.CityID}
	if err := s.hotels.Create(ctx, hotel); err != nil {
		s.log.Error("hotel insert failed", "err", err)
		return Fail[model.Hotel](FailureInternal, "could not create hotel")
	}

	created, err := s.hotels.GetByID(ctx, hotel.ID)
	if err != nil {
		s.log.Error("hotel reload failed", "hotel_id", hotel.ID, "err", err)
		return Fail[model.Hotel](FailureInternal, "could not create hotel")
	}

	s.cache.RemoveByPattern(ctx, hotelsPatternKey)
	s.publish(ctx, queue.ActionCreated, hotel.ID)
	s.log.Info("hotel created", "hotel_id", hotel.ID, "name", hotel.Name)
	return OK(*created, "hotel created")
}

// Update modifies a hotel after verifying the target city exists.
func (s *HotelService) Update(ctx context.Context, id uint64, req HotelRequest) Result[model.Hotel] {
	if errs := validateStruct(req); errs != nil {
		return Fail[model.Hotel](FailureValidation, "validation failed", errs...)
	}

	if _, err := s.cities.GetByID(ctx, req.CityID); err != nil {
		if errors.Is(err, repository.ErrCityNotFound) {
			return Fail[model.Hotel](FailureNotFound, "city not found")
		}
		s.log.Error("city query failed", "city_id", req.CityID, "err", err)
		return Fail[model.Hotel](FailureInternal, "could not update hotel")
	}

	hotel := &model.Hotel{ID: id, Name: strings.TrimSpace(req.Name), Stars: req.Stars, CityID: req.CityID}
	if err := s.hotels.Update(ctx, hotel); err != nil {
		if errors.Is(err, repository.ErrHotelNotFound) {
			return Fail[model.Hotel](FailureNotFound, "hotel not found")
		}
		s.log.Error("hotel update failed", "hotel_id", id, "err", err)
		return Fail[model.Hotel](FailureInternal, "could not update hotel")
	}

	updated, err := s.hotels.GetByID(ctx, id)
	if err != nil {
		s.log.Error("hotel reload failed", "hotel_id", id, "err", err)
		return Fail[model.Hotel](FailureInternal, "could not update hotel")
	}

	s.cache.RemoveByPattern(ctx, hotelsPatternKey)
	s.publish(ctx, queue.ActionUpdated, id)
	s.log.Info("hotel updated", "hotel_id", id)
	return OK(*updated, "hotel updated")
}

// Delete removes a hotel.
func (s *HotelService) Delete(ctx context.Context, id uint64) Status {
	deleted, err := s.hotels.Delete(ctx, id)
	if err != nil {
		s.log.Error("hotel delete failed", "hotel_id", id, "err", err)
		return FailStatus(FailureInternal, "could not delete hotel")
	}
	if !deleted {
		return FailStatus(FailureNotFound, "hotel not found")
	}

	s.cache.RemoveByPattern(ctx, hotelsPatternKey)
	s.publish(ctx, queue.ActionDeleted, id)
	s.log.Info("hotel deleted", "hotel_id", id)
	return OKStatus("hotel deleted")
}

func (s *HotelService) publish(ctx context.Context, action string, id uint64) {
	_ = s.events.Publish(ctx, queue.NewEntityChanged("hotel", action, id))
}
