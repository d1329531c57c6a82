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

// City cache layout. The paged prefix fans out per page/size/search/sort, so
// invalidation sweeps the whole prefix instead of enumerating keys.
const (
	allCitiesKey     = "cities:all"
	cityByIDKey      = "cities:id:%d"
	citiesPagedKey   = "cities:paged"
	allCitiesTTL     = 4 * time.Hour
	cityByIDTTL      = 2 * time.Hour
	citiesPagedTTL   = 30 * time.Minute
	citiesPatternKey = "cities"
)

// CityStore is the persistence surface CityService needs.
type CityStore interface {
	GetAll(ctx context.Context) ([]model.City, error)
	GetByID(ctx context.Context, id uint64) (*model.City, error)
	Create(ctx context.Context, c *model.City) error
	Update(ctx context.Context, c *model.City) error
	Delete(ctx context.Context, id uint64) (bool, error)
	Search(ctx context.Context, q repository.CitySearch) ([]model.City, int64, error)
}

// CityService serves city reads through the cache and keeps it consistent on
// writes by invalidating every key the changed row could appear under.
type CityService struct {
	cities CityStore
	cache  *cache.Store
	events *queue.Publisher
	log    *slog.Logger
}

func NewCityService(cities CityStore, c *cache.Store, events *queue.Publisher, log *slog.Logger) *CityService {
	c.RegisterPattern(citiesPatternKey, []string{allCitiesKey}, []string{citiesPagedKey + ":"})
	return &CityService{cities: cities, cache: c, events: events, log: log}
}

type CityRequest struct {
	Name       string `json:"name" validate:"required,min=2,max=100"`
	Population int64  `json:"population" validate:"gte=0"`
}

// GetAll returns every city, cached under a single key.
func (s *CityService) GetAll(ctx context.Context) Result[[]model.City] {
	var cached []model.City
	if s.cache.Get(ctx, allCitiesKey, &cached) {
		return OK(cached, "cities retrieved")
	}

	cities, err := s.cities.GetAll(ctx)
	if err != nil {
		s.log.Error("city list query failed", "err", err)
		return Fail[[]model.City](FailureInternal, "could not retrieve cities")
	}
	s.cache.Set(ctx, allCitiesKey, cities, allCitiesTTL)
	return OK(cities, "cities retrieved")
}

// GetByID returns one city, cached per id.
func (s *CityService) GetByID(ctx context.Context, id uint64) Result[model.City] {
	key := fmt.Sprintf(cityByIDKey, id)
	var cached model.City
	if s.cache.Get(ctx, key, &cached) {
		return OK(cached, "city retrieved")
	}

	city, err := s.cities.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCityNotFound) {
			return Fail[model.City](FailureNotFound, "city not found")
		}
		s.log.Error("city query failed", "city_id", id, "err", err)
		return Fail[model.City](FailureInternal, "could not retrieve city")
	}
	s.cache.Set(ctx, key, city, cityByIDTTL)
	return OK(*city, "city retrieved")
}

// GetPaged returns one page of cities matching the search term. Results are
// cached per full parameter set; any city write clears the whole paged space.
func (s *CityService) GetPaged(ctx context.Context, req PagingRequest) Result[PagedResult[model.City]] {
	req = req.Normalize()
	key := req.CacheKey(citiesPagedKey)

	var cached PagedResult[model.City]
	if s.cache.Get(ctx, key, &cached) {
		return OK(cached, "cities retrieved")
	}

	cities, total, err := s.cities.Search(ctx, repository.CitySearch{
		Term:   req.SearchTerm,
		SortBy: req.SortBy,
		Desc:   req.SortDescending,
		Limit:  req.PageSize,
		Offset: req.Offset(),
	})
	if err != nil {
		s.log.Error("city search failed", "err", err)
		return Fail[PagedResult[model.City]](FailureInternal, "could not retrieve cities")
	}

	page := NewPagedResult(cities, req.PageNumber, req.PageSize, int(total))
	s.cache.Set(ctx, key, page, citiesPagedTTL)
	return OK(page, "cities retrieved")
}

// Create inserts a city and invalidates the city cache space.
func (s *CityService) Create(ctx context.Context, req CityRequest) Result[model.City] {
	if errs := validateStruct(req); errs != nil {
		return Fail[model.City](FailureValidation, "validation failed", errs...)
	}

	city := &model.City{Name: strings.TrimSpace(req.Name), Population: req.Population}
	if err := s.cities.Create(ctx, city); err != nil {
		s.log.Error("city insert failed", "err", err)
		return Fail[model.City](FailureInternal, "could not create city")
	}

	s.invalidate(ctx, 0)
	s.publish(ctx, queue.ActionCreated, city.ID)
	s.log.Info("city created", "city_id", city.ID, "name", city.Name)
	return OK(*city, "city created")
}

// Update modifies a city and invalidates the city cache space, including the
// per-id entry.
func (s *CityService) Update(ctx context.Context, id uint64, req CityRequest) Result[model.City] {
	if errs := validateStruct(req); errs != nil {
		return Fail[model.City](FailureValidation, "validation failed", errs...)
	}

	city := &model.City{ID: id, Name: strings.TrimSpace(req.Name), Population: req.Population}
	if err := s.cities.Update(ctx, city); err != nil {
		if errors.Is(err, repository.ErrCityNotFound) {
			return Fail[model.City](FailureNotFound, "city not found")
		}
		s.log.Error("city update failed", "city_id", id, "err", err)
		return Fail[model.City](FailureInternal, "could not update city")
	}

	updated, err := s.cities.GetByID(ctx, id)
	if err != nil {
		s.log.Error("city reload failed", "city_id", id, "err", err)
		return Fail[model.City](FailureInternal, "could not update city")
	}

	s.invalidate(ctx, id)
	s.publish(ctx, queue.ActionUpdated, id)
	s.log.Info("city updated", "city_id", id)
	return OK(*updated, "city updated")
}

// Delete removes a city and invalidates the city cache space.
func (s *CityService) Delete(ctx context.Context, id uint64) Status {
	deleted, err := s.cities.Delete(ctx, id)
	if err != nil {
		s.log.Error("city delete failed", "city_id", id, "err", err)
		return FailStatus(FailureInternal, "could not delete city")
	}
	if !deleted {
		return FailStatus(FailureNotFound, "city not found")
	}

	s.invalidate(ctx, id)
	s.publish(ctx, queue.ActionDeleted, id)
	s.log.Info("city deleted", "city_id", id)
	return OKStatus("city deleted")
}

// invalidate clears the full list, the paged space and, when id > 0, the
// per-id entry.
func (s *CityService) invalidate(ctx context.Context, id uint64) {
	s.cache.RemoveByPattern(ctx, citiesPatternKey)
	if id > 0 {
		s.cache.Remove(ctx, fmt.Sprintf(cityByIDKey, id))
	}
}

func (s *CityService) publish(ctx context.Context, action string, id uint64) {
	_ = s.events.Publish(ctx, queue.NewEntityChanged("city", action, id))
}
