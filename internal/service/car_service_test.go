package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/cankorkmaz/city-hotel-garage/internal/model"
	"github.com/cankorkmaz/city-hotel-garage/internal/repository"
)

type carStoreMock struct {
	mock.Mock
}

func (m *carStoreMock) GetAll(ctx context.Context) ([]model.Car, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Car), args.Error(1)
}

func (m *carStoreMock) GetByID(ctx context.Context, id uint64) (*model.Car, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Car), args.Error(1)
}

func (m *carStoreMock) GetByLicensePlate(ctx context.Context, plate string) (*model.Car, error) {
	args := m.Called(ctx, plate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Car), args.Error(1)
}

func (m *carStoreMock) Create(ctx context.Context, c *model.Car) error {
	args := m.Called(ctx, c)
	if args.Error(0) == nil {
		c.ID = 1
		c.CreatedDate = time.Now().UTC()
	}
	return args.Error(0)
}

func (m *carStoreMock) Update(ctx context.Context, c *model.Car) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *carStoreMock) Delete(ctx context.Context, id uint64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

type garageStoreMock struct {
	mock.Mock
}

func (m *garageStoreMock) GetAll(ctx context.Context) ([]model.Garage, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Garage), args.Error(1)
}

func (m *garageStoreMock) GetByID(ctx context.Context, id uint64) (*model.Garage, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Garage), args.Error(1)
}

func (m *garageStoreMock) GetByHotel(ctx context.Context, hotelID uint64) ([]model.Garage, error) {
	args := m.Called(ctx, hotelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Garage), args.Error(1)
}

func (m *garageStoreMock) AvailableSpaces(ctx context.Context, id uint64) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}

func (m *garageStoreMock) Create(ctx context.Context, g *model.Garage) error {
	args := m.Called(ctx, g)
	return args.Error(0)
}

func (m *garageStoreMock) Update(ctx context.Context, g *model.Garage) error {
	args := m.Called(ctx, g)
	return args.Error(0)
}

func (m *garageStoreMock) Delete(ctx context.Context, id uint64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func newTestCarService(cars *carStoreMock, garages *garageStoreMock) *CarService {
	return NewCarService(cars, garages, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func validCarRequest() CarRequest {
	return CarRequest{
		Brand:        "Toyota",
		LicensePlate: "34abc123",
		OwnerName:    "Jane Doe",
		GarageID:     3,
	}
}

func TestPark_Success(t *testing.T) {
	cars := new(carStoreMock)
	garages := new(garageStoreMock)
	garages.On("AvailableSpaces", mock.Anything, uint64(3)).Return(2, nil).Once()
	cars.On("GetByLicensePlate", mock.Anything, "34ABC123").
		Return(nil, repository.ErrCarNotFound).Once()
	cars.On("Create", mock.Anything, mock.MatchedBy(func(c *model.Car) bool {
		return c.LicensePlate == "34ABC123" && c.GarageID == 3
	})).Return(nil).Once()
	cars.On("GetByID", mock.Anything, uint64(1)).
		Return(&model.Car{ID: 1, Brand: "Toyota", LicensePlate: "34ABC123", GarageID: 3, GarageName: "Main"}, nil).Once()

	res := newTestCarService(cars, garages).Park(context.Background(), validCarRequest())

	require.True(t, res.Success)
	assert.Equal(t, "34ABC123", res.Data.LicensePlate)
	cars.AssertExpectations(t)
	garages.AssertExpectations(t)
}

func TestPark_GarageFull(t *testing.T) {
	cars := new(carStoreMock)
	garages := new(garageStoreMock)
	garages.On("AvailableSpaces", mock.Anything, uint64(3)).Return(0, nil).Once()

	res := newTestCarService(cars, garages).Park(context.Background(), validCarRequest())

	assert.False(t, res.Success)
	assert.Equal(t, FailureConflict, res.Kind)
	cars.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestPark_DuplicatePlate(t *testing.T) {
	cars := new(carStoreMock)
	garages := new(garageStoreMock)
	garages.On("AvailableSpaces", mock.Anything, uint64(3)).Return(5, nil).Once()
	cars.On("GetByLicensePlate", mock.Anything, "34ABC123").
		Return(&model.Car{ID: 9, LicensePlate: "34ABC123"}, nil).Once()

	res := newTestCarService(cars, garages).Park(context.Background(), validCarRequest())

	assert.False(t, res.Success)
	assert.Equal(t, FailureConflict, res.Kind)
	cars.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestPark_UnknownGarage(t *testing.T) {
	cars := new(carStoreMock)
	garages := new(garageStoreMock)
	garages.On("AvailableSpaces", mock.Anything, uint64(3)).
		Return(0, repository.ErrGarageNotFound).Once()

	res := newTestCarService(cars, garages).Park(context.Background(), validCarRequest())

	assert.False(t, res.Success)
	assert.Equal(t, FailureNotFound, res.Kind)
}

func TestPark_InsertRaceOnPlate(t *testing.T) {
	cars := new(carStoreMock)
	garages := new(garageStoreMock)
	garages.On("AvailableSpaces", mock.Anything, uint64(3)).Return(1, nil).Once()
	cars.On("GetByLicensePlate", mock.Anything, "34ABC123").
		Return(nil, repository.ErrCarNotFound).Once()
	cars.On("Create", mock.Anything, mock.Anything).Return(repository.ErrDuplicate).Once()

	res := newTestCarService(cars, garages).Park(context.Background(), validCarRequest())

	assert.False(t, res.Success)
	assert.Equal(t, FailureConflict, res.Kind)
	cars.AssertExpectations(t)
}

func TestCarUpdate_MovingChecksTargetGarage(t *testing.T) {
	cars := new(carStoreMock)
	garages := new(garageStoreMock)
	cars.On("GetByID", mock.Anything, uint64(1)).
		Return(&model.Car{ID: 1, LicensePlate: "34ABC123", GarageID: 3}, nil).Once()
	garages.On("AvailableSpaces", mock.Anything, uint64(4)).Return(0, nil).Once()

	req := validCarRequest()
	req.GarageID = 4
	res := newTestCarService(cars, garages).Update(context.Background(), 1, req)

	assert.False(t, res.Success)
	assert.Equal(t, FailureConflict, res.Kind)
	cars.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestGarageAvailability(t *testing.T) {
	garages := new(garageStoreMock)
	garages.On("GetByID", mock.Anything, uint64(3)).
		Return(&model.Garage{ID: 3, Name: "Main", Capacity: 10}, nil).Once()
	garages.On("AvailableSpaces", mock.Anything, uint64(3)).Return(4, nil).Once()

	hotels := new(hotelStoreMock)
	svc := NewGarageService(garages, hotels, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	res := svc.GetAvailability(context.Background(), 3)

	require.True(t, res.Success)
	assert.Equal(t, 10, res.Data.Capacity)
	assert.Equal(t, 4, res.Data.AvailableSpaces)
	garages.AssertExpectations(t)
}
