package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/cankorkmaz/city-hotel-garage/internal/service"
)

// CarHandler exposes car parking, lookup and removal.
type CarHandler struct {
	cars *service.CarService
}

func NewCarHandler(cars *service.CarService) *CarHandler {
	return &CarHandler{cars: cars}
}

// List handles GET /v1/cars.
func (h *CarHandler) List(c echo.Context) error {
	return respond(c, h.cars.GetAll(c.Request().Context()))
}

// Get handles GET /v1/cars/:id.
func (h *CarHandler) Get(c echo.Context) error {
	id, ok, err := pathID(c)
	if !ok {
		return err
	}
	return respond(c, h.cars.GetByID(c.Request().Context(), id))
}

// GetByPlate handles GET /v1/cars/plate/:plate.
func (h *CarHandler) GetByPlate(c echo.Context) error {
	plate := strings.TrimSpace(c.Param("plate"))
	if plate == "" {
		return c.JSON(http.StatusBadRequest,
			service.FailStatus(service.FailureValidation, "invalid license plate"))
	}
	return respond(c, h.cars.GetByLicensePlate(c.Request().Context(), plate))
}

// Park handles POST /v1/cars.
func (h *CarHandler) Park(c echo.Context) error {
	req, ok, err := bindJSON[service.CarRequest](c)
	if !ok {
		return err
	}
	return respond(c, h.cars.Park(c.Request().Context(), req), http.StatusCreated)
}

// Update handles PUT /v1/cars/:id.
func (h *CarHandler) Update(c echo.Context) error {
	id, ok, err := pathID(c)
	if !ok {
		return err
	}
	req, ok, err := bindJSON[service.CarRequest](c)
	if !ok {
		return err
	}
	return respond(c, h.cars.Update(c.Request().Context(), id, req))
}

// Remove handles DELETE /v1/cars/:id.
func (h *CarHandler) Remove(c echo.Context) error {
	id, ok, err := pathID(c)
	if !ok {
		return err
	}
	return respond(c, h.cars.Remove(c.Request().Context(), id))
}
