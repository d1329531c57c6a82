package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cankorkmaz/city-hotel-garage/internal/service"
)

// GarageHandler exposes garage CRUD plus availability and the per-hotel
// listing.
type GarageHandler struct {
	garages *service.GarageService
}

func NewGarageHandler(garages *service.GarageService) *GarageHandler {
	return &GarageHandler{garages: garages}
}

// List handles GET /v1/garages.
func (h *GarageHandler) List(c echo.Context) error {
	return respond(c, h.garages.GetAll(c.Request().Context()))
}

// Get handles GET /v1/garages/:id.
func (h *GarageHandler) Get(c echo.Context) error {
	id, ok, err := pathID(c)
	if !ok {
		return err
	}
	return respond(c, h.garages.GetByID(c.Request().Context(), id))
}

// ListByHotel handles GET /v1/hotels/:id/garages.
func (h *GarageHandler) ListByHotel(c echo.Context) error {
	hotelID, ok, err := pathID(c)
	if !ok {
		return err
	}
	return respond(c, h.garages.GetByHotel(c.Request().Context(), hotelID))
}

// Availability handles GET /v1/garages/:id/availability.
func (h *GarageHandler) Availability(c echo.Context) error {
	id, ok, err := pathID(c)
	if !ok {
		return err
	}
	return respond(c, h.garages.GetAvailability(c.Request().Context(), id))
}

// Create handles POST /v1/garages.
func (h *GarageHandler) Create(c echo.Context) error {
	req, ok, err := bindJSON[service.GarageRequest](c)
	if !ok {
		return err
	}
	return respond(c, h.garages.Create(c.Request().Context(), req), http.StatusCreated)
}

// Update handles PUT /v1/garages/:id.
func (h *GarageHandler) Update(c echo.Context) error {
	id, ok, err := pathID(c)
	if !ok {
		return err
	}
	req, ok, err := bindJSON[service.GarageRequest](c)
	if !ok {
		return err
	}
	return respond(c, h.garages.Update(c.Request().Context(), id, req))
}

// Delete handles DELETE /v1/garages/:id.
func (h *GarageHandler) Delete(c echo.Context) error {
	id, ok, err := pathID(c)
	if !ok {
		return err
	}
	return respond(c, h.garages.Delete(c.Request().Context(), id))
}
