package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cankorkmaz/city-hotel-garage/internal/service"
)

// HotelHandler exposes hotel CRUD plus the per-city listing.
type HotelHandler struct {
	hotels *service.HotelService
}

func NewHotelHandler(hotels *service.HotelService) *HotelHandler {
	return &HotelHandler{hotels: hotels}
}

// List handles GET /v1/hotels.
func (h *HotelHandler) List(c echo.Context) error {
	return respond(c, h.hotels.GetAll(c.Request().Context()))
}

// Get handles GET /v1/hotels/:id.
func (h *HotelHandler) Get(c echo.Context) error {
	id, ok, err := pathID(c)
	if !ok {
		return err
	}
	return respond(c, h.hotels.GetByID(c.Request().Context(), id))
}

// ListByCity handles GET /v1/cities/:id/hotels.
func (h *HotelHandler) ListByCity(c echo.Context) error {
	cityID, ok, err := pathID(c)
	if !ok {
		return err
	}
	return respond(c, h.hotels.GetByCity(c.Request().Context(), cityID))
}

// Create handles POST /v1/hotels.
func (h *HotelHandler) Create(c echo.Context) error {
	req, ok, err := bindJSON[service.HotelRequest](c)
	if !ok {
		return err
	}
	return respond(c, h.hotels.Create(c.Request().Context(), req), http.StatusCreated)
}

// Update handles PUT /v1/hotels/:id.
func (h *HotelHandler) Update(c echo.Context) error {
	id, ok, err := pathID(c)
	if !ok {
		return err
	}
	req, ok, err := bindJSON[service.HotelRequest](c)
	if !ok {
		return err
	}
	return respond(c, h.hotels.Update(c.Request().Context(), id, req))
}

// Delete handles DELETE /v1/hotels/:id.
func (h *HotelHandler) Delete(c echo.Context) error {
	id, ok, err := pathID(c)
	if !ok {
		return err
	}
	return respond(c, h.hotels.Delete(c.Request().Context(), id))
}
