package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cankorkmaz/city-hotel-garage/internal/service"
)

// CityHandler exposes city CRUD plus the paged listing.
type CityHandler struct {
	cities *service.CityService
}

func NewCityHandler(cities *service.CityService) *CityHandler {
	return &CityHandler{cities: cities}
}

// List handles GET /v1/cities.
func (h *CityHandler) List(c echo.Context) error {
	return respond(c, h.cities.GetAll(c.Request().Context()))
}

// ListPaged handles GET /v1/cities/paged with page, pageSize, search, sortBy
// and sortDescending query parameters. Out-of-range paging values are clamped
// rather than rejected.
func (h *CityHandler) ListPaged(c echo.Context) error {
	var req service.PagingRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest,
			service.FailStatus(service.FailureValidation, "invalid query parameters"))
	}
	return respond(c, h.cities.GetPaged(c.Request().Context(), req))
}

// Get handles GET /v1/cities/:id.
func (h *CityHandler) Get(c echo.Context) error {
	id, ok, err := pathID(c)
	if !ok {
		return err
	}
	return respond(c, h.cities.GetByID(c.Request().Context(), id))
}

// Create handles POST /v1/cities.
func (h *CityHandler) Create(c echo.Context) error {
	req, ok, err := bindJSON[service.CityRequest](c)
	if !ok {
		return err
	}
	return respond(c, h.cities.Create(c.Request().Context(), req), http.StatusCreated)
}

// Update handles PUT /v1/cities/:id.
func (h *CityHandler) Update(c echo.Context) error {
	id, ok, err := pathID(c)
	if !ok {
		return err
	}
	req, ok, err := bindJSON[service.CityRequest](c)
	if !ok {
		return err
	}
	return respond(c, h.cities.Update(c.Request().Context(), id, req))
}

// Delete handles DELETE /v1/cities/:id.
func (h *CityHandler) Delete(c echo.Context) error {
	id, ok, err := pathID(c)
	if !ok {
		return err
	}
	return respond(c, h.cities.Delete(c.Request().Context(), id))
}
