// Package router wires handlers and middleware onto the Echo instance.
package router

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/cankorkmaz/city-hotel-garage/internal/handler"
	"github.com/cankorkmaz/city-hotel-garage/internal/middleware"
	"github.com/cankorkmaz/city-hotel-garage/internal/model"
)

// Handlers bundles every handler the router mounts.
type Handlers struct {
	Auth   *handler.AuthHandler
	City   *handler.CityHandler
	Hotel  *handler.HotelHandler
	Garage *handler.GarageHandler
	Car    *handler.CarHandler
}

// Register mounts all routes. Reads are public; mutations require a valid
// token, and entity mutations additionally require the Admin or Manager role.
func Register(e *echo.Echo, h Handlers, jwtSecret string) {
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())

	e.GET("/healthz", handler.Health)

	// Session establishment and refresh cannot carry a valid access token,
	// so these stay outside the JWT group.
	authGroup := e.Group("/v1/auth")
	authGroup.POST("/register", h.Auth.Register)
	authGroup.POST("/login", h.Auth.Login)
	authGroup.POST("/refresh", h.Auth.Refresh)

	session := e.Group("/v1/auth")
	session.Use(middleware.JWTAuth(jwtSecret))
	session.POST("/logout", h.Auth.Logout)
	session.POST("/change-password", h.Auth.ChangePassword)
	session.GET("/profile", h.Auth.Profile)

	// Public browse endpoints.
	e.GET("/v1/cities", h.City.List)
	e.GET("/v1/cities/paged", h.City.ListPaged)
	e.GET("/v1/cities/:id", h.City.Get)
	e.GET("/v1/cities/:id/hotels", h.Hotel.ListByCity)
	e.GET("/v1/hotels", h.Hotel.List)
	e.GET("/v1/hotels/:id", h.Hotel.Get)
	e.GET("/v1/hotels/:id/garages", h.Garage.ListByHotel)
	e.GET("/v1/garages", h.Garage.List)
	e.GET("/v1/garages/:id", h.Garage.Get)
	e.GET("/v1/garages/:id/availability", h.Garage.Availability)
	e.GET("/v1/cars", h.Car.List)
	e.GET("/v1/cars/:id", h.Car.Get)
	e.GET("/v1/cars/plate/:plate", h.Car.GetByPlate)

	// Entity mutations are restricted to staff roles.
	staff := e.Group("/v1")
	staff.Use(middleware.JWTAuth(jwtSecret))
	staff.Use(middleware.RequireRole(model.RoleAdmin, model.RoleManager))
	staff.POST("/cities", h.City.Create)
	staff.PUT("/cities/:id", h.City.Update)
	staff.DELETE("/cities/:id", h.City.Delete)
	staff.POST("/hotels", h.Hotel.Create)
	staff.PUT("/hotels/:id", h.Hotel.Update)
	staff.DELETE("/hotels/:id", h.Hotel.Delete)
	staff.POST("/garages", h.Garage.Create)
	staff.PUT("/garages/:id", h.Garage.Update)
	staff.DELETE("/garages/:id", h.Garage.Delete)
	staff.POST("/cars", h.Car.Park)
	staff.PUT("/cars/:id", h.Car.Update)
	staff.DELETE("/cars/:id", h.Car.Remove)
}
