// Package repository contains data access logic separated from services and
// HTTP handlers. Sentinel errors let higher layers distinguish failure
// scenarios without inspecting driver errors.
package repository

import "errors"

var (
	// ErrUserNotFound is returned when no user row matches a lookup.
	ErrUserNotFound = errors.New("user not found")
	// ErrCityNotFound is returned when a city cannot be found.
	ErrCityNotFound = errors.New("city not found")
	// ErrHotelNotFound is returned when a hotel cannot be found.
	ErrHotelNotFound = errors.New("hotel not found")
	// ErrGarageNotFound is returned when a garage cannot be found.
	ErrGarageNotFound = errors.New("garage not found")
	// ErrCarNotFound is returned when a car cannot be found.
	ErrCarNotFound = errors.New("car not found")
	// ErrDuplicate is returned when an insert or update violates a unique
	// index (username, email or license plate). The unique index is the
	// actual uniqueness guarantee; service-level pre-checks only exist to
	// produce friendly validation messages.
	ErrDuplicate = errors.New("duplicate value")
)
