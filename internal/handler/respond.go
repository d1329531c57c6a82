// Package handler maps HTTP requests to service operations and service
// results to HTTP responses. Handlers do no business logic themselves.
package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/cankorkmaz/city-hotel-garage/internal/middleware"
	"github.com/cankorkmaz/city-hotel-garage/internal/service"
)

// respond writes a service result with the status implied by its failure
// kind. Successful results are 200 unless the caller overrides with okStatus.
func respond[T any](c echo.Context, res service.Result[T], okStatus ...int) error {
	if res.Success {
		status := http.StatusOK
		if len(okStatus) > 0 {
			status = okStatus[0]
		}
		return c.JSON(status, res)
	}
	return c.JSON(statusFor(res.Kind), res)
}

func statusFor(kind service.FailureKind) int {
	switch kind {
	case service.FailureValidation:
		return http.StatusBadRequest
	case service.FailureUnauthorized:
		return http.StatusUnauthorized
	case service.FailureNotFound:
		return http.StatusNotFound
	case service.FailureConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// pathID parses the :id route parameter. ok is false after a response has
// already been written.
func pathID(c echo.Context) (uint64, bool, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false, c.JSON(http.StatusBadRequest,
			service.FailStatus(service.FailureValidation, "invalid id"))
	}
	return id, true, nil
}

// authUserID reads the authenticated user's id injected by the JWT
// middleware.
func authUserID(c echo.Context) (uint64, bool, error) {
	id, ok := c.Get(middleware.CtxUserID).(uint64)
	if !ok || id == 0 {
		return 0, false, c.JSON(http.StatusUnauthorized,
			service.FailStatus(service.FailureUnauthorized, "authentication required"))
	}
	return id, true, nil
}

// bindJSON decodes the request body. ok is false after a response has already
// been written.
func bindJSON[T any](c echo.Context) (T, bool, error) {
	var req T
	if err := c.Bind(&req); err != nil {
		return req, false, c.JSON(http.StatusBadRequest,
			service.FailStatus(service.FailureValidation, "invalid request body"))
	}
	return req, true, nil
}
