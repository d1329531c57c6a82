package main

import (
	"log/slog"
	"os"

	"github.com/labstack/echo/v4"

	"github.com/cankorkmaz/city-hotel-garage/internal/cache"
	"github.com/cankorkmaz/city-hotel-garage/internal/config"
	"github.com/cankorkmaz/city-hotel-garage/internal/database"
	"github.com/cankorkmaz/city-hotel-garage/internal/handler"
	"github.com/cankorkmaz/city-hotel-garage/internal/queue"
	"github.com/cankorkmaz/city-hotel-garage/internal/repository"
	"github.com/cankorkmaz/city-hotel-garage/internal/router"
	"github.com/cankorkmaz/city-hotel-garage/internal/service"
)

func main() {
	cfg := config.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		logger.Error("database connection failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	// A nil Redis client yields a disabled cache; the API keeps serving from
	// the database.
	rdb := config.NewRedisClient()
	if rdb == nil {
		logger.Warn("redis unreachable, caching disabled")
	}
	store := cache.NewStore(rdb, logger)

	// Event publishing is optional; without a broker URL writes simply skip it.
	var events *queue.Publisher
	if cfg.AMQPURL != "" {
		events, err = queue.NewPublisher(cfg.AMQPURL, logger)
		if err != nil {
			logger.Warn("event publisher unavailable", "err", err)
			events = nil
		} else {
			defer events.Close()
		}
	}

	userRepo := repository.NewUserRepo(db)
	cityRepo := repository.NewCityRepo(db)
	hotelRepo := repository.NewHotelRepo(db)
	garageRepo := repository.NewGarageRepo(db)
	carRepo := repository.NewCarRepo(db)

	authSvc := service.NewAuthService(userRepo, logger, cfg.JWTSecret,
		cfg.AccessTokenTTL, cfg.RefreshTokenTTL, cfg.BcryptCost)
	citySvc := service.NewCityService(cityRepo, store, events, logger)
	hotelSvc := service.NewHotelService(hotelRepo, cityRepo, store, events, logger)
	garageSvc := service.NewGarageService(garageRepo, hotelRepo, events, logger)
	carSvc := service.NewCarService(carRepo, garageRepo, events, logger)

	e := echo.New()
	e.HideBanner = true
	router.Register(e, router.Handlers{
		Auth:   handler.NewAuthHandler(authSvc),
		City:   handler.NewCityHandler(citySvc),
		Hotel:  handler.NewHotelHandler(hotelSvc),
		Garage: handler.NewGarageHandler(garageSvc),
		Car:    handler.NewCarHandler(carSvc),
	}, cfg.JWTSecret)

	addr := ":" + cfg.Port
	logger.Info("server starting", "addr", addr, "env", cfg.Env)
	if err := e.Start(addr); err != nil {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
}
