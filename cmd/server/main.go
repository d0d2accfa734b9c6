package main

import (
	"log"
	"net/http"

	_ "authbase/docs" // swagger docs

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"authbase/internal/auth"
	"authbase/internal/cache"
	"authbase/internal/config"
	"authbase/internal/db"
	"authbase/internal/handler"
	"authbase/internal/model"
	"authbase/internal/repository"
	"authbase/internal/router"
	"authbase/internal/service"
)

// @title User Authentication API
// @version 1.0
// @description Sign-up, login, logout and a cookie-gated profile endpoint.
// @host localhost:8080
// @BasePath /
// @schemes http
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	if err := gormDB.AutoMigrate(&model.User{}); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	userRepo := repository.NewUserRepository(gormDB)
	tokenCodec := auth.NewTokenCodec(cfg.TokenSecret)
	sessions := service.NewSessionService(userRepo, tokenCodec, cacheClient)
	userHandler := handler.NewUserHandler(sessions)

	router.Register(e, userHandler, sessions)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
