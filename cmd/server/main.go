package main

import (
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"carmarket/internal/auth"
	"carmarket/internal/cache"
	"carmarket/internal/config"
	"carmarket/internal/db"
	"carmarket/internal/handler"
	"carmarket/internal/model"
	"carmarket/internal/repository"
	"carmarket/internal/router"
	"carmarket/internal/service"
	"carmarket/internal/storage"
)

// @title Car Market API
// @version 1.0
// @description Vehicle classifieds API: accounts, listings, catalog and search.
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	// Drop tables if RESET_DB environment variable is set
	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, dropping all tables...")
		tables := []interface{}{
			&model.CarView{},
			&model.CarFeatureRelation{},
			&model.CarImage{},
			&model.Car{},
			&model.CarFeature{},
			&model.CarModel{},
			&model.Brand{},
			&model.Profile{},
			&model.User{},
		}
		for _, table := range tables {
			if err := gormDB.Migrator().DropTable(table); err != nil {
				log.Printf("Warning: Failed to drop table (may not exist): %v", err)
			}
		}
		log.Println("Tables dropped")
	}

	// Run migrations for all models
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Profile{},
		&model.Brand{},
		&model.CarModel{},
		&model.CarFeature{},
		&model.Car{},
		&model.CarImage{},
		&model.CarFeatureRelation{},
		&model.CarView{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	imageStore, err := storage.NewImageStore(cfg.UploadDir)
	if err != nil {
		log.Fatalf("image store init: %v", err)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	catalogRepo := repository.NewCatalogRepository(gormDB)
	carRepo := repository.NewCarRepository(gormDB)
	imageRepo := repository.NewImageRepository(gormDB)
	viewRepo := repository.NewViewRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	tokenStore := auth.NewTokenStore(cacheClient)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtService, tokenStore)
	userService := service.NewUserService(userRepo)
	catalogService := service.NewCatalogService(catalogRepo, cacheClient)
	carService := service.NewCarService(carRepo, catalogRepo, imageRepo, viewRepo, imageStore, cfg.MinListingYear)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService, carService)
	catalogHandler := handler.NewCatalogHandler(catalogService)
	carHandler := handler.NewCarHandler(carService, jwtService)

	// Register routes
	router.Register(
		e,
		cfg,
		authHandler,
		userHandler,
		catalogHandler,
		carHandler,
	)

	// Log swagger full path
	var swaggerURL string
	if cfg.SwaggerHost != "" {
		// SwaggerHost may already include a scheme
		if strings.HasPrefix(cfg.SwaggerHost, "http://") || strings.HasPrefix(cfg.SwaggerHost, "https://") {
			swaggerURL = cfg.SwaggerHost + "/swagger/index.html"
		} else {
			swaggerURL = "http://" + cfg.SwaggerHost + "/swagger/index.html"
		}
	} else {
		swaggerURL = "http://localhost:" + cfg.ServerPort + "/swagger/index.html"
	}
	log.Printf("Swagger documentation available at: %s", swaggerURL)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
