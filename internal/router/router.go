package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"carmarket/internal/config"
	"carmarket/internal/handler"
	"carmarket/internal/model"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	catalogHandler *handler.CatalogHandler,
	carHandler *handler.CarHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	e.Validator = NewValidator()

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// Uploaded listing images and brand logos
	e.Static("/media", cfg.UploadDir)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/refresh", authHandler.Refresh)
	api.POST("/auth/logout", authHandler.Logout)

	api.GET("/catalog/brands", catalogHandler.ListBrands)
	api.GET("/catalog/brands/:id/models", catalogHandler.ListModels)
	api.GET("/catalog/features", catalogHandler.ListFeatures)

	api.GET("/cars", carHandler.Search)
	api.GET("/cars/:id", carHandler.Get)
	api.GET("/users/:id", userHandler.GetProfile)

	// Secured routes (require JWT authentication)
	secured := api.Group("", echojwt.WithConfig(echojwt.Config{
		SigningKey: []byte(cfg.JWTSecret),
	}))

	secured.GET("/me", userHandler.Me)
	secured.PUT("/me/profile", userHandler.UpdateProfile)
	secured.GET("/me/cars", userHandler.MyCars)

	secured.POST("/cars", carHandler.Create)
	secured.PUT("/cars/:id", carHandler.Update)
	secured.DELETE("/cars/:id", carHandler.Delete)
	secured.POST("/cars/:id/images", carHandler.UploadImages)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator builds the request validator with the project's custom rules.
func NewValidator() *CustomValidator {
	v := validator.New()
	// phone mirrors the profile/contact phone format rule
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return model.ValidPhone(fl.Field().String())
	})
	return &CustomValidator{validator: v}
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
