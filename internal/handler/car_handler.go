package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"carmarket/internal/auth"
	"carmarket/internal/model"
	"carmarket/internal/repository"
	"carmarket/internal/service"
)

// CarHandler handles listing endpoints.
type CarHandler struct {
	carService service.CarService
	jwtService *auth.JWTService
}

// NewCarHandler creates a new listing handler. The JWT service is used to
// pick up an optional viewer identity on the public detail endpoint.
func NewCarHandler(carService service.CarService, jwtService *auth.JWTService) *CarHandler {
	return &CarHandler{carService: carService, jwtService: jwtService}
}

// CarRequest represents a listing form submission.
type CarRequest struct {
	BrandID      uint            `json:"brand_id" validate:"required"`
	ModelID      uint            `json:"model_id" validate:"required"`
	Year         int             `json:"year" validate:"required"`
	BodyType     string          `json:"body_type" validate:"required"`
	FuelType     string          `json:"fuel_type" validate:"required"`
	EngineVolume decimal.Decimal `json:"engine_volume" validate:"required"`
	EnginePower  int             `json:"engine_power"`
	Transmission string          `json:"transmission" validate:"required"`
	DriveType    string          `json:"drive_type" validate:"required"`
	Mileage      int             `json:"mileage"`
	Condition    string          `json:"condition" validate:"required"`
	Price        decimal.Decimal `json:"price" validate:"required"`
	IsNegotiable bool            `json:"is_negotiable"`
	Color        string          `json:"color" validate:"required,max=50"`
	VIN          string          `json:"vin" validate:"omitempty,max=17"`
	LicensePlate string          `json:"license_plate" validate:"omitempty,max=20"`
	Description  string          `json:"description" validate:"required"`
	Location     string          `json:"location" validate:"required,max=100"`
	ContactPhone string          `json:"contact_phone" validate:"required,phone"`
	Status       string          `json:"status" validate:"omitempty"`
	FeatureIDs   []uint          `json:"feature_ids"`
}

// SearchRequest carries the optional, conjunctive search filters.
type SearchRequest struct {
	Query        string           `query:"q"`
	BrandID      uint             `query:"brand"`
	ModelID      uint             `query:"model"`
	YearFrom     *int             `query:"year_from"`
	YearTo       *int             `query:"year_to"`
	PriceFrom    *decimal.Decimal `query:"price_from"`
	PriceTo      *decimal.Decimal `query:"price_to"`
	BodyType     string           `query:"body_type"`
	FuelType     string           `query:"fuel_type"`
	Transmission string           `query:"transmission"`
	Condition    string           `query:"condition"`
	Page         int              `query:"page"`
	PerPage      int              `query:"per_page"`
}

// CarDetailResponse is a listing plus its resolved display image.
type CarDetailResponse struct {
	model.Car
	MainImage *model.CarImage `json:"main_image,omitempty"`
}

func (r *CarRequest) toInput() service.ListingInput {
	return service.ListingInput{
		BrandID:      r.BrandID,
		ModelID:      r.ModelID,
		Year:         r.Year,
		BodyType:     model.BodyType(r.BodyType),
		FuelType:     model.FuelType(r.FuelType),
		EngineVolume: r.EngineVolume,
		EnginePower:  r.EnginePower,
		Transmission: model.Transmission(r.Transmission),
		DriveType:    model.DriveType(r.DriveType),
		Mileage:      r.Mileage,
		Condition:    model.Condition(r.Condition),
		Price:        r.Price,
		IsNegotiable: r.IsNegotiable,
		Color:        r.Color,
		VIN:          r.VIN,
		LicensePlate: r.LicensePlate,
		Description:  r.Description,
		Location:     r.Location,
		ContactPhone: r.ContactPhone,
		Status:       model.ListingStatus(r.Status),
		FeatureIDs:   r.FeatureIDs,
	}
}

// Create godoc
// @Summary Create a listing
// @Tags cars
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CarRequest true "Listing form"
// @Success 201 {object} model.Car
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /cars [post]
func (h *CarHandler) Create(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req CarRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	car, err := h.carService.Submit(c.Request().Context(), userID, req.toInput())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, car)
}

// Update godoc
// @Summary Edit an owned listing
// @Tags cars
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Listing ID"
// @Param request body CarRequest true "Listing form"
// @Success 200 {object} model.Car
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /cars/{id} [put]
func (h *CarHandler) Update(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	carID, err := pathID(c)
	if err != nil {
		return err
	}

	var req CarRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	car, err := h.carService.Edit(c.Request().Context(), carID, userID, req.toInput())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, car)
}

// Delete godoc
// @Summary Delete an owned listing
// @Tags cars
// @Security BearerAuth
// @Param id path int true "Listing ID"
// @Success 204
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /cars/{id} [delete]
func (h *CarHandler) Delete(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	carID, err := pathID(c)
	if err != nil {
		return err
	}

	if err := h.carService.Delete(c.Request().Context(), carID, userID); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Get godoc
// @Summary View a listing
// @Description Records the view (anonymous viewers count too) and returns the listing.
// @Tags cars
// @Produce json
// @Param id path int true "Listing ID"
// @Success 200 {object} CarDetailResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /cars/{id} [get]
func (h *CarHandler) Get(c echo.Context) error {
	carID, err := pathID(c)
	if err != nil {
		return err
	}

	car, err := h.carService.Get(c.Request().Context(), carID)
	if err != nil {
		return respondError(c, err)
	}

	h.carService.RecordView(c.Request().Context(), carID, h.optionalViewerID(c), c.RealIP())

	return c.JSON(http.StatusOK, CarDetailResponse{
		Car:       *car,
		MainImage: model.MainImage(car.Images),
	})
}

// Search godoc
// @Summary Search listings
// @Description All filters are optional and combined with AND. Newest first.
// @Tags cars
// @Produce json
// @Param q query string false "Free text over brand, model and description"
// @Param brand query int false "Brand ID"
// @Param model query int false "Model ID (ignored when inconsistent with brand)"
// @Param year_from query int false "Year lower bound"
// @Param year_to query int false "Year upper bound"
// @Param price_from query number false "Price lower bound"
// @Param price_to query number false "Price upper bound"
// @Param body_type query string false "Body type"
// @Param fuel_type query string false "Fuel type"
// @Param transmission query string false "Transmission"
// @Param condition query string false "Condition"
// @Param page query int false "Page, starting at 1"
// @Param per_page query int false "Page size, at most 100"
// @Success 200 {array} model.Car
// @Router /cars [get]
func (h *CarHandler) Search(c echo.Context) error {
	var req SearchRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	criteria := repository.SearchCriteria{
		Query:        strings.TrimSpace(req.Query),
		BrandID:      req.BrandID,
		ModelID:      req.ModelID,
		YearFrom:     req.YearFrom,
		YearTo:       req.YearTo,
		PriceFrom:    req.PriceFrom,
		PriceTo:      req.PriceTo,
		BodyType:     model.BodyType(req.BodyType),
		FuelType:     model.FuelType(req.FuelType),
		Transmission: model.Transmission(req.Transmission),
		Condition:    model.Condition(req.Condition),
	}

	cars, err := h.carService.Search(c.Request().Context(), criteria, req.Page, req.PerPage)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, cars)
}

// UploadImages godoc
// @Summary Upload listing images
// @Description Multipart form: files under "images", matching "is_main" values for main flags.
// @Tags cars
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param id path int true "Listing ID"
// @Success 201 {array} model.CarImage
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /cars/{id}/images [post]
func (h *CarHandler) UploadImages(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	carID, err := pathID(c)
	if err != nil {
		return err
	}

	form, err := c.MultipartForm()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "multipart form expected")
	}
	files := form.File["images"]
	flags := form.Value["is_main"]

	uploads := make([]service.ImageUpload, 0, len(files))
	for i, file := range files {
		isMain := i < len(flags) && flags[i] == "true"
		uploads = append(uploads, service.ImageUpload{File: file, IsMain: isMain})
	}

	images, err := h.carService.AttachImages(c.Request().Context(), carID, userID, uploads)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, images)
}

// optionalViewerID returns the viewer's user id when a valid bearer token is
// present. View recording works without one.
func (h *CarHandler) optionalViewerID(c echo.Context) *uint {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return nil
	}
	claims, err := h.jwtService.ValidateToken(strings.TrimPrefix(header, prefix))
	if err != nil {
		return nil
	}
	return &claims.UserID
}

func pathID(c echo.Context) (uint, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 1 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return uint(id), nil
}
