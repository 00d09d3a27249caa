package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"carmarket/internal/service"
)

// UserHandler handles profile endpoints.
type UserHandler struct {
	userService service.UserService
	carService  service.CarService
}

// NewUserHandler creates a new user handler.
func NewUserHandler(userService service.UserService, carService service.CarService) *UserHandler {
	return &UserHandler{userService: userService, carService: carService}
}

// UpdateProfileRequest updates the optional profile fields.
type UpdateProfileRequest struct {
	Location string `json:"location" validate:"max=30"`
}

// GetProfile godoc
// @Summary Get a user's public profile
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} model.User
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/{id} [get]
func (h *UserHandler) GetProfile(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	user, err := h.userService.GetProfile(c.Request().Context(), uint(id))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

// Me godoc
// @Summary Get the authenticated user's profile
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.User
// @Failure 401 {object} errors.ErrorResponse
// @Router /me [get]
func (h *UserHandler) Me(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	user, err := h.userService.GetProfile(c.Request().Context(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateProfile godoc
// @Summary Update the authenticated user's profile
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateProfileRequest true "Profile fields"
// @Success 200 {object} model.User
// @Failure 401 {object} errors.ErrorResponse
// @Router /me/profile [put]
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.userService.UpdateLocation(c.Request().Context(), userID, req.Location); err != nil {
		return respondError(c, err)
	}
	user, err := h.userService.GetProfile(c.Request().Context(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

// MyCars godoc
// @Summary List the authenticated user's listings
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Car
// @Failure 401 {object} errors.ErrorResponse
// @Router /me/cars [get]
func (h *UserHandler) MyCars(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	cars, err := h.carService.ListByOwner(c.Request().Context(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, cars)
}
