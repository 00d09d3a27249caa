package handler

import (
	"net/http"

	jwtv5 "github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	apperr "carmarket/internal/errors"
)

// respondError translates domain errors into the standard error payload.
func respondError(c echo.Context, err error) error {
	httpErr := apperr.MapErrorToHTTP(err)
	return c.JSON(httpErr.StatusCode, httpErr.ToErrorResponse())
}

// currentUserID extracts the authenticated user id set by the JWT middleware.
// The middleware parses with jwt/v5 map claims; our tokens carry user_id.
func currentUserID(c echo.Context) (uint, error) {
	token, ok := c.Get("user").(*jwtv5.Token)
	if !ok {
		return 0, echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}
	claims, ok := token.Claims.(jwtv5.MapClaims)
	if !ok {
		return 0, echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}
	userID, ok := claims["user_id"].(float64)
	if !ok || userID < 1 {
		return 0, echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}
	return uint(userID), nil
}
